// Package bootstrap wires all dependencies: logging, metrics, the function
// set, the label catalog, the schema registry and the entity initializer.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/artpar/sparrow/config"
	"github.com/artpar/sparrow/core/entity"
	"github.com/artpar/sparrow/core/metrics"
	"github.com/artpar/sparrow/core/registry"
	"github.com/artpar/sparrow/core/schema"
	"github.com/artpar/sparrow/core/terminology"
)

// App represents the wired application. Config is replaced on every applied
// reload; read it through CurrentConfig while a holder is watching.
type App struct {
	Config      *config.Config
	Logger      zerolog.Logger
	Metrics     *metrics.Collector
	Functions   *registry.Functions
	Registry    *registry.Registry
	Catalog     *terminology.Catalog
	Initializer *entity.Initializer

	holder *config.Holder
	mu     sync.RWMutex
}

// Config provides optional configuration for application initialization.
type Config struct {
	// Config is the loaded configuration. Ignored when Holder is set.
	Config *config.Config

	// Holder enables config hot reload.
	Holder *config.Holder

	// LogOutput receives log output (default: stderr).
	LogOutput io.Writer

	// MetricsRegisterer registers the collector when metrics are enabled
	// (default: the global Prometheus registerer).
	MetricsRegisterer prometheus.Registerer

	// Functions are registered after the built-ins, before schemas load.
	Functions map[string]schema.Hook

	// Hooks configures the built-in functions' clock and ID source.
	Hooks HookDeps
}

// New creates and initializes the application.
func New(cfg *config.Config) (*App, error) {
	return NewWithConfig(Config{Config: cfg})
}

// NewWithConfig creates and initializes the application with custom configuration.
func NewWithConfig(c Config) (*App, error) {
	cfg := c.Config
	if c.Holder != nil {
		cfg = c.Holder.Get()
	}
	if cfg == nil {
		return nil, errors.New("config is required")
	}

	out := c.LogOutput
	if out == nil {
		out = os.Stderr
	}
	logger := SetupLogger(cfg.Logging, out)

	logger.Debug().Str("schemas_dir", cfg.SchemasDir).Msg("initializing sparrow")

	a := &App{
		Config: cfg,
		Logger: logger,
		holder: c.Holder,
	}

	// Initialize metrics if enabled
	if cfg.Metrics.Enabled {
		reg := c.MetricsRegisterer
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		a.Metrics = metrics.NewWithRegistry(reg)
		logger.Debug().Msg("prometheus metrics enabled")
	}

	a.Functions = registry.NewFunctions()
	hooks := c.Hooks
	hooks.Logger = logger
	RegisterBuiltinFunctions(a.Functions, hooks)
	for name, fn := range c.Functions {
		a.Functions.Register(name, fn)
	}

	if err := a.initCatalog(); err != nil {
		return nil, fmt.Errorf("init catalog: %w", err)
	}

	if err := a.initRegistry(); err != nil {
		return nil, fmt.Errorf("init registry: %w", err)
	}

	a.initInitializer()

	if a.holder != nil {
		if a.Metrics != nil {
			a.holder.SetObserver(a.Metrics)
		}
		a.holder.OnChange(a.applyConfig)
	}

	return a, nil
}

func (a *App) initCatalog() error {
	cfg := a.Config.Locales

	opts := []terminology.Option{
		terminology.WithNamespace(cfg.Namespace),
		terminology.WithLogger(a.Logger),
	}
	if a.Metrics != nil {
		opts = append(opts, terminology.WithObserver(a.Metrics))
	}

	catalog, err := terminology.NewCatalog(cfg.Default, opts...)
	if err != nil {
		return err
	}

	if cfg.Dir != "" {
		if err := catalog.LoadDir(cfg.Dir); err != nil {
			return fmt.Errorf("load locales: %w", err)
		}
		a.Logger.Debug().
			Str("dir", cfg.Dir).
			Strs("locales", catalog.Locales()).
			Int("labels", catalog.Len()).
			Msg("locales loaded")
	}

	a.Catalog = catalog
	return nil
}

func (a *App) initRegistry() error {
	a.Registry = registry.NewWithConfig(registry.Config{
		Logger:    a.Logger,
		Functions: a.Functions,
	})

	if err := a.Registry.LoadDir(a.Config.SchemasDir); err != nil {
		return err
	}

	a.Logger.Debug().
		Int("count", len(a.Registry.Names())).
		Msg("schemas loaded")
	return nil
}

func (a *App) initInitializer() {
	cfg := entity.Config{
		Logger: a.Logger,
		Labels: a.Catalog,
	}
	if a.Metrics != nil {
		cfg.Observer = a.Metrics
	}
	a.Initializer = entity.NewInitializer(cfg)
}

// Schema returns a registered schema by name.
func (a *App) Schema(name string) (*schema.Schema, error) {
	s, ok := a.Registry.Get(name)
	if !ok {
		return nil, fmt.Errorf("schema %q not registered", name)
	}
	return s, nil
}

// Construct builds an entity of the named schema from bag.
func (a *App) Construct(name string, bag map[string]any) (*entity.Entity, error) {
	s, err := a.Schema(name)
	if err != nil {
		return nil, err
	}
	return a.Initializer.Construct(s, bag)
}

// Label resolves the label of a field of the named schema.
func (a *App) Label(name, field string, q schema.LabelQuery) (string, error) {
	s, err := a.Schema(name)
	if err != nil {
		return "", err
	}
	return a.Catalog.ResolveLabel(s, field, q)
}

// Watch starts hot reload of locale files (when locales.watch is set) and of
// the config file (when the app has a holder). Watchers stop with ctx.
func (a *App) Watch(ctx context.Context) error {
	cfg := a.CurrentConfig()
	if cfg.Locales.Watch {
		if err := a.Catalog.Watch(ctx, cfg.Locales.Dir); err != nil {
			return fmt.Errorf("watch locales: %w", err)
		}
		a.Logger.Info().Str("dir", cfg.Locales.Dir).Msg("watching locale files for changes")
	}

	if a.holder != nil {
		if err := a.holder.WatchFile(); err != nil {
			return fmt.Errorf("watch config: %w", err)
		}
		a.holder.WatchSignals()
	}
	return nil
}

// Run starts the watchers and blocks until ctx is done or the process
// receives SIGINT or SIGTERM.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if err := a.Watch(ctx); err != nil {
		return err
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case <-ctx.Done():
	case sig := <-quit:
		a.Logger.Info().Str("signal", sig.String()).Msg("shutting down")
	}

	return a.Shutdown()
}

// Shutdown stops the config watchers. Locale watchers stop with the context
// passed to Watch.
func (a *App) Shutdown() error {
	if a.holder != nil {
		a.holder.Stop()
	}
	a.Logger.Debug().Msg("shutdown complete")
	return nil
}

// applyConfig applies the reloadable settings of a new configuration.
func (a *App) applyConfig(cfg *config.Config) {
	if level, err := zerolog.ParseLevel(cfg.Logging.Level); err == nil {
		zerolog.SetGlobalLevel(level)
	}

	if cfg.Locales.Default != a.Catalog.Locale() {
		if err := a.Catalog.SetLocale(cfg.Locales.Default); err != nil {
			a.Logger.Error().Err(err).Msg("switch locale failed")
			return
		}
		a.Logger.Info().Str("locale", a.Catalog.Locale()).Msg("locale switched")
	}

	a.mu.Lock()
	a.Config = cfg
	a.mu.Unlock()
}

// CurrentConfig returns the most recently applied configuration.
func (a *App) CurrentConfig() *config.Config {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.Config
}

// SetupLogger builds the logger described by cfg, writing to w.
func SetupLogger(cfg config.LoggingConfig, w io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.Format == "console" {
		output := zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
		return zerolog.New(output).With().Timestamp().Logger()
	}

	return zerolog.New(w).With().Timestamp().Logger()
}
