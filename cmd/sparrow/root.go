package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/artpar/sparrow/bootstrap"
	"github.com/artpar/sparrow/config"
	"github.com/artpar/sparrow/core/formatter"
)

// rootOptions holds the global flags.
type rootOptions struct {
	cfgFile    string
	schemasDir string
	localesDir string
	locale     string
	logLevel   string
}

// newRootCmd builds the command tree.
func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "sparrow",
		Short: "Typed entity schemas with coercion, defaults and hooks",
		Long: `Sparrow loads entity schemas from YAML, coerces loosely typed
attribute bags into typed entities and resolves field labels from
locale files.

Quick start:
  sparrow validate                 # Load config, schemas and locales
  sparrow describe Shop::Account   # Show effective fields
  sparrow new Shop::Account --set email=a@example.com

Configuration is read from sparrow.yaml when present, otherwise from
SPARROW_* environment variables.`,
		SilenceUsage: true,
	}

	// Global flags
	flags := cmd.PersistentFlags()
	flags.StringVarP(&opts.cfgFile, "config", "c", config.DefaultPath, "config file path")
	flags.StringVar(&opts.schemasDir, "schemas", "", "schema directory (overrides config)")
	flags.StringVar(&opts.localesDir, "locales", "", "locale directory (overrides config)")
	flags.StringVar(&opts.locale, "locale", "", "active locale (overrides config)")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level (overrides config)")

	cmd.AddCommand(
		newValidateCmd(opts),
		newDescribeCmd(opts),
		newNewCmd(opts),
		newLabelCmd(opts),
		newVersionCmd(),
	)

	return cmd
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads the config file (or the environment) and applies the
// global flag overrides.
func (o *rootOptions) loadConfig() (*config.Config, error) {
	cfg, err := config.LoadWithFallback(o.cfgFile)
	if err != nil {
		return nil, err
	}
	o.apply(cfg)
	return cfg, nil
}

func (o *rootOptions) apply(cfg *config.Config) {
	if o.schemasDir != "" {
		cfg.SchemasDir = o.schemasDir
	}
	if o.localesDir != "" {
		cfg.Locales.Dir = o.localesDir
	}
	if o.locale != "" {
		cfg.Locales.Default = o.locale
	}
	if o.logLevel != "" {
		cfg.Logging.Level = o.logLevel
	}
}

// loadApp wires an application for a one-shot command.
func (o *rootOptions) loadApp(cmd *cobra.Command) (*bootstrap.App, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, err
	}
	return bootstrap.NewWithConfig(bootstrap.Config{
		Config:    cfg,
		LogOutput: cmd.ErrOrStderr(),
	})
}

// outputFormatter returns the formatter named by the -o flag.
func outputFormatter(name string) (formatter.Formatter, error) {
	if name == "" {
		return formatter.Default(), nil
	}
	f, ok := formatter.Get(name)
	if !ok {
		return nil, fmt.Errorf("unknown output format %q (available: %s)", name, strings.Join(formatter.List(), ", "))
	}
	return f, nil
}

// parseAssignments parses repeated key=value flags.
func parseAssignments(pairs []string) (map[string]any, error) {
	out := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid assignment %q: want key=value", pair)
		}
		out[key] = value
	}
	return out, nil
}

const (
	checkMark = "\033[32m✓\033[0m"
	crossMark = "\033[31m✗\033[0m"
)

