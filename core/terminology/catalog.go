// Package terminology provides human-readable labels for schema fields.
// Labels live in rails-i18n shaped YAML files: the top-level key is the
// locale and nested maps flatten into dotted keys.
//
//	zh-CN:
//	  sparrow:
//	    sparrow_test:
//	      normal:
//	        label:
//	          first_name: 名
//	    base:
//	      label:
//	        invalid_label: 无效的内容
package terminology

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/artpar/sparrow/core/convention"
	"github.com/artpar/sparrow/core/schema"
)

// DefaultNamespace is the first segment of every label key.
const DefaultNamespace = "sparrow"

// Lookup outcomes reported to the Observer.
const (
	LookupScoped  = "scoped"
	LookupBase    = "base"
	LookupMissing = "missing"
)

// Observer receives one call per ResolveLabel.
type Observer interface {
	ObserveLabelLookup(outcome string)
}

// ReloadObserver is implemented by observers that also track reloads.
type ReloadObserver interface {
	ObserveReload(source string, err error)
}

// Option configures a Catalog.
type Option func(*Catalog)

// WithNamespace sets the first key segment used by ResolveLabel.
func WithNamespace(ns string) Option {
	return func(c *Catalog) {
		c.namespace = ns
	}
}

// WithLogger sets the catalog logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Catalog) {
		c.logger = logger
	}
}

// WithObserver sets the lookup observer.
func WithObserver(o Observer) Option {
	return func(c *Catalog) {
		c.observer = o
	}
}

// Catalog holds translations per locale. It is safe for concurrent use and
// may be reloaded while serving lookups.
type Catalog struct {
	mu sync.RWMutex

	locale    string
	namespace string

	// entries by locale, then flattened key
	entries map[string]map[string]string

	logger   zerolog.Logger
	observer Observer
	debounce time.Duration
}

// NewCatalog creates an empty catalog serving locale.
func NewCatalog(locale string, opts ...Option) (*Catalog, error) {
	tag, err := canonicalLocale(locale)
	if err != nil {
		return nil, err
	}

	c := &Catalog{
		locale:    tag,
		namespace: DefaultNamespace,
		entries:   make(map[string]map[string]string),
		logger:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func canonicalLocale(locale string) (string, error) {
	tag, err := language.Parse(locale)
	if err != nil {
		return "", fmt.Errorf("invalid locale %q: %w", locale, err)
	}
	return tag.String(), nil
}

// Locale returns the locale lookups are served in.
func (c *Catalog) Locale() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.locale
}

// SetLocale changes the locale lookups are served in.
func (c *Catalog) SetLocale(locale string) error {
	tag, err := canonicalLocale(locale)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.locale = tag
	c.mu.Unlock()
	return nil
}

// Namespace returns the first key segment used by ResolveLabel.
func (c *Catalog) Namespace() string {
	return c.namespace
}

// Locales returns the locales with at least one entry, sorted.
func (c *Catalog) Locales() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	locales := make([]string, 0, len(c.entries))
	for l := range c.entries {
		locales = append(locales, l)
	}
	sort.Strings(locales)
	return locales
}

// Len returns the number of entries of the current locale.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries[c.locale])
}

// Add merges a nested translation tree into locale.
func (c *Catalog) Add(locale string, tree map[string]any) error {
	tag, err := canonicalLocale(locale)
	if err != nil {
		return err
	}

	flat := make(map[string]string)
	flatten("", tree, flat)

	c.mu.Lock()
	defer c.mu.Unlock()
	merge(c.entries, tag, flat)
	return nil
}

// LoadFile merges one locale file.
func (c *Catalog) LoadFile(path string) error {
	entries := make(map[string]map[string]string)
	if err := readFile(path, entries); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for locale, flat := range entries {
		merge(c.entries, locale, flat)
	}
	return nil
}

// LoadDir merges every *.yml and *.yaml file under dir.
func (c *Catalog) LoadDir(dir string) error {
	entries, err := readDir(dir)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for locale, flat := range entries {
		merge(c.entries, locale, flat)
	}

	c.logger.Debug().Str("dir", dir).Int("locales", len(entries)).Msg("locales loaded")
	return nil
}

// Reload replaces every entry with the contents of dir. On error the current
// entries are kept.
func (c *Catalog) Reload(dir string) error {
	entries, err := readDir(dir)
	if ro, ok := c.observer.(ReloadObserver); ok {
		ro.ObserveReload("locales", err)
	}
	if err != nil {
		return fmt.Errorf("reload locales: %w", err)
	}

	c.mu.Lock()
	c.entries = entries
	c.mu.Unlock()

	c.logger.Info().Str("dir", dir).Int("locales", len(entries)).Msg("locales reloaded")
	return nil
}

// Exists reports whether key has a translation in the current locale.
func (c *Catalog) Exists(key string) bool {
	_, ok := c.lookup(key)
	return ok
}

// Translate returns the text of key in the current locale with %{var}
// placeholders replaced from vars.
func (c *Catalog) Translate(key string, vars map[string]any) (string, error) {
	text, ok := c.lookup(key)
	if !ok {
		return "", &MissingLabelError{Locale: c.Locale(), Key: key}
	}
	return interpolate(text, vars), nil
}

// ResolveLabel looks up <namespace>.<scope>.<kind>.<name>, then
// <namespace>.base.<kind>.<name>. The scope is q.Scope, the schema's scope
// override, or the scope derived from the schema name.
func (c *Catalog) ResolveLabel(s *schema.Schema, name string, q schema.LabelQuery) (string, error) {
	scope := q.Scope
	if scope == "" {
		scope = convention.ScopeOf(s)
	}
	scoped, base := convention.LabelKeys(c.namespace, scope, q.KindOrDefault(), name)

	if text, ok := c.lookup(scoped); ok {
		c.observe(LookupScoped)
		return interpolate(text, q.Vars), nil
	}
	if text, ok := c.lookup(base); ok {
		c.observe(LookupBase)
		return interpolate(text, q.Vars), nil
	}

	c.observe(LookupMissing)
	c.logger.Debug().
		Str("schema", s.Name()).
		Str("field", name).
		Str("key", scoped).
		Msg("label missing")
	return "", &MissingLabelError{Locale: c.Locale(), Key: base}
}

func (c *Catalog) lookup(key string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	text, ok := c.entries[c.locale][key]
	return text, ok
}

func (c *Catalog) observe(outcome string) {
	if c.observer != nil {
		c.observer.ObserveLabelLookup(outcome)
	}
}

var _ schema.LabelResolver = (*Catalog)(nil)

var placeholder = regexp.MustCompile(`%\{(\w+)\}`)

// interpolate replaces %{name} with vars[name]. Unknown names are kept.
func interpolate(text string, vars map[string]any) string {
	if len(vars) == 0 || !strings.Contains(text, "%{") {
		return text
	}
	return placeholder.ReplaceAllStringFunc(text, func(m string) string {
		name := m[2 : len(m)-1]
		if v, ok := vars[name]; ok {
			return fmt.Sprint(v)
		}
		return m
	})
}

func flatten(prefix string, tree map[string]any, out map[string]string) {
	for k, v := range tree {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch val := v.(type) {
		case map[string]any:
			flatten(key, val, out)
		case nil:
		default:
			out[key] = fmt.Sprint(val)
		}
	}
}

func merge(dst map[string]map[string]string, locale string, flat map[string]string) {
	if dst[locale] == nil {
		dst[locale] = make(map[string]string, len(flat))
	}
	for k, v := range flat {
		dst[locale][k] = v
	}
}

func readFile(path string, into map[string]map[string]string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read file %s: %w", path, err)
	}

	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("%s: parse yaml: %w", path, err)
	}

	for locale, v := range doc {
		tag, err := canonicalLocale(locale)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		tree, ok := v.(map[string]any)
		if !ok {
			return fmt.Errorf("%s: locale %q is not a map", path, locale)
		}
		flat := make(map[string]string)
		flatten("", tree, flat)
		merge(into, tag, flat)
	}
	return nil
}

func readDir(dir string) (map[string]map[string]string, error) {
	entries := make(map[string]map[string]string)

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !isLocaleFile(path) {
			return nil
		}
		return readFile(path, entries)
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func isLocaleFile(path string) bool {
	ext := filepath.Ext(path)
	return ext == ".yml" || ext == ".yaml"
}
