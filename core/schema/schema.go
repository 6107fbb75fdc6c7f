package schema

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
)

// Schema is the definition of one entity type.
type Schema struct {
	mu sync.Mutex

	name  string
	scope string

	// parent is a read-only back-reference used for lookup.
	parent *Schema

	// fields are declared directly on this schema, in declaration order.
	fields []Field

	primaryKey string

	before []Hook
	after  []Hook

	// errs collects declaration failures from chained Field calls.
	errs []error

	frozen    atomic.Bool
	effective []Field
	accessors map[string]*Accessor
	ordered   []*Accessor
}

// Option configures a schema at creation.
type Option func(*Schema)

// Extends sets the parent schema.
func Extends(parent *Schema) Option {
	return func(s *Schema) {
		s.parent = parent
	}
}

// WithScope overrides the label scope path (e.g. "sparrow_test.normal").
func WithScope(scope string) Option {
	return func(s *Schema) {
		s.scope = scope
	}
}

// New creates an empty, mutable schema.
func New(name string, opts ...Option) *Schema {
	s := &Schema{name: name}
	for _, opt := range opts {
		opt(s)
	}
	if name == "" {
		s.errs = append(s.errs, errors.New("schema name is required"))
	}
	return s
}

// Name returns the schema name.
func (s *Schema) Name() string {
	return s.name
}

// Scope returns the label scope override, or "" when none was set.
func (s *Schema) Scope() string {
	return s.scope
}

// Parent returns the parent schema, or nil.
func (s *Schema) Parent() *Schema {
	return s.parent
}

// SetParent links s under p. It fails once s is frozen. Loops are not
// checked here; they surface from EffectiveFields and Freeze.
func (s *Schema) SetParent(p *Schema) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.frozen.Load() {
		return &DeclarationError{Schema: s.name, Reason: "cannot change parent", Err: ErrFrozen}
	}
	s.parent = p
	return nil
}

// Declare appends a field definition. A field becomes the primary key when
// declared with PrimaryKey(), or when it is named "id" and the lineage has no
// primary key yet.
func (s *Schema) Declare(name string, typ FieldType, opts ...FieldOption) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.frozen.Load() {
		return &DeclarationError{Schema: s.name, Field: name, Reason: "cannot declare field", Err: ErrFrozen}
	}
	if !isValidIdentifier(name) {
		return &DeclarationError{Schema: s.name, Field: name, Reason: "field name is not a valid identifier"}
	}

	f := Field{Name: name, Type: typ}
	if !typ.Known() {
		f.Type = FieldTypeOpaque
	}
	for _, opt := range opts {
		opt(&f)
	}

	if f.PrimaryKey || (s.lineagePrimaryKey() == "" && name == DefaultPrimaryKeyName) {
		s.primaryKey = name
	}

	s.fields = append(s.fields, f)
	return nil
}

// Field declares a field and returns s for chaining. Failures are collected
// and reported by Err and Freeze.
func (s *Schema) Field(name string, typ FieldType, opts ...FieldOption) *Schema {
	if err := s.Declare(name, typ, opts...); err != nil {
		s.mu.Lock()
		s.errs = append(s.errs, err)
		s.mu.Unlock()
	}
	return s
}

// Fields declares every name with the same type and options, in order.
func (s *Schema) Fields(typ FieldType, names []string, opts ...FieldOption) *Schema {
	for _, name := range names {
		s.Field(name, typ, opts...)
	}
	return s
}

// OwnFields returns the fields declared directly on s, duplicates included.
func (s *Schema) OwnFields() []Field {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Field, len(s.fields))
	copy(out, s.fields)
	return out
}

// OwnPrimaryKey returns the primary key declared on s itself.
func (s *Schema) OwnPrimaryKey() string {
	return s.primaryKey
}

// PrimaryKey returns the primary key of s or, when s declares none, of its
// nearest ancestor.
func (s *Schema) PrimaryKey() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lineagePrimaryKey()
}

// lineagePrimaryKey walks up from s. It stops on a loop instead of failing,
// since declarations may run before the lineage is complete.
func (s *Schema) lineagePrimaryKey() string {
	seen := make(map[*Schema]bool)
	for cur := s; cur != nil && !seen[cur]; cur = cur.parent {
		if cur.primaryKey != "" {
			return cur.primaryKey
		}
		seen[cur] = true
	}
	return ""
}

// Lineage returns the ancestor chain root first, ending with s.
func (s *Schema) Lineage() ([]*Schema, error) {
	var chain []*Schema
	seen := make(map[*Schema]bool)

	for cur := s; cur != nil; cur = cur.parent {
		if seen[cur] {
			return nil, newCycleError(s, chain, cur)
		}
		seen[cur] = true
		chain = append(chain, cur)
	}

	// Reverse to root-first.
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain, nil
}

// EffectiveFields returns the inheritance-resolved field list: parent fields
// first, each name once at its first position with its latest definition.
func (s *Schema) EffectiveFields() ([]Field, error) {
	if s.frozen.Load() {
		out := make([]Field, len(s.effective))
		copy(out, s.effective)
		return out, nil
	}

	lineage, err := s.Lineage()
	if err != nil {
		return nil, err
	}
	return mergeFields(lineage), nil
}

// FieldNames returns the effective field names in order.
func (s *Schema) FieldNames() ([]string, error) {
	fields, err := s.EffectiveFields()
	if err != nil {
		return nil, err
	}
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Name
	}
	return names, nil
}

// Lookup returns the effective definition of a field.
func (s *Schema) Lookup(name string) (Field, bool) {
	if s.frozen.Load() {
		a, ok := s.accessors[name]
		if !ok {
			return Field{}, false
		}
		return a.Field, true
	}

	fields, err := s.EffectiveFields()
	if err != nil {
		return Field{}, false
	}
	for _, f := range fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

func mergeFields(lineage []*Schema) []Field {
	var merged []Field
	index := make(map[string]int)

	for _, sc := range lineage {
		for _, f := range sc.fields {
			if i, ok := index[f.Name]; ok {
				merged[i] = f
				continue
			}
			index[f.Name] = len(merged)
			merged = append(merged, f)
		}
	}
	return merged
}

// BeforeInitialize registers hooks run before construction-time assignment.
func (s *Schema) BeforeInitialize(hooks ...Hook) *Schema {
	return s.addHooks(PhaseBefore, hooks)
}

// AfterInitialize registers hooks run after construction-time assignment.
func (s *Schema) AfterInitialize(hooks ...Hook) *Schema {
	return s.addHooks(PhaseAfter, hooks)
}

func (s *Schema) addHooks(phase Phase, hooks []Hook) *Schema {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.frozen.Load() {
		s.errs = append(s.errs, &DeclarationError{Schema: s.name, Reason: fmt.Sprintf("cannot add %s hook", phase), Err: ErrFrozen})
		return s
	}
	for _, h := range hooks {
		if h == nil {
			continue
		}
		if phase == PhaseBefore {
			s.before = append(s.before, h)
		} else {
			s.after = append(s.after, h)
		}
	}
	return s
}

// Hooks returns the hooks of a phase for the whole lineage, ancestors first,
// each schema's hooks in registration order.
func (s *Schema) Hooks(phase Phase) ([]Hook, error) {
	lineage, err := s.Lineage()
	if err != nil {
		return nil, err
	}

	var hooks []Hook
	for _, sc := range lineage {
		if phase == PhaseBefore {
			hooks = append(hooks, sc.before...)
		} else {
			hooks = append(hooks, sc.after...)
		}
	}
	return hooks, nil
}

// Err returns the declaration errors collected on s.
func (s *Schema) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return errors.Join(s.errs...)
}

// Frozen reports whether Freeze has completed.
func (s *Schema) Frozen() bool {
	return s.frozen.Load()
}

// Freeze validates s and its ancestors, compiles the accessor table and makes
// the schema read-only. It is idempotent and safe for concurrent use.
func (s *Schema) Freeze() error {
	if s.frozen.Load() {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.frozen.Load() {
		return nil
	}

	lineage, err := s.Lineage()
	if err != nil {
		return err
	}
	for _, ancestor := range lineage[:len(lineage)-1] {
		if err := ancestor.Freeze(); err != nil {
			return fmt.Errorf("freeze %s: parent %s: %w", s.name, ancestor.name, err)
		}
	}
	if len(s.errs) > 0 {
		return fmt.Errorf("freeze %s: %w", s.name, errors.Join(s.errs...))
	}

	s.effective = mergeFields(lineage)
	s.accessors, s.ordered = compile(s.effective)
	s.frozen.Store(true)
	return nil
}

// String returns the schema name.
func (s *Schema) String() string {
	return s.name
}
