package entity

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/artpar/sparrow/core/schema"
)

// Outcome classifies a finished construction.
type Outcome string

const (
	OutcomeOK      Outcome = "ok"
	OutcomeAborted Outcome = "aborted"
	OutcomeError   Outcome = "error"
)

// Observer receives one call per construction.
type Observer interface {
	ObserveConstruction(schemaName string, outcome Outcome, d time.Duration)
}

// Config holds initializer dependencies. All fields are optional.
type Config struct {
	Logger   zerolog.Logger
	Observer Observer

	// Labels is handed to every constructed entity for Label.
	Labels schema.LabelResolver
}

// Initializer constructs entities: before hooks, assignment, after hooks.
type Initializer struct {
	logger   zerolog.Logger
	observer Observer
	labels   schema.LabelResolver
}

// NewInitializer creates an initializer.
func NewInitializer(cfg Config) *Initializer {
	return &Initializer{
		logger:   cfg.Logger,
		observer: cfg.Observer,
		labels:   cfg.Labels,
	}
}

var defaultInitializer = NewInitializer(Config{Logger: zerolog.Nop()})

// New constructs an entity with no logging, metrics or labels.
func New(s *schema.Schema, bag map[string]any) (*Entity, error) {
	return defaultInitializer.Construct(s, bag)
}

// Construct freezes s if needed and builds an entity from bag. Keys of bag
// that name no field are ignored.
func (i *Initializer) Construct(s *schema.Schema, bag map[string]any) (*Entity, error) {
	start := time.Now()
	e, err := i.construct(s, bag)
	elapsed := time.Since(start)

	outcome := OutcomeOK
	switch {
	case IsConstructionAborted(err):
		outcome = OutcomeAborted
	case err != nil:
		outcome = OutcomeError
	}

	if i.observer != nil {
		i.observer.ObserveConstruction(s.Name(), outcome, elapsed)
	}

	if err != nil {
		i.logger.Debug().
			Err(err).
			Str("schema", s.Name()).
			Str("outcome", string(outcome)).
			Msg("construction failed")
		return nil, err
	}

	i.logger.Debug().
		Str("schema", s.Name()).
		Dur("elapsed", elapsed).
		Msg("entity constructed")
	return e, nil
}

func (i *Initializer) construct(s *schema.Schema, bag map[string]any) (*Entity, error) {
	accessors, err := s.Accessors()
	if err != nil {
		return nil, fmt.Errorf("construct %s: %w", s.Name(), err)
	}

	e := newEntity(s, accessors, i.labels)

	if err := runHooks(e, schema.PhaseBefore); err != nil {
		return nil, err
	}

	for _, a := range accessors {
		raw, ok := bag[a.Field.Name]
		if !ok {
			continue
		}
		if err := a.Set(e.values, raw); err != nil {
			return nil, fmt.Errorf("construct %s: %w", s.Name(), err)
		}
	}

	if err := runHooks(e, schema.PhaseAfter); err != nil {
		return nil, err
	}

	return e, nil
}

// runHooks runs the lineage hooks of a phase, stopping at the first error.
func runHooks(e *Entity, phase schema.Phase) error {
	hooks, err := e.schema.Hooks(phase)
	if err != nil {
		return fmt.Errorf("construct %s: %w", e.schema.Name(), err)
	}

	for n, h := range hooks {
		err := h(e)
		if err == nil {
			continue
		}
		if errors.Is(err, schema.ErrAbort) {
			return &ConstructionAbortedError{Schema: e.schema.Name(), Phase: phase, Err: err}
		}
		return fmt.Errorf("construct %s: %s hook %d: %w", e.schema.Name(), phase, n, err)
	}
	return nil
}
