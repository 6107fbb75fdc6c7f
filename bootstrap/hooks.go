// Package bootstrap provides built-in functions for "call:" hooks.
// Built-ins cover the common construction-time chores:
// - primary key generation (before initialize)
// - timestamps (before or after initialize)
// - required primary key checks (after initialize)
package bootstrap

import (
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/artpar/sparrow/core/coerce"
	"github.com/artpar/sparrow/core/registry"
	"github.com/artpar/sparrow/core/schema"
)

// Built-in function names usable from schema YAML.
const (
	FuncGenerateID        = "generate_id"
	FuncTouchTimestamps   = "touch_timestamps"
	FuncRequirePrimaryKey = "require_primary_key"
)

// Timestamp fields maintained by touch_timestamps.
const (
	CreatedAtField = "created_at"
	UpdatedAtField = "updated_at"
)

// HookDeps supplies the clock and ID source of the built-in functions.
type HookDeps struct {
	Logger zerolog.Logger

	// Now returns the current time (default: time.Now in UTC).
	Now func() time.Time

	// NewID returns a fresh identifier (default: a UUID v4 string).
	NewID func() string
}

// RegisterBuiltinFunctions registers the built-in functions with fns.
func RegisterBuiltinFunctions(fns *registry.Functions, deps HookDeps) {
	if deps.Now == nil {
		deps.Now = func() time.Time { return time.Now().UTC() }
	}
	if deps.NewID == nil {
		deps.NewID = func() string { return uuid.New().String() }
	}
	logger := deps.Logger

	// generate_id - fills a blank primary key with a fresh identifier
	fns.Register(FuncGenerateID, func(r schema.Record) error {
		pk := r.Schema().PrimaryKey()
		if pk == "" || !coerce.IsBlank(r.Get(pk)) {
			return nil
		}
		id := deps.NewID()
		logger.Debug().
			Str("schema", r.Schema().Name()).
			Str("field", pk).
			Str("id", id).
			Msg("generated primary key")
		return r.Set(pk, id)
	})

	// touch_timestamps - sets created_at when blank and updated_at always
	fns.Register(FuncTouchTimestamps, func(r schema.Record) error {
		now := deps.Now()
		if _, ok := r.Schema().Lookup(CreatedAtField); ok && r.Get(CreatedAtField) == nil {
			if err := r.Set(CreatedAtField, now); err != nil {
				return err
			}
		}
		if _, ok := r.Schema().Lookup(UpdatedAtField); ok {
			return r.Set(UpdatedAtField, now)
		}
		return nil
	})

	// require_primary_key - aborts construction without a primary key value
	fns.Register(FuncRequirePrimaryKey, schema.AbortUnless("primary key is required", func(r schema.Record) bool {
		pk := r.Schema().PrimaryKey()
		return pk != "" && !coerce.IsBlank(r.Get(pk))
	}))

	logger.Debug().
		Int("count", 3).
		Msg("built-in functions registered")
}
