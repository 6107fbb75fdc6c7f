package entity

import (
	"bytes"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artpar/sparrow/core/coerce"
	"github.com/artpar/sparrow/core/schema"
)

// threeSchema has a before hook defaulting id and an after hook defaulting
// name.
func threeSchema() *schema.Schema {
	return schema.New("Normal").
		Field("id", schema.FieldTypeInteger).
		Field("name", schema.FieldTypeString).
		Field("tags", schema.FieldTypeArray, schema.Default([]any{})).
		BeforeInitialize(func(r schema.Record) error {
			if r.Get("id") == nil {
				return r.Set("id", -999)
			}
			return nil
		}).
		AfterInitialize(func(r schema.Record) error {
			if r.Get("name") == nil {
				return r.Set("name", "Three")
			}
			return nil
		})
}

func TestConstruct_EndToEnd(t *testing.T) {
	s := threeSchema()

	t.Run("empty bag", func(t *testing.T) {
		e, err := New(s, map[string]any{})
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"id": int64(-999), "name": "Three", "tags": []any{}}, e.Attributes())
	})

	t.Run("explicit values", func(t *testing.T) {
		e, err := New(s, map[string]any{"id": 123, "name": "Four"})
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"id": int64(123), "name": "Four", "tags": []any{}}, e.Attributes())
	})

	t.Run("encoded array", func(t *testing.T) {
		e, err := New(s, map[string]any{"tags": `["x","y"]`})
		require.NoError(t, err)
		assert.Equal(t, []any{"x", "y"}, e.Get("tags"))
	})

	t.Run("invalid encoded array", func(t *testing.T) {
		e, err := New(s, map[string]any{"tags": "bad"})
		require.Error(t, err)
		assert.Nil(t, e)
		assert.ErrorIs(t, err, coerce.ErrDecode)
		assert.False(t, IsConstructionAborted(err))

		var decodeErr *coerce.DecodeError
		require.ErrorAs(t, err, &decodeErr)
		assert.Equal(t, coerce.Array, decodeErr.Kind)
	})

	assert.True(t, s.Frozen(), "first construction freezes the schema")
}

func TestConstruct_Normal(t *testing.T) {
	s := normalSchema()

	t.Run("hooks fill blanks", func(t *testing.T) {
		e, err := New(s, nil)
		require.NoError(t, err)
		assert.Equal(t, int64(-999), e.Get("id"))
		assert.Equal(t, "三", e.Get("first_name"))
		assert.Equal(t, "张", e.Get("last_name"))
	})

	t.Run("hooks skip given values", func(t *testing.T) {
		e, err := New(s, map[string]any{"id": 123, "first_name": "四", "last_name": "李"})
		require.NoError(t, err)
		assert.Equal(t, int64(123), e.Get("id"))
		assert.Equal(t, "四", e.Get("first_name"))
		assert.Equal(t, "李", e.Get("last_name"))
	})

	t.Run("unknown keys are ignored", func(t *testing.T) {
		e, err := New(s, map[string]any{"id": 123, "type": 456})
		require.NoError(t, err)
		assert.Equal(t, int64(123), e.Get("id"))
		_, ok := e.Lookup("type")
		assert.False(t, ok)
		assert.NotContains(t, e.Attributes(), "type")
	})

	t.Run("float", func(t *testing.T) {
		e, err := New(s, map[string]any{"weight": 66.2})
		require.NoError(t, err)
		assert.Equal(t, 66.2, e.Get("weight"))

		e, err = New(s, map[string]any{"weight": "100"})
		require.NoError(t, err)
		assert.Equal(t, 100.0, e.Get("weight"))
	})

	t.Run("array", func(t *testing.T) {
		names := []any{"李四", "王五", "赵六"}

		e, err := New(s, map[string]any{"used_names": names})
		require.NoError(t, err)
		assert.Equal(t, names, e.Get("used_names"))

		e, err = New(s, map[string]any{"used_names": `["李四","王五","赵六"]`})
		require.NoError(t, err)
		assert.Equal(t, names, e.Get("used_names"))

		e, err = New(s, map[string]any{"used_names": 10000})
		require.NoError(t, err)
		assert.Equal(t, []any{}, e.Get("used_names"))

		_, err = New(s, map[string]any{"used_names": "not valid string can be parsed"})
		var syntaxErr *json.SyntaxError
		assert.ErrorAs(t, err, &syntaxErr)
	})

	t.Run("datetime", func(t *testing.T) {
		now := time.Now()
		e, err := New(s, map[string]any{"updated_at": now})
		require.NoError(t, err)
		assert.Equal(t, now, e.Get("updated_at"))

		e, err = New(s, map[string]any{"updated_at": "1999-12-31"})
		require.NoError(t, err)
		got, ok := Value[time.Time](e, "updated_at")
		require.True(t, ok)
		assert.Equal(t, 1999, got.Year())
		assert.Equal(t, time.December, got.Month())
		assert.Equal(t, 31, got.Day())

		e, err = New(s, map[string]any{"updated_at": struct{}{}})
		require.NoError(t, err)
		assert.Equal(t, defaultTimestamp, e.Get("updated_at"))
	})

	t.Run("boolean", func(t *testing.T) {
		tests := []struct {
			name string
			bag  map[string]any
			want any
		}{
			{"true", map[string]any{"married": true}, true},
			{"false", map[string]any{"married": false}, false},
			{"absent", map[string]any{}, nil},
			{"present text", map[string]any{"married": "yes"}, true},
			{"blank text", map[string]any{"married": ""}, false},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				e, err := New(s, tt.bag)
				require.NoError(t, err)
				assert.Equal(t, tt.want, e.Get("married"))
			})
		}
	})

	t.Run("attributes", func(t *testing.T) {
		e, err := New(s, nil)
		require.NoError(t, err)

		attrs := e.Attributes()
		assert.Equal(t, int64(-999), attrs["id"])
		assert.Equal(t, "三", attrs["first_name"])
		assert.Equal(t, "张", attrs["last_name"])
		assert.Equal(t, []any{}, attrs["used_names"])
		assert.Nil(t, attrs["married"])
		assert.Equal(t, defaultTimestamp, attrs["created_at"])
		assert.Equal(t, defaultTimestamp, attrs["updated_at"])
		assert.Len(t, attrs, 8)
	})
}

func TestConstruct_Child(t *testing.T) {
	child := childSchema(normalSchema())

	e, err := New(child, map[string]any{"age": 24})
	require.NoError(t, err)
	assert.Equal(t, "三", e.Get("first_name"))
	assert.Equal(t, int64(-999), e.Get("id"))
	assert.Equal(t, int64(24), e.Get("age"))

	e, err = New(child, map[string]any{"id": 100, "used_names": "李四"})
	require.NoError(t, err)
	assert.Equal(t, int64(100), e.Get("id"))
	assert.Equal(t, "李四", e.Get("used_names"))
	assert.Equal(t, int64(100), e.ID())
}

func TestConstruct_DefaultIsNotShared(t *testing.T) {
	s := schema.New("seeded").Field("tags", schema.FieldTypeArray, schema.Default([]any{"seed"}))

	first, err := New(s, nil)
	require.NoError(t, err)
	first.Get("tags").([]any)[0] = "mutated"

	second, err := New(s, nil)
	require.NoError(t, err)
	assert.Equal(t, []any{"seed"}, second.Get("tags"))
	assert.Equal(t, []any{"seed"}, first.Get("tags"), "the stored value is still nil")
}

func TestConstruct_Abort(t *testing.T) {
	tests := []struct {
		name  string
		phase schema.Phase
		setup func(s *schema.Schema)
	}{
		{
			name:  "before",
			phase: schema.PhaseBefore,
			setup: func(s *schema.Schema) {
				s.BeforeInitialize(func(schema.Record) error { return schema.ErrAbort })
			},
		},
		{
			name:  "after",
			phase: schema.PhaseAfter,
			setup: func(s *schema.Schema) {
				s.AfterInitialize(schema.AbortUnless("id must be positive", func(r schema.Record) bool {
					id, _ := r.Get("id").(int64)
					return id > 0
				}))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := schema.New("guarded").Field("id", schema.FieldTypeInteger)
			tt.setup(s)

			e, err := New(s, map[string]any{"id": -1})
			require.Error(t, err)
			assert.Nil(t, e)
			assert.True(t, IsConstructionAborted(err))
			assert.ErrorIs(t, err, schema.ErrAbort)

			var aborted *ConstructionAbortedError
			require.ErrorAs(t, err, &aborted)
			assert.Equal(t, "guarded", aborted.Schema)
			assert.Equal(t, tt.phase, aborted.Phase)
		})
	}
}

func TestConstruct_AbortStopsLaterHooks(t *testing.T) {
	ran := false
	parent := schema.New("parent").BeforeInitialize(func(schema.Record) error {
		return schema.Abortf("closed")
	})
	child := schema.New("child", schema.Extends(parent)).BeforeInitialize(func(schema.Record) error {
		ran = true
		return nil
	})

	_, err := New(child, nil)
	assert.True(t, IsConstructionAborted(err))
	assert.False(t, ran)
}

func TestConstruct_HookError(t *testing.T) {
	boom := errors.New("boom")
	s := schema.New("failing").
		Field("id", schema.FieldTypeInteger).
		AfterInitialize(func(schema.Record) error { return boom })

	_, err := New(s, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.False(t, IsConstructionAborted(err))
	assert.Contains(t, err.Error(), "construct failing: after_initialize hook 0")
}

func TestConstruct_HookOrder(t *testing.T) {
	var calls []string
	mark := func(name string) schema.Hook {
		return func(r schema.Record) error {
			calls = append(calls, name+":"+stringOrEmpty(r.Get("name")))
			return nil
		}
	}

	parent := schema.New("parent").
		Field("name", schema.FieldTypeString).
		BeforeInitialize(mark("parent-before")).
		AfterInitialize(mark("parent-after"))
	child := schema.New("child", schema.Extends(parent)).
		BeforeInitialize(mark("child-before")).
		AfterInitialize(mark("child-after"))

	_, err := New(child, map[string]any{"name": "x"})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"parent-before:", "child-before:",
		"parent-after:x", "child-after:x",
	}, calls)
}

func stringOrEmpty(v any) string {
	s, _ := v.(string)
	return s
}

func TestConstruct_InvalidSchema(t *testing.T) {
	a := schema.New("a")
	b := schema.New("b", schema.Extends(a))
	require.NoError(t, a.SetParent(b))

	_, err := New(a, nil)
	assert.True(t, schema.IsSchemaCycle(err))

	_, err = New(schema.New("bad").Field("9", schema.FieldTypeString), nil)
	assert.Error(t, err)
}

type recordingObserver struct {
	mu       sync.Mutex
	outcomes []Outcome
}

func (o *recordingObserver) ObserveConstruction(_ string, outcome Outcome, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.outcomes = append(o.outcomes, outcome)
}

func TestInitializer_ObserverAndLogging(t *testing.T) {
	var buf bytes.Buffer
	obs := &recordingObserver{}
	in := NewInitializer(Config{
		Logger:   zerolog.New(&buf).Level(zerolog.DebugLevel),
		Observer: obs,
	})

	s := threeSchema()
	_, err := in.Construct(s, nil)
	require.NoError(t, err)
	_, err = in.Construct(s, map[string]any{"tags": "bad"})
	require.Error(t, err)

	guarded := schema.New("guarded").BeforeInitialize(func(schema.Record) error { return schema.ErrAbort })
	_, err = in.Construct(guarded, nil)
	require.Error(t, err)

	assert.Equal(t, []Outcome{OutcomeOK, OutcomeError, OutcomeAborted}, obs.outcomes)
	assert.Contains(t, buf.String(), `"message":"entity constructed"`)
	assert.Contains(t, buf.String(), `"outcome":"aborted"`)
}

func TestConstruct_Concurrent(t *testing.T) {
	s := childSchema(normalSchema())

	var wg sync.WaitGroup
	errs := make(chan error, 32)
	for n := 0; n < 32; n++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			e, err := New(s, map[string]any{"id": n + 1, "age": n})
			if err != nil {
				errs <- err
				return
			}
			if e.Get("id") != int64(n+1) || e.Get("age") != int64(n) {
				errs <- errors.New("values leaked between entities")
			}
		}(n)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
}
