package entity

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artpar/sparrow/core/schema"
)

func TestEntity_Set(t *testing.T) {
	e, err := New(normalSchema(), nil)
	require.NoError(t, err)

	require.NoError(t, e.Set("weight", "72.5kg"))
	assert.Equal(t, 72.5, e.Get("weight"))

	err = e.Set("nickname", "x")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownAttribute)
	var unknown *UnknownAttributeError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "nickname", unknown.Name)

	err = e.Set("used_names", "[oops")
	require.Error(t, err)
	assert.Equal(t, []any{}, e.Get("used_names"), "failed set stores nothing")
}

func TestEntity_StoredAndDefault(t *testing.T) {
	e, err := New(normalSchema(), nil)
	require.NoError(t, err)

	assert.Nil(t, e.Stored("created_at"))
	assert.Equal(t, defaultTimestamp, e.Get("created_at"))

	require.NoError(t, e.Set("created_at", nil))
	assert.Equal(t, defaultTimestamp, e.Get("created_at"))
}

func TestEntity_NilCollectionFallsBackToDefault(t *testing.T) {
	s := schema.New("tagged").
		Field("tags", schema.FieldTypeArray, schema.Default([]any{})).
		Field("meta", schema.FieldTypeObject, schema.Default(map[string]any{"k": "v"}))

	e, err := New(s, map[string]any{
		"tags": []string(nil),
		"meta": map[string]any(nil),
	})
	require.NoError(t, err)

	assert.Nil(t, e.Stored("tags"))
	assert.Equal(t, []any{}, e.Get("tags"))
	assert.Equal(t, map[string]any{"k": "v"}, e.Get("meta"))

	require.NoError(t, e.Set("tags", `{"not":"a list"}`))
	assert.Equal(t, []any{}, e.Get("tags"))
}

func TestEntity_AttributeNames(t *testing.T) {
	e, err := New(childSchema(normalSchema()), nil)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"id", "first_name", "last_name", "used_names",
		"created_at", "updated_at", "weight", "married", "age",
	}, e.AttributeNames())
}

func TestEntity_ID(t *testing.T) {
	keyed := schema.New("keyed").Field("code", schema.FieldTypeString, schema.PrimaryKey())
	e, err := New(keyed, map[string]any{"code": "A1"})
	require.NoError(t, err)
	assert.Equal(t, "A1", e.ID())

	plain := schema.New("plain").Field("name", schema.FieldTypeString)
	e, err = New(plain, map[string]any{"name": "x"})
	require.NoError(t, err)
	assert.Nil(t, e.ID())
}

func TestValue(t *testing.T) {
	e, err := New(normalSchema(), map[string]any{"weight": 1.5})
	require.NoError(t, err)

	w, ok := Value[float64](e, "weight")
	assert.True(t, ok)
	assert.Equal(t, 1.5, w)

	_, ok = Value[string](e, "weight")
	assert.False(t, ok)

	_, ok = Value[bool](e, "married")
	assert.False(t, ok, "absent boolean is not false")
}

type stubLabels struct {
	got schema.LabelQuery
}

func (s *stubLabels) ResolveLabel(sc *schema.Schema, name string, q schema.LabelQuery) (string, error) {
	s.got = q
	if name == "missing" {
		return "", errors.New("missing")
	}
	return sc.Name() + "/" + q.KindOrDefault() + "/" + name, nil
}

func TestEntity_Label(t *testing.T) {
	s := normalSchema()

	e, err := New(s, nil)
	require.NoError(t, err)
	_, err = e.Label("first_name", schema.LabelQuery{})
	assert.ErrorIs(t, err, ErrNoLabelResolver)

	labels := &stubLabels{}
	in := NewInitializer(Config{Labels: labels})
	e, err = in.Construct(s, nil)
	require.NoError(t, err)

	got, err := e.Label("first_name", schema.LabelQuery{})
	require.NoError(t, err)
	assert.Equal(t, "SparrowTest::Normal/label/first_name", got)

	got, err = e.Label("invalid_label", schema.LabelQuery{Kind: "hint"})
	require.NoError(t, err)
	assert.Equal(t, "SparrowTest::Normal/hint/invalid_label", got)
	assert.Equal(t, "hint", labels.got.Kind)

	_, err = e.Label("missing", schema.LabelQuery{})
	assert.Error(t, err)
}
