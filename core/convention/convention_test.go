package convention

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artpar/sparrow/core/schema"
)

func TestScope(t *testing.T) {
	tests := []struct {
		name     string
		expected string
	}{
		{"SparrowTest::Normal", "sparrow_test.normal"},
		{"SparrowTest::Child", "sparrow_test.child"},
		{"Normal", "normal"},
		{"sparrow_test/normal", "sparrow_test.normal"},
		{"people.Person", "people.person"},
		{"UserProfile", "user_profile"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Scope(tt.name))
		})
	}
}

func TestScopeOf(t *testing.T) {
	assert.Equal(t, "sparrow_test.normal", ScopeOf(schema.New("SparrowTest::Normal")))
	assert.Equal(t, "custom.scope", ScopeOf(schema.New("SparrowTest::Normal", schema.WithScope("custom.scope"))))
}

func TestLabelKeys(t *testing.T) {
	scoped, base := LabelKeys("sparrow", "sparrow_test.normal", "label", "first_name")
	assert.Equal(t, "sparrow.sparrow_test.normal.label.first_name", scoped)
	assert.Equal(t, "sparrow.base.label.first_name", base)

	scoped, base = LabelKeys("", "normal", "hint", "age")
	assert.Equal(t, "normal.hint.age", scoped)
	assert.Equal(t, "base.hint.age", base)
}

func TestDerive(t *testing.T) {
	normal := schema.New("SparrowTest::Normal").
		Field("id", schema.FieldTypeInteger).
		Field("used_names", schema.FieldTypeArray, schema.Default([]any{})).
		Field("married", schema.FieldTypeBoolean)
	child := schema.New("SparrowTest::Child", schema.Extends(normal)).
		Field("age", schema.FieldTypeInteger).
		Field("used_names", schema.FieldTypeString)

	d, err := Derive(child)
	require.NoError(t, err)

	assert.Equal(t, "SparrowTest::Child", d.Name)
	assert.Equal(t, "sparrow_test.child", d.Scope)
	assert.Equal(t, []string{"SparrowTest::Normal", "SparrowTest::Child"}, d.Lineage)
	assert.Equal(t, "id", d.PrimaryKey)

	require.Len(t, d.Fields, 4)

	id := d.Fields[0]
	assert.Equal(t, "id", id.Name)
	assert.True(t, id.PrimaryKey)
	assert.True(t, id.Inherited)
	assert.Equal(t, "SparrowTest::Normal", id.DeclaredBy)

	used := d.Fields[1]
	assert.Equal(t, "used_names", used.Name)
	assert.Equal(t, schema.FieldTypeString, used.Type)
	assert.Equal(t, "SparrowTest::Child", used.DeclaredBy)
	assert.False(t, used.Inherited)
	assert.True(t, used.Overrides)
	assert.False(t, used.HasDefault)

	age := d.Fields[3]
	assert.Equal(t, "age", age.Name)
	assert.False(t, age.Overrides)
	assert.False(t, age.PrimaryKey)
}

func TestDerive_Cycle(t *testing.T) {
	a := schema.New("a")
	b := schema.New("b", schema.Extends(a))
	require.NoError(t, a.SetParent(b))

	_, err := Derive(a)
	assert.True(t, schema.IsSchemaCycle(err))
}
