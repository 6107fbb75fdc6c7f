/*
Package schema defines entity schemas: ordered, inheritable sets of typed
fields, a primary key, and the hooks that run around construction.

# Declaring a schema

	normal := schema.New("SparrowTest::Normal").
		Field("id", schema.FieldTypeInteger).
		Field("first_name", schema.FieldTypeString).
		Field("used_names", schema.FieldTypeArray, schema.Default([]any{})).
		Fields(schema.FieldTypeDateTime, []string{"created_at", "updated_at"}, schema.Default(epoch)).
		BeforeInitialize(schema.FillBlank(map[string]any{"id": -999}))

	child := schema.New("SparrowTest::Child", schema.Extends(normal)).
		Field("age", schema.FieldTypeInteger).
		Field("used_names", schema.FieldTypeString)

A field named "id" becomes the primary key unless the lineage already has one;
schema.PrimaryKey() marks any other field explicitly.

# Inheritance

The effective fields of a schema are its parent's effective fields followed by
its own. A name declared again keeps its first position but takes the latest
definition: child.used_names above sits where normal declared it and behaves
as a string.

# Freezing

A schema is mutable until Freeze, which validates declarations, resolves the
lineage (failing with *SchemaCycleError on a loop) and compiles every field into
an Accessor. The entity package freezes a schema on first construction;
declarations after that are rejected with ErrFrozen.

# YAML definitions

Schemas can also be declared in YAML and loaded through the registry package:

	schema: normal
	scope: sparrow_test.normal
	fields:
	  - { name: id, type: integer }
	  - { name: used_names, type: array, default: [] }
	  - { names: [created_at, updated_at], type: datetime, default: "2022-01-01T00:00:00Z" }
	before_initialize:
	  - fill: { id: -999 }
	after_initialize:
	  - call: name_defaults
*/
package schema
