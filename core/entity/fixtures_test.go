package entity

import (
	"time"

	"github.com/artpar/sparrow/core/coerce"
	"github.com/artpar/sparrow/core/schema"
)

var defaultTimestamp = time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)

func normalSchema() *schema.Schema {
	return schema.New("SparrowTest::Normal").
		Field("id", schema.FieldTypeInteger).
		Fields(schema.FieldTypeString, []string{"first_name", "last_name"}).
		Field("used_names", schema.FieldTypeArray, schema.Default([]any{})).
		Fields(schema.FieldTypeDateTime, []string{"created_at", "updated_at"}, schema.Default(defaultTimestamp)).
		Field("weight", schema.FieldTypeFloat).
		Field("married", schema.FieldTypeBoolean).
		BeforeInitialize(func(r schema.Record) error {
			if coerce.IsBlank(r.Get("id")) {
				return r.Set("id", -999)
			}
			return nil
		}).
		AfterInitialize(schema.FillBlank(map[string]any{
			"first_name": "三",
			"last_name":  "张",
		}))
}

func childSchema(parent *schema.Schema) *schema.Schema {
	return schema.New("SparrowTest::Child", schema.Extends(parent)).
		Field("age", schema.FieldTypeInteger).
		Field("used_names", schema.FieldTypeString)
}
