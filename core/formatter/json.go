package formatter

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/artpar/sparrow/core/convention"
	"github.com/artpar/sparrow/core/entity"
)

// JSONFormatter formats output as JSON.
type JSONFormatter struct{}

// NewJSONFormatter creates a new JSON formatter.
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// Name returns the formatter name.
func (f *JSONFormatter) Name() string {
	return "json"
}

// Description returns the formatter description.
func (f *JSONFormatter) Description() string {
	return "JSON output format"
}

// FormatEntity formats a single entity as JSON.
func (f *JSONFormatter) FormatEntity(w io.Writer, e *entity.Entity, opts FormatOptions) error {
	output := map[string]any{
		"schema": e.Schema().Name(),
		"id":     plain(e.ID()),
		"data":   record(e, opts.Columns),
	}
	return f.encode(w, output, opts.Compact)
}

// FormatList formats entities as JSON.
func (f *JSONFormatter) FormatList(w io.Writer, entities []*entity.Entity, opts FormatOptions) error {
	data := make([]map[string]any, len(entities))
	for i, e := range entities {
		data[i] = record(e, opts.Columns)
	}

	output := map[string]any{
		"schema": schemaName(entities),
		"count":  len(data),
		"data":   data,
	}
	return f.encode(w, output, opts.Compact)
}

// FormatSchema formats a schema description as JSON.
func (f *JSONFormatter) FormatSchema(w io.Writer, d convention.Derived, opts FormatOptions) error {
	return f.encode(w, d, opts.Compact)
}

// FormatError formats an error as JSON.
func (f *JSONFormatter) FormatError(w io.Writer, err error) error {
	output := map[string]any{
		"error": err.Error(),
	}
	return f.encode(w, output, false)
}

// encode writes JSON to the writer.
func (f *JSONFormatter) encode(w io.Writer, data any, compact bool) error {
	encoder := json.NewEncoder(w)
	if !compact {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(data)
}

func init() {
	if err := Register(NewJSONFormatter()); err != nil {
		fmt.Printf("failed to register json formatter: %v\n", err)
	}
}
