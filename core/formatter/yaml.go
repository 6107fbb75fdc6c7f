package formatter

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/artpar/sparrow/core/convention"
	"github.com/artpar/sparrow/core/entity"
)

// YAMLFormatter formats output as YAML.
type YAMLFormatter struct{}

// NewYAMLFormatter creates a new YAML formatter.
func NewYAMLFormatter() *YAMLFormatter {
	return &YAMLFormatter{}
}

// Name returns the formatter name.
func (f *YAMLFormatter) Name() string {
	return "yaml"
}

// Description returns the formatter description.
func (f *YAMLFormatter) Description() string {
	return "YAML output format"
}

// FormatEntity formats a single entity as YAML.
func (f *YAMLFormatter) FormatEntity(w io.Writer, e *entity.Entity, opts FormatOptions) error {
	output := map[string]any{
		"schema": e.Schema().Name(),
		"id":     plain(e.ID()),
		"data":   record(e, opts.Columns),
	}
	return f.encode(w, output)
}

// FormatList formats entities as YAML.
func (f *YAMLFormatter) FormatList(w io.Writer, entities []*entity.Entity, opts FormatOptions) error {
	data := make([]map[string]any, len(entities))
	for i, e := range entities {
		data[i] = record(e, opts.Columns)
	}

	output := map[string]any{
		"schema": schemaName(entities),
		"count":  len(data),
		"data":   data,
	}
	return f.encode(w, output)
}

// FormatSchema formats a schema description as YAML.
func (f *YAMLFormatter) FormatSchema(w io.Writer, d convention.Derived, opts FormatOptions) error {
	return f.encode(w, d)
}

// FormatError formats an error as YAML.
func (f *YAMLFormatter) FormatError(w io.Writer, err error) error {
	output := map[string]any{
		"error": err.Error(),
	}
	return f.encode(w, output)
}

// encode writes YAML to the writer.
func (f *YAMLFormatter) encode(w io.Writer, data any) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	defer encoder.Close()
	return encoder.Encode(data)
}

func init() {
	if err := Register(NewYAMLFormatter()); err != nil {
		fmt.Printf("failed to register yaml formatter: %v\n", err)
	}
}
