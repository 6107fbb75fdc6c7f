package formatter

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/artpar/sparrow/core/convention"
	"github.com/artpar/sparrow/core/entity"
)

// TableFormatter formats output as aligned text tables.
type TableFormatter struct{}

// NewTableFormatter creates a new table formatter.
func NewTableFormatter() *TableFormatter {
	return &TableFormatter{}
}

// Name returns the formatter name.
func (f *TableFormatter) Name() string {
	return "table"
}

// Description returns the formatter description.
func (f *TableFormatter) Description() string {
	return "Aligned text table output"
}

// FormatEntity formats a single entity as key-value pairs.
func (f *TableFormatter) FormatEntity(w io.Writer, e *entity.Entity, opts FormatOptions) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	for _, col := range columns(e, opts.Columns) {
		val, ok := e.Lookup(col)
		if !ok {
			continue
		}
		fmt.Fprintf(tw, "%s:\t%s\n", f.label(col, opts), f.formatValue(val, opts.MaxWidth))
	}

	return tw.Flush()
}

// FormatList formats entities as a table, one row per entity.
func (f *TableFormatter) FormatList(w io.Writer, entities []*entity.Entity, opts FormatOptions) error {
	if len(entities) == 0 {
		fmt.Fprintln(w, "No entities.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	cols := columns(entities[0], opts.Columns)

	if !opts.NoHeader {
		headers := make([]string, len(cols))
		for i, col := range cols {
			headers[i] = f.header(col, opts)
		}
		fmt.Fprintln(tw, strings.Join(headers, "\t"))
	}

	for _, e := range entities {
		values := make([]string, len(cols))
		for i, col := range cols {
			values[i] = f.formatValue(e.Get(col), opts.MaxWidth)
		}
		fmt.Fprintln(tw, strings.Join(values, "\t"))
	}

	return tw.Flush()
}

// FormatSchema formats a schema description: a summary block followed by
// one row per effective field.
func (f *TableFormatter) FormatSchema(w io.Writer, d convention.Derived, opts FormatOptions) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintf(tw, "Schema:\t%s\n", d.Name)
	fmt.Fprintf(tw, "Scope:\t%s\n", d.Scope)
	fmt.Fprintf(tw, "Lineage:\t%s\n", strings.Join(d.Lineage, " < "))
	fmt.Fprintf(tw, "Primary Key:\t%s\n", f.formatValue(nonEmpty(d.PrimaryKey), 0))
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintln(w)

	tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if !opts.NoHeader {
		fmt.Fprintln(tw, "FIELD\tTYPE\tDEFAULT\tDECLARED BY\tNOTES")
	}
	for _, field := range d.Fields {
		def := "-"
		if field.HasDefault {
			def = f.formatValue(field.Default, opts.MaxWidth)
			if field.Default == nil {
				def = "null"
			}
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", field.Name, field.Type, def, field.DeclaredBy, fieldNotes(field))
	}

	return tw.Flush()
}

// FormatError formats an error message.
func (f *TableFormatter) FormatError(w io.Writer, err error) error {
	fmt.Fprintf(w, "Error: %s\n", err.Error())
	return nil
}

func fieldNotes(field convention.DerivedField) string {
	var notes []string
	if field.PrimaryKey {
		notes = append(notes, "primary key")
	}
	if field.Inherited {
		notes = append(notes, "inherited")
	}
	if field.Overrides {
		notes = append(notes, "overridden")
	}
	return strings.Join(notes, ", ")
}

func nonEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// label returns the display label of a field.
func (f *TableFormatter) label(name string, opts FormatOptions) string {
	if opts.Label != nil {
		if l, ok := opts.Label(name); ok {
			return l
		}
	}
	return f.formatLabel(name)
}

// header returns the column header of a field: its label when one resolves,
// otherwise the upper-cased name.
func (f *TableFormatter) header(name string, opts FormatOptions) string {
	if opts.Label != nil {
		if l, ok := opts.Label(name); ok {
			return l
		}
	}
	return strings.ToUpper(name)
}

// formatLabel formats a field name as a label.
func (f *TableFormatter) formatLabel(name string) string {
	// Convert snake_case to Title Case
	words := strings.Split(name, "_")
	for i, word := range words {
		if len(word) > 0 {
			words[i] = strings.ToUpper(word[:1]) + word[1:]
		}
	}
	return strings.Join(words, " ")
}

// formatValue formats a value for display.
func (f *TableFormatter) formatValue(val any, maxWidth int) string {
	if val == nil {
		return "-"
	}

	var str string
	switch v := val.(type) {
	case string:
		str = v
	case bool:
		if v {
			str = "yes"
		} else {
			str = "no"
		}
	case int64:
		str = fmt.Sprintf("%d", v)
	case float64:
		// Check if it's a whole number
		if v == float64(int64(v)) {
			str = fmt.Sprintf("%d", int64(v))
		} else {
			str = fmt.Sprintf("%.2f", v)
		}
	case time.Time:
		str = v.Format(time.RFC3339)
	case time.Duration:
		str = v.String()
	case fmt.Stringer:
		str = v.String()
	default:
		b, _ := json.Marshal(v)
		str = string(b)
	}

	// Truncate if needed
	if maxWidth > 3 && len(str) > maxWidth {
		str = str[:maxWidth-3] + "..."
	}

	return str
}

func init() {
	Register(NewTableFormatter())
}
