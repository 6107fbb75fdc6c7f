package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/artpar/sparrow/core/entity"
	"github.com/artpar/sparrow/core/formatter"
	"github.com/artpar/sparrow/core/schema"
)

type newOptions struct {
	sets    []string
	json    string
	output  string
	columns []string
	labels  bool
	compact bool
}

func newNewCmd(opts *rootOptions) *cobra.Command {
	no := &newOptions{}

	cmd := &cobra.Command{
		Use:   "new <schema>",
		Short: "Construct an entity and print its attributes",
		Long: `Construct an entity of a schema from an attribute bag, running its
before/after initialize hooks, and print the resulting attributes.

Attributes come from --json (an object, or an array of objects for several
entities) and from repeated --set key=value flags, which win over --json.

Examples:
  sparrow new Shop::Account --set email=a@example.com
  sparrow new Shop::Account --json '{"roles": ["admin"]}' -o json
  sparrow new Shop::Account --json '[{"email": "a@x"}, {"email": "b@x"}]'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNew(cmd, opts, no, args[0])
		},
	}

	flags := cmd.Flags()
	flags.StringArrayVar(&no.sets, "set", nil, "attribute assignment key=value (repeatable)")
	flags.StringVar(&no.json, "json", "", "attributes as a JSON object or array of objects")
	flags.StringVarP(&no.output, "output", "o", "", "output format (table, json, yaml)")
	flags.StringSliceVar(&no.columns, "columns", nil, "attributes to print (default: all)")
	flags.BoolVar(&no.labels, "labels", false, "use locale labels as row names in table output")
	flags.BoolVar(&no.compact, "compact", false, "compact json output")
	return cmd
}

func runNew(cmd *cobra.Command, opts *rootOptions, no *newOptions, name string) error {
	f, err := outputFormatter(no.output)
	if err != nil {
		return err
	}

	sets, err := parseAssignments(no.sets)
	if err != nil {
		return err
	}

	bags, many, err := parseBags(no.json)
	if err != nil {
		return err
	}

	app, err := opts.loadApp(cmd)
	if err != nil {
		return err
	}

	entities := make([]*entity.Entity, 0, len(bags))
	for i, bag := range bags {
		for k, v := range sets {
			bag[k] = v
		}
		e, err := app.Construct(name, bag)
		if err != nil {
			if many {
				return fmt.Errorf("entity %d: %w", i, err)
			}
			return err
		}
		entities = append(entities, e)
	}

	fo := formatter.FormatOptions{
		Columns: no.columns,
		Compact: no.compact,
	}
	if no.labels && len(entities) > 0 {
		e := entities[0]
		fo.Label = func(field string) (string, bool) {
			l, err := e.Label(field, schema.LabelQuery{})
			return l, err == nil
		}
	}

	out := cmd.OutOrStdout()
	if many {
		return f.FormatList(out, entities, fo)
	}
	return f.FormatEntity(out, entities[0], fo)
}

// parseBags decodes --json into attribute bags. many reports whether the
// input was an array.
func parseBags(raw string) (bags []map[string]any, many bool, err error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return []map[string]any{{}}, false, nil
	}

	if strings.HasPrefix(raw, "[") {
		if err := json.Unmarshal([]byte(raw), &bags); err != nil {
			return nil, false, fmt.Errorf("parse --json: %w", err)
		}
		for i := range bags {
			if bags[i] == nil {
				bags[i] = map[string]any{}
			}
		}
		return bags, true, nil
	}

	var bag map[string]any
	if err := json.Unmarshal([]byte(raw), &bag); err != nil {
		return nil, false, fmt.Errorf("parse --json: %w", err)
	}
	if bag == nil {
		bag = map[string]any{}
	}
	return []map[string]any{bag}, false, nil
}
