package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/artpar/sparrow/core/schema"
)

func newLabelCmd(opts *rootOptions) *cobra.Command {
	var (
		kind  string
		scope string
		vars  []string
	)

	cmd := &cobra.Command{
		Use:   "label <schema> <field>",
		Short: "Resolve the label of a schema field",
		Long: `Resolve a field label from the locale files: the schema's scope first,
then the shared "base" scope.

Examples:
  sparrow label SparrowTest::Normal first_name --locale zh-CN
  sparrow label SparrowTest::Normal weight --kind hint --var unit=kg`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := parseAssignments(vars)
			if err != nil {
				return err
			}

			app, err := opts.loadApp(cmd)
			if err != nil {
				return err
			}

			text, err := app.Label(args[0], args[1], schema.LabelQuery{Kind: kind, Scope: scope, Vars: v})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), text)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&kind, "kind", schema.DefaultLabelKind, "label kind (label, hint, ...)")
	flags.StringVar(&scope, "scope", "", "scope path overriding the schema's")
	flags.StringArrayVar(&vars, "var", nil, "interpolation variable key=value (repeatable)")
	return cmd
}
