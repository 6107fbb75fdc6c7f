package main

import (
	"github.com/spf13/cobra"

	"github.com/artpar/sparrow/core/formatter"
)

func newDescribeCmd(opts *rootOptions) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "describe <schema>",
		Short: "Show the effective fields of a schema",
		Long: `Show a schema after inheritance: every effective field with its type,
default and declaring schema, plus the primary key and label scope.

Examples:
  sparrow describe Shop::Account
  sparrow describe Shop::Admin -o yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := outputFormatter(output)
			if err != nil {
				return err
			}

			app, err := opts.loadApp(cmd)
			if err != nil {
				return err
			}

			d, err := app.Registry.Describe(args[0])
			if err != nil {
				return err
			}
			return f.FormatSchema(cmd.OutOrStdout(), d, formatter.FormatOptions{})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output format (table, json, yaml)")
	return cmd
}
