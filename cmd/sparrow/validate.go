package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/artpar/sparrow/bootstrap"
	"github.com/artpar/sparrow/config"
)

func newValidateCmd(opts *rootOptions) *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration, schemas and locale files",
		Long: `Load the configuration, every schema definition and every locale
file, and report what was found.

Checks:
  - Config file is valid (or the environment, when no file exists)
  - Schema YAML parses, parents exist, no inheritance cycles
  - Every "call:" hook names a registered function
  - Locale files parse

With --watch, keeps running and reloads the config file and the locale
directory when they change (SIGHUP also reloads the config).

Examples:
  sparrow validate
  sparrow validate --config /etc/sparrow/sparrow.yaml
  sparrow validate --schemas ./schemas --locales ./locales`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, opts, watch)
		},
	}

	cmd.Flags().BoolVar(&watch, "watch", false, "keep running and reload on changes")
	return cmd
}

func runValidate(cmd *cobra.Command, opts *rootOptions, watch bool) error {
	out := cmd.OutOrStdout()

	source := "environment"
	var holder *config.Holder
	if _, err := os.Stat(opts.cfgFile); err == nil {
		source = opts.cfgFile
	}
	fmt.Fprintf(out, "Validating %s...\n\n", source)

	cfg, err := opts.loadConfig()
	if err != nil {
		fmt.Fprintf(out, "  %s Config valid\n", crossMark)
		return fmt.Errorf("config error: %w", err)
	}
	fmt.Fprintf(out, "  %s Config valid\n", checkMark)

	bc := bootstrap.Config{Config: cfg, LogOutput: cmd.ErrOrStderr()}
	if watch && source != "environment" {
		logger := bootstrap.SetupLogger(cfg.Logging, cmd.ErrOrStderr())
		holder, err = config.NewHolder(opts.cfgFile, logger)
		if err != nil {
			return err
		}
		bc.Holder = holder
	}

	app, err := bootstrap.NewWithConfig(bc)
	if err != nil {
		fmt.Fprintf(out, "  %s Schemas and locales load\n", crossMark)
		return err
	}

	fmt.Fprintf(out, "  %s Schemas: %d (%s)\n", checkMark, len(app.Registry.Names()), cfg.SchemasDir)
	for _, s := range app.Registry.List() {
		names, _ := s.FieldNames()
		line := fmt.Sprintf("      %s: %d fields", s.Name(), len(names))
		if pk := s.PrimaryKey(); pk != "" {
			line += ", primary key " + pk
		}
		if p := s.Parent(); p != nil {
			line += ", extends " + p.Name()
		}
		fmt.Fprintln(out, line)
	}

	if cfg.Locales.Dir == "" {
		fmt.Fprintf(out, "  - Locales: none configured\n")
	} else {
		fmt.Fprintf(out, "  %s Locales: %s (%d labels, active %s)\n", checkMark,
			strings.Join(app.Catalog.Locales(), ", "), app.Catalog.Len(), app.Catalog.Locale())
	}

	fmt.Fprintf(out, "  %s Functions: %s\n", checkMark, strings.Join(app.Functions.List(), ", "))

	if !watch {
		return nil
	}

	fmt.Fprintln(out, "\nWatching for changes (Ctrl+C to stop)...")
	return app.Run(cmd.Context())
}
