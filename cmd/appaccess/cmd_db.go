package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/appaccess/database/seeders"
	"github.com/shashiranjanraj/appaccess/pkg/migration"
)

// appaccess migrate
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the customers and orders tables if missing",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, done, err := bootApp(cmd.Context(), cmd.OutOrStdout())
		if err != nil {
			return err
		}
		defer done()
		return app.SetupDatabase(cmd.Context())
	},
}

// appaccess schema:status
var schemaStatusCmd = &cobra.Command{
	Use:   "schema:status",
	Short: "Show whether each table exists",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, done, err := bootApp(cmd.Context(), cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		defer done()

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "DEFINITION\tTABLE\tSTATUS")
		for _, s := range migration.New(app.Repository().DB()).Status(cmd.Context()) {
			status := "missing"
			if s.Exists {
				status = "present"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\n", s.Name, s.Table, status)
		}
		return w.Flush()
	},
}

// appaccess seed [name...]
var seedCmd = &cobra.Command{
	Use:   "seed [name...]",
	Short: "Run database seeders (all when no name is given)",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, done, err := bootApp(cmd.Context(), cmd.OutOrStdout())
		if err != nil {
			return err
		}
		defer done()

		fmt.Fprintln(cmd.OutOrStdout(), "Running seeders…")
		return seeders.Run(cmd.Context(), app.Repository(), cmd.OutOrStdout(), args...)
	},
}
