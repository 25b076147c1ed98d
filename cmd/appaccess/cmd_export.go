package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/appaccess/app/services"
	"github.com/shashiranjanraj/appaccess/pkg/storage"
)

var exportDiskFlag string

// appaccess export <customer-id>
var exportCmd = &cobra.Command{
	Use:   "export <customer-id>",
	Short: "Write a customer's summary and orders as JSON to a storage disk",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		storage.Connect(cmd.Context())
		disk, err := storage.Default()
		if exportDiskFlag != "" {
			disk, err = storage.Use(exportDiskFlag)
		}
		if err != nil {
			return err
		}

		app, done, err := bootApp(cmd.Context(), cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		defer done()

		path, err := services.NewExporter(app.Repository(), disk).Export(cmd.Context(), id)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Exported customer %d to %s\n", id, disk.URL(path))
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportDiskFlag, "disk", "", "storage disk: local or s3 (default STORAGE_DISK)")
}
