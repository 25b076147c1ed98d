package main

import (
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/appaccess/config"
	"github.com/shashiranjanraj/appaccess/internal/demo"
)

var (
	demoBulkFlag  int
	demoDelayFlag time.Duration
)

// appaccess demo
var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run the scripted application simulation",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		bulk := config.BulkCount()
		if cmd.Flags().Changed("bulk") {
			bulk = demoBulkFlag
		}
		delay := config.BulkDelay()
		if cmd.Flags().Changed("delay") {
			delay = demoDelayFlag
		}

		opts, release := appOptions(ctx)
		defer release()

		return demo.Run(ctx, demo.Config{
			Driver:     config.DatabaseDriver(),
			DSN:        config.DatabaseDSN(),
			BulkCount:  bulk,
			BulkDelay:  delay,
			Out:        cmd.OutOrStdout(),
			AppOptions: opts,
		})
	},
}

func init() {
	demoCmd.Flags().IntVar(&demoBulkFlag, "bulk", 5, "number of bulk customer/order pairs")
	demoCmd.Flags().DurationVar(&demoDelayFlag, "delay", 100*time.Millisecond, "pause between bulk iterations")
}
