package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/appaccess/app/repositories"
	"github.com/shashiranjanraj/appaccess/app/services"
	"github.com/shashiranjanraj/appaccess/config"
	"github.com/shashiranjanraj/appaccess/pkg/cache"
	"github.com/shashiranjanraj/appaccess/pkg/event"
	"github.com/shashiranjanraj/appaccess/pkg/logger"
)

var (
	driverFlag string
	dsnFlag    string

	closeLogger = func() {}
)

func main() {
	err := rootCmd.Execute()
	closeLogger()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "appaccess",
	Short:         "Customer and order traffic against a relational database",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Load(); err != nil {
			return err
		}
		if driverFlag != "" {
			config.Set("DB_DRIVER", driverFlag)
		}
		if dsnFlag != "" {
			config.Set("DATABASE_DSN", dsnFlag)
		}

		closeFn, err := logger.Setup()
		if err != nil {
			return err
		}
		closeLogger = closeFn
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&driverFlag, "driver", "", "database driver: mysql, postgres, sqlite, sqlserver")
	rootCmd.PersistentFlags().StringVar(&dsnFlag, "dsn", "", "database DSN (defaults to the driver's built-in DSN)")

	rootCmd.AddCommand(demoCmd)

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(schemaStatusCmd)
	rootCmd.AddCommand(seedCmd)

	rootCmd.AddCommand(customerAddCmd)
	rootCmd.AddCommand(customerShowCmd)
	rootCmd.AddCommand(customerSearchCmd)
	rootCmd.AddCommand(orderCreateCmd)
	rootCmd.AddCommand(orderHistoryCmd)
	rootCmd.AddCommand(bulkCmd)
	rootCmd.AddCommand(exportCmd)

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(routeListCmd)
}

// appOptions connects the optional Redis cache and Kafka forwarder. The
// returned func releases the Kafka writer; the cache is closed with the app.
func appOptions(ctx context.Context) ([]services.Option, func()) {
	c, err := cache.Connect(ctx)
	if err != nil {
		logger.Warn("cache disabled", "error", err)
		c = nil
	}

	kafka := event.ConnectKafka()
	kafka.Forward(event.CustomerRegistered, event.OrderCreated)

	opts := []services.Option{
		services.WithBulkDelay(config.BulkDelay()),
		services.WithRepositoryOptions(repositories.WithCache(c)),
	}
	return opts, func() {
		if err := kafka.Close(); err != nil {
			logger.Warn("kafka close failed", "error", err)
		}
	}
}

// bootApp opens the configured database and narrates on out.
func bootApp(ctx context.Context, out io.Writer) (*services.CustomerApp, func(), error) {
	opts, release := appOptions(ctx)
	app, err := services.Open(ctx, config.DatabaseDriver(), config.DatabaseDSN(), out, opts...)
	if err != nil {
		release()
		return nil, nil, err
	}
	return app, func() {
		_ = app.Close()
		release()
	}, nil
}
