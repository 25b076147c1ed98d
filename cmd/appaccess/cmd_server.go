package main

import (
	"fmt"
	"io"
	"net"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/appaccess/app/routes"
	"github.com/shashiranjanraj/appaccess/app/services"
	"github.com/shashiranjanraj/appaccess/config"
	"github.com/shashiranjanraj/appaccess/internal/server"
)

var portFlag string

// appaccess serve
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		app, done, err := bootApp(ctx, cmd.OutOrStdout())
		if err != nil {
			return err
		}
		defer done()
		if err := app.SetupDatabase(ctx); err != nil {
			return err
		}

		port := config.AppPort()
		if portFlag != "" {
			port = portFlag
		}
		return server.Start(ctx, net.JoinHostPort("", port), routes.New(app).Handler())
	},
}

// appaccess route:list
var routeListCmd = &cobra.Command{
	Use:   "route:list",
	Short: "List all registered routes",
	RunE: func(cmd *cobra.Command, args []string) error {
		r := routes.New(services.New(nil, io.Discard))

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "METHOD\tPATH\tNAME")
		fmt.Fprintln(w, "------\t----\t----")
		for _, ri := range r.Routes() {
			fmt.Fprintf(w, "%s\t%s\t%s\n", ri.Method, ri.Path, ri.Name)
		}
		return w.Flush()
	},
}

func init() {
	serveCmd.Flags().StringVar(&portFlag, "port", "", "listen port (default APP_PORT)")
}
