// Package main provides the almacen CLI entrypoint.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/poe/almacen/internal/api"
	"github.com/poe/almacen/internal/config"
	"github.com/poe/almacen/internal/render"
	"github.com/poe/almacen/internal/session"
)

var (
	version = "0.1.0"
	pretty  = true
	apiURL  string
	store   *session.Store
	client  *api.Client
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "almacen",
		Short: "Warehouse replenishment client",
		Long: `almacen: terminal client for warehouse replenishment operations.

Usage modes:
  almacen            Start the interactive TUI
  almacen <command>  Run a specific command (see below)

Use 'almacen login' first to authenticate against the backend.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Piped output drops color unless --pretty was forced.
			if !cmd.Root().PersistentFlags().Changed("pretty") && !render.Interactive() {
				pretty = false
			}

			var err error
			store, err = session.Open(config.HomeDir())
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}

			if apiURL == "" {
				apiURL = config.Get().APIURL
			}
			client = api.New(apiURL, store)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if store != nil {
				store.Close()
			}
		},
		Run: func(cmd *cobra.Command, args []string) {
			runTUI()
		},
	}

	rootCmd.PersistentFlags().BoolVar(&pretty, "pretty", true, "Pretty print output")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "Backend base URL (default $ALMACEN_API_URL)")
	rootCmd.Version = version

	rootCmd.AddGroup(
		&cobra.Group{ID: "auth", Title: "Authentication:"},
		&cobra.Group{ID: "ops", Title: "Operations:"},
	)

	login := loginCmd()
	login.GroupID = "auth"
	rootCmd.AddCommand(login)

	logout := logoutCmd()
	logout.GroupID = "auth"
	rootCmd.AddCommand(logout)

	whoami := whoamiCmd()
	whoami.GroupID = "auth"
	rootCmd.AddCommand(whoami)

	mapC := mapCmd()
	mapC.GroupID = "ops"
	rootCmd.AddCommand(mapC)

	tasksC := tasksCmd()
	tasksC.GroupID = "ops"
	rootCmd.AddCommand(tasksC)

	routeC := routeCmd()
	routeC.GroupID = "ops"
	rootCmd.AddCommand(routeC)

	tuiC := tuiCmd()
	tuiC.GroupID = "ops"
	rootCmd.AddCommand(tuiC)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
