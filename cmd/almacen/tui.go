// Package main interactive TUI command.
package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/poe/almacen/internal/api"
	"github.com/poe/almacen/internal/config"
	"github.com/poe/almacen/internal/tasks"
	"github.com/poe/almacen/internal/tui"
)

func tuiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Start the interactive TUI",
		Run: func(cmd *cobra.Command, args []string) {
			runTUI()
		},
	}
}

func runTUI() {
	ctx := context.Background()
	sess := requireSession(ctx)

	user := sess.User
	user.Role = effectiveRole(sess)

	taskSvc := api.NewTaskService(client)
	svc := tui.Services{
		User:   user,
		Ctrl:   tasks.NewController(taskSvc, user.Role),
		Maps:   api.NewMapService(client),
		Routes: api.NewRouteService(client, config.Get().Algorithm),
		Tasks:  taskSvc,
	}
	if err := tui.Run(svc); err != nil {
		exitOnError(err)
	}
}
