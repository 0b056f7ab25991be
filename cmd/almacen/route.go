// Package main route visualization commands.
package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/poe/almacen/internal/api"
	"github.com/poe/almacen/internal/config"
	"github.com/poe/almacen/internal/mapgrid"
	"github.com/poe/almacen/internal/render"
	"github.com/poe/almacen/internal/route"
)

func newRouteService() *api.RouteService {
	return api.NewRouteService(client, config.Get().Algorithm)
}

func routeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "route",
		Short: "Route visualization commands",
	}

	// almacen route show <task-id>
	var onMap bool
	showCmd := &cobra.Command{
		Use:   "show <task-id>",
		Short: "Show the optimized route for a task",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			ctx := context.Background()
			sess := requireSession(ctx)
			id := taskIDArg(args)

			rt, canGenerate, err := newRouteService().FetchOrOffer(ctx, id)
			if err != nil {
				exitOnError(err)
			}
			if canGenerate {
				render.Stdout().Println("Tarea #%d sin ruta. Usa 'almacen route generate %d'", id, id)
				return
			}
			if _, err := store.Snapshot(ctx, "route", rt); err != nil {
				exitOnError(err)
			}
			if err := store.PruneSnapshots(ctx, snapshotKeep); err != nil {
				exitOnError(err)
			}

			r := render.New(pretty)
			if onMap {
				view, err := api.NewMapService(client).ViewForRole(ctx, effectiveRole(sess))
				if err != nil {
					exitOnError(err)
				}
				idx := mapgrid.FromView(view)
				fmt.Print(r.Grid(idx, route.Build(rt), mapgrid.Markers(idx)))
				fmt.Print(r.Legend(true))
			}
			fmt.Print(r.RouteSummary(rt))
		},
	}
	showCmd.Flags().BoolVar(&onMap, "map", true, "Overlay the route on the map")
	cmd.AddCommand(showCmd)

	// almacen route generate <task-id>
	generateCmd := &cobra.Command{
		Use:   "generate <task-id>",
		Short: "Ask the backend to compute the route",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			ctx := context.Background()
			requireSession(ctx)
			id := taskIDArg(args)

			rt, err := newRouteService().Generate(ctx, id)
			if err != nil {
				exitOnError(err)
			}
			fmt.Print(render.New(pretty).RouteSummary(rt))
		},
	}
	cmd.AddCommand(generateCmd)

	return cmd
}
