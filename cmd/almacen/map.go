// Package main warehouse map commands.
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/poe/almacen/internal/api"
	"github.com/poe/almacen/internal/domain"
	"github.com/poe/almacen/internal/mapgrid"
	"github.com/poe/almacen/internal/render"
)

// fetchMapView loads the view for the session role, or the newest cached
// snapshot when cached is set. An unavailable map is not an error here: the
// view carries the backend mensaje and available reports false.
func fetchMapView(ctx context.Context, cached bool) (domain.MapView, bool) {
	if cached {
		var view domain.MapView
		err := store.LatestSnapshot(ctx, "map", &view)
		if errors.Is(err, sql.ErrNoRows) {
			exitOnError(fmt.Errorf("no cached map, run 'almacen map show' online first"))
		}
		if err != nil {
			exitOnError(err)
		}
		return view, view.Available()
	}

	sess := requireSession(ctx)
	view, err := api.NewMapService(client).ViewForRole(ctx, effectiveRole(sess))
	if errors.Is(err, api.ErrMapUnavailable) {
		return view, false
	}
	if err != nil {
		exitOnError(err)
	}
	if _, err := store.Snapshot(ctx, "map", view); err != nil {
		exitOnError(err)
	}
	if err := store.PruneSnapshots(ctx, snapshotKeep); err != nil {
		exitOnError(err)
	}
	return view, true
}

func mapEmptyMessage(view domain.MapView) string {
	if view.Message != "" {
		return view.Message
	}
	return "No hay puntos asignados"
}

func mapCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "map",
		Short: "Warehouse map commands",
	}

	// almacen map show
	var withLegend, cached bool
	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Render the warehouse map",
		Run: func(cmd *cobra.Command, args []string) {
			ctx := context.Background()

			view, available := fetchMapView(ctx, cached)
			if !available {
				render.Stdout().Empty(mapEmptyMessage(view))
				return
			}

			idx := mapgrid.FromView(view)
			r := render.New(pretty)
			fmt.Print(r.Grid(idx, nil, mapgrid.Markers(idx)))
			if withLegend {
				fmt.Print(r.Legend(false))
			}
		},
	}
	showCmd.Flags().BoolVar(&withLegend, "legend", true, "Print the glyph legend")
	showCmd.Flags().BoolVar(&cached, "cached", false, "Render the last fetched map instead of calling the backend")
	cmd.AddCommand(showCmd)

	// almacen map points
	var pointsCached bool
	pointsCmd := &cobra.Command{
		Use:   "points",
		Short: "List replenishment points with products",
		Run: func(cmd *cobra.Command, args []string) {
			ctx := context.Background()

			view, available := fetchMapView(ctx, pointsCached)
			if !available {
				render.Stdout().Empty(mapEmptyMessage(view))
				return
			}

			idx := mapgrid.FromView(view)
			w := render.Stdout()
			locs := idx.AllFurnitureWithProducts()
			if len(locs) == 0 {
				w.Empty("No hay puntos con productos")
				return
			}
			w.Header("Puntos de reposicion")
			for _, loc := range locs {
				w.Println("(%d,%d) mueble #%d %s", loc.X, loc.Y, loc.Furniture.ID, loc.Furniture.Kind)
				for _, p := range loc.Furniture.ProductPoints() {
					w.Item("#%d %s (estanteria %s, nivel %d)", p.ID, p.Product.Name, p.ShelfUnit, p.Level)
				}
			}
		},
	}
	pointsCmd.Flags().BoolVar(&pointsCached, "cached", false, "List points from the last fetched map")
	cmd.AddCommand(pointsCmd)

	return cmd
}
