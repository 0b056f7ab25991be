// Package main task lifecycle commands.
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/poe/almacen/internal/api"
	"github.com/poe/almacen/internal/domain"
	"github.com/poe/almacen/internal/render"
	"github.com/poe/almacen/internal/tasks"
)

func newController(role domain.Role) *tasks.Controller {
	return tasks.NewController(api.NewTaskService(client), role)
}

func taskIDArg(args []string) int {
	id, err := strconv.Atoi(args[0])
	if err != nil {
		exitOnError(fmt.Errorf("invalid task id %q", args[0]))
	}
	return id
}

func tasksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "Task lifecycle commands",
	}

	// almacen tasks list
	var statusFilter, sinceFilter string
	var listCached bool
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "Show the task list",
		Run: func(cmd *cobra.Command, args []string) {
			ctx := context.Background()

			var list []domain.Task
			var ctrl *tasks.Controller
			if listCached {
				err := store.LatestSnapshot(ctx, "tasks", &list)
				if errors.Is(err, sql.ErrNoRows) {
					exitOnError(fmt.Errorf("no cached tasks, run 'almacen tasks list' online first"))
				}
				if err != nil {
					exitOnError(err)
				}
			} else {
				sess := requireSession(ctx)
				ctrl = newController(effectiveRole(sess))
				var err error
				list, err = ctrl.Refresh(ctx)
				if err != nil {
					exitOnError(err)
				}
				if _, err := store.Snapshot(ctx, "tasks", list); err != nil {
					exitOnError(err)
				}
				if err := store.PruneSnapshots(ctx, snapshotKeep); err != nil {
					exitOnError(err)
				}
			}

			var filter domain.TaskFilter
			if statusFilter != "" {
				filter.Status = domain.ParseTaskStatus(statusFilter)
			}
			if sinceFilter != "" {
				since, err := time.Parse("2006-01-02", sinceFilter)
				if err != nil {
					exitOnError(fmt.Errorf("invalid --since date %q, want YYYY-MM-DD", sinceFilter))
				}
				filter.Since = since
			}

			fmt.Print(render.New(pretty).Tasks(filter.Apply(list)))
			if ctrl != nil {
				if active, ok := ctrl.Active().Get(); ok {
					w := render.Stdout()
					w.Line()
					w.Println("Tarea activa: #%d", active.ID)
				}
			}
		},
	}
	listCmd.Flags().StringVar(&statusFilter, "status", "", "Filter by estado (pendiente, en progreso, completada)")
	listCmd.Flags().StringVar(&sinceFilter, "since", "", "Only tasks created on or after this date (YYYY-MM-DD)")
	listCmd.Flags().BoolVar(&listCached, "cached", false, "Show the last fetched list instead of calling the backend")
	cmd.AddCommand(listCmd)

	// almacen tasks start <id>
	startCmd := &cobra.Command{
		Use:   "start <id>",
		Short: "Start a pending task",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			runLifecycle(args, func(ctx context.Context, ctrl *tasks.Controller, id int) error {
				return ctrl.Start(ctx, id)
			}, "Tarea #%d iniciada")
		},
	}
	cmd.AddCommand(startCmd)

	// almacen tasks complete <id>
	completeCmd := &cobra.Command{
		Use:   "complete <id>",
		Short: "Complete the task in progress",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			runLifecycle(args, func(ctx context.Context, ctrl *tasks.Controller, id int) error {
				return ctrl.Complete(ctx, id)
			}, "Tarea #%d completada")
		},
	}
	cmd.AddCommand(completeCmd)

	// almacen tasks restart <id>
	restartCmd := &cobra.Command{
		Use:   "restart <id>",
		Short: "Send a task in progress back to pending",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			runLifecycle(args, func(ctx context.Context, ctrl *tasks.Controller, id int) error {
				return ctrl.Restart(ctx, id)
			}, "Tarea #%d reiniciada")
		},
	}
	cmd.AddCommand(restartCmd)

	// almacen tasks reset-all
	resetCmd := &cobra.Command{
		Use:   "reset-all",
		Short: "Force every task back to pending (testing)",
		Run: func(cmd *cobra.Command, args []string) {
			ctx := context.Background()
			sess := requireSession(ctx)

			ctrl := newController(effectiveRole(sess))
			if _, err := ctrl.Refresh(ctx); err != nil {
				exitOnError(err)
			}
			res, err := ctrl.ResetAll(ctx)
			if err != nil {
				exitOnError(err)
			}
			render.Stdout().Println("%d tareas reseteadas", res.Count)
		},
	}
	cmd.AddCommand(resetCmd)

	// almacen tasks create --point id:qty [--point ...] [--reponedor id]
	var pointSpecs []string
	var reponedorID int
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a task from point:quantity pairs",
		Run: func(cmd *cobra.Command, args []string) {
			ctx := context.Background()
			requireSession(ctx)

			points, err := parsePointSpecs(pointSpecs)
			if err != nil {
				exitOnError(err)
			}

			var assignee *int
			if reponedorID > 0 {
				assignee = &reponedorID
			}
			task, err := api.NewTaskService(client).Create(ctx, assignee, points)
			if err != nil {
				exitOnError(err)
			}
			render.Stdout().Println("Tarea #%d creada (%s)", task.ID, task.Status.Label())
		},
	}
	createCmd.Flags().StringArrayVar(&pointSpecs, "point", nil, "Point as id:qty (repeatable)")
	createCmd.Flags().IntVar(&reponedorID, "reponedor", 0, "Assign to this reponedor id")
	cmd.AddCommand(createCmd)

	// almacen tasks reponedores
	reponedoresCmd := &cobra.Command{
		Use:   "reponedores",
		Short: "List workers available for assignment",
		Run: func(cmd *cobra.Command, args []string) {
			ctx := context.Background()
			requireSession(ctx)

			list, err := api.NewTaskService(client).Reponedores(ctx)
			if err != nil {
				exitOnError(err)
			}
			fmt.Print(render.New(pretty).Reponedores(list))
		},
	}
	cmd.AddCommand(reponedoresCmd)

	return cmd
}

func runLifecycle(args []string, action func(context.Context, *tasks.Controller, int) error, doneFmt string) {
	ctx := context.Background()
	sess := requireSession(ctx)
	id := taskIDArg(args)

	ctrl := newController(effectiveRole(sess))
	if _, err := ctrl.Refresh(ctx); err != nil {
		exitOnError(err)
	}
	if err := action(ctx, ctrl, id); err != nil {
		exitOnError(err)
	}
	render.Stdout().Println(doneFmt, id)
}

func parsePointSpecs(specs []string) ([]domain.TaskPointInput, error) {
	if len(specs) == 0 {
		return nil, fmt.Errorf("at least one --point id:qty is required")
	}
	points := make([]domain.TaskPointInput, 0, len(specs))
	for _, s := range specs {
		id, qty, ok := strings.Cut(s, ":")
		if !ok {
			return nil, fmt.Errorf("invalid point spec %q, want id:qty", s)
		}
		pid, err := strconv.Atoi(id)
		if err != nil {
			return nil, fmt.Errorf("invalid point id in %q", s)
		}
		q, err := strconv.Atoi(qty)
		if err != nil || q <= 0 {
			return nil, fmt.Errorf("invalid quantity in %q", s)
		}
		points = append(points, domain.TaskPointInput{PointID: pid, Quantity: q})
	}
	return points, nil
}
