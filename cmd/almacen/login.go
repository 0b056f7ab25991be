// Package main authentication commands.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/poe/almacen/internal/api"
	"github.com/poe/almacen/internal/render"
)

func loginCmd() *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate against the backend",
		Long:  "Log in and stash the session locally. Prompts for credentials not given as flags.",
		Run: func(cmd *cobra.Command, args []string) {
			ctx := context.Background()

			if email == "" {
				fmt.Print("Correo: ")
				reader := bufio.NewReader(os.Stdin)
				line, err := reader.ReadString('\n')
				if err != nil {
					exitOnError(err)
				}
				email = strings.TrimSpace(line)
			}
			if password == "" {
				fmt.Print("Contraseña: ")
				raw, err := term.ReadPassword(int(os.Stdin.Fd()))
				fmt.Println()
				if err != nil {
					exitOnError(err)
				}
				password = string(raw)
			}

			sess, err := api.NewAuthService(client).Login(ctx, email, password)
			if err != nil {
				exitOnError(err)
			}
			if err := store.Save(ctx, sess); err != nil {
				exitOnError(err)
			}

			w := render.Stdout()
			w.Println("Sesion iniciada como %s (%s)", sess.User.Name, sess.User.Role)
		},
	}
	cmd.Flags().StringVarP(&email, "email", "e", "", "Account email")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Account password (prompts if omitted)")
	return cmd
}

func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Drop the stored session",
		Run: func(cmd *cobra.Command, args []string) {
			if err := store.Clear(context.Background()); err != nil {
				exitOnError(err)
			}
			render.Stdout().Println("Sesion cerrada")
		},
	}
}

func whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the stored session",
		Run: func(cmd *cobra.Command, args []string) {
			sess := requireSession(context.Background())
			w := render.Stdout()
			w.Println("%s <%s>", sess.User.Name, sess.User.Email)
			w.Println("Rol: %s", effectiveRole(sess))
		},
	}
}
