package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/poe/almacen/internal/api"
	"github.com/poe/almacen/internal/config"
	"github.com/poe/almacen/internal/domain"
	"github.com/poe/almacen/internal/session"
)

// snapshotKeep is how many snapshots of each kind survive pruning.
const snapshotKeep = 10

// exitOnError prints to stderr and exits. Session expiry gets a pointed hint
// since it is by far the most common failure.
func exitOnError(err error) {
	if errors.Is(err, api.ErrSessionExpired) || errors.Is(err, session.ErrNoSession) {
		fmt.Fprintln(os.Stderr, "Error: sesion no valida. Ejecuta 'almacen login'")
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

// requireSession loads the stored session or exits.
func requireSession(ctx context.Context) domain.Session {
	sess, err := store.Load(ctx)
	if err != nil {
		exitOnError(err)
	}
	return sess
}

// effectiveRole resolves the role: env override first, then the session.
func effectiveRole(sess domain.Session) domain.Role {
	if r := config.Get().Role; r != "" {
		return domain.Role(r)
	}
	return sess.User.Role
}
