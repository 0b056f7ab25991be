// Package config provides centralized configuration for the almacen client.
// All environment lookups live here instead of scattered os.Getenv calls.
package config

import (
	"os"
	"path/filepath"
	"sync"
)

// Env holds the client environment variables.
type Env struct {
	// APIURL is the backend base URL (ALMACEN_API_URL)
	APIURL string

	// Algorithm is the route-optimization algorithm requested from the
	// backend (ALMACEN_ALGORITHM)
	Algorithm string

	// Role overrides the stored session role for map/task endpoints
	// (ALMACEN_ROLE: "reponedor" or "supervisor")
	Role string

	// Home overrides the data directory (ALMACEN_HOME)
	Home string

	// NoColor disables colored output (NO_COLOR, any value)
	NoColor bool
}

var (
	env     *Env
	envOnce sync.Once
)

// Get returns the singleton environment configuration.
// Thread-safe, loads once on first call.
func Get() *Env {
	envOnce.Do(func() {
		env = &Env{
			APIURL:    getEnvDefault("ALMACEN_API_URL", "http://localhost:8000"),
			Algorithm: getEnvDefault("ALMACEN_ALGORITHM", "vecino_mas_cercano"),
			Role:      os.Getenv("ALMACEN_ROLE"),
			Home:      os.Getenv("ALMACEN_HOME"),
			NoColor:   os.Getenv("NO_COLOR") != "",
		}
	})
	return env
}

// Reset clears the cached environment (for testing).
func Reset() {
	envOnce = sync.Once{}
	env = nil
}

func getEnvDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// HomeDir returns the client data directory (~/.almacen unless overridden).
func HomeDir() string {
	if h := Get().Home; h != "" {
		return h
	}
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".almacen")
}

// Path returns a path under the data directory.
func Path(parts ...string) string {
	all := append([]string{HomeDir()}, parts...)
	return filepath.Join(all...)
}

// EnsureDir creates a directory if it doesn't exist.
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0755)
}
