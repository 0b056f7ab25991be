package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnv(t *testing.T) {
	Reset()

	os.Setenv("ALMACEN_API_URL", "https://api.test:8443")
	os.Setenv("ALMACEN_ALGORITHM", "dijkstra")
	os.Setenv("ALMACEN_ROLE", "supervisor")
	defer func() {
		os.Unsetenv("ALMACEN_API_URL")
		os.Unsetenv("ALMACEN_ALGORITHM")
		os.Unsetenv("ALMACEN_ROLE")
		Reset()
	}()

	env := Get()

	assert.Equal(t, "https://api.test:8443", env.APIURL)
	assert.Equal(t, "dijkstra", env.Algorithm)
	assert.Equal(t, "supervisor", env.Role)
}

func TestEnvDefaults(t *testing.T) {
	Reset()

	os.Unsetenv("ALMACEN_API_URL")
	os.Unsetenv("ALMACEN_ALGORITHM")
	defer Reset()

	env := Get()

	assert.Equal(t, "http://localhost:8000", env.APIURL)
	assert.Equal(t, "vecino_mas_cercano", env.Algorithm)
}

func TestEnvSingleton(t *testing.T) {
	Reset()
	defer Reset()

	assert.Same(t, Get(), Get())
}

func TestHomeOverride(t *testing.T) {
	Reset()

	dir := t.TempDir()
	os.Setenv("ALMACEN_HOME", dir)
	defer func() {
		os.Unsetenv("ALMACEN_HOME")
		Reset()
	}()

	assert.Equal(t, dir, HomeDir())
	assert.Equal(t, filepath.Join(dir, "almacen.db"), Path("almacen.db"))
}
