package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poe/almacen/internal/domain"
)

func TestLoginResetsLatchAndMapsRole(t *testing.T) {
	var body map[string]string
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/login", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"))
		raw, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(raw, &body))
		w.Write([]byte(`{
			"access_token": "fresh",
			"token_type": "bearer",
			"user_info": {"id": "u-9", "nombre": "Ana", "correo": "ana@bodega.cl", "rol": 2}
		}`))
	})
	c.expired.Store(true)

	sess, err := NewAuthService(c).Login(context.Background(), "ana@bodega.cl", "secreta")
	require.NoError(t, err)

	assert.Equal(t, "secreta", body["contraseña"])
	assert.Equal(t, "fresh", sess.AccessToken)
	assert.Equal(t, domain.RoleSupervisor, sess.User.Role)
	assert.False(t, c.SessionExpired())
}

func TestRoleFromWire(t *testing.T) {
	assert.Equal(t, domain.RoleSupervisor, roleFromWire("Supervisor"))
	assert.Equal(t, domain.RoleSupervisor, roleFromWire(float64(2)))
	assert.Equal(t, domain.RoleReponedor, roleFromWire("Reponedor"))
	assert.Equal(t, domain.RoleReponedor, roleFromWire(float64(3)))
	assert.Equal(t, domain.RoleReponedor, roleFromWire(nil))
}
