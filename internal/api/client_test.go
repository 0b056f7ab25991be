package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTokens struct {
	token       string
	invalidated atomic.Bool
}

func (f *fakeTokens) Token() (string, error) { return f.token, nil }
func (f *fakeTokens) Invalidate() error {
	f.invalidated.Store(true)
	return nil
}

func TestBearerAndRequestID(t *testing.T) {
	var gotAuth, gotReqID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotReqID = r.Header.Get("X-Request-ID")
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := New(srv.URL, &fakeTokens{token: "tok-123"})
	require.NoError(t, c.get(context.Background(), "/tareas/reponedor", nil))

	assert.Equal(t, "Bearer tok-123", gotAuth)
	assert.NotEmpty(t, gotReqID)
}

func TestUnauthorizedLatches(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	tokens := &fakeTokens{token: "stale"}
	c := New(srv.URL, tokens)

	err := c.get(context.Background(), "/tareas/reponedor", nil)
	assert.ErrorIs(t, err, ErrSessionExpired)
	assert.True(t, c.SessionExpired())
	assert.True(t, tokens.invalidated.Load())

	// Once latched, no further requests reach the backend.
	err = c.get(context.Background(), "/tareas/reponedor", nil)
	assert.ErrorIs(t, err, ErrSessionExpired)
	assert.EqualValues(t, 1, hits.Load())

	c.ResetSession()
	assert.False(t, c.SessionExpired())
}

func TestHTTPErrorCarriesServerMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"detail":"la tarea ya fue iniciada"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, &fakeTokens{token: "tok"})
	err := c.put(context.Background(), "/tareas/4/iniciar", nil, nil)

	var he *HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, 409, he.Status)
	assert.Equal(t, "la tarea ya fue iniciada", he.Message)
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(&HTTPError{Status: 404}))
	assert.False(t, IsNotFound(&HTTPError{Status: 500}))
	assert.False(t, IsNotFound(ErrSessionExpired))
}

func TestEmptyResponseBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := New(srv.URL, &fakeTokens{token: "tok"})
	var out map[string]any
	assert.NoError(t, c.put(context.Background(), "/tareas/4/reiniciar", nil, &out))
}
