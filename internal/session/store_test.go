package session

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poe/almacen/internal/domain"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func testSession() domain.Session {
	return domain.Session{
		AccessToken: "tok-abc",
		TokenType:   "bearer",
		User: domain.User{
			ID:    "u-9",
			Name:  "Ana",
			Email: "ana@bodega.cl",
			Role:  domain.RoleReponedor,
		},
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, err := s.Load(ctx)
	assert.ErrorIs(t, err, ErrNoSession)

	require.NoError(t, s.Save(ctx, testSession()))
	got, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, testSession(), got)
}

func TestSaveReplacesPrevious(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, testSession()))

	next := testSession()
	next.AccessToken = "tok-new"
	next.User.Role = domain.RoleSupervisor
	require.NoError(t, s.Save(ctx, next))

	got, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok-new", got.AccessToken)
	assert.Equal(t, domain.RoleSupervisor, got.User.Role)
}

func TestTokenSource(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, err := s.Token()
	assert.ErrorIs(t, err, ErrNoSession)

	require.NoError(t, s.Save(ctx, testSession()))
	tok, err := s.Token()
	require.NoError(t, err)
	assert.Equal(t, "tok-abc", tok)

	// Invalidate clears the credential, as on a 401.
	require.NoError(t, s.Invalidate())
	_, err = s.Token()
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestSnapshots(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	var out domain.TaskMetrics
	err := s.LatestSnapshot(ctx, "metrics", &out)
	assert.ErrorIs(t, err, sql.ErrNoRows)

	_, err = s.Snapshot(ctx, "metrics", domain.TaskMetrics{Total: 3, Pending: 3})
	require.NoError(t, err)
	id2, err := s.Snapshot(ctx, "metrics", domain.TaskMetrics{Total: 3, Completed: 1})
	require.NoError(t, err)
	assert.NotEmpty(t, id2)

	require.NoError(t, s.LatestSnapshot(ctx, "metrics", &out))
	assert.Equal(t, 1, out.Completed)
}

func TestPruneKeepsNewestPerKind(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := s.Snapshot(ctx, "tasks", []int{i})
		require.NoError(t, err)
	}
	_, err := s.Snapshot(ctx, "map", "grid")
	require.NoError(t, err)

	require.NoError(t, s.PruneSnapshots(ctx, 2))

	var n int
	require.NoError(t, s.db.QueryRow(`SELECT COUNT(*) FROM snapshots WHERE kind = 'tasks'`).Scan(&n))
	assert.Equal(t, 2, n)
	require.NoError(t, s.db.QueryRow(`SELECT COUNT(*) FROM snapshots WHERE kind = 'map'`).Scan(&n))
	assert.Equal(t, 1, n)

	var latest []int
	require.NoError(t, s.LatestSnapshot(ctx, "tasks", &latest))
	assert.Equal(t, []int{4}, latest)
}
