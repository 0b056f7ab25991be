// Package session persists the login credential and lightweight snapshots of
// backend payloads in a local sqlite database under the almacen home dir.
package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/oklog/ulid/v2"

	"github.com/poe/almacen/internal/api"
	"github.com/poe/almacen/internal/domain"
)

// ErrNoSession means no login credential is stashed.
var ErrNoSession = errors.New("no stored session")

// Store is the sqlite-backed local state: one session row at most, plus an
// append-only snapshot log of fetched payloads for offline inspection.
type Store struct {
	db      *sql.DB
	path    string
	entropy *ulid.MonotonicEntropy
}

// Verify Store can feed the API client with tokens
var _ api.TokenSource = (*Store)(nil)

// Open opens (and migrates) the database inside dataDir.
func Open(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	dbPath := dataDir + "/almacen.db"
	db, err := sql.Open("sqlite3", dbPath+"?_journal=WAL&_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	s := &Store{
		db:      db,
		path:    dbPath,
		entropy: ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0),
	}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS session (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		access_token TEXT NOT NULL,
		token_type TEXT NOT NULL,
		user_json TEXT NOT NULL,
		saved_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS snapshots (
		id TEXT PRIMARY KEY,
		kind TEXT NOT NULL,
		payload_json TEXT NOT NULL,
		fetched_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_snapshots_kind ON snapshots(kind, fetched_at DESC);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save stashes the session, replacing any previous one.
func (s *Store) Save(ctx context.Context, sess domain.Session) error {
	userJSON, err := json.Marshal(sess.User)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO session (id, access_token, token_type, user_json, saved_at)
		VALUES (1, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			access_token = excluded.access_token,
			token_type = excluded.token_type,
			user_json = excluded.user_json,
			saved_at = excluded.saved_at
	`, sess.AccessToken, sess.TokenType, userJSON, time.Now().UTC())
	return err
}

// Load returns the stashed session or ErrNoSession.
func (s *Store) Load(ctx context.Context) (domain.Session, error) {
	var sess domain.Session
	var userJSON string
	err := s.db.QueryRowContext(ctx, `
		SELECT access_token, token_type, user_json FROM session WHERE id = 1
	`).Scan(&sess.AccessToken, &sess.TokenType, &userJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Session{}, ErrNoSession
	}
	if err != nil {
		return domain.Session{}, err
	}
	if err := json.Unmarshal([]byte(userJSON), &sess.User); err != nil {
		return domain.Session{}, err
	}
	return sess, nil
}

// Clear drops the stashed session. Clearing an empty store is not an error.
func (s *Store) Clear(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM session`)
	return err
}

// Token implements api.TokenSource from the stashed session.
func (s *Store) Token() (string, error) {
	sess, err := s.Load(context.Background())
	if err != nil {
		return "", err
	}
	return sess.AccessToken, nil
}

// Invalidate implements api.TokenSource; called on 401.
func (s *Store) Invalidate() error {
	return s.Clear(context.Background())
}

// Snapshot records a fetched payload under a kind ("map", "tasks", "route").
func (s *Store) Snapshot(ctx context.Context, kind string, payload any) (string, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	id := ulid.MustNew(ulid.Timestamp(time.Now()), s.entropy).String()
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO snapshots (id, kind, payload_json, fetched_at)
		VALUES (?, ?, ?, ?)
	`, id, kind, string(data), time.Now().UTC())
	if err != nil {
		return "", err
	}
	return id, nil
}

// LatestSnapshot loads the newest snapshot of a kind into out.
// Returns sql.ErrNoRows when none exists.
func (s *Store) LatestSnapshot(ctx context.Context, kind string, out any) error {
	var payload string
	err := s.db.QueryRowContext(ctx, `
		SELECT payload_json FROM snapshots
		WHERE kind = ? ORDER BY id DESC LIMIT 1
	`, kind).Scan(&payload)
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(payload), out)
}

// PruneSnapshots keeps the newest n snapshots per kind.
func (s *Store) PruneSnapshots(ctx context.Context, n int) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM snapshots WHERE id NOT IN (
			SELECT id FROM snapshots AS keep
			WHERE keep.kind = snapshots.kind
			ORDER BY keep.id DESC LIMIT ?
		)
	`, n)
	return err
}
