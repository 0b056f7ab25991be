// Package api is the single gateway to the warehouse backend. It injects the
// bearer token, latches on 401 so an expired session never causes a request
// storm, and normalizes every legacy payload shape into the canonical domain
// types before anything downstream sees it.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/poe/almacen/internal/logging"
)

// HTTPClient interface for HTTP requests (enables testing)
type HTTPClient interface {
	Do(*http.Request) (*http.Response, error)
}

// Verify http.Client implements HTTPClient
var _ HTTPClient = (*http.Client)(nil)

// TokenSource supplies the bearer token and is told when it expires.
// The session stash implements it.
type TokenSource interface {
	Token() (string, error)
	Invalidate() error
}

// Client issues authenticated requests against the backend.
type Client struct {
	baseURL string
	http    HTTPClient
	tokens  TokenSource
	log     *logging.Logger
	expired atomic.Bool
}

// New creates a client for the given base URL.
func New(baseURL string, tokens TokenSource) *Client {
	return NewWithHTTP(baseURL, tokens, &http.Client{Timeout: 30 * time.Second})
}

// NewWithHTTP creates a client with a custom transport (for testing).
func NewWithHTTP(baseURL string, tokens TokenSource, hc HTTPClient) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    hc,
		tokens:  tokens,
		log:     logging.New("api"),
	}
}

// SessionExpired reports whether the 401 latch is set. Components must stop
// auto-fetching once it is.
func (c *Client) SessionExpired() bool {
	return c.expired.Load()
}

// ResetSession clears the latch after a fresh login.
func (c *Client) ResetSession() {
	c.expired.Store(false)
}

// do runs one request and decodes the JSON response into out (when non-nil).
// auth=false skips the bearer header (login only).
func (c *Client) do(ctx context.Context, method, path string, body, out any, auth bool) error {
	if auth && c.expired.Load() {
		return ErrSessionExpired
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.New().String())

	if auth {
		token, err := c.tokens.Token()
		if err != nil {
			return err
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.RequestEvent(method, path, 0, start, err)
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	c.log.RequestEvent(method, path, resp.StatusCode, start, nil)

	if resp.StatusCode == http.StatusUnauthorized {
		c.handleUnauthorized()
		return ErrSessionExpired
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &HTTPError{Status: resp.StatusCode, Message: readErrorMessage(resp.Body)}
	}

	if out == nil {
		return nil
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

// handleUnauthorized sets the latch once and drops the stored session.
// Further authenticated calls fail fast with ErrSessionExpired.
func (c *Client) handleUnauthorized() {
	if c.expired.Swap(true) {
		return
	}
	c.log.Warn("session.expired", nil, nil)
	if err := c.tokens.Invalidate(); err != nil {
		c.log.Error("session.invalidate", nil, err)
	}
}

// readErrorMessage pulls the backend's detail/mensaje field out of an error
// body, falling back to the raw text.
func readErrorMessage(r io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(r, 4096))
	if err != nil || len(data) == 0 {
		return ""
	}
	var payload struct {
		Detail  string `json:"detail"`
		Mensaje string `json:"mensaje"`
	}
	if json.Unmarshal(data, &payload) == nil {
		if payload.Detail != "" {
			return payload.Detail
		}
		if payload.Mensaje != "" {
			return payload.Mensaje
		}
	}
	return strings.TrimSpace(string(data))
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out, true)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out, true)
}

func (c *Client) put(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPut, path, body, out, true)
}
