// Package logging provides structured JSON logging for the almacen client.
package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"
)

// Level represents log severity
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// Event represents a structured log event
type Event struct {
	Timestamp string                 `json:"ts"`
	Level     Level                  `json:"level"`
	Component string                 `json:"component"`
	Event     string                 `json:"event"`
	Role      string                 `json:"role,omitempty"`
	TaskID    int                    `json:"task_id,omitempty"`
	Duration  int64                  `json:"duration_ms,omitempty"`
	Error     string                 `json:"error,omitempty"`
	Extra     map[string]interface{} `json:"extra,omitempty"`
}

// Logger provides structured logging for one client component.
type Logger struct {
	component string
	role      string
	out       io.Writer
}

// New creates a new logger for a component. Events go to stderr so they never
// interleave with rendered output on stdout.
func New(component string) *Logger {
	return &Logger{
		component: component,
		role:      os.Getenv("ALMACEN_ROLE"),
		out:       os.Stderr,
	}
}

// WithRole sets the role context.
func (l *Logger) WithRole(role string) *Logger {
	return &Logger{component: l.component, role: role, out: l.out}
}

// WithOutput redirects events (for testing).
func (l *Logger) WithOutput(w io.Writer) *Logger {
	return &Logger{component: l.component, role: l.role, out: w}
}

func (l *Logger) log(level Level, event string, extra map[string]interface{}, err error) {
	e := Event{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Level:     level,
		Component: l.component,
		Event:     event,
		Role:      l.role,
		Extra:     extra,
	}

	if err != nil {
		e.Error = err.Error()
	}

	data, _ := json.Marshal(e)
	fmt.Fprintln(l.out, string(data))
}

// Debug logs a debug event
func (l *Logger) Debug(event string, extra map[string]interface{}) {
	l.log(LevelDebug, event, extra, nil)
}

// Info logs an info event
func (l *Logger) Info(event string, extra map[string]interface{}) {
	l.log(LevelInfo, event, extra, nil)
}

// Warn logs a warning event
func (l *Logger) Warn(event string, extra map[string]interface{}, err error) {
	l.log(LevelWarn, event, extra, err)
}

// Error logs an error event
func (l *Logger) Error(event string, extra map[string]interface{}, err error) {
	l.log(LevelError, event, extra, err)
}

// RequestEvent logs one backend request with its outcome.
func (l *Logger) RequestEvent(method, path string, status int, start time.Time, err error) {
	e := Event{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Level:     LevelInfo,
		Component: l.component,
		Event:     "request",
		Role:      l.role,
		Duration:  time.Since(start).Milliseconds(),
		Extra: map[string]interface{}{
			"method": method,
			"path":   path,
			"status": status,
		},
	}

	if err != nil {
		e.Level = LevelError
		e.Error = err.Error()
	}

	data, _ := json.Marshal(e)
	fmt.Fprintln(l.out, string(data))
}

// TaskEvent logs a task lifecycle event.
func (l *Logger) TaskEvent(event string, taskID int, err error) {
	e := Event{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Level:     LevelInfo,
		Component: l.component,
		Event:     event,
		Role:      l.role,
		TaskID:    taskID,
	}

	if err != nil {
		e.Level = LevelError
		e.Error = err.Error()
	}

	data, _ := json.Marshal(e)
	fmt.Fprintln(l.out, string(data))
}
