package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func capture(t *testing.T) (*Logger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	return New("test").WithOutput(&buf), &buf
}

func decode(t *testing.T, buf *bytes.Buffer) Event {
	t.Helper()
	var e Event
	require.NoError(t, json.Unmarshal(buf.Bytes(), &e))
	return e
}

func TestInfoEvent(t *testing.T) {
	log, buf := capture(t)

	log.Info("map.loaded", map[string]interface{}{"cells": 25})

	e := decode(t, buf)
	assert.Equal(t, LevelInfo, e.Level)
	assert.Equal(t, "test", e.Component)
	assert.Equal(t, "map.loaded", e.Event)
	assert.EqualValues(t, 25, e.Extra["cells"])
	assert.Empty(t, e.Error)
}

func TestErrorCarriesMessage(t *testing.T) {
	log, buf := capture(t)

	log.Error("route.fetch", nil, errors.New("boom"))

	e := decode(t, buf)
	assert.Equal(t, LevelError, e.Level)
	assert.Equal(t, "boom", e.Error)
}

func TestRequestEvent(t *testing.T) {
	log, buf := capture(t)

	log.RequestEvent("GET", "/tareas/reponedor", 200, time.Now(), nil)

	e := decode(t, buf)
	assert.Equal(t, "request", e.Event)
	assert.Equal(t, "GET", e.Extra["method"])
	assert.Equal(t, "/tareas/reponedor", e.Extra["path"])
	assert.EqualValues(t, 200, e.Extra["status"])
}

func TestTaskEvent(t *testing.T) {
	log, buf := capture(t)

	log.TaskEvent("task.start", 42, nil)

	e := decode(t, buf)
	assert.Equal(t, "task.start", e.Event)
	assert.Equal(t, 42, e.TaskID)
	assert.Equal(t, LevelInfo, e.Level)
}

func TestWithRole(t *testing.T) {
	log, buf := capture(t)

	log.WithRole("supervisor").Info("tasks.loaded", nil)

	e := decode(t, buf)
	assert.Equal(t, "supervisor", e.Role)
}
