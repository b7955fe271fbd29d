// Copyright 2025 AxonFlow
// SPDX-License-Identifier: BUSL-1.1

package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger(buf *bytes.Buffer) *Logger {
	l := New("test-component")
	l.SetOutput(buf)
	l.SetLevel(DEBUG)
	return l
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []LogEntry {
	t.Helper()
	var entries []LogEntry
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var e LogEntry
		require.NoError(t, json.Unmarshal([]byte(line), &e), "line: %s", line)
		entries = append(entries, e)
	}
	return entries
}

func TestNew(t *testing.T) {
	tests := []struct {
		name           string
		instanceID     string
		expectedInstID string
	}{
		{"with instance ID set", "instance-123", "instance-123"},
		{"without instance ID", "", "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("INSTANCE_ID", tt.instanceID)

			l := New("router")
			assert.Equal(t, "router", l.Component)
			assert.Equal(t, tt.expectedInstID, l.InstanceID)
			assert.NotEmpty(t, l.Container)
		})
	}
}

func TestLogLevels(t *testing.T) {
	tests := []struct {
		name    string
		logFunc func(*Logger, string, string, string, map[string]interface{})
		level   LogLevel
	}{
		{"info", (*Logger).Info, INFO},
		{"error", (*Logger).Error, ERROR},
		{"warn", (*Logger).Warn, WARN},
		{"debug", (*Logger).Debug, DEBUG},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			l := newTestLogger(&buf)

			tt.logFunc(l, "sistemas", "req-1", "message", map[string]interface{}{"k": "v"})

			entries := decodeLines(t, &buf)
			require.Len(t, entries, 1)
			assert.Equal(t, tt.level, entries[0].Level)
			assert.Equal(t, "sistemas", entries[0].Department)
			assert.Equal(t, "req-1", entries[0].RequestID)
			assert.Equal(t, "test-component", entries[0].Component)
			assert.Equal(t, "v", entries[0].Fields["k"])
		})
	}
}

func TestMinimumLevelFiltersEntries(t *testing.T) {
	var buf bytes.Buffer
	l := newTestLogger(&buf)
	l.SetLevel(WARN)

	l.Debug("", "", "dropped", nil)
	l.Info("", "", "dropped", nil)
	l.Warn("", "", "kept", nil)
	l.Error("", "", "kept", nil)

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 2)
	assert.Equal(t, WARN, entries[0].Level)
	assert.Equal(t, ERROR, entries[1].Level)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, WARN, ParseLevel("warn"))
	assert.Equal(t, ERROR, ParseLevel(" ERROR "))
	assert.Equal(t, DEBUG, ParseLevel(""))
	assert.Equal(t, DEBUG, ParseLevel("verbose"))
}

func TestInfoWithDuration(t *testing.T) {
	var buf bytes.Buffer
	l := newTestLogger(&buf)

	l.InfoWithDuration("", "req", "done", 1500*time.Microsecond, nil)

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 1)
	assert.InDelta(t, 1.5, entries[0].Fields["duration_ms"], 0.0001)
}

func TestErrorWithErr(t *testing.T) {
	var buf bytes.Buffer
	l := newTestLogger(&buf)

	l.ErrorWithErr("rh", "req", "failed", errors.New("boom"), map[string]interface{}{"codigo": "x"})

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "boom", entries[0].Fields["error"])
	assert.Equal(t, "x", entries[0].Fields["codigo"])
}

func TestNilLoggerIsSafe(t *testing.T) {
	var l *Logger
	assert.NotPanics(t, func() { l.Info("", "", "ignored", nil) })
}

func TestRequestIDContext(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, RequestID(ctx))

	ctx = WithRequestID(ctx, "req-42")
	assert.Equal(t, "req-42", RequestID(ctx))
}
