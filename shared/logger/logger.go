// Copyright 2025 AxonFlow
// SPDX-License-Identifier: BUSL-1.1

package logger

import (
	"encoding/json"
	"io"
	"log"
	"os"
	"strings"
	"time"
)

// LogLevel represents the severity of a log entry
type LogLevel string

const (
	DEBUG LogLevel = "DEBUG"
	INFO  LogLevel = "INFO"
	WARN  LogLevel = "WARN"
	ERROR LogLevel = "ERROR"
)

var levelRank = map[LogLevel]int{
	DEBUG: 0,
	INFO:  1,
	WARN:  2,
	ERROR: 3,
}

// Logger writes structured log entries for one component
type Logger struct {
	Component  string
	InstanceID string
	Container  string

	minLevel LogLevel
	out      *log.Logger
}

// LogEntry is the JSON shape of a single log line
type LogEntry struct {
	Timestamp  string                 `json:"timestamp"`
	Level      LogLevel               `json:"level"`
	Component  string                 `json:"component"`
	InstanceID string                 `json:"instance_id"`
	Container  string                 `json:"container"`
	Department string                 `json:"department,omitempty"`
	RequestID  string                 `json:"request_id,omitempty"`
	Message    string                 `json:"message"`
	Fields     map[string]interface{} `json:"fields,omitempty"`
}

// New creates a Logger for the specified component writing to stdout
func New(component string) *Logger {
	instanceID := os.Getenv("INSTANCE_ID")
	if instanceID == "" {
		instanceID = "unknown"
	}

	container, err := os.Hostname()
	if err != nil {
		container = "unknown"
	}

	return &Logger{
		Component:  component,
		InstanceID: instanceID,
		Container:  container,
		minLevel:   ParseLevel(os.Getenv("LOG_LEVEL")),
		out:        log.New(os.Stdout, "", 0),
	}
}

// ParseLevel converts a level name to a LogLevel, defaulting to DEBUG
func ParseLevel(s string) LogLevel {
	level := LogLevel(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := levelRank[level]; ok {
		return level
	}
	return DEBUG
}

// SetOutput redirects log lines to w
func (l *Logger) SetOutput(w io.Writer) {
	l.out = log.New(w, "", 0)
}

// SetLevel sets the minimum level written
func (l *Logger) SetLevel(level LogLevel) {
	l.minLevel = level
}

// Enabled reports whether entries at level are written
func (l *Logger) Enabled(level LogLevel) bool {
	return levelRank[level] >= levelRank[l.minLevel]
}

// Log writes a structured entry
func (l *Logger) Log(level LogLevel, department, requestID, message string, fields map[string]interface{}) {
	if l == nil || !l.Enabled(level) {
		return
	}

	entry := LogEntry{
		Timestamp:  time.Now().UTC().Format(time.RFC3339Nano),
		Level:      level,
		Component:  l.Component,
		InstanceID: l.InstanceID,
		Container:  l.Container,
		Department: department,
		RequestID:  requestID,
		Message:    message,
		Fields:     fields,
	}

	jsonBytes, err := json.Marshal(entry)
	if err != nil {
		// Fields can hold values json cannot encode
		log.Printf("ERROR: Failed to marshal log entry: %v", err)
		return
	}

	out := l.out
	if out == nil {
		out = log.New(os.Stdout, "", 0)
	}
	out.Println(string(jsonBytes))
}

// Info logs an informational message
func (l *Logger) Info(department, requestID, message string, fields map[string]interface{}) {
	l.Log(INFO, department, requestID, message, fields)
}

// Error logs an error message
func (l *Logger) Error(department, requestID, message string, fields map[string]interface{}) {
	l.Log(ERROR, department, requestID, message, fields)
}

// Warn logs a warning message
func (l *Logger) Warn(department, requestID, message string, fields map[string]interface{}) {
	l.Log(WARN, department, requestID, message, fields)
}

// Debug logs a debug message
func (l *Logger) Debug(department, requestID, message string, fields map[string]interface{}) {
	l.Log(DEBUG, department, requestID, message, fields)
}

// InfoWithDuration logs an info message with a duration_ms field
func (l *Logger) InfoWithDuration(department, requestID, message string, duration time.Duration, fields map[string]interface{}) {
	if fields == nil {
		fields = make(map[string]interface{})
	}
	fields["duration_ms"] = float64(duration.Microseconds()) / 1000
	l.Info(department, requestID, message, fields)
}

// ErrorWithErr logs an error message with the error text in the fields
func (l *Logger) ErrorWithErr(department, requestID, message string, err error, fields map[string]interface{}) {
	if fields == nil {
		fields = make(map[string]interface{})
	}
	if err != nil {
		fields["error"] = err.Error()
	}
	l.Error(department, requestID, message, fields)
}
