// Copyright 2025 AxonFlow
// SPDX-License-Identifier: BUSL-1.1

package base

import (
	"context"
	"time"
)

// Connector is a pooled handle to one department backend.
// Implementations must be safe for concurrent use.
type Connector interface {
	// Lifecycle Management
	Connect(ctx context.Context, desc *Descriptor) error
	Disconnect(ctx context.Context) error
	HealthCheck(ctx context.Context) (*HealthStatus, error)

	// Data Operations (read-only)
	Query(ctx context.Context, query *Query) (*QueryResult, error)

	// Metadata
	Name() string // Tenant key the connector serves
	Type() string // Engine (mysql, postgres)
}

// Query is a parameterized read. Statements use '?' placeholders; connectors
// for engines with another placeholder syntax rebind them.
type Query struct {
	Statement string        `json:"statement"`
	Args      []interface{} `json:"args"`
	Timeout   time.Duration `json:"timeout"` // Override default timeout
	Limit     int           `json:"limit"`   // Result limit (optional)
}

// QueryResult contains the rows returned by a Query
type QueryResult struct {
	Rows      []Row         `json:"rows"`
	RowCount  int           `json:"row_count"`
	Duration  time.Duration `json:"duration"`
	Connector string        `json:"connector"`
}

// HealthStatus represents the health of a connector
type HealthStatus struct {
	Healthy   bool              `json:"healthy"`
	Latency   time.Duration     `json:"latency"`
	Details   map[string]string `json:"details,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
	Error     string            `json:"error,omitempty"`
}
