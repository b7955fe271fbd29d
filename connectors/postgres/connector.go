// Copyright 2025 AxonFlow
// SPDX-License-Identifier: BUSL-1.1

package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver

	"github.com/kostasense/software-back-sub000/connectors/base"
)

// PostgresConnector is a pooled connection to one PostgreSQL department backend
type PostgresConnector struct {
	desc   *base.Descriptor
	db     *sql.DB
	logger *log.Logger
}

// NewPostgresConnector creates a new PostgreSQL connector instance
func NewPostgresConnector() *PostgresConnector {
	return &PostgresConnector{
		logger: log.New(os.Stdout, "[TENANT_POSTGRES] ", log.LstdFlags),
	}
}

// NewPostgresConnectorWithDB wraps an already opened pool for tenantKey.
// Connect is a no-op for connectors built this way.
func NewPostgresConnectorWithDB(tenantKey string, db *sql.DB) *PostgresConnector {
	c := NewPostgresConnector()
	c.desc = &base.Descriptor{TenantKey: tenantKey, Engine: base.EnginePostgres}
	c.db = db
	return c
}

// Connect establishes a connection to PostgreSQL
func (c *PostgresConnector) Connect(ctx context.Context, desc *base.Descriptor) error {
	if c.db != nil {
		return nil
	}
	c.desc = desc

	db, err := sql.Open("postgres", ConnectionURL(desc))
	if err != nil {
		return base.NewConnectorError(desc.TenantKey, "Connect", "failed to open connection", err)
	}

	maxOpenConns := base.OptionInt(desc.Options, "max_open_conns", 10)
	maxIdleConns := base.OptionInt(desc.Options, "max_idle_conns", 2)

	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxIdleConns)
	db.SetConnMaxLifetime(base.OptionDuration(desc.Options, "conn_max_lifetime", 5*time.Minute))

	pingCtx, cancel := context.WithTimeout(ctx, desc.EffectiveTimeout())
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return base.NewConnectorError(desc.TenantKey, "Connect", "failed to ping database", err)
	}

	c.db = db
	c.logger.Printf("Connected to PostgreSQL tenant %s (max_conns=%d)", desc.TenantKey, maxOpenConns)

	return nil
}

// ConnectionURL renders a lib/pq connection URL for desc. sslmode defaults
// to "disable" unless the descriptor options name one.
func ConnectionURL(desc *base.Descriptor) string {
	port := desc.Port
	if port == 0 {
		port = desc.DefaultPort()
	}

	sslmode := "disable"
	if v, ok := desc.Options["sslmode"].(string); ok && v != "" {
		sslmode = v
	}

	q := url.Values{}
	q.Set("sslmode", sslmode)
	q.Set("connect_timeout", strconv.Itoa(int(desc.EffectiveTimeout().Seconds())))

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(desc.Username, desc.Password),
		Host:     net.JoinHostPort(desc.Host, strconv.Itoa(port)),
		Path:     "/" + desc.Database,
		RawQuery: q.Encode(),
	}
	return u.String()
}

// Rebind rewrites '?' placeholders as $1, $2, ... Question marks inside
// single-quoted literals are left alone.
func Rebind(statement string) string {
	if !strings.Contains(statement, "?") {
		return statement
	}

	var b strings.Builder
	b.Grow(len(statement) + 8)

	n := 0
	inQuote := false
	for i := 0; i < len(statement); i++ {
		ch := statement[i]
		switch {
		case ch == '\'':
			inQuote = !inQuote
			b.WriteByte(ch)
		case ch == '?' && !inQuote:
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
		default:
			b.WriteByte(ch)
		}
	}
	return b.String()
}

// Disconnect closes the database connection
func (c *PostgresConnector) Disconnect(ctx context.Context) error {
	if c.db != nil {
		if err := c.db.Close(); err != nil {
			return base.NewConnectorError(c.Name(), "Disconnect", "failed to close connection", err)
		}
		c.db = nil
		c.logger.Printf("Disconnected from PostgreSQL tenant %s", c.Name())
	}
	return nil
}

// HealthCheck verifies the database connection is healthy
func (c *PostgresConnector) HealthCheck(ctx context.Context) (*base.HealthStatus, error) {
	if c.db == nil {
		return &base.HealthStatus{
			Healthy:   false,
			Error:     "database not connected",
			Timestamp: time.Now(),
		}, nil
	}

	start := time.Now()
	err := c.db.PingContext(ctx)
	latency := time.Since(start)

	if err != nil {
		return &base.HealthStatus{
			Healthy:   false,
			Latency:   latency,
			Timestamp: time.Now(),
			Error:     err.Error(),
		}, nil
	}

	stats := c.db.Stats()
	return &base.HealthStatus{
		Healthy: true,
		Latency: latency,
		Details: map[string]string{
			"open_connections": fmt.Sprintf("%d", stats.OpenConnections),
			"in_use":           fmt.Sprintf("%d", stats.InUse),
			"idle":             fmt.Sprintf("%d", stats.Idle),
		},
		Timestamp: time.Now(),
	}, nil
}

// Query executes a SELECT query and returns results
func (c *PostgresConnector) Query(ctx context.Context, query *base.Query) (*base.QueryResult, error) {
	if c.db == nil {
		return nil, base.NewConnectorError(c.Name(), "Query", "database not connected", nil)
	}

	queryCtx, cancel := context.WithTimeout(ctx, c.timeout(query.Timeout))
	defer cancel()

	start := time.Now()
	rows, err := c.db.QueryContext(queryCtx, Rebind(query.Statement), query.Args...)
	if err != nil {
		return nil, base.NewConnectorError(c.Name(), "Query", "query execution failed", err)
	}
	defer func() { _ = rows.Close() }()

	results, err := base.ScanRows(rows, query.Limit)
	if err != nil {
		return nil, base.NewConnectorError(c.Name(), "Query", "failed to read rows", err)
	}

	return &base.QueryResult{
		Rows:      results,
		RowCount:  len(results),
		Duration:  time.Since(start),
		Connector: c.Name(),
	}, nil
}

func (c *PostgresConnector) timeout(override time.Duration) time.Duration {
	if override > 0 {
		return override
	}
	if c.desc != nil {
		return c.desc.EffectiveTimeout()
	}
	return base.DefaultTimeout
}

// Name returns the tenant key
func (c *PostgresConnector) Name() string {
	if c.desc == nil {
		return base.EnginePostgres
	}
	return c.desc.TenantKey
}

// Type returns the connector type
func (c *PostgresConnector) Type() string {
	return base.EnginePostgres
}
