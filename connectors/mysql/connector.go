// Copyright 2025 AxonFlow
// SPDX-License-Identifier: BUSL-1.1

package mysql

import (
	"context"
	"database/sql"
	"log"
	"net"
	"os"
	"strconv"
	"time"

	driver "github.com/go-sql-driver/mysql"

	"github.com/kostasense/software-back-sub000/connectors/base"
)

const (
	// DefaultMaxOpenConns is the default maximum number of open connections
	DefaultMaxOpenConns = 10
	// DefaultMaxIdleConns is the default maximum number of idle connections
	DefaultMaxIdleConns = 2
	// DefaultConnMaxLifetime is the default maximum connection lifetime
	DefaultConnMaxLifetime = 5 * time.Minute
	// DefaultConnMaxIdleTime is the default maximum idle time for connections
	DefaultConnMaxIdleTime = 5 * time.Minute
)

// MySQLConnector is a pooled connection to one MySQL department backend
type MySQLConnector struct {
	desc   *base.Descriptor
	db     *sql.DB
	logger *log.Logger
}

// NewMySQLConnector creates a new, unconnected MySQL connector
func NewMySQLConnector() *MySQLConnector {
	return &MySQLConnector{
		logger: log.New(os.Stdout, "[TENANT_MYSQL] ", log.LstdFlags),
	}
}

// NewMySQLConnectorWithDB wraps an already opened pool for tenantKey.
// Connect is a no-op for connectors built this way.
func NewMySQLConnectorWithDB(tenantKey string, db *sql.DB) *MySQLConnector {
	c := NewMySQLConnector()
	c.desc = &base.Descriptor{TenantKey: tenantKey, Engine: base.EngineMySQL}
	c.db = db
	return c
}

// Connect opens the pool described by desc and verifies it with a ping
func (c *MySQLConnector) Connect(ctx context.Context, desc *base.Descriptor) error {
	if c.db != nil {
		return nil
	}
	c.desc = desc

	dsn := BuildDSN(desc)

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return base.NewConnectorError(desc.TenantKey, "Connect", "failed to open connection", err)
	}

	maxOpenConns := base.OptionInt(desc.Options, "max_open_conns", DefaultMaxOpenConns)
	maxIdleConns := base.OptionInt(desc.Options, "max_idle_conns", DefaultMaxIdleConns)

	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxIdleConns)
	db.SetConnMaxLifetime(base.OptionDuration(desc.Options, "conn_max_lifetime", DefaultConnMaxLifetime))
	db.SetConnMaxIdleTime(base.OptionDuration(desc.Options, "conn_max_idle_time", DefaultConnMaxIdleTime))

	pingCtx, cancel := context.WithTimeout(ctx, desc.EffectiveTimeout())
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return base.NewConnectorError(desc.TenantKey, "Connect", "failed to ping database", err)
	}

	c.db = db
	c.logger.Printf("Connected to MySQL tenant %s at %s (max_open=%d, max_idle=%d)",
		desc.TenantKey, net.JoinHostPort(desc.Host, strconv.Itoa(port(desc))), maxOpenConns, maxIdleConns)

	return nil
}

// BuildDSN renders the driver DSN for a descriptor. Parameters are fixed for
// safety: no multi statements and server-side placeholders.
func BuildDSN(desc *base.Descriptor) string {
	cfg := driver.NewConfig()
	cfg.User = desc.Username
	cfg.Passwd = desc.Password
	cfg.Net = "tcp"
	cfg.Addr = net.JoinHostPort(desc.Host, strconv.Itoa(port(desc)))
	cfg.DBName = desc.Database
	cfg.ParseTime = true
	cfg.Loc = time.UTC
	cfg.Timeout = 10 * time.Second
	cfg.ReadTimeout = desc.EffectiveTimeout()
	cfg.WriteTimeout = desc.EffectiveTimeout()
	cfg.MultiStatements = false
	cfg.InterpolateParams = false
	cfg.Params = map[string]string{"charset": "utf8mb4"}

	if tls, ok := desc.Options["tls"].(string); ok && tls != "" {
		cfg.TLSConfig = tls
	}

	return cfg.FormatDSN()
}

func port(desc *base.Descriptor) int {
	if desc.Port > 0 {
		return desc.Port
	}
	return desc.DefaultPort()
}

// Disconnect closes the connection pool
func (c *MySQLConnector) Disconnect(ctx context.Context) error {
	if c.db == nil {
		return nil
	}

	if err := c.db.Close(); err != nil {
		return base.NewConnectorError(c.Name(), "Disconnect", "failed to close connection", err)
	}
	c.db = nil

	c.logger.Printf("Disconnected from MySQL tenant %s", c.Name())
	return nil
}

// HealthCheck pings the pool
func (c *MySQLConnector) HealthCheck(ctx context.Context) (*base.HealthStatus, error) {
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
			"open_connections": strconv.Itoa(stats.OpenConnections),
			"in_use":           strconv.Itoa(stats.InUse),
			"idle":             strconv.Itoa(stats.Idle),
			"wait_count":       strconv.FormatInt(stats.WaitCount, 10),
		},
		Timestamp: time.Now(),
	}, nil
}

// Query executes a SELECT and returns its rows
func (c *MySQLConnector) Query(ctx context.Context, query *base.Query) (*base.QueryResult, error) {
	if c.db == nil {
		return nil, base.NewConnectorError(c.Name(), "Query", "database not connected", nil)
	}

	queryCtx, cancel := context.WithTimeout(ctx, c.timeout(query.Timeout))
	defer cancel()

	start := time.Now()
	rows, err := c.db.QueryContext(queryCtx, query.Statement, query.Args...)
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

func (c *MySQLConnector) timeout(override time.Duration) time.Duration {
	if override > 0 {
		return override
	}
	if c.desc != nil {
		return c.desc.EffectiveTimeout()
	}
	return base.DefaultTimeout
}

// Name returns the tenant key
func (c *MySQLConnector) Name() string {
	if c.desc == nil {
		return base.EngineMySQL
	}
	return c.desc.TenantKey
}

// Type returns the connector engine
func (c *MySQLConnector) Type() string {
	return base.EngineMySQL
}
