// Copyright 2025 AxonFlow
// SPDX-License-Identifier: BUSL-1.1

package registry

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"regexp"
	"time"

	"github.com/kostasense/software-back-sub000/connectors/base"
	"github.com/kostasense/software-back-sub000/connectors/config"
)

// DefaultTable is the central connection directory table
const DefaultTable = "directorio_conexiones"

var tableNameRegex = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// PostgresDirectory reads tenant descriptors from the central database. It
// keeps no cache: every lookup is a query.
type PostgresDirectory struct {
	db      *sql.DB
	table   string
	secrets config.SecretsManager
	logger  *log.Logger
}

// NewPostgresDirectory creates a directory over db. An empty table selects
// DefaultTable. secrets may be nil.
func NewPostgresDirectory(db *sql.DB, table string, secrets config.SecretsManager) (*PostgresDirectory, error) {
	if table == "" {
		table = DefaultTable
	}
	if !tableNameRegex.MatchString(table) {
		return nil, fmt.Errorf("invalid directory table name %q", table)
	}
	return &PostgresDirectory{
		db:      db,
		table:   table,
		secrets: secrets,
		logger:  log.New(os.Stdout, "[TENANT_DIRECTORY] ", log.LstdFlags),
	}, nil
}

// InitSchema creates the directory table if it doesn't exist
func (d *PostgresDirectory) InitSchema(ctx context.Context) error {
	query := `
	CREATE TABLE IF NOT EXISTS ` + d.table + ` (
		clave_departamento VARCHAR(64) PRIMARY KEY,
		nombre VARCHAR(255) NOT NULL DEFAULT '',
		motor VARCHAR(16) NOT NULL DEFAULT 'mysql',
		host VARCHAR(255),
		puerto INTEGER NOT NULL DEFAULT 0,
		usuario VARCHAR(128) NOT NULL DEFAULT '',
		contrasena VARCHAR(255) NOT NULL DEFAULT '',
		base_datos VARCHAR(128) NOT NULL DEFAULT '',
		secreto_credenciales VARCHAR(255),
		opciones JSONB NOT NULL DEFAULT '{}'::jsonb,
		timeout_ms INTEGER NOT NULL DEFAULT 0,
		activo BOOLEAN NOT NULL DEFAULT TRUE
	)`

	if _, err := d.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to create directory schema: %w", err)
	}
	return nil
}

const descriptorColumns = `clave_departamento, nombre, motor, host, puerto, usuario, contrasena,
		base_datos, secreto_credenciales, opciones, timeout_ms`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanDescriptor(row rowScanner) (*base.Descriptor, error) {
	var (
		desc        base.Descriptor
		host        sql.NullString
		secret      sql.NullString
		optionsJSON []byte
		timeoutMs   int64
	)

	err := row.Scan(
		&desc.TenantKey,
		&desc.DisplayName,
		&desc.Engine,
		&host,
		&desc.Port,
		&desc.Username,
		&desc.Password,
		&desc.Database,
		&secret,
		&optionsJSON,
		&timeoutMs,
	)
	if err != nil {
		return nil, err
	}

	desc.Host = host.String
	desc.CredentialsSecret = secret.String
	desc.Timeout = time.Duration(timeoutMs) * time.Millisecond

	if len(optionsJSON) > 0 {
		if err := json.Unmarshal(optionsJSON, &desc.Options); err != nil {
			return nil, base.NewConfigurationError(desc.TenantKey, "options", "options are not valid JSON")
		}
	}
	return &desc, nil
}

// ConnectionDescriptor reads the descriptor for tenantKey and resolves its
// credentials. A missing or inactive row yields base.ErrTenantNotConfigured.
func (d *PostgresDirectory) ConnectionDescriptor(ctx context.Context, tenantKey string) (*base.Descriptor, error) {
	query := `SELECT ` + descriptorColumns + `
		FROM ` + d.table + `
		WHERE clave_departamento = $1 AND activo = TRUE`

	desc, err := scanDescriptor(d.db.QueryRowContext(ctx, query, tenantKey))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", base.ErrTenantNotConfigured, tenantKey)
	}
	if err != nil {
		if base.IsConfiguration(err) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to read directory entry %s: %w", tenantKey, err)
	}

	if err := ResolveCredentials(ctx, desc, d.secrets); err != nil {
		return nil, err
	}
	return desc, nil
}

// ListTenants returns every active directory entry ordered by key
func (d *PostgresDirectory) ListTenants(ctx context.Context) ([]TenantSummary, error) {
	query := `SELECT ` + descriptorColumns + `
		FROM ` + d.table + `
		WHERE activo = TRUE
		ORDER BY clave_departamento`

	rows, err := d.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list directory: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out := make([]TenantSummary, 0)
	for rows.Next() {
		desc, err := scanDescriptor(rows)
		if err != nil {
			d.logger.Printf("Skipping unreadable directory row: %v", err)
			continue
		}
		out = append(out, summarize(desc))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list directory: %w", err)
	}
	return out, nil
}
