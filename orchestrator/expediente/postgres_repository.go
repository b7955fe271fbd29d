// Copyright 2025 AxonFlow
// SPDX-License-Identifier: BUSL-1.1

package expediente

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "github.com/lib/pq"
)

// PostgresRepository implements Repository using PostgreSQL
type PostgresRepository struct {
	db *sql.DB
}

// Ensure PostgresRepository implements Repository
var _ Repository = (*PostgresRepository)(nil)

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// InitSchema creates the expediente tables if they don't exist
func (r *PostgresRepository) InitSchema(ctx context.Context) error {
	query := `
	CREATE TABLE IF NOT EXISTS expedientes (
		clave VARCHAR(128) PRIMARY KEY,
		id_docente VARCHAR(64) NOT NULL,
		clave_usuario VARCHAR(64) NOT NULL DEFAULT '',
		anio INTEGER NOT NULL,
		generado_en TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (id_docente, anio)
	);

	CREATE TABLE IF NOT EXISTS documentos_generados (
		id UUID PRIMARY KEY,
		clave_expediente VARCHAR(128) NOT NULL REFERENCES expedientes(clave) ON DELETE CASCADE,
		codigo VARCHAR(128) NOT NULL,
		clave_departamento VARCHAR(64) NOT NULL,
		posicion INTEGER NOT NULL,
		registro JSONB NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_documentos_generados_expediente ON documentos_generados(clave_expediente, posicion);
	`
	if _, err := r.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to create expediente tables: %w", err)
	}
	return nil
}

// Delete removes the expediente and its documents in one transaction
func (r *PostgresRepository) Delete(ctx context.Context, key string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin delete: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM documentos_generados WHERE clave_expediente = $1`, key); err != nil {
		return fmt.Errorf("failed to delete documents of %s: %w", key, err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM expedientes WHERE clave = $1`, key); err != nil {
		return fmt.Errorf("failed to delete expediente %s: %w", key, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit delete of %s: %w", key, err)
	}
	return nil
}

// Save inserts the header and every document in one transaction
func (r *PostgresRepository) Save(ctx context.Context, exp *Expediente) error {
	if exp == nil || exp.Key == "" {
		return ErrInvalidInput
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin save: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO expedientes (clave, id_docente, clave_usuario, anio, generado_en)
		VALUES ($1, $2, $3, $4, $5)`,
		exp.Key, exp.ProfessorKey, exp.UserKey, exp.Year, exp.GeneratedAt)
	if err != nil {
		return fmt.Errorf("failed to insert expediente %s: %w", exp.Key, err)
	}

	for _, d := range exp.Documents {
		record, err := json.Marshal(d.Record)
		if err != nil {
			return fmt.Errorf("failed to marshal document %s: %w", d.ID, err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO documentos_generados (id, clave_expediente, codigo, clave_departamento, posicion, registro)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			d.ID, exp.Key, d.Code, d.DepartmentKey, d.Position, record)
		if err != nil {
			return fmt.Errorf("failed to insert document %s (%s): %w", d.ID, d.Code, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit expediente %s: %w", exp.Key, err)
	}
	return nil
}

// Get reads an expediente with its documents in position order
func (r *PostgresRepository) Get(ctx context.Context, key string) (*Expediente, error) {
	exp := &Expediente{Key: key}
	err := r.db.QueryRowContext(ctx, `
		SELECT id_docente, clave_usuario, anio, generado_en
		FROM expedientes
		WHERE clave = $1`, key).Scan(&exp.ProfessorKey, &exp.UserKey, &exp.Year, &exp.GeneratedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("expediente %s", key)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get expediente %s: %w", key, err)
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, codigo, clave_departamento, posicion, registro
		FROM documentos_generados
		WHERE clave_expediente = $1
		ORDER BY posicion`, key)
	if err != nil {
		return nil, fmt.Errorf("failed to get documents of %s: %w", key, err)
	}
	defer rows.Close()

	exp.Documents = []Document{}
	for rows.Next() {
		var (
			d      Document
			record []byte
		)
		if err := rows.Scan(&d.ID, &d.Code, &d.DepartmentKey, &d.Position, &record); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		if err := json.Unmarshal(record, &d.Record); err != nil {
			return nil, fmt.Errorf("failed to unmarshal document %s: %w", d.ID, err)
		}
		exp.Documents = append(exp.Documents, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate documents of %s: %w", key, err)
	}
	return exp, nil
}

// Ping checks database connectivity
func (r *PostgresRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
