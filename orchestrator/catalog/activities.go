// Copyright 2025 AxonFlow
// SPDX-License-Identifier: BUSL-1.1

package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/kostasense/software-back-sub000/connectors/config"
)

const allDepartmentsKey = "*"

// ActivityStore reads the activity catalog. Each row maps a document code to
// the department that issues it; a NULL department makes the code apply to
// every department.
type ActivityStore struct {
	db *sql.DB

	codes       *config.TTLCache[[]string]
	departments *config.TTLCache[string]
}

// NewActivityStore creates an activity store over db. A positive cacheTTL
// caches lookups for that long.
func NewActivityStore(db *sql.DB, cacheTTL time.Duration) *ActivityStore {
	s := &ActivityStore{db: db}
	if cacheTTL > 0 {
		s.codes = config.NewTTLCache[[]string](cacheTTL)
		s.departments = config.NewTTLCache[string](cacheTTL)
	}
	return s
}

// InitSchema creates the catalog table if it doesn't exist
func (s *ActivityStore) InitSchema(ctx context.Context) error {
	query := `
	CREATE TABLE IF NOT EXISTS actividad_documentos (
		id SERIAL PRIMARY KEY,
		nombre_actividad VARCHAR(255) NOT NULL DEFAULT '',
		codigo_documento VARCHAR(128) NOT NULL,
		clave_departamento VARCHAR(64)
	);
	CREATE INDEX IF NOT EXISTS idx_actividad_documentos_departamento ON actividad_documentos(clave_departamento);
	CREATE INDEX IF NOT EXISTS idx_actividad_documentos_codigo ON actividad_documentos(codigo_documento);
	`
	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to create actividad_documentos table: %w", err)
	}
	return nil
}

// DepartmentsWithDocuments returns the distinct departments that have at
// least one document code mapped to them.
func (s *ActivityStore) DepartmentsWithDocuments(ctx context.Context) ([]string, error) {
	if s.codes != nil {
		if v, ok := s.codes.Get(allDepartmentsKey); ok {
			return v, nil
		}
	}

	out, err := s.column(ctx, `
		SELECT DISTINCT clave_departamento
		FROM actividad_documentos
		WHERE clave_departamento IS NOT NULL
		ORDER BY clave_departamento`)
	if err != nil {
		return nil, fmt.Errorf("failed to list departments with documents: %w", err)
	}

	if s.codes != nil {
		s.codes.Set(allDepartmentsKey, out)
	}
	return out, nil
}

// DocumentCodesForDepartment returns the codes scoped to department plus
// every unscoped code.
func (s *ActivityStore) DocumentCodesForDepartment(ctx context.Context, department string) ([]string, error) {
	if s.codes != nil {
		if v, ok := s.codes.Get("dept:" + department); ok {
			return v, nil
		}
	}

	out, err := s.column(ctx, `
		SELECT DISTINCT codigo_documento
		FROM actividad_documentos
		WHERE clave_departamento = $1 OR clave_departamento IS NULL
		ORDER BY codigo_documento`, department)
	if err != nil {
		return nil, fmt.Errorf("failed to list document codes for %s: %w", department, err)
	}

	if s.codes != nil {
		s.codes.Set("dept:"+department, out)
	}
	return out, nil
}

// DepartmentForDocument returns the department that issues code. ok is
// false when the code is unknown or unscoped.
func (s *ActivityStore) DepartmentForDocument(ctx context.Context, code string) (string, bool, error) {
	if s.departments != nil {
		if v, ok := s.departments.Get(code); ok {
			return v, v != "", nil
		}
	}

	query := `
		SELECT clave_departamento
		FROM actividad_documentos
		WHERE codigo_documento = $1 AND clave_departamento IS NOT NULL
		ORDER BY clave_departamento
		LIMIT 1`

	var dept string
	err := s.db.QueryRowContext(ctx, query, code).Scan(&dept)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return "", false, fmt.Errorf("failed to resolve department for %s: %w", code, err)
	}

	if s.departments != nil {
		s.departments.Set(code, dept)
	}
	return dept, dept != "", nil
}

// Invalidate drops every cached lookup
func (s *ActivityStore) Invalidate() {
	if s.codes != nil {
		s.codes.InvalidateAll()
		s.departments.InvalidateAll()
	}
}

func (s *ActivityStore) column(ctx context.Context, query string, args ...interface{}) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}
