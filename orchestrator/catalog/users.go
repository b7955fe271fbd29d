// Copyright 2025 AxonFlow
// SPDX-License-Identifier: BUSL-1.1

package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/kostasense/software-back-sub000/connectors/base"
)

// User is the part of a user account the orchestrator needs. ProfessorKey
// and DepartmentKey are empty when the account has none.
type User struct {
	UserKey       string `json:"clave_usuario"`
	ProfessorKey  string `json:"id_docente,omitempty"`
	DepartmentKey string `json:"clave_departamento,omitempty"`
	DisplayName   string `json:"nombre"`
}

// UserStore looks users up in the central database
type UserStore struct {
	db *sql.DB
}

// NewUserStore creates a user store over db
func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

// InitSchema creates the users table if it doesn't exist
func (s *UserStore) InitSchema(ctx context.Context) error {
	query := `
	CREATE TABLE IF NOT EXISTS usuarios (
		clave_usuario VARCHAR(64) PRIMARY KEY,
		id_docente VARCHAR(64),
		clave_departamento VARCHAR(64),
		nombre_mostrar VARCHAR(255) NOT NULL DEFAULT '',
		activo BOOLEAN NOT NULL DEFAULT TRUE
	);
	CREATE INDEX IF NOT EXISTS idx_usuarios_docente ON usuarios(id_docente);
	`
	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to create usuarios table: %w", err)
	}
	return nil
}

// LookupByKey returns the active user with userKey or an error wrapping
// base.ErrNotFound.
func (s *UserStore) LookupByKey(ctx context.Context, userKey string) (*User, error) {
	query := `
		SELECT clave_usuario, id_docente, clave_departamento, nombre_mostrar
		FROM usuarios
		WHERE clave_usuario = $1 AND activo = TRUE`

	var (
		u          User
		professor  sql.NullString
		department sql.NullString
	)
	err := s.db.QueryRowContext(ctx, query, userKey).Scan(&u.UserKey, &professor, &department, &u.DisplayName)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: usuario %s", base.ErrNotFound, userKey)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up user %s: %w", userKey, err)
	}
	u.ProfessorKey = professor.String
	u.DepartmentKey = department.String
	return &u, nil
}
