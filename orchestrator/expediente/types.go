// Copyright 2025 AxonFlow
// SPDX-License-Identifier: BUSL-1.1

package expediente

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kostasense/software-back-sub000/orchestrator/catalog"
	"github.com/kostasense/software-back-sub000/orchestrator/documents"
)

// Users resolves a user key to its professor and home department
type Users interface {
	LookupByKey(ctx context.Context, userKey string) (*catalog.User, error)
}

// Activities tells which document codes apply to each department
type Activities interface {
	DepartmentsWithDocuments(ctx context.Context) ([]string, error)
	DocumentCodesForDepartment(ctx context.Context, department string) ([]string, error)
}

// Dispatcher runs the generator registered for a document code
type Dispatcher interface {
	Generate(ctx context.Context, code string, bc documents.BaseContext, keys documents.Keys) ([]documents.Record, error)
}

// Expediente is the aggregate of every document generated for one professor
// and year.
type Expediente struct {
	Key          string     `json:"clave"`
	ProfessorKey string     `json:"id_docente"`
	UserKey      string     `json:"clave_usuario"`
	Year         int        `json:"anio"`
	GeneratedAt  time.Time  `json:"generado_en"`
	Documents    []Document `json:"documentos"`
}

// Document is one generated record stored under an expediente
type Document struct {
	ID            string           `json:"id"`
	Code          string           `json:"codigo"`
	DepartmentKey string           `json:"clave_departamento"`
	Position      int              `json:"posicion"`
	Record        documents.Record `json:"registro"`
}

// Key returns the composite key of the expediente for professorKey and year
func Key(professorKey string, year int) string {
	return fmt.Sprintf("%s:%d", professorKey, year)
}

var documentNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("urn:expedientes:documentos"))

// DocumentID derives the id of the document at position within the batch of
// an expediente. The same inputs always give the same id.
func DocumentID(expedienteKey, code string, position int) string {
	name := fmt.Sprintf("%s|%s|%d", expedienteKey, code, position)
	return uuid.NewSHA1(documentNamespace, []byte(name)).String()
}
