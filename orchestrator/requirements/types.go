// Copyright 2025 AxonFlow
// SPDX-License-Identifier: BUSL-1.1

package requirements

import (
	"context"

	"github.com/kostasense/software-back-sub000/orchestrator/catalog"
)

// Users resolves a user key to its professor and home department
type Users interface {
	LookupByKey(ctx context.Context, userKey string) (*catalog.User, error)
}

// Activities resolves the department that issues a document code
type Activities interface {
	DepartmentForDocument(ctx context.Context, code string) (string, bool, error)
}

// Requirement is one compliance check. A NotApplicable requirement is
// reported as satisfied.
type Requirement struct {
	Slot          string `json:"rubro"`
	Name          string `json:"nombre"`
	Satisfied     bool   `json:"cumple"`
	NotApplicable bool   `json:"no_aplica,omitempty"`
	DepartmentKey string `json:"clave_departamento"`
}

// Checklist is every requirement of one professor for an evaluation year,
// in slot order.
type Checklist struct {
	UserKey        string        `json:"clave_usuario"`
	ProfessorKey   string        `json:"id_docente"`
	ProfessorName  string        `json:"docente"`
	DepartmentKey  string        `json:"clave_departamento"`
	DepartmentName string        `json:"departamento"`
	DepartmentHead string        `json:"jefe_departamento"`
	EvaluationYear int           `json:"anio_evaluacion"`
	Requirements   []Requirement `json:"requisitos"`
}

// Satisfied reports whether every requirement is satisfied
func (c *Checklist) Satisfied() bool {
	for _, r := range c.Requirements {
		if !r.Satisfied {
			return false
		}
	}
	return true
}
