// Copyright 2025 AxonFlow
// SPDX-License-Identifier: BUSL-1.1

package documents

import (
	"context"
	"fmt"

	"github.com/kostasense/software-back-sub000/connectors/base"
)

// Querier runs a parameterized statement against one tenant. The connection
// router satisfies it.
type Querier interface {
	QueryTenant(ctx context.Context, tenantKey, statement string, args ...interface{}) ([]base.Row, error)
}

// Generator produces the records of one document code for one department
type Generator interface {
	Generate(ctx context.Context, bc BaseContext, keys Keys) ([]Record, error)
}

// Keys identifies whose documents are generated, where and for which year.
// Subdireccion, when set, shares the sub-directorate lookup across every
// certificate of one pass.
type Keys struct {
	ProfessorKey string
	TenantKey    string
	Year         int
	Subdireccion *SubdireccionCache
}

// Tipo distinguishes commission letters from certificates
type Tipo string

const (
	Comision   Tipo = "comision"
	Constancia Tipo = "constancia"
)

// Term periods
const (
	PeriodoEneJun = "ENE-JUN"
	PeriodoAgoDic = "AGO-DIC"
)

// Options are the fixed sub-options a table entry binds to its generator.
// Variant selection reads only these.
type Options struct {
	Tipo      Tipo
	Premiado  bool
	ConGoce   bool
	Detallada bool
	Nivel     string
	Periodo   string
	Grado     string
	Modalidad string
}

// Certificate reports whether the options select a certificate variant
func (o Options) Certificate() bool {
	return o.Tipo == Constancia
}

// Signatory is a person signing a document on behalf of a department
type Signatory struct {
	Name           string `json:"nombre"`
	Position       string `json:"cargo"`
	DepartmentName string `json:"departamento"`
}

// BaseContext carries the names every document of one department shows
type BaseContext struct {
	DepartmentKey  string `json:"clave_departamento"`
	DepartmentName string `json:"departamento"`
	DepartmentHead string `json:"jefe_departamento"`
	ProfessorName  string `json:"docente"`
}

// Record is one generated document. Fields holds every field its family
// declares; a field the executed variant did not produce is nil.
type Record struct {
	Code         string                 `json:"codigo"`
	Family       string                 `json:"familia"`
	Variant      string                 `json:"variante"`
	Context      BaseContext            `json:"contexto"`
	Fields       map[string]interface{} `json:"campos"`
	Subdireccion *Signatory             `json:"subdireccion"`
}

// GenerationError reports a failed generator query. It aborts the pass.
type GenerationError struct {
	Code       string
	Department string
	Err        error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generate %s for department %s: %v", e.Code, e.Department, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}
