// Copyright 2025 AxonFlow
// SPDX-License-Identifier: BUSL-1.1

package documents

import (
	"context"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/kostasense/software-back-sub000/connectors/base"
)

// SubdireccionKey is the tenant whose head signs every certificate
const SubdireccionKey = "subdireccion_academica"

const (
	professorNameQuery = `SELECT nombre, apellido_paterno, apellido_materno
		FROM docentes WHERE id_docente = ? LIMIT 1`

	departmentHeadQuery = `SELECT nombre, apellido_paterno, apellido_materno, cargo
		FROM jefes_departamento WHERE vigente = 1 ORDER BY fecha_inicio DESC LIMIT 1`

	departmentNameQuery = `SELECT nombre FROM departamento LIMIT 1`
)

// BuildBaseContext runs the professor, head and department lookups against
// tenantKey concurrently and returns once all three are done. fallbackName
// is used when the tenant has no row for the professor. A missing head or
// department row leaves that name empty.
func BuildBaseContext(ctx context.Context, q Querier, tenantKey, professorKey, fallbackName string) (BaseContext, error) {
	bc := BaseContext{DepartmentKey: tenantKey}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		rows, err := q.QueryTenant(gctx, tenantKey, professorNameQuery, professorKey)
		if err != nil {
			return err
		}
		bc.ProfessorName = fallbackName
		if len(rows) > 0 {
			if name := fullName(rows[0]); name != "" {
				bc.ProfessorName = name
			}
		}
		return nil
	})

	g.Go(func() error {
		rows, err := q.QueryTenant(gctx, tenantKey, departmentHeadQuery)
		if err != nil {
			return err
		}
		if len(rows) > 0 {
			bc.DepartmentHead = fullName(rows[0])
		}
		return nil
	})

	g.Go(func() error {
		rows, err := q.QueryTenant(gctx, tenantKey, departmentNameQuery)
		if err != nil {
			return err
		}
		if len(rows) > 0 {
			bc.DepartmentName, _ = rows[0].String("nombre")
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return BaseContext{}, err
	}
	return bc, nil
}

// LookupSubdireccion returns the current head of the academic
// sub-directorate, or nil when none is registered.
func LookupSubdireccion(ctx context.Context, q Querier) (*Signatory, error) {
	var (
		head *Signatory
		dept string
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := q.QueryTenant(gctx, SubdireccionKey, departmentHeadQuery)
		if err != nil {
			return err
		}
		if len(rows) > 0 {
			position, _ := rows[0].String("cargo")
			head = &Signatory{Name: fullName(rows[0]), Position: position}
		}
		return nil
	})
	g.Go(func() error {
		rows, err := q.QueryTenant(gctx, SubdireccionKey, departmentNameQuery)
		if err != nil {
			return err
		}
		if len(rows) > 0 {
			dept, _ = rows[0].String("nombre")
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if head != nil {
		head.DepartmentName = dept
	}
	return head, nil
}

// SubdireccionCache memoizes LookupSubdireccion for one generation pass.
// Failures are not cached. A nil cache looks up on every call.
type SubdireccionCache struct {
	mu   sync.Mutex
	done bool
	head *Signatory
}

// NewSubdireccionCache returns an empty cache
func NewSubdireccionCache() *SubdireccionCache {
	return &SubdireccionCache{}
}

// Lookup returns the cached signatory, querying q on first use
func (c *SubdireccionCache) Lookup(ctx context.Context, q Querier) (*Signatory, error) {
	if c == nil {
		return LookupSubdireccion(ctx, q)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.done {
		return c.head, nil
	}
	head, err := LookupSubdireccion(ctx, q)
	if err != nil {
		return nil, err
	}
	c.head, c.done = head, true
	return head, nil
}

func fullName(row base.Row) string {
	parts := make([]string, 0, 3)
	for _, col := range []string{"nombre", "apellido_paterno", "apellido_materno"} {
		if s, ok := row.String(col); ok {
			if s = strings.TrimSpace(s); s != "" {
				parts = append(parts, s)
			}
		}
	}
	return strings.Join(parts, " ")
}
