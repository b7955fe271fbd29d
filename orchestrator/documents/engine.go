// Copyright 2025 AxonFlow
// SPDX-License-Identifier: BUSL-1.1

package documents

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// Family is a document family: the tenant table it reads and the fields
// every record of the family carries.
type Family struct {
	Name    string
	Table   string
	Fields  []string
	OrderBy string
}

// Param names a value bound to a placeholder. Values always travel as query
// arguments.
type Param int

const (
	ParamNivel Param = iota
	ParamPeriodo
	ParamGrado
	ParamModalidad
)

// Variant is one query shape of a family
type Variant struct {
	Name string

	// Columns is the subset of family fields the variant reads; nil reads
	// every field. Fields outside it are emitted as nil.
	Columns []string

	// YearOp compares the anio column with the year; empty means "="
	YearOp string

	// Where is appended to the professor/year filter
	Where  string
	Params []Param
}

// Selector picks a variant from options. It must not look at data.
type Selector func(Options) Variant

// Statement renders the SELECT for a variant of family. Every value is a
// '?' placeholder; the first two are professor key and year.
func (f Family) Statement(v Variant) string {
	cols := v.Columns
	if cols == nil {
		cols = f.Fields
	}

	var b strings.Builder
	b.WriteString("SELECT ")
	b.WriteString(strings.Join(cols, ", "))
	b.WriteString(" FROM ")
	b.WriteString(f.Table)
	op := v.YearOp
	if op == "" {
		op = "="
	}
	b.WriteString(" WHERE id_docente = ? AND anio ")
	b.WriteString(op)
	b.WriteString(" ?")
	if v.Where != "" {
		b.WriteString(" AND ")
		b.WriteString(v.Where)
	}
	if f.OrderBy != "" {
		b.WriteString(" ORDER BY ")
		b.WriteString(f.OrderBy)
	}
	return b.String()
}

// args binds the variant parameters in order
func args(v Variant, keys Keys, opts Options) []interface{} {
	out := make([]interface{}, 0, 2+len(v.Params))
	out = append(out, keys.ProfessorKey, keys.Year)
	for _, p := range v.Params {
		switch p {
		case ParamNivel:
			out = append(out, opts.Nivel)
		case ParamPeriodo:
			out = append(out, opts.Periodo)
		case ParamGrado:
			out = append(out, opts.Grado)
		case ParamModalidad:
			out = append(out, opts.Modalidad)
		}
	}
	return out
}

// handler is a table entry: a family, a selector and the options bound to it
type handler struct {
	code   string
	family Family
	sel    Selector
	opts   Options
	q      Querier
}

func bind(q Querier, code string, family Family, sel Selector, opts Options) *handler {
	return &handler{code: code, family: family, sel: sel, opts: opts, q: q}
}

// Generate runs the selected variant against keys.TenantKey and shapes
// every row. No rows is not an error.
func (h *handler) Generate(ctx context.Context, bc BaseContext, keys Keys) ([]Record, error) {
	v := h.sel(h.opts)

	rows, err := h.q.QueryTenant(ctx, keys.TenantKey, h.family.Statement(v), args(v, keys, h.opts)...)
	if err != nil {
		return nil, &GenerationError{Code: h.code, Department: keys.TenantKey, Err: err}
	}
	if len(rows) == 0 {
		return nil, nil
	}

	var sub *Signatory
	if h.opts.Certificate() {
		sub, err = keys.Subdireccion.Lookup(ctx, h.q)
		if err != nil {
			return nil, &GenerationError{Code: h.code, Department: SubdireccionKey, Err: err}
		}
	}

	records := make([]Record, 0, len(rows))
	for _, row := range rows {
		fields := make(map[string]interface{}, len(h.family.Fields))
		for _, f := range h.family.Fields {
			fields[f] = row.Normalize(f)
		}
		records = append(records, Record{
			Code:         h.code,
			Family:       h.family.Name,
			Variant:      v.Name,
			Context:      bc,
			Fields:       fields,
			Subdireccion: sub,
		})
	}
	return records, nil
}

// Engine is the code to generator table
type Engine struct {
	table map[string]Generator
}

// NewEngine builds the dispatch table over q
func NewEngine(q Querier) *Engine {
	return &Engine{table: newTable(q)}
}

// NewEngineWithTable builds an engine over an explicit table
func NewEngineWithTable(table map[string]Generator) *Engine {
	return &Engine{table: table}
}

// Lookup returns the generator registered for code
func (e *Engine) Lookup(code string) (Generator, bool) {
	g, ok := e.table[code]
	return g, ok
}

// Codes returns every registered code in order
func (e *Engine) Codes() []string {
	out := make([]string, 0, len(e.table))
	for code := range e.table {
		out = append(out, code)
	}
	sort.Strings(out)
	return out
}

// Generate dispatches code. An unregistered code yields no records and no
// error.
func (e *Engine) Generate(ctx context.Context, code string, bc BaseContext, keys Keys) ([]Record, error) {
	g, ok := e.table[code]
	if !ok {
		return nil, nil
	}
	return g.Generate(ctx, bc, keys)
}

// Describe returns the statement a registered code would run. Used for
// diagnostics and tests.
func (e *Engine) Describe(code string) (string, error) {
	g, ok := e.table[code]
	if !ok {
		return "", fmt.Errorf("no generator for code %s", code)
	}
	h, ok := g.(*handler)
	if !ok {
		return "", fmt.Errorf("generator for %s is not table-bound", code)
	}
	return h.family.Statement(h.sel(h.opts)), nil
}
