// Copyright 2025 AxonFlow
// SPDX-License-Identifier: BUSL-1.1

package documents

import (
	"context"
	"errors"
	"go/format"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kostasense/software-back-sub000/connectors/base"
)

func TestSelectAsesoriaConcursos_IsPure(t *testing.T) {
	opts := Options{Tipo: Comision, Premiado: false}
	first := selectAsesoriaConcursos(opts)
	for i := 0; i < 10; i++ {
		v := selectAsesoriaConcursos(opts)
		assert.Equal(t, first, v)
	}
	assert.Equal(t, "comision", first.Name)

	assert.Equal(t, "constancia_premiado", selectAsesoriaConcursos(Options{Tipo: Constancia, Premiado: true}).Name)
	assert.Equal(t, "constancia_nivel", selectAsesoriaConcursos(Options{Tipo: Constancia, Nivel: "nacional"}).Name)
	assert.Equal(t, "constancia", selectAsesoriaConcursos(Options{Tipo: Constancia}).Name)
}

func TestFamilyStatement(t *testing.T) {
	f := Family{Name: "x", Table: "t", Fields: []string{"a", "b"}, OrderBy: "a"}

	assert.Equal(t, "SELECT a, b FROM t WHERE id_docente = ? AND anio = ? ORDER BY a", f.Statement(Variant{}))
	assert.Equal(t,
		"SELECT a FROM t WHERE id_docente = ? AND anio <= ? AND b = ? ORDER BY a",
		f.Statement(Variant{Columns: []string{"a"}, YearOp: "<=", Where: "b = ?", Params: []Param{ParamNivel}}))
}

func TestArgs_BindsParamsInOrder(t *testing.T) {
	v := Variant{Params: []Param{ParamGrado, ParamPeriodo}}
	got := args(v, Keys{ProfessorKey: "D-7", Year: 2025}, Options{Grado: "posgrado", Periodo: PeriodoEneJun})
	assert.Equal(t, []interface{}{"D-7", 2025, "posgrado", PeriodoEneJun}, got)
}

func TestNewEngine_TableIsWellFormed(t *testing.T) {
	e := NewEngine(newFakeQuerier())
	codes := e.Codes()
	require.GreaterOrEqual(t, len(codes), 50)

	families := map[string]bool{}
	for _, code := range codes {
		g, ok := e.Lookup(code)
		require.True(t, ok)
		h, ok := g.(*handler)
		require.True(t, ok, code)
		assert.Equal(t, code, h.code, "table key and bound code differ")
		families[h.family.Name] = true

		stmt, err := e.Describe(code)
		require.NoError(t, err)
		assert.Equal(t, 2+len(h.sel(h.opts).Params), strings.Count(stmt, "?"), code)
	}
	assert.Len(t, families, 25)
}

func TestGenerate_ShapesRowsWithExplicitAbsence(t *testing.T) {
	q := newFakeQuerier()
	q.on("sistemas", "SELECT nombre_concurso",
		base.Row{"nombre_concurso": "Innovatec", "nombre_proyecto": []byte("Robot"), "nivel": "local"},
		base.Row{"nombre_concurso": "Hackatec", "nivel": "nacional"},
	)
	e := NewEngine(q)
	bc := BaseContext{DepartmentKey: "sistemas", DepartmentName: "Sistemas"}

	recs, err := e.Generate(context.Background(), "asesoria_concurso_comision", bc, Keys{ProfessorKey: "D-1", TenantKey: "sistemas", Year: 2025})
	require.NoError(t, err)
	require.Len(t, recs, 2)

	r := recs[0]
	assert.Equal(t, "asesoria_concurso_comision", r.Code)
	assert.Equal(t, "asesoria_concursos", r.Family)
	assert.Equal(t, "comision", r.Variant)
	assert.Equal(t, bc, r.Context)
	assert.Nil(t, r.Subdireccion)
	assert.Equal(t, "Robot", r.Fields["nombre_proyecto"])
	require.Contains(t, r.Fields, "lugar_obtenido")
	assert.Nil(t, r.Fields["lugar_obtenido"])
	assert.Len(t, r.Fields, len(asesoriaConcursos.Fields))

	require.Contains(t, recs[1].Fields, "nombre_proyecto")
	assert.Nil(t, recs[1].Fields["nombre_proyecto"])

	calls := q.callsTo("sistemas")
	require.Len(t, calls, 1)
	assert.Equal(t, []interface{}{"D-1", 2025}, calls[0].args)
	assert.Empty(t, q.callsTo(SubdireccionKey))
}

func TestGenerate_CertificateAttachesSubdireccion(t *testing.T) {
	q := newFakeQuerier()
	q.on("sistemas", "SELECT nombre_concurso", base.Row{"nombre_concurso": "Innovatec", "nivel": "nacional"})
	q.on(SubdireccionKey, "SELECT nombre, apellido_paterno, apellido_materno, cargo",
		base.Row{"nombre": "Laura", "apellido_paterno": "Medina", "apellido_materno": "Ruiz", "cargo": "Subdirectora Académica"})
	q.on(SubdireccionKey, "SELECT nombre FROM departamento", base.Row{"nombre": "Subdirección Académica"})

	e := NewEngine(q)
	recs, err := e.Generate(context.Background(), "asesoria_concurso_nacional_constancia", BaseContext{}, Keys{ProfessorKey: "D-1", TenantKey: "sistemas", Year: 2025})
	require.NoError(t, err)
	require.Len(t, recs, 1)

	assert.Equal(t, "constancia_nivel", recs[0].Variant)
	require.NotNil(t, recs[0].Subdireccion)
	assert.Equal(t, Signatory{Name: "Laura Medina Ruiz", Position: "Subdirectora Académica", DepartmentName: "Subdirección Académica"}, *recs[0].Subdireccion)

	calls := q.callsTo("sistemas")
	require.Len(t, calls, 1)
	assert.Equal(t, []interface{}{"D-1", 2025, "nacional"}, calls[0].args)
	assert.NotContains(t, calls[0].statement, "nacional")
}

func TestGenerate_SubdireccionLookedUpOncePerPass(t *testing.T) {
	q := newFakeQuerier()
	q.on("sistemas", "SELECT nombre_concurso", base.Row{"nombre_concurso": "Innovatec", "nivel": "nacional"})
	q.on(SubdireccionKey, "SELECT nombre, apellido_paterno, apellido_materno, cargo",
		base.Row{"nombre": "Laura", "apellido_paterno": "Medina", "apellido_materno": "Ruiz", "cargo": "Subdirectora Académica"})
	q.on(SubdireccionKey, "SELECT nombre FROM departamento", base.Row{"nombre": "Subdirección Académica"})

	e := NewEngine(q)
	keys := Keys{ProfessorKey: "D-1", TenantKey: "sistemas", Year: 2025, Subdireccion: NewSubdireccionCache()}
	for i := 0; i < 3; i++ {
		recs, err := e.Generate(context.Background(), "asesoria_concurso_nacional_constancia", BaseContext{}, keys)
		require.NoError(t, err)
		require.Len(t, recs, 1)
		require.NotNil(t, recs[0].Subdireccion)
		assert.Equal(t, "Laura Medina Ruiz", recs[0].Subdireccion.Name)
	}
	assert.Len(t, q.callsTo(SubdireccionKey), 2)

	// without a cache every certificate queries again
	keys.Subdireccion = nil
	_, err := e.Generate(context.Background(), "asesoria_concurso_nacional_constancia", BaseContext{}, keys)
	require.NoError(t, err)
	assert.Len(t, q.callsTo(SubdireccionKey), 4)
}

func TestSubdireccionCache_FailureNotCached(t *testing.T) {
	q := newFakeQuerier()
	q.on(SubdireccionKey, "SELECT nombre, apellido_paterno, apellido_materno, cargo",
		base.Row{"nombre": "Laura", "apellido_paterno": "Medina", "apellido_materno": "Ruiz", "cargo": "Subdirectora Académica"})
	q.on(SubdireccionKey, "SELECT nombre FROM departamento", base.Row{"nombre": "Subdirección Académica"})
	q.fail(SubdireccionKey, "SELECT nombre FROM departamento", errors.New("connection reset"))

	cache := NewSubdireccionCache()
	_, err := cache.Lookup(context.Background(), q)
	require.Error(t, err)

	q.mu.Lock()
	delete(q.errs, SubdireccionKey+"|SELECT nombre FROM departamento")
	q.mu.Unlock()
	failed := len(q.callsTo(SubdireccionKey))

	head, err := cache.Lookup(context.Background(), q)
	require.NoError(t, err)
	require.NotNil(t, head)
	assert.Equal(t, "Subdirección Académica", head.DepartmentName)
	assert.Len(t, q.callsTo(SubdireccionKey), failed+2)

	again, err := cache.Lookup(context.Background(), q)
	require.NoError(t, err)
	assert.Same(t, head, again)
	assert.Len(t, q.callsTo(SubdireccionKey), failed+2)
}

func TestTableSourceIsFormatted(t *testing.T) {
	src, err := os.ReadFile("table.go")
	require.NoError(t, err)
	formatted, err := format.Source(src)
	require.NoError(t, err)
	assert.Equal(t, string(formatted), string(src))
}

func TestGenerate_NoRowsIsEmpty(t *testing.T) {
	q := newFakeQuerier()
	e := NewEngine(q)

	recs, err := e.Generate(context.Background(), "tutoria_constancia", BaseContext{}, Keys{TenantKey: "sistemas", Year: 2025})
	require.NoError(t, err)
	assert.Empty(t, recs)
	assert.Empty(t, q.callsTo(SubdireccionKey))
}

func TestGenerate_QueryFailure(t *testing.T) {
	q := newFakeQuerier()
	boom := base.NewConnectorError("sistemas", "Query", "connection refused", errors.New("dial tcp"))
	q.fail("sistemas", "SELECT", boom)

	e := NewEngine(q)
	_, err := e.Generate(context.Background(), "licencia", BaseContext{}, Keys{TenantKey: "sistemas", Year: 2025})
	require.Error(t, err)

	var gerr *GenerationError
	require.ErrorAs(t, err, &gerr)
	assert.Equal(t, "licencia", gerr.Code)
	assert.Equal(t, "sistemas", gerr.Department)
	assert.True(t, base.IsUnreachable(err))
}

func TestGenerate_SubdireccionFailure(t *testing.T) {
	q := newFakeQuerier()
	q.on("sistemas", "SELECT", base.Row{"programa": "ISC"})
	q.fail(SubdireccionKey, "SELECT", errors.New("timeout"))

	e := NewEngine(q)
	_, err := e.Generate(context.Background(), "programa_estudio_constancia", BaseContext{}, Keys{TenantKey: "sistemas", Year: 2025})

	var gerr *GenerationError
	require.ErrorAs(t, err, &gerr)
	assert.Equal(t, SubdireccionKey, gerr.Department)
}

func TestGenerate_UnregisteredCode(t *testing.T) {
	q := newFakeQuerier()
	e := NewEngine(q)

	recs, err := e.Generate(context.Background(), "codigo_inexistente", BaseContext{}, Keys{TenantKey: "sistemas"})
	assert.NoError(t, err)
	assert.Nil(t, recs)
	assert.Empty(t, q.calls)

	_, err = e.Describe("codigo_inexistente")
	assert.Error(t, err)
}

func TestDescribe_CurriculumHistoric(t *testing.T) {
	e := NewEngine(newFakeQuerier())
	stmt, err := e.Describe("curriculum_vitae_historico")
	require.NoError(t, err)
	assert.Contains(t, stmt, "anio <= ?")
}
