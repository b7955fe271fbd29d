// Copyright 2025 AxonFlow
// SPDX-License-Identifier: BUSL-1.1

package requirements

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kostasense/software-back-sub000/connectors/base"
	"github.com/kostasense/software-back-sub000/orchestrator/catalog"
)

type answer struct {
	tenant   string
	contains string
	rows     []base.Row
	err      error
}

type recorded struct {
	tenant    string
	statement string
	args      []interface{}
}

// scriptedQuerier answers with the first answer whose tenant matches and
// whose text is contained in the statement. Later answers override earlier
// ones for the same pair.
type scriptedQuerier struct {
	mu      sync.Mutex
	answers []answer
	calls   []recorded
}

func (s *scriptedQuerier) on(tenant, contains string, rows ...base.Row) {
	s.answers = append([]answer{{tenant: tenant, contains: contains, rows: rows}}, s.answers...)
}

func (s *scriptedQuerier) fail(tenant, contains string, err error) {
	s.answers = append([]answer{{tenant: tenant, contains: contains, err: err}}, s.answers...)
}

func (s *scriptedQuerier) QueryTenant(ctx context.Context, tenant, statement string, args ...interface{}) ([]base.Row, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, recorded{tenant: tenant, statement: statement, args: args})
	for _, a := range s.answers {
		if a.tenant == tenant && strings.Contains(statement, a.contains) {
			return a.rows, a.err
		}
	}
	return nil, nil
}

func (s *scriptedQuerier) called(tenant, contains string) []recorded {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []recorded
	for _, c := range s.calls {
		if c.tenant == tenant && strings.Contains(c.statement, contains) {
			out = append(out, c)
		}
	}
	return out
}

type fakeUsers map[string]*catalog.User

func (f fakeUsers) LookupByKey(ctx context.Context, key string) (*catalog.User, error) {
	if u, ok := f[key]; ok {
		return u, nil
	}
	return nil, base.ErrNotFound
}

type fakeActivities map[string]string

func (f fakeActivities) DepartmentForDocument(ctx context.Context, code string) (string, bool, error) {
	d, ok := f[code]
	return d, ok, nil
}

func total(n int) base.Row { return base.Row{"total": int64(n)} }

// compliant answers every query for a professor meeting every requirement
func compliant() *scriptedQuerier {
	q := &scriptedQuerier{}
	q.on("sistemas", "SELECT categoria FROM docentes", base.Row{"categoria": "Profesor Titular C"})
	q.on("sistemas", "nivel = ?", total(0))
	q.on("sistemas", "SUM(horas_semana)",
		base.Row{"periodo": "ENE-JUN", "horas": "20"},
		base.Row{"periodo": "AGO-DIC", "horas": int64(18)})
	q.on("sistemas", "FROM liberaciones",
		base.Row{"periodo": "ENE-JUN", "liberado": int64(1)},
		base.Row{"periodo": "AGO-DIC", "liberado": int64(1)})
	q.on("sistemas", "FROM evaluaciones_departamentales", base.Row{"periodo": "AGO-DIC", "calificacion": 85.5})
	q.on("sistemas", "FROM departamento", base.Row{"nombre": "Sistemas y Computación"})
	q.on("rh", "FROM nombramientos", base.Row{"nombramiento": "DEFINITIVO", "estatus": "Activo"})
	q.on("rh", "FROM incidencias_asistencia", total(0))
	q.on("investigacion", "FROM proyectos_investigacion", total(1))
	q.on("desarrollo", "FROM curriculum", total(1))
	q.on("desarrollo", "FROM evaluaciones_docentes",
		base.Row{"clave_grupo": "ISC-1A", "calificacion": []byte("90")},
		base.Row{"clave_grupo": "ISC-3B", "calificacion": int64(75)})
	return q
}

func newTestService(q *scriptedQuerier, acts fakeActivities) *Service {
	users := fakeUsers{
		"ana.lopez": {UserKey: "ana.lopez", ProfessorKey: "P1", DepartmentKey: "sistemas", DisplayName: "Ana López"},
		"sin.depto": {UserKey: "sin.depto", ProfessorKey: "P2", DisplayName: "Luis Díaz"},
		"admin":     {UserKey: "admin", DisplayName: "Administrador"},
	}
	if acts == nil {
		acts = fakeActivities{
			"constancia_laboral":                "rh",
			"proyecto_investigacion_constancia": "investigacion",
			"curriculum_vitae":                  "desarrollo",
			"evaluacion_docente":                "desarrollo",
			"asignaturas_impartidas_posgrado":   "posgrado",
		}
	}
	now := func() time.Time { return time.Date(2025, time.May, 1, 0, 0, 0, 0, time.UTC) }
	return NewService(users, acts, q, Options{Now: now})
}

func find(t *testing.T, cl *Checklist, name string) Requirement {
	t.Helper()
	for _, r := range cl.Requirements {
		if r.Name == name {
			return r
		}
	}
	t.Fatalf("requirement %q not in checklist", name)
	return Requirement{}
}

func TestValidate_AllSatisfied(t *testing.T) {
	q := compliant()
	svc := newTestService(q, nil)

	cl, err := svc.Validate(context.Background(), "ana.lopez")
	require.NoError(t, err)

	assert.Equal(t, 2024, cl.EvaluationYear)
	assert.Equal(t, "Sistemas y Computación", cl.DepartmentName)
	assert.Equal(t, "Ana López", cl.ProfessorName)

	var slots []string
	for _, r := range cl.Requirements {
		assert.True(t, r.Satisfied, r.Name)
		if len(slots) == 0 || slots[len(slots)-1] != r.Slot {
			slots = append(slots, r.Slot)
		}
	}
	assert.Equal(t, []string{
		SlotEstatusLaboral, SlotCargaAcademica, SlotProyectoInvestigacion, SlotCurriculumVitae,
		SlotLiberacionActividades, SlotEvaluacionDepartamental, SlotEvaluacionDocente,
	}, slots)
	assert.Len(t, cl.Requirements, 10)
	assert.True(t, cl.Satisfied())

	project := q.called("investigacion", "FROM proyectos_investigacion")
	require.Len(t, project, 1)
	assert.Equal(t, []interface{}{"P1", 2025}, project[0].args)

	cv := q.called("desarrollo", "FROM curriculum")
	require.Len(t, cv, 1)
	assert.Contains(t, cv[0].statement, "anio >= ?")
	assert.Equal(t, []interface{}{"P1", 2024}, cv[0].args)
}

func TestValidate_ResearchProjectNotApplicable(t *testing.T) {
	q := compliant()
	q.on("investigacion", "FROM proyectos_investigacion", total(0))

	cl, err := newTestService(q, nil).Validate(context.Background(), "ana.lopez")
	require.NoError(t, err)

	r := find(t, cl, "Proyecto de investigación vigente")
	assert.True(t, r.Satisfied)
	assert.True(t, r.NotApplicable)
}

func TestValidate_ResearchProjectRequiredForInvestigator(t *testing.T) {
	q := compliant()
	q.on("sistemas", "SELECT categoria FROM docentes", base.Row{"categoria": "Profesor INVESTIGADOR Titular"})
	q.on("investigacion", "FROM proyectos_investigacion", total(0))

	cl, err := newTestService(q, nil).Validate(context.Background(), "ana.lopez")
	require.NoError(t, err)

	r := find(t, cl, "Proyecto de investigación vigente")
	assert.False(t, r.Satisfied)
	assert.False(t, r.NotApplicable)
	assert.False(t, cl.Satisfied())
}

func TestValidate_ResearchProjectPresent(t *testing.T) {
	q := compliant()
	q.on("sistemas", "SELECT categoria FROM docentes", base.Row{"categoria": "Asociado"})

	cl, err := newTestService(q, nil).Validate(context.Background(), "ana.lopez")
	require.NoError(t, err)

	r := find(t, cl, "Proyecto de investigación vigente")
	assert.True(t, r.Satisfied)
	assert.False(t, r.NotApplicable)
}

func TestValidate_TeachingLoadExemption(t *testing.T) {
	tests := []struct {
		name                 string
		category             string
		investigatorProjects int
		want                 bool
	}{
		{"investigator project", "Profesor Asociado", 1, true},
		{"investigator professor without investigator project", "Profesor Investigador", 0, false},
		{"no investigator project", "Profesor Titular C", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := compliant()
			q.on("sistemas", "SUM(horas_semana)", base.Row{"periodo": "ENE-JUN", "horas": 10.0})
			q.on("sistemas", "SELECT categoria FROM docentes", base.Row{"categoria": tt.category})
			q.on("investigacion", "LOWER(categoria) LIKE ?", total(tt.investigatorProjects))

			cl, err := newTestService(q, nil).Validate(context.Background(), "ana.lopez")
			require.NoError(t, err)
			assert.Equal(t, tt.want, find(t, cl, "Carga académica reglamentaria").Satisfied)

			exemption := q.called("investigacion", "LOWER(categoria) LIKE ?")
			require.Len(t, exemption, 1)
			assert.Equal(t, []interface{}{"P1", 2025, "%investigador%"}, exemption[0].args)
		})
	}
}

func TestValidate_TeachingLoadMetSkipsExemption(t *testing.T) {
	q := compliant()

	cl, err := newTestService(q, nil).Validate(context.Background(), "ana.lopez")
	require.NoError(t, err)
	assert.True(t, find(t, cl, "Carga académica reglamentaria").Satisfied)
	assert.Empty(t, q.called("investigacion", "LOWER(categoria) LIKE ?"))
}

func TestValidate_GraduateTeachingRoutesToPosgrado(t *testing.T) {
	q := compliant()
	q.on("sistemas", "nivel = ?", total(3))
	q.on("posgrado", "FROM evaluaciones_departamentales", base.Row{"periodo": "ENE-JUN", "calificacion": 92})

	cl, err := newTestService(q, nil).Validate(context.Background(), "ana.lopez")
	require.NoError(t, err)

	r := find(t, cl, "Evaluación departamental")
	assert.Equal(t, "posgrado", r.DepartmentKey)
	assert.True(t, r.Satisfied)
	assert.Empty(t, q.called("sistemas", "FROM evaluaciones_departamentales"))

	graduate := q.called("sistemas", "nivel = ?")
	require.Len(t, graduate, 1)
	assert.Equal(t, []interface{}{"P1", 2024, "posgrado", "ENE-JUN", "AGO-DIC"}, graduate[0].args)
}

func TestValidate_UnresolvedSlotsAreSkipped(t *testing.T) {
	q := compliant()
	q.on("sistemas", "nivel = ?", total(1))
	acts := fakeActivities{"curriculum_vitae": "desarrollo"}

	cl, err := newTestService(q, acts).Validate(context.Background(), "ana.lopez")
	require.NoError(t, err)

	slots := map[string]bool{}
	for _, r := range cl.Requirements {
		slots[r.Slot] = true
	}
	assert.Equal(t, map[string]bool{
		SlotCargaAcademica:        true,
		SlotCurriculumVitae:       true,
		SlotLiberacionActividades: true,
	}, slots)
}

func TestValidate_NoHomeDepartment(t *testing.T) {
	q := compliant()

	cl, err := newTestService(q, nil).Validate(context.Background(), "sin.depto")
	require.NoError(t, err)
	assert.Equal(t, "Luis Díaz", cl.ProfessorName)
	for _, r := range cl.Requirements {
		assert.NotEqual(t, SlotCargaAcademica, r.Slot)
		assert.NotEqual(t, SlotLiberacionActividades, r.Slot)
		assert.NotEqual(t, SlotEvaluacionDepartamental, r.Slot)
	}
	assert.Len(t, cl.Requirements, 6)
}

func TestValidate_LowScores(t *testing.T) {
	q := compliant()
	q.on("desarrollo", "FROM evaluaciones_docentes",
		base.Row{"clave_grupo": "ISC-1A", "calificacion": 95},
		base.Row{"clave_grupo": "ISC-3B", "calificacion": 60})
	q.on("sistemas", "FROM liberaciones", base.Row{"periodo": "ENE-JUN", "liberado": "1"})
	q.on("rh", "FROM incidencias_asistencia", total(2))

	cl, err := newTestService(q, nil).Validate(context.Background(), "ana.lopez")
	require.NoError(t, err)
	assert.False(t, find(t, cl, "Evaluación docente por grupo").Satisfied)
	assert.True(t, find(t, cl, "Liberación de actividades ENE-JUN").Satisfied)
	assert.False(t, find(t, cl, "Liberación de actividades AGO-DIC").Satisfied)
	assert.False(t, find(t, cl, "Asistencia sin incidencias").Satisfied)
	assert.True(t, find(t, cl, "Nombramiento definitivo").Satisfied)
}

func TestValidate_QueryFailureAborts(t *testing.T) {
	q := compliant()
	q.fail("rh", "FROM nombramientos", base.NewConnectorError("rh", "Query", "connection refused", errors.New("dial tcp")))

	_, err := newTestService(q, nil).Validate(context.Background(), "ana.lopez")
	require.Error(t, err)
	assert.True(t, base.IsUnreachable(err))
	assert.Contains(t, err.Error(), SlotEstatusLaboral)
}

func TestValidate_NotFound(t *testing.T) {
	svc := newTestService(compliant(), nil)

	_, err := svc.Validate(context.Background(), "nadie")
	assert.True(t, errors.Is(err, base.ErrNotFound))

	_, err = svc.Validate(context.Background(), "admin")
	assert.True(t, errors.Is(err, base.ErrNotFound))
}
