// Copyright 2025 AxonFlow
// SPDX-License-Identifier: BUSL-1.1

package requirements

import (
	"context"
	"fmt"
	"strings"

	"github.com/kostasense/software-back-sub000/connectors/base"
	"github.com/kostasense/software-back-sub000/orchestrator/catalog"
	"github.com/kostasense/software-back-sub000/orchestrator/documents"
)

// Slots in evaluation order
const (
	SlotEstatusLaboral          = "estatus_laboral"
	SlotCargaAcademica          = "carga_academica"
	SlotProyectoInvestigacion   = "proyecto_investigacion"
	SlotCurriculumVitae         = "curriculum_vitae"
	SlotLiberacionActividades   = "liberacion_actividades"
	SlotEvaluacionDepartamental = "evaluacion_departamental"
	SlotEvaluacionDocente       = "evaluacion_docente"
)

// Document codes whose issuing department hosts a slot's data
const (
	laborDocument      = "constancia_laboral"
	projectDocument    = "proyecto_investigacion_constancia"
	cvDocument         = "curriculum_vitae"
	evaluationDocument = "evaluacion_docente"
	posgradoDocument   = "asignaturas_impartidas_posgrado"
)

const gradoPosgrado = "posgrado"

// Target resolves the department a rule queries. ok is false when it cannot
// be resolved; the rule is then skipped.
type Target func(ctx context.Context, r *run) (dept string, ok bool, err error)

// Check evaluates a rule against dept
type Check func(ctx context.Context, r *run, dept string) ([]Requirement, error)

// Rule is one slot of the checklist
type Rule struct {
	Slot   string
	Target Target
	Check  Check
}

// defaultRules is the ordered rule table
func defaultRules() []Rule {
	return []Rule{
		{Slot: SlotEstatusLaboral, Target: documentDepartment(laborDocument), Check: checkEstatusLaboral},
		{Slot: SlotCargaAcademica, Target: homeDepartment, Check: checkCargaAcademica},
		{Slot: SlotProyectoInvestigacion, Target: documentDepartment(projectDocument), Check: checkProyectoInvestigacion},
		{Slot: SlotCurriculumVitae, Target: documentDepartment(cvDocument), Check: checkCurriculumVitae},
		{Slot: SlotLiberacionActividades, Target: homeDepartment, Check: checkLiberacionActividades},
		{Slot: SlotEvaluacionDepartamental, Target: evaluationDepartment, Check: checkEvaluacionDepartamental},
		{Slot: SlotEvaluacionDocente, Target: documentDepartment(evaluationDocument), Check: checkEvaluacionDocente},
	}
}

func homeDepartment(ctx context.Context, r *run) (string, bool, error) {
	return r.user.DepartmentKey, r.user.DepartmentKey != "", nil
}

func documentDepartment(code string) Target {
	return func(ctx context.Context, r *run) (string, bool, error) {
		return r.activities.DepartmentForDocument(ctx, code)
	}
}

// evaluationDepartment is the posgrado department when the professor taught
// any graduate group in either term of the evaluation year, otherwise the
// home department.
func evaluationDepartment(ctx context.Context, r *run) (string, bool, error) {
	home := r.user.DepartmentKey
	if home == "" {
		return "", false, nil
	}
	graduate, err := r.count(ctx, home, `SELECT COUNT(*) AS total FROM grupos
		WHERE id_docente = ? AND anio = ? AND nivel = ? AND periodo IN (?, ?)`,
		r.professorKey(), r.year, gradoPosgrado, documents.PeriodoEneJun, documents.PeriodoAgoDic)
	if err != nil {
		return "", false, err
	}
	if graduate == 0 {
		return home, true, nil
	}
	return r.activities.DepartmentForDocument(ctx, posgradoDocument)
}

func checkEstatusLaboral(ctx context.Context, r *run, dept string) ([]Requirement, error) {
	rows, err := r.query(ctx, dept, `SELECT nombramiento, estatus FROM nombramientos
		WHERE id_docente = ? AND anio = ? ORDER BY fecha_ingreso DESC LIMIT 1`,
		r.professorKey(), r.year)
	if err != nil {
		return nil, err
	}
	incidents, err := r.count(ctx, dept, `SELECT COUNT(*) AS total FROM incidencias_asistencia
		WHERE id_docente = ? AND anio = ?`, r.professorKey(), r.year)
	if err != nil {
		return nil, err
	}

	var definitive, payroll bool
	if len(rows) > 0 {
		appointment, _ := rows[0].String("nombramiento")
		status, _ := rows[0].String("estatus")
		definitive = strings.EqualFold(strings.TrimSpace(appointment), "definitivo")
		payroll = strings.EqualFold(strings.TrimSpace(status), "activo")
	}
	return []Requirement{
		{Name: "Nombramiento definitivo", Satisfied: definitive},
		{Name: "Activo en nómina", Satisfied: payroll},
		{Name: "Asistencia sin incidencias", Satisfied: len(rows) > 0 && incidents == 0},
	}, nil
}

// checkCargaAcademica is met when every term reaches the minimum weekly
// hours, or when the professor holds an active project whose own category
// is an investigator one.
func checkCargaAcademica(ctx context.Context, r *run, dept string) ([]Requirement, error) {
	rows, err := r.query(ctx, dept, `SELECT periodo, SUM(horas_semana) AS horas FROM grupos
		WHERE id_docente = ? AND anio = ? GROUP BY periodo`,
		r.professorKey(), r.year)
	if err != nil {
		return nil, err
	}
	hours := map[string]float64{}
	for _, row := range rows {
		period, _ := row.String("periodo")
		h, _ := row.Float("horas")
		hours[period] = h
	}
	met := hours[documents.PeriodoEneJun] >= r.opts.MinTeachingHours &&
		hours[documents.PeriodoAgoDic] >= r.opts.MinTeachingHours

	if !met {
		if met, err = r.investigatorProject(ctx); err != nil {
			return nil, err
		}
	}
	return []Requirement{{Name: "Carga académica reglamentaria", Satisfied: met}}, nil
}

func checkProyectoInvestigacion(ctx context.Context, r *run, dept string) ([]Requirement, error) {
	active, err := r.projectIn(ctx, dept)
	if err != nil {
		return nil, err
	}
	req := Requirement{Name: "Proyecto de investigación vigente", Satisfied: active}
	if active {
		return []Requirement{req}, nil
	}
	investigator, err := r.investigator(ctx)
	if err != nil {
		return nil, err
	}
	if !investigator {
		req.Satisfied = true
		req.NotApplicable = true
	}
	return []Requirement{req}, nil
}

func checkCurriculumVitae(ctx context.Context, r *run, dept string) ([]Requirement, error) {
	n, err := r.count(ctx, dept, `SELECT COUNT(*) AS total FROM curriculum
		WHERE id_docente = ? AND anio >= ?`, r.professorKey(), r.year)
	if err != nil {
		return nil, err
	}
	return []Requirement{{Name: "Curriculum vitae actualizado", Satisfied: n > 0}}, nil
}

func checkLiberacionActividades(ctx context.Context, r *run, dept string) ([]Requirement, error) {
	rows, err := r.query(ctx, dept, `SELECT periodo, liberado FROM liberaciones
		WHERE id_docente = ? AND anio = ?`, r.professorKey(), r.year)
	if err != nil {
		return nil, err
	}
	released := map[string]bool{}
	for _, row := range rows {
		period, _ := row.String("periodo")
		if row.Bool("liberado") {
			released[period] = true
		}
	}
	return []Requirement{
		{Name: "Liberación de actividades " + documents.PeriodoEneJun, Satisfied: released[documents.PeriodoEneJun]},
		{Name: "Liberación de actividades " + documents.PeriodoAgoDic, Satisfied: released[documents.PeriodoAgoDic]},
	}, nil
}

func checkEvaluacionDepartamental(ctx context.Context, r *run, dept string) ([]Requirement, error) {
	rows, err := r.query(ctx, dept, `SELECT periodo, calificacion FROM evaluaciones_departamentales
		WHERE id_docente = ? AND anio = ?`, r.professorKey(), r.year)
	if err != nil {
		return nil, err
	}
	return []Requirement{{Name: "Evaluación departamental", Satisfied: allAtLeast(rows, r.opts.MinScore)}}, nil
}

func checkEvaluacionDocente(ctx context.Context, r *run, dept string) ([]Requirement, error) {
	rows, err := r.query(ctx, dept, `SELECT clave_grupo, calificacion FROM evaluaciones_docentes
		WHERE id_docente = ? AND anio = ?`, r.professorKey(), r.year)
	if err != nil {
		return nil, err
	}
	return []Requirement{{Name: "Evaluación docente por grupo", Satisfied: allAtLeast(rows, r.opts.MinScore)}}, nil
}

// allAtLeast is true when there is at least one row and every calificacion
// reaches min
func allAtLeast(rows []base.Row, min float64) bool {
	if len(rows) == 0 {
		return false
	}
	for _, row := range rows {
		score, ok := row.Float("calificacion")
		if !ok || score < min {
			return false
		}
	}
	return true
}

// run is the state of one validation
type run struct {
	q          documents.Querier
	activities Activities
	user       *catalog.User
	year       int
	opts       Options

	isInvestigator *bool
	hasProject     *bool
}

func (r *run) professorKey() string {
	return r.user.ProfessorKey
}

func (r *run) query(ctx context.Context, dept, statement string, args ...interface{}) ([]base.Row, error) {
	rows, err := r.q.QueryTenant(ctx, dept, statement, args...)
	if err != nil {
		return nil, fmt.Errorf("requirement query on %s: %w", dept, err)
	}
	return rows, nil
}

func (r *run) count(ctx context.Context, dept, statement string, args ...interface{}) (int64, error) {
	rows, err := r.query(ctx, dept, statement, args...)
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}
	n, _ := rows[0].Int("total")
	return n, nil
}

// investigator reports whether the professor's category matches the
// investigator pattern. It is read from the home department once per run.
func (r *run) investigator(ctx context.Context) (bool, error) {
	if r.isInvestigator != nil {
		return *r.isInvestigator, nil
	}
	var result bool
	if home := r.user.DepartmentKey; home != "" {
		rows, err := r.query(ctx, home, `SELECT categoria FROM docentes WHERE id_docente = ? LIMIT 1`, r.professorKey())
		if err != nil {
			return false, err
		}
		if len(rows) > 0 {
			category, _ := rows[0].String("categoria")
			result = strings.Contains(strings.ToLower(category), r.opts.InvestigatorPattern)
		}
	}
	r.isInvestigator = &result
	return result, nil
}

// investigatorProject reports whether a project of investigator category
// exists for the year after the evaluation year, in the department issuing
// research project documents.
func (r *run) investigatorProject(ctx context.Context) (bool, error) {
	dept, ok, err := documentDepartment(projectDocument)(ctx, r)
	if err != nil || !ok {
		return false, err
	}
	n, err := r.count(ctx, dept, `SELECT COUNT(*) AS total FROM proyectos_investigacion
		WHERE id_docente = ? AND anio = ? AND LOWER(categoria) LIKE ?`,
		r.professorKey(), r.year+1, "%"+r.opts.InvestigatorPattern+"%")
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *run) projectIn(ctx context.Context, dept string) (bool, error) {
	if r.hasProject != nil {
		return *r.hasProject, nil
	}
	n, err := r.count(ctx, dept, `SELECT COUNT(*) AS total FROM proyectos_investigacion
		WHERE id_docente = ? AND anio = ?`, r.professorKey(), r.year+1)
	if err != nil {
		return false, err
	}
	result := n > 0
	r.hasProject = &result
	return result, nil
}
