// Copyright 2025 AxonFlow
// SPDX-License-Identifier: BUSL-1.1

package documents

// Teaching load, tutoring, student supervision and evaluations. Most of
// these are split by term.

var asignaturasImpartidas = Family{
	Name:    "asignaturas_impartidas",
	Table:   "grupos",
	Fields:  []string{"periodo", "clave_materia", "materia", "clave_grupo", "nivel", "alumnos", "horas_semana"},
	OrderBy: "periodo, clave_grupo",
}

func selectAsignaturasImpartidas(o Options) Variant {
	switch {
	case o.Grado != "" && o.Periodo != "":
		return Variant{Name: "grado_periodo", Where: "nivel = ? AND periodo = ?", Params: []Param{ParamGrado, ParamPeriodo}}
	case o.Grado != "":
		return Variant{Name: "grado", Where: "nivel = ?", Params: []Param{ParamGrado}}
	case o.Periodo != "":
		return Variant{Name: "periodo", Where: "periodo = ?", Params: []Param{ParamPeriodo}}
	default:
		return Variant{Name: "anual"}
	}
}

var horarioActividades = Family{
	Name:    "horario_actividades",
	Table:   "horarios",
	Fields:  []string{"periodo", "actividad", "dia", "hora_inicio", "hora_fin", "aula"},
	OrderBy: "dia, hora_inicio",
}

func selectHorarioActividades(o Options) Variant {
	if o.Periodo != "" {
		return Variant{Name: "periodo", Where: "periodo = ?", Params: []Param{ParamPeriodo}}
	}
	return Variant{Name: "anual"}
}

var tutorias = Family{
	Name:    "tutorias",
	Table:   "tutorias",
	Fields:  []string{"periodo", "tipo_tutoria", "alumnos_atendidos", "horas"},
	OrderBy: "periodo",
}

func selectTutorias(o Options) Variant {
	if o.Periodo != "" {
		return Variant{Name: "periodo", Where: "periodo = ?", Params: []Param{ParamPeriodo}}
	}
	return Variant{Name: "anual"}
}

var direccionTesis = Family{
	Name:    "direccion_tesis",
	Table:   "direcciones_tesis",
	Fields:  []string{"titulo_tesis", "alumno", "grado", "funcion", "fecha_examen"},
	OrderBy: "fecha_examen",
}

func selectDireccionTesis(o Options) Variant {
	if o.Grado != "" {
		return Variant{Name: "grado", Where: "titulado = 1 AND grado = ?", Params: []Param{ParamGrado}}
	}
	return Variant{Name: "titulados", Where: "titulado = 1"}
}

var servicioSocial = Family{
	Name:    "servicio_social",
	Table:   "servicio_social",
	Fields:  []string{"programa", "alumno", "numero_control", "periodo", "horas"},
	OrderBy: "periodo, alumno",
}

func selectServicioSocial(o Options) Variant {
	if o.Periodo != "" {
		return Variant{Name: "periodo", Where: "periodo = ?", Params: []Param{ParamPeriodo}}
	}
	return Variant{Name: "anual"}
}

var residenciasProfesionales = Family{
	Name:    "residencias_profesionales",
	Table:   "residencias",
	Fields:  []string{"proyecto", "alumno", "numero_control", "empresa", "periodo", "calificacion"},
	OrderBy: "periodo, alumno",
}

func selectResidenciasProfesionales(o Options) Variant {
	if o.Periodo != "" {
		return Variant{Name: "periodo", Where: "periodo = ?", Params: []Param{ParamPeriodo}}
	}
	return Variant{Name: "anual"}
}

var evaluacionDepartamental = Family{
	Name:    "evaluacion_departamental",
	Table:   "evaluaciones_departamentales",
	Fields:  []string{"periodo", "calificacion", "nivel_desempeno", "evaluador"},
	OrderBy: "periodo",
}

func selectEvaluacionDepartamental(o Options) Variant {
	if o.Periodo != "" {
		return Variant{Name: "periodo", Where: "periodo = ?", Params: []Param{ParamPeriodo}}
	}
	return Variant{Name: "anual"}
}

var evaluacionDocente = Family{
	Name:    "evaluacion_docente",
	Table:   "evaluaciones_docentes",
	Fields:  []string{"periodo", "clave_grupo", "materia", "nivel", "calificacion", "alumnos_evaluados"},
	OrderBy: "periodo, clave_grupo",
}

func selectEvaluacionDocente(o Options) Variant {
	base := []string{"periodo", "clave_grupo", "materia", "calificacion", "alumnos_evaluados"}
	switch {
	case o.Grado != "":
		return Variant{Name: "grado", Where: "nivel = ?", Params: []Param{ParamGrado}}
	case o.Periodo != "":
		return Variant{Name: "periodo", Columns: base, Where: "periodo = ?", Params: []Param{ParamPeriodo}}
	default:
		return Variant{Name: "anual", Columns: base}
	}
}

var liberacionActividades = Family{
	Name:    "liberacion_actividades",
	Table:   "liberaciones",
	Fields:  []string{"periodo", "fecha_liberacion", "liberado", "observaciones"},
	OrderBy: "periodo",
}

func selectLiberacionActividades(o Options) Variant {
	if o.Periodo != "" {
		return Variant{Name: "periodo", Where: "periodo = ?", Params: []Param{ParamPeriodo}}
	}
	return Variant{Name: "anual"}
}
