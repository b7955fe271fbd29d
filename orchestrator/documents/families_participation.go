// Copyright 2025 AxonFlow
// SPDX-License-Identifier: BUSL-1.1

package documents

// Competitions, juries, academic events, committees, academies and other
// institutional participation. Each has a commission letter and a
// certificate form.

var asesoriaConcursos = Family{
	Name:    "asesoria_concursos",
	Table:   "asesorias_concurso",
	Fields:  []string{"nombre_concurso", "nombre_proyecto", "estudiantes", "nivel", "fecha_evento", "sede", "lugar_obtenido", "numero_oficio"},
	OrderBy: "fecha_evento",
}

func selectAsesoriaConcursos(o Options) Variant {
	base := []string{"nombre_concurso", "nombre_proyecto", "estudiantes", "nivel", "fecha_evento", "sede", "numero_oficio"}
	switch {
	case !o.Certificate():
		return Variant{Name: "comision", Columns: base}
	case o.Premiado:
		return Variant{Name: "constancia_premiado", Where: "concluido = 1 AND lugar_obtenido IS NOT NULL"}
	case o.Nivel != "":
		return Variant{Name: "constancia_nivel", Columns: base, Where: "concluido = 1 AND nivel = ?", Params: []Param{ParamNivel}}
	default:
		return Variant{Name: "constancia", Columns: base, Where: "concluido = 1"}
	}
}

var juradoConcursos = Family{
	Name:    "jurado_concursos",
	Table:   "jurados_concurso",
	Fields:  []string{"nombre_concurso", "categoria", "nivel", "fecha_evento", "sede", "numero_oficio"},
	OrderBy: "fecha_evento",
}

func selectJuradoConcursos(o Options) Variant {
	switch {
	case !o.Certificate():
		return Variant{Name: "comision"}
	case o.Nivel != "":
		return Variant{Name: "constancia_nivel", Where: "concluido = 1 AND nivel = ?", Params: []Param{ParamNivel}}
	default:
		return Variant{Name: "constancia", Where: "concluido = 1"}
	}
}

var eventosAcademicos = Family{
	Name:    "eventos_academicos",
	Table:   "eventos_academicos",
	Fields:  []string{"nombre_evento", "tipo_participacion", "modalidad", "fecha_inicio", "fecha_fin", "horas", "numero_oficio"},
	OrderBy: "fecha_inicio",
}

func selectEventosAcademicos(o Options) Variant {
	switch {
	case !o.Certificate():
		return Variant{Name: "comision", Columns: []string{"nombre_evento", "tipo_participacion", "modalidad", "fecha_inicio", "fecha_fin", "numero_oficio"}}
	case o.Modalidad != "":
		return Variant{Name: "constancia_modalidad", Where: "concluido = 1 AND modalidad = ?", Params: []Param{ParamModalidad}}
	default:
		return Variant{Name: "constancia", Where: "concluido = 1"}
	}
}

var comiteEvaluador = Family{
	Name:    "comite_evaluador",
	Table:   "comites_evaluadores",
	Fields:  []string{"nombre_comite", "funcion", "fecha_inicio", "fecha_fin", "numero_oficio"},
	OrderBy: "fecha_inicio",
}

func selectComiteEvaluador(o Options) Variant {
	if o.Certificate() {
		return Variant{Name: "constancia", Where: "concluido = 1"}
	}
	return Variant{Name: "comision", Columns: []string{"nombre_comite", "funcion", "fecha_inicio", "numero_oficio"}}
}

var academia = Family{
	Name:    "academia",
	Table:   "academias",
	Fields:  []string{"nombre_academia", "cargo", "periodo", "numero_sesiones"},
	OrderBy: "periodo",
}

func selectAcademia(o Options) Variant {
	if o.Periodo != "" {
		return Variant{Name: "periodo", Where: "periodo = ?", Params: []Param{ParamPeriodo}}
	}
	return Variant{Name: "anual"}
}

var acreditacion = Family{
	Name:    "acreditacion",
	Table:   "acreditaciones",
	Fields:  []string{"programa_educativo", "organismo", "funcion", "fecha_inicio", "fecha_fin"},
	OrderBy: "fecha_inicio",
}

func selectAcreditacion(o Options) Variant {
	if o.Certificate() {
		return Variant{Name: "constancia", Where: "concluido = 1"}
	}
	return Variant{Name: "comision", Columns: []string{"programa_educativo", "organismo", "funcion", "fecha_inicio"}}
}

var estancias = Family{
	Name:    "estancias",
	Table:   "estancias",
	Fields:  []string{"institucion", "pais", "tipo_estancia", "fecha_inicio", "fecha_fin", "producto"},
	OrderBy: "fecha_inicio",
}

func selectEstancias(o Options) Variant {
	switch {
	case !o.Certificate():
		return Variant{Name: "comision", Columns: []string{"institucion", "pais", "tipo_estancia", "fecha_inicio", "fecha_fin"}}
	case o.Nivel != "":
		return Variant{Name: "constancia_nivel", Where: "concluido = 1 AND ambito = ?", Params: []Param{ParamNivel}}
	default:
		return Variant{Name: "constancia", Where: "concluido = 1"}
	}
}

var programasEstudio = Family{
	Name:    "programas_estudio",
	Table:   "programas_estudio",
	Fields:  []string{"programa", "asignatura", "tipo_participacion", "fecha_entrega", "dictamen"},
	OrderBy: "fecha_entrega",
}

func selectProgramasEstudio(o Options) Variant {
	if o.Certificate() {
		return Variant{Name: "constancia", Where: "dictamen = 'APROBADO'"}
	}
	return Variant{Name: "comision", Columns: []string{"programa", "asignatura", "tipo_participacion", "fecha_entrega"}}
}

var materialDidactico = Family{
	Name:    "material_didactico",
	Table:   "material_didactico",
	Fields:  []string{"titulo", "tipo_material", "asignatura", "fecha_registro", "dictamen"},
	OrderBy: "fecha_registro",
}

func selectMaterialDidactico(o Options) Variant {
	if o.Certificate() {
		return Variant{Name: "constancia", Where: "dictamen = 'APROBADO'"}
	}
	return Variant{Name: "comision", Columns: []string{"titulo", "tipo_material", "asignatura", "fecha_registro"}}
}
