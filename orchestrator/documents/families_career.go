// Copyright 2025 AxonFlow
// SPDX-License-Identifier: BUSL-1.1

package documents

var curriculumVitae = Family{
	Name:    "curriculum_vitae",
	Table:   "curriculum",
	Fields:  []string{"grado_academico", "institucion_grado", "fecha_actualizacion", "cvu", "perfil_deseable", "sni"},
	OrderBy: "fecha_actualizacion DESC",
}

func selectCurriculumVitae(o Options) Variant {
	if o.Certificate() {
		return Variant{Name: "historico", YearOp: "<="}
	}
	return Variant{Name: "actualizado", Columns: []string{"grado_academico", "institucion_grado", "fecha_actualizacion", "cvu"}}
}

var licencias = Family{
	Name:    "licencias",
	Table:   "licencias",
	Fields:  []string{"tipo_licencia", "fecha_inicio", "fecha_fin", "con_goce", "numero_oficio"},
	OrderBy: "fecha_inicio",
}

func selectLicencias(o Options) Variant {
	if o.ConGoce {
		return Variant{Name: "con_goce", Where: "con_goce = 1"}
	}
	return Variant{Name: "todas"}
}

var proyectosInvestigacion = Family{
	Name:    "proyectos_investigacion",
	Table:   "proyectos_investigacion",
	Fields:  []string{"titulo_proyecto", "clave_registro", "fuente_financiamiento", "rol", "fecha_inicio", "fecha_fin", "categoria"},
	OrderBy: "fecha_inicio",
}

func selectProyectosInvestigacion(o Options) Variant {
	switch {
	case !o.Certificate():
		return Variant{Name: "registro", Columns: []string{"titulo_proyecto", "clave_registro", "fuente_financiamiento", "rol", "fecha_inicio", "categoria"}}
	case o.Premiado:
		return Variant{Name: "constancia_financiado", Where: "concluido = 1 AND fuente_financiamiento IS NOT NULL"}
	default:
		return Variant{Name: "constancia", Where: "concluido = 1"}
	}
}

var publicaciones = Family{
	Name:    "publicaciones",
	Table:   "publicaciones",
	Fields:  []string{"titulo", "tipo_publicacion", "revista_editorial", "issn_isbn", "fecha_publicacion", "arbitrada", "indexada"},
	OrderBy: "fecha_publicacion",
}

func selectPublicaciones(o Options) Variant {
	switch o.Nivel {
	case "indexada":
		return Variant{Name: "indexada", Where: "indexada = 1"}
	case "arbitrada":
		return Variant{Name: "arbitrada", Where: "arbitrada = 1"}
	default:
		return Variant{Name: "todas"}
	}
}

var capacitacion = Family{
	Name:    "capacitacion",
	Table:   "cursos_capacitacion",
	Fields:  []string{"nombre_curso", "tipo_curso", "modalidad", "horas", "fecha_inicio", "fecha_fin", "rol"},
	OrderBy: "fecha_inicio",
}

func selectCapacitacion(o Options) Variant {
	switch {
	case !o.Certificate():
		return Variant{Name: "comision", Columns: []string{"nombre_curso", "tipo_curso", "modalidad", "fecha_inicio", "fecha_fin"}}
	case o.Modalidad != "":
		return Variant{Name: "constancia_modalidad", Where: "acreditado = 1 AND modalidad = ?", Params: []Param{ParamModalidad}}
	default:
		return Variant{Name: "constancia", Where: "acreditado = 1"}
	}
}

var constanciaLaboral = Family{
	Name:    "constancia_laboral",
	Table:   "nombramientos",
	Fields:  []string{"nombramiento", "categoria", "fecha_ingreso", "horas_nombramiento", "estatus", "percepcion_mensual"},
	OrderBy: "fecha_ingreso",
}

func selectConstanciaLaboral(o Options) Variant {
	if o.Detallada {
		return Variant{Name: "con_percepciones"}
	}
	return Variant{Name: "simple", Columns: []string{"nombramiento", "categoria", "fecha_ingreso", "horas_nombramiento", "estatus"}}
}

var propiedadIntelectual = Family{
	Name:    "propiedad_intelectual",
	Table:   "propiedad_intelectual",
	Fields:  []string{"titulo", "tipo_registro", "numero_registro", "fecha_registro", "estatus"},
	OrderBy: "fecha_registro",
}

func selectPropiedadIntelectual(o Options) Variant {
	if o.Nivel != "" {
		return Variant{Name: "tipo", Where: "tipo_registro = ?", Params: []Param{ParamNivel}}
	}
	return Variant{Name: "todos"}
}
