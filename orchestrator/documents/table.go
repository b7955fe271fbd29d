// Copyright 2025 AxonFlow
// SPDX-License-Identifier: BUSL-1.1

package documents

// newTable enumerates every document code the engine can generate. Codes
// stored in the activity catalog that are missing here are skipped.
func newTable(q Querier) map[string]Generator {
	com := Options{Tipo: Comision}
	cons := Options{Tipo: Constancia}

	withNivel := func(o Options, nivel string) Options { o.Nivel = nivel; return o }
	withPeriodo := func(o Options, periodo string) Options { o.Periodo = periodo; return o }
	withGrado := func(o Options, grado string) Options { o.Grado = grado; return o }
	withModalidad := func(o Options, m string) Options { o.Modalidad = m; return o }

	return map[string]Generator{
		// asesoria_concursos
		"asesoria_concurso_comision":            bind(q, "asesoria_concurso_comision", asesoriaConcursos, selectAsesoriaConcursos, com),
		"asesoria_concurso_constancia":          bind(q, "asesoria_concurso_constancia", asesoriaConcursos, selectAsesoriaConcursos, cons),
		"asesoria_concurso_premiado_constancia": bind(q, "asesoria_concurso_premiado_constancia", asesoriaConcursos, selectAsesoriaConcursos, Options{Tipo: Constancia, Premiado: true}),
		"asesoria_concurso_nacional_constancia": bind(q, "asesoria_concurso_nacional_constancia", asesoriaConcursos, selectAsesoriaConcursos, withNivel(cons, "nacional")),

		// jurado_concursos
		"jurado_concurso_comision":            bind(q, "jurado_concurso_comision", juradoConcursos, selectJuradoConcursos, com),
		"jurado_concurso_constancia":          bind(q, "jurado_concurso_constancia", juradoConcursos, selectJuradoConcursos, cons),
		"jurado_concurso_local_constancia":    bind(q, "jurado_concurso_local_constancia", juradoConcursos, selectJuradoConcursos, withNivel(cons, "local")),
		"jurado_concurso_nacional_constancia": bind(q, "jurado_concurso_nacional_constancia", juradoConcursos, selectJuradoConcursos, withNivel(cons, "nacional")),

		// eventos_academicos
		"evento_academico_comision":           bind(q, "evento_academico_comision", eventosAcademicos, selectEventosAcademicos, com),
		"evento_academico_constancia":         bind(q, "evento_academico_constancia", eventosAcademicos, selectEventosAcademicos, cons),
		"evento_academico_virtual_constancia": bind(q, "evento_academico_virtual_constancia", eventosAcademicos, selectEventosAcademicos, withModalidad(cons, "virtual")),

		// comite_evaluador
		"comite_evaluador_comision":   bind(q, "comite_evaluador_comision", comiteEvaluador, selectComiteEvaluador, com),
		"comite_evaluador_constancia": bind(q, "comite_evaluador_constancia", comiteEvaluador, selectComiteEvaluador, cons),

		// academia
		"academia_constancia":         bind(q, "academia_constancia", academia, selectAcademia, cons),
		"academia_ene_jun_constancia": bind(q, "academia_ene_jun_constancia", academia, selectAcademia, withPeriodo(cons, PeriodoEneJun)),
		"academia_ago_dic_constancia": bind(q, "academia_ago_dic_constancia", academia, selectAcademia, withPeriodo(cons, PeriodoAgoDic)),

		// acreditacion
		"acreditacion_comision":   bind(q, "acreditacion_comision", acreditacion, selectAcreditacion, com),
		"acreditacion_constancia": bind(q, "acreditacion_constancia", acreditacion, selectAcreditacion, cons),

		// estancias
		"estancia_comision":                 bind(q, "estancia_comision", estancias, selectEstancias, com),
		"estancia_constancia":               bind(q, "estancia_constancia", estancias, selectEstancias, cons),
		"estancia_internacional_constancia": bind(q, "estancia_internacional_constancia", estancias, selectEstancias, withNivel(cons, "internacional")),

		// programas_estudio
		"programa_estudio_comision":   bind(q, "programa_estudio_comision", programasEstudio, selectProgramasEstudio, com),
		"programa_estudio_constancia": bind(q, "programa_estudio_constancia", programasEstudio, selectProgramasEstudio, cons),

		// material_didactico
		"material_didactico_comision":   bind(q, "material_didactico_comision", materialDidactico, selectMaterialDidactico, com),
		"material_didactico_constancia": bind(q, "material_didactico_constancia", materialDidactico, selectMaterialDidactico, cons),

		// asignaturas_impartidas
		"asignaturas_impartidas":          bind(q, "asignaturas_impartidas", asignaturasImpartidas, selectAsignaturasImpartidas, Options{}),
		"asignaturas_impartidas_ene_jun":  bind(q, "asignaturas_impartidas_ene_jun", asignaturasImpartidas, selectAsignaturasImpartidas, withPeriodo(Options{}, PeriodoEneJun)),
		"asignaturas_impartidas_ago_dic":  bind(q, "asignaturas_impartidas_ago_dic", asignaturasImpartidas, selectAsignaturasImpartidas, withPeriodo(Options{}, PeriodoAgoDic)),
		"asignaturas_impartidas_posgrado": bind(q, "asignaturas_impartidas_posgrado", asignaturasImpartidas, selectAsignaturasImpartidas, withGrado(Options{}, "posgrado")),

		// horario_actividades
		"horario_ene_jun": bind(q, "horario_ene_jun", horarioActividades, selectHorarioActividades, withPeriodo(Options{}, PeriodoEneJun)),
		"horario_ago_dic": bind(q, "horario_ago_dic", horarioActividades, selectHorarioActividades, withPeriodo(Options{}, PeriodoAgoDic)),

		// tutorias
		"tutoria_constancia":         bind(q, "tutoria_constancia", tutorias, selectTutorias, cons),
		"tutoria_ene_jun_constancia": bind(q, "tutoria_ene_jun_constancia", tutorias, selectTutorias, withPeriodo(cons, PeriodoEneJun)),
		"tutoria_ago_dic_constancia": bind(q, "tutoria_ago_dic_constancia", tutorias, selectTutorias, withPeriodo(cons, PeriodoAgoDic)),

		// direccion_tesis
		"direccion_tesis_constancia":              bind(q, "direccion_tesis_constancia", direccionTesis, selectDireccionTesis, cons),
		"direccion_tesis_licenciatura_constancia": bind(q, "direccion_tesis_licenciatura_constancia", direccionTesis, selectDireccionTesis, withGrado(cons, "licenciatura")),
		"direccion_tesis_posgrado_constancia":     bind(q, "direccion_tesis_posgrado_constancia", direccionTesis, selectDireccionTesis, withGrado(cons, "posgrado")),

		// servicio_social
		"servicio_social_constancia":         bind(q, "servicio_social_constancia", servicioSocial, selectServicioSocial, cons),
		"servicio_social_ene_jun_constancia": bind(q, "servicio_social_ene_jun_constancia", servicioSocial, selectServicioSocial, withPeriodo(cons, PeriodoEneJun)),
		"servicio_social_ago_dic_constancia": bind(q, "servicio_social_ago_dic_constancia", servicioSocial, selectServicioSocial, withPeriodo(cons, PeriodoAgoDic)),

		// residencias_profesionales
		"residencias_constancia":         bind(q, "residencias_constancia", residenciasProfesionales, selectResidenciasProfesionales, cons),
		"residencias_ene_jun_constancia": bind(q, "residencias_ene_jun_constancia", residenciasProfesionales, selectResidenciasProfesionales, withPeriodo(cons, PeriodoEneJun)),
		"residencias_ago_dic_constancia": bind(q, "residencias_ago_dic_constancia", residenciasProfesionales, selectResidenciasProfesionales, withPeriodo(cons, PeriodoAgoDic)),

		// evaluacion_departamental
		"evaluacion_departamental":         bind(q, "evaluacion_departamental", evaluacionDepartamental, selectEvaluacionDepartamental, Options{}),
		"evaluacion_departamental_ene_jun": bind(q, "evaluacion_departamental_ene_jun", evaluacionDepartamental, selectEvaluacionDepartamental, withPeriodo(Options{}, PeriodoEneJun)),
		"evaluacion_departamental_ago_dic": bind(q, "evaluacion_departamental_ago_dic", evaluacionDepartamental, selectEvaluacionDepartamental, withPeriodo(Options{}, PeriodoAgoDic)),

		// evaluacion_docente
		"evaluacion_docente":          bind(q, "evaluacion_docente", evaluacionDocente, selectEvaluacionDocente, Options{}),
		"evaluacion_docente_ene_jun":  bind(q, "evaluacion_docente_ene_jun", evaluacionDocente, selectEvaluacionDocente, withPeriodo(Options{}, PeriodoEneJun)),
		"evaluacion_docente_ago_dic":  bind(q, "evaluacion_docente_ago_dic", evaluacionDocente, selectEvaluacionDocente, withPeriodo(Options{}, PeriodoAgoDic)),
		"evaluacion_docente_posgrado": bind(q, "evaluacion_docente_posgrado", evaluacionDocente, selectEvaluacionDocente, withGrado(Options{}, "posgrado")),

		// liberacion_actividades
		"liberacion_actividades_ene_jun": bind(q, "liberacion_actividades_ene_jun", liberacionActividades, selectLiberacionActividades, withPeriodo(Options{}, PeriodoEneJun)),
		"liberacion_actividades_ago_dic": bind(q, "liberacion_actividades_ago_dic", liberacionActividades, selectLiberacionActividades, withPeriodo(Options{}, PeriodoAgoDic)),

		// curriculum_vitae
		"curriculum_vitae":           bind(q, "curriculum_vitae", curriculumVitae, selectCurriculumVitae, Options{}),
		"curriculum_vitae_historico": bind(q, "curriculum_vitae_historico", curriculumVitae, selectCurriculumVitae, cons),

		// licencias
		"licencia":          bind(q, "licencia", licencias, selectLicencias, Options{}),
		"licencia_con_goce": bind(q, "licencia_con_goce", licencias, selectLicencias, Options{ConGoce: true}),

		// proyectos_investigacion
		"proyecto_investigacion_registro":              bind(q, "proyecto_investigacion_registro", proyectosInvestigacion, selectProyectosInvestigacion, com),
		"proyecto_investigacion_constancia":            bind(q, "proyecto_investigacion_constancia", proyectosInvestigacion, selectProyectosInvestigacion, cons),
		"proyecto_investigacion_financiado_constancia": bind(q, "proyecto_investigacion_financiado_constancia", proyectosInvestigacion, selectProyectosInvestigacion, Options{Tipo: Constancia, Premiado: true}),

		// publicaciones
		"publicacion":           bind(q, "publicacion", publicaciones, selectPublicaciones, Options{}),
		"publicacion_arbitrada": bind(q, "publicacion_arbitrada", publicaciones, selectPublicaciones, withNivel(Options{}, "arbitrada")),
		"publicacion_indexada":  bind(q, "publicacion_indexada", publicaciones, selectPublicaciones, withNivel(Options{}, "indexada")),

		// capacitacion
		"capacitacion_comision":           bind(q, "capacitacion_comision", capacitacion, selectCapacitacion, com),
		"capacitacion_constancia":         bind(q, "capacitacion_constancia", capacitacion, selectCapacitacion, cons),
		"capacitacion_virtual_constancia": bind(q, "capacitacion_virtual_constancia", capacitacion, selectCapacitacion, withModalidad(cons, "virtual")),

		// constancia_laboral
		"constancia_laboral":                  bind(q, "constancia_laboral", constanciaLaboral, selectConstanciaLaboral, cons),
		"constancia_laboral_con_percepciones": bind(q, "constancia_laboral_con_percepciones", constanciaLaboral, selectConstanciaLaboral, Options{Tipo: Constancia, Detallada: true}),

		// propiedad_intelectual
		"propiedad_intelectual":         bind(q, "propiedad_intelectual", propiedadIntelectual, selectPropiedadIntelectual, cons),
		"propiedad_intelectual_patente": bind(q, "propiedad_intelectual_patente", propiedadIntelectual, selectPropiedadIntelectual, withNivel(cons, "patente")),
	}
}
