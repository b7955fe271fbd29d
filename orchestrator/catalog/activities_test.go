// Copyright 2025 AxonFlow
// SPDX-License-Identifier: BUSL-1.1

package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActivityStore_DepartmentsWithDocuments(t *testing.T) {
	db, mock := newMockDB(t)
	store := NewActivityStore(db, 0)

	mock.ExpectQuery(`SELECT DISTINCT clave_departamento\s+FROM actividad_documentos\s+WHERE clave_departamento IS NOT NULL`).
		WillReturnRows(sqlmock.NewRows([]string{"clave_departamento"}).AddRow("ciencias_basicas").AddRow("sistemas"))

	depts, err := store.DepartmentsWithDocuments(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"ciencias_basicas", "sistemas"}, depts)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestActivityStore_DocumentCodesIncludeUnscoped(t *testing.T) {
	db, mock := newMockDB(t)
	store := NewActivityStore(db, 0)

	mock.ExpectQuery(`WHERE clave_departamento = \$1 OR clave_departamento IS NULL`).
		WithArgs("sistemas").
		WillReturnRows(sqlmock.NewRows([]string{"codigo_documento"}).AddRow("constancia_laboral").AddRow("tutoria_constancia"))

	codes, err := store.DocumentCodesForDepartment(context.Background(), "sistemas")
	require.NoError(t, err)
	assert.Equal(t, []string{"constancia_laboral", "tutoria_constancia"}, codes)
}

func TestActivityStore_NoCodes(t *testing.T) {
	db, mock := newMockDB(t)
	store := NewActivityStore(db, 0)

	mock.ExpectQuery(`SELECT DISTINCT codigo_documento`).
		WithArgs("quimica").
		WillReturnRows(sqlmock.NewRows([]string{"codigo_documento"}))

	codes, err := store.DocumentCodesForDepartment(context.Background(), "quimica")
	require.NoError(t, err)
	assert.Empty(t, codes)
}

func TestActivityStore_DepartmentForDocument(t *testing.T) {
	db, mock := newMockDB(t)
	store := NewActivityStore(db, 0)

	mock.ExpectQuery(`SELECT clave_departamento\s+FROM actividad_documentos\s+WHERE codigo_documento = \$1`).
		WithArgs("constancia_laboral").
		WillReturnRows(sqlmock.NewRows([]string{"clave_departamento"}).AddRow("recursos_humanos"))
	mock.ExpectQuery(`WHERE codigo_documento = \$1`).
		WithArgs("desconocido").
		WillReturnRows(sqlmock.NewRows([]string{"clave_departamento"}))

	dept, ok, err := store.DepartmentForDocument(context.Background(), "constancia_laboral")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "recursos_humanos", dept)

	dept, ok, err = store.DepartmentForDocument(context.Background(), "desconocido")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, dept)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestActivityStore_DepartmentForDocumentError(t *testing.T) {
	db, mock := newMockDB(t)
	store := NewActivityStore(db, 0)

	mock.ExpectQuery(`WHERE codigo_documento = \$1`).WillReturnError(errors.New("timeout"))

	_, _, err := store.DepartmentForDocument(context.Background(), "licencia")
	assert.Error(t, err)
}

func TestActivityStore_Cache(t *testing.T) {
	db, mock := newMockDB(t)
	store := NewActivityStore(db, time.Minute)

	mock.ExpectQuery(`SELECT DISTINCT codigo_documento`).
		WithArgs("sistemas").
		WillReturnRows(sqlmock.NewRows([]string{"codigo_documento"}).AddRow("licencia"))
	mock.ExpectQuery(`WHERE codigo_documento = \$1`).
		WithArgs("desconocido").
		WillReturnRows(sqlmock.NewRows([]string{"clave_departamento"}))

	for i := 0; i < 3; i++ {
		codes, err := store.DocumentCodesForDepartment(context.Background(), "sistemas")
		require.NoError(t, err)
		assert.Equal(t, []string{"licencia"}, codes)

		_, ok, err := store.DepartmentForDocument(context.Background(), "desconocido")
		require.NoError(t, err)
		assert.False(t, ok)
	}
	assert.NoError(t, mock.ExpectationsWereMet())

	store.Invalidate()
	mock.ExpectQuery(`SELECT DISTINCT codigo_documento`).
		WithArgs("sistemas").
		WillReturnRows(sqlmock.NewRows([]string{"codigo_documento"}))

	codes, err := store.DocumentCodesForDepartment(context.Background(), "sistemas")
	require.NoError(t, err)
	assert.Empty(t, codes)
	assert.NoError(t, mock.ExpectationsWereMet())
}
