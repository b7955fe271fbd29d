// Copyright 2025 AxonFlow
// SPDX-License-Identifier: BUSL-1.1

package mysql

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kostasense/software-back-sub000/connectors/base"
)

func TestNewMySQLConnector(t *testing.T) {
	c := NewMySQLConnector()
	require.NotNil(t, c)
	assert.NotNil(t, c.logger)
	assert.Equal(t, "mysql", c.Name())
	assert.Equal(t, "mysql", c.Type())
}

func TestBuildDSN(t *testing.T) {
	desc := &base.Descriptor{
		TenantKey: "sistemas",
		Engine:    base.EngineMySQL,
		Host:      "10.1.0.20",
		Username:  "expedientes",
		Password:  "s3cret",
		Database:  "depto_sistemas",
		Timeout:   15 * time.Second,
		Options:   map[string]interface{}{"tls": "skip-verify"},
	}

	dsn := BuildDSN(desc)

	assert.True(t, strings.HasPrefix(dsn, "expedientes:s3cret@tcp(10.1.0.20:3306)/depto_sistemas?"), dsn)
	assert.Contains(t, dsn, "parseTime=true")
	assert.Contains(t, dsn, "tls=skip-verify")
	assert.Contains(t, dsn, "readTimeout=15s")
	assert.NotContains(t, dsn, "multiStatements=true")
	assert.NotContains(t, dsn, "interpolateParams=true")
}

func TestBuildDSN_ExplicitPort(t *testing.T) {
	dsn := BuildDSN(&base.Descriptor{Engine: base.EngineMySQL, Host: "db", Port: 3307, Username: "u", Database: "d"})
	assert.Contains(t, dsn, "@tcp(db:3307)/d")
}

func TestQueryPassesArgsPositionally(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	c := NewMySQLConnectorWithDB("sistemas", db)

	mock.ExpectQuery(`SELECT nombre FROM docentes WHERE id_docente = \? AND anio = \?`).
		WithArgs("D-1", 2025).
		WillReturnRows(sqlmock.NewRows([]string{"nombre", "horas"}).
			AddRow([]byte("Ana"), int64(20)).
			AddRow("Luis", nil))

	res, err := c.Query(context.Background(), &base.Query{
		Statement: "SELECT nombre FROM docentes WHERE id_docente = ? AND anio = ?",
		Args:      []interface{}{"D-1", 2025},
	})
	require.NoError(t, err)
	require.Equal(t, 2, res.RowCount)
	assert.Equal(t, "Ana", res.Rows[0]["nombre"])
	assert.Nil(t, res.Rows[1]["horas"])
	assert.Equal(t, "sistemas", res.Connector)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQueryLimit(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	c := NewMySQLConnectorWithDB("sistemas", db)
	mock.ExpectQuery(`SELECT`).WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(1).AddRow(2).AddRow(3))

	res, err := c.Query(context.Background(), &base.Query{Statement: "SELECT n FROM t", Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 2, res.RowCount)
}

func TestQueryFailureIsConnectorError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	c := NewMySQLConnectorWithDB("rh", db)
	mock.ExpectQuery(`SELECT`).WillReturnError(errors.New("server has gone away"))

	_, err = c.Query(context.Background(), &base.Query{Statement: "SELECT 1"})
	require.Error(t, err)

	var connErr *base.ConnectorError
	require.ErrorAs(t, err, &connErr)
	assert.Equal(t, "rh", connErr.ConnectorName)
	assert.Equal(t, "Query", connErr.Operation)
}

func TestQueryNotConnected(t *testing.T) {
	c := NewMySQLConnector()
	_, err := c.Query(context.Background(), &base.Query{Statement: "SELECT 1"})
	assert.True(t, base.IsUnreachable(err))
}

func TestHealthCheck(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	c := NewMySQLConnectorWithDB("sistemas", db)

	mock.ExpectPing()
	status, err := c.HealthCheck(context.Background())
	require.NoError(t, err)
	assert.True(t, status.Healthy)

	mock.ExpectPing().WillReturnError(errors.New("broken pipe"))
	status, err = c.HealthCheck(context.Background())
	require.NoError(t, err)
	assert.False(t, status.Healthy)
	assert.Equal(t, "broken pipe", status.Error)
}

func TestHealthCheckNotConnected(t *testing.T) {
	status, err := NewMySQLConnector().HealthCheck(context.Background())
	require.NoError(t, err)
	assert.False(t, status.Healthy)
}

func TestDisconnect(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	c := NewMySQLConnectorWithDB("sistemas", db)
	mock.ExpectClose()

	require.NoError(t, c.Disconnect(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())

	// second disconnect is a no-op
	require.NoError(t, c.Disconnect(context.Background()))
}
