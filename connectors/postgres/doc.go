// Copyright 2025 AxonFlow
// SPDX-License-Identifier: BUSL-1.1

/*
Package postgres provides the PostgreSQL implementation of base.Connector
used for department backends that run on PostgreSQL.

# Placeholders

Statements are written once with '?' placeholders so that the same SQL runs
against MySQL and PostgreSQL tenants. Before execution the connector rewrites
them to $1, $2, ... with Rebind:

	result, err := connector.Query(ctx, &base.Query{
	    Statement: "SELECT nombre FROM docentes WHERE id_docente = ? AND anio = ?",
	    Args:      []interface{}{"D-100", 2025},
	})

# Pool options

	max_open_conns     maximum open connections (default 10)
	max_idle_conns     maximum idle connections (default 2)
	conn_max_lifetime  connection max lifetime, Go duration (default 5m)
	sslmode            lib/pq sslmode (default disable)

# Thread Safety

PostgresConnector is safe for concurrent use once connected. The underlying
database/sql pool handles concurrent access.
*/
package postgres
