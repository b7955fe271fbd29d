// Copyright 2025 AxonFlow
// SPDX-License-Identifier: BUSL-1.1

package router

import (
	"fmt"

	"github.com/kostasense/software-back-sub000/connectors/base"
	"github.com/kostasense/software-back-sub000/connectors/mysql"
	"github.com/kostasense/software-back-sub000/connectors/postgres"
)

// NewConnector is the default ConnectorFactory
func NewConnector(engine string) (base.Connector, error) {
	switch engine {
	case base.EngineMySQL:
		return mysql.NewMySQLConnector(), nil
	case base.EnginePostgres:
		return postgres.NewPostgresConnector(), nil
	default:
		return nil, fmt.Errorf("unsupported engine: %s", engine)
	}
}
