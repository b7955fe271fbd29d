// Copyright 2025 AxonFlow
// SPDX-License-Identifier: BUSL-1.1

/*
Package logger provides structured JSON logging for the expediente services.

Each log line is a single JSON object carrying:
  - Timestamp (RFC3339Nano)
  - Level (DEBUG, INFO, WARN, ERROR)
  - Component name (router, expediente, requirements, api)
  - Instance ID and container name
  - Department key (the tenant a line refers to, when there is one)
  - Request ID (for correlating one generation or validation run)
  - Custom fields

# Usage

	log := logger.New("expediente")

	log.Info("sistemas", "req-456", "Generated documents", map[string]interface{}{
	    "codigo":    "tutoria_individual",
	    "registros": 3,
	})

	log.ErrorWithErr("sistemas", "req-456", "Generation failed", err, nil)

# Environment Variables

  - INSTANCE_ID: deployment instance identifier
  - LOG_LEVEL: minimum level written (DEBUG, INFO, WARN, ERROR; default DEBUG)

Logger instances are safe for concurrent use.
*/
package logger
