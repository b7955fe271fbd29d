// Copyright 2025 AxonFlow
// SPDX-License-Identifier: BUSL-1.1

package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load builds the service configuration: defaults, then the YAML file at path
// (skipped when path is empty), then environment overrides. The result is
// validated.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := Parse(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse expands environment references in data and decodes it over cfg.
// Fields absent from data keep their current values.
func Parse(data []byte, cfg *Config) error {
	expanded := expandEnvVars(string(data))
	return yaml.Unmarshal([]byte(expanded), cfg)
}

// envVarRegex matches ${VAR_NAME} or $VAR_NAME patterns
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}|\$([A-Za-z_][A-Za-z0-9_]*)`)

// expandEnvVars expands environment variable references in the string.
// Supports ${VAR_NAME}, $VAR_NAME and ${VAR_NAME:-default}; undefined
// variables expand to the empty string.
func expandEnvVars(content string) string {
	return envVarRegex.ReplaceAllStringFunc(content, func(match string) string {
		var varName string
		if strings.HasPrefix(match, "${") {
			varName = match[2 : len(match)-1]
		} else {
			varName = match[1:]
		}

		defaultVal := ""
		if idx := strings.Index(varName, ":-"); idx != -1 {
			defaultVal = varName[idx+2:]
			varName = varName[:idx]
		}

		if value := os.Getenv(varName); value != "" {
			return value
		}
		return defaultVal
	})
}

// GenerateExampleConfigFile returns a commented example configuration
func GenerateExampleConfigFile() string {
	return `# Expedientes orchestrator configuration
# Environment variables can be referenced using ${VAR_NAME} or ${VAR_NAME:-default}

server:
  port: ${PORT:-8080}
  shutdown_timeout: 30s
  allowed_origins:
    - https://expedientes.example.edu

database:
  url: ${DATABASE_URL}
  max_open_conns: 25
  max_idle_conns: 5
  conn_max_lifetime: 5m

directory:
  # database: read descriptors from the directorio_conexiones table
  # file: read the tenants list below
  source: database
  table: directorio_conexiones

router:
  health_check_interval: 30s
  connect_timeout: 10s

redis:
  url: ${REDIS_URL:-}
  lock_ttl: 2m

secrets:
  provider: env          # aws | env | local
  region: ${AWS_REGION:-us-east-1}
  cache_ttl: 5m

auth:
  jwt_secret: ${JWT_SECRET}

catalog:
  cache_ttl: 1m

tenants:
  - tenant_key: sistemas
    display_name: Departamento de Sistemas y Computación
    engine: mysql
    host: ${SISTEMAS_DB_HOST:-localhost}
    port: 3306
    database: sistemas
    credentials_secret: SISTEMAS_DB
    timeout: 15s
    options:
      max_open_conns: 10
`
}
