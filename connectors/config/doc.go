// Copyright 2025 AxonFlow
// SPDX-License-Identifier: BUSL-1.1

/*
Package config loads the orchestrator service configuration and provides the
secrets managers used to resolve tenant credentials.

# Sources

Configuration is layered: Default, then an optional YAML file, then
environment variables.

	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))

The YAML file may reference the environment with ${VAR_NAME} or
${VAR_NAME:-default}. See GenerateExampleConfigFile for every key.

Environment overrides:
  - PORT, DATABASE_URL, REDIS_URL, JWT_SECRET
  - SECRETS_PROVIDER, AWS_REGION
  - DIRECTORY_SOURCE, ALLOWED_ORIGINS, ROUTER_HEALTH_CHECK_INTERVAL

# Secrets

A tenant descriptor may name a credentials_secret instead of carrying a
password. The SecretsManager selected by secrets.provider resolves it:

  - aws: AWS Secrets Manager, JSON object secrets, cached with a TTL
  - env: <REF>_USERNAME / <REF>_PASSWORD environment variables
  - local: in-memory, for development and tests

# Thread Safety

All secrets managers and TTLCache are safe for concurrent use.
*/
package config
