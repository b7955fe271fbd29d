// Copyright 2025 AxonFlow
// SPDX-License-Identifier: BUSL-1.1

package config

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

// SecretsManager resolves a secret reference into key/value credentials.
// Tenant descriptors use it for their credentials_secret.
type SecretsManager interface {
	GetSecret(ctx context.Context, secretRef string) (map[string]string, error)
}

// Supported secrets providers
const (
	SecretsProviderAWS   = "aws"
	SecretsProviderEnv   = "env"
	SecretsProviderLocal = "local"
)

// NewSecretsManager builds the SecretsManager selected by cfg.Provider. An
// empty provider yields nil: descriptors then carry inline credentials.
func NewSecretsManager(ctx context.Context, cfg SecretsConfig) (SecretsManager, error) {
	switch strings.ToLower(cfg.Provider) {
	case "":
		return nil, nil
	case SecretsProviderAWS:
		sm, err := NewAWSSecretsManager(ctx, AWSSecretsManagerOptions{
			Region:   cfg.Region,
			CacheTTL: cfg.CacheTTL,
		})
		if err != nil {
			return nil, err
		}
		return sm, nil
	case SecretsProviderEnv:
		return NewEnvSecretsManager(nil), nil
	case SecretsProviderLocal:
		return NewLocalSecretsManager(nil), nil
	default:
		return nil, fmt.Errorf("unknown secrets provider %q", cfg.Provider)
	}
}

// secretsAPI is the subset of the AWS client used here
type secretsAPI interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// AWSSecretsManager implements SecretsManager using AWS Secrets Manager
type AWSSecretsManager struct {
	client secretsAPI
	cache  *TTLCache[map[string]string]
	logger *log.Logger
}

// AWSSecretsManagerOptions holds options for creating an AWSSecretsManager
type AWSSecretsManagerOptions struct {
	Region   string
	CacheTTL time.Duration
	Logger   *log.Logger
}

// NewAWSSecretsManager creates a new AWS Secrets Manager client
func NewAWSSecretsManager(ctx context.Context, opts AWSSecretsManagerOptions) (*AWSSecretsManager, error) {
	cfgOpts := []func(*awsconfig.LoadOptions) error{}
	if opts.Region != "" {
		cfgOpts = append(cfgOpts, awsconfig.WithRegion(opts.Region))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, cfgOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return newAWSSecretsManager(secretsmanager.NewFromConfig(cfg), opts), nil
}

func newAWSSecretsManager(client secretsAPI, opts AWSSecretsManagerOptions) *AWSSecretsManager {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(os.Stdout, "[SECRETS_MANAGER] ", log.LstdFlags)
	}
	return &AWSSecretsManager{
		client: client,
		cache:  NewTTLCache[map[string]string](opts.CacheTTL),
		logger: logger,
	}
}

// GetSecret retrieves a secret from AWS Secrets Manager.
// The secret value is expected to be a JSON object with string values.
func (s *AWSSecretsManager) GetSecret(ctx context.Context, secretARN string) (map[string]string, error) {
	if value, ok := s.cache.Get(secretARN); ok {
		return value, nil
	}

	s.logger.Printf("Fetching secret %s from AWS Secrets Manager", maskARN(secretARN))

	result, err := s.client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(secretARN),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get secret %s: %w", maskARN(secretARN), err)
	}
	if result.SecretString == nil {
		return nil, fmt.Errorf("secret %s has no string value", maskARN(secretARN))
	}

	var credentials map[string]string
	if err := json.Unmarshal([]byte(*result.SecretString), &credentials); err != nil {
		// a bare string secret is treated as the password
		credentials = map[string]string{"password": *result.SecretString}
	}

	s.cache.Set(secretARN, credentials)
	return credentials, nil
}

// InvalidateSecret removes a secret from the cache
func (s *AWSSecretsManager) InvalidateSecret(secretARN string) {
	s.cache.Invalidate(secretARN)
	s.logger.Printf("Invalidated cache for secret %s", maskARN(secretARN))
}

// InvalidateAll clears the entire secret cache
func (s *AWSSecretsManager) InvalidateAll() {
	s.cache.InvalidateAll()
	s.logger.Println("Invalidated all cached secrets")
}

// maskARN masks the secret ARN for logging (shows only last 8 characters)
func maskARN(arn string) string {
	if len(arn) <= 12 {
		return "***"
	}
	return "..." + arn[len(arn)-8:]
}

// LocalSecretsManager keeps secrets in memory. Used in development and tests.
type LocalSecretsManager struct {
	secrets map[string]map[string]string
	mu      sync.RWMutex
	logger  *log.Logger
}

// NewLocalSecretsManager creates a local secrets manager for development
func NewLocalSecretsManager(logger *log.Logger) *LocalSecretsManager {
	if logger == nil {
		logger = log.New(os.Stdout, "[LOCAL_SECRETS] ", log.LstdFlags)
	}
	return &LocalSecretsManager{
		secrets: make(map[string]map[string]string),
		logger:  logger,
	}
}

// GetSecret retrieves a secret from local storage
func (s *LocalSecretsManager) GetSecret(ctx context.Context, secretRef string) (map[string]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if secret, exists := s.secrets[secretRef]; exists {
		return secret, nil
	}

	return nil, fmt.Errorf("secret %s not found in local secrets manager", secretRef)
}

// SetSecret stores a secret locally
func (s *LocalSecretsManager) SetSecret(secretRef string, value map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.secrets[secretRef] = value
	s.logger.Printf("Set local secret %s", maskARN(secretRef))
}

// EnvSecretsManager reads credentials from environment variables. The secret
// reference is the variable prefix: "SISTEMAS_DB" looks up
// SISTEMAS_DB_USERNAME and SISTEMAS_DB_PASSWORD.
type EnvSecretsManager struct {
	logger *log.Logger
}

// NewEnvSecretsManager creates a secrets manager that reads from environment variables
func NewEnvSecretsManager(logger *log.Logger) *EnvSecretsManager {
	if logger == nil {
		logger = log.New(os.Stdout, "[ENV_SECRETS] ", log.LstdFlags)
	}
	return &EnvSecretsManager{
		logger: logger,
	}
}

var envSecretFields = []string{"USERNAME", "PASSWORD", "HOST", "PORT", "DATABASE"}

// GetSecret retrieves credentials from environment variables
func (s *EnvSecretsManager) GetSecret(ctx context.Context, secretRef string) (map[string]string, error) {
	prefix := strings.ToUpper(secretRef)

	credentials := make(map[string]string)
	for _, field := range envSecretFields {
		if value := os.Getenv(prefix + "_" + field); value != "" {
			credentials[strings.ToLower(field)] = value
		}
	}

	if len(credentials) == 0 {
		return nil, fmt.Errorf("no credentials found for prefix %s", prefix)
	}

	s.logger.Printf("Loaded %d credentials from environment for %s", len(credentials), prefix)
	return credentials, nil
}
