package aws

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

// DefaultSecretsPrefix namespaces portal secrets so one account can host
// several deployments side by side. Overridable via SECRETS_PREFIX.
const DefaultSecretsPrefix = "portal/"

// SecretsClient reads portal secrets from AWS Secrets Manager with an
// in-process cache so repeated lookups do not hit the API.
type SecretsClient struct {
	client *secretsmanager.Client
	prefix string
	cache  map[string]string
	mu     sync.RWMutex
}

func NewSecretsClient(cfg sdkaws.Config) *SecretsClient {
	prefix := os.Getenv("SECRETS_PREFIX")
	if prefix == "" {
		prefix = DefaultSecretsPrefix
	}
	return &SecretsClient{
		client: secretsmanager.NewFromConfig(cfg),
		prefix: prefix,
		cache:  make(map[string]string),
	}
}

// Lookup fetches a portal secret by its short key: Lookup(ctx, "MONGO_URI")
// reads "portal/MONGO_URI". Keys that already carry a path are used as-is.
func (s *SecretsClient) Lookup(ctx context.Context, key string) (string, error) {
	return s.GetSecret(ctx, s.qualify(key))
}

// GetSecret fetches a secret by its full Secrets Manager name.
func (s *SecretsClient) GetSecret(ctx context.Context, name string) (string, error) {
	s.mu.RLock()
	if v, ok := s.cache[name]; ok {
		s.mu.RUnlock()
		return v, nil
	}
	s.mu.RUnlock()

	out, err := s.client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{SecretId: &name})
	if err != nil {
		return "", fmt.Errorf("failed to get secret %s: %w", name, err)
	}
	if out.SecretString == nil {
		return "", fmt.Errorf("secret %s has no string value", name)
	}

	s.mu.Lock()
	s.cache[name] = *out.SecretString
	s.mu.Unlock()

	return *out.SecretString, nil
}

func (s *SecretsClient) qualify(key string) string {
	if strings.Contains(key, "/") {
		return key
	}
	return s.prefix + key
}
