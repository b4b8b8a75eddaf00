package internal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigDefaults(t *testing.T) {
	cfg, err := NewConfig()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "local", cfg.StorageProvider)
	assert.Equal(t, "mock", cfg.AIProvider)
	assert.Equal(t, "memory", cfg.SessionStore)
	assert.Equal(t, 120*time.Second, cfg.AIRequestTimeout)
	assert.Equal(t, time.Hour, cfg.SessionTTL)
}

func TestNewConfigAzureRequiresCredentials(t *testing.T) {
	t.Setenv("AI_PROVIDER", "azure")
	t.Setenv("AZURE_OPENAI_ENDPOINT", "")
	t.Setenv("AZURE_OPENAI_API_KEY", "")
	t.Setenv("AZURE_OPENAI_DEPLOYMENT", "")

	_, err := NewConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "AZURE_OPENAI_ENDPOINT")

	t.Setenv("AZURE_OPENAI_ENDPOINT", "https://example.openai.azure.com")
	_, err = NewConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "AZURE_OPENAI_API_KEY")

	t.Setenv("AZURE_OPENAI_API_KEY", "key")
	_, err = NewConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "AZURE_OPENAI_DEPLOYMENT")

	t.Setenv("AZURE_OPENAI_DEPLOYMENT", "gpt-4o")
	cfg, err := NewConfig()
	require.NoError(t, err)
	assert.Equal(t, "azure", cfg.AIProvider)
}

func TestNewConfigInvalidProviders(t *testing.T) {
	t.Setenv("AI_PROVIDER", "openai")
	_, err := NewConfig()
	assert.Error(t, err)
	t.Setenv("AI_PROVIDER", "mock")

	t.Setenv("STORAGE_PROVIDER", "gcs")
	_, err = NewConfig()
	assert.Error(t, err)
	t.Setenv("STORAGE_PROVIDER", "local")

	t.Setenv("SESSION_STORE", "postgres")
	_, err = NewConfig()
	assert.Error(t, err)
}

func TestNewConfigS3RequiresSettings(t *testing.T) {
	t.Setenv("STORAGE_PROVIDER", "s3")

	_, err := NewConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "S3_ENDPOINT")

	t.Setenv("S3_ENDPOINT", "https://s3.example.com")
	t.Setenv("S3_ACCESS_KEY_ID", "key")
	t.Setenv("S3_SECRET_ACCESS_KEY", "secret")
	t.Setenv("S3_BUCKET_NAME", "uploads")

	cfg, err := NewConfig()
	require.NoError(t, err)
	assert.Equal(t, "s3", cfg.StorageProvider)
}

func TestNewConfigRedisRequiresAddr(t *testing.T) {
	t.Setenv("SESSION_STORE", "redis")

	_, err := NewConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "REDIS_ADDR")

	t.Setenv("REDIS_ADDR", "localhost:6379")
	cfg, err := NewConfig()
	require.NoError(t, err)
	assert.Equal(t, "redis", cfg.SessionStore)
}

func TestGetEnvHelpers(t *testing.T) {
	t.Setenv("TEST_STR", "value")
	assert.Equal(t, "value", getEnv("TEST_STR", "fallback"))
	assert.Equal(t, "fallback", getEnv("TEST_STR_MISSING", "fallback"))

	t.Setenv("TEST_INT", "42")
	assert.Equal(t, 42, getEnvInt("TEST_INT", 1))
	t.Setenv("TEST_INT", "not a number")
	assert.Equal(t, 1, getEnvInt("TEST_INT", 1))

	t.Setenv("TEST_DUR", "90s")
	assert.Equal(t, 90*time.Second, getEnvDuration("TEST_DUR", time.Minute))
	t.Setenv("TEST_DUR", "garbage")
	assert.Equal(t, time.Minute, getEnvDuration("TEST_DUR", time.Minute))
}
