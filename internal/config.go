package internal

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env      string
	Port     int
	LogLevel string

	// Application base URL (used for locally served file URLs)
	BaseURL string

	// Storage Configuration
	StorageProvider string // "local" or "s3"

	// Local Storage (development)
	LocalStoragePath string // Base directory for local file storage
	LocalStorageURL  string // Base URL for accessing local files

	// S3-compatible object storage (production)
	S3Endpoint        string // Endpoint URL (AWS S3, Cloudflare R2, MinIO, ...)
	S3Region          string
	S3AccessKeyID     string
	S3SecretAccessKey string
	S3BucketName      string
	S3PublicURL       string // Optional custom domain URL

	// AI Provider Configuration
	AIProvider            string // "azure" or "mock"
	AzureOpenAIEndpoint   string
	AzureOpenAIAPIKey     string
	AzureOpenAIDeployment string
	AIRequestTimeout      time.Duration

	// Session result cache
	SessionStore  string // "memory" or "redis"
	SessionTTL    time.Duration
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Metrics endpoint authentication
	// If both are empty, the /metrics endpoint will be unprotected (not recommended)
	MetricsUsername string
	MetricsPassword string
}

func NewConfig() (*Config, error) {
	// Load .env file if it exists (ignored in production)
	_ = godotenv.Load()

	cfg := &Config{
		Env:      getEnv("ENV", "development"),
		Port:     getEnvInt("PORT", 8080),
		LogLevel: getEnv("LOG_LEVEL", "debug"),

		// Base URL defaults to localhost for development
		BaseURL: getEnv("BASE_URL", "http://localhost:8080"),

		// Storage defaults to local filesystem for development
		StorageProvider:  getEnv("STORAGE_PROVIDER", "local"),
		LocalStoragePath: getEnv("LOCAL_STORAGE_PATH", "./storage"),
		LocalStorageURL:  getEnv("LOCAL_STORAGE_URL", "http://localhost:8080/files"),

		// S3 configuration (production only)
		S3Endpoint:        getEnv("S3_ENDPOINT", ""),
		S3Region:          getEnv("S3_REGION", "auto"),
		S3AccessKeyID:     getEnv("S3_ACCESS_KEY_ID", ""),
		S3SecretAccessKey: getEnv("S3_SECRET_ACCESS_KEY", ""),
		S3BucketName:      getEnv("S3_BUCKET_NAME", ""),
		S3PublicURL:       getEnv("S3_PUBLIC_URL", ""),

		// AI provider defaults
		AIProvider:            getEnv("AI_PROVIDER", "mock"),
		AzureOpenAIEndpoint:   getEnv("AZURE_OPENAI_ENDPOINT", ""),
		AzureOpenAIAPIKey:     getEnv("AZURE_OPENAI_API_KEY", ""),
		AzureOpenAIDeployment: getEnv("AZURE_OPENAI_DEPLOYMENT", ""),
		AIRequestTimeout:      getEnvDuration("AI_REQUEST_TIMEOUT", 120*time.Second),

		// Session cache defaults
		SessionStore:  getEnv("SESSION_STORE", "memory"),
		SessionTTL:    getEnvDuration("SESSION_TTL", 1*time.Hour),
		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		// Metrics authentication
		MetricsUsername: getEnv("METRICS_USERNAME", ""),
		MetricsPassword: getEnv("METRICS_PASSWORD", ""),
	}

	// Validate storage configuration
	if cfg.StorageProvider == "s3" {
		if cfg.S3Endpoint == "" {
			return nil, fmt.Errorf("S3_ENDPOINT is required when STORAGE_PROVIDER is 's3'")
		}
		if cfg.S3AccessKeyID == "" {
			return nil, fmt.Errorf("S3_ACCESS_KEY_ID is required when STORAGE_PROVIDER is 's3'")
		}
		if cfg.S3SecretAccessKey == "" {
			return nil, fmt.Errorf("S3_SECRET_ACCESS_KEY is required when STORAGE_PROVIDER is 's3'")
		}
		if cfg.S3BucketName == "" {
			return nil, fmt.Errorf("S3_BUCKET_NAME is required when STORAGE_PROVIDER is 's3'")
		}
	} else if cfg.StorageProvider != "local" {
		return nil, fmt.Errorf("STORAGE_PROVIDER must be either 'local' or 's3', got: %s", cfg.StorageProvider)
	}

	// Validate AI provider configuration. Missing Azure credentials are a
	// fatal startup error, never a per-call error.
	if cfg.AIProvider == "azure" {
		if cfg.AzureOpenAIEndpoint == "" {
			return nil, fmt.Errorf("AZURE_OPENAI_ENDPOINT is required when AI_PROVIDER is 'azure'")
		}
		if cfg.AzureOpenAIAPIKey == "" {
			return nil, fmt.Errorf("AZURE_OPENAI_API_KEY is required when AI_PROVIDER is 'azure'")
		}
		if cfg.AzureOpenAIDeployment == "" {
			return nil, fmt.Errorf("AZURE_OPENAI_DEPLOYMENT is required when AI_PROVIDER is 'azure'")
		}
	} else if cfg.AIProvider != "mock" {
		return nil, fmt.Errorf("AI_PROVIDER must be either 'azure' or 'mock', got: %s", cfg.AIProvider)
	}

	// Validate session store configuration
	if cfg.SessionStore == "redis" {
		if cfg.RedisAddr == "" {
			return nil, fmt.Errorf("REDIS_ADDR is required when SESSION_STORE is 'redis'")
		}
	} else if cfg.SessionStore != "memory" {
		return nil, fmt.Errorf("SESSION_STORE must be either 'memory' or 'redis', got: %s", cfg.SessionStore)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
