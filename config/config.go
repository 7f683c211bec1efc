package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the application.
type Config struct {
	// Server configuration
	ServerPort string
	ServerHost string

	// MongoDB configuration
	MongoURI      string
	MongoDatabase string

	// Redis configuration. Empty RedisAddr selects the in-memory rate
	// limiter instead.
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Identity provider configuration. FirebaseCredentialsFile selects the
	// Firebase verifier; AuthDevSecret selects the local HMAC verifier used
	// in development and tests.
	FirebaseCredentialsFile string
	AuthDevSecret           string

	// Generation backend configuration
	GCPProjectID     string
	GCPLocation      string
	TextModel        string
	ImageModel       string
	TextGenEndpoint  string
	ImageGenEndpoint string
	TextGenTimeout   time.Duration
	ImageGenTimeout  time.Duration

	// Image storage configuration. ImageStorage is "local" or "s3".
	ImageStorage string
	ImageDir     string
	S3Bucket     string

	// CORS configuration. Empty means allow all origins.
	AllowedOrigins []string
}

// LoadConfig creates a Config from environment variables, falling back to
// Docker secrets for sensitive values.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		ServerPort: getEnv("SERVER_PORT", "3000"),
		ServerHost: getEnv("SERVER_HOST", "0.0.0.0"),

		MongoURI:      getSecretEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase: getEnv("MONGO_DATABASE", "dishcraft"),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getSecretEnv("REDIS_PASSWORD", ""),

		FirebaseCredentialsFile: getEnv("FIREBASE_CREDENTIALS_FILE", ""),
		AuthDevSecret:           getSecretEnv("AUTH_DEV_SECRET", ""),

		GCPProjectID:     getEnv("GCP_PROJECT_ID", ""),
		GCPLocation:      getEnv("GCP_LOCATION", "us-central1"),
		TextModel:        getEnv("TEXT_MODEL", "gemini-1.5-flash-002"),
		ImageModel:       getEnv("IMAGE_MODEL", "imagen-3.0-fast-generate-001"),
		TextGenEndpoint:  getEnv("TEXT_GEN_ENDPOINT", ""),
		ImageGenEndpoint: getEnv("IMAGE_GEN_ENDPOINT", ""),

		ImageStorage: getEnv("IMAGE_STORAGE", "local"),
		ImageDir:     getEnv("IMAGE_DIR", "generated_images"),
		S3Bucket:     getEnv("S3_BUCKET_NAME", ""),
	}

	var err error
	if cfg.RedisDB, err = getEnvInt("REDIS_DB", 0); err != nil {
		return nil, err
	}
	if cfg.TextGenTimeout, err = getEnvDuration("TEXT_GEN_TIMEOUT", 60*time.Second); err != nil {
		return nil, err
	}
	if cfg.ImageGenTimeout, err = getEnvDuration("IMAGE_GEN_TIMEOUT", 60*time.Second); err != nil {
		return nil, err
	}

	if origins := getEnv("ALLOWED_ORIGINS", ""); origins != "" {
		for _, origin := range strings.Split(origins, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, origin)
			}
		}
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// ValidateConfig checks that the configuration is internally consistent.
func ValidateConfig(cfg *Config) error {
	if cfg.FirebaseCredentialsFile == "" && cfg.AuthDevSecret == "" {
		return fmt.Errorf("either FIREBASE_CREDENTIALS_FILE or AUTH_DEV_SECRET must be set")
	}
	switch cfg.ImageStorage {
	case "local":
		if cfg.ImageDir == "" {
			return fmt.Errorf("IMAGE_DIR is required for local image storage")
		}
	case "s3":
		if cfg.S3Bucket == "" {
			return fmt.Errorf("S3_BUCKET_NAME is required for s3 image storage")
		}
	default:
		return fmt.Errorf("unknown IMAGE_STORAGE %q", cfg.ImageStorage)
	}
	if cfg.GCPProjectID == "" && cfg.TextGenEndpoint == "" {
		return fmt.Errorf("GCP_PROJECT_ID is required unless TEXT_GEN_ENDPOINT is set")
	}
	if cfg.GCPProjectID == "" && cfg.ImageGenEndpoint == "" {
		return fmt.Errorf("GCP_PROJECT_ID is required unless IMAGE_GEN_ENDPOINT is set")
	}
	return nil
}

// Addr returns the host:port the server listens on.
func (c *Config) Addr() string {
	return c.ServerHost + ":" + c.ServerPort
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// getSecretEnv resolves a value from the environment, then from a Docker
// secret named by KEY_FILE, then from the default secrets directory.
func getSecretEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	path := os.Getenv(key + "_FILE")
	if path == "" {
		secretsDir := os.Getenv("SECRETS_DIR")
		if secretsDir == "" {
			secretsDir = "/run/secrets"
		}
		path = filepath.Join(secretsDir, strings.ToLower(key))
	}
	if data, err := os.ReadFile(path); err == nil {
		return strings.TrimSpace(string(data))
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return parsed, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return parsed, nil
}
