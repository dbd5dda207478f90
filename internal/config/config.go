package config

import (
	"os"
	"strconv"
	"time"

	"github.com/dasinspectionapp/equipment-maintainance-sub003/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	Uploads  UploadConfig
	Storage  StorageConfig
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	URL     string
	Host    string
	Port    int
	Name    string
	User    string
	SSLMode string
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string
	GinMode string
}

// UploadConfig holds settings for the upload/tracker service client.
// BaseURL empty means the page services use the in-process repositories
// directly instead of going over HTTP.
type UploadConfig struct {
	BaseURL     string
	BearerToken string
	Timeout     time.Duration
}

// StorageConfig holds file storage paths and limits for uploaded sheets
type StorageConfig struct {
	BasePath    string
	MaxFileSize int64
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	cfg := &Config{
		Database: DatabaseConfig{
			URL:     os.Getenv("DATABASE_URL"),
			Host:    getEnvOrDefault("DB_HOST", "localhost"),
			Port:    getEnvIntOrDefault("DB_PORT", 5432),
			Name:    getEnvOrDefault("DB_NAME", "das_inspection"),
			User:    getEnvOrDefault("DB_USER", ""),
			SSLMode: getEnvOrDefault("SSL_MODE", "disable"),
		},
		Server: ServerConfig{
			Port:    getEnvOrDefault("PORT", "8080"),
			GinMode: getEnvOrDefault("GIN_MODE", "debug"),
		},
		Uploads: UploadConfig{
			BaseURL:     os.Getenv("UPLOAD_SERVICE_URL"),
			BearerToken: os.Getenv("UPLOAD_SERVICE_TOKEN"),
			Timeout:     getEnvDurationOrDefault("UPLOAD_SERVICE_TIMEOUT", 30*time.Second),
		},
		Storage: StorageConfig{
			BasePath:    getEnvOrDefault("UPLOAD_STORAGE_PATH", "uploads/sheets"),
			MaxFileSize: int64(getEnvIntOrDefault("UPLOAD_MAX_FILE_MB", 50)) * 1024 * 1024,
		},
	}

	if err := validateConfig(cfg); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return cfg, nil
}

func validateConfig(cfg *Config) error {
	if cfg.Database.URL == "" {
		return errors.ConfigInvalid("DATABASE_URL is required")
	}
	if cfg.Uploads.BaseURL != "" && cfg.Uploads.BearerToken == "" {
		return errors.ConfigInvalid("UPLOAD_SERVICE_TOKEN is required when UPLOAD_SERVICE_URL is set")
	}
	if cfg.Storage.MaxFileSize <= 0 {
		return errors.ConfigInvalid("UPLOAD_MAX_FILE_MB must be positive")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
