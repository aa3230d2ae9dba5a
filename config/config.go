// Package config loads and validates application configuration from
// environment variables. Required variables and parse failures are collected
// and reported together so a misconfigured deployment fails fast with a
// single, complete error message.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// DatabaseConfig holds settings for the PostgreSQL connection pool.
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	PoolSize int
	// MigrationsPath is the directory containing versioned SQL migrations.
	MigrationsPath string
}

// AuthConfig holds authentication-related configuration.
type AuthConfig struct {
	JWTSecret       string        // Secret key for signing JWTs
	TokenExpiration time.Duration // Fixed lifetime of issued tokens
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string
	// AllowedOrigins is the CORS origin allow-list.
	AllowedOrigins []string
}

// UploadConfig holds image upload configuration.
type UploadConfig struct {
	// Dir is the root directory for stored images; files land in
	// per-user subdirectories beneath it.
	Dir string
}

// AppConfig is the top-level configuration for the application.
type AppConfig struct {
	Database *DatabaseConfig
	Auth     *AuthConfig
	Server   *ServerConfig
	Upload   *UploadConfig
}

// getRequiredEnv reads a required environment variable, recording an error
// when it is missing.
func getRequiredEnv(key string, errs *[]string) string {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		*errs = append(*errs, fmt.Sprintf("missing required environment variable: %s", key))
		return ""
	}
	return value
}

// getOptionalEnv reads an environment variable, falling back to defaultValue.
func getOptionalEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getOptionalEnvInt reads an integer environment variable, falling back to
// defaultValue and recording an error when the value does not parse.
func getOptionalEnvInt(key string, defaultValue int, errs *[]string) int {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	valueInt, err := strconv.Atoi(valueStr)
	if err != nil {
		*errs = append(*errs, fmt.Sprintf("invalid value for %s: expected integer, got '%s': %v", key, valueStr, err))
		return defaultValue
	}
	return valueInt
}

// getOptionalEnvDuration reads a duration environment variable ("24h", "30m"),
// falling back to defaultValue and recording an error when the value does not parse.
func getOptionalEnvDuration(key string, defaultValue time.Duration, errs *[]string) time.Duration {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	valueDuration, err := time.ParseDuration(valueStr)
	if err != nil {
		*errs = append(*errs, fmt.Sprintf("invalid value for %s: expected duration string, got '%s': %v", key, valueStr, err))
		return defaultValue
	}
	return valueDuration
}

// clampPoolSize keeps the pool size within sane bounds.
func clampPoolSize(size int) int {
	if size < 5 {
		return 5
	}
	if size > 100 {
		return 100
	}
	return size
}

// parseOrigins splits a comma-separated origin list, trimming whitespace and
// dropping empty entries.
func parseOrigins(raw string) []string {
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			origins = append(origins, p)
		}
	}
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return origins
}

// LoadConfig builds an AppConfig from environment variables. All problems
// found while reading are aggregated into a single error.
func LoadConfig() (*AppConfig, error) {
	var errs []string

	dbUser := getRequiredEnv("DB_USER", &errs)
	dbPassword := getRequiredEnv("DB_PASSWORD", &errs)
	dbName := getRequiredEnv("DB_NAME", &errs)
	dbHost := getOptionalEnv("DB_HOST", "localhost")
	dbPort := getOptionalEnvInt("DB_PORT", 5432, &errs)
	poolSize := clampPoolSize(getOptionalEnvInt("DB_POOL_SIZE", 10, &errs))
	migrationsPath := getOptionalEnv("MIGRATIONS_PATH", "./migrations")

	database := &DatabaseConfig{
		Host:           dbHost,
		Port:           dbPort,
		User:           dbUser,
		Password:       dbPassword,
		DBName:         dbName,
		PoolSize:       poolSize,
		MigrationsPath: migrationsPath,
	}

	jwtSecret := getRequiredEnv("JWT_SECRET", &errs)
	tokenExpiration := getOptionalEnvDuration("JWT_EXPIRATION", 24*time.Hour, &errs)

	authConfig := &AuthConfig{
		JWTSecret:       jwtSecret,
		TokenExpiration: tokenExpiration,
	}

	serverConfig := &ServerConfig{
		Port:           getOptionalEnv("PORT", "8080"),
		AllowedOrigins: parseOrigins(getOptionalEnv("CORS_ALLOWED_ORIGINS", "*")),
	}

	uploadConfig := &UploadConfig{
		Dir: getOptionalEnv("UPLOAD_DIR", "uploads"),
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("configuration errors:\n- %s", strings.Join(errs, "\n- "))
	}

	return &AppConfig{
		Database: database,
		Auth:     authConfig,
		Server:   serverConfig,
		Upload:   uploadConfig,
	}, nil
}
