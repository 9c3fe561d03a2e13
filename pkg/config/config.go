package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds process-level configuration for the absim CLI and engine.
// Deal definitions live in their own YAML files (internal/dealconfig);
// this covers only the ambient environment.
type Config struct {
	Env string // development, staging, production

	// Logging
	LogLevel  string
	LogFormat string

	// Output
	OutputDir string

	// Engine defaults (overridable per run via flags or deal file)
	MaxPeriods       int
	SweepConcurrency int
}

// Load reads configuration from environment variables, consulting a .env
// file when one is present. Only this function calls os.Getenv.
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		Env:              getEnv("ENV", "development"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		LogFormat:        getEnv("LOG_FORMAT", "console"),
		OutputDir:        getEnv("ABSIM_OUTPUT_DIR", "."),
		MaxPeriods:       getEnvAsInt("ABSIM_MAX_PERIODS", 600),
		SweepConcurrency: getEnvAsInt("ABSIM_SWEEP_CONCURRENCY", 4),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if required configuration values are sane
func (c *Config) validate() error {
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}
	if c.MaxPeriods <= 0 {
		return fmt.Errorf("ABSIM_MAX_PERIODS must be > 0")
	}
	if c.SweepConcurrency <= 0 {
		return fmt.Errorf("ABSIM_SWEEP_CONCURRENCY must be > 0")
	}
	return nil
}

// loadEnvFile tries to load .env from a few likely locations
func loadEnvFile() {
	paths := []string{".env"}

	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}
