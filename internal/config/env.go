// Package config loads runtime settings from the environment, with optional
// .env file support for local development.
package config

import (
	"os"
	"strconv"
	"strings"
)

// Settings holds everything the pipeline and its surrounding commands need.
type Settings struct {
	InputDir     string
	OutputDir    string
	FuzzyCutoff  float64
	AuditDSN     string
	ListenAddr   string
	CleanupInput bool
}

// Load reads settings from the environment after merging in a .env file when
// one is present. Every field has a working default; AuditDSN defaults to
// empty, which disables the audit store.
func Load() Settings {
	LoadEnv()
	return Settings{
		InputDir:     GetEnv("INGEST_INPUT_DIR", "input_csv"),
		OutputDir:    GetEnv("INGEST_OUTPUT_DIR", "state_csv"),
		FuzzyCutoff:  GetEnvFloat("INGEST_FUZZY_CUTOFF", 0.92),
		AuditDSN:     GetEnv("INGEST_AUDIT_DSN", ""),
		ListenAddr:   GetEnv("INGEST_LISTEN_ADDR", ":8080"),
		CleanupInput: GetEnvBool("INGEST_CLEANUP_INPUT", true),
	}
}

// LoadEnv loads environment variables from a .env file in the current or a
// parent directory. Variables already set in the environment win.
func LoadEnv() {
	envPaths := []string{".env", "../.env", "../../.env"}

	for _, envPath := range envPaths {
		data, err := os.ReadFile(envPath)
		if err != nil {
			continue
		}
		for _, line := range strings.Split(string(data), "\n") {
			line = strings.TrimSpace(line)
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}
			parts := strings.SplitN(line, "=", 2)
			if len(parts) != 2 {
				continue
			}
			key := strings.TrimSpace(parts[0])
			value := strings.TrimSpace(parts[1])
			if os.Getenv(key) == "" {
				os.Setenv(key, value)
			}
		}
		return
	}
}

// GetEnv gets an environment variable with a default.
func GetEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// GetEnvFloat gets a float environment variable with a default.
func GetEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

// GetEnvBool gets a boolean environment variable with a default.
func GetEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		switch strings.ToLower(value) {
		case "true", "1", "yes", "on":
			return true
		case "false", "0", "no", "off":
			return false
		}
	}
	return defaultValue
}
