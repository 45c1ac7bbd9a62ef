package config

import "os"

// EnvConfig holds the handful of environment-variable toggles spec.md §6
// calls "conventional logging envvars ... honoured but not required."
type EnvConfig struct {
	// LogLevel is read but, true to the spec, never required: it is
	// "info" when LOG_LEVEL is unset. No logger in this repository
	// consults it.
	LogLevel string
}

// LoadEnv reads the ambient log-level environment variable. NO_COLOR and
// FORCE_COLOR are read directly by internal/ui, which owns color-support
// detection.
func LoadEnv() *EnvConfig {
	return &EnvConfig{
		LogLevel: getEnvOrDefault("LOG_LEVEL", "info"),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
