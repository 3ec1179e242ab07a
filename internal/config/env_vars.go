package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	errs "github.com/jrsteele09/go-pkce-service/internal/errors"
)

const (
	portEnvVar    = "PORT"
	appNameVar    = "APP_NAME"
	envVar        = "ENV"
	logLevelVar   = "LOG_LEVEL"
	backendURLVar = "SUPABASE_URL"
	redisURLVar   = "REDIS_URL"

	// Name used by the Next.js frontend that shares this deployment.
	publicBackendURLVar = "NEXT_PUBLIC_SUPABASE_URL"
)

type EnvVars struct{}

var _ EnvConfig = EnvVars{}

func (EnvVars) GetPort() string {
	port := GetEnv(portEnvVar, "8080")
	if !strings.HasPrefix(port, ":") {
		port = fmt.Sprintf(":%s", port)
	}
	return port
}

func (EnvVars) GetAppName() string {
	return GetEnv(appNameVar, "PKCE Service")
}

func (EnvVars) GetEnv() string {
	return GetEnv(envVar, "DEV")
}

func (EnvVars) GetLogLevel() string {
	return strings.ToLower(GetEnv(logLevelVar, "info"))
}

// GetBackendURL returns the backend endpoint (e.g. "https://abc.supabase.co")
// whose host namespaces stored verifiers. SUPABASE_URL wins over
// NEXT_PUBLIC_SUPABASE_URL. There is no default.
func (EnvVars) GetBackendURL() (string, error) {
	value := strings.TrimSpace(os.Getenv(backendURLVar))
	if value == "" {
		value = strings.TrimSpace(os.Getenv(publicBackendURLVar))
	}
	if value == "" {
		return "", fmt.Errorf("%w: neither %s nor %s is defined", errs.ErrConfigurationMissing, backendURLVar, publicBackendURLVar)
	}
	return value, nil
}

// GetRedisURL returns the verifier store address. Empty selects the in-memory store.
func (EnvVars) GetRedisURL() string {
	return GetEnv(redisURLVar, "")
}

func GetEnv(envVar, defaultValue string) string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}

func lookupInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue, fmt.Errorf("invalid integer value for %s: %w", key, err)
	}
	return parsed, nil
}

func lookupFloat(key string, defaultValue float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return defaultValue, fmt.Errorf("invalid number value for %s: %w", key, err)
	}
	return parsed, nil
}

func lookupBool(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue, fmt.Errorf("invalid boolean value for %s: %w", key, err)
	}
	return parsed, nil
}

func lookupDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue, fmt.Errorf("invalid duration value for %s: %w", key, err)
	}
	return parsed, nil
}
