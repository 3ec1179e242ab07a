package config

import (
	"errors"
	"fmt"
	"io/fs"

	errs "github.com/jrsteele09/go-pkce-service/internal/errors"
	"github.com/jrsteele09/go-pkce-service/pkce"
	"github.com/joho/godotenv"
)

type Config interface {
	EnvConfig
	CorsConfig
	PKCEConfig
	SecurityConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetEnv() string
	GetLogLevel() string
	GetBackendURL() (string, error)
	GetRedisURL() string
}

type CorsConfig interface {
	GetAllowedOrigins() AllowedOrigins
	GetAllowedMethods() string
	GetAllowedHeaders() string
}

type mainConfig struct {
	EnvVars
	Cors
	PKCE
	Security
}

func New() Config {
	return mainConfig{}
}

// Load reads .env files into the process environment (existing variables win)
// and returns the environment-backed Config. With no files given, a missing
// ./.env is not an error.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("godotenv.Load: %w", err)
		}
		return New(), nil
	}
	if err := godotenv.Load(files...); err != nil {
		return nil, fmt.Errorf("godotenv.Load %v: %w", files, err)
	}
	return New(), nil
}

// Validate reports every malformed or missing setting at once.
func Validate(c Config) error {
	var problems []error
	if _, err := c.GetBackendURL(); err != nil {
		problems = append(problems, err)
	}
	if n, err := lookupInt(verifierLengthVar, defaultVerifierLength); err != nil {
		problems = append(problems, err)
	} else if n < pkce.MinVerifierLength || n > pkce.MaxVerifierLength {
		problems = append(problems, fmt.Errorf("%w: %s=%d must be between %d and %d",
			errs.ErrConfigurationMissing, verifierLengthVar, n, pkce.MinVerifierLength, pkce.MaxVerifierLength))
	}
	if d, err := lookupDuration(verifierTTLVar, defaultVerifierTTL); err != nil {
		problems = append(problems, err)
	} else if d <= 0 {
		problems = append(problems, fmt.Errorf("%w: %s=%s must be positive", errs.ErrConfigurationMissing, verifierTTLVar, d))
	}
	if _, err := pkce.NewRandomSource(c.GetRandomSource()); err != nil {
		problems = append(problems, fmt.Errorf("%w: %s: %w", errs.ErrConfigurationMissing, randomSourceVar, err))
	}
	if _, err := lookupBool(rateLimitEnabledVar, false); err != nil {
		problems = append(problems, err)
	}
	if _, err := lookupFloat(rateLimitRPSVar, defaultRateLimitRPS); err != nil {
		problems = append(problems, err)
	}
	if _, err := lookupInt(rateLimitBurstVar, defaultRateLimitBurst); err != nil {
		problems = append(problems, err)
	}
	if _, err := lookupBool(allowPlainVar, false); err != nil {
		problems = append(problems, err)
	}
	return errors.Join(problems...)
}
