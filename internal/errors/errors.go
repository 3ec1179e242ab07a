package errors

import (
	"errors"
	"fmt"
)

// Common error types for the PKCE service
var (
	// Deployment errors. Both are terminal for the sign-in flow that hit them.
	ErrCryptoUnavailable    = errors.New("crypto primitive unavailable")
	ErrConfigurationMissing = errors.New("configuration missing")

	// PKCE errors
	ErrInvalidVerifierLength = errors.New("invalid verifier length")
	ErrInvalidCodeVerifier   = errors.New("invalid code verifier")
	ErrInvalidCodeChallenge  = errors.New("invalid code challenge")
	ErrUnsupportedMethod     = errors.New("unsupported code challenge method")

	// Request errors
	ErrInvalidRequest = errors.New("invalid request")

	// Storage errors
	ErrNotFound = errors.New("not found")
)

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}
