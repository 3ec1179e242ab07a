package pkce

import (
	"context"
	"crypto/subtle"
	"fmt"

	errs "github.com/jrsteele09/go-pkce-service/internal/errors"
)

// CodeMethodType represents the PKCE challenge method.
type CodeMethodType string

const (
	// CodeMethodS256 sends BASE64URL(SHA256(code_verifier)) as the challenge.
	CodeMethodS256 CodeMethodType = "S256"

	// CodeMethodPlain sends the verifier itself as the challenge. Only protects
	// against passive attackers.
	CodeMethodPlain CodeMethodType = "plain"
)

const (
	minEncodedLength = 43
	maxEncodedLength = 128
)

// ParseCodeMethod maps a code_challenge_method value to a CodeMethodType.
// An empty value means plain, as RFC 7636 section 4.3 defines.
func ParseCodeMethod(s string) (CodeMethodType, error) {
	switch CodeMethodType(s) {
	case CodeMethodS256:
		return CodeMethodS256, nil
	case CodeMethodPlain, "":
		return CodeMethodPlain, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedMethod, s)
}

// ValidateChallengeParams checks the code_challenge and code_challenge_method
// of an authorization request. When required is false, both may be absent.
func ValidateChallengeParams(challenge, method string, required bool) error {
	if challenge == "" && method == "" {
		if required {
			return fmt.Errorf("%w: PKCE required: code_challenge and code_challenge_method must be provided", errs.ErrInvalidRequest)
		}
		return nil
	}

	if challenge == "" || method == "" {
		return fmt.Errorf("%w: both code_challenge and code_challenge_method must be provided together", errs.ErrInvalidRequest)
	}

	if len(challenge) < minEncodedLength || len(challenge) > maxEncodedLength {
		return fmt.Errorf("%w: length must be between %d and %d characters", ErrInvalidCodeChallenge, minEncodedLength, maxEncodedLength)
	}
	if !isUnreserved(challenge) {
		return fmt.Errorf("%w: contains characters outside [A-Za-z0-9-._~]", ErrInvalidCodeChallenge)
	}

	m := CodeMethodType(method)
	if m != CodeMethodS256 && m != CodeMethodPlain {
		return fmt.Errorf("%w: code_challenge_method must be 'S256' or 'plain'", ErrUnsupportedMethod)
	}
	return nil
}

// ValidateVerifier checks that a code_verifier has the RFC 7636 shape.
func ValidateVerifier(verifier Verifier) error {
	if len(verifier) < minEncodedLength || len(verifier) > maxEncodedLength {
		return fmt.Errorf("%w: must be between %d and %d characters", ErrInvalidCodeVerifier, minEncodedLength, maxEncodedLength)
	}
	if !isUnreserved(string(verifier)) {
		return fmt.Errorf("%w: contains characters outside [A-Za-z0-9-._~]", ErrInvalidCodeVerifier)
	}
	return nil
}

// Verify checks that verifier matches the challenge stored for method.
// Comparisons run in constant time.
func (g *Generator) Verify(ctx context.Context, method CodeMethodType, challenge Challenge, verifier Verifier) error {
	if challenge == "" || verifier == "" {
		return fmt.Errorf("%w: challenge and verifier are required", ErrInvalidCodeChallenge)
	}

	var computed string
	switch method {
	case CodeMethodS256:
		c, err := g.GenerateChallenge(ctx, verifier)
		if err != nil {
			return err
		}
		computed = string(c)
	case CodeMethodPlain:
		computed = string(verifier)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedMethod, method)
	}

	if subtle.ConstantTimeCompare([]byte(computed), []byte(challenge)) != 1 {
		return fmt.Errorf("%w: verifier does not match", ErrInvalidCodeChallenge)
	}
	return nil
}

// Verify checks a pair with the default Generator.
func Verify(ctx context.Context, method CodeMethodType, challenge Challenge, verifier Verifier) error {
	return defaultGenerator.Verify(ctx, method, challenge, verifier)
}
