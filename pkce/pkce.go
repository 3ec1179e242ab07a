// Package pkce generates and checks PKCE (Proof Key for Code Exchange, RFC 7636)
// verifier/challenge pairs for the authorization-code exchange used when the
// helpdesk connects a support inbox.
//
// The random source and the digest primitive are injected into a Generator so
// callers can swap in alternate implementations without touching process-wide
// state. Default returns a Generator backed by crypto/rand and crypto/sha256.
package pkce

import (
	"context"
	"crypto/rand"
	"fmt"
	"io"

	errs "github.com/jrsteele09/go-pkce-service/internal/errors"
)

const (
	// DefaultVerifierLength is the number of random bytes drawn for a verifier.
	DefaultVerifierLength = 56
	// MinVerifierLength is the smallest byte length whose encoding (43 chars)
	// meets the RFC 7636 verifier minimum. Shorter verifiers can be generated
	// but are rejected by ValidateVerifier.
	MinVerifierLength = 32
	// MaxVerifierLength is the largest byte length whose encoding (128 chars)
	// still fits the RFC 7636 verifier limit.
	MaxVerifierLength = 96
)

var (
	ErrCryptoUnavailable     = errs.ErrCryptoUnavailable
	ErrConfigurationMissing  = errs.ErrConfigurationMissing
	ErrInvalidVerifierLength = errs.ErrInvalidVerifierLength
	ErrInvalidCodeVerifier   = errs.ErrInvalidCodeVerifier
	ErrInvalidCodeChallenge  = errs.ErrInvalidCodeChallenge
	ErrUnsupportedMethod     = errs.ErrUnsupportedMethod
)

// Verifier is the secret generated by the client at the start of a handshake.
type Verifier string

// Challenge is the encoded SHA-256 digest of a Verifier.
type Challenge string

func (v Verifier) String() string  { return string(v) }
func (c Challenge) String() string { return string(c) }

// Generator produces verifiers and challenges from an injected random source
// and digest provider. A Generator holds no mutable state of its own and is
// safe for concurrent use when its random source is.
type Generator struct {
	random io.Reader
	digest Digester
}

// NewGenerator creates a Generator. Either dependency may be nil; the
// operation that needs it then fails with ErrCryptoUnavailable.
func NewGenerator(random io.Reader, digest Digester) *Generator {
	return &Generator{random: random, digest: digest}
}

var defaultGenerator = NewGenerator(rand.Reader, SHA256Digester{})

// Default returns the Generator backed by crypto/rand and crypto/sha256.
func Default() *Generator {
	return defaultGenerator
}

// GenerateVerifier draws length random bytes and returns their URL-safe
// base64 encoding. Lengths outside 1..MaxVerifierLength are rejected.
func (g *Generator) GenerateVerifier(length int) (Verifier, error) {
	if length <= 0 || length > MaxVerifierLength {
		return "", fmt.Errorf("%w: %d (must be between 1 and %d)", ErrInvalidVerifierLength, length, MaxVerifierLength)
	}
	if g.random == nil {
		return "", fmt.Errorf("%w: no secure random source", ErrCryptoUnavailable)
	}

	b := make([]byte, length)
	if _, err := io.ReadFull(g.random, b); err != nil {
		return "", fmt.Errorf("%w: reading random source: %w", ErrCryptoUnavailable, err)
	}
	return Verifier(EncodeURLSafeBase64(b)), nil
}

// GenerateChallenge derives the S256 challenge for verifier. The result is a
// pure function of the verifier text.
func (g *Generator) GenerateChallenge(ctx context.Context, verifier Verifier) (Challenge, error) {
	if g.digest == nil {
		return "", fmt.Errorf("%w: no digest provider", ErrCryptoUnavailable)
	}

	sum, err := g.digest.Digest(ctx, []byte(verifier))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrCryptoUnavailable, err)
	}
	if len(sum) != sha256Size {
		return "", fmt.Errorf("%w: digest returned %d bytes, want %d", ErrCryptoUnavailable, len(sum), sha256Size)
	}
	return Challenge(EncodeURLSafeBase64(sum)), nil
}

// Pair is a verifier together with the challenge sent up front.
type Pair struct {
	Verifier  Verifier
	Challenge Challenge
	Method    CodeMethodType
}

// NewPair generates a fresh verifier of length bytes and its S256 challenge.
func (g *Generator) NewPair(ctx context.Context, length int) (Pair, error) {
	verifier, err := g.GenerateVerifier(length)
	if err != nil {
		return Pair{}, err
	}
	challenge, err := g.GenerateChallenge(ctx, verifier)
	if err != nil {
		return Pair{}, err
	}
	return Pair{Verifier: verifier, Challenge: challenge, Method: CodeMethodS256}, nil
}

// GenerateVerifier generates a verifier with the default Generator.
func GenerateVerifier(length int) (Verifier, error) {
	return defaultGenerator.GenerateVerifier(length)
}

// GenerateChallenge derives a challenge with the default Generator.
func GenerateChallenge(ctx context.Context, verifier Verifier) (Challenge, error) {
	return defaultGenerator.GenerateChallenge(ctx, verifier)
}

// NewPair generates a verifier/challenge pair with the default Generator.
func NewPair(ctx context.Context, length int) (Pair, error) {
	return defaultGenerator.NewPair(ctx, length)
}
