package config

import (
	"strings"
	"time"

	"github.com/jrsteele09/go-pkce-service/pkce"
)

const (
	verifierLengthVar = "PKCE_VERIFIER_LENGTH"
	verifierTTLVar    = "PKCE_VERIFIER_TTL"
	allowPlainVar     = "PKCE_ALLOW_PLAIN"
	randomSourceVar   = "PKCE_RANDOM_SOURCE"

	defaultVerifierLength = 56
	defaultVerifierTTL    = 10 * time.Minute
)

type PKCEConfig interface {
	GetVerifierLength() int
	GetVerifierTTL() time.Duration
	GetAllowPlainMethod() bool
	GetRandomSource() string
}

type PKCE struct{}

var _ PKCEConfig = PKCE{}

// GetVerifierLength is the number of random bytes per verifier.
func (PKCE) GetVerifierLength() int {
	n, _ := lookupInt(verifierLengthVar, defaultVerifierLength)
	return n
}

// GetVerifierTTL bounds how long a stored verifier can be redeemed.
func (PKCE) GetVerifierTTL() time.Duration {
	d, _ := lookupDuration(verifierTTLVar, defaultVerifierTTL)
	return d
}

func (PKCE) GetAllowPlainMethod() bool {
	allow, _ := lookupBool(allowPlainVar, false)
	return allow
}

// GetRandomSource names the verifier random source: "crypto" or "chacha".
func (PKCE) GetRandomSource() string {
	return strings.ToLower(GetEnv(randomSourceVar, pkce.RandomSourceCrypto))
}
