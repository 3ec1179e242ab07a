package pkce

import (
	"fmt"
	"net/url"
	"strings"
)

// DeriveStorageKey builds the key under which a verifier is kept for the
// backend instance at baseEndpoint, e.g. "https://abc.supabase.co" becomes
// "sb-abc.supabase.co-auth-token-code-verifier".
func DeriveStorageKey(baseEndpoint string) (string, error) {
	baseEndpoint = strings.TrimSpace(baseEndpoint)
	if baseEndpoint == "" {
		return "", fmt.Errorf("%w: backend endpoint is not set", ErrConfigurationMissing)
	}

	if !strings.Contains(baseEndpoint, "//") {
		baseEndpoint = "//" + baseEndpoint
	}
	u, err := url.Parse(baseEndpoint)
	if err != nil {
		return "", fmt.Errorf("%w: backend endpoint %q: %w", ErrConfigurationMissing, baseEndpoint, err)
	}
	if u.Host == "" {
		return "", fmt.Errorf("%w: backend endpoint %q has no host", ErrConfigurationMissing, baseEndpoint)
	}
	return fmt.Sprintf("sb-%s-auth-token-code-verifier", u.Host), nil
}
