package pkce

import (
	"encoding/base64"
	"strings"
)

var urlSafeReplacer = strings.NewReplacer("+", "-", "/", "_")

// EncodeURLSafeBase64 encodes b with the standard base64 alphabet and then
// maps it to the URL-safe form: '+' becomes '-', '/' becomes '_' and the
// trailing '=' padding is dropped. The output matches base64.RawURLEncoding.
func EncodeURLSafeBase64(b []byte) string {
	encoded := base64.StdEncoding.EncodeToString(b)
	return strings.TrimRight(urlSafeReplacer.Replace(encoded), "=")
}

// isUnreserved reports whether s only uses the RFC 7636 unreserved set
// [A-Za-z0-9-._~].
func isUnreserved(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z', c >= '0' && c <= '9':
		case c == '-', c == '.', c == '_', c == '~':
		default:
			return false
		}
	}
	return true
}
