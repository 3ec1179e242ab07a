package pkce

import (
	"crypto/rand"
	"fmt"
	"io"
)

// Random source names accepted by NewRandomSource.
const (
	RandomSourceCrypto = "crypto"
	RandomSourceChaCha = "chacha"
)

// NewRandomSource returns the named random source. "crypto" (or empty) is
// crypto/rand; "chacha" is a ChaChaSource seeded once from crypto/rand.
func NewRandomSource(name string) (io.Reader, error) {
	switch name {
	case "", RandomSourceCrypto:
		return rand.Reader, nil
	case RandomSourceChaCha:
		return NewSeededChaChaSource(rand.Reader)
	}
	return nil, fmt.Errorf("unknown random source %q (want %q or %q)", name, RandomSourceCrypto, RandomSourceChaCha)
}

// NewGeneratorFromSource builds a SHA-256 Generator drawing from the named
// random source.
func NewGeneratorFromSource(name string) (*Generator, error) {
	random, err := NewRandomSource(name)
	if err != nil {
		return nil, err
	}
	return NewGenerator(random, SHA256Digester{}), nil
}
