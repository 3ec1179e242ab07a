package pkce

import (
	"fmt"
	"io"
	"sync"

	"golang.org/x/crypto/chacha20"
)

// SeedSize is the seed length accepted by NewChaChaSource.
const SeedSize = chacha20.KeySize

// ChaChaSource is a software random source that emits the ChaCha20 keystream
// for a 32-byte seed. It can stand in for crypto/rand in a Generator, e.g. to
// stretch a hardware seed or to make tests reproducible.
type ChaChaSource struct {
	mu     sync.Mutex
	cipher *chacha20.Cipher
}

// NewChaChaSource creates a source from seed, which must be SeedSize bytes.
func NewChaChaSource(seed []byte) (*ChaChaSource, error) {
	if len(seed) != SeedSize {
		return nil, fmt.Errorf("chacha seed must be %d bytes, got %d", SeedSize, len(seed))
	}
	nonce := make([]byte, chacha20.NonceSize)
	c, err := chacha20.NewUnauthenticatedCipher(seed, nonce)
	if err != nil {
		return nil, fmt.Errorf("chacha20.NewUnauthenticatedCipher: %w", err)
	}
	return &ChaChaSource{cipher: c}, nil
}

// NewSeededChaChaSource reads a seed from r and creates a source from it.
func NewSeededChaChaSource(r io.Reader) (*ChaChaSource, error) {
	seed := make([]byte, SeedSize)
	if _, err := io.ReadFull(r, seed); err != nil {
		return nil, fmt.Errorf("%w: reading chacha seed: %w", ErrCryptoUnavailable, err)
	}
	return NewChaChaSource(seed)
}

func (s *ChaChaSource) Read(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(p)
	s.cipher.XORKeyStream(p, p)
	return len(p), nil
}
