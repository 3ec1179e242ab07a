package pkce

import (
	"context"
	"crypto/sha256"
)

const sha256Size = sha256.Size

// Digester computes the SHA-256 digest of data. Implementations backed by an
// external service should honour ctx.
type Digester interface {
	Digest(ctx context.Context, data []byte) ([]byte, error)
}

// DigesterFunc adapts a function to the Digester interface.
type DigesterFunc func(ctx context.Context, data []byte) ([]byte, error)

func (f DigesterFunc) Digest(ctx context.Context, data []byte) ([]byte, error) {
	return f(ctx, data)
}

// SHA256Digester is the in-process Digester backed by crypto/sha256.
type SHA256Digester struct{}

func (SHA256Digester) Digest(ctx context.Context, data []byte) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	sum := sha256.Sum256(data)
	return sum[:], nil
}
