package pkce_test

import (
	"context"
	"crypto/rand"
	"testing"

	"github.com/jrsteele09/go-pkce-service/pkce"
	"github.com/stretchr/testify/require"
)

func TestNewRandomSource(t *testing.T) {
	t.Run("crypto by default", func(t *testing.T) {
		for _, name := range []string{"", pkce.RandomSourceCrypto} {
			r, err := pkce.NewRandomSource(name)
			require.NoError(t, err)
			require.Equal(t, rand.Reader, r)
		}
	})

	t.Run("chacha", func(t *testing.T) {
		r, err := pkce.NewRandomSource(pkce.RandomSourceChaCha)
		require.NoError(t, err)
		require.IsType(t, &pkce.ChaChaSource{}, r)
	})

	t.Run("unknown", func(t *testing.T) {
		_, err := pkce.NewRandomSource("dice")
		require.Error(t, err)
	})
}

func TestNewGeneratorFromSource(t *testing.T) {
	g, err := pkce.NewGeneratorFromSource(pkce.RandomSourceChaCha)
	require.NoError(t, err)

	pair, err := g.NewPair(context.Background(), pkce.MinVerifierLength)
	require.NoError(t, err)
	require.NoError(t, pkce.ValidateVerifier(pair.Verifier))
	require.NoError(t, g.Verify(context.Background(), pkce.CodeMethodS256, pair.Challenge, pair.Verifier))
}
