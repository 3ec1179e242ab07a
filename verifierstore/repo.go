// Package verifierstore keeps PKCE verifiers for the lifetime of a single
// authorization handshake.
package verifierstore

import (
	"context"
	"time"

	errs "github.com/jrsteele09/go-pkce-service/internal/errors"
	"github.com/jrsteele09/go-pkce-service/pkce"
)

// ErrNotFound is returned for unknown, redeemed or expired entries.
var ErrNotFound = errs.ErrNotFound

// Entry is the verifier state held between the authorization redirect and the
// token exchange.
type Entry struct {
	AttemptID string
	Verifier  pkce.Verifier
	Challenge pkce.Challenge
	Method    pkce.CodeMethodType
	CreatedAt time.Time
	ExpiresAt time.Time
}

func (e *Entry) expired(now time.Time) bool {
	return !e.ExpiresAt.IsZero() && !now.Before(e.ExpiresAt)
}

type Repo interface {
	Upsert(ctx context.Context, key string, entry *Entry) error
	Get(ctx context.Context, key string) (*Entry, error)
	// Take returns the entry and removes it, so a verifier is redeemed once.
	Take(ctx context.Context, key string) (*Entry, error)
	Delete(ctx context.Context, key string) error
}

// Key namespaces an attempt id under the backend's verifier storage key.
func Key(storageKey, attemptID string) string {
	return storageKey + ":" + attemptID
}
