package verifierstore_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jrsteele09/go-pkce-service/pkce"
	"github.com/jrsteele09/go-pkce-service/verifierstore"
	"github.com/stretchr/testify/require"
)

const (
	testStorageKey = "sb-abcdefgh.supabase.co-auth-token-code-verifier"
	testAttemptID  = "attempt-1"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newEntry(t *testing.T, createdAt time.Time, ttl time.Duration) *verifierstore.Entry {
	t.Helper()
	pair, err := pkce.NewPair(context.Background(), pkce.DefaultVerifierLength)
	require.NoError(t, err)
	return &verifierstore.Entry{
		AttemptID: testAttemptID,
		Verifier:  pair.Verifier,
		Challenge: pair.Challenge,
		Method:    pair.Method,
		CreatedAt: createdAt,
		ExpiresAt: createdAt.Add(ttl),
	}
}

func TestInMemoryRepo(t *testing.T) {
	ctx := context.Background()
	key := verifierstore.Key(testStorageKey, testAttemptID)

	t.Run("upsert and get", func(t *testing.T) {
		clock := &fakeClock{now: time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)}
		repo := verifierstore.NewInMemoryRepo().WithClock(clock.Now)
		entry := newEntry(t, clock.Now(), 10*time.Minute)

		require.NoError(t, repo.Upsert(ctx, key, entry))

		got, err := repo.Get(ctx, key)
		require.NoError(t, err)
		require.Equal(t, entry, got)

		// Stored copy is isolated from caller mutations
		entry.Verifier = "mutated"
		got, err = repo.Get(ctx, key)
		require.NoError(t, err)
		require.NotEqual(t, pkce.Verifier("mutated"), got.Verifier)
	})

	t.Run("take is single use", func(t *testing.T) {
		repo := verifierstore.NewInMemoryRepo()
		entry := newEntry(t, time.Now(), 10*time.Minute)
		require.NoError(t, repo.Upsert(ctx, key, entry))

		got, err := repo.Take(ctx, key)
		require.NoError(t, err)
		require.Equal(t, entry.Verifier, got.Verifier)

		_, err = repo.Take(ctx, key)
		require.ErrorIs(t, err, verifierstore.ErrNotFound)
		_, err = repo.Get(ctx, key)
		require.ErrorIs(t, err, verifierstore.ErrNotFound)
	})

	t.Run("expired entries are not returned", func(t *testing.T) {
		clock := &fakeClock{now: time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)}
		repo := verifierstore.NewInMemoryRepo().WithClock(clock.Now)
		require.NoError(t, repo.Upsert(ctx, key, newEntry(t, clock.Now(), time.Minute)))

		clock.Advance(time.Minute)

		_, err := repo.Get(ctx, key)
		require.ErrorIs(t, err, verifierstore.ErrNotFound)
		_, err = repo.Take(ctx, key)
		require.ErrorIs(t, err, verifierstore.ErrNotFound)
	})

	t.Run("purge", func(t *testing.T) {
		clock := &fakeClock{now: time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)}
		repo := verifierstore.NewInMemoryRepo().WithClock(clock.Now)
		require.NoError(t, repo.Upsert(ctx, "short", newEntry(t, clock.Now(), time.Minute)))
		require.NoError(t, repo.Upsert(ctx, "long", newEntry(t, clock.Now(), time.Hour)))

		clock.Advance(2 * time.Minute)
		require.Equal(t, 1, repo.Purge())

		_, err := repo.Get(ctx, "long")
		require.NoError(t, err)
	})

	t.Run("delete", func(t *testing.T) {
		repo := verifierstore.NewInMemoryRepo()
		require.NoError(t, repo.Upsert(ctx, key, newEntry(t, time.Now(), time.Minute)))
		require.NoError(t, repo.Delete(ctx, key))
		_, err := repo.Get(ctx, key)
		require.ErrorIs(t, err, verifierstore.ErrNotFound)
	})

	t.Run("invalid arguments", func(t *testing.T) {
		repo := verifierstore.NewInMemoryRepo()
		require.Error(t, repo.Upsert(ctx, "", newEntry(t, time.Now(), time.Minute)))
		require.Error(t, repo.Upsert(ctx, key, nil))
		_, err := repo.Get(ctx, "")
		require.Error(t, err)
		_, err = repo.Take(ctx, "")
		require.Error(t, err)
		require.Error(t, repo.Delete(ctx, ""))
	})
}

func TestKey(t *testing.T) {
	require.Equal(t, testStorageKey+":"+testAttemptID, verifierstore.Key(testStorageKey, testAttemptID))
}
