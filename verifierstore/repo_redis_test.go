package verifierstore

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func setupRedisRepo(t *testing.T) (*RedisRepo, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	repo := NewRedisRepoFromClient(client)
	t.Cleanup(func() { _ = repo.Close() })
	return repo, mr
}

func newRedisEntry(ttl time.Duration) *Entry {
	now := time.Now().UTC()
	return &Entry{
		AttemptID: "attempt-1",
		Verifier:  "dBjftJeZ4CVP-mB92K27uhbUJU1p1r_wW1gFWFOEjXk",
		Challenge: "E9Melhoa2OwvFrEMTJguCHaoeK1t8URWbuGJSstw-cM",
		Method:    "S256",
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

func TestRedisEntryFields(t *testing.T) {
	now := time.Date(2026, 10, 19, 9, 0, 0, 123456789, time.UTC)
	r := &RedisRepo{now: func() time.Time { return now }}

	entry := &Entry{
		AttemptID: "attempt-1",
		Verifier:  "dBjftJeZ4CVP-mB92K27uhbUJU1p1r_wW1gFWFOEjXk",
		Challenge: "E9Melhoa2OwvFrEMTJguCHaoeK1t8URWbuGJSstw-cM",
		Method:    "S256",
		CreatedAt: now,
		ExpiresAt: now.Add(10 * time.Minute),
	}

	values := map[string]string{}
	for k, v := range entryFields(entry) {
		values[k] = v.(string)
	}

	got, err := r.entryFromFields(values)
	require.NoError(t, err)
	require.True(t, entry.CreatedAt.Equal(got.CreatedAt))
	require.True(t, entry.ExpiresAt.Equal(got.ExpiresAt))
	require.Equal(t, entry.Verifier, got.Verifier)
	require.Equal(t, entry.Method, got.Method)

	t.Run("missing hash", func(t *testing.T) {
		_, err := r.entryFromFields(map[string]string{})
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("expired hash", func(t *testing.T) {
		late := &RedisRepo{now: func() time.Time { return now.Add(time.Hour) }}
		_, err := late.entryFromFields(values)
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("corrupt timestamp", func(t *testing.T) {
		_, err := r.entryFromFields(map[string]string{"verifier": "x", "created_at": "yesterday"})
		require.Error(t, err)
	})
}

func TestNewRedisRepoInvalidURL(t *testing.T) {
	_, err := NewRedisRepo(context.Background(), "not-a-redis-url")
	require.Error(t, err)
}

func TestRedisRepo(t *testing.T) {
	ctx := context.Background()
	key := Key("sb-abcdefgh.supabase.co-auth-token-code-verifier", "attempt-1")

	t.Run("upsert and get", func(t *testing.T) {
		repo, mr := setupRedisRepo(t)
		entry := newRedisEntry(10 * time.Minute)
		require.NoError(t, repo.Upsert(ctx, key, entry))

		require.True(t, mr.Exists(key))
		require.Equal(t, string(entry.Verifier), mr.HGet(key, "verifier"))
		require.Greater(t, mr.TTL(key), 9*time.Minute)

		got, err := repo.Get(ctx, key)
		require.NoError(t, err)
		require.Equal(t, entry.AttemptID, got.AttemptID)
		require.Equal(t, entry.Verifier, got.Verifier)
		require.Equal(t, entry.Challenge, got.Challenge)
		require.True(t, entry.ExpiresAt.Equal(got.ExpiresAt))

		// Get does not consume the entry
		_, err = repo.Get(ctx, key)
		require.NoError(t, err)
	})

	t.Run("upsert replaces previous fields", func(t *testing.T) {
		repo, mr := setupRedisRepo(t)
		require.NoError(t, repo.Upsert(ctx, key, newRedisEntry(10*time.Minute)))

		replacement := newRedisEntry(time.Minute)
		replacement.Verifier = "M25iVXpKU3puUjFaYWg3T1NDTDQtcW1ROUY5YXlwalNoc0hhakxifmZHag"
		require.NoError(t, repo.Upsert(ctx, key, replacement))

		require.Equal(t, string(replacement.Verifier), mr.HGet(key, "verifier"))
		require.LessOrEqual(t, mr.TTL(key), time.Minute)
	})

	t.Run("take is single use", func(t *testing.T) {
		repo, mr := setupRedisRepo(t)
		entry := newRedisEntry(10 * time.Minute)
		require.NoError(t, repo.Upsert(ctx, key, entry))

		got, err := repo.Take(ctx, key)
		require.NoError(t, err)
		require.Equal(t, entry.Verifier, got.Verifier)
		require.False(t, mr.Exists(key))

		_, err = repo.Take(ctx, key)
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("expires with the entry", func(t *testing.T) {
		repo, mr := setupRedisRepo(t)
		require.NoError(t, repo.Upsert(ctx, key, newRedisEntry(10*time.Minute)))

		mr.FastForward(11 * time.Minute)

		_, err := repo.Get(ctx, key)
		require.ErrorIs(t, err, ErrNotFound)
		_, err = repo.Take(ctx, key)
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		repo, mr := setupRedisRepo(t)
		require.NoError(t, repo.Upsert(ctx, key, newRedisEntry(10*time.Minute)))

		require.NoError(t, repo.Delete(ctx, key))
		require.False(t, mr.Exists(key))
		_, err := repo.Get(ctx, key)
		require.ErrorIs(t, err, ErrNotFound)

		// Deleting a missing key is not an error
		require.NoError(t, repo.Delete(ctx, key))
	})

	t.Run("empty key", func(t *testing.T) {
		repo, _ := setupRedisRepo(t)
		require.Error(t, repo.Upsert(ctx, "", newRedisEntry(time.Minute)))
		_, err := repo.Take(ctx, "")
		require.Error(t, err)
	})
}
