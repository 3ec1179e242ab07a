package verifierstore

import (
	"context"
	"errors"
	"sync"
	"time"
)

var _ Repo = (*InMemoryRepo)(nil)

// InMemoryRepo is a thread-safe in-memory implementation of the Repo interface
type InMemoryRepo struct {
	mu      sync.RWMutex
	entries map[string]*Entry
	now     func() time.Time
}

// NewInMemoryRepo creates a new in-memory verifier repository
func NewInMemoryRepo() *InMemoryRepo {
	return &InMemoryRepo{
		entries: make(map[string]*Entry),
		now:     time.Now,
	}
}

// WithClock replaces the repository clock, for tests.
func (r *InMemoryRepo) WithClock(now func() time.Time) *InMemoryRepo {
	r.now = now
	return r
}

// Upsert stores or updates a verifier entry
func (r *InMemoryRepo) Upsert(_ context.Context, key string, entry *Entry) error {
	if key == "" {
		return errors.New("key cannot be empty")
	}
	if entry == nil {
		return errors.New("entry cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Store a copy to prevent external modifications
	stored := *entry
	r.entries[key] = &stored
	return nil
}

// Get retrieves a verifier entry by key
func (r *InMemoryRepo) Get(_ context.Context, key string) (*Entry, error) {
	if key == "" {
		return nil, errors.New("key cannot be empty")
	}

	r.mu.RLock()
	entry, exists := r.entries[key]
	r.mu.RUnlock()

	if !exists || entry.expired(r.now()) {
		return nil, ErrNotFound
	}

	found := *entry
	return &found, nil
}

// Take retrieves and removes a verifier entry. Expired entries are dropped.
func (r *InMemoryRepo) Take(_ context.Context, key string) (*Entry, error) {
	if key == "" {
		return nil, errors.New("key cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	entry, exists := r.entries[key]
	if !exists {
		return nil, ErrNotFound
	}
	delete(r.entries, key)
	if entry.expired(r.now()) {
		return nil, ErrNotFound
	}
	return entry, nil
}

// Delete removes a verifier entry
func (r *InMemoryRepo) Delete(_ context.Context, key string) error {
	if key == "" {
		return errors.New("key cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.entries, key)
	return nil
}

// Purge removes expired entries and returns how many were dropped.
func (r *InMemoryRepo) Purge() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	purged := 0
	for key, entry := range r.entries {
		if entry.expired(now) {
			delete(r.entries, key)
			purged++
		}
	}
	return purged
}
