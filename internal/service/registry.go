package service

import (
	"context"
	"log/slog"
	"sync"
)

// SessionRegistry maps browser-session identifiers to their SessionStore.
// Stores are created lazily on first sight of a session and seeded from the
// identity mirror so a returning browser has something to paint immediately.
type SessionRegistry struct {
	opts SessionRegistryOptions

	mu     sync.Mutex
	stores map[string]*SessionStore
}

// SessionRegistryOptions groups construction parameters for SessionRegistry.
type SessionRegistryOptions struct {
	Store  SessionStoreOptions
	Logger *slog.Logger
}

// NewSessionRegistry creates an empty registry.
func NewSessionRegistry(opts SessionRegistryOptions) *SessionRegistry {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Store.Logger == nil {
		opts.Store.Logger = opts.Logger
	}
	return &SessionRegistry{
		opts:   opts,
		stores: make(map[string]*SessionStore),
	}
}

// Get returns the store for key, creating and mirror-seeding it on first
// use. The double-checked pattern keeps the mirror read out of the lock.
func (r *SessionRegistry) Get(ctx context.Context, key string) *SessionStore {
	r.mu.Lock()
	store, ok := r.stores[key]
	r.mu.Unlock()
	if ok {
		return store
	}

	fresh := NewSessionStore(key, r.opts.Store)
	fresh.Seed(ctx)

	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, raced := r.stores[key]; raced {
		return existing
	}
	r.stores[key] = fresh
	return fresh
}

// Drop forgets the store for key. Used when a session ends so the registry
// does not accumulate dead entries.
func (r *SessionRegistry) Drop(key string) {
	r.mu.Lock()
	delete(r.stores, key)
	r.mu.Unlock()
}

// Len reports how many live sessions the registry tracks.
func (r *SessionRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.stores)
}
