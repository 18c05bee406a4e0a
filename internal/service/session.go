package service

// Package service orchestrates the gateway's session and purchase-request
// state. The SessionStore owns the per-browser authentication state machine;
// adapters stay stateless and are handed Credentials per call.

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	domainauth "github.com/reqflow/approvals-ui-api/internal/domain/auth"
	apperrors "github.com/reqflow/approvals-ui-api/internal/errors"
	"github.com/reqflow/approvals-ui-api/internal/ports"
)

// SessionStore holds the authentication state of one browser session. It is
// the single writer of identity state; everything else reads snapshots.
//
// Loading is true from construction until the first status check (or an
// explicit identity mutation) resolves, and never becomes true again.
type SessionStore struct {
	backend ports.AuthBackend
	mirror  ports.IdentityMirror
	logger  *slog.Logger
	key     string

	mu       sync.Mutex
	identity *domainauth.Identity
	loading  bool
	checking bool
	checked  bool

	subs    map[int]chan domainauth.Session
	nextSub int

	requests RequestView
}

// SessionStoreOptions groups construction parameters for SessionStore.
type SessionStoreOptions struct {
	Backend ports.AuthBackend
	Mirror  ports.IdentityMirror
	Logger  *slog.Logger
}

// NewSessionStore creates a store for the browser session identified by key.
// The store starts in the loading state; call Seed to paint the last known
// identity and CheckStatus to resolve against the backend.
func NewSessionStore(key string, opts SessionStoreOptions) *SessionStore {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionStore{
		backend: opts.Backend,
		mirror:  opts.Mirror,
		logger:  logger.With("session", key),
		key:     key,
		loading: true,
		subs:    make(map[int]chan domainauth.Session),
	}
}

// Key returns the browser-session identifier this store serves.
func (s *SessionStore) Key() string { return s.key }

// Requests returns this session's purchase-request view.
func (s *SessionStore) Requests() *RequestView { return &s.requests }

// Seed paints the last known identity from the mirror without resolving the
// loading state. A mirror miss is normal for first-time visitors; mirror
// failures are logged and treated as a miss.
func (s *SessionStore) Seed(ctx context.Context) {
	identity, err := s.mirror.Load(ctx, s.key)
	if err != nil {
		if !errors.Is(err, ports.ErrMirrorMiss) {
			s.logger.WarnContext(ctx, "identity mirror load failed", "error", err)
		}
		return
	}

	s.mu.Lock()
	if !s.checked && s.identity == nil {
		s.identity = &identity
	}
	s.mu.Unlock()
}

// Snapshot returns a copy of the current session state.
func (s *SessionStore) Snapshot() domainauth.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *SessionStore) snapshotLocked() domainauth.Session {
	snap := domainauth.Session{Loading: s.loading}
	if s.identity != nil {
		identity := *s.identity
		snap.Identity = &identity
	}
	return snap
}

// Subscribe registers for session snapshots emitted after every state
// change. The returned cancel func must be called to release the channel.
// Slow subscribers miss intermediate snapshots rather than blocking writers.
func (s *SessionStore) Subscribe() (<-chan domainauth.Session, func()) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	ch := make(chan domainauth.Session, 8)
	s.subs[id] = ch
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		if sub, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(sub)
		}
		s.mu.Unlock()
	}
	return ch, cancel
}

func (s *SessionStore) notify(snap domainauth.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- snap:
		default:
		}
	}
}

// Checked reports whether the initial status check has resolved.
func (s *SessionStore) Checked() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.checked
}

// CheckStatus resolves the session against the auth backend. Only the first
// call per store performs the check; concurrent and subsequent calls return
// immediately and observe the outcome through snapshots.
//
// Every branch ends with loading=false: success, unauthenticated, backend
// failure, even a panic below unwinds through the deferred finalizer.
func (s *SessionStore) CheckStatus(ctx context.Context, creds ports.Credentials) {
	s.mu.Lock()
	if s.checking || s.checked {
		s.mu.Unlock()
		return
	}
	s.checking = true
	s.mu.Unlock()

	defer s.finishCheck()

	status, err := s.backend.Status(ctx, creds)
	if err != nil {
		s.logger.WarnContext(ctx, "auth status check failed", "error", err)
		s.setIdentity(ctx, nil)
		return
	}
	if !status.Authenticated || status.Identity == nil {
		s.setIdentity(ctx, nil)
		return
	}
	s.setIdentity(ctx, status.Identity)
}

// finishCheck resolves the loading state exactly once.
func (s *SessionStore) finishCheck() {
	s.mu.Lock()
	s.checking = false
	s.checked = true
	s.loading = false
	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.notify(snap)
}

// setIdentity replaces the session identity and synchronizes the mirror.
// Passing nil clears both. Mirror failures are logged, never propagated;
// the in-memory state is authoritative for this process.
func (s *SessionStore) setIdentity(ctx context.Context, identity *domainauth.Identity) {
	s.mu.Lock()
	if identity == nil {
		s.identity = nil
	} else {
		cp := *identity
		s.identity = &cp
	}
	snap := s.snapshotLocked()
	s.mu.Unlock()

	if identity == nil {
		if err := s.mirror.Clear(ctx, s.key); err != nil {
			s.logger.WarnContext(ctx, "identity mirror clear failed", "error", err)
		}
	} else {
		if err := s.mirror.Save(ctx, s.key, *identity); err != nil {
			s.logger.WarnContext(ctx, "identity mirror save failed", "error", err)
		}
	}
	s.notify(snap)
}

// resolveLoading marks the session resolved outside the initial check path,
// for mutations (ingest, logout) that settle the session on their own.
func (s *SessionStore) resolveLoading() {
	s.mu.Lock()
	if s.checked {
		s.mu.Unlock()
		return
	}
	s.checked = true
	s.loading = false
	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.notify(snap)
}

// Ingest installs an identity extracted from a post-login return payload and
// returns where the browser should land next. A payload that cannot be
// parsed clears the session and sends the browser back to login; the parse
// error is logged, not surfaced.
func (s *SessionStore) Ingest(ctx context.Context, extractor *IdentityExtractor, payload string) domainauth.Decision {
	identity, err := extractor.Extract(payload)
	if err != nil {
		s.logger.WarnContext(ctx, "identity payload rejected", "error", err)
		s.setIdentity(ctx, nil)
		s.resolveLoading()
		return domainauth.Goto(domainauth.PathLogin)
	}

	s.setIdentity(ctx, &identity)
	s.resolveLoading()
	return domainauth.Resolve(&identity, domainauth.PathLogin)
}

// Establish installs an identity produced by a completed login flow (the
// direct-OIDC callback) and returns the follow-up navigation.
func (s *SessionStore) Establish(ctx context.Context, identity domainauth.Identity) domainauth.Decision {
	s.setIdentity(ctx, &identity)
	s.resolveLoading()
	return domainauth.Resolve(&identity, domainauth.PathLogin)
}

// SetRole asks the backend to assign the chosen role, then merges only the
// role into the current identity. On failure the local state is untouched.
func (s *SessionStore) SetRole(ctx context.Context, creds ports.Credentials, role domainauth.Role) (domainauth.Session, error) {
	if role != domainauth.RoleUser && role != domainauth.RoleManager {
		return s.Snapshot(), apperrors.ValidationField("role", "role must be user or manager")
	}

	updated, err := s.backend.SetRole(ctx, creds, role)
	if err != nil {
		if apperrors.IsUnauthorized(err) {
			s.Clear(ctx, creds)
		}
		return s.Snapshot(), err
	}

	merged := updated
	if current := s.Identity(); current != nil {
		merged = current.WithRole(updated.Role)
	}
	s.setIdentity(ctx, &merged)
	return s.Snapshot(), nil
}

// Clear ends the session: backend logout is best effort, local identity and
// mirror are cleared unconditionally.
func (s *SessionStore) Clear(ctx context.Context, creds ports.Credentials) {
	if err := s.backend.Logout(ctx, creds); err != nil {
		s.logger.WarnContext(ctx, "backend logout failed", "error", err)
	}
	s.setIdentity(ctx, nil)
	s.resolveLoading()
	s.requests.Invalidate()
}

// Identity returns a copy of the current identity, or nil.
func (s *SessionStore) Identity() *domainauth.Identity {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.identity == nil {
		return nil
	}
	cp := *s.identity
	return &cp
}
