package service

import (
	"sync"

	"github.com/reqflow/approvals-ui-api/internal/domain/purchase"
)

// Scope names which request collection a view currently holds.
type Scope string

const (
	// ScopeMine is the collection of requests the user submitted.
	ScopeMine Scope = "mine"
	// ScopeAssigned is the collection awaiting the manager's decision.
	ScopeAssigned Scope = "assigned"
)

// RequestView is a session's local copy of one request collection. Each
// fetch runs under a generation number taken at fetch start; a fetch whose
// generation is no longer current completes into the void instead of
// overwriting newer state. Approve/reject patch items in place rather than
// re-fetching.
type RequestView struct {
	mu     sync.Mutex
	gen    uint64
	scope  Scope
	items  []purchase.Request
	loaded bool
}

// Begin records that a fetch for scope is starting and returns the
// generation the fetch must present to Apply. Switching scope drops the
// previous collection immediately so stale rows never bleed across scopes.
func (v *RequestView) Begin(scope Scope) uint64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	if scope != v.scope {
		v.scope = scope
		v.items = nil
		v.loaded = false
	}
	v.gen++
	return v.gen
}

// Apply installs fetched items if gen is still current. Returns false when
// the fetch was superseded, in which case items are discarded untouched.
func (v *RequestView) Apply(gen uint64, items []purchase.Request) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if gen != v.gen {
		return false
	}
	v.items = append([]purchase.Request(nil), items...)
	purchase.SortPendingFirst(v.items)
	v.loaded = true
	return true
}

// Patch applies fn to the item with the given ID and re-sorts. Returns
// false when the item is not in the view.
func (v *RequestView) Patch(id string, fn func(*purchase.Request)) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	for i := range v.items {
		if v.items[i].ID == id {
			fn(&v.items[i])
			purchase.SortPendingFirst(v.items)
			return true
		}
	}
	return false
}

// Find returns a copy of the item with the given ID.
func (v *RequestView) Find(id string) (purchase.Request, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	for i := range v.items {
		if v.items[i].ID == id {
			return v.items[i], true
		}
	}
	return purchase.Request{}, false
}

// Items returns a copy of the current collection in display order.
func (v *RequestView) Items() []purchase.Request {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]purchase.Request(nil), v.items...)
}

// Loaded reports whether the view holds a completed fetch for its scope.
func (v *RequestView) Loaded() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.loaded
}

// Scope returns the collection the view currently tracks.
func (v *RequestView) Scope() Scope {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.scope
}

// Invalidate drops the collection and bumps the generation so any in-flight
// fetch lands stale. Called on logout and after submissions that require a
// full re-sync.
func (v *RequestView) Invalidate() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.gen++
	v.scope = ""
	v.items = nil
	v.loaded = false
}
