package httpx

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/reqflow/approvals-ui-api/internal/domain/purchase"
	"github.com/reqflow/approvals-ui-api/internal/service"
)

// PurchaseHandlers provides HTTP handlers for the purchase-request lifecycle.
type PurchaseHandlers struct {
	Svc    *service.PurchaseService
	Logger *slog.Logger
}

// ListMine returns the caller's own requests, pending first.
// GET /api/purchases/mine.
func (h *PurchaseHandlers) ListMine(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, service.ScopeMine)
}

// ListAssigned returns the requests awaiting the manager's decision.
// GET /api/purchases/assigned.
func (h *PurchaseHandlers) ListAssigned(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, service.ScopeAssigned)
}

func (h *PurchaseHandlers) list(w http.ResponseWriter, r *http.Request, scope service.Scope) {
	rs, ok := GetSessionFromContext(r.Context())
	if !ok {
		writeMissingSession(w)
		return
	}

	items, err := h.Svc.List(r.Context(), service.ListInput{
		Session: rs.Store,
		Creds:   rs.Creds,
		Scope:   scope,
	})
	if err != nil {
		WriteAppError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"requests": items})
}

// Submit creates a new request and returns the re-synced collection so the
// caller sees the authoritative record, not a local echo.
// POST /api/purchases.
func (h *PurchaseHandlers) Submit(w http.ResponseWriter, r *http.Request) {
	rs, ok := GetSessionFromContext(r.Context())
	if !ok {
		writeMissingSession(w)
		return
	}

	var draft purchase.Draft
	if !DecodeJSON(w, r, &draft) {
		return
	}

	if err := h.Svc.Submit(r.Context(), service.SubmitInput{
		Session: rs.Store,
		Creds:   rs.Creds,
		Draft:   draft,
	}); err != nil {
		WriteAppError(w, r, err)
		return
	}

	items, err := h.Svc.List(r.Context(), service.ListInput{
		Session: rs.Store,
		Creds:   rs.Creds,
		Scope:   service.ScopeMine,
	})
	if err != nil {
		// The submission itself succeeded; report the refresh failure.
		WriteAppError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusCreated, map[string]any{"requests": items})
}

// Approve moves a pending request to approved.
// POST /api/purchases/{id}/approve.
func (h *PurchaseHandlers) Approve(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, decideApprove)
}

// Reject moves a pending request to rejected; the reason is mandatory.
// POST /api/purchases/{id}/reject with body {"reason": "..."}.
func (h *PurchaseHandlers) Reject(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, decideReject)
}

type decideKind int

const (
	decideApprove decideKind = iota
	decideReject
)

func (h *PurchaseHandlers) decide(w http.ResponseWriter, r *http.Request, kind decideKind) {
	rs, ok := GetSessionFromContext(r.Context())
	if !ok {
		writeMissingSession(w)
		return
	}

	in := service.DecideInput{
		Session: rs.Store,
		Creds:   rs.Creds,
		ID:      r.PathValue("id"),
	}

	var err error
	switch kind {
	case decideApprove:
		err = h.Svc.Approve(r.Context(), in)
	case decideReject:
		var body struct {
			Reason string `json:"reason"`
		}
		if !DecodeJSON(w, r, &body) {
			return
		}
		in.Reason = body.Reason
		err = h.Svc.Reject(r.Context(), in)
	}
	if err != nil {
		WriteAppError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"requests": rs.Store.Requests().Items(),
	})
}

func writeMissingSession(w http.ResponseWriter) {
	WriteError(w, ErrorParams{
		Code:    http.StatusInternalServerError,
		ErrCode: "session_middleware_missing",
		Err:     errors.New("session middleware not installed"),
	})
}
