package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	domainauth "github.com/reqflow/approvals-ui-api/internal/domain/auth"
	"github.com/reqflow/approvals-ui-api/internal/domain/purchase"
	apperrors "github.com/reqflow/approvals-ui-api/internal/errors"
	"github.com/reqflow/approvals-ui-api/internal/ports"
)

// ErrStaleFetch is returned when a list completed after its view moved on
// (scope switch, newer fetch, or logout). The fetched data was discarded;
// callers treat it as a no-op, not a failure.
var ErrStaleFetch = errors.New("fetch superseded by newer view state")

// PurchaseService drives the purchase-request lifecycle against the backend
// and keeps each session's RequestView in sync. Any unauthorized answer from
// the backend clears the session; the caller then redirects to login.
type PurchaseService struct {
	backend ports.PurchaseBackend
	logger  *slog.Logger
}

// PurchaseServiceOptions groups construction parameters for PurchaseService.
type PurchaseServiceOptions struct {
	Backend ports.PurchaseBackend
	Logger  *slog.Logger
}

// NewPurchaseService creates a purchase lifecycle service.
func NewPurchaseService(opts PurchaseServiceOptions) *PurchaseService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &PurchaseService{backend: opts.Backend, logger: logger}
}

// ListInput groups parameters for List.
type ListInput struct {
	Session *SessionStore
	Creds   ports.Credentials
	Scope   Scope
}

// List fetches the collection for the scope and installs it in the session's
// view. The returned slice is the view's display order (pending first).
// Returns ErrStaleFetch when the fetch was superseded while in flight.
func (p *PurchaseService) List(ctx context.Context, in ListInput) ([]purchase.Request, error) {
	identity, err := p.requireIdentity(in.Session)
	if err != nil {
		return nil, err
	}

	view := in.Session.Requests()
	gen := view.Begin(in.Scope)

	var items []purchase.Request
	switch in.Scope {
	case ScopeMine:
		items, err = p.backend.ListMine(ctx, in.Creds, identity.ID)
	case ScopeAssigned:
		items, err = p.backend.ListAssigned(ctx, in.Creds)
	default:
		return nil, apperrors.Validation("unknown request scope")
	}
	if err != nil {
		return nil, p.mapBackendError(ctx, in.Session, in.Creds, err)
	}

	if !view.Apply(gen, items) {
		return nil, ErrStaleFetch
	}
	return view.Items(), nil
}

// SubmitInput groups parameters for Submit.
type SubmitInput struct {
	Session *SessionStore
	Creds   ports.Credentials
	Draft   purchase.Draft
}

// Submit validates a draft, prefills sender fields from the session
// identity, and posts it. On success the view is invalidated so the next
// list re-syncs the full collection including the new request.
func (p *PurchaseService) Submit(ctx context.Context, in SubmitInput) error {
	identity, err := p.requireIdentity(in.Session)
	if err != nil {
		return err
	}

	draft := in.Draft
	if draft.UserID == "" {
		draft.UserID = identity.ID
	}
	if draft.SenderEmail == "" {
		draft.SenderEmail = identity.Email
	}
	if strings.TrimSpace(draft.Description) == "" {
		draft.Description = "New Purchase Request"
	}

	if validateErr := draft.Validate(); validateErr != nil {
		return validateErr
	}

	if submitErr := p.backend.Submit(ctx, in.Creds, draft); submitErr != nil {
		return p.mapBackendError(ctx, in.Session, in.Creds, submitErr)
	}

	in.Session.Requests().Invalidate()
	return nil
}

// DecideInput groups parameters for Approve and Reject.
type DecideInput struct {
	Session *SessionStore
	Creds   ports.Credentials
	ID      string
	// Reason is required for Reject, ignored by Approve.
	Reason string
}

// Approve moves a pending request to approved and patches the session view
// in place, keeping pending-first order without a re-fetch.
func (p *PurchaseService) Approve(ctx context.Context, in DecideInput) error {
	if err := p.requireActionable(in, "approved"); err != nil {
		return err
	}

	if err := p.backend.Approve(ctx, in.Creds, in.ID); err != nil {
		return p.mapBackendError(ctx, in.Session, in.Creds, err)
	}

	in.Session.Requests().Patch(in.ID, func(r *purchase.Request) {
		r.Status = purchase.StatusApproved
		r.RejectionReason = ""
	})
	return nil
}

// Reject moves a pending request to rejected. An empty reason fails before
// any network call is made.
func (p *PurchaseService) Reject(ctx context.Context, in DecideInput) error {
	reason := strings.TrimSpace(in.Reason)
	if reason == "" {
		return apperrors.ValidationField("reason", "rejection reason is required")
	}
	if err := p.requireActionable(in, "rejected"); err != nil {
		return err
	}

	if err := p.backend.Reject(ctx, in.Creds, in.ID, reason); err != nil {
		return p.mapBackendError(ctx, in.Session, in.Creds, err)
	}

	in.Session.Requests().Patch(in.ID, func(r *purchase.Request) {
		r.Status = purchase.StatusRejected
		r.RejectionReason = reason
	})
	return nil
}

// requireActionable checks the session and, when the target request is in
// the local view, that it is still pending. Terminal requests never get a
// second transition even if the backend would tolerate the call.
func (p *PurchaseService) requireActionable(in DecideInput, verb string) error {
	if _, err := p.requireIdentity(in.Session); err != nil {
		return err
	}
	if in.ID == "" {
		return apperrors.ValidationField("id", "request ID is required")
	}
	if req, ok := in.Session.Requests().Find(in.ID); ok && req.Status.Terminal() {
		return apperrors.Validation("request was already " + string(req.Status) + " and cannot be " + verb)
	}
	return nil
}

func (p *PurchaseService) requireIdentity(session *SessionStore) (domainauth.Identity, error) {
	identity := session.Identity()
	if identity == nil {
		return domainauth.Identity{}, apperrors.Unauthorized("not signed in")
	}
	return *identity, nil
}

// mapBackendError handles the one cross-cutting case: an unauthorized
// answer means the backend session died, so the local session is cleared
// before the error is returned and the caller redirects to login.
func (p *PurchaseService) mapBackendError(ctx context.Context, session *SessionStore, creds ports.Credentials, err error) error {
	if apperrors.IsUnauthorized(err) {
		p.logger.InfoContext(ctx, "purchase backend rejected session, clearing", "session", session.Key())
		session.Clear(ctx, creds)
	}
	return err
}
