package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	domainauth "github.com/reqflow/approvals-ui-api/internal/domain/auth"
	"github.com/reqflow/approvals-ui-api/internal/domain/purchase"
	apperrors "github.com/reqflow/approvals-ui-api/internal/errors"
	"github.com/reqflow/approvals-ui-api/internal/mocks"
	mockauth "github.com/reqflow/approvals-ui-api/internal/mocks/auth"
	"github.com/reqflow/approvals-ui-api/internal/ports"
)

type purchaseFixture struct {
	svc     *PurchaseService
	backend *mocks.MockPurchaseBackend
	auth    *mockauth.MockAuthBackend
	session *SessionStore
	creds   ports.Credentials
}

func newPurchaseFixture(t *testing.T, role domainauth.Role) *purchaseFixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	backend := mocks.NewMockPurchaseBackend(ctrl)

	identity := testIdentity()
	identity.Role = role
	auth := mockauth.NewMockAuthBackend(&identity)
	session := NewSessionStore("sess-1", SessionStoreOptions{
		Backend: auth,
		Mirror:  mockauth.NewMemoryIdentityMirror(),
	})
	creds := ports.Credentials{SessionID: "sess-1"}
	session.CheckStatus(context.Background(), creds)

	return &purchaseFixture{
		svc:     NewPurchaseService(PurchaseServiceOptions{Backend: backend}),
		backend: backend,
		auth:    auth,
		session: session,
		creds:   creds,
	}
}

func validServiceDraft() purchase.Draft {
	return purchase.Draft{
		UserID:        "u-1",
		Description:   "Monitor for desk 12",
		ItemName:      "27in monitor",
		Quantity:      1,
		UnitPrice:     decimal.NewFromInt(200),
		ApproverEmail: "boss@example.com",
		SenderEmail:   "jo@example.com",
	}
}

func TestList_MineSortedPendingFirst(t *testing.T) {
	f := newPurchaseFixture(t, domainauth.RoleUser)

	f.backend.EXPECT().
		ListMine(gomock.Any(), f.creds, "u-1").
		Return([]purchase.Request{
			{ID: "a", Status: purchase.StatusApproved},
			{ID: "b", Status: purchase.StatusPending},
			{ID: "c", Status: purchase.StatusRejected},
		}, nil)

	items, err := f.svc.List(context.Background(), ListInput{
		Session: f.session,
		Creds:   f.creds,
		Scope:   ScopeMine,
	})
	require.NoError(t, err)

	require.Len(t, items, 3)
	assert.Equal(t, "b", items[0].ID, "pending comes first")
	assert.True(t, f.session.Requests().Loaded())
}

func TestList_AssignedScope(t *testing.T) {
	f := newPurchaseFixture(t, domainauth.RoleManager)

	f.backend.EXPECT().
		ListAssigned(gomock.Any(), f.creds).
		Return([]purchase.Request{{ID: "x", Status: purchase.StatusPending}}, nil)

	items, err := f.svc.List(context.Background(), ListInput{
		Session: f.session,
		Creds:   f.creds,
		Scope:   ScopeAssigned,
	})
	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, ScopeAssigned, f.session.Requests().Scope())
}

func TestList_NotSignedIn(t *testing.T) {
	ctrl := gomock.NewController(t)
	backend := mocks.NewMockPurchaseBackend(ctrl)
	svc := NewPurchaseService(PurchaseServiceOptions{Backend: backend})

	session := NewSessionStore("sess-anon", SessionStoreOptions{
		Backend: mockauth.NewMockAuthBackend(nil),
		Mirror:  mockauth.NewMemoryIdentityMirror(),
	})

	_, err := svc.List(context.Background(), ListInput{Session: session, Scope: ScopeMine})
	require.Error(t, err)
	assert.True(t, apperrors.IsUnauthorized(err))
}

func TestList_UnauthorizedClearsSession(t *testing.T) {
	f := newPurchaseFixture(t, domainauth.RoleUser)

	f.backend.EXPECT().
		ListMine(gomock.Any(), f.creds, "u-1").
		Return(nil, apperrors.Unauthorized("session expired"))

	_, err := f.svc.List(context.Background(), ListInput{
		Session: f.session,
		Creds:   f.creds,
		Scope:   ScopeMine,
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsUnauthorized(err))
	assert.Nil(t, f.session.Identity(), "session is cleared when the backend rejects it")
	assert.Equal(t, 1, f.auth.LogoutCalls)
}

func TestList_StaleFetchDiscarded(t *testing.T) {
	f := newPurchaseFixture(t, domainauth.RoleUser)

	// A newer fetch begins while this one is on the wire.
	f.backend.EXPECT().
		ListMine(gomock.Any(), f.creds, "u-1").
		DoAndReturn(func(context.Context, ports.Credentials, string) ([]purchase.Request, error) {
			f.session.Requests().Begin(ScopeMine)
			return []purchase.Request{{ID: "old", Status: purchase.StatusPending}}, nil
		})

	_, err := f.svc.List(context.Background(), ListInput{
		Session: f.session,
		Creds:   f.creds,
		Scope:   ScopeMine,
	})
	require.ErrorIs(t, err, ErrStaleFetch)
	assert.Empty(t, f.session.Requests().Items(), "superseded results never land")
}

func TestSubmit_PrefillsFromIdentity(t *testing.T) {
	f := newPurchaseFixture(t, domainauth.RoleUser)

	var got purchase.Draft
	f.backend.EXPECT().
		Submit(gomock.Any(), f.creds, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ ports.Credentials, draft purchase.Draft) error {
			got = draft
			return nil
		})

	draft := validServiceDraft()
	draft.UserID = ""
	draft.SenderEmail = ""
	draft.Description = "   "

	err := f.svc.Submit(context.Background(), SubmitInput{
		Session: f.session,
		Creds:   f.creds,
		Draft:   draft,
	})
	require.NoError(t, err)

	assert.Equal(t, "u-1", got.UserID, "user ID prefilled from the session identity")
	assert.Equal(t, "jo@example.com", got.SenderEmail)
	assert.Equal(t, "New Purchase Request", got.Description, "blank description gets the default")
}

func TestSubmit_InvalidDraftNeverReachesBackend(t *testing.T) {
	f := newPurchaseFixture(t, domainauth.RoleUser)

	draft := validServiceDraft()
	draft.ApproverEmail = "not-an-email"

	err := f.svc.Submit(context.Background(), SubmitInput{
		Session: f.session,
		Creds:   f.creds,
		Draft:   draft,
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	assert.Equal(t, "approverEmail", apperrors.GetField(err))
}

func TestSubmit_InvalidatesView(t *testing.T) {
	f := newPurchaseFixture(t, domainauth.RoleUser)

	f.backend.EXPECT().
		ListMine(gomock.Any(), f.creds, "u-1").
		Return([]purchase.Request{{ID: "a", Status: purchase.StatusPending}}, nil)
	f.backend.EXPECT().
		Submit(gomock.Any(), f.creds, gomock.Any()).
		Return(nil)

	_, err := f.svc.List(context.Background(), ListInput{Session: f.session, Creds: f.creds, Scope: ScopeMine})
	require.NoError(t, err)
	require.True(t, f.session.Requests().Loaded())

	err = f.svc.Submit(context.Background(), SubmitInput{
		Session: f.session,
		Creds:   f.creds,
		Draft:   validServiceDraft(),
	})
	require.NoError(t, err)
	assert.False(t, f.session.Requests().Loaded(), "next list re-syncs the collection")
}

func TestApprove_PatchesViewInPlace(t *testing.T) {
	f := newPurchaseFixture(t, domainauth.RoleManager)

	f.backend.EXPECT().
		ListAssigned(gomock.Any(), f.creds).
		Return([]purchase.Request{
			{ID: "a", Status: purchase.StatusPending},
			{ID: "b", Status: purchase.StatusPending},
		}, nil)
	f.backend.EXPECT().
		Approve(gomock.Any(), f.creds, "a").
		Return(nil)

	_, err := f.svc.List(context.Background(), ListInput{Session: f.session, Creds: f.creds, Scope: ScopeAssigned})
	require.NoError(t, err)

	require.NoError(t, f.svc.Approve(context.Background(), DecideInput{
		Session: f.session,
		Creds:   f.creds,
		ID:      "a",
	}))

	items := f.session.Requests().Items()
	require.Len(t, items, 2)
	assert.Equal(t, "b", items[0].ID, "still-pending request stays first")
	assert.Equal(t, purchase.StatusApproved, items[1].Status)
}

func TestApprove_TerminalRequestRejectedLocally(t *testing.T) {
	f := newPurchaseFixture(t, domainauth.RoleManager)

	f.backend.EXPECT().
		ListAssigned(gomock.Any(), f.creds).
		Return([]purchase.Request{{ID: "a", Status: purchase.StatusRejected}}, nil)

	_, err := f.svc.List(context.Background(), ListInput{Session: f.session, Creds: f.creds, Scope: ScopeAssigned})
	require.NoError(t, err)

	err = f.svc.Approve(context.Background(), DecideInput{
		Session: f.session,
		Creds:   f.creds,
		ID:      "a",
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err), "no second transition for a settled request")
}

func TestReject_EmptyReasonFailsBeforeNetwork(t *testing.T) {
	f := newPurchaseFixture(t, domainauth.RoleManager)

	err := f.svc.Reject(context.Background(), DecideInput{
		Session: f.session,
		Creds:   f.creds,
		ID:      "a",
		Reason:  "   ",
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	assert.Equal(t, "reason", apperrors.GetField(err))
}

func TestReject_PatchesViewWithReason(t *testing.T) {
	f := newPurchaseFixture(t, domainauth.RoleManager)

	f.backend.EXPECT().
		ListAssigned(gomock.Any(), f.creds).
		Return([]purchase.Request{{ID: "a", Status: purchase.StatusPending}}, nil)
	f.backend.EXPECT().
		Reject(gomock.Any(), f.creds, "a", "over budget").
		Return(nil)

	_, err := f.svc.List(context.Background(), ListInput{Session: f.session, Creds: f.creds, Scope: ScopeAssigned})
	require.NoError(t, err)

	require.NoError(t, f.svc.Reject(context.Background(), DecideInput{
		Session: f.session,
		Creds:   f.creds,
		ID:      "a",
		Reason:  " over budget ",
	}))

	got, ok := f.session.Requests().Find("a")
	require.True(t, ok)
	assert.Equal(t, purchase.StatusRejected, got.Status)
	assert.Equal(t, "over budget", got.RejectionReason, "reason is trimmed before use")
}

func TestApprove_UnauthorizedClearsSession(t *testing.T) {
	f := newPurchaseFixture(t, domainauth.RoleManager)

	f.backend.EXPECT().
		Approve(gomock.Any(), f.creds, "a").
		Return(apperrors.Unauthorized("session expired"))

	err := f.svc.Approve(context.Background(), DecideInput{
		Session: f.session,
		Creds:   f.creds,
		ID:      "a",
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsUnauthorized(err))
	assert.Nil(t, f.session.Identity())
}
