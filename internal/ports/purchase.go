package ports

import (
	"context"

	"github.com/reqflow/approvals-ui-api/internal/domain/purchase"
)

// PurchaseBackend is the purchase-request collaborator. It owns the records;
// this service only reads them and requests transitions.
//
// Implementations map a 401 response on any call to an unauthorized AppError
// so the caller can treat it uniformly as "session invalid".
type PurchaseBackend interface {
	// ListMine fetches requests submitted by the given user.
	ListMine(ctx context.Context, creds Credentials, userID string) ([]purchase.Request, error)

	// ListAssigned fetches requests awaiting the caller's approval.
	ListAssigned(ctx context.Context, creds Credentials) ([]purchase.Request, error)

	// Submit persists a new request.
	Submit(ctx context.Context, creds Credentials, draft purchase.Draft) error

	// Approve transitions a pending request to approved.
	Approve(ctx context.Context, creds Credentials, id string) error

	// Reject transitions a pending request to rejected with a reason.
	Reject(ctx context.Context, creds Credentials, id, reason string) error
}
