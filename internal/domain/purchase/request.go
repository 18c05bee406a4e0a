package purchase

// Package purchase contains the domain model for purchase requests and the
// client-side view of their lifecycle. The purchase backend owns the records;
// this package only models states, transitions, and ordering.

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Status is the lifecycle state of a purchase request.
// Pending is the only non-terminal state.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Terminal reports whether no further transitions are offered.
func (s Status) Terminal() bool { return s == StatusApproved || s == StatusRejected }

// Request is a purchase request as returned by the purchase backend.
// TotalPrice is computed by the submitter at creation time and trusted as
// sent; it is never re-derived here.
type Request struct {
	ID              string          `json:"id"`
	ItemName        string          `json:"itemName"`
	Description     string          `json:"description,omitempty"`
	Quantity        int64           `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unitPrice"`
	TotalPrice      decimal.Decimal `json:"totalPrice"`
	ShippingCharges decimal.Decimal `json:"shippingCharges"`
	TaxAmount       decimal.Decimal `json:"taxAmount"`
	ApproverEmail   string          `json:"approverEmail"`
	SenderEmail     string          `json:"senderEmail"`
	Status          Status          `json:"status"`
	RejectionReason string          `json:"rejectionReason,omitempty"`
}

// CanApprove reports whether the approve control should be offered.
func (r Request) CanApprove() bool { return r.Status == StatusPending }

// CanReject reports whether the reject control should be offered.
func (r Request) CanReject() bool { return r.Status == StatusPending }

// Consistent checks the rejection-reason invariant: a reason is present
// if and only if the request is rejected.
func (r Request) Consistent() bool {
	if r.Status == StatusRejected {
		return r.RejectionReason != ""
	}
	return r.RejectionReason == ""
}

// SortPendingFirst orders requests so pending items precede all others.
// The sort is stable: ties keep arrival order, no secondary key.
func SortPendingFirst(reqs []Request) {
	sort.SliceStable(reqs, func(i, j int) bool {
		return reqs[i].Status == StatusPending && reqs[j].Status != StatusPending
	})
}
