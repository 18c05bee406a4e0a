package purchase

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusTerminal(t *testing.T) {
	assert.False(t, StatusPending.Terminal())
	assert.True(t, StatusApproved.Terminal())
	assert.True(t, StatusRejected.Terminal())
}

func TestCanApproveAndReject(t *testing.T) {
	pending := Request{ID: "r-1", Status: StatusPending}
	approved := Request{ID: "r-2", Status: StatusApproved}
	rejected := Request{ID: "r-3", Status: StatusRejected}

	assert.True(t, pending.CanApprove())
	assert.True(t, pending.CanReject())
	assert.False(t, approved.CanApprove())
	assert.False(t, approved.CanReject())
	assert.False(t, rejected.CanApprove())
	assert.False(t, rejected.CanReject())
}

func TestConsistent(t *testing.T) {
	assert.True(t, Request{Status: StatusPending}.Consistent())
	assert.True(t, Request{Status: StatusApproved}.Consistent())
	assert.True(t, Request{Status: StatusRejected, RejectionReason: "over budget"}.Consistent())

	assert.False(t, Request{Status: StatusRejected}.Consistent())
	assert.False(t, Request{Status: StatusPending, RejectionReason: "leftover"}.Consistent())
	assert.False(t, Request{Status: StatusApproved, RejectionReason: "leftover"}.Consistent())
}

func TestSortPendingFirst_StableWithinGroups(t *testing.T) {
	reqs := []Request{
		{ID: "a", Status: StatusApproved},
		{ID: "b", Status: StatusPending},
		{ID: "c", Status: StatusRejected, RejectionReason: "no"},
		{ID: "d", Status: StatusPending},
		{ID: "e", Status: StatusApproved},
	}

	SortPendingFirst(reqs)

	got := make([]string, 0, len(reqs))
	for _, r := range reqs {
		got = append(got, r.ID)
	}
	// Pending first in arrival order, then the rest in arrival order.
	assert.Equal(t, []string{"b", "d", "a", "c", "e"}, got)
}

func TestSortPendingFirst_EmptyAndAllPending(t *testing.T) {
	var empty []Request
	SortPendingFirst(empty)
	assert.Empty(t, empty)

	all := []Request{
		{ID: "x", Status: StatusPending},
		{ID: "y", Status: StatusPending},
	}
	SortPendingFirst(all)
	assert.Equal(t, "x", all[0].ID)
	assert.Equal(t, "y", all[1].ID)
}
