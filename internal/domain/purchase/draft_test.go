package purchase

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/reqflow/approvals-ui-api/internal/errors"
)

func validDraft() Draft {
	return Draft{
		UserID:          "u-1",
		Description:     "Monitor for desk 12",
		ItemName:        "27in monitor",
		Quantity:        2,
		UnitPrice:       decimal.NewFromFloat(199.99),
		ShippingCharges: decimal.NewFromFloat(10),
		TaxAmount:       decimal.NewFromFloat(32.50),
		ApproverEmail:   "boss@example.com",
		SenderEmail:     "jo@example.com",
	}
}

func TestDraftValidate_OK(t *testing.T) {
	assert.NoError(t, validDraft().Validate())
}

func TestDraftValidate_FieldErrors(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Draft)
		wantField string
	}{
		{name: "missing user", mutate: func(d *Draft) { d.UserID = "" }, wantField: "userId"},
		{name: "missing item name", mutate: func(d *Draft) { d.ItemName = "" }, wantField: "itemName"},
		{name: "zero quantity", mutate: func(d *Draft) { d.Quantity = 0 }, wantField: "quantity"},
		{name: "negative quantity", mutate: func(d *Draft) { d.Quantity = -3 }, wantField: "quantity"},
		{name: "bad approver email", mutate: func(d *Draft) { d.ApproverEmail = "not-an-email" }, wantField: "approverEmail"},
		{name: "missing sender email", mutate: func(d *Draft) { d.SenderEmail = "" }, wantField: "senderEmail"},
		{name: "negative unit price", mutate: func(d *Draft) { d.UnitPrice = decimal.NewFromInt(-1) }, wantField: "unitPrice"},
		{name: "negative shipping", mutate: func(d *Draft) { d.ShippingCharges = decimal.NewFromInt(-1) }, wantField: "shippingCharges"},
		{name: "negative tax", mutate: func(d *Draft) { d.TaxAmount = decimal.NewFromInt(-1) }, wantField: "taxAmount"},
		{name: "unroutable approver domain", mutate: func(d *Draft) { d.ApproverEmail = "boss@corp.localdomain" }, wantField: "approverEmail"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := validDraft()
			tt.mutate(&d)

			err := d.Validate()
			require.Error(t, err)
			assert.True(t, apperrors.IsValidation(err))
			assert.Equal(t, tt.wantField, apperrors.GetField(err))
		})
	}
}

func TestDraftTotal(t *testing.T) {
	d := validDraft()
	// 2 * 199.99 + 10 + 32.50 = 442.48
	assert.True(t, decimal.NewFromFloat(442.48).Equal(d.Total()),
		"got %s", d.Total())
}

func TestDraftTotal_ZeroExtras(t *testing.T) {
	d := Draft{Quantity: 3, UnitPrice: decimal.NewFromInt(5)}
	assert.True(t, decimal.NewFromInt(15).Equal(d.Total()))
}

func TestHasRegisteredSuffix(t *testing.T) {
	assert.True(t, hasRegisteredSuffix("a@example.com"))
	assert.True(t, hasRegisteredSuffix("a@sub.example.co.uk"))
	assert.True(t, hasRegisteredSuffix("a@project.github.io"))
	assert.False(t, hasRegisteredSuffix("a@corp.localdomain"))
	assert.False(t, hasRegisteredSuffix("no-at-sign"))
	assert.False(t, hasRegisteredSuffix("trailing@"))
}
