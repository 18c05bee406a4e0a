package purchase

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"golang.org/x/net/publicsuffix"

	apperrors "github.com/reqflow/approvals-ui-api/internal/errors"
)

// Draft is a purchase request as entered by the submitter, before the
// backend has persisted it. Sender fields are prefilled from the session
// identity by the caller.
type Draft struct {
	UserID          string          `json:"userId"          validate:"required"`
	Description     string          `json:"description"`
	ItemName        string          `json:"itemName"        validate:"required"`
	Quantity        int64           `json:"quantity"        validate:"required,gt=0"`
	UnitPrice       decimal.Decimal `json:"unitPrice"`
	ShippingCharges decimal.Decimal `json:"shippingCharges"`
	TaxAmount       decimal.Decimal `json:"taxAmount"`
	ApproverEmail   string          `json:"approverEmail"   validate:"required,email"`
	SenderEmail     string          `json:"senderEmail"     validate:"required,email"`
}

var validate = newDraftValidator()

// newDraftValidator reports field errors under their JSON names so they can
// be echoed to API callers directly.
func newDraftValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks required fields and money-field sanity before any network
// call. The first problem found is returned as a validation error with the
// offending field set.
func (d Draft) Validate() error {
	if err := validate.Struct(d); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return apperrors.ValidationField(fe.Field(), fieldMessage(fe))
		}
		return apperrors.Wrap(err, apperrors.ErrCodeValidation, "invalid purchase request")
	}

	for _, m := range []struct {
		name  string
		value decimal.Decimal
	}{
		{"unitPrice", d.UnitPrice},
		{"shippingCharges", d.ShippingCharges},
		{"taxAmount", d.TaxAmount},
	} {
		if m.value.IsNegative() {
			return apperrors.ValidationField(m.name, "must not be negative")
		}
	}

	if !hasRegisteredSuffix(d.ApproverEmail) {
		return apperrors.ValidationField("approverEmail", "email domain is not routable")
	}

	return nil
}

// Total computes the display total: quantity*unitPrice + shipping + tax.
// The backend recomputes and persists the authoritative value.
func (d Draft) Total() decimal.Decimal {
	return d.UnitPrice.Mul(decimal.NewFromInt(d.Quantity)).
		Add(d.ShippingCharges).
		Add(d.TaxAmount)
}

// hasRegisteredSuffix reports whether the email's domain ends in an
// ICANN-managed public suffix, catching obvious typos like "user@corp.local".
func hasRegisteredSuffix(email string) bool {
	at := strings.LastIndex(email, "@")
	if at < 0 || at == len(email)-1 {
		return false
	}
	domain := strings.ToLower(email[at+1:])
	suffix, icann := publicsuffix.PublicSuffix(domain)
	if icann {
		return true
	}
	// Privately-managed suffixes with a dot (e.g. "example.github.io") are fine;
	// a dotless non-ICANN suffix means the whole domain is unrecognized.
	return strings.Contains(suffix, ".")
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "gt":
		return "must be greater than " + fe.Param()
	default:
		return "is invalid"
	}
}
