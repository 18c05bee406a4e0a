package service

import (
	"encoding/json"
	"strings"

	jmespath "github.com/jmespath-community/go-jmespath"

	domainauth "github.com/reqflow/approvals-ui-api/internal/domain/auth"
	apperrors "github.com/reqflow/approvals-ui-api/internal/errors"
)

// IdentityExtractorOptions holds the JMESPath expressions used to pull
// identity fields out of the payload the auth backend embeds in the
// post-login return navigation. Providers differ in payload shape; the
// expressions make the mapping configuration instead of code.
type IdentityExtractorOptions struct {
	IDExpr       string
	EmailExpr    string
	GivenExpr    string
	FamilyExpr   string
	FullNameExpr string
	RoleExpr     string
}

// IdentityExtractor parses return-URL identity payloads.
type IdentityExtractor struct {
	opts IdentityExtractorOptions
}

// NewIdentityExtractor validates the configured expressions and returns an
// extractor. Empty expressions are allowed and simply yield empty fields.
func NewIdentityExtractor(opts IdentityExtractorOptions) (*IdentityExtractor, error) {
	for _, expr := range []string{
		opts.IDExpr, opts.EmailExpr, opts.GivenExpr,
		opts.FamilyExpr, opts.FullNameExpr, opts.RoleExpr,
	} {
		if strings.TrimSpace(expr) == "" {
			continue
		}
		if _, err := jmespath.Compile(expr); err != nil {
			return nil, apperrors.Wrapf(err, apperrors.ErrCodeValidation, "invalid payload expression %q", expr)
		}
	}
	return &IdentityExtractor{opts: opts}, nil
}

// Extract parses a raw JSON payload into an Identity. The user ID is the
// only mandatory field; FullName falls back to given + family name.
func (e *IdentityExtractor) Extract(raw string) (domainauth.Identity, error) {
	var data any
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return domainauth.Identity{}, apperrors.Wrap(err, apperrors.ErrCodeValidation, "malformed identity payload")
	}

	identity := domainauth.Identity{
		ID:         e.stringAt(e.opts.IDExpr, data),
		Email:      e.stringAt(e.opts.EmailExpr, data),
		GivenName:  e.stringAt(e.opts.GivenExpr, data),
		FamilyName: e.stringAt(e.opts.FamilyExpr, data),
		FullName:   e.stringAt(e.opts.FullNameExpr, data),
	}
	if identity.ID == "" {
		return domainauth.Identity{}, apperrors.Validation("identity payload has no user ID")
	}
	if identity.FullName == "" {
		identity.FullName = domainauth.ComposeFullName(identity.GivenName, identity.FamilyName)
	}
	if role, ok := domainauth.ParseRole(e.stringAt(e.opts.RoleExpr, data)); ok {
		identity.Role = role
	}
	return identity, nil
}

// stringAt evaluates expr against data and returns the result when it is a
// string; anything else (including evaluation errors) yields "".
func (e *IdentityExtractor) stringAt(expr string, data any) string {
	if strings.TrimSpace(expr) == "" {
		return ""
	}
	v, err := jmespath.Search(expr, data)
	if err != nil {
		return ""
	}
	s, _ := v.(string)
	return strings.TrimSpace(s)
}
