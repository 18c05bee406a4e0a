package auth

// Package auth contains domain-level types for identity, roles, and sessions.
// It is pure and free of transport/adapter concerns.

import "strings"

// Role is the access-level tag a signed-in user picks once per identity.
// The zero value means "not chosen yet"; there is no path back to unset.
type Role string

const (
	RoleUnset   Role = ""
	RoleUser    Role = "user"
	RoleManager Role = "manager"
)

// ParseRole normalizes and validates a role string.
// Returns RoleUnset and false for anything that is not a selectable role.
func ParseRole(s string) (Role, bool) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleUser:
		return RoleUser, true
	case RoleManager:
		return RoleManager, true
	default:
		return RoleUnset, false
	}
}

// Identity is the authenticated user's profile as known to this service.
// It is owned exclusively by the session store; everything else reads it.
type Identity struct {
	ID         string `json:"id"`
	Email      string `json:"email"`
	FullName   string `json:"fullName"`
	GivenName  string `json:"givenName,omitempty"`
	FamilyName string `json:"familyName,omitempty"`
	Role       Role   `json:"role,omitempty"`
}

// HasRole reports whether a role has been chosen for this identity.
func (i Identity) HasRole() bool { return i.Role == RoleUser || i.Role == RoleManager }

// WithRole returns a copy of the identity with only the role replaced.
// All other fields are preserved; this is the merge used by set-role.
func (i Identity) WithRole(r Role) Identity {
	i.Role = r
	return i
}

// ComposeFullName joins given and family names, tolerating either being empty.
func ComposeFullName(given, family string) string {
	given = strings.TrimSpace(given)
	family = strings.TrimSpace(family)
	switch {
	case given == "":
		return family
	case family == "":
		return given
	default:
		return given + " " + family
	}
}

// Session is the per-browser authentication state this service derives.
// Loading is true only while the initial status check is in flight; after
// the check resolves it is false for the remainder of the session.
type Session struct {
	Identity *Identity `json:"identity"`
	Loading  bool      `json:"loading"`
}

// Authenticated reports whether the session carries an identity.
func (s Session) Authenticated() bool { return s.Identity != nil }
