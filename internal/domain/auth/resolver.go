package auth

// Well-known application paths. The resolver and the route guard both work
// in terms of these so navigation rules cannot drift between them.
const (
	PathLogin            = "/"
	PathRoleSelection    = "/select-role"
	PathDashboard        = "/dashboard"
	PathUserDashboard    = "/user/dashboard"
	PathManagerDashboard = "/manager/dashboard"
	PathUnauthorized     = "/unauthorized"
)

// Decision is the outcome of resolving a navigation: either stay where you
// are or go to Target.
type Decision struct {
	Target string
}

// Stay reports whether the caller should not navigate anywhere.
func (d Decision) Stay() bool { return d.Target == "" }

// Goto builds a navigation decision toward path.
func Goto(path string) Decision { return Decision{Target: path} }

// DashboardPath returns the role-specific dashboard for a chosen role.
// Unset roles land on role selection.
func DashboardPath(r Role) string {
	switch r {
	case RoleManager:
		return PathManagerDashboard
	case RoleUser:
		return PathUserDashboard
	default:
		return PathRoleSelection
	}
}

// Resolve decides where a navigation should land given the current identity
// and path. This is the single rule set consulted by both the dashboard
// entry point and the route guard; keep all role-resolution rules here.
//
// Priority order:
//  1. no identity       -> login (unless already there)
//  2. role not chosen   -> role selection (unless already there)
//  3. role chosen       -> role dashboard when arriving at the generic
//     dashboard entry point or at role selection; otherwise stay.
func Resolve(identity *Identity, currentPath string) Decision {
	if identity == nil {
		if currentPath == PathLogin {
			return Decision{}
		}
		return Goto(PathLogin)
	}

	if !identity.HasRole() {
		if currentPath == PathRoleSelection {
			return Decision{}
		}
		return Goto(PathRoleSelection)
	}

	if currentPath == PathDashboard || currentPath == PathRoleSelection || currentPath == PathLogin {
		return Goto(DashboardPath(identity.Role))
	}

	return Decision{}
}
