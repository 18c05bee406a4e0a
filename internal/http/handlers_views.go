package httpx

import (
	"net/http"

	domainauth "github.com/reqflow/approvals-ui-api/internal/domain/auth"
)

// ViewHandlers serves the page entry points. The SPA owns rendering; these
// handlers answer with the navigation outcome and the data the page needs.
type ViewHandlers struct{}

// Index is the login landing page.
// GET /.
func (h *ViewHandlers) Index(w http.ResponseWriter, r *http.Request) {
	h.entry(w, r, domainauth.PathLogin)
}

// Dashboard is the generic post-login entry point; it always forwards to the
// role-specific dashboard (or login/role selection when those come first).
// GET /dashboard.
func (h *ViewHandlers) Dashboard(w http.ResponseWriter, r *http.Request) {
	h.entry(w, r, domainauth.PathDashboard)
}

// SelectRole is the role selection page.
// GET /select-role.
func (h *ViewHandlers) SelectRole(w http.ResponseWriter, r *http.Request) {
	h.entry(w, r, domainauth.PathRoleSelection)
}

// entry applies the shared navigation rules for a public page: while the
// session is loading nothing redirects, afterwards the resolver decides.
func (h *ViewHandlers) entry(w http.ResponseWriter, r *http.Request, path string) {
	rs, ok := GetSessionFromContext(r.Context())
	if !ok {
		writeMissingSession(w)
		return
	}

	snap := rs.Store.Snapshot()
	if snap.Loading {
		w.Header().Set("Retry-After", "1")
		WriteJSON(w, http.StatusAccepted, map[string]string{"status": "pending"})
		return
	}

	if decision := domainauth.Resolve(snap.Identity, path); !decision.Stay() {
		if IsBrowserRequest(r) {
			http.Redirect(w, r, decision.Target, http.StatusSeeOther)
			return
		}
		WriteJSON(w, http.StatusOK, map[string]string{"redirect_to": decision.Target})
		return
	}

	body := map[string]any{"page": path}
	if snap.Identity != nil {
		body["user"] = snap.Identity
	}
	WriteJSON(w, http.StatusOK, body)
}

// UserDashboard answers the user dashboard page data; the guard has already
// admitted the caller.
// GET /user/dashboard.
func (h *ViewHandlers) UserDashboard(w http.ResponseWriter, r *http.Request) {
	h.guarded(w, r, domainauth.PathUserDashboard)
}

// ManagerDashboard answers the manager dashboard page data.
// GET /manager/dashboard.
func (h *ViewHandlers) ManagerDashboard(w http.ResponseWriter, r *http.Request) {
	h.guarded(w, r, domainauth.PathManagerDashboard)
}

func (h *ViewHandlers) guarded(w http.ResponseWriter, r *http.Request, path string) {
	rs, ok := GetSessionFromContext(r.Context())
	if !ok {
		writeMissingSession(w)
		return
	}

	snap := rs.Store.Snapshot()
	WriteJSON(w, http.StatusOK, map[string]any{
		"page": path,
		"user": snap.Identity,
	})
}

// Unauthorized is the access-denied landing page.
// GET /unauthorized.
func (h *ViewHandlers) Unauthorized(w http.ResponseWriter, r *http.Request) {
	rs, ok := GetSessionFromContext(r.Context())
	body := map[string]any{"page": domainauth.PathUnauthorized}
	if ok {
		if identity := rs.Store.Identity(); identity != nil {
			body["user"] = identity
			body["redirect_to"] = domainauth.DashboardPath(identity.Role)
		}
	}
	WriteJSON(w, http.StatusForbidden, body)
}
