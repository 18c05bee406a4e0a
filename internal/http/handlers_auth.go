package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	domainauth "github.com/reqflow/approvals-ui-api/internal/domain/auth"
	"github.com/reqflow/approvals-ui-api/internal/ports"
	"github.com/reqflow/approvals-ui-api/internal/service"
)

// LoginEstablisher records a completed direct login for a browser session.
// Implemented by the local auth backend in direct-OIDC mode.
type LoginEstablisher interface {
	Establish(ctx context.Context, sessionID string, identity domainauth.Identity) error
}

// AuthHandlers provides HTTP handlers for session and authentication operations.
type AuthHandlers struct {
	// Provider and Establisher are set only in direct-OIDC mode; when nil,
	// login is delegated to the external auth service.
	Provider     ports.AuthProvider
	Establisher  LoginEstablisher
	Extractor    *service.IdentityExtractor
	CookieDomain string
	Logger       *slog.Logger
}

func (h *AuthHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// Status returns the current session snapshot.
// GET /auth/status.
func (h *AuthHandlers) Status(w http.ResponseWriter, r *http.Request) {
	rs, ok := GetSessionFromContext(r.Context())
	if !ok {
		WriteJSON(w, http.StatusOK, map[string]any{"authenticated": false, "loading": false})
		return
	}

	snap := rs.Store.Snapshot()
	body := map[string]any{
		"authenticated": snap.Authenticated(),
		"loading":       snap.Loading,
	}
	if snap.Identity != nil {
		body["user"] = snap.Identity
	}
	WriteJSON(w, http.StatusOK, body)
}

// Login starts the sign-in flow.
// GET /auth/login?redirect_uri=<optional_redirect>.
//
// Without a provider the browser is sent to the external auth service; with
// one the gateway runs the OIDC code flow itself.
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	redirectURI := safeRedirectPath(r.URL.Query().Get("redirect_uri"))

	if h.Provider == nil {
		rs, ok := GetSessionFromContext(r.Context())
		if !ok || rs.LoginURL == nil {
			WriteError(w, ErrorParams{
				Code:    http.StatusInternalServerError,
				ErrCode: "login_unavailable",
				Err:     errors.New("no login destination configured"),
			})
			return
		}
		http.Redirect(w, r, rs.LoginURL(url.QueryEscape(redirectURI)), http.StatusFound)
		return
	}

	authURL, state, nonce, err := h.Provider.Begin(r.Context(), redirectURI)
	if err != nil {
		WriteError(w, ErrorParams{
			Code:    http.StatusInternalServerError,
			ErrCode: "login_failed",
			Err:     err,
		})
		return
	}

	h.setOAuthCookies(w, r, oauthCookieParams{State: state, Nonce: nonce, RedirectURI: redirectURI})
	http.Redirect(w, r, authURL, http.StatusFound)
}

// Callback completes the direct-OIDC flow.
// GET /auth/callback?code=<code>&state=<state>.
func (h *AuthHandlers) Callback(w http.ResponseWriter, r *http.Request) {
	if h.Provider == nil || h.Establisher == nil {
		WriteError(w, ErrorParams{
			Code:    http.StatusNotFound,
			ErrCode: "not_found",
			Err:     errors.New("direct login is not enabled"),
		})
		return
	}

	code := r.URL.Query().Get("code")
	state := r.URL.Query().Get("state")
	if code == "" || state == "" {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "missing_parameters",
			Err:     errors.New("code and state are required"),
		})
		return
	}

	stateCookie, err := r.Cookie("oauth_state")
	if err != nil || stateCookie.Value != state {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "invalid_state",
			Err:     errors.New("invalid or missing state parameter"),
		})
		return
	}
	nonceCookie, err := r.Cookie("oauth_nonce")
	if err != nil {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "missing_nonce",
			Err:     errors.New("missing nonce parameter"),
		})
		return
	}

	identity, err := h.Provider.Exchange(r.Context(), ports.ExchangeInput{
		Code:  code,
		State: state,
		Nonce: nonceCookie.Value,
	})
	if err != nil {
		WriteError(w, ErrorParams{
			Code:    http.StatusInternalServerError,
			ErrCode: "login_completion_failed",
			Err:     err,
		})
		return
	}

	rs, ok := GetSessionFromContext(r.Context())
	if !ok {
		WriteError(w, ErrorParams{
			Code:    http.StatusInternalServerError,
			ErrCode: "session_middleware_missing",
			Err:     errors.New("session middleware not installed"),
		})
		return
	}

	if establishErr := h.Establisher.Establish(r.Context(), rs.Creds.SessionID, identity); establishErr != nil {
		WriteError(w, ErrorParams{
			Code:    http.StatusInternalServerError,
			ErrCode: "login_completion_failed",
			Err:     establishErr,
		})
		return
	}

	decision := rs.Store.Establish(r.Context(), identity)

	h.clearCookie(w, r, "oauth_state")
	h.clearCookie(w, r, "oauth_nonce")

	http.Redirect(w, r, h.postLoginTarget(w, r, decision), http.StatusFound)
}

// Return ingests the identity payload the external auth service appends to
// its post-login redirect.
// GET /auth/return?userData=<json>.
//
// A malformed payload never errors out to the browser; the session is
// cleared and the user lands back on login.
func (h *AuthHandlers) Return(w http.ResponseWriter, r *http.Request) {
	rs, ok := GetSessionFromContext(r.Context())
	if !ok {
		http.Redirect(w, r, domainauth.PathLogin, http.StatusSeeOther)
		return
	}

	payload := r.URL.Query().Get("userData")
	decision := rs.Store.Ingest(r.Context(), h.Extractor, payload)

	http.Redirect(w, r, h.postLoginTarget(w, r, decision), http.StatusSeeOther)
}

// SetRole assigns the chosen role to the signed-in identity.
// POST /auth/role with body {"role": "user"|"manager"}.
func (h *AuthHandlers) SetRole(w http.ResponseWriter, r *http.Request) {
	rs, ok := GetSessionFromContext(r.Context())
	if !ok {
		WriteError(w, ErrorParams{
			Code:    http.StatusInternalServerError,
			ErrCode: "session_middleware_missing",
			Err:     errors.New("session middleware not installed"),
		})
		return
	}

	var body struct {
		Role string `json:"role"`
	}
	if !DecodeJSON(w, r, &body) {
		return
	}

	role, valid := domainauth.ParseRole(body.Role)
	if !valid {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "validation",
			Err:     errors.New("role must be user or manager"),
			Field:   "role",
		})
		return
	}

	snap, err := rs.Store.SetRole(r.Context(), rs.Creds, role)
	if err != nil {
		WriteAppError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"user":        snap.Identity,
		"redirect_to": domainauth.DashboardPath(role),
	})
}

// Logout ends the session.
// POST /auth/logout.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	rs, ok := GetSessionFromContext(r.Context())
	if ok {
		rs.Store.Clear(r.Context(), rs.Creds)
	}

	if IsBrowserRequest(r) {
		http.Redirect(w, r, domainauth.PathLogin, http.StatusSeeOther)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{
		"status":      "success",
		"redirect_to": domainauth.PathLogin,
	})
}

// postLoginTarget resolves where a completed login should land: the stored
// post-login redirect when present and the decision allows staying, else the
// decision's target.
func (h *AuthHandlers) postLoginTarget(w http.ResponseWriter, r *http.Request, decision domainauth.Decision) string {
	stored := h.getPostLoginRedirect(w, r)
	if decision.Stay() {
		return stored
	}
	// Role selection always wins: an identity with no role must pick one
	// before reaching any stored destination.
	if decision.Target == domainauth.PathRoleSelection {
		return decision.Target
	}
	if stored != "/" {
		return stored
	}
	return decision.Target
}

// clearCookie clears a cookie by setting it to expire immediately.
func (h *AuthHandlers) clearCookie(w http.ResponseWriter, r *http.Request, name string) {
	isSecure := r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Domain:   h.CookieDomain,
		HttpOnly: true,
		Secure:   isSecure,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0).UTC(),
		SameSite: http.SameSiteLaxMode,
	})
}

// oauthCookieParams groups values needed to set OAuth cookies (≤3 params rule).
type oauthCookieParams struct {
	State       string
	Nonce       string
	RedirectURI string
}

// setOAuthCookies stores OAuth state, nonce, and the post-login redirect in secure cookies.
func (h *AuthHandlers) setOAuthCookies(w http.ResponseWriter, r *http.Request, p oauthCookieParams) {
	isSecure := r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")

	for _, c := range []struct {
		name  string
		value string
	}{
		{"oauth_state", p.State},
		{"oauth_nonce", p.Nonce},
		{"post_login_redirect", p.RedirectURI},
	} {
		http.SetCookie(w, &http.Cookie{
			Name:     c.name,
			Value:    c.value,
			Path:     "/",
			Domain:   h.CookieDomain,
			HttpOnly: true,
			Secure:   isSecure,
			SameSite: http.SameSiteLaxMode,
			MaxAge:   600, // 10 minutes
		})
	}
}

// getPostLoginRedirect returns the post-login redirect URL and clears the cookie.
func (h *AuthHandlers) getPostLoginRedirect(w http.ResponseWriter, r *http.Request) string {
	redirectURI := "/"
	if redirectCookie, err := r.Cookie("post_login_redirect"); err == nil {
		redirectURI = safeRedirectPath(redirectCookie.Value)
		h.clearCookie(w, r, "post_login_redirect")
	}
	return redirectURI
}
