package httpx

import (
	"context"
	"net/http"
	"net/url"

	"github.com/reqflow/approvals-ui-api/internal/ports"
	"github.com/reqflow/approvals-ui-api/internal/service"
)

// RequestSession is the per-request bundle the session middleware attaches:
// the browser's session store, the outbound credentials derived from the
// request, and the login URL builder for the active auth mode.
type RequestSession struct {
	Store    *service.SessionStore
	Creds    ports.Credentials
	LoginURL func(redirectURI string) string
}

// sessionKey is an unexported context key type to avoid collisions across packages.
// Centralized in this file so all handlers/middleware use the same key.
type sessionKey struct{}

// SetSessionInContext returns a child context that carries the request session.
// If rs is nil, the original ctx is returned unchanged.
func SetSessionInContext(ctx context.Context, rs *RequestSession) context.Context {
	if rs == nil {
		return ctx
	}
	return context.WithValue(ctx, sessionKey{}, rs)
}

// GetSessionFromContext returns the request session and a boolean indicating presence.
func GetSessionFromContext(ctx context.Context) (*RequestSession, bool) {
	if rs, ok := ctx.Value(sessionKey{}).(*RequestSession); ok && rs != nil {
		return rs, true
	}
	return nil, false
}

// loginURLForRequest builds the login URL for the active auth mode with the
// current path preserved as the post-login destination.
func loginURLForRequest(r *http.Request) string {
	redirect := safeRedirectPath(r.URL.RequestURI())
	rs, ok := GetSessionFromContext(r.Context())
	if !ok || rs.LoginURL == nil {
		return "/"
	}
	return rs.LoginURL(url.QueryEscape(redirect))
}
