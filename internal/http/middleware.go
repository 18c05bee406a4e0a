package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"runtime/debug"
	"strings"
	"time"

	"github.com/google/uuid"

	domainauth "github.com/reqflow/approvals-ui-api/internal/domain/auth"
	"github.com/reqflow/approvals-ui-api/internal/ports"
	"github.com/reqflow/approvals-ui-api/internal/service"
)

// SessionCookieName identifies the browser session this gateway tracks.
const SessionCookieName = "ui_session"

// Logging returns a middleware that logs HTTP requests and responses.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			const defaultHTTPStatus = 200
			ww := &respWriter{ResponseWriter: w, status: defaultHTTPStatus}
			next.ServeHTTP(ww, r)
			logger.Info("http",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.status),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}

type respWriter struct {
	http.ResponseWriter
	status int
}

func (w *respWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// Recover returns a middleware that recovers from panics and logs them.
func Recover(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error("panic",
						slog.Any("error", err),
						slog.String("path", r.URL.Path),
						slog.String("method", r.Method),
						slog.String("stack", string(debug.Stack())))
					http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// SessionConfig groups what the session middleware needs.
type SessionConfig struct {
	Registry     *service.SessionRegistry
	LoginURL     func(redirectURI string) string
	CookieDomain string
}

// Session returns the middleware that binds every request to its browser
// session: it ensures the session cookie exists, looks up (or creates) the
// SessionStore, triggers the one-time status check, and attaches the bundle
// to the request context.
func Session(cfg SessionConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sid := sessionIDFromRequest(r)
			if sid == "" {
				sid = uuid.NewString()
				setSessionCookie(w, r, sessionCookieParams{Domain: cfg.CookieDomain, Value: sid})
			}

			creds := ports.Credentials{Cookie: r.Header.Get("Cookie"), SessionID: sid}
			store := cfg.Registry.Get(r.Context(), sid)
			store.CheckStatus(r.Context(), creds)

			rs := &RequestSession{Store: store, Creds: creds, LoginURL: cfg.LoginURL}
			ctx := SetSessionInContext(r.Context(), rs)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func sessionIDFromRequest(r *http.Request) string {
	c, err := r.Cookie(SessionCookieName)
	if err != nil || c.Value == "" {
		return ""
	}
	if _, parseErr := uuid.Parse(c.Value); parseErr != nil {
		return ""
	}
	return c.Value
}

// sessionCookieParams groups values needed to set the session cookie (≤3 params rule).
type sessionCookieParams struct {
	Domain string
	Value  string
}

func setSessionCookie(w http.ResponseWriter, r *http.Request, p sessionCookieParams) {
	isSecure := r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    p.Value,
		Path:     "/",
		Domain:   p.Domain,
		HttpOnly: true,
		Secure:   isSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Protect returns the route guard middleware. Rules, in priority order:
//  1. session still loading: never redirect; answer 202 so the client retries
//  2. no identity: browsers go to login with the destination preserved,
//     API callers get 401
//  3. no role chosen: redirect to role selection
//  4. role not in allowed: redirect to the unauthorized page (403 for API)
//
// An empty allowed list admits any chosen role.
func Protect(allowed ...domainauth.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rs, ok := GetSessionFromContext(r.Context())
			if !ok {
				WriteError(w, ErrorParams{
					Code:    http.StatusInternalServerError,
					ErrCode: "session_middleware_missing",
					Err:     errors.New("session middleware not installed"),
				})
				return
			}

			snap := rs.Store.Snapshot()
			if snap.Loading {
				w.Header().Set("Retry-After", "1")
				WriteJSON(w, http.StatusAccepted, map[string]string{"status": "pending"})
				return
			}

			if snap.Identity == nil {
				redirectToLogin(w, r)
				return
			}

			if decision := domainauth.Resolve(snap.Identity, r.URL.Path); !decision.Stay() {
				redirectOrForbid(w, r, decision.Target)
				return
			}

			if !roleAllowed(snap.Identity.Role, allowed) {
				redirectOrForbid(w, r, domainauth.PathUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func roleAllowed(role domainauth.Role, allowed []domainauth.Role) bool {
	if len(allowed) == 0 {
		return true
	}
	for _, a := range allowed {
		if role == a {
			return true
		}
	}
	return false
}

// redirectToLogin sends unauthenticated browsers to login with the current
// URL preserved as redirect_uri; API callers get a 401 with the same target.
func redirectToLogin(w http.ResponseWriter, r *http.Request) {
	loginURL := loginURLForRequest(r)
	if IsBrowserRequest(r) {
		http.Redirect(w, r, loginURL, http.StatusSeeOther)
		return
	}
	WriteJSON(w, http.StatusUnauthorized, map[string]string{
		"error":       "authentication_required",
		"message":     "authentication required",
		"redirect_to": loginURL,
	})
}

// redirectOrForbid navigates browsers to target and answers API callers with
// a 403 naming it.
func redirectOrForbid(w http.ResponseWriter, r *http.Request, target string) {
	if IsBrowserRequest(r) {
		http.Redirect(w, r, target, http.StatusSeeOther)
		return
	}
	WriteJSON(w, http.StatusForbidden, map[string]string{
		"error":       "insufficient_permissions",
		"message":     "access to this page is not permitted",
		"redirect_to": target,
	})
}

// browserRequestKey is an unexported context key type for browser request detection.
type browserRequestKey struct{}

// BrowserDetection returns a middleware that detects browser requests vs API requests.
// It sets a context value that can be used by downstream handlers to determine
// whether to redirect or return JSON.
func BrowserDetection() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			isBrowser := isBrowserRequest(r)
			ctx := context.WithValue(r.Context(), browserRequestKey{}, isBrowser)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// IsBrowserRequest returns true if the current request is from a browser.
func IsBrowserRequest(r *http.Request) bool {
	if val := r.Context().Value(browserRequestKey{}); val != nil {
		if isBrowser, ok := val.(bool); ok {
			return isBrowser
		}
	}
	// Fallback to direct detection if middleware wasn't used
	return isBrowserRequest(r)
}

// isBrowserRequest determines if a request is from a browser based on:
// 1. Path prefix - API routes start with /api/
// 2. Accept header - browsers typically accept text/html.
func isBrowserRequest(r *http.Request) bool {
	if strings.HasPrefix(r.URL.Path, "/api/") {
		return false
	}

	accept := r.Header.Get("Accept")
	if accept == "" {
		// No Accept header, assume browser for non-API routes
		return true
	}
	return strings.Contains(accept, "text/html")
}

// safeRedirectPath ensures the provided redirect is a same-origin relative path
// starting with "/" and not an absolute URL. Returns "/" when invalid.
func safeRedirectPath(candidate string) string {
	if candidate == "" {
		return "/"
	}
	u, err := url.Parse(candidate)
	if err != nil || u.IsAbs() || u.Host != "" || !strings.HasPrefix(u.Path, "/") {
		return "/"
	}
	return candidate
}
