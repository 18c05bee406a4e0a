package httpx

// Package httpx wires the gateway's routes: public session/auth endpoints,
// guarded page entry points, and the purchase-request API.

import (
	"log/slog"
	"net/http"

	domainauth "github.com/reqflow/approvals-ui-api/internal/domain/auth"
	"github.com/reqflow/approvals-ui-api/internal/ports"
	"github.com/reqflow/approvals-ui-api/internal/service"
)

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Sessions  *service.SessionRegistry
	Purchases *service.PurchaseService
	Extractor *service.IdentityExtractor

	// LoginURL builds the sign-in destination for the active auth mode.
	LoginURL func(redirectURI string) string

	// Provider and Establisher enable the direct-OIDC flow; both nil when
	// login is delegated to the external auth service.
	Provider    ports.AuthProvider
	Establisher LoginEstablisher

	CookieDomain string
	Logger       *slog.Logger
}

// NewRouter creates and configures the HTTP router with session middleware.
func NewRouter(services RouterServices) http.Handler {
	mux := http.NewServeMux()

	authHandlers := &AuthHandlers{
		Provider:     services.Provider,
		Establisher:  services.Establisher,
		Extractor:    services.Extractor,
		CookieDomain: services.CookieDomain,
		Logger:       services.Logger,
	}
	purchaseHandlers := &PurchaseHandlers{Svc: services.Purchases, Logger: services.Logger}
	viewHandlers := &ViewHandlers{}

	registerAuthRoutes(mux, authHandlers)
	registerPurchaseRoutes(mux, purchaseHandlers)
	registerViewRoutes(mux, viewHandlers)
	mux.Handle("GET /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("HEAD /healthz", http.HandlerFunc(healthHandler))

	session := Session(SessionConfig{
		Registry:     services.Sessions,
		LoginURL:     services.LoginURL,
		CookieDomain: services.CookieDomain,
	})
	return BrowserDetection()(session(mux))
}

func registerAuthRoutes(mux *http.ServeMux, h *AuthHandlers) {
	mux.HandleFunc("GET /auth/login", h.Login)
	mux.HandleFunc("GET /auth/callback", h.Callback)
	mux.HandleFunc("GET /auth/return", h.Return)
	mux.HandleFunc("GET /auth/status", h.Status)
	mux.HandleFunc("POST /auth/role", h.SetRole)
	mux.HandleFunc("POST /auth/logout", h.Logout)
}

func registerPurchaseRoutes(mux *http.ServeMux, h *PurchaseHandlers) {
	asUser := Protect(domainauth.RoleUser)
	asManager := Protect(domainauth.RoleManager)

	mux.Handle("GET /api/purchases/mine", asUser(http.HandlerFunc(h.ListMine)))
	mux.Handle("POST /api/purchases", asUser(http.HandlerFunc(h.Submit)))

	mux.Handle("GET /api/purchases/assigned", asManager(http.HandlerFunc(h.ListAssigned)))
	mux.Handle("POST /api/purchases/{id}/approve", asManager(http.HandlerFunc(h.Approve)))
	mux.Handle("POST /api/purchases/{id}/reject", asManager(http.HandlerFunc(h.Reject)))
}

func registerViewRoutes(mux *http.ServeMux, h *ViewHandlers) {
	// Entry pages apply the resolver themselves so loading sessions are
	// answered with a retry instead of a redirect.
	mux.HandleFunc("GET /{$}", h.Index)
	mux.HandleFunc("GET /dashboard", h.Dashboard)
	mux.HandleFunc("GET /select-role", h.SelectRole)
	mux.HandleFunc("GET /unauthorized", h.Unauthorized)

	mux.Handle("GET /user/dashboard", Protect(domainauth.RoleUser)(http.HandlerFunc(h.UserDashboard)))
	mux.Handle("GET /manager/dashboard", Protect(domainauth.RoleManager)(http.HandlerFunc(h.ManagerDashboard)))
}
