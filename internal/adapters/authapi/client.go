package authapi

// Package authapi is the HTTP client for the external auth service. It
// forwards the browser's cookies so the backend sees the same session the
// user holds.

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	domainauth "github.com/reqflow/approvals-ui-api/internal/domain/auth"
	apperrors "github.com/reqflow/approvals-ui-api/internal/errors"
	"github.com/reqflow/approvals-ui-api/internal/ports"
)

// Client talks to the external auth service.
type Client struct {
	baseURL string
	http    *http.Client
}

// ClientOptions groups construction parameters for Client.
type ClientOptions struct {
	BaseURL string
	Timeout time.Duration
	// HTTPClient overrides the default client (tests).
	HTTPClient *http.Client
}

// NewClient creates an auth backend client.
func NewClient(opts ClientOptions) *Client {
	hc := opts.HTTPClient
	if hc == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		hc = &http.Client{Timeout: timeout}
	}
	return &Client{baseURL: opts.BaseURL, http: hc}
}

var _ ports.AuthBackend = (*Client)(nil)

// statusPayload is the wire shape of GET /auth/status.
type statusPayload struct {
	Authenticated bool         `json:"authenticated"`
	User          *userPayload `json:"user,omitempty"`
}

// userPayload is the wire shape of an identity in auth service responses.
type userPayload struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
	Role     string `json:"role,omitempty"`
}

func (u *userPayload) toIdentity() domainauth.Identity {
	role, _ := domainauth.ParseRole(u.Role)
	return domainauth.Identity{
		ID:       u.ID,
		Email:    u.Email,
		FullName: u.FullName,
		Role:     role,
	}
}

// Status queries GET /auth/status with the forwarded cookies.
func (c *Client) Status(ctx context.Context, creds ports.Credentials) (ports.AuthStatus, error) {
	var out statusPayload
	if err := c.do(ctx, doParams{
		Method: http.MethodGet,
		Path:   "/auth/status",
		Creds:  creds,
		Out:    &out,
	}); err != nil {
		return ports.AuthStatus{}, err
	}

	if !out.Authenticated || out.User == nil {
		return ports.AuthStatus{Authenticated: false}, nil
	}
	identity := out.User.toIdentity()
	return ports.AuthStatus{Authenticated: true, Identity: &identity}, nil
}

// SetRole posts the chosen role and returns the updated identity.
func (c *Client) SetRole(ctx context.Context, creds ports.Credentials, role domainauth.Role) (domainauth.Identity, error) {
	var out struct {
		User *userPayload `json:"user"`
	}
	err := c.do(ctx, doParams{
		Method: http.MethodPost,
		Path:   "/auth/set-role",
		Creds:  creds,
		Body:   map[string]string{"role": string(role)},
		Out:    &out,
	})
	if err != nil {
		return domainauth.Identity{}, err
	}
	if out.User == nil {
		return domainauth.Identity{}, apperrors.Internal("set-role response missing user")
	}
	return out.User.toIdentity(), nil
}

// Logout posts to the auth service logout endpoint.
func (c *Client) Logout(ctx context.Context, creds ports.Credentials) error {
	return c.do(ctx, doParams{
		Method: http.MethodPost,
		Path:   "/auth/logout",
		Creds:  creds,
	})
}

// LoginURL returns the provider-flow entry point on the auth service. The
// redirect there is a full-page navigation, never fetched. redirectURI must
// already be query-escaped by the caller.
func (c *Client) LoginURL(redirectURI string) string {
	if redirectURI == "" {
		return c.baseURL + "/auth/google"
	}
	return c.baseURL + "/auth/google?redirect_uri=" + redirectURI
}

// doParams groups request parameters for do.
type doParams struct {
	Method string
	Path   string
	Creds  ports.Credentials
	Body   any
	Out    any
}

func (c *Client) do(ctx context.Context, p doParams) error {
	var body io.Reader
	if p.Body != nil {
		raw, err := json.Marshal(p.Body)
		if err != nil {
			return apperrors.Wrap(err, apperrors.ErrCodeInternal, "encode request body")
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, p.Method, c.baseURL+p.Path, body)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeInternal, "build request")
	}
	if p.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if p.Creds.Cookie != "" {
		req.Header.Set("Cookie", p.Creds.Cookie)
	}
	req.Header.Set("X-Request-Id", uuid.NewString())

	resp, err := c.http.Do(req)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeUnavailable, "auth backend unreachable")
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return apperrors.Unauthorized("auth backend rejected the session")
	case resp.StatusCode >= 300:
		return apperrors.Wrap(
			fmt.Errorf("auth backend returned %d", resp.StatusCode),
			apperrors.ErrCodeUnavailable,
			"auth backend error",
		)
	}

	if p.Out != nil {
		if decodeErr := json.NewDecoder(resp.Body).Decode(p.Out); decodeErr != nil {
			return apperrors.Wrap(decodeErr, apperrors.ErrCodeUnavailable, "decode auth backend response")
		}
	}
	return nil
}
