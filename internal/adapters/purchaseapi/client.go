package purchaseapi

// Package purchaseapi is the HTTP client for the purchase-request service.
// A 401 from any endpoint is surfaced as an unauthorized AppError so callers
// can treat it uniformly as "session invalid".

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/reqflow/approvals-ui-api/internal/domain/purchase"
	apperrors "github.com/reqflow/approvals-ui-api/internal/errors"
	"github.com/reqflow/approvals-ui-api/internal/ports"
)

// Client talks to the purchase-request service.
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

// NewClient creates a purchase backend client.
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

var _ ports.PurchaseBackend = (*Client)(nil)

// listPayload is the wire shape of both list endpoints.
type listPayload struct {
	Requests []purchase.Request `json:"requests"`
}

// ListMine fetches GET /purchases/{userId}.
func (c *Client) ListMine(ctx context.Context, creds ports.Credentials, userID string) ([]purchase.Request, error) {
	if userID == "" {
		return nil, apperrors.Validation("user ID is required")
	}
	var out listPayload
	err := c.do(ctx, doParams{
		Method: http.MethodGet,
		Path:   "/purchases/" + url.PathEscape(userID),
		Creds:  creds,
		Out:    &out,
	})
	if err != nil {
		return nil, err
	}
	return out.Requests, nil
}

// ListAssigned fetches GET /purchases/manager.
func (c *Client) ListAssigned(ctx context.Context, creds ports.Credentials) ([]purchase.Request, error) {
	var out listPayload
	err := c.do(ctx, doParams{
		Method: http.MethodGet,
		Path:   "/purchases/manager",
		Creds:  creds,
		Out:    &out,
	})
	if err != nil {
		return nil, err
	}
	return out.Requests, nil
}

// Submit posts a new request. The backend persists the authoritative total.
func (c *Client) Submit(ctx context.Context, creds ports.Credentials, draft purchase.Draft) error {
	body := map[string]any{
		"userId":          draft.UserID,
		"description":     draft.Description,
		"itemName":        draft.ItemName,
		"quantity":        draft.Quantity,
		"unitPrice":       draft.UnitPrice,
		"totalPrice":      draft.Total(),
		"shippingCharges": draft.ShippingCharges,
		"taxAmount":       draft.TaxAmount,
		"approverEmail":   draft.ApproverEmail,
		"senderEmail":     draft.SenderEmail,
	}
	return c.do(ctx, doParams{
		Method: http.MethodPost,
		Path:   "/purchases",
		Creds:  creds,
		Body:   body,
	})
}

// Approve puts PUT /purchases/{id}/approve.
func (c *Client) Approve(ctx context.Context, creds ports.Credentials, id string) error {
	if id == "" {
		return apperrors.Validation("request ID is required")
	}
	return c.do(ctx, doParams{
		Method: http.MethodPut,
		Path:   "/purchases/" + url.PathEscape(id) + "/approve",
		Creds:  creds,
	})
}

// Reject puts PUT /purchases/{id}/reject with the reason.
func (c *Client) Reject(ctx context.Context, creds ports.Credentials, id, reason string) error {
	if id == "" {
		return apperrors.Validation("request ID is required")
	}
	return c.do(ctx, doParams{
		Method: http.MethodPut,
		Path:   "/purchases/" + url.PathEscape(id) + "/reject",
		Creds:  creds,
		Body:   map[string]string{"reason": reason},
	})
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
		return apperrors.Wrap(err, apperrors.ErrCodeUnavailable, "purchase backend unreachable")
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return apperrors.Unauthorized("purchase backend rejected the session")
	case resp.StatusCode >= 300:
		return apperrors.Wrap(
			fmt.Errorf("purchase backend returned %d", resp.StatusCode),
			apperrors.ErrCodeUnavailable,
			errorMessage(resp),
		)
	}

	if p.Out != nil {
		if decodeErr := json.NewDecoder(resp.Body).Decode(p.Out); decodeErr != nil {
			return apperrors.Wrap(decodeErr, apperrors.ErrCodeUnavailable, "decode purchase backend response")
		}
	}
	return nil
}

// errorMessage pulls the backend's error field when one is present, falling
// back to a generic message.
func errorMessage(resp *http.Response) string {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&payload); err == nil && payload.Error != "" {
		return payload.Error
	}
	return "purchase backend error"
}
