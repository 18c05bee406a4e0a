package httpx

import (
	"context"
	"errors"
	"net/http"

	apperrors "github.com/reqflow/approvals-ui-api/internal/errors"
	"github.com/reqflow/approvals-ui-api/internal/service"
)

// StatusForError maps an application error to the HTTP status it should be
// reported with. Unknown errors are internal.
func StatusForError(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return http.StatusRequestTimeout
	case errors.Is(err, service.ErrStaleFetch):
		// The fetch was superseded; nothing was applied and nothing failed.
		return http.StatusNoContent
	}

	switch apperrors.GetCode(err) {
	case apperrors.ErrCodeValidation:
		return http.StatusBadRequest
	case apperrors.ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case apperrors.ErrCodeForbidden:
		return http.StatusForbidden
	case apperrors.ErrCodeNotFound:
		return http.StatusNotFound
	case apperrors.ErrCodeUnavailable:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// WriteAppError renders an application error as a JSON error response.
// Unauthorized errors additionally carry the login URL so browsers know
// where to go next; the session was already cleared by the service layer.
func WriteAppError(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusForError(err)
	if status == http.StatusNoContent {
		w.WriteHeader(status)
		return
	}

	code := apperrors.GetCode(err)
	if code == "" {
		code = apperrors.ErrCodeInternal
	}

	p := ErrorParams{
		Code:    status,
		ErrCode: string(code),
		Err:     err,
		Field:   apperrors.GetField(err),
	}
	if status == http.StatusUnauthorized {
		writeUnauthorized(w, r, p)
		return
	}
	WriteError(w, p)
}

// writeUnauthorized adds the login destination to 401 responses. API callers
// read redirect_to; browsers are redirected outright.
func writeUnauthorized(w http.ResponseWriter, r *http.Request, p ErrorParams) {
	loginURL := loginURLForRequest(r)
	if IsBrowserRequest(r) {
		http.Redirect(w, r, loginURL, http.StatusSeeOther)
		return
	}
	WriteJSON(w, p.Code, map[string]string{
		"error":       p.ErrCode,
		"message":     p.Err.Error(),
		"redirect_to": loginURL,
	})
}
