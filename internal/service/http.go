package service

import (
	"errors"
	"net/http"

	"github.com/wallet-console-service/internal/httputil"
)

// HTTPStatus maps an ErrorKind to its corresponding HTTP status code.
func (k ErrorKind) HTTPStatus() int {
	switch k {
	case ErrBadRequest:
		return http.StatusBadRequest
	case ErrUnauthorized:
		return http.StatusUnauthorized
	case ErrForbidden:
		return http.StatusForbidden
	case ErrNotFound:
		return http.StatusNotFound
	case ErrInternal:
		return http.StatusInternalServerError
	case ErrBadGateway:
		return http.StatusBadGateway
	case ErrUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

var exposeDetails bool

// ExposeDetails controls whether Error.Details is written to responses.
// Enabled outside production only; diagnostic text never reaches
// production clients.
func ExposeDetails(enabled bool) {
	exposeDetails = enabled
}

// RespondError writes an appropriate HTTP error response for a service error.
// If the error is a *service.Error, it uses the error's kind and message.
// Otherwise, it returns a generic 500.
func RespondError(w http.ResponseWriter, err error) {
	var svcErr *Error
	if errors.As(err, &svcErr) {
		if svcErr.Details != "" && exposeDetails {
			httputil.RespondErrorDetails(w, svcErr.Kind.HTTPStatus(), svcErr.Message, svcErr.Details)
			return
		}
		httputil.RespondError(w, svcErr.Kind.HTTPStatus(), svcErr.Message)
		return
	}
	httputil.RespondError(w, http.StatusInternalServerError, "An unexpected error occurred")
}
