package handler

import (
	"errors"
	"net/http"

	"github.com/wallet-console-service/internal/httputil"
	"github.com/wallet-console-service/internal/service"
	"github.com/wallet-console-service/internal/wallet"
)

// ErrorResponse is the standard JSON error response body.
type ErrorResponse = httputil.ErrorResponse

// RespondJSON writes a JSON response with the given status code.
func RespondJSON(w http.ResponseWriter, status int, data interface{}) {
	httputil.RespondJSON(w, status, data)
}

// RespondError writes a JSON error response.
func RespondError(w http.ResponseWriter, status int, message string) {
	httputil.RespondError(w, status, message)
}

// walletError translates a platform client error into a domain error: a 401
// from the platform means the stored credential is no longer valid, anything
// else is an upstream failure reported with the caller-facing message.
func walletError(err error, message string) error {
	var apiErr *wallet.APIError
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized {
		return service.NewUnauthorized("Not authenticated")
	}
	return service.NewBadGateway(message).WithDetails(err.Error())
}
