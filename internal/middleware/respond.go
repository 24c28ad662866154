package middleware

import (
	"net/http"

	"github.com/wallet-console-service/internal/httputil"
)

func respondError(w http.ResponseWriter, status int, message string) {
	httputil.RespondError(w, status, message)
}
