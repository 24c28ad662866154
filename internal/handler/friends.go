package handler

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/wallet-console-service/internal/middleware"
	"github.com/wallet-console-service/internal/service"
)

type FriendsHandler struct {
	wallet WalletAPI
}

func NewFriendsHandler(api WalletAPI) *FriendsHandler {
	return &FriendsHandler{wallet: api}
}

func (h *FriendsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	friends, err := h.wallet.GetFriends(r.Context(), middleware.GetCredential(r.Context()))
	if err != nil {
		log.Error().Err(err).Msg("failed to fetch friends")
		service.RespondError(w, walletError(err, "Failed to fetch friends"))
		return
	}
	RespondJSON(w, http.StatusOK, map[string]interface{}{"friends": friends, "total": len(friends)})
}
