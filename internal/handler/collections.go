package handler

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/wallet-console-service/internal/store"
)

// CollectionsHandler serves the public read-only collection list.
type CollectionsHandler struct {
	store store.CollectionStore
}

func NewCollectionsHandler(s store.CollectionStore) *CollectionsHandler {
	return &CollectionsHandler{store: s}
}

func (h *CollectionsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	collections, err := h.store.ListCollections(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("failed to list collections")
		RespondError(w, http.StatusInternalServerError, "Failed to list collections")
		return
	}
	RespondJSON(w, http.StatusOK, map[string]interface{}{
		"collections": collections,
		"total":       len(collections),
	})
}
