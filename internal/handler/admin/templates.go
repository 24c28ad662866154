package admin

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/wallet-console-service/internal/handler"
	"github.com/wallet-console-service/internal/model"
	"github.com/wallet-console-service/internal/store"
)

// --- List ---

type ListTemplatesHandler struct {
	store store.TemplateStore
}

func NewListTemplatesHandler(s store.TemplateStore) *ListTemplatesHandler {
	return &ListTemplatesHandler{store: s}
}

func (h *ListTemplatesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	templates, err := h.store.ListTemplates(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("failed to list templates")
		handler.RespondError(w, http.StatusInternalServerError, "Failed to list templates")
		return
	}

	if collectionID := r.URL.Query().Get("collection_id"); collectionID != "" {
		filtered := templates[:0]
		for _, t := range templates {
			if t.CollectionID == collectionID {
				filtered = append(filtered, t)
			}
		}
		templates = filtered
	}

	handler.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"templates": templates,
		"total":     len(templates),
	})
}

// --- Create ---

type CreateTemplateHandler struct {
	collections store.CollectionStore
	templates   store.TemplateStore
}

func NewCreateTemplateHandler(collections store.CollectionStore, templates store.TemplateStore) *CreateTemplateHandler {
	return &CreateTemplateHandler{collections: collections, templates: templates}
}

type templateRequest struct {
	CollectionID string            `json:"collectionId"`
	Name         string            `json:"name"`
	Description  string            `json:"description"`
	MediaURL     string            `json:"mediaUrl"`
	Rarity       string            `json:"rarity"`
	Attributes   map[string]string `json:"attributes"`
	TotalSupply  int               `json:"totalSupply"`
}

func (h *CreateTemplateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req templateRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&req); err != nil {
		handler.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Name == "" || req.CollectionID == "" {
		handler.RespondError(w, http.StatusBadRequest, "name and collectionId are required")
		return
	}
	if req.TotalSupply < 0 {
		handler.RespondError(w, http.StatusBadRequest, "totalSupply must not be negative")
		return
	}

	if _, err := h.collections.GetCollection(r.Context(), req.CollectionID); err != nil {
		handler.RespondError(w, http.StatusBadRequest, "collectionId does not reference a known collection")
		return
	}

	now := time.Now().UTC()
	t := &model.ItemTemplate{
		ID:           uuid.NewString(),
		CollectionID: req.CollectionID,
		Name:         req.Name,
		Description:  req.Description,
		MediaURL:     req.MediaURL,
		Rarity:       req.Rarity,
		Attributes:   req.Attributes,
		TotalSupply:  req.TotalSupply,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := h.templates.UpsertTemplate(r.Context(), t); err != nil {
		log.Error().Err(err).Msg("failed to save template")
		handler.RespondError(w, http.StatusInternalServerError, "Failed to save template")
		return
	}

	handler.RespondJSON(w, http.StatusCreated, t)
}

// --- Update ---

type UpdateTemplateHandler struct {
	store store.TemplateStore
}

func NewUpdateTemplateHandler(s store.TemplateStore) *UpdateTemplateHandler {
	return &UpdateTemplateHandler{store: s}
}

func (h *UpdateTemplateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	t, err := h.store.GetTemplate(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handler.RespondError(w, http.StatusNotFound, "Template not found")
		return
	}

	var req templateRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&req); err != nil {
		handler.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Name != "" {
		t.Name = req.Name
	}
	if req.Description != "" {
		t.Description = req.Description
	}
	if req.MediaURL != "" {
		t.MediaURL = req.MediaURL
	}
	if req.Rarity != "" {
		t.Rarity = req.Rarity
	}
	if req.Attributes != nil {
		t.Attributes = req.Attributes
	}
	if req.TotalSupply > 0 {
		if req.TotalSupply < t.MintedCount {
			handler.RespondError(w, http.StatusBadRequest, "totalSupply cannot be below the minted count")
			return
		}
		t.TotalSupply = req.TotalSupply
	}
	t.UpdatedAt = time.Now().UTC()

	if err := h.store.UpsertTemplate(r.Context(), t); err != nil {
		log.Error().Err(err).Str("id", t.ID).Msg("failed to update template")
		handler.RespondError(w, http.StatusInternalServerError, "Failed to save template")
		return
	}

	handler.RespondJSON(w, http.StatusOK, t)
}

// --- Delete ---

type DeleteTemplateHandler struct {
	store store.TemplateStore
}

func NewDeleteTemplateHandler(s store.TemplateStore) *DeleteTemplateHandler {
	return &DeleteTemplateHandler{store: s}
}

func (h *DeleteTemplateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.store.DeleteTemplate(r.Context(), id); err != nil {
		handler.RespondError(w, http.StatusNotFound, "Template not found")
		return
	}
	handler.RespondJSON(w, http.StatusOK, map[string]interface{}{"id": id, "deleted": true})
}
