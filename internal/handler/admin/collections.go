package admin

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/wallet-console-service/internal/handler"
	"github.com/wallet-console-service/internal/middleware"
	"github.com/wallet-console-service/internal/model"
	"github.com/wallet-console-service/internal/service"
	"github.com/wallet-console-service/internal/store"
)

// RemoteCollectionAPI registers collections on the wallet platform.
type RemoteCollectionAPI interface {
	CreateCollection(ctx context.Context, credential, name, description, imageURL string) (string, error)
}

// --- List ---

type ListCollectionsHandler struct {
	store store.CollectionStore
}

func NewListCollectionsHandler(s store.CollectionStore) *ListCollectionsHandler {
	return &ListCollectionsHandler{store: s}
}

func (h *ListCollectionsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	collections, err := h.store.ListCollections(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("failed to list collections")
		handler.RespondError(w, http.StatusInternalServerError, "Failed to list collections")
		return
	}
	handler.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"collections": collections,
		"total":       len(collections),
	})
}

// --- Get ---

type GetCollectionHandler struct {
	store store.CollectionStore
}

func NewGetCollectionHandler(s store.CollectionStore) *GetCollectionHandler {
	return &GetCollectionHandler{store: s}
}

func (h *GetCollectionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	c, err := h.store.GetCollection(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handler.RespondError(w, http.StatusNotFound, "Collection not found")
		return
	}
	handler.RespondJSON(w, http.StatusOK, c)
}

// --- Create ---

type CreateCollectionHandler struct {
	store  store.CollectionStore
	remote RemoteCollectionAPI
	audit  *service.AuditLogger
}

func NewCreateCollectionHandler(s store.CollectionStore, remote RemoteCollectionAPI, audit *service.AuditLogger) *CreateCollectionHandler {
	return &CreateCollectionHandler{store: s, remote: remote, audit: audit}
}

type collectionRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl"`
	Register    bool   `json:"register"`
}

func (h *CreateCollectionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req collectionRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&req); err != nil {
		handler.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Name == "" {
		handler.RespondError(w, http.StatusBadRequest, "name is required")
		return
	}

	now := time.Now().UTC()
	c := &model.Collection{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if req.Register {
		remoteID, err := h.remote.CreateCollection(r.Context(), middleware.GetCredential(r.Context()), req.Name, req.Description, req.ImageURL)
		if err != nil {
			log.Error().Err(err).Str("name", req.Name).Msg("platform collection registration failed")
			handler.RespondError(w, http.StatusBadGateway, "Failed to register collection on platform")
			return
		}
		c.RemoteID = remoteID
	}

	if err := h.store.UpsertCollection(r.Context(), c); err != nil {
		log.Error().Err(err).Msg("failed to save collection")
		handler.RespondError(w, http.StatusInternalServerError, "Failed to save collection")
		return
	}

	h.auditChange(r, c.ID, "created")
	handler.RespondJSON(w, http.StatusCreated, c)
}

func (h *CreateCollectionHandler) auditChange(r *http.Request, id, action string) {
	auditCollectionChange(h.audit, r, id, action)
}

// --- Update ---

type UpdateCollectionHandler struct {
	store store.CollectionStore
	audit *service.AuditLogger
}

func NewUpdateCollectionHandler(s store.CollectionStore, audit *service.AuditLogger) *UpdateCollectionHandler {
	return &UpdateCollectionHandler{store: s, audit: audit}
}

func (h *UpdateCollectionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	c, err := h.store.GetCollection(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handler.RespondError(w, http.StatusNotFound, "Collection not found")
		return
	}

	var req collectionRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&req); err != nil {
		handler.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Name != "" {
		c.Name = req.Name
	}
	if req.Description != "" {
		c.Description = req.Description
	}
	if req.ImageURL != "" {
		c.ImageURL = req.ImageURL
	}
	c.UpdatedAt = time.Now().UTC()

	if err := h.store.UpsertCollection(r.Context(), c); err != nil {
		log.Error().Err(err).Str("id", c.ID).Msg("failed to update collection")
		handler.RespondError(w, http.StatusInternalServerError, "Failed to save collection")
		return
	}

	auditCollectionChange(h.audit, r, c.ID, "updated")
	handler.RespondJSON(w, http.StatusOK, c)
}

// --- Delete ---

type DeleteCollectionHandler struct {
	store store.CollectionStore
	audit *service.AuditLogger
}

func NewDeleteCollectionHandler(s store.CollectionStore, audit *service.AuditLogger) *DeleteCollectionHandler {
	return &DeleteCollectionHandler{store: s, audit: audit}
}

func (h *DeleteCollectionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.store.DeleteCollection(r.Context(), id); err != nil {
		handler.RespondError(w, http.StatusNotFound, "Collection not found")
		return
	}

	auditCollectionChange(h.audit, r, id, "deleted")
	handler.RespondJSON(w, http.StatusOK, map[string]interface{}{"id": id, "deleted": true})
}

func auditCollectionChange(audit *service.AuditLogger, r *http.Request, id, action string) {
	event := model.AuditEvent{
		Type:    model.AuditCollectionChanged,
		Success: true,
		Details: map[string]interface{}{"collection_id": id, "action": action},
	}
	if s := middleware.GetSession(r.Context()); s != nil {
		event.SessionID = s.SessionID
		event.IPAddress = s.IPAddress
		event.UserAgent = s.UserAgent
	}
	audit.Log(event)
}
