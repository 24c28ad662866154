package admin

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/wallet-console-service/internal/handle"
	"github.com/wallet-console-service/internal/handler"
	"github.com/wallet-console-service/internal/middleware"
	"github.com/wallet-console-service/internal/model"
	"github.com/wallet-console-service/internal/service"
	"github.com/wallet-console-service/internal/store"
	"github.com/wallet-console-service/internal/wallet"
)

// MintAPI submits mint orders to the wallet platform.
type MintAPI interface {
	MintItems(ctx context.Context, credential string, input wallet.MintOrderInput) (*wallet.MintOrder, error)
}

// MintHandler mints items either from a stored template (tracking supply) or
// from an inline item definition.
type MintHandler struct {
	collections store.CollectionStore
	templates   store.TemplateStore
	minter      MintAPI
	audit       *service.AuditLogger
}

func NewMintHandler(collections store.CollectionStore, templates store.TemplateStore, minter MintAPI, audit *service.AuditLogger) *MintHandler {
	return &MintHandler{collections: collections, templates: templates, minter: minter, audit: audit}
}

type mintRequest struct {
	TemplateID  string `json:"templateId"`
	Quantity    int    `json:"quantity"`
	Destination string `json:"destination"`

	// Manual mint, used when no template exists for the item.
	CollectionID string            `json:"collectionId"`
	Name         string            `json:"name"`
	Description  string            `json:"description"`
	MediaURL     string            `json:"mediaUrl"`
	Rarity       string            `json:"rarity"`
	Attributes   map[string]string `json:"attributes"`
}

func (h *MintHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req mintRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&req); err != nil {
		handler.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Quantity <= 0 {
		req.Quantity = 1
	}

	if req.TemplateID != "" {
		h.mintFromTemplate(w, r, req)
		return
	}
	h.mintManual(w, r, req)
}

func (h *MintHandler) mintFromTemplate(w http.ResponseWriter, r *http.Request, req mintRequest) {
	t, err := h.templates.GetTemplate(r.Context(), req.TemplateID)
	if err != nil {
		handler.RespondError(w, http.StatusNotFound, "Template not found")
		return
	}
	if t.TotalSupply > 0 && t.MintedCount+req.Quantity > t.TotalSupply {
		handler.RespondError(w, http.StatusBadRequest, "Mint would exceed the template's total supply")
		return
	}

	collectionID, err := h.remoteCollectionID(r.Context(), t.CollectionID)
	if err != nil {
		handler.RespondError(w, http.StatusBadRequest, "Template's collection is not registered on the platform")
		return
	}

	order, err := h.submit(w, r, wallet.MintOrderInput{
		CollectionID: collectionID,
		Items: []wallet.MintItem{{
			Name:        t.Name,
			Description: t.Description,
			MediaURL:    t.MediaURL,
			Rarity:      t.Rarity,
			Attributes:  t.Attributes,
			Quantity:    req.Quantity,
			Destination: handle.Normalize(req.Destination),
		}},
	}, map[string]interface{}{"template_id": t.ID, "quantity": req.Quantity})
	if order == nil {
		return
	}

	t.MintedCount += req.Quantity
	t.UpdatedAt = time.Now().UTC()
	if err := h.templates.UpsertTemplate(r.Context(), t); err != nil {
		log.Error().Err(err).Str("template_id", t.ID).Msg("mint succeeded but supply count update failed")
	}

	handler.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"order":    order,
		"template": t,
	})
}

func (h *MintHandler) mintManual(w http.ResponseWriter, r *http.Request, req mintRequest) {
	if req.CollectionID == "" || req.Name == "" {
		handler.RespondError(w, http.StatusBadRequest, "collectionId and name are required without a templateId")
		return
	}

	collectionID, err := h.remoteCollectionID(r.Context(), req.CollectionID)
	if err != nil {
		handler.RespondError(w, http.StatusBadRequest, "Collection is not registered on the platform")
		return
	}

	order, err := h.submit(w, r, wallet.MintOrderInput{
		CollectionID: collectionID,
		Items: []wallet.MintItem{{
			Name:        req.Name,
			Description: req.Description,
			MediaURL:    req.MediaURL,
			Rarity:      req.Rarity,
			Attributes:  req.Attributes,
			Quantity:    req.Quantity,
			Destination: handle.Normalize(req.Destination),
		}},
	}, map[string]interface{}{"collection_id": req.CollectionID, "name": req.Name, "quantity": req.Quantity})
	if order == nil || err != nil {
		return
	}

	handler.RespondJSON(w, http.StatusOK, map[string]interface{}{"order": order})
}

// remoteCollectionID resolves a local collection to its platform identifier,
// falling back to the given id when it isn't a known local collection (the
// caller may be minting straight into a platform collection).
func (h *MintHandler) remoteCollectionID(ctx context.Context, id string) (string, error) {
	c, err := h.collections.GetCollection(ctx, id)
	if err != nil {
		return id, nil
	}
	if c.RemoteID == "" {
		return "", fmt.Errorf("collection %s has no platform registration", id)
	}
	return c.RemoteID, nil
}

func (h *MintHandler) submit(w http.ResponseWriter, r *http.Request, input wallet.MintOrderInput, details map[string]interface{}) (*wallet.MintOrder, error) {
	order, err := h.minter.MintItems(r.Context(), middleware.GetCredential(r.Context()), input)
	if err != nil {
		h.auditMint(r, false, details)
		log.Error().Err(err).Msg("mint order failed")
		handler.RespondError(w, http.StatusBadGateway, "Mint order failed")
		return nil, err
	}

	details["order_id"] = order.ID
	h.auditMint(r, true, details)
	log.Info().Str("order_id", order.ID).Int("items", order.Count).Msg("mint order submitted")
	return order, nil
}

func (h *MintHandler) auditMint(r *http.Request, success bool, details map[string]interface{}) {
	event := model.AuditEvent{Type: model.AuditItemMint, Success: success, Details: details}
	if s := middleware.GetSession(r.Context()); s != nil {
		event.SessionID = s.SessionID
		event.IPAddress = s.IPAddress
		event.UserAgent = s.UserAgent
	}
	h.audit.Log(event)
}
