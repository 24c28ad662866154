package handler

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/wallet-console-service/internal/handle"
	"github.com/wallet-console-service/internal/middleware"
	"github.com/wallet-console-service/internal/model"
	"github.com/wallet-console-service/internal/service"
	"github.com/wallet-console-service/internal/wallet"
)

// --- Inventory ---

type InventoryHandler struct {
	wallet WalletAPI
}

func NewInventoryHandler(api WalletAPI) *InventoryHandler {
	return &InventoryHandler{wallet: api}
}

func (h *InventoryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	items, err := h.wallet.GetInventory(r.Context(), middleware.GetCredential(r.Context()))
	if err != nil {
		log.Error().Err(err).Msg("failed to fetch inventory")
		service.RespondError(w, walletError(err, "Failed to fetch inventory"))
		return
	}
	RespondJSON(w, http.StatusOK, map[string]interface{}{"items": items, "total": len(items)})
}

// --- Transfer ---

type TransferItemsHandler struct {
	wallet WalletAPI
	audit  *service.AuditLogger
}

func NewTransferItemsHandler(api WalletAPI, audit *service.AuditLogger) *TransferItemsHandler {
	return &TransferItemsHandler{wallet: api, audit: audit}
}

type transferRequest struct {
	Destinations []struct {
		Destination string   `json:"destination"`
		Origins     []string `json:"origins"`
	} `json:"destinations"`
}

func (h *TransferItemsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req transferRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&req); err != nil {
		RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if len(req.Destinations) == 0 {
		RespondError(w, http.StatusBadRequest, "destinations is required")
		return
	}

	input := wallet.TransferInput{Destinations: make([]wallet.TransferDestination, 0, len(req.Destinations))}
	for _, d := range req.Destinations {
		dest := handle.Normalize(d.Destination)
		if dest == "" || len(d.Origins) == 0 {
			RespondError(w, http.StatusBadRequest, "each destination needs a handle and at least one origin")
			return
		}
		input.Destinations = append(input.Destinations, wallet.TransferDestination{
			Destination: dest,
			Origins:     d.Origins,
		})
	}

	result, err := h.wallet.TransferItems(r.Context(), middleware.GetCredential(r.Context()), input)
	if err != nil {
		h.auditItems(model.AuditItemTransfer, false, r, map[string]interface{}{"destinations": len(input.Destinations)})
		log.Error().Err(err).Msg("item transfer failed")
		service.RespondError(w, walletError(err, "Item transfer failed"))
		return
	}

	h.auditItems(model.AuditItemTransfer, true, r, map[string]interface{}{
		"destinations":   len(input.Destinations),
		"items":          result.Count,
		"transaction_id": result.TransactionID,
	})
	RespondJSON(w, http.StatusOK, result)
}

func (h *TransferItemsHandler) auditItems(t model.AuditEventType, success bool, r *http.Request, details map[string]interface{}) {
	event := model.AuditEvent{Type: t, Success: success, Details: details}
	if s := middleware.GetSession(r.Context()); s != nil {
		event.SessionID = s.SessionID
		event.IPAddress = s.IPAddress
		event.UserAgent = s.UserAgent
	}
	h.audit.Log(event)
}

// --- Burn ---

type BurnItemHandler struct {
	wallet WalletAPI
	audit  *service.AuditLogger
}

func NewBurnItemHandler(api WalletAPI, audit *service.AuditLogger) *BurnItemHandler {
	return &BurnItemHandler{wallet: api, audit: audit}
}

type burnRequest struct {
	Origin string `json:"origin"`
}

func (h *BurnItemHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req burnRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&req); err != nil || req.Origin == "" {
		RespondError(w, http.StatusBadRequest, "origin is required")
		return
	}

	if err := h.wallet.BurnItem(r.Context(), middleware.GetCredential(r.Context()), req.Origin); err != nil {
		h.auditBurn(false, r, req.Origin)
		log.Error().Err(err).Str("origin", req.Origin).Msg("item burn failed")
		service.RespondError(w, walletError(err, "Item burn failed"))
		return
	}

	h.auditBurn(true, r, req.Origin)
	RespondJSON(w, http.StatusOK, map[string]interface{}{"success": true, "origin": req.Origin})
}

func (h *BurnItemHandler) auditBurn(success bool, r *http.Request, origin string) {
	event := model.AuditEvent{
		Type:    model.AuditItemBurn,
		Success: success,
		Details: map[string]interface{}{"origin": origin},
	}
	if s := middleware.GetSession(r.Context()); s != nil {
		event.SessionID = s.SessionID
		event.IPAddress = s.IPAddress
		event.UserAgent = s.UserAgent
	}
	h.audit.Log(event)
}
