package admin

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/wallet-console-service/internal/handler"
	"github.com/wallet-console-service/internal/httputil"
	"github.com/wallet-console-service/internal/model"
	"github.com/wallet-console-service/internal/store"
)

// --- List payments ---

type ListPaymentsHandler struct {
	store store.PaymentStore
}

func NewListPaymentsHandler(s store.PaymentStore) *ListPaymentsHandler {
	return &ListPaymentsHandler{store: s}
}

type paymentsResponse struct {
	Payments []*model.Payment `json:"payments"`
	Total    int              `json:"total"`
	Page     int              `json:"page"`
	PerPage  int              `json:"per_page"`
}

func (h *ListPaymentsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	page, perPage, err := httputil.ParsePagination(r.URL.Query().Get("page"), r.URL.Query().Get("per_page"))
	if err != nil {
		handler.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	payments, err := h.store.ListPayments(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("failed to list payments")
		handler.RespondError(w, http.StatusInternalServerError, "Failed to list payments")
		return
	}

	handler.RespondJSON(w, http.StatusOK, paymentsResponse{
		Payments: paginate(payments, page, perPage),
		Total:    len(payments),
		Page:     page,
		PerPage:  perPage,
	})
}

// --- Payments for one payment request ---

type PaymentRequestPaymentsHandler struct {
	store store.PaymentStore
}

func NewPaymentRequestPaymentsHandler(s store.PaymentStore) *PaymentRequestPaymentsHandler {
	return &PaymentRequestPaymentsHandler{store: s}
}

func (h *PaymentRequestPaymentsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	requestID := chi.URLParam(r, "id")

	payments, err := h.store.ListPaymentsByRequest(r.Context(), requestID)
	if err != nil {
		log.Error().Err(err).Str("payment_request_id", requestID).Msg("failed to list payments for request")
		handler.RespondError(w, http.StatusInternalServerError, "Failed to list payments")
		return
	}

	handler.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"payment_request_id": requestID,
		"payments":           payments,
		"total":              len(payments),
	})
}

func paginate(payments []*model.Payment, page, perPage int) []*model.Payment {
	start := (page - 1) * perPage
	if start >= len(payments) {
		return []*model.Payment{}
	}
	end := start + perPage
	if end > len(payments) {
		end = len(payments)
	}
	return payments[start:end]
}
