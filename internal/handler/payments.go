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

// --- Balance ---

type BalanceHandler struct {
	wallet WalletAPI
}

func NewBalanceHandler(api WalletAPI) *BalanceHandler {
	return &BalanceHandler{wallet: api}
}

func (h *BalanceHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	balance, err := h.wallet.GetBalance(r.Context(), middleware.GetCredential(r.Context()))
	if err != nil {
		log.Error().Err(err).Msg("failed to fetch balance")
		service.RespondError(w, walletError(err, "Failed to fetch balance"))
		return
	}
	RespondJSON(w, http.StatusOK, balance)
}

// --- Exchange rate ---

type ExchangeRateHandler struct {
	wallet WalletAPI
}

func NewExchangeRateHandler(api WalletAPI) *ExchangeRateHandler {
	return &ExchangeRateHandler{wallet: api}
}

func (h *ExchangeRateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rate, err := h.wallet.GetExchangeRate(r.Context(), r.URL.Query().Get("currency"))
	if err != nil {
		log.Error().Err(err).Msg("failed to fetch exchange rate")
		service.RespondError(w, walletError(err, "Failed to fetch exchange rate"))
		return
	}
	RespondJSON(w, http.StatusOK, rate)
}

// --- Send payment ---

type SendPaymentHandler struct {
	wallet WalletAPI
	audit  *service.AuditLogger
}

func NewSendPaymentHandler(api WalletAPI, audit *service.AuditLogger) *SendPaymentHandler {
	return &SendPaymentHandler{wallet: api, audit: audit}
}

type sendPaymentRequest struct {
	Destination          string  `json:"destination"`
	Amount               float64 `json:"amount"`
	Currency             string  `json:"currencyCode"`
	Description          string  `json:"description"`
	DenominationCurrency string  `json:"denominationCurrencyCode"`
}

func (h *SendPaymentHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req sendPaymentRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&req); err != nil {
		RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	dest := handle.Normalize(req.Destination)
	if dest == "" {
		RespondError(w, http.StatusBadRequest, "destination is required")
		return
	}
	if req.Amount <= 0 {
		RespondError(w, http.StatusBadRequest, "amount must be greater than zero")
		return
	}

	s := middleware.GetSession(r.Context())
	h.auditPayment(model.AuditPaymentInitiated, true, s, map[string]interface{}{
		"destination": dest,
		"amount":      req.Amount,
	})

	result, err := h.wallet.SendPayment(r.Context(), middleware.GetCredential(r.Context()), wallet.PaymentInput{
		Destination:          dest,
		Amount:               req.Amount,
		Instrument:           req.Currency,
		Description:          req.Description,
		DenominationCurrency: req.DenominationCurrency,
	})
	if err != nil {
		h.auditPayment(model.AuditPaymentFailed, false, s, map[string]interface{}{
			"destination": dest,
			"amount":      req.Amount,
		})
		log.Error().Err(err).Str("destination", dest).Msg("payment failed")
		service.RespondError(w, walletError(err, "Payment failed"))
		return
	}

	h.auditPayment(model.AuditPaymentSuccess, true, s, map[string]interface{}{
		"destination":    dest,
		"amount":         req.Amount,
		"transaction_id": result.TransactionID,
	})
	log.Info().Str("destination", dest).Str("txid", result.TransactionID).Msg("payment sent")

	RespondJSON(w, http.StatusOK, result)
}

func (h *SendPaymentHandler) auditPayment(t model.AuditEventType, success bool, s *model.SessionMetadata, details map[string]interface{}) {
	event := model.AuditEvent{Type: t, Success: success, Details: details}
	if s != nil {
		event.SessionID = s.SessionID
		event.IPAddress = s.IPAddress
		event.UserAgent = s.UserAgent
	}
	h.audit.Log(event)
}
