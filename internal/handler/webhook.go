package handler

import (
	"crypto/subtle"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/wallet-console-service/internal/model"
	"github.com/wallet-console-service/internal/service"
	"github.com/wallet-console-service/internal/store"
	"github.com/wallet-console-service/internal/wallet"
)

// maxWebhookSkew bounds how old a timestamped notification may be before it
// is treated as a replay.
const maxWebhookSkew = 5 * time.Minute

// PaymentWebhookHandler receives payment notifications from the platform.
// Delivery is authenticated with the app credentials in headers; payloads are
// normalized by the wallet package adapter and persisted idempotently (the
// store dedupes on transaction id, so retries are safe).
type PaymentWebhookHandler struct {
	appID     string
	appSecret string
	payments  store.PaymentStore
	audit     *service.AuditLogger
}

func NewPaymentWebhookHandler(appID, appSecret string, payments store.PaymentStore, audit *service.AuditLogger) *PaymentWebhookHandler {
	return &PaymentWebhookHandler{appID: appID, appSecret: appSecret, payments: payments, audit: audit}
}

func (h *PaymentWebhookHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		RespondJSON(w, http.StatusOK, map[string]string{
			"status":   "ok",
			"endpoint": "payment-webhook",
		})
		return
	}

	if !h.authentic(r) {
		log.Warn().Str("remote", r.RemoteAddr).Msg("webhook with invalid credentials")
		RespondError(w, http.StatusUnauthorized, "Invalid webhook credentials")
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 1<<20))
	if err != nil {
		RespondError(w, http.StatusBadRequest, "Failed to read request body")
		return
	}

	notification, err := wallet.ParsePaymentNotification(body)
	if err != nil {
		log.Warn().Err(err).Msg("unparseable webhook payload")
		RespondError(w, http.StatusBadRequest, "Invalid webhook payload")
		return
	}

	if age := time.Since(notification.PaidAt); age > maxWebhookSkew {
		log.Warn().
			Str("transaction_id", notification.TransactionID).
			Dur("age", age).
			Msg("stale webhook notification rejected")
		RespondError(w, http.StatusBadRequest, "Notification timestamp too old")
		return
	}

	payment := &model.Payment{
		ID:               uuid.NewString(),
		PaymentRequestID: notification.PaymentRequestID,
		TransactionID:    notification.TransactionID,
		Amount:           notification.Amount,
		Currency:         notification.Currency,
		PaidBy:           notification.PaidBy,
		PaidAt:           notification.PaidAt,
		Status:           model.PaymentStatus(notification.Status),
		Metadata:         notification.Raw,
	}

	if err := h.payments.SavePayment(r.Context(), payment); err != nil {
		log.Error().Err(err).Str("transaction_id", payment.TransactionID).Msg("failed to persist payment")
		RespondError(w, http.StatusInternalServerError, "Failed to record payment")
		return
	}

	h.audit.Log(model.AuditEvent{
		Type:    model.AuditWebhookReceived,
		Success: true,
		Details: map[string]interface{}{
			"payment_request_id": payment.PaymentRequestID,
			"transaction_id":     payment.TransactionID,
			"amount":             payment.Amount,
		},
	})
	log.Info().
		Str("payment_request_id", payment.PaymentRequestID).
		Str("transaction_id", payment.TransactionID).
		Msg("payment notification recorded")

	RespondJSON(w, http.StatusOK, map[string]bool{"received": true})
}

func (h *PaymentWebhookHandler) authentic(r *http.Request) bool {
	idOK := subtle.ConstantTimeCompare([]byte(r.Header.Get("App-Id")), []byte(h.appID)) == 1
	secretOK := subtle.ConstantTimeCompare([]byte(r.Header.Get("App-Secret")), []byte(h.appSecret)) == 1
	return idOK && secretOK
}
