package model

import "time"

type PaymentStatus string

const (
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
	PaymentCancelled PaymentStatus = "cancelled"
)

// Payment is a settled payment against a payment request, recorded when the
// platform delivers a webhook notification.
type Payment struct {
	ID               string                 `json:"id"`
	PaymentRequestID string                 `json:"payment_request_id"`
	TransactionID    string                 `json:"transaction_id"`
	Amount           float64                `json:"amount"`
	Currency         string                 `json:"currency"`
	PaidBy           string                 `json:"paid_by,omitempty"`
	PaidAt           time.Time              `json:"paid_at"`
	Status           PaymentStatus          `json:"status"`
	Metadata         map[string]interface{} `json:"metadata,omitempty"`
}
