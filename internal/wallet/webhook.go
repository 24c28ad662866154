package wallet

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// PaymentNotification is the normalized form of a payment webhook payload.
// Raw holds the full payload for audit/metadata purposes.
type PaymentNotification struct {
	PaymentRequestID string
	TransactionID    string
	Amount           float64
	Currency         string
	PaidBy           string
	PaidAt           time.Time
	Status           string
	Raw              map[string]interface{}
}

// ParsePaymentNotification normalizes a webhook body. The platform has used
// several field names for each logical value; the alias lists below cover
// every shape seen in the wild. PaymentRequestID and TransactionID are
// required, everything else has a default.
func ParsePaymentNotification(body []byte) (*PaymentNotification, error) {
	var raw map[string]interface{}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("decode webhook payload: %w", err)
	}

	n := &PaymentNotification{
		PaymentRequestID: stringField(raw, "paymentRequestId", "payment_request_id", "requestId", "request_id"),
		TransactionID:    stringField(raw, "transactionId", "transaction_id", "txid", "id"),
		Currency:         stringField(raw, "currencyCode", "currency"),
		PaidBy:           stringField(raw, "paidBy", "paid_by", "handle", "userHandle", "user_handle"),
		Status:           stringField(raw, "status"),
		Raw:              raw,
	}

	if n.PaymentRequestID == "" || n.TransactionID == "" {
		return nil, fmt.Errorf("missing paymentRequestId or transactionId")
	}

	// amount may be a bare number, a numeric string, or nested as
	// {"amount": {"amount": N, "currencyCode": "..."}}.
	switch v := raw["amount"].(type) {
	case float64:
		n.Amount = v
	case string:
		n.Amount, _ = strconv.ParseFloat(v, 64)
	case map[string]interface{}:
		if inner, ok := v["amount"].(float64); ok {
			n.Amount = inner
		}
		if cc, ok := v["currencyCode"].(string); ok && n.Currency == "" {
			n.Currency = cc
		}
	}
	if n.Amount == 0 {
		if v, ok := raw["sendAmount"].(float64); ok {
			n.Amount = v
		}
	}

	if n.Currency == "" {
		n.Currency = "BSV"
	}
	if n.Status == "" {
		n.Status = "completed"
	}

	n.PaidAt = timeField(raw, "paidAt", "paid_at", "timestamp", "createdAt")
	return n, nil
}

func stringField(raw map[string]interface{}, names ...string) string {
	for _, name := range names {
		if v, ok := raw[name].(string); ok && v != "" {
			return v
		}
	}
	return ""
}

func timeField(raw map[string]interface{}, names ...string) time.Time {
	for _, name := range names {
		switch v := raw[name].(type) {
		case string:
			if t, err := time.Parse(time.RFC3339, v); err == nil {
				return t
			}
		case float64:
			return time.UnixMilli(int64(v)).UTC()
		}
	}
	return time.Now().UTC()
}
