package model

import "time"

type AuditEventType string

const (
	AuditLoginSuccess      AuditEventType = "login_success"
	AuditLoginFailure      AuditEventType = "login_failure"
	AuditLogout            AuditEventType = "logout"
	AuditPaymentInitiated  AuditEventType = "payment_initiated"
	AuditPaymentSuccess    AuditEventType = "payment_success"
	AuditPaymentFailed     AuditEventType = "payment_failed"
	AuditItemMint          AuditEventType = "item_mint"
	AuditItemTransfer      AuditEventType = "item_transfer"
	AuditItemBurn          AuditEventType = "item_burn"
	AuditAdminDenied       AuditEventType = "admin_access_denied"
	AuditWebhookReceived   AuditEventType = "webhook_received"
	AuditCollectionChanged AuditEventType = "collection_changed"
)

// AuditEvent is a single line in the append-only audit log.
type AuditEvent struct {
	Type      AuditEventType         `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Success   bool                   `json:"success"`
	SessionID string                 `json:"session_id,omitempty"`
	IPAddress string                 `json:"ip_address,omitempty"`
	UserAgent string                 `json:"user_agent,omitempty"`
	Details   map[string]interface{} `json:"details,omitempty"`
}
