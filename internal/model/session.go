package model

import "time"

// SessionMetadata describes one authenticated browser session. The wallet
// credential itself is never embedded here; it travels in a separate cookie
// so that logged or leaked session metadata cannot be replayed on its own.
type SessionMetadata struct {
	SessionID    string    `json:"sessionId"`
	CreatedAt    time.Time `json:"createdAt"`
	LastActivity time.Time `json:"lastActivity"`
	IPAddress    string    `json:"ipAddress,omitempty"`
	UserAgent    string    `json:"userAgent,omitempty"`
}
