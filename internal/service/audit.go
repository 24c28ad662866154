package service

import (
	"time"

	"github.com/rs/zerolog/log"

	"github.com/wallet-console-service/internal/model"
	"github.com/wallet-console-service/internal/store"
)

// AuditLogger records security-relevant events. Failures are logged and
// swallowed: auditing must never break the request that triggered it.
type AuditLogger struct {
	store store.AuditStore
}

func NewAuditLogger(s store.AuditStore) *AuditLogger {
	return &AuditLogger{store: s}
}

func (a *AuditLogger) Log(event model.AuditEvent) {
	if a == nil || a.store == nil {
		return
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	if err := a.store.Append(event); err != nil {
		log.Error().Err(err).Str("type", string(event.Type)).Msg("failed to write audit event")
	}
}
