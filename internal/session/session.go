// Package session implements the session-metadata layer that accompanies the
// wallet credential cookie: high-entropy session IDs, inactivity expiry, and
// the origin-consistency check that detects token replay from a different
// network or client.
package session

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/wallet-console-service/internal/model"
)

// DefaultMaxAge is the inactivity window after which a session expires.
const DefaultMaxAge = 30 * 24 * time.Hour

// Sessions created before this date predate fingerprint recording and are
// granted a migration grace period in production.
var migrationCutover = time.Date(2024, time.December, 19, 0, 0, 0, 0, time.UTC)

// GenerateID returns a 64-character hex session ID from 32 bytes of
// cryptographically secure randomness.
func GenerateID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("crypto/rand failed: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// New creates session metadata for a freshly authenticated browser,
// recording the origin fingerprint as seen at login.
func New(ipAddress, userAgent string) (model.SessionMetadata, error) {
	id, err := GenerateID()
	if err != nil {
		return model.SessionMetadata{}, err
	}
	now := time.Now().UTC()
	return model.SessionMetadata{
		SessionID:    id,
		CreatedAt:    now,
		LastActivity: now,
		IPAddress:    ipAddress,
		UserAgent:    userAgent,
	}, nil
}

// Touch returns a copy of the session with LastActivity set to now.
func Touch(s model.SessionMetadata) model.SessionMetadata {
	s.LastActivity = time.Now().UTC()
	return s
}

// IsExpired reports whether the session has been inactive longer than maxAge.
// A non-positive maxAge falls back to DefaultMaxAge.
func IsExpired(s model.SessionMetadata, maxAge time.Duration) bool {
	if maxAge <= 0 {
		maxAge = DefaultMaxAge
	}
	return time.Since(s.LastActivity) > maxAge
}

// IsConsistent checks the stored origin fingerprint against the current
// request's. Outside production an incomplete fingerprint always passes. In
// production an incomplete fingerprint is a legacy record: it passes only if
// the session predates the migration cutover or is older than the default
// inactivity window. Complete fingerprints require exact equality of both
// IP address and user agent.
func IsConsistent(s model.SessionMetadata, currentIP, currentUserAgent string, production bool) bool {
	if !production && (s.IPAddress == "" || s.UserAgent == "") {
		return true
	}

	if s.IPAddress == "" || s.UserAgent == "" {
		if s.CreatedAt.Before(migrationCutover) || time.Since(s.CreatedAt) > DefaultMaxAge {
			return true
		}
		return false
	}

	return s.IPAddress == currentIP && s.UserAgent == currentUserAgent
}
