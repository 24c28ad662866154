package session

import (
	"testing"
	"time"

	"github.com/wallet-console-service/internal/model"
)

func TestGenerateIDLengthAndUniqueness(t *testing.T) {
	a, err := GenerateID()
	if err != nil {
		t.Fatalf("GenerateID: %v", err)
	}
	if len(a) != 64 {
		t.Fatalf("expected 64 hex chars, got %d", len(a))
	}

	b, err := GenerateID()
	if err != nil {
		t.Fatalf("GenerateID: %v", err)
	}
	if a == b {
		t.Fatal("two generated session IDs collided")
	}
}

func TestNewRecordsFingerprint(t *testing.T) {
	s, err := New("203.0.113.7", "Mozilla/5.0")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if s.IPAddress != "203.0.113.7" || s.UserAgent != "Mozilla/5.0" {
		t.Fatalf("fingerprint not recorded: %+v", s)
	}
	if !s.CreatedAt.Equal(s.LastActivity) {
		t.Fatal("CreatedAt and LastActivity should match at creation")
	}
}

func TestTouchUpdatesLastActivityOnly(t *testing.T) {
	s, _ := New("203.0.113.7", "Mozilla/5.0")
	s.LastActivity = time.Now().Add(-time.Hour)
	created := s.CreatedAt

	touched := Touch(s)
	if !touched.LastActivity.After(s.LastActivity) {
		t.Fatal("Touch did not advance LastActivity")
	}
	if !touched.CreatedAt.Equal(created) {
		t.Fatal("Touch must not change CreatedAt")
	}
	if s.LastActivity.After(time.Now().Add(-time.Minute)) {
		t.Fatal("Touch mutated the original session")
	}
}

func TestIsExpiredBoundary(t *testing.T) {
	s := model.SessionMetadata{LastActivity: time.Now().Add(-DefaultMaxAge + time.Millisecond)}
	if IsExpired(s, 0) {
		t.Fatal("session just inside the window should not be expired")
	}

	s.LastActivity = time.Now().Add(-DefaultMaxAge - time.Second)
	if !IsExpired(s, 0) {
		t.Fatal("session past the window should be expired")
	}
}

func TestIsConsistentExactMatch(t *testing.T) {
	s := model.SessionMetadata{
		CreatedAt: time.Now(),
		IPAddress: "203.0.113.7",
		UserAgent: "Mozilla/5.0",
	}

	if !IsConsistent(s, "203.0.113.7", "Mozilla/5.0", true) {
		t.Fatal("identical fingerprint should pass in production")
	}
	if IsConsistent(s, "198.51.100.1", "Mozilla/5.0", true) {
		t.Fatal("IP mismatch should fail in production")
	}
	if IsConsistent(s, "203.0.113.7", "curl/8.0", true) {
		t.Fatal("user-agent mismatch should fail in production")
	}
}

func TestIsConsistentDevelopmentAllowsMissingFields(t *testing.T) {
	s := model.SessionMetadata{CreatedAt: time.Now()}
	if !IsConsistent(s, "203.0.113.7", "Mozilla/5.0", false) {
		t.Fatal("missing fingerprint should pass outside production")
	}
}

func TestIsConsistentProductionLegacyGrace(t *testing.T) {
	// Session created before the migration cutover: allowed.
	old := model.SessionMetadata{CreatedAt: time.Date(2024, 11, 1, 0, 0, 0, 0, time.UTC)}
	if !IsConsistent(old, "203.0.113.7", "Mozilla/5.0", true) {
		t.Fatal("pre-cutover session without fingerprint should pass")
	}

	// Session older than the inactivity window: allowed.
	aged := model.SessionMetadata{CreatedAt: time.Now().Add(-DefaultMaxAge - time.Hour)}
	if !IsConsistent(aged, "203.0.113.7", "Mozilla/5.0", true) {
		t.Fatal("very old session without fingerprint should pass")
	}

	// Fresh session without a fingerprint: denied.
	fresh := model.SessionMetadata{CreatedAt: time.Now()}
	if IsConsistent(fresh, "203.0.113.7", "Mozilla/5.0", true) {
		t.Fatal("fresh session without fingerprint must be denied in production")
	}
}
