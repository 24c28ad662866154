package service

import (
	"strings"
	"testing"
	"time"
)

func TestGenerateKeyPair(t *testing.T) {
	h := NewHandshake("secret", 0)

	kp, err := h.GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}
	if len(kp.PrivateKey) != 64 {
		t.Fatalf("private key should be 32 hex bytes, got %d chars", len(kp.PrivateKey))
	}
	if len(kp.PublicKey) != 66 {
		t.Fatalf("public key should be compressed (33 bytes), got %d chars", len(kp.PublicKey))
	}
	if !strings.HasPrefix(kp.PublicKey, "02") && !strings.HasPrefix(kp.PublicKey, "03") {
		t.Fatalf("compressed public key should start with 02 or 03: %s", kp.PublicKey[:2])
	}

	kp2, _ := h.GenerateKeyPair()
	if kp.PrivateKey == kp2.PrivateKey {
		t.Fatal("two generated keypairs collided")
	}
}

func TestHandshakeTokenRoundTrip(t *testing.T) {
	h := NewHandshake("secret", time.Minute)

	token, err := h.IssueToken("credential-abc")
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}

	got, err := h.VerifyToken(token)
	if err != nil {
		t.Fatalf("VerifyToken: %v", err)
	}
	if got != "credential-abc" {
		t.Fatalf("credential = %q, want %q", got, "credential-abc")
	}
}

func TestHandshakeTokenWrongSecret(t *testing.T) {
	token, _ := NewHandshake("secret-a", time.Minute).IssueToken("cred")
	if _, err := NewHandshake("secret-b", time.Minute).VerifyToken(token); err == nil {
		t.Fatal("token signed with a different secret should not verify")
	}
}

func TestHandshakeTokenExpired(t *testing.T) {
	h := NewHandshake("secret", -time.Minute)
	token, err := h.IssueToken("cred")
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}
	if _, err := h.VerifyToken(token); err == nil {
		t.Fatal("expired token should not verify")
	}
}

func TestHandshakeTokenGarbage(t *testing.T) {
	h := NewHandshake("secret", time.Minute)
	if _, err := h.VerifyToken("not-a-jwt"); err == nil {
		t.Fatal("garbage token should not verify")
	}
}
