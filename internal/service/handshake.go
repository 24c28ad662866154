package service

import (
	"encoding/hex"
	"fmt"
	"time"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/golang-jwt/jwt/v5"
)

const defaultHandshakeTTL = 10 * time.Minute

// Handshake implements the login flow against the wallet platform: a fresh
// secp256k1 keypair is generated per login, the public key is sent to the
// platform's connect page, and the private key (which becomes the wallet
// credential) rides back through the browser inside a short-lived signed
// token so the callback can recover it without server-side state.
type Handshake struct {
	secret []byte
	ttl    time.Duration
}

func NewHandshake(secret string, ttl time.Duration) *Handshake {
	if ttl == 0 {
		ttl = defaultHandshakeTTL
	}
	return &Handshake{secret: []byte(secret), ttl: ttl}
}

// KeyPair holds one login attempt's authentication keys, hex encoded.
type KeyPair struct {
	PrivateKey string
	PublicKey  string
}

// GenerateKeyPair creates a fresh secp256k1 keypair. The public key is
// compressed (33 bytes).
func (h *Handshake) GenerateKeyPair() (*KeyPair, error) {
	priv, err := secp256k1.GeneratePrivateKey()
	if err != nil {
		return nil, fmt.Errorf("generate keypair: %w", err)
	}
	return &KeyPair{
		PrivateKey: hex.EncodeToString(priv.Serialize()),
		PublicKey:  hex.EncodeToString(priv.PubKey().SerializeCompressed()),
	}, nil
}

type handshakeClaims struct {
	AuthToken string `json:"authToken"`
	jwt.RegisteredClaims
}

// IssueToken wraps the credential in an HMAC-signed token valid for the
// handshake TTL.
func (h *Handshake) IssueToken(credential string) (string, error) {
	now := time.Now()
	claims := handshakeClaims{
		AuthToken: credential,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(h.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(h.secret)
	if err != nil {
		return "", fmt.Errorf("sign handshake token: %w", err)
	}
	return signed, nil
}

// VerifyToken validates a handshake token and returns the credential it
// carries.
func (h *Handshake) VerifyToken(raw string) (string, error) {
	var claims handshakeClaims
	token, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return h.secret, nil
	})
	if err != nil {
		return "", fmt.Errorf("verify handshake token: %w", err)
	}
	if !token.Valid || claims.AuthToken == "" {
		return "", fmt.Errorf("handshake token missing credential")
	}
	return claims.AuthToken, nil
}
