package middleware

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/wallet-console-service/internal/model"
	"github.com/wallet-console-service/internal/session"
)

// Cookie names. The credential and the session metadata travel separately
// so that neither cookie alone is enough to replay a session elsewhere.
const (
	CredentialCookie = "wallet_auth_token"
	SessionCookie    = "wallet_session"
)

type credentialKey struct{}
type sessionKey struct{}

// GetCredential extracts the wallet credential from the request context.
func GetCredential(ctx context.Context) string {
	cred, _ := ctx.Value(credentialKey{}).(string)
	return cred
}

// GetSession extracts the validated session metadata from the request context.
func GetSession(ctx context.Context) *model.SessionMetadata {
	s, _ := ctx.Value(sessionKey{}).(*model.SessionMetadata)
	return s
}

// WithAuth seeds a context with credential and session; test helper for
// handlers that assume Auth ran.
func WithAuth(ctx context.Context, credential string, s *model.SessionMetadata) context.Context {
	ctx = context.WithValue(ctx, credentialKey{}, credential)
	return context.WithValue(ctx, sessionKey{}, s)
}

// ReadSessionCookie decodes the session metadata cookie without validating
// it. Callers that need a trusted session must go through Auth.
func ReadSessionCookie(r *http.Request) (*model.SessionMetadata, error) {
	c, err := r.Cookie(SessionCookie)
	if err != nil {
		return nil, err
	}
	raw, err := base64.RawURLEncoding.DecodeString(c.Value)
	if err != nil {
		return nil, fmt.Errorf("decode session cookie: %w", err)
	}
	var s model.SessionMetadata
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("parse session cookie: %w", err)
	}
	return &s, nil
}

// SetAuthCookies writes the credential and session cookies.
func SetAuthCookies(w http.ResponseWriter, credential string, s model.SessionMetadata, secure bool, maxAge time.Duration) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal session cookie: %w", err)
	}

	seconds := int(maxAge.Seconds())
	http.SetCookie(w, &http.Cookie{
		Name:     CredentialCookie,
		Value:    credential,
		Path:     "/",
		MaxAge:   seconds,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    base64.RawURLEncoding.EncodeToString(raw),
		Path:     "/",
		MaxAge:   seconds,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// ClearAuthCookies expires both cookies.
func ClearAuthCookies(w http.ResponseWriter, secure bool) {
	for _, name := range []string{CredentialCookie, SessionCookie} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   secure,
			SameSite: http.SameSiteLaxMode,
		})
	}
}

// ClientIP returns the caller's address: the leftmost forwarded-for entry
// when present, else the connection's remote host.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if first := strings.TrimSpace(strings.Split(xff, ",")[0]); first != "" {
			return first
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// Auth returns middleware that requires a credential cookie and a valid,
// unexpired, origin-consistent session cookie. On success it touches the
// session, rewrites the session cookie, and exposes credential and session
// via the request context. Every denial is a plain 401; the reasons are
// logged, not leaked.
func Auth(production bool, maxAge time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cred, err := r.Cookie(CredentialCookie)
			if err != nil || cred.Value == "" {
				respondError(w, http.StatusUnauthorized, "Not authenticated")
				return
			}

			s, err := ReadSessionCookie(r)
			if err != nil {
				respondError(w, http.StatusUnauthorized, "Not authenticated")
				return
			}

			if session.IsExpired(*s, maxAge) {
				ClearAuthCookies(w, production)
				respondError(w, http.StatusUnauthorized, "Not authenticated")
				return
			}

			if !session.IsConsistent(*s, ClientIP(r), r.UserAgent(), production) {
				ClearAuthCookies(w, production)
				respondError(w, http.StatusUnauthorized, "Not authenticated")
				return
			}

			touched := session.Touch(*s)
			if err := SetAuthCookies(w, cred.Value, touched, production, maxAge); err != nil {
				respondError(w, http.StatusInternalServerError, "Failed to refresh session")
				return
			}

			ctx := WithAuth(r.Context(), cred.Value, &touched)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
