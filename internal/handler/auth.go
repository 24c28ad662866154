package handler

import (
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/wallet-console-service/internal/middleware"
	"github.com/wallet-console-service/internal/model"
	"github.com/wallet-console-service/internal/service"
	"github.com/wallet-console-service/internal/session"
)

// --- Login ---

// LoginHandler starts the platform handshake: a fresh keypair per attempt,
// the public key goes to the platform's connect page, the private key (the
// future wallet credential) rides back through the browser in a short-lived
// signed token.
type LoginHandler struct {
	handshake  *service.Handshake
	connectURL string
	appID      string
}

func NewLoginHandler(handshake *service.Handshake, connectURL, appID string) *LoginHandler {
	return &LoginHandler{handshake: handshake, connectURL: connectURL, appID: appID}
}

type loginResponse struct {
	RedirectURL string `json:"redirectUrl"`
	Token       string `json:"token"`
	PublicKey   string `json:"publicKey"`
}

func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	keys, err := h.handshake.GenerateKeyPair()
	if err != nil {
		log.Error().Err(err).Msg("failed to generate login keypair")
		RespondError(w, http.StatusInternalServerError, "Failed to start login")
		return
	}

	token, err := h.handshake.IssueToken(keys.PrivateKey)
	if err != nil {
		log.Error().Err(err).Msg("failed to issue handshake token")
		RespondError(w, http.StatusInternalServerError, "Failed to start login")
		return
	}

	q := url.Values{}
	q.Set("appId", h.appID)
	q.Set("publicKey", keys.PublicKey)

	RespondJSON(w, http.StatusOK, loginResponse{
		RedirectURL: h.connectURL + "?" + q.Encode(),
		Token:       token,
		PublicKey:   keys.PublicKey,
	})
}

// --- Callback ---

// CallbackHandler completes the handshake after the platform redirects the
// browser back: verify the token, prove the credential works with a profile
// fetch, then establish the session cookies.
type CallbackHandler struct {
	handshake  *service.Handshake
	wallet     WalletAPI
	attempts   *middleware.LoginAttemptLimiter
	audit      *service.AuditLogger
	production bool
	maxAge     time.Duration
}

func NewCallbackHandler(handshake *service.Handshake, api WalletAPI, attempts *middleware.LoginAttemptLimiter, audit *service.AuditLogger, production bool, maxAge time.Duration) *CallbackHandler {
	return &CallbackHandler{
		handshake:  handshake,
		wallet:     api,
		attempts:   attempts,
		audit:      audit,
		production: production,
		maxAge:     maxAge,
	}
}

type callbackRequest struct {
	Token string `json:"token"`
}

type callbackResponse struct {
	Authenticated bool        `json:"authenticated"`
	Profile       interface{} `json:"profile"`
}

func (h *CallbackHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	clientIP := middleware.ClientIP(r)

	if !h.attempts.Allow(clientIP) {
		RespondError(w, http.StatusTooManyRequests, "Too many login attempts, try again later")
		return
	}

	var req callbackRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&req); err != nil || req.Token == "" {
		RespondError(w, http.StatusBadRequest, "token is required")
		return
	}

	credential, err := h.handshake.VerifyToken(req.Token)
	if err != nil {
		h.attempts.RegisterFailure(clientIP)
		h.auditLogin(r, "", false, "invalid handshake token")
		RespondError(w, http.StatusUnauthorized, "Invalid or expired login token")
		return
	}

	profile, err := h.wallet.GetProfile(r.Context(), credential)
	if err != nil {
		h.attempts.RegisterFailure(clientIP)
		h.auditLogin(r, "", false, "credential rejected by platform")
		log.Warn().Err(err).Str("ip", clientIP).Msg("login credential validation failed")
		RespondError(w, http.StatusUnauthorized, "Authentication failed")
		return
	}

	s, err := session.New(clientIP, r.UserAgent())
	if err != nil {
		log.Error().Err(err).Msg("failed to create session")
		RespondError(w, http.StatusInternalServerError, "Failed to create session")
		return
	}

	if err := middleware.SetAuthCookies(w, credential, s, h.production, h.maxAge); err != nil {
		log.Error().Err(err).Msg("failed to set auth cookies")
		RespondError(w, http.StatusInternalServerError, "Failed to create session")
		return
	}

	h.attempts.RegisterSuccess(clientIP)
	h.auditLogin(r, s.SessionID, true, "")
	log.Info().Str("handle", profile.Handle).Msg("login completed")

	RespondJSON(w, http.StatusOK, callbackResponse{Authenticated: true, Profile: profile})
}

func (h *CallbackHandler) auditLogin(r *http.Request, sessionID string, success bool, reason string) {
	eventType := model.AuditLoginSuccess
	var details map[string]interface{}
	if !success {
		eventType = model.AuditLoginFailure
		details = map[string]interface{}{"reason": reason}
	}
	h.audit.Log(model.AuditEvent{
		Type:      eventType,
		Success:   success,
		SessionID: sessionID,
		IPAddress: middleware.ClientIP(r),
		UserAgent: r.UserAgent(),
		Details:   details,
	})
}

// --- Profile ---

type ProfileHandler struct {
	wallet WalletAPI
}

func NewProfileHandler(api WalletAPI) *ProfileHandler {
	return &ProfileHandler{wallet: api}
}

func (h *ProfileHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	profile, err := h.wallet.GetProfile(r.Context(), middleware.GetCredential(r.Context()))
	if err != nil {
		log.Error().Err(err).Msg("failed to fetch profile")
		service.RespondError(w, walletError(err, "Failed to fetch profile"))
		return
	}
	RespondJSON(w, http.StatusOK, profile)
}

// --- Logout ---

// LogoutHandler clears the auth cookies. It does not require a valid session:
// a browser stuck with a corrupt cookie must still be able to log out.
type LogoutHandler struct {
	audit      *service.AuditLogger
	production bool
}

func NewLogoutHandler(audit *service.AuditLogger, production bool) *LogoutHandler {
	return &LogoutHandler{audit: audit, production: production}
}

func (h *LogoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var sessionID string
	if s, err := middleware.ReadSessionCookie(r); err == nil {
		sessionID = s.SessionID
	}

	middleware.ClearAuthCookies(w, h.production)
	h.audit.Log(model.AuditEvent{
		Type:      model.AuditLogout,
		Success:   true,
		SessionID: sessionID,
		IPAddress: middleware.ClientIP(r),
		UserAgent: r.UserAgent(),
	})

	RespondJSON(w, http.StatusOK, map[string]bool{"success": true})
}
