package admin

import (
	"net/http"

	"github.com/wallet-console-service/internal/config"
	"github.com/wallet-console-service/internal/handler"
	"github.com/wallet-console-service/internal/middleware"
	"github.com/wallet-console-service/internal/model"
	"github.com/wallet-console-service/internal/service"
)

// --- Check ---

// CheckHandler runs the admin gate and reports the verdict. It mounts behind
// session auth but NOT behind the gate itself, so the console can ask "am I
// allowed in" and render the denial.
type CheckHandler struct {
	gate  *middleware.AdminGate
	audit *service.AuditLogger
}

func NewCheckHandler(gate *middleware.AdminGate, audit *service.AuditLogger) *CheckHandler {
	return &CheckHandler{gate: gate, audit: audit}
}

type checkResponse struct {
	Success    bool   `json:"success"`
	Authorized bool   `json:"authorized"`
	Handle     string `json:"handle,omitempty"`
}

func (h *CheckHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	adminHandle, err := h.gate.Authorize(r.Context(), middleware.GetCredential(r.Context()))
	if err != nil {
		h.auditDenied(r)
		service.RespondError(w, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, checkResponse{Success: true, Authorized: true, Handle: adminHandle})
}

func (h *CheckHandler) auditDenied(r *http.Request) {
	event := model.AuditEvent{Type: model.AuditAdminDenied, Success: false}
	if s := middleware.GetSession(r.Context()); s != nil {
		event.SessionID = s.SessionID
		event.IPAddress = s.IPAddress
		event.UserAgent = s.UserAgent
	}
	h.audit.Log(event)
}

// --- Status ---

// StatusHandler answers "is the caller an admin" without ever erroring; the
// console uses it to decide whether to show admin navigation at all.
type StatusHandler struct {
	gate *middleware.AdminGate
}

func NewStatusHandler(gate *middleware.AdminGate) *StatusHandler {
	return &StatusHandler{gate: gate}
}

func (h *StatusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	_, err := h.gate.Authorize(r.Context(), middleware.GetCredential(r.Context()))
	handler.RespondJSON(w, http.StatusOK, map[string]bool{"isAdmin": err == nil})
}

// --- Config check ---

// ConfigCheckHandler exposes the runtime configuration validator's verdict to
// the admin console.
type ConfigCheckHandler struct {
	cfg *config.Config
}

func NewConfigCheckHandler(cfg *config.Config) *ConfigCheckHandler {
	return &ConfigCheckHandler{cfg: cfg}
}

func (h *ConfigCheckHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	result := h.cfg.ValidateRuntime()
	status := http.StatusOK
	if !result.Valid && h.cfg.IsProduction() {
		status = http.StatusInternalServerError
	}
	handler.RespondJSON(w, status, result)
}
