package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/wallet-console-service/internal/config"
	"github.com/wallet-console-service/internal/httputil"
	"github.com/wallet-console-service/internal/ratelimit"
)

// Preset is one route category's fixed-window budget.
type Preset struct {
	Limit  int
	Window time.Duration
}

// Presets holds the per-category budgets. A zero Preset disables limiting
// for that category (fail-open): a missing preset must degrade to "no
// protection", never to an outage.
type Presets struct {
	Admin        Preset
	Auth         Preset
	AuthCallback Preset
	Payment      Preset
	Mint         Preset
	ItemTransfer Preset
	General      Preset
	Webhook      Preset
}

// PresetsFromConfig binds the configured budgets to route categories.
func PresetsFromConfig(cfg *config.Config) Presets {
	w := cfg.RateLimitWindow
	return Presets{
		Admin:        Preset{Limit: cfg.RateLimitAdmin, Window: w},
		Auth:         Preset{Limit: cfg.RateLimitAuth, Window: w},
		AuthCallback: Preset{Limit: cfg.RateLimitAuthCallback, Window: w},
		Payment:      Preset{Limit: cfg.RateLimitPayment, Window: w},
		Mint:         Preset{Limit: cfg.RateLimitMint, Window: w},
		ItemTransfer: Preset{Limit: cfg.RateLimitItemTransfer, Window: w},
		General:      Preset{Limit: cfg.RateLimitGeneral, Window: w},
		Webhook:      Preset{Limit: cfg.RateLimitWebhook, Window: w},
	}
}

type rateLimitedResponse struct {
	Error      string `json:"error"`
	RetryAfter int    `json:"retryAfter"`
}

// RateLimit returns middleware enforcing the preset against a shared
// counter store. Store errors fail open: the limiter protects capacity, it
// must not become an availability risk itself.
func RateLimit(store ratelimit.Store, p Preset) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if p.Limit <= 0 || p.Window <= 0 {
				next.ServeHTTP(w, r)
				return
			}

			res, err := store.Check(r.Context(), RateLimitKey(r), p.Limit, p.Window)
			if err != nil {
				log.Error().Err(err).Msg("rate limit check failed, allowing request")
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(res.Limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(res.ResetAt.UnixMilli(), 10))

			if !res.Allowed {
				w.Header().Set("Retry-After", strconv.Itoa(res.RetryAfter))
				httputil.RespondJSON(w, http.StatusTooManyRequests, rateLimitedResponse{
					Error:      "Too many requests",
					RetryAfter: res.RetryAfter,
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RateLimitKey derives the counter key for a request: the session ID when a
// session cookie is readable (no validation needed, a forged ID only names
// its own bucket), else the leftmost forwarded-for address, else a shared
// "unknown" bucket.
func RateLimitKey(r *http.Request) string {
	if s, err := ReadSessionCookie(r); err == nil && s.SessionID != "" {
		return "session:" + s.SessionID
	}
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if first := strings.TrimSpace(strings.Split(xff, ",")[0]); first != "" {
			return "ip:" + first
		}
	}
	return "ip:unknown"
}
