package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/wallet-console-service/internal/config"
	"github.com/wallet-console-service/internal/handle"
	"github.com/wallet-console-service/internal/service"
	"github.com/wallet-console-service/internal/wallet"
)

type adminHandleKey struct{}

// GetAdminHandle extracts the authorized admin handle from the request context.
func GetAdminHandle(ctx context.Context) string {
	h, _ := ctx.Value(adminHandleKey{}).(string)
	return h
}

// ProfileLookup is the remote identity dependency of the admin gate.
type ProfileLookup interface {
	GetProfile(ctx context.Context, credential string) (*wallet.Profile, error)
}

// AdminGate authorizes privileged operations: an authenticated caller is an
// admin only if the handle the platform reports for their credential matches
// the configured admin handle. The decision is recomputed on every request
// so a changed ADMIN_HANDLE takes effect immediately, and every uncertainty
// (bad config, lookup failure) denies.
type AdminGate struct {
	profiles ProfileLookup
	cfg      *config.Config
	timeout  time.Duration
}

func NewAdminGate(profiles ProfileLookup, cfg *config.Config) *AdminGate {
	timeout := cfg.WalletTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &AdminGate{profiles: profiles, cfg: cfg, timeout: timeout}
}

// Authorize runs the admin policy for an already-authenticated credential
// and returns the normalized handle on success.
func (g *AdminGate) Authorize(ctx context.Context, credential string) (string, error) {
	if credential == "" {
		return "", service.NewUnauthorized("Not authenticated")
	}

	if result := g.cfg.ValidateRuntime(); !result.Valid {
		if g.cfg.IsProduction() {
			log.Error().Strs("errors", result.Errors).Msg("admin gate blocked by invalid configuration")
			return "", service.NewInternal("Admin configuration error")
		}
		log.Warn().Strs("errors", result.Errors).Msg("configuration incomplete, continuing in development mode")
	}

	adminHandle := handle.Normalize(g.cfg.AdminHandle)
	if adminHandle == "" {
		log.Error().Msg("ADMIN_HANDLE not configured")
		return "", service.NewInternal("Admin configuration error")
	}

	lookupCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	profile, err := g.profiles.GetProfile(lookupCtx, credential)
	if err != nil {
		log.Error().Err(err).Msg("admin profile lookup failed")
		return "", service.NewInternal("Admin authentication failed")
	}

	userHandle := handle.Normalize(profile.Handle)
	if userHandle != adminHandle {
		return "", service.NewForbidden("Unauthorized: Admin access required")
	}

	return userHandle, nil
}

// Middleware gates a route subtree on Authorize. It expects Auth to have
// run first; a missing credential is a 401 like any other.
func (g *AdminGate) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			adminHandle, err := g.Authorize(r.Context(), GetCredential(r.Context()))
			if err != nil {
				service.RespondError(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), adminHandleKey{}, adminHandle)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
