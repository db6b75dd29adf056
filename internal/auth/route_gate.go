package auth

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/alhamla/campaign-office/internal"
	"github.com/alhamla/campaign-office/internal/obs"
	"github.com/alhamla/campaign-office/pkg/logger"
)

// Gate composes the per-request authorization pipeline: session validation,
// CSRF verification for mutating verbs, then permission resolution. The
// order is load-bearing: CSRF checking is meaningless without a session,
// and permission checks must not run for forged cross-site requests.
type Gate struct {
	codec          SessionCodec
	roles          RoleSource
	csrf           *CSRFStore
	cookieName     string
	csrfHeader     string
	resolveTimeout time.Duration
	logger         *slog.Logger
}

type GateConfig struct {
	SessionCookieName string
	CSRFHeaderName    string
	ResolveTimeout    time.Duration
}

func NewGate(codec SessionCodec, roles RoleSource, csrf *CSRFStore, cfg GateConfig, lg *slog.Logger) *Gate {
	if lg == nil {
		lg = logger.LoggerWrapper()
	}
	if cfg.SessionCookieName == "" {
		cfg.SessionCookieName = "session"
	}
	if cfg.CSRFHeaderName == "" {
		cfg.CSRFHeaderName = "X-CSRF-Token"
	}
	if cfg.ResolveTimeout <= 0 {
		cfg.ResolveTimeout = 5 * time.Second
	}
	return &Gate{
		codec:          codec,
		roles:          roles,
		csrf:           csrf,
		cookieName:     cfg.SessionCookieName,
		csrfHeader:     cfg.CSRFHeaderName,
		resolveTimeout: cfg.ResolveTimeout,
		logger:         lg,
	}
}

// Authenticate extracts and validates the session cookie, resolving it to
// an Identity in the request context. Any decode failure is a structured
// 401, never a fault.
func (g *Gate) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(g.cookieName)
		if err != nil || cookie.Value == "" {
			obs.RejectionsTotal.WithLabelValues("unauthenticated").Inc()
			writeRejection(w, internal.ErrUnauthenticated)
			return
		}

		identity, err := g.codec.Validate(cookie.Value)
		if err != nil {
			g.logger.WarnContext(r.Context(), "session validation failed", "error", err)
			obs.RejectionsTotal.WithLabelValues("unauthenticated").Inc()
			if err == ErrTokenExpired {
				writeRejection(w, internal.ErrSessionExpired)
				return
			}
			writeRejection(w, internal.ErrUnauthenticated)
			return
		}

		ctx := ContextWithIdentity(r.Context(), identity)
		ctx = contextWithSessionToken(ctx, cookie.Value)
		ctx = internal.ContextWithUserID(ctx, identity.UserID)
		ctx = logger.With(ctx, "user_id", identity.UserID, "role", identity.RoleName)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Require wraps a handler with the CSRF and permission checks for one
// declared requirement. It expects Authenticate to have run earlier in the
// chain; a missing identity is treated as unauthenticated, not as a fault.
func (g *Gate) Require(req Requirement) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := IdentityFromContext(r.Context())
			if !ok || identity == nil {
				obs.RejectionsTotal.WithLabelValues("unauthenticated").Inc()
				writeRejection(w, internal.ErrUnauthenticated)
				return
			}

			if mutatingMethod(r.Method) {
				presented := r.Header.Get(g.csrfHeader)
				if !g.csrf.Check(sessionTokenFromContext(r.Context()), presented) {
					g.logger.WarnContext(r.Context(), "csrf check failed",
						"user_id", identity.UserID,
						"method", r.Method,
						"path", r.URL.Path)
					obs.RejectionsTotal.WithLabelValues("csrf").Inc()
					writeRejection(w, internal.ErrCSRFMismatch)
					return
				}
			}

			set, err := g.resolvePermissions(r, identity)
			if err != nil {
				// Unresolvable or corrupt role data grants nothing. Logged as an
				// operational anomaly since it usually means data corruption, not
				// a hostile request.
				g.logger.ErrorContext(r.Context(), "permission resolution failed, denying",
					"user_id", identity.UserID,
					"role", identity.RoleName,
					"error", err)
				obs.RejectionsTotal.WithLabelValues("forbidden").Inc()
				writeRejection(w, internal.ErrForbidden)
				return
			}

			if !req.SatisfiedBy(set) {
				g.logger.WarnContext(r.Context(), "access denied: insufficient permissions",
					"user_id", identity.UserID,
					"role", identity.RoleName,
					"required_permissions", req.Permissions())
				obs.RejectionsTotal.WithLabelValues("forbidden").Inc()
				writeRejection(w, internal.ErrForbidden)
				return
			}

			next.ServeHTTP(w, r.WithContext(contextWithPermissions(r.Context(), set)))
		})
	}
}

// resolvePermissions fetches and normalizes the role's permission set once
// per request; chained Require gates reuse the memoized set.
func (g *Gate) resolvePermissions(r *http.Request, identity *Identity) (PermissionSet, error) {
	if set, ok := permissionsFromContext(r.Context()); ok {
		return set, nil
	}
	ctx, cancel := internal.WithTimeout(r.Context(), g.resolveTimeout)
	defer cancel()
	return g.roles.PermissionsForRole(ctx, identity.RoleName)
}

func writeRejection(w http.ResponseWriter, appErr *internal.AppError) {
	status, body := appErr.ToHTTPResponse()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
