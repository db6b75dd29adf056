package auth

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/alhamla/campaign-office/internal"
	"github.com/alhamla/campaign-office/internal/transport"
	"github.com/alhamla/campaign-office/pkg/logger"
)

// CookieConfig controls how the session and CSRF cookies are written.
type CookieConfig struct {
	SessionName string
	CSRFName    string
	Secure      bool
	SessionTTL  time.Duration
	CSRFTTL     time.Duration
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
	codec   SessionCodec
	roles   RoleSource
	cookies CookieConfig
}

func NewHandler(svc ServiceAPI, codec SessionCodec, roles RoleSource, cookies CookieConfig) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	if cookies.SessionName == "" {
		cookies.SessionName = "session"
	}
	if cookies.CSRFName == "" {
		cookies.CSRFName = "csrf_token"
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     svc,
		codec:       codec,
		roles:       roles,
		cookies:     cookies,
	}
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var dto LoginDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	session, err := h.Service.Login(r.Context(), dto)
	if err != nil {
		h.Logger.WarnContext(r.Context(), "login failed", "email", dto.Email, "error", err)

		switch err {
		case ErrInvalidCredentials:
			h.WriteAppError(w, internal.ErrInvalidCredentials)
		case ErrUserInactive:
			h.WriteAppError(w, internal.ErrUserInactive)
		default:
			if _, ok := err.(ValidationError); ok {
				h.WriteError(w, http.StatusBadRequest, err.Error())
			} else {
				h.WriteError(w, http.StatusInternalServerError, "internal server error")
			}
		}
		return
	}

	h.setAuthCookies(w, session)
	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"user":    session.Identity,
	})
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(h.cookies.SessionName); err == nil {
		h.Service.Logout(cookie.Value)
	}
	h.clearAuthCookies(w)
	h.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// Me returns the authenticated identity plus its resolved permission set.
// Mounted behind Gate.Authenticate.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	identity, ok := IdentityFromContext(r.Context())
	if !ok || identity == nil {
		h.WriteAppError(w, internal.ErrUnauthenticated)
		return
	}

	resp := MeResponse{
		UserID: identity.UserID,
		Email:  identity.Email,
		Role:   identity.RoleName,
	}
	if set, err := h.roles.PermissionsForRole(r.Context(), identity.RoleName); err == nil {
		resp.Permissions = set.List()
	}
	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"user": resp})
}

// Check probes the session cookie without rejecting. Unlike Me it always
// answers 200, so clients can poll it from public pages.
func (h *Handler) Check(w http.ResponseWriter, r *http.Request) {
	resp := CheckResponse{}
	if cookie, err := r.Cookie(h.cookies.SessionName); err == nil && cookie.Value != "" {
		if identity, err := h.codec.Validate(cookie.Value); err == nil {
			resp.Authenticated = true
			resp.UserID = identity.UserID
		}
	}
	h.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) setAuthCookies(w http.ResponseWriter, session *Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookies.SessionName,
		Value:    session.Token,
		Path:     "/",
		MaxAge:   int(h.cookies.SessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   h.cookies.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	// Readable by client JS: the double-submit pattern needs the client to
	// echo this value back in the CSRF header.
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookies.CSRFName,
		Value:    session.CSRFToken,
		Path:     "/",
		MaxAge:   int(h.cookies.CSRFTTL.Seconds()),
		HttpOnly: false,
		Secure:   h.cookies.Secure,
		SameSite: http.SameSiteStrictMode,
	})
}

func (h *Handler) clearAuthCookies(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookies.SessionName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookies.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookies.CSRFName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Secure:   h.cookies.Secure,
		SameSite: http.SameSiteStrictMode,
	})
}
