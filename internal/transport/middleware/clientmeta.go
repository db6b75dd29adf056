package middleware

import (
	"net/http"

	"github.com/alhamla/campaign-office/internal"
	"github.com/alhamla/campaign-office/internal/transport"
)

// ClientMeta stores the caller's address and user agent on the request
// context so downstream writers can attach them to activity log entries.
func ClientMeta(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		meta := internal.RequestMeta{
			IP:        transport.ClientIP(r),
			UserAgent: r.UserAgent(),
		}
		next.ServeHTTP(w, r.WithContext(internal.ContextWithRequestMeta(r.Context(), meta)))
	})
}
