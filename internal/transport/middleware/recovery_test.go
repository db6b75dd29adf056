package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	"github.com/alhamla/campaign-office/pkg/logger"
)

func TestMiddleware(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Transport Middleware Suite")
}

var _ = ginkgo.Describe("RecoveryMiddleware", func() {
	ginkgo.It("should turn a panic into an opaque 500 without leaking the panic value", func() {
		wrapped := RecoveryMiddleware(logger.LoggerWrapper())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			panic("secret database dsn")
		}))

		req := httptest.NewRequest(http.MethodGet, "/api/v1/users", nil)
		rec := httptest.NewRecorder()
		wrapped.ServeHTTP(rec, req)

		gomega.Expect(rec.Code).To(gomega.Equal(http.StatusInternalServerError))
		gomega.Expect(rec.Header().Get("Content-Type")).To(gomega.Equal("application/json"))
		gomega.Expect(rec.Body.String()).To(gomega.ContainSubstring("INTERNAL_ERROR"))
		gomega.Expect(rec.Body.String()).ToNot(gomega.ContainSubstring("secret database dsn"))
	})

	ginkgo.It("should leave a healthy handler untouched", func() {
		wrapped := RecoveryMiddleware(logger.LoggerWrapper())(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		}))

		rec := httptest.NewRecorder()
		wrapped.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil))
		gomega.Expect(rec.Code).To(gomega.Equal(http.StatusNoContent))
	})
})
