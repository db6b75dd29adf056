package auth

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"
)

var _ = ginkgo.Describe("AuthHandler", func() {
	var (
		handler *Handler
		codec   *LegacyCodec
		csrf    *CSRFStore
	)

	ginkgo.BeforeEach(func() {
		repo := newMockAuthRepository()
		codec = NewLegacyCodec()
		csrf = NewCSRFStore(time.Hour)
		service := NewService(repo, codec, csrf, bcrypt.MinCost)
		handler = NewHandler(service, codec, repo, CookieConfig{
			SessionTTL: time.Hour,
			CSRFTTL:    time.Hour,
		})
	})

	cookieByName := func(rec *httptest.ResponseRecorder, name string) *http.Cookie {
		for _, c := range rec.Result().Cookies() {
			if c.Name == name {
				return c
			}
		}
		return nil
	}

	ginkgo.Describe("Login", func() {
		ginkgo.It("should set an HTTP-only session cookie and a readable CSRF cookie", func() {
			body := strings.NewReader(`{"email":"admin@alhamla.org","password":"correct_password"}`)
			req := httptest.NewRequest(http.MethodPost, "/auth/login", body)
			rec := httptest.NewRecorder()

			handler.Login(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))

			session := cookieByName(rec, "session")
			gomega.Expect(session).ToNot(gomega.BeNil())
			gomega.Expect(session.HttpOnly).To(gomega.BeTrue())
			gomega.Expect(session.Value).ToNot(gomega.BeEmpty())

			csrfCookie := cookieByName(rec, "csrf_token")
			gomega.Expect(csrfCookie).ToNot(gomega.BeNil())
			gomega.Expect(csrfCookie.HttpOnly).To(gomega.BeFalse())
			gomega.Expect(csrf.Check(session.Value, csrfCookie.Value)).To(gomega.BeTrue())
		})

		ginkgo.It("should return 401 for bad credentials without cookies", func() {
			body := strings.NewReader(`{"email":"admin@alhamla.org","password":"nope"}`)
			req := httptest.NewRequest(http.MethodPost, "/auth/login", body)
			rec := httptest.NewRecorder()

			handler.Login(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusUnauthorized))
			gomega.Expect(rec.Result().Cookies()).To(gomega.BeEmpty())
		})
	})

	ginkgo.Describe("Logout", func() {
		ginkgo.It("should expire both cookies and revoke the CSRF binding", func() {
			token, err := codec.Issue("user-admin", "admin@alhamla.org", "ADMIN")
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			csrfToken, err := csrf.Issue(token)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
			req.AddCookie(&http.Cookie{Name: "session", Value: token})
			rec := httptest.NewRecorder()

			handler.Logout(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
			session := cookieByName(rec, "session")
			gomega.Expect(session.MaxAge).To(gomega.BeNumerically("<", 0))
			gomega.Expect(csrf.Check(token, csrfToken)).To(gomega.BeFalse())
		})
	})

	ginkgo.Describe("Check", func() {
		ginkgo.It("should answer 200 with authenticated=false when no cookie is present", func() {
			req := httptest.NewRequest(http.MethodGet, "/auth/check", nil)
			rec := httptest.NewRecorder()

			handler.Check(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
			gomega.Expect(rec.Body.String()).To(gomega.ContainSubstring(`"authenticated":false`))
		})

		ginkgo.It("should answer 200 with authenticated=true for a valid cookie", func() {
			token, err := codec.Issue("user-admin", "admin@alhamla.org", "ADMIN")
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			req := httptest.NewRequest(http.MethodGet, "/auth/check", nil)
			req.AddCookie(&http.Cookie{Name: "session", Value: token})
			rec := httptest.NewRecorder()

			handler.Check(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
			gomega.Expect(rec.Body.String()).To(gomega.ContainSubstring(`"authenticated":true`))
		})
	})

	ginkgo.Describe("Me", func() {
		ginkgo.It("should include the resolved permission list", func() {
			identity := &Identity{UserID: "user-admin", Email: "admin@alhamla.org", RoleName: "ADMIN"}
			req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
			req = req.WithContext(ContextWithIdentity(req.Context(), identity))
			rec := httptest.NewRecorder()

			handler.Me(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
			gomega.Expect(rec.Body.String()).To(gomega.ContainSubstring(`"role":"ADMIN"`))
			gomega.Expect(rec.Body.String()).To(gomega.ContainSubstring(PermissionWildcard))
		})
	})
})
