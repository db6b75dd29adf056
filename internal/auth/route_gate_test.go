package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

type mockRoleSource struct {
	permissions map[string]PermissionSet
	err         error
	calls       int
}

func (m *mockRoleSource) PermissionsForRole(_ context.Context, roleName string) (PermissionSet, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	set, ok := m.permissions[roleName]
	if !ok {
		return nil, ErrRoleNotFound
	}
	return set, nil
}

var _ = ginkgo.Describe("Gate", func() {
	var (
		codec   *LegacyCodec
		roles   *mockRoleSource
		csrf    *CSRFStore
		gate    *Gate
		reached bool
		handler http.Handler
	)

	ginkgo.BeforeEach(func() {
		codec = NewLegacyCodec()
		roles = &mockRoleSource{permissions: map[string]PermissionSet{
			"EDITOR": NormalizePermissions([]string{"posts.create", "posts.read"}),
			"ADMIN":  NormalizePermissions([]string{PermissionWildcard}),
		}}
		csrf = NewCSRFStore(time.Hour)
		gate = NewGate(codec, roles, csrf, GateConfig{}, nil)

		reached = false
		handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reached = true
			w.WriteHeader(http.StatusOK)
		})
	})

	login := func(role string) (string, string) {
		token, err := codec.Issue("user-1", "editor@alhamla.org", role)
		gomega.Expect(err).ToNot(gomega.HaveOccurred())
		csrfToken, err := csrf.Issue(token)
		gomega.Expect(err).ToNot(gomega.HaveOccurred())
		return token, csrfToken
	}

	request := func(method, sessionToken, csrfToken string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, "/posts", nil)
		if sessionToken != "" {
			req.AddCookie(&http.Cookie{Name: "session", Value: sessionToken})
		}
		if csrfToken != "" {
			req.Header.Set("X-CSRF-Token", csrfToken)
		}
		rec := httptest.NewRecorder()
		chain := gate.Authenticate(gate.Require(Permit("posts.create"))(handler))
		chain.ServeHTTP(rec, req)
		return rec
	}

	ginkgo.Context("without a session cookie", func() {
		ginkgo.It("should return 401 and never reach the handler", func() {
			rec := request(http.MethodPost, "", "")
			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusUnauthorized))
			gomega.Expect(rec.Body.String()).To(gomega.ContainSubstring("UNAUTHENTICATED"))
			gomega.Expect(reached).To(gomega.BeFalse())
		})
	})

	ginkgo.Context("with a garbage session cookie", func() {
		ginkgo.It("should return 401", func() {
			rec := request(http.MethodPost, "%%%garbage%%%", "")
			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusUnauthorized))
			gomega.Expect(reached).To(gomega.BeFalse())
		})
	})

	ginkgo.Context("with a valid session but no CSRF header on a mutating verb", func() {
		ginkgo.It("should return 401 with the retry message", func() {
			token, _ := login("EDITOR")
			rec := request(http.MethodPost, token, "")
			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusUnauthorized))
			gomega.Expect(rec.Body.String()).To(gomega.ContainSubstring("CSRF_MISMATCH"))
			gomega.Expect(reached).To(gomega.BeFalse())
			// the permission source was never consulted
			gomega.Expect(roles.calls).To(gomega.BeZero())
		})
	})

	ginkgo.Context("with a CSRF token issued to another session", func() {
		ginkgo.It("should return 401", func() {
			tokenA, _ := login("EDITOR")
			otherToken, err := codec.Issue("user-2", "other@alhamla.org", "EDITOR")
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			otherCSRF, err := csrf.Issue(otherToken)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			rec := request(http.MethodPost, tokenA, otherCSRF)
			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusUnauthorized))
			gomega.Expect(reached).To(gomega.BeFalse())
		})
	})

	ginkgo.Context("with a session lacking the required permission", func() {
		ginkgo.It("should return 403 and never reach the handler", func() {
			token, err := codec.Issue("user-1", "viewer@alhamla.org", "VIEWER")
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			csrfToken, err := csrf.Issue(token)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			rec := request(http.MethodPost, token, csrfToken)
			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusForbidden))
			gomega.Expect(rec.Body.String()).To(gomega.ContainSubstring("FORBIDDEN"))
			gomega.Expect(reached).To(gomega.BeFalse())
		})
	})

	ginkgo.Context("when permission resolution errors", func() {
		ginkgo.It("should fail closed with 403", func() {
			roles.err = errors.New("connection refused")
			token, csrfToken := login("EDITOR")

			rec := request(http.MethodPost, token, csrfToken)
			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusForbidden))
			gomega.Expect(reached).To(gomega.BeFalse())
		})
	})

	ginkgo.Context("with a valid session, CSRF token, and permission", func() {
		ginkgo.It("should reach the handler", func() {
			token, csrfToken := login("EDITOR")
			rec := request(http.MethodPost, token, csrfToken)
			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
			gomega.Expect(reached).To(gomega.BeTrue())
		})

		ginkgo.It("should honor the wildcard", func() {
			token, csrfToken := login("ADMIN")
			rec := request(http.MethodPost, token, csrfToken)
			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
		})

		ginkgo.It("should skip the CSRF check for GET", func() {
			token, _ := login("EDITOR")
			rec := request(http.MethodGet, token, "")
			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
		})
	})

	ginkgo.Context("with chained requirements", func() {
		ginkgo.It("should resolve permissions once per request", func() {
			token, _ := login("EDITOR")

			inner := gate.Require(Permit("posts.read"))(handler)
			chain := gate.Authenticate(gate.Require(Permit("posts.create"))(inner))

			req := httptest.NewRequest(http.MethodGet, "/posts", nil)
			req.AddCookie(&http.Cookie{Name: "session", Value: token})
			rec := httptest.NewRecorder()
			chain.ServeHTTP(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
			gomega.Expect(roles.calls).To(gomega.Equal(1))
		})
	})
})
