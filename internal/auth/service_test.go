package auth

import (
	"context"
	"errors"
	"time"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"
)

type mockAuthRepository struct {
	credentials map[string]*Credentials
	roles       map[string]PermissionSet
	err         error
}

func newMockAuthRepository() *mockAuthRepository {
	hash, _ := bcrypt.GenerateFromPassword([]byte("correct_password"), bcrypt.MinCost)
	return &mockAuthRepository{
		credentials: map[string]*Credentials{
			"admin@alhamla.org": {
				UserID:       "user-admin",
				Email:        "admin@alhamla.org",
				PasswordHash: string(hash),
				RoleName:     "ADMIN",
				IsActive:     true,
			},
			"former@alhamla.org": {
				UserID:       "user-former",
				Email:        "former@alhamla.org",
				PasswordHash: string(hash),
				RoleName:     "USER",
				IsActive:     false,
			},
		},
		roles: map[string]PermissionSet{
			"ADMIN": NormalizePermissions([]string{PermissionWildcard}),
		},
	}
}

func (m *mockAuthRepository) GetCredentials(_ context.Context, email string) (*Credentials, error) {
	if m.err != nil {
		return nil, m.err
	}
	creds, ok := m.credentials[email]
	if !ok {
		return nil, errors.New("not found")
	}
	return creds, nil
}

func (m *mockAuthRepository) PermissionsForRole(_ context.Context, roleName string) (PermissionSet, error) {
	set, ok := m.roles[roleName]
	if !ok {
		return nil, ErrRoleNotFound
	}
	return set, nil
}

var _ = ginkgo.Describe("AuthService", func() {
	var (
		service *Service
		repo    *mockAuthRepository
		csrf    *CSRFStore
	)

	ginkgo.BeforeEach(func() {
		repo = newMockAuthRepository()
		csrf = NewCSRFStore(time.Hour)
		service = NewService(repo, NewLegacyCodec(), csrf, bcrypt.MinCost)
	})

	ginkgo.Describe("Login", func() {
		ginkgo.Context("with valid credentials", func() {
			ginkgo.It("should mint a session token and a CSRF token bound to it", func() {
				session, err := service.Login(context.Background(), LoginDTO{
					Email:    "admin@alhamla.org",
					Password: "correct_password",
				})

				gomega.Expect(err).ToNot(gomega.HaveOccurred())
				gomega.Expect(session.Token).ToNot(gomega.BeEmpty())
				gomega.Expect(session.CSRFToken).ToNot(gomega.BeEmpty())
				gomega.Expect(session.Identity.UserID).To(gomega.Equal("user-admin"))
				gomega.Expect(session.Identity.RoleName).To(gomega.Equal("ADMIN"))
				gomega.Expect(csrf.Check(session.Token, session.CSRFToken)).To(gomega.BeTrue())
			})
		})

		ginkgo.Context("with a wrong password", func() {
			ginkgo.It("should return invalid credentials", func() {
				_, err := service.Login(context.Background(), LoginDTO{
					Email:    "admin@alhamla.org",
					Password: "wrong_password",
				})
				gomega.Expect(err).To(gomega.MatchError(ErrInvalidCredentials))
			})
		})

		ginkgo.Context("with an unknown email", func() {
			ginkgo.It("should return the same invalid credentials error", func() {
				_, err := service.Login(context.Background(), LoginDTO{
					Email:    "nobody@alhamla.org",
					Password: "correct_password",
				})
				gomega.Expect(err).To(gomega.MatchError(ErrInvalidCredentials))
			})
		})

		ginkgo.Context("with an inactive account", func() {
			ginkgo.It("should refuse the login", func() {
				_, err := service.Login(context.Background(), LoginDTO{
					Email:    "former@alhamla.org",
					Password: "correct_password",
				})
				gomega.Expect(err).To(gomega.MatchError(ErrUserInactive))
			})
		})

		ginkgo.Context("with a malformed request", func() {
			ginkgo.It("should reject before touching the repository", func() {
				repo.err = errors.New("must not be called")
				_, err := service.Login(context.Background(), LoginDTO{Email: "", Password: ""})
				gomega.Expect(err).To(gomega.HaveOccurred())
				gomega.Expect(errors.Is(err, repo.err)).To(gomega.BeFalse())
			})
		})
	})

	ginkgo.Describe("Logout", func() {
		ginkgo.It("should revoke the CSRF binding", func() {
			session, err := service.Login(context.Background(), LoginDTO{
				Email:    "admin@alhamla.org",
				Password: "correct_password",
			})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			service.Logout(session.Token)
			gomega.Expect(csrf.Check(session.Token, session.CSRFToken)).To(gomega.BeFalse())
		})
	})
})
