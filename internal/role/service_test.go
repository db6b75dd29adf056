package role

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	"github.com/alhamla/campaign-office/internal"
	"github.com/alhamla/campaign-office/internal/audit"
)

func TestRole(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Role Module Suite")
}

type mockRoleRepository struct {
	roles      map[string]*Role
	userCounts map[string]int64
	entries    []*audit.Entry
	writeErr   error
}

func newMockRoleRepository() *mockRoleRepository {
	return &mockRoleRepository{
		roles:      map[string]*Role{},
		userCounts: map[string]int64{},
	}
}

func (m *mockRoleRepository) List(_ context.Context) ([]Role, error) {
	out := make([]Role, 0, len(m.roles))
	for _, r := range m.roles {
		out = append(out, *r)
	}
	return out, nil
}

func (m *mockRoleRepository) GetByID(_ context.Context, id string) (*Role, error) {
	r, ok := m.roles[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *r
	return &copied, nil
}

func (m *mockRoleRepository) GetByName(_ context.Context, name string) (*Role, error) {
	for _, r := range m.roles {
		if r.Name == name {
			copied := *r
			return &copied, nil
		}
	}
	return nil, ErrNotFound
}

func (m *mockRoleRepository) CountUsers(_ context.Context, roleID string) (int64, error) {
	return m.userCounts[roleID], nil
}

func (m *mockRoleRepository) Create(_ context.Context, r *Role, entry *audit.Entry) error {
	if m.writeErr != nil {
		return m.writeErr
	}
	m.roles[r.ID] = r
	m.entries = append(m.entries, entry)
	return nil
}

func (m *mockRoleRepository) Update(_ context.Context, r *Role, entry *audit.Entry) error {
	if m.writeErr != nil {
		return m.writeErr
	}
	m.roles[r.ID] = r
	m.entries = append(m.entries, entry)
	return nil
}

func (m *mockRoleRepository) Delete(_ context.Context, id string, entry *audit.Entry) error {
	if m.writeErr != nil {
		return m.writeErr
	}
	delete(m.roles, id)
	m.entries = append(m.entries, entry)
	return nil
}

var _ = ginkgo.Describe("RoleService", func() {
	var (
		service *Service
		repo    *mockRoleRepository
	)

	ginkgo.BeforeEach(func() {
		repo = newMockRoleRepository()
		service = NewService(repo)
	})

	ginkgo.Describe("Create", func() {
		ginkgo.It("should uppercase the name and normalize the permissions", func() {
			created, err := service.Create(context.Background(), "actor-1", CreateRoleDTO{
				Name:        " editor ",
				NameAr:      "محرر",
				Permissions: PermissionsInput{" posts.create ", "posts.create", "", "posts.read"},
			})

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(created.Name).To(gomega.Equal("EDITOR"))
			gomega.Expect(created.Permissions).To(gomega.Equal([]string{"posts.create", "posts.read"}))
		})

		ginkgo.It("should write an audit entry carrying the granted permissions", func() {
			_, err := service.Create(context.Background(), "actor-1", CreateRoleDTO{
				Name:        "EDITOR",
				NameAr:      "محرر",
				Permissions: PermissionsInput{"posts.create"},
			})

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(repo.entries).To(gomega.HaveLen(1))
			entry := repo.entries[0]
			gomega.Expect(entry.Action).To(gomega.Equal(audit.ActionCreateRole))
			gomega.Expect(entry.ActorID).To(gomega.Equal("actor-1"))
			gomega.Expect(entry.OldValues).To(gomega.BeNil())
			gomega.Expect(*entry.NewValues).To(gomega.ContainSubstring("posts.create"))
		})

		ginkgo.It("should reject a missing name", func() {
			_, err := service.Create(context.Background(), "actor-1", CreateRoleDTO{NameAr: "x"})
			gomega.Expect(err).To(gomega.BeAssignableToTypeOf(ValidationError{}))
		})
	})

	ginkgo.Describe("Update", func() {
		ginkgo.BeforeEach(func() {
			repo.roles["role-1"] = &Role{
				ID:          "role-1",
				Name:        "EDITOR",
				NameAr:      "محرر",
				Permissions: []string{"posts.create"},
				IsActive:    true,
			}
		})

		ginkgo.It("should snapshot only the changed fields", func() {
			perms := PermissionsInput{"posts.create", "posts.delete"}
			_, err := service.Update(context.Background(), "actor-1", "role-1", UpdateRoleDTO{
				Permissions: &perms,
			})

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(repo.entries).To(gomega.HaveLen(1))

			var oldValues, newValues map[string]interface{}
			gomega.Expect(json.Unmarshal([]byte(*repo.entries[0].OldValues), &oldValues)).To(gomega.Succeed())
			gomega.Expect(json.Unmarshal([]byte(*repo.entries[0].NewValues), &newValues)).To(gomega.Succeed())
			gomega.Expect(oldValues).To(gomega.HaveKey("permissions"))
			gomega.Expect(oldValues).ToNot(gomega.HaveKey("name_ar"))
			gomega.Expect(newValues["permissions"]).To(gomega.ContainElement("posts.delete"))
		})

		ginkgo.It("should not write anything when nothing changed", func() {
			_, err := service.Update(context.Background(), "actor-1", "role-1", UpdateRoleDTO{})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(repo.entries).To(gomega.BeEmpty())
		})

		ginkgo.It("should return not found for an unknown role", func() {
			_, err := service.Update(context.Background(), "actor-1", "missing", UpdateRoleDTO{})
			gomega.Expect(err).To(gomega.MatchError(internal.ErrRoleNotFound))
		})
	})

	ginkgo.Describe("Delete", func() {
		ginkgo.BeforeEach(func() {
			repo.roles["role-1"] = &Role{ID: "role-1", Name: "EDITOR", Permissions: []string{"posts.create"}}
		})

		ginkgo.It("should refuse while users still hold the role", func() {
			repo.userCounts["role-1"] = 3
			err := service.Delete(context.Background(), "actor-1", "role-1")
			gomega.Expect(err).To(gomega.MatchError(internal.ErrRoleInUse))
			gomega.Expect(repo.roles).To(gomega.HaveKey("role-1"))
		})

		ginkgo.It("should delete an unreferenced role and audit it", func() {
			err := service.Delete(context.Background(), "actor-1", "role-1")
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(repo.roles).ToNot(gomega.HaveKey("role-1"))
			gomega.Expect(repo.entries).To(gomega.HaveLen(1))
			gomega.Expect(repo.entries[0].Action).To(gomega.Equal(audit.ActionDeleteRole))
		})
	})

	ginkgo.Describe("audit write failures", func() {
		ginkgo.It("should surface as the audit write error", func() {
			repo.writeErr = audit.ErrWriteFailed
			_, err := service.Create(context.Background(), "actor-1", CreateRoleDTO{
				Name:        "EDITOR",
				NameAr:      "محرر",
				Permissions: PermissionsInput{"posts.create"},
			})

			var appErr *internal.AppError
			gomega.Expect(errors.As(err, &appErr)).To(gomega.BeTrue())
			gomega.Expect(string(appErr.Code)).To(gomega.Equal("AUDIT_WRITE_FAILED"))
		})
	})
})
