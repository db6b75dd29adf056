package post

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	"github.com/alhamla/campaign-office/internal/audit"
)

func TestPost(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Post Module Suite")
}

type mockPostRepository struct {
	posts   map[string]*Post
	entries []*audit.Entry
}

func newMockPostRepository() *mockPostRepository {
	return &mockPostRepository{posts: map[string]*Post{}}
}

func (m *mockPostRepository) List(_ context.Context) ([]Post, error) {
	out := make([]Post, 0, len(m.posts))
	for _, p := range m.posts {
		out = append(out, *p)
	}
	return out, nil
}

func (m *mockPostRepository) GetByID(_ context.Context, id string) (*Post, error) {
	p, ok := m.posts[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *p
	return &copied, nil
}

func (m *mockPostRepository) Create(_ context.Context, p *Post, entry *audit.Entry) error {
	m.posts[p.ID] = p
	m.entries = append(m.entries, entry)
	return nil
}

func (m *mockPostRepository) Update(_ context.Context, p *Post, entry *audit.Entry) error {
	m.posts[p.ID] = p
	m.entries = append(m.entries, entry)
	return nil
}

func (m *mockPostRepository) Delete(_ context.Context, id string, entry *audit.Entry) error {
	delete(m.posts, id)
	m.entries = append(m.entries, entry)
	return nil
}

var _ = ginkgo.Describe("PostService", func() {
	var (
		service *Service
		repo    *mockPostRepository
	)

	ginkgo.BeforeEach(func() {
		repo = newMockPostRepository()
		service = NewService(repo)
	})

	ginkgo.Describe("Create", func() {
		ginkgo.It("should default the type and start as a draft", func() {
			p, err := service.Create(context.Background(), "author-1", CreatePostDTO{
				Title:   "إعلان مهم",
				Content: "نص الإعلان",
			})

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(p.Type).To(gomega.Equal(TypeAnnouncement))
			gomega.Expect(p.Status).To(gomega.Equal(StatusDraft))
			gomega.Expect(p.AuthorID).To(gomega.Equal("author-1"))
		})

		ginkgo.It("should write a CREATE_POST audit entry with the actor", func() {
			_, err := service.Create(context.Background(), "author-1", CreatePostDTO{
				Title:   "إعلان مهم",
				Content: "نص الإعلان",
			})

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(repo.entries).To(gomega.HaveLen(1))
			gomega.Expect(repo.entries[0].Action).To(gomega.Equal(audit.ActionCreatePost))
			gomega.Expect(repo.entries[0].ActorID).To(gomega.Equal("author-1"))
			gomega.Expect(repo.entries[0].OldValues).To(gomega.BeNil())
		})

		ginkgo.It("should reject an unknown type", func() {
			_, err := service.Create(context.Background(), "author-1", CreatePostDTO{
				Title:   "x",
				Content: "y",
				Type:    "MEME",
			})
			gomega.Expect(err).To(gomega.BeAssignableToTypeOf(ValidationError{}))
		})
	})

	ginkgo.Describe("Update", func() {
		ginkgo.BeforeEach(func() {
			repo.posts["post-1"] = &Post{
				ID:       "post-1",
				Title:    "إعلان",
				Content:  "نص",
				Type:     TypeAnnouncement,
				Status:   StatusDraft,
				AuthorID: "author-1",
			}
		})

		ginkgo.It("should snapshot the status transition", func() {
			published := StatusPublished
			_, err := service.Update(context.Background(), "actor-1", "post-1", UpdatePostDTO{
				Status: &published,
			})

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(repo.entries).To(gomega.HaveLen(1))

			var oldValues map[string]interface{}
			gomega.Expect(json.Unmarshal([]byte(*repo.entries[0].OldValues), &oldValues)).To(gomega.Succeed())
			gomega.Expect(oldValues["status"]).To(gomega.Equal(StatusDraft))
			gomega.Expect(oldValues).ToNot(gomega.HaveKey("title"))
		})

		ginkgo.It("should reject an invalid status", func() {
			bad := "LIVE"
			_, err := service.Update(context.Background(), "actor-1", "post-1", UpdatePostDTO{Status: &bad})
			gomega.Expect(err).To(gomega.BeAssignableToTypeOf(ValidationError{}))
		})
	})

	ginkgo.Describe("Delete", func() {
		ginkgo.It("should capture the final state in the audit entry", func() {
			repo.posts["post-1"] = &Post{ID: "post-1", Title: "إعلان", Status: StatusPublished}

			err := service.Delete(context.Background(), "actor-1", "post-1")
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(repo.posts).To(gomega.BeEmpty())
			gomega.Expect(repo.entries[0].Action).To(gomega.Equal(audit.ActionDeletePost))
			gomega.Expect(*repo.entries[0].OldValues).To(gomega.ContainSubstring(StatusPublished))
		})
	})
})
