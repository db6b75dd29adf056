package post

import (
	"context"
	"errors"
	"time"

	"github.com/alhamla/campaign-office/internal/audit"
)

var ErrNotFound = errors.New("post not found")

const (
	TypeAnnouncement = "ANNOUNCEMENT"
	TypeNews         = "NEWS"
	TypeEvent        = "EVENT"

	StatusDraft     = "DRAFT"
	StatusPublished = "PUBLISHED"
	StatusArchived  = "ARCHIVED"
)

type Post struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Content     string     `json:"content"`
	Type        string     `json:"type"`
	Status      string     `json:"status"`
	AuthorID    string     `json:"author_id"`
	ScheduledAt *time.Time `json:"scheduled_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type RepositoryAPI interface {
	List(ctx context.Context) ([]Post, error)
	GetByID(ctx context.Context, id string) (*Post, error)
	Create(ctx context.Context, p *Post, entry *audit.Entry) error
	Update(ctx context.Context, p *Post, entry *audit.Entry) error
	Delete(ctx context.Context, id string, entry *audit.Entry) error
}

type ServiceAPI interface {
	List(ctx context.Context) ([]Post, error)
	Get(ctx context.Context, id string) (*Post, error)
	Create(ctx context.Context, actorID string, dto CreatePostDTO) (*Post, error)
	Update(ctx context.Context, actorID, id string, dto UpdatePostDTO) (*Post, error)
	Delete(ctx context.Context, actorID, id string) error
}
