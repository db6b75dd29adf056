package post

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/alhamla/campaign-office/internal"
	"github.com/alhamla/campaign-office/internal/audit"
	"github.com/alhamla/campaign-office/pkg/logger"
)

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI) *Service {
	return &Service{
		repo:   repo,
		logger: logger.LoggerWrapper(),
	}
}

func (s *Service) List(ctx context.Context) ([]Post, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (*Post, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, internal.NewNotFoundError("Post not found", internal.ErrCodePostNotFound)
	}
	return p, nil
}

func (s *Service) Create(ctx context.Context, actorID string, dto CreatePostDTO) (*Post, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	kind := dto.Type
	if kind == "" {
		kind = TypeAnnouncement
	}

	p := &Post{
		ID:          uuid.NewString(),
		Title:       strings.TrimSpace(dto.Title),
		Content:     dto.Content,
		Type:        kind,
		Status:      StatusDraft,
		AuthorID:    actorID,
		ScheduledAt: dto.ScheduledAt,
	}

	entry := &audit.Entry{
		ActorID:    actorID,
		Action:     audit.ActionCreatePost,
		EntityType: "Post",
		EntityID:   p.ID,
		NewValues: audit.Snapshot(map[string]interface{}{
			"title":  p.Title,
			"type":   p.Type,
			"status": p.Status,
		}),
	}

	if err := s.repo.Create(ctx, p, entry); err != nil {
		return nil, s.mapWriteError(err)
	}
	return p, nil
}

func (s *Service) Update(ctx context.Context, actorID, id string, dto UpdatePostDTO) (*Post, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, internal.NewNotFoundError("Post not found", internal.ErrCodePostNotFound)
	}

	if dto.Status != nil && !validStatus(*dto.Status) {
		return nil, ValidationError{Msg: "status must be one of DRAFT, PUBLISHED, ARCHIVED"}
	}

	oldValues := map[string]interface{}{}
	newValues := map[string]interface{}{}

	updated := *current
	if dto.Title != nil && *dto.Title != current.Title {
		oldValues["title"] = current.Title
		newValues["title"] = *dto.Title
		updated.Title = *dto.Title
	}
	if dto.Content != nil && *dto.Content != current.Content {
		oldValues["content"] = current.Content
		newValues["content"] = *dto.Content
		updated.Content = *dto.Content
	}
	if dto.Status != nil && *dto.Status != current.Status {
		oldValues["status"] = current.Status
		newValues["status"] = *dto.Status
		updated.Status = *dto.Status
	}
	if dto.ScheduledAt != nil {
		oldValues["scheduled_at"] = current.ScheduledAt
		newValues["scheduled_at"] = *dto.ScheduledAt
		updated.ScheduledAt = dto.ScheduledAt
	}

	if len(newValues) == 0 {
		return current, nil
	}

	entry := &audit.Entry{
		ActorID:    actorID,
		Action:     audit.ActionUpdatePost,
		EntityType: "Post",
		EntityID:   id,
		OldValues:  audit.Snapshot(oldValues),
		NewValues:  audit.Snapshot(newValues),
	}

	if err := s.repo.Update(ctx, &updated, entry); err != nil {
		return nil, s.mapWriteError(err)
	}
	return &updated, nil
}

func (s *Service) Delete(ctx context.Context, actorID, id string) error {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return internal.NewNotFoundError("Post not found", internal.ErrCodePostNotFound)
	}

	entry := &audit.Entry{
		ActorID:    actorID,
		Action:     audit.ActionDeletePost,
		EntityType: "Post",
		EntityID:   id,
		OldValues: audit.Snapshot(map[string]interface{}{
			"title":  current.Title,
			"status": current.Status,
		}),
	}

	if err := s.repo.Delete(ctx, id, entry); err != nil {
		return s.mapWriteError(err)
	}
	return nil
}

func (s *Service) mapWriteError(err error) error {
	if errors.Is(err, audit.ErrWriteFailed) {
		return internal.ErrAuditWriteFailed.WithCause(err)
	}
	return internal.NewInternalError("post write failed", err)
}
