package message

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

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

func (s *Service) Inbox(ctx context.Context, userID string) ([]Message, error) {
	return s.repo.ListForUser(ctx, userID)
}

func (s *Service) Send(ctx context.Context, senderID string, dto SendMessageDTO) (*Message, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	m := &Message{
		ID:          uuid.NewString(),
		SenderID:    senderID,
		RecipientID: dto.RecipientID,
		Subject:     strings.TrimSpace(dto.Subject),
		Body:        dto.Body,
	}

	// Message bodies stay out of the audit log.
	entry := &audit.Entry{
		ActorID:    senderID,
		Action:     audit.ActionSendMessage,
		EntityType: "Message",
		EntityID:   m.ID,
		NewValues: audit.Snapshot(map[string]interface{}{
			"recipient_id": m.RecipientID,
			"subject":      m.Subject,
		}),
	}

	if err := s.repo.Create(ctx, m, entry); err != nil {
		return nil, s.mapWriteError(err)
	}
	return m, nil
}

func (s *Service) MarkRead(ctx context.Context, userID, id string) error {
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return internal.NewNotFoundError("Message not found", internal.ErrCodeMessageNotFound)
	}
	if m.RecipientID != userID {
		return internal.ErrForbidden
	}
	if m.ReadAt != nil {
		return nil
	}
	return s.repo.MarkRead(ctx, id, time.Now().UTC())
}

func (s *Service) Delete(ctx context.Context, actorID, id string) error {
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return internal.NewNotFoundError("Message not found", internal.ErrCodeMessageNotFound)
	}

	entry := &audit.Entry{
		ActorID:    actorID,
		Action:     audit.ActionDeleteMessage,
		EntityType: "Message",
		EntityID:   id,
		OldValues: audit.Snapshot(map[string]interface{}{
			"recipient_id": m.RecipientID,
			"subject":      m.Subject,
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
	return internal.NewInternalError("message write failed", err)
}
