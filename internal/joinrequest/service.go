package joinrequest

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

func (s *Service) List(ctx context.Context, status string) ([]JoinRequest, error) {
	return s.repo.List(ctx, status)
}

func (s *Service) Submit(ctx context.Context, dto SubmitDTO) (*JoinRequest, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	jr := &JoinRequest{
		ID:     uuid.NewString(),
		Name:   strings.TrimSpace(dto.Name),
		Phone:  strings.TrimSpace(dto.Phone),
		Area:   strings.TrimSpace(dto.Area),
		Notes:  strings.TrimSpace(dto.Notes),
		Status: StatusPending,
	}

	if err := s.repo.Create(ctx, jr); err != nil {
		return nil, internal.NewInternalError("join request write failed", err)
	}
	return jr, nil
}

// Review transitions a pending request to APPROVED or REJECTED. Only the
// status is captured in the audit snapshots; applicant details stay out
// of the log.
func (s *Service) Review(ctx context.Context, actorID, id string, dto ReviewDTO) (*JoinRequest, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, internal.NewNotFoundError("Join request not found", internal.ErrCodeJoinRequestNotFound)
	}
	if current.Status != StatusPending {
		return nil, internal.NewConflictError("Join request has already been reviewed", internal.ErrCodeInvalidStatus)
	}

	now := time.Now().UTC()
	updated := *current
	updated.Status = dto.Status
	updated.ReviewedBy = &actorID
	updated.ReviewedAt = &now

	entry := &audit.Entry{
		ActorID:    actorID,
		Action:     audit.ActionUpdateJoinRequest,
		EntityType: "JoinRequest",
		EntityID:   id,
		OldValues:  audit.Snapshot(map[string]interface{}{"status": current.Status}),
		NewValues:  audit.Snapshot(map[string]interface{}{"status": dto.Status}),
	}

	if err := s.repo.UpdateStatus(ctx, &updated, entry); err != nil {
		if errors.Is(err, audit.ErrWriteFailed) {
			return nil, internal.ErrAuditWriteFailed.WithCause(err)
		}
		return nil, internal.NewInternalError("join request write failed", err)
	}
	return &updated, nil
}
