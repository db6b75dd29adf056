package user

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
	hasher PasswordHasher
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, hasher PasswordHasher) *Service {
	return &Service{
		repo:   repo,
		hasher: hasher,
		logger: logger.LoggerWrapper(),
	}
}

func (s *Service) List(ctx context.Context) ([]User, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (*User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, internal.NewNotFoundError("User not found", internal.ErrCodeUserNotFound)
	}
	return u, nil
}

func (s *Service) Create(ctx context.Context, actorID string, dto CreateUserDTO) (*User, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	hash, err := s.hasher.HashPassword(dto.Password)
	if err != nil {
		return nil, internal.NewInternalError("failed to hash password", err)
	}

	username := strings.TrimSpace(dto.Username)
	if username == "" {
		username = strings.SplitN(dto.Email, "@", 2)[0]
	}
	name := strings.TrimSpace(dto.Name)
	if name == "" {
		name = username
	}

	u := &User{
		ID:       uuid.NewString(),
		Email:    strings.ToLower(strings.TrimSpace(dto.Email)),
		Username: username,
		Name:     name,
		Phone:    dto.Phone,
		RoleID:   dto.RoleID,
		IsActive: true,
	}

	entry := &audit.Entry{
		ActorID:    actorID,
		Action:     audit.ActionCreateUser,
		EntityType: "User",
		EntityID:   u.ID,
		NewValues: audit.Snapshot(map[string]interface{}{
			"email":    u.Email,
			"username": u.Username,
			"role_id":  u.RoleID,
		}),
	}

	if err := s.repo.Create(ctx, u, hash, entry); err != nil {
		if errors.Is(err, ErrExists) {
			return nil, internal.NewConflictError("User already exists", internal.ErrCodeUserExists)
		}
		return nil, s.mapWriteError(err)
	}
	return u, nil
}

func (s *Service) Update(ctx context.Context, actorID, id string, dto UpdateUserDTO) (*User, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, internal.NewNotFoundError("User not found", internal.ErrCodeUserNotFound)
	}

	oldValues := map[string]interface{}{}
	newValues := map[string]interface{}{}
	action := audit.ActionUpdateUser

	updated := *current
	if dto.Name != nil && *dto.Name != current.Name {
		oldValues["name"] = current.Name
		newValues["name"] = *dto.Name
		updated.Name = *dto.Name
	}
	if dto.Phone != nil {
		oldValues["phone"] = current.Phone
		newValues["phone"] = *dto.Phone
		updated.Phone = dto.Phone
	}
	if dto.RoleID != nil && *dto.RoleID != current.RoleID {
		// Role re-assignment always leaves an audit trail under its own
		// action code.
		action = audit.ActionChangeUserRole
		oldValues["role_id"] = current.RoleID
		newValues["role_id"] = *dto.RoleID
		updated.RoleID = *dto.RoleID
	}

	if len(newValues) == 0 {
		return current, nil
	}

	entry := &audit.Entry{
		ActorID:    actorID,
		Action:     action,
		EntityType: "User",
		EntityID:   id,
		OldValues:  audit.Snapshot(oldValues),
		NewValues:  audit.Snapshot(newValues),
	}

	if err := s.repo.Update(ctx, &updated, entry); err != nil {
		return nil, s.mapWriteError(err)
	}
	return &updated, nil
}

func (s *Service) Deactivate(ctx context.Context, actorID, id string) error {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return internal.NewNotFoundError("User not found", internal.ErrCodeUserNotFound)
	}
	if !current.IsActive {
		return nil
	}

	entry := &audit.Entry{
		ActorID:    actorID,
		Action:     audit.ActionDeactivateUser,
		EntityType: "User",
		EntityID:   id,
		OldValues:  audit.Snapshot(map[string]interface{}{"is_active": true}),
		NewValues:  audit.Snapshot(map[string]interface{}{"is_active": false}),
	}

	if err := s.repo.Deactivate(ctx, id, entry); err != nil {
		return s.mapWriteError(err)
	}
	return nil
}

func (s *Service) mapWriteError(err error) error {
	if errors.Is(err, audit.ErrWriteFailed) {
		return internal.ErrAuditWriteFailed.WithCause(err)
	}
	return internal.NewInternalError("user write failed", err)
}
