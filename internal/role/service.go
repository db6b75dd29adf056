package role

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/alhamla/campaign-office/internal"
	"github.com/alhamla/campaign-office/internal/audit"
	"github.com/alhamla/campaign-office/internal/auth"
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

func (s *Service) List(ctx context.Context) ([]Role, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (*Role, error) {
	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, internal.ErrRoleNotFound
	}
	return r, nil
}

func (s *Service) Create(ctx context.Context, actorID string, dto CreateRoleDTO) (*Role, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	perms := auth.NormalizePermissions(dto.Permissions).List()
	r := &Role{
		ID:          uuid.NewString(),
		Name:        strings.ToUpper(strings.TrimSpace(dto.Name)),
		NameAr:      strings.TrimSpace(dto.NameAr),
		Permissions: perms,
		IsActive:    true,
	}

	entry := &audit.Entry{
		ActorID:    actorID,
		Action:     audit.ActionCreateRole,
		EntityType: "Role",
		EntityID:   r.ID,
		NewValues: audit.Snapshot(map[string]interface{}{
			"name":        r.Name,
			"name_ar":     r.NameAr,
			"permissions": r.Permissions,
		}),
	}

	if err := s.repo.Create(ctx, r, entry); err != nil {
		return nil, s.mapWriteError(err)
	}
	return r, nil
}

func (s *Service) Update(ctx context.Context, actorID, id string, dto UpdateRoleDTO) (*Role, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, internal.ErrRoleNotFound
	}

	oldValues := map[string]interface{}{}
	newValues := map[string]interface{}{}

	updated := *current
	if dto.NameAr != nil && *dto.NameAr != current.NameAr {
		oldValues["name_ar"] = current.NameAr
		newValues["name_ar"] = *dto.NameAr
		updated.NameAr = *dto.NameAr
	}
	if dto.Permissions != nil {
		perms := auth.NormalizePermissions(*dto.Permissions).List()
		oldValues["permissions"] = current.Permissions
		newValues["permissions"] = perms
		updated.Permissions = perms
	}
	if dto.IsActive != nil && *dto.IsActive != current.IsActive {
		oldValues["is_active"] = current.IsActive
		newValues["is_active"] = *dto.IsActive
		updated.IsActive = *dto.IsActive
	}

	if len(newValues) == 0 {
		return current, nil
	}

	entry := &audit.Entry{
		ActorID:    actorID,
		Action:     audit.ActionUpdateRole,
		EntityType: "Role",
		EntityID:   id,
		OldValues:  audit.Snapshot(oldValues),
		NewValues:  audit.Snapshot(newValues),
	}

	if err := s.repo.Update(ctx, &updated, entry); err != nil {
		return nil, s.mapWriteError(err)
	}
	return &updated, nil
}

// Delete refuses while any user still references the role.
func (s *Service) Delete(ctx context.Context, actorID, id string) error {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return internal.ErrRoleNotFound
	}

	count, err := s.repo.CountUsers(ctx, id)
	if err != nil {
		return internal.NewInternalError("failed to check role references", err)
	}
	if count > 0 {
		return internal.ErrRoleInUse
	}

	entry := &audit.Entry{
		ActorID:    actorID,
		Action:     audit.ActionDeleteRole,
		EntityType: "Role",
		EntityID:   id,
		OldValues: audit.Snapshot(map[string]interface{}{
			"name":        current.Name,
			"permissions": current.Permissions,
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
	return internal.NewInternalError("role write failed", err)
}
