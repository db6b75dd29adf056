package role

import (
	"context"
	"errors"
	"time"

	"github.com/alhamla/campaign-office/internal/audit"
)

var ErrNotFound = errors.New("role not found")

// Role is the domain view: permissions always appear in normalized list
// form regardless of how the store holds them.
type Role struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	NameAr      string    `json:"name_ar"`
	Permissions []string  `json:"permissions"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type RepositoryAPI interface {
	List(ctx context.Context) ([]Role, error)
	GetByID(ctx context.Context, id string) (*Role, error)
	GetByName(ctx context.Context, name string) (*Role, error)
	CountUsers(ctx context.Context, roleID string) (int64, error)
	Create(ctx context.Context, r *Role, entry *audit.Entry) error
	Update(ctx context.Context, r *Role, entry *audit.Entry) error
	Delete(ctx context.Context, id string, entry *audit.Entry) error
}

type ServiceAPI interface {
	List(ctx context.Context) ([]Role, error)
	Get(ctx context.Context, id string) (*Role, error)
	Create(ctx context.Context, actorID string, dto CreateRoleDTO) (*Role, error)
	Update(ctx context.Context, actorID, id string, dto UpdateRoleDTO) (*Role, error)
	Delete(ctx context.Context, actorID, id string) error
}
