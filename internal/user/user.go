package user

import (
	"context"
	"errors"
	"time"

	"github.com/alhamla/campaign-office/internal/audit"
)

var (
	ErrNotFound = errors.New("user not found")
	ErrExists   = errors.New("user already exists")
)

// User is the domain view; the password hash never leaves the repository
// layer except through the auth credentials read.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	Name      string    `json:"name"`
	Phone     *string   `json:"phone,omitempty"`
	RoleID    string    `json:"role_id"`
	RoleName  string    `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type RepositoryAPI interface {
	List(ctx context.Context) ([]User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	Create(ctx context.Context, u *User, passwordHash string, entry *audit.Entry) error
	Update(ctx context.Context, u *User, entry *audit.Entry) error
	Deactivate(ctx context.Context, id string, entry *audit.Entry) error
}

type ServiceAPI interface {
	List(ctx context.Context) ([]User, error)
	Get(ctx context.Context, id string) (*User, error)
	Create(ctx context.Context, actorID string, dto CreateUserDTO) (*User, error)
	Update(ctx context.Context, actorID, id string, dto UpdateUserDTO) (*User, error)
	Deactivate(ctx context.Context, actorID, id string) error
}

// PasswordHasher is satisfied by the auth service.
type PasswordHasher interface {
	HashPassword(password string) (string, error)
}
