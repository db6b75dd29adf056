package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/alhamla/campaign-office/internal/auth"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db: db,
	}
}

func (r *Repository) GetCredentials(ctx context.Context, email string) (*auth.Credentials, error) {
	var creds auth.Credentials
	query := `SELECT u.id, u.email, u.password_hash, u.is_active, r.name
	          FROM users u
	          JOIN roles r ON r.id = u.role_id
	          WHERE u.email = ?`

	row := r.db.WithContext(ctx).Raw(query, email).Row()
	if err := row.Scan(&creds.UserID, &creds.Email, &creds.PasswordHash, &creds.IsActive, &creds.RoleName); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user not found")
		}
		return nil, err
	}
	return &creds, nil
}

// PermissionsForRole resolves a role name to its normalized permission set.
// A missing role yields an error, which the gate treats as a deny; a role
// whose stored value is corrupt also denies, with the parse error
// propagated so it can be logged as an anomaly.
func (r *Repository) PermissionsForRole(ctx context.Context, roleName string) (auth.PermissionSet, error) {
	if roleName == "" {
		return auth.PermissionSet{}, auth.ErrRoleNotFound
	}

	var raw string
	query := `SELECT permissions FROM roles WHERE name = ? AND is_active = true`
	row := r.db.WithContext(ctx).Raw(query, roleName).Row()
	if err := row.Scan(&raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return auth.PermissionSet{}, auth.ErrRoleNotFound
		}
		return auth.PermissionSet{}, err
	}

	return auth.ParsePermissions(raw)
}
