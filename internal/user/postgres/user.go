package postgres

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/alhamla/campaign-office/internal/audit"
	userDatamodel "github.com/alhamla/campaign-office/internal/core/datamodel/user"
	"github.com/alhamla/campaign-office/internal/user"
)

type Repository struct {
	db       *gorm.DB
	recorder audit.Recorder
}

func NewRepository(db *gorm.DB, recorder audit.Recorder) *Repository {
	return &Repository{db: db, recorder: recorder}
}

type userWithRole struct {
	userDatamodel.User
	RoleName string `gorm:"column:role_name"`
}

const selectWithRole = "users.*, roles.name AS role_name"

func (r *Repository) List(ctx context.Context) ([]user.User, error) {
	var rows []userWithRole
	err := r.db.WithContext(ctx).
		Model(&userDatamodel.User{}).
		Select(selectWithRole).
		Joins("LEFT JOIN roles ON roles.id = users.role_id").
		Order("users.created_at DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]user.User, len(rows))
	for i, row := range rows {
		out[i] = toDomain(&row)
	}
	return out, nil
}

func (r *Repository) GetByID(ctx context.Context, id string) (*user.User, error) {
	var row userWithRole
	err := r.db.WithContext(ctx).
		Model(&userDatamodel.User{}).
		Select(selectWithRole).
		Joins("LEFT JOIN roles ON roles.id = users.role_id").
		Where("users.id = ?", id).
		Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, user.ErrNotFound
		}
		return nil, err
	}
	d := toDomain(&row)
	return &d, nil
}

func (r *Repository) Create(ctx context.Context, d *user.User, passwordHash string, entry *audit.Entry) error {
	row := toRow(d)
	row.PasswordHash = passwordHash
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(row).Error; err != nil {
			if isDuplicate(err) {
				return user.ErrExists
			}
			return err
		}
		return r.recorder.RecordIn(tx, entry)
	})
}

func (r *Repository) Update(ctx context.Context, d *user.User, entry *audit.Entry) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&userDatamodel.User{}).Where("id = ?", d.ID).Updates(map[string]interface{}{
			"name":    d.Name,
			"phone":   d.Phone,
			"role_id": d.RoleID,
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return user.ErrNotFound
		}
		return r.recorder.RecordIn(tx, entry)
	})
}

func (r *Repository) Deactivate(ctx context.Context, id string, entry *audit.Entry) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&userDatamodel.User{}).Where("id = ?", id).Update("is_active", false)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return user.ErrNotFound
		}
		return r.recorder.RecordIn(tx, entry)
	})
}

func isDuplicate(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return strings.Contains(err.Error(), "duplicate key") ||
		strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func toDomain(row *userWithRole) user.User {
	return user.User{
		ID:        row.ID,
		Email:     row.Email,
		Username:  row.Username,
		Name:      row.Name,
		Phone:     row.Phone,
		RoleID:    row.RoleID,
		RoleName:  row.RoleName,
		IsActive:  row.IsActive,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}

func toRow(d *user.User) *userDatamodel.User {
	return &userDatamodel.User{
		ID:       d.ID,
		Email:    d.Email,
		Username: d.Username,
		Name:     d.Name,
		Phone:    d.Phone,
		RoleID:   d.RoleID,
		IsActive: d.IsActive,
	}
}
