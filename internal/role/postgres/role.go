package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/alhamla/campaign-office/internal/audit"
	"github.com/alhamla/campaign-office/internal/auth"
	roleDatamodel "github.com/alhamla/campaign-office/internal/core/datamodel/role"
	userDatamodel "github.com/alhamla/campaign-office/internal/core/datamodel/user"
	"github.com/alhamla/campaign-office/internal/role"
)

type Repository struct {
	db       *gorm.DB
	recorder audit.Recorder
}

func NewRepository(db *gorm.DB, recorder audit.Recorder) *Repository {
	return &Repository{db: db, recorder: recorder}
}

func (r *Repository) List(ctx context.Context) ([]role.Role, error) {
	var rows []roleDatamodel.Role
	if err := r.db.WithContext(ctx).Order("name").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]role.Role, len(rows))
	for i, row := range rows {
		out[i] = toDomain(&row)
	}
	return out, nil
}

func (r *Repository) GetByID(ctx context.Context, id string) (*role.Role, error) {
	var row roleDatamodel.Role
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, role.ErrNotFound
		}
		return nil, err
	}
	d := toDomain(&row)
	return &d, nil
}

func (r *Repository) GetByName(ctx context.Context, name string) (*role.Role, error) {
	var row roleDatamodel.Role
	if err := r.db.WithContext(ctx).First(&row, "name = ?", name).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, role.ErrNotFound
		}
		return nil, err
	}
	d := toDomain(&row)
	return &d, nil
}

func (r *Repository) CountUsers(ctx context.Context, roleID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&userDatamodel.User{}).Where("role_id = ?", roleID).Count(&count).Error
	return count, err
}

func (r *Repository) Create(ctx context.Context, d *role.Role, entry *audit.Entry) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(toRow(d)).Error; err != nil {
			return err
		}
		return r.recorder.RecordIn(tx, entry)
	})
}

func (r *Repository) Update(ctx context.Context, d *role.Role, entry *audit.Entry) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&roleDatamodel.Role{}).Where("id = ?", d.ID).Updates(map[string]interface{}{
			"name_ar":     d.NameAr,
			"permissions": auth.NormalizePermissions(d.Permissions).Marshal(),
			"is_active":   d.IsActive,
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return role.ErrNotFound
		}
		return r.recorder.RecordIn(tx, entry)
	})
}

func (r *Repository) Delete(ctx context.Context, id string, entry *audit.Entry) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&roleDatamodel.Role{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return role.ErrNotFound
		}
		return r.recorder.RecordIn(tx, entry)
	})
}

func toDomain(row *roleDatamodel.Role) role.Role {
	// Malformed stored permissions surface as an empty list here; the
	// authorization path independently fails closed on the same parse.
	set, _ := auth.ParsePermissions(row.Permissions)
	return role.Role{
		ID:          row.ID,
		Name:        row.Name,
		NameAr:      row.NameAr,
		Permissions: set.List(),
		IsActive:    row.IsActive,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
}

func toRow(d *role.Role) *roleDatamodel.Role {
	return &roleDatamodel.Role{
		ID:          d.ID,
		Name:        d.Name,
		NameAr:      d.NameAr,
		Permissions: auth.NormalizePermissions(d.Permissions).Marshal(),
		IsActive:    d.IsActive,
	}
}
