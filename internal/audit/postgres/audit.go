package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/alhamla/campaign-office/internal/audit"
	auditDatamodel "github.com/alhamla/campaign-office/internal/core/datamodel/audit"
)

// Repository appends and lists activity log rows. There is deliberately no
// update or delete: the table is append-only from the application's point
// of view.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Append(ctx context.Context, e *audit.Entry) error {
	return r.db.WithContext(ctx).Create(toRow(e)).Error
}

func (r *Repository) AppendTx(tx *gorm.DB, e *audit.Entry) error {
	return tx.Create(toRow(e)).Error
}

func (r *Repository) List(ctx context.Context, f audit.Filter) ([]audit.LogView, int64, error) {
	base := r.db.WithContext(ctx).Model(&auditDatamodel.ActivityLog{})
	if f.ActorID != "" {
		base = base.Where("activity_logs.user_id = ?", f.ActorID)
	}
	if f.Action != "" {
		base = base.Where("activity_logs.action = ?", f.Action)
	}
	if f.EntityType != "" {
		base = base.Where("activity_logs.entity_type = ?", f.EntityType)
	}
	if f.From != nil {
		base = base.Where("activity_logs.created_at >= ?", f.From)
	}
	if f.To != nil {
		base = base.Where("activity_logs.created_at <= ?", f.To)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	type joinedRow struct {
		auditDatamodel.ActivityLog
		ActorName  string
		ActorEmail string
	}

	var rows []joinedRow
	err := base.
		Select("activity_logs.*, users.name AS actor_name, users.email AS actor_email").
		Joins("LEFT JOIN users ON users.id = activity_logs.user_id").
		Order("activity_logs.created_at DESC").
		Offset((f.Page - 1) * f.Limit).
		Limit(f.Limit).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}

	views := make([]audit.LogView, len(rows))
	for i, row := range rows {
		views[i] = audit.LogView{
			Entry: audit.Entry{
				ID:         row.ID,
				ActorID:    row.UserID,
				Action:     row.Action,
				EntityType: row.EntityType,
				EntityID:   row.EntityID,
				OldValues:  row.OldValues,
				NewValues:  row.NewValues,
				IPAddress:  row.IPAddress,
				UserAgent:  row.UserAgent,
				CreatedAt:  row.CreatedAt,
			},
			ActorName:  row.ActorName,
			ActorEmail: row.ActorEmail,
		}
	}
	return views, total, nil
}

func toRow(e *audit.Entry) *auditDatamodel.ActivityLog {
	return &auditDatamodel.ActivityLog{
		ID:         e.ID,
		UserID:     e.ActorID,
		Action:     e.Action,
		EntityType: e.EntityType,
		EntityID:   e.EntityID,
		OldValues:  e.OldValues,
		NewValues:  e.NewValues,
		IPAddress:  e.IPAddress,
		UserAgent:  e.UserAgent,
		CreatedAt:  e.CreatedAt,
	}
}
