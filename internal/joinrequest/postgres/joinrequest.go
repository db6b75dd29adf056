package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/alhamla/campaign-office/internal/audit"
	jrDatamodel "github.com/alhamla/campaign-office/internal/core/datamodel/joinrequest"
	"github.com/alhamla/campaign-office/internal/joinrequest"
)

type Repository struct {
	db       *gorm.DB
	recorder audit.Recorder
}

func NewRepository(db *gorm.DB, recorder audit.Recorder) *Repository {
	return &Repository{db: db, recorder: recorder}
}

func (r *Repository) List(ctx context.Context, status string) ([]joinrequest.JoinRequest, error) {
	q := r.db.WithContext(ctx).Order("created_at DESC")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var rows []jrDatamodel.JoinRequest
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]joinrequest.JoinRequest, len(rows))
	for i, row := range rows {
		out[i] = toDomain(&row)
	}
	return out, nil
}

func (r *Repository) GetByID(ctx context.Context, id string) (*joinrequest.JoinRequest, error) {
	var row jrDatamodel.JoinRequest
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, joinrequest.ErrNotFound
		}
		return nil, err
	}
	d := toDomain(&row)
	return &d, nil
}

func (r *Repository) Create(ctx context.Context, d *joinrequest.JoinRequest) error {
	return r.db.WithContext(ctx).Create(toRow(d)).Error
}

func (r *Repository) UpdateStatus(ctx context.Context, d *joinrequest.JoinRequest, entry *audit.Entry) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// The PENDING guard repeats here so concurrent reviews cannot
		// both succeed.
		res := tx.Model(&jrDatamodel.JoinRequest{}).
			Where("id = ? AND status = ?", d.ID, jrDatamodel.StatusPending).
			Updates(map[string]interface{}{
				"status":      d.Status,
				"reviewed_by": d.ReviewedBy,
				"reviewed_at": d.ReviewedAt,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return joinrequest.ErrNotFound
		}
		return r.recorder.RecordIn(tx, entry)
	})
}

func toDomain(row *jrDatamodel.JoinRequest) joinrequest.JoinRequest {
	return joinrequest.JoinRequest{
		ID:         row.ID,
		Name:       row.Name,
		Phone:      row.Phone,
		Area:       row.Area,
		Notes:      row.Notes,
		Status:     row.Status,
		ReviewedBy: row.ReviewedBy,
		ReviewedAt: row.ReviewedAt,
		CreatedAt:  row.CreatedAt,
		UpdatedAt:  row.UpdatedAt,
	}
}

func toRow(d *joinrequest.JoinRequest) *jrDatamodel.JoinRequest {
	return &jrDatamodel.JoinRequest{
		ID:         d.ID,
		Name:       d.Name,
		Phone:      d.Phone,
		Area:       d.Area,
		Notes:      d.Notes,
		Status:     d.Status,
		ReviewedBy: d.ReviewedBy,
		ReviewedAt: d.ReviewedAt,
	}
}
