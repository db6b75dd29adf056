package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/alhamla/campaign-office/internal/audit"
	postDatamodel "github.com/alhamla/campaign-office/internal/core/datamodel/post"
	"github.com/alhamla/campaign-office/internal/post"
)

type Repository struct {
	db       *gorm.DB
	recorder audit.Recorder
}

func NewRepository(db *gorm.DB, recorder audit.Recorder) *Repository {
	return &Repository{db: db, recorder: recorder}
}

func (r *Repository) List(ctx context.Context) ([]post.Post, error) {
	var rows []postDatamodel.Post
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]post.Post, len(rows))
	for i, row := range rows {
		out[i] = toDomain(&row)
	}
	return out, nil
}

func (r *Repository) GetByID(ctx context.Context, id string) (*post.Post, error) {
	var row postDatamodel.Post
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, post.ErrNotFound
		}
		return nil, err
	}
	d := toDomain(&row)
	return &d, nil
}

func (r *Repository) Create(ctx context.Context, d *post.Post, entry *audit.Entry) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(toRow(d)).Error; err != nil {
			return err
		}
		return r.recorder.RecordIn(tx, entry)
	})
}

func (r *Repository) Update(ctx context.Context, d *post.Post, entry *audit.Entry) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&postDatamodel.Post{}).Where("id = ?", d.ID).Updates(map[string]interface{}{
			"title":        d.Title,
			"content":      d.Content,
			"status":       d.Status,
			"scheduled_at": d.ScheduledAt,
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return post.ErrNotFound
		}
		return r.recorder.RecordIn(tx, entry)
	})
}

func (r *Repository) Delete(ctx context.Context, id string, entry *audit.Entry) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&postDatamodel.Post{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return post.ErrNotFound
		}
		return r.recorder.RecordIn(tx, entry)
	})
}

func toDomain(row *postDatamodel.Post) post.Post {
	return post.Post{
		ID:          row.ID,
		Title:       row.Title,
		Content:     row.Content,
		Type:        row.Type,
		Status:      row.Status,
		AuthorID:    row.AuthorID,
		ScheduledAt: row.ScheduledAt,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
}

func toRow(d *post.Post) *postDatamodel.Post {
	return &postDatamodel.Post{
		ID:          d.ID,
		Title:       d.Title,
		Content:     d.Content,
		Type:        d.Type,
		Status:      d.Status,
		AuthorID:    d.AuthorID,
		ScheduledAt: d.ScheduledAt,
	}
}
