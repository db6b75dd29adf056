package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/alhamla/campaign-office/internal/audit"
	messageDatamodel "github.com/alhamla/campaign-office/internal/core/datamodel/message"
	"github.com/alhamla/campaign-office/internal/message"
)

type Repository struct {
	db       *gorm.DB
	recorder audit.Recorder
}

func NewRepository(db *gorm.DB, recorder audit.Recorder) *Repository {
	return &Repository{db: db, recorder: recorder}
}

type messageWithSender struct {
	messageDatamodel.Message
	SenderName string `gorm:"column:sender_name"`
}

func (r *Repository) ListForUser(ctx context.Context, userID string) ([]message.Message, error) {
	var rows []messageWithSender
	err := r.db.WithContext(ctx).
		Model(&messageDatamodel.Message{}).
		Select("messages.*, users.name AS sender_name").
		Joins("LEFT JOIN users ON users.id = messages.sender_id").
		Where("messages.recipient_id = ?", userID).
		Order("messages.created_at DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]message.Message, len(rows))
	for i, row := range rows {
		out[i] = toDomain(&row)
	}
	return out, nil
}

func (r *Repository) GetByID(ctx context.Context, id string) (*message.Message, error) {
	var row messageWithSender
	err := r.db.WithContext(ctx).
		Model(&messageDatamodel.Message{}).
		Select("messages.*, users.name AS sender_name").
		Joins("LEFT JOIN users ON users.id = messages.sender_id").
		Where("messages.id = ?", id).
		Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, message.ErrNotFound
		}
		return nil, err
	}
	d := toDomain(&row)
	return &d, nil
}

func (r *Repository) Create(ctx context.Context, d *message.Message, entry *audit.Entry) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(toRow(d)).Error; err != nil {
			return err
		}
		return r.recorder.RecordIn(tx, entry)
	})
}

func (r *Repository) MarkRead(ctx context.Context, id string, at time.Time) error {
	res := r.db.WithContext(ctx).
		Model(&messageDatamodel.Message{}).
		Where("id = ? AND read_at IS NULL", id).
		Update("read_at", at)
	if res.Error != nil {
		return res.Error
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, id string, entry *audit.Entry) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&messageDatamodel.Message{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return message.ErrNotFound
		}
		return r.recorder.RecordIn(tx, entry)
	})
}

func toDomain(row *messageWithSender) message.Message {
	return message.Message{
		ID:          row.ID,
		SenderID:    row.SenderID,
		SenderName:  row.SenderName,
		RecipientID: row.RecipientID,
		Subject:     row.Subject,
		Body:        row.Body,
		ReadAt:      row.ReadAt,
		CreatedAt:   row.CreatedAt,
	}
}

func toRow(d *message.Message) *messageDatamodel.Message {
	return &messageDatamodel.Message{
		ID:          d.ID,
		SenderID:    d.SenderID,
		RecipientID: d.RecipientID,
		Subject:     d.Subject,
		Body:        d.Body,
		ReadAt:      d.ReadAt,
	}
}
