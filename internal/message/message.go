package message

import (
	"context"
	"errors"
	"time"

	"github.com/alhamla/campaign-office/internal/audit"
)

var ErrNotFound = errors.New("message not found")

type Message struct {
	ID          string     `json:"id"`
	SenderID    string     `json:"sender_id"`
	SenderName  string     `json:"sender_name,omitempty"`
	RecipientID string     `json:"recipient_id"`
	Subject     string     `json:"subject,omitempty"`
	Body        string     `json:"body"`
	ReadAt      *time.Time `json:"read_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

type RepositoryAPI interface {
	ListForUser(ctx context.Context, userID string) ([]Message, error)
	GetByID(ctx context.Context, id string) (*Message, error)
	Create(ctx context.Context, m *Message, entry *audit.Entry) error
	MarkRead(ctx context.Context, id string, at time.Time) error
	Delete(ctx context.Context, id string, entry *audit.Entry) error
}

type ServiceAPI interface {
	Inbox(ctx context.Context, userID string) ([]Message, error)
	Send(ctx context.Context, senderID string, dto SendMessageDTO) (*Message, error)
	MarkRead(ctx context.Context, userID, id string) error
	Delete(ctx context.Context, actorID, id string) error
}
