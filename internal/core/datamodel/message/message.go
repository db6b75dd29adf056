package message

import "time"

type Message struct {
	ID          string     `gorm:"primaryKey;type:uuid"`
	SenderID    string     `gorm:"column:sender_id;not null"`
	RecipientID string     `gorm:"column:recipient_id;not null"`
	Subject     string     `gorm:"column:subject"`
	Body        string     `gorm:"column:body;not null"`
	ReadAt      *time.Time `gorm:"column:read_at"`
	CreatedAt   time.Time  `gorm:"column:created_at;default:now()"`
}

func (Message) TableName() string {
	return "messages"
}
