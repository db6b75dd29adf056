package post

import "time"

type Post struct {
	ID          string     `gorm:"primaryKey;type:uuid"`
	Title       string     `gorm:"column:title;not null"`
	Content     string     `gorm:"column:content;not null"`
	Type        string     `gorm:"column:type;not null;default:'ANNOUNCEMENT'"`
	Status      string     `gorm:"column:status;not null;default:'DRAFT'"`
	AuthorID    string     `gorm:"column:author_id;not null"`
	ScheduledAt *time.Time `gorm:"column:scheduled_at"`
	CreatedAt   time.Time  `gorm:"column:created_at;default:now()"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;default:now()"`
}

func (Post) TableName() string {
	return "posts"
}
