package joinrequest

import "time"

const (
	StatusPending  = "PENDING"
	StatusApproved = "APPROVED"
	StatusRejected = "REJECTED"
)

type JoinRequest struct {
	ID         string     `gorm:"primaryKey;type:uuid"`
	Name       string     `gorm:"column:name;not null"`
	Phone      string     `gorm:"column:phone;not null"`
	Area       string     `gorm:"column:area"`
	Notes      string     `gorm:"column:notes"`
	Status     string     `gorm:"column:status;not null;default:'PENDING'"`
	ReviewedBy *string    `gorm:"column:reviewed_by"`
	ReviewedAt *time.Time `gorm:"column:reviewed_at"`
	CreatedAt  time.Time  `gorm:"column:created_at;default:now()"`
	UpdatedAt  time.Time  `gorm:"column:updated_at;default:now()"`
}

func (JoinRequest) TableName() string {
	return "join_requests"
}
