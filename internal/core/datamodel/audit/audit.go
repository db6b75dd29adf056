package audit

import "time"

// ActivityLog rows are append-only facts. The application never updates or
// deletes them; the repository exposes no method that could.
type ActivityLog struct {
	ID         string    `gorm:"primaryKey;type:uuid"`
	UserID     string    `gorm:"column:user_id;not null;index"`
	Action     string    `gorm:"column:action;not null;index"`
	EntityType string    `gorm:"column:entity_type;not null;index"`
	EntityID   string    `gorm:"column:entity_id;not null"`
	OldValues  *string   `gorm:"column:old_values"`
	NewValues  *string   `gorm:"column:new_values"`
	IPAddress  *string   `gorm:"column:ip_address"`
	UserAgent  *string   `gorm:"column:user_agent"`
	CreatedAt  time.Time `gorm:"column:created_at;default:now();index"`
}

func (ActivityLog) TableName() string {
	return "activity_logs"
}
