package role

import "time"

// Role owns a permission bundle. Permissions holds the raw stored form:
// canonically a JSON array, but legacy rows may still hold a
// comma-delimited string. Readers normalize before evaluation and must
// never branch on the representation themselves.
type Role struct {
	ID          string    `gorm:"primaryKey;type:uuid"`
	Name        string    `gorm:"column:name;uniqueIndex;not null"`
	NameAr      string    `gorm:"column:name_ar;uniqueIndex;not null"`
	Permissions string    `gorm:"column:permissions;not null;default:'[]'"`
	IsActive    bool      `gorm:"column:is_active;default:true"`
	CreatedAt   time.Time `gorm:"column:created_at;default:now()"`
	UpdatedAt   time.Time `gorm:"column:updated_at;default:now()"`
}

func (Role) TableName() string {
	return "roles"
}
