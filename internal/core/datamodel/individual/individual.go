package individual

import "time"

// Person rows come partly from bulk election-roll imports, which is why
// the leader link is a plain name column rather than a foreign key.
type Person struct {
	ID            int64     `gorm:"primaryKey;autoIncrement"`
	LeaderName    string    `gorm:"column:leader_name"`
	FullName      string    `gorm:"column:full_name;not null"`
	Residence     string    `gorm:"column:residence"`
	Phone         string    `gorm:"column:phone"`
	Workplace     string    `gorm:"column:workplace"`
	CenterInfo    string    `gorm:"column:center_info"`
	StationNumber string    `gorm:"column:station_number"`
	VotesCount    int64     `gorm:"column:votes_count;default:0"`
	CreatedAt     time.Time `gorm:"column:created_at;default:now()"`
	UpdatedAt     time.Time `gorm:"column:updated_at;default:now()"`
}

func (Person) TableName() string {
	return "persons"
}

type Leader struct {
	ID            int64     `gorm:"primaryKey;autoIncrement"`
	FullName      string    `gorm:"column:full_name;not null"`
	Residence     string    `gorm:"column:residence"`
	Phone         string    `gorm:"column:phone"`
	Workplace     string    `gorm:"column:workplace"`
	CenterInfo    string    `gorm:"column:center_info"`
	StationNumber string    `gorm:"column:station_number"`
	VotesCount    int64     `gorm:"column:votes_count;default:0"`
	CreatedAt     time.Time `gorm:"column:created_at;default:now()"`
}

func (Leader) TableName() string {
	return "leaders"
}
