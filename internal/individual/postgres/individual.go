package postgres

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"github.com/alhamla/campaign-office/internal/audit"
	individualDatamodel "github.com/alhamla/campaign-office/internal/core/datamodel/individual"
	"github.com/alhamla/campaign-office/internal/individual"
)

type Repository struct {
	db       *gorm.DB
	recorder audit.Recorder
}

func NewRepository(db *gorm.DB, recorder audit.Recorder) *Repository {
	return &Repository{db: db, recorder: recorder}
}

// List pages with a keyset cursor on id. Imported rows carry inconsistent
// whitespace in leader_name, so the leader filter compares trimmed values.
func (r *Repository) List(ctx context.Context, q individual.ListQuery) (*individual.Page, error) {
	base := r.db.WithContext(ctx).Model(&individualDatamodel.Person{})

	if q.Search != "" {
		like := "%" + q.Search + "%"
		base = base.Where(
			"full_name LIKE ? OR residence LIKE ? OR center_info LIKE ? OR phone LIKE ?",
			like, like, like, like)
	}
	if q.LeaderName != "" {
		base = base.Where("TRIM(leader_name) = ?", strings.TrimSpace(q.LeaderName))
	}
	if q.StationNumber != "" {
		base = base.Where("station_number = ?", q.StationNumber)
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, err
	}

	page := base.Session(&gorm.Session{})
	if q.Cursor != nil {
		if q.SortDesc {
			page = page.Where("id < ?", *q.Cursor)
		} else {
			page = page.Where("id > ?", *q.Cursor)
		}
	}

	dir := "ASC"
	if q.SortDesc {
		dir = "DESC"
	}
	if q.SortBy == "votes_count" {
		// id tie-break keeps the order stable across pages.
		page = page.Order("votes_count " + dir).Order("id DESC")
	} else {
		page = page.Order("id " + dir)
	}

	var rows []individualDatamodel.Person
	if err := page.Limit(q.PageSize + 1).Find(&rows).Error; err != nil {
		return nil, err
	}

	hasNext := len(rows) > q.PageSize
	if hasNext {
		rows = rows[:q.PageSize]
	}

	out := &individual.Page{
		Persons: make([]individual.Person, len(rows)),
		Total:   total,
		HasNext: hasNext,
	}
	for i := range rows {
		out.Persons[i] = toDomain(&rows[i])
	}
	if hasNext && len(rows) > 0 {
		last := rows[len(rows)-1].ID
		out.NextCursor = &last
	}
	return out, nil
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*individual.Person, error) {
	var row individualDatamodel.Person
	err := r.db.WithContext(ctx).Take(&row, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, individual.ErrNotFound
		}
		return nil, err
	}
	d := toDomain(&row)
	return &d, nil
}

func (r *Repository) Create(ctx context.Context, p *individual.Person, entry *audit.Entry) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row := toRow(p)
		if err := tx.Create(row).Error; err != nil {
			return err
		}
		p.ID = row.ID
		entry.EntityID = strconv.FormatInt(row.ID, 10)
		return r.recorder.RecordIn(tx, entry)
	})
}

func (r *Repository) Update(ctx context.Context, p *individual.Person, entry *audit.Entry) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&individualDatamodel.Person{}).
			Where("id = ?", p.ID).
			Updates(map[string]interface{}{
				"leader_name":    p.LeaderName,
				"full_name":      p.FullName,
				"residence":      p.Residence,
				"phone":          p.Phone,
				"workplace":      p.Workplace,
				"center_info":    p.CenterInfo,
				"station_number": p.StationNumber,
				"votes_count":    p.VotesCount,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return individual.ErrNotFound
		}
		return r.recorder.RecordIn(tx, entry)
	})
}

func (r *Repository) Delete(ctx context.Context, id int64, entry *audit.Entry) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&individualDatamodel.Person{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return individual.ErrNotFound
		}
		return r.recorder.RecordIn(tx, entry)
	})
}

func (r *Repository) Leaders(ctx context.Context) ([]individual.Leader, error) {
	var rows []individualDatamodel.Leader
	err := r.db.WithContext(ctx).Order("id DESC").Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]individual.Leader, len(rows))
	for i, row := range rows {
		out[i] = individual.Leader{ID: row.ID, FullName: row.FullName, VotesCount: row.VotesCount}
	}
	return out, nil
}

// PersonsByLeader groups every person under their leader's trimmed name in
// one query, so tree assembly does not fan out per leader.
func (r *Repository) PersonsByLeader(ctx context.Context) (map[string][]individual.Person, error) {
	var rows []individualDatamodel.Person
	err := r.db.WithContext(ctx).
		Where("leader_name IS NOT NULL AND TRIM(leader_name) <> ''").
		Order("id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[string][]individual.Person)
	for i := range rows {
		key := strings.TrimSpace(rows[i].LeaderName)
		out[key] = append(out[key], toDomain(&rows[i]))
	}
	return out, nil
}

func (r *Repository) All(ctx context.Context) ([]individual.Person, error) {
	var rows []individualDatamodel.Person
	err := r.db.WithContext(ctx).Order("full_name ASC").Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]individual.Person, len(rows))
	for i := range rows {
		out[i] = toDomain(&rows[i])
	}
	return out, nil
}

func toDomain(row *individualDatamodel.Person) individual.Person {
	return individual.Person{
		ID:            row.ID,
		LeaderName:    row.LeaderName,
		FullName:      row.FullName,
		Residence:     row.Residence,
		Phone:         row.Phone,
		Workplace:     row.Workplace,
		CenterInfo:    row.CenterInfo,
		StationNumber: row.StationNumber,
		VotesCount:    row.VotesCount,
	}
}

func toRow(p *individual.Person) *individualDatamodel.Person {
	return &individualDatamodel.Person{
		ID:            p.ID,
		LeaderName:    p.LeaderName,
		FullName:      p.FullName,
		Residence:     p.Residence,
		Phone:         p.Phone,
		Workplace:     p.Workplace,
		CenterInfo:    p.CenterInfo,
		StationNumber: p.StationNumber,
		VotesCount:    p.VotesCount,
	}
}
