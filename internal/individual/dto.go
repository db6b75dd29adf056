package individual

import "strings"

const (
	defaultPageSize = 30
	maxPageSize     = 100
)

// ListQuery carries the filter, sort, and keyset cursor for a page of
// persons. Search matches name, residence, center, or phone.
type ListQuery struct {
	Search        string
	LeaderName    string
	StationNumber string
	Cursor        *int64
	PageSize      int
	SortBy        string
	SortDesc      bool
}

// Normalize clamps the page size and whitelists the sort column so the
// query string can never pick an arbitrary one.
func (q *ListQuery) Normalize() {
	if q.PageSize < 1 {
		q.PageSize = defaultPageSize
	}
	if q.PageSize > maxPageSize {
		q.PageSize = maxPageSize
	}
	if q.SortBy != "votes_count" {
		q.SortBy = "id"
	}
	q.Search = strings.TrimSpace(q.Search)
	q.LeaderName = strings.TrimSpace(q.LeaderName)
	q.StationNumber = strings.TrimSpace(q.StationNumber)
}

type CreatePersonDTO struct {
	LeaderName    string `json:"leader_name,omitempty"`
	FullName      string `json:"full_name"`
	Residence     string `json:"residence,omitempty"`
	Phone         string `json:"phone,omitempty"`
	Workplace     string `json:"workplace,omitempty"`
	CenterInfo    string `json:"center_info,omitempty"`
	StationNumber string `json:"station_number,omitempty"`
	VotesCount    int64  `json:"votes_count,omitempty"`
}

// UpdatePersonDTO uses pointers so absent fields stay untouched; only the
// whitelisted fields below can change at all.
type UpdatePersonDTO struct {
	LeaderName    *string `json:"leader_name,omitempty"`
	FullName      *string `json:"full_name,omitempty"`
	Residence     *string `json:"residence,omitempty"`
	Phone         *string `json:"phone,omitempty"`
	Workplace     *string `json:"workplace,omitempty"`
	CenterInfo    *string `json:"center_info,omitempty"`
	StationNumber *string `json:"station_number,omitempty"`
	VotesCount    *int64  `json:"votes_count,omitempty"`
}

type ValidationError struct {
	Msg string
}

func (v ValidationError) Error() string { return v.Msg }

func (d CreatePersonDTO) Validate() error {
	if strings.TrimSpace(d.FullName) == "" {
		return ValidationError{Msg: "full_name is required"}
	}
	if d.VotesCount < 0 {
		return ValidationError{Msg: "votes_count cannot be negative"}
	}
	return nil
}

func (d UpdatePersonDTO) Validate() error {
	if d.LeaderName == nil && d.FullName == nil && d.Residence == nil && d.Phone == nil &&
		d.Workplace == nil && d.CenterInfo == nil && d.StationNumber == nil && d.VotesCount == nil {
		return ValidationError{Msg: "no fields to update"}
	}
	if d.FullName != nil && strings.TrimSpace(*d.FullName) == "" {
		return ValidationError{Msg: "full_name cannot be empty"}
	}
	if d.VotesCount != nil && *d.VotesCount < 0 {
		return ValidationError{Msg: "votes_count cannot be negative"}
	}
	return nil
}
