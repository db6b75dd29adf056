package individual

import (
	"context"
	"errors"

	"github.com/alhamla/campaign-office/internal/audit"
)

var ErrNotFound = errors.New("person not found")

// Person is one tracked voter. The link to a leader is by display name,
// which is how the imported election rolls reference them; rows trimmed
// differently on import still have to match.
type Person struct {
	ID            int64  `json:"id"`
	LeaderName    string `json:"leader_name,omitempty"`
	FullName      string `json:"full_name"`
	Residence     string `json:"residence,omitempty"`
	Phone         string `json:"phone,omitempty"`
	Workplace     string `json:"workplace,omitempty"`
	CenterInfo    string `json:"center_info,omitempty"`
	StationNumber string `json:"station_number,omitempty"`
	VotesCount    int64  `json:"votes_count"`
}

type Leader struct {
	ID         int64  `json:"id"`
	FullName   string `json:"full_name"`
	VotesCount int64  `json:"votes_count"`
}

// TreeNode is one row of the leaders tree: a leader with their tracked
// voters as children.
type TreeNode struct {
	ID       int64      `json:"id"`
	Label    string     `json:"label"`
	Type     string     `json:"type"`
	Votes    int64      `json:"votes"`
	Children []TreeNode `json:"children,omitempty"`
}

// Summary aggregates a tracking overview: every person plus headline
// counts for the dashboard.
type Summary struct {
	Individuals []Person `json:"individuals"`
	Count       int      `json:"individualsCount"`
	TotalVotes  int64    `json:"totalVotes"`
}

// Page is one keyset-paginated slice. NextCursor is the last visible id,
// or nil when the result set is exhausted.
type Page struct {
	Persons    []Person
	Total      int64
	HasNext    bool
	NextCursor *int64
}

type RepositoryAPI interface {
	List(ctx context.Context, q ListQuery) (*Page, error)
	GetByID(ctx context.Context, id int64) (*Person, error)
	Create(ctx context.Context, p *Person, entry *audit.Entry) error
	Update(ctx context.Context, p *Person, entry *audit.Entry) error
	Delete(ctx context.Context, id int64, entry *audit.Entry) error
	Leaders(ctx context.Context) ([]Leader, error)
	PersonsByLeader(ctx context.Context) (map[string][]Person, error)
	All(ctx context.Context) ([]Person, error)
}

type ServiceAPI interface {
	List(ctx context.Context, q ListQuery) (*Page, error)
	Create(ctx context.Context, actorID string, dto CreatePersonDTO) (*Person, error)
	Update(ctx context.Context, actorID string, id int64, dto UpdatePersonDTO) (*Person, error)
	Delete(ctx context.Context, actorID string, id int64) error
	Tree(ctx context.Context) ([]TreeNode, error)
	Summary(ctx context.Context) (*Summary, error)
}
