package joinrequest

import (
	"context"
	"errors"
	"time"

	"github.com/alhamla/campaign-office/internal/audit"
)

var ErrNotFound = errors.New("join request not found")

const (
	StatusPending  = "PENDING"
	StatusApproved = "APPROVED"
	StatusRejected = "REJECTED"
)

// JoinRequest is a volunteer application submitted through the public
// form; reviewing it is the only gated operation.
type JoinRequest struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Phone      string     `json:"phone"`
	Area       string     `json:"area,omitempty"`
	Notes      string     `json:"notes,omitempty"`
	Status     string     `json:"status"`
	ReviewedBy *string    `json:"reviewed_by,omitempty"`
	ReviewedAt *time.Time `json:"reviewed_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

type RepositoryAPI interface {
	List(ctx context.Context, status string) ([]JoinRequest, error)
	GetByID(ctx context.Context, id string) (*JoinRequest, error)
	Create(ctx context.Context, jr *JoinRequest) error
	UpdateStatus(ctx context.Context, jr *JoinRequest, entry *audit.Entry) error
}

type ServiceAPI interface {
	List(ctx context.Context, status string) ([]JoinRequest, error)
	Submit(ctx context.Context, dto SubmitDTO) (*JoinRequest, error)
	Review(ctx context.Context, actorID, id string, dto ReviewDTO) (*JoinRequest, error)
}
