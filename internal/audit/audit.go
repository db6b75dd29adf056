package audit

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"
)

// Action codes follow the VERB_RESOURCE convention carried in the stored
// log, so entries stay queryable across releases.
const (
	ActionCreateUser     = "CREATE_USER"
	ActionUpdateUser     = "UPDATE_USER"
	ActionDeactivateUser = "DEACTIVATE_USER"
	ActionChangeUserRole = "CHANGE_USER_ROLE"

	ActionCreateRole = "CREATE_ROLE"
	ActionUpdateRole = "UPDATE_ROLE"
	ActionDeleteRole = "DELETE_ROLE"

	ActionCreatePost = "CREATE_POST"
	ActionUpdatePost = "UPDATE_POST"
	ActionDeletePost = "DELETE_POST"

	ActionUpdateJoinRequest = "UPDATE_JOIN_REQUEST"

	ActionSendMessage   = "SEND_MESSAGE"
	ActionDeleteMessage = "DELETE_MESSAGE"

	ActionCreateIndividual = "CREATE_INDIVIDUAL"
	ActionUpdateIndividual = "UPDATE_INDIVIDUAL"
	ActionDeleteIndividual = "DELETE_INDIVIDUAL"
)

// Entry is one immutable audit fact: who did what to which entity, with
// field-scoped before/after snapshots.
type Entry struct {
	ID         string
	ActorID    string
	Action     string
	EntityType string
	EntityID   string
	OldValues  *string
	NewValues  *string
	IPAddress  *string
	UserAgent  *string
	CreatedAt  time.Time
}

var (
	ErrIncompleteEntry = errors.New("audit entry missing actor, action, or entity")
	ErrWriteFailed     = errors.New("audit write failed")
)

// Snapshot JSON-encodes only the fields relevant to the action, never a
// full entity dump. Nil input yields a nil snapshot.
func Snapshot(fields map[string]interface{}) *string {
	if len(fields) == 0 {
		return nil
	}
	data, err := json.Marshal(fields)
	if err != nil {
		return nil
	}
	s := string(data)
	return &s
}

// Recorder is the write contract domain logic calls after a mutation
// succeeds. RecordIn appends inside the caller's transaction so the
// mutation and its audit entry commit or roll back together.
type Recorder interface {
	Record(ctx context.Context, e *Entry) error
	RecordIn(tx *gorm.DB, e *Entry) error
}

// Filter narrows the read-only listing. No write filter exists because no
// write surface exists.
type Filter struct {
	ActorID    string
	Action     string
	EntityType string
	From       *time.Time
	To         *time.Time
	Page       int
	Limit      int
}

// LogView is an entry joined with its actor's display fields, for the
// activity-log listing.
type LogView struct {
	Entry
	ActorName  string
	ActorEmail string
}

type RepositoryAPI interface {
	Append(ctx context.Context, e *Entry) error
	AppendTx(tx *gorm.DB, e *Entry) error
	List(ctx context.Context, f Filter) ([]LogView, int64, error)
}

type ServiceAPI interface {
	Recorder
	List(ctx context.Context, f Filter) ([]LogView, int64, error)
}
