package audit

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/alhamla/campaign-office/internal"
	"github.com/alhamla/campaign-office/internal/core/events"
	"github.com/alhamla/campaign-office/internal/obs"
	"github.com/alhamla/campaign-office/pkg/logger"
)

const EventWriteFailed = "audit.write_failed"

// Service validates and appends audit entries. Write failures are never
// swallowed: they surface to the caller (rolling the paired mutation back
// when recorded in-transaction), bump the failure counter, and publish an
// escalation event.
type Service struct {
	repo   RepositoryAPI
	bus    *events.EventBus
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, bus *events.EventBus) *Service {
	return &Service{
		repo:   repo,
		bus:    bus,
		logger: logger.LoggerWrapper(),
	}
}

func (s *Service) Record(ctx context.Context, e *Entry) error {
	if err := s.prepare(e); err != nil {
		return err
	}
	s.stampClient(ctx, e)
	if err := s.repo.Append(ctx, e); err != nil {
		s.escalate(ctx, e, err)
		return fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}
	obs.AuditEntriesTotal.WithLabelValues(e.Action).Inc()
	return nil
}

func (s *Service) RecordIn(tx *gorm.DB, e *Entry) error {
	if err := s.prepare(e); err != nil {
		return err
	}
	s.stampClient(tx.Statement.Context, e)
	if err := s.repo.AppendTx(tx, e); err != nil {
		s.escalate(context.Background(), e, err)
		return fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}
	obs.AuditEntriesTotal.WithLabelValues(e.Action).Inc()
	return nil
}

func (s *Service) List(ctx context.Context, f Filter) ([]LogView, int64, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 || f.Limit > 500 {
		f.Limit = 50
	}
	return s.repo.List(ctx, f)
}

func (s *Service) prepare(e *Entry) error {
	if e == nil || e.ActorID == "" || e.Action == "" || e.EntityType == "" {
		return ErrIncompleteEntry
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	return nil
}

// stampClient copies the caller's address and user agent onto the entry
// when the request middleware put them on the context.
func (s *Service) stampClient(ctx context.Context, e *Entry) {
	if e.IPAddress != nil || e.UserAgent != nil {
		return
	}
	meta, ok := internal.RequestMetaFromContext(ctx)
	if !ok {
		return
	}
	if meta.IP != "" {
		ip := meta.IP
		e.IPAddress = &ip
	}
	if meta.UserAgent != "" {
		ua := meta.UserAgent
		e.UserAgent = &ua
	}
}

func (s *Service) escalate(ctx context.Context, e *Entry, cause error) {
	obs.AuditWriteFailures.Inc()
	s.logger.ErrorContext(ctx, "audit write failed",
		"actor_id", e.ActorID,
		"action", e.Action,
		"entity_type", e.EntityType,
		"entity_id", e.EntityID,
		"error", cause)
	if s.bus != nil {
		s.bus.Publish(ctx, events.BaseEvent{
			ID:        uuid.NewString(),
			Type:      EventWriteFailed,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"actor_id":    e.ActorID,
				"action":      e.Action,
				"entity_type": e.EntityType,
				"entity_id":   e.EntityID,
				"error":       cause.Error(),
			},
		})
	}
}
