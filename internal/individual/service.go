package individual

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"

	"github.com/alhamla/campaign-office/internal"
	"github.com/alhamla/campaign-office/internal/audit"
	"github.com/alhamla/campaign-office/pkg/logger"
)

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI) *Service {
	return &Service{
		repo:   repo,
		logger: logger.LoggerWrapper(),
	}
}

func (s *Service) List(ctx context.Context, q ListQuery) (*Page, error) {
	q.Normalize()
	return s.repo.List(ctx, q)
}

func (s *Service) Create(ctx context.Context, actorID string, dto CreatePersonDTO) (*Person, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	p := &Person{
		LeaderName:    strings.TrimSpace(dto.LeaderName),
		FullName:      strings.TrimSpace(dto.FullName),
		Residence:     strings.TrimSpace(dto.Residence),
		Phone:         strings.TrimSpace(dto.Phone),
		Workplace:     strings.TrimSpace(dto.Workplace),
		CenterInfo:    strings.TrimSpace(dto.CenterInfo),
		StationNumber: strings.TrimSpace(dto.StationNumber),
		VotesCount:    dto.VotesCount,
	}

	// Residence, phone, and workplace are personal data and stay out of
	// the audit snapshot.
	entry := &audit.Entry{
		ActorID:    actorID,
		Action:     audit.ActionCreateIndividual,
		EntityType: "Person",
		NewValues: audit.Snapshot(map[string]interface{}{
			"full_name":   p.FullName,
			"leader_name": p.LeaderName,
			"votes_count": p.VotesCount,
		}),
	}

	if err := s.repo.Create(ctx, p, entry); err != nil {
		return nil, s.mapWriteError(err)
	}
	return p, nil
}

func (s *Service) Update(ctx context.Context, actorID string, id int64, dto UpdatePersonDTO) (*Person, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, internal.NewNotFoundError("Person not found", internal.ErrCodePersonNotFound)
	}

	oldValues := map[string]interface{}{}
	newValues := map[string]interface{}{}

	updated := *current
	applyString := func(field string, audited bool, dst *string, src *string) {
		if src == nil {
			return
		}
		next := strings.TrimSpace(*src)
		if next == *dst {
			return
		}
		if audited {
			oldValues[field] = *dst
			newValues[field] = next
		} else {
			// Record that the field changed without copying personal data
			// into the log.
			newValues[field] = "[redacted]"
		}
		*dst = next
	}

	applyString("full_name", true, &updated.FullName, dto.FullName)
	applyString("leader_name", true, &updated.LeaderName, dto.LeaderName)
	applyString("station_number", true, &updated.StationNumber, dto.StationNumber)
	applyString("residence", false, &updated.Residence, dto.Residence)
	applyString("phone", false, &updated.Phone, dto.Phone)
	applyString("workplace", false, &updated.Workplace, dto.Workplace)
	applyString("center_info", false, &updated.CenterInfo, dto.CenterInfo)
	if dto.VotesCount != nil && *dto.VotesCount != current.VotesCount {
		oldValues["votes_count"] = current.VotesCount
		newValues["votes_count"] = *dto.VotesCount
		updated.VotesCount = *dto.VotesCount
	}

	if len(newValues) == 0 {
		return current, nil
	}

	entry := &audit.Entry{
		ActorID:    actorID,
		Action:     audit.ActionUpdateIndividual,
		EntityType: "Person",
		EntityID:   strconv.FormatInt(id, 10),
		OldValues:  audit.Snapshot(oldValues),
		NewValues:  audit.Snapshot(newValues),
	}

	if err := s.repo.Update(ctx, &updated, entry); err != nil {
		return nil, s.mapWriteError(err)
	}
	return &updated, nil
}

func (s *Service) Delete(ctx context.Context, actorID string, id int64) error {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return internal.NewNotFoundError("Person not found", internal.ErrCodePersonNotFound)
	}

	entry := &audit.Entry{
		ActorID:    actorID,
		Action:     audit.ActionDeleteIndividual,
		EntityType: "Person",
		EntityID:   strconv.FormatInt(id, 10),
		OldValues: audit.Snapshot(map[string]interface{}{
			"full_name":   current.FullName,
			"leader_name": current.LeaderName,
			"votes_count": current.VotesCount,
		}),
	}

	if err := s.repo.Delete(ctx, id, entry); err != nil {
		return s.mapWriteError(err)
	}
	return nil
}

// Tree assembles the leader hierarchy: every leader, newest first, with
// their tracked voters nested under them.
func (s *Service) Tree(ctx context.Context) ([]TreeNode, error) {
	leaders, err := s.repo.Leaders(ctx)
	if err != nil {
		return nil, err
	}
	byLeader, err := s.repo.PersonsByLeader(ctx)
	if err != nil {
		return nil, err
	}

	tree := make([]TreeNode, 0, len(leaders))
	for _, l := range leaders {
		persons := byLeader[strings.TrimSpace(l.FullName)]
		children := make([]TreeNode, 0, len(persons))
		for _, p := range persons {
			children = append(children, TreeNode{
				ID:    p.ID,
				Label: p.FullName,
				Type:  "person",
				Votes: p.VotesCount,
			})
		}
		tree = append(tree, TreeNode{
			ID:       l.ID,
			Label:    l.FullName,
			Type:     "leader",
			Votes:    l.VotesCount,
			Children: children,
		})
	}
	return tree, nil
}

func (s *Service) Summary(ctx context.Context) (*Summary, error) {
	persons, err := s.repo.All(ctx)
	if err != nil {
		return nil, err
	}
	var total int64
	for _, p := range persons {
		total += p.VotesCount
	}
	return &Summary{Individuals: persons, Count: len(persons), TotalVotes: total}, nil
}

func (s *Service) mapWriteError(err error) error {
	if errors.Is(err, audit.ErrWriteFailed) {
		return internal.ErrAuditWriteFailed.WithCause(err)
	}
	return internal.NewInternalError("person write failed", err)
}
