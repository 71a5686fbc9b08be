package services

import (
	"context"
	"strings"

	"github.com/abrezinsky/hackjudge/internal/errors"
	"github.com/abrezinsky/hackjudge/internal/judging"
	"github.com/abrezinsky/hackjudge/internal/logger"
	"github.com/abrezinsky/hackjudge/internal/models"
	"github.com/abrezinsky/hackjudge/internal/repository"
)

// EventInput is the body of an event creation request
type EventInput struct {
	Name     string   `json:"name"`
	Type     string   `json:"type"`
	Criteria []string `json:"criteria"`
	ScoreMin *float64 `json:"score_min"`
	ScoreMax *float64 `json:"score_max"`
}

// EventService handles judging event lifecycle
type EventService struct {
	log     logger.Logger
	repo    repository.EventRepository
	leaders LeaderboardInvalidator
}

// NewEventService creates a new EventService
func NewEventService(log logger.Logger, repo repository.EventRepository, leaders LeaderboardInvalidator) *EventService {
	return &EventService{log: log, repo: repo, leaders: leaders}
}

// CreateEvent validates and stores a new event in setup status
func (s *EventService) CreateEvent(ctx context.Context, in EventInput) (*models.JudgingEvent, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return nil, errors.Validation("event name is required")
	}
	if !judging.ValidEventType(in.Type) {
		return nil, errors.Validationf("unknown event type %q", in.Type)
	}

	event := &models.JudgingEvent{
		Name:     in.Name,
		Type:     in.Type,
		Status:   models.EventSetup,
		ScoreMin: judging.DefaultScoreMin,
		ScoreMax: judging.DefaultScoreMax,
	}
	if in.ScoreMin != nil {
		event.ScoreMin = *in.ScoreMin
	}
	if in.ScoreMax != nil {
		event.ScoreMax = *in.ScoreMax
	}
	if err := judging.ValidateScoreRange(event.ScoreMin, event.ScoreMax); err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(in.Criteria))
	for _, c := range in.Criteria {
		c = strings.TrimSpace(c)
		if c == "" {
			return nil, errors.Validation("criterion names must not be empty")
		}
		if seen[c] {
			return nil, errors.Validationf("duplicate criterion %q", c)
		}
		seen[c] = true
		event.Criteria = append(event.Criteria, c)
	}

	id, err := s.repo.CreateEvent(ctx, event)
	if err != nil {
		return nil, repoError(err, "event")
	}
	s.log.Info("Event created", "event_id", id, "type", event.Type)
	return s.GetEvent(ctx, int(id))
}

// ListEvents returns all events
func (s *EventService) ListEvents(ctx context.Context) ([]models.JudgingEvent, error) {
	events, err := s.repo.ListEvents(ctx)
	if err != nil {
		return nil, repoError(err, "events")
	}
	if events == nil {
		events = []models.JudgingEvent{}
	}
	return events, nil
}

// GetEvent retrieves an event by ID
func (s *EventService) GetEvent(ctx context.Context, id int) (*models.JudgingEvent, error) {
	event, err := s.repo.GetEvent(ctx, id)
	if err != nil {
		return nil, repoError(err, "event")
	}
	return event, nil
}

// UpdateStatus moves an event to setup, active or completed
func (s *EventService) UpdateStatus(ctx context.Context, id int, status string) (*models.JudgingEvent, error) {
	switch status {
	case models.EventSetup, models.EventActive, models.EventCompleted:
	default:
		return nil, errors.Validationf("unknown event status %q", status)
	}
	if err := s.repo.UpdateEventStatus(ctx, id, status); err != nil {
		return nil, repoError(err, "event")
	}
	s.log.Info("Event status changed", "event_id", id, "status", status)
	return s.GetEvent(ctx, id)
}

// SetPublished shows or hides an event's results to non-admins
func (s *EventService) SetPublished(ctx context.Context, id int, published bool) (*models.JudgingEvent, error) {
	if err := s.repo.SetResultsPublished(ctx, id, published); err != nil {
		return nil, repoError(err, "event")
	}
	s.log.Info("Event results visibility changed", "event_id", id, "published", published)
	return s.GetEvent(ctx, id)
}

// ResetJudging deletes an event's assignments and results and rebuilds the
// team counters from what remains
func (s *EventService) ResetJudging(ctx context.Context, id int) error {
	if err := s.repo.ResetEventJudging(ctx, id, judging.UpdateDemoScore); err != nil {
		return repoError(err, "event")
	}
	s.log.Warn("Event judging reset", "event_id", id)
	s.leaders.InvalidateAll(ctx)
	return nil
}
