package services

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/abrezinsky/hackjudge/internal/auth"
	"github.com/abrezinsky/hackjudge/internal/errors"
	"github.com/abrezinsky/hackjudge/internal/judging"
	"github.com/abrezinsky/hackjudge/internal/logger"
	"github.com/abrezinsky/hackjudge/internal/models"
	"github.com/abrezinsky/hackjudge/pkg/cache"
)

// ResultsServiceRepository defines the repository methods needed by ResultsService
type ResultsServiceRepository interface {
	GetEvent(ctx context.Context, id int) (*models.JudgingEvent, error)
	ListEvents(ctx context.Context) ([]models.JudgingEvent, error)
	ListTeams(ctx context.Context, status string) ([]models.Team, error)
	ListResults(ctx context.Context, eventID int) ([]models.Result, error)
}

// Leaderboard is the ranked standings of one event
type Leaderboard struct {
	EventID   int               `json:"event_id" yaml:"event_id"`
	EventType string            `json:"event_type" yaml:"event_type"`
	Standings []models.Standing `json:"standings" yaml:"standings"`
}

// ResultsService computes leaderboards behind a read-through cache
type ResultsService struct {
	log   logger.Logger
	repo  ResultsServiceRepository
	cache cache.Cacher
	sf    singleflight.Group
	ttl   time.Duration
}

// NewResultsService creates a new ResultsService
func NewResultsService(log logger.Logger, repo ResultsServiceRepository, c cache.Cacher, ttl time.Duration) *ResultsService {
	if c == nil {
		c = cache.Noop{}
	}
	return &ResultsService{log: log, repo: repo, cache: c, ttl: ttl}
}

func leaderboardKey(eventID int) string {
	return fmt.Sprintf("hackjudge:leaderboard:%d", eventID)
}

// Leaderboard returns an event's standings. Non-admins only see published
// results.
func (s *ResultsService) Leaderboard(ctx context.Context, p auth.Principal, eventID int) (*Leaderboard, error) {
	event, err := s.repo.GetEvent(ctx, eventID)
	if err != nil {
		return nil, repoError(err, "event")
	}
	if !p.IsAdmin() && !event.ResultsPublished {
		return nil, ErrResultsHidden
	}

	return cache.FindAndCache(ctx, s.cache, &s.sf, leaderboardKey(eventID), s.ttl, s.log,
		func(ctx context.Context) (*Leaderboard, error) {
			return s.compute(ctx, event)
		})
}

func (s *ResultsService) compute(ctx context.Context, event *models.JudgingEvent) (*Leaderboard, error) {
	var standings []models.Standing
	if judging.IsDemoEvent(event.Type) {
		teams, err := s.repo.ListTeams(ctx, models.TeamApproved)
		if err != nil {
			return nil, errors.Internal(err)
		}
		standings = judging.RankDemo(teams)
	} else {
		teams, err := s.repo.ListTeams(ctx, "")
		if err != nil {
			return nil, errors.Internal(err)
		}
		results, err := s.repo.ListResults(ctx, event.ID)
		if err != nil {
			return nil, errors.Internal(err)
		}
		standings = judging.RankPitching(teams, results)
	}
	if standings == nil {
		standings = []models.Standing{}
	}
	return &Leaderboard{EventID: event.ID, EventType: event.Type, Standings: standings}, nil
}

// TeamStanding returns one team's row of an event leaderboard
func (s *ResultsService) TeamStanding(ctx context.Context, p auth.Principal, eventID, teamID int) (*models.Standing, error) {
	board, err := s.Leaderboard(ctx, p, eventID)
	if err != nil {
		return nil, err
	}
	for i := range board.Standings {
		if board.Standings[i].TeamID == teamID {
			standing := board.Standings[i]
			return &standing, nil
		}
	}
	return nil, errors.NotFound("team is not ranked in this event")
}

// Invalidate drops the cached leaderboard of event. Demo scores are shared
// by every demo event, so a demo event drops all demo leaderboards.
func (s *ResultsService) Invalidate(ctx context.Context, event *models.JudgingEvent) {
	if !judging.IsDemoEvent(event.Type) {
		s.drop(ctx, leaderboardKey(event.ID))
		return
	}

	events, err := s.repo.ListEvents(ctx)
	if err != nil {
		s.log.Warn("Failed to list events for cache invalidation", "error", err)
		s.drop(ctx, leaderboardKey(event.ID))
		return
	}
	keys := []string{leaderboardKey(event.ID)}
	for _, e := range events {
		if e.ID != event.ID && judging.IsDemoEvent(e.Type) {
			keys = append(keys, leaderboardKey(e.ID))
		}
	}
	s.drop(ctx, keys...)
}

// InvalidateAll drops every cached leaderboard
func (s *ResultsService) InvalidateAll(ctx context.Context) {
	events, err := s.repo.ListEvents(ctx)
	if err != nil {
		s.log.Warn("Failed to list events for cache invalidation", "error", err)
		return
	}
	keys := make([]string, 0, len(events))
	for _, e := range events {
		keys = append(keys, leaderboardKey(e.ID))
	}
	s.drop(ctx, keys...)
}

func (s *ResultsService) drop(ctx context.Context, keys ...string) {
	if len(keys) == 0 {
		return
	}
	if err := s.cache.Delete(ctx, keys...); err != nil {
		s.log.Warn("Failed to invalidate leaderboard cache", "keys", keys, "error", err)
	}
}
