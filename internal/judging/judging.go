// Package judging holds the scoring and matching rules for judging events:
// picking the next team for a judge, folding a result into a team's demo
// score, ranking teams under both scoring regimes, and spreading teams over
// locations. Everything here is pure; storage and authorization live in the
// services package.
package judging

import (
	"math"
	"sort"
	"strings"

	"github.com/abrezinsky/hackjudge/internal/errors"
	"github.com/abrezinsky/hackjudge/internal/models"
)

// K is the learning rate of the demo score update.
const K = 32.0

// Default per-criterion score range used when an event does not set one.
const (
	DefaultScoreMin = 1.0
	DefaultScoreMax = 10.0
)

// IsDemoEvent reports whether an event type uses the running demo score.
func IsDemoEvent(eventType string) bool {
	return strings.HasPrefix(eventType, "demo_")
}

// ValidEventType reports whether eventType is one of the known event types.
func ValidEventType(eventType string) bool {
	switch eventType {
	case models.EventDemoParticipants, models.EventDemoJudges, models.EventPitching:
		return true
	}
	return false
}

// OverallScore returns the arithmetic mean of the submitted scores.
func OverallScore(scores map[string]float64) (float64, error) {
	if len(scores) == 0 {
		return 0, errors.Validation("scores must not be empty")
	}
	var sum float64
	for _, s := range scores {
		sum += s
	}
	return sum / float64(len(scores)), nil
}

// ValidateScores checks a score map against an event's criteria and range.
func ValidateScores(event *models.JudgingEvent, scores map[string]float64) error {
	if len(scores) == 0 {
		return errors.Validation("scores must not be empty")
	}

	allowed := make(map[string]bool, len(event.Criteria))
	for _, c := range event.Criteria {
		allowed[c] = true
	}

	for name, score := range scores {
		if strings.TrimSpace(name) == "" {
			return errors.Validation("criterion name must not be empty")
		}
		if len(allowed) > 0 && !allowed[name] {
			return errors.Validationf("unknown criterion %q", name)
		}
		if math.IsNaN(score) || score < event.ScoreMin || score > event.ScoreMax {
			return errors.Validationf("score for %q must be between %g and %g", name, event.ScoreMin, event.ScoreMax)
		}
	}
	return nil
}

// ValidateScoreRange rejects ranges where min is not below max.
func ValidateScoreRange(min, max float64) error {
	if min >= max {
		return errors.Validationf("score_min (%g) must be less than score_max (%g)", min, max)
	}
	return nil
}

// UpdateDemoScore pulls a team's demo score toward the normalized judge score.
//
// The opponent rating is fixed at 0, so this is a one-sided ELO step rather
// than a pairwise match: overall/10 plays the role of the actual outcome.
func UpdateDemoScore(current, overall float64) float64 {
	expected := 1 / (1 + math.Pow(10, (0-current)/400))
	return current + K*(overall/10-expected)
}

// PickLeastJudged returns the seated, non-excluded team with the lowest
// times-judged count. Ties go to the earliest team in input order.
func PickLeastJudged(teams []models.Team, exclude map[int]bool) (models.Team, bool) {
	pool := EligibleTeams(teams, exclude)
	if len(pool) == 0 {
		return models.Team{}, false
	}
	return pool[0], true
}

// EligibleTeams filters to seated teams outside exclude, ordered by
// times judged ascending.
func EligibleTeams(teams []models.Team, exclude map[int]bool) []models.Team {
	var pool []models.Team
	for _, t := range teams {
		if t.TableNumber == nil || exclude[t.ID] {
			continue
		}
		pool = append(pool, t)
	}
	sort.SliceStable(pool, func(i, j int) bool {
		return pool[i].TimesJudged < pool[j].TimesJudged
	})
	return pool
}
