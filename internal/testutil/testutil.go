package testutil

import (
	"context"
	"testing"

	"github.com/abrezinsky/hackjudge/internal/models"
	"github.com/abrezinsky/hackjudge/internal/repository"
)

// NewTestRepository creates a new in-memory repository for testing.
// Each call creates a fresh database with all migrations applied.
func NewTestRepository(t *testing.T) *repository.Repository {
	t.Helper()

	repo, err := repository.New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test repository: %v", err)
	}

	t.Cleanup(func() {
		repo.Close()
	})

	return repo
}

// SeedTeam registers an approved team seated at table
func SeedTeam(t *testing.T, repo repository.TeamRepository, name string, table int) int {
	t.Helper()
	ctx := context.Background()

	id, err := repo.CreateTeamWithAccount(ctx, &models.Team{
		Name:         name,
		Members:      []models.Member{{Name: name + " Lead", Email: name + "@example.com"}},
		ContactEmail: name + "@example.com",
		Status:       models.TeamApproved,
	}, name+"@example.com", "hash")
	if err != nil {
		t.Fatalf("failed to create team %s: %v", name, err)
	}
	if table > 0 {
		if err := repo.SetTeamTable(ctx, int(id), table); err != nil {
			t.Fatalf("failed to seat team %s: %v", name, err)
		}
	}
	return int(id)
}

// SeedEvent creates an event of the given type and status with a 1-10 range
func SeedEvent(t *testing.T, repo repository.EventRepository, eventType, status string) int {
	t.Helper()
	ctx := context.Background()

	id, err := repo.CreateEvent(ctx, &models.JudgingEvent{
		Name:     eventType + " round",
		Type:     eventType,
		ScoreMin: 1,
		ScoreMax: 10,
	})
	if err != nil {
		t.Fatalf("failed to create event: %v", err)
	}
	if status != "" && status != models.EventSetup {
		if err := repo.UpdateEventStatus(ctx, int(id), status); err != nil {
			t.Fatalf("failed to set event status: %v", err)
		}
	}
	return int(id)
}

// SeedJudge creates a judge for an event. A non-nil teamID makes it a
// participant judge.
func SeedJudge(t *testing.T, repo repository.JudgeRepository, eventID int, name string, teamID *int) int {
	t.Helper()

	judgeType := models.JudgeExternal
	if teamID != nil {
		judgeType = models.JudgeParticipant
	}
	id, err := repo.CreateJudge(context.Background(), &models.Judge{
		EventID:    eventID,
		Name:       name,
		Email:      name + "@judges.example.com",
		Type:       judgeType,
		TeamID:     teamID,
		AccessCode: "code-" + name,
	})
	if err != nil {
		t.Fatalf("failed to create judge %s: %v", name, err)
	}
	return int(id)
}
