package repository

import (
	"context"

	"github.com/abrezinsky/hackjudge/internal/models"
)

// PickFunc chooses a team from seated candidates, skipping excluded IDs.
type PickFunc func(candidates []models.Team, exclude map[int]bool) (models.Team, bool)

// ScoreFunc maps a team's current demo score and a result's overall score to
// the new demo score.
type ScoreFunc func(current, overall float64) float64

// TeamRepository defines team and participant account operations
type TeamRepository interface {
	CreateTeamWithAccount(ctx context.Context, team *models.Team, email, passwordHash string) (int64, error)
	GetTeam(ctx context.Context, id int) (*models.Team, error)
	GetTeamByTable(ctx context.Context, tableNumber int) (*models.Team, error)
	ListTeams(ctx context.Context, status string) ([]models.Team, error)
	ListUnseatedApprovedTeams(ctx context.Context) ([]models.Team, error)
	UpdateTeamStatus(ctx context.Context, id int, status string) error
	SetTeamTable(ctx context.Context, id, tableNumber int) error
	SetTeamLocations(ctx context.Context, placements []Placement) error
	MaxTableNumber(ctx context.Context) (int, error)
	DeleteTeam(ctx context.Context, id int) error
	GetAccountByEmail(ctx context.Context, email string) (teamID int, passwordHash string, err error)
}

// EventRepository defines judging event operations
type EventRepository interface {
	CreateEvent(ctx context.Context, event *models.JudgingEvent) (int64, error)
	GetEvent(ctx context.Context, id int) (*models.JudgingEvent, error)
	ListEvents(ctx context.Context) ([]models.JudgingEvent, error)
	UpdateEventStatus(ctx context.Context, id int, status string) error
	SetResultsPublished(ctx context.Context, id int, published bool) error
	ResetEventJudging(ctx context.Context, id int, replay ScoreFunc) error
}

// JudgeRepository defines judge operations
type JudgeRepository interface {
	CreateJudge(ctx context.Context, judge *models.Judge) (int64, error)
	GetJudge(ctx context.Context, id int) (*models.Judge, error)
	GetJudgeByAccessCode(ctx context.Context, code string) (*models.Judge, error)
	ListJudges(ctx context.Context, eventID int) ([]models.Judge, error)
	DeleteJudge(ctx context.Context, id int) error
}

// AssignmentRepository defines assignment and result operations
type AssignmentRepository interface {
	AssignNextTeam(ctx context.Context, eventID, judgeID int, ownTeamID *int, pick PickFunc) (*models.Assignment, error)
	CreateAssignment(ctx context.Context, eventID, judgeID, teamID int) (*models.Assignment, error)
	GetAssignment(ctx context.Context, id int) (*models.Assignment, error)
	GetPendingAssignment(ctx context.Context, judgeID int) (*models.Assignment, error)
	ListAssignments(ctx context.Context, eventID int) ([]models.Assignment, error)
	PairExists(ctx context.Context, eventID, judgeID, teamID int) (bool, error)
	SkipAssignment(ctx context.Context, id int) error
	CompleteAssignment(ctx context.Context, result *models.Result, rescore ScoreFunc) (*models.Result, error)
	ListResults(ctx context.Context, eventID int) ([]models.Result, error)
}

// AnnouncementRepository defines announcement operations
type AnnouncementRepository interface {
	CreateAnnouncement(ctx context.Context, title, body string) (*models.Announcement, error)
	ListAnnouncements(ctx context.Context) ([]models.Announcement, error)
}

// FullRepository combines all repository interfaces
// Use this when a service needs access to multiple domains
type FullRepository interface {
	TeamRepository
	EventRepository
	JudgeRepository
	AssignmentRepository
	AnnouncementRepository
	Ping(ctx context.Context) error
}

// Ensure Repository implements all interfaces
var _ FullRepository = (*Repository)(nil)
