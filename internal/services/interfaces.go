package services

import (
	"context"

	"github.com/abrezinsky/hackjudge/internal/auth"
	"github.com/abrezinsky/hackjudge/internal/judging"
	"github.com/abrezinsky/hackjudge/internal/models"
	"github.com/abrezinsky/hackjudge/pkg/mailer"
)

// Broadcaster defines the interface for broadcasting messages to clients
type Broadcaster interface {
	BroadcastMessage(msgType string, payload interface{})
}

// Mailer sends notification email; implemented by Notifier
type Mailer interface {
	Send(ctx context.Context, msg mailer.Message)
	SendAll(ctx context.Context, messages []mailer.Message) NotificationSummary
}

// LeaderboardInvalidator drops cached leaderboards after judging data changes
type LeaderboardInvalidator interface {
	Invalidate(ctx context.Context, event *models.JudgingEvent)
	InvalidateAll(ctx context.Context)
}

// TeamServicer defines the interface for team operations
type TeamServicer interface {
	Register(ctx context.Context, reg Registration) (*models.Team, error)
	ListTeams(ctx context.Context, status string) ([]models.Team, error)
	GetTeam(ctx context.Context, id int) (*models.Team, error)
	MyTeam(ctx context.Context, p auth.Principal) (*models.Team, error)
	Approve(ctx context.Context, id int) (*models.Team, error)
	Reject(ctx context.Context, id int) (*models.Team, error)
	Delete(ctx context.Context, id int) error
	AssignTable(ctx context.Context, teamID, tableNumber int) (*models.Team, error)
	AllocateLocations(ctx context.Context, locations []judging.Location) (*AllocationResult, error)
	AuthenticateParticipant(ctx context.Context, email, password string) (auth.Principal, error)
}

// EventServicer defines the interface for judging event operations
type EventServicer interface {
	CreateEvent(ctx context.Context, in EventInput) (*models.JudgingEvent, error)
	ListEvents(ctx context.Context) ([]models.JudgingEvent, error)
	GetEvent(ctx context.Context, id int) (*models.JudgingEvent, error)
	UpdateStatus(ctx context.Context, id int, status string) (*models.JudgingEvent, error)
	SetPublished(ctx context.Context, id int, published bool) (*models.JudgingEvent, error)
	ResetJudging(ctx context.Context, id int) error
}

// JudgeServicer defines the interface for judge operations
type JudgeServicer interface {
	CreateJudge(ctx context.Context, eventID int, in JudgeInput) (*models.Judge, error)
	ListJudges(ctx context.Context, eventID int) ([]models.Judge, error)
	DeleteJudge(ctx context.Context, id int) error
	QRImage(ctx context.Context, id int) ([]byte, error)
	NotifyJudges(ctx context.Context, eventID int) (*NotificationSummary, error)
	AuthenticateJudge(ctx context.Context, accessCode string) (auth.Principal, *models.Judge, error)
}

// JudgingServicer defines the interface for assignment and scoring operations
type JudgingServicer interface {
	NextTeam(ctx context.Context, p auth.Principal, judgeID int) (*AssignmentView, error)
	CurrentAssignment(ctx context.Context, p auth.Principal, judgeID int) (*AssignmentView, error)
	Assign(ctx context.Context, judgeID, teamID int) (*AssignmentView, error)
	Skip(ctx context.Context, p auth.Principal, assignmentID int) error
	SubmitResult(ctx context.Context, p auth.Principal, assignmentID int, scores map[string]float64, comments string) (*models.Result, error)
	ListAssignments(ctx context.Context, eventID int) ([]models.Assignment, error)
}

// ResultsServicer defines the interface for leaderboard operations
type ResultsServicer interface {
	LeaderboardInvalidator
	Leaderboard(ctx context.Context, p auth.Principal, eventID int) (*Leaderboard, error)
	TeamStanding(ctx context.Context, p auth.Principal, eventID, teamID int) (*models.Standing, error)
}

// AnnouncementServicer defines the interface for announcement operations
type AnnouncementServicer interface {
	Create(ctx context.Context, in AnnouncementInput) (*AnnouncementResult, error)
	List(ctx context.Context) ([]models.Announcement, error)
}

// Ensure concrete types implement interfaces
var (
	_ Mailer               = (*Notifier)(nil)
	_ TeamServicer         = (*TeamService)(nil)
	_ EventServicer        = (*EventService)(nil)
	_ JudgeServicer        = (*JudgeService)(nil)
	_ JudgingServicer      = (*JudgingService)(nil)
	_ ResultsServicer      = (*ResultsService)(nil)
	_ AnnouncementServicer = (*AnnouncementService)(nil)
)
