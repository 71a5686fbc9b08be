package mock

import (
	"context"

	"github.com/abrezinsky/hackjudge/internal/models"
	"github.com/abrezinsky/hackjudge/internal/repository"
)

// Repository wraps a real repository and allows injecting errors for testing.
// This provides a flexible way to test error paths without complex database manipulation.
//
// Usage:
//
//	realRepo := testutil.NewTestRepository(t)
//	mockRepo := mock.NewRepository(realRepo)
//	mockRepo.ListResultsError = errors.New("database error")
//	svc := services.NewResultsService(log, mockRepo, cache.Noop{})
//	_, err := svc.Leaderboard(ctx, principal, eventID)
//	// err will now contain the injected error
type Repository struct {
	repository.FullRepository

	// ===== Team Errors =====
	CreateTeamWithAccountError     error
	GetTeamError                   error
	GetTeamByTableError            error
	ListTeamsError                 error
	ListUnseatedApprovedTeamsError error
	UpdateTeamStatusError          error
	SetTeamTableError              error
	SetTeamLocationsError          error
	MaxTableNumberError            error
	DeleteTeamError                error
	GetAccountByEmailError         error

	// ===== Event Errors =====
	CreateEventError         error
	GetEventError            error
	ListEventsError          error
	UpdateEventStatusError   error
	SetResultsPublishedError error
	ResetEventJudgingError   error

	// ===== Judge Errors =====
	CreateJudgeError          error
	GetJudgeError             error
	GetJudgeByAccessCodeError error
	ListJudgesError           error
	DeleteJudgeError          error

	// ===== Assignment Errors =====
	AssignNextTeamError       error
	CreateAssignmentError     error
	GetAssignmentError        error
	GetPendingAssignmentError error
	ListAssignmentsError      error
	PairExistsError           error
	SkipAssignmentError       error
	CompleteAssignmentError   error
	ListResultsError          error

	// ===== Announcement Errors =====
	CreateAnnouncementError error
	ListAnnouncementsError  error

	PingError error
}

// NewRepository creates a mock repository wrapping a real one
func NewRepository(real repository.FullRepository) *Repository {
	return &Repository{
		FullRepository: real,
	}
}

// ===== Team Methods =====

func (m *Repository) CreateTeamWithAccount(ctx context.Context, team *models.Team, email, passwordHash string) (int64, error) {
	if m.CreateTeamWithAccountError != nil {
		return 0, m.CreateTeamWithAccountError
	}
	return m.FullRepository.CreateTeamWithAccount(ctx, team, email, passwordHash)
}

func (m *Repository) GetTeam(ctx context.Context, id int) (*models.Team, error) {
	if m.GetTeamError != nil {
		return nil, m.GetTeamError
	}
	return m.FullRepository.GetTeam(ctx, id)
}

func (m *Repository) GetTeamByTable(ctx context.Context, tableNumber int) (*models.Team, error) {
	if m.GetTeamByTableError != nil {
		return nil, m.GetTeamByTableError
	}
	return m.FullRepository.GetTeamByTable(ctx, tableNumber)
}

func (m *Repository) ListTeams(ctx context.Context, status string) ([]models.Team, error) {
	if m.ListTeamsError != nil {
		return nil, m.ListTeamsError
	}
	return m.FullRepository.ListTeams(ctx, status)
}

func (m *Repository) ListUnseatedApprovedTeams(ctx context.Context) ([]models.Team, error) {
	if m.ListUnseatedApprovedTeamsError != nil {
		return nil, m.ListUnseatedApprovedTeamsError
	}
	return m.FullRepository.ListUnseatedApprovedTeams(ctx)
}

func (m *Repository) UpdateTeamStatus(ctx context.Context, id int, status string) error {
	if m.UpdateTeamStatusError != nil {
		return m.UpdateTeamStatusError
	}
	return m.FullRepository.UpdateTeamStatus(ctx, id, status)
}

func (m *Repository) SetTeamTable(ctx context.Context, id, tableNumber int) error {
	if m.SetTeamTableError != nil {
		return m.SetTeamTableError
	}
	return m.FullRepository.SetTeamTable(ctx, id, tableNumber)
}

func (m *Repository) SetTeamLocations(ctx context.Context, placements []repository.Placement) error {
	if m.SetTeamLocationsError != nil {
		return m.SetTeamLocationsError
	}
	return m.FullRepository.SetTeamLocations(ctx, placements)
}

func (m *Repository) MaxTableNumber(ctx context.Context) (int, error) {
	if m.MaxTableNumberError != nil {
		return 0, m.MaxTableNumberError
	}
	return m.FullRepository.MaxTableNumber(ctx)
}

func (m *Repository) DeleteTeam(ctx context.Context, id int) error {
	if m.DeleteTeamError != nil {
		return m.DeleteTeamError
	}
	return m.FullRepository.DeleteTeam(ctx, id)
}

func (m *Repository) GetAccountByEmail(ctx context.Context, email string) (int, string, error) {
	if m.GetAccountByEmailError != nil {
		return 0, "", m.GetAccountByEmailError
	}
	return m.FullRepository.GetAccountByEmail(ctx, email)
}

// ===== Event Methods =====

func (m *Repository) CreateEvent(ctx context.Context, event *models.JudgingEvent) (int64, error) {
	if m.CreateEventError != nil {
		return 0, m.CreateEventError
	}
	return m.FullRepository.CreateEvent(ctx, event)
}

func (m *Repository) GetEvent(ctx context.Context, id int) (*models.JudgingEvent, error) {
	if m.GetEventError != nil {
		return nil, m.GetEventError
	}
	return m.FullRepository.GetEvent(ctx, id)
}

func (m *Repository) ListEvents(ctx context.Context) ([]models.JudgingEvent, error) {
	if m.ListEventsError != nil {
		return nil, m.ListEventsError
	}
	return m.FullRepository.ListEvents(ctx)
}

func (m *Repository) UpdateEventStatus(ctx context.Context, id int, status string) error {
	if m.UpdateEventStatusError != nil {
		return m.UpdateEventStatusError
	}
	return m.FullRepository.UpdateEventStatus(ctx, id, status)
}

func (m *Repository) SetResultsPublished(ctx context.Context, id int, published bool) error {
	if m.SetResultsPublishedError != nil {
		return m.SetResultsPublishedError
	}
	return m.FullRepository.SetResultsPublished(ctx, id, published)
}

func (m *Repository) ResetEventJudging(ctx context.Context, id int, replay repository.ScoreFunc) error {
	if m.ResetEventJudgingError != nil {
		return m.ResetEventJudgingError
	}
	return m.FullRepository.ResetEventJudging(ctx, id, replay)
}

// ===== Judge Methods =====

func (m *Repository) CreateJudge(ctx context.Context, judge *models.Judge) (int64, error) {
	if m.CreateJudgeError != nil {
		return 0, m.CreateJudgeError
	}
	return m.FullRepository.CreateJudge(ctx, judge)
}

func (m *Repository) GetJudge(ctx context.Context, id int) (*models.Judge, error) {
	if m.GetJudgeError != nil {
		return nil, m.GetJudgeError
	}
	return m.FullRepository.GetJudge(ctx, id)
}

func (m *Repository) GetJudgeByAccessCode(ctx context.Context, code string) (*models.Judge, error) {
	if m.GetJudgeByAccessCodeError != nil {
		return nil, m.GetJudgeByAccessCodeError
	}
	return m.FullRepository.GetJudgeByAccessCode(ctx, code)
}

func (m *Repository) ListJudges(ctx context.Context, eventID int) ([]models.Judge, error) {
	if m.ListJudgesError != nil {
		return nil, m.ListJudgesError
	}
	return m.FullRepository.ListJudges(ctx, eventID)
}

func (m *Repository) DeleteJudge(ctx context.Context, id int) error {
	if m.DeleteJudgeError != nil {
		return m.DeleteJudgeError
	}
	return m.FullRepository.DeleteJudge(ctx, id)
}

// ===== Assignment Methods =====

func (m *Repository) AssignNextTeam(ctx context.Context, eventID, judgeID int, ownTeamID *int, pick repository.PickFunc) (*models.Assignment, error) {
	if m.AssignNextTeamError != nil {
		return nil, m.AssignNextTeamError
	}
	return m.FullRepository.AssignNextTeam(ctx, eventID, judgeID, ownTeamID, pick)
}

func (m *Repository) CreateAssignment(ctx context.Context, eventID, judgeID, teamID int) (*models.Assignment, error) {
	if m.CreateAssignmentError != nil {
		return nil, m.CreateAssignmentError
	}
	return m.FullRepository.CreateAssignment(ctx, eventID, judgeID, teamID)
}

func (m *Repository) GetAssignment(ctx context.Context, id int) (*models.Assignment, error) {
	if m.GetAssignmentError != nil {
		return nil, m.GetAssignmentError
	}
	return m.FullRepository.GetAssignment(ctx, id)
}

func (m *Repository) GetPendingAssignment(ctx context.Context, judgeID int) (*models.Assignment, error) {
	if m.GetPendingAssignmentError != nil {
		return nil, m.GetPendingAssignmentError
	}
	return m.FullRepository.GetPendingAssignment(ctx, judgeID)
}

func (m *Repository) ListAssignments(ctx context.Context, eventID int) ([]models.Assignment, error) {
	if m.ListAssignmentsError != nil {
		return nil, m.ListAssignmentsError
	}
	return m.FullRepository.ListAssignments(ctx, eventID)
}

func (m *Repository) PairExists(ctx context.Context, eventID, judgeID, teamID int) (bool, error) {
	if m.PairExistsError != nil {
		return false, m.PairExistsError
	}
	return m.FullRepository.PairExists(ctx, eventID, judgeID, teamID)
}

func (m *Repository) SkipAssignment(ctx context.Context, id int) error {
	if m.SkipAssignmentError != nil {
		return m.SkipAssignmentError
	}
	return m.FullRepository.SkipAssignment(ctx, id)
}

func (m *Repository) CompleteAssignment(ctx context.Context, result *models.Result, rescore repository.ScoreFunc) (*models.Result, error) {
	if m.CompleteAssignmentError != nil {
		return nil, m.CompleteAssignmentError
	}
	return m.FullRepository.CompleteAssignment(ctx, result, rescore)
}

func (m *Repository) ListResults(ctx context.Context, eventID int) ([]models.Result, error) {
	if m.ListResultsError != nil {
		return nil, m.ListResultsError
	}
	return m.FullRepository.ListResults(ctx, eventID)
}

// ===== Announcement Methods =====

func (m *Repository) CreateAnnouncement(ctx context.Context, title, body string) (*models.Announcement, error) {
	if m.CreateAnnouncementError != nil {
		return nil, m.CreateAnnouncementError
	}
	return m.FullRepository.CreateAnnouncement(ctx, title, body)
}

func (m *Repository) ListAnnouncements(ctx context.Context) ([]models.Announcement, error) {
	if m.ListAnnouncementsError != nil {
		return nil, m.ListAnnouncementsError
	}
	return m.FullRepository.ListAnnouncements(ctx)
}

func (m *Repository) Ping(ctx context.Context) error {
	if m.PingError != nil {
		return m.PingError
	}
	return m.FullRepository.Ping(ctx)
}
