package services

import (
	"context"
	stderrors "errors"

	"github.com/abrezinsky/hackjudge/internal/auth"
	"github.com/abrezinsky/hackjudge/internal/errors"
	"github.com/abrezinsky/hackjudge/internal/judging"
	"github.com/abrezinsky/hackjudge/internal/logger"
	"github.com/abrezinsky/hackjudge/internal/metrics"
	"github.com/abrezinsky/hackjudge/internal/models"
	"github.com/abrezinsky/hackjudge/internal/repository"
)

// Hub message types
const (
	MsgAssignmentCreated  = "assignment_created"
	MsgAssignmentSkipped  = "assignment_skipped"
	MsgLeaderboardUpdated = "leaderboard_updated"
	MsgAnnouncement       = "announcement"
)

// JudgingServiceRepository defines the repository methods needed by JudgingService
type JudgingServiceRepository interface {
	repository.AssignmentRepository
	GetJudge(ctx context.Context, id int) (*models.Judge, error)
	GetEvent(ctx context.Context, id int) (*models.JudgingEvent, error)
	GetTeam(ctx context.Context, id int) (*models.Team, error)
}

// AssignmentView is an assignment together with the team to visit
type AssignmentView struct {
	models.Assignment
	Team *models.Team `json:"team"`
}

// JudgingService hands out teams to judges and records their scores
type JudgingService struct {
	log         logger.Logger
	repo        JudgingServiceRepository
	leaders     LeaderboardInvalidator
	metrics     metrics.Recorder
	broadcaster Broadcaster
}

// NewJudgingService creates a new JudgingService
func NewJudgingService(log logger.Logger, repo JudgingServiceRepository, leaders LeaderboardInvalidator, rec metrics.Recorder) *JudgingService {
	if rec == nil {
		rec = metrics.Nop{}
	}
	return &JudgingService{log: log, repo: repo, leaders: leaders, metrics: rec}
}

// SetBroadcaster sets the broadcaster for sending updates to clients
func (s *JudgingService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

func (s *JudgingService) broadcast(msgType string, payload interface{}) {
	if s.broadcaster != nil {
		s.broadcaster.BroadcastMessage(msgType, payload)
	}
}

// actsFor reports whether p may act for judgeID
func actsFor(p auth.Principal, judgeID int) bool {
	return p.IsAdmin() || (p.Role == auth.RoleJudge && p.JudgeID == judgeID)
}

// activeJudge loads a judge and its event, requiring the event to be active
func (s *JudgingService) activeJudge(ctx context.Context, judgeID int) (*models.Judge, *models.JudgingEvent, error) {
	judge, err := s.repo.GetJudge(ctx, judgeID)
	if err != nil {
		return nil, nil, repoError(err, "judge")
	}
	event, err := s.repo.GetEvent(ctx, judge.EventID)
	if err != nil {
		return nil, nil, repoError(err, "event")
	}
	if event.Status != models.EventActive {
		return nil, nil, ErrEventNotActive
	}
	return judge, event, nil
}

func (s *JudgingService) view(ctx context.Context, a *models.Assignment) (*AssignmentView, error) {
	team, err := s.repo.GetTeam(ctx, a.TeamID)
	if err != nil {
		return nil, repoError(err, "team")
	}
	return &AssignmentView{Assignment: *a, Team: team}, nil
}

// ownTeam returns the team a participant judge may not score
func ownTeam(judge *models.Judge) *int {
	if judge.Type == models.JudgeParticipant {
		return judge.TeamID
	}
	return nil
}

// NextTeam returns the judge's pending assignment, or assigns the least
// judged seated team the judge has not seen yet
func (s *JudgingService) NextTeam(ctx context.Context, p auth.Principal, judgeID int) (*AssignmentView, error) {
	judge, event, err := s.activeJudge(ctx, judgeID)
	if err != nil {
		return nil, err
	}
	if !actsFor(p, judgeID) {
		return nil, ErrNotYourJudge
	}

	pending, err := s.repo.GetPendingAssignment(ctx, judgeID)
	switch {
	case err == nil:
		return s.view(ctx, pending)
	case !stderrors.Is(err, repository.ErrNotFound):
		return nil, repoError(err, "assignment")
	}

	assignment, err := s.repo.AssignNextTeam(ctx, event.ID, judgeID, ownTeam(judge), judging.PickLeastJudged)
	switch {
	case stderrors.Is(err, repository.ErrNoCandidates):
		return nil, ErrNoTeamsAvailable
	case stderrors.Is(err, repository.ErrDuplicate):
		// a concurrent request for the same judge won
		pending, err := s.repo.GetPendingAssignment(ctx, judgeID)
		if err != nil {
			return nil, repoError(err, "assignment")
		}
		return s.view(ctx, pending)
	case err != nil:
		return nil, repoError(err, "assignment")
	}

	s.assigned(event, assignment)
	return s.view(ctx, assignment)
}

func (s *JudgingService) assigned(event *models.JudgingEvent, a *models.Assignment) {
	s.log.Info("Team assigned", "assignment_id", a.ID, "event_id", a.EventID, "judge_id", a.JudgeID, "team_id", a.TeamID)
	s.metrics.AssignmentCreated(event.Type)
	s.broadcast(MsgAssignmentCreated, map[string]int{
		"assignment_id": a.ID,
		"event_id":      a.EventID,
		"judge_id":      a.JudgeID,
		"team_id":       a.TeamID,
	})
}

// CurrentAssignment returns the judge's pending assignment
func (s *JudgingService) CurrentAssignment(ctx context.Context, p auth.Principal, judgeID int) (*AssignmentView, error) {
	if _, err := s.repo.GetJudge(ctx, judgeID); err != nil {
		return nil, repoError(err, "judge")
	}
	if !actsFor(p, judgeID) {
		return nil, ErrNotYourJudge
	}

	pending, err := s.repo.GetPendingAssignment(ctx, judgeID)
	if err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			return nil, ErrNoActiveAssignment
		}
		return nil, repoError(err, "assignment")
	}
	return s.view(ctx, pending)
}

// Assign gives a judge a specific team
func (s *JudgingService) Assign(ctx context.Context, judgeID, teamID int) (*AssignmentView, error) {
	judge, event, err := s.activeJudge(ctx, judgeID)
	if err != nil {
		return nil, err
	}
	if _, err := s.repo.GetTeam(ctx, teamID); err != nil {
		return nil, repoError(err, "team")
	}
	if own := ownTeam(judge); own != nil && *own == teamID {
		return nil, errors.Validation("participant judges cannot judge their own team")
	}

	_, err = s.repo.GetPendingAssignment(ctx, judgeID)
	switch {
	case err == nil:
		return nil, ErrAlreadyAssigned
	case !stderrors.Is(err, repository.ErrNotFound):
		return nil, repoError(err, "assignment")
	}

	if judging.IsDemoEvent(event.Type) {
		exists, err := s.repo.PairExists(ctx, event.ID, judgeID, teamID)
		if err != nil {
			return nil, repoError(err, "assignment")
		}
		if exists {
			return nil, errors.Conflict("judge has already been assigned this team")
		}
	}

	assignment, err := s.repo.CreateAssignment(ctx, event.ID, judgeID, teamID)
	if err != nil {
		if stderrors.Is(err, repository.ErrDuplicate) {
			return nil, ErrAlreadyAssigned
		}
		return nil, repoError(err, "assignment")
	}

	s.assigned(event, assignment)
	return s.view(ctx, assignment)
}

// Skip closes a pending assignment without a result
func (s *JudgingService) Skip(ctx context.Context, p auth.Principal, assignmentID int) error {
	a, err := s.repo.GetAssignment(ctx, assignmentID)
	if err != nil {
		return repoError(err, "assignment")
	}
	if !actsFor(p, a.JudgeID) {
		return ErrNotYourJudge
	}
	if err := s.repo.SkipAssignment(ctx, assignmentID); err != nil {
		return repoError(err, "assignment")
	}

	s.log.Info("Assignment skipped", "assignment_id", a.ID, "judge_id", a.JudgeID, "team_id", a.TeamID)
	s.broadcast(MsgAssignmentSkipped, map[string]int{
		"assignment_id": a.ID,
		"event_id":      a.EventID,
		"judge_id":      a.JudgeID,
	})
	return nil
}

// SubmitResult records a judge's scores and closes the assignment. For demo
// events the team's demo score moves in the same transaction.
func (s *JudgingService) SubmitResult(ctx context.Context, p auth.Principal, assignmentID int, scores map[string]float64, comments string) (*models.Result, error) {
	if len(scores) == 0 {
		return nil, errors.Validation("scores must not be empty")
	}

	a, err := s.repo.GetAssignment(ctx, assignmentID)
	if err != nil {
		return nil, repoError(err, "assignment")
	}
	if !actsFor(p, a.JudgeID) {
		return nil, ErrNotYourJudge
	}

	event, err := s.repo.GetEvent(ctx, a.EventID)
	if err != nil {
		return nil, repoError(err, "event")
	}
	if err := judging.ValidateScores(event, scores); err != nil {
		return nil, err
	}
	if a.Status != models.AssignmentPending {
		return nil, ErrNotPending
	}

	overall, err := judging.OverallScore(scores)
	if err != nil {
		return nil, err
	}

	var rescore repository.ScoreFunc
	if judging.IsDemoEvent(event.Type) {
		rescore = judging.UpdateDemoScore
	}
	result, err := s.repo.CompleteAssignment(ctx, &models.Result{
		AssignmentID: a.ID,
		Scores:       scores,
		OverallScore: overall,
		Comments:     comments,
	}, rescore)
	if err != nil {
		if stderrors.Is(err, repository.ErrDuplicate) {
			return nil, ErrNotPending
		}
		return nil, repoError(err, "assignment")
	}

	s.log.Info("Result submitted", "assignment_id", a.ID, "team_id", a.TeamID, "overall_score", overall)
	s.leaders.Invalidate(ctx, event)
	s.metrics.ResultSubmitted(event.Type)
	s.broadcast(MsgLeaderboardUpdated, map[string]int{"event_id": event.ID})
	return result, nil
}

// ListAssignments returns every assignment of an event
func (s *JudgingService) ListAssignments(ctx context.Context, eventID int) ([]models.Assignment, error) {
	if _, err := s.repo.GetEvent(ctx, eventID); err != nil {
		return nil, repoError(err, "event")
	}
	assignments, err := s.repo.ListAssignments(ctx, eventID)
	if err != nil {
		return nil, repoError(err, "assignments")
	}
	if assignments == nil {
		assignments = []models.Assignment{}
	}
	return assignments, nil
}
