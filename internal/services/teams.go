package services

import (
	"context"
	stderrors "errors"
	"math/rand"
	"net/mail"
	"strings"
	"sync"
	"time"

	"github.com/abrezinsky/hackjudge/internal/auth"
	"github.com/abrezinsky/hackjudge/internal/errors"
	"github.com/abrezinsky/hackjudge/internal/judging"
	"github.com/abrezinsky/hackjudge/internal/logger"
	"github.com/abrezinsky/hackjudge/internal/models"
	"github.com/abrezinsky/hackjudge/internal/repository"
	"github.com/abrezinsky/hackjudge/pkg/mailer"
)

const minPasswordLength = 8

// Registration is a team sign-up request
type Registration struct {
	Name         string          `json:"name"`
	Members      []models.Member `json:"members"`
	ContactEmail string          `json:"contact_email"`
	Password     string          `json:"password"`
}

// AllocationResult reports a location allocation run
type AllocationResult struct {
	Assigned   int            `json:"assigned"`
	ByLocation map[string]int `json:"by_location"`
}

// TeamService handles team registration, review and seating
type TeamService struct {
	log     logger.Logger
	repo    repository.TeamRepository
	mail    Mailer
	leaders LeaderboardInvalidator
	rngMu   sync.Mutex
	rng     *rand.Rand
	seatMu  sync.Mutex
}

// NewTeamService creates a new TeamService
func NewTeamService(log logger.Logger, repo repository.TeamRepository, mail Mailer, leaders LeaderboardInvalidator) *TeamService {
	return &TeamService{
		log:     log,
		repo:    repo,
		mail:    mail,
		leaders: leaders,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// SetRand replaces the shuffle source used by AllocateLocations
func (s *TeamService) SetRand(rng *rand.Rand) {
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	s.rng = rng
}

// Register creates a pending team together with its participant account
func (s *TeamService) Register(ctx context.Context, reg Registration) (*models.Team, error) {
	reg.Name = strings.TrimSpace(reg.Name)
	reg.ContactEmail = strings.ToLower(strings.TrimSpace(reg.ContactEmail))

	if reg.Name == "" {
		return nil, errors.Validation("team name is required")
	}
	if _, err := mail.ParseAddress(reg.ContactEmail); err != nil {
		return nil, errors.Validation("a valid contact email is required")
	}
	if len(reg.Password) < minPasswordLength {
		return nil, errors.Validationf("password must be at least %d characters", minPasswordLength)
	}
	for i, m := range reg.Members {
		if strings.TrimSpace(m.Name) == "" {
			return nil, errors.Validationf("member %d needs a name", i+1)
		}
	}

	hash, err := auth.HashPassword(reg.Password)
	if err != nil {
		return nil, errors.Internal(err)
	}

	team := &models.Team{
		Name:         reg.Name,
		Members:      reg.Members,
		ContactEmail: reg.ContactEmail,
		Status:       models.TeamPending,
	}
	id, err := s.repo.CreateTeamWithAccount(ctx, team, reg.ContactEmail, hash)
	if err != nil {
		if stderrors.Is(err, repository.ErrDuplicate) {
			return nil, errors.Conflict("an account with this email already exists")
		}
		return nil, repoError(err, "team")
	}

	s.log.Info("Team registered", "team_id", id, "name", reg.Name)
	return s.GetTeam(ctx, int(id))
}

// ListTeams returns all teams, or only those with status when it is set
func (s *TeamService) ListTeams(ctx context.Context, status string) ([]models.Team, error) {
	switch status {
	case "", models.TeamPending, models.TeamApproved, models.TeamRejected:
	default:
		return nil, errors.Validationf("unknown team status %q", status)
	}
	teams, err := s.repo.ListTeams(ctx, status)
	if err != nil {
		return nil, repoError(err, "teams")
	}
	if teams == nil {
		teams = []models.Team{}
	}
	return teams, nil
}

// GetTeam retrieves a team by ID
func (s *TeamService) GetTeam(ctx context.Context, id int) (*models.Team, error) {
	team, err := s.repo.GetTeam(ctx, id)
	if err != nil {
		return nil, repoError(err, "team")
	}
	return team, nil
}

// MyTeam returns the team of a participant session
func (s *TeamService) MyTeam(ctx context.Context, p auth.Principal) (*models.Team, error) {
	if p.Role != auth.RoleParticipant || p.TeamID == 0 {
		return nil, errors.Forbidden("only participants have a team")
	}
	return s.GetTeam(ctx, p.TeamID)
}

// Approve marks a team approved and emails its contact address
func (s *TeamService) Approve(ctx context.Context, id int) (*models.Team, error) {
	team, err := s.setStatus(ctx, id, models.TeamApproved)
	if err != nil {
		return nil, err
	}

	msg, err := mailer.Render(mailer.TemplateTeamApproved, team.ContactEmail, map[string]string{"TeamName": team.Name})
	if err != nil {
		s.log.Error("Failed to render approval email", "team_id", id, "error", err)
		return team, nil
	}
	s.mail.Send(ctx, msg)
	return team, nil
}

// Reject marks a team rejected
func (s *TeamService) Reject(ctx context.Context, id int) (*models.Team, error) {
	return s.setStatus(ctx, id, models.TeamRejected)
}

func (s *TeamService) setStatus(ctx context.Context, id int, status string) (*models.Team, error) {
	if err := s.repo.UpdateTeamStatus(ctx, id, status); err != nil {
		return nil, repoError(err, "team")
	}
	s.log.Info("Team status changed", "team_id", id, "status", status)

	// demo leaderboards rank approved teams only
	s.leaders.InvalidateAll(ctx)
	return s.GetTeam(ctx, id)
}

// Delete removes a team and its account
func (s *TeamService) Delete(ctx context.Context, id int) error {
	if err := s.repo.DeleteTeam(ctx, id); err != nil {
		return repoError(err, "team")
	}
	s.log.Info("Team deleted", "team_id", id)
	s.leaders.InvalidateAll(ctx)
	return nil
}

// AssignTable seats a team at tableNumber
func (s *TeamService) AssignTable(ctx context.Context, teamID, tableNumber int) (*models.Team, error) {
	if tableNumber < 1 {
		return nil, errors.Validation("table number must be at least 1")
	}

	team, err := s.GetTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if team.TableNumber != nil && *team.TableNumber == tableNumber {
		return team, nil
	}

	holder, err := s.repo.GetTeamByTable(ctx, tableNumber)
	switch {
	case err == nil && holder.ID != teamID:
		return nil, errors.Conflictf("table %d is already assigned to %s", tableNumber, holder.Name)
	case err != nil && !stderrors.Is(err, repository.ErrNotFound):
		return nil, repoError(err, "team")
	}

	if err := s.repo.SetTeamTable(ctx, teamID, tableNumber); err != nil {
		if stderrors.Is(err, repository.ErrDuplicate) {
			return nil, errors.Conflictf("table %d is already assigned", tableNumber)
		}
		return nil, repoError(err, "team")
	}
	s.log.Info("Table assigned", "team_id", teamID, "table_number", tableNumber)
	return s.GetTeam(ctx, teamID)
}

// AllocateLocations spreads approved teams without a location over the given
// locations by percentage. Teams without a table get the next free number.
func (s *TeamService) AllocateLocations(ctx context.Context, locations []judging.Location) (*AllocationResult, error) {
	s.seatMu.Lock()
	defer s.seatMu.Unlock()

	teams, err := s.repo.ListUnseatedApprovedTeams(ctx)
	if err != nil {
		return nil, repoError(err, "teams")
	}

	s.rngMu.Lock()
	slots, err := judging.AllocateLocations(locations, len(teams), s.rng)
	s.rngMu.Unlock()
	if err != nil {
		return nil, err
	}

	result := &AllocationResult{ByLocation: make(map[string]int)}
	if len(teams) == 0 {
		return result, nil
	}

	maxTable, err := s.repo.MaxTableNumber(ctx)
	if err != nil {
		return nil, repoError(err, "teams")
	}

	placements := make([]repository.Placement, len(teams))
	for i, team := range teams {
		var table int
		if team.TableNumber != nil {
			table = *team.TableNumber
		} else {
			maxTable++
			table = maxTable
		}
		placements[i] = repository.Placement{
			TeamID:      team.ID,
			Location:    slots[i],
			TableNumber: table,
		}
		result.ByLocation[slots[i]]++
	}
	if err := s.repo.SetTeamLocations(ctx, placements); err != nil {
		return nil, repoError(err, "team")
	}
	result.Assigned = len(placements)

	s.log.Info("Locations allocated", "assigned", result.Assigned, "locations", len(locations))
	return result, nil
}

// AuthenticateParticipant checks a participant's email and password
func (s *TeamService) AuthenticateParticipant(ctx context.Context, email, password string) (auth.Principal, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	teamID, hash, err := s.repo.GetAccountByEmail(ctx, email)
	if err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			return auth.Principal{}, ErrBadCredentials
		}
		return auth.Principal{}, repoError(err, "account")
	}
	if !auth.CheckPassword(hash, password) {
		return auth.Principal{}, ErrBadCredentials
	}
	return auth.Principal{Role: auth.RoleParticipant, TeamID: teamID}, nil
}
