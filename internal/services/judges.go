package services

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/skip2/go-qrcode"

	"github.com/abrezinsky/hackjudge/internal/auth"
	"github.com/abrezinsky/hackjudge/internal/errors"
	"github.com/abrezinsky/hackjudge/internal/logger"
	"github.com/abrezinsky/hackjudge/internal/models"
	"github.com/abrezinsky/hackjudge/internal/repository"
	"github.com/abrezinsky/hackjudge/pkg/mailer"
)

// JudgeServiceRepository defines the repository methods needed by JudgeService
type JudgeServiceRepository interface {
	repository.JudgeRepository
	GetEvent(ctx context.Context, id int) (*models.JudgingEvent, error)
	GetTeam(ctx context.Context, id int) (*models.Team, error)
}

// JudgeInput is the body of a judge creation request
type JudgeInput struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Type   string `json:"type"`
	TeamID *int   `json:"team_id"`
}

// JudgeService handles judges and their access codes
type JudgeService struct {
	log     logger.Logger
	repo    JudgeServiceRepository
	mail    Mailer
	baseURL string
}

// NewJudgeService creates a new JudgeService. baseURL prefixes the judge
// links in QR codes and emails.
func NewJudgeService(log logger.Logger, repo JudgeServiceRepository, mail Mailer, baseURL string) *JudgeService {
	return &JudgeService{log: log, repo: repo, mail: mail, baseURL: strings.TrimSuffix(baseURL, "/")}
}

// JudgeURL returns the sign-in link for an access code
func (s *JudgeService) JudgeURL(accessCode string) string {
	return fmt.Sprintf("%s/judge/%s", s.baseURL, accessCode)
}

// CreateJudge adds a judge to an event with a fresh access code
func (s *JudgeService) CreateJudge(ctx context.Context, eventID int, in JudgeInput) (*models.Judge, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	if in.Name == "" {
		return nil, errors.Validation("judge name is required")
	}
	if in.Type == "" {
		in.Type = models.JudgeExternal
	}

	if _, err := s.repo.GetEvent(ctx, eventID); err != nil {
		return nil, repoError(err, "event")
	}

	switch in.Type {
	case models.JudgeParticipant:
		if in.TeamID == nil {
			return nil, errors.Validation("participant judges need a team_id")
		}
		if _, err := s.repo.GetTeam(ctx, *in.TeamID); err != nil {
			if stderrors.Is(err, repository.ErrNotFound) {
				return nil, errors.Validationf("team %d does not exist", *in.TeamID)
			}
			return nil, repoError(err, "team")
		}
	case models.JudgeExternal:
		in.TeamID = nil
	default:
		return nil, errors.Validationf("unknown judge type %q", in.Type)
	}

	judge := &models.Judge{
		EventID:    eventID,
		Name:       in.Name,
		Email:      in.Email,
		Type:       in.Type,
		TeamID:     in.TeamID,
		AccessCode: uuid.NewString(),
	}
	id, err := s.repo.CreateJudge(ctx, judge)
	if err != nil {
		return nil, repoError(err, "judge")
	}
	judge.ID = int(id)

	s.log.Info("Judge created", "judge_id", id, "event_id", eventID, "type", in.Type)
	return judge, nil
}

// ListJudges returns the judges of an event
func (s *JudgeService) ListJudges(ctx context.Context, eventID int) ([]models.Judge, error) {
	if _, err := s.repo.GetEvent(ctx, eventID); err != nil {
		return nil, repoError(err, "event")
	}
	judges, err := s.repo.ListJudges(ctx, eventID)
	if err != nil {
		return nil, repoError(err, "judges")
	}
	if judges == nil {
		judges = []models.Judge{}
	}
	return judges, nil
}

// DeleteJudge removes a judge
func (s *JudgeService) DeleteJudge(ctx context.Context, id int) error {
	if err := s.repo.DeleteJudge(ctx, id); err != nil {
		return repoError(err, "judge")
	}
	s.log.Info("Judge deleted", "judge_id", id)
	return nil
}

// QRImage returns a PNG QR code of the judge's sign-in link
func (s *JudgeService) QRImage(ctx context.Context, id int) ([]byte, error) {
	judge, err := s.repo.GetJudge(ctx, id)
	if err != nil {
		return nil, repoError(err, "judge")
	}
	png, err := qrcode.Encode(s.JudgeURL(judge.AccessCode), qrcode.Medium, 256)
	if err != nil {
		return nil, errors.Internal(err)
	}
	return png, nil
}

// NotifyJudges emails every judge of an event their access link. Judges
// without an email address are reported as failures.
func (s *JudgeService) NotifyJudges(ctx context.Context, eventID int) (*NotificationSummary, error) {
	event, err := s.repo.GetEvent(ctx, eventID)
	if err != nil {
		return nil, repoError(err, "event")
	}
	judges, err := s.repo.ListJudges(ctx, eventID)
	if err != nil {
		return nil, repoError(err, "judges")
	}

	var skipped NotificationSummary
	messages := make([]mailer.Message, 0, len(judges))
	for _, j := range judges {
		if j.Email == "" {
			skipped.addFailure(j.Name, "judge has no email address")
			continue
		}
		msg, err := mailer.Render(mailer.TemplateJudgeAccess, j.Email, map[string]string{
			"JudgeName":  j.Name,
			"EventName":  event.Name,
			"URL":        s.JudgeURL(j.AccessCode),
			"AccessCode": j.AccessCode,
		})
		if err != nil {
			skipped.addFailure(j.Email, err.Error())
			continue
		}
		messages = append(messages, msg)
	}

	summary := s.mail.SendAll(ctx, messages)
	summary.merge(skipped)
	return &summary, nil
}

// AuthenticateJudge resolves an access code to a judge session principal
func (s *JudgeService) AuthenticateJudge(ctx context.Context, accessCode string) (auth.Principal, *models.Judge, error) {
	accessCode = strings.TrimSpace(accessCode)
	if accessCode == "" {
		return auth.Principal{}, nil, ErrBadAccessCode
	}
	judge, err := s.repo.GetJudgeByAccessCode(ctx, accessCode)
	if err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			return auth.Principal{}, nil, ErrBadAccessCode
		}
		return auth.Principal{}, nil, repoError(err, "judge")
	}
	return auth.Principal{Role: auth.RoleJudge, JudgeID: judge.ID}, judge, nil
}
