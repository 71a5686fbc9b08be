package services

import (
	"context"
	"strings"

	"github.com/abrezinsky/hackjudge/internal/errors"
	"github.com/abrezinsky/hackjudge/internal/logger"
	"github.com/abrezinsky/hackjudge/internal/models"
	"github.com/abrezinsky/hackjudge/internal/repository"
	"github.com/abrezinsky/hackjudge/pkg/mailer"
)

// AnnouncementServiceRepository defines the repository methods needed by AnnouncementService
type AnnouncementServiceRepository interface {
	repository.AnnouncementRepository
	ListTeams(ctx context.Context, status string) ([]models.Team, error)
}

// AnnouncementInput is the body of an announcement request
type AnnouncementInput struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	Email bool   `json:"email"`
}

// AnnouncementResult is a stored announcement and, when emailed, the
// delivery summary
type AnnouncementResult struct {
	Announcement *models.Announcement `json:"announcement"`
	Email        *NotificationSummary `json:"email,omitempty"`
}

// AnnouncementService publishes announcements to the hub and by email
type AnnouncementService struct {
	log         logger.Logger
	repo        AnnouncementServiceRepository
	mail        Mailer
	broadcaster Broadcaster
}

// NewAnnouncementService creates a new AnnouncementService
func NewAnnouncementService(log logger.Logger, repo AnnouncementServiceRepository, mail Mailer) *AnnouncementService {
	return &AnnouncementService{log: log, repo: repo, mail: mail}
}

// SetBroadcaster sets the broadcaster for sending updates to clients
func (s *AnnouncementService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// Create stores an announcement, pushes it to connected clients and
// optionally emails every approved team
func (s *AnnouncementService) Create(ctx context.Context, in AnnouncementInput) (*AnnouncementResult, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Body = strings.TrimSpace(in.Body)
	if in.Title == "" {
		return nil, errors.Validation("title is required")
	}
	if in.Body == "" {
		return nil, errors.Validation("body is required")
	}

	a, err := s.repo.CreateAnnouncement(ctx, in.Title, in.Body)
	if err != nil {
		return nil, repoError(err, "announcement")
	}
	s.log.Info("Announcement created", "announcement_id", a.ID, "email", in.Email)

	if s.broadcaster != nil {
		s.broadcaster.BroadcastMessage(MsgAnnouncement, a)
	}

	result := &AnnouncementResult{Announcement: a}
	if in.Email {
		summary, err := s.email(ctx, a)
		if err != nil {
			return nil, err
		}
		result.Email = summary
	}
	return result, nil
}

// email sends a to every member and contact address of approved teams,
// once per address
func (s *AnnouncementService) email(ctx context.Context, a *models.Announcement) (*NotificationSummary, error) {
	teams, err := s.repo.ListTeams(ctx, models.TeamApproved)
	if err != nil {
		return nil, repoError(err, "teams")
	}

	seen := make(map[string]bool)
	var recipients []string
	add := func(addr string) {
		addr = strings.ToLower(strings.TrimSpace(addr))
		if addr == "" || seen[addr] {
			return
		}
		seen[addr] = true
		recipients = append(recipients, addr)
	}
	for _, t := range teams {
		add(t.ContactEmail)
		for _, m := range t.Members {
			add(m.Email)
		}
	}

	messages := make([]mailer.Message, 0, len(recipients))
	for _, to := range recipients {
		msg, err := mailer.Render(mailer.TemplateAnnouncement, to, a)
		if err != nil {
			return nil, errors.Internal(err)
		}
		messages = append(messages, msg)
	}

	summary := s.mail.SendAll(ctx, messages)
	return &summary, nil
}

// List returns announcements newest first
func (s *AnnouncementService) List(ctx context.Context) ([]models.Announcement, error) {
	list, err := s.repo.ListAnnouncements(ctx)
	if err != nil {
		return nil, repoError(err, "announcements")
	}
	if list == nil {
		list = []models.Announcement{}
	}
	return list, nil
}
