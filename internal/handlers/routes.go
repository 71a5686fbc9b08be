package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/abrezinsky/hackjudge/internal/auth"
)

// conditionalHTTPLogger only logs HTTP requests when HTTP logging is enabled
func (h *Handlers) conditionalHTTPLogger(next http.Handler) http.Handler {
	logger := middleware.Logger(next)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.Log != nil && h.Log.IsHTTPLoggingEnabled() {
			logger.ServeHTTP(w, r)
		} else {
			next.ServeHTTP(w, r)
		}
	})
}

// instrument records request counts and latency by route pattern
func (h *Handlers) instrument(next http.Handler) http.Handler {
	if h.Metrics == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		h.Metrics.ObserveHTTP(route, r.Method, status, time.Since(start))
	})
}

// Router returns a configured chi router with all routes
func (h *Handlers) Router() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(h.conditionalHTTPLogger)
	r.Use(middleware.Recoverer)
	r.Use(h.instrument)
	r.Use(middleware.RedirectSlashes)

	// Operational endpoints stay outside the request timeout
	r.Get("/healthz", h.handleHealth)
	if h.Metrics != nil {
		r.Handle("/metrics", h.Metrics.Handler())
	}
	r.Get("/ws", h.Hub.ServeWs)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(60 * time.Second))
		r.Use(h.Auth.Authenticate)

		// Auth routes (public)
		r.Post("/api/auth/admin/login", h.handleAdminLogin)
		r.Post("/api/auth/login", h.handleParticipantLogin)
		r.Post("/api/auth/judge/login", h.handleJudgeLogin)
		r.Post("/api/auth/logout", h.handleLogout)
		r.Get("/api/auth/me", h.handleMe)

		// Public
		r.Post("/api/teams", h.handleRegisterTeam)
		r.Get("/api/announcements", h.handleListAnnouncements)

		// Participant
		r.With(h.Auth.Require(auth.PermTeamsSelf)).Get("/api/teams/me", h.handleMyTeam)

		// Results (publication gate is applied by the service)
		r.Group(func(r chi.Router) {
			r.Use(h.Auth.Require(auth.PermResultsView))
			r.Get("/api/events/{id}/leaderboard", h.handleLeaderboard)
			r.Get("/api/events/{id}/teams/{teamID}/standing", h.handleTeamStanding)
		})

		// Judging (judge or admin; ownership is checked by the service)
		r.Group(func(r chi.Router) {
			r.Use(h.Auth.Require(auth.PermJudgingScore))
			r.Get("/api/judging/judges/{id}/current", h.handleCurrentAssignment)
			r.Post("/api/judging/judges/{id}/next", h.handleNextTeam)
			r.Post("/api/judging/assignments/{id}/skip", h.handleSkip)
			r.Post("/api/judging/assignments/{id}/result", h.handleSubmitResult)
		})

		// Admin API
		r.Route("/api/admin", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(h.Auth.Require(auth.PermTeamsManage))
				r.Get("/teams", h.handleListTeams)
				r.Post("/teams/allocate", h.handleAllocateLocations)
				r.Get("/teams/{id}", h.handleGetTeam)
				r.Delete("/teams/{id}", h.handleDeleteTeam)
				r.Post("/teams/{id}/approve", h.handleApproveTeam)
				r.Post("/teams/{id}/reject", h.handleRejectTeam)
				r.Put("/teams/{id}/table", h.handleAssignTable)
			})

			r.Group(func(r chi.Router) {
				r.Use(h.Auth.Require(auth.PermEventsManage))
				r.Get("/events", h.handleListEvents)
				r.Post("/events", h.handleCreateEvent)
				r.Get("/events/{id}", h.handleGetEvent)
				r.Put("/events/{id}/status", h.handleUpdateEventStatus)
				r.Put("/events/{id}/publish", h.handlePublishResults)
				r.Post("/events/{id}/reset", h.handleResetJudging)
			})

			r.Group(func(r chi.Router) {
				r.Use(h.Auth.Require(auth.PermJudgesManage))
				r.Get("/events/{id}/judges", h.handleListJudges)
				r.Post("/events/{id}/judges", h.handleCreateJudge)
				r.Post("/events/{id}/judges/notify", h.handleNotifyJudges)
				r.Delete("/judges/{id}", h.handleDeleteJudge)
				r.Get("/judges/{id}/qr", h.handleJudgeQR)
			})

			r.Group(func(r chi.Router) {
				r.Use(h.Auth.Require(auth.PermJudgingAssign))
				r.Post("/assignments", h.handleAssign)
				r.Get("/events/{id}/assignments", h.handleListAssignments)
			})

			r.With(h.Auth.Require(auth.PermAnnouncementsManage)).
				Post("/announcements", h.handleCreateAnnouncement)
		})
	})

	return r
}
