package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/abrezinsky/hackjudge/internal/auth"
	"github.com/abrezinsky/hackjudge/internal/logger"
	"github.com/abrezinsky/hackjudge/internal/services"
)

// Pinger reports whether the backing store is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// WebSocketServer upgrades and serves live-update connections
type WebSocketServer interface {
	ServeWs(w http.ResponseWriter, r *http.Request)
}

// HTTPMetrics records served requests and exposes the metrics endpoint
type HTTPMetrics interface {
	ObserveHTTP(route, method string, status int, elapsed time.Duration)
	Handler() http.Handler
}

// Handlers holds all HTTP handler dependencies
type Handlers struct {
	Teams         services.TeamServicer
	Events        services.EventServicer
	Judges        services.JudgeServicer
	Judging       services.JudgingServicer
	Results       services.ResultsServicer
	Announcements services.AnnouncementServicer
	Auth          *auth.Auth
	Hub           WebSocketServer
	DB            Pinger
	Metrics       HTTPMetrics // nil disables /metrics and request metrics
	Log           logger.Logger
}

// Deps bundles the constructor arguments of New
type Deps struct {
	Teams         services.TeamServicer
	Events        services.EventServicer
	Judges        services.JudgeServicer
	Judging       services.JudgingServicer
	Results       services.ResultsServicer
	Announcements services.AnnouncementServicer
	Auth          *auth.Auth
	Hub           WebSocketServer
	DB            Pinger
	Metrics       HTTPMetrics
	Log           logger.Logger
}

// New creates a new Handlers instance with all dependencies
func New(d Deps) *Handlers {
	return &Handlers{
		Teams:         d.Teams,
		Events:        d.Events,
		Judges:        d.Judges,
		Judging:       d.Judging,
		Results:       d.Results,
		Announcements: d.Announcements,
		Auth:          d.Auth,
		Hub:           d.Hub,
		DB:            d.DB,
		Metrics:       d.Metrics,
		Log:           d.Log,
	}
}

// principal returns the session principal attached by the auth middleware
func principal(r *http.Request) auth.Principal {
	p, _ := auth.FromContext(r.Context())
	return p
}
