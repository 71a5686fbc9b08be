package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/abrezinsky/hackjudge/internal/auth"
	"github.com/abrezinsky/hackjudge/internal/config"
	"github.com/abrezinsky/hackjudge/internal/handlers"
	"github.com/abrezinsky/hackjudge/internal/logger"
	"github.com/abrezinsky/hackjudge/internal/metrics"
	"github.com/abrezinsky/hackjudge/internal/repository"
	"github.com/abrezinsky/hackjudge/internal/services"
	"github.com/abrezinsky/hackjudge/internal/websocket"
	"github.com/abrezinsky/hackjudge/pkg/cache"
	"github.com/abrezinsky/hackjudge/pkg/mailer"
)

const shutdownTimeout = 10 * time.Second

// App holds all application dependencies
type App struct {
	cfg      *config.Config
	log      logger.Logger
	repo     *repository.Repository
	cache    cache.Cacher
	notifier *services.Notifier
	hub      *websocket.Hub
	results  *services.ResultsService
	handlers *handlers.Handlers
}

// New opens the database and wires services, hub and handlers. The hub is
// not started until Run.
func New(ctx context.Context, cfg *config.Config, log logger.Logger, adminAuth *auth.Auth) (*App, error) {
	repo, err := repository.New(cfg.DBPath)
	if err != nil {
		return nil, err
	}

	leaderboardCache, err := newCache(ctx, cfg, log)
	if err != nil {
		repo.Close()
		return nil, err
	}

	var rec metrics.Recorder = metrics.Nop{}
	var httpMetrics handlers.HTTPMetrics
	if cfg.MetricsEnabled {
		m := metrics.New()
		rec, httpMetrics = m, m
	}

	var sender mailer.Sender = mailer.LogSender{Log: log}
	if cfg.MailURL != "" {
		sender = mailer.NewHTTPClient(cfg.MailURL, cfg.MailFrom, log)
	}
	notifier := services.NewNotifier(log, sender, cfg.MailConcurrency, rec)

	baseURL := resolveBaseURL(cfg.BaseURL, realNetworkProvider{})

	// Initialize services
	results := services.NewResultsService(log, repo, leaderboardCache, cfg.CacheTTL())
	teams := services.NewTeamService(log, repo, notifier, results)
	events := services.NewEventService(log, repo, results)
	judges := services.NewJudgeService(log, repo, notifier, baseURL)
	judging := services.NewJudgingService(log, repo, results, rec)
	announcements := services.NewAnnouncementService(log, repo, notifier)

	// Initialize WebSocket hub with DI
	hub := websocket.New(log, announcements)
	judging.SetBroadcaster(hub)
	announcements.SetBroadcaster(hub)

	h := handlers.New(handlers.Deps{
		Teams:         teams,
		Events:        events,
		Judges:        judges,
		Judging:       judging,
		Results:       results,
		Announcements: announcements,
		Auth:          adminAuth,
		Hub:           hub,
		DB:            repo,
		Metrics:       httpMetrics,
		Log:           log,
	})

	if cfg.HTTPLogging {
		log.EnableHTTPLogging()
	}

	return &App{
		cfg:      cfg,
		log:      log,
		repo:     repo,
		cache:    leaderboardCache,
		notifier: notifier,
		hub:      hub,
		results:  results,
		handlers: h,
	}, nil
}

// newCache connects to redis when configured and falls back to no caching
func newCache(ctx context.Context, cfg *config.Config, log logger.Logger) (cache.Cacher, error) {
	if cfg.RedisAddr == "" {
		return cache.Noop{}, nil
	}
	c, err := cache.NewRedis(ctx, cache.WithAddress(cfg.RedisAddr), cache.WithDB(cfg.RedisDB))
	if err != nil {
		return nil, fmt.Errorf("connecting to redis at %s: %w", cfg.RedisAddr, err)
	}
	log.Info("Leaderboard cache enabled", "redis", cfg.RedisAddr)
	return c, nil
}

// Router returns the configured HTTP router
func (a *App) Router() chi.Router {
	return a.handlers.Router()
}

// Leaderboard computes an event's standings with admin visibility
func (a *App) Leaderboard(ctx context.Context, eventID int) (*services.Leaderboard, error) {
	return a.results.Leaderboard(ctx, auth.Admin, eventID)
}

// Run serves HTTP until ctx is cancelled, then drains in-flight requests
// and pending email
func (a *App) Run(ctx context.Context) error {
	hubCtx, stopHub := context.WithCancel(ctx)
	defer stopHub()
	a.hub.Start(hubCtx)

	srv := &http.Server{
		Addr:              a.cfg.Addr,
		Handler:           a.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- srv.ListenAndServe()
	}()
	a.log.Info("Server starting", "addr", a.cfg.Addr)

	select {
	case err := <-serverErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	a.log.Info("Shutting down")
	stopHub()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	a.notifier.Wait()
	return nil
}

// Close releases the cache and database
func (a *App) Close() error {
	if c, ok := a.cache.(interface{ Close() error }); ok {
		if err := c.Close(); err != nil {
			a.log.Warn("Failed to close cache", "error", err)
		}
	}
	return a.repo.Close()
}

// resolveBaseURL swaps a localhost host for the machine's LAN address so
// judge links and QR codes work from phones on the venue network
func resolveBaseURL(baseURL string, provider networkProvider) string {
	u, err := url.Parse(baseURL)
	if err != nil || u.Hostname() != "localhost" {
		return baseURL
	}
	ip := getPreferredIP(provider)
	if ip == "localhost" {
		return baseURL
	}
	if port := u.Port(); port != "" {
		u.Host = net.JoinHostPort(ip, port)
	} else {
		u.Host = ip
	}
	return strings.TrimSuffix(u.String(), "/")
}

// networkInterface wraps net.Interface for testing
type networkInterface interface {
	Flags() net.Flags
	Addrs() ([]net.Addr, error)
}

// realInterface wraps a real net.Interface
type realInterface struct {
	iface net.Interface
}

func (r realInterface) Flags() net.Flags {
	return r.iface.Flags
}

func (r realInterface) Addrs() ([]net.Addr, error) {
	return r.iface.Addrs()
}

// networkProvider is an interface for getting network interfaces (for testing)
type networkProvider interface {
	Interfaces() ([]networkInterface, error)
}

// realNetworkProvider implements networkProvider using actual net package
type realNetworkProvider struct{}

func (realNetworkProvider) Interfaces() ([]networkInterface, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, err
	}
	result := make([]networkInterface, len(ifaces))
	for i, iface := range ifaces {
		result[i] = realInterface{iface: iface}
	}
	return result, nil
}

// getPreferredIP returns the best IPv4 address for LAN access, preferring
// private ranges, or "localhost" when none is found
func getPreferredIP(provider networkProvider) string {
	ifaces, err := provider.Interfaces()
	if err != nil {
		return "localhost"
	}

	var candidates []net.IP
	for _, iface := range ifaces {
		flags := iface.Flags()
		if flags&net.FlagUp == 0 || flags&net.FlagLoopback != 0 {
			continue
		}

		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}

		for _, addr := range addrs {
			var ip net.IP
			switch v := addr.(type) {
			case *net.IPNet:
				ip = v.IP
			case *net.IPAddr:
				ip = v.IP
			}
			if ip == nil || ip.To4() == nil || ip.IsLoopback() {
				continue
			}
			candidates = append(candidates, ip)
		}
	}

	for _, ip := range candidates {
		if ip.IsPrivate() {
			return ip.String()
		}
	}
	if len(candidates) > 0 {
		return candidates[0].String()
	}
	return "localhost"
}
