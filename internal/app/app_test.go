package app

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/abrezinsky/hackjudge/internal/auth"
	"github.com/abrezinsky/hackjudge/internal/config"
	"github.com/abrezinsky/hackjudge/internal/logger"
	"github.com/abrezinsky/hackjudge/internal/models"
	"github.com/abrezinsky/hackjudge/internal/testutil"
	"github.com/abrezinsky/hackjudge/pkg/cache"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.New()
	cfg.DBPath = filepath.Join(t.TempDir(), "hackjudge.db")
	cfg.Addr = "127.0.0.1:0"
	return cfg
}

func createTestApp(t *testing.T, cfg *config.Config) *App {
	t.Helper()
	a, err := New(context.Background(), cfg, logger.NewNop(), auth.New("test-password"))
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	t.Cleanup(func() { a.Close() })
	return a
}

func TestNew_InitializesApp(t *testing.T) {
	a := createTestApp(t, testConfig(t))

	if a.handlers == nil {
		t.Error("expected handlers to be initialized")
	}
	if a.repo == nil {
		t.Error("expected repo to be initialized")
	}
	if _, ok := a.cache.(cache.Noop); !ok {
		t.Errorf("expected no-op cache without redis, got %T", a.cache)
	}
	if a.handlers.Metrics == nil {
		t.Error("expected metrics to be enabled by default")
	}
}

func TestNew_MetricsDisabled(t *testing.T) {
	cfg := testConfig(t)
	cfg.MetricsEnabled = false
	a := createTestApp(t, cfg)

	w := httptest.NewRecorder()
	a.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 for /metrics, got %d", w.Code)
	}
}

func TestNew_HTTPLoggingFromConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.HTTPLogging = true
	log := logger.NewNop()

	a, err := New(context.Background(), cfg, log, auth.New("pw"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer a.Close()

	if !log.IsHTTPLoggingEnabled() {
		t.Error("expected HTTP logging to be enabled")
	}
}

func TestNew_FailsWithBadDBPath(t *testing.T) {
	cfg := testConfig(t)
	cfg.DBPath = "/nonexistent/path/db.sqlite"

	if _, err := New(context.Background(), cfg, logger.NewNop(), auth.New("pw")); err == nil {
		t.Error("expected error for invalid db path")
	}
}

func TestNew_FailsWhenRedisUnreachable(t *testing.T) {
	cfg := testConfig(t)
	cfg.RedisAddr = "127.0.0.1:1"

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := New(ctx, cfg, logger.NewNop(), auth.New("pw")); err == nil {
		t.Error("expected error for unreachable redis")
	}
}

func TestApp_Router_ServesHealth(t *testing.T) {
	a := createTestApp(t, testConfig(t))
	server := httptest.NewServer(a.Router())
	defer server.Close()

	resp, err := http.Get(server.URL + "/healthz")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200 for /healthz, got %d", resp.StatusCode)
	}
}

func TestApp_Leaderboard(t *testing.T) {
	a := createTestApp(t, testConfig(t))
	eventID := testutil.SeedEvent(t, a.repo, models.EventDemoJudges, models.EventActive)
	testutil.SeedTeam(t, a.repo, "alpha", 1)

	board, err := a.Leaderboard(context.Background(), eventID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(board.Standings) != 1 || board.Standings[0].TeamName != "alpha" {
		t.Errorf("unexpected standings: %+v", board.Standings)
	}
}

func TestApp_Run_StopsOnCancel(t *testing.T) {
	a := createTestApp(t, testConfig(t))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("expected clean shutdown, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestApp_Run_ListenError(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to listen: %v", err)
	}
	defer l.Close()

	cfg := testConfig(t)
	cfg.Addr = l.Addr().String()
	a := createTestApp(t, cfg)

	if err := a.Run(context.Background()); err == nil {
		t.Error("expected error when address is in use")
	}
}

// mockInterface implements networkInterface for testing
type mockInterface struct {
	flags net.Flags
	addrs []net.Addr
	err   error
}

func (m mockInterface) Flags() net.Flags {
	return m.flags
}

func (m mockInterface) Addrs() ([]net.Addr, error) {
	return m.addrs, m.err
}

// mockNetworkProvider implements networkProvider for testing
type mockNetworkProvider struct {
	interfaces []networkInterface
	err        error
}

func (m mockNetworkProvider) Interfaces() ([]networkInterface, error) {
	return m.interfaces, m.err
}

func lanProvider(ip string) mockNetworkProvider {
	return mockNetworkProvider{interfaces: []networkInterface{mockInterface{
		flags: net.FlagUp,
		addrs: []net.Addr{&net.IPNet{IP: net.ParseIP(ip), Mask: net.CIDRMask(24, 32)}},
	}}}
}

func TestResolveBaseURL(t *testing.T) {
	tests := []struct {
		name     string
		baseURL  string
		provider networkProvider
		want     string
	}{
		{"localhost with port", "http://localhost:8081", lanProvider("192.168.1.20"), "http://192.168.1.20:8081"},
		{"localhost without port", "https://localhost/", lanProvider("10.0.0.5"), "https://10.0.0.5"},
		{"public host untouched", "https://judge.example.com", lanProvider("192.168.1.20"), "https://judge.example.com"},
		{"no LAN address", "http://localhost:8081", mockNetworkProvider{err: net.ErrClosed}, "http://localhost:8081"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := resolveBaseURL(tt.baseURL, tt.provider); got != tt.want {
				t.Errorf("resolveBaseURL(%q) = %q, want %q", tt.baseURL, got, tt.want)
			}
		})
	}
}

func TestGetPreferredIP_NetworkError(t *testing.T) {
	provider := mockNetworkProvider{err: net.ErrClosed}

	if ip := getPreferredIP(provider); ip != "localhost" {
		t.Errorf("expected 'localhost' on error, got: %s", ip)
	}
}

func TestGetPreferredIP_InterfaceAddrsError(t *testing.T) {
	provider := mockNetworkProvider{interfaces: []networkInterface{
		mockInterface{flags: net.FlagUp, err: net.ErrClosed},
	}}

	if ip := getPreferredIP(provider); ip != "localhost" {
		t.Errorf("expected 'localhost' when Addrs() fails, got: %s", ip)
	}
}

func TestGetPreferredIP_WithIPAddr(t *testing.T) {
	provider := mockNetworkProvider{interfaces: []networkInterface{
		mockInterface{flags: net.FlagUp, addrs: []net.Addr{&net.IPAddr{IP: net.ParseIP("192.168.1.100")}}},
	}}

	if ip := getPreferredIP(provider); ip != "192.168.1.100" {
		t.Errorf("expected '192.168.1.100', got: %s", ip)
	}
}

func TestGetPreferredIP_PrefersPrivate(t *testing.T) {
	provider := mockNetworkProvider{interfaces: []networkInterface{
		mockInterface{flags: net.FlagUp, addrs: []net.Addr{
			&net.IPNet{IP: net.ParseIP("8.8.8.8"), Mask: net.CIDRMask(24, 32)},
			&net.IPNet{IP: net.ParseIP("172.16.4.2"), Mask: net.CIDRMask(12, 32)},
		}},
	}}

	if ip := getPreferredIP(provider); ip != "172.16.4.2" {
		t.Errorf("expected private address, got: %s", ip)
	}
}

func TestGetPreferredIP_PublicIPFallback(t *testing.T) {
	if ip := getPreferredIP(lanProvider("8.8.8.8")); ip != "8.8.8.8" {
		t.Errorf("expected '8.8.8.8' (public IP fallback), got: %s", ip)
	}
}

func TestGetPreferredIP_SkipsLoopbackAndDown(t *testing.T) {
	provider := mockNetworkProvider{interfaces: []networkInterface{
		mockInterface{flags: net.FlagUp | net.FlagLoopback, addrs: []net.Addr{
			&net.IPNet{IP: net.ParseIP("192.168.9.9"), Mask: net.CIDRMask(24, 32)},
		}},
		mockInterface{flags: 0, addrs: []net.Addr{
			&net.IPNet{IP: net.ParseIP("192.168.8.8"), Mask: net.CIDRMask(24, 32)},
		}},
		mockInterface{flags: net.FlagUp, addrs: []net.Addr{
			&net.IPNet{IP: net.ParseIP("127.0.0.1"), Mask: net.CIDRMask(8, 32)},
			&net.IPNet{IP: net.ParseIP("fe80::1"), Mask: net.CIDRMask(64, 128)},
		}},
	}}

	if ip := getPreferredIP(provider); ip != "localhost" {
		t.Errorf("expected 'localhost', got: %s", ip)
	}
}
