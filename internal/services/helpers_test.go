package services_test

import (
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/abrezinsky/hackjudge/internal/logger"
	"github.com/abrezinsky/hackjudge/internal/repository"
	"github.com/abrezinsky/hackjudge/internal/repository/mock"
	"github.com/abrezinsky/hackjudge/internal/services"
	"github.com/abrezinsky/hackjudge/internal/testutil"
	"github.com/abrezinsky/hackjudge/pkg/cache"
	"github.com/abrezinsky/hackjudge/pkg/mailer"
)

// recordingBroadcaster captures hub messages
type recordingBroadcaster struct {
	mu       sync.Mutex
	messages []string
	payloads []interface{}
}

func (b *recordingBroadcaster) BroadcastMessage(msgType string, payload interface{}) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.messages = append(b.messages, msgType)
	b.payloads = append(b.payloads, payload)
}

func (b *recordingBroadcaster) types() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.messages...)
}

// countingRecorder counts metric events
type countingRecorder struct {
	mu          sync.Mutex
	assignments map[string]int
	results     map[string]int
	emailsOK    int
	emailsFail  int
}

func newCountingRecorder() *countingRecorder {
	return &countingRecorder{assignments: map[string]int{}, results: map[string]int{}}
}

func (r *countingRecorder) AssignmentCreated(eventType string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.assignments[eventType]++
}

func (r *countingRecorder) ResultSubmitted(eventType string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results[eventType]++
}

func (r *countingRecorder) EmailSent(ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if ok {
		r.emailsOK++
	} else {
		r.emailsFail++
	}
}

// fixture wires every service over one in-memory database. Services use
// the mock wrapper so tests can inject repository errors.
type fixture struct {
	repo          *repository.Repository
	mock          *mock.Repository
	mail          *mailer.MockClient
	notifier      *services.Notifier
	cache         *cache.Memory
	metrics       *countingRecorder
	hub           *recordingBroadcaster
	teams         *services.TeamService
	events        *services.EventService
	judges        *services.JudgeService
	judging       *services.JudgingService
	results       *services.ResultsService
	announcements *services.AnnouncementService
}

func setupServices(t *testing.T, mailOpts ...mailer.MockOption) *fixture {
	t.Helper()
	log := logger.NewNop()
	repo := testutil.NewTestRepository(t)
	mockRepo := mock.NewRepository(repo)

	f := &fixture{
		repo:    repo,
		mock:    mockRepo,
		mail:    mailer.NewMockClient(mailOpts...),
		cache:   cache.NewMemory(),
		metrics: newCountingRecorder(),
		hub:     &recordingBroadcaster{},
	}
	f.notifier = services.NewNotifier(log, f.mail, 2, f.metrics)
	f.results = services.NewResultsService(log, mockRepo, f.cache, time.Minute)
	f.teams = services.NewTeamService(log, mockRepo, f.notifier, f.results)
	f.teams.SetRand(rand.New(rand.NewSource(1)))
	f.events = services.NewEventService(log, mockRepo, f.results)
	f.judges = services.NewJudgeService(log, mockRepo, f.notifier, "http://judge.example.com/")
	f.judging = services.NewJudgingService(log, mockRepo, f.results, f.metrics)
	f.judging.SetBroadcaster(f.hub)
	f.announcements = services.NewAnnouncementService(log, mockRepo, f.notifier)
	f.announcements.SetBroadcaster(f.hub)
	return f
}

func intPtr(v int) *int { return &v }
