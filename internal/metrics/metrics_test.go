package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_Counters(t *testing.T) {
	m := New()

	m.AssignmentCreated("pitching")
	m.AssignmentCreated("pitching")
	m.ResultSubmitted("demo_judges")
	m.EmailSent(true)
	m.EmailSent(false)
	m.EmailSent(false)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.assignmentsCreated.WithLabelValues("pitching")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.resultsSubmitted.WithLabelValues("demo_judges")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.emails.WithLabelValues("sent")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.emails.WithLabelValues("failed")))
}

func TestManager_ObserveHTTP(t *testing.T) {
	m := New()
	m.ObserveHTTP("/api/teams", "GET", 200, 15*time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("/api/teams", "GET", "200")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.httpRequestDuration))
}

func TestManager_Handler(t *testing.T) {
	m := New()
	m.ResultSubmitted("pitching")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body), "hackjudge_judging_results_submitted_total"))
	assert.False(t, strings.Contains(string(body), "go_goroutines"), "runtime collectors are not registered")
}

func TestNop(t *testing.T) {
	var r Recorder = Nop{}
	r.AssignmentCreated("x")
	r.ResultSubmitted("x")
	r.EmailSent(false)
}
