package handlers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/abrezinsky/hackjudge/internal/auth"
	"github.com/abrezinsky/hackjudge/internal/handlers"
	"github.com/abrezinsky/hackjudge/internal/models"
	"github.com/abrezinsky/hackjudge/internal/services"
	"github.com/abrezinsky/hackjudge/internal/testutil"
)

func TestJudgingFlow_NextSubmitLeaderboard(t *testing.T) {
	ts := newTestSetup(t)
	eventID := testutil.SeedEvent(t, ts.repo, models.EventPitching, models.EventActive)
	teamID := testutil.SeedTeam(t, ts.repo, "alpha", 1)
	judgeID := testutil.SeedJudge(t, ts.repo, eventID, "grace", nil)
	judge := ts.judgeCookie(judgeID)

	w := ts.do(t, http.MethodGet, fmt.Sprintf("/api/judging/judges/%d/current", judgeID), nil, judge)
	expectStatus(t, w, http.StatusNotFound)

	w = ts.do(t, http.MethodPost, fmt.Sprintf("/api/judging/judges/%d/next", judgeID), nil, judge)
	expectStatus(t, w, http.StatusOK)
	var view services.AssignmentView
	decode(t, w, &view)
	if view.TeamID != teamID || view.Team == nil || view.Team.Name != "alpha" {
		t.Fatalf("unexpected assignment: %+v", view)
	}

	// Asking again returns the same pending assignment
	w = ts.do(t, http.MethodPost, fmt.Sprintf("/api/judging/judges/%d/next", judgeID), nil, judge)
	expectStatus(t, w, http.StatusOK)
	var again services.AssignmentView
	decode(t, w, &again)
	if again.ID != view.ID {
		t.Errorf("expected assignment %d again, got %d", view.ID, again.ID)
	}

	w = ts.do(t, http.MethodGet, fmt.Sprintf("/api/judging/judges/%d/current", judgeID), nil, judge)
	expectStatus(t, w, http.StatusOK)

	w = ts.do(t, http.MethodPost, fmt.Sprintf("/api/judging/assignments/%d/result", view.ID), handlers.ResultRequest{
		Scores:   map[string]float64{"impact": 8, "polish": 6},
		Comments: "solid",
	}, judge)
	expectStatus(t, w, http.StatusCreated)
	var result models.Result
	decode(t, w, &result)
	if result.OverallScore != 7 {
		t.Errorf("expected overall score 7, got %v", result.OverallScore)
	}

	// A second submission loses the check-and-set
	w = ts.do(t, http.MethodPost, fmt.Sprintf("/api/judging/assignments/%d/result", view.ID), handlers.ResultRequest{
		Scores: map[string]float64{"impact": 1},
	}, judge)
	expectStatus(t, w, http.StatusConflict)

	// Results stay hidden from judges until published
	board := fmt.Sprintf("/api/events/%d/leaderboard", eventID)
	w = ts.do(t, http.MethodGet, board, nil, judge)
	expectStatus(t, w, http.StatusForbidden)

	w = ts.do(t, http.MethodGet, board, nil, ts.adminCookie)
	expectStatus(t, w, http.StatusOK)
	var lb services.Leaderboard
	decode(t, w, &lb)
	if len(lb.Standings) != 1 || lb.Standings[0].TeamID != teamID || lb.Standings[0].Rank != 1 {
		t.Errorf("unexpected leaderboard: %+v", lb)
	}

	w = ts.do(t, http.MethodPut, fmt.Sprintf("/api/admin/events/%d/publish", eventID), handlers.PublishRequest{Published: true}, ts.adminCookie)
	expectStatus(t, w, http.StatusOK)

	w = ts.do(t, http.MethodGet, board, nil, judge)
	expectStatus(t, w, http.StatusOK)

	participant := ts.sessionFor(auth.Principal{Role: auth.RoleParticipant, TeamID: teamID})
	w = ts.do(t, http.MethodGet, fmt.Sprintf("/api/events/%d/teams/%d/standing", eventID, teamID), nil, participant)
	expectStatus(t, w, http.StatusOK)
	var standing models.Standing
	decode(t, w, &standing)
	if standing.Score != 7 || standing.TotalTeams != 1 || standing.Judged != 1 {
		t.Errorf("unexpected standing: %+v", standing)
	}
}

func TestNextTeam_NoTeamsAvailable(t *testing.T) {
	ts := newTestSetup(t)
	eventID := testutil.SeedEvent(t, ts.repo, models.EventPitching, models.EventActive)
	judgeID := testutil.SeedJudge(t, ts.repo, eventID, "grace", nil)

	w := ts.do(t, http.MethodPost, fmt.Sprintf("/api/judging/judges/%d/next", judgeID), nil, ts.judgeCookie(judgeID))
	expectStatus(t, w, http.StatusNotFound)
	expectErrorCode(t, w, handlers.ErrCodeNotFound)
}

func TestNextTeam_EventNotActive(t *testing.T) {
	ts := newTestSetup(t)
	eventID := testutil.SeedEvent(t, ts.repo, models.EventPitching, models.EventSetup)
	testutil.SeedTeam(t, ts.repo, "alpha", 1)
	judgeID := testutil.SeedJudge(t, ts.repo, eventID, "grace", nil)

	w := ts.do(t, http.MethodPost, fmt.Sprintf("/api/judging/judges/%d/next", judgeID), nil, ts.judgeCookie(judgeID))
	expectStatus(t, w, http.StatusBadRequest)
	expectErrorCode(t, w, handlers.ErrCodeValidation)
}

func TestNextTeam_OtherJudgeForbidden(t *testing.T) {
	ts := newTestSetup(t)
	eventID := testutil.SeedEvent(t, ts.repo, models.EventPitching, models.EventActive)
	testutil.SeedTeam(t, ts.repo, "alpha", 1)
	judgeID := testutil.SeedJudge(t, ts.repo, eventID, "grace", nil)
	otherID := testutil.SeedJudge(t, ts.repo, eventID, "linus", nil)

	w := ts.do(t, http.MethodPost, fmt.Sprintf("/api/judging/judges/%d/next", judgeID), nil, ts.judgeCookie(otherID))
	expectStatus(t, w, http.StatusForbidden)

	// Admins may act for any judge
	w = ts.do(t, http.MethodPost, fmt.Sprintf("/api/judging/judges/%d/next", judgeID), nil, ts.adminCookie)
	expectStatus(t, w, http.StatusOK)
}

func TestSkip(t *testing.T) {
	ts := newTestSetup(t)
	eventID := testutil.SeedEvent(t, ts.repo, models.EventPitching, models.EventActive)
	testutil.SeedTeam(t, ts.repo, "alpha", 1)
	judgeID := testutil.SeedJudge(t, ts.repo, eventID, "grace", nil)
	judge := ts.judgeCookie(judgeID)

	w := ts.do(t, http.MethodPost, fmt.Sprintf("/api/judging/judges/%d/next", judgeID), nil, judge)
	expectStatus(t, w, http.StatusOK)
	var view services.AssignmentView
	decode(t, w, &view)

	w = ts.do(t, http.MethodPost, fmt.Sprintf("/api/judging/assignments/%d/skip", view.ID), nil, judge)
	expectStatus(t, w, http.StatusOK)

	w = ts.do(t, http.MethodPost, fmt.Sprintf("/api/judging/assignments/%d/skip", view.ID), nil, judge)
	expectStatus(t, w, http.StatusConflict)

	w = ts.do(t, http.MethodPost, "/api/judging/assignments/999/skip", nil, judge)
	expectStatus(t, w, http.StatusNotFound)
}

func TestSubmitResult_Validation(t *testing.T) {
	ts := newTestSetup(t)
	eventID := testutil.SeedEvent(t, ts.repo, models.EventPitching, models.EventActive)
	testutil.SeedTeam(t, ts.repo, "alpha", 1)
	judgeID := testutil.SeedJudge(t, ts.repo, eventID, "grace", nil)
	judge := ts.judgeCookie(judgeID)

	w := ts.do(t, http.MethodPost, fmt.Sprintf("/api/judging/judges/%d/next", judgeID), nil, judge)
	expectStatus(t, w, http.StatusOK)
	var view services.AssignmentView
	decode(t, w, &view)
	path := fmt.Sprintf("/api/judging/assignments/%d/result", view.ID)

	w = ts.do(t, http.MethodPost, path, handlers.ResultRequest{}, judge)
	expectStatus(t, w, http.StatusBadRequest)

	w = ts.do(t, http.MethodPost, path, handlers.ResultRequest{Scores: map[string]float64{"impact": 11}}, judge)
	expectStatus(t, w, http.StatusBadRequest)

	w = ts.do(t, http.MethodPost, path, "not json", judge)
	expectStatus(t, w, http.StatusBadRequest)
	expectErrorCode(t, w, handlers.ErrCodeBadRequest)
}

func TestLeaderboard_RequiresSession(t *testing.T) {
	ts := newTestSetup(t)

	w := ts.do(t, http.MethodGet, "/api/events/1/leaderboard", nil, nil)
	expectStatus(t, w, http.StatusUnauthorized)

	w = ts.do(t, http.MethodGet, "/api/events/999/leaderboard", nil, ts.adminCookie)
	expectStatus(t, w, http.StatusNotFound)
}
