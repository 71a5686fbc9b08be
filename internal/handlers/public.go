package handlers

import (
	"net/http"

	"github.com/abrezinsky/hackjudge/internal/services"
)

func (h *Handlers) handleRegisterTeam(w http.ResponseWriter, r *http.Request) {
	var req services.Registration
	if err := decodeJSON(r, &req); err != nil {
		h.respondError(w, r, err)
		return
	}

	team, err := h.Teams.Register(r.Context(), req)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondCreated(w, team)
}

func (h *Handlers) handleMyTeam(w http.ResponseWriter, r *http.Request) {
	team, err := h.Teams.MyTeam(r.Context(), principal(r))
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondOK(w, team)
}

func (h *Handlers) handleListAnnouncements(w http.ResponseWriter, r *http.Request) {
	list, err := h.Announcements.List(r.Context())
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondOK(w, list)
}

func (h *Handlers) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	eventID, err := parseIntParam(r, "id")
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	board, err := h.Results.Leaderboard(r.Context(), principal(r), eventID)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondOK(w, board)
}

func (h *Handlers) handleTeamStanding(w http.ResponseWriter, r *http.Request) {
	eventID, err := parseIntParam(r, "id")
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	teamID, err := parseIntParam(r, "teamID")
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	standing, err := h.Results.TeamStanding(r.Context(), principal(r), eventID, teamID)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondOK(w, standing)
}

// handleHealth reports whether the database answers
func (h *Handlers) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := h.DB.Ping(r.Context()); err != nil {
		h.Log.Error("Health check failed", "error", err)
		respondJSON(w, http.StatusServiceUnavailable, HealthResponse{Status: "unavailable", Database: "down"})
		return
	}
	respondOK(w, HealthResponse{Status: "ok", Database: "up"})
}
