package handlers

import (
	"net/http"

	"github.com/abrezinsky/hackjudge/internal/services"
)

// ==================== Teams ====================

func (h *Handlers) handleListTeams(w http.ResponseWriter, r *http.Request) {
	teams, err := h.Teams.ListTeams(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondOK(w, teams)
}

func (h *Handlers) handleGetTeam(w http.ResponseWriter, r *http.Request) {
	id, err := parseIntParam(r, "id")
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	team, err := h.Teams.GetTeam(r.Context(), id)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondOK(w, team)
}

func (h *Handlers) handleDeleteTeam(w http.ResponseWriter, r *http.Request) {
	id, err := parseIntParam(r, "id")
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	if err := h.Teams.Delete(r.Context(), id); err != nil {
		h.respondError(w, r, err)
		return
	}
	respondDeleted(w)
}

func (h *Handlers) handleApproveTeam(w http.ResponseWriter, r *http.Request) {
	id, err := parseIntParam(r, "id")
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	team, err := h.Teams.Approve(r.Context(), id)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondOK(w, team)
}

func (h *Handlers) handleRejectTeam(w http.ResponseWriter, r *http.Request) {
	id, err := parseIntParam(r, "id")
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	team, err := h.Teams.Reject(r.Context(), id)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondOK(w, team)
}

func (h *Handlers) handleAssignTable(w http.ResponseWriter, r *http.Request) {
	id, err := parseIntParam(r, "id")
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	var req TableRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondError(w, r, err)
		return
	}

	team, err := h.Teams.AssignTable(r.Context(), id, req.TableNumber)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondOK(w, team)
}

func (h *Handlers) handleAllocateLocations(w http.ResponseWriter, r *http.Request) {
	var req AllocateRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondError(w, r, err)
		return
	}

	result, err := h.Teams.AllocateLocations(r.Context(), req.Locations)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondOK(w, result)
}

// ==================== Events ====================

func (h *Handlers) handleListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.Events.ListEvents(r.Context())
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondOK(w, events)
}

func (h *Handlers) handleCreateEvent(w http.ResponseWriter, r *http.Request) {
	var req services.EventInput
	if err := decodeJSON(r, &req); err != nil {
		h.respondError(w, r, err)
		return
	}

	event, err := h.Events.CreateEvent(r.Context(), req)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondCreated(w, event)
}

func (h *Handlers) handleGetEvent(w http.ResponseWriter, r *http.Request) {
	id, err := parseIntParam(r, "id")
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	event, err := h.Events.GetEvent(r.Context(), id)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondOK(w, event)
}

func (h *Handlers) handleUpdateEventStatus(w http.ResponseWriter, r *http.Request) {
	id, err := parseIntParam(r, "id")
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	var req EventStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondError(w, r, err)
		return
	}

	event, err := h.Events.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondOK(w, event)
}

func (h *Handlers) handlePublishResults(w http.ResponseWriter, r *http.Request) {
	id, err := parseIntParam(r, "id")
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	var req PublishRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondError(w, r, err)
		return
	}

	event, err := h.Events.SetPublished(r.Context(), id, req.Published)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondOK(w, event)
}

func (h *Handlers) handleResetJudging(w http.ResponseWriter, r *http.Request) {
	id, err := parseIntParam(r, "id")
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	if err := h.Events.ResetJudging(r.Context(), id); err != nil {
		h.respondError(w, r, err)
		return
	}
	h.Log.Warn("Judging data reset", "event_id", id)
	respondSuccess(w, "Judging data reset")
}

// ==================== Judges ====================

func (h *Handlers) handleListJudges(w http.ResponseWriter, r *http.Request) {
	eventID, err := parseIntParam(r, "id")
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	judges, err := h.Judges.ListJudges(r.Context(), eventID)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondOK(w, judges)
}

func (h *Handlers) handleCreateJudge(w http.ResponseWriter, r *http.Request) {
	eventID, err := parseIntParam(r, "id")
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	var req services.JudgeInput
	if err := decodeJSON(r, &req); err != nil {
		h.respondError(w, r, err)
		return
	}

	judge, err := h.Judges.CreateJudge(r.Context(), eventID, req)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondCreated(w, judge)
}

func (h *Handlers) handleDeleteJudge(w http.ResponseWriter, r *http.Request) {
	id, err := parseIntParam(r, "id")
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	if err := h.Judges.DeleteJudge(r.Context(), id); err != nil {
		h.respondError(w, r, err)
		return
	}
	respondDeleted(w)
}

func (h *Handlers) handleJudgeQR(w http.ResponseWriter, r *http.Request) {
	id, err := parseIntParam(r, "id")
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	png, err := h.Judges.QRImage(r.Context(), id)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-cache")
	w.Write(png)
}

func (h *Handlers) handleNotifyJudges(w http.ResponseWriter, r *http.Request) {
	eventID, err := parseIntParam(r, "id")
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	summary, err := h.Judges.NotifyJudges(r.Context(), eventID)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondOK(w, summary)
}

// ==================== Assignments ====================

func (h *Handlers) handleAssign(w http.ResponseWriter, r *http.Request) {
	var req AssignRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondError(w, r, err)
		return
	}
	if req.JudgeID == 0 || req.TeamID == 0 {
		h.respondError(w, r, BadRequest("judge_id and team_id are required"))
		return
	}

	view, err := h.Judging.Assign(r.Context(), req.JudgeID, req.TeamID)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondCreated(w, view)
}

func (h *Handlers) handleListAssignments(w http.ResponseWriter, r *http.Request) {
	eventID, err := parseIntParam(r, "id")
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	assignments, err := h.Judging.ListAssignments(r.Context(), eventID)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondOK(w, assignments)
}

// ==================== Announcements ====================

func (h *Handlers) handleCreateAnnouncement(w http.ResponseWriter, r *http.Request) {
	var req services.AnnouncementInput
	if err := decodeJSON(r, &req); err != nil {
		h.respondError(w, r, err)
		return
	}

	result, err := h.Announcements.Create(r.Context(), req)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondCreated(w, result)
}
