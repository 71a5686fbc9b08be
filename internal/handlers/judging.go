package handlers

import (
	"net/http"
)

func (h *Handlers) handleCurrentAssignment(w http.ResponseWriter, r *http.Request) {
	judgeID, err := parseIntParam(r, "id")
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	view, err := h.Judging.CurrentAssignment(r.Context(), principal(r), judgeID)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondOK(w, view)
}

func (h *Handlers) handleNextTeam(w http.ResponseWriter, r *http.Request) {
	judgeID, err := parseIntParam(r, "id")
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	view, err := h.Judging.NextTeam(r.Context(), principal(r), judgeID)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondOK(w, view)
}

func (h *Handlers) handleSkip(w http.ResponseWriter, r *http.Request) {
	id, err := parseIntParam(r, "id")
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	if err := h.Judging.Skip(r.Context(), principal(r), id); err != nil {
		h.respondError(w, r, err)
		return
	}
	respondSuccess(w, "Assignment skipped")
}

func (h *Handlers) handleSubmitResult(w http.ResponseWriter, r *http.Request) {
	id, err := parseIntParam(r, "id")
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	var req ResultRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondError(w, r, err)
		return
	}

	result, err := h.Judging.SubmitResult(r.Context(), principal(r), id, req.Scores, req.Comments)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondCreated(w, result)
}
