package handlers

import (
	"net/http"

	"github.com/abrezinsky/hackjudge/internal/auth"
)

// handleAdminLogin checks the admin password and starts an admin session
func (h *Handlers) handleAdminLogin(w http.ResponseWriter, r *http.Request) {
	var req AdminLoginRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondError(w, r, err)
		return
	}

	token, ok := h.Auth.Login(req.Password)
	if !ok {
		h.Log.Warn("Failed admin login", "remote", r.RemoteAddr)
		h.respondError(w, r, Unauthorized("Invalid password"))
		return
	}

	auth.SetSessionCookie(w, token)
	respondOK(w, SessionResponse{Principal: auth.Admin})
}

// handleParticipantLogin starts a session for a team member account
func (h *Handlers) handleParticipantLogin(w http.ResponseWriter, r *http.Request) {
	var req ParticipantLoginRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondError(w, r, err)
		return
	}

	p, err := h.Teams.AuthenticateParticipant(r.Context(), req.Email, req.Password)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	auth.SetSessionCookie(w, h.Auth.StartSession(p))
	respondOK(w, SessionResponse{Principal: p})
}

// handleJudgeLogin starts a session from a judge access code
func (h *Handlers) handleJudgeLogin(w http.ResponseWriter, r *http.Request) {
	var req JudgeLoginRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondError(w, r, err)
		return
	}

	p, judge, err := h.Judges.AuthenticateJudge(r.Context(), req.AccessCode)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	auth.SetSessionCookie(w, h.Auth.StartSession(p))
	respondOK(w, SessionResponse{Principal: p, Judge: judge})
}

// handleLogout invalidates the session and clears the cookie
func (h *Handlers) handleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(auth.CookieName); err == nil {
		h.Auth.Logout(cookie.Value)
	}

	auth.ClearSessionCookie(w)
	respondSuccess(w, "Logged out")
}

// handleMe describes the current session
func (h *Handlers) handleMe(w http.ResponseWriter, r *http.Request) {
	p, ok := h.Auth.PrincipalFromRequest(r)
	if !ok {
		h.respondError(w, r, Unauthorized("Unauthorized - please log in"))
		return
	}

	respondOK(w, SessionResponse{Principal: p})
}
