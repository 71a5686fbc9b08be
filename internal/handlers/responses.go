package handlers

import (
	"github.com/abrezinsky/hackjudge/internal/auth"
	"github.com/abrezinsky/hackjudge/internal/models"
)

// SessionResponse describes the caller's session
type SessionResponse struct {
	auth.Principal
	Judge *models.Judge `json:"judge,omitempty"`
}

// HealthResponse is the body of the health check
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}
