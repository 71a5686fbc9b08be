package handlers

import (
	"github.com/abrezinsky/hackjudge/internal/judging"
)

// AdminLoginRequest is the body of an admin login
type AdminLoginRequest struct {
	Password string `json:"password"`
}

// ParticipantLoginRequest is the body of a participant login
type ParticipantLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// JudgeLoginRequest is the body of a judge login
type JudgeLoginRequest struct {
	AccessCode string `json:"access_code"`
}

// TableRequest assigns a table number to a team
type TableRequest struct {
	TableNumber int `json:"table_number"`
}

// AllocateRequest lists the locations to spread teams over
type AllocateRequest struct {
	Locations []judging.Location `json:"locations"`
}

// EventStatusRequest changes an event's status
type EventStatusRequest struct {
	Status string `json:"status"`
}

// PublishRequest shows or hides an event's results
type PublishRequest struct {
	Published bool `json:"published"`
}

// AssignRequest is the body of a manual assignment
type AssignRequest struct {
	JudgeID int `json:"judge_id"`
	TeamID  int `json:"team_id"`
}

// ResultRequest is a judge's score submission
type ResultRequest struct {
	Scores   map[string]float64 `json:"scores"`
	Comments string             `json:"comments"`
}
