package models

// Team status values
const (
	TeamPending  = "pending"
	TeamApproved = "approved"
	TeamRejected = "rejected"
)

// Judge types
const (
	JudgeParticipant = "participant"
	JudgeExternal    = "external"
)

// Judging event types. Types prefixed with "demo_" use the running demo score.
const (
	EventDemoParticipants = "demo_participants"
	EventDemoJudges       = "demo_judges"
	EventPitching         = "pitching"
)

// Judging event statuses
const (
	EventSetup     = "setup"
	EventActive    = "active"
	EventCompleted = "completed"
)

// Assignment statuses
const (
	AssignmentPending   = "pending"
	AssignmentCompleted = "completed"
	AssignmentSkipped   = "skipped"
)

// Member is one person on a team
type Member struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Team represents a registered hackathon team
type Team struct {
	ID                  int      `json:"id"`
	Name                string   `json:"name"`
	Members             []Member `json:"members"`
	ContactEmail        string   `json:"contact_email"`
	Status              string   `json:"status"`
	TableNumber         *int     `json:"table_number"`
	Location            *string  `json:"location"`
	TimesJudged         int      `json:"times_judged"`
	DemoScore           float64  `json:"demo_score"`
	DemoScoreConfidence int      `json:"demo_score_confidence"`
	CreatedAt           string   `json:"created_at,omitempty"`
}

// JudgingEvent is a judging round; its type selects the scoring regime
type JudgingEvent struct {
	ID               int      `json:"id"`
	Name             string   `json:"name"`
	Type             string   `json:"type"`
	Status           string   `json:"status"`
	ResultsPublished bool     `json:"results_published"`
	Criteria         []string `json:"criteria,omitempty"` // Empty/nil means any criterion name is accepted
	ScoreMin         float64  `json:"score_min"`
	ScoreMax         float64  `json:"score_max"`
	CreatedAt        string   `json:"created_at,omitempty"`
}

// Judge is a participant or external evaluator bound to one event
type Judge struct {
	ID         int    `json:"id"`
	EventID    int    `json:"event_id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Type       string `json:"type"`
	TeamID     *int   `json:"team_id"` // own team, participant judges only
	AccessCode string `json:"access_code,omitempty"`
}

// Assignment links one judge to one team within one event
type Assignment struct {
	ID        int    `json:"id"`
	EventID   int    `json:"event_id"`
	JudgeID   int    `json:"judge_id"`
	TeamID    int    `json:"team_id"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at,omitempty"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

// Result is the immutable record of one completed assignment
type Result struct {
	ID           int                `json:"id"`
	AssignmentID int                `json:"assignment_id"`
	EventID      int                `json:"event_id"`
	JudgeID      int                `json:"judge_id"`
	TeamID       int                `json:"team_id"`
	Scores       map[string]float64 `json:"scores"`
	OverallScore float64            `json:"overall_score"`
	Comments     string             `json:"comments,omitempty"`
	CreatedAt    string             `json:"created_at,omitempty"`
}

// Announcement is a message pushed to all participants
type Announcement struct {
	ID        int    `json:"id"`
	Title     string `json:"title"`
	Body      string `json:"body"`
	CreatedAt string `json:"created_at,omitempty"`
}

// Standing is one team's row in a leaderboard
type Standing struct {
	TeamID     int     `json:"team_id" yaml:"team_id"`
	TeamName   string  `json:"team_name" yaml:"team_name"`
	Score      float64 `json:"score" yaml:"score"`
	Rank       int     `json:"rank" yaml:"rank"`
	TotalTeams int     `json:"total_teams" yaml:"total_teams"`
	Judged     int     `json:"judged" yaml:"judged"` // times judged (pitching) or demo score confidence
}

// WSMessage represents a WebSocket message
type WSMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}
