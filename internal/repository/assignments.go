package repository

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/abrezinsky/hackjudge/internal/models"
)

const assignmentColumns = `id, event_id, judge_id, team_id, status, created_at, updated_at`

func scanAssignment(row rowScanner) (*models.Assignment, error) {
	var a models.Assignment
	var createdAt, updatedAt sql.NullString
	if err := row.Scan(&a.ID, &a.EventID, &a.JudgeID, &a.TeamID, &a.Status, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	a.CreatedAt = createdAt.String
	a.UpdatedAt = updatedAt.String
	return &a, nil
}

func getAssignment(ctx context.Context, q querier, id int) (*models.Assignment, error) {
	a, err := scanAssignment(q.QueryRowContext(ctx, `SELECT `+assignmentColumns+` FROM judging_assignments WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return a, err
}

// insertAssignment creates a pending assignment and counts it against the team
func insertAssignment(ctx context.Context, tx *sql.Tx, eventID, judgeID, teamID int) (*models.Assignment, error) {
	result, err := tx.ExecContext(ctx,
		`INSERT INTO judging_assignments (event_id, judge_id, team_id, status) VALUES (?, ?, ?, ?)`,
		eventID, judgeID, teamID, models.AssignmentPending)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}

	if _, err := tx.ExecContext(ctx, `UPDATE teams SET times_judged = times_judged + 1 WHERE id = ?`, teamID); err != nil {
		return nil, err
	}
	return getAssignment(ctx, tx, int(id))
}

// ==================== Assignment Methods ====================

// AssignNextTeam picks a team for a judge and records the pending assignment.
// Exclusions, candidate listing, insert and counter bump share one transaction
// so two judges cannot both observe the same stale times_judged snapshot.
func (r *Repository) AssignNextTeam(ctx context.Context, eventID, judgeID int, ownTeamID *int, pick PickFunc) (*models.Assignment, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer rollback(tx)

	exclude := make(map[int]bool)
	rows, err := tx.QueryContext(ctx,
		`SELECT team_id FROM judging_assignments
		 WHERE event_id = ? AND judge_id = ? AND status IN (?, ?)`,
		eventID, judgeID, models.AssignmentPending, models.AssignmentCompleted)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var teamID int
		if err := rows.Scan(&teamID); err != nil {
			rows.Close()
			return nil, err
		}
		exclude[teamID] = true
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	if ownTeamID != nil {
		exclude[*ownTeamID] = true
	}

	candidates, err := queryTeams(ctx, tx,
		`SELECT `+teamColumns+` FROM teams WHERE table_number IS NOT NULL ORDER BY times_judged, id`)
	if err != nil {
		return nil, err
	}

	team, ok := pick(candidates, exclude)
	if !ok {
		return nil, ErrNoCandidates
	}

	assignment, err := insertAssignment(ctx, tx, eventID, judgeID, team.ID)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return assignment, nil
}

// CreateAssignment records an explicit judge to team assignment
func (r *Repository) CreateAssignment(ctx context.Context, eventID, judgeID, teamID int) (*models.Assignment, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer rollback(tx)

	assignment, err := insertAssignment(ctx, tx, eventID, judgeID, teamID)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return assignment, nil
}

// GetAssignment retrieves an assignment by ID
func (r *Repository) GetAssignment(ctx context.Context, id int) (*models.Assignment, error) {
	return getAssignment(ctx, r.db, id)
}

// GetPendingAssignment returns the judge's active assignment
func (r *Repository) GetPendingAssignment(ctx context.Context, judgeID int) (*models.Assignment, error) {
	a, err := scanAssignment(r.db.QueryRowContext(ctx,
		`SELECT `+assignmentColumns+` FROM judging_assignments
		 WHERE judge_id = ? AND status = ? ORDER BY id DESC LIMIT 1`,
		judgeID, models.AssignmentPending))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return a, err
}

// ListAssignments returns an event's assignments in creation order
func (r *Repository) ListAssignments(ctx context.Context, eventID int) ([]models.Assignment, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+assignmentColumns+` FROM judging_assignments WHERE event_id = ? ORDER BY id`, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var assignments []models.Assignment
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, err
		}
		assignments = append(assignments, *a)
	}
	return assignments, rows.Err()
}

// PairExists reports whether the judge already holds a pending or completed
// assignment for the team in this event
func (r *Repository) PairExists(ctx context.Context, eventID, judgeID, teamID int) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM judging_assignments
		 WHERE event_id = ? AND judge_id = ? AND team_id = ? AND status IN (?, ?)`,
		eventID, judgeID, teamID, models.AssignmentPending, models.AssignmentCompleted).Scan(&count)
	return count > 0, err
}

// transition moves a pending assignment to status, failing with
// ErrStatusChanged when it is no longer pending
func transition(ctx context.Context, q querier, id int, status string) error {
	result, err := q.ExecContext(ctx,
		`UPDATE judging_assignments SET status = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND status = ?`,
		status, id, models.AssignmentPending)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrStatusChanged
	}
	return nil
}

// SkipAssignment marks a pending assignment skipped
func (r *Repository) SkipAssignment(ctx context.Context, id int) error {
	if _, err := r.GetAssignment(ctx, id); err != nil {
		return err
	}
	return transition(ctx, r.db, id, models.AssignmentSkipped)
}

// CompleteAssignment closes a pending assignment and stores its result. When
// rescore is non-nil the team's demo score and confidence are updated in the
// same transaction.
func (r *Repository) CompleteAssignment(ctx context.Context, result *models.Result, rescore ScoreFunc) (*models.Result, error) {
	scores, err := json.Marshal(result.Scores)
	if err != nil {
		return nil, err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer rollback(tx)

	assignment, err := getAssignment(ctx, tx, result.AssignmentID)
	if err != nil {
		return nil, err
	}
	if err := transition(ctx, tx, assignment.ID, models.AssignmentCompleted); err != nil {
		return nil, err
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO judging_results (assignment_id, event_id, judge_id, team_id, scores, overall_score, comments)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		assignment.ID, assignment.EventID, assignment.JudgeID, assignment.TeamID,
		string(scores), result.OverallScore, result.Comments)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	if rescore != nil {
		var current float64
		if err := tx.QueryRowContext(ctx, `SELECT demo_score FROM teams WHERE id = ?`, assignment.TeamID).Scan(&current); err != nil {
			if err == sql.ErrNoRows {
				return nil, ErrNotFound
			}
			return nil, err
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE teams SET demo_score = ?, demo_score_confidence = demo_score_confidence + 1 WHERE id = ?`,
			rescore(current, result.OverallScore), assignment.TeamID); err != nil {
			return nil, err
		}
	}

	stored, err := getResult(ctx, tx, int(id))
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return stored, nil
}

// ==================== Result Methods ====================

const resultColumns = `id, assignment_id, event_id, judge_id, team_id, scores, overall_score, comments, created_at`

func scanResult(row rowScanner) (*models.Result, error) {
	var res models.Result
	var scores string
	var comments, createdAt sql.NullString
	if err := row.Scan(&res.ID, &res.AssignmentID, &res.EventID, &res.JudgeID, &res.TeamID,
		&scores, &res.OverallScore, &comments, &createdAt); err != nil {
		return nil, err
	}
	decoded, err := decodeScores(scores)
	if err != nil {
		return nil, err
	}
	res.Scores = decoded
	res.Comments = comments.String
	res.CreatedAt = createdAt.String
	return &res, nil
}

func getResult(ctx context.Context, q querier, id int) (*models.Result, error) {
	res, err := scanResult(q.QueryRowContext(ctx, `SELECT `+resultColumns+` FROM judging_results WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return res, err
}

// ListResults returns an event's results in submission order
func (r *Repository) ListResults(ctx context.Context, eventID int) ([]models.Result, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+resultColumns+` FROM judging_results WHERE event_id = ? ORDER BY id`, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []models.Result
	for rows.Next() {
		res, err := scanResult(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, *res)
	}
	return results, rows.Err()
}
