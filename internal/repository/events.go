package repository

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/abrezinsky/hackjudge/internal/models"
)

const eventColumns = `id, name, type, status, results_published, criteria, score_min, score_max, created_at`

func scanEvent(row rowScanner) (*models.JudgingEvent, error) {
	var event models.JudgingEvent
	var criteria, createdAt sql.NullString

	if err := row.Scan(&event.ID, &event.Name, &event.Type, &event.Status, &event.ResultsPublished,
		&criteria, &event.ScoreMin, &event.ScoreMax, &createdAt); err != nil {
		return nil, err
	}

	list, err := decodeStrings(criteria)
	if err != nil {
		return nil, err
	}
	event.Criteria = list
	event.CreatedAt = createdAt.String
	return &event, nil
}

// ==================== Event Methods ====================

// CreateEvent inserts a judging event
func (r *Repository) CreateEvent(ctx context.Context, event *models.JudgingEvent) (int64, error) {
	status := event.Status
	if status == "" {
		status = models.EventSetup
	}
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO judging_events (name, type, status, results_published, criteria, score_min, score_max)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		event.Name, event.Type, status, event.ResultsPublished, encodeStrings(event.Criteria), event.ScoreMin, event.ScoreMax)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// GetEvent retrieves an event by ID
func (r *Repository) GetEvent(ctx context.Context, id int) (*models.JudgingEvent, error) {
	event, err := scanEvent(r.db.QueryRowContext(ctx, `SELECT `+eventColumns+` FROM judging_events WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return event, err
}

// ListEvents returns all events in creation order
func (r *Repository) ListEvents(ctx context.Context) ([]models.JudgingEvent, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+eventColumns+` FROM judging_events ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []models.JudgingEvent
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, *event)
	}
	return events, rows.Err()
}

// UpdateEventStatus sets an event's lifecycle status
func (r *Repository) UpdateEventStatus(ctx context.Context, id int, status string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE judging_events SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return err
	}
	return requireRow(result)
}

// SetResultsPublished toggles leaderboard visibility for non-admins
func (r *Repository) SetResultsPublished(ctx context.Context, id int, published bool) error {
	result, err := r.db.ExecContext(ctx, `UPDATE judging_events SET results_published = ? WHERE id = ?`, published, id)
	if err != nil {
		return err
	}
	return requireRow(result)
}

// ResetEventJudging deletes an event's assignments and results, then rebuilds
// every team's times_judged and demo score from what remains in other events.
// Remaining demo results are replayed in ID order through replay.
func (r *Repository) ResetEventJudging(ctx context.Context, id int, replay ScoreFunc) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer rollback(tx)

	var exists int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM judging_events WHERE id = ?`, id).Scan(&exists); err != nil {
		return err
	}
	if exists == 0 {
		return ErrNotFound
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM judging_results WHERE event_id = ?`, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM judging_assignments WHERE event_id = ?`, id); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE teams SET
			times_judged = (SELECT COUNT(*) FROM judging_assignments a WHERE a.team_id = teams.id),
			demo_score = 0,
			demo_score_confidence = 0`); err != nil {
		return err
	}

	rows, err := tx.QueryContext(ctx, `
		SELECT r.team_id, r.overall_score
		FROM judging_results r
		JOIN judging_events e ON e.id = r.event_id
		WHERE e.type LIKE 'demo\_%' ESCAPE '\'
		ORDER BY r.id`)
	if err != nil {
		return err
	}

	type rescore struct {
		score      float64
		confidence int
	}
	scores := make(map[int]*rescore)
	var order []int
	for rows.Next() {
		var teamID int
		var overall float64
		if err := rows.Scan(&teamID, &overall); err != nil {
			rows.Close()
			return err
		}
		s, ok := scores[teamID]
		if !ok {
			s = &rescore{}
			scores[teamID] = s
			order = append(order, teamID)
		}
		s.score = replay(s.score, overall)
		s.confidence++
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return err
	}
	rows.Close()

	for _, teamID := range order {
		s := scores[teamID]
		if _, err := tx.ExecContext(ctx,
			`UPDATE teams SET demo_score = ?, demo_score_confidence = ? WHERE id = ?`,
			s.score, s.confidence, teamID); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// decodeScores reads a result's JSON score map
func decodeScores(raw string) (map[string]float64, error) {
	scores := make(map[string]float64)
	if raw == "" {
		return scores, nil
	}
	if err := json.Unmarshal([]byte(raw), &scores); err != nil {
		return nil, err
	}
	return scores, nil
}
