package repository

import (
	"context"
	"database/sql"

	"github.com/abrezinsky/hackjudge/internal/models"
)

const judgeColumns = `id, event_id, name, email, type, team_id, access_code`

func scanJudge(row rowScanner) (*models.Judge, error) {
	var judge models.Judge
	var email sql.NullString
	var teamID sql.NullInt64

	if err := row.Scan(&judge.ID, &judge.EventID, &judge.Name, &email, &judge.Type, &teamID, &judge.AccessCode); err != nil {
		return nil, err
	}
	judge.Email = email.String
	if teamID.Valid {
		id := int(teamID.Int64)
		judge.TeamID = &id
	}
	return &judge, nil
}

// ==================== Judge Methods ====================

// CreateJudge inserts a judge; the access code must be unique
func (r *Repository) CreateJudge(ctx context.Context, judge *models.Judge) (int64, error) {
	var teamID sql.NullInt64
	if judge.TeamID != nil {
		teamID = sql.NullInt64{Int64: int64(*judge.TeamID), Valid: true}
	}
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO judges (event_id, name, email, type, team_id, access_code) VALUES (?, ?, ?, ?, ?, ?)`,
		judge.EventID, judge.Name, judge.Email, judge.Type, teamID, judge.AccessCode)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, ErrDuplicate
		}
		return 0, err
	}
	return result.LastInsertId()
}

// GetJudge retrieves a judge by ID
func (r *Repository) GetJudge(ctx context.Context, id int) (*models.Judge, error) {
	judge, err := scanJudge(r.db.QueryRowContext(ctx, `SELECT `+judgeColumns+` FROM judges WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return judge, err
}

// GetJudgeByAccessCode retrieves the judge holding an access code
func (r *Repository) GetJudgeByAccessCode(ctx context.Context, code string) (*models.Judge, error) {
	judge, err := scanJudge(r.db.QueryRowContext(ctx, `SELECT `+judgeColumns+` FROM judges WHERE access_code = ?`, code))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return judge, err
}

// ListJudges returns an event's judges in creation order
func (r *Repository) ListJudges(ctx context.Context, eventID int) ([]models.Judge, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+judgeColumns+` FROM judges WHERE event_id = ? ORDER BY id`, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var judges []models.Judge
	for rows.Next() {
		judge, err := scanJudge(rows)
		if err != nil {
			return nil, err
		}
		judges = append(judges, *judge)
	}
	return judges, rows.Err()
}

// DeleteJudge removes a judge and, by cascade, their assignments
func (r *Repository) DeleteJudge(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM judges WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRow(result)
}
