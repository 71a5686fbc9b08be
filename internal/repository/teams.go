package repository

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/abrezinsky/hackjudge/internal/models"
)

// Placement seats one team at a location and table
type Placement struct {
	TeamID      int
	Location    string
	TableNumber int
}

const teamColumns = `id, name, members, contact_email, status, table_number, location,
	times_judged, demo_score, demo_score_confidence, created_at`

// scanTeam reads one row selected with teamColumns
func scanTeam(row rowScanner) (*models.Team, error) {
	var team models.Team
	var membersJSON string
	var tableNumber sql.NullInt64
	var location, createdAt sql.NullString

	if err := row.Scan(&team.ID, &team.Name, &membersJSON, &team.ContactEmail, &team.Status,
		&tableNumber, &location, &team.TimesJudged, &team.DemoScore, &team.DemoScoreConfidence, &createdAt); err != nil {
		return nil, err
	}

	if membersJSON != "" {
		if err := json.Unmarshal([]byte(membersJSON), &team.Members); err != nil {
			return nil, err
		}
	}
	if tableNumber.Valid {
		n := int(tableNumber.Int64)
		team.TableNumber = &n
	}
	if location.Valid {
		loc := location.String
		team.Location = &loc
	}
	team.CreatedAt = createdAt.String
	return &team, nil
}

// queryTeams runs a SELECT over teamColumns and collects the rows
func queryTeams(ctx context.Context, q querier, query string, args ...any) ([]models.Team, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var teams []models.Team
	for rows.Next() {
		team, err := scanTeam(rows)
		if err != nil {
			return nil, err
		}
		teams = append(teams, *team)
	}
	return teams, rows.Err()
}

// querier is satisfied by *sql.DB and *sql.Tx
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// ==================== Team Methods ====================

// CreateTeamWithAccount inserts a team and its participant login in one transaction
func (r *Repository) CreateTeamWithAccount(ctx context.Context, team *models.Team, email, passwordHash string) (int64, error) {
	members, err := json.Marshal(team.Members)
	if err != nil {
		return 0, err
	}
	status := team.Status
	if status == "" {
		status = models.TeamPending
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer rollback(tx)

	result, err := tx.ExecContext(ctx,
		`INSERT INTO teams (name, members, contact_email, status) VALUES (?, ?, ?, ?)`,
		team.Name, string(members), team.ContactEmail, status)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, ErrDuplicate
		}
		return 0, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, err
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO accounts (email, password_hash, team_id) VALUES (?, ?, ?)`,
		email, passwordHash, id); err != nil {
		if isUniqueViolation(err) {
			return 0, ErrDuplicate
		}
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

// GetTeam retrieves a team by ID
func (r *Repository) GetTeam(ctx context.Context, id int) (*models.Team, error) {
	team, err := scanTeam(r.db.QueryRowContext(ctx, `SELECT `+teamColumns+` FROM teams WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return team, err
}

// GetTeamByTable retrieves the team seated at a table number
func (r *Repository) GetTeamByTable(ctx context.Context, tableNumber int) (*models.Team, error) {
	team, err := scanTeam(r.db.QueryRowContext(ctx, `SELECT `+teamColumns+` FROM teams WHERE table_number = ?`, tableNumber))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return team, err
}

// ListTeams returns teams ordered by ID, filtered by status unless status is empty
func (r *Repository) ListTeams(ctx context.Context, status string) ([]models.Team, error) {
	if status == "" {
		return queryTeams(ctx, r.db, `SELECT `+teamColumns+` FROM teams ORDER BY id`)
	}
	return queryTeams(ctx, r.db, `SELECT `+teamColumns+` FROM teams WHERE status = ? ORDER BY id`, status)
}

// ListUnseatedApprovedTeams returns approved teams with no location, in ID order
func (r *Repository) ListUnseatedApprovedTeams(ctx context.Context) ([]models.Team, error) {
	return queryTeams(ctx, r.db,
		`SELECT `+teamColumns+` FROM teams WHERE status = ? AND location IS NULL ORDER BY id`,
		models.TeamApproved)
}

// UpdateTeamStatus sets a team's registration status
func (r *Repository) UpdateTeamStatus(ctx context.Context, id int, status string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE teams SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return err
	}
	return requireRow(result)
}

// SetTeamTable seats a team at a table number
func (r *Repository) SetTeamTable(ctx context.Context, id, tableNumber int) error {
	result, err := r.db.ExecContext(ctx, `UPDATE teams SET table_number = ? WHERE id = ?`, tableNumber, id)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return err
	}
	return requireRow(result)
}

// SetTeamLocations applies a batch of placements atomically
func (r *Repository) SetTeamLocations(ctx context.Context, placements []Placement) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer rollback(tx)

	for _, p := range placements {
		if _, err := tx.ExecContext(ctx,
			`UPDATE teams SET location = ?, table_number = ? WHERE id = ?`,
			p.Location, p.TableNumber, p.TeamID); err != nil {
			if isUniqueViolation(err) {
				return ErrDuplicate
			}
			return err
		}
	}
	return tx.Commit()
}

// MaxTableNumber returns the highest assigned table number, or 0
func (r *Repository) MaxTableNumber(ctx context.Context) (int, error) {
	var max sql.NullInt64
	if err := r.db.QueryRowContext(ctx, `SELECT MAX(table_number) FROM teams`).Scan(&max); err != nil {
		return 0, err
	}
	return int(max.Int64), nil
}

// DeleteTeam deletes a team; accounts, assignments and results cascade
func (r *Repository) DeleteTeam(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM teams WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRow(result)
}

// GetAccountByEmail returns the team and password hash for a participant login
func (r *Repository) GetAccountByEmail(ctx context.Context, email string) (int, string, error) {
	var teamID int
	var hash string
	err := r.db.QueryRowContext(ctx,
		`SELECT team_id, password_hash FROM accounts WHERE email = ?`, email).Scan(&teamID, &hash)
	if err == sql.ErrNoRows {
		return 0, "", ErrNotFound
	}
	return teamID, hash, err
}

// requireRow maps an UPDATE/DELETE that touched nothing to ErrNotFound
func requireRow(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
