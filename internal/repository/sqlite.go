package repository

import (
	"context"
	"database/sql"
	"encoding/json"

	_ "github.com/mattn/go-sqlite3"
)

// Repository provides data access methods
type Repository struct {
	db *sql.DB
}

// New creates a new Repository
func New(dbPath string) (*Repository, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	// Enable foreign key constraints
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, err
	}

	// Set connection pool settings
	db.SetMaxOpenConns(1) // SQLite works best with single connection
	db.SetMaxIdleConns(1)

	repo := &Repository{db: db}

	// Run migrations
	if err := repo.migrate(); err != nil {
		return nil, err
	}

	return repo, nil
}

// DB returns the underlying database connection (for transactions)
func (r *Repository) DB() *sql.DB {
	return r.db
}

// Close closes the database connection
func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping checks if the database connection is alive
func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// migrate runs database migrations
func (r *Repository) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS teams (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT UNIQUE NOT NULL,
			members TEXT NOT NULL DEFAULT '[]',
			contact_email TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'pending',
			table_number INTEGER UNIQUE,
			location TEXT,
			times_judged INTEGER NOT NULL DEFAULT 0,
			demo_score REAL NOT NULL DEFAULT 0,
			demo_score_confidence INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS accounts (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			email TEXT UNIQUE NOT NULL,
			password_hash TEXT NOT NULL,
			team_id INTEGER NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (team_id) REFERENCES teams(id) ON DELETE CASCADE
		)`,
		`CREATE TABLE IF NOT EXISTS judging_events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			type TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'setup',
			results_published BOOLEAN NOT NULL DEFAULT 0,
			criteria TEXT,
			score_min REAL NOT NULL DEFAULT 1,
			score_max REAL NOT NULL DEFAULT 10,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS judges (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			event_id INTEGER NOT NULL,
			name TEXT NOT NULL,
			email TEXT,
			type TEXT NOT NULL DEFAULT 'external',
			team_id INTEGER,
			access_code TEXT UNIQUE NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (event_id) REFERENCES judging_events(id) ON DELETE CASCADE,
			FOREIGN KEY (team_id) REFERENCES teams(id) ON DELETE SET NULL
		)`,
		`CREATE TABLE IF NOT EXISTS judging_assignments (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			event_id INTEGER NOT NULL,
			judge_id INTEGER NOT NULL,
			team_id INTEGER NOT NULL,
			status TEXT NOT NULL DEFAULT 'pending',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (event_id) REFERENCES judging_events(id) ON DELETE CASCADE,
			FOREIGN KEY (judge_id) REFERENCES judges(id) ON DELETE CASCADE,
			FOREIGN KEY (team_id) REFERENCES teams(id) ON DELETE CASCADE
		)`,
		`CREATE TABLE IF NOT EXISTS judging_results (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			assignment_id INTEGER UNIQUE NOT NULL,
			event_id INTEGER NOT NULL,
			judge_id INTEGER NOT NULL,
			team_id INTEGER NOT NULL,
			scores TEXT NOT NULL,
			overall_score REAL NOT NULL,
			comments TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (assignment_id) REFERENCES judging_assignments(id) ON DELETE CASCADE
		)`,
		`CREATE TABLE IF NOT EXISTS announcements (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			title TEXT NOT NULL,
			body TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		// One pending assignment per judge, enforced by storage rather than a judge-side pointer
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_assignments_one_pending ON judging_assignments(judge_id) WHERE status = 'pending'`,
		`CREATE INDEX IF NOT EXISTS idx_assignments_event_judge ON judging_assignments(event_id, judge_id)`,
		`CREATE INDEX IF NOT EXISTS idx_assignments_team ON judging_assignments(team_id)`,
		`CREATE INDEX IF NOT EXISTS idx_results_event_team ON judging_results(event_id, team_id)`,
		`CREATE INDEX IF NOT EXISTS idx_judges_event ON judges(event_id)`,
		`CREATE INDEX IF NOT EXISTS idx_teams_times_judged ON teams(times_judged)`,
	}

	for _, migration := range migrations {
		if _, err := r.db.Exec(migration); err != nil {
			return err
		}
	}
	return nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

// encodeStrings stores a string list as a JSON array, NULL when empty
func encodeStrings(values []string) sql.NullString {
	if len(values) == 0 {
		return sql.NullString{}
	}
	data, _ := json.Marshal(values) // Marshal on []string never fails
	return sql.NullString{String: string(data), Valid: true}
}

// decodeStrings reads a JSON array column written by encodeStrings
func decodeStrings(col sql.NullString) ([]string, error) {
	if !col.Valid || col.String == "" {
		return nil, nil
	}
	var values []string
	if err := json.Unmarshal([]byte(col.String), &values); err != nil {
		return nil, err
	}
	return values, nil
}

// rollback is deferred by transactional methods; it is a no-op after Commit
func rollback(tx *sql.Tx) {
	_ = tx.Rollback()
}
