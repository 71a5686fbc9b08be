package repository

import (
	"errors"

	"github.com/mattn/go-sqlite3"
)

// ErrNotFound is returned when a requested record is not found in the repository.
// This abstracts away the underlying storage implementation (SQL, NoSQL, etc.)
// from the service layer.
var ErrNotFound = errors.New("record not found")

// ErrDuplicate is returned when a write violates a uniqueness constraint
// (team name, table number, access code, one pending assignment per judge).
var ErrDuplicate = errors.New("duplicate record")

// ErrNoCandidates is returned when no team is eligible for a judge.
var ErrNoCandidates = errors.New("no eligible teams")

// ErrStatusChanged is returned when a conditional status update matched no
// row because the assignment was no longer pending.
var ErrStatusChanged = errors.New("assignment is no longer pending")

// isUniqueViolation reports whether err is a SQLite unique/primary key failure
func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}
