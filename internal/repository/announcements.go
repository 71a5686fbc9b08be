package repository

import (
	"context"
	"database/sql"

	"github.com/abrezinsky/hackjudge/internal/models"
)

// ==================== Announcement Methods ====================

// CreateAnnouncement stores an announcement and returns it with its timestamp
func (r *Repository) CreateAnnouncement(ctx context.Context, title, body string) (*models.Announcement, error) {
	result, err := r.db.ExecContext(ctx, `INSERT INTO announcements (title, body) VALUES (?, ?)`, title, body)
	if err != nil {
		return nil, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}

	var a models.Announcement
	var createdAt sql.NullString
	if err := r.db.QueryRowContext(ctx,
		`SELECT id, title, body, created_at FROM announcements WHERE id = ?`, id).
		Scan(&a.ID, &a.Title, &a.Body, &createdAt); err != nil {
		return nil, err
	}
	a.CreatedAt = createdAt.String
	return &a, nil
}

// ListAnnouncements returns announcements newest first
func (r *Repository) ListAnnouncements(ctx context.Context) ([]models.Announcement, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, title, body, created_at FROM announcements ORDER BY id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []models.Announcement
	for rows.Next() {
		var a models.Announcement
		var createdAt sql.NullString
		if err := rows.Scan(&a.ID, &a.Title, &a.Body, &createdAt); err != nil {
			return nil, err
		}
		a.CreatedAt = createdAt.String
		list = append(list, a)
	}
	return list, rows.Err()
}
