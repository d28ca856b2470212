package resumes

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"resume-builder/internal/shared/storage/db"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a resume and returns its id.
func (r *PGRepo) Create(ctx context.Context, resume Resume) (int64, error) {
	const query = `
INSERT INTO resumes (user_id, title, content)
VALUES ($1, $2, $3)
RETURNING resume_id`
	var id int64
	err := r.DB.QueryRowContext(ctx, query, resume.UserID, resume.Title, string(resume.Content)).Scan(&id)
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			return 0, ErrOwnerNotFound
		}
		return 0, fmt.Errorf("insert resume: %w", err)
	}
	return id, nil
}

// GetByID returns a resume only when it belongs to userID.
func (r *PGRepo) GetByID(ctx context.Context, userID, resumeID int64) (Resume, error) {
	const query = `
SELECT resume_id, user_id, title, content, created_at
FROM resumes
WHERE resume_id = $1 AND user_id = $2`
	var (
		resume  Resume
		content string
	)
	err := r.DB.QueryRowContext(ctx, query, resumeID, userID).Scan(
		&resume.ID,
		&resume.UserID,
		&resume.Title,
		&content,
		&resume.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Resume{}, ErrNotFound
		}
		return Resume{}, fmt.Errorf("select resume: %w", err)
	}
	resume.Content = []byte(content)
	return resume, nil
}

// ListByUser lists resume summaries in insertion order.
func (r *PGRepo) ListByUser(ctx context.Context, userID int64) ([]Summary, error) {
	const query = `
SELECT resume_id, title, created_at
FROM resumes
WHERE user_id = $1
ORDER BY created_at ASC, resume_id ASC`
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list resumes: %w", err)
	}
	defer rows.Close()

	out := make([]Summary, 0)
	for rows.Next() {
		var s Summary
		if err := rows.Scan(&s.ID, &s.Title, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan resume: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list resumes: %w", err)
	}
	return out, nil
}

var _ Repo = (*PGRepo)(nil)
