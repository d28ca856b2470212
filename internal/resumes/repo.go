package resumes

import "context"

// Repo defines persistence operations for resumes. Reads are always scoped
// to the owning user.
type Repo interface {
	Create(ctx context.Context, resume Resume) (int64, error)
	GetByID(ctx context.Context, userID, resumeID int64) (Resume, error)
	// ListByUser returns summaries oldest first.
	ListByUser(ctx context.Context, userID int64) ([]Summary, error)
}
