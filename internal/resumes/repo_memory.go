package resumes

import (
	"context"
	"sync"
	"time"
)

// MemoryRepo stores resumes in memory and is safe for concurrent use.
type MemoryRepo struct {
	mu     sync.RWMutex
	nextID int64
	items  []Resume
	now    func() time.Time
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{now: time.Now}
}

func (r *MemoryRepo) Create(ctx context.Context, resume Resume) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	resume.ID = r.nextID
	resume.CreatedAt = r.now().UTC()
	resume.Content = append([]byte(nil), resume.Content...)
	r.items = append(r.items, resume)
	return resume.ID, nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, userID, resumeID int64) (Resume, error) {
	if err := ctx.Err(); err != nil {
		return Resume{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, item := range r.items {
		if item.ID == resumeID && item.UserID == userID {
			item.Content = append([]byte(nil), item.Content...)
			return item, nil
		}
	}
	return Resume{}, ErrNotFound
}

func (r *MemoryRepo) ListByUser(ctx context.Context, userID int64) ([]Summary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Summary, 0)
	for _, item := range r.items {
		if item.UserID != userID {
			continue
		}
		out = append(out, Summary{ID: item.ID, Title: item.Title, CreatedAt: item.CreatedAt})
	}
	return out, nil
}

var _ Repo = (*MemoryRepo)(nil)
