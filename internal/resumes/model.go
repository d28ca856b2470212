package resumes

import (
	"encoding/json"
	"time"
)

// Resume is a stored document owned by one user. Content is compacted JSON.
type Resume struct {
	ID        int64
	UserID    int64
	Title     string
	Content   json.RawMessage
	CreatedAt time.Time
}

// Summary is the listing projection of a Resume.
type Summary struct {
	ID        int64
	Title     string
	CreatedAt time.Time
}
