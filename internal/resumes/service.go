package resumes

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
)

// Service contains resume business logic.
type Service struct {
	Repo Repo
}

func NewService(repo Repo) *Service {
	return &Service{Repo: repo}
}

// SaveInput is the caller-provided part of a new resume.
type SaveInput struct {
	Title   string
	Content json.RawMessage
}

// Save validates the input, compacts content and stores it for userID.
func (s *Service) Save(ctx context.Context, userID int64, in SaveInput) (int64, error) {
	if s == nil || s.Repo == nil {
		return 0, errors.New("resumes service not configured")
	}
	if userID <= 0 {
		return 0, ErrInvalidInput
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return 0, ErrInvalidInput
	}
	content, err := normalizeContent(in.Content)
	if err != nil {
		return 0, err
	}
	return s.Repo.Create(ctx, Resume{
		UserID:  userID,
		Title:   title,
		Content: content,
	})
}

// List returns summaries for userID only.
func (s *Service) List(ctx context.Context, userID int64) ([]Summary, error) {
	if s == nil || s.Repo == nil {
		return nil, errors.New("resumes service not configured")
	}
	if userID <= 0 {
		return []Summary{}, nil
	}
	items, err := s.Repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []Summary{}
	}
	return items, nil
}

// Get returns the resume if it exists and belongs to userID.
func (s *Service) Get(ctx context.Context, userID, resumeID int64) (Resume, error) {
	if s == nil || s.Repo == nil {
		return Resume{}, errors.New("resumes service not configured")
	}
	if userID <= 0 || resumeID <= 0 {
		return Resume{}, ErrNotFound
	}
	return s.Repo.GetByID(ctx, userID, resumeID)
}

// normalizeContent rejects absent, null or empty-string content and returns
// the compacted JSON text.
func normalizeContent(raw json.RawMessage) (json.RawMessage, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) || bytes.Equal(trimmed, []byte(`""`)) {
		return nil, ErrInvalidInput
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, trimmed); err != nil {
		return nil, ErrInvalidInput
	}
	return buf.Bytes(), nil
}
