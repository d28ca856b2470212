package resumes

import (
	"encoding/json"
	"time"
)

type saveRequest struct {
	Title   string          `json:"title"`
	Content json.RawMessage `json:"content"`
}

type saveResponse struct {
	Message  string `json:"message"`
	ResumeID int64  `json:"resumeId"`
}

// SummaryResponse is one element of the list response.
type SummaryResponse struct {
	ResumeID  int64     `json:"resume_id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}

func toSummaryResponses(items []Summary) []SummaryResponse {
	out := make([]SummaryResponse, 0, len(items))
	for _, item := range items {
		out = append(out, SummaryResponse{
			ResumeID:  item.ID,
			Title:     item.Title,
			CreatedAt: item.CreatedAt,
		})
	}
	return out
}
