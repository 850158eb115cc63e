package types

import (
	"time"

	"github.com/MelanieChenMC/meliora/internal/models"
)

// Status constants for API responses
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// ErrorResponse is the standard error body.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// SessionResponse is the wire shape of one session.
type SessionResponse struct {
	ID                  string     `json:"id"`
	Scenario            string     `json:"scenario"`
	Status              string     `json:"status"`
	Title               string     `json:"title,omitempty"`
	ExpectedDurationMin *int       `json:"expected_duration_min,omitempty"`
	ChunkCount          int        `json:"chunk_count"`
	FullTranscript      *string    `json:"full_transcript,omitempty"`
	TotalDurationSec    *float64   `json:"total_duration_sec,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
	EndedAt             *time.Time `json:"ended_at,omitempty"`
}

// SessionsResponse is a paginated session list.
type SessionsResponse struct {
	Sessions []SessionResponse `json:"sessions"`
	Count    int               `json:"count"`
	Total    int64             `json:"total"`
	Page     int               `json:"page"`
}

// ChunkResponse is the wire shape of one transcript chunk.
type ChunkResponse struct {
	ID         uint      `json:"id"`
	ChunkIndex int       `json:"chunk_index"`
	Text       string    `json:"text"`
	Confidence float64   `json:"confidence"`
	CapturedAt time.Time `json:"captured_at"`
	Duration   *float64  `json:"duration_sec,omitempty"`
	HasAudio   bool      `json:"has_audio"`
}

// ChunksResponse is a session's ordered chunk list.
type ChunksResponse struct {
	Chunks []ChunkResponse `json:"chunks"`
	Count  int             `json:"count"`
}

// StitchResponse is the result of a stitch request.
type StitchResponse struct {
	URL         string    `json:"url"`
	ExpiresAt   time.Time `json:"expires_at"`
	Cached      bool      `json:"cached"`
	ChunkCount  int       `json:"chunk_count"`
	DurationSec float64   `json:"duration_sec"`
}

// SuggestionResponse is the wire shape of one suggestion.
type SuggestionResponse struct {
	ID           uint      `json:"id"`
	Topics       []string  `json:"topics"`
	Concerns     []string  `json:"concerns"`
	ActionItems  []string  `json:"action_items"`
	Risk         string    `json:"risk"`
	Acknowledged bool      `json:"acknowledged"`
	CreatedAt    time.Time `json:"created_at"`
}

// SummaryResponse is the wire shape of a session summary.
type SummaryResponse struct {
	Text      string    `json:"text"`
	KeyPoints []string  `json:"key_points"`
	FollowUps []string  `json:"follow_ups"`
	Risk      string    `json:"risk"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewSessionResponse maps a session model to its wire shape.
func NewSessionResponse(s *models.Session) SessionResponse {
	return SessionResponse{
		ID:                  s.UUID,
		Scenario:            string(s.Scenario),
		Status:              string(s.Status),
		Title:               s.Title,
		ExpectedDurationMin: s.ExpectedDurationMin,
		ChunkCount:          s.ChunkCount,
		FullTranscript:      s.FullTranscript,
		TotalDurationSec:    s.TotalDurationSec,
		CreatedAt:           s.CreatedAt,
		EndedAt:             s.EndedAt,
	}
}

// NewChunkResponse maps a chunk model to its wire shape.
func NewChunkResponse(c *models.Chunk) ChunkResponse {
	return ChunkResponse{
		ID:         c.ID,
		ChunkIndex: c.ChunkIndex,
		Text:       c.Text,
		Confidence: c.Confidence,
		CapturedAt: c.CapturedAt,
		Duration:   c.DurationSec,
		HasAudio:   c.ObjectKey != nil && *c.ObjectKey != "",
	}
}

// NewSuggestionResponse maps a suggestion model to its wire shape.
func NewSuggestionResponse(s *models.Suggestion) SuggestionResponse {
	return SuggestionResponse{
		ID:           s.ID,
		Topics:       emptyIfNil(s.Topics),
		Concerns:     emptyIfNil(s.Concerns),
		ActionItems:  emptyIfNil(s.ActionItems),
		Risk:         s.Risk,
		Acknowledged: s.Acknowledged,
		CreatedAt:    s.CreatedAt,
	}
}

// NewSummaryResponse maps a summary model to its wire shape.
func NewSummaryResponse(s *models.Summary) SummaryResponse {
	return SummaryResponse{
		Text:      s.Text,
		KeyPoints: emptyIfNil(s.KeyPoints),
		FollowUps: emptyIfNil(s.FollowUps),
		Risk:      s.Risk,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
