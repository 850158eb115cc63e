package models

import (
	"time"

	"gorm.io/gorm"
)

// SessionStatus is the lifecycle state of a recording session
type SessionStatus string

const (
	SessionStatusActive    SessionStatus = "active"
	SessionStatusPaused    SessionStatus = "paused"
	SessionStatusCompleted SessionStatus = "completed"
)

// ScenarioType categorizes what kind of engagement a session records
type ScenarioType string

const (
	ScenarioConsultation ScenarioType = "consultation"
	ScenarioInterview    ScenarioType = "interview"
	ScenarioMeeting      ScenarioType = "meeting"
	ScenarioDictation    ScenarioType = "dictation"
	ScenarioOther        ScenarioType = "other"
)

// ValidScenario reports whether s is a known scenario category
func ValidScenario(s ScenarioType) bool {
	switch s {
	case ScenarioConsultation, ScenarioInterview, ScenarioMeeting, ScenarioDictation, ScenarioOther:
		return true
	}
	return false
}

// Session represents one recording/transcription engagement.
// A session belongs to exactly one owning principal; every query is
// scoped by OwnerID. StitchedObjectKey, FullTranscript and
// TotalDurationSec are derived lazily by the stitcher and are safe to
// recompute.
type Session struct {
	gorm.Model
	UUID     string        `json:"uuid" gorm:"uniqueIndex;not null"`
	OwnerID  string        `json:"owner_id" gorm:"index;not null"`
	Scenario ScenarioType  `json:"scenario" gorm:"not null"`
	Status   SessionStatus `json:"status" gorm:"not null;default:active"`

	// Structured metadata. Named optional fields instead of an open
	// map so unknown keys cannot sneak into the schema.
	Title               string     `json:"title"`
	ExpectedDurationMin *int       `json:"expected_duration_min"`
	EndedAt             *time.Time `json:"ended_at"`
	ChunkCount          int        `json:"chunk_count" gorm:"default:0"`

	// Post-processing cache, populated by the stitcher
	StitchedObjectKey *string  `json:"stitched_object_key"`
	FullTranscript    *string  `json:"full_transcript" gorm:"type:text"`
	TotalDurationSec  *float64 `json:"total_duration_sec"`

	Chunks      []Chunk      `json:"chunks,omitempty" gorm:"foreignKey:SessionID;constraint:OnDelete:CASCADE"`
	Suggestions []Suggestion `json:"suggestions,omitempty" gorm:"foreignKey:SessionID;constraint:OnDelete:CASCADE"`
	Summary     *Summary     `json:"summary,omitempty" gorm:"foreignKey:SessionID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for Session
func (Session) TableName() string {
	return "sessions"
}
