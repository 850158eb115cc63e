package models

import "gorm.io/gorm"

// Suggestion is a derived annotation over a session's recent
// transcript: structured guidance produced by the text-generation
// backend. Session-scoped and append-only like chunks.
type Suggestion struct {
	gorm.Model
	SessionID    uint     `json:"session_id" gorm:"not null;index"`
	Topics       []string `json:"topics" gorm:"serializer:json"`
	Concerns     []string `json:"concerns" gorm:"serializer:json"`
	ActionItems  []string `json:"action_items" gorm:"serializer:json"`
	Risk         string   `json:"risk"`
	Acknowledged bool     `json:"acknowledged" gorm:"default:false"`
	SourceModel  string   `json:"source_model"`
}

// TableName specifies the table name for Suggestion
func (Suggestion) TableName() string {
	return "suggestions"
}

// Summary is the one-per-session digest generated after stitching (or
// on demand). Regeneration overwrites the existing row.
type Summary struct {
	gorm.Model
	SessionID   uint     `json:"session_id" gorm:"uniqueIndex;not null"`
	Text        string   `json:"text" gorm:"type:text"`
	KeyPoints   []string `json:"key_points" gorm:"serializer:json"`
	FollowUps   []string `json:"follow_ups" gorm:"serializer:json"`
	Risk        string   `json:"risk"`
	SourceModel string   `json:"source_model"`
}

// TableName specifies the table name for Summary
func (Summary) TableName() string {
	return "summaries"
}
