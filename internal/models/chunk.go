package models

import "time"

// Chunk represents one accepted unit of captured audio and its
// transcript. Rows are append-only: written once by the chunk pipeline
// and never mutated, so ordering and transcript content are stable
// inputs for stitching. Deleted only by cascade with the session.
//
// Playback order is (ChunkIndex asc, CapturedAt asc). ChunkIndex is
// assigned at emission time on the capture side; CapturedAt alone is
// not a reliable sort key when uploads race or clocks skew. Index
// values may be non-contiguous because gate-rejected chunks are
// dropped without a record.
type Chunk struct {
	ID          uint      `json:"id" gorm:"primarykey"`
	SessionID   uint      `json:"session_id" gorm:"not null;index:idx_chunks_session_order,priority:1"`
	ChunkIndex  int       `json:"chunk_index" gorm:"not null;index:idx_chunks_session_order,priority:2"`
	Text        string    `json:"text" gorm:"type:text"` // empty (not null) when the hallucination filter flagged it
	Confidence  float64   `json:"confidence"`
	CapturedAt  time.Time `json:"captured_at" gorm:"index:idx_chunks_session_order,priority:3"`
	DurationSec *float64  `json:"duration_sec,omitempty"` // nil when transcription did not report one
	ObjectKey   *string   `json:"object_key,omitempty"`   // blob store key for the raw audio; kept even for flagged text
	CreatedAt   time.Time `json:"created_at"`
}

// TableName specifies the table name for Chunk
func (Chunk) TableName() string {
	return "chunks"
}
