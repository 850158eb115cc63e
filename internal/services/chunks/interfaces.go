package chunks

import (
	"context"
	"time"

	"github.com/MelanieChenMC/meliora/internal/models"
	"github.com/MelanieChenMC/meliora/internal/services/transcriber"
)

// ChunkRepository defines the interface for chunk record persistence.
// Chunk records are append-only: there are no update operations.
type ChunkRepository interface {
	CreateChunk(ctx context.Context, chunk *models.Chunk) error

	// ListBySessionOrdered returns every chunk of a session in stitch
	// order: chunk index ascending, then captured-at ascending.
	ListBySessionOrdered(ctx context.Context, sessionID uint) ([]models.Chunk, error)
	CountBySession(ctx context.Context, sessionID uint) (int64, error)

	// IncrementSessionChunkCount bumps the denormalized counter on the
	// owning session after a chunk record is written.
	IncrementSessionChunkCount(ctx context.Context, sessionID uint) error
}

// Pipeline processes one captured audio chunk end to end: blob upload,
// transcription, hallucination filtering, record persistence.
type Pipeline interface {
	ProcessChunk(ctx context.Context, session *models.Session, input ChunkInput) (*models.Chunk, error)
}

// Transcriber is the speech-to-text dependency of the pipeline.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, mimeType string) (*transcriber.Result, error)
}

// ChunkInput is one captured audio chunk entering the pipeline.
type ChunkInput struct {
	Index      int
	CapturedAt time.Time
	Audio      []byte
	MimeType   string
}
