package chunks

import (
	"context"
	"fmt"
	"log"

	"github.com/MelanieChenMC/meliora/internal/blobstore"
	"github.com/MelanieChenMC/meliora/internal/models"
	"github.com/MelanieChenMC/meliora/internal/services/hallucination"
	"github.com/MelanieChenMC/meliora/pkg/errors"
)

// Service implements the Pipeline interface. The pipeline order is
// fixed: blob upload, transcription, hallucination filter, record
// persistence. Audio is uploaded before the transcription call so a
// failed or suppressed transcript never loses the raw audio.
type Service struct {
	repository  ChunkRepository
	store       blobstore.Store
	transcriber Transcriber
	filter      *hallucination.Filter
}

var _ Pipeline = (*Service)(nil)

// NewService creates a new chunk pipeline service
func NewService(repository ChunkRepository, store blobstore.Store, transcriber Transcriber, filter *hallucination.Filter) *Service {
	return &Service{
		repository:  repository,
		store:       store,
		transcriber: transcriber,
		filter:      filter,
	}
}

// ProcessChunk runs one captured chunk through the pipeline and returns
// the persisted record. A transcription failure still persists the
// chunk with empty text so its audio stays stitchable.
func (s *Service) ProcessChunk(ctx context.Context, session *models.Session, input ChunkInput) (*models.Chunk, error) {
	if len(input.Audio) == 0 {
		return nil, errors.ValidationError("audio", "empty audio payload")
	}

	key := ChunkObjectKey(session.UUID, input.Index, input.CapturedAt.UnixNano(), input.MimeType)
	if err := s.store.Upload(ctx, key, input.Audio, input.MimeType); err != nil {
		return nil, errors.TransientIOError("chunk blob upload", err)
	}

	text := ""
	confidence := 0.0
	duration := 0.0

	result, err := s.transcriber.Transcribe(ctx, input.Audio, input.MimeType)
	if err != nil {
		log.Printf("[WARN] Transcription failed for chunk %d of session %s, keeping audio only: %v",
			input.Index, session.UUID, err)
	} else {
		filtered := s.filter.Apply(result.Text, result.Confidence)
		text = filtered.Text
		confidence = filtered.Confidence
		duration = result.DurationSec
	}

	chunk := &models.Chunk{
		SessionID:  session.ID,
		ChunkIndex: input.Index,
		Text:       text,
		Confidence: confidence,
		CapturedAt: input.CapturedAt,
		ObjectKey:  &key,
	}
	if duration > 0 {
		chunk.DurationSec = &duration
	}

	if err := s.repository.CreateChunk(ctx, chunk); err != nil {
		return nil, errors.DatabaseError("create chunk", err)
	}

	if err := s.repository.IncrementSessionChunkCount(ctx, session.ID); err != nil {
		log.Printf("[WARN] Failed to bump chunk count for session %s: %v", session.UUID, err)
	}

	return chunk, nil
}

// ChunkObjectKey builds the blob key for one chunk's raw audio. The
// index plus capture timestamp keeps keys unique even when two chunks
// share an index after a client restart.
func ChunkObjectKey(sessionUUID string, index int, capturedUnixNano int64, mimeType string) string {
	return fmt.Sprintf("sessions/%s/chunks/%d_%d%s", sessionUUID, index, capturedUnixNano, extensionFor(mimeType))
}

// ArtifactObjectKey builds the stable blob key for a session's stitched
// audio. Stable so forced re-stitches overwrite in place.
func ArtifactObjectKey(sessionUUID string) string {
	return fmt.Sprintf("sessions/%s/full.webm", sessionUUID)
}

func extensionFor(mimeType string) string {
	switch mimeType {
	case "audio/wav", "audio/x-wav":
		return ".wav"
	case "audio/mpeg", "audio/mp3":
		return ".mp3"
	case "audio/ogg":
		return ".ogg"
	default:
		return ".webm"
	}
}
