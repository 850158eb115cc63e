// Package stitcher reassembles a session's per-chunk audio blobs into
// one continuous artifact and derives the session's full transcript.
package stitcher

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/MelanieChenMC/meliora/internal/blobstore"
	"github.com/MelanieChenMC/meliora/internal/models"
	"github.com/MelanieChenMC/meliora/internal/services/chunks"
	"github.com/MelanieChenMC/meliora/internal/services/sessions"
	"github.com/MelanieChenMC/meliora/pkg/errors"
)

const (
	DefaultLargeSessionChunks = 600
	DefaultBatchSize          = 200
	DefaultSignedURLTTL       = 15 * time.Minute
	DefaultChunkDuration      = 3 * time.Second
)

// SummaryTrigger kicks off summary generation once a stitch completes.
// Summary generation is enrichment: its failure never affects the
// stitch result.
type SummaryTrigger interface {
	GenerateSummary(ctx context.Context, ownerID, sessionUUID string) error
}

// Result is the outcome of one stitch request.
type Result struct {
	SignedURL   string
	ExpiresAt   time.Time
	Cached      bool
	ChunkCount  int
	DurationSec float64
}

// Config tunes the stitcher's batching and caching behavior.
type Config struct {
	LargeSessionChunks int
	BatchSize          int
	SignedURLTTL       time.Duration
	ChunkDuration      time.Duration
}

// Service implements session stitching with memory-bounded batching.
type Service struct {
	sessions sessions.SessionRepository
	chunks   chunks.ChunkRepository
	store    blobstore.Store
	summary  SummaryTrigger
	cfg      Config
}

// NewService creates a stitcher. summary may be nil when suggestion
// generation is disabled.
func NewService(sessionRepo sessions.SessionRepository, chunkRepo chunks.ChunkRepository, store blobstore.Store, summary SummaryTrigger, cfg Config) *Service {
	if cfg.LargeSessionChunks <= 0 {
		cfg.LargeSessionChunks = DefaultLargeSessionChunks
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultBatchSize
	}
	if cfg.SignedURLTTL <= 0 {
		cfg.SignedURLTTL = DefaultSignedURLTTL
	}
	if cfg.ChunkDuration <= 0 {
		cfg.ChunkDuration = DefaultChunkDuration
	}
	return &Service{
		sessions: sessionRepo,
		chunks:   chunkRepo,
		store:    store,
		summary:  summary,
		cfg:      cfg,
	}
}

// Stitch produces the session's continuous audio artifact and signed
// URL. When a cached artifact exists and force is false, only a fresh
// URL is minted; recomputation happens when the mint fails or force is
// set. Recomputing with an unchanged chunk set yields an equivalent
// artifact at the same key, so concurrent stitches are last-writer-wins
// rather than serialized.
func (s *Service) Stitch(ctx context.Context, ownerID, sessionUUID string, force bool) (*Result, error) {
	session, err := s.sessions.GetSessionByUUID(ctx, ownerID, sessionUUID)
	if err != nil {
		return nil, err
	}

	if session.StitchedObjectKey != nil && !force {
		url, err := s.store.SignedURL(ctx, *session.StitchedObjectKey, s.cfg.SignedURLTTL)
		if err == nil {
			return &Result{
				SignedURL:   url,
				ExpiresAt:   time.Now().Add(s.cfg.SignedURLTTL),
				Cached:      true,
				ChunkCount:  session.ChunkCount,
				DurationSec: derefFloat(session.TotalDurationSec),
			}, nil
		}
		log.Printf("[WARN] Cached artifact for session %s is not accessible, re-stitching: %v", sessionUUID, err)
	}

	return s.restitch(ctx, session)
}

func (s *Service) restitch(ctx context.Context, session *models.Session) (*Result, error) {
	records, err := s.chunks.ListBySessionOrdered(ctx, session.ID)
	if err != nil {
		return nil, errors.DatabaseError("list chunks", err)
	}

	withBlobs := make([]models.Chunk, 0, len(records))
	for _, c := range records {
		if c.ObjectKey != nil && *c.ObjectKey != "" {
			withBlobs = append(withBlobs, c)
		}
	}
	if len(withBlobs) == 0 {
		return nil, errors.NothingToStitch(session.UUID)
	}

	audio, stitched := s.assemble(ctx, session.UUID, withBlobs)
	if len(stitched) == 0 {
		return nil, errors.NothingToStitch(session.UUID)
	}

	artifactKey := chunks.ArtifactObjectKey(session.UUID)
	if err := s.store.Upload(ctx, artifactKey, audio, "audio/webm"); err != nil {
		return nil, errors.TransientIOError("artifact upload", err)
	}

	transcript := joinTranscripts(stitched)
	duration := float64(len(stitched)) * s.cfg.ChunkDuration.Seconds()

	session.StitchedObjectKey = &artifactKey
	session.FullTranscript = &transcript
	session.TotalDurationSec = &duration
	if err := s.sessions.UpdateSession(ctx, session); err != nil {
		return nil, err
	}

	url, err := s.store.SignedURL(ctx, artifactKey, s.cfg.SignedURLTTL)
	if err != nil {
		return nil, errors.TransientIOError("artifact signed URL", err)
	}

	log.Printf("[INFO] Stitched session %s: %d/%d chunk(s), %.0fs of audio",
		session.UUID, len(stitched), len(withBlobs), duration)

	s.triggerSummary(session)

	return &Result{
		SignedURL:   url,
		ExpiresAt:   time.Now().Add(s.cfg.SignedURLTTL),
		Cached:      false,
		ChunkCount:  len(stitched),
		DurationSec: duration,
	}, nil
}

// assemble downloads every chunk blob in order and concatenates them.
// Sessions below the large-session threshold concatenate directly.
// Larger sessions go through fixed-size batches so peak memory is
// bounded by one batch plus the per-batch buffers, instead of holding
// thousands of small buffers at once. A failed download skips that
// chunk with a warning; the surviving chunks keep their order.
func (s *Service) assemble(ctx context.Context, sessionUUID string, records []models.Chunk) ([]byte, []models.Chunk) {
	if len(records) < s.cfg.LargeSessionChunks {
		return s.assembleBatch(ctx, sessionUUID, records)
	}

	log.Printf("[INFO] Session %s has %d chunks, stitching in batches of %d",
		sessionUUID, len(records), s.cfg.BatchSize)

	var batchBuffers [][]byte
	var stitched []models.Chunk
	total := 0

	for start := 0; start < len(records); start += s.cfg.BatchSize {
		end := start + s.cfg.BatchSize
		if end > len(records) {
			end = len(records)
		}

		buf, batchChunks := s.assembleBatch(ctx, sessionUUID, records[start:end])
		if len(buf) == 0 {
			continue
		}
		batchBuffers = append(batchBuffers, buf)
		stitched = append(stitched, batchChunks...)
		total += len(buf)
	}

	final := make([]byte, 0, total)
	for _, buf := range batchBuffers {
		final = append(final, buf...)
	}
	return final, stitched
}

func (s *Service) assembleBatch(ctx context.Context, sessionUUID string, records []models.Chunk) ([]byte, []models.Chunk) {
	buffers := make([][]byte, 0, len(records))
	stitched := make([]models.Chunk, 0, len(records))
	total := 0

	for _, c := range records {
		data, err := s.store.Download(ctx, *c.ObjectKey)
		if err != nil {
			log.Printf("[WARN] Skipping chunk %d of session %s, blob download failed: %v",
				c.ChunkIndex, sessionUUID, err)
			continue
		}
		buffers = append(buffers, data)
		stitched = append(stitched, c)
		total += len(data)
	}

	out := make([]byte, 0, total)
	for _, b := range buffers {
		out = append(out, b...)
	}
	return out, stitched
}

// triggerSummary fires the post-stitch summary generation without
// tying it to the request lifetime.
func (s *Service) triggerSummary(session *models.Session) {
	if s.summary == nil {
		return
	}
	ownerID, uuid := session.OwnerID, session.UUID
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		if err := s.summary.GenerateSummary(ctx, ownerID, uuid); err != nil {
			log.Printf("[WARN] Post-stitch summary for session %s failed: %v", uuid, err)
		}
	}()
}

// joinTranscripts concatenates the non-empty transcript texts in chunk
// order, space separated. Empty-text chunks hold their place in the
// audio but contribute nothing to the transcript.
func joinTranscripts(records []models.Chunk) string {
	parts := make([]string, 0, len(records))
	for _, c := range records {
		if text := strings.TrimSpace(c.Text); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, " ")
}

func derefFloat(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}
