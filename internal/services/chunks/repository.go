package chunks

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/MelanieChenMC/meliora/internal/models"
)

type Repository struct {
	db *gorm.DB
}

// Ensure Repository implements ChunkRepository interface
var _ ChunkRepository = (*Repository)(nil)

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) CreateChunk(ctx context.Context, chunk *models.Chunk) error {
	if err := r.db.WithContext(ctx).Create(chunk).Error; err != nil {
		return fmt.Errorf("creating chunk: %w", err)
	}
	return nil
}

func (r *Repository) ListBySessionOrdered(ctx context.Context, sessionID uint) ([]models.Chunk, error) {
	var chunks []models.Chunk
	if err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("chunk_index ASC, captured_at ASC").
		Find(&chunks).Error; err != nil {
		return nil, fmt.Errorf("listing chunks: %w", err)
	}
	return chunks, nil
}

func (r *Repository) IncrementSessionChunkCount(ctx context.Context, sessionID uint) error {
	if err := r.db.WithContext(ctx).
		Model(&models.Session{}).
		Where("id = ?", sessionID).
		UpdateColumn("chunk_count", gorm.Expr("chunk_count + 1")).Error; err != nil {
		return fmt.Errorf("incrementing chunk count: %w", err)
	}
	return nil
}

func (r *Repository) CountBySession(ctx context.Context, sessionID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Chunk{}).
		Where("session_id = ?", sessionID).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("counting chunks: %w", err)
	}
	return count, nil
}
