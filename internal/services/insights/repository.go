package insights

import (
	"context"
	stderrors "errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/MelanieChenMC/meliora/internal/models"
	"github.com/MelanieChenMC/meliora/pkg/errors"
)

type Repository struct {
	db *gorm.DB
}

// Ensure Repository implements InsightRepository interface
var _ InsightRepository = (*Repository)(nil)

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) CreateSuggestion(ctx context.Context, suggestion *models.Suggestion) error {
	if err := r.db.WithContext(ctx).Create(suggestion).Error; err != nil {
		return fmt.Errorf("creating suggestion: %w", err)
	}
	return nil
}

func (r *Repository) ListSuggestionsBySession(ctx context.Context, sessionID uint) ([]models.Suggestion, error) {
	var suggestions []models.Suggestion
	if err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at DESC").
		Find(&suggestions).Error; err != nil {
		return nil, fmt.Errorf("listing suggestions: %w", err)
	}
	return suggestions, nil
}

func (r *Repository) AcknowledgeSuggestion(ctx context.Context, sessionID, suggestionID uint) (*models.Suggestion, error) {
	var suggestion models.Suggestion
	if err := r.db.WithContext(ctx).
		Where("id = ? AND session_id = ?", suggestionID, sessionID).
		First(&suggestion).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NotFound("suggestion", suggestionID)
		}
		return nil, fmt.Errorf("getting suggestion: %w", err)
	}

	if !suggestion.Acknowledged {
		suggestion.Acknowledged = true
		if err := r.db.WithContext(ctx).Save(&suggestion).Error; err != nil {
			return nil, fmt.Errorf("acknowledging suggestion: %w", err)
		}
	}
	return &suggestion, nil
}

func (r *Repository) UpsertSummary(ctx context.Context, summary *models.Summary) error {
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "session_id"}},
			UpdateAll: true,
		}).
		Create(summary).Error; err != nil {
		return fmt.Errorf("upserting summary: %w", err)
	}
	return nil
}

func (r *Repository) GetSummaryBySession(ctx context.Context, sessionID uint) (*models.Summary, error) {
	var summary models.Summary
	if err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		First(&summary).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NotFound("summary", sessionID)
		}
		return nil, fmt.Errorf("getting summary: %w", err)
	}
	return &summary, nil
}

func (r *Repository) DeleteSummaryBySession(ctx context.Context, sessionID uint) error {
	result := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Delete(&models.Summary{})
	if result.Error != nil {
		return fmt.Errorf("deleting summary: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.NotFound("summary", sessionID)
	}
	return nil
}
