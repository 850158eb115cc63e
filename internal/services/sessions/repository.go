package sessions

import (
	"context"
	stderrors "errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/MelanieChenMC/meliora/internal/models"
	"github.com/MelanieChenMC/meliora/pkg/errors"
)

type Repository struct {
	db *gorm.DB
}

// Ensure Repository implements SessionRepository interface
var _ SessionRepository = (*Repository)(nil)

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) CreateSession(ctx context.Context, session *models.Session) error {
	if err := r.db.WithContext(ctx).Create(session).Error; err != nil {
		return fmt.Errorf("creating session: %w", err)
	}
	return nil
}

func (r *Repository) GetSessionByUUID(ctx context.Context, ownerID, uuid string) (*models.Session, error) {
	var session models.Session
	if err := r.db.WithContext(ctx).
		Where("uuid = ? AND owner_id = ?", uuid, ownerID).
		First(&session).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NotFound("session", uuid)
		}
		return nil, fmt.Errorf("getting session: %w", err)
	}
	return &session, nil
}

func (r *Repository) ListSessionsByOwner(ctx context.Context, ownerID string, page, limit int) ([]models.Session, int64, error) {
	var sessions []models.Session
	var total int64

	offset := (page - 1) * limit

	query := r.db.WithContext(ctx).Model(&models.Session{}).Where("owner_id = ?", ownerID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("counting sessions: %w", err)
	}

	if err := query.
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&sessions).Error; err != nil {
		return nil, 0, fmt.Errorf("listing sessions: %w", err)
	}

	return sessions, total, nil
}

func (r *Repository) UpdateSession(ctx context.Context, session *models.Session) error {
	result := r.db.WithContext(ctx).Save(session)
	if result.Error != nil {
		return fmt.Errorf("updating session: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.NotFound("session", session.UUID)
	}
	return nil
}

func (r *Repository) UpdateStatus(ctx context.Context, ownerID, uuid string, status models.SessionStatus) (*models.Session, error) {
	session, err := r.GetSessionByUUID(ctx, ownerID, uuid)
	if err != nil {
		return nil, err
	}
	session.Status = status
	if err := r.UpdateSession(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (r *Repository) DeleteSession(ctx context.Context, ownerID, uuid string) error {
	result := r.db.WithContext(ctx).
		Where("uuid = ? AND owner_id = ?", uuid, ownerID).
		Delete(&models.Session{})
	if result.Error != nil {
		return fmt.Errorf("deleting session: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.NotFound("session", uuid)
	}
	return nil
}
