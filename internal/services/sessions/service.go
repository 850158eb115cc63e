package sessions

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/MelanieChenMC/meliora/internal/models"
	"github.com/MelanieChenMC/meliora/pkg/errors"
)

const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// Service implements the SessionService interface with business logic
type Service struct {
	repository SessionRepository
}

var _ SessionService = (*Service)(nil)

// NewService creates a new session service
func NewService(repository SessionRepository) *Service {
	return &Service{repository: repository}
}

// CreateSession starts a new recording session for the owner.
func (s *Service) CreateSession(ctx context.Context, ownerID string, params CreateParams) (*models.Session, error) {
	if !models.ValidScenario(params.Scenario) {
		return nil, errors.ValidationError("scenario", "unknown scenario type")
	}

	session := &models.Session{
		UUID:                uuid.NewString(),
		OwnerID:             ownerID,
		Scenario:            params.Scenario,
		Status:              models.SessionStatusActive,
		Title:               params.Title,
		ExpectedDurationMin: params.ExpectedDurationMin,
	}

	if err := s.repository.CreateSession(ctx, session); err != nil {
		return nil, errors.DatabaseError("create session", err)
	}

	log.Printf("[INFO] Created session %s (scenario=%s) for owner %s", session.UUID, session.Scenario, ownerID)
	return session, nil
}

// GetSession returns one session owned by the caller.
func (s *Service) GetSession(ctx context.Context, ownerID, uuid string) (*models.Session, error) {
	return s.repository.GetSessionByUUID(ctx, ownerID, uuid)
}

// ListSessions returns the caller's sessions, newest first.
func (s *Service) ListSessions(ctx context.Context, ownerID string, page, limit int) ([]models.Session, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	return s.repository.ListSessionsByOwner(ctx, ownerID, page, limit)
}

// UpdateSession applies the caller's partial update.
func (s *Service) UpdateSession(ctx context.Context, ownerID, uuid string, params UpdateParams) (*models.Session, error) {
	session, err := s.repository.GetSessionByUUID(ctx, ownerID, uuid)
	if err != nil {
		return nil, err
	}

	if params.Title != nil {
		session.Title = *params.Title
	}
	if params.Status != nil {
		switch *params.Status {
		case models.SessionStatusActive, models.SessionStatusPaused, models.SessionStatusCompleted:
		default:
			return nil, errors.ValidationError("status", "unknown session status")
		}
		session.Status = *params.Status
		if *params.Status == models.SessionStatusCompleted && session.EndedAt == nil {
			now := time.Now().UTC()
			session.EndedAt = &now
		}
	}

	if err := s.repository.UpdateSession(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// EndSession marks the session completed and stamps its end time.
// Ending an already completed session is a no-op, not an error.
func (s *Service) EndSession(ctx context.Context, ownerID, uuid string) (*models.Session, error) {
	session, err := s.repository.GetSessionByUUID(ctx, ownerID, uuid)
	if err != nil {
		return nil, err
	}

	if session.Status == models.SessionStatusCompleted {
		return session, nil
	}

	session.Status = models.SessionStatusCompleted
	now := time.Now().UTC()
	session.EndedAt = &now

	if err := s.repository.UpdateSession(ctx, session); err != nil {
		return nil, err
	}

	log.Printf("[INFO] Ended session %s after %d chunk(s)", session.UUID, session.ChunkCount)
	return session, nil
}

// DeleteSession removes the session and its dependents.
func (s *Service) DeleteSession(ctx context.Context, ownerID, uuid string) error {
	return s.repository.DeleteSession(ctx, ownerID, uuid)
}
