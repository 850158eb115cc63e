package sessions

import (
	"context"

	"github.com/MelanieChenMC/meliora/internal/models"
)

// SessionRepository defines the interface for session data persistence.
// Every read is scoped to an owner: a session belonging to another
// principal is indistinguishable from a missing one.
type SessionRepository interface {
	// Create operations
	CreateSession(ctx context.Context, session *models.Session) error

	// Read operations
	GetSessionByUUID(ctx context.Context, ownerID, uuid string) (*models.Session, error)
	ListSessionsByOwner(ctx context.Context, ownerID string, page, limit int) ([]models.Session, int64, error)

	// Update operations
	UpdateSession(ctx context.Context, session *models.Session) error
	UpdateStatus(ctx context.Context, ownerID, uuid string, status models.SessionStatus) (*models.Session, error)

	// Delete operations
	DeleteSession(ctx context.Context, ownerID, uuid string) error
}

// SessionService defines the business logic interface for session operations
type SessionService interface {
	CreateSession(ctx context.Context, ownerID string, params CreateParams) (*models.Session, error)
	GetSession(ctx context.Context, ownerID, uuid string) (*models.Session, error)
	ListSessions(ctx context.Context, ownerID string, page, limit int) ([]models.Session, int64, error)
	UpdateSession(ctx context.Context, ownerID, uuid string, params UpdateParams) (*models.Session, error)
	EndSession(ctx context.Context, ownerID, uuid string) (*models.Session, error)
	DeleteSession(ctx context.Context, ownerID, uuid string) error
}

// CreateParams carries the caller-supplied fields for a new session.
type CreateParams struct {
	Scenario            models.ScenarioType
	Title               string
	ExpectedDurationMin *int
}

// UpdateParams carries the mutable fields of an existing session. Nil
// fields are left untouched.
type UpdateParams struct {
	Title  *string
	Status *models.SessionStatus
}
