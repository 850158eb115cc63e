package insights

import (
	"context"

	"github.com/MelanieChenMC/meliora/internal/models"
)

// InsightRepository defines the interface for suggestion and summary
// persistence.
type InsightRepository interface {
	// Suggestion operations
	CreateSuggestion(ctx context.Context, suggestion *models.Suggestion) error
	ListSuggestionsBySession(ctx context.Context, sessionID uint) ([]models.Suggestion, error)
	AcknowledgeSuggestion(ctx context.Context, sessionID, suggestionID uint) (*models.Suggestion, error)

	// Summary operations, one summary per session
	UpsertSummary(ctx context.Context, summary *models.Summary) error
	GetSummaryBySession(ctx context.Context, sessionID uint) (*models.Summary, error)
	DeleteSummaryBySession(ctx context.Context, sessionID uint) error
}

// InsightService defines the business logic interface for suggestion
// and summary generation over session transcripts.
type InsightService interface {
	GenerateSuggestions(ctx context.Context, ownerID, sessionUUID string) (*models.Suggestion, error)
	ListSuggestions(ctx context.Context, ownerID, sessionUUID string) ([]models.Suggestion, error)
	AcknowledgeSuggestion(ctx context.Context, ownerID, sessionUUID string, suggestionID uint) (*models.Suggestion, error)

	GenerateSummary(ctx context.Context, ownerID, sessionUUID string) error
	GetSummary(ctx context.Context, ownerID, sessionUUID string) (*models.Summary, error)
	UpdateSummary(ctx context.Context, ownerID, sessionUUID, text string) (*models.Summary, error)
	DeleteSummary(ctx context.Context, ownerID, sessionUUID string) error
}
