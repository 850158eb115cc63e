package insights

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/MelanieChenMC/meliora/internal/models"
	"github.com/MelanieChenMC/meliora/internal/services/chunks"
	"github.com/MelanieChenMC/meliora/internal/services/completion"
	"github.com/MelanieChenMC/meliora/internal/services/sessions"
	"github.com/MelanieChenMC/meliora/pkg/errors"
)

const DefaultSuggestionWindow = 5 * time.Minute

// Service implements the InsightService interface. Generation is
// best-effort enrichment over transcript text; it never sits on the
// recording or stitching paths.
type Service struct {
	repository InsightRepository
	sessions   sessions.SessionRepository
	chunks     chunks.ChunkRepository
	completer  completion.Completer
	window     time.Duration
}

var _ InsightService = (*Service)(nil)

// NewService creates a new insight service
func NewService(repository InsightRepository, sessionRepo sessions.SessionRepository, chunkRepo chunks.ChunkRepository, completer completion.Completer, window time.Duration) *Service {
	if window <= 0 {
		window = DefaultSuggestionWindow
	}
	return &Service{
		repository: repository,
		sessions:   sessionRepo,
		chunks:     chunkRepo,
		completer:  completer,
		window:     window,
	}
}

// GenerateSuggestions analyzes the most recent transcript window and
// persists one suggestion record.
func (s *Service) GenerateSuggestions(ctx context.Context, ownerID, sessionUUID string) (*models.Suggestion, error) {
	session, err := s.sessions.GetSessionByUUID(ctx, ownerID, sessionUUID)
	if err != nil {
		return nil, err
	}

	transcript, err := s.recentTranscript(ctx, session)
	if err != nil {
		return nil, err
	}
	if transcript == "" {
		return nil, errors.New(errors.ErrCodeValidation, "session has no transcript text to analyze")
	}

	raw, err := s.completer.Complete(ctx, suggestionSystemPrompt, suggestionUserPrompt(session.Scenario, transcript))
	if err != nil {
		return nil, err
	}

	var payload suggestionPayload
	if err := completion.ExtractJSON(raw, &payload); err != nil {
		log.Printf("[WARN] Unparseable suggestion response for session %s: %.80q", sessionUUID, raw)
		return nil, err
	}

	suggestion := &models.Suggestion{
		SessionID:   session.ID,
		Topics:      payload.Topics,
		Concerns:    payload.Concerns,
		ActionItems: payload.ActionItems,
		Risk:        normalizeRisk(payload.Risk),
		SourceModel: s.completer.Model(),
	}
	if err := s.repository.CreateSuggestion(ctx, suggestion); err != nil {
		return nil, errors.DatabaseError("create suggestion", err)
	}

	return suggestion, nil
}

// ListSuggestions returns the session's suggestions, newest first.
func (s *Service) ListSuggestions(ctx context.Context, ownerID, sessionUUID string) ([]models.Suggestion, error) {
	session, err := s.sessions.GetSessionByUUID(ctx, ownerID, sessionUUID)
	if err != nil {
		return nil, err
	}
	return s.repository.ListSuggestionsBySession(ctx, session.ID)
}

// AcknowledgeSuggestion marks one suggestion as seen by the owner.
func (s *Service) AcknowledgeSuggestion(ctx context.Context, ownerID, sessionUUID string, suggestionID uint) (*models.Suggestion, error) {
	session, err := s.sessions.GetSessionByUUID(ctx, ownerID, sessionUUID)
	if err != nil {
		return nil, err
	}
	return s.repository.AcknowledgeSuggestion(ctx, session.ID, suggestionID)
}

// GenerateSummary summarizes the full session transcript and upserts
// the session's single summary record.
func (s *Service) GenerateSummary(ctx context.Context, ownerID, sessionUUID string) error {
	session, err := s.sessions.GetSessionByUUID(ctx, ownerID, sessionUUID)
	if err != nil {
		return err
	}

	transcript := ""
	if session.FullTranscript != nil {
		transcript = strings.TrimSpace(*session.FullTranscript)
	}
	if transcript == "" {
		// Not yet stitched; fall back to the chunk records
		transcript, err = s.fullTranscriptFromChunks(ctx, session)
		if err != nil {
			return err
		}
	}
	if transcript == "" {
		return errors.New(errors.ErrCodeValidation, "session has no transcript text to summarize")
	}

	raw, err := s.completer.Complete(ctx, summarySystemPrompt, summaryUserPrompt(session.Scenario, transcript))
	if err != nil {
		return err
	}

	var payload summaryPayload
	if err := completion.ExtractJSON(raw, &payload); err != nil {
		log.Printf("[WARN] Unparseable summary response for session %s: %.80q", sessionUUID, raw)
		return err
	}

	summary := &models.Summary{
		SessionID:   session.ID,
		Text:        payload.Summary,
		KeyPoints:   payload.KeyPoints,
		FollowUps:   payload.FollowUps,
		Risk:        normalizeRisk(payload.Risk),
		SourceModel: s.completer.Model(),
	}
	if err := s.repository.UpsertSummary(ctx, summary); err != nil {
		return errors.DatabaseError("upsert summary", err)
	}

	log.Printf("[INFO] Generated summary for session %s (%d key point(s))", sessionUUID, len(payload.KeyPoints))
	return nil
}

// GetSummary returns the session's summary if one has been generated.
func (s *Service) GetSummary(ctx context.Context, ownerID, sessionUUID string) (*models.Summary, error) {
	session, err := s.sessions.GetSessionByUUID(ctx, ownerID, sessionUUID)
	if err != nil {
		return nil, err
	}
	return s.repository.GetSummaryBySession(ctx, session.ID)
}

// UpdateSummary replaces the summary text with an owner-provided
// edit. Key points, follow-ups and risk from the generated summary are
// kept; only the prose changes.
func (s *Service) UpdateSummary(ctx context.Context, ownerID, sessionUUID, text string) (*models.Summary, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errors.ValidationError("text", "summary text must not be empty")
	}

	session, err := s.sessions.GetSessionByUUID(ctx, ownerID, sessionUUID)
	if err != nil {
		return nil, err
	}

	summary, err := s.repository.GetSummaryBySession(ctx, session.ID)
	if err != nil {
		return nil, err
	}

	summary.Text = text
	if err := s.repository.UpsertSummary(ctx, summary); err != nil {
		return nil, errors.DatabaseError("upsert summary", err)
	}
	return summary, nil
}

// DeleteSummary removes the session's summary.
func (s *Service) DeleteSummary(ctx context.Context, ownerID, sessionUUID string) error {
	session, err := s.sessions.GetSessionByUUID(ctx, ownerID, sessionUUID)
	if err != nil {
		return err
	}
	return s.repository.DeleteSummaryBySession(ctx, session.ID)
}

// recentTranscript joins the non-empty chunk texts captured inside the
// suggestion window, in chunk order.
func (s *Service) recentTranscript(ctx context.Context, session *models.Session) (string, error) {
	records, err := s.chunks.ListBySessionOrdered(ctx, session.ID)
	if err != nil {
		return "", errors.DatabaseError("list chunks", err)
	}

	cutoff := time.Now().Add(-s.window)
	parts := make([]string, 0, len(records))
	for _, c := range records {
		if c.CapturedAt.Before(cutoff) {
			continue
		}
		if text := strings.TrimSpace(c.Text); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, " "), nil
}

func (s *Service) fullTranscriptFromChunks(ctx context.Context, session *models.Session) (string, error) {
	records, err := s.chunks.ListBySessionOrdered(ctx, session.ID)
	if err != nil {
		return "", errors.DatabaseError("list chunks", err)
	}

	parts := make([]string, 0, len(records))
	for _, c := range records {
		if text := strings.TrimSpace(c.Text); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, " "), nil
}

func normalizeRisk(risk string) string {
	switch strings.ToLower(strings.TrimSpace(risk)) {
	case "low", "medium", "high":
		return strings.ToLower(strings.TrimSpace(risk))
	default:
		return "low"
	}
}
