package insights

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/MelanieChenMC/meliora/internal/models"
	"github.com/MelanieChenMC/meliora/internal/services/chunks"
	"github.com/MelanieChenMC/meliora/internal/services/sessions"
	"github.com/MelanieChenMC/meliora/pkg/errors"
)

// stubCompleter returns a canned response and records prompts.
type stubCompleter struct {
	response string
	err      error
	systems  []string
	users    []string
}

func (s *stubCompleter) Complete(ctx context.Context, system, user string) (string, error) {
	s.systems = append(s.systems, system)
	s.users = append(s.users, user)
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func (s *stubCompleter) Model() string { return "stub-model" }

type fixture struct {
	db        *gorm.DB
	session   *models.Session
	completer *stubCompleter
	service   *Service
}

func setup(t *testing.T) *fixture {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Session{}, &models.Chunk{}, &models.Suggestion{}, &models.Summary{}))

	session := &models.Session{
		UUID:     "sess-ins",
		OwnerID:  "user-1",
		Scenario: models.ScenarioConsultation,
		Status:   models.SessionStatusActive,
	}
	require.NoError(t, db.Create(session).Error)

	completer := &stubCompleter{}
	service := NewService(NewRepository(db), sessions.NewRepository(db), chunks.NewRepository(db), completer, 5*time.Minute)

	return &fixture{db: db, session: session, completer: completer, service: service}
}

func (f *fixture) addChunk(t *testing.T, index int, text string, capturedAt time.Time) {
	require.NoError(t, f.db.Create(&models.Chunk{
		SessionID:  f.session.ID,
		ChunkIndex: index,
		Text:       text,
		CapturedAt: capturedAt,
	}).Error)
}

func TestGenerateSuggestions(t *testing.T) {
	f := setup(t)
	now := time.Now()
	f.addChunk(t, 0, "I have been having trouble sleeping", now.Add(-time.Minute))
	f.addChunk(t, 1, "and the headaches are getting worse", now.Add(-30*time.Second))

	f.completer.response = "```json\n{\"topics\": [\"sleep\", \"headaches\"], \"concerns\": [\"worsening symptoms\"], \"action_items\": [\"schedule follow-up\"], \"risk\": \"Medium\"}\n```"

	suggestion, err := f.service.GenerateSuggestions(context.Background(), "user-1", f.session.UUID)
	require.NoError(t, err)

	assert.Equal(t, []string{"sleep", "headaches"}, suggestion.Topics)
	assert.Equal(t, []string{"worsening symptoms"}, suggestion.Concerns)
	assert.Equal(t, "medium", suggestion.Risk)
	assert.Equal(t, "stub-model", suggestion.SourceModel)
	assert.False(t, suggestion.Acknowledged)

	// The prompt carries the recent transcript text
	require.Len(t, f.completer.users, 1)
	assert.Contains(t, f.completer.users[0], "trouble sleeping")
}

func TestGenerateSuggestions_WindowExcludesOldChunks(t *testing.T) {
	f := setup(t)
	now := time.Now()
	f.addChunk(t, 0, "ancient history", now.Add(-time.Hour))
	f.addChunk(t, 1, "fresh remark", now.Add(-time.Minute))

	f.completer.response = `{"topics": [], "concerns": [], "action_items": [], "risk": "low"}`

	_, err := f.service.GenerateSuggestions(context.Background(), "user-1", f.session.UUID)
	require.NoError(t, err)

	assert.Contains(t, f.completer.users[0], "fresh remark")
	assert.NotContains(t, f.completer.users[0], "ancient history")
}

func TestGenerateSuggestions_NoTranscript(t *testing.T) {
	f := setup(t)

	_, err := f.service.GenerateSuggestions(context.Background(), "user-1", f.session.UUID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeValidation))
	assert.Empty(t, f.completer.users)
}

func TestGenerateSuggestions_UnparseableResponse(t *testing.T) {
	f := setup(t)
	f.addChunk(t, 0, "some recent words", time.Now())
	f.completer.response = "sorry, no structured output today"

	_, err := f.service.GenerateSuggestions(context.Background(), "user-1", f.session.UUID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeUpstreamFormat))

	// Nothing persisted on a failed parse
	suggestions, listErr := f.service.ListSuggestions(context.Background(), "user-1", f.session.UUID)
	require.NoError(t, listErr)
	assert.Empty(t, suggestions)
}

func TestAcknowledgeSuggestion(t *testing.T) {
	f := setup(t)
	f.addChunk(t, 0, "recent words", time.Now())
	f.completer.response = `{"topics": ["a"], "concerns": [], "action_items": [], "risk": "low"}`

	created, err := f.service.GenerateSuggestions(context.Background(), "user-1", f.session.UUID)
	require.NoError(t, err)

	acked, err := f.service.AcknowledgeSuggestion(context.Background(), "user-1", f.session.UUID, created.ID)
	require.NoError(t, err)
	assert.True(t, acked.Acknowledged)

	// Acknowledging again is a no-op
	again, err := f.service.AcknowledgeSuggestion(context.Background(), "user-1", f.session.UUID, created.ID)
	require.NoError(t, err)
	assert.True(t, again.Acknowledged)

	_, err = f.service.AcknowledgeSuggestion(context.Background(), "user-1", f.session.UUID, 9999)
	assert.True(t, errors.Is(err, errors.ErrCodeNotFound))
}

func TestGenerateSummary_UsesStitchedTranscript(t *testing.T) {
	f := setup(t)
	transcript := "Hi there how are you"
	f.session.FullTranscript = &transcript
	require.NoError(t, f.db.Save(f.session).Error)

	f.completer.response = `{"summary": "A brief greeting exchange.", "key_points": ["greeting"], "follow_ups": [], "risk": "low"}`

	require.NoError(t, f.service.GenerateSummary(context.Background(), "user-1", f.session.UUID))

	summary, err := f.service.GetSummary(context.Background(), "user-1", f.session.UUID)
	require.NoError(t, err)
	assert.Equal(t, "A brief greeting exchange.", summary.Text)
	assert.Equal(t, []string{"greeting"}, summary.KeyPoints)
	assert.Contains(t, f.completer.users[0], transcript)
}

func TestGenerateSummary_FallsBackToChunks(t *testing.T) {
	f := setup(t)
	f.addChunk(t, 0, "first part", time.Now().Add(-2*time.Hour))
	f.addChunk(t, 1, "second part", time.Now().Add(-time.Hour))

	f.completer.response = `{"summary": "Two parts.", "key_points": [], "follow_ups": [], "risk": "low"}`

	require.NoError(t, f.service.GenerateSummary(context.Background(), "user-1", f.session.UUID))

	// The fallback uses every chunk regardless of the suggestion window
	assert.Contains(t, f.completer.users[0], "first part second part")
}

func TestGenerateSummary_Regenerate(t *testing.T) {
	f := setup(t)
	transcript := "some conversation"
	f.session.FullTranscript = &transcript
	require.NoError(t, f.db.Save(f.session).Error)

	f.completer.response = `{"summary": "First take.", "key_points": [], "follow_ups": [], "risk": "low"}`
	require.NoError(t, f.service.GenerateSummary(context.Background(), "user-1", f.session.UUID))

	f.completer.response = `{"summary": "Second take.", "key_points": [], "follow_ups": [], "risk": "low"}`
	require.NoError(t, f.service.GenerateSummary(context.Background(), "user-1", f.session.UUID))

	summary, err := f.service.GetSummary(context.Background(), "user-1", f.session.UUID)
	require.NoError(t, err)
	assert.Equal(t, "Second take.", summary.Text)

	var count int64
	require.NoError(t, f.db.Model(&models.Summary{}).Where("session_id = ?", f.session.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestDeleteSummary(t *testing.T) {
	f := setup(t)
	transcript := "some conversation"
	f.session.FullTranscript = &transcript
	require.NoError(t, f.db.Save(f.session).Error)

	f.completer.response = `{"summary": "take", "key_points": [], "follow_ups": [], "risk": "low"}`
	require.NoError(t, f.service.GenerateSummary(context.Background(), "user-1", f.session.UUID))

	require.NoError(t, f.service.DeleteSummary(context.Background(), "user-1", f.session.UUID))

	_, err := f.service.GetSummary(context.Background(), "user-1", f.session.UUID)
	assert.True(t, errors.Is(err, errors.ErrCodeNotFound))

	err = f.service.DeleteSummary(context.Background(), "user-1", f.session.UUID)
	assert.True(t, errors.Is(err, errors.ErrCodeNotFound))
}

func TestUpdateSummary(t *testing.T) {
	f := setup(t)
	transcript := "some conversation"
	f.session.FullTranscript = &transcript
	require.NoError(t, f.db.Save(f.session).Error)

	f.completer.response = `{"summary": "Generated text.", "key_points": ["point"], "follow_ups": [], "risk": "low"}`
	require.NoError(t, f.service.GenerateSummary(context.Background(), "user-1", f.session.UUID))

	updated, err := f.service.UpdateSummary(context.Background(), "user-1", f.session.UUID, "  Edited by hand.  ")
	require.NoError(t, err)
	assert.Equal(t, "Edited by hand.", updated.Text)
	// Generated metadata survives a text edit
	assert.Equal(t, []string{"point"}, updated.KeyPoints)

	summary, err := f.service.GetSummary(context.Background(), "user-1", f.session.UUID)
	require.NoError(t, err)
	assert.Equal(t, "Edited by hand.", summary.Text)
}

func TestUpdateSummary_Validation(t *testing.T) {
	f := setup(t)

	_, err := f.service.UpdateSummary(context.Background(), "user-1", f.session.UUID, "   ")
	assert.True(t, errors.Is(err, errors.ErrCodeValidation))

	// No summary generated yet
	_, err = f.service.UpdateSummary(context.Background(), "user-1", f.session.UUID, "text")
	assert.True(t, errors.Is(err, errors.ErrCodeNotFound))
}

func TestInsights_OtherOwnerLooksMissing(t *testing.T) {
	f := setup(t)

	_, err := f.service.ListSuggestions(context.Background(), "user-2", f.session.UUID)
	assert.True(t, errors.Is(err, errors.ErrCodeNotFound))

	_, err = f.service.GetSummary(context.Background(), "user-2", f.session.UUID)
	assert.True(t, errors.Is(err, errors.ErrCodeNotFound))
}
