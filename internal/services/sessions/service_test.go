package sessions

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/MelanieChenMC/meliora/internal/models"
	"github.com/MelanieChenMC/meliora/pkg/errors"
)

// Mock implementations for testing

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) CreateSession(ctx context.Context, session *models.Session) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockRepository) GetSessionByUUID(ctx context.Context, ownerID, uuid string) (*models.Session, error) {
	args := m.Called(ctx, ownerID, uuid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Session), args.Error(1)
}

func (m *MockRepository) ListSessionsByOwner(ctx context.Context, ownerID string, page, limit int) ([]models.Session, int64, error) {
	args := m.Called(ctx, ownerID, page, limit)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]models.Session), args.Get(1).(int64), args.Error(2)
}

func (m *MockRepository) UpdateSession(ctx context.Context, session *models.Session) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockRepository) UpdateStatus(ctx context.Context, ownerID, uuid string, status models.SessionStatus) (*models.Session, error) {
	args := m.Called(ctx, ownerID, uuid, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Session), args.Error(1)
}

func (m *MockRepository) DeleteSession(ctx context.Context, ownerID, uuid string) error {
	args := m.Called(ctx, ownerID, uuid)
	return args.Error(0)
}

func TestService_CreateSession(t *testing.T) {
	repo := new(MockRepository)
	repo.On("CreateSession", mock.Anything, mock.AnythingOfType("*models.Session")).Return(nil)

	service := NewService(repo)

	session, err := service.CreateSession(context.Background(), "user-1", CreateParams{
		Scenario: models.ScenarioInterview,
		Title:    "Candidate screen",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, session.UUID)
	assert.Equal(t, "user-1", session.OwnerID)
	assert.Equal(t, models.SessionStatusActive, session.Status)
	repo.AssertExpectations(t)
}

func TestService_CreateSession_RejectsUnknownScenario(t *testing.T) {
	service := NewService(new(MockRepository))

	_, err := service.CreateSession(context.Background(), "user-1", CreateParams{
		Scenario: models.ScenarioType("karaoke"),
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeValidation))
}

func TestService_ListSessions_ClampsPagination(t *testing.T) {
	repo := new(MockRepository)
	repo.On("ListSessionsByOwner", mock.Anything, "user-1", 1, DefaultPageLimit).
		Return([]models.Session{}, int64(0), nil).Once()
	repo.On("ListSessionsByOwner", mock.Anything, "user-1", 2, MaxPageLimit).
		Return([]models.Session{}, int64(0), nil).Once()

	service := NewService(repo)

	_, _, err := service.ListSessions(context.Background(), "user-1", 0, -5)
	require.NoError(t, err)
	_, _, err = service.ListSessions(context.Background(), "user-1", 2, 5000)
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestService_EndSession(t *testing.T) {
	repo := new(MockRepository)
	session := &models.Session{UUID: "sess-1", OwnerID: "user-1", Status: models.SessionStatusActive}
	repo.On("GetSessionByUUID", mock.Anything, "user-1", "sess-1").Return(session, nil)
	repo.On("UpdateSession", mock.Anything, session).Return(nil)

	service := NewService(repo)

	ended, err := service.EndSession(context.Background(), "user-1", "sess-1")
	require.NoError(t, err)
	assert.Equal(t, models.SessionStatusCompleted, ended.Status)
	require.NotNil(t, ended.EndedAt)
	repo.AssertExpectations(t)
}

func TestService_EndSession_AlreadyCompletedIsNoop(t *testing.T) {
	repo := new(MockRepository)
	session := &models.Session{UUID: "sess-1", OwnerID: "user-1", Status: models.SessionStatusCompleted}
	repo.On("GetSessionByUUID", mock.Anything, "user-1", "sess-1").Return(session, nil)

	service := NewService(repo)

	_, err := service.EndSession(context.Background(), "user-1", "sess-1")
	require.NoError(t, err)
	repo.AssertNotCalled(t, "UpdateSession", mock.Anything, mock.Anything)
}

func TestService_UpdateSession_RejectsUnknownStatus(t *testing.T) {
	repo := new(MockRepository)
	session := &models.Session{UUID: "sess-1", OwnerID: "user-1", Status: models.SessionStatusActive}
	repo.On("GetSessionByUUID", mock.Anything, "user-1", "sess-1").Return(session, nil)

	service := NewService(repo)

	bad := models.SessionStatus("archived")
	_, err := service.UpdateSession(context.Background(), "user-1", "sess-1", UpdateParams{Status: &bad})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeValidation))
}
