package types

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/MelanieChenMC/meliora/internal/models"
	"github.com/MelanieChenMC/meliora/pkg/errors"
)

func TestNewSessionResponse(t *testing.T) {
	transcript := "hello world"
	duration := 6.0
	session := &models.Session{
		UUID:             "abc-123",
		OwnerID:          "owner-1",
		Scenario:         models.ScenarioConsultation,
		Status:           models.SessionStatusActive,
		Title:            "Visit",
		ChunkCount:       2,
		FullTranscript:   &transcript,
		TotalDurationSec: &duration,
	}

	resp := NewSessionResponse(session)

	assert.Equal(t, "abc-123", resp.ID)
	assert.Equal(t, "consultation", resp.Scenario)
	assert.Equal(t, "active", resp.Status)
	assert.Equal(t, 2, resp.ChunkCount)
	assert.Equal(t, &transcript, resp.FullTranscript)
	assert.Equal(t, &duration, resp.TotalDurationSec)
}

func TestNewChunkResponse_HasAudio(t *testing.T) {
	key := "sessions/abc/chunks/0_1.webm"
	empty := ""

	tests := []struct {
		name      string
		objectKey *string
		want      bool
	}{
		{"with blob", &key, true},
		{"nil key", nil, false},
		{"empty key", &empty, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := NewChunkResponse(&models.Chunk{
				ChunkIndex: 0,
				CapturedAt: time.Now(),
				ObjectKey:  tt.objectKey,
			})
			assert.Equal(t, tt.want, resp.HasAudio)
		})
	}
}

func TestSendError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		err            error
		expectedStatus int
	}{
		{"not found", errors.NotFound("session", "abc"), http.StatusNotFound},
		{"validation", errors.ValidationError("scenario", "unknown"), http.StatusBadRequest},
		{"nothing to stitch", errors.NothingToStitch("abc"), http.StatusUnprocessableEntity},
		{"upstream format", errors.UpstreamFormatError(nil), http.StatusBadGateway},
		{"plain error", assert.AnError, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			SendError(c, tt.err)
			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}
