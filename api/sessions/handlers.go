package sessions

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MelanieChenMC/meliora/api/types"
	"github.com/MelanieChenMC/meliora/internal/blobstore"
	"github.com/MelanieChenMC/meliora/internal/models"
	chunksvc "github.com/MelanieChenMC/meliora/internal/services/chunks"
	sessionsvc "github.com/MelanieChenMC/meliora/internal/services/sessions"
)

// CreateRequest is the body for starting a session.
type CreateRequest struct {
	Scenario            string `json:"scenario" binding:"required"`
	Title               string `json:"title"`
	ExpectedDurationMin *int   `json:"expected_duration_min"`
}

// UpdateRequest is the body for a partial session update.
type UpdateRequest struct {
	Title  *string `json:"title"`
	Status *string `json:"status"`
}

// Create starts a new recording session
// @Summary Start a session
// @Description Create a new recording session owned by the caller
// @Tags sessions
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body CreateRequest true "Session parameters"
// @Success 201 {object} types.SessionResponse
// @Failure 400 {object} types.ErrorResponse
// @Router /api/v1/sessions [post]
func Create(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateRequest
		if !types.BindJSONOrError(c, &req) {
			return
		}

		session, err := deps.SessionService.CreateSession(c.Request.Context(), types.OwnerID(c), sessionsvc.CreateParams{
			Scenario:            models.ScenarioType(req.Scenario),
			Title:               req.Title,
			ExpectedDurationMin: req.ExpectedDurationMin,
		})
		if err != nil {
			types.SendError(c, err)
			return
		}

		types.SendCreated(c, types.NewSessionResponse(session))
	}
}

// List returns the caller's sessions
// @Summary List sessions
// @Tags sessions
// @Security BearerAuth
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(20)
// @Success 200 {object} types.SessionsResponse
// @Router /api/v1/sessions [get]
func List(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		page := types.QueryInt(c, "page", 1)
		limit := types.QueryInt(c, "limit", 20)

		sessions, total, err := deps.SessionService.ListSessions(c.Request.Context(), types.OwnerID(c), page, limit)
		if err != nil {
			log.Printf("[ERROR] Listing sessions: %v", err)
			types.SendError(c, err)
			return
		}

		out := make([]types.SessionResponse, len(sessions))
		for i := range sessions {
			out[i] = types.NewSessionResponse(&sessions[i])
		}
		types.SendSuccess(c, types.SessionsResponse{
			Sessions: out,
			Count:    len(out),
			Total:    total,
			Page:     page,
		})
	}
}

// GetByID returns one session
// @Summary Get a session
// @Tags sessions
// @Security BearerAuth
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} types.SessionResponse
// @Failure 404 {object} types.ErrorResponse
// @Router /api/v1/sessions/{id} [get]
func GetByID(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, err := deps.SessionService.GetSession(c.Request.Context(), types.OwnerID(c), c.Param("id"))
		if err != nil {
			types.SendError(c, err)
			return
		}
		types.SendSuccess(c, types.NewSessionResponse(session))
	}
}

// Update applies a partial update to a session
// @Summary Update a session
// @Tags sessions
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body UpdateRequest true "Fields to update"
// @Success 200 {object} types.SessionResponse
// @Failure 404 {object} types.ErrorResponse
// @Router /api/v1/sessions/{id} [patch]
func Update(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UpdateRequest
		if !types.BindJSONOrError(c, &req) {
			return
		}

		params := sessionsvc.UpdateParams{Title: req.Title}
		if req.Status != nil {
			status := models.SessionStatus(*req.Status)
			params.Status = &status
		}

		session, err := deps.SessionService.UpdateSession(c.Request.Context(), types.OwnerID(c), c.Param("id"), params)
		if err != nil {
			types.SendError(c, err)
			return
		}
		types.SendSuccess(c, types.NewSessionResponse(session))
	}
}

// End marks a session completed
// @Summary End a session
// @Description Mark the session completed and stamp its end time
// @Tags sessions
// @Security BearerAuth
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} types.SessionResponse
// @Failure 404 {object} types.ErrorResponse
// @Router /api/v1/sessions/{id}/end [post]
func End(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, err := deps.SessionService.EndSession(c.Request.Context(), types.OwnerID(c), c.Param("id"))
		if err != nil {
			types.SendError(c, err)
			return
		}
		types.SendSuccess(c, types.NewSessionResponse(session))
	}
}

// Delete removes a session and its chunks, suggestions and summary
// @Summary Delete a session
// @Tags sessions
// @Security BearerAuth
// @Param id path string true "Session ID"
// @Success 204
// @Failure 404 {object} types.ErrorResponse
// @Router /api/v1/sessions/{id} [delete]
func Delete(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		ownerID := types.OwnerID(c)
		uuid := c.Param("id")

		session, err := deps.SessionService.GetSession(ctx, ownerID, uuid)
		if err != nil {
			types.SendError(c, err)
			return
		}

		// Collect blob keys before the records cascade away
		keys := []string{chunksvc.ArtifactObjectKey(session.UUID)}
		if deps.ChunkRepository != nil {
			recorded, err := deps.ChunkRepository.ListBySessionOrdered(ctx, session.ID)
			if err != nil {
				log.Printf("[WARN] Failed to list chunks for blob cleanup of session %s: %v", session.UUID, err)
			}
			for _, chunk := range recorded {
				if chunk.ObjectKey != nil {
					keys = append(keys, *chunk.ObjectKey)
				}
			}
		}

		if err := deps.SessionService.DeleteSession(ctx, ownerID, uuid); err != nil {
			types.SendError(c, err)
			return
		}

		// Blob deletion is best effort: the records are already gone and
		// orphaned objects only cost storage
		if deps.BlobStore != nil {
			go func(store blobstore.Store, keys []string) {
				for _, key := range keys {
					if err := store.Delete(context.Background(), key); err != nil {
						log.Printf("[WARN] Failed to delete blob %s: %v", key, err)
					}
				}
			}(deps.BlobStore, keys)
		}

		c.Status(http.StatusNoContent)
	}
}
