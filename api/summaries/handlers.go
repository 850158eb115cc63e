package summaries

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MelanieChenMC/meliora/api/types"
)

// Get returns the session's summary
// @Summary Get the session summary
// @Tags summaries
// @Security BearerAuth
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} types.SummaryResponse
// @Failure 404 {object} types.ErrorResponse
// @Router /api/v1/sessions/{id}/summary [get]
func Get(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		summary, err := deps.InsightService.GetSummary(c.Request.Context(), types.OwnerID(c), c.Param("id"))
		if err != nil {
			types.SendError(c, err)
			return
		}
		types.SendSuccess(c, types.NewSummaryResponse(summary))
	}
}

// Generate creates or regenerates the session summary
// @Summary Generate the session summary
// @Description Summarize the full transcript. Regeneration overwrites the existing summary.
// @Tags summaries
// @Security BearerAuth
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} types.SummaryResponse
// @Failure 404 {object} types.ErrorResponse
// @Failure 502 {object} types.ErrorResponse "Unparseable model output"
// @Router /api/v1/sessions/{id}/summary [post]
func Generate(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		ownerID := types.OwnerID(c)
		sessionID := c.Param("id")

		if err := deps.InsightService.GenerateSummary(c.Request.Context(), ownerID, sessionID); err != nil {
			log.Printf("[WARN] Summary generation for session %s failed: %v", sessionID, err)
			types.SendError(c, err)
			return
		}

		summary, err := deps.InsightService.GetSummary(c.Request.Context(), ownerID, sessionID)
		if err != nil {
			types.SendError(c, err)
			return
		}
		types.SendSuccess(c, types.NewSummaryResponse(summary))
	}
}

// UpdateRequest is the body for an owner edit of the summary text.
type UpdateRequest struct {
	Text string `json:"text" binding:"required"`
}

// Update replaces the summary text with an owner edit
// @Summary Update the session summary text
// @Description Replace the summary prose with an edited version. Generated key points and follow-ups are kept.
// @Tags summaries
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body UpdateRequest true "Edited summary text"
// @Success 200 {object} types.SummaryResponse
// @Failure 404 {object} types.ErrorResponse
// @Router /api/v1/sessions/{id}/summary [put]
func Update(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UpdateRequest
		if !types.BindJSONOrError(c, &req) {
			return
		}

		summary, err := deps.InsightService.UpdateSummary(c.Request.Context(), types.OwnerID(c), c.Param("id"), req.Text)
		if err != nil {
			types.SendError(c, err)
			return
		}
		types.SendSuccess(c, types.NewSummaryResponse(summary))
	}
}

// Delete removes the session summary
// @Summary Delete the session summary
// @Tags summaries
// @Security BearerAuth
// @Param id path string true "Session ID"
// @Success 204
// @Failure 404 {object} types.ErrorResponse
// @Router /api/v1/sessions/{id}/summary [delete]
func Delete(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := deps.InsightService.DeleteSummary(c.Request.Context(), types.OwnerID(c), c.Param("id")); err != nil {
			types.SendError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
