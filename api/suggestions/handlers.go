package suggestions

import (
	"log"

	"github.com/gin-gonic/gin"

	"github.com/MelanieChenMC/meliora/api/types"
)

// List returns the session's suggestions, newest first
// @Summary List suggestions
// @Tags suggestions
// @Security BearerAuth
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {array} types.SuggestionResponse
// @Failure 404 {object} types.ErrorResponse
// @Router /api/v1/sessions/{id}/suggestions [get]
func List(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		suggestions, err := deps.InsightService.ListSuggestions(c.Request.Context(), types.OwnerID(c), c.Param("id"))
		if err != nil {
			types.SendError(c, err)
			return
		}

		out := make([]types.SuggestionResponse, len(suggestions))
		for i := range suggestions {
			out[i] = types.NewSuggestionResponse(&suggestions[i])
		}
		types.SendSuccess(c, out)
	}
}

// Generate analyzes the recent transcript window
// @Summary Generate suggestions
// @Description Analyze the most recent transcript window and persist one structured suggestion
// @Tags suggestions
// @Security BearerAuth
// @Produce json
// @Param id path string true "Session ID"
// @Success 201 {object} types.SuggestionResponse
// @Failure 404 {object} types.ErrorResponse
// @Failure 502 {object} types.ErrorResponse "Unparseable model output"
// @Router /api/v1/sessions/{id}/suggestions [post]
func Generate(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		suggestion, err := deps.InsightService.GenerateSuggestions(c.Request.Context(), types.OwnerID(c), c.Param("id"))
		if err != nil {
			log.Printf("[WARN] Suggestion generation for session %s failed: %v", c.Param("id"), err)
			types.SendError(c, err)
			return
		}
		types.SendCreated(c, types.NewSuggestionResponse(suggestion))
	}
}

// Acknowledge marks one suggestion as seen
// @Summary Acknowledge a suggestion
// @Tags suggestions
// @Security BearerAuth
// @Produce json
// @Param id path string true "Session ID"
// @Param suggestionId path int true "Suggestion ID"
// @Success 200 {object} types.SuggestionResponse
// @Failure 404 {object} types.ErrorResponse
// @Router /api/v1/sessions/{id}/suggestions/{suggestionId}/ack [post]
func Acknowledge(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		suggestionID, ok := types.ParseUintParam(c, "suggestionId")
		if !ok {
			return
		}

		suggestion, err := deps.InsightService.AcknowledgeSuggestion(c.Request.Context(), types.OwnerID(c), c.Param("id"), suggestionID)
		if err != nil {
			types.SendError(c, err)
			return
		}
		types.SendSuccess(c, types.NewSuggestionResponse(suggestion))
	}
}
