package suggestions

import (
	"github.com/gin-gonic/gin"

	"github.com/MelanieChenMC/meliora/api/types"
)

// RegisterRoutes registers suggestion routes under /sessions/:id
func RegisterRoutes(router *gin.RouterGroup, deps *types.Dependencies) {
	// GET /api/v1/sessions/:id/suggestions - List suggestions
	router.GET("/:id/suggestions", List(deps))

	// POST /api/v1/sessions/:id/suggestions - Generate from the recent window
	router.POST("/:id/suggestions", Generate(deps))

	// POST /api/v1/sessions/:id/suggestions/:suggestionId/ack - Acknowledge
	router.POST("/:id/suggestions/:suggestionId/ack", Acknowledge(deps))
}
