package summaries

import (
	"github.com/gin-gonic/gin"

	"github.com/MelanieChenMC/meliora/api/types"
)

// RegisterRoutes registers summary routes under /sessions/:id
func RegisterRoutes(router *gin.RouterGroup, deps *types.Dependencies) {
	// GET /api/v1/sessions/:id/summary - Get the session summary
	router.GET("/:id/summary", Get(deps))

	// POST /api/v1/sessions/:id/summary - Generate or regenerate
	router.POST("/:id/summary", Generate(deps))

	// PUT /api/v1/sessions/:id/summary - Owner edit of the text
	router.PUT("/:id/summary", Update(deps))

	// DELETE /api/v1/sessions/:id/summary - Remove the summary
	router.DELETE("/:id/summary", Delete(deps))
}
