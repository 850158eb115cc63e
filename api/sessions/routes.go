package sessions

import (
	"github.com/gin-gonic/gin"

	"github.com/MelanieChenMC/meliora/api/types"
)

// RegisterRoutes registers session routes
func RegisterRoutes(router *gin.RouterGroup, deps *types.Dependencies) {
	// POST /api/v1/sessions - Start a new session
	router.POST("", Create(deps))

	// GET /api/v1/sessions - List the caller's sessions
	router.GET("", List(deps))

	// GET /api/v1/sessions/:id - Get one session
	router.GET("/:id", GetByID(deps))

	// PATCH /api/v1/sessions/:id - Update title/status
	router.PATCH("/:id", Update(deps))

	// POST /api/v1/sessions/:id/end - Mark completed
	router.POST("/:id/end", End(deps))

	// DELETE /api/v1/sessions/:id - Delete with cascade
	router.DELETE("/:id", Delete(deps))
}
