package stitch

import (
	"github.com/gin-gonic/gin"

	"github.com/MelanieChenMC/meliora/api/types"
)

// RegisterRoutes registers stitch routes under /sessions/:id
func RegisterRoutes(router *gin.RouterGroup, deps *types.Dependencies) {
	// POST /api/v1/sessions/:id/audio - Stitch chunks into one artifact
	router.POST("/:id/audio", Stitch(deps))
}
