package chunks

import (
	"github.com/gin-gonic/gin"

	"github.com/MelanieChenMC/meliora/api/types"
)

// RegisterRoutes registers chunk routes under /sessions/:id
func RegisterRoutes(router *gin.RouterGroup, deps *types.Dependencies) {
	// POST /api/v1/sessions/:id/chunks - Ingest one audio chunk
	router.POST("/:id/chunks", Upload(deps))

	// GET /api/v1/sessions/:id/chunks - Ordered transcript chunks
	router.GET("/:id/chunks", List(deps))
}
