package stitch

import (
	"context"
	"log"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/MelanieChenMC/meliora/api/types"
	"github.com/MelanieChenMC/meliora/pkg/config"
)

// Stitch reassembles the session's audio and returns a signed URL
// @Summary Stitch session audio
// @Description Concatenate every chunk blob into one continuous artifact and return a short-lived download URL. A cached artifact is reused unless force=true.
// @Tags stitch
// @Security BearerAuth
// @Produce json
// @Param id path string true "Session ID"
// @Param force query bool false "Force regeneration, bypassing the cached artifact"
// @Success 200 {object} types.StitchResponse
// @Failure 404 {object} types.ErrorResponse
// @Failure 422 {object} types.ErrorResponse "No stitchable chunks"
// @Router /api/v1/sessions/{id}/audio [post]
func Stitch(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		force := c.Query("force") == "true" || c.Query("force") == "1"

		// Stitching scales with session length and gets its own
		// deadline, far beyond any per-chunk timeout
		timeout := config.GetDuration("stitch.timeout")
		if timeout <= 0 {
			timeout = 5 * time.Minute
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()

		result, err := deps.Stitcher.Stitch(ctx, types.OwnerID(c), c.Param("id"), force)
		if err != nil {
			log.Printf("[ERROR] Stitching session %s: %v", c.Param("id"), err)
			types.SendError(c, err)
			return
		}

		types.SendSuccess(c, types.StitchResponse{
			URL:         result.SignedURL,
			ExpiresAt:   result.ExpiresAt,
			Cached:      result.Cached,
			ChunkCount:  result.ChunkCount,
			DurationSec: result.DurationSec,
		})
	}
}
