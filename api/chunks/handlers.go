package chunks

import (
	"io"
	"log"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/MelanieChenMC/meliora/api/types"
	chunksvc "github.com/MelanieChenMC/meliora/internal/services/chunks"
)

// Upload ingests one captured audio chunk
// @Summary Upload an audio chunk
// @Description Run one captured chunk through the transcription pipeline. The multipart form carries the audio file, its monotonic chunk index, and an optional capture timestamp.
// @Tags chunks
// @Security BearerAuth
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Session ID"
// @Param audio formData file true "Audio chunk"
// @Param chunk_index formData int true "Monotonic chunk index"
// @Param captured_at formData string false "RFC3339 capture timestamp"
// @Success 201 {object} types.ChunkResponse
// @Failure 400 {object} types.ErrorResponse
// @Failure 404 {object} types.ErrorResponse
// @Router /api/v1/sessions/{id}/chunks [post]
func Upload(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, err := deps.SessionService.GetSession(c.Request.Context(), types.OwnerID(c), c.Param("id"))
		if err != nil {
			types.SendError(c, err)
			return
		}

		fileHeader, err := c.FormFile("audio")
		if err != nil {
			types.SendBadRequest(c, "audio file is required")
			return
		}

		index, err := strconv.Atoi(c.PostForm("chunk_index"))
		if err != nil || index < 0 {
			types.SendBadRequest(c, "chunk_index must be a non-negative integer")
			return
		}

		capturedAt := time.Now().UTC()
		if raw := c.PostForm("captured_at"); raw != "" {
			parsed, err := time.Parse(time.RFC3339, raw)
			if err != nil {
				types.SendBadRequest(c, "captured_at must be RFC3339")
				return
			}
			capturedAt = parsed.UTC()
		}

		file, err := fileHeader.Open()
		if err != nil {
			types.SendBadRequest(c, "unreadable audio file")
			return
		}
		defer file.Close()

		audio, err := io.ReadAll(file)
		if err != nil {
			types.SendBadRequest(c, "unreadable audio file")
			return
		}

		mimeType := fileHeader.Header.Get("Content-Type")
		if mimeType == "" {
			mimeType = "audio/webm"
		}

		chunk, err := deps.ChunkPipeline.ProcessChunk(c.Request.Context(), session, chunksvc.ChunkInput{
			Index:      index,
			CapturedAt: capturedAt,
			Audio:      audio,
			MimeType:   mimeType,
		})
		if err != nil {
			log.Printf("[ERROR] Processing chunk %d for session %s: %v", index, session.UUID, err)
			types.SendError(c, err)
			return
		}

		types.SendCreated(c, types.NewChunkResponse(chunk))
	}
}

// List returns the session's chunks in stitch order
// @Summary List transcript chunks
// @Description Return every chunk of the session ordered by chunk index, then capture time
// @Tags chunks
// @Security BearerAuth
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} types.ChunksResponse
// @Failure 404 {object} types.ErrorResponse
// @Router /api/v1/sessions/{id}/chunks [get]
func List(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, err := deps.SessionService.GetSession(c.Request.Context(), types.OwnerID(c), c.Param("id"))
		if err != nil {
			types.SendError(c, err)
			return
		}

		records, err := deps.ChunkRepository.ListBySessionOrdered(c.Request.Context(), session.ID)
		if err != nil {
			log.Printf("[ERROR] Listing chunks for session %s: %v", session.UUID, err)
			types.SendError(c, err)
			return
		}

		out := make([]types.ChunkResponse, len(records))
		for i := range records {
			out[i] = types.NewChunkResponse(&records[i])
		}
		types.SendSuccess(c, types.ChunksResponse{Chunks: out, Count: len(out)})
	}
}
