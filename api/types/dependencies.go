package types

import (
	"github.com/MelanieChenMC/meliora/internal/blobstore"
	"github.com/MelanieChenMC/meliora/internal/database"
	"github.com/MelanieChenMC/meliora/internal/services/chunks"
	"github.com/MelanieChenMC/meliora/internal/services/insights"
	"github.com/MelanieChenMC/meliora/internal/services/sessions"
	"github.com/MelanieChenMC/meliora/internal/services/stitcher"
)

// Dependencies holds all the dependencies needed by handlers
type Dependencies struct {
	DB              *database.DB
	BlobStore       blobstore.Store
	SessionService  sessions.SessionService
	ChunkRepository chunks.ChunkRepository
	ChunkPipeline   chunks.Pipeline
	Stitcher        *stitcher.Service
	InsightService  insights.InsightService
}
