package api

import (
	"fmt"
	"sync"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	authapi "github.com/MelanieChenMC/meliora/api/auth"
	chunksapi "github.com/MelanieChenMC/meliora/api/chunks"
	"github.com/MelanieChenMC/meliora/api/health"
	sessionsapi "github.com/MelanieChenMC/meliora/api/sessions"
	"github.com/MelanieChenMC/meliora/api/stitch"
	suggestionsapi "github.com/MelanieChenMC/meliora/api/suggestions"
	summariesapi "github.com/MelanieChenMC/meliora/api/summaries"
	"github.com/MelanieChenMC/meliora/api/types"
	"github.com/MelanieChenMC/meliora/api/version"
	_ "github.com/MelanieChenMC/meliora/docs/swagger"
	"github.com/MelanieChenMC/meliora/internal/blobstore"
	authService "github.com/MelanieChenMC/meliora/internal/services/auth"
	chunkService "github.com/MelanieChenMC/meliora/internal/services/chunks"
	"github.com/MelanieChenMC/meliora/internal/services/completion"
	"github.com/MelanieChenMC/meliora/internal/services/hallucination"
	"github.com/MelanieChenMC/meliora/internal/services/insights"
	sessionService "github.com/MelanieChenMC/meliora/internal/services/sessions"
	"github.com/MelanieChenMC/meliora/internal/services/stitcher"
	"github.com/MelanieChenMC/meliora/internal/services/transcriber"
	"github.com/MelanieChenMC/meliora/pkg/config"
)

// RegisterRoutes registers all API routes
func RegisterRoutes(engine *gin.Engine, deps *types.Dependencies, rateLimiters *sync.Map, cleanupStop chan struct{}, cleanupInitialized *sync.Once) error {
	// Register public routes (no rate limiting, no auth)
	health.RegisterRoutes(engine, deps)
	version.RegisterRoutes(engine, deps)

	// Register Swagger documentation route
	engine.GET("/docs", func(c *gin.Context) {
		c.Redirect(301, "/docs/index.html")
	})
	docsGroup := engine.Group("/docs")
	docsGroup.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	engine.NoRoute(NotFoundHandler())

	cfg, err := config.GetConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}

	if deps == nil {
		deps = &types.Dependencies{}
	}

	if err := initializeServices(deps, cfg); err != nil {
		return err
	}

	// Auth applies to every v1 route
	authHandler, err := buildAuthHandler(cfg)
	if err != nil {
		return err
	}

	v1 := engine.Group("/api/v1")
	v1.Use(authHandler.AuthMiddleware())

	authapi.RegisterRoutes(v1, authHandler)

	// Session CRUD with general rate limiting (10 req/s, burst of 20)
	sessionGroup := v1.Group("/sessions")
	sessionGroup.Use(PerClientRateLimit(rateLimiters, cleanupStop, cleanupInitialized, 10, 20))
	sessionsapi.RegisterRoutes(sessionGroup, deps)

	// Chunk ingestion arrives every few seconds per active session, so
	// it gets the most generous limit (20 req/s, burst of 40)
	chunkGroup := v1.Group("/sessions")
	chunkGroup.Use(PerClientRateLimit(rateLimiters, cleanupStop, cleanupInitialized, 20, 40))
	chunksapi.RegisterRoutes(chunkGroup, deps)

	// Stitching is heavyweight (2 req/s, burst of 4)
	stitchGroup := v1.Group("/sessions")
	stitchGroup.Use(PerClientRateLimit(rateLimiters, cleanupStop, cleanupInitialized, 2, 4))
	stitch.RegisterRoutes(stitchGroup, deps)

	// Insight generation calls the completion backend (2 req/s, burst of 4)
	insightGroup := v1.Group("/sessions")
	insightGroup.Use(PerClientRateLimit(rateLimiters, cleanupStop, cleanupInitialized, 2, 4))
	suggestionsapi.RegisterRoutes(insightGroup, deps)
	summariesapi.RegisterRoutes(insightGroup, deps)

	return nil
}

// initializeServices fills in any dependency not injected by the
// caller (tests inject fakes; production wiring happens here).
func initializeServices(deps *types.Dependencies, cfg *config.Config) error {
	if deps.DB == nil || deps.DB.DB == nil {
		return fmt.Errorf("database is required")
	}

	if deps.BlobStore == nil {
		store, err := buildBlobStore(cfg)
		if err != nil {
			return err
		}
		deps.BlobStore = store
	}

	sessionRepo := sessionService.NewRepository(deps.DB.DB)
	chunkRepo := chunkService.NewRepository(deps.DB.DB)

	if deps.SessionService == nil {
		deps.SessionService = sessionService.NewService(sessionRepo)
	}
	if deps.ChunkRepository == nil {
		deps.ChunkRepository = chunkRepo
	}

	if deps.ChunkPipeline == nil {
		whisper := transcriber.NewClient(transcriber.Config{
			APIKey:            cfg.Whisper.APIKey,
			APIURL:            cfg.Whisper.APIURL,
			Model:             cfg.Whisper.Model,
			Language:          cfg.Whisper.Language,
			Temperature:       cfg.Whisper.Temperature,
			Timeout:           cfg.Whisper.Timeout,
			MaxFileSize:       cfg.Whisper.MaxFileSize,
			DefaultConfidence: cfg.Whisper.DefaultConfidence,
		})

		filter := hallucination.NewFilter(hallucination.Rules{
			ShortTextLimit: cfg.Hallucination.ShortTextLimit,
			RepeatPhrase:   cfg.Hallucination.RepeatPhrase,
			RepeatLimit:    cfg.Hallucination.RepeatLimit,
			FillerPhrases:  cfg.Hallucination.FillerPhrases,
			CaptionMarkers: cfg.Hallucination.CaptionMarkers,
			AdPhrases:      cfg.Hallucination.AdPhrases,
			PromoPhrases:   cfg.Hallucination.PromoPhrases,
		})

		deps.ChunkPipeline = chunkService.NewService(chunkRepo, deps.BlobStore, whisper, filter)
	}

	if deps.InsightService == nil {
		completer := completion.NewClient(completion.Config{
			APIKey:      cfg.AI.APIKey,
			APIURL:      cfg.AI.APIURL,
			Model:       cfg.AI.Model,
			Temperature: cfg.AI.Temperature,
			MaxTokens:   cfg.AI.MaxTokens,
			Timeout:     cfg.AI.Timeout,
		})
		deps.InsightService = insights.NewService(
			insights.NewRepository(deps.DB.DB),
			sessionRepo,
			chunkRepo,
			completer,
			cfg.Recording.SuggestionWindow,
		)
	}

	if deps.Stitcher == nil {
		deps.Stitcher = stitcher.NewService(sessionRepo, chunkRepo, deps.BlobStore, deps.InsightService, stitcher.Config{
			LargeSessionChunks: cfg.Stitch.LargeSessionChunks,
			BatchSize:          cfg.Stitch.BatchSize,
			SignedURLTTL:       cfg.Storage.SignedURLTTL,
			ChunkDuration:      cfg.Recording.ChunkDuration,
		})
	}

	return nil
}

func buildBlobStore(cfg *config.Config) (blobstore.Store, error) {
	switch cfg.Storage.Provider {
	case "supabase":
		return blobstore.NewSupabaseStore(cfg.Storage.SupabaseURL, cfg.Storage.SupabaseKey, cfg.Storage.Bucket)
	case "filesystem":
		return blobstore.NewFilesystemStore(cfg.Storage.LocalDir)
	default:
		return nil, fmt.Errorf("unknown storage provider %q", cfg.Storage.Provider)
	}
}

func buildAuthHandler(cfg *config.Config) (*authapi.Handler, error) {
	svc, err := authService.NewService(cfg.Auth.JWKSURL)
	if err != nil {
		if !cfg.Auth.DevAuthEnabled {
			return nil, fmt.Errorf("initializing auth service: %w", err)
		}
		// Dev mode tolerates an unreachable JWKS endpoint; the dev
		// token is the only credential that will validate
		svc = authService.NewOfflineService()
	}

	handler := authapi.NewHandler(svc)
	handler.SetDevAuth(cfg.Auth.DevAuthEnabled, cfg.Auth.DevAuthToken)
	return handler, nil
}
