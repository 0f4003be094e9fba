package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/markdave123-py/raget/internal/config"
	"github.com/markdave123-py/raget/internal/core"
	db "github.com/markdave123-py/raget/internal/core/database"
	"github.com/markdave123-py/raget/internal/core/ingestion_engine"
	"github.com/markdave123-py/raget/internal/core/llm"
	objectclient "github.com/markdave123-py/raget/internal/core/object-client"
	"github.com/markdave123-py/raget/internal/services"
)

// App holds every wired component of the service. NewApp connects the
// infrastructure (Postgres, optional S3, Gemini) and builds the populate
// and query services on top of it.
type App struct {
	DBClient     *db.DatabaseClient
	ObjectClient core.ObjectClient
	Populate     *services.PopulateService
	Query        *services.QueryService
	Server       *Server

	embedder *llm.GeminiEmbedder
	provider *llm.GeminiLLM
	logger   *slog.Logger
}

func NewApp(ctx context.Context, cfg *config.Config, params *config.Params, logger *slog.Logger) (*App, error) {
	appCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	dbClient, err := db.NewDatabaseClient(appCtx, cfg)
	if err != nil {
		return nil, fmt.Errorf("init database: %w", err)
	}
	logger.Info("database initialized and ready")

	objClient, err := objectclient.NewS3Client(appCtx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("init object client: %w", err)
	}

	embedder, err := llm.NewGeminiEmbedder(appCtx, cfg.AIAPIKey, cfg.EmbedModel)
	if err != nil {
		return nil, fmt.Errorf("init embedder: %w", err)
	}

	provider, err := llm.NewGeminiLLM(appCtx, cfg.AIAPIKey, cfg.GenModel)
	if err != nil {
		return nil, fmt.Errorf("init llm: %w", err)
	}

	tok := ingestion_engine.ApproxCounter{}
	populate := services.NewPopulateService(dbClient, embedder, params, tok, logger)
	query := services.NewQueryService(dbClient, embedder, provider, params.TopK, logger)

	a := &App{
		DBClient:     dbClient,
		Populate:     populate,
		Query:        query,
		embedder:     embedder,
		provider:     provider,
		logger:       logger,
	}
	if objClient != nil {
		a.ObjectClient = objClient
	}
	a.Server = NewServer(cfg, params, a, logger)
	return a, nil
}

func (a *App) Close() {
	if a.provider != nil {
		_ = a.provider.Close()
	}
	if a.embedder != nil {
		_ = a.embedder.Close()
	}
	if a.DBClient != nil {
		_ = a.DBClient.Close()
	}
}
