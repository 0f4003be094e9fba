package services

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/markdave123-py/raget/internal/config"
	"github.com/markdave123-py/raget/internal/core"
	"github.com/markdave123-py/raget/internal/core/ingestion_engine"
	"github.com/markdave123-py/raget/internal/models"
)

// PopulateService owns the stage-01 pipeline and supplies its ingest
// function: embed each batch with the configured provider and insert the
// rows into Postgres. Runs are serialized through a single worker so the
// sidecar file always has exactly one writer.
type PopulateService struct {
	db       core.DbClient
	embedder core.EmbeddingProvider
	tok      ingestion_engine.TokenCounter
	pipeline *ingestion_engine.Pipeline
	jobs     chan struct{}
	logger   *slog.Logger
}

func NewPopulateService(db core.DbClient, embedder core.EmbeddingProvider, params *config.Params, tok ingestion_engine.TokenCounter, logger *slog.Logger) *PopulateService {
	s := &PopulateService{
		db:       db,
		embedder: embedder,
		tok:      tok,
		jobs:     make(chan struct{}, 1),
		logger:   logger,
	}
	s.pipeline = ingestion_engine.NewPipeline(params, tok, s.ingestBatch, logger)
	return s
}

// Run executes one populate run synchronously.
func (s *PopulateService) Run(ctx context.Context) (*ingestion_engine.PopulateStats, error) {
	return s.pipeline.Populate(ctx)
}

// Start launches the single worker that drains queued run requests.
func (s *PopulateService) Start(ctx context.Context) {
	go func() {
		for {
			select {
			case <-ctx.Done():
				s.logger.Info("populate worker shutting down")
				return
			case <-s.jobs:
				runCtx, cancel := context.WithTimeout(ctx, 30*time.Minute)
				if _, err := s.Run(runCtx); err != nil {
					s.logger.Error("populate run failed", "err", err)
				}
				cancel()
			}
		}
	}()
}

// Trigger requests a populate run. If one is already queued the request
// coalesces with it; the queued run will pick up the new files anyway.
func (s *PopulateService) Trigger() {
	select {
	case s.jobs <- struct{}{}:
	default:
	}
}

// ingestBatch is the pipeline's IngestFunc: embed the batch in one request
// and write the rows in one transaction. Any error fails the whole batch;
// the pipeline logs it and moves on to the next.
func (s *PopulateService) ingestBatch(ctx context.Context, batch []models.Document) error {
	texts := make([]string, len(batch))
	for i, ch := range batch {
		texts[i] = ch.Content
	}

	vecs, err := s.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return err
	}

	rows := make([]models.DocumentChunk, len(batch))
	for i, ch := range batch {
		tokens, err := s.tok.Count(strings.TrimSpace(ch.Content))
		if err != nil {
			tokens = 0
		}
		rows[i] = models.DocumentChunk{
			ID:         uuid.NewString(),
			ChunkID:    ch.StringMeta(ingestion_engine.MetaChunkID),
			Source:     ch.StringMeta(ingestion_engine.MetaSource),
			Page:       ch.IntMeta(ingestion_engine.MetaPage),
			Content:    ch.Content,
			Embedding:  vecs[i],
			TokenCount: tokens,
			CreatedAt:  time.Now(),
		}
	}
	return s.db.InsertChunks(ctx, rows)
}
