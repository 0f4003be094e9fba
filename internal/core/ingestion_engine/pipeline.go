// Package ingestion_engine implements the incremental populate pipeline:
// load PDFs page by page, split into overlapping token-bounded chunks,
// assign stable chunk ids, dedup against the sidecar ledger, filter by
// token window, ingest in batches and append the persisted chunks back to
// the sidecar. Stages run in strict sequence with a single writer on the
// sidecar file.
package ingestion_engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/markdave123-py/raget/internal/config"
	"github.com/markdave123-py/raget/internal/models"
)

// LoaderFunc produces the page documents for one run.
type LoaderFunc func(dataDir string, logger *slog.Logger) []models.Document

// Pipeline ties the populate stages together. By default every stage
// failure is absorbed: logged, degraded to an empty or best-effort result,
// never propagated. Params.FailFast flips that policy for callers that
// would rather crash than mask data loss.
type Pipeline struct {
	params *config.Params
	tok    TokenCounter
	ingest IngestFunc
	logger *slog.Logger

	// Loader is swappable for tests and alternate corpora.
	Loader LoaderFunc
}

func NewPipeline(params *config.Params, tok TokenCounter, ingest IngestFunc, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		params: params,
		tok:    tok,
		ingest: ingest,
		logger: logger,
		Loader: LoadDocs,
	}
}

// PopulateStats reports what one run did at each stage.
type PopulateStats struct {
	PagesLoaded   int `json:"pages_loaded"`
	ChunksSplit   int `json:"chunks_split"`
	NewChunks     int `json:"new_chunks"`
	Filtered      int `json:"filtered"`
	Ingested      int `json:"ingested"`
	FailedBatches int `json:"failed_batches"`
}

// Populate runs the full stage-01 sequence once. The returned error is
// non-nil only under FailFast; otherwise the stats tell the story.
func (p *Pipeline) Populate(ctx context.Context) (*PopulateStats, error) {
	stats := &PopulateStats{}

	docs := p.Loader(p.params.DataDir, p.logger)
	stats.PagesLoaded = len(docs)

	chunks, err := SplitDocs(docs, p.params.ChunkSize, p.params.ChunkOverlap, p.tok, p.logger)
	if err != nil {
		if p.params.FailFast {
			return stats, fmt.Errorf("split: %w", err)
		}
		p.logger.Error("splitting failed; nothing to ingest this run", "err", err)
		chunks = nil
	}
	stats.ChunksSplit = len(chunks)

	chunks = AssignChunkIDs(chunks, p.params.DataDir, p.logger)

	seen, err := LoadLedger(p.params.ChunksFile, p.logger)
	if err != nil {
		if p.params.FailFast {
			return stats, fmt.Errorf("load ledger: %w", err)
		}
		p.logger.Error("ledger load failed; continuing with partial ledger", "err", err)
	}

	fresh := ExcludeSeen(chunks, seen, p.logger)
	stats.NewChunks = len(fresh)

	fresh = FilterByTokenWindow(fresh, p.params.LowerTokenLimit, p.params.UpperTokenLimit, p.tok, p.logger)
	stats.Filtered = len(fresh)

	ingested, failed := ProcessInBatches(ctx, fresh, p.params.IngestBatchSize, p.ingest, p.logger)
	stats.Ingested = len(ingested)
	stats.FailedBatches = failed

	if err := AppendRecords(p.params.ChunksFile, ingested); err != nil {
		if p.params.FailFast {
			return stats, fmt.Errorf("persist metadata: %w", err)
		}
		p.logger.Error("saving chunk metadata failed; ingested chunks will re-ingest next run", "err", err)
	}

	p.logger.Info("populate run complete",
		"pages", stats.PagesLoaded, "chunks", stats.ChunksSplit,
		"new", stats.NewChunks, "ingested", stats.Ingested,
		"failed_batches", stats.FailedBatches)
	return stats, nil
}
