package ingestion_engine

import (
	"context"
	"log/slog"

	"github.com/markdave123-py/raget/internal/models"
)

// IngestFunc embeds and stores one batch of chunks. Failure applies to the
// whole batch; the ingestor does not retry.
type IngestFunc func(ctx context.Context, batch []models.Document) error

// ProcessInBatches partitions chunks into contiguous batches of batchSize
// (the last may be shorter) and invokes ingest once per batch, in order.
// A failed batch is logged with its index and does not stop later batches;
// at-most-once semantics per run. Returns the chunks that ingested
// successfully plus the number of failed batches.
func ProcessInBatches(ctx context.Context, chunks []models.Document, batchSize int, ingest IngestFunc, logger *slog.Logger) ([]models.Document, int) {
	if batchSize <= 0 {
		batchSize = 1
	}

	logger.Info("processing chunks in batches", "total", len(chunks), "batch_size", batchSize)

	var (
		ingested []models.Document
		failed   int
	)
	for i := 0; i < len(chunks); i += batchSize {
		end := i + batchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		batch := chunks[i:end]

		if err := ingest(ctx, batch); err != nil {
			logger.Error("failed to ingest batch", "batch", i/batchSize, "size", len(batch), "err", err)
			failed++
			continue
		}
		ingested = append(ingested, batch...)
		logger.Info("ingested batch", "batch", i/batchSize, "size", len(batch))
	}
	return ingested, failed
}
