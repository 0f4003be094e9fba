package ingestion_engine

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/markdave123-py/raget/internal/config"
	"github.com/markdave123-py/raget/internal/models"
)

func fixedLoader(docs []models.Document) LoaderFunc {
	return func(string, *slog.Logger) []models.Document {
		return docs
	}
}

func testParams(t *testing.T) *config.Params {
	t.Helper()
	p := config.DefaultParams()
	p.DataDir = "data"
	p.ChunksFile = filepath.Join(t.TempDir(), "faiss", "chunks.jsonl")
	p.ChunkSize = 50
	p.ChunkOverlap = 5
	p.LowerTokenLimit = 1
	p.UpperTokenLimit = 1000
	p.IngestBatchSize = 2
	return p
}

func corpusPages() []models.Document {
	page := func(src string, n int) models.Document {
		return pageChunk(src, n, strings.Repeat("some words on the page\n", 4))
	}
	return []models.Document{
		page("data/a.pdf", 1),
		page("data/a.pdf", 2),
		page("data/b.pdf", 1),
	}
}

func TestPipeline_PopulateIsIdempotent(t *testing.T) {
	params := testParams(t)

	var ingestedIDs []string
	ingest := func(_ context.Context, batch []models.Document) error {
		for _, ch := range batch {
			ingestedIDs = append(ingestedIDs, ch.StringMeta(MetaChunkID))
		}
		return nil
	}

	p := NewPipeline(params, wordCounter{}, ingest, testLogger())
	p.Loader = fixedLoader(corpusPages())

	stats1, err := p.Populate(context.Background())
	require.NoError(t, err)
	require.Positive(t, stats1.Ingested)
	assert.Equal(t, stats1.Ingested, len(ingestedIDs))

	firstRunCount := countLines(t, params.ChunksFile)
	assert.Equal(t, stats1.Ingested, firstRunCount)

	// Second run over the identical corpus: the ledger filters everything.
	stats2, err := p.Populate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, stats1.ChunksSplit, stats2.ChunksSplit)
	assert.Zero(t, stats2.NewChunks)
	assert.Zero(t, stats2.Ingested)
	assert.Equal(t, firstRunCount, countLines(t, params.ChunksFile))
}

func TestPipeline_FailedBatchRetriesNextRun(t *testing.T) {
	params := testParams(t)

	failFirst := true
	ingest := func(_ context.Context, _ []models.Document) error {
		if failFirst {
			failFirst = false
			return errors.New("vector store unreachable")
		}
		return nil
	}

	p := NewPipeline(params, wordCounter{}, ingest, testLogger())
	p.Loader = fixedLoader(corpusPages())

	stats1, err := p.Populate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, stats1.FailedBatches)
	assert.Less(t, stats1.Ingested, stats1.NewChunks,
		"failed batch chunks must not be recorded as ingested")

	// Only the failed batch's chunks are new on the second run.
	stats2, err := p.Populate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, stats1.NewChunks-stats1.Ingested, stats2.NewChunks)
	assert.Zero(t, stats2.FailedBatches)
	assert.Equal(t, stats2.NewChunks, stats2.Ingested)

	// Third run: fully caught up.
	stats3, err := p.Populate(context.Background())
	require.NoError(t, err)
	assert.Zero(t, stats3.NewChunks)
}

func TestPipeline_FailSoftOnSplitError(t *testing.T) {
	params := testParams(t)

	ingestCalls := 0
	ingest := func(_ context.Context, _ []models.Document) error {
		ingestCalls++
		return nil
	}

	p := NewPipeline(params, failingCounter{}, ingest, testLogger())
	p.Loader = fixedLoader(corpusPages())

	stats, err := p.Populate(context.Background())
	require.NoError(t, err, "fail-soft run must not return an error")
	assert.Zero(t, stats.ChunksSplit)
	assert.Zero(t, ingestCalls)
}

func TestPipeline_FailFastOnSplitError(t *testing.T) {
	params := testParams(t)
	params.FailFast = true

	p := NewPipeline(params, failingCounter{}, func(_ context.Context, _ []models.Document) error {
		return nil
	}, testLogger())
	p.Loader = fixedLoader(corpusPages())

	_, err := p.Populate(context.Background())
	require.Error(t, err)
}

func countLines(t *testing.T, path string) int {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	trimmed := strings.TrimSuffix(string(data), "\n")
	if trimmed == "" {
		return 0
	}
	return len(strings.Split(trimmed, "\n"))
}
