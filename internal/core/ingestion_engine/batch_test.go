package ingestion_engine

import (
	"context"
	"errors"
	"testing"

	"github.com/markdave123-py/raget/internal/models"
)

func nChunks(n int) []models.Document {
	out := make([]models.Document, n)
	for i := range out {
		out[i] = pageChunk("a.pdf", 1, "chunk")
	}
	return out
}

func TestProcessInBatches_PartialFailure(t *testing.T) {
	var batches [][]models.Document
	ingest := func(_ context.Context, batch []models.Document) error {
		batches = append(batches, batch)
		if len(batches) == 2 {
			return errors.New("embedding backend down")
		}
		return nil
	}

	ingested, failed := ProcessInBatches(context.Background(), nChunks(5), 2, ingest, testLogger())

	if len(batches) != 3 {
		t.Errorf("attempted %d batches, want 3", len(batches))
	}
	if failed != 1 {
		t.Errorf("failed batches = %d, want 1", failed)
	}
	// Batches 0 (2 chunks) and 2 (1 chunk) succeeded.
	if len(ingested) != 3 {
		t.Errorf("ingested %d chunks, want 3", len(ingested))
	}
}

func TestProcessInBatches_BatchSizes(t *testing.T) {
	var sizes []int
	ingest := func(_ context.Context, batch []models.Document) error {
		sizes = append(sizes, len(batch))
		return nil
	}

	ingested, failed := ProcessInBatches(context.Background(), nChunks(7), 3, ingest, testLogger())

	want := []int{3, 3, 1}
	if len(sizes) != len(want) {
		t.Fatalf("got %d batches, want %d", len(sizes), len(want))
	}
	for i := range want {
		if sizes[i] != want[i] {
			t.Errorf("batch %d size %d, want %d", i, sizes[i], want[i])
		}
	}
	if failed != 0 || len(ingested) != 7 {
		t.Errorf("ingested=%d failed=%d, want 7 and 0", len(ingested), failed)
	}
}

func TestProcessInBatches_Empty(t *testing.T) {
	called := false
	ingest := func(_ context.Context, _ []models.Document) error {
		called = true
		return nil
	}

	ingested, failed := ProcessInBatches(context.Background(), nil, 4, ingest, testLogger())
	if called {
		t.Error("ingest called for empty input")
	}
	if len(ingested) != 0 || failed != 0 {
		t.Errorf("ingested=%d failed=%d, want zeros", len(ingested), failed)
	}
}
