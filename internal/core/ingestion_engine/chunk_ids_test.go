package ingestion_engine

import (
	"io"
	"log/slog"
	"testing"

	"github.com/markdave123-py/raget/internal/models"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func pageChunk(source string, page any, content string) models.Document {
	return models.Document{
		Content: content,
		Metadata: map[string]any{
			MetaSource: source,
			MetaPage:   page,
		},
	}
}

func ids(chunks []models.Document) []string {
	out := make([]string, len(chunks))
	for i, ch := range chunks {
		out[i] = ch.StringMeta(MetaChunkID)
	}
	return out
}

func TestAssignChunkIDs_SamePageCounts(t *testing.T) {
	chunks := []models.Document{
		pageChunk("data/a.pdf", 1, "one"),
		pageChunk("data/a.pdf", 1, "two"),
		pageChunk("data/a.pdf", 1, "three"),
	}

	got := ids(AssignChunkIDs(chunks, "data", testLogger()))
	want := []string{"a.pdf:1:0", "a.pdf:1:1", "a.pdf:1:2"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("chunk %d: got id %q, want %q", i, got[i], want[i])
		}
	}
}

func TestAssignChunkIDs_ResetOnPageChange(t *testing.T) {
	chunks := []models.Document{
		pageChunk("data/a.pdf", 1, "c1"),
		pageChunk("data/a.pdf", 1, "c2"),
		pageChunk("data/a.pdf", 2, "c3"),
		pageChunk("data/a.pdf", 2, "c4"),
	}

	got := ids(AssignChunkIDs(chunks, "data", testLogger()))
	want := []string{"a.pdf:1:0", "a.pdf:1:1", "a.pdf:2:0", "a.pdf:2:1"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("chunk %d: got id %q, want %q", i, got[i], want[i])
		}
	}
}

func TestAssignChunkIDs_Deterministic(t *testing.T) {
	chunks := []models.Document{
		pageChunk("data/a.pdf", 1, "c1"),
		pageChunk("data/b.pdf", 1, "c2"),
		pageChunk("data/b.pdf", 3, "c3"),
	}

	first := ids(AssignChunkIDs(chunks, "data", testLogger()))
	second := ids(AssignChunkIDs(chunks, "data", testLogger()))
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("chunk %d: run 1 id %q, run 2 id %q", i, first[i], second[i])
		}
	}
}

func TestAssignChunkIDs_PathSeparatorsNormalized(t *testing.T) {
	back := AssignChunkIDs([]models.Document{pageChunk(`data\a.pdf`, 1, "c")}, "data", testLogger())
	fwd := AssignChunkIDs([]models.Document{pageChunk("data/a.pdf", 1, "c")}, "data", testLogger())

	if back[0].StringMeta(MetaChunkID) != fwd[0].StringMeta(MetaChunkID) {
		t.Errorf("backslash source got id %q, forward-slash got %q",
			back[0].StringMeta(MetaChunkID), fwd[0].StringMeta(MetaChunkID))
	}
	if fwd[0].StringMeta(MetaChunkID) != "a.pdf:1:0" {
		t.Errorf("got id %q, want %q", fwd[0].StringMeta(MetaChunkID), "a.pdf:1:0")
	}
}

func TestAssignChunkIDs_FloatPageFromJSON(t *testing.T) {
	// Pages re-read from the sidecar arrive as float64.
	got := AssignChunkIDs([]models.Document{pageChunk("data/a.pdf", float64(2), "c")}, "data", testLogger())
	if id := got[0].StringMeta(MetaChunkID); id != "a.pdf:2:0" {
		t.Errorf("got id %q, want %q", id, "a.pdf:2:0")
	}
}

func TestAssignChunkIDs_MalformedChunkDoesNotAbort(t *testing.T) {
	chunks := []models.Document{
		pageChunk("data/a.pdf", 1, "ok"),
		{Content: "no metadata", Metadata: map[string]any{}},
		pageChunk("data/a.pdf", 1, "also ok"),
	}

	got := AssignChunkIDs(chunks, "data", testLogger())
	if len(got) != 3 {
		t.Fatalf("got %d chunks, want 3", len(got))
	}
	if got[1].StringMeta(MetaChunkID) != "" {
		t.Errorf("malformed chunk got id %q, want none", got[1].StringMeta(MetaChunkID))
	}
	if got[0].StringMeta(MetaChunkID) != "a.pdf:1:0" || got[2].StringMeta(MetaChunkID) != "a.pdf:1:1" {
		t.Errorf("surrounding chunks got ids %q, %q", got[0].StringMeta(MetaChunkID), got[2].StringMeta(MetaChunkID))
	}
}

func TestAssignChunkIDs_InputNotMutated(t *testing.T) {
	chunks := []models.Document{pageChunk("data/a.pdf", 1, "c")}
	_ = AssignChunkIDs(chunks, "data", testLogger())

	if _, ok := chunks[0].Metadata[MetaChunkID]; ok {
		t.Error("input chunk metadata was mutated with a chunk_id")
	}
}
