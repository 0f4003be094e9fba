package ingestion_engine

import (
	"fmt"
	"strings"
	"testing"

	"github.com/markdave123-py/raget/internal/models"
)

// pageOfLines builds a page whose lines are numbered, each line one token
// under wordCounter plus its word count.
func pageOfLines(source string, page, lines, wordsPerLine int) models.Document {
	var sb strings.Builder
	for i := 0; i < lines; i++ {
		for w := 0; w < wordsPerLine; w++ {
			fmt.Fprintf(&sb, "l%dw%d ", i, w)
		}
		sb.WriteString("\n")
	}
	return pageChunk(source, page, sb.String())
}

func TestSplitDocs_SmallDocSingleChunk(t *testing.T) {
	docs := []models.Document{pageOfLines("a.pdf", 1, 2, 3)}

	chunks, err := SplitDocs(docs, 100, 10, wordCounter{}, testLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) != 1 {
		t.Fatalf("got %d chunks, want 1", len(chunks))
	}
	if chunks[0].StringMeta(MetaSource) != "a.pdf" {
		t.Errorf("chunk source %q, want a.pdf", chunks[0].StringMeta(MetaSource))
	}
}

func TestSplitDocs_PreservesDocumentOrder(t *testing.T) {
	docs := []models.Document{
		pageOfLines("a.pdf", 1, 20, 5),
		pageOfLines("b.pdf", 1, 20, 5),
	}

	chunks, err := SplitDocs(docs, 25, 5, wordCounter{}, testLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) < 4 {
		t.Fatalf("expected multiple chunks per doc, got %d total", len(chunks))
	}

	sawB := false
	for _, ch := range chunks {
		switch ch.StringMeta(MetaSource) {
		case "b.pdf":
			sawB = true
		case "a.pdf":
			if sawB {
				t.Fatal("a.pdf chunk appeared after b.pdf chunks")
			}
		}
	}
}

func TestSplitDocs_OverlapCarriesTail(t *testing.T) {
	docs := []models.Document{pageOfLines("a.pdf", 1, 10, 10)}

	chunks, err := SplitDocs(docs, 30, 15, wordCounter{}, testLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) < 2 {
		t.Fatalf("expected at least 2 chunks, got %d", len(chunks))
	}

	prevTail := lastLine(chunks[0].Content)
	if !strings.Contains(chunks[1].Content, prevTail) {
		t.Errorf("chunk 1 does not carry the tail line %q of chunk 0", prevTail)
	}
}

func TestSplitDocs_NoOverlapNoRepeats(t *testing.T) {
	docs := []models.Document{pageOfLines("a.pdf", 1, 10, 10)}

	chunks, err := SplitDocs(docs, 30, 0, wordCounter{}, testLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	seen := map[string]bool{}
	for _, ch := range chunks {
		for _, line := range strings.Split(ch.Content, "\n") {
			if seen[line] {
				t.Fatalf("line %q appears in two chunks with zero overlap", line)
			}
			seen[line] = true
		}
	}
}

func TestSplitDocs_InvalidOverlap(t *testing.T) {
	docs := []models.Document{pageOfLines("a.pdf", 1, 2, 2)}

	if _, err := SplitDocs(docs, 10, 10, wordCounter{}, testLogger()); err == nil {
		t.Error("overlap == size accepted, want error")
	}
	if _, err := SplitDocs(docs, 10, 20, wordCounter{}, testLogger()); err == nil {
		t.Error("overlap > size accepted, want error")
	}
}

func TestSplitDocs_CounterFailureIsStageError(t *testing.T) {
	docs := []models.Document{pageOfLines("a.pdf", 1, 2, 2)}

	if _, err := SplitDocs(docs, 10, 2, failingCounter{}, testLogger()); err == nil {
		t.Error("expected error when the token counter fails")
	}
}

func TestSplitDocs_EmptyInput(t *testing.T) {
	chunks, err := SplitDocs(nil, 10, 2, wordCounter{}, testLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) != 0 {
		t.Errorf("got %d chunks, want 0", len(chunks))
	}
}

func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	return lines[len(lines)-1]
}
