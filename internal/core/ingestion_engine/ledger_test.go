package ingestion_engine

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadLedger_MissingFile(t *testing.T) {
	seen, err := LoadLedger(filepath.Join(t.TempDir(), "absent.jsonl"), testLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(seen) != 0 {
		t.Errorf("got %d ids, want 0", len(seen))
	}
}

func TestLoadLedger_SkipsMalformedLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chunks.jsonl")
	lines := `{"content":"c1","metadata":{"chunk_id":"a.pdf:1:0"}}
not json at all
{"content":"c2","metadata":{}}
{"content":"c3","metadata":{"chunk_id":"a.pdf:1:1"}}
`
	if err := os.WriteFile(path, []byte(lines), 0o644); err != nil {
		t.Fatal(err)
	}

	seen, err := LoadLedger(path, testLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(seen) != 2 {
		t.Fatalf("got %d ids, want 2", len(seen))
	}
	for _, id := range []string{"a.pdf:1:0", "a.pdf:1:1"} {
		if _, ok := seen[id]; !ok {
			t.Errorf("id %q missing from ledger", id)
		}
	}
}
