package ingestion_engine

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/markdave123-py/raget/internal/models"
)

// AppendRecords appends one JSON record per chunk to the sidecar file,
// creating parent directories and the file as needed. Existing lines are
// never rewritten. Each record is marshalled to a complete line before a
// single write call, so a failure mid-run can only lose the unwritten
// remainder, never corrupt earlier lines.
func AppendRecords(path string, chunks []models.Document) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create sidecar dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open sidecar: %w", err)
	}
	defer f.Close()

	for _, ch := range chunks {
		line, err := json.Marshal(ch)
		if err != nil {
			return fmt.Errorf("marshal chunk %q: %w", ch.StringMeta(MetaChunkID), err)
		}
		if _, err := f.Write(append(line, '\n')); err != nil {
			return fmt.Errorf("append chunk %q: %w", ch.StringMeta(MetaChunkID), err)
		}
	}
	return nil
}
