package ingestion_engine

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/markdave123-py/raget/internal/models"
)

// maxSidecarLine bounds a single sidecar record; chunk content is token
// limited well below this.
const maxSidecarLine = 4 << 20

// LoadLedger scans the sidecar file and returns the set of chunk ids
// already persisted. Malformed lines are skipped silently; a missing file
// yields an empty set, not an error.
func LoadLedger(path string, logger *slog.Logger) (map[string]struct{}, error) {
	seen := make(map[string]struct{})

	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		logger.Warn("no existing chunks file", "path", path)
		return seen, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open sidecar: %w", err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), maxSidecarLine)

	for sc.Scan() {
		var rec models.Document
		if err := json.Unmarshal(sc.Bytes(), &rec); err != nil {
			continue
		}
		if id := rec.StringMeta(MetaChunkID); id != "" {
			seen[id] = struct{}{}
		}
	}
	if err := sc.Err(); err != nil {
		return seen, fmt.Errorf("scan sidecar: %w", err)
	}

	logger.Info("loaded existing chunk ids", "path", path, "count", len(seen))
	return seen, nil
}
