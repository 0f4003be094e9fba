package ingestion_engine

import (
	"log/slog"
	"strings"

	"github.com/markdave123-py/raget/internal/models"
)

// ExcludeSeen drops chunks whose chunk_id is already in the ledger.
// Dedup runs before the token-window filter; a duplicate is never
// re-evaluated for token length. Chunks without a chunk_id are kept.
func ExcludeSeen(chunks []models.Document, seen map[string]struct{}, logger *slog.Logger) []models.Document {
	fresh := make([]models.Document, 0, len(chunks))
	for _, ch := range chunks {
		if id := ch.StringMeta(MetaChunkID); id != "" {
			if _, dup := seen[id]; dup {
				continue
			}
		}
		fresh = append(fresh, ch)
	}
	logger.Info("deduplicated against ledger", "before", len(chunks), "new", len(fresh))
	return fresh
}

// FilterByTokenWindow keeps chunks whose trimmed content has a token count
// strictly inside (lower, upper). If counting fails, the stage fails open
// and returns the unfiltered input: a filter bug must never silently drop
// the whole corpus.
func FilterByTokenWindow(chunks []models.Document, lower, upper int, tok TokenCounter, logger *slog.Logger) []models.Document {
	filtered := make([]models.Document, 0, len(chunks))
	for _, ch := range chunks {
		content := strings.TrimSpace(ch.Content)
		n, err := tok.Count(content)
		if err != nil {
			logger.Error("token counting failed; keeping unfiltered chunks",
				"chunk_id", ch.StringMeta(MetaChunkID), "chars", len(content), "err", err)
			return chunks
		}
		if lower < n && n < upper {
			filtered = append(filtered, ch)
		}
	}
	logger.Info("filtered chunks by token window",
		"before", len(chunks), "after", len(filtered), "lower", lower, "upper", upper)
	return filtered
}
