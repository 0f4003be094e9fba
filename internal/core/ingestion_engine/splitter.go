package ingestion_engine

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/markdave123-py/raget/internal/models"
)

// SplitDocs converts page documents into overlapping token-bounded chunks.
// All chunks derived from docs[i] precede those from docs[i+1], and chunk
// metadata is a copy of the parent page's metadata. chunkSize and
// chunkOverlap are measured in the counter's token unit.
func SplitDocs(docs []models.Document, chunkSize, chunkOverlap int, tok TokenCounter, logger *slog.Logger) ([]models.Document, error) {
	if chunkSize <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", chunkSize)
	}
	if chunkOverlap < 0 || chunkOverlap >= chunkSize {
		return nil, fmt.Errorf("chunk overlap must satisfy 0 <= overlap < size, got %d", chunkOverlap)
	}

	var chunks []models.Document
	for _, doc := range docs {
		pieces, err := splitText(doc.Content, chunkSize, chunkOverlap, tok)
		if err != nil {
			return nil, err
		}
		for _, text := range pieces {
			chunks = append(chunks, models.Document{
				Content:  text,
				Metadata: cloneMeta(doc.Metadata),
			})
		}
	}

	logger.Info("split documents into chunks",
		"docs", len(docs), "chunks", len(chunks),
		"size", chunkSize, "overlap", chunkOverlap)
	return chunks, nil
}

// splitText groups the non-empty lines of one document into chunks of about
// chunkSize tokens, seeding each chunk with ~overlap tokens from the tail of
// the previous one. A line too long to fit on its own still becomes part of
// a chunk; sizes are approximate, in the counter's token unit.
func splitText(content string, chunkSize, overlap int, tok TokenCounter) ([]string, error) {
	var (
		out    []string
		buf    []string
		tokSum int
		fresh  bool // lines added since the last flush
	)

	flush := func() error {
		if len(buf) == 0 || !fresh {
			return nil
		}
		out = append(out, strings.Join(buf, "\n"))
		fresh = false

		if overlap <= 0 {
			buf = buf[:0]
			tokSum = 0
			return nil
		}

		// Keep a tail whose token sum is about the overlap.
		var keep []string
		remain := overlap
		for j := len(buf) - 1; j >= 0 && remain > 0; j-- {
			t, err := tok.Count(buf[j])
			if err != nil {
				return err
			}
			keep = append([]string{buf[j]}, keep...)
			remain -= t
		}
		// The kept tail must leave room to grow, or the next flush would
		// re-emit the same lines forever.
		if len(keep) == len(buf) {
			keep = nil
		}
		buf = keep
		tokSum = 0
		for _, s := range buf {
			t, err := tok.Count(s)
			if err != nil {
				return err
			}
			tokSum += t
		}
		return nil
	}

	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		t, err := tok.Count(line)
		if err != nil {
			return nil, fmt.Errorf("token count: %w", err)
		}
		buf = append(buf, line)
		tokSum += t
		fresh = true

		if tokSum >= chunkSize {
			if err := flush(); err != nil {
				return nil, err
			}
		}
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return out, nil
}

func cloneMeta(m map[string]any) map[string]any {
	out := make(map[string]any, len(m)+1)
	for k, v := range m {
		out[k] = v
	}
	return out
}
