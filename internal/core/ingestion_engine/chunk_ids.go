package ingestion_engine

import (
	"fmt"
	"log/slog"
	"path"
	"strconv"
	"strings"

	"github.com/markdave123-py/raget/internal/models"
)

// AssignChunkIDs returns a new chunk sequence with chunk_id metadata set.
// The id has the form "source:page:index" where source is relative to
// baseDir with forward-slash separators and index is a zero-based counter
// that resets whenever "source:page" changes between consecutive chunks.
// Ids are deterministic for a fixed input order. A chunk missing its
// source or page is passed through unchanged and logged; it never aborts
// the rest of the batch.
func AssignChunkIDs(chunks []models.Document, baseDir string, logger *slog.Logger) []models.Document {
	out := make([]models.Document, 0, len(chunks))

	lastPageID := ""
	haveLast := false
	idx := 0

	for _, ch := range chunks {
		source, ok := ch.Metadata[MetaSource].(string)
		page, havePage := ch.Metadata[MetaPage]
		if !ok || source == "" || !havePage {
			logger.Warn("chunk missing source or page metadata; no chunk_id assigned")
			out = append(out, ch)
			continue
		}

		pageID := relSource(source, baseDir) + ":" + fmt.Sprint(page)
		if haveLast && pageID == lastPageID {
			idx++
		} else {
			idx = 0
		}
		lastPageID = pageID
		haveLast = true

		meta := cloneMeta(ch.Metadata)
		meta[MetaChunkID] = pageID + ":" + strconv.Itoa(idx)
		out = append(out, models.Document{Content: ch.Content, Metadata: meta})
	}
	return out
}

// relSource normalizes a source path relative to baseDir with a single
// canonical separator, so identical corpora produce identical chunk ids on
// every platform. Backslashes are treated as separators regardless of OS.
func relSource(source, baseDir string) string {
	s := path.Clean(toSlash(source))
	b := path.Clean(toSlash(baseDir))

	if b != "." && b != "/" {
		if s == b {
			return "."
		}
		if strings.HasPrefix(s, b+"/") {
			return strings.TrimPrefix(s, b+"/")
		}
	}
	return s
}

func toSlash(p string) string {
	return strings.ReplaceAll(p, `\`, "/")
}
