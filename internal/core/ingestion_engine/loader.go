package ingestion_engine

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"code.sajari.com/docconv"
	"github.com/ledongthuc/pdf"

	"github.com/markdave123-py/raget/internal/models"
)

// Metadata keys accumulated over the pipeline.
const (
	MetaSource  = "source"
	MetaPage    = "page"
	MetaChunkID = "chunk_id"
)

// LoadDocs reads every *.pdf directly under dataDir (no recursion) and
// returns one Document per page, in file-enumeration order with pages in
// natural order. A missing directory yields an empty result. A file that
// fails to load is logged and skipped; the run continues with the rest.
func LoadDocs(dataDir string, logger *slog.Logger) []models.Document {
	entries, err := os.ReadDir(dataDir)
	if errors.Is(err, fs.ErrNotExist) {
		logger.Warn("data directory does not exist", "dir", dataDir)
		return nil
	}
	if err != nil {
		logger.Error("reading data directory failed", "dir", dataDir, "err", err)
		return nil
	}

	var all []models.Document
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".pdf") {
			continue
		}
		path := filepath.Join(dataDir, e.Name())
		docs, err := loadPDF(path, logger)
		if err != nil {
			logger.Warn("failed to load pdf", "path", path, "err", err)
			continue
		}
		all = append(all, docs...)
	}

	logger.Info("loaded documents", "dir", dataDir, "pages", len(all))
	return all
}

// loadPDF extracts one Document per page. The file handle is closed before
// returning so peak memory stays bounded across large corpora. When the
// per-page parser rejects the file, docconv takes one whole-file attempt.
func loadPDF(path string, logger *slog.Logger) ([]models.Document, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return convertWhole(path)
	}
	defer f.Close()

	var docs []models.Document
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			logger.Warn("failed to extract page", "path", path, "page", i, "err", err)
			continue
		}
		if strings.TrimSpace(text) == "" {
			continue
		}
		docs = append(docs, models.Document{
			Content: text,
			Metadata: map[string]any{
				MetaSource: path,
				MetaPage:   i,
			},
		})
	}
	return docs, nil
}

// convertWhole is the fallback extraction path: the entire PDF as a single
// page-1 document. Page granularity is lost but the content still ingests.
func convertWhole(path string) ([]models.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	res, err := docconv.Convert(f, "application/pdf", false)
	if err != nil {
		return nil, fmt.Errorf("docconv: %w", err)
	}
	if strings.TrimSpace(res.Body) == "" {
		return nil, fmt.Errorf("no text extracted from %s", path)
	}
	return []models.Document{{
		Content: res.Body,
		Metadata: map[string]any{
			MetaSource: path,
			MetaPage:   1,
		},
	}}, nil
}
