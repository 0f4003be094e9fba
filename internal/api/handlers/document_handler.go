package handlers

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/markdave123-py/raget/internal/core"
	"github.com/markdave123-py/raget/internal/services"
)

const maxUploadBytes = 50 << 20 // 50 MiB per PDF

// DocumentHandler accepts PDF uploads into the data directory and lists
// what has been ingested so far. Every accepted upload triggers a populate
// run; already-ingested pages are skipped by the sidecar ledger, so
// re-uploading the same file is harmless.
type DocumentHandler struct {
	dbclient     core.DbClient
	objectClient core.ObjectClient
	populate     *services.PopulateService
	dataDir      string
	logger       *slog.Logger
}

func NewDocumentHandler(dbclient core.DbClient, objectClient core.ObjectClient, populate *services.PopulateService, dataDir string, logger *slog.Logger) *DocumentHandler {
	return &DocumentHandler{
		dbclient:     dbclient,
		objectClient: objectClient,
		populate:     populate,
		dataDir:      dataDir,
		logger:       logger,
	}
}

func (h *DocumentHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, "could not parse multipart form", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "missing file field", http.StatusBadRequest)
		return
	}
	defer file.Close()

	name := filepath.Base(header.Filename)
	if !strings.EqualFold(filepath.Ext(name), ".pdf") {
		http.Error(w, "only .pdf files are accepted", http.StatusBadRequest)
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, "could not read upload", http.StatusBadRequest)
		return
	}

	if err := os.MkdirAll(h.dataDir, 0o755); err != nil {
		http.Error(w, "could not prepare data directory", http.StatusInternalServerError)
		return
	}
	dest := filepath.Join(h.dataDir, name)
	if err := os.WriteFile(dest, data, 0o644); err != nil {
		http.Error(w, "could not store upload", http.StatusInternalServerError)
		return
	}

	// Mirror to object storage when configured. A mirror failure never
	// fails the upload; the local copy is the pipeline's source of truth.
	var mirrorURL string
	if h.objectClient != nil {
		url, err := h.objectClient.UploadFile(r.Context(), name, data, "application/pdf")
		if err != nil {
			h.logger.Warn("object store mirror failed", "file", name, "err", err)
		} else {
			mirrorURL = url
		}
	}

	h.populate.Trigger()
	h.logger.Info("document uploaded", "file", name, "bytes", len(data))

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]any{
		"file":       name,
		"bytes":      len(data),
		"mirror_url": mirrorURL,
		"status":     "ingestion scheduled",
	})
}

func (h *DocumentHandler) List(w http.ResponseWriter, r *http.Request) {
	sources, err := h.dbclient.ListSources(r.Context())
	if err != nil {
		h.logger.Error("listing sources failed", "err", err)
		http.Error(w, "could not list documents", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"documents": sources})
}
