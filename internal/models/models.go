package models

import (
	"time"
)

// Document is one unit of text moving through the populate pipeline:
// a single PDF page out of the loader, or a chunk after splitting.
// Metadata accumulates as the pipeline progresses (source, page, chunk_id).
// The JSON shape doubles as the sidecar record format, one per line.
type Document struct {
	Content  string         `json:"content"`
	Metadata map[string]any `json:"metadata"`
}

// StringMeta returns a string metadata value, or "" if absent or not a string.
func (d Document) StringMeta(key string) string {
	v, _ := d.Metadata[key].(string)
	return v
}

// IntMeta returns an integer metadata value. Numbers that round-tripped
// through JSON come back as float64, so both forms are accepted.
func (d Document) IntMeta(key string) int {
	switch v := d.Metadata[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return 0
}

// User represents an authenticated user of the system.
type User struct {
	ID           string    `db:"id" json:"id"`
	FirstName    string    `db:"first_name" json:"first_name"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// DocumentChunk is one ingested chunk row in Postgres, embedding included.
// ChunkID mirrors the sidecar ledger identity ("source:page:index").
type DocumentChunk struct {
	ID         string    `db:"id" json:"id"`
	ChunkID    string    `db:"chunk_id" json:"chunk_id"`
	Source     string    `db:"source" json:"source"`
	Page       int       `db:"page" json:"page"`
	Content    string    `db:"content" json:"content"`
	Embedding  []float32 `db:"embedding" json:"-"` // pgvector column
	TokenCount int       `db:"token_count" json:"token_count"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// SourceSummary aggregates the ingested chunks of one PDF for listings.
type SourceSummary struct {
	Source     string    `db:"source" json:"source"`
	ChunkCount int       `db:"chunk_count" json:"chunk_count"`
	LastIngest time.Time `db:"last_ingest" json:"last_ingest"`
}
