package core

import (
	"context"

	"github.com/markdave123-py/raget/internal/models"
)

// DbClient defines all persistence operations the services need.
// It abstracts Postgres/pgvector so higher layers never depend on a specific DB.
type DbClient interface {
	CreateUser(ctx context.Context, user *models.User) (err error)
	GetUserByEmail(ctx context.Context, email string) (user *models.User, err error)

	InsertChunks(ctx context.Context, chunks []models.DocumentChunk) error
	SearchChunks(ctx context.Context, queryVec []float32, limit int) ([]models.DocumentChunk, error)
	ListSources(ctx context.Context) ([]models.SourceSummary, error)

	Close() error
}

// ObjectClient defines interactions with S3 or any object storage.
// The pipeline's source of truth is the local data directory; the object
// store only mirrors uploads for durability.
type ObjectClient interface {
	UploadFile(ctx context.Context, key string, data []byte, contentType string) (url string, err error)
	GetFile(ctx context.Context, key string) ([]byte, error)
	DeleteFile(ctx context.Context, key string) error
}
