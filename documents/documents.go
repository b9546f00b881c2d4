package documents

import (
	"context"
	"time"
)

// StorageDatabase marks documents whose content lives in the database row
const StorageDatabase = "db-storage"

type Document struct {
	ID            string    `json:"id"`
	Filename      string    `json:"filename"`
	MimeType      string    `json:"mime_type"`
	FileSizeBytes int64     `json:"file_size_bytes"`
	AccessRole    string    `json:"access_role"`
	UploadedBy    string    `json:"uploaded_by"`
	StoragePath   string    `json:"storage_path"`
	Data          string    `json:"data,omitempty"` // base64, only on single document reads
	CreatedAt     time.Time `json:"created_at"`
}

type Repo interface {
	// List omits document content
	List(ctx context.Context, limit int) ([]*Document, error)
	Get(ctx context.Context, id string) (*Document, error)
	Create(ctx context.Context, doc *Document) error
	Delete(ctx context.Context, id string) error
}
