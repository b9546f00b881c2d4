package sqlite

import (
	"context"

	"github.com/google/uuid"

	"github.com/vintegcorp/vintegcorp/documents"
)

var _ documents.Repo = (*DocumentRepo)(nil)

// DocumentRepo keeps document content base64 encoded in the row itself
type DocumentRepo struct {
	store *Store
}

func (r *DocumentRepo) List(ctx context.Context, limit int) ([]*documents.Document, error) {
	rows, err := r.store.db.QueryContext(ctx,
		`SELECT id, filename, mime_type, file_size_bytes, access_role, uploaded_by, storage_path, created_at
		 FROM documents ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, mapError(err, "list documents")
	}
	defer rows.Close()

	out := []*documents.Document{}
	for rows.Next() {
		var d documents.Document
		err := rows.Scan(&d.ID, &d.Filename, &d.MimeType, &d.FileSizeBytes, &d.AccessRole,
			&d.UploadedBy, &d.StoragePath, &d.CreatedAt)
		if err != nil {
			return nil, mapError(err, "scan document")
		}
		out = append(out, &d)
	}
	return out, mapError(rows.Err(), "list documents")
}

func (r *DocumentRepo) Get(ctx context.Context, id string) (*documents.Document, error) {
	var d documents.Document
	err := r.store.db.QueryRowContext(ctx,
		`SELECT id, filename, mime_type, file_size_bytes, access_role, uploaded_by, storage_path, data, created_at
		 FROM documents WHERE id = ?`, id).
		Scan(&d.ID, &d.Filename, &d.MimeType, &d.FileSizeBytes, &d.AccessRole,
			&d.UploadedBy, &d.StoragePath, &d.Data, &d.CreatedAt)
	if err != nil {
		return nil, mapError(err, "get document")
	}
	return &d, nil
}

func (r *DocumentRepo) Create(ctx context.Context, d *documents.Document) error {
	d.ID = uuid.New().String()
	d.StoragePath = documents.StorageDatabase
	d.CreatedAt = r.store.timestamp()
	_, err := r.store.db.ExecContext(ctx,
		`INSERT INTO documents (id, filename, mime_type, file_size_bytes, access_role, uploaded_by, storage_path, data, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		d.ID, d.Filename, d.MimeType, d.FileSizeBytes, d.AccessRole, d.UploadedBy, d.StoragePath, d.Data, d.CreatedAt)
	return mapError(err, "create document")
}

func (r *DocumentRepo) Delete(ctx context.Context, id string) error {
	res, err := r.store.db.ExecContext(ctx, `DELETE FROM documents WHERE id = ?`, id)
	if err != nil {
		return mapError(err, "delete document")
	}
	return requireAffected(res, "delete document")
}
