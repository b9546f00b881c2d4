package sqlite

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/vintegcorp/vintegcorp/articles"
)

var _ articles.Repo = (*ArticleRepo)(nil)

const articleColumns = `id, title, content, category, folder, author_id, last_editor_id, type, status,
	tags, attachments, views, created_at, updated_at`

type ArticleRepo struct {
	store *Store
}

func scanArticle(row scanner) (*articles.Article, error) {
	var a articles.Article
	var editor sql.NullString
	err := row.Scan(&a.ID, &a.Title, &a.Content, &a.Category, &a.Folder, &a.AuthorID, &editor,
		&a.Type, &a.Status, asJSON(&a.Tags), asJSON(&a.Attachments), &a.Views, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	a.LastEditorID = stringPtr(editor)
	return &a, nil
}

func (r *ArticleRepo) List(ctx context.Context, limit int) ([]*articles.Article, error) {
	rows, err := r.store.db.QueryContext(ctx,
		`SELECT `+articleColumns+` FROM articles WHERE deleted_at IS NULL
		 ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, mapError(err, "list articles")
	}
	defer rows.Close()

	out := []*articles.Article{}
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, mapError(err, "scan article")
		}
		out = append(out, a)
	}
	return out, mapError(rows.Err(), "list articles")
}

func (r *ArticleRepo) get(ctx context.Context, id string) (*articles.Article, error) {
	a, err := scanArticle(r.store.db.QueryRowContext(ctx,
		`SELECT `+articleColumns+` FROM articles WHERE id = ? AND deleted_at IS NULL`, id))
	if err != nil {
		return nil, mapError(err, "get article")
	}
	return a, nil
}

func (r *ArticleRepo) Create(ctx context.Context, a *articles.Article) error {
	now := r.store.timestamp()
	a.ID = uuid.New().String()
	a.CreatedAt = now
	a.UpdatedAt = now
	if a.Type == "" {
		a.Type = articles.TypeKnowledge
	}
	if a.Status == "" {
		a.Status = articles.StatusPublished
	}
	if a.Tags == nil {
		a.Tags = []string{}
	}
	if a.Attachments == nil {
		a.Attachments = []articles.Attachment{}
	}

	_, err := r.store.db.ExecContext(ctx,
		`INSERT INTO articles (id, title, content, category, folder, author_id, type, status, tags, attachments, views, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 0, ?, ?)`,
		a.ID, a.Title, a.Content, a.Category, a.Folder, a.AuthorID, a.Type, a.Status,
		asJSON(&a.Tags), asJSON(&a.Attachments), a.CreatedAt, a.UpdatedAt)
	return mapError(err, "create article")
}

// Update applies patch and records the editor
func (r *ArticleRepo) Update(ctx context.Context, id string, patch articles.Patch) (*articles.Article, error) {
	var set updateSet
	if patch.Title != nil {
		set.add("title", *patch.Title)
	}
	if patch.Content != nil {
		set.add("content", *patch.Content)
	}
	if patch.Category != nil {
		set.add("category", *patch.Category)
	}
	if patch.Folder != nil {
		set.add("folder", *patch.Folder)
	}
	if patch.Tags != nil {
		set.add("tags", asJSON(&patch.Tags))
	}
	if patch.Attachments != nil {
		set.add("attachments", asJSON(&patch.Attachments))
	}
	if patch.EditorID != "" {
		set.add("last_editor_id", patch.EditorID)
	}
	set.add("updated_at", r.store.timestamp())

	res, err := r.store.db.ExecContext(ctx,
		`UPDATE articles SET `+set.clause()+` WHERE id = ? AND deleted_at IS NULL`, append(set.args, id)...)
	if err != nil {
		return nil, mapError(err, "update article")
	}
	if err := requireAffected(res, "update article"); err != nil {
		return nil, err
	}
	return r.get(ctx, id)
}

func (r *ArticleRepo) SoftDelete(ctx context.Context, id string) error {
	res, err := r.store.db.ExecContext(ctx,
		`UPDATE articles SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL`, r.store.timestamp(), id)
	if err != nil {
		return mapError(err, "delete article")
	}
	return requireAffected(res, "delete article")
}
