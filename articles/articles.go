package articles

import (
	"context"
	"time"
)

const (
	TypeKnowledge   = "knowledge"
	StatusPublished = "published"
)

type Attachment struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
	Size string `json:"size"`
	URL  string `json:"url,omitempty"`
	Data string `json:"data,omitempty"` // base64 content
}

type Article struct {
	ID           string       `json:"id"`
	Title        string       `json:"title"`
	Content      string       `json:"content"`
	Category     string       `json:"category"`
	Folder       string       `json:"folder"`
	AuthorID     string       `json:"author_id"`
	LastEditorID *string      `json:"last_editor_id"`
	Type         string       `json:"type"`
	Status       string       `json:"status"`
	Tags         []string     `json:"tags"`
	Attachments  []Attachment `json:"attachments"`
	Views        int          `json:"views"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// Patch lists the fields of an article edit. Nil leaves a field unchanged.
type Patch struct {
	Title       *string
	Content     *string
	Category    *string
	Folder      *string
	Tags        []string
	Attachments []Attachment
	EditorID    string
}

type Repo interface {
	// List returns articles that were not deleted, newest first
	List(ctx context.Context, limit int) ([]*Article, error)
	Create(ctx context.Context, article *Article) error
	Update(ctx context.Context, id string, patch Patch) (*Article, error)
	SoftDelete(ctx context.Context, id string) error
}
