package announcements

import (
	"context"
	"time"

	"github.com/vintegcorp/vintegcorp/social"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

type Announcement struct {
	ID        string           `json:"id"`
	Title     string           `json:"title"`
	Content   string           `json:"content"`
	Priority  Priority         `json:"priority"`
	IsPinned  bool             `json:"is_pinned"`
	LikedBy   []string         `json:"liked_by"`
	Comments  []social.Comment `json:"comments"`
	ReadBy    []string         `json:"read_by"`
	CreatedAt time.Time        `json:"created_at"`
}

type Repo interface {
	List(ctx context.Context, limit int) ([]*Announcement, error)
	Create(ctx context.Context, a *Announcement) error
	Delete(ctx context.Context, id string) error
	ToggleLike(ctx context.Context, id, userID string) (*Announcement, error)
	AddComment(ctx context.Context, id string, comment social.Comment) (*Announcement, error)
	// MarkRead records userID as a reader. Marking twice is not an error.
	MarkRead(ctx context.Context, id, userID string) error
}
