package feed

import (
	"context"
	"time"

	"github.com/vintegcorp/vintegcorp/social"
)

// Update is a post on the employee activity feed
type Update struct {
	ID           string           `json:"id"`
	Content      string           `json:"content"`
	AuthorID     string           `json:"author_id"`
	AuthorName   string           `json:"author_name"`
	AuthorAvatar string           `json:"author_avatar"`
	LikedBy      []string         `json:"liked_by"`
	LikesCount   int              `json:"likes_count"`
	Comments     []social.Comment `json:"comments"`
	CreatedAt    time.Time        `json:"created_at"`
}

type Repo interface {
	List(ctx context.Context, limit int) ([]*Update, error)
	Get(ctx context.Context, id string) (*Update, error)
	Create(ctx context.Context, authorID, content string) (*Update, error)
	// ToggleLike flips userID in the like list and keeps LikesCount in step
	ToggleLike(ctx context.Context, id, userID string) (*Update, error)
	AddComment(ctx context.Context, id string, comment social.Comment) (*Update, error)
}
