// Package social holds the interaction types shared by announcements and the
// employee feed: comments, likes and read receipts.
package social

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

type Comment struct {
	ID           string    `json:"id"`
	AuthorID     string    `json:"author_id"`
	AuthorName   string    `json:"author_name"`
	AuthorAvatar string    `json:"author_avatar"`
	Content      string    `json:"content"`
	Mentions     []string  `json:"mentions,omitempty"`
	Date         time.Time `json:"date"`
}

// NewComment stamps a comment with a fresh id and the given date
func NewComment(authorID, authorName, authorAvatar, content string, mentions []string, now time.Time) Comment {
	return Comment{
		ID:           uuid.New().String(),
		AuthorID:     authorID,
		AuthorName:   authorName,
		AuthorAvatar: authorAvatar,
		Content:      content,
		Mentions:     mentions,
		Date:         now.UTC(),
	}
}

// ToggleMember removes userID from ids when present and appends it otherwise.
// The input slice is not modified.
func ToggleMember(ids []string, userID string) []string {
	if slices.Contains(ids, userID) {
		return slices.DeleteFunc(slices.Clone(ids), func(id string) bool { return id == userID })
	}
	return append(slices.Clone(ids), userID)
}

// AddMember appends userID unless it is already present. The bool reports a change.
func AddMember(ids []string, userID string) ([]string, bool) {
	if slices.Contains(ids, userID) {
		return ids, false
	}
	return append(slices.Clone(ids), userID), true
}
