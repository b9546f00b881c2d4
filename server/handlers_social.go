package server

import (
	"net/http"

	"github.com/pkg/errors"

	"github.com/vintegcorp/vintegcorp/social"
	"github.com/vintegcorp/vintegcorp/validation"
)

const (
	msgAnnouncementNotFound = "Announcement not found"
	msgPostNotFound         = "Post not found"
)

// handleLikeAnnouncement toggles the caller's like
func (s *Server) handleLikeAnnouncement(w http.ResponseWriter, r *http.Request, params []string) error {
	updated, err := s.repos.Announcements.ToggleLike(r.Context(), params[0], ClaimsFrom(r.Context()).UserID)
	if err != nil {
		return storeError(err, msgAnnouncementNotFound)
	}
	return s.writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleCommentAnnouncement(w http.ResponseWriter, r *http.Request, params []string) error {
	updated, err := s.repos.Announcements.AddComment(r.Context(), params[0], s.newComment(r))
	if err != nil {
		return storeError(err, msgAnnouncementNotFound)
	}
	return s.writeJSON(w, http.StatusOK, updated)
}

// handleReadAnnouncement records a read receipt. It needs no session and
// reading twice is not an error.
func (s *Server) handleReadAnnouncement(w http.ResponseWriter, r *http.Request, params []string) error {
	body := validation.Body[validation.ReadReceiptBody](r.Context())
	if err := s.repos.Announcements.MarkRead(r.Context(), params[0], body.UserID); err != nil {
		return storeError(err, msgAnnouncementNotFound)
	}
	return s.writeJSON(w, http.StatusOK, successBody{Success: true})
}

func (s *Server) handleListFeed(w http.ResponseWriter, r *http.Request, _ []string) error {
	list, err := s.repos.Feed.List(r.Context(), limitFeed)
	if err != nil {
		return errors.Wrap(err, "[Server handleListFeed] failed to list feed")
	}
	return s.writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleCreateFeedPost(w http.ResponseWriter, r *http.Request, _ []string) error {
	body := validation.Body[validation.FeedPostBody](r.Context())
	post, err := s.repos.Feed.Create(r.Context(), ClaimsFrom(r.Context()).UserID, body.Content)
	if err != nil {
		return storeError(err, msgPostNotFound)
	}
	return s.writeJSON(w, http.StatusCreated, post)
}

func (s *Server) handleLikeFeedPost(w http.ResponseWriter, r *http.Request, params []string) error {
	updated, err := s.repos.Feed.ToggleLike(r.Context(), params[0], ClaimsFrom(r.Context()).UserID)
	if err != nil {
		return storeError(err, msgPostNotFound)
	}
	return s.writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleCommentFeedPost(w http.ResponseWriter, r *http.Request, params []string) error {
	updated, err := s.repos.Feed.AddComment(r.Context(), params[0], s.newComment(r))
	if err != nil {
		return storeError(err, msgPostNotFound)
	}
	return s.writeJSON(w, http.StatusOK, updated)
}

// newComment builds a comment from the validated body, authored by the caller
func (s *Server) newComment(r *http.Request) social.Comment {
	body := validation.Body[validation.CommentBody](r.Context())
	return social.NewComment(ClaimsFrom(r.Context()).UserID, body.AuthorName, body.AuthorAvatar, body.Content, body.Mentions, s.now())
}
