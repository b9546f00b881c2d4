package server

import (
	"net/http"

	"github.com/pkg/errors"

	"github.com/vintegcorp/vintegcorp/announcements"
	"github.com/vintegcorp/vintegcorp/articles"
	"github.com/vintegcorp/vintegcorp/documents"
	apperrors "github.com/vintegcorp/vintegcorp/internal/errors"
	"github.com/vintegcorp/vintegcorp/validation"
)

const (
	msgArticleNotFound  = "Article not found"
	msgDocumentNotFound = "Document not found"
	msgDocumentTooLarge = "File too large (Base64 limit exceeded)."
)

func (s *Server) handleListArticles(w http.ResponseWriter, r *http.Request, _ []string) error {
	list, err := s.repos.Articles.List(r.Context(), limitArticles)
	if err != nil {
		return errors.Wrap(err, "[Server handleListArticles] failed to list articles")
	}
	return s.writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleCreateArticle(w http.ResponseWriter, r *http.Request, _ []string) error {
	body := validation.Body[validation.ArticleBody](r.Context())
	article := &articles.Article{
		Title:       body.Title,
		Content:     body.Content,
		Category:    body.Category,
		Folder:      body.Folder,
		AuthorID:    ClaimsFrom(r.Context()).UserID,
		Type:        articles.TypeKnowledge,
		Status:      articles.StatusPublished,
		Tags:        body.Tags,
		Attachments: body.Attachments,
	}
	if err := s.repos.Articles.Create(r.Context(), article); err != nil {
		return errors.Wrap(err, "[Server handleCreateArticle] failed to create article")
	}
	return s.writeJSON(w, http.StatusCreated, article)
}

// handleUpdateArticle applies the sent fields and records the caller as last editor
func (s *Server) handleUpdateArticle(w http.ResponseWriter, r *http.Request, params []string) error {
	body := validation.Body[validation.ArticlePatchBody](r.Context())
	patch := articles.Patch{
		Title:    body.Title,
		Content:  body.Content,
		Category: body.Category,
		Folder:   body.Folder,
		EditorID: ClaimsFrom(r.Context()).UserID,
	}
	if body.Tags != nil {
		patch.Tags = append([]string{}, *body.Tags...)
	}
	if body.Attachments != nil {
		patch.Attachments = append([]articles.Attachment{}, *body.Attachments...)
	}

	updated, err := s.repos.Articles.Update(r.Context(), params[0], patch)
	if err != nil {
		return storeError(err, msgArticleNotFound)
	}
	return s.writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteArticle(w http.ResponseWriter, r *http.Request, params []string) error {
	if err := requireAdmin(r, msgForbidden); err != nil {
		return err
	}
	if err := s.repos.Articles.SoftDelete(r.Context(), params[0]); err != nil && !apperrors.Is(err, apperrors.ErrNotFound) {
		return errors.Wrap(err, "[Server handleDeleteArticle] failed to delete article")
	}
	return writeNoContent(w)
}

func (s *Server) handleListAnnouncements(w http.ResponseWriter, r *http.Request, _ []string) error {
	list, err := s.repos.Announcements.List(r.Context(), limitAnnouncements)
	if err != nil {
		return errors.Wrap(err, "[Server handleListAnnouncements] failed to list announcements")
	}
	return s.writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleCreateAnnouncement(w http.ResponseWriter, r *http.Request, _ []string) error {
	if err := requireAdmin(r, msgForbidden); err != nil {
		return err
	}
	body := validation.Body[validation.AnnouncementBody](r.Context())
	a := &announcements.Announcement{
		Title:    body.Title,
		Content:  body.Content,
		Priority: announcements.Priority(body.Priority),
		IsPinned: body.IsPinned,
	}
	if err := s.repos.Announcements.Create(r.Context(), a); err != nil {
		return errors.Wrap(err, "[Server handleCreateAnnouncement] failed to create announcement")
	}
	return s.writeJSON(w, http.StatusCreated, a)
}

func (s *Server) handleDeleteAnnouncement(w http.ResponseWriter, r *http.Request, params []string) error {
	if err := requireAdmin(r, msgForbidden); err != nil {
		return err
	}
	if err := s.repos.Announcements.Delete(r.Context(), params[0]); err != nil && !apperrors.Is(err, apperrors.ErrNotFound) {
		return errors.Wrap(err, "[Server handleDeleteAnnouncement] failed to delete announcement")
	}
	return writeNoContent(w)
}

func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request, _ []string) error {
	list, err := s.repos.Documents.List(r.Context(), limitDocuments)
	if err != nil {
		return errors.Wrap(err, "[Server handleListDocuments] failed to list documents")
	}
	return s.writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request, params []string) error {
	doc, err := s.repos.Documents.Get(r.Context(), params[0])
	if err != nil {
		return storeError(err, msgDocumentNotFound)
	}
	return s.writeJSON(w, http.StatusOK, doc)
}

// handleCreateDocument stores the base64 content in the database. The stored
// content is not echoed back.
func (s *Server) handleCreateDocument(w http.ResponseWriter, r *http.Request, _ []string) error {
	body := validation.Body[validation.DocumentBody](r.Context())
	if int64(len(body.Data)) > s.config.GetMaxDocumentBytes() {
		return apperrors.PayloadTooLarge(msgDocumentTooLarge)
	}

	doc := &documents.Document{
		Filename:      body.Filename,
		MimeType:      body.MimeType,
		FileSizeBytes: body.FileSizeBytes,
		AccessRole:    body.AccessRole,
		UploadedBy:    ClaimsFrom(r.Context()).UserID,
		Data:          body.Data,
	}
	if err := s.repos.Documents.Create(r.Context(), doc); err != nil {
		return errors.Wrap(err, "[Server handleCreateDocument] failed to store document")
	}
	doc.Data = ""
	return s.writeJSON(w, http.StatusCreated, doc)
}

func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request, params []string) error {
	if err := requireAdmin(r, msgForbidden); err != nil {
		return err
	}
	if err := s.repos.Documents.Delete(r.Context(), params[0]); err != nil && !apperrors.Is(err, apperrors.ErrNotFound) {
		return errors.Wrap(err, "[Server handleDeleteDocument] failed to delete document")
	}
	return writeNoContent(w)
}
