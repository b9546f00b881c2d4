package server

import (
	"net/http"

	"github.com/pkg/errors"

	"github.com/vintegcorp/vintegcorp/auth"
	apperrors "github.com/vintegcorp/vintegcorp/internal/errors"
	"github.com/vintegcorp/vintegcorp/users"
	"github.com/vintegcorp/vintegcorp/validation"
)

const (
	msgAccessDenied     = "Access denied"
	msgEmailTaken       = "Email already taken"
	msgOnlyAdminDeletes = "Only admins can delete users"
	msgNoSelfDelete     = "You cannot delete your own account"
)

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request, _ []string) error {
	list, err := s.repos.Users.List(r.Context())
	if err != nil {
		return errors.Wrap(err, "[Server handleListUsers] failed to list users")
	}
	return s.writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request, _ []string) error {
	if err := requireAdmin(r, msgAccessDenied); err != nil {
		return err
	}
	body := validation.Body[validation.UserBody](r.Context())

	hash, err := s.hasher.Hash(body.Password)
	if err != nil {
		return errors.Wrap(err, "[Server handleCreateUser] failed to hash password")
	}
	user := &users.User{
		Name:         body.Name,
		Email:        body.Email,
		PasswordHash: hash,
		Role:         users.RoleType(body.Role),
		Position:     body.Position,
		Department:   body.Department,
		AvatarURL:    body.AvatarURL,
	}
	if err := s.repos.Users.Create(r.Context(), user); err != nil {
		if apperrors.Is(err, apperrors.ErrConflict) {
			return apperrors.Conflict(msgEmailTaken)
		}
		return errors.Wrap(err, "[Server handleCreateUser] failed to create user")
	}
	return s.writeJSON(w, http.StatusCreated, user)
}

// handleUpdateUser lets users edit their own profile. Only admins may edit
// others or change a role; a role sent by anyone else is ignored.
func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request, params []string) error {
	id := params[0]
	claims := ClaimsFrom(r.Context())
	isAdmin := auth.IsAdmin(claims)
	if claims.UserID != id && !isAdmin {
		return apperrors.Forbidden(msgAccessDenied)
	}

	body := validation.Body[validation.UserPatchBody](r.Context())
	patch := users.Patch{
		Name:       body.Name,
		Position:   body.Position,
		Department: body.Department,
		AvatarURL:  body.AvatarURL,
	}
	if isAdmin && body.Role != nil {
		role := users.RoleType(*body.Role)
		patch.Role = &role
	}

	updated, err := s.repos.Users.Update(r.Context(), id, patch)
	if err != nil {
		return storeError(err, auth.MsgUserNotFound)
	}
	return s.writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request, params []string) error {
	if err := requireAdmin(r, msgOnlyAdminDeletes); err != nil {
		return err
	}
	id := params[0]
	if ClaimsFrom(r.Context()).UserID == id {
		return apperrors.BadRequest(msgNoSelfDelete)
	}
	if err := s.repos.Users.SoftDelete(r.Context(), id); err != nil && !apperrors.Is(err, apperrors.ErrNotFound) {
		return errors.Wrap(err, "[Server handleDeleteUser] failed to delete user")
	}
	return writeNoContent(w)
}
