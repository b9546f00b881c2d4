package server

import (
	"net/http"
	"time"

	"github.com/vintegcorp/vintegcorp/auth"
	"github.com/vintegcorp/vintegcorp/users"
	"github.com/vintegcorp/vintegcorp/validation"
)

type healthBody struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

type loginResponse struct {
	User  *users.User `json:"user"`
	Token string      `json:"token"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request, _ []string) error {
	return s.writeJSON(w, http.StatusOK, healthBody{
		Status:    "ok",
		Timestamp: s.now().UTC().Format(time.RFC3339Nano),
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request, _ []string) error {
	body := validation.Body[validation.LoginBody](r.Context())
	user, signed, err := s.auth.Login(r.Context(), body.Email, body.Password)
	if err != nil {
		return err
	}
	return s.writeJSON(w, http.StatusOK, loginResponse{User: user, Token: signed})
}

func (s *Server) handleChangePassword(w http.ResponseWriter, r *http.Request, _ []string) error {
	body := validation.Body[validation.ChangePasswordBody](r.Context())
	claims := ClaimsFrom(r.Context())
	if err := s.auth.ChangePassword(r.Context(), claims, body.Email, body.OldPass, body.NewPass); err != nil {
		return err
	}
	return s.writeJSON(w, http.StatusOK, successBody{Success: true})
}

// requireAdmin rejects non-admin callers with 403 and message
func requireAdmin(r *http.Request, message string) error {
	return auth.RequireAdmin(ClaimsFrom(r.Context()), message)
}
