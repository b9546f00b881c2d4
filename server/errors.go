package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/pkg/errors"

	apperrors "github.com/vintegcorp/vintegcorp/internal/errors"
)

const msgInternal = "Internal Server Error"

type messageBody struct {
	Message string `json:"message"`
}

type successBody struct {
	Success bool `json:"success"`
}

// writeError translates err into the JSON error envelope. Classified errors keep
// their status and message, configuration errors are shown verbatim as 500 and
// everything else is logged and hidden behind a generic 500.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var appErr *apperrors.AppError
	if apperrors.As(err, &appErr) {
		s.writeJSON(w, appErr.StatusCode, messageBody{Message: appErr.Message}) // nolint:errcheck
		return
	}

	var cfgErr *apperrors.ConfigError
	if apperrors.As(err, &cfgErr) {
		s.logger.Error().Err(err).Str("requestId", middleware.GetReqID(r.Context())).Msg("Configuration error")
		s.writeJSON(w, http.StatusInternalServerError, messageBody{Message: cfgErr.Error()}) // nolint:errcheck
		return
	}

	s.logger.Error().
		Err(err).
		Str("requestId", middleware.GetReqID(r.Context())).
		Str("method", r.Method).
		Str("url", r.URL.String()).
		Msg("Unhandled Exception")
	s.writeJSON(w, http.StatusInternalServerError, messageBody{Message: msgInternal}) // nolint:errcheck
}

// writeJSON only returns an error while nothing has been written, so the caller
// can still translate it. A failed write after the header is logged.
func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return errors.Wrap(err, "[Server writeJSON] failed to encode response")
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(append(body, '\n')); err != nil {
		s.logger.Warn().Err(err).Int("status", status).Msg("Failed to write response")
	}
	return nil
}

func writeNoContent(w http.ResponseWriter) error {
	w.WriteHeader(http.StatusNoContent)
	return nil
}

// storeError maps a storage sentinel to its HTTP error, passing others through
func storeError(err error, notFound string) error {
	switch {
	case apperrors.Is(err, apperrors.ErrNotFound):
		return apperrors.NotFound(notFound)
	case apperrors.Is(err, apperrors.ErrInvalidReference):
		return apperrors.BadRequest("Validation Error: referenced record does not exist")
	}
	return err
}
