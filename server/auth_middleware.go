package server

import (
	"context"
	"errors"
	"io"
	"net/http"

	apperrors "github.com/vintegcorp/vintegcorp/internal/errors"
	"github.com/vintegcorp/vintegcorp/token"
	"github.com/vintegcorp/vintegcorp/validation"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

// ContextKeyClaims stores the verified session claims
const ContextKeyClaims ContextKey = "claims"

func withClaims(ctx context.Context, c *token.Claims) context.Context {
	return context.WithValue(ctx, ContextKeyClaims, c)
}

// ClaimsFrom returns the session claims of an authenticated request
func ClaimsFrom(ctx context.Context) *token.Claims {
	c, _ := ctx.Value(ContextKeyClaims).(*token.Claims)
	return c
}

// authenticate validates the bearer token of r
func (s *Server) authenticate(r *http.Request) (*token.Claims, error) {
	if s.auth == nil {
		return nil, s.storeErr
	}
	return s.auth.Authenticate(r.Header.Get("Authorization"))
}

// bindBody reads the capped request body and validates it, storing the typed
// value in the returned context.
func (s *Server) bindBody(w http.ResponseWriter, r *http.Request, binder validation.Binder) (context.Context, error) {
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.config.GetMaxBodyBytes()))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, apperrors.PayloadTooLarge("Request body too large")
		}
		return nil, apperrors.BadRequest("Validation Error: body: %s", err.Error())
	}
	body, err := binder.Bind(raw)
	if err != nil {
		return nil, err
	}
	return validation.WithBody(r.Context(), body), nil
}
