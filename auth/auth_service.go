package auth

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	apperrors "github.com/vintegcorp/vintegcorp/internal/errors"
	"github.com/vintegcorp/vintegcorp/token"
	"github.com/vintegcorp/vintegcorp/users"
)

// Service authenticates intranet users and manages their passwords
type Service struct {
	users  users.UserRepo
	hasher *Hasher
	tokens *token.Manager
	logger zerolog.Logger
}

// ServiceOption defines a function type to modify the Service instance.
type ServiceOption func(*Service)

func WithLogger(l zerolog.Logger) ServiceOption {
	return func(s *Service) {
		s.logger = l
	}
}

func NewService(userRepo users.UserRepo, hasher *Hasher, tokens *token.Manager, options ...ServiceOption) (*Service, error) {
	if userRepo == nil {
		return nil, errors.New("[NewService] Users repo is required")
	}
	if hasher == nil {
		return nil, errors.New("[NewService] hasher is required")
	}
	if tokens == nil {
		return nil, errors.New("[NewService] token manager is required")
	}

	s := &Service{
		users:  userRepo,
		hasher: hasher,
		tokens: tokens,
		logger: log.Logger,
	}
	for _, opt := range options {
		opt(s)
	}
	return s, nil
}

func (s *Service) Hasher() *Hasher {
	return s.hasher
}

// Login checks the credentials of an active user and issues a session token.
// Unknown emails, inactive users and wrong passwords are indistinguishable.
func (s *Service) Login(ctx context.Context, email, password string) (*users.User, string, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if apperrors.Is(err, apperrors.ErrNotFound) {
		return nil, "", apperrors.Unauthorized(MsgInvalidCredentials)
	}
	if err != nil {
		return nil, "", errors.Wrap(err, "[Service Login] failed to look up user")
	}
	if !user.IsActive || !s.hasher.Verify(password, user.PasswordHash) {
		return nil, "", apperrors.Unauthorized(MsgInvalidCredentials)
	}

	signed, err := s.tokens.Issue(token.Claims{UserID: user.ID, Role: string(user.Role), Email: user.Email})
	if err != nil {
		return nil, "", errors.Wrap(err, "[Service Login] failed to issue token")
	}

	s.logger.Info().Str("userId", user.ID).Msg("User logged in")
	return user, signed, nil
}

// Authenticate resolves the claims carried by an Authorization header
func (s *Service) Authenticate(authHeader string) (*token.Claims, error) {
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || strings.TrimSpace(parts[1]) == "" {
		return nil, apperrors.Unauthorized(MsgMissingToken)
	}

	claims, ok := s.tokens.Verify(strings.TrimSpace(parts[1]))
	if !ok {
		return nil, apperrors.Unauthorized(MsgInvalidToken)
	}
	return claims, nil
}

// ChangePassword sets a new password for email. Users may only change their own
// password and must prove the old one; admins may change anyone's without it.
func (s *Service) ChangePassword(ctx context.Context, requester *token.Claims, email, oldPassword, newPassword string) error {
	isAdmin := IsAdmin(requester)
	if !strings.EqualFold(requester.Email, email) && !isAdmin {
		return apperrors.Forbidden(MsgForbidden)
	}

	user, err := s.users.GetByEmail(ctx, email)
	if apperrors.Is(err, apperrors.ErrNotFound) {
		return apperrors.NotFound(MsgUserNotFound)
	}
	if err != nil {
		return errors.Wrap(err, "[Service ChangePassword] failed to look up user")
	}

	if !isAdmin && !s.hasher.Verify(oldPassword, user.PasswordHash) {
		return apperrors.Unauthorized(MsgWrongOldPassword)
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return errors.Wrap(err, "[Service ChangePassword] failed to hash password")
	}
	if err := s.users.SetPasswordHash(ctx, email, hash); err != nil {
		return errors.Wrap(err, "[Service ChangePassword] failed to store password")
	}
	s.logger.Info().Str("userId", user.ID).Str("by", requester.UserID).Msg("Password changed")
	return nil
}

func IsAdmin(c *token.Claims) bool {
	return c != nil && c.Role == string(users.RoleAdmin)
}

// RequireAdmin returns a 403 error carrying message unless c belongs to an admin
func RequireAdmin(c *token.Claims, message string) error {
	if !IsAdmin(c) {
		return apperrors.Forbidden(message)
	}
	return nil
}
