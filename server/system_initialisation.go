package server

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/vintegcorp/vintegcorp/auth"
	apperrors "github.com/vintegcorp/vintegcorp/internal/errors"
	"github.com/vintegcorp/vintegcorp/users"
)

const DefaultSuperAdminName = "System Administrator"

// InitialiseSystem makes sure the super admin account exists.
// Returns the generated password on first creation (empty string if already exists)
func (s *Server) InitialiseSystem(ctx context.Context) (string, error) {
	return SeedAdmin(ctx, s.repos.Users, s.hasher, s.config.GetAdminEmail(), s.config.GetAdminPassword(), s.logger)
}

// SeedAdmin creates the super admin with email unless that account exists.
// An empty password is replaced by a random one, which is returned and logged once.
func SeedAdmin(ctx context.Context, repo users.UserRepo, hasher *auth.Hasher, email, password string, logger zerolog.Logger) (string, error) {
	existing, err := repo.GetByEmail(ctx, email)
	if err == nil && existing != nil {
		logger.Debug().Str("email", email).Msg("Super admin already exists")
		return "", nil
	}
	if !apperrors.Is(err, apperrors.ErrNotFound) {
		return "", fmt.Errorf("[server SeedAdmin] failed to look up admin: %w", err)
	}

	generatedPassword := password
	if generatedPassword == "" {
		// Generate a secure random password
		passwordBytes := make([]byte, 16)
		if _, err := rand.Read(passwordBytes); err != nil {
			return "", fmt.Errorf("[server SeedAdmin] failed to generate password: %w", err)
		}
		generatedPassword = base64.URLEncoding.EncodeToString(passwordBytes)
	}

	hash, err := hasher.Hash(generatedPassword)
	if err != nil {
		return "", fmt.Errorf("[server SeedAdmin] failed to hash password: %w", err)
	}

	admin := &users.User{
		Name:         DefaultSuperAdminName,
		Email:        email,
		PasswordHash: hash,
		Role:         users.RoleAdmin,
		Position:     "Administrator",
		Department:   "IT",
		AvatarURL:    users.DefaultAvatarURL(DefaultSuperAdminName),
	}
	if err := repo.Create(ctx, admin); err != nil {
		return "", fmt.Errorf("[server SeedAdmin] failed to create super admin: %w", err)
	}

	logger.Info().Msg("👤 Super Admin Credentials:")
	logger.Info().Msgf("   Email:       %s", email)
	if password == "" {
		logger.Info().Msgf("   Password:    %s     (⚠️ change it after the first login)", generatedPassword)
	}
	return generatedPassword, nil
}
