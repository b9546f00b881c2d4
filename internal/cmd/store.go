package cmd

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/vintegcorp/vintegcorp/internal/config"
	"github.com/vintegcorp/vintegcorp/server"
	"github.com/vintegcorp/vintegcorp/storage/sqlite"
)

// openRepos opens the configured database. When it is missing or cannot be
// opened the server still starts with nil repos and reports the problem per request.
func openRepos(ctx context.Context, cfg config.Config, logger zerolog.Logger) (*server.Repos, func()) {
	path, err := cfg.GetDatabasePath()
	if err != nil {
		logger.Warn().Err(err).Msg("Database not configured, store-backed routes are disabled")
		return nil, func() {}
	}
	store, err := sqlite.Open(ctx, path)
	if err != nil {
		logger.Error().Err(err).Str("path", path).Msg("Failed to open database, store-backed routes are disabled")
		return nil, func() {}
	}
	logger.Info().Str("path", path).Msg("💾 Database ready")
	return server.ReposFromStore(store), func() {
		if err := store.Close(); err != nil {
			logger.Warn().Err(err).Msg("Failed to close database")
		}
	}
}
