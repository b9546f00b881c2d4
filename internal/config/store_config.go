package config

import (
	"net/url"
	"strings"

	"github.com/vintegcorp/vintegcorp/internal/errors"
)

const databaseURLVar = "DATABASE_URL"

type StoreConfig interface {
	GetDatabaseURL() string
	GetDatabasePath() (string, error)
}

type Store struct {
	file *fileSettings
}

var _ StoreConfig = Store{}

func (s Store) GetDatabaseURL() string {
	return setting(databaseURLVar, s.file.DatabaseURL, "")
}

// GetDatabasePath turns DATABASE_URL into a sqlite data source name.
// Accepted forms: sqlite://path/to.db, file:path/to.db?opts and :memory:.
func (s Store) GetDatabasePath() (string, error) {
	raw := strings.TrimSpace(s.GetDatabaseURL())
	if raw == "" {
		return "", &errors.ConfigError{Setting: databaseURLVar, Reason: "is not set"}
	}
	if raw == ":memory:" || strings.HasPrefix(raw, "file:") {
		return raw, nil
	}

	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" {
		return "", &errors.ConfigError{Setting: databaseURLVar, Reason: "must be a valid URL"}
	}
	if u.Scheme != "sqlite" {
		return "", &errors.ConfigError{Setting: databaseURLVar, Reason: "uses unsupported scheme " + u.Scheme}
	}

	path := strings.TrimPrefix(raw, "sqlite://")
	if path == "" {
		return "", &errors.ConfigError{Setting: databaseURLVar, Reason: "has no database path"}
	}
	return path, nil
}
