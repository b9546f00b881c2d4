package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config interface {
	EnvConfig
	CorsConfig
	SecurityConfig
	StoreConfig

	// Problems lists the soft failures found in the configuration. The server
	// still starts when there are problems; affected features report them instead.
	Problems() []error
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetEnv() string
	GetLogLevel() string
	GetAdminEmail() string
	GetAdminPassword() string
}

type CorsConfig interface {
	GetAllowedOrigins() AllowedOrigins
	GetAllowedMethods() string
	GetAllowedHeaders() string
}

type mainConfig struct {
	EnvVars
	Cors
	Security
	Store
}

// New returns a configuration backed by environment variables and defaults.
func New() Config {
	return newMainConfig(&fileSettings{})
}

// Load reads a YAML config file, expanding environment variables in it.
// Environment variables still take precedence over values in the file.
func Load(path string) (Config, error) {
	if path == "" {
		return New(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	settings := &fileSettings{}
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), settings); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return newMainConfig(settings), nil
}

func newMainConfig(settings *fileSettings) mainConfig {
	return mainConfig{
		EnvVars:  EnvVars{file: settings},
		Cors:     Cors{file: settings},
		Security: Security{file: settings},
		Store:    Store{file: settings},
	}
}

func (c mainConfig) Problems() []error {
	var problems []error
	if _, err := c.GetDatabasePath(); err != nil {
		problems = append(problems, err)
	}
	if err := c.secretProblem(); err != nil {
		problems = append(problems, err)
	}
	return problems
}
