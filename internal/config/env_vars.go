package config

import (
	"os"
	"strings"
)

const (
	portEnvVar        = "PORT"
	appNameVar        = "APP_NAME"
	envVar            = "ENV"
	logLevelVar       = "LOG_LEVEL"
	adminEmailVar     = "ADMIN_EMAIL"
	adminPasswordVar  = "ADMIN_PASSWORD"
	defaultAdminEmail = "admin@corppulse.com"

	DevEnvironment = "DEV"
)

type EnvVars struct {
	file *fileSettings
}

var _ EnvConfig = EnvVars{}

func (e EnvVars) GetPort() string {
	port := setting(portEnvVar, e.file.Port, "8080")
	if !strings.HasPrefix(port, ":") {
		port = ":" + port
	}
	return port
}

func (e EnvVars) GetAppName() string {
	return setting(appNameVar, e.file.AppName, "VIntegCorp")
}

func (e EnvVars) GetEnv() string {
	return strings.ToUpper(setting(envVar, e.file.Env, DevEnvironment))
}

// GetLogLevel defaults to debug in development and info everywhere else
func (e EnvVars) GetLogLevel() string {
	defaultLevel := "info"
	if e.GetEnv() == DevEnvironment {
		defaultLevel = "debug"
	}
	return setting(logLevelVar, e.file.LogLevel, defaultLevel)
}

func (e EnvVars) GetAdminEmail() string {
	return setting(adminEmailVar, e.file.Admin.Email, defaultAdminEmail)
}

// GetAdminPassword returns the bootstrap admin password. Empty means one is generated.
func (e EnvVars) GetAdminPassword() string {
	return setting(adminPasswordVar, e.file.Admin.Password, "")
}

func GetEnv(envVar, defaultValue string) string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}
