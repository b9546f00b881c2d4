package config

import "time"

// fileSettings mirrors the optional YAML config file. Zero values fall through
// to the defaults of each getter.
type fileSettings struct {
	AppName     string `yaml:"app_name"`
	Env         string `yaml:"env"`
	Port        string `yaml:"port"`
	LogLevel    string `yaml:"log_level"`
	DatabaseURL string `yaml:"database_url"`
	JWTSecret   string `yaml:"jwt_secret"`

	Admin struct {
		Email    string `yaml:"email"`
		Password string `yaml:"password"`
	} `yaml:"admin"`

	Cors struct {
		AllowedOrigins []string `yaml:"allowed_origins"`
	} `yaml:"cors"`

	RateLimit struct {
		Disabled         bool          `yaml:"disabled"`
		Window           time.Duration `yaml:"window"`
		MaxRequests      int           `yaml:"max_requests"`
		SweepProbability float64       `yaml:"sweep_probability"`
	} `yaml:"rate_limit"`

	Limits struct {
		MaxBodyBytes     int64 `yaml:"max_body_bytes"`
		MaxDocumentBytes int64 `yaml:"max_document_bytes"`
	} `yaml:"limits"`
}

// setting resolves a string value: environment first, then the config file, then the default.
func setting(envVar, fileValue, defaultValue string) string {
	return GetEnv(envVar, firstNonEmpty(fileValue, defaultValue))
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
