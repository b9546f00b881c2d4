package config

import (
	"strconv"
	"time"

	"github.com/vintegcorp/vintegcorp/internal/errors"
)

const (
	jwtSecretVar       = "JWT_SECRET"
	minJWTSecretLength = 10

	// UnsafeFallbackSecret signs tokens when no usable JWT_SECRET is configured.
	UnsafeFallbackSecret = "unsafe-fallback-secret"
)

type SecurityConfig interface {
	GetJWTSecret() string
	GetTokenExpiry() time.Duration
	GetBcryptCost() int
	GetEnableRateLimiting() bool
	GetRateLimitWindow() time.Duration
	GetRateLimitMaxRequests() int
	GetRateLimitSweepProbability() float64
	GetMaxBodyBytes() int64
	GetMaxDocumentBytes() int64
}

type Security struct {
	file *fileSettings
}

var _ SecurityConfig = Security{}

func (s Security) GetJWTSecret() string {
	secret := setting(jwtSecretVar, s.file.JWTSecret, "")
	if len(secret) < minJWTSecretLength {
		return UnsafeFallbackSecret
	}
	return secret
}

func (s Security) secretProblem() error {
	if len(setting(jwtSecretVar, s.file.JWTSecret, "")) < minJWTSecretLength {
		return &errors.ConfigError{Setting: jwtSecretVar, Reason: "must be at least 10 characters, using an unsafe fallback secret"}
	}
	return nil
}

func (Security) GetTokenExpiry() time.Duration {
	return 7 * 24 * time.Hour
}

func (Security) GetBcryptCost() int {
	cost, err := strconv.Atoi(GetEnv("BCRYPT_COST", "12"))
	if err != nil {
		return 12
	}
	return cost
}

func (s Security) GetEnableRateLimiting() bool {
	return !s.file.RateLimit.Disabled && GetEnv("RATE_LIMIT_DISABLED", "") == ""
}

func (s Security) GetRateLimitWindow() time.Duration {
	if s.file.RateLimit.Window > 0 {
		return s.file.RateLimit.Window
	}
	return time.Minute
}

func (s Security) GetRateLimitMaxRequests() int {
	if s.file.RateLimit.MaxRequests > 0 {
		return s.file.RateLimit.MaxRequests
	}
	return 300
}

func (s Security) GetRateLimitSweepProbability() float64 {
	if s.file.RateLimit.SweepProbability > 0 {
		return s.file.RateLimit.SweepProbability
	}
	return 0.05
}

// DefaultMaxBodyBytes is 4.5 MiB, enough for a full document upload and its metadata
const DefaultMaxBodyBytes = 9 << 19

// GetMaxBodyBytes caps every request body
func (s Security) GetMaxBodyBytes() int64 {
	if s.file.Limits.MaxBodyBytes > 0 {
		return s.file.Limits.MaxBodyBytes
	}
	return DefaultMaxBodyBytes
}

// GetMaxDocumentBytes is the largest base64 payload accepted for a document
func (s Security) GetMaxDocumentBytes() int64 {
	if s.file.Limits.MaxDocumentBytes > 0 {
		return s.file.Limits.MaxDocumentBytes
	}
	return 4404019 // 4.2 MiB
}
