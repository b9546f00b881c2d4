package token

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

// DefaultExpiry is how long a session token stays valid
const DefaultExpiry = 7 * 24 * time.Hour

// Claims identify the user a session token was issued to
type Claims struct {
	UserID    string
	Role      string
	Email     string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

type Manager struct {
	signer  Signer
	expiry  time.Duration
	nowFunc func() time.Time
}

type ManagerOption func(*Manager)

func WithExpiry(expiry time.Duration) ManagerOption {
	return func(m *Manager) {
		m.expiry = expiry
	}
}

func WithNowFunc(now func() time.Time) ManagerOption {
	return func(m *Manager) {
		m.nowFunc = now
	}
}

func New(signer Signer, options ...ManagerOption) *Manager {
	m := &Manager{
		signer: signer,
		expiry: DefaultExpiry,
	}
	for _, opt := range options {
		opt(m)
	}
	if m.nowFunc == nil {
		m.nowFunc = func() time.Time { return NowTimeFunc() }
	}
	return m
}

// Issue signs a session token for the given user. IssuedAt and ExpiresAt are
// taken from the manager's clock and expiry, whatever the caller set.
func (m *Manager) Issue(c Claims) (string, error) {
	now := m.nowFunc()
	signed, err := m.signer.Sign(sessionClaims{
		ID:    c.UserID,
		Role:  c.Role,
		Email: c.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.expiry)),
		},
	})
	if err != nil {
		return "", errors.Wrap(err, "[Manager Issue] failed to sign session token")
	}
	return signed, nil
}

// Verify checks the signature, algorithm and expiry of a raw token.
// Any failure yields false; the cause is not reported.
func (m *Manager) Verify(rawToken string) (*Claims, bool) {
	if strings.TrimSpace(rawToken) == "" {
		return nil, false
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{m.signer.Algorithm()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.nowFunc),
	)
	var claims sessionClaims
	token, err := parser.ParseWithClaims(rawToken, &claims, m.signer.Keyfunc)
	if err != nil || !token.Valid || claims.ID == "" {
		return nil, false
	}

	result := &Claims{UserID: claims.ID, Role: claims.Role, Email: claims.Email}
	if claims.IssuedAt != nil {
		result.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		result.ExpiresAt = claims.ExpiresAt.Time
	}
	return result, true
}
