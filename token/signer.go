package token

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

// Signer produces and checks session token signatures
type Signer interface {
	Sign(claims jwt.Claims) (string, error)
	// Keyfunc hands the parser the key for a token, refusing foreign algorithms
	Keyfunc(token *jwt.Token) (any, error)
	Algorithm() string
}

// sessionClaims is the wire form of a session token: {id, role, email, iat, exp}
type sessionClaims struct {
	ID    string `json:"id"`
	Role  string `json:"role"`
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// HMACsigner signs with HS256 and a shared secret
type HMACsigner struct {
	secret []byte
}

var _ Signer = (*HMACsigner)(nil)

func NewHMACSigner(secret string) *HMACsigner {
	return &HMACsigner{secret: []byte(secret)}
}

func (h *HMACsigner) Sign(claims jwt.Claims) (string, error) {
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(h.secret)
	if err != nil {
		return "", errors.Wrap(err, "[HMACsigner Sign] failed to sign token")
	}
	return signed, nil
}

func (h *HMACsigner) Keyfunc(token *jwt.Token) (any, error) {
	if token.Method != jwt.SigningMethodHS256 {
		return nil, errors.Errorf("[HMACsigner Keyfunc] unexpected signing method: %v", token.Header["alg"])
	}
	return h.secret, nil
}

func (h *HMACsigner) Algorithm() string {
	return jwt.SigningMethodHS256.Alg()
}
