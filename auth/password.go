package auth

import (
	"golang.org/x/crypto/bcrypt"
)

// DefaultHashCost is the bcrypt work factor used for stored passwords
const DefaultHashCost = 12

// Hasher hashes and checks passwords with bcrypt
type Hasher struct {
	cost int
}

// NewHasher returns a Hasher with the given cost. Costs outside bcrypt's
// accepted range fall back to DefaultHashCost.
func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultHashCost
	}
	return &Hasher{cost: cost}
}

func (h *Hasher) Hash(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	return string(bytes), err
}

func (h *Hasher) Verify(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
