package password

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// ErrMismatch is returned when a secret does not match its hash
var ErrMismatch = errors.New("secret does not match")

// Hasher hashes credentials and security answers with bcrypt
type Hasher struct {
	cost int
}

// NewHasher creates a hasher; a cost outside bcrypt's range falls back to the default
func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Hasher{cost: cost}
}

// Hash returns the bcrypt hash of secret
func (h *Hasher) Hash(secret string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash secret: %w", err)
	}
	return string(hash), nil
}

// Compare checks secret against hash
func (h *Hasher) Compare(hash, secret string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret)); err != nil {
		return ErrMismatch
	}
	return nil
}

// HashAnswer hashes a security answer after normalizing case and surrounding space
func (h *Hasher) HashAnswer(answer string) (string, error) {
	return h.Hash(NormalizeAnswer(answer))
}

// CompareAnswer checks a security answer with the same normalization as HashAnswer
func (h *Hasher) CompareAnswer(hash, answer string) error {
	return h.Compare(hash, NormalizeAnswer(answer))
}

// NormalizeAnswer lower-cases and collapses whitespace
func NormalizeAnswer(answer string) string {
	return strings.ToLower(strings.Join(strings.Fields(answer), " "))
}
