package auth

import (
	"errors"
	"fmt"

	"github.com/Mrugank93/movies/internal/apperr"
	"golang.org/x/crypto/bcrypt"
)

// DefaultCost is the bcrypt work factor used for stored passwords.
const DefaultCost = 10

// MaxPasswordBytes is the longest password bcrypt reads in full.
const MaxPasswordBytes = 72

// Hasher hashes and verifies passwords with bcrypt.
type Hasher struct {
	cost int
}

// NewHasher returns a Hasher with the given bcrypt cost. Out of range costs
// fall back to DefaultCost.
func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultCost
	}
	return &Hasher{cost: cost}
}

// Hash returns the salted bcrypt hash of password.
func (h *Hasher) Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

// Compare checks password against hash in constant time. A mismatch is
// reported as apperr.ErrUnauthorized. Passwords over MaxPasswordBytes never
// match, since bcrypt would compare only their prefix.
func (h *Hasher) Compare(hash, password string) error {
	if len(password) > MaxPasswordBytes {
		return apperr.New(apperr.ErrUnauthorized, "invalid email or password")
	}
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if err == nil {
		return nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return apperr.New(apperr.ErrUnauthorized, "invalid email or password")
	}
	return fmt.Errorf("failed to compare password: %w", err)
}
