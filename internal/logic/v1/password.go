package v1

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// maxPasswordBytes is bcrypt's input limit. Longer plaintexts are
// truncated before hashing and before verification, so a password longer
// than 72 bytes silently loses its tail on both sides. This matches the
// caller contract of the original API and is not an error condition.
const maxPasswordBytes = 72

// PasswordHasher produces and verifies salted bcrypt digests. The cost is
// explicit configuration threaded in at construction time, not ambient
// state, so tests can run with a cheap cost and production with a real one.
type PasswordHasher struct {
	cost int
}

// NewPasswordHasher creates a PasswordHasher with the given bcrypt cost.
// Costs outside bcrypt's supported range fall back to the default.
func NewPasswordHasher(cost int) *PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &PasswordHasher{cost: cost}
}

func truncatePassword(password string) []byte {
	b := []byte(password)
	if len(b) > maxPasswordBytes {
		b = b[:maxPasswordBytes]
	}
	return b
}

// Hash produces a salted digest of the given plaintext. Two calls on the
// same plaintext yield different digests; the digest embeds the algorithm,
// cost, and salt needed for later verification.
func (h *PasswordHasher) Hash(password string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword(truncatePassword(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(digest), nil
}

// Verify reports whether the plaintext matches the stored digest.
// A mismatch is (false, nil). A digest that cannot be parsed is
// (false, ErrInvalidDigest): verification fails closed and never turns a
// corrupt stored hash into an authenticated state.
func (h *PasswordHasher) Verify(password, digest string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(digest), truncatePassword(password))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("verify password: %w", ErrInvalidDigest)
	}
}
