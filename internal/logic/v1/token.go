package v1

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/duynhne/classifieds-service/internal/core/domain"
)

// DefaultTokenTTL is how long an issued session token stays valid.
const DefaultTokenTTL = 48 * time.Hour

// TokenManager issues and validates opaque session tokens. A token is a
// canonical UUIDv4 string (36 characters, 122 bits of randomness) used
// purely as a lookup key; it carries no decodable structure.
//
// Each user holds at most one token at a time: issuing overwrites whatever
// was stored before, so the previous token stops validating because it is
// gone, not because it was separately revoked. Expiry is checked lazily at
// validation time; there is no background sweep and correctness does not
// depend on one.
type TokenManager struct {
	users domain.UserRepository
	ttl   time.Duration
	now   func() time.Time
}

// NewTokenManager creates a TokenManager storing tokens through the given
// user repository. A non-positive ttl falls back to DefaultTokenTTL.
func NewTokenManager(users domain.UserRepository, ttl time.Duration) *TokenManager {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenManager{users: users, ttl: ttl, now: time.Now}
}

// Issue generates a fresh token for the user, sets its expiry to now + ttl,
// and persists both in a single row update, replacing any previous token.
func (m *TokenManager) Issue(ctx context.Context, userID int) (string, error) {
	token := uuid.NewString()
	expiresAt := m.now().UTC().Add(m.ttl)

	if err := m.users.SetToken(ctx, userID, token, expiresAt); err != nil {
		return "", fmt.Errorf("store token for user %d: %w", userID, err)
	}
	return token, nil
}

// Validate reports whether the presented token is the user's current,
// unexpired token. It is a pure check with no side effects.
//
// The stored expiry is normalized to UTC before comparison. Drivers and
// databases disagree about the zone attached to retrieved timestamps, and
// a zone-less timestamp must be read as UTC rather than compared in
// whatever location the process happens to run in. The token is valid
// strictly before the expiry instant: at exactly ttl after issuance it is
// already expired.
func (m *TokenManager) Validate(user *domain.UserRow, presented string) bool {
	if user == nil || user.Token == nil || user.TokenExpire == nil {
		return false
	}
	if presented == "" || *user.Token != presented {
		return false
	}
	expire := user.TokenExpire.UTC()
	return m.now().UTC().Before(expire)
}
