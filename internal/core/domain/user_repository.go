package domain

import (
	"context"
	"time"
)

// Role is the closed set of user roles. Authorization decisions switch on
// it explicitly; there is no permission hierarchy beyond these two values.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid reports whether the role is one of the known values.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// UserRow represents a user record returned from the database.
// It includes the password hash so the Logic layer can verify credentials,
// and the session token columns so the Logic layer can validate tokens.
// Token and TokenExpire are both set or both nil: a user without an active
// session has neither.
type UserRow struct {
	ID           int
	Email        string
	PasswordHash string
	Role         Role
	Token        *string
	TokenExpire  *time.Time
}

// UserRepository defines the data-access contract for user operations.
// Implementations live in internal/core/repository (Core layer).
// The Logic layer depends on this interface only — never on SQL or pgx directly.
type UserRepository interface {
	// GetByEmail returns the user matching the given email.
	// Returns (nil, nil) when no user is found.
	GetByEmail(ctx context.Context, email string) (*UserRow, error)

	// GetByID returns the user with the given id.
	// Returns (nil, nil) when no user is found.
	GetByID(ctx context.Context, id int) (*UserRow, error)

	// GetByToken returns the user holding the given session token.
	// Returns (nil, nil) when the token does not match any user.
	GetByToken(ctx context.Context, token string) (*UserRow, error)

	// ExistsByEmail returns true when a user with the given email already exists.
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// Create inserts a new user and returns the generated user ID.
	Create(ctx context.Context, email, passwordHash string, role Role) (int, error)

	// Update persists the mutable profile columns (email, hashed_password,
	// role) of the given row. Token columns are managed through SetToken.
	Update(ctx context.Context, row *UserRow) error

	// SetToken stores a session token and its expiry on the user row in a
	// single statement, replacing whatever token was there before.
	SetToken(ctx context.Context, userID int, token string, expiresAt time.Time) error

	// Delete removes the user. Owned advertisements go with it
	// (ON DELETE CASCADE).
	Delete(ctx context.Context, userID int) error
}
