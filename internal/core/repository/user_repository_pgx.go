package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/duynhne/classifieds-service/internal/core/domain"
)

// PgxUserRepository implements domain.UserRepository using pgxpool.
type PgxUserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new PgxUserRepository.
func NewUserRepository(pool *pgxpool.Pool) *PgxUserRepository {
	return &PgxUserRepository{pool: pool}
}

const userColumns = `id, email, hashed_password, role, token, token_expire`

func (r *PgxUserRepository) scanUser(row pgx.Row) (*domain.UserRow, error) {
	var u domain.UserRow
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Role, &u.Token, &u.TokenExpire)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

// GetByEmail returns the user matching the given email.
// Returns (nil, nil) when no user is found.
func (r *PgxUserRepository) GetByEmail(ctx context.Context, email string) (*domain.UserRow, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return r.scanUser(r.pool.QueryRow(ctx, query, email))
}

// GetByID returns the user with the given id.
// Returns (nil, nil) when no user is found.
func (r *PgxUserRepository) GetByID(ctx context.Context, id int) (*domain.UserRow, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.scanUser(r.pool.QueryRow(ctx, query, id))
}

// GetByToken returns the user holding the given session token.
// Returns (nil, nil) when the token does not match any user.
func (r *PgxUserRepository) GetByToken(ctx context.Context, token string) (*domain.UserRow, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE token = $1`
	return r.scanUser(r.pool.QueryRow(ctx, query, token))
}

// ExistsByEmail returns true when a user with the given email already exists.
func (r *PgxUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, email).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// Create inserts a new user and returns the generated user ID.
func (r *PgxUserRepository) Create(ctx context.Context, email, passwordHash string, role domain.Role) (int, error) {
	query := `INSERT INTO users (email, hashed_password, role) VALUES ($1, $2, $3) RETURNING id`

	var userID int
	if err := r.pool.QueryRow(ctx, query, email, passwordHash, role).Scan(&userID); err != nil {
		return 0, err
	}
	return userID, nil
}

// Update persists the mutable profile columns of the given row.
func (r *PgxUserRepository) Update(ctx context.Context, row *domain.UserRow) error {
	query := `UPDATE users SET email = $2, hashed_password = $3, role = $4 WHERE id = $1`
	_, err := r.pool.Exec(ctx, query, row.ID, row.Email, row.PasswordHash, row.Role)
	return err
}

// SetToken stores a session token and its expiry on the user row.
// A single UPDATE keeps the overwrite atomic: concurrent logins race
// last-write-wins on the token column, but no update is ever lost halfway.
func (r *PgxUserRepository) SetToken(ctx context.Context, userID int, token string, expiresAt time.Time) error {
	query := `UPDATE users SET token = $2, token_expire = $3 WHERE id = $1`
	_, err := r.pool.Exec(ctx, query, userID, token, expiresAt)
	return err
}

// Delete removes the user. Advertisements cascade at the schema level.
func (r *PgxUserRepository) Delete(ctx context.Context, userID int) error {
	query := `DELETE FROM users WHERE id = $1`
	_, err := r.pool.Exec(ctx, query, userID)
	return err
}
