package v1

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/duynhne/classifieds-service/internal/core/domain"
	"github.com/duynhne/classifieds-service/middleware"
)

// UserService implements registration, login, and user record management.
// It depends on the repository interface (injected via constructor) and
// MUST NOT access the database or SQL directly.
type UserService struct {
	users  domain.UserRepository
	hasher *PasswordHasher
	tokens *TokenManager
}

// NewUserService creates a new UserService with the given dependencies.
func NewUserService(users domain.UserRepository, hasher *PasswordHasher, tokens *TokenManager) *UserService {
	return &UserService{
		users:  users,
		hasher: hasher,
		tokens: tokens,
	}
}

// Register creates a new user with role "user". The password is hashed
// before it is stored; the plaintext and the hash never leave this layer.
func (s *UserService) Register(ctx context.Context, req domain.RegisterRequest) (*domain.User, error) {
	ctx, span := middleware.StartSpan(ctx, "user.register", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.String("email", req.Email),
	))
	defer span.End()

	exists, err := s.users.ExistsByEmail(ctx, req.Email)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("check existing email: %w", err)
	}
	if exists {
		span.SetAttributes(attribute.Bool("registration.success", false))
		return nil, fmt.Errorf("register %q: %w", req.Email, ErrEmailExists)
	}

	passwordHash, err := s.hasher.Hash(req.Password)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	userID, err := s.users.Create(ctx, req.Email, passwordHash, domain.RoleUser)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("insert user: %w", err)
	}

	span.SetAttributes(
		attribute.Int("user.id", userID),
		attribute.Bool("registration.success", true),
	)
	span.AddEvent("user.registered")

	return &domain.User{ID: userID, Email: req.Email, Role: domain.RoleUser}, nil
}

// Login verifies the credentials and issues a fresh session token,
// replacing any token from an earlier login. An unknown email and a wrong
// password both come back as ErrInvalidCredentials.
func (s *UserService) Login(ctx context.Context, req domain.LoginRequest) (*domain.TokenResponse, error) {
	ctx, span := middleware.StartSpan(ctx, "user.login", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.String("email", req.Email),
	))
	defer span.End()

	row, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("query user %q: %w", req.Email, err)
	}
	if row == nil {
		span.SetAttributes(attribute.Bool("auth.success", false))
		span.AddEvent("authentication.failed")
		return nil, fmt.Errorf("authenticate %q: %w", req.Email, ErrInvalidCredentials)
	}

	ok, err := s.hasher.Verify(req.Password, row.PasswordHash)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("authenticate %q: %w", req.Email, err)
	}
	if !ok {
		span.SetAttributes(attribute.Bool("auth.success", false))
		span.AddEvent("authentication.failed")
		return nil, fmt.Errorf("authenticate %q: %w", req.Email, ErrInvalidCredentials)
	}

	token, err := s.tokens.Issue(ctx, row.ID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	span.SetAttributes(
		attribute.Int("user.id", row.ID),
		attribute.Bool("auth.success", true),
	)
	span.AddEvent("user.authenticated")

	return &domain.TokenResponse{AccessToken: token, TokenType: "bearer"}, nil
}

// GetUserByToken resolves the user holding the given session token and
// checks it is still valid. All failure modes collapse into
// ErrInvalidToken so a caller cannot tell an expired session from a token
// that never existed.
func (s *UserService) GetUserByToken(ctx context.Context, token string) (*domain.UserRow, error) {
	ctx, span := middleware.StartSpan(ctx, "user.get_by_token", trace.WithAttributes(
		attribute.String("layer", "logic"),
	))
	defer span.End()

	if token == "" {
		span.SetAttributes(attribute.Bool("session.valid", false))
		return nil, fmt.Errorf("empty token: %w", ErrInvalidToken)
	}

	row, err := s.users.GetByToken(ctx, token)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("query token: %w", err)
	}
	if !s.tokens.Validate(row, token) {
		span.SetAttributes(attribute.Bool("session.valid", false))
		return nil, fmt.Errorf("validate token: %w", ErrInvalidToken)
	}

	span.SetAttributes(
		attribute.Int("user.id", row.ID),
		attribute.Bool("session.valid", true),
	)

	return row, nil
}

// Get returns the target user's public record. The target is looked up
// first, so a genuinely missing user is NotFound even for an actor who
// would not have been allowed to see it.
func (s *UserService) Get(ctx context.Context, actor *domain.UserRow, id int) (*domain.User, error) {
	ctx, span := middleware.StartSpan(ctx, "user.get", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.Int("target.id", id),
	))
	defer span.End()

	row, err := s.users.GetByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("query user %d: %w", id, err)
	}
	if row == nil {
		return nil, fmt.Errorf("get user %d: %w", id, ErrUserNotFound)
	}
	if !CanActOnUser(actor, id) {
		return nil, fmt.Errorf("get user %d: %w", id, ErrForbidden)
	}

	user := domain.PublicUser(row)
	return &user, nil
}

// Update applies a partial update to the target user. Only fields present
// in the request change; omitted and empty-string fields keep their stored
// values, so an account can never end up with a blank email or a password
// of "". A new email that another user already holds is rejected with
// ErrEmailExists, like Register. A new password is hashed before storage.
// A role change is applied only when the actor is an admin and the
// supplied role is valid; otherwise the field is silently ignored.
func (s *UserService) Update(ctx context.Context, actor *domain.UserRow, id int, req domain.UpdateUserRequest) (*domain.User, error) {
	ctx, span := middleware.StartSpan(ctx, "user.update", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.Int("target.id", id),
	))
	defer span.End()

	row, err := s.users.GetByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("query user %d: %w", id, err)
	}
	if row == nil {
		return nil, fmt.Errorf("update user %d: %w", id, ErrUserNotFound)
	}
	if !CanActOnUser(actor, id) {
		return nil, fmt.Errorf("update user %d: %w", id, ErrForbidden)
	}

	if req.Email != nil && *req.Email != "" && *req.Email != row.Email {
		exists, err := s.users.ExistsByEmail(ctx, *req.Email)
		if err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("check existing email: %w", err)
		}
		if exists {
			return nil, fmt.Errorf("update user %d: %w", id, ErrEmailExists)
		}
		row.Email = *req.Email
	}
	if req.Password != nil && *req.Password != "" {
		hash, err := s.hasher.Hash(*req.Password)
		if err != nil {
			span.RecordError(err)
			return nil, err
		}
		row.PasswordHash = hash
	}
	if req.Role != nil && CanChangeRole(actor) && req.Role.Valid() {
		row.Role = *req.Role
	}

	if err := s.users.Update(ctx, row); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("update user %d: %w", id, err)
	}

	span.AddEvent("user.updated")
	user := domain.PublicUser(row)
	return &user, nil
}

// Delete removes the target user. Owned advertisements cascade away with
// the user, so no advertisement is ever left pointing at a missing owner.
func (s *UserService) Delete(ctx context.Context, actor *domain.UserRow, id int) error {
	ctx, span := middleware.StartSpan(ctx, "user.delete", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.Int("target.id", id),
	))
	defer span.End()

	row, err := s.users.GetByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("query user %d: %w", id, err)
	}
	if row == nil {
		return fmt.Errorf("delete user %d: %w", id, ErrUserNotFound)
	}
	if !CanActOnUser(actor, id) {
		return fmt.Errorf("delete user %d: %w", id, ErrForbidden)
	}

	if err := s.users.Delete(ctx, id); err != nil {
		span.RecordError(err)
		return fmt.Errorf("delete user %d: %w", id, err)
	}

	span.AddEvent("user.deleted")
	return nil
}
