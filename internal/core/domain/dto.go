package domain

import "time"

// RegisterRequest is the payload for user registration.
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginRequest is the payload for user login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UpdateUserRequest carries a partial user update. Nil and empty-string
// fields are left untouched. Role is applied only when the acting user
// is an admin; otherwise it is silently ignored.
type UpdateUserRequest struct {
	Email    *string `json:"email,omitempty"`
	Password *string `json:"password,omitempty"`
	Role     *Role   `json:"role,omitempty"`
}

// CreateAdvertisementRequest is the payload for creating an advertisement.
type CreateAdvertisementRequest struct {
	Title       string  `json:"title" binding:"required"`
	Description *string `json:"description,omitempty"`
}

// UpdateAdvertisementRequest carries a partial advertisement update.
// Nil and empty-string fields are left untouched.
type UpdateAdvertisementRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
}

// User is the public view of a user record. It never carries the password
// hash or the session token.
type User struct {
	ID    int    `json:"id"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// Advertisement is the public view of an advertisement record.
type Advertisement struct {
	ID          int       `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	OwnerID     int       `json:"owner_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// TokenResponse is returned by login.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// PublicUser converts a stored row to its public view.
func PublicUser(row *UserRow) User {
	return User{ID: row.ID, Email: row.Email, Role: row.Role}
}

// PublicAdvertisement converts a stored row to its public view.
func PublicAdvertisement(row *AdvertisementRow) Advertisement {
	return Advertisement{
		ID:          row.ID,
		Title:       row.Title,
		Description: row.Description,
		OwnerID:     row.OwnerID,
		CreatedAt:   row.CreatedAt,
	}
}
