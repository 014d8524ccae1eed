package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"

	"github.com/duynhne/classifieds-service/internal/core/domain"
)

// currentUserKey is the gin context key for the authenticated user.
const currentUserKey = "current_user"

// TokenAuthenticator resolves a session token to its user. Implemented by
// the logic layer's UserService.
type TokenAuthenticator interface {
	GetUserByToken(ctx context.Context, token string) (*domain.UserRow, error)
}

// RequireAuth extracts the bearer token from the Authorization header and
// resolves the acting user. A missing header, malformed header, unknown
// token, and expired token all abort with the same 401 response so the
// cases cannot be told apart from outside.
func RequireAuth(auth TokenAuthenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span := StartSpan(c.Request.Context(), "auth.require")
		defer span.End()

		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			span.SetAttributes(attribute.Bool("auth.present", false))
			unauthenticated(c)
			return
		}
		span.SetAttributes(attribute.Bool("auth.present", true))

		user, err := auth.GetUserByToken(ctx, token)
		if err != nil {
			span.RecordError(err)
			unauthenticated(c)
			return
		}

		span.SetAttributes(attribute.Int("user.id", user.ID))
		c.Set(currentUserKey, user)
		c.Next()
	}
}

// CurrentUser returns the authenticated user stored by RequireAuth.
func CurrentUser(c *gin.Context) (*domain.UserRow, bool) {
	v, ok := c.Get(currentUserKey)
	if !ok {
		return nil, false
	}
	user, ok := v.(*domain.UserRow)
	return user, ok
}

func bearerToken(header string) string {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}

func unauthenticated(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or missing token"})
}
