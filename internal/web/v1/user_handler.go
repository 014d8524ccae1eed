package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/duynhne/classifieds-service/internal/core/domain"
	logicv1 "github.com/duynhne/classifieds-service/internal/logic/v1"
	"github.com/duynhne/classifieds-service/middleware"
	"github.com/duynhne/classifieds-service/pkg/logger"
)

// Register handles user registration.
// POST /api/v1/users
func (h *Handler) Register(c *gin.Context) {
	ctx, span := middleware.StartSpan(c.Request.Context(), "http.request", trace.WithAttributes(
		attribute.String("layer", "web"),
		attribute.String("method", c.Request.Method),
		attribute.String("path", c.Request.URL.Path),
	))
	defer span.End()

	log := logger.FromContext(ctx)

	var req domain.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.SetAttributes(attribute.Bool("request.valid", false))
		span.RecordError(err)
		log.Error().Err(err).Msg("Invalid request")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	span.SetAttributes(attribute.Bool("request.valid", true))

	user, err := h.users.Register(ctx, req)
	if err != nil {
		span.RecordError(err)
		log.Error().Err(err).Str("email", req.Email).Msg("Registration failed")

		switch {
		case errors.Is(err, logicv1.ErrEmailExists):
			c.JSON(http.StatusConflict, gin.H{"error": "Email already registered"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	log.Info().Int("user_id", user.ID).Msg("Registration successful")
	c.JSON(http.StatusCreated, user)
}

// Login handles user login and returns a fresh session token.
// POST /api/v1/auth/login
func (h *Handler) Login(c *gin.Context) {
	ctx, span := middleware.StartSpan(c.Request.Context(), "http.request", trace.WithAttributes(
		attribute.String("layer", "web"),
		attribute.String("method", c.Request.Method),
		attribute.String("path", c.Request.URL.Path),
	))
	defer span.End()

	log := logger.FromContext(ctx)

	var req domain.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.SetAttributes(attribute.Bool("request.valid", false))
		span.RecordError(err)
		log.Error().Err(err).Msg("Invalid request")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	span.SetAttributes(attribute.Bool("request.valid", true))

	response, err := h.users.Login(ctx, req)
	if err != nil {
		span.RecordError(err)
		log.Error().Err(err).Msg("Login failed")

		switch {
		case errors.Is(err, logicv1.ErrInvalidCredentials):
			// One message for unknown email and wrong password alike.
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	log.Info().Msg("Login successful")
	c.JSON(http.StatusOK, response)
}

// GetMe returns the authenticated user's own record.
// GET /api/v1/auth/me
func (h *Handler) GetMe(c *gin.Context) {
	actor, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or missing token"})
		return
	}
	c.JSON(http.StatusOK, domain.PublicUser(actor))
}

// GetUser returns a user record, self-or-admin.
// GET /api/v1/users/:id
func (h *Handler) GetUser(c *gin.Context) {
	ctx, span := middleware.StartSpan(c.Request.Context(), "http.request", trace.WithAttributes(
		attribute.String("layer", "web"),
		attribute.String("method", c.Request.Method),
		attribute.String("path", c.Request.URL.Path),
	))
	defer span.End()

	id, ok := pathID(c)
	if !ok {
		return
	}
	actor, ok := actingUser(c)
	if !ok {
		return
	}

	user, err := h.users.Get(ctx, actor, id)
	if err != nil {
		span.RecordError(err)
		h.respondUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// UpdateUser applies a partial update to a user record, self-or-admin.
// A role field supplied by a non-admin is ignored.
// PATCH /api/v1/users/:id
func (h *Handler) UpdateUser(c *gin.Context) {
	ctx, span := middleware.StartSpan(c.Request.Context(), "http.request", trace.WithAttributes(
		attribute.String("layer", "web"),
		attribute.String("method", c.Request.Method),
		attribute.String("path", c.Request.URL.Path),
	))
	defer span.End()

	log := logger.FromContext(ctx)

	id, ok := pathID(c)
	if !ok {
		return
	}
	actor, ok := actingUser(c)
	if !ok {
		return
	}

	var req domain.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.SetAttributes(attribute.Bool("request.valid", false))
		span.RecordError(err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.users.Update(ctx, actor, id, req)
	if err != nil {
		span.RecordError(err)
		log.Error().Err(err).Int("target_id", id).Msg("User update failed")
		h.respondUserError(c, err)
		return
	}

	log.Info().Int("user_id", user.ID).Msg("User updated")
	c.JSON(http.StatusOK, user)
}

// DeleteUser removes a user record, self-or-admin. The user's
// advertisements are deleted with it.
// DELETE /api/v1/users/:id
func (h *Handler) DeleteUser(c *gin.Context) {
	ctx, span := middleware.StartSpan(c.Request.Context(), "http.request", trace.WithAttributes(
		attribute.String("layer", "web"),
		attribute.String("method", c.Request.Method),
		attribute.String("path", c.Request.URL.Path),
	))
	defer span.End()

	log := logger.FromContext(ctx)

	id, ok := pathID(c)
	if !ok {
		return
	}
	actor, ok := actingUser(c)
	if !ok {
		return
	}

	if err := h.users.Delete(ctx, actor, id); err != nil {
		span.RecordError(err)
		log.Error().Err(err).Int("target_id", id).Msg("User delete failed")
		h.respondUserError(c, err)
		return
	}

	log.Info().Int("target_id", id).Msg("User deleted")
	c.JSON(http.StatusOK, gin.H{"detail": "User deleted"})
}

// respondUserError maps user service errors onto HTTP responses.
func (h *Handler) respondUserError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, logicv1.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
	case errors.Is(err, logicv1.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
	case errors.Is(err, logicv1.ErrEmailExists):
		c.JSON(http.StatusConflict, gin.H{"error": "Email already registered"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
