// Package v1 contains the gin HTTP handlers for API version 1.
package v1

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/duynhne/classifieds-service/internal/core/domain"
	logicv1 "github.com/duynhne/classifieds-service/internal/logic/v1"
	"github.com/duynhne/classifieds-service/middleware"
)

// Handler groups the HTTP handlers for API v1.
// Dependencies are injected via the constructor — no global state.
type Handler struct {
	users *logicv1.UserService
	ads   *logicv1.AdvertisementService
}

// NewHandler creates a new Handler with the given services.
func NewHandler(users *logicv1.UserService, ads *logicv1.AdvertisementService) *Handler {
	return &Handler{users: users, ads: ads}
}

// RegisterRoutes registers all API v1 routes on the given router group.
// Registration, login, and advertisement reads are public; everything
// else sits behind the bearer-token middleware.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/users", h.Register)
	rg.POST("/auth/login", h.Login)
	rg.GET("/advertisements", h.SearchAdvertisements)
	rg.GET("/advertisements/:id", h.GetAdvertisement)

	authed := rg.Group("", middleware.RequireAuth(h.users))
	authed.GET("/auth/me", h.GetMe)
	authed.GET("/users/:id", h.GetUser)
	authed.PATCH("/users/:id", h.UpdateUser)
	authed.DELETE("/users/:id", h.DeleteUser)
	authed.POST("/advertisements", h.CreateAdvertisement)
	authed.PATCH("/advertisements/:id", h.UpdateAdvertisement)
	authed.DELETE("/advertisements/:id", h.DeleteAdvertisement)
}

// pathID parses the :id path parameter. Responds 400 and returns false
// when it is not an integer.
func pathID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id"})
		return 0, false
	}
	return id, true
}

// actingUser returns the authenticated user placed in the context by the
// auth middleware. Responds 401 and returns false when it is absent,
// which only happens if a handler is wired outside the authed group.
func actingUser(c *gin.Context) (*domain.UserRow, bool) {
	actor, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or missing token"})
		return nil, false
	}
	return actor, true
}
