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

// CreateAdvertisement creates an advertisement owned by the acting user.
// POST /api/v1/advertisements
func (h *Handler) CreateAdvertisement(c *gin.Context) {
	ctx, span := middleware.StartSpan(c.Request.Context(), "http.request", trace.WithAttributes(
		attribute.String("layer", "web"),
		attribute.String("method", c.Request.Method),
		attribute.String("path", c.Request.URL.Path),
	))
	defer span.End()

	log := logger.FromContext(ctx)
	actor, ok := actingUser(c)
	if !ok {
		return
	}

	var req domain.CreateAdvertisementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.SetAttributes(attribute.Bool("request.valid", false))
		span.RecordError(err)
		log.Error().Err(err).Msg("Invalid request")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	span.SetAttributes(attribute.Bool("request.valid", true))

	ad, err := h.ads.Create(ctx, actor, req)
	if err != nil {
		span.RecordError(err)
		log.Error().Err(err).Msg("Advertisement create failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	log.Info().Int("advertisement_id", ad.ID).Msg("Advertisement created")
	c.JSON(http.StatusCreated, ad)
}

// GetAdvertisement returns a single advertisement. Public.
// GET /api/v1/advertisements/:id
func (h *Handler) GetAdvertisement(c *gin.Context) {
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

	ad, err := h.ads.Get(ctx, id)
	if err != nil {
		span.RecordError(err)
		h.respondAdvertisementError(c, err)
		return
	}

	c.JSON(http.StatusOK, ad)
}

// SearchAdvertisements lists advertisements matching the search query.
// Public; an absent query lists everything.
// GET /api/v1/advertisements?search=...
func (h *Handler) SearchAdvertisements(c *gin.Context) {
	ctx, span := middleware.StartSpan(c.Request.Context(), "http.request", trace.WithAttributes(
		attribute.String("layer", "web"),
		attribute.String("method", c.Request.Method),
		attribute.String("path", c.Request.URL.Path),
	))
	defer span.End()

	ads, err := h.ads.Search(ctx, c.Query("search"))
	if err != nil {
		span.RecordError(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, ads)
}

// UpdateAdvertisement applies a partial update, owner-or-admin.
// PATCH /api/v1/advertisements/:id
func (h *Handler) UpdateAdvertisement(c *gin.Context) {
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

	var req domain.UpdateAdvertisementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.SetAttributes(attribute.Bool("request.valid", false))
		span.RecordError(err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ad, err := h.ads.Update(ctx, actor, id, req)
	if err != nil {
		span.RecordError(err)
		log.Error().Err(err).Int("advertisement_id", id).Msg("Advertisement update failed")
		h.respondAdvertisementError(c, err)
		return
	}

	log.Info().Int("advertisement_id", ad.ID).Msg("Advertisement updated")
	c.JSON(http.StatusOK, ad)
}

// DeleteAdvertisement removes an advertisement, owner-or-admin.
// DELETE /api/v1/advertisements/:id
func (h *Handler) DeleteAdvertisement(c *gin.Context) {
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

	if err := h.ads.Delete(ctx, actor, id); err != nil {
		span.RecordError(err)
		log.Error().Err(err).Int("advertisement_id", id).Msg("Advertisement delete failed")
		h.respondAdvertisementError(c, err)
		return
	}

	log.Info().Int("advertisement_id", id).Msg("Advertisement deleted")
	c.JSON(http.StatusOK, gin.H{"detail": "Advertisement deleted"})
}

// respondAdvertisementError maps advertisement service errors onto HTTP
// responses. NotFound is checked before Forbidden in the service, so the
// mapping here stays a flat switch.
func (h *Handler) respondAdvertisementError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, logicv1.ErrAdvertisementNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Advertisement not found"})
	case errors.Is(err, logicv1.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
