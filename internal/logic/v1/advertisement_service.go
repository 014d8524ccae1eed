package v1

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/duynhne/classifieds-service/internal/core/domain"
	"github.com/duynhne/classifieds-service/middleware"
)

// AdvertisementService implements classified-advertisement CRUD with
// owner-or-admin authorization on mutations. Reads are public.
type AdvertisementService struct {
	ads domain.AdvertisementRepository
}

// NewAdvertisementService creates a new AdvertisementService.
func NewAdvertisementService(ads domain.AdvertisementRepository) *AdvertisementService {
	return &AdvertisementService{ads: ads}
}

// Create stores a new advertisement owned by the acting user. The creation
// timestamp is set by the store and never changes afterwards.
func (s *AdvertisementService) Create(ctx context.Context, actor *domain.UserRow, req domain.CreateAdvertisementRequest) (*domain.Advertisement, error) {
	ctx, span := middleware.StartSpan(ctx, "advertisement.create", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.Int("owner.id", actor.ID),
	))
	defer span.End()

	description := ""
	if req.Description != nil {
		description = *req.Description
	}

	row, err := s.ads.Create(ctx, req.Title, description, actor.ID)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("insert advertisement: %w", err)
	}

	span.SetAttributes(attribute.Int("advertisement.id", row.ID))
	span.AddEvent("advertisement.created")

	ad := domain.PublicAdvertisement(row)
	return &ad, nil
}

// Get returns the advertisement with the given id. No authentication is
// required to read an advertisement.
func (s *AdvertisementService) Get(ctx context.Context, id int) (*domain.Advertisement, error) {
	ctx, span := middleware.StartSpan(ctx, "advertisement.get", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.Int("target.id", id),
	))
	defer span.End()

	row, err := s.ads.GetByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("query advertisement %d: %w", id, err)
	}
	if row == nil {
		return nil, fmt.Errorf("get advertisement %d: %w", id, ErrAdvertisementNotFound)
	}

	ad := domain.PublicAdvertisement(row)
	return &ad, nil
}

// Update applies a partial update to the advertisement. The lookup runs
// before the ownership check, so a missing advertisement is NotFound for
// everyone. Only supplied, non-empty fields change; an empty string is
// treated as not supplied, so a title can never be blanked. The owner is
// never reassigned.
func (s *AdvertisementService) Update(ctx context.Context, actor *domain.UserRow, id int, req domain.UpdateAdvertisementRequest) (*domain.Advertisement, error) {
	ctx, span := middleware.StartSpan(ctx, "advertisement.update", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.Int("target.id", id),
	))
	defer span.End()

	row, err := s.ads.GetByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("query advertisement %d: %w", id, err)
	}
	if row == nil {
		return nil, fmt.Errorf("update advertisement %d: %w", id, ErrAdvertisementNotFound)
	}
	if !CanModifyAdvertisement(actor, row) {
		return nil, fmt.Errorf("update advertisement %d: %w", id, ErrForbidden)
	}

	if req.Title != nil && *req.Title != "" {
		row.Title = *req.Title
	}
	if req.Description != nil && *req.Description != "" {
		row.Description = *req.Description
	}

	if err := s.ads.Update(ctx, row); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("update advertisement %d: %w", id, err)
	}

	span.AddEvent("advertisement.updated")
	ad := domain.PublicAdvertisement(row)
	return &ad, nil
}

// Delete removes the advertisement after the owner-or-admin check.
func (s *AdvertisementService) Delete(ctx context.Context, actor *domain.UserRow, id int) error {
	ctx, span := middleware.StartSpan(ctx, "advertisement.delete", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.Int("target.id", id),
	))
	defer span.End()

	row, err := s.ads.GetByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("query advertisement %d: %w", id, err)
	}
	if row == nil {
		return fmt.Errorf("delete advertisement %d: %w", id, ErrAdvertisementNotFound)
	}
	if !CanModifyAdvertisement(actor, row) {
		return fmt.Errorf("delete advertisement %d: %w", id, ErrForbidden)
	}

	if err := s.ads.Delete(ctx, id); err != nil {
		span.RecordError(err)
		return fmt.Errorf("delete advertisement %d: %w", id, err)
	}

	span.AddEvent("advertisement.deleted")
	return nil
}

// Search returns advertisements matching the query text in their title or
// description, case-insensitively. An empty query returns everything.
func (s *AdvertisementService) Search(ctx context.Context, query string) ([]domain.Advertisement, error) {
	ctx, span := middleware.StartSpan(ctx, "advertisement.search", trace.WithAttributes(
		attribute.String("layer", "logic"),
	))
	defer span.End()

	rows, err := s.ads.Search(ctx, query)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("search advertisements: %w", err)
	}

	ads := make([]domain.Advertisement, 0, len(rows))
	for i := range rows {
		ads = append(ads, domain.PublicAdvertisement(&rows[i]))
	}

	span.SetAttributes(attribute.Int("result.count", len(ads)))
	return ads, nil
}
