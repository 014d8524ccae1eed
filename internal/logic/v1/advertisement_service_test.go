package v1

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/duynhne/classifieds-service/internal/core/domain"
	"github.com/duynhne/classifieds-service/internal/core/repository"
)

func newAdvertisementFixture(t *testing.T) (*AdvertisementService, *repository.MemoryAdvertisementRepository) {
	t.Helper()
	ads := repository.NewMemoryAdvertisementRepository()
	return NewAdvertisementService(ads), ads
}

func adTestUser(id int, role domain.Role) *domain.UserRow {
	return &domain.UserRow{ID: id, Email: "u@x.com", Role: role}
}

func TestCreateAdvertisementSetsOwnerAndTimestamp(t *testing.T) {
	svc, _ := newAdvertisementFixture(t)
	owner := adTestUser(1, domain.RoleUser)

	desc := "red, barely used"
	ad, err := svc.Create(context.Background(), owner, domain.CreateAdvertisementRequest{
		Title:       "bike",
		Description: &desc,
	})
	require.NoError(t, err)

	assert.NotZero(t, ad.ID)
	assert.Equal(t, "bike", ad.Title)
	assert.Equal(t, "red, barely used", ad.Description)
	assert.Equal(t, owner.ID, ad.OwnerID)
	assert.False(t, ad.CreatedAt.IsZero())
}

func TestCreateAdvertisementWithoutDescription(t *testing.T) {
	svc, _ := newAdvertisementFixture(t)

	ad, err := svc.Create(context.Background(), adTestUser(1, domain.RoleUser), domain.CreateAdvertisementRequest{Title: "bike"})
	require.NoError(t, err)
	assert.Equal(t, "", ad.Description)
}

func TestGetAdvertisementNotFound(t *testing.T) {
	svc, _ := newAdvertisementFixture(t)

	_, err := svc.Get(context.Background(), 42)
	assert.ErrorIs(t, err, ErrAdvertisementNotFound)
}

func TestUpdateAdvertisementOwnerOrAdmin(t *testing.T) {
	svc, _ := newAdvertisementFixture(t)
	owner := adTestUser(1, domain.RoleUser)
	stranger := adTestUser(2, domain.RoleUser)
	admin := adTestUser(3, domain.RoleAdmin)

	ad, err := svc.Create(context.Background(), owner, domain.CreateAdvertisementRequest{Title: "bike"})
	require.NoError(t, err)

	title := "mountain bike"
	_, err = svc.Update(context.Background(), stranger, ad.ID, domain.UpdateAdvertisementRequest{Title: &title})
	assert.ErrorIs(t, err, ErrForbidden)

	got, err := svc.Update(context.Background(), owner, ad.ID, domain.UpdateAdvertisementRequest{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "mountain bike", got.Title)

	desc := "admin edit"
	got, err = svc.Update(context.Background(), admin, ad.ID, domain.UpdateAdvertisementRequest{Description: &desc})
	require.NoError(t, err)
	assert.Equal(t, "admin edit", got.Description)
	assert.Equal(t, "mountain bike", got.Title, "omitted field untouched")
	assert.Equal(t, owner.ID, got.OwnerID, "owner never reassigned")
}

func TestUpdateAdvertisementIgnoresEmptyStrings(t *testing.T) {
	svc, _ := newAdvertisementFixture(t)
	owner := adTestUser(1, domain.RoleUser)

	desc := "red frame"
	ad, err := svc.Create(context.Background(), owner, domain.CreateAdvertisementRequest{
		Title:       "bike",
		Description: &desc,
	})
	require.NoError(t, err)

	// An empty string counts as not supplied; the title stays non-empty.
	empty := ""
	got, err := svc.Update(context.Background(), owner, ad.ID, domain.UpdateAdvertisementRequest{
		Title:       &empty,
		Description: &empty,
	})
	require.NoError(t, err)
	assert.Equal(t, "bike", got.Title)
	assert.Equal(t, "red frame", got.Description)
	assert.NotEmpty(t, got.Title)
}

func TestUpdateAdvertisementNotFoundBeforeForbidden(t *testing.T) {
	svc, _ := newAdvertisementFixture(t)

	title := "x"
	_, err := svc.Update(context.Background(), adTestUser(2, domain.RoleUser), 42, domain.UpdateAdvertisementRequest{Title: &title})
	assert.ErrorIs(t, err, ErrAdvertisementNotFound)
}

func TestDeleteAdvertisementOwnerOrAdmin(t *testing.T) {
	svc, _ := newAdvertisementFixture(t)
	owner := adTestUser(1, domain.RoleUser)
	stranger := adTestUser(2, domain.RoleUser)
	admin := adTestUser(3, domain.RoleAdmin)

	ad, err := svc.Create(context.Background(), owner, domain.CreateAdvertisementRequest{Title: "bike"})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Delete(context.Background(), stranger, ad.ID), ErrForbidden)
	require.NoError(t, svc.Delete(context.Background(), owner, ad.ID))
	assert.ErrorIs(t, svc.Delete(context.Background(), owner, ad.ID), ErrAdvertisementNotFound)

	other, err := svc.Create(context.Background(), owner, domain.CreateAdvertisementRequest{Title: "couch"})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(context.Background(), admin, other.ID))
}

func TestSearchAdvertisements(t *testing.T) {
	svc, _ := newAdvertisementFixture(t)
	owner := adTestUser(1, domain.RoleUser)

	mustCreate := func(title, description string) {
		t.Helper()
		_, err := svc.Create(context.Background(), owner, domain.CreateAdvertisementRequest{
			Title:       title,
			Description: &description,
		})
		require.NoError(t, err)
	}
	mustCreate("Mountain Bike", "red frame")
	mustCreate("Couch", "comfy, bike-shed colored")
	mustCreate("Lamp", "desk lamp")

	titles := func(ads []domain.Advertisement) []string {
		out := make([]string, 0, len(ads))
		for _, ad := range ads {
			out = append(out, ad.Title)
		}
		return out
	}

	// Case-insensitive over title and description.
	got, err := svc.Search(context.Background(), "BIKE")
	require.NoError(t, err)
	assert.Equal(t, []string{"Mountain Bike", "Couch"}, titles(got))

	// Empty query returns everything.
	got, err = svc.Search(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, got, 3)

	// No match returns an empty list, not an error.
	got, err = svc.Search(context.Background(), "boat")
	require.NoError(t, err)
	assert.Empty(t, got)
}
