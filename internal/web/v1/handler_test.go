package v1

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/duynhne/classifieds-service/internal/core/domain"
	"github.com/duynhne/classifieds-service/internal/core/repository"
	logicv1 "github.com/duynhne/classifieds-service/internal/logic/v1"
)

type apiFixture struct {
	router *gin.Engine
	users  *repository.MemoryUserRepository
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	ads := repository.NewMemoryAdvertisementRepository()
	users := repository.NewMemoryUserRepository(ads)
	hasher := logicv1.NewPasswordHasher(bcrypt.MinCost)
	tokens := logicv1.NewTokenManager(users, logicv1.DefaultTokenTTL)
	userService := logicv1.NewUserService(users, hasher, tokens)
	adService := logicv1.NewAdvertisementService(ads)

	router := gin.New()
	NewHandler(userService, adService).RegisterRoutes(router.Group("/api/v1"))

	return &apiFixture{router: router, users: users}
}

func (f *apiFixture) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func (f *apiFixture) register(t *testing.T, email, password string) domain.User {
	t.Helper()
	w := f.do(t, http.MethodPost, "/api/v1/users", "", gin.H{"email": email, "password": password})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[domain.User](t, w)
}

func (f *apiFixture) login(t *testing.T, email, password string) string {
	t.Helper()
	w := f.do(t, http.MethodPost, "/api/v1/auth/login", "", gin.H{"email": email, "password": password})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decode[domain.TokenResponse](t, w)
	require.NotEmpty(t, resp.AccessToken)
	require.Equal(t, "bearer", resp.TokenType)
	return resp.AccessToken
}

func (f *apiFixture) registerAdmin(t *testing.T, email, password string) string {
	t.Helper()
	user := f.register(t, email, password)
	row, err := f.users.GetByID(t.Context(), user.ID)
	require.NoError(t, err)
	row.Role = domain.RoleAdmin
	require.NoError(t, f.users.Update(t.Context(), row))
	return f.login(t, email, password)
}

func TestRegisterLoginAndGetUserScenario(t *testing.T) {
	f := newAPIFixture(t)

	user := f.register(t, "a@x.com", "secret123")
	assert.Equal(t, 1, user.ID)
	assert.Equal(t, "a@x.com", user.Email)
	assert.Equal(t, domain.RoleUser, user.Role)

	token := f.login(t, "a@x.com", "secret123")

	// With a valid token, self read succeeds and never leaks the hash.
	w := f.do(t, http.MethodGet, "/api/v1/users/1", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.NotContains(t, w.Body.String(), "secret123")
	assert.NotContains(t, w.Body.String(), "password")
	got := decode[domain.User](t, w)
	assert.Equal(t, user, got)

	// Without a token: 401.
	w = f.do(t, http.MethodGet, "/api/v1/users/1", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// A different non-admin user with their own valid token: 403.
	f.register(t, "b@x.com", "secret123")
	otherToken := f.login(t, "b@x.com", "secret123")
	w = f.do(t, http.MethodGet, "/api/v1/users/1", otherToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRegisterDuplicateEmailConflict(t *testing.T) {
	f := newAPIFixture(t)
	f.register(t, "a@x.com", "secret123")

	w := f.do(t, http.MethodPost, "/api/v1/users", "", gin.H{"email": "a@x.com", "password": "other"})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestLoginFailuresAreIndistinct(t *testing.T) {
	f := newAPIFixture(t)
	f.register(t, "a@x.com", "secret123")

	wrongPassword := f.do(t, http.MethodPost, "/api/v1/auth/login", "", gin.H{"email": "a@x.com", "password": "nope"})
	unknownEmail := f.do(t, http.MethodPost, "/api/v1/auth/login", "", gin.H{"email": "b@x.com", "password": "secret123"})

	assert.Equal(t, http.StatusUnauthorized, wrongPassword.Code)
	assert.Equal(t, http.StatusUnauthorized, unknownEmail.Code)
	assert.Equal(t, wrongPassword.Body.String(), unknownEmail.Body.String())
}

func TestGetMe(t *testing.T) {
	f := newAPIFixture(t)
	user := f.register(t, "a@x.com", "secret123")
	token := f.login(t, "a@x.com", "secret123")

	w := f.do(t, http.MethodGet, "/api/v1/auth/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, user, decode[domain.User](t, w))

	// Garbage tokens and malformed headers both come back 401.
	w = f.do(t, http.MethodGet, "/api/v1/auth/me", "not-a-real-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	req.Header.Set("Authorization", "Token abc")
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUpdateUserRoleIgnoredForNonAdmin(t *testing.T) {
	f := newAPIFixture(t)
	user := f.register(t, "a@x.com", "secret123")
	token := f.login(t, "a@x.com", "secret123")

	w := f.do(t, http.MethodPatch, fmt.Sprintf("/api/v1/users/%d", user.ID), token, gin.H{"role": "admin"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, domain.RoleUser, decode[domain.User](t, w).Role)

	adminToken := f.registerAdmin(t, "admin@x.com", "secret123")
	w = f.do(t, http.MethodPatch, fmt.Sprintf("/api/v1/users/%d", user.ID), adminToken, gin.H{"role": "admin"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, domain.RoleAdmin, decode[domain.User](t, w).Role)
}

func TestUpdateUserEmptyFieldsAndDuplicateEmail(t *testing.T) {
	f := newAPIFixture(t)
	user := f.register(t, "a@x.com", "secret123")
	token := f.login(t, "a@x.com", "secret123")
	f.register(t, "b@x.com", "secret123")

	// Empty strings leave the account untouched; the old password still logs in.
	w := f.do(t, http.MethodPatch, fmt.Sprintf("/api/v1/users/%d", user.ID), token, gin.H{"email": "", "password": ""})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "a@x.com", decode[domain.User](t, w).Email)
	token = f.login(t, "a@x.com", "secret123")

	// Another user's email is a conflict, like registration.
	w = f.do(t, http.MethodPatch, fmt.Sprintf("/api/v1/users/%d", user.ID), token, gin.H{"email": "b@x.com"})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestUserNotFoundBeatsForbidden(t *testing.T) {
	f := newAPIFixture(t)
	f.register(t, "a@x.com", "secret123")
	token := f.login(t, "a@x.com", "secret123")

	w := f.do(t, http.MethodGet, "/api/v1/users/999", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = f.do(t, http.MethodDelete, "/api/v1/users/999", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteUserInvalidatesTheirToken(t *testing.T) {
	f := newAPIFixture(t)
	user := f.register(t, "a@x.com", "secret123")
	token := f.login(t, "a@x.com", "secret123")

	w := f.do(t, http.MethodDelete, fmt.Sprintf("/api/v1/users/%d", user.ID), token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	// The session died with the user.
	w = f.do(t, http.MethodGet, "/api/v1/auth/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdvertisementLifecycle(t *testing.T) {
	f := newAPIFixture(t)
	owner := f.register(t, "a@x.com", "secret123")
	ownerToken := f.login(t, "a@x.com", "secret123")
	f.register(t, "b@x.com", "secret123")
	strangerToken := f.login(t, "b@x.com", "secret123")

	// Create requires auth.
	w := f.do(t, http.MethodPost, "/api/v1/advertisements", "", gin.H{"title": "bike"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = f.do(t, http.MethodPost, "/api/v1/advertisements", ownerToken, gin.H{"title": "bike", "description": "red"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	ad := decode[domain.Advertisement](t, w)
	assert.Equal(t, owner.ID, ad.OwnerID)
	assert.False(t, ad.CreatedAt.IsZero())

	// Reads are public.
	w = f.do(t, http.MethodGet, fmt.Sprintf("/api/v1/advertisements/%d", ad.ID), "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// Non-owner non-admin cannot mutate.
	w = f.do(t, http.MethodPatch, fmt.Sprintf("/api/v1/advertisements/%d", ad.ID), strangerToken, gin.H{"title": "stolen"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = f.do(t, http.MethodDelete, fmt.Sprintf("/api/v1/advertisements/%d", ad.ID), strangerToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Owner updates partially.
	w = f.do(t, http.MethodPatch, fmt.Sprintf("/api/v1/advertisements/%d", ad.ID), ownerToken, gin.H{"title": "mountain bike"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := decode[domain.Advertisement](t, w)
	assert.Equal(t, "mountain bike", updated.Title)
	assert.Equal(t, "red", updated.Description)

	// A blank title in a PATCH is ignored, never stored.
	w = f.do(t, http.MethodPatch, fmt.Sprintf("/api/v1/advertisements/%d", ad.ID), ownerToken, gin.H{"title": ""})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "mountain bike", decode[domain.Advertisement](t, w).Title)

	// Admin may delete anyone's ad.
	adminToken := f.registerAdmin(t, "admin@x.com", "secret123")
	w = f.do(t, http.MethodDelete, fmt.Sprintf("/api/v1/advertisements/%d", ad.ID), adminToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = f.do(t, http.MethodGet, fmt.Sprintf("/api/v1/advertisements/%d", ad.ID), "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSearchAdvertisementsEndpoint(t *testing.T) {
	f := newAPIFixture(t)
	f.register(t, "a@x.com", "secret123")
	token := f.login(t, "a@x.com", "secret123")

	for _, title := range []string{"Mountain Bike", "Couch", "Bike rack"} {
		w := f.do(t, http.MethodPost, "/api/v1/advertisements", token, gin.H{"title": title})
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := f.do(t, http.MethodGet, "/api/v1/advertisements?search=bike", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]domain.Advertisement](t, w), 2)

	w = f.do(t, http.MethodGet, "/api/v1/advertisements", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]domain.Advertisement](t, w), 3)
}

func TestInvalidPathID(t *testing.T) {
	f := newAPIFixture(t)
	f.register(t, "a@x.com", "secret123")
	token := f.login(t, "a@x.com", "secret123")

	w := f.do(t, http.MethodGet, "/api/v1/users/abc", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(t, http.MethodGet, "/api/v1/advertisements/abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRegisterRejectsMalformedBody(t *testing.T) {
	f := newAPIFixture(t)

	w := f.do(t, http.MethodPost, "/api/v1/users", "", gin.H{"email": "a@x.com"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(t, http.MethodPost, "/api/v1/users", "", gin.H{"email": "not-an-email", "password": "secret123"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
