package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/duynhne/classifieds-service/internal/core/domain"
)

// MemoryUserRepository is an in-memory domain.UserRepository used by tests
// and local development. It mirrors the pgx implementation's contract,
// including (nil, nil) on missing rows and cascade deletion of owned
// advertisements when wired to a MemoryAdvertisementRepository.
type MemoryUserRepository struct {
	mu     sync.Mutex
	nextID int
	users  map[int]*domain.UserRow
	ads    *MemoryAdvertisementRepository
}

// NewMemoryUserRepository creates an empty in-memory user repository.
// ads may be nil when advertisement cascade is not needed.
func NewMemoryUserRepository(ads *MemoryAdvertisementRepository) *MemoryUserRepository {
	return &MemoryUserRepository{
		nextID: 1,
		users:  make(map[int]*domain.UserRow),
		ads:    ads,
	}
}

func copyUser(u *domain.UserRow) *domain.UserRow {
	c := *u
	if u.Token != nil {
		t := *u.Token
		c.Token = &t
	}
	if u.TokenExpire != nil {
		e := *u.TokenExpire
		c.TokenExpire = &e
	}
	return &c
}

func (r *MemoryUserRepository) GetByEmail(_ context.Context, email string) (*domain.UserRow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return copyUser(u), nil
		}
	}
	return nil, nil
}

func (r *MemoryUserRepository) GetByID(_ context.Context, id int) (*domain.UserRow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		return copyUser(u), nil
	}
	return nil, nil
}

func (r *MemoryUserRepository) GetByToken(_ context.Context, token string) (*domain.UserRow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Token != nil && *u.Token == token {
			return copyUser(u), nil
		}
	}
	return nil, nil
}

func (r *MemoryUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	u, err := r.GetByEmail(ctx, email)
	return u != nil, err
}

func (r *MemoryUserRepository) Create(_ context.Context, email, passwordHash string, role domain.Role) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := r.nextID
	r.nextID++
	r.users[id] = &domain.UserRow{
		ID:           id,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
	}
	return id, nil
}

func (r *MemoryUserRepository) Update(_ context.Context, row *domain.UserRow) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[row.ID]; ok {
		u.Email = row.Email
		u.PasswordHash = row.PasswordHash
		u.Role = row.Role
	}
	return nil
}

func (r *MemoryUserRepository) SetToken(_ context.Context, userID int, token string, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[userID]; ok {
		u.Token = &token
		u.TokenExpire = &expiresAt
	}
	return nil
}

func (r *MemoryUserRepository) Delete(_ context.Context, userID int) error {
	r.mu.Lock()
	delete(r.users, userID)
	r.mu.Unlock()
	if r.ads != nil {
		r.ads.deleteByOwner(userID)
	}
	return nil
}

// MemoryAdvertisementRepository is an in-memory
// domain.AdvertisementRepository used by tests and local development.
type MemoryAdvertisementRepository struct {
	mu     sync.Mutex
	nextID int
	ads    map[int]*domain.AdvertisementRow
	now    func() time.Time
}

// NewMemoryAdvertisementRepository creates an empty in-memory
// advertisement repository.
func NewMemoryAdvertisementRepository() *MemoryAdvertisementRepository {
	return &MemoryAdvertisementRepository{
		nextID: 1,
		ads:    make(map[int]*domain.AdvertisementRow),
		now:    time.Now,
	}
}

func (r *MemoryAdvertisementRepository) Create(_ context.Context, title, description string, ownerID int) (*domain.AdvertisementRow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row := &domain.AdvertisementRow{
		ID:          r.nextID,
		Title:       title,
		Description: description,
		CreatedAt:   r.now().UTC(),
		OwnerID:     ownerID,
	}
	r.nextID++
	r.ads[row.ID] = row
	c := *row
	return &c, nil
}

func (r *MemoryAdvertisementRepository) GetByID(_ context.Context, id int) (*domain.AdvertisementRow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if row, ok := r.ads[id]; ok {
		c := *row
		return &c, nil
	}
	return nil, nil
}

func (r *MemoryAdvertisementRepository) Update(_ context.Context, row *domain.AdvertisementRow) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if stored, ok := r.ads[row.ID]; ok {
		stored.Title = row.Title
		stored.Description = row.Description
	}
	return nil
}

func (r *MemoryAdvertisementRepository) Delete(_ context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.ads, id)
	return nil
}

func (r *MemoryAdvertisementRepository) Search(_ context.Context, query string) ([]domain.AdvertisementRow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	q := strings.ToLower(query)
	var out []domain.AdvertisementRow
	for _, row := range r.ads {
		if q == "" ||
			strings.Contains(strings.ToLower(row.Title), q) ||
			strings.Contains(strings.ToLower(row.Description), q) {
			out = append(out, *row)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *MemoryAdvertisementRepository) deleteByOwner(ownerID int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, row := range r.ads {
		if row.OwnerID == ownerID {
			delete(r.ads, id)
		}
	}
}
