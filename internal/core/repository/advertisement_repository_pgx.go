package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/duynhne/classifieds-service/internal/core/domain"
)

// PgxAdvertisementRepository implements domain.AdvertisementRepository
// using pgxpool.
type PgxAdvertisementRepository struct {
	pool *pgxpool.Pool
}

// NewAdvertisementRepository creates a new PgxAdvertisementRepository.
func NewAdvertisementRepository(pool *pgxpool.Pool) *PgxAdvertisementRepository {
	return &PgxAdvertisementRepository{pool: pool}
}

// Create inserts a new advertisement and returns the stored row.
func (r *PgxAdvertisementRepository) Create(ctx context.Context, title, description string, ownerID int) (*domain.AdvertisementRow, error) {
	query := `
		INSERT INTO advertisements (title, description, owner_id)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	row := domain.AdvertisementRow{
		Title:       title,
		Description: description,
		OwnerID:     ownerID,
	}
	err := r.pool.QueryRow(ctx, query, title, description, ownerID).Scan(&row.ID, &row.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// GetByID returns the advertisement with the given id.
// Returns (nil, nil) when no advertisement is found.
func (r *PgxAdvertisementRepository) GetByID(ctx context.Context, id int) (*domain.AdvertisementRow, error) {
	query := `SELECT id, title, description, created_at, owner_id FROM advertisements WHERE id = $1`

	var row domain.AdvertisementRow
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&row.ID, &row.Title, &row.Description, &row.CreatedAt, &row.OwnerID,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

// Update persists the mutable columns of the given row.
func (r *PgxAdvertisementRepository) Update(ctx context.Context, row *domain.AdvertisementRow) error {
	query := `UPDATE advertisements SET title = $2, description = $3 WHERE id = $1`
	_, err := r.pool.Exec(ctx, query, row.ID, row.Title, row.Description)
	return err
}

// Delete removes the advertisement.
func (r *PgxAdvertisementRepository) Delete(ctx context.Context, id int) error {
	query := `DELETE FROM advertisements WHERE id = $1`
	_, err := r.pool.Exec(ctx, query, id)
	return err
}

// Search returns advertisements whose title or description contains the
// given text, case-insensitively. An empty query matches all.
func (r *PgxAdvertisementRepository) Search(ctx context.Context, query string) ([]domain.AdvertisementRow, error) {
	sql := `
		SELECT id, title, description, created_at, owner_id
		FROM advertisements
		WHERE $1 = '' OR title ILIKE $2 OR description ILIKE $2
		ORDER BY id
	`

	rows, err := r.pool.Query(ctx, sql, query, "%"+query+"%")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ads []domain.AdvertisementRow
	for rows.Next() {
		var row domain.AdvertisementRow
		if err := rows.Scan(&row.ID, &row.Title, &row.Description, &row.CreatedAt, &row.OwnerID); err != nil {
			return nil, err
		}
		ads = append(ads, row)
	}
	return ads, rows.Err()
}
