package distributors

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/paletar/paletar/internal/shared"
)

// Repository abstracts distributor persistence.
type Repository interface {
	Get(ctx context.Context, id int64) (*Distributor, error)
	GetByName(ctx context.Context, name string) (*Distributor, error)
	List(ctx context.Context) ([]Distributor, error)
	FindOrCreate(ctx context.Context, d Distributor) (*Distributor, error)
	Update(ctx context.Context, d Distributor) error
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository returns the pgx-backed distributor repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const distributorColumns = "id, name, contact_name, phone, address, city, county, created_at, updated_at"

func (r *repository) Get(ctx context.Context, id int64) (*Distributor, error) {
	return r.scanOne(r.pool.QueryRow(ctx,
		"SELECT "+distributorColumns+" FROM distributors WHERE id = $1", id))
}

func (r *repository) GetByName(ctx context.Context, name string) (*Distributor, error) {
	return r.scanOne(r.pool.QueryRow(ctx,
		"SELECT "+distributorColumns+" FROM distributors WHERE name = $1", name))
}

func (r *repository) List(ctx context.Context) ([]Distributor, error) {
	rows, err := r.pool.Query(ctx,
		"SELECT "+distributorColumns+" FROM distributors ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("distributors: list: %w", err)
	}
	defer rows.Close()

	var out []Distributor
	for rows.Next() {
		var d Distributor
		if err := rows.Scan(&d.ID, &d.Name, &d.ContactName, &d.Phone, &d.Address, &d.City, &d.County, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, fmt.Errorf("distributors: scan: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// FindOrCreate inserts the distributor unless the name is already taken,
// then reads back whichever row owns the name. A racing duplicate insert
// loses the conflict and reuses the first row.
func (r *repository) FindOrCreate(ctx context.Context, d Distributor) (*Distributor, error) {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO distributors (name, contact_name, phone, address, city, county)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (name) DO NOTHING
	`, d.Name, d.ContactName, d.Phone, d.Address, d.City, d.County)
	if err != nil {
		return nil, fmt.Errorf("distributors: find or create: %w", err)
	}
	return r.GetByName(ctx, d.Name)
}

func (r *repository) Update(ctx context.Context, d Distributor) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE distributors
		SET contact_name = $1, phone = $2, address = $3, city = $4, county = $5, updated_at = NOW()
		WHERE id = $6
	`, d.ContactName, d.Phone, d.Address, d.City, d.County, d.ID)
	if err != nil {
		return fmt.Errorf("distributors: update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *repository) scanOne(row pgx.Row) (*Distributor, error) {
	var d Distributor
	err := row.Scan(&d.ID, &d.Name, &d.ContactName, &d.Phone, &d.Address, &d.City, &d.County, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("distributors: get: %w", err)
	}
	return &d, nil
}
