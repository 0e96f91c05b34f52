package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/paletar/paletar/internal/shared"
)

// Repository abstracts product persistence.
type Repository interface {
	Create(ctx context.Context, p Product) (int64, error)
	Update(ctx context.Context, p Product) error
	Get(ctx context.Context, id int64) (*Product, error)
	List(ctx context.Context, includeInactive bool) ([]Product, error)
	AddRecordedStock(ctx context.Context, id int64, qty int) error
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository returns the pgx-backed product repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const productColumns = "id, name, recorded_stock, alert_threshold, active, created_at, updated_at"

func (r *repository) Create(ctx context.Context, p Product) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO products (name, recorded_stock, alert_threshold, active)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, p.Name, p.RecordedStock, p.AlertThreshold, p.Active).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return 0, fmt.Errorf("%w: product name already exists", shared.ErrConflict)
		}
		return 0, fmt.Errorf("catalog: create product: %w", err)
	}
	return id, nil
}

func (r *repository) Update(ctx context.Context, p Product) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE products
		SET name = $1, alert_threshold = $2, active = $3, updated_at = NOW()
		WHERE id = $4
	`, p.Name, p.AlertThreshold, p.Active, p.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: product name already exists", shared.ErrConflict)
		}
		return fmt.Errorf("catalog: update product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *repository) Get(ctx context.Context, id int64) (*Product, error) {
	var p Product
	err := r.pool.QueryRow(ctx,
		"SELECT "+productColumns+" FROM products WHERE id = $1", id,
	).Scan(&p.ID, &p.Name, &p.RecordedStock, &p.AlertThreshold, &p.Active, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("catalog: get product: %w", err)
	}
	return &p, nil
}

func (r *repository) List(ctx context.Context, includeInactive bool) ([]Product, error) {
	query := "SELECT " + productColumns + " FROM products"
	if !includeInactive {
		query += " WHERE active"
	}
	query += " ORDER BY name"

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("catalog: list products: %w", err)
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Name, &p.RecordedStock, &p.AlertThreshold, &p.Active, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("catalog: scan product: %w", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// AddRecordedStock applies a single-statement atomic increment so concurrent
// production runs never lose an update.
func (r *repository) AddRecordedStock(ctx context.Context, id int64, qty int) error {
	tag, err := r.pool.Exec(ctx,
		"UPDATE products SET recorded_stock = recorded_stock + $1, updated_at = NOW() WHERE id = $2",
		qty, id,
	)
	if err != nil {
		return fmt.Errorf("catalog: add recorded stock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}
