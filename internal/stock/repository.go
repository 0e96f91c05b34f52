package stock

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/paletar/paletar/internal/shared"
)

// activeStatuses are the order statuses that hold an allocation.
const activeStatuses = "('waiting', 'processing', 'in_transit')"

// Repository reads and adjusts the stock ledger.
type Repository interface {
	ProductState(ctx context.Context, productID int64) (name string, recorded, threshold int, err error)
	AllocatedStock(ctx context.Context, productID int64) (int, error)
	AdjustRecordedStock(ctx context.Context, productID int64, delta int) error
	Overview(ctx context.Context) ([]ProductStock, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository returns the pgx-backed stock repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) ProductState(ctx context.Context, productID int64) (string, int, int, error) {
	var name string
	var recorded, threshold int
	err := r.pool.QueryRow(ctx,
		"SELECT name, recorded_stock, alert_threshold FROM products WHERE id = $1", productID,
	).Scan(&name, &recorded, &threshold)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", 0, 0, shared.ErrNotFound
		}
		return "", 0, 0, fmt.Errorf("stock: product state: %w", err)
	}
	return name, recorded, threshold, nil
}

// AllocatedStock sums open order lines live. No caching: a stale allocation
// is worse than the extra query.
func (r *repository) AllocatedStock(ctx context.Context, productID int64) (int, error) {
	var allocated int
	err := r.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(li.quantity), 0)
		FROM order_line_items li
		JOIN orders o ON o.id = li.order_id
		WHERE li.product_id = $1 AND o.status IN `+activeStatuses,
		productID,
	).Scan(&allocated)
	if err != nil {
		return 0, fmt.Errorf("stock: allocated: %w", err)
	}
	return allocated, nil
}

// AdjustRecordedStock applies the delta in one statement so concurrent
// adjustments interleave without lost updates.
func (r *repository) AdjustRecordedStock(ctx context.Context, productID int64, delta int) error {
	tag, err := r.pool.Exec(ctx,
		"UPDATE products SET recorded_stock = recorded_stock + $1, updated_at = NOW() WHERE id = $2",
		delta, productID,
	)
	if err != nil {
		return fmt.Errorf("stock: adjust recorded: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *repository) Overview(ctx context.Context) ([]ProductStock, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT p.id, p.name, p.recorded_stock, p.alert_threshold,
		       COALESCE(SUM(li.quantity) FILTER (WHERE o.status IN `+activeStatuses+`), 0) AS allocated
		FROM products p
		LEFT JOIN order_line_items li ON li.product_id = p.id
		LEFT JOIN orders o ON o.id = li.order_id
		WHERE p.active
		GROUP BY p.id, p.name, p.recorded_stock, p.alert_threshold
		ORDER BY p.name
	`)
	if err != nil {
		return nil, fmt.Errorf("stock: overview: %w", err)
	}
	defer rows.Close()

	var out []ProductStock
	for rows.Next() {
		var ps ProductStock
		if err := rows.Scan(&ps.ProductID, &ps.Name, &ps.Recorded, &ps.AlertThreshold, &ps.Allocated); err != nil {
			return nil, fmt.Errorf("stock: scan overview: %w", err)
		}
		ps.Available = ps.Recorded - ps.Allocated
		ps.Critical = ps.Available <= ps.AlertThreshold
		out = append(out, ps)
	}
	return out, rows.Err()
}
