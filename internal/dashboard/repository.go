// Package dashboard aggregates executive KPIs over orders and stock.
package dashboard

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Summary is the KPI snapshot shown to management.
type Summary struct {
	OrdersByStatus   map[string]int `json:"orders_by_status"`
	DeliveredRevenue float64        `json:"delivered_revenue"`
	ActiveAllocation int            `json:"active_allocation"`
	CriticalProducts int            `json:"critical_products"`
}

// Repository computes the KPI snapshot from the primary store.
type Repository interface {
	Summary(ctx context.Context) (*Summary, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository returns the pgx-backed dashboard repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) Summary(ctx context.Context) (*Summary, error) {
	s := &Summary{OrdersByStatus: make(map[string]int)}

	rows, err := r.pool.Query(ctx, "SELECT status, COUNT(*) FROM orders GROUP BY status")
	if err != nil {
		return nil, fmt.Errorf("dashboard: count by status: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("dashboard: scan status count: %w", err)
		}
		s.OrdersByStatus[status] = count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	err = r.pool.QueryRow(ctx,
		"SELECT COALESCE(SUM(total), 0) FROM orders WHERE status = 'delivered'",
	).Scan(&s.DeliveredRevenue)
	if err != nil {
		return nil, fmt.Errorf("dashboard: delivered revenue: %w", err)
	}

	err = r.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(li.quantity), 0)
		FROM order_line_items li
		JOIN orders o ON o.id = li.order_id
		WHERE o.status IN ('waiting', 'processing', 'in_transit')
	`).Scan(&s.ActiveAllocation)
	if err != nil {
		return nil, fmt.Errorf("dashboard: active allocation: %w", err)
	}

	err = r.pool.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM (
			SELECT p.id,
			       p.recorded_stock
			       - COALESCE(SUM(li.quantity) FILTER (WHERE o.status IN ('waiting', 'processing', 'in_transit')), 0) AS available,
			       p.alert_threshold
			FROM products p
			LEFT JOIN order_line_items li ON li.product_id = p.id
			LEFT JOIN orders o ON o.id = li.order_id
			WHERE p.active
			GROUP BY p.id, p.recorded_stock, p.alert_threshold
		) ledger
		WHERE ledger.available <= ledger.alert_threshold
	`).Scan(&s.CriticalProducts)
	if err != nil {
		return nil, fmt.Errorf("dashboard: critical products: %w", err)
	}

	return s, nil
}
