package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/paletar/paletar/internal/platform/db"
	"github.com/paletar/paletar/internal/shared"
)

// Repository abstracts order persistence. Status transitions are
// compare-and-set: they report false when the guard did not match, and the
// service decides what that means.
type Repository interface {
	Create(ctx context.Context, o Order) (int64, error)
	Update(ctx context.Context, o Order) error
	Get(ctx context.Context, id int64) (*Order, error)
	List(ctx context.Context, f ListFilter) ([]Order, int, error)
	GenerateNumber(ctx context.Context, at time.Time) (string, error)
	AssignTransport(ctx context.Context, id int64, carrier, driver, vehicle string) (bool, error)
	MarkShipped(ctx context.Context, id int64) (bool, error)
	MarkDelivered(ctx context.Context, id int64) (bool, error)
	Cancel(ctx context.Context, id int64, by int64, reason string) (bool, error)
	MissingProducts(ctx context.Context, orderID int64) ([]int64, error)
	Delete(ctx context.Context, orderID int64) error
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository returns the pgx-backed order repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const orderColumns = `o.id, o.order_number, o.distributor_id, d.name,
	o.delivery_city, o.delivery_address, o.delivery_county, o.contact_phone, o.notes,
	o.pallet_count, o.price_per_pallet, o.total, o.status,
	o.carrier, o.driver_name, o.vehicle_plate,
	o.shipment_date, o.delivery_date, o.cancelled_at, o.cancelled_by, o.cancel_reason,
	o.issued_by, o.created_at, o.updated_at`

func (r *repository) Create(ctx context.Context, o Order) (int64, error) {
	var id int64
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `
			INSERT INTO orders (
				order_number, distributor_id,
				delivery_city, delivery_address, delivery_county, contact_phone, notes,
				pallet_count, price_per_pallet, total, status, issued_by
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
			RETURNING id
		`, o.OrderNumber, o.DistributorID,
			o.DeliveryCity, o.DeliveryAddress, o.DeliveryCounty, o.ContactPhone, o.Notes,
			o.PalletCount, o.PricePerPallet, o.Total, o.Status, o.IssuedBy,
		).Scan(&id)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" {
				// Lost the order_number race; the caller retries with a
				// fresh number.
				return fmt.Errorf("%w: order number %s already taken", shared.ErrConflict, o.OrderNumber)
			}
			return fmt.Errorf("orders: insert order: %w", err)
		}
		return insertLines(ctx, tx, id, o.Lines)
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// Update rewrites the editable fields and replaces every line in one
// transaction. The UPDATE is guarded on the waiting status so an edit
// racing a transition cannot rewrite an order that already left it.
func (r *repository) Update(ctx context.Context, o Order) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			UPDATE orders SET
				delivery_city = $1, delivery_address = $2, delivery_county = $3,
				contact_phone = $4, notes = $5,
				pallet_count = $6, price_per_pallet = $7, total = $8,
				updated_at = NOW()
			WHERE id = $9 AND status = $10
		`, o.DeliveryCity, o.DeliveryAddress, o.DeliveryCounty,
			o.ContactPhone, o.Notes,
			o.PalletCount, o.PricePerPallet, o.Total, o.ID, StatusWaiting)
		if err != nil {
			return fmt.Errorf("orders: update order: %w", err)
		}
		if tag.RowsAffected() == 0 {
			var current Status
			if err := tx.QueryRow(ctx, "SELECT status FROM orders WHERE id = $1", o.ID).Scan(&current); err != nil {
				if errors.Is(err, pgx.ErrNoRows) {
					return shared.ErrNotFound
				}
				return fmt.Errorf("orders: update order: %w", err)
			}
			return fmt.Errorf("%w: only waiting orders can be edited, order is %s", shared.ErrInvalidState, current)
		}
		if _, err := tx.Exec(ctx, "DELETE FROM order_line_items WHERE order_id = $1", o.ID); err != nil {
			return fmt.Errorf("orders: delete lines: %w", err)
		}
		return insertLines(ctx, tx, o.ID, o.Lines)
	})
}

func insertLines(ctx context.Context, tx pgx.Tx, orderID int64, lines []LineItem) error {
	for _, line := range lines {
		_, err := tx.Exec(ctx, `
			INSERT INTO order_line_items (order_id, product_id, quantity, unit_price, total_item)
			VALUES ($1, $2, $3, $4, $5)
		`, orderID, line.ProductID, line.Quantity, line.UnitPrice, line.TotalItem)
		if err != nil {
			return fmt.Errorf("orders: insert line: %w", err)
		}
	}
	return nil
}

func (r *repository) Get(ctx context.Context, id int64) (*Order, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+orderColumns+`
		FROM orders o
		JOIN distributors d ON d.id = o.distributor_id
		WHERE o.id = $1
	`, id)

	o, err := scanOrder(row)
	if err != nil {
		return nil, err
	}

	lines, err := r.loadLines(ctx, id)
	if err != nil {
		return nil, err
	}
	o.Lines = lines
	return o, nil
}

func (r *repository) loadLines(ctx context.Context, orderID int64) ([]LineItem, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT li.id, li.order_id, li.product_id, p.name, li.quantity, li.unit_price, li.total_item
		FROM order_line_items li
		LEFT JOIN products p ON p.id = li.product_id
		WHERE li.order_id = $1
		ORDER BY li.id
	`, orderID)
	if err != nil {
		return nil, fmt.Errorf("orders: load lines: %w", err)
	}
	defer rows.Close()

	var lines []LineItem
	for rows.Next() {
		var li LineItem
		var productName *string
		if err := rows.Scan(&li.ID, &li.OrderID, &li.ProductID, &productName, &li.Quantity, &li.UnitPrice, &li.TotalItem); err != nil {
			return nil, fmt.Errorf("orders: scan line: %w", err)
		}
		if productName != nil {
			li.ProductName = *productName
		}
		lines = append(lines, li)
	}
	return lines, rows.Err()
}

func (r *repository) List(ctx context.Context, f ListFilter) ([]Order, int, error) {
	where := "WHERE 1=1"
	args := []any{}
	argPos := 1

	if f.Status != nil {
		where += fmt.Sprintf(" AND o.status = $%d", argPos)
		args = append(args, *f.Status)
		argPos++
	}
	if f.DistributorID != nil {
		where += fmt.Sprintf(" AND o.distributor_id = $%d", argPos)
		args = append(args, *f.DistributorID)
		argPos++
	}

	var total int
	if err := r.pool.QueryRow(ctx,
		"SELECT COUNT(*) FROM orders o "+where, args...,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("orders: count: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT `+orderColumns+`
		FROM orders o
		JOIN distributors d ON d.id = o.distributor_id
		%s
		ORDER BY o.created_at DESC, o.id DESC
		LIMIT $%d OFFSET $%d
	`, where, argPos, argPos+1)
	args = append(args, f.Limit, f.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("orders: list: %w", err)
	}
	defer rows.Close()

	var out []Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *o)
	}
	return out, total, rows.Err()
}

// GenerateNumber produces ORD-{YY}{MM}-{SEQ}, sequenced within the month.
// The sequence comes from the highest existing suffix, not the row count:
// deleting an order must not make the next number collide.
func (r *repository) GenerateNumber(ctx context.Context, at time.Time) (string, error) {
	prefix := fmt.Sprintf("ORD-%s-", at.Format("0601"))
	var seq int64
	err := r.pool.QueryRow(ctx, `
		SELECT COALESCE(MAX(SUBSTRING(order_number FROM $2::INT)::INT), 0)
		FROM orders WHERE order_number LIKE $1
	`, prefix+"%", len(prefix)+1).Scan(&seq)
	if err != nil {
		return "", fmt.Errorf("orders: generate number: %w", err)
	}
	return fmt.Sprintf("%s%04d", prefix, seq+1), nil
}

func (r *repository) AssignTransport(ctx context.Context, id int64, carrier, driver, vehicle string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE orders
		SET status = $1, carrier = $2, driver_name = $3, vehicle_plate = $4, updated_at = NOW()
		WHERE id = $5 AND status = $6
	`, StatusProcessing, carrier, driver, vehicle, id, StatusWaiting)
	if err != nil {
		return false, fmt.Errorf("orders: assign transport: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *repository) MarkShipped(ctx context.Context, id int64) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE orders
		SET status = $1, shipment_date = NOW(), updated_at = NOW()
		WHERE id = $2 AND status = $3
	`, StatusInTransit, id, StatusProcessing)
	if err != nil {
		return false, fmt.Errorf("orders: mark shipped: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// MarkDelivered flips the status and consumes recorded stock for every line
// in the same transaction, so the delivered quantity leaves the ledger at
// the exact moment the allocation is released.
func (r *repository) MarkDelivered(ctx context.Context, id int64) (bool, error) {
	var updated bool
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			UPDATE orders
			SET status = $1, delivery_date = NOW(), updated_at = NOW()
			WHERE id = $2 AND status = $3
		`, StatusDelivered, id, StatusInTransit)
		if err != nil {
			return fmt.Errorf("orders: mark delivered: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return nil
		}
		updated = true

		// Aggregate per product before joining: UPDATE ... FROM applies at
		// most one source row per target row, so an order with several
		// lines for the same product must consume their summed quantity.
		_, err = tx.Exec(ctx, `
			UPDATE products p
			SET recorded_stock = p.recorded_stock - li.qty, updated_at = NOW()
			FROM (
				SELECT product_id, SUM(quantity) AS qty
				FROM order_line_items
				WHERE order_id = $1
				GROUP BY product_id
			) li
			WHERE li.product_id = p.id
		`, id)
		if err != nil {
			return fmt.Errorf("orders: consume stock: %w", err)
		}
		return nil
	})
	return updated, err
}

// Cancel is guarded on both cancellable states at once, so of two racing
// cancels exactly one takes effect.
func (r *repository) Cancel(ctx context.Context, id int64, by int64, reason string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE orders
		SET status = $1, cancelled_at = NOW(), cancelled_by = $2, cancel_reason = $3, updated_at = NOW()
		WHERE id = $4 AND status IN ($5, $6)
	`, StatusCancelled, by, reason, id, StatusWaiting, StatusProcessing)
	if err != nil {
		return false, fmt.Errorf("orders: cancel: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// MissingProducts lists referenced product IDs that no longer exist.
func (r *repository) MissingProducts(ctx context.Context, orderID int64) ([]int64, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT li.product_id
		FROM order_line_items li
		LEFT JOIN products p ON p.id = li.product_id
		WHERE li.order_id = $1 AND p.id IS NULL
	`, orderID)
	if err != nil {
		return nil, fmt.Errorf("orders: missing products: %w", err)
	}
	defer rows.Close()

	var missing []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("orders: scan missing product: %w", err)
		}
		missing = append(missing, id)
	}
	return missing, rows.Err()
}

func (r *repository) Delete(ctx context.Context, orderID int64) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, "DELETE FROM order_line_items WHERE order_id = $1", orderID); err != nil {
			return fmt.Errorf("orders: delete lines: %w", err)
		}
		tag, err := tx.Exec(ctx, "DELETE FROM orders WHERE id = $1", orderID)
		if err != nil {
			return fmt.Errorf("orders: delete order: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

func scanOrder(row pgx.Row) (*Order, error) {
	var o Order
	var carrier, driver, vehicle, reason, notes *string
	err := row.Scan(
		&o.ID, &o.OrderNumber, &o.DistributorID, &o.DistributorName,
		&o.DeliveryCity, &o.DeliveryAddress, &o.DeliveryCounty, &o.ContactPhone, &notes,
		&o.PalletCount, &o.PricePerPallet, &o.Total, &o.Status,
		&carrier, &driver, &vehicle,
		&o.ShipmentDate, &o.DeliveryDate, &o.CancelledAt, &o.CancelledBy, &reason,
		&o.IssuedBy, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("orders: scan order: %w", err)
	}
	if notes != nil {
		o.Notes = *notes
	}
	if carrier != nil {
		o.Carrier = *carrier
	}
	if driver != nil {
		o.DriverName = *driver
	}
	if vehicle != nil {
		o.VehiclePlate = *vehicle
	}
	if reason != nil {
		o.CancelReason = *reason
	}
	o.StatusDisplay = o.Status.Display()
	return &o, nil
}
