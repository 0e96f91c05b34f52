// Package catalog manages the product catalog and production stock intake.
package catalog

import "time"

// Product is a catalog entry. RecordedStock is the physical on-hand count
// in pallets; allocation against it is derived elsewhere from open orders.
type Product struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	RecordedStock  int       `json:"recorded_stock"`
	AlertThreshold int       `json:"alert_threshold"`
	Active         bool      `json:"active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
