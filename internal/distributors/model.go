// Package distributors manages the distributor registry. Distributors are
// created lazily on first reference from an order.
package distributors

import "time"

// Distributor is a buyer the company ships to. Name is unique.
type Distributor struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	ContactName string    `json:"contact_name"`
	Phone       string    `json:"phone"`
	Address     string    `json:"address"`
	City        string    `json:"city"`
	County      string    `json:"county"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Ref identifies a distributor on an incoming order: either an existing ID
// or a name to find-or-create by.
type Ref struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	ContactName string `json:"contact_name"`
	Phone       string `json:"phone"`
	Address     string `json:"address"`
	City        string `json:"city"`
	County      string `json:"county"`
}
