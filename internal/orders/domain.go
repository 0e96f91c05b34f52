// Package orders owns the order aggregate and its fulfillment lifecycle:
// waiting -> processing -> in_transit -> delivered, with cancellation
// allowed while the order has not left the warehouse.
package orders

import "time"

// Status is an order lifecycle state.
type Status string

const (
	StatusWaiting    Status = "waiting"
	StatusProcessing Status = "processing"
	StatusInTransit  Status = "in_transit"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
)

// transitions is the legality table. Delivered and cancelled are terminal.
var transitions = map[Status]map[Status]bool{
	StatusWaiting: {
		StatusProcessing: true,
		StatusCancelled:  true,
	},
	StatusProcessing: {
		StatusInTransit: true,
		StatusCancelled: true,
	},
	StatusInTransit: {
		StatusDelivered: true,
	},
}

// Valid reports whether the status is a known lifecycle state.
func (s Status) Valid() bool {
	switch s {
	case StatusWaiting, StatusProcessing, StatusInTransit, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo reports whether moving to the target state is legal.
func (s Status) CanTransitionTo(to Status) bool {
	return transitions[s][to]
}

// Active reports whether the order still holds a stock allocation.
func (s Status) Active() bool {
	return s == StatusWaiting || s == StatusProcessing || s == StatusInTransit
}

// Editable reports whether line items may still be changed.
func (s Status) Editable() bool {
	return s == StatusWaiting
}

// Cancellable reports whether the order can still be cancelled.
func (s Status) Cancellable() bool {
	return s == StatusWaiting || s == StatusProcessing
}

// Display returns the user-facing label. Delivered orders are shown as
// "finalized"; storage always uses the canonical state name.
func (s Status) Display() string {
	if s == StatusDelivered {
		return "finalized"
	}
	return string(s)
}

// Order is the aggregate root. Total is the canonical sum over line items;
// PalletCount x PricePerPallet is a user-entered summary kept for display.
type Order struct {
	ID              int64      `json:"id"`
	OrderNumber     string     `json:"order_number"`
	DistributorID   int64      `json:"distributor_id"`
	DistributorName string     `json:"distributor_name,omitempty"`
	DeliveryCity    string     `json:"delivery_city"`
	DeliveryAddress string     `json:"delivery_address"`
	DeliveryCounty  string     `json:"delivery_county"`
	ContactPhone    string     `json:"contact_phone"`
	Notes           string     `json:"notes"`
	PalletCount     int        `json:"pallet_count"`
	PricePerPallet  float64    `json:"price_per_pallet"`
	Total           float64    `json:"total"`
	Status          Status     `json:"status"`
	StatusDisplay   string     `json:"status_display"`
	Carrier         string     `json:"carrier"`
	DriverName      string     `json:"driver_name"`
	VehiclePlate    string     `json:"vehicle_plate"`
	ShipmentDate    *time.Time `json:"shipment_date,omitempty"`
	DeliveryDate    *time.Time `json:"delivery_date,omitempty"`
	CancelledAt     *time.Time `json:"cancelled_at,omitempty"`
	CancelledBy     *int64     `json:"cancelled_by,omitempty"`
	CancelReason    string     `json:"cancel_reason,omitempty"`
	IssuedBy        int64      `json:"issued_by"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	Lines           []LineItem `json:"lines"`
}

// LineItem is one product position on an order. Quantity is in pallets.
type LineItem struct {
	ID          int64   `json:"id"`
	OrderID     int64   `json:"order_id"`
	ProductID   int64   `json:"product_id"`
	ProductName string  `json:"product_name,omitempty"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	TotalItem   float64 `json:"total_item"`
}
