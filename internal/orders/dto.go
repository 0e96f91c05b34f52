package orders

import "github.com/paletar/paletar/internal/distributors"

// LineRequest is one requested product position.
type LineRequest struct {
	ProductID int64   `json:"product_id" validate:"required,gt=0"`
	Quantity  int     `json:"quantity" validate:"required,gt=0"`
	UnitPrice float64 `json:"unit_price" validate:"gte=0"`
}

// CreateOrderRequest is the intake payload for a new order.
type CreateOrderRequest struct {
	Distributor     distributors.Ref `json:"distributor"`
	DeliveryCity    string           `json:"delivery_city" validate:"required"`
	DeliveryAddress string           `json:"delivery_address" validate:"required"`
	DeliveryCounty  string           `json:"delivery_county"`
	ContactPhone    string           `json:"contact_phone"`
	Notes           string           `json:"notes"`
	PalletCount     int              `json:"pallet_count" validate:"gte=0"`
	PricePerPallet  float64          `json:"price_per_pallet" validate:"gte=0"`
	Lines           []LineRequest    `json:"lines" validate:"required,min=1,dive"`
}

// UpdateOrderRequest rewrites an order that is still waiting. Lines are
// replaced wholesale; the order number and creation time never change.
type UpdateOrderRequest struct {
	DeliveryCity    string        `json:"delivery_city" validate:"required"`
	DeliveryAddress string        `json:"delivery_address" validate:"required"`
	DeliveryCounty  string        `json:"delivery_county"`
	ContactPhone    string        `json:"contact_phone"`
	Notes           string        `json:"notes"`
	PalletCount     int           `json:"pallet_count" validate:"gte=0"`
	PricePerPallet  float64       `json:"price_per_pallet" validate:"gte=0"`
	Lines           []LineRequest `json:"lines" validate:"required,min=1,dive"`
}

// AssignTransportRequest carries the transport details for dispatch.
type AssignTransportRequest struct {
	Carrier      string `json:"carrier" validate:"required"`
	DriverName   string `json:"driver_name" validate:"required"`
	VehiclePlate string `json:"vehicle_plate" validate:"required"`
}

// CancelRequest carries the cancellation reason.
type CancelRequest struct {
	Reason string `json:"reason" validate:"required,min=3"`
}

// ListFilter narrows the order listing.
type ListFilter struct {
	Status        *Status
	DistributorID *int64
	Limit         int
	Offset        int
}
