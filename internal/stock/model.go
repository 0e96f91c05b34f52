// Package stock derives the live stock ledger. Recorded stock lives on the
// product row; allocation is always computed from open order lines, never
// stored, so the two can not drift apart.
package stock

// ProductStock is one ledger line: recorded on-hand stock, the quantity
// allocated by open orders, and what remains available.
type ProductStock struct {
	ProductID      int64  `json:"product_id"`
	Name           string `json:"name"`
	Recorded       int    `json:"recorded"`
	Allocated      int    `json:"allocated"`
	Available      int    `json:"available"`
	AlertThreshold int    `json:"alert_threshold"`
	Critical       bool   `json:"critical"`
}

// AdjustRequest is a manual recorded-stock correction.
type AdjustRequest struct {
	Delta  int    `json:"delta" validate:"required"`
	Reason string `json:"reason" validate:"required,min=3"`
}
