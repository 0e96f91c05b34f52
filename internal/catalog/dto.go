package catalog

// CreateProductRequest is the payload for registering a product.
type CreateProductRequest struct {
	Name           string `json:"name" validate:"required,min=1,max=200"`
	RecordedStock  int    `json:"recorded_stock" validate:"gte=0"`
	AlertThreshold int    `json:"alert_threshold" validate:"gte=0"`
}

// UpdateProductRequest carries optional field updates.
type UpdateProductRequest struct {
	Name           *string `json:"name" validate:"omitempty,min=1,max=200"`
	AlertThreshold *int    `json:"alert_threshold" validate:"omitempty,gte=0"`
	Active         *bool   `json:"active"`
}

// AddProductionRequest records a completed production run.
type AddProductionRequest struct {
	Quantity int `json:"quantity" validate:"required,gt=0"`
}
