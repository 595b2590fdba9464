package validation

// AddToCartRequest is the payload for POST /api/cart/add.
type AddToCartRequest struct {
	ProductID string `json:"productId" validate:"required,objectid"`
	Quantity  int    `json:"quantity" validate:"required,min=1"`
}

// UpdateCartRequest is the payload for PUT /api/cart/update. Quantity
// is a pointer so an explicit zero (meaning "remove") survives the
// required check.
type UpdateCartRequest struct {
	ProductID string `json:"productId" validate:"required,objectid"`
	Quantity  *int   `json:"quantity" validate:"required,min=0"`
}

// ShippingAddress mirrors the order's shipping fields; every field is
// required and trimmed before use.
type ShippingAddress struct {
	FullName   string `json:"fullName" validate:"required"`
	Address    string `json:"address" validate:"required"`
	City       string `json:"city" validate:"required"`
	PostalCode string `json:"postalCode" validate:"required"`
	Country    string `json:"country" validate:"required"`
	Phone      string `json:"phone" validate:"required"`
}

// CreateOrderRequest is the payload for POST /api/orders.
type CreateOrderRequest struct {
	ShippingAddress ShippingAddress `json:"shippingAddress" validate:"required"`
	PaymentMethod   string          `json:"paymentMethod" validate:"required,oneof='PayPal' 'Stripe' 'Cash on Delivery' 'Bank Transfer'"`
	Notes           string          `json:"notes" validate:"omitempty,max=500"`
}

// PaymentResultPayload is the gateway callback body for PUT /api/orders/:id/pay.
type PaymentResultPayload struct {
	ID           string `json:"id" validate:"required"`
	Status       string `json:"status" validate:"required"`
	UpdateTime   string `json:"update_time"`
	EmailAddress string `json:"email_address"`
}

// PayOrderRequest wraps the payment result.
type PayOrderRequest struct {
	PaymentResult PaymentResultPayload `json:"paymentResult" validate:"required"`
}

// UpdateOrderStatusRequest is the admin payload for PUT /api/admin/orders/:id/status.
type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=Pending Processing Shipped Delivered Cancelled"`
}

// CreateProductRequest is the admin payload for POST /api/admin/products.
// Stock is a pointer so zero stock is accepted.
type CreateProductRequest struct {
	Name        string  `json:"name" validate:"required"`
	Description string  `json:"description"`
	Image       string  `json:"image"`
	Category    string  `json:"category"`
	Price       float64 `json:"price" validate:"required,gte=0"`
	Stock       *int    `json:"stock" validate:"required,min=0"`
}

// UpdateProductRequest is the admin payload for PUT /api/admin/products/:id.
// All fields are optional; only supplied ones are applied.
type UpdateProductRequest struct {
	Name        *string  `json:"name" validate:"omitempty,min=1"`
	Description *string  `json:"description"`
	Image       *string  `json:"image"`
	Category    *string  `json:"category"`
	Price       *float64 `json:"price" validate:"omitempty,gte=0"`
	Stock       *int     `json:"stock" validate:"omitempty,min=0"`
	IsActive    *bool    `json:"isActive"`
}
