package models

import "time"

// LineItem is one product in the cart. The JSON shape is also the persisted
// shape, so field names must not change.
type LineItem struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Image    string  `json:"image"`
	Quantity int     `json:"quantity"`
}

// ProductDescriptor is what callers hand to AddItem.
type ProductDescriptor struct {
	ID    string  `json:"id" binding:"required" validate:"required"`
	Name  string  `json:"name" binding:"required" validate:"required"`
	Price float64 `json:"price" binding:"gte=0" validate:"gte=0"`
	Image string  `json:"image"`
}

type CartTotals struct {
	ItemCount  int     `json:"item_count"`
	TotalPrice float64 `json:"total_price"`
}

type CartView struct {
	Items  []LineItem `json:"items"`
	Totals CartTotals `json:"totals"`
}

// Customer details collected at checkout
type Customer struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// OrderPlacedEvent is published once per successful checkout.
type OrderPlacedEvent struct {
	Type          string     `json:"type"`
	OrderID       string     `json:"order_id"`
	SessionID     string     `json:"session_id"`
	Customer      Customer   `json:"customer"`
	PaymentMethod string     `json:"payment_method"`
	Items         []LineItem `json:"items"`
	ItemCount     int        `json:"item_count"`
	TotalPrice    float64    `json:"total_price"`
	PlacedAt      time.Time  `json:"placed_at"`
}
