package entity

import "time"

// OrderStatus is the fulfilment state an admin assigns to an order.
type OrderStatus string

const (
	OrderPending OrderStatus = "Pending"
	OrderSuccess OrderStatus = "Success"
	OrderFailed  OrderStatus = "Failed"
)

// Valid reports whether s is one of the known statuses.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderSuccess, OrderFailed:
		return true
	}
	return false
}

// Order mirrors the `orders` PostgreSQL table schema.
type Order struct {
	ID        string
	UserID    string
	UserEmail string // filled only by admin listings
	Title     string
	Price     string
	URL       string
	Image     *string
	Status    OrderStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// OrderSummary counts a user's orders per status.
type OrderSummary struct {
	Pending int
	Success int
	Failed  int
}

// Total is the number of orders across all statuses.
func (s OrderSummary) Total() int {
	return s.Pending + s.Success + s.Failed
}
