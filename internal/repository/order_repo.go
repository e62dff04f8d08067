package repository

import (
	"context"

	"github.com/user/price-tracker/internal/entity"
)

// OrderRepository defines the interface for storing tracked-product orders.
type OrderRepository interface {
	Create(ctx context.Context, order *entity.Order) error
	// ListByUser returns a user's orders, newest first.
	ListByUser(ctx context.Context, userID string) ([]*entity.Order, error)
	// ListAll returns every order with UserEmail filled in, newest first.
	ListAll(ctx context.Context) ([]*entity.Order, error)
	// UpdateStatus sets the status of an order and returns the updated record.
	UpdateStatus(ctx context.Context, id string, status entity.OrderStatus) (*entity.Order, error)
	Summary(ctx context.Context, userID string) (entity.OrderSummary, error)
}
