package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/user/price-tracker/internal/entity"
	"github.com/user/price-tracker/internal/repository"
)

// OrderRepoImpl provides a concrete implementation for the OrderRepository interface using PostgreSQL.
type OrderRepoImpl struct {
	db *pgxpool.Pool
}

// NewOrderRepo creates a new instance of OrderRepoImpl.
func NewOrderRepo(db *pgxpool.Pool) *OrderRepoImpl {
	return &OrderRepoImpl{db: db}
}

var _ repository.OrderRepository = (*OrderRepoImpl)(nil)

const orderColumns = `o.id, o.user_id, o.title, o.price, o.url, o.image, o.status, o.created_at, o.updated_at`

func scanOrder(row pgx.Row, extra ...any) (*entity.Order, error) {
	var o entity.Order
	var status string
	dest := []any{&o.ID, &o.UserID, &o.Title, &o.Price, &o.URL, &o.Image, &status, &o.CreatedAt, &o.UpdatedAt}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, mapError(err)
	}
	o.Status = entity.OrderStatus(status)
	return &o, nil
}

// Create inserts a new order and fills in its timestamps.
func (r *OrderRepoImpl) Create(ctx context.Context, order *entity.Order) error {
	query := `
		INSERT INTO orders (id, user_id, title, price, url, image, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at;
	`
	err := r.db.QueryRow(ctx, query,
		order.ID,
		order.UserID,
		order.Title,
		order.Price,
		order.URL,
		order.Image,
		string(order.Status),
	).Scan(&order.CreatedAt, &order.UpdatedAt)
	return mapError(err)
}

// ListByUser returns the orders of one user, newest first.
func (r *OrderRepoImpl) ListByUser(ctx context.Context, userID string) ([]*entity.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders o WHERE o.user_id = $1 ORDER BY o.created_at DESC;`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var orders []*entity.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, mapError(rows.Err())
}

// ListAll returns every order joined with its owner's email, newest first.
func (r *OrderRepoImpl) ListAll(ctx context.Context) ([]*entity.Order, error) {
	query := `
		SELECT ` + orderColumns + `, u.email
		FROM orders o JOIN users u ON u.id = o.user_id
		ORDER BY o.created_at DESC;
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*entity.Order
	for rows.Next() {
		var email string
		o, err := scanOrder(rows, &email)
		if err != nil {
			return nil, err
		}
		o.UserEmail = email
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

// UpdateStatus sets an order's status and bumps updated_at.
func (r *OrderRepoImpl) UpdateStatus(ctx context.Context, id string, status entity.OrderStatus) (*entity.Order, error) {
	query := `
		UPDATE orders o SET status = $2, updated_at = NOW()
		WHERE o.id = $1
		RETURNING ` + orderColumns + `;
	`
	return scanOrder(r.db.QueryRow(ctx, query, id, string(status)))
}

// Summary counts a user's orders per status.
func (r *OrderRepoImpl) Summary(ctx context.Context, userID string) (entity.OrderSummary, error) {
	query := `
		SELECT
			COUNT(*) FILTER (WHERE status = 'Pending'),
			COUNT(*) FILTER (WHERE status = 'Success'),
			COUNT(*) FILTER (WHERE status = 'Failed')
		FROM orders WHERE user_id = $1;
	`
	var s entity.OrderSummary
	err := r.db.QueryRow(ctx, query, userID).Scan(&s.Pending, &s.Success, &s.Failed)
	return s, mapError(err)
}
