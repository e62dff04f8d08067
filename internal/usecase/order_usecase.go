package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/user/price-tracker/internal/entity"
	"github.com/user/price-tracker/internal/repository"
	"github.com/user/price-tracker/pkg/metrics"
	"github.com/user/price-tracker/pkg/utils"
)

// CreateOrderInput is a tracked product the user wants to order.
type CreateOrderInput struct {
	// UserID defaults to the session user. Only admins may set another id.
	UserID string
	Title  string
	Price  string
	URL    string
	Image  *string
}

// OrderManager defines the order operations of the dashboard. Every method
// takes the caller's session explicitly.
type OrderManager interface {
	Create(ctx context.Context, session *entity.Session, in CreateOrderInput) (*entity.Order, error)
	ListForUser(ctx context.Context, session *entity.Session, userID string) ([]*entity.Order, error)
	ListAll(ctx context.Context, session *entity.Session) ([]*entity.Order, error)
	UpdateStatus(ctx context.Context, session *entity.Session, orderID string, status entity.OrderStatus) (*entity.Order, error)
	Summary(ctx context.Context, session *entity.Session) (entity.OrderSummary, error)
}

type orderUseCase struct {
	orderRepo repository.OrderRepository
	logger    *zap.Logger
}

// NewOrderManager creates a new OrderManager use case.
func NewOrderManager(orderRepo repository.OrderRepository, logger *zap.Logger) OrderManager {
	return &orderUseCase{orderRepo: orderRepo, logger: logger}
}

func (uc *orderUseCase) Create(ctx context.Context, session *entity.Session, in CreateOrderInput) (*entity.Order, error) {
	if session == nil {
		return nil, ErrUnauthenticated
	}
	userID := session.UserID
	if in.UserID != "" {
		id, ok := parseID(in.UserID)
		if !ok {
			return nil, &ValidationError{Field: "userId", Message: "userId is not a valid user id"}
		}
		userID = id
	}
	if !session.CanAccessUser(userID) {
		return nil, ErrForbidden
	}

	order := &entity.Order{
		ID:     uuid.NewString(),
		UserID: userID,
		Title:  strings.TrimSpace(in.Title),
		Price:  strings.TrimSpace(in.Price),
		URL:    strings.TrimSpace(in.URL),
		Image:  in.Image,
		Status: entity.OrderPending,
	}
	switch {
	case order.Title == "":
		return nil, &ValidationError{Field: "title", Message: "title is required"}
	case order.Price == "":
		return nil, &ValidationError{Field: "price", Message: "price is required"}
	}
	if _, err := utils.ParseHTTPURL(order.URL); err != nil {
		return nil, &ValidationError{Field: "url", Message: "url must be an absolute http(s) URL"}
	}
	if order.Image != nil && strings.TrimSpace(*order.Image) == "" {
		order.Image = nil
	}

	if err := uc.orderRepo.Create(ctx, order); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to save order for user %s: %w", userID, err)
	}
	metrics.OrdersCreatedTotal.Inc()
	uc.logger.Info("order created", zap.String("order_id", order.ID), zap.String("user_id", userID))
	return order, nil
}

func (uc *orderUseCase) ListForUser(ctx context.Context, session *entity.Session, userID string) ([]*entity.Order, error) {
	if session == nil {
		return nil, ErrUnauthenticated
	}
	userID, ok := parseID(userID)
	if !ok {
		return nil, ErrUserNotFound
	}
	if !session.CanAccessUser(userID) {
		return nil, ErrForbidden
	}
	orders, err := uc.orderRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders for user %s: %w", userID, err)
	}
	return orders, nil
}

func (uc *orderUseCase) ListAll(ctx context.Context, session *entity.Session) ([]*entity.Order, error) {
	if err := requireAdmin(session); err != nil {
		return nil, err
	}
	orders, err := uc.orderRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

func (uc *orderUseCase) UpdateStatus(ctx context.Context, session *entity.Session, orderID string, status entity.OrderStatus) (*entity.Order, error) {
	if err := requireAdmin(session); err != nil {
		return nil, err
	}
	if !status.Valid() {
		return nil, &ValidationError{Field: "status", Message: fmt.Sprintf("unknown status %q", status)}
	}
	orderID, ok := parseID(orderID)
	if !ok {
		return nil, ErrOrderNotFound
	}

	order, err := uc.orderRepo.UpdateStatus(ctx, orderID, status)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to update status of order %s: %w", orderID, err)
	}
	metrics.OrderStatusUpdatesTotal.WithLabelValues(string(status)).Inc()
	uc.logger.Info("order status updated",
		zap.String("order_id", orderID),
		zap.String("status", string(status)),
		zap.String("by", session.UserID))
	return order, nil
}

func (uc *orderUseCase) Summary(ctx context.Context, session *entity.Session) (entity.OrderSummary, error) {
	if session == nil {
		return entity.OrderSummary{}, ErrUnauthenticated
	}
	summary, err := uc.orderRepo.Summary(ctx, session.UserID)
	if err != nil {
		return entity.OrderSummary{}, fmt.Errorf("failed to summarize orders for user %s: %w", session.UserID, err)
	}
	return summary, nil
}

func requireAdmin(session *entity.Session) error {
	if session == nil {
		return ErrUnauthenticated
	}
	if !session.IsAdmin {
		return ErrForbidden
	}
	return nil
}
