package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/neecogreen/checkout-service/internal/entities"
	"github.com/neecogreen/checkout-service/pkg/trm"

	"github.com/google/uuid"
)

type OrderRepo interface {
	CreateOrder(ctx context.Context, order entities.Order) error
	ListOrdersByUser(ctx context.Context, userID string) ([]entities.Order, error)
}

type OrderService struct {
	logger    *slog.Logger
	txManager trm.Manager
	repo      OrderRepo
}

func NewOrderService(logger *slog.Logger, txManager trm.Manager, repo OrderRepo) *OrderService {
	return &OrderService{
		logger:    logger.With(slog.String("service", "order")),
		txManager: txManager,
		repo:      repo,
	}
}

// SaveOrder persists a new order with status placed. The order row and its
// items land in one transaction.
func (s *OrderService) SaveOrder(ctx context.Context, order entities.Order) (entities.Order, error) {
	now := time.Now().UTC()
	order.ID = uuid.NewString()
	order.Status = entities.StatusPlaced
	order.CreatedAt = now
	order.UpdatedAt = now

	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		return s.repo.CreateOrder(ctx, order)
	})
	if err != nil {
		return entities.Order{}, fmt.Errorf("failed to save order: %w", err)
	}

	s.logger.DebugContext(ctx, "order saved", slog.String("order_id", order.ID))
	return order, nil
}

func (s *OrderService) ListUserOrders(ctx context.Context, userID string) ([]entities.Order, error) {
	return s.repo.ListOrdersByUser(ctx, userID)
}
