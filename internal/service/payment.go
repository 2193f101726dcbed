package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/neecogreen/checkout-service/internal/entities"
	"github.com/neecogreen/checkout-service/internal/events"
	"github.com/neecogreen/checkout-service/internal/razorpay"
)

type PaymentGateway interface {
	CreateOrder(ctx context.Context, amount int64, currency, receipt string) (razorpay.Order, error)
}

type PaymentOrderStore interface {
	GetOrderByGatewayID(ctx context.Context, gatewayOrderID string) (entities.Order, error)
	UpdateOrder(ctx context.Context, orderID string, fields map[string]any) error
}

type StatusPublisher interface {
	PublishStatusChange(ctx context.Context, ev events.StatusEvent)
}

type PaymentService struct {
	logger  *slog.Logger
	gateway PaymentGateway
	orders  PaymentOrderStore
	events  StatusPublisher
	secret  string
}

func NewPaymentService(logger *slog.Logger, gateway PaymentGateway, orders PaymentOrderStore, events StatusPublisher, secret string) *PaymentService {
	return &PaymentService{
		logger:  logger.With(slog.String("service", "payment")),
		gateway: gateway,
		orders:  orders,
		events:  events,
		secret:  secret,
	}
}

// CreatePaymentOrder registers a gateway order for the given rupee amount.
func (s *PaymentService) CreatePaymentOrder(ctx context.Context, amount float64) (razorpay.Order, error) {
	paise := int64(math.Round(amount * 100))
	receipt := fmt.Sprintf("receipt_%d", time.Now().UnixMilli())

	order, err := s.gateway.CreateOrder(ctx, paise, "INR", receipt)
	if err != nil {
		return razorpay.Order{}, fmt.Errorf("failed to create gateway order: %w", err)
	}
	return order, nil
}

// VerifyPayment recomputes the gateway signature over the id pair and
// reports validity. On success the paid transition is persisted best
// effort: a store failure is logged, never surfaced, so the verification
// result does not depend on store availability.
func (s *PaymentService) VerifyPayment(ctx context.Context, gatewayOrderID, paymentID, signature string) bool {
	if !razorpay.VerifySignature(gatewayOrderID, paymentID, signature, s.secret) {
		s.logger.WarnContext(ctx, "invalid payment signature",
			slog.String("gateway_order_id", gatewayOrderID))
		return false
	}

	s.markPaid(ctx, gatewayOrderID, paymentID)
	return true
}

func (s *PaymentService) markPaid(ctx context.Context, gatewayOrderID, paymentID string) {
	order, err := s.orders.GetOrderByGatewayID(ctx, gatewayOrderID)
	if errors.Is(err, entities.ErrOrderNotFound) {
		// The client may verify before it saves the order.
		s.logger.InfoContext(ctx, "no stored order for verified payment",
			slog.String("gateway_order_id", gatewayOrderID))
		return
	}
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to load order for paid transition", slog.Any("error", err))
		return
	}

	err = s.orders.UpdateOrder(ctx, order.ID, map[string]any{
		"status":     string(entities.StatusPaid),
		"payment_id": paymentID,
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to persist paid transition",
			slog.Any("error", err), slog.String("order_id", order.ID))
		return
	}

	s.events.PublishStatusChange(ctx, events.StatusEvent{
		OrderID:    order.ID,
		Status:     entities.StatusPaid,
		OccurredAt: time.Now().UTC(),
	})
}
