package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/neecogreen/checkout-service/internal/delhivery"
	"github.com/neecogreen/checkout-service/internal/entities"
	"github.com/neecogreen/checkout-service/internal/events"
)

type CarrierClient interface {
	CreateShipment(ctx context.Context, s delhivery.Shipment) (string, error)
	GetRate(ctx context.Context, pincode string, weightKg float64) (float64, error)
	Track(ctx context.Context, waybill string) ([]byte, error)
}

type ShipmentOrderStore interface {
	GetOrderByID(ctx context.Context, orderID string) (entities.Order, error)
	GetOrderByWaybill(ctx context.Context, waybill string) (entities.Order, error)
	UpdateOrder(ctx context.Context, orderID string, fields map[string]any) error
}

type ShipmentService struct {
	logger       *slog.Logger
	carrier      CarrierClient
	orders       ShipmentOrderStore
	events       StatusPublisher
	fallbackRate float64
}

func NewShipmentService(logger *slog.Logger, carrier CarrierClient, orders ShipmentOrderStore, events StatusPublisher, fallbackRate float64) *ShipmentService {
	return &ShipmentService{
		logger:       logger.With(slog.String("service", "shipment")),
		carrier:      carrier,
		orders:       orders,
		events:       events,
		fallbackRate: fallbackRate,
	}
}

// CreateShipment manifests the order with the carrier and returns the
// assigned waybill. Once the carrier has accepted the manifest it cannot be
// undone, so the follow-up store write is best effort: a failure there is
// logged and the waybill is still returned.
func (s *ShipmentService) CreateShipment(ctx context.Context, orderID string) (string, error) {
	order, err := s.orders.GetOrderByID(ctx, orderID)
	if err != nil {
		return "", err
	}

	names := make([]string, 0, len(order.Items))
	for _, it := range order.Items {
		names = append(names, it.Name)
	}

	// Declared value includes shipping: it is the amount the customer
	// actually pays.
	shipment := delhivery.Shipment{
		OrderID:       order.ID,
		Name:          order.Customer.Name,
		Address:       order.Customer.Address,
		City:          order.Customer.City,
		State:         order.Customer.State,
		Pincode:       order.Customer.Pincode,
		Phone:         order.Customer.Phone,
		PaymentMode:   "Prepaid",
		ProductsDesc:  strings.Join(names, ", "),
		DeclaredValue: order.Subtotal() + order.ShippingAmount,
		WeightKg:      order.TotalWeight(),
		Quantity:      len(order.Items),
	}

	waybill, err := s.carrier.CreateShipment(ctx, shipment)
	if err != nil {
		return "", fmt.Errorf("failed to create shipment: %w", err)
	}

	err = s.orders.UpdateOrder(ctx, order.ID, map[string]any{
		"waybill": waybill,
		"status":  string(entities.StatusProcessing),
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "shipment created but order update failed",
			slog.Any("error", err),
			slog.String("order_id", order.ID),
			slog.String("waybill", waybill))
	}

	s.events.PublishStatusChange(ctx, events.StatusEvent{
		OrderID:    order.ID,
		Waybill:    waybill,
		Status:     entities.StatusProcessing,
		OccurredAt: time.Now().UTC(),
	})

	return waybill, nil
}

// GetShippingRate never fails: any problem computing a live rate is masked
// by the configured fallback. Availability over accuracy for this one call.
func (s *ShipmentService) GetShippingRate(ctx context.Context, pincode string, weightKg float64) float64 {
	rate, err := s.carrier.GetRate(ctx, pincode, weightKg)
	if err != nil {
		s.logger.WarnContext(ctx, "rate lookup failed, serving fallback",
			slog.Any("error", err), slog.String("pincode", pincode))
		return s.fallbackRate
	}
	return rate
}

func (s *ShipmentService) Track(ctx context.Context, waybill string) ([]byte, error) {
	return s.carrier.Track(ctx, waybill)
}

// HandleWebhook applies a normalized carrier status update. Orders are
// matched by waybill. An unknown waybill is a no-op reported as applied ==
// false with no error, so the handler can answer 200 and stop the carrier
// from retrying. Redelivery of the same update is an idempotent overwrite.
func (s *ShipmentService) HandleWebhook(ctx context.Context, upd delhivery.StatusUpdate) (bool, error) {
	status := delhivery.NormalizeStatus(upd.RawStatus)

	order, err := s.orders.GetOrderByWaybill(ctx, upd.Waybill)
	if errors.Is(err, entities.ErrOrderNotFound) {
		s.logger.InfoContext(ctx, "webhook for unknown waybill ignored",
			slog.String("waybill", upd.Waybill))
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to find order for waybill: %w", err)
	}

	err = s.orders.UpdateOrder(ctx, order.ID, map[string]any{
		"status":         string(status),
		"carrier_status": upd.RawStatus,
	})
	if err != nil {
		return false, fmt.Errorf("failed to apply status update: %w", err)
	}

	s.logger.InfoContext(ctx, "order status updated from webhook",
		slog.String("order_id", order.ID),
		slog.String("waybill", upd.Waybill),
		slog.String("raw_status", upd.RawStatus),
		slog.String("status", string(status)))

	s.events.PublishStatusChange(ctx, events.StatusEvent{
		OrderID:    order.ID,
		Waybill:    upd.Waybill,
		Status:     status,
		OccurredAt: time.Now().UTC(),
	})

	return true, nil
}
