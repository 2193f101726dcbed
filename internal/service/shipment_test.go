package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/neecogreen/checkout-service/internal/delhivery"
	"github.com/neecogreen/checkout-service/internal/entities"
	"github.com/neecogreen/checkout-service/internal/events"
	"github.com/neecogreen/checkout-service/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testOrder() entities.Order {
	return entities.Order{
		ID:     "ord-1",
		UserID: "user-1",
		Customer: entities.Customer{
			Name:    "A Customer",
			Address: "42 Lane",
			City:    "Delhi",
			State:   "Delhi",
			Pincode: "110001",
			Phone:   "8888888888",
		},
		Items: []entities.Item{
			{Name: "Mug", Price: 250, Quantity: 2, Weight: 0.4},
			{Name: "Poster", Price: 100, Quantity: 1, Weight: 0.1},
		},
		ShippingAmount: 90,
		Status:         entities.StatusPaid,
	}
}

func TestShipmentService_CreateShipment(t *testing.T) {
	ctx := context.Background()
	order := testOrder()

	store := new(mockOrderStore)
	carrier := new(mockCarrier)
	publisher := new(mockPublisher)

	store.On("GetOrderByID", ctx, "ord-1").Return(order, nil)
	carrier.On("CreateShipment", ctx, mock.MatchedBy(func(s delhivery.Shipment) bool {
		// 2*250 + 100 items plus 90 shipping.
		return s.OrderID == "ord-1" &&
			s.DeclaredValue == 690 &&
			s.PaymentMode == "Prepaid" &&
			s.Pincode == "110001" &&
			s.Quantity == 2
	})).Return("WB123", nil)
	store.On("UpdateOrder", ctx, "ord-1", map[string]any{
		"waybill": "WB123",
		"status":  "processing",
	}).Return(nil)
	publisher.On("PublishStatusChange", ctx, mock.MatchedBy(func(ev events.StatusEvent) bool {
		return ev.OrderID == "ord-1" && ev.Waybill == "WB123" && ev.Status == entities.StatusProcessing
	})).Return()

	svc := service.NewShipmentService(discardLogger(), carrier, store, publisher, 150)

	waybill, err := svc.CreateShipment(ctx, "ord-1")
	require.NoError(t, err)
	assert.Equal(t, "WB123", waybill)

	store.AssertExpectations(t)
	carrier.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestShipmentService_CreateShipment_OrderNotFound(t *testing.T) {
	ctx := context.Background()

	store := new(mockOrderStore)
	store.On("GetOrderByID", ctx, "missing").Return(entities.Order{}, entities.ErrOrderNotFound)

	svc := service.NewShipmentService(discardLogger(), new(mockCarrier), store, new(mockPublisher), 150)

	_, err := svc.CreateShipment(ctx, "missing")
	assert.ErrorIs(t, err, entities.ErrOrderNotFound)
}

// The manifest cannot be undone, so a failed store write must not lose the
// waybill the carrier already assigned.
func TestShipmentService_CreateShipment_StoreFailureStillReturnsWaybill(t *testing.T) {
	ctx := context.Background()

	store := new(mockOrderStore)
	carrier := new(mockCarrier)
	publisher := new(mockPublisher)

	store.On("GetOrderByID", ctx, "ord-1").Return(testOrder(), nil)
	carrier.On("CreateShipment", ctx, mock.Anything).Return("WB123", nil)
	store.On("UpdateOrder", ctx, "ord-1", mock.Anything).Return(errors.New("db down"))
	publisher.On("PublishStatusChange", ctx, mock.Anything).Return()

	svc := service.NewShipmentService(discardLogger(), carrier, store, publisher, 150)

	waybill, err := svc.CreateShipment(ctx, "ord-1")
	require.NoError(t, err)
	assert.Equal(t, "WB123", waybill)
}

func TestShipmentService_CreateShipment_CarrierError(t *testing.T) {
	ctx := context.Background()

	store := new(mockOrderStore)
	carrier := new(mockCarrier)

	store.On("GetOrderByID", ctx, "ord-1").Return(testOrder(), nil)
	carrier.On("CreateShipment", ctx, mock.Anything).Return("", errors.New("pincode not serviceable"))

	svc := service.NewShipmentService(discardLogger(), carrier, store, new(mockPublisher), 150)

	_, err := svc.CreateShipment(ctx, "ord-1")
	assert.Error(t, err)
	store.AssertNotCalled(t, "UpdateOrder", mock.Anything, mock.Anything, mock.Anything)
}

func TestShipmentService_GetShippingRate(t *testing.T) {
	ctx := context.Background()

	t.Run("live rate", func(t *testing.T) {
		carrier := new(mockCarrier)
		carrier.On("GetRate", ctx, "110001", 1.5).Return(123.5, nil)

		svc := service.NewShipmentService(discardLogger(), carrier, new(mockOrderStore), new(mockPublisher), 150)
		assert.Equal(t, 123.5, svc.GetShippingRate(ctx, "110001", 1.5))
	})

	t.Run("fallback on carrier error", func(t *testing.T) {
		carrier := new(mockCarrier)
		carrier.On("GetRate", ctx, "110001", 1.5).Return(0.0, errors.New("timeout"))

		svc := service.NewShipmentService(discardLogger(), carrier, new(mockOrderStore), new(mockPublisher), 150)
		assert.Equal(t, 150.0, svc.GetShippingRate(ctx, "110001", 1.5))
	})
}

func TestShipmentService_HandleWebhook(t *testing.T) {
	ctx := context.Background()

	store := new(mockOrderStore)
	publisher := new(mockPublisher)

	store.On("GetOrderByWaybill", ctx, "WB123").Return(entities.Order{ID: "ord-1", Waybill: "WB123"}, nil)
	store.On("UpdateOrder", ctx, "ord-1", map[string]any{
		"status":         "shipped",
		"carrier_status": "In Transit",
	}).Return(nil)
	publisher.On("PublishStatusChange", ctx, mock.MatchedBy(func(ev events.StatusEvent) bool {
		return ev.OrderID == "ord-1" && ev.Status == entities.StatusShipped
	})).Return()

	svc := service.NewShipmentService(discardLogger(), new(mockCarrier), store, publisher, 150)

	applied, err := svc.HandleWebhook(ctx, delhivery.StatusUpdate{Waybill: "WB123", RawStatus: "In Transit"})
	require.NoError(t, err)
	assert.True(t, applied)

	store.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestShipmentService_HandleWebhook_UnknownWaybill(t *testing.T) {
	ctx := context.Background()

	store := new(mockOrderStore)
	store.On("GetOrderByWaybill", ctx, "WB404").Return(entities.Order{}, entities.ErrOrderNotFound)

	svc := service.NewShipmentService(discardLogger(), new(mockCarrier), store, new(mockPublisher), 150)

	applied, err := svc.HandleWebhook(ctx, delhivery.StatusUpdate{Waybill: "WB404", RawStatus: "Delivered"})
	require.NoError(t, err)
	assert.False(t, applied)
	store.AssertNotCalled(t, "UpdateOrder", mock.Anything, mock.Anything, mock.Anything)
}

func TestShipmentService_HandleWebhook_StoreError(t *testing.T) {
	ctx := context.Background()

	store := new(mockOrderStore)
	store.On("GetOrderByWaybill", ctx, "WB123").Return(entities.Order{ID: "ord-1"}, nil)
	store.On("UpdateOrder", ctx, "ord-1", mock.Anything).Return(errors.New("db down"))

	svc := service.NewShipmentService(discardLogger(), new(mockCarrier), store, new(mockPublisher), 150)

	applied, err := svc.HandleWebhook(ctx, delhivery.StatusUpdate{Waybill: "WB123", RawStatus: "Delivered"})
	assert.Error(t, err)
	assert.False(t, applied)
}

// Re-delivering the same update is an idempotent overwrite.
func TestShipmentService_HandleWebhook_Redelivery(t *testing.T) {
	ctx := context.Background()

	store := new(mockOrderStore)
	publisher := new(mockPublisher)

	store.On("GetOrderByWaybill", ctx, "WB123").Return(entities.Order{ID: "ord-1"}, nil).Twice()
	store.On("UpdateOrder", ctx, "ord-1", map[string]any{
		"status":         "delivered",
		"carrier_status": "Delivered",
	}).Return(nil).Twice()
	publisher.On("PublishStatusChange", ctx, mock.Anything).Return().Twice()

	svc := service.NewShipmentService(discardLogger(), new(mockCarrier), store, publisher, 150)

	upd := delhivery.StatusUpdate{Waybill: "WB123", RawStatus: "Delivered"}
	for i := 0; i < 2; i++ {
		applied, err := svc.HandleWebhook(ctx, upd)
		require.NoError(t, err)
		assert.True(t, applied)
	}

	store.AssertExpectations(t)
}
