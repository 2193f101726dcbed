package service_test

import (
	"context"
	"io"
	"log/slog"

	"github.com/neecogreen/checkout-service/internal/delhivery"
	"github.com/neecogreen/checkout-service/internal/entities"
	"github.com/neecogreen/checkout-service/internal/events"
	"github.com/neecogreen/checkout-service/internal/razorpay"

	"github.com/stretchr/testify/mock"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type mockOrderStore struct {
	mock.Mock
}

func (m *mockOrderStore) GetOrderByID(ctx context.Context, orderID string) (entities.Order, error) {
	args := m.Called(ctx, orderID)
	return args.Get(0).(entities.Order), args.Error(1)
}

func (m *mockOrderStore) GetOrderByWaybill(ctx context.Context, waybill string) (entities.Order, error) {
	args := m.Called(ctx, waybill)
	return args.Get(0).(entities.Order), args.Error(1)
}

func (m *mockOrderStore) GetOrderByGatewayID(ctx context.Context, gatewayOrderID string) (entities.Order, error) {
	args := m.Called(ctx, gatewayOrderID)
	return args.Get(0).(entities.Order), args.Error(1)
}

func (m *mockOrderStore) UpdateOrder(ctx context.Context, orderID string, fields map[string]any) error {
	args := m.Called(ctx, orderID, fields)
	return args.Error(0)
}

type mockCarrier struct {
	mock.Mock
}

func (m *mockCarrier) CreateShipment(ctx context.Context, s delhivery.Shipment) (string, error) {
	args := m.Called(ctx, s)
	return args.String(0), args.Error(1)
}

func (m *mockCarrier) GetRate(ctx context.Context, pincode string, weightKg float64) (float64, error) {
	args := m.Called(ctx, pincode, weightKg)
	return args.Get(0).(float64), args.Error(1)
}

func (m *mockCarrier) Track(ctx context.Context, waybill string) ([]byte, error) {
	args := m.Called(ctx, waybill)
	return args.Get(0).([]byte), args.Error(1)
}

type mockGateway struct {
	mock.Mock
}

func (m *mockGateway) CreateOrder(ctx context.Context, amount int64, currency, receipt string) (razorpay.Order, error) {
	args := m.Called(ctx, amount, currency, receipt)
	return args.Get(0).(razorpay.Order), args.Error(1)
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) PublishStatusChange(ctx context.Context, ev events.StatusEvent) {
	m.Called(ctx, ev)
}

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) CreateUser(ctx context.Context, user entities.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *mockUserRepo) GetUserByEmail(ctx context.Context, email string) (entities.User, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(entities.User), args.Error(1)
}
