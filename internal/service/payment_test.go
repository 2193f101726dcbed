package service_test

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"testing"

	"github.com/neecogreen/checkout-service/internal/entities"
	"github.com/neecogreen/checkout-service/internal/events"
	"github.com/neecogreen/checkout-service/internal/razorpay"
	"github.com/neecogreen/checkout-service/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signPayment(gatewayOrderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(testSecret))
	mac.Write([]byte(gatewayOrderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestPaymentService_CreatePaymentOrder(t *testing.T) {
	ctx := context.Background()

	gateway := new(mockGateway)
	// 499.99 rupees round to 49999 paise.
	gateway.On("CreateOrder", ctx, int64(49999), "INR", mock.MatchedBy(func(receipt string) bool {
		return len(receipt) > len("receipt_") && receipt[:8] == "receipt_"
	})).Return(razorpay.Order{ID: "order_abc", Amount: 49999, Currency: "INR"}, nil)

	svc := service.NewPaymentService(discardLogger(), gateway, new(mockOrderStore), new(mockPublisher), testSecret)

	order, err := svc.CreatePaymentOrder(ctx, 499.99)
	require.NoError(t, err)
	assert.Equal(t, "order_abc", order.ID)

	gateway.AssertExpectations(t)
}

func TestPaymentService_CreatePaymentOrder_GatewayError(t *testing.T) {
	ctx := context.Background()

	gateway := new(mockGateway)
	gateway.On("CreateOrder", ctx, mock.Anything, mock.Anything, mock.Anything).
		Return(razorpay.Order{}, errors.New("gateway unavailable"))

	svc := service.NewPaymentService(discardLogger(), gateway, new(mockOrderStore), new(mockPublisher), testSecret)

	_, err := svc.CreatePaymentOrder(ctx, 100)
	assert.Error(t, err)
}

func TestPaymentService_VerifyPayment(t *testing.T) {
	ctx := context.Background()

	store := new(mockOrderStore)
	publisher := new(mockPublisher)

	store.On("GetOrderByGatewayID", ctx, "order_abc").Return(entities.Order{ID: "ord-1"}, nil)
	store.On("UpdateOrder", ctx, "ord-1", map[string]any{
		"status":     "paid",
		"payment_id": "pay_1",
	}).Return(nil)
	publisher.On("PublishStatusChange", ctx, mock.MatchedBy(func(ev events.StatusEvent) bool {
		return ev.OrderID == "ord-1" && ev.Status == entities.StatusPaid
	})).Return()

	svc := service.NewPaymentService(discardLogger(), new(mockGateway), store, publisher, testSecret)

	ok := svc.VerifyPayment(ctx, "order_abc", "pay_1", signPayment("order_abc", "pay_1"))
	assert.True(t, ok)

	store.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestPaymentService_VerifyPayment_InvalidSignature(t *testing.T) {
	ctx := context.Background()

	store := new(mockOrderStore)
	svc := service.NewPaymentService(discardLogger(), new(mockGateway), store, new(mockPublisher), testSecret)

	ok := svc.VerifyPayment(ctx, "order_abc", "pay_1", "deadbeef")
	assert.False(t, ok)

	// A rejected signature never touches the store.
	store.AssertNotCalled(t, "GetOrderByGatewayID", mock.Anything, mock.Anything)
	store.AssertNotCalled(t, "UpdateOrder", mock.Anything, mock.Anything, mock.Anything)
}

// Verification is client-facing truth about the signature. The paid
// transition is bookkeeping and must not change the verdict.
func TestPaymentService_VerifyPayment_StoreFailureStillValid(t *testing.T) {
	ctx := context.Background()

	store := new(mockOrderStore)
	store.On("GetOrderByGatewayID", ctx, "order_abc").Return(entities.Order{}, errors.New("db down"))

	svc := service.NewPaymentService(discardLogger(), new(mockGateway), store, new(mockPublisher), testSecret)

	ok := svc.VerifyPayment(ctx, "order_abc", "pay_1", signPayment("order_abc", "pay_1"))
	assert.True(t, ok)
}

func TestPaymentService_VerifyPayment_NoStoredOrder(t *testing.T) {
	ctx := context.Background()

	store := new(mockOrderStore)
	store.On("GetOrderByGatewayID", ctx, "order_abc").Return(entities.Order{}, entities.ErrOrderNotFound)

	svc := service.NewPaymentService(discardLogger(), new(mockGateway), store, new(mockPublisher), testSecret)

	ok := svc.VerifyPayment(ctx, "order_abc", "pay_1", signPayment("order_abc", "pay_1"))
	assert.True(t, ok)
	store.AssertNotCalled(t, "UpdateOrder", mock.Anything, mock.Anything, mock.Anything)
}
