package razorpay_test

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/neecogreen/checkout-service/internal/razorpay"

	"github.com/stretchr/testify/assert"
)

func sign(orderID, paymentID, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifySignature(t *testing.T) {
	const secret = "test-secret"

	valid := sign("order_123", "pay_456", secret)

	testCases := []struct {
		name      string
		orderID   string
		paymentID string
		signature string
		want      bool
	}{
		{
			name:      "valid signature",
			orderID:   "order_123",
			paymentID: "pay_456",
			signature: valid,
			want:      true,
		},
		{
			name:      "tampered order id",
			orderID:   "order_124",
			paymentID: "pay_456",
			signature: valid,
			want:      false,
		},
		{
			name:      "tampered payment id",
			orderID:   "order_123",
			paymentID: "pay_457",
			signature: valid,
			want:      false,
		},
		{
			name:      "tampered signature byte",
			orderID:   "order_123",
			paymentID: "pay_456",
			signature: flipLastByte(valid),
			want:      false,
		},
		{
			name:      "truncated signature",
			orderID:   "order_123",
			paymentID: "pay_456",
			signature: valid[:10],
			want:      false,
		},
		{
			name:      "empty signature",
			orderID:   "order_123",
			paymentID: "pay_456",
			signature: "",
			want:      false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := razorpay.VerifySignature(tc.orderID, tc.paymentID, tc.signature, secret)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestVerifySignature_WrongSecret(t *testing.T) {
	valid := sign("order_123", "pay_456", "secret-a")
	assert.False(t, razorpay.VerifySignature("order_123", "pay_456", valid, "secret-b"))
}

// Verifying the same triple twice yields the same result.
func TestVerifySignature_Deterministic(t *testing.T) {
	const secret = "test-secret"
	valid := sign("order_1", "pay_1", secret)

	for i := 0; i < 3; i++ {
		assert.True(t, razorpay.VerifySignature("order_1", "pay_1", valid, secret))
	}
}

func flipLastByte(s string) string {
	b := []byte(s)
	if b[len(b)-1] == 'a' {
		b[len(b)-1] = 'b'
	} else {
		b[len(b)-1] = 'a'
	}
	return string(b)
}
