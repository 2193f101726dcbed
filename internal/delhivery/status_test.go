package delhivery_test

import (
	"testing"

	"github.com/neecogreen/checkout-service/internal/delhivery"
	"github.com/neecogreen/checkout-service/internal/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseWebhook(t *testing.T) {
	testCases := []struct {
		name        string
		payload     string
		wantWaybill string
		wantStatus  string
		wantErr     error
	}{
		{
			name:        "nested shape with status object",
			payload:     `{"Shipment":{"Waybill":"WB1","Status":{"Status":"Delivered"}}}`,
			wantWaybill: "WB1",
			wantStatus:  "Delivered",
		},
		{
			name:        "nested shape with bare status string",
			payload:     `{"Shipment":{"Waybill":"WB1","Status":"In Transit"}}`,
			wantWaybill: "WB1",
			wantStatus:  "In Transit",
		},
		{
			name:        "flat shape",
			payload:     `{"waybill":"WB2","status":"RTO"}`,
			wantWaybill: "WB2",
			wantStatus:  "RTO",
		},
		{
			name:        "flat shape with capitalized keys",
			payload:     `{"Waybill":"WB3","Status":"Dispatched"}`,
			wantWaybill: "WB3",
			wantStatus:  "Dispatched",
		},
		{
			name:        "flat shape with status object",
			payload:     `{"waybill":"WB4","status":{"Status":"Pending"}}`,
			wantWaybill: "WB4",
			wantStatus:  "Pending",
		},
		{
			name:        "numeric waybill",
			payload:     `{"waybill":69301234567,"status":"Manifested"}`,
			wantWaybill: "69301234567",
			wantStatus:  "Manifested",
		},
		{
			name:    "missing waybill and status",
			payload: `{"event":"ping"}`,
			wantErr: delhivery.ErrMalformedPayload,
		},
		{
			name:    "nested shape missing status",
			payload: `{"Shipment":{"Waybill":"WB5"}}`,
			wantErr: delhivery.ErrMalformedPayload,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			upd, err := delhivery.ParseWebhook([]byte(tc.payload))

			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.wantWaybill, upd.Waybill)
			assert.Equal(t, tc.wantStatus, upd.RawStatus)
		})
	}
}

func TestParseWebhook_InvalidJSON(t *testing.T) {
	_, err := delhivery.ParseWebhook([]byte(`not json`))
	assert.Error(t, err)
	assert.NotErrorIs(t, err, delhivery.ErrMalformedPayload)
}

func TestNormalizeStatus(t *testing.T) {
	testCases := []struct {
		raw  string
		want entities.OrderStatus
	}{
		{"In Transit", entities.StatusShipped},
		{"in transit", entities.StatusShipped},
		{"DISPATCHED", entities.StatusShipped},
		{"Delivered", entities.StatusDelivered},
		{"RTO", entities.StatusReturned},
		{"Pending", entities.StatusPending},
		{"Manifested", entities.StatusPacked},
		// Unknown labels pass through lower-cased verbatim.
		{"Out For Delivery", entities.OrderStatus("out for delivery")},
	}

	for _, tc := range testCases {
		t.Run(tc.raw, func(t *testing.T) {
			assert.Equal(t, tc.want, delhivery.NormalizeStatus(tc.raw))
		})
	}
}
