package delhivery

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/neecogreen/checkout-service/internal/entities"
)

// ErrMalformedPayload means neither known webhook shape yielded a waybill
// and a status. Callers should answer 400; every other webhook problem is
// answered 200 so the carrier stops retrying.
var ErrMalformedPayload = errors.New("webhook payload missing waybill or status")

// StatusUpdate is the normalized form of a carrier webhook.
type StatusUpdate struct {
	Waybill   string
	RawStatus string
}

// flexString accepts a JSON string or number, since waybills arrive both
// quoted and bare.
type flexString struct {
	Value string
}

func (f *flexString) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		f.Value = s
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		f.Value = n.String()
		return nil
	}
	return nil
}

// statusValue accepts either a bare status string or an object that nests
// the label under its own Status key.
type statusValue struct {
	Value string
}

func (s *statusValue) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		s.Value = str
		return nil
	}
	var obj struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal(data, &obj); err == nil {
		s.Value = obj.Status
		return nil
	}
	return nil
}

type webhookEnvelope struct {
	Shipment *struct {
		Waybill flexString  `json:"waybill"`
		Status  statusValue `json:"status"`
	} `json:"shipment"`

	Waybill flexString  `json:"waybill"`
	Status  statusValue `json:"status"`
}

// ParseWebhook tries the known payload shapes in priority order: the
// envelope nested under Shipment first, then the flat form. Key casing does
// not matter, encoding/json matches case-insensitively.
func ParseWebhook(body []byte) (StatusUpdate, error) {
	var env webhookEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return StatusUpdate{}, fmt.Errorf("decode webhook: %w", err)
	}

	if env.Shipment != nil && env.Shipment.Waybill.Value != "" && env.Shipment.Status.Value != "" {
		return StatusUpdate{
			Waybill:   env.Shipment.Waybill.Value,
			RawStatus: env.Shipment.Status.Value,
		}, nil
	}

	if env.Waybill.Value != "" && env.Status.Value != "" {
		return StatusUpdate{
			Waybill:   env.Waybill.Value,
			RawStatus: env.Status.Value,
		}, nil
	}

	return StatusUpdate{}, ErrMalformedPayload
}

var statusMap = map[string]entities.OrderStatus{
	"in transit": entities.StatusShipped,
	"dispatched": entities.StatusShipped,
	"delivered":  entities.StatusDelivered,
	"rto":        entities.StatusReturned,
	"pending":    entities.StatusPending,
	"manifested": entities.StatusPacked,
}

// NormalizeStatus maps the carrier's label onto the internal vocabulary.
// The match is case-insensitive; unknown labels pass through lower-cased.
func NormalizeStatus(raw string) entities.OrderStatus {
	if status, ok := statusMap[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return status
	}
	return entities.OrderStatus(strings.ToLower(raw))
}
