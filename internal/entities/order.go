package entities

import (
	"errors"
	"time"
)

// OrderStatus is the internal status vocabulary. Transitions are not
// enforced: webhooks and handlers overwrite the status last-writer-wins.
type OrderStatus string

const (
	StatusPlaced     OrderStatus = "placed"
	StatusPaid       OrderStatus = "paid"
	StatusProcessing OrderStatus = "processing"
	StatusPacked     OrderStatus = "packed"
	StatusPending    OrderStatus = "pending"
	StatusShipped    OrderStatus = "shipped"
	StatusDelivered  OrderStatus = "delivered"
	StatusReturned   OrderStatus = "returned"
)

type Customer struct {
	Name    string
	Email   string
	Phone   string
	Address string
	City    string
	State   string
	Pincode string
}

type Item struct {
	Name     string
	Price    float64
	Quantity int
	// Weight per unit in kilograms, used for rates and manifests.
	Weight float64
}

type Order struct {
	ID     string
	UserID string

	Customer Customer
	Items    []Item

	ShippingAmount float64

	// GatewayOrderID links the order to the payment gateway's order,
	// PaymentID is set once the payment is verified.
	GatewayOrderID string
	PaymentID      string

	// Waybill is empty until a shipment is manifested with the carrier.
	Waybill string
	// CarrierStatus keeps the carrier's raw status label as received.
	CarrierStatus string

	Status    OrderStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Subtotal is the items total without shipping.
func (o Order) Subtotal() float64 {
	var sum float64
	for _, it := range o.Items {
		sum += it.Price * float64(it.Quantity)
	}
	return sum
}

// TotalWeight in kilograms across all items.
func (o Order) TotalWeight() float64 {
	var sum float64
	for _, it := range o.Items {
		sum += it.Weight * float64(it.Quantity)
	}
	return sum
}

var ErrOrderNotFound = errors.New("order not found")
