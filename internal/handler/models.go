package handler

import (
	"time"

	"github.com/neecogreen/checkout-service/internal/entities"
	"github.com/neecogreen/checkout-service/internal/razorpay"
)

type CreatePaymentOrderRequest struct {
	// Amount in rupees; converted to paise for the gateway.
	Amount float64 `json:"amount" validate:"required,gt=0"`
}

type PaymentOrderResponse struct {
	ID        string `json:"id"`
	Amount    int64  `json:"amount"`
	Currency  string `json:"currency"`
	Receipt   string `json:"receipt"`
	Status    string `json:"status"`
	CreatedAt int64  `json:"created_at"`
}

func PaymentOrderToJSON(o razorpay.Order) PaymentOrderResponse {
	return PaymentOrderResponse{
		ID:        o.ID,
		Amount:    o.Amount,
		Currency:  o.Currency,
		Receipt:   o.Receipt,
		Status:    o.Status,
		CreatedAt: o.CreatedAt,
	}
}

type VerifyPaymentRequest struct {
	OrderID   string `json:"razorpay_order_id" validate:"required"`
	PaymentID string `json:"razorpay_payment_id" validate:"required"`
	Signature string `json:"razorpay_signature" validate:"required"`
}

type VerifyPaymentResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type CreateShipmentRequest struct {
	OrderID string `json:"order_id" validate:"required"`
}

type CreateShipmentResponse struct {
	Success bool   `json:"success"`
	Waybill string `json:"waybill"`
}

type ShippingRateRequest struct {
	Pincode string  `json:"pincode" validate:"required,len=6,numeric"`
	Weight  float64 `json:"weight" validate:"gte=0"`
}

type ShippingRateResponse struct {
	Shipping float64 `json:"shipping"`
}

type WebhookResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type Customer struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone" validate:"required"`
	Address string `json:"address" validate:"required"`
	City    string `json:"city" validate:"required"`
	State   string `json:"state,omitempty"`
	Pincode string `json:"pincode" validate:"required,len=6,numeric"`
}

type Item struct {
	Name     string  `json:"name" validate:"required"`
	Price    float64 `json:"price" validate:"gte=0"`
	Quantity int     `json:"quantity" validate:"required,gt=0"`
	Weight   float64 `json:"weight" validate:"gte=0"`
}

type SaveOrderRequest struct {
	Customer       Customer `json:"customer" validate:"required"`
	Items          []Item   `json:"items" validate:"required,min=1,dive"`
	ShippingAmount float64  `json:"shipping_amount" validate:"gte=0"`
	GatewayOrderID string   `json:"razorpay_order_id,omitempty"`
}

type Order struct {
	ID             string    `json:"id"`
	Customer       Customer  `json:"customer"`
	Items          []Item    `json:"items"`
	ShippingAmount float64   `json:"shipping_amount"`
	GatewayOrderID string    `json:"razorpay_order_id,omitempty"`
	PaymentID      string    `json:"payment_id,omitempty"`
	Waybill        string    `json:"waybill,omitempty"`
	CarrierStatus  string    `json:"carrier_status,omitempty"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func SaveOrderToEntity(req SaveOrderRequest, userID string) entities.Order {
	items := make([]entities.Item, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, entities.Item{
			Name:     it.Name,
			Price:    it.Price,
			Quantity: it.Quantity,
			Weight:   it.Weight,
		})
	}

	return entities.Order{
		UserID: userID,
		Customer: entities.Customer{
			Name:    req.Customer.Name,
			Email:   req.Customer.Email,
			Phone:   req.Customer.Phone,
			Address: req.Customer.Address,
			City:    req.Customer.City,
			State:   req.Customer.State,
			Pincode: req.Customer.Pincode,
		},
		Items:          items,
		ShippingAmount: req.ShippingAmount,
		GatewayOrderID: req.GatewayOrderID,
	}
}

func OrderEntityToJSON(o entities.Order) Order {
	items := make([]Item, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, Item{
			Name:     it.Name,
			Price:    it.Price,
			Quantity: it.Quantity,
			Weight:   it.Weight,
		})
	}

	return Order{
		ID: o.ID,
		Customer: Customer{
			Name:    o.Customer.Name,
			Email:   o.Customer.Email,
			Phone:   o.Customer.Phone,
			Address: o.Customer.Address,
			City:    o.Customer.City,
			State:   o.Customer.State,
			Pincode: o.Customer.Pincode,
		},
		Items:          items,
		ShippingAmount: o.ShippingAmount,
		GatewayOrderID: o.GatewayOrderID,
		PaymentID:      o.PaymentID,
		Waybill:        o.Waybill,
		CarrierStatus:  o.CarrierStatus,
		Status:         string(o.Status),
		CreatedAt:      o.CreatedAt,
		UpdatedAt:      o.UpdatedAt,
	}
}

type CartItem struct {
	ItemID   string `json:"item_id" validate:"required"`
	Quantity int    `json:"quantity" validate:"required,gt=0"`
}

type SaveCartRequest struct {
	Items []CartItem `json:"items" validate:"dive"`
}

type Cart struct {
	Items     []CartItem `json:"items"`
	UpdatedAt time.Time  `json:"updated_at,omitzero"`
}

func CartEntityToJSON(c entities.Cart) Cart {
	items := make([]CartItem, 0, len(c.Items))
	for _, it := range c.Items {
		items = append(items, CartItem{ItemID: it.ItemID, Quantity: it.Quantity})
	}
	return Cart{Items: items, UpdatedAt: c.UpdatedAt}
}

type SignUpRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type TokenResponse struct {
	Token string `json:"token"`
}
