package repo

import (
	"database/sql"
	"time"

	"github.com/neecogreen/checkout-service/internal/entities"
)

type Order struct {
	ID     string `db:"id"`
	UserID string `db:"user_id"`

	Name    string         `db:"name"`
	Email   string         `db:"email"`
	Phone   string         `db:"phone"`
	Address string         `db:"address"`
	City    string         `db:"city"`
	State   sql.NullString `db:"state"`
	Pincode string         `db:"pincode"`

	ShippingAmount float64 `db:"shipping_amount"`

	GatewayOrderID sql.NullString `db:"gateway_order_id"`
	PaymentID      sql.NullString `db:"payment_id"`
	Waybill        sql.NullString `db:"waybill"`
	CarrierStatus  sql.NullString `db:"carrier_status"`

	Status    string    `db:"status"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

type Item struct {
	OrderID  string  `db:"order_id"`
	Name     string  `db:"name"`
	Price    float64 `db:"price"`
	Quantity int     `db:"quantity"`
	Weight   float64 `db:"weight"`
}

type CartItem struct {
	UserID   string `db:"user_id"`
	ItemID   string `db:"item_id"`
	Quantity int    `db:"quantity"`
	Position int    `db:"position"`
}

type Cart struct {
	UserID    string    `db:"user_id"`
	UpdatedAt time.Time `db:"updated_at"`
}

type User struct {
	ID           string    `db:"id"`
	Name         string    `db:"name"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
}

func OrderToEntity(o Order, items []Item) entities.Order {
	order := entities.Order{
		ID:     o.ID,
		UserID: o.UserID,
		Customer: entities.Customer{
			Name:    o.Name,
			Email:   o.Email,
			Phone:   o.Phone,
			Address: o.Address,
			City:    o.City,
			State:   nullStringToString(o.State),
			Pincode: o.Pincode,
		},
		ShippingAmount: o.ShippingAmount,
		GatewayOrderID: nullStringToString(o.GatewayOrderID),
		PaymentID:      nullStringToString(o.PaymentID),
		Waybill:        nullStringToString(o.Waybill),
		CarrierStatus:  nullStringToString(o.CarrierStatus),
		Status:         entities.OrderStatus(o.Status),
		CreatedAt:      o.CreatedAt,
		UpdatedAt:      o.UpdatedAt,
	}

	if len(items) > 0 {
		order.Items = make([]entities.Item, 0, len(items))
		for _, it := range items {
			order.Items = append(order.Items, entities.Item{
				Name:     it.Name,
				Price:    it.Price,
				Quantity: it.Quantity,
				Weight:   it.Weight,
			})
		}
	}

	return order
}

func UserToEntity(u User) entities.User {
	return entities.User{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		CreatedAt:    u.CreatedAt,
	}
}

func nullStringToString(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
