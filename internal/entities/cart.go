package entities

import (
	"errors"
	"time"
)

// Cart is fully overwritten on every save, there is no merge logic.
type Cart struct {
	UserID    string
	Items     []CartItem
	UpdatedAt time.Time
}

type CartItem struct {
	ItemID   string
	Quantity int
}

var ErrCartNotFound = errors.New("cart not found")
