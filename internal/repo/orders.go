package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/neecogreen/checkout-service/internal/entities"
	"github.com/neecogreen/checkout-service/pkg/trm"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
)

var orderColumns = []string{
	"id", "user_id", "name", "email", "phone", "address", "city", "state",
	"pincode", "shipping_amount", "gateway_order_id", "payment_id",
	"waybill", "carrier_status", "status", "created_at", "updated_at",
}

type OrderRepo struct {
	db *sqlx.DB
	qb sq.StatementBuilderType
}

func NewOrderRepo(db *sqlx.DB) *OrderRepo {
	return &OrderRepo{
		db: db,
		qb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (r *OrderRepo) CreateOrder(ctx context.Context, o entities.Order) error {
	query, args := r.qb.Insert("orders").
		Columns(orderColumns...).
		Values(
			o.ID, o.UserID, o.Customer.Name, o.Customer.Email, o.Customer.Phone,
			o.Customer.Address, o.Customer.City, nullString(o.Customer.State),
			o.Customer.Pincode, o.ShippingAmount, nullString(o.GatewayOrderID),
			nullString(o.PaymentID), nullString(o.Waybill),
			nullString(o.CarrierStatus), string(o.Status), o.CreatedAt, o.UpdatedAt,
		).
		MustSql()

	if _, err := r.execContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to save order: %w", err)
	}

	return r.saveItems(ctx, o.ID, o.Items)
}

func (r *OrderRepo) saveItems(ctx context.Context, orderID string, items []entities.Item) error {
	if len(items) == 0 {
		return nil
	}

	q := r.qb.Insert("order_items").
		Columns("order_id", "name", "price", "quantity", "weight")

	for _, it := range items {
		q = q.Values(orderID, it.Name, it.Price, it.Quantity, it.Weight)
	}

	query, args := q.MustSql()
	if _, err := r.execContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to save order items: %w", err)
	}
	return nil
}

func (r *OrderRepo) GetOrderByID(ctx context.Context, orderID string) (entities.Order, error) {
	return r.getOrderBy(ctx, sq.Eq{"id": orderID})
}

// GetOrderByWaybill finds the order a carrier callback refers to. Webhooks
// are matched by waybill, never by order id.
func (r *OrderRepo) GetOrderByWaybill(ctx context.Context, waybill string) (entities.Order, error) {
	return r.getOrderBy(ctx, sq.Eq{"waybill": waybill})
}

// GetOrderByGatewayID finds the order linked to a payment-gateway order.
func (r *OrderRepo) GetOrderByGatewayID(ctx context.Context, gatewayOrderID string) (entities.Order, error) {
	return r.getOrderBy(ctx, sq.Eq{"gateway_order_id": gatewayOrderID})
}

func (r *OrderRepo) getOrderBy(ctx context.Context, where sq.Eq) (entities.Order, error) {
	query, args := r.qb.Select(orderColumns...).
		From("orders").
		Where(where).
		Limit(1).
		MustSql()

	var order Order
	err := r.getContext(ctx, &order, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return entities.Order{}, entities.ErrOrderNotFound
	}
	if err != nil {
		return entities.Order{}, fmt.Errorf("failed to get order: %w", err)
	}

	items, err := r.itemsFor(ctx, []string{order.ID})
	if err != nil {
		return entities.Order{}, err
	}

	return OrderToEntity(order, items[order.ID]), nil
}

func (r *OrderRepo) ListOrdersByUser(ctx context.Context, userID string) ([]entities.Order, error) {
	query, args := r.qb.Select(orderColumns...).
		From("orders").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("created_at DESC").
		MustSql()

	var orders []Order
	if err := r.selectContext(ctx, &orders, query, args...); err != nil {
		return nil, fmt.Errorf("failed to select orders: %w", err)
	}

	if len(orders) == 0 {
		return []entities.Order{}, nil
	}

	ids := make([]string, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
	}

	items, err := r.itemsFor(ctx, ids)
	if err != nil {
		return nil, err
	}

	result := make([]entities.Order, 0, len(orders))
	for _, o := range orders {
		result = append(result, OrderToEntity(o, items[o.ID]))
	}
	return result, nil
}

func (r *OrderRepo) itemsFor(ctx context.Context, orderIDs []string) (map[string][]Item, error) {
	query, args := r.qb.Select("order_id", "name", "price", "quantity", "weight").
		From("order_items").
		Where(sq.Eq{"order_id": orderIDs}).
		MustSql()

	var items []Item
	if err := r.selectContext(ctx, &items, query, args...); err != nil {
		return nil, fmt.Errorf("failed to select order items: %w", err)
	}

	byOrder := make(map[string][]Item, len(orderIDs))
	for _, it := range items {
		byOrder[it.OrderID] = append(byOrder[it.OrderID], it)
	}
	return byOrder, nil
}

// UpdateOrder applies a partial, point update. updated_at is always bumped.
func (r *OrderRepo) UpdateOrder(ctx context.Context, orderID string, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}

	set := make(map[string]any, len(fields)+1)
	for k, v := range fields {
		set[k] = v
	}
	set["updated_at"] = time.Now().UTC()

	query, args := r.qb.Update("orders").
		SetMap(set).
		Where(sq.Eq{"id": orderID}).
		MustSql()

	res, err := r.execContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update order: %w", err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return entities.ErrOrderNotFound
	}
	return nil
}

func (r *OrderRepo) execContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if tx := trm.ExtractTx(ctx); tx != nil {
		return tx.ExecContext(ctx, query, args...)
	}
	return r.db.ExecContext(ctx, query, args...)
}

func (r *OrderRepo) getContext(ctx context.Context, dest any, query string, args ...any) error {
	if tx := trm.ExtractTx(ctx); tx != nil {
		return tx.GetContext(ctx, dest, query, args...)
	}
	return r.db.GetContext(ctx, dest, query, args...)
}

func (r *OrderRepo) selectContext(ctx context.Context, dest any, query string, args ...any) error {
	if tx := trm.ExtractTx(ctx); tx != nil {
		return tx.SelectContext(ctx, dest, query, args...)
	}
	return r.db.SelectContext(ctx, dest, query, args...)
}
