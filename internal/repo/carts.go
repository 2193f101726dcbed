package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/neecogreen/checkout-service/internal/entities"
	"github.com/neecogreen/checkout-service/pkg/trm"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
)

type CartRepo struct {
	db *sqlx.DB
	qb sq.StatementBuilderType
}

func NewCartRepo(db *sqlx.DB) *CartRepo {
	return &CartRepo{
		db: db,
		qb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// SaveCart fully replaces the user's cart. Callers run it inside a
// transaction so the delete and the insert land together.
func (r *CartRepo) SaveCart(ctx context.Context, cart entities.Cart) error {
	query, args := r.qb.Insert("carts").
		Columns("user_id", "updated_at").
		Values(cart.UserID, cart.UpdatedAt).
		Suffix("ON CONFLICT (user_id) DO UPDATE SET updated_at = EXCLUDED.updated_at").
		MustSql()

	if _, err := r.execContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}

	query, args = r.qb.Delete("cart_items").
		Where(sq.Eq{"user_id": cart.UserID}).
		MustSql()

	if _, err := r.execContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to clear cart items: %w", err)
	}

	if len(cart.Items) == 0 {
		return nil
	}

	q := r.qb.Insert("cart_items").
		Columns("user_id", "item_id", "quantity", "position")

	for i, it := range cart.Items {
		q = q.Values(cart.UserID, it.ItemID, it.Quantity, i)
	}

	query, args = q.MustSql()
	if _, err := r.execContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to save cart items: %w", err)
	}
	return nil
}

func (r *CartRepo) GetCart(ctx context.Context, userID string) (entities.Cart, error) {
	query, args := r.qb.Select("user_id", "updated_at").
		From("carts").
		Where(sq.Eq{"user_id": userID}).
		MustSql()

	var cart Cart
	err := r.getContext(ctx, &cart, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return entities.Cart{}, entities.ErrCartNotFound
	}
	if err != nil {
		return entities.Cart{}, fmt.Errorf("failed to get cart: %w", err)
	}

	query, args = r.qb.Select("user_id", "item_id", "quantity", "position").
		From("cart_items").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("position ASC").
		MustSql()

	var items []CartItem
	if err := r.selectContext(ctx, &items, query, args...); err != nil {
		return entities.Cart{}, fmt.Errorf("failed to select cart items: %w", err)
	}

	result := entities.Cart{UserID: cart.UserID, UpdatedAt: cart.UpdatedAt}
	for _, it := range items {
		result.Items = append(result.Items, entities.CartItem{
			ItemID:   it.ItemID,
			Quantity: it.Quantity,
		})
	}
	return result, nil
}

func (r *CartRepo) execContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if tx := trm.ExtractTx(ctx); tx != nil {
		return tx.ExecContext(ctx, query, args...)
	}
	return r.db.ExecContext(ctx, query, args...)
}

func (r *CartRepo) getContext(ctx context.Context, dest any, query string, args ...any) error {
	if tx := trm.ExtractTx(ctx); tx != nil {
		return tx.GetContext(ctx, dest, query, args...)
	}
	return r.db.GetContext(ctx, dest, query, args...)
}

func (r *CartRepo) selectContext(ctx context.Context, dest any, query string, args ...any) error {
	if tx := trm.ExtractTx(ctx); tx != nil {
		return tx.SelectContext(ctx, dest, query, args...)
	}
	return r.db.SelectContext(ctx, dest, query, args...)
}
