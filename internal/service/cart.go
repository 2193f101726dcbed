package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/neecogreen/checkout-service/internal/entities"
	"github.com/neecogreen/checkout-service/pkg/trm"
)

type CartRepo interface {
	SaveCart(ctx context.Context, cart entities.Cart) error
	GetCart(ctx context.Context, userID string) (entities.Cart, error)
}

type CartService struct {
	logger    *slog.Logger
	txManager trm.Manager
	repo      CartRepo
}

func NewCartService(logger *slog.Logger, txManager trm.Manager, repo CartRepo) *CartService {
	return &CartService{
		logger:    logger.With(slog.String("service", "cart")),
		txManager: txManager,
		repo:      repo,
	}
}

// SaveCart overwrites the user's cart wholesale. There is no merge.
func (s *CartService) SaveCart(ctx context.Context, cart entities.Cart) error {
	cart.UpdatedAt = time.Now().UTC()

	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		return s.repo.SaveCart(ctx, cart)
	})
	if err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}
	return nil
}

// GetCart returns an empty cart for users who never saved one.
func (s *CartService) GetCart(ctx context.Context, userID string) (entities.Cart, error) {
	cart, err := s.repo.GetCart(ctx, userID)
	if errors.Is(err, entities.ErrCartNotFound) {
		return entities.Cart{UserID: userID}, nil
	}
	if err != nil {
		return entities.Cart{}, err
	}
	return cart, nil
}
