package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/Skotchmaster/refurb_shop/internal/repo"
	"github.com/Skotchmaster/refurb_shop/internal/transport"
)

const maxSessionKeyLen = 255

type CartService struct {
	Repo   *repo.GormRepo
	Events Publisher
}

func checkSession(sessionKey string) error {
	if sessionKey == "" {
		return validationf("session key is required")
	}
	if len(sessionKey) > maxSessionKeyLen {
		return validationf("session key must be at most %d bytes", maxSessionKeyLen)
	}
	return nil
}

func (s *CartService) requireVariant(ctx context.Context, variantID uint) error {
	if variantID == 0 {
		return validationf("variant_id is required")
	}
	if _, err := s.Repo.GetVariant(ctx, variantID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("variant %d not found: %w", variantID, ErrNotFound)
		}
		return err
	}
	return nil
}

// Read returns the session's cart, creating an empty one on first access.
func (s *CartService) Read(ctx context.Context, sessionKey string, userID *uint) (*transport.Cart, error) {
	if err := checkSession(sessionKey); err != nil {
		return nil, err
	}
	cart, err := s.Repo.GetOrCreateCart(ctx, sessionKey, userID)
	if err != nil {
		return nil, err
	}
	lines, err := s.Repo.CartLines(ctx, sessionKey)
	if err != nil {
		return nil, err
	}

	view := &transport.Cart{
		ID:         cart.ID,
		SessionKey: cart.SessionKey,
		Items:      make([]transport.CartItem, 0, len(lines)),
	}
	for _, ln := range lines {
		sub := ln.PriceCLP * int64(ln.Quantity)
		view.Items = append(view.Items, transport.CartItem{
			ID: ln.ID,
			Variant: transport.CartVariant{
				ID:        ln.VariantID,
				SKU:       ln.SKU,
				PriceCLP:  ln.PriceCLP,
				ProductID: ln.ProductID,
				Title:     ln.Title,
			},
			Quantity: ln.Quantity,
			Subtotal: sub,
		})
		view.TotalCLP += sub
	}
	return view, nil
}

// Add increments the line for variantID by quantity, creating it when absent.
// A zero quantity counts as one.
func (s *CartService) Add(ctx context.Context, sessionKey string, userID *uint, variantID uint, quantity int) error {
	if err := checkSession(sessionKey); err != nil {
		return err
	}
	if quantity < 0 {
		return validationf("quantity must be positive")
	}
	if quantity == 0 {
		quantity = 1
	}
	if err := s.requireVariant(ctx, variantID); err != nil {
		return err
	}

	cart, err := s.Repo.GetOrCreateCart(ctx, sessionKey, userID)
	if err != nil {
		return err
	}
	if err := s.Repo.AddLine(ctx, cart.ID, variantID, quantity); err != nil {
		return err
	}

	publish(ctx, s.Events, TopicCart, sessionKey, Event{
		Type: "cart_item_added", SessionKey: sessionKey, VariantID: variantID, Quantity: quantity, UserID: cart.UserID,
	})
	return nil
}

// UpdateQuantity sets the absolute quantity of a line. A quantity of zero or
// less removes the line instead.
func (s *CartService) UpdateQuantity(ctx context.Context, sessionKey string, userID *uint, variantID uint, quantity int) (*transport.UpdateResult, error) {
	if err := checkSession(sessionKey); err != nil {
		return nil, err
	}
	if err := s.requireVariant(ctx, variantID); err != nil {
		return nil, err
	}

	if quantity <= 0 {
		n, err := s.Repo.RemoveLine(ctx, sessionKey, variantID)
		if err != nil {
			return nil, err
		}
		publish(ctx, s.Events, TopicCart, sessionKey, Event{
			Type: "cart_item_removed", SessionKey: sessionKey, VariantID: variantID, Count: n,
		})
		return &transport.UpdateResult{Removed: true, Deleted: n, VariantID: variantID}, nil
	}

	cart, err := s.Repo.GetOrCreateCart(ctx, sessionKey, userID)
	if err != nil {
		return nil, err
	}
	if err := s.Repo.SetLine(ctx, cart.ID, variantID, quantity); err != nil {
		return nil, err
	}

	publish(ctx, s.Events, TopicCart, sessionKey, Event{
		Type: "cart_item_updated", SessionKey: sessionKey, VariantID: variantID, Quantity: quantity, UserID: cart.UserID,
	})
	return &transport.UpdateResult{VariantID: variantID, Quantity: quantity}, nil
}

func (s *CartService) RemoveLine(ctx context.Context, sessionKey string, variantID uint) (int64, error) {
	if err := checkSession(sessionKey); err != nil {
		return 0, err
	}
	if variantID == 0 {
		return 0, validationf("variant_id is required")
	}
	n, err := s.Repo.RemoveLine(ctx, sessionKey, variantID)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		publish(ctx, s.Events, TopicCart, sessionKey, Event{
			Type: "cart_item_removed", SessionKey: sessionKey, VariantID: variantID, Count: n,
		})
	}
	return n, nil
}

func (s *CartService) Clear(ctx context.Context, sessionKey string) (int64, error) {
	if err := checkSession(sessionKey); err != nil {
		return 0, err
	}
	n, err := s.Repo.ClearCart(ctx, sessionKey)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		publish(ctx, s.Events, TopicCart, sessionKey, Event{Type: "cart_cleared", SessionKey: sessionKey, Count: n})
	}
	return n, nil
}
