package service

import (
	"context"
	"fmt"

	"github.com/Skotchmaster/storefront/internal/domain"
	"github.com/Skotchmaster/storefront/internal/events"
	"github.com/Skotchmaster/storefront/internal/logging"
)

type CartService struct {
	Store  CartStore
	Events events.Publisher
}

func (s *CartService) List(ctx context.Context, userID string) ([]domain.CartItem, error) {
	return s.Store.ListCartItemsByUser(ctx, userID)
}

// Add always creates a new line, even when the product is already in the cart.
func (s *CartService) Add(ctx context.Context, userID, productID string, quantity int) (domain.CartItem, error) {
	if quantity < 1 {
		return domain.CartItem{}, domain.FieldErrors{"quantity": "must be at least 1"}
	}
	_, found, err := s.Store.GetProduct(ctx, productID)
	if err != nil {
		return domain.CartItem{}, fmt.Errorf("check product: %w", err)
	}
	if !found {
		return domain.CartItem{}, domain.FieldErrors{"productId": "unknown product"}
	}

	item, err := s.Store.CreateCartItem(ctx, domain.CartItem{UserID: userID, ProductID: productID, Quantity: quantity})
	if err != nil {
		return domain.CartItem{}, err
	}

	logging.FromContext(ctx).Info("cart_item_added", "item_id", item.ID, "product_id", productID)
	publish(ctx, s.Events, events.TopicCart, userID, events.Event{
		Type:     "cart_item_added",
		EntityID: item.ID,
		ActorID:  userID,
		Data:     item,
	})
	return item, nil
}

// Remove deletes one of the caller's cart items. Items owned by someone else
// are reported as not found.
func (s *CartService) Remove(ctx context.Context, userID, itemID string) error {
	item, found, err := s.Store.GetCartItem(ctx, itemID)
	if err != nil {
		return err
	}
	if !found || item.UserID != userID {
		return domain.NotFound("cart item not found")
	}
	if err := s.Store.DeleteCartItem(ctx, itemID); err != nil {
		return err
	}

	publish(ctx, s.Events, events.TopicCart, userID, events.Event{Type: "cart_item_removed", EntityID: itemID, ActorID: userID})
	return nil
}
