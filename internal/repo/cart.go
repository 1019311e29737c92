package repo

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/Skotchmaster/storefront/internal/domain"
	"github.com/Skotchmaster/storefront/internal/models"
)

// CreateCartItem always inserts a new row: adding the same product twice
// yields two independent items.
func (r *GormRepo) CreateCartItem(ctx context.Context, item domain.CartItem) (domain.CartItem, error) {
	uid, ok := parseID(item.UserID)
	if !ok {
		return domain.CartItem{}, domain.FieldErrors{"userId": "unknown user"}
	}
	pid, ok := parseID(item.ProductID)
	if !ok {
		return domain.CartItem{}, domain.FieldErrors{"productId": "unknown product"}
	}
	m := models.CartItem{UserID: uid, ProductID: pid, Quantity: item.Quantity}
	if err := r.db(ctx).Create(&m).Error; err != nil {
		return domain.CartItem{}, fmt.Errorf("create cart item: %w", err)
	}
	return toCartItem(m), nil
}

func (r *GormRepo) GetCartItem(ctx context.Context, id string) (domain.CartItem, bool, error) {
	cid, ok := parseID(id)
	if !ok {
		return domain.CartItem{}, false, nil
	}
	var m models.CartItem
	found, err := r.first(ctx, &m, "id = ?", cid)
	if err != nil {
		return domain.CartItem{}, false, fmt.Errorf("get cart item: %w", err)
	}
	if !found {
		return domain.CartItem{}, false, nil
	}
	return toCartItem(m), true, nil
}

func (r *GormRepo) ListCartItems(ctx context.Context) ([]domain.CartItem, error) {
	var items []models.CartItem
	if err := ordered(r.db(ctx)).Find(&items).Error; err != nil {
		return nil, fmt.Errorf("list cart items: %w", err)
	}
	return mapAll(items, toCartItem), nil
}

func (r *GormRepo) ListCartItemsByUser(ctx context.Context, userID string) ([]domain.CartItem, error) {
	uid, ok := parseID(userID)
	if !ok {
		return []domain.CartItem{}, nil
	}
	var items []models.CartItem
	if err := ordered(r.db(ctx)).Where("user_id = ?", uid).Find(&items).Error; err != nil {
		return nil, fmt.Errorf("list cart items: %w", err)
	}
	return mapAll(items, toCartItem), nil
}

func (r *GormRepo) UpdateCartItem(ctx context.Context, id string, p domain.CartItemPatch) (domain.CartItem, error) {
	cid, ok := parseID(id)
	if !ok {
		return domain.CartItem{}, domain.NotFound("cart item not found")
	}
	var m models.CartItem
	found, err := r.first(ctx, &m, "id = ?", cid)
	if err != nil {
		return domain.CartItem{}, fmt.Errorf("load cart item: %w", err)
	}
	if !found {
		return domain.CartItem{}, domain.NotFound("cart item not found")
	}
	if p.Empty() {
		return toCartItem(m), nil
	}

	m.Quantity = *p.Quantity
	if err := r.db(ctx).Save(&m).Error; err != nil {
		return domain.CartItem{}, fmt.Errorf("update cart item: %w", err)
	}
	return toCartItem(m), nil
}

func (r *GormRepo) DeleteCartItem(ctx context.Context, id string) error {
	cid, ok := parseID(id)
	if !ok {
		return domain.NotFound("cart item not found")
	}
	res := r.db(ctx).Where("id = ?", cid).Delete(&models.CartItem{})
	if res.Error != nil {
		return fmt.Errorf("delete cart item: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.NotFound("cart item not found")
	}
	return nil
}

func deleteCartItemsWhere(name, query string, args ...any) cascadeStep {
	return cascadeStep{
		name: name,
		run: func(tx *gorm.DB) error {
			return tx.Where(query, args...).Delete(&models.CartItem{}).Error
		},
	}
}
