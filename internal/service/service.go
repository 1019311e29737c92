// Package service holds the storefront use cases. Services talk to storage
// through the small interfaces below so tests can swap in fakes.
package service

import (
	"context"
	"strings"
	"time"

	"github.com/Skotchmaster/storefront/internal/domain"
	"github.com/Skotchmaster/storefront/internal/events"
	"github.com/Skotchmaster/storefront/internal/logging"
)

const MinPasswordLen = 6

type UserStore interface {
	CreateUser(ctx context.Context, u domain.User) (domain.User, error)
	GetUser(ctx context.Context, id string) (domain.User, bool, error)
	GetUserByUsername(ctx context.Context, username string) (domain.User, bool, error)
	GetUserByIdentifier(ctx context.Context, identifier string) (domain.User, bool, error)
	ListUsers(ctx context.Context) ([]domain.User, error)
	UpdateUser(ctx context.Context, id string, p domain.UserPatch) (domain.User, error)
	DeleteUser(ctx context.Context, id string) error
}

type CatalogStore interface {
	CreateCategory(ctx context.Context, c domain.Category) (domain.Category, error)
	GetCategory(ctx context.Context, id string) (domain.Category, bool, error)
	ListCategories(ctx context.Context) ([]domain.Category, error)
	UpdateCategory(ctx context.Context, id string, p domain.CategoryPatch) (domain.Category, error)
	DeleteCategory(ctx context.Context, id string) error

	CreateProduct(ctx context.Context, p domain.Product) (domain.Product, error)
	GetProduct(ctx context.Context, id string) (domain.Product, bool, error)
	ListProducts(ctx context.Context) ([]domain.Product, error)
	UpdateProduct(ctx context.Context, id string, p domain.ProductPatch) (domain.Product, error)
	DeleteProduct(ctx context.Context, id string) error
}

type CartStore interface {
	GetProduct(ctx context.Context, id string) (domain.Product, bool, error)
	CreateCartItem(ctx context.Context, item domain.CartItem) (domain.CartItem, error)
	GetCartItem(ctx context.Context, id string) (domain.CartItem, bool, error)
	ListCartItemsByUser(ctx context.Context, userID string) ([]domain.CartItem, error)
	DeleteCartItem(ctx context.Context, id string) error
}

// publish sends an event best effort: failures are logged, never returned.
func publish(ctx context.Context, p events.Publisher, topic, key string, ev events.Event) {
	if p == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	if err := p.Publish(ctx, topic, key, ev); err != nil {
		logging.FromContext(ctx).Warn("publish_event_failed", "topic", topic, "type", ev.Type, "error", err)
	}
}

func blank(s string) bool { return strings.TrimSpace(s) == "" }
