package service

import (
	"context"
	"fmt"

	"github.com/Skotchmaster/storefront/internal/domain"
	"github.com/Skotchmaster/storefront/internal/events"
	"github.com/Skotchmaster/storefront/internal/logging"
)

type CatalogService struct {
	Store  CatalogStore
	Events events.Publisher
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return s.Store.ListCategories(ctx)
}

func (s *CatalogService) GetCategory(ctx context.Context, id string) (domain.Category, error) {
	c, found, err := s.Store.GetCategory(ctx, id)
	if err != nil {
		return domain.Category{}, err
	}
	if !found {
		return domain.Category{}, domain.NotFound("category not found")
	}
	return c, nil
}

func (s *CatalogService) CreateCategory(ctx context.Context, c domain.Category) (domain.Category, error) {
	fe := domain.FieldErrors{}
	if blank(c.Name) {
		fe["name"] = "is required"
	}
	if blank(c.Description) {
		fe["description"] = "is required"
	}
	if err := fe.OrNil(); err != nil {
		return domain.Category{}, err
	}

	created, err := s.Store.CreateCategory(ctx, c)
	if err != nil {
		return domain.Category{}, err
	}
	s.emit(ctx, "category_created", created.ID, created)
	return created, nil
}

func (s *CatalogService) UpdateCategory(ctx context.Context, id string, p domain.CategoryPatch) (domain.Category, error) {
	fe := domain.FieldErrors{}
	if p.Name != nil && blank(*p.Name) {
		fe["name"] = "must not be empty"
	}
	if p.Description != nil && blank(*p.Description) {
		fe["description"] = "must not be empty"
	}
	if err := fe.OrNil(); err != nil {
		return domain.Category{}, err
	}

	updated, err := s.Store.UpdateCategory(ctx, id, p)
	if err != nil {
		return domain.Category{}, err
	}
	if !p.Empty() {
		s.emit(ctx, "category_updated", updated.ID, updated)
	}
	return updated, nil
}

// DeleteCategory also removes the category's products and their cart items.
func (s *CatalogService) DeleteCategory(ctx context.Context, id string) error {
	if err := s.Store.DeleteCategory(ctx, id); err != nil {
		return err
	}
	s.emit(ctx, "category_deleted", id, nil)
	return nil
}

func (s *CatalogService) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return s.Store.ListProducts(ctx)
}

func (s *CatalogService) GetProduct(ctx context.Context, id string) (domain.Product, error) {
	p, found, err := s.Store.GetProduct(ctx, id)
	if err != nil {
		return domain.Product{}, err
	}
	if !found {
		return domain.Product{}, domain.NotFound("product not found")
	}
	return p, nil
}

func (s *CatalogService) CreateProduct(ctx context.Context, p domain.Product) (domain.Product, error) {
	fe := domain.FieldErrors{}
	if blank(p.Name) {
		fe["name"] = "is required"
	}
	if blank(p.Description) {
		fe["description"] = "is required"
	}
	if p.Price <= 0 {
		fe["price"] = "must be positive"
	}
	if blank(p.Image) {
		fe["image"] = "is required"
	}
	if err := fe.OrNil(); err != nil {
		return domain.Product{}, err
	}
	if err := s.requireCategory(ctx, p.Category); err != nil {
		return domain.Product{}, err
	}

	created, err := s.Store.CreateProduct(ctx, p)
	if err != nil {
		return domain.Product{}, err
	}
	s.emit(ctx, "product_created", created.ID, created)
	return created, nil
}

func (s *CatalogService) UpdateProduct(ctx context.Context, id string, p domain.ProductPatch) (domain.Product, error) {
	fe := domain.FieldErrors{}
	if p.Name != nil && blank(*p.Name) {
		fe["name"] = "must not be empty"
	}
	if p.Description != nil && blank(*p.Description) {
		fe["description"] = "must not be empty"
	}
	if p.Price != nil && *p.Price <= 0 {
		fe["price"] = "must be positive"
	}
	if p.Image != nil && blank(*p.Image) {
		fe["image"] = "must not be empty"
	}
	if err := fe.OrNil(); err != nil {
		return domain.Product{}, err
	}
	if p.Category != nil {
		if err := s.requireCategory(ctx, *p.Category); err != nil {
			return domain.Product{}, err
		}
	}

	updated, err := s.Store.UpdateProduct(ctx, id, p)
	if err != nil {
		return domain.Product{}, err
	}
	if !p.Empty() {
		s.emit(ctx, "product_updated", updated.ID, updated)
	}
	return updated, nil
}

// DeleteProduct also removes every cart item holding the product.
func (s *CatalogService) DeleteProduct(ctx context.Context, id string) error {
	if err := s.Store.DeleteProduct(ctx, id); err != nil {
		return err
	}
	s.emit(ctx, "product_deleted", id, nil)
	return nil
}

func (s *CatalogService) requireCategory(ctx context.Context, id string) error {
	_, found, err := s.Store.GetCategory(ctx, id)
	if err != nil {
		return fmt.Errorf("check category: %w", err)
	}
	if !found {
		return domain.FieldErrors{"category": "unknown category"}
	}
	return nil
}

func (s *CatalogService) emit(ctx context.Context, typ, id string, data any) {
	logging.FromContext(ctx).Info(typ, "id", id)
	publish(ctx, s.Events, events.TopicCatalog, id, events.Event{Type: typ, EntityID: id, Data: data})
}
