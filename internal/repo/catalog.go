package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/storefront/internal/domain"
	"github.com/Skotchmaster/storefront/internal/models"
)

func (r *GormRepo) CreateCategory(ctx context.Context, c domain.Category) (domain.Category, error) {
	if err := r.checkCategoryUnique(ctx, uuid.Nil, c.Name); err != nil {
		return domain.Category{}, err
	}
	m := models.Category{Name: c.Name, Description: c.Description}
	if err := r.db(ctx).Create(&m).Error; err != nil {
		return domain.Category{}, writeErr("create category", err, "category name already taken")
	}
	return toCategory(m), nil
}

func (r *GormRepo) GetCategory(ctx context.Context, id string) (domain.Category, bool, error) {
	cid, ok := parseID(id)
	if !ok {
		return domain.Category{}, false, nil
	}
	var m models.Category
	found, err := r.first(ctx, &m, "id = ?", cid)
	if err != nil {
		return domain.Category{}, false, fmt.Errorf("get category: %w", err)
	}
	if !found {
		return domain.Category{}, false, nil
	}
	return toCategory(m), true, nil
}

func (r *GormRepo) ListCategories(ctx context.Context) ([]domain.Category, error) {
	var items []models.Category
	if err := ordered(r.db(ctx)).Find(&items).Error; err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return mapAll(items, toCategory), nil
}

func (r *GormRepo) UpdateCategory(ctx context.Context, id string, p domain.CategoryPatch) (domain.Category, error) {
	cid, ok := parseID(id)
	if !ok {
		return domain.Category{}, domain.NotFound("category not found")
	}
	var m models.Category
	found, err := r.first(ctx, &m, "id = ?", cid)
	if err != nil {
		return domain.Category{}, fmt.Errorf("load category: %w", err)
	}
	if !found {
		return domain.Category{}, domain.NotFound("category not found")
	}
	if p.Empty() {
		return toCategory(m), nil
	}

	if p.Name != nil {
		if err := r.checkCategoryUnique(ctx, cid, *p.Name); err != nil {
			return domain.Category{}, err
		}
		m.Name = *p.Name
	}
	if p.Description != nil {
		m.Description = *p.Description
	}

	if err := r.db(ctx).Save(&m).Error; err != nil {
		return domain.Category{}, writeErr("update category", err, "category name already taken")
	}
	return toCategory(m), nil
}

// DeleteCategory removes the category, then the cart items pointing at its
// products, then the products themselves.
func (r *GormRepo) DeleteCategory(ctx context.Context, id string) error {
	cid, ok := parseID(id)
	if !ok {
		return domain.NotFound("category not found")
	}
	res := r.db(ctx).Where("id = ?", cid).Delete(&models.Category{})
	if res.Error != nil {
		return fmt.Errorf("delete category: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.NotFound("category not found")
	}

	r.cascade(ctx, "category", id,
		cascadeStep{
			name: "cart_items_of_category_products",
			run: func(tx *gorm.DB) error {
				productIDs := tx.Model(&models.Product{}).Select("id").Where("category_id = ?", cid)
				return tx.Where("product_id IN (?)", productIDs).Delete(&models.CartItem{}).Error
			},
		},
		cascadeStep{
			name: "products_of_category",
			run: func(tx *gorm.DB) error {
				return tx.Where("category_id = ?", cid).Delete(&models.Product{}).Error
			},
		},
	)
	return nil
}

func (r *GormRepo) checkCategoryUnique(ctx context.Context, self uuid.UUID, name string) error {
	taken, err := r.exists(ctx, &models.Category{}, "name = ? AND id <> ?", name, self)
	if err != nil {
		return fmt.Errorf("check category name: %w", err)
	}
	if taken {
		return domain.Conflict("category name already taken")
	}
	return nil
}

func (r *GormRepo) CreateProduct(ctx context.Context, p domain.Product) (domain.Product, error) {
	cid, ok := parseID(p.Category)
	if !ok {
		return domain.Product{}, domain.FieldErrors{"category": "unknown category"}
	}
	m := models.Product{
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Image:       p.Image,
		CategoryID:  cid,
	}
	if err := r.db(ctx).Create(&m).Error; err != nil {
		return domain.Product{}, fmt.Errorf("create product: %w", err)
	}
	return toProduct(m), nil
}

func (r *GormRepo) GetProduct(ctx context.Context, id string) (domain.Product, bool, error) {
	pid, ok := parseID(id)
	if !ok {
		return domain.Product{}, false, nil
	}
	var m models.Product
	found, err := r.first(ctx, &m, "id = ?", pid)
	if err != nil {
		return domain.Product{}, false, fmt.Errorf("get product: %w", err)
	}
	if !found {
		return domain.Product{}, false, nil
	}
	return toProduct(m), true, nil
}

func (r *GormRepo) ListProducts(ctx context.Context) ([]domain.Product, error) {
	var items []models.Product
	if err := ordered(r.db(ctx)).Find(&items).Error; err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return mapAll(items, toProduct), nil
}

func (r *GormRepo) UpdateProduct(ctx context.Context, id string, p domain.ProductPatch) (domain.Product, error) {
	pid, ok := parseID(id)
	if !ok {
		return domain.Product{}, domain.NotFound("product not found")
	}
	var m models.Product
	found, err := r.first(ctx, &m, "id = ?", pid)
	if err != nil {
		return domain.Product{}, fmt.Errorf("load product: %w", err)
	}
	if !found {
		return domain.Product{}, domain.NotFound("product not found")
	}
	if p.Empty() {
		return toProduct(m), nil
	}

	if p.Name != nil {
		m.Name = *p.Name
	}
	if p.Description != nil {
		m.Description = *p.Description
	}
	if p.Price != nil {
		m.Price = *p.Price
	}
	if p.Image != nil {
		m.Image = *p.Image
	}
	if p.Category != nil {
		cid, ok := parseID(*p.Category)
		if !ok {
			return domain.Product{}, domain.FieldErrors{"category": "unknown category"}
		}
		m.CategoryID = cid
	}

	if err := r.db(ctx).Save(&m).Error; err != nil {
		return domain.Product{}, fmt.Errorf("update product: %w", err)
	}
	return toProduct(m), nil
}

// DeleteProduct removes the product, then every cart item referencing it.
func (r *GormRepo) DeleteProduct(ctx context.Context, id string) error {
	pid, ok := parseID(id)
	if !ok {
		return domain.NotFound("product not found")
	}
	res := r.db(ctx).Where("id = ?", pid).Delete(&models.Product{})
	if res.Error != nil {
		return fmt.Errorf("delete product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.NotFound("product not found")
	}

	r.cascade(ctx, "product", id, deleteCartItemsWhere("cart_items_of_product", "product_id = ?", pid))
	return nil
}
