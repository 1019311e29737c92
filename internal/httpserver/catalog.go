package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/domain"
	"github.com/Skotchmaster/storefront/internal/logging"
	"github.com/Skotchmaster/storefront/internal/pagination"
	"github.com/Skotchmaster/storefront/internal/service"
	"github.com/Skotchmaster/storefront/internal/transport"
)

type CatalogHTTP struct {
	Svc *service.CatalogService
}

func (h *CatalogHTTP) GetCategories(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "category.get_categories")

	items, err := h.Svc.ListCategories(ctx)
	if err != nil {
		return fail(l, "get_categories_error", err)
	}
	return c.JSON(http.StatusOK, pagination.Window(items, c.QueryParam("page"), c.QueryParam("size")))
}

func (h *CatalogHTTP) GetCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "category.get_category")

	cat, err := h.Svc.GetCategory(ctx, c.Param("id"))
	if err != nil {
		return fail(l, "get_category_error", err)
	}
	return c.JSON(http.StatusOK, cat)
}

func (h *CatalogHTTP) CreateCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "category.create")

	var req transport.CreateCategoryRequest
	if err := bind(c, l, "category_create_error", &req); err != nil {
		return err
	}

	cat, err := h.Svc.CreateCategory(ctx, domain.Category{Name: req.Name, Description: req.Description})
	if err != nil {
		return fail(l, "category_create_error", err)
	}

	l.Info("create_category_success", "id", cat.ID)
	return c.JSON(http.StatusCreated, cat)
}

func (h *CatalogHTTP) PatchCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "category.patch")

	var req transport.PatchCategoryRequest
	if err := bind(c, l, "category_patch_error", &req); err != nil {
		return err
	}

	cat, err := h.Svc.UpdateCategory(ctx, c.Param("id"), domain.CategoryPatch{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		return fail(l, "category_patch_error", err)
	}
	return c.JSON(http.StatusOK, cat)
}

func (h *CatalogHTTP) DeleteCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "category.delete")

	if err := h.Svc.DeleteCategory(ctx, c.Param("id")); err != nil {
		return fail(l, "category_delete_error", err)
	}

	l.Info("delete_category_success")
	return c.NoContent(http.StatusOK)
}

func (h *CatalogHTTP) GetProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get_products")

	items, err := h.Svc.ListProducts(ctx)
	if err != nil {
		return fail(l, "get_products_error", err)
	}
	return c.JSON(http.StatusOK, pagination.Window(items, c.QueryParam("page"), c.QueryParam("size")))
}

func (h *CatalogHTTP) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get_product")

	product, err := h.Svc.GetProduct(ctx, c.Param("id"))
	if err != nil {
		return fail(l, "get_product_failed", err)
	}
	return c.JSON(http.StatusOK, product)
}

func (h *CatalogHTTP) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.create")

	var req transport.CreateProductRequest
	if err := bind(c, l, "product_create_error", &req); err != nil {
		return err
	}

	product, err := h.Svc.CreateProduct(ctx, domain.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Image:       req.Image,
		Category:    req.Category,
	})
	if err != nil {
		return fail(l, "product_create_error", err)
	}

	l.Info("create_product_success", "id", product.ID)
	return c.JSON(http.StatusCreated, product)
}

func (h *CatalogHTTP) PatchProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.patch")

	var req transport.PatchProductRequest
	if err := bind(c, l, "product_patch_error", &req); err != nil {
		return err
	}

	product, err := h.Svc.UpdateProduct(ctx, c.Param("id"), domain.ProductPatch{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Image:       req.Image,
		Category:    req.Category,
	})
	if err != nil {
		return fail(l, "product_patch_error", err)
	}

	l.Info("patch_product_success", "id", product.ID)
	return c.JSON(http.StatusOK, product)
}

func (h *CatalogHTTP) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.delete")

	if err := h.Svc.DeleteProduct(ctx, c.Param("id")); err != nil {
		return fail(l, "product_delete_error", err)
	}

	l.Info("delete_product_success")
	return c.NoContent(http.StatusOK)
}
