package httpserver

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/refurb_shop/internal/service"
	"github.com/Skotchmaster/refurb_shop/internal/transport"
	"github.com/Skotchmaster/refurb_shop/pkg/logging"
	"github.com/Skotchmaster/refurb_shop/pkg/util"
)

type CatalogHTTP struct {
	Svc *service.CatalogService
}

func queryID(c echo.Context, name string) uint {
	if v := util.ParseIntDefault(c.QueryParam(name), 0); v > 0 {
		return uint(v)
	}
	return 0
}

// brands

func (h *CatalogHTTP) ListBrands(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "brands.list")

	brands, err := h.Svc.ListBrands(ctx, c.QueryParam("search"))
	if err != nil {
		return fail(l, "list_brands", err)
	}
	return c.JSON(http.StatusOK, brands)
}

func (h *CatalogHTTP) GetBrand(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "brands.get")

	id, err := pathID(c, "id")
	if err != nil {
		return badRequest(l, "get_brand", err.Error(), err)
	}
	b, err := h.Svc.GetBrand(ctx, id)
	if err != nil {
		return fail(l, "get_brand", err)
	}
	return c.JSON(http.StatusOK, b)
}

func (h *CatalogHTTP) CreateBrand(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "brands.create")

	var req transport.BrandRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "create_brand", "invalid body", err)
	}
	b, err := h.Svc.CreateBrand(ctx, req)
	if err != nil {
		return fail(l, "create_brand", err)
	}
	l.Info("create_brand_success", "id", b.ID)
	return c.JSON(http.StatusCreated, b)
}

func (h *CatalogHTTP) PatchBrand(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "brands.patch")

	id, err := pathID(c, "id")
	if err != nil {
		return badRequest(l, "patch_brand", err.Error(), err)
	}
	var req transport.BrandRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "patch_brand", "invalid body", err)
	}
	b, err := h.Svc.UpdateBrand(ctx, id, req)
	if err != nil {
		return fail(l, "patch_brand", err)
	}
	return c.JSON(http.StatusOK, b)
}

func (h *CatalogHTTP) DeleteBrand(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "brands.delete")

	id, err := pathID(c, "id")
	if err != nil {
		return badRequest(l, "delete_brand", err.Error(), err)
	}
	if err := h.Svc.DeleteBrand(ctx, id); err != nil {
		return fail(l, "delete_brand", err)
	}
	return c.NoContent(http.StatusNoContent)
}

// categories

func (h *CatalogHTTP) ListCategories(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "categories.list")

	cats, err := h.Svc.ListCategories(ctx, c.QueryParam("search"))
	if err != nil {
		return fail(l, "list_categories", err)
	}
	return c.JSON(http.StatusOK, cats)
}

func (h *CatalogHTTP) GetCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "categories.get")

	id, err := pathID(c, "id")
	if err != nil {
		return badRequest(l, "get_category", err.Error(), err)
	}
	cat, err := h.Svc.GetCategory(ctx, id)
	if err != nil {
		return fail(l, "get_category", err)
	}
	return c.JSON(http.StatusOK, cat)
}

func (h *CatalogHTTP) CreateCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "categories.create")

	var req transport.CategoryRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "create_category", "invalid body", err)
	}
	cat, err := h.Svc.CreateCategory(ctx, req)
	if err != nil {
		return fail(l, "create_category", err)
	}
	l.Info("create_category_success", "id", cat.ID)
	return c.JSON(http.StatusCreated, cat)
}

func (h *CatalogHTTP) PatchCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "categories.patch")

	id, err := pathID(c, "id")
	if err != nil {
		return badRequest(l, "patch_category", err.Error(), err)
	}
	var req transport.CategoryRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "patch_category", "invalid body", err)
	}
	cat, err := h.Svc.UpdateCategory(ctx, id, req)
	if err != nil {
		return fail(l, "patch_category", err)
	}
	return c.JSON(http.StatusOK, cat)
}

func (h *CatalogHTTP) DeleteCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "categories.delete")

	id, err := pathID(c, "id")
	if err != nil {
		return badRequest(l, "delete_category", err.Error(), err)
	}
	if err := h.Svc.DeleteCategory(ctx, id); err != nil {
		return fail(l, "delete_category", err)
	}
	return c.NoContent(http.StatusNoContent)
}

// products

func (h *CatalogHTTP) GetProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "products.list")

	page, err := h.Svc.ListProducts(ctx, service.ProductQuery{
		BrandID:    queryID(c, "brand"),
		CategoryID: queryID(c, "category"),
		Condition:  strings.ToUpper(strings.TrimSpace(c.QueryParam("condition"))),
		Grade:      strings.ToUpper(strings.TrimSpace(c.QueryParam("grade"))),
		Search:     c.QueryParam("search"),
		Ordering:   c.QueryParam("ordering"),
		Page:       util.ParseIntDefault(c.QueryParam("page"), 1),
		Size:       util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize),
	})
	if err != nil {
		return fail(l, "get_products", err)
	}
	return c.JSON(http.StatusOK, page)
}

func (h *CatalogHTTP) SearchProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "products.search")

	page, err := h.Svc.SearchProducts(ctx,
		c.QueryParam("q"),
		util.ParseIntDefault(c.QueryParam("page"), 1),
		util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize),
	)
	if err != nil {
		return fail(l, "search_products", err)
	}
	return c.JSON(http.StatusOK, page)
}

func (h *CatalogHTTP) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "products.get")

	id, err := pathID(c, "id")
	if err != nil {
		return badRequest(l, "get_product", err.Error(), err)
	}
	p, err := h.Svc.GetProduct(ctx, id)
	if err != nil {
		return fail(l, "get_product", err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *CatalogHTTP) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "products.create")

	var req transport.ProductRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "create_product", "invalid body", err)
	}
	p, err := h.Svc.CreateProduct(ctx, req)
	if err != nil {
		return fail(l, "create_product", err)
	}
	l.Info("create_product_success", "id", p.ID)
	return c.JSON(http.StatusCreated, p)
}

func (h *CatalogHTTP) PatchProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "products.patch")

	id, err := pathID(c, "id")
	if err != nil {
		return badRequest(l, "patch_product", err.Error(), err)
	}
	var req transport.ProductRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "patch_product", "invalid body", err)
	}
	p, err := h.Svc.UpdateProduct(ctx, id, req)
	if err != nil {
		return fail(l, "patch_product", err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *CatalogHTTP) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "products.delete")

	id, err := pathID(c, "id")
	if err != nil {
		return badRequest(l, "delete_product", err.Error(), err)
	}
	if err := h.Svc.DeleteProduct(ctx, id); err != nil {
		return fail(l, "delete_product", err)
	}
	l.Info("delete_product_success", "id", id)
	return c.NoContent(http.StatusNoContent)
}

// variants

func (h *CatalogHTTP) CreateVariant(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "variants.create")

	productID, err := pathID(c, "id")
	if err != nil {
		return badRequest(l, "create_variant", err.Error(), err)
	}
	var req transport.VariantRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "create_variant", "invalid body", err)
	}
	v, err := h.Svc.CreateVariant(ctx, productID, req)
	if err != nil {
		return fail(l, "create_variant", err)
	}
	return c.JSON(http.StatusCreated, v)
}

func (h *CatalogHTTP) PatchVariant(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "variants.patch")

	id, err := pathID(c, "id")
	if err != nil {
		return badRequest(l, "patch_variant", err.Error(), err)
	}
	var req transport.VariantRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "patch_variant", "invalid body", err)
	}
	v, err := h.Svc.UpdateVariant(ctx, id, req)
	if err != nil {
		return fail(l, "patch_variant", err)
	}
	return c.JSON(http.StatusOK, v)
}

func (h *CatalogHTTP) DeleteVariant(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "variants.delete")

	id, err := pathID(c, "id")
	if err != nil {
		return badRequest(l, "delete_variant", err.Error(), err)
	}
	if err := h.Svc.DeleteVariant(ctx, id); err != nil {
		return fail(l, "delete_variant", err)
	}
	return c.NoContent(http.StatusNoContent)
}
