package httpserver

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pasalko/storefront/internal/cache"
	"github.com/pasalko/storefront/internal/format"
	"github.com/pasalko/storefront/internal/logging"
	"github.com/pasalko/storefront/internal/search"
	"github.com/pasalko/storefront/internal/upstream"
	"github.com/pasalko/storefront/internal/util"
)

type CatalogHTTP struct {
	API       *upstream.Client
	Cache     *cache.Cache
	Search    *search.Service
	AssetBase string
}

func (h *CatalogHTTP) Products(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.products")

	q := upstream.ProductQuery{
		Page:     util.ParseIntDefault(c.QueryParam("page"), 1),
		Size:     util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize),
		Category: c.QueryParam("category"),
		Search:   c.QueryParam("search"),
	}

	key := fmt.Sprintf("catalog:products:p%d:s%d:c%s:q%s", q.Page, q.Size, q.Category, q.Search)
	var page upstream.ProductPage
	if err := h.Cache.Get(ctx, key, &page); err == nil {
		return h.renderProducts(c, &page)
	}

	res, err := h.API.Products(ctx, q)
	if err != nil {
		l.Error("products_fetch_failed", "error", err)
		return respondError(c, err)
	}
	if err := h.Cache.Set(ctx, key, res); err != nil {
		l.Warn("cache_set_failed", "error", err)
	}

	return h.renderProducts(c, res)
}

func (h *CatalogHTTP) renderProducts(c echo.Context, page *upstream.ProductPage) error {
	for i := range page.Products {
		page.Products[i].Image = format.ImageURL(h.AssetBase, page.Products[i].Image)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"success":  true,
		"products": page.Products,
		"meta":     page.Meta,
	})
}

func (h *CatalogHTTP) Product(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.product")

	id := c.Param("id")
	key := "catalog:product:" + id

	var prod upstream.Product
	if err := h.Cache.Get(ctx, key, &prod); err == nil {
		prod.Image = format.ImageURL(h.AssetBase, prod.Image)
		return c.JSON(http.StatusOK, map[string]any{"success": true, "product": prod})
	}

	res, err := h.API.Product(ctx, id)
	if err != nil {
		l.Warn("product_fetch_failed", "id", id, "error", err)
		return respondError(c, err)
	}
	if err := h.Cache.Set(ctx, key, res); err != nil {
		l.Warn("cache_set_failed", "error", err)
	}

	res.Image = format.ImageURL(h.AssetBase, res.Image)
	return c.JSON(http.StatusOK, map[string]any{"success": true, "product": res})
}

func (h *CatalogHTTP) Categories(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.categories")

	var cats []upstream.Category
	if err := h.Cache.Get(ctx, "catalog:categories", &cats); err == nil {
		return c.JSON(http.StatusOK, map[string]any{"success": true, "categories": cats})
	}

	cats, err := h.API.Categories(ctx)
	if err != nil {
		l.Error("categories_fetch_failed", "error", err)
		return respondError(c, err)
	}
	if err := h.Cache.Set(ctx, "catalog:categories", cats); err != nil {
		l.Warn("cache_set_failed", "error", err)
	}

	return c.JSON(http.StatusOK, map[string]any{"success": true, "categories": cats})
}

// SearchProducts prefers the Elasticsearch read side when configured
// and falls back to the backend's search parameter.
func (h *CatalogHTTP) SearchProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.search")

	query := c.QueryParam("q")
	if query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "q required")
	}
	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)

	if h.Search != nil {
		from, limit := util.Calculate(page, size)
		total, prods, err := h.Search.Products(ctx, query, from, limit)
		if err != nil {
			l.Error("search_failed", "error", err)
			return echo.NewHTTPError(http.StatusBadGateway, "search unavailable")
		}
		for i := range prods {
			prods[i].Image = format.ImageURL(h.AssetBase, prods[i].Image)
		}
		return c.JSON(http.StatusOK, map[string]any{
			"success":  true,
			"products": prods,
			"meta": upstream.PageMeta{
				Page:       page,
				Size:       limit,
				Total:      total,
				TotalPages: (total + int64(limit) - 1) / int64(limit),
			},
		})
	}

	res, err := h.API.Products(ctx, upstream.ProductQuery{Page: page, Size: size, Search: query})
	if err != nil {
		l.Error("search_fallback_failed", "error", err)
		return respondError(c, err)
	}
	return h.renderProducts(c, res)
}
