package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/techhive/commerce/internal/catalog"
	"github.com/techhive/commerce/internal/events"
	"github.com/techhive/commerce/internal/logging"
	"github.com/techhive/commerce/internal/models"
)

type ProductHandler struct {
	Catalog  *catalog.Catalog
	Producer *events.Producer
}

func catalogError(c echo.Context, l interface{ Error(string, ...any) }, err error) error {
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		return fail(c, http.StatusNotFound, "Product not found")
	case errors.Is(err, catalog.ErrValidation):
		return fail(c, http.StatusBadRequest, err.Error())
	}
	l.Error("catalog operation failed", "error", err)
	return fail(c, http.StatusInternalServerError, "internal error")
}

func (h *ProductHandler) GetProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "get.products")

	var (
		products []models.Product
		err      error
	)
	switch {
	case c.QueryParam("category") != "":
		categoryID, convErr := strconv.Atoi(c.QueryParam("category"))
		if convErr != nil {
			return fail(c, http.StatusBadRequest, "invalid category id")
		}
		products, err = h.Catalog.ByCategory(categoryID)
	case c.QueryParam("low_stock") == "true":
		products, err = h.Catalog.LowStock()
	default:
		products, err = h.Catalog.All()
	}
	if err != nil {
		return catalogError(c, l, err)
	}
	if products == nil {
		products = []models.Product{}
	}
	return c.JSON(http.StatusOK, products)
}

func (h *ProductHandler) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "get.product")

	p, err := h.Catalog.Get(c.Param("id"))
	if err != nil {
		return catalogError(c, l, err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *ProductHandler) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "create.product")

	var req models.Product
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}

	p, err := h.Catalog.Add(req)
	if err != nil {
		return catalogError(c, l, err)
	}

	l.Info("product created", "product_id", p.ID)
	publish(c, h.Producer, events.TopicProduct, p.ID, map[string]any{
		"type":       "product_created",
		"product_id": p.ID,
	})
	return c.JSON(http.StatusCreated, p)
}

func (h *ProductHandler) PatchProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "patch.product")

	var req catalog.Update
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}

	p, err := h.Catalog.UpdateProduct(c.Param("id"), req)
	if err != nil {
		return catalogError(c, l, err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *ProductHandler) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "delete.product")

	id := c.Param("id")
	if err := h.Catalog.Delete(id); err != nil {
		return catalogError(c, l, err)
	}

	l.Info("product deleted", "product_id", id)
	return ok(c, "Product deleted")
}

func (h *ProductHandler) GetCategories(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "get.categories")

	categories, err := h.Catalog.Categories()
	if err != nil {
		return catalogError(c, l, err)
	}
	if categories == nil {
		categories = []models.Category{}
	}
	return c.JSON(http.StatusOK, categories)
}

func (h *ProductHandler) CreateCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "create.category")

	var req models.Category
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}

	cat, err := h.Catalog.AddCategory(req)
	if err != nil {
		return catalogError(c, l, err)
	}
	return c.JSON(http.StatusCreated, cat)
}

func (h *ProductHandler) GetBrands(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "get.brands")

	brands, err := h.Catalog.Brands()
	if err != nil {
		return catalogError(c, l, err)
	}
	if brands == nil {
		brands = []models.Brand{}
	}
	return c.JSON(http.StatusOK, brands)
}
