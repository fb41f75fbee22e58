package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/suteetoe/backoffice/internal/service"
)

const defaultLowStockThreshold = 10

// ProductHandler serves /api/products
type ProductHandler struct {
	endpoint
	svc *service.ProductService
}

// NewProductHandler creates a handler around svc
func NewProductHandler(svc *service.ProductService, ops OperationRecorder) *ProductHandler {
	return &ProductHandler{endpoint: newEndpoint("product", ops), svc: svc}
}

// Register mounts the product routes on g
func (h *ProductHandler) Register(g *echo.Group) {
	g.GET("", h.List)
	g.GET("/active", h.Active)
	g.GET("/low-stock", h.LowStock)
	g.GET("/by-category/:categoryId", h.ByCategory)
	g.GET("/:id", h.Get)
	g.POST("", h.Create)
	g.PUT("/:id", h.Update)
	g.PATCH("/:id/stock", h.UpdateStock)
	g.DELETE("/:id", h.Delete)
}

// List returns one slice of products, filtered by ?q= when present
func (h *ProductHandler) List(c echo.Context) error {
	p, err := pageable(c)
	if err != nil {
		return h.fail(c, "list", err)
	}
	page, err := h.svc.Search(c.Request().Context(), c.QueryParam("q"), p)
	if err != nil {
		return h.fail(c, "list", err)
	}
	return h.reply(c, "list", http.StatusOK, page)
}

// Active handles GET /api/products/active
func (h *ProductHandler) Active(c echo.Context) error {
	rows, err := h.svc.ActiveProducts(c.Request().Context())
	if err != nil {
		return h.fail(c, "active", err)
	}
	return h.reply(c, "active", http.StatusOK, rows)
}

// LowStock lists products at or below ?threshold= (default 10)
func (h *ProductHandler) LowStock(c echo.Context) error {
	threshold, err := queryInt(c, "threshold", defaultLowStockThreshold)
	if err != nil {
		return h.fail(c, "low_stock", err)
	}
	rows, err := h.svc.LowStock(c.Request().Context(), threshold)
	if err != nil {
		return h.fail(c, "low_stock", err)
	}
	return h.reply(c, "low_stock", http.StatusOK, rows)
}

// ByCategory handles GET /api/products/by-category/:categoryId
func (h *ProductHandler) ByCategory(c echo.Context) error {
	categoryID, err := pathID(c, "categoryId")
	if err != nil {
		return h.fail(c, "by_category", err)
	}
	rows, err := h.svc.ByCategory(c.Request().Context(), categoryID)
	if err != nil {
		return h.fail(c, "by_category", err)
	}
	return h.reply(c, "by_category", http.StatusOK, rows)
}

// Get handles GET /api/products/:id
func (h *ProductHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return h.fail(c, "get", err)
	}
	product, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return h.fail(c, "get", err)
	}
	return h.reply(c, "get", http.StatusOK, product)
}

// Create handles POST /api/products
func (h *ProductHandler) Create(c echo.Context) error {
	var req service.ProductInput
	if err := bind(c, &req); err != nil {
		return h.fail(c, "create", err)
	}
	product, err := h.svc.Create(c.Request().Context(), req)
	if err != nil {
		return h.fail(c, "create", err)
	}
	return h.reply(c, "create", http.StatusCreated, product)
}

// Update handles PUT /api/products/:id
func (h *ProductHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return h.fail(c, "update", err)
	}
	var req service.UpdateProductInput
	if err := bind(c, &req); err != nil {
		return h.fail(c, "update", err)
	}
	product, err := h.svc.Update(c.Request().Context(), id, req)
	if err != nil {
		return h.fail(c, "update", err)
	}
	return h.reply(c, "update", http.StatusOK, product)
}

// UpdateStock handles PATCH /api/products/:id/stock
func (h *ProductHandler) UpdateStock(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return h.fail(c, "update_stock", err)
	}
	var req service.StockInput
	if err := bind(c, &req); err != nil {
		return h.fail(c, "update_stock", err)
	}
	product, err := h.svc.UpdateStock(c.Request().Context(), id, req)
	if err != nil {
		return h.fail(c, "update_stock", err)
	}
	return h.reply(c, "update_stock", http.StatusOK, product)
}

// Delete handles DELETE /api/products/:id
func (h *ProductHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return h.fail(c, "delete", err)
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return h.fail(c, "delete", err)
	}
	return h.reply(c, "delete", http.StatusNoContent, nil)
}
