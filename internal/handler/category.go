package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/suteetoe/backoffice/internal/service"
)

// CategoryHandler serves /api/categories
type CategoryHandler struct {
	endpoint
	svc *service.CategoryService
}

// NewCategoryHandler creates a handler around svc
func NewCategoryHandler(svc *service.CategoryService, ops OperationRecorder) *CategoryHandler {
	return &CategoryHandler{endpoint: newEndpoint("category", ops), svc: svc}
}

// Register mounts the category routes on g
func (h *CategoryHandler) Register(g *echo.Group) {
	g.GET("", h.List)
	g.GET("/active", h.Active)
	g.GET("/:id", h.Get)
	g.GET("/:id/subcategories", h.Subcategories)
	g.POST("", h.Create)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
}

// List returns one slice of categories, filtered by ?q= when present
func (h *CategoryHandler) List(c echo.Context) error {
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

// Active handles GET /api/categories/active
func (h *CategoryHandler) Active(c echo.Context) error {
	rows, err := h.svc.ActiveCategories(c.Request().Context())
	if err != nil {
		return h.fail(c, "active", err)
	}
	return h.reply(c, "active", http.StatusOK, rows)
}

// Get handles GET /api/categories/:id
func (h *CategoryHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return h.fail(c, "get", err)
	}
	category, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return h.fail(c, "get", err)
	}
	return h.reply(c, "get", http.StatusOK, category)
}

// Subcategories lists the direct children of :id
func (h *CategoryHandler) Subcategories(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return h.fail(c, "subcategories", err)
	}
	rows, err := h.svc.Subcategories(c.Request().Context(), id)
	if err != nil {
		return h.fail(c, "subcategories", err)
	}
	return h.reply(c, "subcategories", http.StatusOK, rows)
}

// Create handles POST /api/categories
func (h *CategoryHandler) Create(c echo.Context) error {
	var req service.CategoryInput
	if err := bind(c, &req); err != nil {
		return h.fail(c, "create", err)
	}
	category, err := h.svc.Create(c.Request().Context(), req)
	if err != nil {
		return h.fail(c, "create", err)
	}
	return h.reply(c, "create", http.StatusCreated, category)
}

// Update handles PUT /api/categories/:id
func (h *CategoryHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return h.fail(c, "update", err)
	}
	var req service.UpdateCategoryInput
	if err := bind(c, &req); err != nil {
		return h.fail(c, "update", err)
	}
	category, err := h.svc.Update(c.Request().Context(), id, req)
	if err != nil {
		return h.fail(c, "update", err)
	}
	return h.reply(c, "update", http.StatusOK, category)
}

// Delete handles DELETE /api/categories/:id
func (h *CategoryHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return h.fail(c, "delete", err)
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return h.fail(c, "delete", err)
	}
	return h.reply(c, "delete", http.StatusNoContent, nil)
}
