package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/suteetoe/backoffice/internal/service"
)

// CustomerHandler serves /api/customers
type CustomerHandler struct {
	endpoint
	svc *service.CustomerService
}

// NewCustomerHandler creates a handler around svc
func NewCustomerHandler(svc *service.CustomerService, ops OperationRecorder) *CustomerHandler {
	return &CustomerHandler{endpoint: newEndpoint("customer", ops), svc: svc}
}

// Register mounts the customer routes on g
func (h *CustomerHandler) Register(g *echo.Group) {
	g.GET("", h.List)
	g.GET("/active", h.Active)
	g.GET("/by-email", h.ByEmail)
	g.GET("/:id", h.Get)
	g.POST("", h.Create)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
}

// List returns one slice of customers, filtered by ?q= when present
func (h *CustomerHandler) List(c echo.Context) error {
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

// Active handles GET /api/customers/active
func (h *CustomerHandler) Active(c echo.Context) error {
	rows, err := h.svc.ActiveCustomers(c.Request().Context())
	if err != nil {
		return h.fail(c, "active", err)
	}
	return h.reply(c, "active", http.StatusOK, rows)
}

// ByEmail loads the customer registered under ?email=
func (h *CustomerHandler) ByEmail(c echo.Context) error {
	email := c.QueryParam("email")
	if email == "" {
		return h.fail(c, "by_email", &service.ValidationError{Message: "email is required"})
	}
	customer, err := h.svc.GetByEmail(c.Request().Context(), email)
	if err != nil {
		return h.fail(c, "by_email", err)
	}
	return h.reply(c, "by_email", http.StatusOK, customer)
}

// Get handles GET /api/customers/:id
func (h *CustomerHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return h.fail(c, "get", err)
	}
	customer, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return h.fail(c, "get", err)
	}
	return h.reply(c, "get", http.StatusOK, customer)
}

// Create handles POST /api/customers
func (h *CustomerHandler) Create(c echo.Context) error {
	var req service.CustomerInput
	if err := bind(c, &req); err != nil {
		return h.fail(c, "create", err)
	}
	customer, err := h.svc.Create(c.Request().Context(), req)
	if err != nil {
		return h.fail(c, "create", err)
	}
	return h.reply(c, "create", http.StatusCreated, customer)
}

// Update handles PUT /api/customers/:id
func (h *CustomerHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return h.fail(c, "update", err)
	}
	var req service.UpdateCustomerInput
	if err := bind(c, &req); err != nil {
		return h.fail(c, "update", err)
	}
	customer, err := h.svc.Update(c.Request().Context(), id, req)
	if err != nil {
		return h.fail(c, "update", err)
	}
	return h.reply(c, "update", http.StatusOK, customer)
}

// Delete handles DELETE /api/customers/:id
func (h *CustomerHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return h.fail(c, "delete", err)
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return h.fail(c, "delete", err)
	}
	return h.reply(c, "delete", http.StatusNoContent, nil)
}
