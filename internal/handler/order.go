package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/suteetoe/backoffice/internal/service"
)

// OrderHandler serves /api/orders
type OrderHandler struct {
	endpoint
	svc *service.OrderService
}

// NewOrderHandler creates a handler around svc
func NewOrderHandler(svc *service.OrderService, ops OperationRecorder) *OrderHandler {
	return &OrderHandler{endpoint: newEndpoint("order", ops), svc: svc}
}

// Register mounts the order routes on g
func (h *OrderHandler) Register(g *echo.Group) {
	g.GET("", h.List)
	g.GET("/revenue", h.Revenue)
	g.GET("/count", h.Count)
	g.GET("/by-date", h.ByDateRange)
	g.GET("/by-customer/:customerId", h.ByCustomer)
	g.GET("/by-status/:status", h.ByStatus)
	g.GET("/:id", h.Get)
	g.POST("", h.Create)
	g.PUT("/:id", h.Update)
	g.PATCH("/:id/status", h.UpdateStatus)
	g.DELETE("/:id", h.Delete)
}

// List returns one slice of orders, filtered by ?q= when present
func (h *OrderHandler) List(c echo.Context) error {
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

// Revenue reports the summed amount of delivered orders
func (h *OrderHandler) Revenue(c echo.Context) error {
	total, err := h.svc.TotalRevenue(c.Request().Context())
	if err != nil {
		return h.fail(c, "revenue", err)
	}
	return h.reply(c, "revenue", http.StatusOK, echo.Map{"total_revenue": total})
}

// Count reports how many orders hold ?status=
func (h *OrderHandler) Count(c echo.Context) error {
	status := c.QueryParam("status")
	if status == "" {
		return h.fail(c, "count", &service.ValidationError{Message: "status is required"})
	}
	n, err := h.svc.CountByStatus(c.Request().Context(), status)
	if err != nil {
		return h.fail(c, "count", err)
	}
	return h.reply(c, "count", http.StatusOK, echo.Map{"status": status, "count": n})
}

// ByDateRange lists orders placed between ?from= and ?to= (RFC 3339, inclusive)
func (h *OrderHandler) ByDateRange(c echo.Context) error {
	from, err := queryTime(c, "from")
	if err != nil {
		return h.fail(c, "by_date", err)
	}
	to, err := queryTime(c, "to")
	if err != nil {
		return h.fail(c, "by_date", err)
	}
	rows, err := h.svc.ByDateRange(c.Request().Context(), from, to)
	if err != nil {
		return h.fail(c, "by_date", err)
	}
	return h.reply(c, "by_date", http.StatusOK, rows)
}

func queryTime(c echo.Context, name string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, c.QueryParam(name))
	if err != nil {
		return time.Time{}, &service.ValidationError{Message: "invalid " + name + ": expected RFC 3339 timestamp"}
	}
	return t, nil
}

// ByCustomer handles GET /api/orders/by-customer/:customerId
func (h *OrderHandler) ByCustomer(c echo.Context) error {
	customerID, err := pathID(c, "customerId")
	if err != nil {
		return h.fail(c, "by_customer", err)
	}
	rows, err := h.svc.ByCustomer(c.Request().Context(), customerID)
	if err != nil {
		return h.fail(c, "by_customer", err)
	}
	return h.reply(c, "by_customer", http.StatusOK, rows)
}

// ByStatus handles GET /api/orders/by-status/:status
func (h *OrderHandler) ByStatus(c echo.Context) error {
	rows, err := h.svc.ByStatus(c.Request().Context(), c.Param("status"))
	if err != nil {
		return h.fail(c, "by_status", err)
	}
	return h.reply(c, "by_status", http.StatusOK, rows)
}

// Get handles GET /api/orders/:id
func (h *OrderHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return h.fail(c, "get", err)
	}
	order, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return h.fail(c, "get", err)
	}
	return h.reply(c, "get", http.StatusOK, order)
}

// Create handles POST /api/orders
func (h *OrderHandler) Create(c echo.Context) error {
	var req service.OrderInput
	if err := bind(c, &req); err != nil {
		return h.fail(c, "create", err)
	}
	order, err := h.svc.Create(c.Request().Context(), req)
	if err != nil {
		return h.fail(c, "create", err)
	}
	return h.reply(c, "create", http.StatusCreated, order)
}

// Update handles PUT /api/orders/:id
func (h *OrderHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return h.fail(c, "update", err)
	}
	var req service.UpdateOrderInput
	if err := bind(c, &req); err != nil {
		return h.fail(c, "update", err)
	}
	order, err := h.svc.Update(c.Request().Context(), id, req)
	if err != nil {
		return h.fail(c, "update", err)
	}
	return h.reply(c, "update", http.StatusOK, order)
}

// UpdateStatus accepts any status string; SHIPPED and DELIVERED also stamp
// their dates
func (h *OrderHandler) UpdateStatus(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return h.fail(c, "update_status", err)
	}
	var req service.StatusInput
	if err := bind(c, &req); err != nil {
		return h.fail(c, "update_status", err)
	}
	order, err := h.svc.UpdateStatus(c.Request().Context(), id, req)
	if err != nil {
		return h.fail(c, "update_status", err)
	}
	return h.reply(c, "update_status", http.StatusOK, order)
}

// Delete handles DELETE /api/orders/:id
func (h *OrderHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return h.fail(c, "delete", err)
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return h.fail(c, "delete", err)
	}
	return h.reply(c, "delete", http.StatusNoContent, nil)
}
