package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/suteetoe/backoffice/internal/service"
)

// UserHandler serves /api/users
type UserHandler struct {
	endpoint
	svc *service.UserService
}

// NewUserHandler creates a handler around svc
func NewUserHandler(svc *service.UserService, ops OperationRecorder) *UserHandler {
	return &UserHandler{endpoint: newEndpoint("user", ops), svc: svc}
}

// Register mounts the user routes on g
func (h *UserHandler) Register(g *echo.Group) {
	g.GET("", h.List)
	g.GET("/:id", h.Get)
	g.POST("", h.Create)
	g.POST("/last-login", h.LastLogin)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
}

// LastLoginRequest names the account whose login is recorded
type LastLoginRequest struct {
	Username string `json:"username"`
}

// List returns one slice of users, filtered by ?q= when present
func (h *UserHandler) List(c echo.Context) error {
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

// Get handles GET /api/users/:id
func (h *UserHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return h.fail(c, "get", err)
	}
	user, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return h.fail(c, "get", err)
	}
	return h.reply(c, "get", http.StatusOK, user)
}

// Create handles POST /api/users
func (h *UserHandler) Create(c echo.Context) error {
	var req service.UserInput
	if err := bind(c, &req); err != nil {
		return h.fail(c, "create", err)
	}
	user, err := h.svc.Create(c.Request().Context(), req)
	if err != nil {
		return h.fail(c, "create", err)
	}
	return h.reply(c, "create", http.StatusCreated, user)
}

// LastLogin stamps the last login of the named user. Unknown usernames are
// accepted and ignored.
func (h *UserHandler) LastLogin(c echo.Context) error {
	var req LastLoginRequest
	if err := bind(c, &req); err != nil {
		return h.fail(c, "last_login", err)
	}
	if err := h.svc.UpdateLastLoginDate(c.Request().Context(), req.Username); err != nil {
		return h.fail(c, "last_login", err)
	}
	return h.reply(c, "last_login", http.StatusNoContent, nil)
}

// Update handles PUT /api/users/:id
func (h *UserHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return h.fail(c, "update", err)
	}
	var req service.UpdateUserInput
	if err := bind(c, &req); err != nil {
		return h.fail(c, "update", err)
	}
	user, err := h.svc.Update(c.Request().Context(), id, req)
	if err != nil {
		return h.fail(c, "update", err)
	}
	return h.reply(c, "update", http.StatusOK, user)
}

// Delete handles DELETE /api/users/:id
func (h *UserHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return h.fail(c, "delete", err)
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return h.fail(c, "delete", err)
	}
	return h.reply(c, "delete", http.StatusNoContent, nil)
}
