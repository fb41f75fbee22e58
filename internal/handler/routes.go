package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/suteetoe/backoffice/internal/authz"
	"github.com/suteetoe/backoffice/internal/middleware"
	"github.com/suteetoe/backoffice/internal/service"
	"gorm.io/gorm"
)

// Recorder collects operation and authorization metrics
type Recorder interface {
	OperationRecorder
	middleware.FailureRecorder
}

// RegisterAPI mounts every entity under api, each behind the role check for
// its resource. api must already require authentication.
func RegisterAPI(api *echo.Group, svcs *service.Services, enforcer *authz.Enforcer, rec Recorder) {
	guard := func(object string) echo.MiddlewareFunc {
		return middleware.RequireAccess(enforcer, object, rec)
	}

	NewCategoryHandler(svcs.Categories, rec).Register(api.Group("/categories", guard(authz.ObjectCategory)))
	NewProductHandler(svcs.Products, rec).Register(api.Group("/products", guard(authz.ObjectProduct)))
	NewCustomerHandler(svcs.Customers, rec).Register(api.Group("/customers", guard(authz.ObjectCustomer)))
	NewOrderHandler(svcs.Orders, rec).Register(api.Group("/orders", guard(authz.ObjectOrder)))
	NewUserHandler(svcs.Users, rec).Register(api.Group("/users", guard(authz.ObjectUser)))
}

// Health reports whether the database answers a ping
func Health(db *gorm.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()

		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(ctx)
		}
		if err != nil {
			return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		}
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	}
}
