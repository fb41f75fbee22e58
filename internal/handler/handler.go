// Package handler exposes the back-office services over echo.
package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/suteetoe/backoffice/internal/model"
	"github.com/suteetoe/backoffice/internal/service"
	"github.com/suteetoe/backoffice/pkg/logger"
	"github.com/suteetoe/backoffice/pkg/metrics"
	"go.uber.org/zap"
)

// OperationRecorder counts service calls by outcome
type OperationRecorder interface {
	ObserveOperation(entity, operation, outcome string)
}

type noopRecorder struct{}

func (noopRecorder) ObserveOperation(string, string, string) {}

// endpoint holds what every entity handler shares
type endpoint struct {
	entity string
	ops    OperationRecorder
}

func newEndpoint(entity string, ops OperationRecorder) endpoint {
	if ops == nil {
		ops = noopRecorder{}
	}
	return endpoint{entity: entity, ops: ops}
}

// reply writes body with status and counts the operation as a success
func (e endpoint) reply(c echo.Context, op string, status int, body interface{}) error {
	e.ops.ObserveOperation(e.entity, op, metrics.OutcomeSuccess)
	if body == nil {
		return c.NoContent(status)
	}
	return c.JSON(status, body)
}

// fail maps err onto an HTTP status and counts the outcome
func (e endpoint) fail(c echo.Context, op string, err error) error {
	log := logger.FromEcho(c)

	var (
		validation *service.ValidationError
		notFound   *service.NotFoundError
		conflict   *service.ConflictError
	)
	switch {
	case errors.As(err, &validation):
		e.ops.ObserveOperation(e.entity, op, metrics.OutcomeInvalid)
		log.Warn("Rejected invalid request", zap.String("operation", op), zap.Error(err))
		body := echo.Map{"error": validation.Message}
		if len(validation.Fields) > 0 {
			body["details"] = validation.Fields
		}
		return c.JSON(http.StatusBadRequest, body)
	case errors.As(err, &notFound):
		e.ops.ObserveOperation(e.entity, op, metrics.OutcomeNotFound)
		return c.JSON(http.StatusNotFound, echo.Map{"error": notFound.Error()})
	case errors.As(err, &conflict):
		e.ops.ObserveOperation(e.entity, op, metrics.OutcomeConflict)
		log.Warn("Uniqueness conflict", zap.String("operation", op), zap.Error(err))
		return c.JSON(http.StatusConflict, echo.Map{"error": conflict.Error()})
	default:
		e.ops.ObserveOperation(e.entity, op, metrics.OutcomeError)
		log.Error("Operation failed",
			zap.String("entity", e.entity),
			zap.String("operation", op),
			zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal server error"})
	}
}

// bind decodes the request body into v
func bind(c echo.Context, v interface{}) error {
	if err := c.Bind(v); err != nil {
		return &service.ValidationError{Message: "Invalid request data"}
	}
	return nil
}

// pathID reads a positive integer path parameter
func pathID(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, &service.ValidationError{Message: "invalid " + name + ": " + c.Param(name)}
	}
	return uint(id), nil
}

// queryInt reads an integer query parameter, falling back to def when absent
func queryInt(c echo.Context, name string, def int) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &service.ValidationError{Message: "invalid " + name + ": " + raw}
	}
	return v, nil
}

// pageable reads page, size and sort from the query string
func pageable(c echo.Context) (model.Pageable, error) {
	page, err := queryInt(c, "page", 0)
	if err != nil {
		return model.Pageable{}, err
	}
	if page > model.MaxPage {
		return model.Pageable{}, &service.ValidationError{Message: fmt.Sprintf("page must not exceed %d", model.MaxPage)}
	}
	size, err := queryInt(c, "size", model.DefaultPageSize)
	if err != nil {
		return model.Pageable{}, err
	}
	sort, err := model.ParseSort(c.QueryParam("sort"))
	if err != nil {
		return model.Pageable{}, &service.ValidationError{Message: err.Error()}
	}
	return model.Pageable{Page: page, Size: size, Sort: sort}, nil
}
