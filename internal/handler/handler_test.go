package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/suteetoe/backoffice/internal/authz"
	"github.com/suteetoe/backoffice/internal/middleware"
	"github.com/suteetoe/backoffice/internal/service"
	"github.com/suteetoe/backoffice/internal/testutil"
	"github.com/suteetoe/backoffice/pkg/config"
	"github.com/suteetoe/backoffice/pkg/jwtutil"
	"github.com/suteetoe/backoffice/pkg/logger"
	"github.com/suteetoe/backoffice/pkg/metrics"
)

type apiTest struct {
	t       *testing.T
	e       *echo.Echo
	metrics *metrics.HTTPMetrics
	token   string
}

func newAPITest(t *testing.T) *apiTest {
	t.Helper()
	db := testutil.OpenDB(t)
	clock := testutil.NewClock()
	tokens := jwtutil.NewJWTUtil(&config.JWTConfig{SigningKey: "handler-test", ExpirationHours: 1, Issuer: "backoffice"})
	enforcer, err := authz.NewEnforcer()
	require.NoError(t, err)
	m := metrics.NewHTTPMetrics("backoffice", "backoffice")

	e := echo.New()
	e.Use(middleware.RequestID())
	e.Use(logger.Middleware())
	e.GET("/health", Health(db))
	api := e.Group("/api", middleware.JWTAuth(tokens, m))
	RegisterAPI(api, service.NewServices(db, service.WithClock(clock.Now)), enforcer, m)

	token, err := tokens.GenerateToken(jwtutil.Subject{UserID: 1, Username: "admin", Roles: []string{authz.RoleAdmin}})
	require.NoError(t, err)
	return &apiTest{t: t, e: e, metrics: m, token: token}
}

func (a *apiTest) do(method, path, body string) *httptest.ResponseRecorder {
	a.t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+a.token)
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestHealth(t *testing.T) {
	a := newAPITest(t)
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestCategoryLifecycle(t *testing.T) {
	a := newAPITest(t)

	rec := a.do(http.MethodPost, "/api/categories", `{"name":"Electronics","description":"Gadgets"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode(t, rec)
	assert.Equal(t, "Electronics", created["name"])
	assert.Equal(t, true, created["active"])

	rec = a.do(http.MethodPost, "/api/categories", `{"name":"Electronics"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, decode(t, rec)["error"], "Electronics")

	rec = a.do(http.MethodPost, "/api/categories", `{"name":"Smartphones","parent_category_id":1}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = a.do(http.MethodGet, "/api/categories/1/subcategories", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var children []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &children))
	require.Len(t, children, 1)
	assert.Equal(t, "Smartphones", children[0]["name"])

	rec = a.do(http.MethodPut, "/api/categories/1", `{"name":"Electronics","description":"All gadgets","active":false}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, decode(t, rec)["active"])

	rec = a.do(http.MethodDelete, "/api/categories/1", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = a.do(http.MethodGet, "/api/categories/1", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Category not found: 1", decode(t, rec)["error"])
}

func TestListIsSlicePaged(t *testing.T) {
	a := newAPITest(t)
	for _, name := range []string{"Books", "Clothing", "Electronics"} {
		rec := a.do(http.MethodPost, "/api/categories", `{"name":"`+name+`"}`)
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := a.do(http.MethodGet, "/api/categories?page=0&size=2&sort=name,desc", "")
	require.Equal(t, http.StatusOK, rec.Code)
	page := decode(t, rec)
	assert.Equal(t, true, page["has_next"])
	assert.NotContains(t, page, "total")
	items := page["items"].([]interface{})
	require.Len(t, items, 2)
	assert.Equal(t, "Electronics", items[0].(map[string]interface{})["name"])

	rec = a.do(http.MethodGet, "/api/categories?q=CLOTH", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode(t, rec)["items"], 1)

	for _, query := range []string{"page=abc", "page=9223372036854775807", "page=184467440737095516", "sort=secret", "sort=name,sideways"} {
		rec = a.do(http.MethodGet, "/api/categories?"+query, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, query)
	}
}

func TestValidationErrorsListFields(t *testing.T) {
	a := newAPITest(t)

	rec := a.do(http.MethodPost, "/api/products", `{"name":"Widget","sku":"W-1","price":"0","stock_quantity":5}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode(t, rec)
	details := body["details"].([]interface{})
	require.Len(t, details, 1)
	assert.Equal(t, "price", details[0].(map[string]interface{})["field"])

	rec = a.do(http.MethodPost, "/api/products", `{"name":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = a.do(http.MethodGet, "/api/products/abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProductStockEndpoints(t *testing.T) {
	a := newAPITest(t)

	rec := a.do(http.MethodPost, "/api/products", `{"name":"iPhone 15","sku":"IPHONE-15","price":999.99,"stock_quantity":50}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "999.99", decode(t, rec)["price"])

	rec = a.do(http.MethodPatch, "/api/products/1/stock", `{"stock_quantity":10}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = a.do(http.MethodGet, "/api/products/low-stock?threshold=10", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var low []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &low))
	assert.Len(t, low, 1)
}

func TestOrderStatusAndRevenue(t *testing.T) {
	a := newAPITest(t)

	rec := a.do(http.MethodGet, "/api/orders/revenue", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "0", decode(t, rec)["total_revenue"])

	for _, amount := range []string{"10.00", "20.00"} {
		rec = a.do(http.MethodPost, "/api/orders", `{"customer_id":1,"total_amount":"`+amount+`"}`)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		order := decode(t, rec)
		assert.Equal(t, "PENDING", order["status"])
		assert.Regexp(t, `^ORD-[0-9A-F]{8}$`, order["order_number"])
	}

	rec = a.do(http.MethodPatch, "/api/orders/1/status", `{"status":"SHIPPED"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	shipped := decode(t, rec)
	assert.NotNil(t, shipped["shipped_date"])
	assert.Nil(t, shipped["delivered_date"])

	for _, id := range []string{"1", "2"} {
		rec = a.do(http.MethodPatch, "/api/orders/"+id+"/status", `{"status":"DELIVERED"}`)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec = a.do(http.MethodGet, "/api/orders/revenue", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "30", decode(t, rec)["total_revenue"])

	rec = a.do(http.MethodGet, "/api/orders/count?status=DELIVERED", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(2), decode(t, rec)["count"])

	rec = a.do(http.MethodGet, "/api/orders/by-date?from=2026-03-14T00:00:00Z&to=2026-03-15T00:00:00Z", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var inRange []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &inRange))
	assert.Len(t, inRange, 2)

	rec = a.do(http.MethodGet, "/api/orders/by-date?from=2026-03-15T00:00:00Z&to=2026-03-14T00:00:00Z", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = a.do(http.MethodGet, "/api/orders/by-date?from=yesterday&to=2026-03-15T00:00:00Z", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUserLastLoginIgnoresUnknown(t *testing.T) {
	a := newAPITest(t)

	rec := a.do(http.MethodPost, "/api/users/last-login", `{"username":"ghost"}`)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = a.do(http.MethodPost, "/api/users", `{"username":"admin","email":"admin@example.com","first_name":"Ada","last_name":"Min"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = a.do(http.MethodPost, "/api/users", `{"username":"admin","email":"other@example.com","first_name":"Ada","last_name":"Min"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = a.do(http.MethodPost, "/api/users/last-login", `{"username":"admin"}`)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = a.do(http.MethodGet, "/api/users/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotNil(t, decode(t, rec)["last_login_date"])
}

func TestOperationsAreCounted(t *testing.T) {
	a := newAPITest(t)

	a.do(http.MethodPost, "/api/customers", `{"first_name":"John","last_name":"Doe","email":"john@example.com"}`)
	a.do(http.MethodPost, "/api/customers", `{"first_name":"John","last_name":"Doe","email":"john@example.com"}`)
	a.do(http.MethodGet, "/api/customers/by-email?email=missing@example.com", "")

	rec := httptest.NewRecorder()
	a.metrics.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := rec.Body.String()
	assert.Contains(t, body, `backoffice_operations_total{entity="customer",operation="create",outcome="success"} 1`)
	assert.Contains(t, body, `backoffice_operations_total{entity="customer",operation="create",outcome="conflict"} 1`)
	assert.Contains(t, body, `backoffice_operations_total{entity="customer",operation="by_email",outcome="not_found"} 1`)
}
