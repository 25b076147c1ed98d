package controllers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/appaccess/app/routes"
	"github.com/shashiranjanraj/appaccess/app/services"
)

type envelope struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newServer(t *testing.T) http.Handler {
	t.Helper()
	app, err := services.Open(context.Background(), "sqlite",
		filepath.Join(t.TempDir(), "api.db"), nil, services.WithBulkDelay(0))
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })
	require.NoError(t, app.SetupDatabase(context.Background()))
	return routes.New(app).Handler()
}

func do(t *testing.T, h http.Handler, method, target, body string) (int, envelope) {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env envelope
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec.Code, env
}

const john = `{"name":"John Doe","email":"john.doe@example.com","ssn":"123-45-6789",
"credit_card":"4532-1234-5678-9012","address":"123 Main St"}`

func TestCustomerLifecycle(t *testing.T) {
	h := newServer(t)

	code, env := do(t, h, http.MethodPost, "/api/customers", john)
	require.Equal(t, http.StatusCreated, code)
	assert.JSONEq(t, `{"id":1}`, string(env.Data))

	code, _ = do(t, h, http.MethodPost, "/api/customers/1/orders",
		`{"details":{"items":[{"product":"Laptop","quantity":1,"price":999.99}],"shipping":"Standard","notes":""},
		"total_amount":999.99,"payment_info":"card"}`)
	require.Equal(t, http.StatusCreated, code)

	code, env = do(t, h, http.MethodGet, "/api/customers/1", "")
	require.Equal(t, http.StatusOK, code)
	var summary struct {
		Name        string  `json:"name"`
		TotalOrders int64   `json:"total_orders"`
		TotalSpent  float64 `json:"total_spent"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &summary))
	assert.Equal(t, "John Doe", summary.Name)
	assert.Equal(t, int64(1), summary.TotalOrders)
	assert.InDelta(t, 999.99, summary.TotalSpent, 0.001)

	code, env = do(t, h, http.MethodGet, "/api/customers/1/orders", "")
	require.Equal(t, http.StatusOK, code)
	var orders []struct {
		ID      uint `json:"id"`
		Details struct {
			Items []struct {
				Product string `json:"product"`
			} `json:"items"`
		} `json:"details"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &orders))
	require.Len(t, orders, 1)
	assert.Equal(t, "Laptop", orders[0].Details.Items[0].Product)

	code, env = do(t, h, http.MethodGet, "/api/customers?email=example.com", "")
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `[{"id":1,"name":"John Doe","email":"john.doe@example.com"}]`, string(env.Data))
}

func TestNotFound(t *testing.T) {
	h := newServer(t)

	code, env := do(t, h, http.MethodGet, "/api/customers/9", "")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "customer not found", env.Message)

	code, _ = do(t, h, http.MethodGet, "/api/customers/9/orders", "")
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = do(t, h, http.MethodPost, "/api/customers/9/orders", `{"total_amount":1}`)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestBadRequests(t *testing.T) {
	h := newServer(t)

	code, _ := do(t, h, http.MethodGet, "/api/customers/abc", "")
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = do(t, h, http.MethodPost, "/api/customers", "{not json")
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = do(t, h, http.MethodPost, "/api/bulk?n=-1", "")
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestEmptySearchIsArray(t *testing.T) {
	h := newServer(t)
	code, env := do(t, h, http.MethodGet, "/api/customers?email=nobody", "")
	assert.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `[]`, string(env.Data))
}

func TestBulk(t *testing.T) {
	h := newServer(t)

	code, env := do(t, h, http.MethodPost, "/api/bulk?n=3", "")
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"requested":3,"created":3}`, string(env.Data))

	_, env = do(t, h, http.MethodGet, "/api/customers?email=bulk", "")
	var matches []map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &matches))
	assert.Len(t, matches, 3)
}

func TestHealthAndMetrics(t *testing.T) {
	h := newServer(t)

	code, env := do(t, h, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"status":"ok"}`, string(env.Data))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "appaccess_http_requests_total")
}

func TestCreatedResponsesSetLocation(t *testing.T) {
	h := newServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/customers", strings.NewReader(john))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "/api/customers/1", rec.Header().Get("Location"))

	req = httptest.NewRequest(http.MethodPost, "/api/customers/1/orders",
		strings.NewReader(`{"details":{"items":[]},"total_amount":5,"payment_info":"card"}`))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "/api/customers/1/orders", rec.Header().Get("Location"))
}

func TestOrderDetailsRoundTripUnknownKeys(t *testing.T) {
	h := newServer(t)

	code, _ := do(t, h, http.MethodPost, "/api/customers", john)
	require.Equal(t, http.StatusCreated, code)

	details := `{"items":[{"product":"Laptop","quantity":1,"price":999.99,"sku":"LP-1"}],` +
		`"shipping":"Standard","notes":"n","gift_wrap":true,"coupon":{"code":"X","rules":{"min":100}}}`
	code, _ = do(t, h, http.MethodPost, "/api/customers/1/orders",
		`{"details":`+details+`,"total_amount":999.99,"payment_info":"card"}`)
	require.Equal(t, http.StatusCreated, code)

	code, env := do(t, h, http.MethodGet, "/api/customers/1/orders", "")
	require.Equal(t, http.StatusOK, code)
	var orders []struct {
		Details json.RawMessage `json:"details"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &orders))
	require.Len(t, orders, 1)
	assert.JSONEq(t, details, string(orders[0].Details))
}
