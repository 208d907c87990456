//go:build !integration

package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/kandypack-dispatch/internal/domain/dto"
	apphttp "github.com/guttosm/kandypack-dispatch/internal/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(components *RouterComponents) *gin.Engine {
	return apphttp.NewRouter(components.Handler, components.HealthHandler, components.Config)
}

func serve(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestInitializeApp(t *testing.T) {
	app := InitializeApp(testConfig())
	t.Cleanup(func() { _ = app.Close(context.Background()) })

	require.NotNil(t, app.Router)
	require.NotNil(t, app.Services)

	routes := make(map[string]bool)
	for _, r := range app.Router.Routes() {
		routes[r.Method+" "+r.Path] = true
	}
	for _, route := range []string{
		"GET /healthz",
		"GET /readyz",
		"GET /metrics",
		"POST /api/orders",
		"PUT /api/transport-units/:id/capacity",
		"POST /api/trips/:id/reconcile",
		"GET /api/audit",
	} {
		assert.True(t, routes[route], "missing route %s", route)
	}
}

func TestInitializeApp_DispatchFlow(t *testing.T) {
	app := InitializeApp(testConfig())
	t.Cleanup(func() { _ = app.Close(context.Background()) })
	router := app.Router

	for _, seed := range []struct{ path, body string }{
		{"/api/products/choc", `{"name":"Chocolate bar","space_consumption":"0.5","price":"3.50","available_quantity":100}`},
		{"/api/transport-units/train-3", `{"kind":"train","capacity":"100"}`},
		{"/api/transport-units/truck-07", `{"kind":"truck","capacity":"10"}`},
		{"/api/schedules/sch-train", `{"route_id":"colombo-kandy","leg":"train","transport_unit_id":"train-3","departure_time":"08:00","frequency_minutes":1440,"duration_minutes":180,"operating_days":["mon","tue","wed","thu","fri","sat","sun"]}`},
		{"/api/schedules/sch-truck", `{"route_id":"kandy-peradeniya","leg":"truck","transport_unit_id":"truck-07","departure_time":"13:00","frequency_minutes":1440,"duration_minutes":60,"operating_days":["mon","tue","wed","thu","fri","sat","sun"]}`},
	} {
		w := serve(router, http.MethodPut, seed.path, seed.body)
		require.Equal(t, http.StatusOK, w.Code, "%s: %s", seed.path, w.Body.String())
	}

	w := serve(router, http.MethodPost, "/api/orders",
		`{"id":"ord-1","train_route_id":"colombo-kandy","truck_route_id":"kandy-peradeniya","items":[{"id":"item-1","product_id":"choc","quantity":10,"unit_price":"3.50"}]}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"status":"allocated"`)

	w = serve(router, http.MethodPut, "/api/transport-units/truck-07/capacity", `{"capacity":"0"}`)
	require.Equal(t, http.StatusAccepted, w.Code, w.Body.String())

	// Taking every truck out of service leaves the item without a truck leg.
	require.Eventually(t, func() bool {
		w := serve(router, http.MethodGet, "/api/orders/ord-1/dispatch", "")
		var resp dto.SuccessResponse
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			return false
		}
		data, ok := resp.Data.(map[string]interface{})
		if !ok {
			return false
		}
		items, _ := data["items"].([]interface{})
		if len(items) != 1 {
			return false
		}
		item, _ := items[0].(map[string]interface{})
		return item["truck_trip_id"] == nil
	}, 5*time.Second, 20*time.Millisecond)

	require.Eventually(t, func() bool {
		w := serve(router, http.MethodGet, "/api/audit?action=order.submit", "")
		return w.Code == http.StatusOK && strings.Contains(w.Body.String(), `"order_id":"ord-1"`)
	}, 5*time.Second, 20*time.Millisecond)
}

func TestApp_Close(t *testing.T) {
	app := InitializeApp(testConfig())

	assert.NoError(t, app.Close(context.Background()))
	assert.NoError(t, app.Close(context.Background()), "closing twice is a no-op")
}
