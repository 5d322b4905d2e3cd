package internal

import (
	"clanwatch/internal/controllers"
	"clanwatch/internal/models"
	"clanwatch/internal/services"
	"clanwatch/internal/structures"
	"clanwatch/internal/testutil"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestHandler(metricsEnabled bool) (http.Handler, *testutil.MockMetrics) {
	logger := &testutil.MockLogger{}
	client := &testutil.MockClient{Clan: &models.Clan{Tag: "#2PP", Name: "Sample"}}
	store := testutil.NewMockStore()
	conf := &structures.Config{
		Upstream: structures.UpstreamConfig{ClanTag: "#2PP"},
		Metrics:  structures.MetricsConfig{Enabled: metricsEnabled},
	}
	metrics := &testutil.MockMetrics{}

	ac := controllers.NewApiController(conf, logger, client, services.NewAggregationService(client, logger))
	bc := controllers.NewBindingController(logger, client, store)
	handler := NewHandler(controllers.NewHealthController(store), conf, logger, InitRoutes(ac, bc), metrics)
	return handler, metrics
}

func get(h http.Handler, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestNewHandler_Health(t *testing.T) {
	h, metrics := newTestHandler(false)

	rec := get(h, "/health")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
	assert.Empty(t, metrics.Requests)
}

func TestNewHandler_InstrumentsAPIRoutes(t *testing.T) {
	h, metrics := newTestHandler(false)

	assert.Equal(t, http.StatusOK, get(h, "/clan").Code)
	assert.Equal(t, http.StatusNotFound, get(h, "/nope").Code)

	assert.Equal(t, 1, metrics.Requests["/clan:200"])
	assert.Equal(t, 1, metrics.Requests["other:404"])
}

func TestNewHandler_MetricsEndpoint(t *testing.T) {
	h, _ := newTestHandler(true)
	rec := get(h, "/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")

	h, _ = newTestHandler(false)
	assert.Equal(t, http.StatusNotFound, get(h, "/metrics").Code)
}
