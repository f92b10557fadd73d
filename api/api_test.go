package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jonwraymond/sentinel/monitor"
	"github.com/jonwraymond/sentinel/registry"
	"github.com/jonwraymond/sentinel/stats"
)

type fakeHistory struct {
	results []monitor.Result
}

func (f *fakeHistory) RecentResults(ctx context.Context, monitorName string, limit int) ([]monitor.Result, error) {
	if limit > len(f.results) {
		limit = len(f.results)
	}
	return f.results[:limit], nil
}

type testEnv struct {
	registry   *registry.Registry
	aggregator *stats.Aggregator
	history    *fakeHistory
	handler    http.Handler
}

func newTestEnv(t *testing.T, apiKey string) *testEnv {
	t.Helper()

	env := &testEnv{
		registry:   registry.NewRegistry(),
		aggregator: stats.NewAggregator(),
		history:    &fakeHistory{},
	}
	handlers := NewHandlers(env.registry, env.aggregator, env.history, nil, nil)
	env.handler = NewRouter(handlers, apiKey)
	return env
}

func (env *testEnv) do(t *testing.T, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	env.handler.ServeHTTP(w, req)
	return w
}

func TestHealthz(t *testing.T) {
	env := newTestEnv(t, "")

	w := env.do(t, http.MethodGet, "/healthz", "", nil)
	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"status":"ok"`) {
		t.Errorf("body = %s", w.Body.String())
	}
}

func TestReadyz(t *testing.T) {
	ready := false
	handlers := NewHandlers(registry.NewRegistry(), stats.NewAggregator(), nil, func() bool { return ready }, nil)
	handler := NewRouter(handlers, "")

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d before engine runs, want 503", w.Code)
	}

	ready = true
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if w.Code != http.StatusOK {
		t.Errorf("status = %d once running, want 200", w.Code)
	}
}

func TestMonitorCRUD(t *testing.T) {
	env := newTestEnv(t, "")

	body := `{"name":"api","url":"https://api.example.com/health","interval":30000000000,"expected_status":200,"timeout":5000000000,"enabled":true}`
	w := env.do(t, http.MethodPost, "/api/v1/monitors", body, nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d, want 201: %s", w.Code, w.Body.String())
	}

	// Duplicate name conflicts.
	w = env.do(t, http.MethodPost, "/api/v1/monitors", body, nil)
	if w.Code != http.StatusConflict {
		t.Errorf("duplicate create status = %d, want 409", w.Code)
	}

	// Invalid payload is a 400.
	w = env.do(t, http.MethodPost, "/api/v1/monitors", `{"name":"bad","url":"ftp://x"}`, nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("invalid create status = %d, want 400", w.Code)
	}

	w = env.do(t, http.MethodGet, "/api/v1/monitors/api", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get status = %d, want 200", w.Code)
	}
	var got monitor.Target
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Name != "api" || got.Interval != 30*time.Second {
		t.Errorf("got = %+v", got)
	}

	w = env.do(t, http.MethodGet, "/api/v1/monitors", "", nil)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"count":1`) {
		t.Errorf("list = %d %s", w.Code, w.Body.String())
	}

	update := `{"name":"api","url":"https://api.example.com/health","expected_status":204,"enabled":false}`
	w = env.do(t, http.MethodPut, "/api/v1/monitors/api", update, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("update status = %d, want 200: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"expected_status":204`) {
		t.Errorf("update body = %s", w.Body.String())
	}

	w = env.do(t, http.MethodPut, "/api/v1/monitors/ghost", update, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("update missing status = %d, want 404", w.Code)
	}

	w = env.do(t, http.MethodDelete, "/api/v1/monitors/api", "", nil)
	if w.Code != http.StatusNoContent {
		t.Errorf("delete status = %d, want 204", w.Code)
	}
	w = env.do(t, http.MethodGet, "/api/v1/monitors/api", "", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("get after delete status = %d, want 404", w.Code)
	}
}

func TestDeleteMonitorResetsStats(t *testing.T) {
	env := newTestEnv(t, "")
	ctx := context.Background()

	if _, err := env.registry.Create(ctx, monitor.Target{Name: "api", URL: "https://api.example.com", Enabled: true}); err != nil {
		t.Fatalf("Create() = %v", err)
	}
	env.aggregator.Apply(ctx, monitor.Up("api", "https://api.example.com", 200, time.Millisecond))

	w := env.do(t, http.MethodDelete, "/api/v1/monitors/api", "", nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d, want 204", w.Code)
	}
	if _, ok := env.aggregator.Stats("api"); ok {
		t.Error("aggregator entry should be gone after delete")
	}
}

func TestStatusEndpoints(t *testing.T) {
	env := newTestEnv(t, "")
	ctx := context.Background()

	if _, err := env.registry.Create(ctx, monitor.Target{Name: "api", URL: "https://api.example.com", Enabled: true}); err != nil {
		t.Fatalf("Create() = %v", err)
	}
	if _, err := env.registry.Create(ctx, monitor.Target{Name: "quiet", URL: "https://quiet.example.com", Enabled: true}); err != nil {
		t.Fatalf("Create() = %v", err)
	}
	env.aggregator.Apply(ctx, monitor.Up("api", "https://api.example.com", 200, 20*time.Millisecond))
	env.aggregator.Apply(ctx, monitor.Down("api", "https://api.example.com", 500, 10*time.Millisecond, "expected 200, got 500"))

	w := env.do(t, http.MethodGet, "/api/v1/status", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status list = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"total_checks":2`) {
		t.Errorf("status list body = %s", w.Body.String())
	}

	w = env.do(t, http.MethodGet, "/api/v1/status/api", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status get = %d, want 200", w.Code)
	}
	var snapshot monitor.Stats
	if err := json.Unmarshal(w.Body.Bytes(), &snapshot); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if snapshot.TotalChecks != 2 || snapshot.UptimePercentage != 50 {
		t.Errorf("snapshot = %+v", snapshot)
	}

	// Registered but never checked: empty snapshot, not 404.
	w = env.do(t, http.MethodGet, "/api/v1/status/quiet", "", nil)
	if w.Code != http.StatusOK {
		t.Errorf("unchecked status = %d, want 200", w.Code)
	}

	w = env.do(t, http.MethodGet, "/api/v1/status/ghost", "", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("unknown status = %d, want 404", w.Code)
	}
}

func TestListResults(t *testing.T) {
	env := newTestEnv(t, "")
	ctx := context.Background()

	if _, err := env.registry.Create(ctx, monitor.Target{Name: "api", URL: "https://api.example.com", Enabled: true}); err != nil {
		t.Fatalf("Create() = %v", err)
	}
	for i := 0; i < 5; i++ {
		env.history.results = append(env.history.results, monitor.Up("api", "https://api.example.com", 200, time.Millisecond))
	}

	w := env.do(t, http.MethodGet, "/api/v1/monitors/api/results?limit=3", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("results = %d, want 200: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"count":3`) {
		t.Errorf("results body = %s", w.Body.String())
	}

	w = env.do(t, http.MethodGet, "/api/v1/monitors/api/results?limit=0", "", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad limit = %d, want 400", w.Code)
	}

	w = env.do(t, http.MethodGet, "/api/v1/monitors/ghost/results", "", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("unknown monitor results = %d, want 404", w.Code)
	}
}

func TestListResults_PersistenceDisabled(t *testing.T) {
	reg := registry.NewRegistry()
	if _, err := reg.Create(context.Background(), monitor.Target{Name: "api", URL: "https://api.example.com", Enabled: true}); err != nil {
		t.Fatalf("Create() = %v", err)
	}
	handlers := NewHandlers(reg, stats.NewAggregator(), nil, nil, nil)
	handler := NewRouter(handlers, "")

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/monitors/api/results", nil))
	if w.Code != http.StatusNotImplemented {
		t.Errorf("results without store = %d, want 501", w.Code)
	}
}

func TestAPIKeyMiddleware(t *testing.T) {
	env := newTestEnv(t, "s3cret")

	// Probes stay open.
	if w := env.do(t, http.MethodGet, "/healthz", "", nil); w.Code != http.StatusOK {
		t.Errorf("healthz with key configured = %d, want 200", w.Code)
	}

	w := env.do(t, http.MethodGet, "/api/v1/monitors", "", nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("missing key = %d, want 401", w.Code)
	}

	w = env.do(t, http.MethodGet, "/api/v1/monitors", "", map[string]string{"X-API-Key": "wrong"})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("wrong key = %d, want 401", w.Code)
	}

	w = env.do(t, http.MethodGet, "/api/v1/monitors", "", map[string]string{"X-API-Key": "s3cret"})
	if w.Code != http.StatusOK {
		t.Errorf("correct key = %d, want 200", w.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	env := newTestEnv(t, "s3cret")

	w := env.do(t, http.MethodGet, "/metrics", "", nil)
	if w.Code != http.StatusOK {
		t.Errorf("metrics = %d, want 200", w.Code)
	}
}

func TestServer_StartAndShutdown(t *testing.T) {
	handlers := NewHandlers(registry.NewRegistry(), stats.NewAggregator(), nil, nil, nil)
	server := NewServer(ServerConfig{Listen: "127.0.0.1:0"}, handlers, nil)

	errCh := server.Start()

	if err := server.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown() = %v", err)
	}
	if err, ok := <-errCh; ok && err != nil {
		t.Errorf("server error = %v", err)
	}
}
