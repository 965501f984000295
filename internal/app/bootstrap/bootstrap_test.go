package bootstrap

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	activitymemory "timecapsule/contexts/activity/activity-log/adapters/memory"
	activityports "timecapsule/contexts/activity/activity-log/ports"
	capsulememory "timecapsule/contexts/capsules/public-capsule/adapters/memory"
	"timecapsule/contexts/capsules/public-capsule/domain/entities"
	"timecapsule/internal/platform/cache"
	"timecapsule/internal/platform/config"
	"timecapsule/internal/platform/httpserver"
	"timecapsule/internal/platform/logging"
)

type fixture struct {
	app      *APIApp
	activity *activitymemory.Store
	capsules *capsulememory.Store
}

func testConfig() config.Config {
	return config.Config{
		Environment: "test",
		ServiceName: "timecapsule",
		APIVersion:  "1",
		HTTP:        config.HTTPConfig{Port: "0", ShutdownTimeout: time.Second},
		Cache:       config.CacheConfig{DefaultTTL: cache.DefaultTTL},
		Activity:    config.ActivityConfig{Retention: time.Hour, SweepInterval: time.Hour},
	}
}

func newFixture(t *testing.T, cfg config.Config, res Resources) fixture {
	t.Helper()
	activity := activitymemory.NewStore()
	capsules := capsulememory.NewStore()
	capsules.Put(entities.PublicCapsule{
		CapsuleID:  "cap-1",
		Title:      "Hello from 2016",
		AuthorName: "Ada",
		OpensAt:    time.Now().UTC().Add(-time.Hour),
	})
	res.Activity = activity
	res.Capsules = capsules
	if res.Cache == nil {
		res.Cache = cache.NewMemory(0)
	}

	app, err := Assemble(context.Background(), cfg, logging.Discard(), res)
	if err != nil {
		t.Fatalf("assemble failed: %v", err)
	}
	return fixture{app: app, activity: activity, capsules: capsules}
}

func (f fixture) do(t *testing.T, method string, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	req.Header.Set("X-Request-Id", "req-test")
	req.Header.Set("X-User-Id", "user-42")
	rr := httptest.NewRecorder()
	f.app.Handler().ServeHTTP(rr, req)
	return rr
}

func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder) httpserver.Envelope {
	t.Helper()
	var envelope httpserver.Envelope
	if err := json.Unmarshal(rr.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("expected envelope JSON, got %q: %v", rr.Body.String(), err)
	}
	if envelope.APIVersion != "1" || envelope.RequestID != "req-test" {
		t.Fatalf("unexpected envelope header fields: %+v", envelope)
	}
	return envelope
}

func TestAssembleRegistersEveryFeatureOnceInOrder(t *testing.T) {
	f := newFixture(t, testConfig(), Resources{})

	want := []string{
		"user", "auth", "transaction", "guest", "capsule", "pagination", "admin",
		"activity-log", "metrics", "content", "recommendation", "search",
		"capsule-history", "public-capsule", "user-interaction",
	}
	got := f.app.Modules()
	if len(got) != len(want) {
		t.Fatalf("expected %d modules, got %d: %v", len(want), len(got), got)
	}
	seen := map[string]bool{}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %s at %d, got %s", want[i], i, got[i])
		}
		if seen[got[i]] {
			t.Fatalf("module %s registered twice", got[i])
		}
		seen[got[i]] = true
	}
}

func TestRootControllersAreEnveloped(t *testing.T) {
	f := newFixture(t, testConfig(), Resources{})

	rr := f.do(t, http.MethodGet, "/")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if got := rr.Header().Get("X-Request-Id"); got != "req-test" {
		t.Fatalf("expected request id echoed, got %q", got)
	}
	envelope := decodeEnvelope(t, rr)
	var info map[string]string
	if err := json.Unmarshal(envelope.Data, &info); err != nil {
		t.Fatalf("decode data failed: %v", err)
	}
	if info["service"] != "timecapsule" || info["environment"] != "test" {
		t.Fatalf("unexpected service info: %v", info)
	}

	rr = f.do(t, http.MethodGet, "/public-capsules")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}
	envelope = decodeEnvelope(t, rr)
	if !strings.Contains(string(envelope.Data), `"capsule_id":"cap-1"`) {
		t.Fatalf("expected capsule in data, got %s", envelope.Data)
	}
}

func TestGeneratedRequestIDMatchesEnvelope(t *testing.T) {
	f := newFixture(t, testConfig(), Resources{})

	rr := httptest.NewRecorder()
	f.app.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	header := rr.Header().Get("X-Request-Id")
	if header == "" {
		t.Fatalf("expected generated request id header")
	}
	var envelope httpserver.Envelope
	if err := json.Unmarshal(rr.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if envelope.RequestID != header {
		t.Fatalf("expected envelope request id %q, got %q", header, envelope.RequestID)
	}
}

func TestSwaggerDocumentIsServedRaw(t *testing.T) {
	f := newFixture(t, testConfig(), Resources{})

	rr := f.do(t, http.MethodGet, "/swagger/doc.json")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(rr.Body.Bytes(), &doc); err != nil {
		t.Fatalf("decode failed: %v body=%s", err, rr.Body.String())
	}
	if _, ok := doc["swagger"]; !ok {
		t.Fatalf("expected top-level swagger key, got %s", rr.Body.String())
	}
	if _, ok := doc["api_version"]; ok {
		t.Fatalf("swagger document must not be enveloped")
	}
}

func TestErrorsAreEnveloped(t *testing.T) {
	f := newFixture(t, testConfig(), Resources{})

	cases := []struct {
		method string
		path   string
		status int
		code   string
	}{
		{method: http.MethodGet, path: "/no-such-route", status: http.StatusNotFound, code: "route_not_found"},
		{method: http.MethodGet, path: "/users/7", status: http.StatusNotImplemented, code: "module_unavailable"},
		{method: http.MethodPost, path: "/search/capsules", status: http.StatusNotImplemented, code: "module_unavailable"},
		{method: http.MethodGet, path: "/public-capsules/unknown", status: http.StatusNotFound, code: "capsule_not_found"},
		{method: http.MethodDelete, path: "/", status: http.StatusMethodNotAllowed, code: "method_not_allowed"},
	}
	for _, tc := range cases {
		rr := f.do(t, tc.method, tc.path)
		if rr.Code != tc.status {
			t.Fatalf("%s %s: expected %d, got %d", tc.method, tc.path, tc.status, rr.Code)
		}
		envelope := decodeEnvelope(t, rr)
		if envelope.Error == nil || envelope.Error.Code != tc.code || envelope.Error.Status != tc.status {
			t.Fatalf("%s %s: unexpected error envelope %+v", tc.method, tc.path, envelope.Error)
		}
	}
}

func TestMetricsExpositionPassesThrough(t *testing.T) {
	f := newFixture(t, testConfig(), Resources{})
	f.do(t, http.MethodGet, "/")

	rr := f.do(t, http.MethodGet, "/metrics")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if strings.HasPrefix(strings.TrimSpace(rr.Body.String()), "{") {
		t.Fatalf("expected raw exposition, got envelope")
	}
	if !strings.Contains(rr.Body.String(), "timecapsule_http_requests_total") {
		t.Fatalf("expected request counter in exposition")
	}
}

func TestActivityIsRecordedForEveryRequest(t *testing.T) {
	f := newFixture(t, testConfig(), Resources{})

	paths := []string{"/", "/no-such-route", "/users/7", "/public-capsules", "/activity-logs"}
	for _, path := range paths {
		f.do(t, http.MethodGet, path)
	}

	items, err := f.activity.ListActivities(context.Background(), activityports.ActivityFilter{})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(items) != len(paths) {
		t.Fatalf("expected %d activities, got %d", len(paths), len(items))
	}
	statuses := map[string]int{}
	for _, item := range items {
		statuses[item.Path] = item.Status
		if item.UserID != "user-42" || item.RequestID != "req-test" {
			t.Fatalf("expected user and request id on %s, got %+v", item.Path, item)
		}
	}
	if statuses["/no-such-route"] != http.StatusNotFound || statuses["/users/7"] != http.StatusNotImplemented {
		t.Fatalf("unexpected statuses: %v", statuses)
	}
}

func TestActivityStoreFailureLeavesResponseIntact(t *testing.T) {
	f := newFixture(t, testConfig(), Resources{})
	f.activity.FailWith(errors.New("database unavailable"))

	rr := f.do(t, http.MethodGet, "/")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 despite activity failure, got %d", rr.Code)
	}
	decodeEnvelope(t, rr)
}

func TestHealthReportsFailingCheck(t *testing.T) {
	f := newFixture(t, testConfig(), Resources{
		Checks: []httpserver.HealthCheck{
			{Name: "postgres", Check: func(context.Context) error { return nil }},
			{Name: "cache", Check: func(context.Context) error { return errors.New("connection refused") }},
		},
	})

	rr := f.do(t, http.MethodGet, "/healthz")
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rr.Code)
	}
	envelope := decodeEnvelope(t, rr)
	if envelope.Error == nil || envelope.Error.Code != "unhealthy" || !strings.Contains(envelope.Error.Message, "cache") {
		t.Fatalf("unexpected health envelope: %+v", envelope.Error)
	}
}

func TestSchemaSyncDisabledSkipsMigrate(t *testing.T) {
	called := false
	cfg := testConfig()
	cfg.Database.AutoMigrate = false
	newFixture(t, cfg, Resources{
		Migrate: func(context.Context, ...any) error {
			called = true
			return nil
		},
	})
	if called {
		t.Fatalf("expected no schema sync when disabled")
	}
}

func TestSchemaSyncReceivesEveryModuleModel(t *testing.T) {
	var tables []string
	cfg := testConfig()
	cfg.Database.AutoMigrate = true
	newFixture(t, cfg, Resources{
		Migrate: func(_ context.Context, models ...any) error {
			for _, model := range models {
				if tabler, ok := model.(interface{ TableName() string }); ok {
					tables = append(tables, tabler.TableName())
				}
			}
			return nil
		},
	})
	if strings.Join(tables, ",") != "activity_logs,public_capsules" {
		t.Fatalf("unexpected synced tables: %v", tables)
	}
}

func TestSchemaSyncFailureAbortsBoot(t *testing.T) {
	cfg := testConfig()
	cfg.Database.AutoMigrate = true
	_, err := Assemble(context.Background(), cfg, logging.Discard(), Resources{
		Activity: activitymemory.NewStore(),
		Capsules: capsulememory.NewStore(),
		Migrate:  func(context.Context, ...any) error { return errors.New("permission denied for schema public") },
	})
	if err == nil || !strings.Contains(err.Error(), "schema sync") {
		t.Fatalf("expected schema sync error, got %v", err)
	}
}

func TestSchemaSyncRejectedInProduction(t *testing.T) {
	cfg := testConfig()
	cfg.Environment = "production"
	cfg.Database.AutoMigrate = true
	_, err := Assemble(context.Background(), cfg, logging.Discard(), Resources{
		Activity: activitymemory.NewStore(),
		Capsules: capsulememory.NewStore(),
		Migrate:  func(context.Context, ...any) error { return nil },
	})
	if !errors.Is(err, config.ErrAutoMigrateInProduction) {
		t.Fatalf("expected production rejection, got %v", err)
	}
}

func TestAssembleRequiresDatabase(t *testing.T) {
	_, err := Assemble(context.Background(), testConfig(), logging.Discard(), Resources{})
	if !errors.Is(err, ErrDatabaseRequired) {
		t.Fatalf("expected database required, got %v", err)
	}
}

func TestRateLimitIsEnveloped(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimit = config.RateLimitConfig{RequestsPerSecond: 0.001, Burst: 1}
	f := newFixture(t, cfg, Resources{})

	if rr := f.do(t, http.MethodGet, "/"); rr.Code != http.StatusOK {
		t.Fatalf("expected first request to pass, got %d", rr.Code)
	}
	rr := f.do(t, http.MethodGet, "/")
	if rr.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rr.Code)
	}
	envelope := decodeEnvelope(t, rr)
	if envelope.Error == nil || envelope.Error.Code != "rate_limited" {
		t.Fatalf("unexpected envelope: %+v", envelope.Error)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	cfg := testConfig()
	cfg.HTTP.Port = "127.0.0.1:0"
	f := newFixture(t, cfg, Resources{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- f.app.Run(ctx) }()
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("expected clean shutdown, got %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatalf("api app did not stop")
	}
	if err := f.app.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}
}

func TestWorkerSweepsUntilCancelled(t *testing.T) {
	store := activitymemory.NewStore()
	cfg := testConfig()
	cfg.Activity.SweepInterval = 10 * time.Millisecond
	worker := assembleWorker(cfg, logging.Discard(), nil, store)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- worker.Run(ctx) }()
	time.Sleep(30 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("expected clean stop, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatalf("worker did not stop")
	}
	if err := worker.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}
}
