package worker

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aescanero/dago-infer-router/internal/metrics"
	"github.com/aescanero/dago-infer-router/internal/store"
	"go.uber.org/zap"
)

type downPinger struct{}

func (downPinger) Ping(ctx context.Context) error { return errors.New("connection refused") }

func get(t *testing.T, h http.Handler, path string) (int, HealthResponse) {
	t.Helper()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

	var resp HealthResponse
	if path != "/metrics" {
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatalf("decode %s: %v", path, err)
		}
	}
	return rec.Code, resp
}

func TestHealthServerReadiness(t *testing.T) {
	st := store.NewMemory(0)
	h := newHarness(t, st, nil)
	m := metrics.New()
	hs := NewHealthServer(0, st, h.worker, m.Handler(), zap.NewNop())
	handler := hs.Handler()

	if code, _ := get(t, handler, "/ready"); code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 before worker starts, got %d", code)
	}

	h.start(t)
	deadline := time.Now().Add(time.Second)
	for !h.worker.Running() && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}

	code, resp := get(t, handler, "/ready")
	if code != http.StatusOK || resp.Status != "ready" {
		t.Fatalf("expected ready, got %d %+v", code, resp)
	}

	code, resp = get(t, handler, "/health")
	if code != http.StatusOK || resp.Checks["worker"] != "running" || resp.Checks["store"] != "healthy" {
		t.Fatalf("unexpected health: %d %+v", code, resp)
	}

	if code, _ := get(t, handler, "/metrics"); code != http.StatusOK {
		t.Fatalf("expected metrics endpoint, got %d", code)
	}
}

func TestHealthServerStoreDown(t *testing.T) {
	hs := NewHealthServer(0, downPinger{}, nil, nil, zap.NewNop())
	handler := hs.Handler()

	code, resp := get(t, handler, "/health")
	if code != http.StatusServiceUnavailable || resp.Status != "unhealthy" {
		t.Fatalf("expected unhealthy, got %d %+v", code, resp)
	}

	if code, _ := get(t, handler, "/ready"); code != http.StatusServiceUnavailable {
		t.Fatalf("expected not ready, got %d", code)
	}
}
