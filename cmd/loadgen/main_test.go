package main

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/aescanero/dago-infer-router/internal/inference"
	"go.uber.org/zap"
)

func TestSendPostsJobs(t *testing.T) {
	var received atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		if _, err := inference.DecodeJob(body); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		received.Add(1)
	}))
	defer srv.Close()

	sent := send(context.Background(), srv.Client(), srv.URL, 5, 0, zap.NewNop())
	if sent != 5 || received.Load() != 5 {
		t.Fatalf("expected 5 jobs sent and received, got %d/%d", sent, received.Load())
	}
}

func TestSendCountsFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	if sent := send(context.Background(), srv.Client(), srv.URL, 3, 0, zap.NewNop()); sent != 0 {
		t.Fatalf("expected no accepted jobs, got %d", sent)
	}
}
