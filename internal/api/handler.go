package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/aescanero/dago-infer-router/internal/inference"
	"github.com/aescanero/dago-infer-router/internal/metrics"
	"github.com/aescanero/dago-infer-router/internal/store"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// maxBodyBytes bounds the size of a submitted job
const maxBodyBytes = 1 << 20

// Handler serves the ingress and egress endpoints
type Handler struct {
	queue   store.WorkQueue
	results store.ResultLog
	limit   int64
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewHandler creates a new handler. limit is the number of records returned
// by GET /results.
func NewHandler(queue store.WorkQueue, results store.ResultLog, limit int64, m *metrics.Metrics, logger *zap.Logger) *Handler {
	return &Handler{
		queue:   queue,
		results: results,
		limit:   limit,
		metrics: m,
		logger:  logger,
	}
}

// Router returns the HTTP routes
func (h *Handler) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(h.instrument)

	r.HandleFunc("/", h.Root).Methods(http.MethodGet)
	r.HandleFunc("/health", h.Health).Methods(http.MethodGet)
	r.HandleFunc("/results", h.Results).Methods(http.MethodGet)
	r.HandleFunc("/data", h.SubmitJob).Methods(http.MethodPost)

	return r
}

// Root handles GET /
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	toJSON(w, http.StatusOK, map[string]string{"message": "Welcome to Infer Router API"})
}

// Health handles GET /health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	toJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// SubmitJob handles POST /data
func (h *Handler) SubmitJob(w http.ResponseWriter, r *http.Request) {
	var job inference.Job
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&job); err != nil {
		toJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	if job.Timestamp == 0 {
		job.Timestamp = inference.Seconds(time.Now())
	}
	if err := job.Validate(); err != nil {
		toJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if job.Features == nil {
		job.Features = []float64{}
	}

	data, err := inference.EncodeJob(&job)
	if err != nil {
		toJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	if err := h.queue.Push(r.Context(), data); err != nil {
		h.logger.Error("failed to queue job",
			zap.String("sensor_id", job.SensorID),
			zap.Error(err),
		)
		toJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "queue unavailable"})
		return
	}

	h.metrics.JobsQueued.Inc()
	h.logger.Info("job queued", zap.String("sensor_id", job.SensorID))

	toJSON(w, http.StatusOK, map[string]string{"status": "queued"})
}

// Results handles GET /results
func (h *Handler) Results(w http.ResponseWriter, r *http.Request) {
	raw, err := h.results.Recent(r.Context(), h.limit)
	if err != nil {
		h.logger.Error("failed to read results", zap.Error(err))
		toJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "results unavailable"})
		return
	}

	results := make([]*inference.ResultRecord, 0, len(raw))
	for _, entry := range raw {
		rec, err := inference.DecodeRecord(entry)
		if err != nil {
			h.logger.Warn("skipping unreadable result record", zap.Error(err))
			continue
		}
		results = append(results, rec)
	}

	toJSON(w, http.StatusOK, map[string]interface{}{"latest_results": results})
}

// instrument records request counts and durations per route
func (h *Handler) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(sw, r)

		endpoint := r.URL.Path
		if route := mux.CurrentRoute(r); route != nil {
			if tmpl, err := route.GetPathTemplate(); err == nil {
				endpoint = tmpl
			}
		}

		h.metrics.RequestDuration.WithLabelValues(r.Method, endpoint).Observe(time.Since(start).Seconds())
		h.metrics.RequestsTotal.WithLabelValues(r.Method, endpoint, strconv.Itoa(sw.status)).Inc()
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (sw *statusWriter) WriteHeader(code int) {
	sw.status = code
	sw.ResponseWriter.WriteHeader(code)
}

func toJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
