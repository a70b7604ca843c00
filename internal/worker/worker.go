package worker

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/aescanero/dago-infer-router/internal/config"
	"github.com/aescanero/dago-infer-router/internal/eval/template"
	"github.com/aescanero/dago-infer-router/internal/events"
	"github.com/aescanero/dago-infer-router/internal/inference"
	"github.com/aescanero/dago-infer-router/internal/metrics"
	"github.com/aescanero/dago-infer-router/internal/router"
	"github.com/aescanero/dago-infer-router/internal/store"
	"github.com/aescanero/dago-infer-router/internal/strategy"
	"go.uber.org/zap"
)

// Worker drains the work queue one job at a time
type Worker struct {
	id             string
	queue          store.WorkQueue
	results        store.ResultLog
	router         *router.Router
	strategies     strategy.Set
	publisher      events.Publisher
	templateEngine *template.Engine
	eventTemplate  string
	metrics        *metrics.Metrics
	logger         *zap.Logger
	blockTime      time.Duration
	drainTimeout   time.Duration
	backoff        Backoff
	running        atomic.Bool
	done           chan struct{}
}

// NewWorker creates a new worker
func NewWorker(
	cfg *config.Config,
	queue store.WorkQueue,
	results store.ResultLog,
	routerInstance *router.Router,
	strategies strategy.Set,
	publisher events.Publisher,
	m *metrics.Metrics,
	logger *zap.Logger,
) (*Worker, error) {
	for _, d := range []router.Decision{router.Fast, router.Accurate} {
		if strategies[d] == nil {
			return nil, fmt.Errorf("no strategy configured for %s", d)
		}
	}

	engine := template.NewEngine()
	if err := engine.ValidateTemplate(cfg.EventTemplate); err != nil {
		return nil, fmt.Errorf("invalid event template: %w", err)
	}

	if publisher == nil {
		publisher = events.Nop{}
	}

	return &Worker{
		id:             cfg.WorkerID,
		queue:          queue,
		results:        results,
		router:         routerInstance,
		strategies:     strategies,
		publisher:      publisher,
		templateEngine: engine,
		eventTemplate:  cfg.EventTemplate,
		metrics:        m,
		logger:         logger.With(zap.String("worker_id", cfg.WorkerID)),
		blockTime:      cfg.BlockTime,
		drainTimeout:   cfg.DrainTimeout,
		backoff:        Backoff{Min: cfg.RetryMinBackoff, Max: cfg.RetryMaxBackoff},
		done:           make(chan struct{}),
	}, nil
}

// Start runs the processing loop in the background until ctx is cancelled
func (w *Worker) Start(ctx context.Context) {
	w.logger.Info("starting router worker",
		zap.Int64("threshold", w.router.Threshold()),
		zap.Duration("block_time", w.blockTime),
	)

	go func() {
		defer close(w.done)
		w.Run(ctx)
	}()
}

// Done is closed once a loop started with Start has exited
func (w *Worker) Done() <-chan struct{} {
	return w.done
}

// Wait blocks until the loop has exited or ctx expires
func (w *Worker) Wait(ctx context.Context) error {
	select {
	case <-w.done:
		w.logger.Info("router worker stopped")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("worker did not stop in time: %w", ctx.Err())
	}
}

// Running reports whether the processing loop is active
func (w *Worker) Running() bool {
	return w.running.Load()
}

// Run processes jobs until ctx is cancelled. A job already dequeued when ctx
// is cancelled is still completed and recorded.
func (w *Worker) Run(ctx context.Context) {
	w.running.Store(true)
	defer w.running.Store(false)

	w.logger.Info("work processing loop started")

	failures := 0
	for {
		if ctx.Err() != nil {
			w.logger.Info("work processing loop stopped")
			return
		}

		payload, err := w.queue.Pop(ctx, w.blockTime)
		if err != nil {
			if errors.Is(err, store.ErrEmpty) || ctx.Err() != nil {
				continue
			}

			delay := w.backoff.Delay(failures)
			failures++
			w.metrics.StoreErrors.WithLabelValues("pop").Inc()
			w.logger.Error("failed to pop job",
				zap.Int("attempt", failures),
				zap.Duration("retry_in", delay),
				zap.Error(err),
			)
			_ = sleepContext(ctx, delay)
			continue
		}
		failures = 0

		w.handlePayload(ctx, payload)
	}
}

// handlePayload turns one dequeued payload into a result record
func (w *Worker) handlePayload(ctx context.Context, payload []byte) {
	job, err := inference.DecodeJob(payload)
	if err != nil {
		w.metrics.DecodeErrors.Inc()
		w.logger.Error("skipping malformed job",
			zap.ByteString("payload", truncate(payload, 256)),
			zap.Error(err),
		)
		return
	}

	drainCtx, cancel := w.drainContext(ctx)
	defer cancel()

	var queueLen int64
	err = w.retry(drainCtx, "len", func(ctx context.Context) error {
		var lenErr error
		queueLen, lenErr = w.queue.Len(ctx)
		return lenErr
	})
	if err != nil {
		w.recordLost(job, "failed to read queue length", err)
		return
	}

	rec, routing, backend := w.process(drainCtx, job, queueLen)

	data, err := inference.EncodeRecord(rec)
	if err != nil {
		w.recordLost(job, "failed to encode result record", err)
		return
	}

	err = w.retry(drainCtx, "append", func(ctx context.Context) error {
		return w.results.Append(ctx, data)
	})
	if err != nil {
		w.recordLost(job, "failed to append result record", err)
		return
	}

	w.metrics.JobsProcessed.WithLabelValues(rec.Model).Inc()
	w.metrics.JobLatency.WithLabelValues(rec.Model).Observe(rec.Latency)

	w.emit(drainCtx, rec, routing, backend)
}

// process routes the job, runs the selected strategy and builds the record
func (w *Worker) process(ctx context.Context, job *inference.Job, queueLen int64) (*inference.ResultRecord, router.RoutingResult, string) {
	w.metrics.QueueDepth.Set(float64(queueLen))

	routing := w.router.Route(ctx, queueLen)
	strat := w.strategies[routing.Decision]

	took, err := strat.Run(ctx, job)
	if err != nil {
		// the record is still written so the job is accounted for
		w.metrics.StrategyErrors.WithLabelValues(string(routing.Decision)).Inc()
		w.logger.Warn("strategy failed",
			zap.String("sensor_id", job.SensorID),
			zap.String("model", string(routing.Decision)),
			zap.String("backend", strat.Name()),
			zap.Duration("took", took),
			zap.Error(err),
		)
	}

	latency := time.Since(job.SubmittedAt()).Seconds()

	return &inference.ResultRecord{
		SensorID:     job.SensorID,
		Model:        string(routing.Decision),
		Latency:      latency,
		QueueAtStart: queueLen,
	}, routing, strat.Name()
}

// emit logs the per-job event line and publishes the event
func (w *Worker) emit(ctx context.Context, rec *inference.ResultRecord, routing router.RoutingResult, backend string) {
	line, err := w.templateEngine.Render(w.eventTemplate, map[string]interface{}{
		"model":     rec.Model,
		"latency":   fmt.Sprintf("%.2f", rec.Latency),
		"queue":     rec.QueueAtStart,
		"sensor_id": rec.SensorID,
		"mode":      string(routing.Mode),
		"backend":   backend,
	})
	if err != nil {
		line = fmt.Sprintf("[%s] latency=%.2f queue=%d", rec.Model, rec.Latency, rec.QueueAtStart)
	}

	w.logger.Info(line,
		zap.String("sensor_id", rec.SensorID),
		zap.String("model", rec.Model),
		zap.Float64("latency", rec.Latency),
		zap.Int64("queue_at_start", rec.QueueAtStart),
		zap.String("mode", string(routing.Mode)),
	)

	if err := w.publisher.Publish(ctx, events.NewEvent(w.id, rec, string(routing.Mode), backend)); err != nil {
		w.logger.Warn("failed to publish event",
			zap.String("sensor_id", rec.SensorID),
			zap.Error(err),
		)
	}
}

// recordLost reports a dequeued job that produced no record
func (w *Worker) recordLost(job *inference.Job, msg string, err error) {
	w.metrics.RecordsLost.Inc()
	w.logger.Error(msg,
		zap.String("sensor_id", job.SensorID),
		zap.Error(err),
	)
}

// drainContext returns a context that survives cancellation of parent for at
// most drainTimeout, so an in-flight job can finish during shutdown.
func (w *Worker) drainContext(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.WithoutCancel(parent))

	stop := context.AfterFunc(parent, func() {
		timer := time.AfterFunc(w.drainTimeout, cancel)
		context.AfterFunc(ctx, func() { timer.Stop() })
	})

	return ctx, func() {
		stop()
		cancel()
	}
}

func truncate(b []byte, n int) []byte {
	if len(b) <= n {
		return b
	}
	return b[:n]
}
