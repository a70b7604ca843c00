// Package worker implements the adaptive router worker and its health server.
//
// The worker is the single consumer of the work queue. For every job it pops,
// it reads the remaining backlog, lets the router choose the fast or accurate
// strategy, runs that strategy, and appends a result record carrying the
// model used, the end-to-end latency and the backlog it saw.
//
// Example usage:
//
//	w, err := worker.NewWorker(cfg, st, st, routerInstance, strategies, publisher, m, logger)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	ctx, cancel := context.WithCancel(context.Background())
//	w.Start(ctx)
//	...
//	cancel()
//	waitCtx, stop := context.WithTimeout(context.Background(), 15*time.Second)
//	defer stop()
//	_ = w.Wait(waitCtx)
//
// The worker handles:
//   - Bounded blocking pops so cancellation is observed within BLOCK_TIME
//   - Skipping malformed jobs
//   - Retrying store failures with exponential backoff
//   - Finishing an in-flight job during shutdown
//
// Health checks and Prometheus metrics are served separately:
//
//	healthServer := worker.NewHealthServer(8082, st, w, m.Handler(), logger)
//	healthServer.Start()
//	defer healthServer.Stop(ctx)
package worker
