// Package router decides how each dequeued job is processed.
//
// The threshold policy is a pure function of the backlog observed right after
// a job was popped:
//
//	decision, duration := router.Select(queueLen, 5)
//
// A backlog strictly greater than the threshold selects Fast (degraded mode,
// 0.5s); anything else selects Accurate (nominal mode, 2s).
//
// Router wraps the policy and can optionally delegate the degraded-mode test to
// a CEL rule over queue and threshold:
//
//	r, err := router.NewRouter(5, "queue > threshold * 2", logger)
//	result := r.Route(ctx, queueLen)
//
// If the rule fails at runtime the threshold policy decides.
package router
