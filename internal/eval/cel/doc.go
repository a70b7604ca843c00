// Package cel provides a CEL (Common Expression Language) evaluator for
// load-based routing rules.
//
// Rules see two integer variables: queue, the backlog observed after a job was
// popped, and threshold, the configured degraded-mode cutoff. A rule that
// evaluates to true sends the job to the fast strategy.
//
// Example usage:
//
//	evaluator := cel.NewEvaluator()
//
//	degraded, err := evaluator.EvaluateBool(ctx, "queue > threshold * 2", map[string]interface{}{
//	    "queue":     int64(12),
//	    "threshold": int64(5),
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	// degraded == true
//
// Compiled programs are cached by expression text.
package cel
