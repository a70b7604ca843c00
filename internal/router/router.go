package router

import (
	"context"
	"fmt"

	"github.com/aescanero/dago-infer-router/internal/eval/cel"
	"go.uber.org/zap"
)

// RoutingMode records how a decision was reached
type RoutingMode string

const (
	// ModeThreshold uses the plain threshold policy
	ModeThreshold RoutingMode = "threshold"

	// ModeRule uses the configured CEL routing rule
	ModeRule RoutingMode = "rule"

	// ModeFallback means the rule failed and the threshold policy decided
	ModeFallback RoutingMode = "fallback"
)

// RoutingResult represents the result of a routing decision
type RoutingResult struct {
	Decision Decision    `json:"decision"`
	Queue    int64       `json:"queue"`
	Mode     RoutingMode `json:"mode"`
}

// Router selects a strategy from the observed queue depth
type Router struct {
	threshold    int64
	rule         string
	celEvaluator *cel.Evaluator
	logger       *zap.Logger
}

// NewRouter creates a new router. An empty rule routes with the threshold
// policy alone; otherwise the rule is compiled and checked up front.
func NewRouter(threshold int64, rule string, logger *zap.Logger) (*Router, error) {
	if threshold < 0 {
		return nil, fmt.Errorf("threshold must be non-negative, got %d", threshold)
	}

	r := &Router{
		threshold: threshold,
		rule:      rule,
		logger:    logger,
	}

	if rule != "" {
		r.celEvaluator = cel.NewEvaluator()
		if err := r.celEvaluator.ValidateExpression(rule); err != nil {
			return nil, fmt.Errorf("invalid routing rule %q: %w", rule, err)
		}
	}

	return r, nil
}

// Threshold returns the configured threshold
func (r *Router) Threshold() int64 {
	return r.threshold
}

// Route picks the strategy for a job given the backlog left after popping it
func (r *Router) Route(ctx context.Context, queue int64) RoutingResult {
	if r.rule == "" {
		decision, _ := Select(queue, r.threshold)
		return RoutingResult{Decision: decision, Queue: queue, Mode: ModeThreshold}
	}

	degraded, err := r.celEvaluator.EvaluateBool(ctx, r.rule, map[string]interface{}{
		"queue":     queue,
		"threshold": r.threshold,
	})
	if err != nil {
		r.logger.Warn("routing rule evaluation error, using threshold policy",
			zap.String("rule", r.rule),
			zap.Int64("queue", queue),
			zap.Error(err),
		)
		decision, _ := Select(queue, r.threshold)
		return RoutingResult{Decision: decision, Queue: queue, Mode: ModeFallback}
	}

	r.logger.Debug("routing rule evaluated",
		zap.String("rule", r.rule),
		zap.Int64("queue", queue),
		zap.Bool("degraded", degraded),
	)

	if degraded {
		return RoutingResult{Decision: Fast, Queue: queue, Mode: ModeRule}
	}
	return RoutingResult{Decision: Accurate, Queue: queue, Mode: ModeRule}
}
