package main

import (
	"errors"
	"testing"
	"time"

	"github.com/aescanero/dago-infer-router/internal/config"
	"github.com/aescanero/dago-infer-router/internal/router"
	"go.uber.org/zap"
)

func TestInitStrategiesSimulated(t *testing.T) {
	cfg := &config.Config{
		FastDuration:     time.Millisecond,
		AccurateDuration: 2 * time.Millisecond,
		AccurateBackend:  "simulated",
	}

	strategies, err := initStrategies(cfg, zap.NewNop())
	if err != nil {
		t.Fatalf("init strategies: %v", err)
	}
	if strategies[router.Fast] == nil || strategies[router.Accurate] == nil {
		t.Fatalf("expected both strategies, got %v", strategies)
	}
}

func TestInitStrategiesUnknownProvider(t *testing.T) {
	cfg := &config.Config{
		FastDuration:     time.Millisecond,
		AccurateDuration: 2 * time.Millisecond,
		AccurateBackend:  "llm",
		LLMProvider:      "nope",
		LLMAPIKey:        "key",
	}

	_, err := initStrategies(cfg, zap.NewNop())
	var cfgErr *config.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigError, got %v", err)
	}
}
