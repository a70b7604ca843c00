package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds all configuration for the inference router
type Config struct {
	// Worker configuration
	WorkerID string `env:"WORKER_ID" envDefault:"infer-router-1"`

	// Store configuration
	StoreBackend  string `env:"STORE_BACKEND" envDefault:"redis"`
	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASS" envDefault:""`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	// Queue configuration
	QueueKey         string        `env:"QUEUE_KEY" envDefault:"inference_queue"`
	ResultsKey       string        `env:"RESULTS_KEY" envDefault:"inference_results"`
	ResultsLimit     int64         `env:"RESULTS_LIMIT" envDefault:"10"`
	ResultsRetention int64         `env:"RESULTS_RETENTION" envDefault:"0"`
	BlockTime        time.Duration `env:"BLOCK_TIME" envDefault:"1s"`

	// Routing configuration
	QueueThreshold   int64         `env:"QUEUE_THRESHOLD" envDefault:"5"`
	RoutingRule      string        `env:"ROUTING_RULE" envDefault:""`
	FastDuration     time.Duration `env:"FAST_DURATION" envDefault:"500ms"`
	AccurateDuration time.Duration `env:"ACCURATE_DURATION" envDefault:"2s"`
	AccurateBackend  string        `env:"ACCURATE_BACKEND" envDefault:"simulated"`

	// Retry configuration
	RetryMinBackoff time.Duration `env:"RETRY_MIN_BACKOFF" envDefault:"100ms"`
	RetryMaxBackoff time.Duration `env:"RETRY_MAX_BACKOFF" envDefault:"5s"`
	DrainTimeout    time.Duration `env:"DRAIN_TIMEOUT" envDefault:"10s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"15s"`

	// Observability configuration
	EventTemplate     string `env:"EVENT_TEMPLATE" envDefault:"[{{model}}] latency={{latency}} queue={{queue}}"`
	EventStream       string `env:"EVENT_STREAM" envDefault:""`
	EventStreamMaxLen int64  `env:"EVENT_STREAM_MAXLEN" envDefault:"10000"`

	// LLM configuration
	LLMProvider       string        `env:"LLM_PROVIDER" envDefault:"anthropic"`
	LLMAPIKey         string        `env:"LLM_API_KEY"`
	LLMModel          string        `env:"LLM_MODEL" envDefault:"claude-sonnet-4-20250514"`
	LLMTimeout        time.Duration `env:"LLM_TIMEOUT" envDefault:"30s"`
	LLMPromptTemplate string        `env:"LLM_PROMPT_TEMPLATE" envDefault:""`

	// HTTP configuration
	HTTPPort   int `env:"HTTP_PORT" envDefault:"8000"`
	HealthPort int `env:"HEALTH_PORT" envDefault:"8082"`

	// Logging configuration
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// ConfigError reports invalid configuration. It is fatal at startup.
type ConfigError struct {
	Err error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid config: %v", e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, &ConfigError{Err: fmt.Errorf("failed to parse config: %w", err)}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := c.validate(); err != nil {
		return &ConfigError{Err: err}
	}
	return nil
}

func (c *Config) validate() error {
	if c.WorkerID == "" {
		return fmt.Errorf("WORKER_ID is required")
	}

	switch c.StoreBackend {
	case "redis":
		if c.RedisAddr == "" {
			return fmt.Errorf("REDIS_ADDR is required")
		}
	case "memory":
		if c.EventStream != "" {
			return fmt.Errorf("EVENT_STREAM requires the redis store backend")
		}
	default:
		return fmt.Errorf("STORE_BACKEND must be one of: redis, memory")
	}

	if c.QueueKey == "" {
		return fmt.Errorf("QUEUE_KEY is required")
	}

	if c.ResultsKey == "" {
		return fmt.Errorf("RESULTS_KEY is required")
	}

	if c.QueueKey == c.ResultsKey {
		return fmt.Errorf("QUEUE_KEY and RESULTS_KEY must differ")
	}

	if c.ResultsLimit <= 0 {
		return fmt.Errorf("RESULTS_LIMIT must be positive")
	}

	if c.ResultsRetention < 0 {
		return fmt.Errorf("RESULTS_RETENTION must be non-negative")
	}

	if c.BlockTime <= 0 {
		return fmt.Errorf("BLOCK_TIME must be positive")
	}

	if c.QueueThreshold < 0 {
		return fmt.Errorf("QUEUE_THRESHOLD must be non-negative")
	}

	if c.FastDuration < 0 || c.AccurateDuration < 0 {
		return fmt.Errorf("FAST_DURATION and ACCURATE_DURATION must be non-negative")
	}

	switch c.AccurateBackend {
	case "simulated":
	case "llm":
		if c.LLMAPIKey == "" {
			return fmt.Errorf("LLM_API_KEY is required when ACCURATE_BACKEND=llm")
		}
		if c.LLMProvider == "" {
			return fmt.Errorf("LLM_PROVIDER is required")
		}
		if c.LLMModel == "" {
			return fmt.Errorf("LLM_MODEL is required")
		}
		if c.LLMTimeout <= 0 {
			return fmt.Errorf("LLM_TIMEOUT must be positive")
		}
	default:
		return fmt.Errorf("ACCURATE_BACKEND must be one of: simulated, llm")
	}

	if c.RetryMinBackoff <= 0 {
		return fmt.Errorf("RETRY_MIN_BACKOFF must be positive")
	}

	if c.RetryMaxBackoff < c.RetryMinBackoff {
		return fmt.Errorf("RETRY_MAX_BACKOFF must not be lower than RETRY_MIN_BACKOFF")
	}

	if c.DrainTimeout <= 0 {
		return fmt.Errorf("DRAIN_TIMEOUT must be positive")
	}

	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("SHUTDOWN_TIMEOUT must be positive")
	}

	if c.EventTemplate == "" {
		return fmt.Errorf("EVENT_TEMPLATE is required")
	}

	if c.HTTPPort <= 0 || c.HTTPPort > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}

	if c.HealthPort <= 0 || c.HealthPort > 65535 {
		return fmt.Errorf("HEALTH_PORT must be between 1 and 65535")
	}

	if c.HTTPPort == c.HealthPort {
		return fmt.Errorf("HTTP_PORT and HEALTH_PORT must differ")
	}

	if !isValidLogLevel(c.LogLevel) {
		return fmt.Errorf("LOG_LEVEL must be one of: debug, info, warn, error")
	}

	return nil
}

// isValidLogLevel checks if the log level is valid
func isValidLogLevel(level string) bool {
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	return validLevels[level]
}

// String returns a string representation of the config (without sensitive data)
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{WorkerID=%s, StoreBackend=%s, RedisAddr=%s, RedisDB=%d, QueueKey=%s, ResultsKey=%s, "+
			"QueueThreshold=%d, RoutingRule=%q, FastDuration=%s, AccurateDuration=%s, AccurateBackend=%s, "+
			"BlockTime=%s, EventStream=%s, HTTPPort=%d, HealthPort=%d, LogLevel=%s}",
		c.WorkerID,
		c.StoreBackend,
		c.RedisAddr,
		c.RedisDB,
		c.QueueKey,
		c.ResultsKey,
		c.QueueThreshold,
		c.RoutingRule,
		c.FastDuration,
		c.AccurateDuration,
		c.AccurateBackend,
		c.BlockTime,
		c.EventStream,
		c.HTTPPort,
		c.HealthPort,
		c.LogLevel,
	)
}
