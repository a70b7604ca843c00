package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"math/rand/v2"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aescanero/dago-infer-router/internal/inference"
	"go.uber.org/zap"
)

func main() {
	count := flag.Int("count", 10, "Number of requests to send")
	url := flag.String("url", "http://localhost:8000/data", "Target URL")
	interval := flag.Duration("interval", 0, "Pause between requests")
	flag.Parse()

	logger, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sent := send(ctx, &http.Client{Timeout: 5 * time.Second}, *url, *count, *interval, logger)

	logger.Info("done", zap.Int("sent", sent), zap.Int("requested", *count))
	if sent != *count {
		os.Exit(1)
	}
}

// send posts count random jobs to url and returns how many were accepted
func send(ctx context.Context, client *http.Client, url string, count int, interval time.Duration, logger *zap.Logger) int {
	logger.Info("sending requests", zap.Int("count", count), zap.String("url", url))

	sent := 0
	for i := 0; i < count; i++ {
		if ctx.Err() != nil {
			break
		}

		if err := post(ctx, client, url, randomJob()); err != nil {
			logger.Error("request failed", zap.Int("n", i+1), zap.Int("of", count), zap.Error(err))
		} else {
			sent++
			logger.Info("sent", zap.Int("n", i+1), zap.Int("of", count))
		}

		if interval > 0 {
			select {
			case <-time.After(interval):
			case <-ctx.Done():
			}
		}
	}

	return sent
}

func randomJob() *inference.Job {
	return &inference.Job{
		SensorID:  fmt.Sprintf("sensor-%d", rand.IntN(100)+1),
		Timestamp: inference.Seconds(time.Now()),
		Features:  []float64{rand.Float64(), rand.Float64(), rand.Float64()},
	}
}

func post(ctx context.Context, client *http.Client, url string, job *inference.Job) error {
	data, err := inference.EncodeJob(job)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("connection error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return nil
}
