package strategy

import (
	"context"
	"fmt"
	"time"

	"github.com/aescanero/dago-adapters/pkg/llm"
	"github.com/aescanero/dago-infer-router/internal/eval/template"
	"github.com/aescanero/dago-infer-router/internal/inference"
	"github.com/aescanero/dago-libs/pkg/domain"
	"github.com/aescanero/dago-libs/pkg/ports"
	"go.uber.org/zap"
)

// DefaultPromptTemplate asks the model to classify a sensor reading
const DefaultPromptTemplate = "Classify the reading of sensor {{sensor_id}} with features [{{join features \", \"}}]. Answer with one word."

// RemoteConfig configures a model-backed strategy
type RemoteConfig struct {
	Model          string
	PromptTemplate string
	MaxTokens      int
	Timeout        time.Duration
}

// Remote runs inference through an LLM provider
type Remote struct {
	client         ports.LLMClient
	templateEngine *template.Engine
	config         RemoteConfig
	logger         *zap.Logger
}

// NewLLMClient initializes the LLM client using dago-adapters
func NewLLMClient(provider, apiKey string, logger *zap.Logger) (ports.LLMClient, error) {
	client, err := llm.NewClient(&llm.Config{
		Provider: provider,
		APIKey:   apiKey,
		Logger:   logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create llm client: %w", err)
	}
	return client, nil
}

// NewRemote creates a remote strategy
func NewRemote(client ports.LLMClient, cfg RemoteConfig, logger *zap.Logger) (*Remote, error) {
	if client == nil {
		return nil, fmt.Errorf("llm client not configured")
	}
	if cfg.PromptTemplate == "" {
		cfg.PromptTemplate = DefaultPromptTemplate
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 16
	}

	engine := template.NewEngine()
	if err := engine.ValidateTemplate(cfg.PromptTemplate); err != nil {
		return nil, fmt.Errorf("invalid prompt template: %w", err)
	}

	return &Remote{
		client:         client,
		templateEngine: engine,
		config:         cfg,
		logger:         logger,
	}, nil
}

// Name returns the backend name
func (r *Remote) Name() string {
	return "llm"
}

// Run sends the job to the model and returns the round-trip duration
func (r *Remote) Run(ctx context.Context, job *inference.Job) (time.Duration, error) {
	start := time.Now()

	prompt, err := r.renderPrompt(job)
	if err != nil {
		return time.Since(start), err
	}

	if r.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.config.Timeout)
		defer cancel()
	}

	req := &domain.LLMRequest{
		Model: r.config.Model,
		Messages: []domain.Message{
			{
				Role:    "user",
				Content: prompt,
			},
		},
		MaxTokens: r.config.MaxTokens,
	}

	respInterface, err := r.client.GenerateCompletion(ctx, req)
	if err != nil {
		return time.Since(start), fmt.Errorf("llm completion failed: %w", err)
	}

	resp, ok := respInterface.(*domain.LLMResponse)
	if !ok {
		return time.Since(start), fmt.Errorf("unexpected response type from LLM: %T", respInterface)
	}

	r.logger.Debug("llm inference completed",
		zap.String("sensor_id", job.SensorID),
		zap.String("response", resp.Content),
	)

	return time.Since(start), nil
}

// renderPrompt renders the prompt template with the job fields
func (r *Remote) renderPrompt(job *inference.Job) (string, error) {
	features := make([]interface{}, len(job.Features))
	for i, f := range job.Features {
		features[i] = f
	}

	prompt, err := r.templateEngine.Render(r.config.PromptTemplate, map[string]interface{}{
		"sensor_id": job.SensorID,
		"timestamp": job.Timestamp,
		"features":  features,
	})
	if err != nil {
		return "", fmt.Errorf("failed to render prompt: %w", err)
	}
	return prompt, nil
}
