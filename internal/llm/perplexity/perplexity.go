package perplexity

import (
	"context"
	"fmt"
	"time"

	pplx "github.com/sgaunet/perplexity-go/v2"

	"github.com/AI2HU/geolens/internal/llm"
	"github.com/AI2HU/geolens/internal/models"
)

const defaultModel = "sonar"

// Provider implements the LLM Provider interface for Perplexity
type Provider struct {
	apiKey string
	client *pplx.Client
}

// New creates a new Perplexity provider
func New(apiKey string) *Provider {
	return &Provider{
		apiKey: apiKey,
		client: pplx.NewClient(apiKey),
	}
}

// Name returns the provider name
func (p *Provider) Name() string {
	return "perplexity"
}

// Validate validates the provider configuration
func (p *Provider) Validate(config map[string]string) error {
	if config["api_key"] == "" {
		return fmt.Errorf("api_key is required")
	}
	return nil
}

// Generate sends a prompt to Perplexity and returns the response
func (p *Provider) Generate(ctx context.Context, prompt string, config llm.Config) (*llm.Response, error) {
	startTime := time.Now()

	model := defaultModel
	if config.Model != "" {
		model = config.Model
	}

	messages := pplx.NewMessages()
	if err := messages.AddUserMessage(prompt); err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	req := pplx.NewCompletionRequest(
		pplx.WithMessages(messages.GetMessages()),
		pplx.WithModel(model),
		pplx.WithTemperature(config.Temperature),
		pplx.WithMaxTokens(config.MaxTokens),
	)
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("invalid completion request: %w", err)
	}

	res, err := p.client.SendCompletionRequest(req)
	if err != nil {
		return &llm.Response{
			Error:     err.Error(),
			LatencyMs: time.Since(startTime).Milliseconds(),
			Provider:  "perplexity",
		}, nil
	}

	return &llm.Response{
		Text:       res.GetLastContent(),
		TokensUsed: res.Usage.TotalTokens,
		LatencyMs:  time.Since(startTime).Milliseconds(),
		Model:      model,
		Provider:   "perplexity",
	}, nil
}

// ListModels lists available text-to-text models from Perplexity.
// Perplexity has no public models API, so this is a curated list.
func (p *Provider) ListModels(ctx context.Context, apiKey, baseURL string) ([]models.ModelInfo, error) {
	return []models.ModelInfo{
		{
			ID:          "sonar",
			Name:        "Sonar",
			Description: "Lightweight search-grounded model",
		},
		{
			ID:          "sonar-pro",
			Name:        "Sonar Pro",
			Description: "Advanced search-grounded model for complex queries",
		},
		{
			ID:          "sonar-reasoning",
			Name:        "Sonar Reasoning",
			Description: "Search-grounded model with chain of thought",
		},
	}, nil
}
