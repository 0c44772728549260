package openai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/AI2HU/geolens/internal/llm"
	"github.com/AI2HU/geolens/internal/models"
)

const defaultModel = "gpt-4o-mini"

// Provider implements the LLM Provider interface for OpenAI
type Provider struct {
	apiKey  string
	baseURL string
	client  openai.Client
}

// New creates a new OpenAI provider
func New(apiKey, baseURL string) *Provider {
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}

	return &Provider{
		apiKey:  apiKey,
		baseURL: baseURL,
		client:  openai.NewClient(opts...),
	}
}

// Name returns the provider name
func (p *Provider) Name() string {
	return "openai"
}

// Validate validates the provider configuration
func (p *Provider) Validate(config map[string]string) error {
	if config["api_key"] == "" {
		return fmt.Errorf("api_key is required")
	}
	return nil
}

// Generate sends a prompt to OpenAI and returns the response
func (p *Provider) Generate(ctx context.Context, prompt string, config llm.Config) (*llm.Response, error) {
	startTime := time.Now()

	model := defaultModel
	if config.Model != "" {
		model = config.Model
	}

	completion, err := p.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		Temperature: openai.Float(config.Temperature),
		MaxTokens:   openai.Int(int64(config.MaxTokens)),
	})
	if err != nil {
		return &llm.Response{
			Error:     err.Error(),
			LatencyMs: time.Since(startTime).Milliseconds(),
			Provider:  "openai",
		}, nil
	}

	if len(completion.Choices) == 0 {
		return &llm.Response{
			Error:     "no choices returned from API",
			LatencyMs: time.Since(startTime).Milliseconds(),
			Provider:  "openai",
		}, nil
	}

	return &llm.Response{
		Text:       completion.Choices[0].Message.Content,
		TokensUsed: int(completion.Usage.TotalTokens),
		LatencyMs:  time.Since(startTime).Milliseconds(),
		Model:      completion.Model,
		Provider:   "openai",
	}, nil
}

// ListModels lists available text-to-text models from OpenAI
func (p *Provider) ListModels(ctx context.Context, apiKey, baseURL string) ([]models.ModelInfo, error) {
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	client := openai.NewClient(opts...)

	var textModels []models.ModelInfo
	seen := make(map[string]bool)

	iter := client.Models.ListAutoPaging(ctx)
	for iter.Next() {
		model := iter.Current()
		modelID := strings.ToLower(model.ID)

		// Only chat-capable GPT models; skip fine-tunes, embeddings,
		// image, and audio variants.
		if !strings.HasPrefix(modelID, "gpt-") || seen[model.ID] {
			continue
		}
		if strings.Contains(model.ID, ":") {
			continue
		}
		if strings.Contains(modelID, "embed") || strings.Contains(modelID, "embedding") {
			continue
		}
		if strings.Contains(modelID, "vision") || strings.Contains(modelID, "image") {
			continue
		}
		if strings.Contains(modelID, "whisper") || strings.Contains(modelID, "audio") {
			continue
		}

		textModels = append(textModels, models.ModelInfo{
			ID:          model.ID,
			Name:        model.ID,
			Description: fmt.Sprintf("OpenAI %s", model.ID),
		})
		seen[model.ID] = true
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to list models: %w", err)
	}

	return textModels, nil
}
