package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/AI2HU/geolens/internal/llm"
	"github.com/AI2HU/geolens/internal/models"
)

const defaultModel = "llama3"

// Provider implements the LLM Provider interface for Ollama
type Provider struct {
	baseURL string
	client  *http.Client
}

// New creates a new Ollama provider
func New(baseURL string) *Provider {
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}

	return &Provider{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

// Name returns the provider name
func (p *Provider) Name() string {
	return "ollama"
}

// Validate validates the provider configuration.
// Ollama needs no API key, just a reachable endpoint.
func (p *Provider) Validate(config map[string]string) error {
	return nil
}

// Generate sends a prompt to Ollama and returns the response
func (p *Provider) Generate(ctx context.Context, prompt string, config llm.Config) (*llm.Response, error) {
	startTime := time.Now()

	model := defaultModel
	if config.Model != "" {
		model = config.Model
	}

	requestBody := map[string]interface{}{
		"model":  model,
		"prompt": prompt,
		"stream": false,
		"options": map[string]interface{}{
			"temperature": config.Temperature,
			"top_p":       config.TopP,
			"top_k":       int(config.TopK),
		},
	}

	jsonBody, err := json.Marshal(requestBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", p.baseURL+"/api/generate", bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return &llm.Response{
			Error:     err.Error(),
			LatencyMs: time.Since(startTime).Milliseconds(),
			Provider:  "ollama",
		}, nil
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return &llm.Response{
			Error:     fmt.Sprintf("API error: %s", string(body)),
			LatencyMs: time.Since(startTime).Milliseconds(),
			Provider:  "ollama",
		}, nil
	}

	var ollamaResp struct {
		Model    string `json:"model"`
		Response string `json:"response"`
		Done     bool   `json:"done"`
		Context  []int  `json:"context"`
	}

	if err := json.Unmarshal(body, &ollamaResp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	// Ollama reports no token usage; the context length is a usable estimate.
	return &llm.Response{
		Text:       ollamaResp.Response,
		TokensUsed: len(ollamaResp.Context),
		LatencyMs:  time.Since(startTime).Milliseconds(),
		Model:      ollamaResp.Model,
		Provider:   "ollama",
	}, nil
}

// ListModels lists available models from Ollama
func (p *Provider) ListModels(ctx context.Context, apiKey, baseURL string) ([]models.ModelInfo, error) {
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}

	req, err := http.NewRequestWithContext(ctx, "GET", baseURL+"/api/tags", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to list models: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API error: %s", string(body))
	}

	var listResp struct {
		Models []struct {
			Name string `json:"name"`
			Size int64  `json:"size"`
		} `json:"models"`
	}

	if err := json.Unmarshal(body, &listResp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	var textModels []models.ModelInfo
	for _, model := range listResp.Models {
		modelName := strings.ToLower(model.Name)

		if strings.Contains(modelName, "embed") || strings.Contains(modelName, "embedding") {
			continue
		}
		if strings.Contains(modelName, "vision") || strings.Contains(modelName, "image") || strings.Contains(modelName, "clip") {
			continue
		}

		textModels = append(textModels, models.ModelInfo{
			ID:          model.Name,
			Name:        model.Name,
			Description: fmt.Sprintf("Ollama %s (%.2f GB)", model.Name, float64(model.Size)/(1024*1024*1024)),
		})
	}

	return textModels, nil
}
