package llm

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/AI2HU/geolens/internal/models"
)

// Config carries the per-request generation parameters resolved from a
// stored LLM configuration.
type Config struct {
	Model       string
	Temperature float64
	TopP        float64
	TopK        float64
	MaxTokens   int
}

// DefaultConfig returns the generation parameters used when a stored
// configuration does not override them.
func DefaultConfig() Config {
	return Config{
		Temperature: 0.7,
		TopP:        0.9,
		TopK:        40,
		MaxTokens:   1000,
	}
}

// Response is the normalized result of a single generation call. Provider
// failures that produced no HTTP-level error are reported through Error so
// the scheduler can record them without aborting the scan.
type Response struct {
	Text       string
	TokensUsed int
	LatencyMs  int64
	Model      string
	Provider   string
	Error      string
}

// Provider is implemented by each LLM backend
type Provider interface {
	// Name returns the provider identifier (openai, anthropic, ...)
	Name() string
	// Validate checks that the provider-specific config is usable
	Validate(config map[string]string) error
	// Generate sends a prompt and returns the normalized response
	Generate(ctx context.Context, prompt string, config Config) (*Response, error)
	// ListModels lists the text-to-text models the provider exposes
	ListModels(ctx context.Context, apiKey, baseURL string) ([]models.ModelInfo, error)
}

// Registry holds the registered providers
type Registry struct {
	mu        sync.RWMutex
	providers map[string]Provider
}

// NewRegistry creates an empty provider registry
func NewRegistry() *Registry {
	return &Registry{
		providers: make(map[string]Provider),
	}
}

// Register adds a provider to the registry, replacing any previous
// provider with the same name.
func (r *Registry) Register(provider Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[provider.Name()] = provider
}

// Get returns the provider registered under name
func (r *Registry) Get(name string) (Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	provider, ok := r.providers[name]
	if !ok {
		return nil, fmt.Errorf("unknown LLM provider: %s", name)
	}
	return provider, nil
}

// List returns the registered provider names in sorted order
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ConfigFor resolves the generation parameters for a stored LLM
// configuration, starting from the defaults.
func ConfigFor(llmConfig *models.LLMConfig) Config {
	config := DefaultConfig()
	config.Model = llmConfig.Model
	return config
}
