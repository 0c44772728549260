package models

import (
	"time"
)

// Core domain models

// Provider identifiers for the LLM backends GeoLens can query.
const (
	ProviderOpenAI     = "openai"
	ProviderAnthropic  = "anthropic"
	ProviderGoogle     = "google"
	ProviderOllama     = "ollama"
	ProviderPerplexity = "perplexity"
)

// DashboardProviders is the fixed provider set broken out on the dashboard.
// Providers outside this set still aggregate into the global metrics.
var DashboardProviders = []string{ProviderOpenAI, ProviderAnthropic}

// Project represents a monitored brand and its competitive set
type Project struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Brand       string    `json:"brand"` // Brand name searched for in LLM responses
	Competitors []string  `json:"competitors,omitempty"`
	Plan        Plan      `json:"plan"`
	OwnerID     string    `json:"owner_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Prompt represents a prompt sent to LLMs on behalf of a project
type Prompt struct {
	ID        string    `json:"id"`
	ProjectID string    `json:"project_id"`
	Content   string    `json:"content"`
	Category  string    `json:"category,omitempty"`
	Enabled   bool      `json:"enabled"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LLMConfig represents an LLM provider configuration
type LLMConfig struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Provider  string            `json:"provider"` // openai, anthropic, google, ollama, perplexity
	Model     string            `json:"model"`
	APIKey    string            `json:"api_key,omitempty"`
	BaseURL   string            `json:"base_url,omitempty"`
	Config    map[string]string `json:"config,omitempty"` // Additional provider-specific config
	Enabled   bool              `json:"enabled"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// Schedule represents a scheduler configuration
type Schedule struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	ProjectID string     `json:"project_id"`
	PromptIDs []string   `json:"prompt_ids"`
	LLMIDs    []string   `json:"llm_ids"`
	CronExpr  string     `json:"cron_expr"` // Cron expression for scheduling
	Enabled   bool       `json:"enabled"`
	LastRun   *time.Time `json:"last_run,omitempty"`
	NextRun   *time.Time `json:"next_run,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// ScanRecord represents one prompt execution across a set of LLMs.
// Results carry the brand-mention analysis of each model's response.
type ScanRecord struct {
	ID         string        `json:"id" bson:"_id"`
	ProjectID  string        `json:"project_id" bson:"project_id"`
	PromptID   string        `json:"prompt_id" bson:"prompt_id"`
	ScheduleID string        `json:"schedule_id,omitempty" bson:"schedule_id,omitempty"`
	ExecutedAt time.Time     `json:"executed_at" bson:"executed_at"`
	Results    []ModelResult `json:"results" bson:"results"`
}

// ModelResult holds the brand-mention analysis of a single model's response.
// Position is set only when the brand was cited and its rank in the answer
// could be determined; stored records may violate this and readers must
// tolerate IsCited without a position.
type ModelResult struct {
	Provider           string              `json:"provider" bson:"provider"`
	Model              string              `json:"model" bson:"model"`
	IsCited            bool                `json:"is_cited" bson:"is_cited"`
	Position           *int                `json:"position,omitempty" bson:"position,omitempty"`
	CompetitorMentions []CompetitorMention `json:"competitor_mentions,omitempty" bson:"competitor_mentions,omitempty"`
	ResponseText       string              `json:"response_text,omitempty" bson:"response_text,omitempty"`
	TokensUsed         int                 `json:"tokens_used,omitempty" bson:"tokens_used,omitempty"`
	LatencyMs          int64               `json:"latency_ms,omitempty" bson:"latency_ms,omitempty"`
	Error              string              `json:"error,omitempty" bson:"error,omitempty"`
}

// CompetitorMention records a competitor sighting inside one model response.
// Name is the aggregation key, case-sensitive and unnormalized.
type CompetitorMention struct {
	Name     string   `json:"name" bson:"name"`
	Position int      `json:"position" bson:"position"`
	Keywords []string `json:"keywords,omitempty" bson:"keywords,omitempty"`
}

// ModelInfo represents information about an available model from a provider
type ModelInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}
