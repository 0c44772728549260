package db

import (
	"context"

	"github.com/AI2HU/geolens/internal/models"
)

// SQLDatabase defines the interface for SQL database operations
// (projects, prompts, schedules and LLM configurations)
type SQLDatabase interface {
	// Connection management
	Connect(ctx context.Context) error
	Disconnect(ctx context.Context) error
	Ping(ctx context.Context) error

	// Project operations
	CreateProject(ctx context.Context, project *models.Project) error
	GetProject(ctx context.Context, id string) (*models.Project, error)
	ListProjects(ctx context.Context, ownerID string) ([]*models.Project, error)
	UpdateProject(ctx context.Context, project *models.Project) error
	DeleteProject(ctx context.Context, id string) error

	// Prompt operations
	CreatePrompt(ctx context.Context, prompt *models.Prompt) error
	GetPrompt(ctx context.Context, id string) (*models.Prompt, error)
	ListPrompts(ctx context.Context, projectID string, enabled *bool) ([]*models.Prompt, error)
	UpdatePrompt(ctx context.Context, prompt *models.Prompt) error
	DeletePrompt(ctx context.Context, id string) error

	// Schedule operations
	CreateSchedule(ctx context.Context, schedule *models.Schedule) error
	GetSchedule(ctx context.Context, id string) (*models.Schedule, error)
	ListSchedules(ctx context.Context, enabled *bool) ([]*models.Schedule, error)
	UpdateSchedule(ctx context.Context, schedule *models.Schedule) error
	DeleteSchedule(ctx context.Context, id string) error

	// LLM operations
	CreateLLM(ctx context.Context, llm *models.LLMConfig) error
	GetLLM(ctx context.Context, id string) (*models.LLMConfig, error)
	ListLLMs(ctx context.Context, enabled *bool) ([]*models.LLMConfig, error)
	UpdateLLM(ctx context.Context, llm *models.LLMConfig) error
	DeleteLLM(ctx context.Context, id string) error
}
