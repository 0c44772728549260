package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"golang.org/x/time/rate"

	"github.com/AI2HU/geolens/internal/analysis"
	"github.com/AI2HU/geolens/internal/db"
	"github.com/AI2HU/geolens/internal/llm"
	"github.com/AI2HU/geolens/internal/logger"
	"github.com/AI2HU/geolens/internal/models"
)

// Retry and rate limit configuration constants
const (
	DefaultMaxRetries = 3
	DefaultRetryDelay = 30 * time.Second

	// Provider calls across all concurrent executions share one limiter.
	DefaultRequestsPerSecond = 2
	DefaultBurst             = 4
)

// Scheduler manages scheduled prompt executions and turns the LLM
// responses into stored scan records.
type Scheduler struct {
	db          db.Database
	llmRegistry *llm.Registry
	cron        *cron.Cron
	limiter     *rate.Limiter
	running     bool
	mu          sync.RWMutex
}

// New creates a new scheduler
func New(database db.Database, llmRegistry *llm.Registry) *Scheduler {
	return &Scheduler{
		db:          database,
		llmRegistry: llmRegistry,
		cron:        cron.New(),
		limiter:     rate.NewLimiter(rate.Limit(DefaultRequestsPerSecond), DefaultBurst),
	}
}

// Start starts the scheduler
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("scheduler already running")
	}

	schedules, err := s.db.ListSchedules(ctx, boolPtr(true))
	if err != nil {
		return fmt.Errorf("failed to load schedules: %w", err)
	}

	for _, schedule := range schedules {
		if err := s.registerSchedule(schedule); err != nil {
			logger.Error("Failed to register schedule %s: %v", schedule.ID, err)
		}
	}

	s.cron.Start()
	s.running = true

	logger.Info("Scheduler started with %d schedules", len(schedules))
	return nil
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}

	s.cron.Stop()
	s.running = false

	logger.Info("Scheduler stopped")
}

// registerSchedule registers a schedule with cron
func (s *Scheduler) registerSchedule(schedule *models.Schedule) error {
	_, err := s.cron.AddFunc(schedule.CronExpr, func() {
		if err := s.executeSchedule(context.Background(), schedule); err != nil {
			logger.Error("Failed to execute schedule %s: %v", schedule.ID, err)
		}
	})

	if err != nil {
		return fmt.Errorf("failed to add cron job: %w", err)
	}

	logger.Info("Registered schedule %s with cron expression: %s", schedule.ID, schedule.CronExpr)
	return nil
}

// executeSchedule runs every prompt of a schedule against every enabled
// LLM and persists one scan record per prompt.
func (s *Scheduler) executeSchedule(ctx context.Context, schedule *models.Schedule) error {
	logger.Info("Executing schedule %s (%d prompts, %d LLMs)", schedule.ID, len(schedule.PromptIDs), len(schedule.LLMIDs))

	project, err := s.db.GetProject(ctx, schedule.ProjectID)
	if err != nil {
		return fmt.Errorf("failed to get project %s: %w", schedule.ProjectID, err)
	}

	prompts := make([]*models.Prompt, 0, len(schedule.PromptIDs))
	for _, promptID := range schedule.PromptIDs {
		prompt, err := s.db.GetPrompt(ctx, promptID)
		if err != nil {
			logger.Error("Failed to get prompt %s: %v", promptID, err)
			continue
		}
		if !prompt.Enabled {
			logger.Debug("Prompt %s is disabled, skipping", prompt.ID)
			continue
		}
		prompts = append(prompts, prompt)
	}

	llms := make([]*models.LLMConfig, 0, len(schedule.LLMIDs))
	for _, llmID := range schedule.LLMIDs {
		llmConfig, err := s.db.GetLLM(ctx, llmID)
		if err != nil {
			logger.Error("Failed to get LLM %s: %v", llmID, err)
			continue
		}
		if !llmConfig.Enabled {
			logger.Warning("LLM %s is disabled, skipping", llmConfig.Name)
			continue
		}
		llms = append(llms, llmConfig)
	}

	logger.Info("Found %d enabled prompts and %d enabled LLMs", len(prompts), len(llms))

	for _, prompt := range prompts {
		if err := s.executeScan(ctx, project, schedule.ID, prompt, llms); err != nil {
			logger.Error("Failed to execute scan for prompt %s: %v", prompt.ID, err)
		}
	}

	now := time.Now()
	schedule.LastRun = &now
	if err := s.db.UpdateSchedule(ctx, schedule); err != nil {
		logger.Error("Failed to update schedule last run: %v", err)
	}

	logger.Info("Completed schedule: %s", schedule.ID)
	return nil
}

// executeScan queries every LLM with one prompt, analyzes the responses
// for brand and competitor mentions, and stores the scan record.
func (s *Scheduler) executeScan(ctx context.Context, project *models.Project, scheduleID string, prompt *models.Prompt, llms []*models.LLMConfig) error {
	scan := &models.ScanRecord{
		ID:         uuid.New().String(),
		ProjectID:  project.ID,
		PromptID:   prompt.ID,
		ScheduleID: scheduleID,
		ExecutedAt: time.Now().UTC(),
		Results:    make([]models.ModelResult, len(llms)),
	}

	var wg sync.WaitGroup
	for i, llmConfig := range llms {
		wg.Add(1)
		go func(i int, l *models.LLMConfig) {
			defer wg.Done()
			scan.Results[i] = s.runModel(ctx, project, prompt, l)
		}(i, llmConfig)
	}
	wg.Wait()

	if err := s.db.CreateScan(ctx, scan); err != nil {
		return fmt.Errorf("failed to store scan: %w", err)
	}

	logger.Debug("Stored scan %s for prompt %s with %d results", scan.ID, prompt.ID, len(scan.Results))
	return nil
}

// runModel queries one LLM with retries and analyzes the response. A
// provider failure is recorded in the result instead of failing the scan.
func (s *Scheduler) runModel(ctx context.Context, project *models.Project, prompt *models.Prompt, llmConfig *models.LLMConfig) models.ModelResult {
	result := models.ModelResult{
		Provider: llmConfig.Provider,
		Model:    llmConfig.Model,
	}

	resp, err := s.generateWithRetry(ctx, prompt, llmConfig, DefaultMaxRetries, DefaultRetryDelay)
	if err != nil {
		result.Error = err.Error()
		return result
	}

	result.ResponseText = resp.Text
	result.TokensUsed = resp.TokensUsed
	result.LatencyMs = resp.LatencyMs
	if resp.Model != "" {
		result.Model = resp.Model
	}
	if resp.Error != "" {
		result.Error = resp.Error
		return result
	}

	analyzed := analysis.Analyze(resp.Text, project.Brand, project.Competitors)
	result.IsCited = analyzed.IsCited
	result.Position = analyzed.Position
	result.CompetitorMentions = analyzed.CompetitorMentions

	return result
}

// generateWithRetry calls the provider with retry on hard failures
func (s *Scheduler) generateWithRetry(ctx context.Context, prompt *models.Prompt, llmConfig *models.LLMConfig, maxRetries int, retryDelay time.Duration) (*llm.Response, error) {
	provider, err := s.llmRegistry.Get(llmConfig.Provider)
	if err != nil {
		return nil, err
	}

	config := llm.ConfigFor(llmConfig)

	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		if err := s.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter interrupted: %w", err)
		}

		resp, err := provider.Generate(ctx, prompt.Content, config)
		if err == nil {
			if attempt > 1 {
				logger.Info("Prompt %s succeeded on attempt %d", prompt.ID, attempt)
			}
			return resp, nil
		}

		lastErr = err
		logger.Warning("Attempt %d/%d failed for prompt %s with LLM %s: %v", attempt, maxRetries, prompt.ID, llmConfig.Name, err)

		if attempt < maxRetries {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(retryDelay):
			}
		}
	}

	return nil, fmt.Errorf("failed after %d attempts, last error: %w", maxRetries, lastErr)
}

// ExecuteNow executes a schedule immediately
func (s *Scheduler) ExecuteNow(ctx context.Context, scheduleID string) error {
	schedule, err := s.db.GetSchedule(ctx, scheduleID)
	if err != nil {
		return fmt.Errorf("failed to get schedule: %w", err)
	}

	return s.executeSchedule(ctx, schedule)
}

// ExecutePrompt executes a single prompt with the specified LLMs
func (s *Scheduler) ExecutePrompt(ctx context.Context, promptID string, llmIDs []string) error {
	prompt, err := s.db.GetPrompt(ctx, promptID)
	if err != nil {
		return fmt.Errorf("failed to get prompt: %w", err)
	}

	project, err := s.db.GetProject(ctx, prompt.ProjectID)
	if err != nil {
		return fmt.Errorf("failed to get project: %w", err)
	}

	llms := make([]*models.LLMConfig, 0, len(llmIDs))
	for _, llmID := range llmIDs {
		llmConfig, err := s.db.GetLLM(ctx, llmID)
		if err != nil {
			logger.Error("Failed to get LLM %s: %v", llmID, err)
			continue
		}
		llms = append(llms, llmConfig)
	}

	return s.executeScan(ctx, project, "", prompt, llms)
}

// Reload reloads all schedules
func (s *Scheduler) Reload(ctx context.Context) error {
	s.Stop()
	time.Sleep(100 * time.Millisecond) // Give it time to stop
	return s.Start(ctx)
}

func boolPtr(b bool) *bool {
	return &b
}
