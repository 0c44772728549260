package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/AI2HU/geolens/internal/models"
)

// SQLite implements the SQLDatabase interface for SQLite
type SQLite struct {
	db     *sql.DB
	config *models.Config
}

// New creates a new SQLite database instance
func New(config *models.Config) (*SQLite, error) {
	return &SQLite{
		config: config,
	}, nil
}

// Connect establishes connection to SQLite
func (s *SQLite) Connect(ctx context.Context) error {
	// Expand the URI path (handle ~ and relative paths)
	dbPath := s.config.URI
	if strings.HasPrefix(dbPath, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	} else if !filepath.IsAbs(dbPath) {
		absPath, err := filepath.Abs(dbPath)
		if err != nil {
			return fmt.Errorf("failed to resolve absolute path: %w", err)
		}
		dbPath = absPath
	}

	// Ensure the directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return fmt.Errorf("failed to open SQLite database at path '%s': %w", dbPath, err)
	}

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping SQLite database at path '%s': %w", dbPath, err)
	}

	s.db = db

	if err := s.createTables(ctx); err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}

	return nil
}

// Disconnect closes the SQLite connection
func (s *SQLite) Disconnect(ctx context.Context) error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Ping checks the database connection
func (s *SQLite) Ping(ctx context.Context) error {
	if s.db == nil {
		return fmt.Errorf("not connected to database")
	}
	return s.db.PingContext(ctx)
}

// DB exposes the underlying connection for migrations
func (s *SQLite) DB() *sql.DB {
	return s.db
}

// createTables creates necessary tables
func (s *SQLite) createTables(ctx context.Context) error {
	createProjectsTable := `
	CREATE TABLE IF NOT EXISTS projects (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		brand TEXT NOT NULL,
		competitors TEXT, -- JSON array of competitor names
		plan TEXT NOT NULL DEFAULT 'free',
		owner_id TEXT NOT NULL,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	);`

	createPromptsTable := `
	CREATE TABLE IF NOT EXISTS prompts (
		id TEXT PRIMARY KEY,
		project_id TEXT NOT NULL,
		content TEXT NOT NULL,
		category TEXT,
		enabled BOOLEAN NOT NULL DEFAULT 1,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	);`

	createSchedulesTable := `
	CREATE TABLE IF NOT EXISTS schedules (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		project_id TEXT NOT NULL,
		prompt_ids TEXT NOT NULL, -- JSON array of prompt IDs
		llm_ids TEXT NOT NULL,    -- JSON array of LLM IDs
		cron_expr TEXT NOT NULL,
		enabled BOOLEAN NOT NULL DEFAULT 1,
		last_run DATETIME,
		next_run DATETIME,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	);`

	createLLMsTable := `
	CREATE TABLE IF NOT EXISTS llms (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		provider TEXT NOT NULL,
		model TEXT NOT NULL,
		api_key TEXT,
		base_url TEXT,
		config TEXT, -- JSON string for additional config
		enabled BOOLEAN NOT NULL DEFAULT 1,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	);`

	createIndexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_projects_owner ON projects(owner_id);",
		"CREATE INDEX IF NOT EXISTS idx_prompts_project ON prompts(project_id);",
		"CREATE INDEX IF NOT EXISTS idx_prompts_enabled ON prompts(enabled);",
		"CREATE INDEX IF NOT EXISTS idx_schedules_enabled ON schedules(enabled);",
		"CREATE INDEX IF NOT EXISTS idx_schedules_next_run ON schedules(next_run);",
		"CREATE INDEX IF NOT EXISTS idx_llms_provider ON llms(provider);",
		"CREATE INDEX IF NOT EXISTS idx_llms_enabled ON llms(enabled);",
	}

	queries := []string{createProjectsTable, createPromptsTable, createSchedulesTable, createLLMsTable}
	queries = append(queries, createIndexes...)

	for _, query := range queries {
		if _, err := s.db.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query: %w", err)
		}
	}

	return nil
}

// Helper function to convert string slice to JSON array
func sliceToJSON(slice []string) string {
	if len(slice) == 0 {
		return "[]"
	}
	data, err := json.Marshal(slice)
	if err != nil {
		return "[]"
	}
	return string(data)
}

// Helper function to parse JSON array to string slice
func jsonToSlice(jsonStr string) []string {
	if jsonStr == "" || jsonStr == "[]" {
		return nil
	}
	var result []string
	if err := json.Unmarshal([]byte(jsonStr), &result); err != nil {
		return nil
	}
	return result
}

// Helper function to convert map to JSON string
func mapToJSON(m map[string]string) string {
	if len(m) == 0 {
		return "{}"
	}
	data, err := json.Marshal(m)
	if err != nil {
		return "{}"
	}
	return string(data)
}

// Helper function to parse JSON string to map
func jsonToMap(jsonStr string) map[string]string {
	result := make(map[string]string)
	if jsonStr == "" || jsonStr == "{}" {
		return result
	}
	if err := json.Unmarshal([]byte(jsonStr), &result); err != nil {
		return make(map[string]string)
	}
	return result
}

// Project Operations

// CreateProject creates a new project
func (s *SQLite) CreateProject(ctx context.Context, project *models.Project) error {
	project.CreatedAt = time.Now()
	project.UpdatedAt = time.Now()

	query := `
		INSERT INTO projects (id, name, brand, competitors, plan, owner_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := s.db.ExecContext(ctx, query,
		project.ID,
		project.Name,
		project.Brand,
		sliceToJSON(project.Competitors),
		string(project.Plan),
		project.OwnerID,
		project.CreatedAt,
		project.UpdatedAt,
	)

	return err
}

// GetProject retrieves a project by ID
func (s *SQLite) GetProject(ctx context.Context, id string) (*models.Project, error) {
	query := `
		SELECT id, name, brand, competitors, plan, owner_id, created_at, updated_at
		FROM projects WHERE id = ?`

	var project models.Project
	var competitorsJSON string
	var plan string

	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&project.ID,
		&project.Name,
		&project.Brand,
		&competitorsJSON,
		&plan,
		&project.OwnerID,
		&project.CreatedAt,
		&project.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("project not found: %s", id)
	}
	if err != nil {
		return nil, err
	}

	project.Competitors = jsonToSlice(competitorsJSON)
	project.Plan = models.Plan(plan)
	return &project, nil
}

// ListProjects lists all projects, optionally filtered by owner
func (s *SQLite) ListProjects(ctx context.Context, ownerID string) ([]*models.Project, error) {
	query := `
		SELECT id, name, brand, competitors, plan, owner_id, created_at, updated_at
		FROM projects`
	args := []interface{}{}

	if ownerID != "" {
		query += " WHERE owner_id = ?"
		args = append(args, ownerID)
	}

	query += " ORDER BY created_at DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []*models.Project
	for rows.Next() {
		var project models.Project
		var competitorsJSON string
		var plan string

		if err := rows.Scan(
			&project.ID,
			&project.Name,
			&project.Brand,
			&competitorsJSON,
			&plan,
			&project.OwnerID,
			&project.CreatedAt,
			&project.UpdatedAt,
		); err != nil {
			return nil, err
		}

		project.Competitors = jsonToSlice(competitorsJSON)
		project.Plan = models.Plan(plan)
		projects = append(projects, &project)
	}

	return projects, rows.Err()
}

// UpdateProject updates an existing project
func (s *SQLite) UpdateProject(ctx context.Context, project *models.Project) error {
	project.UpdatedAt = time.Now()

	query := `
		UPDATE projects
		SET name = ?, brand = ?, competitors = ?, plan = ?, owner_id = ?, updated_at = ?
		WHERE id = ?`

	result, err := s.db.ExecContext(ctx, query,
		project.Name,
		project.Brand,
		sliceToJSON(project.Competitors),
		string(project.Plan),
		project.OwnerID,
		project.UpdatedAt,
		project.ID,
	)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("project not found: %s", project.ID)
	}

	return nil
}

// DeleteProject deletes a project by ID
func (s *SQLite) DeleteProject(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM projects WHERE id = ?", id)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("project not found: %s", id)
	}

	return nil
}

// Prompt Operations

// CreatePrompt creates a new prompt
func (s *SQLite) CreatePrompt(ctx context.Context, prompt *models.Prompt) error {
	prompt.CreatedAt = time.Now()
	prompt.UpdatedAt = time.Now()

	query := `
		INSERT INTO prompts (id, project_id, content, category, enabled, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err := s.db.ExecContext(ctx, query,
		prompt.ID,
		prompt.ProjectID,
		prompt.Content,
		prompt.Category,
		prompt.Enabled,
		prompt.CreatedAt,
		prompt.UpdatedAt,
	)

	return err
}

// GetPrompt retrieves a prompt by ID
func (s *SQLite) GetPrompt(ctx context.Context, id string) (*models.Prompt, error) {
	query := `
		SELECT id, project_id, content, category, enabled, created_at, updated_at
		FROM prompts WHERE id = ?`

	var prompt models.Prompt

	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&prompt.ID,
		&prompt.ProjectID,
		&prompt.Content,
		&prompt.Category,
		&prompt.Enabled,
		&prompt.CreatedAt,
		&prompt.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("prompt not found: %s", id)
	}
	if err != nil {
		return nil, err
	}

	return &prompt, nil
}

// ListPrompts lists prompts, optionally filtered by project and enabled status
func (s *SQLite) ListPrompts(ctx context.Context, projectID string, enabled *bool) ([]*models.Prompt, error) {
	query := `
		SELECT id, project_id, content, category, enabled, created_at, updated_at
		FROM prompts`
	var conditions []string
	args := []interface{}{}

	if projectID != "" {
		conditions = append(conditions, "project_id = ?")
		args = append(args, projectID)
	}
	if enabled != nil {
		conditions = append(conditions, "enabled = ?")
		args = append(args, *enabled)
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	query += " ORDER BY created_at DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var prompts []*models.Prompt
	for rows.Next() {
		var prompt models.Prompt
		if err := rows.Scan(
			&prompt.ID,
			&prompt.ProjectID,
			&prompt.Content,
			&prompt.Category,
			&prompt.Enabled,
			&prompt.CreatedAt,
			&prompt.UpdatedAt,
		); err != nil {
			return nil, err
		}
		prompts = append(prompts, &prompt)
	}

	return prompts, rows.Err()
}

// UpdatePrompt updates an existing prompt
func (s *SQLite) UpdatePrompt(ctx context.Context, prompt *models.Prompt) error {
	prompt.UpdatedAt = time.Now()

	query := `
		UPDATE prompts
		SET content = ?, category = ?, enabled = ?, updated_at = ?
		WHERE id = ?`

	result, err := s.db.ExecContext(ctx, query,
		prompt.Content,
		prompt.Category,
		prompt.Enabled,
		prompt.UpdatedAt,
		prompt.ID,
	)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("prompt not found: %s", prompt.ID)
	}

	return nil
}

// DeletePrompt deletes a prompt by ID
func (s *SQLite) DeletePrompt(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM prompts WHERE id = ?", id)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("prompt not found: %s", id)
	}

	return nil
}

// Schedule Operations

// CreateSchedule creates a new schedule
func (s *SQLite) CreateSchedule(ctx context.Context, schedule *models.Schedule) error {
	schedule.CreatedAt = time.Now()
	schedule.UpdatedAt = time.Now()

	query := `
		INSERT INTO schedules (id, name, project_id, prompt_ids, llm_ids, cron_expr, enabled, last_run, next_run, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := s.db.ExecContext(ctx, query,
		schedule.ID,
		schedule.Name,
		schedule.ProjectID,
		sliceToJSON(schedule.PromptIDs),
		sliceToJSON(schedule.LLMIDs),
		schedule.CronExpr,
		schedule.Enabled,
		schedule.LastRun,
		schedule.NextRun,
		schedule.CreatedAt,
		schedule.UpdatedAt,
	)

	return err
}

// GetSchedule retrieves a schedule by ID
func (s *SQLite) GetSchedule(ctx context.Context, id string) (*models.Schedule, error) {
	query := `
		SELECT id, name, project_id, prompt_ids, llm_ids, cron_expr, enabled, last_run, next_run, created_at, updated_at
		FROM schedules WHERE id = ?`

	schedule, err := scanSchedule(s.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("schedule not found: %s", id)
	}
	if err != nil {
		return nil, err
	}

	return schedule, nil
}

// ListSchedules lists all schedules, optionally filtered by enabled status
func (s *SQLite) ListSchedules(ctx context.Context, enabled *bool) ([]*models.Schedule, error) {
	query := `
		SELECT id, name, project_id, prompt_ids, llm_ids, cron_expr, enabled, last_run, next_run, created_at, updated_at
		FROM schedules`
	args := []interface{}{}

	if enabled != nil {
		query += " WHERE enabled = ?"
		args = append(args, *enabled)
	}

	query += " ORDER BY created_at DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var schedules []*models.Schedule
	for rows.Next() {
		schedule, err := scanSchedule(rows)
		if err != nil {
			return nil, err
		}
		schedules = append(schedules, schedule)
	}

	return schedules, rows.Err()
}

// UpdateSchedule updates an existing schedule
func (s *SQLite) UpdateSchedule(ctx context.Context, schedule *models.Schedule) error {
	schedule.UpdatedAt = time.Now()

	query := `
		UPDATE schedules
		SET name = ?, project_id = ?, prompt_ids = ?, llm_ids = ?, cron_expr = ?, enabled = ?, last_run = ?, next_run = ?, updated_at = ?
		WHERE id = ?`

	result, err := s.db.ExecContext(ctx, query,
		schedule.Name,
		schedule.ProjectID,
		sliceToJSON(schedule.PromptIDs),
		sliceToJSON(schedule.LLMIDs),
		schedule.CronExpr,
		schedule.Enabled,
		schedule.LastRun,
		schedule.NextRun,
		schedule.UpdatedAt,
		schedule.ID,
	)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("schedule not found: %s", schedule.ID)
	}

	return nil
}

// DeleteSchedule deletes a schedule by ID
func (s *SQLite) DeleteSchedule(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM schedules WHERE id = ?", id)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("schedule not found: %s", id)
	}

	return nil
}

// scanner abstracts sql.Row and sql.Rows for shared scan logic
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanSchedule(row scanner) (*models.Schedule, error) {
	var schedule models.Schedule
	var promptIDsJSON, llmIDsJSON string
	var lastRun, nextRun sql.NullTime

	err := row.Scan(
		&schedule.ID,
		&schedule.Name,
		&schedule.ProjectID,
		&promptIDsJSON,
		&llmIDsJSON,
		&schedule.CronExpr,
		&schedule.Enabled,
		&lastRun,
		&nextRun,
		&schedule.CreatedAt,
		&schedule.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	schedule.PromptIDs = jsonToSlice(promptIDsJSON)
	schedule.LLMIDs = jsonToSlice(llmIDsJSON)
	if lastRun.Valid {
		schedule.LastRun = &lastRun.Time
	}
	if nextRun.Valid {
		schedule.NextRun = &nextRun.Time
	}

	return &schedule, nil
}

// LLM Operations

// CreateLLM creates a new LLM configuration
func (s *SQLite) CreateLLM(ctx context.Context, llm *models.LLMConfig) error {
	llm.CreatedAt = time.Now()
	llm.UpdatedAt = time.Now()

	query := `
		INSERT INTO llms (id, name, provider, model, api_key, base_url, config, enabled, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := s.db.ExecContext(ctx, query,
		llm.ID,
		llm.Name,
		llm.Provider,
		llm.Model,
		llm.APIKey,
		llm.BaseURL,
		mapToJSON(llm.Config),
		llm.Enabled,
		llm.CreatedAt,
		llm.UpdatedAt,
	)

	return err
}

// GetLLM retrieves an LLM configuration by ID
func (s *SQLite) GetLLM(ctx context.Context, id string) (*models.LLMConfig, error) {
	query := `
		SELECT id, name, provider, model, api_key, base_url, config, enabled, created_at, updated_at
		FROM llms WHERE id = ?`

	var llm models.LLMConfig
	var configJSON string

	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&llm.ID,
		&llm.Name,
		&llm.Provider,
		&llm.Model,
		&llm.APIKey,
		&llm.BaseURL,
		&configJSON,
		&llm.Enabled,
		&llm.CreatedAt,
		&llm.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("LLM not found: %s", id)
	}
	if err != nil {
		return nil, err
	}

	llm.Config = jsonToMap(configJSON)
	return &llm, nil
}

// ListLLMs lists all LLM configurations, optionally filtered by enabled status
func (s *SQLite) ListLLMs(ctx context.Context, enabled *bool) ([]*models.LLMConfig, error) {
	query := `
		SELECT id, name, provider, model, api_key, base_url, config, enabled, created_at, updated_at
		FROM llms`
	args := []interface{}{}

	if enabled != nil {
		query += " WHERE enabled = ?"
		args = append(args, *enabled)
	}

	query += " ORDER BY created_at DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var llms []*models.LLMConfig
	for rows.Next() {
		var llm models.LLMConfig
		var configJSON string

		if err := rows.Scan(
			&llm.ID,
			&llm.Name,
			&llm.Provider,
			&llm.Model,
			&llm.APIKey,
			&llm.BaseURL,
			&configJSON,
			&llm.Enabled,
			&llm.CreatedAt,
			&llm.UpdatedAt,
		); err != nil {
			return nil, err
		}

		llm.Config = jsonToMap(configJSON)
		llms = append(llms, &llm)
	}

	return llms, rows.Err()
}

// UpdateLLM updates an existing LLM configuration
func (s *SQLite) UpdateLLM(ctx context.Context, llm *models.LLMConfig) error {
	llm.UpdatedAt = time.Now()

	query := `
		UPDATE llms
		SET name = ?, provider = ?, model = ?, api_key = ?, base_url = ?, config = ?, enabled = ?, updated_at = ?
		WHERE id = ?`

	result, err := s.db.ExecContext(ctx, query,
		llm.Name,
		llm.Provider,
		llm.Model,
		llm.APIKey,
		llm.BaseURL,
		mapToJSON(llm.Config),
		llm.Enabled,
		llm.UpdatedAt,
		llm.ID,
	)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("LLM not found: %s", llm.ID)
	}

	return nil
}

// DeleteLLM deletes an LLM configuration by ID
func (s *SQLite) DeleteLLM(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM llms WHERE id = ?", id)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("LLM not found: %s", id)
	}

	return nil
}
