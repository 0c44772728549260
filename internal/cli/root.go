package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/AI2HU/geolens/internal/config"
	"github.com/AI2HU/geolens/internal/db"
	"github.com/AI2HU/geolens/internal/llm"
	"github.com/AI2HU/geolens/internal/llm/anthropic"
	"github.com/AI2HU/geolens/internal/llm/google"
	"github.com/AI2HU/geolens/internal/llm/ollama"
	"github.com/AI2HU/geolens/internal/llm/openai"
	"github.com/AI2HU/geolens/internal/llm/perplexity"
	"github.com/AI2HU/geolens/internal/logger"
	"github.com/AI2HU/geolens/internal/scheduler"
)

var (
	cfgFile     string
	cfg         *config.Config
	database    db.Database
	llmRegistry *llm.Registry
	sched       *scheduler.Scheduler
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "geolens",
	Short: "Brand visibility tracker for LLM responses",
	Long: `GeoLens schedules prompts across multiple LLMs and analyzes how often
a brand is cited in their answers, at what rank, and which competitors
appear alongside it.

Track citation rates over time, compare providers and models, and watch
competitor share of voice per project.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// The init command creates the config, nothing to load yet
		if cmd.Name() == "init" {
			return nil
		}

		if cfgFile == "" {
			cfgFile = config.GetConfigPath()
		}

		if !config.Exists(cfgFile) {
			return fmt.Errorf("configuration file not found. Run 'geolens init' to create one")
		}

		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		logger.Init(logger.ParseLogLevel(cfg.LogLevel), os.Stdout)

		database, err = db.New(cfg.SQLDatabase.ToModel(), cfg.NoSQLDatabase.ToModel())
		if err != nil {
			return fmt.Errorf("failed to create database: %w", err)
		}

		if err := database.Connect(context.Background()); err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}

		// Register default providers for model listing; per-LLM keys are
		// wired in by initializeLLMProviders before execution.
		llmRegistry = llm.NewRegistry()
		llmRegistry.Register(openai.New("", ""))
		llmRegistry.Register(anthropic.New("", ""))
		llmRegistry.Register(ollama.New(""))
		llmRegistry.Register(google.New("", ""))
		llmRegistry.Register(perplexity.New(""))

		sched = scheduler.New(database, llmRegistry)

		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if database != nil {
			return database.Disconnect(context.Background())
		}
		return nil
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.geolens/config.yaml)")

	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(projectCmd)
	rootCmd.AddCommand(promptCmd)
	rootCmd.AddCommand(scheduleCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(dashboardCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(competitorsCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(schedulerCmd)
	rootCmd.AddCommand(apiCmd)
	rootCmd.AddCommand(migrateCmd)
}

// initializeLLMProviders registers providers with the stored credentials
func initializeLLMProviders(ctx context.Context) error {
	llms, err := database.ListLLMs(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to list LLMs: %w", err)
	}

	for _, llmConfig := range llms {
		var provider llm.Provider

		switch llmConfig.Provider {
		case "openai":
			provider = openai.New(llmConfig.APIKey, llmConfig.BaseURL)
		case "anthropic":
			provider = anthropic.New(llmConfig.APIKey, llmConfig.BaseURL)
		case "ollama":
			provider = ollama.New(llmConfig.BaseURL)
		case "google":
			provider = google.New(llmConfig.APIKey, llmConfig.BaseURL)
		case "perplexity":
			provider = perplexity.New(llmConfig.APIKey)
		default:
			continue
		}

		llmRegistry.Register(provider)
	}

	return nil
}
