package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/AI2HU/geolens/internal/models"
)

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Manage LLM providers",
	Long:  `Manage the LLM provider configurations used to run scans.`,
}

var llmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List configured LLMs",
	RunE:  runLLMList,
}

var llmAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a new LLM configuration",
	RunE:  runLLMAdd,
}

var llmModelsCmd = &cobra.Command{
	Use:   "models [provider]",
	Short: "List available models for a provider",
	Args:  cobra.ExactArgs(1),
	RunE:  runLLMModels,
}

var llmDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete an LLM configuration",
	Args:  cobra.ExactArgs(1),
	RunE:  runLLMDelete,
}

func init() {
	llmCmd.AddCommand(llmListCmd)
	llmCmd.AddCommand(llmAddCmd)
	llmCmd.AddCommand(llmModelsCmd)
	llmCmd.AddCommand(llmDeleteCmd)
}

func runLLMList(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	llms, err := database.ListLLMs(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to list LLMs: %w", err)
	}

	if len(llms) == 0 {
		fmt.Printf("%sNo LLMs configured yet. Add one with 'geolens llm add'%s\n", WarningStyle, Reset)
		return nil
	}

	fmt.Printf("%s🤖 LLM Configurations%s\n", HeaderStyle, Reset)
	fmt.Printf("%s=====================%s\n", DimStyle, Reset)
	fmt.Println()

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tPROVIDER\tMODEL\tAPI KEY\tENABLED")
	for _, llmConfig := range llms {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%t\n",
			llmConfig.ID, llmConfig.Name, llmConfig.Provider, llmConfig.Model,
			maskSensitiveData(llmConfig.APIKey), llmConfig.Enabled)
	}
	return w.Flush()
}

func runLLMAdd(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	reader := bufio.NewReader(os.Stdin)

	fmt.Printf("%s🤖 New LLM Configuration%s\n", HeaderStyle, Reset)
	fmt.Printf("%s========================%s\n", DimStyle, Reset)
	fmt.Println()

	name, err := promptRequired(reader, "Configuration name: ")
	if err != nil {
		return err
	}

	providerName, err := promptWithRetry(reader, "Provider (openai/anthropic/google/ollama/perplexity): ", func(input string) (string, error) {
		if _, err := llmRegistry.Get(input); err != nil {
			return "", err
		}
		return input, nil
	})
	if err != nil {
		return err
	}

	model, err := promptRequired(reader, "Model name: ")
	if err != nil {
		return err
	}

	var apiKey, baseURL string
	if providerName == "ollama" {
		baseURL, err = promptWithRetry(reader, "Base URL [http://localhost:11434]: ", validateBaseURL)
		if err != nil {
			return err
		}
	} else {
		apiKey, err = promptWithRetry(reader, "API key: ", func(input string) (string, error) {
			return validateAPIKey(input, providerName)
		})
		if err != nil {
			return err
		}
	}

	llmConfig := &models.LLMConfig{
		ID:       uuid.New().String(),
		Name:     name,
		Provider: providerName,
		Model:    model,
		APIKey:   apiKey,
		BaseURL:  baseURL,
		Enabled:  true,
	}

	if err := database.CreateLLM(ctx, llmConfig); err != nil {
		return fmt.Errorf("failed to create LLM: %w", err)
	}

	fmt.Println()
	fmt.Printf("%s✅ LLM configuration created: %s%s\n", SuccessStyle, llmConfig.ID, Reset)
	return nil
}

func runLLMModels(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	providerName := args[0]

	provider, err := llmRegistry.Get(providerName)
	if err != nil {
		return err
	}

	reader := bufio.NewReader(os.Stdin)
	apiKey, err := promptOptional(reader, "API key (blank for providers that need none): ", "")
	if err != nil {
		return err
	}

	modelList, err := provider.ListModels(ctx, apiKey, "")
	if err != nil {
		return fmt.Errorf("failed to list models: %w", err)
	}

	if len(modelList) == 0 {
		fmt.Printf("%sNo models found for %s%s\n", WarningStyle, providerName, Reset)
		return nil
	}

	fmt.Printf("%sAvailable models for %s:%s\n", HeaderStyle, providerName, Reset)
	for _, model := range modelList {
		fmt.Printf("  %s%s%s", ValueStyle, model.Name, Reset)
		if model.Description != "" {
			fmt.Printf(" %s- %s%s", MetaStyle, model.Description, Reset)
		}
		fmt.Println()
	}
	return nil
}

func runLLMDelete(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	if err := database.DeleteLLM(ctx, args[0]); err != nil {
		return fmt.Errorf("failed to delete LLM: %w", err)
	}

	fmt.Printf("%s✅ LLM configuration deleted%s\n", SuccessStyle, Reset)
	return nil
}
