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

var promptProjectID string

var promptCmd = &cobra.Command{
	Use:   "prompt",
	Short: "Manage prompts",
	Long:  `Manage the prompts sent to LLMs on behalf of a project.`,
}

var promptListCmd = &cobra.Command{
	Use:   "list",
	Short: "List prompts",
	RunE:  runPromptList,
}

var promptAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a new prompt",
	RunE:  runPromptAdd,
}

var promptEnableCmd = &cobra.Command{
	Use:   "enable [id]",
	Short: "Enable a prompt",
	Args:  cobra.ExactArgs(1),
	RunE:  makePromptToggle(true),
}

var promptDisableCmd = &cobra.Command{
	Use:   "disable [id]",
	Short: "Disable a prompt",
	Args:  cobra.ExactArgs(1),
	RunE:  makePromptToggle(false),
}

var promptDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a prompt",
	Args:  cobra.ExactArgs(1),
	RunE:  runPromptDelete,
}

func init() {
	promptCmd.AddCommand(promptListCmd)
	promptCmd.AddCommand(promptAddCmd)
	promptCmd.AddCommand(promptEnableCmd)
	promptCmd.AddCommand(promptDisableCmd)
	promptCmd.AddCommand(promptDeleteCmd)

	promptCmd.PersistentFlags().StringVarP(&promptProjectID, "project", "p", "", "Project ID to scope to")
}

func runPromptList(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	prompts, err := database.ListPrompts(ctx, promptProjectID, nil)
	if err != nil {
		return fmt.Errorf("failed to list prompts: %w", err)
	}

	if len(prompts) == 0 {
		fmt.Printf("%sNo prompts yet. Create one with 'geolens prompt add'%s\n", WarningStyle, Reset)
		return nil
	}

	fmt.Printf("%s📝 Prompts%s\n", HeaderStyle, Reset)
	fmt.Printf("%s==========%s\n", DimStyle, Reset)
	fmt.Println()

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPROJECT\tCATEGORY\tENABLED\tCONTENT")
	for _, prompt := range prompts {
		content := prompt.Content
		if len(content) > 60 {
			content = content[:57] + "..."
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%t\t%s\n",
			prompt.ID, prompt.ProjectID, prompt.Category, prompt.Enabled, content)
	}
	return w.Flush()
}

func runPromptAdd(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	reader := bufio.NewReader(os.Stdin)

	fmt.Printf("%s📝 New Prompt%s\n", HeaderStyle, Reset)
	fmt.Printf("%s=============%s\n", DimStyle, Reset)
	fmt.Println()

	projectID := promptProjectID
	if projectID == "" {
		var err error
		projectID, err = promptRequired(reader, "Project ID: ")
		if err != nil {
			return err
		}
	}

	if _, err := database.GetProject(ctx, projectID); err != nil {
		return fmt.Errorf("project not found: %w", err)
	}

	content, err := promptRequired(reader, "Prompt content: ")
	if err != nil {
		return err
	}

	category, err := promptOptional(reader, "Category (optional): ", "")
	if err != nil {
		return err
	}

	prompt := &models.Prompt{
		ID:        uuid.New().String(),
		ProjectID: projectID,
		Content:   content,
		Category:  category,
		Enabled:   true,
	}

	if err := database.CreatePrompt(ctx, prompt); err != nil {
		return fmt.Errorf("failed to create prompt: %w", err)
	}

	fmt.Println()
	fmt.Printf("%s✅ Prompt created: %s%s\n", SuccessStyle, prompt.ID, Reset)
	return nil
}

func makePromptToggle(enabled bool) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		prompt, err := database.GetPrompt(ctx, args[0])
		if err != nil {
			return fmt.Errorf("prompt not found: %w", err)
		}

		prompt.Enabled = enabled
		if err := database.UpdatePrompt(ctx, prompt); err != nil {
			return fmt.Errorf("failed to update prompt: %w", err)
		}

		state := "disabled"
		if enabled {
			state = "enabled"
		}
		fmt.Printf("%s✅ Prompt %s%s\n", SuccessStyle, state, Reset)
		return nil
	}
}

func runPromptDelete(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	if err := database.DeletePrompt(ctx, args[0]); err != nil {
		return fmt.Errorf("failed to delete prompt: %w", err)
	}

	fmt.Printf("%s✅ Prompt deleted%s\n", SuccessStyle, Reset)
	return nil
}
