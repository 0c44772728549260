package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	runScheduleID string
	runPromptID   string
	runLLMIDs     []string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Execute a schedule or a single prompt immediately",
	Long: `Executes a scan run outside its cron schedule.

Use --schedule to run a full schedule once, or --prompt (optionally with
--llm) to run a single prompt against the enabled LLMs.`,
	RunE: runRun,
}

func init() {
	runCmd.Flags().StringVarP(&runScheduleID, "schedule", "s", "", "Schedule ID to execute")
	runCmd.Flags().StringVarP(&runPromptID, "prompt", "p", "", "Prompt ID to execute")
	runCmd.Flags().StringSliceVarP(&runLLMIDs, "llm", "l", nil, "LLM IDs to use with --prompt (default: all enabled)")
	runCmd.MarkFlagsMutuallyExclusive("schedule", "prompt")
}

func runRun(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	if runScheduleID == "" && runPromptID == "" {
		return fmt.Errorf("either --schedule or --prompt is required")
	}

	if err := initializeLLMProviders(ctx); err != nil {
		return fmt.Errorf("failed to initialize LLM providers: %w", err)
	}

	if runScheduleID != "" {
		fmt.Printf("%s▶ Executing schedule %s...%s\n", InfoStyle, runScheduleID, Reset)
		if err := sched.ExecuteNow(ctx, runScheduleID); err != nil {
			return fmt.Errorf("failed to execute schedule: %w", err)
		}
	} else {
		fmt.Printf("%s▶ Executing prompt %s...%s\n", InfoStyle, runPromptID, Reset)
		if err := sched.ExecutePrompt(ctx, runPromptID, runLLMIDs); err != nil {
			return fmt.Errorf("failed to execute prompt: %w", err)
		}
	}

	fmt.Printf("%s✅ Scan complete%s\n", SuccessStyle, Reset)
	return nil
}
