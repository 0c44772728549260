package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/AI2HU/geolens/internal/models"
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Manage schedules",
	Long:  `Manage recurring scan schedules for a project.`,
}

var scheduleListCmd = &cobra.Command{
	Use:   "list",
	Short: "List schedules",
	RunE:  runScheduleList,
}

var scheduleAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a new schedule",
	RunE:  runScheduleAdd,
}

var scheduleDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a schedule",
	Args:  cobra.ExactArgs(1),
	RunE:  runScheduleDelete,
}

func init() {
	scheduleCmd.AddCommand(scheduleListCmd)
	scheduleCmd.AddCommand(scheduleAddCmd)
	scheduleCmd.AddCommand(scheduleDeleteCmd)
}

func runScheduleList(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	schedules, err := database.ListSchedules(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to list schedules: %w", err)
	}

	if len(schedules) == 0 {
		fmt.Printf("%sNo schedules yet. Create one with 'geolens schedule add'%s\n", WarningStyle, Reset)
		return nil
	}

	fmt.Printf("%s📅 Schedules%s\n", HeaderStyle, Reset)
	fmt.Printf("%s============%s\n", DimStyle, Reset)
	fmt.Println()

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tPROJECT\tCRON\tENABLED\tPROMPTS\tLLMS\tLAST RUN")
	for _, schedule := range schedules {
		lastRun := "never"
		if schedule.LastRun != nil {
			lastRun = schedule.LastRun.Format("2006-01-02 15:04")
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%t\t%d\t%d\t%s\n",
			schedule.ID, schedule.Name, schedule.ProjectID, schedule.CronExpr,
			schedule.Enabled, len(schedule.PromptIDs), len(schedule.LLMIDs), lastRun)
	}
	return w.Flush()
}

func runScheduleAdd(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	reader := bufio.NewReader(os.Stdin)

	fmt.Printf("%s📅 New Schedule%s\n", HeaderStyle, Reset)
	fmt.Printf("%s===============%s\n", DimStyle, Reset)
	fmt.Println()

	name, err := promptRequired(reader, "Schedule name: ")
	if err != nil {
		return err
	}

	projectID, err := promptRequired(reader, "Project ID: ")
	if err != nil {
		return err
	}

	project, err := database.GetProject(ctx, projectID)
	if err != nil {
		return fmt.Errorf("project not found: %w", err)
	}

	prompts, err := database.ListPrompts(ctx, project.ID, boolPtr(true))
	if err != nil {
		return fmt.Errorf("failed to list prompts: %w", err)
	}
	if len(prompts) == 0 {
		return fmt.Errorf("no enabled prompts in project %s, create one first", project.ID)
	}

	fmt.Printf("\n%sEnabled prompts:%s\n", LabelStyle, Reset)
	for i, prompt := range prompts {
		content := prompt.Content
		if len(content) > 60 {
			content = content[:57] + "..."
		}
		fmt.Printf("  %s%d.%s %s\n", CountStyle, i+1, Reset, content)
	}

	promptIDs, err := pickByIndex(reader, "Select prompts (e.g. 1,3 or 'all'): ", len(prompts), func(i int) string {
		return prompts[i].ID
	})
	if err != nil {
		return err
	}

	llms, err := database.ListLLMs(ctx, boolPtr(true))
	if err != nil {
		return fmt.Errorf("failed to list LLMs: %w", err)
	}
	if len(llms) == 0 {
		return fmt.Errorf("no enabled LLMs, add one first with 'geolens llm add'")
	}

	fmt.Printf("\n%sEnabled LLMs:%s\n", LabelStyle, Reset)
	for i, llmConfig := range llms {
		fmt.Printf("  %s%d.%s %s (%s/%s)\n", CountStyle, i+1, Reset, llmConfig.Name, llmConfig.Provider, llmConfig.Model)
	}

	llmIDs, err := pickByIndex(reader, "Select LLMs (e.g. 1,2 or 'all'): ", len(llms), func(i int) string {
		return llms[i].ID
	})
	if err != nil {
		return err
	}

	cronExpr, err := promptWithRetry(reader, "Cron expression (e.g. '0 8 * * *' for daily 8am): ", validateCronExpression)
	if err != nil {
		return err
	}

	schedule := &models.Schedule{
		ID:        uuid.New().String(),
		Name:      name,
		ProjectID: project.ID,
		PromptIDs: promptIDs,
		LLMIDs:    llmIDs,
		CronExpr:  cronExpr,
		Enabled:   true,
	}

	if err := database.CreateSchedule(ctx, schedule); err != nil {
		return fmt.Errorf("failed to create schedule: %w", err)
	}

	fmt.Println()
	fmt.Printf("%s✅ Schedule created: %s%s\n", SuccessStyle, schedule.ID, Reset)
	return nil
}

// pickByIndex prompts for a selection and maps the chosen indexes to IDs
func pickByIndex(reader *bufio.Reader, prompt string, count int, idAt func(int) string) ([]string, error) {
	for {
		fmt.Print(prompt)
		input, _ := reader.ReadString('\n')

		selections, err := validateSelection(strings.TrimSpace(input), count)
		if err != nil {
			fmt.Printf("❌ %s\n\n", err.Error())
			continue
		}

		ids := make([]string, len(selections))
		for i, selection := range selections {
			ids[i] = idAt(selection - 1)
		}
		return ids, nil
	}
}

func runScheduleDelete(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	if err := database.DeleteSchedule(ctx, args[0]); err != nil {
		return fmt.Errorf("failed to delete schedule: %w", err)
	}

	fmt.Printf("%s✅ Schedule deleted%s\n", SuccessStyle, Reset)
	return nil
}
