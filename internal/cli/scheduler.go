package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "Run the scan scheduler",
}

var schedulerStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the scheduler daemon",
	Long: `Starts the cron scheduler and keeps it running in the foreground.
Every enabled schedule is registered and executed on its cron expression
until the process receives an interrupt.`,
	RunE: runSchedulerStart,
}

func init() {
	schedulerCmd.AddCommand(schedulerStartCmd)
}

func runSchedulerStart(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	if err := initializeLLMProviders(ctx); err != nil {
		return fmt.Errorf("failed to initialize LLM providers: %w", err)
	}

	schedules, err := database.ListSchedules(ctx, boolPtr(true))
	if err != nil {
		return fmt.Errorf("failed to list schedules: %w", err)
	}

	fmt.Printf("%s⏰ Starting scheduler%s\n", HeaderStyle, Reset)
	fmt.Println()
	if len(schedules) == 0 {
		fmt.Printf("%sNo enabled schedules. The scheduler will idle until one is added and the process is restarted.%s\n", WarningStyle, Reset)
	}
	for _, schedule := range schedules {
		fmt.Printf("  • %s (%s)\n", schedule.Name, schedule.CronExpr)
	}
	fmt.Println()

	if err := sched.Start(ctx); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}

	fmt.Printf("%sScheduler running. Press Ctrl+C to stop.%s\n", InfoStyle, Reset)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	fmt.Printf("\n%sStopping scheduler...%s\n", InfoStyle, Reset)
	sched.Stop()
	fmt.Printf("%s✅ Scheduler stopped%s\n", SuccessStyle, Reset)

	return nil
}
