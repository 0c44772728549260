package cli

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/AI2HU/geolens/internal/services"
	"github.com/AI2HU/geolens/internal/shared"
)

var dashboardWindowDays int

var dashboardCmd = &cobra.Command{
	Use:   "dashboard [project-id]",
	Short: "Show the live dashboard for a project",
	Args:  cobra.ExactArgs(1),
	RunE:  runDashboard,
}

var (
	historyStart string
	historyEnd   string
)

var historyCmd = &cobra.Command{
	Use:   "history [project-id]",
	Short: "Show historical citation metrics for a project",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistory,
}

func init() {
	dashboardCmd.Flags().IntVarP(&dashboardWindowDays, "window", "w", 0, "Window in days (default 30)")

	historyCmd.Flags().StringVar(&historyStart, "start", "", "Start date (YYYY-MM-DD)")
	historyCmd.Flags().StringVar(&historyEnd, "end", "", "End date (YYYY-MM-DD)")
}

func formatRank(rank *float64) string {
	if rank == nil {
		return "-"
	}
	return fmt.Sprintf("%.1f", *rank)
}

func runDashboard(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	service := services.NewDashboardService(database)
	stats, err := service.GetDashboardStats(ctx, args[0], "", dashboardWindowDays)
	if err != nil {
		return err
	}

	fmt.Printf("%s📊 Dashboard (last %d days)%s\n", HeaderStyle, stats.WindowDays, Reset)
	fmt.Printf("%s===========================%s\n", DimStyle, Reset)
	fmt.Println()

	fmt.Printf("%sCitation rate:%s %s%.1f%%%s\n", LabelStyle, Reset, ValueStyle, stats.GlobalScore, Reset)
	fmt.Printf("%sAverage rank:%s %s%s%s\n", LabelStyle, Reset, ValueStyle, formatRank(stats.AverageRank), Reset)
	fmt.Printf("%sTotal scans:%s %s\n", LabelStyle, Reset, FormatCount(stats.TotalScans))
	if stats.LastScanAt != nil {
		fmt.Printf("%sLast scan:%s %s\n", LabelStyle, Reset, stats.LastScanAt.Format("2006-01-02 15:04"))
	}
	fmt.Printf("%sTrend:%s %s (delta %.2f)\n", LabelStyle, Reset, stats.Trend.Direction, stats.Trend.Delta)
	fmt.Println()

	fmt.Printf("%sBy provider:%s\n", LabelStyle, Reset)
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "  PROVIDER\tCITATION RATE\tAVG RANK\tSCANS")
	for _, provider := range stats.Providers {
		fmt.Fprintf(w, "  %s\t%.1f%%\t%s\t%d\n",
			provider.Provider, provider.CitationRate, formatRank(provider.AverageRank), provider.TotalScans)
	}
	w.Flush()
	fmt.Println()

	if len(stats.Models) > 0 {
		fmt.Printf("%sBy model:%s\n", LabelStyle, Reset)
		w = tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "  MODEL\tCITATION RATE\tAVG RANK\tSCANS")
		for _, model := range stats.Models {
			fmt.Fprintf(w, "  %s\t%.1f%%\t%s\t%d\n",
				model.Model, model.CitationRate, formatRank(model.AverageRank), model.TotalScans)
		}
		w.Flush()
		fmt.Println()
	}

	if len(stats.TopCompetitors) > 0 {
		fmt.Printf("%sTop competitors:%s\n", LabelStyle, Reset)
		w = tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "  NAME\tMENTIONS\tSHARE\tTREND\tKEYWORDS")
		for _, competitor := range stats.TopCompetitors {
			trend := competitor.Trend
			if competitor.TrendPercent != nil {
				trend = fmt.Sprintf("%s (%+d%%)", competitor.Trend, *competitor.TrendPercent)
			}
			keywords := ""
			for i, keyword := range competitor.Keywords {
				if i > 0 {
					keywords += ", "
				}
				keywords += keyword
			}
			fmt.Fprintf(w, "  %s\t%d\t%.1f%%\t%s\t%s\n",
				competitor.Name, competitor.Mentions, competitor.ShareOfVoice, trend, keywords)
		}
		w.Flush()
		fmt.Println()
	}

	if len(stats.PromptStats) > 0 {
		fmt.Printf("%sWeakest prompts first:%s\n", LabelStyle, Reset)
		w = tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "  PROMPT\tCITATION RATE\tAVG RANK\tSCANS")
		for _, prompt := range stats.PromptStats {
			content := prompt.Content
			if len(content) > 50 {
				content = content[:47] + "..."
			}
			fmt.Fprintf(w, "  %s\t%.1f%%\t%s\t%d\n",
				content, prompt.CitationRate, formatRank(prompt.AverageRank), prompt.TotalScans)
		}
		w.Flush()
	}

	return nil
}

func runHistory(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	start := shared.ParseDate(historyStart)
	end := shared.ParseDate(historyEnd)

	service := services.NewHistoricalService(database)
	stats, err := service.GetHistoricalStats(ctx, args[0], "", start, end)
	if err != nil {
		return err
	}
	if stats == nil {
		fmt.Printf("%sHistorical analytics are not available on this project's plan%s\n", WarningStyle, Reset)
		return nil
	}

	fmt.Printf("%s📈 History (%s buckets)%s\n", HeaderStyle, stats.Aggregation, Reset)
	fmt.Printf("%s======================%s\n", DimStyle, Reset)
	fmt.Println()

	fmt.Printf("%sWindow:%s %s to %s\n", LabelStyle, Reset,
		stats.EffectiveDateRange.Start.Format("2006-01-02"),
		stats.EffectiveDateRange.End.Format("2006-01-02"))
	if stats.IsLimited {
		fmt.Printf("%s⚠️  Window limited to the plan's %d day retention%s\n", WarningStyle, *stats.PlanLimit, Reset)
	}
	fmt.Printf("%sTotal scans:%s %s\n", LabelStyle, Reset, FormatCount(stats.TotalScans))
	fmt.Println()

	if len(stats.CitationRate) > 0 {
		fmt.Printf("%sCitation rate:%s\n", LabelStyle, Reset)
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		for _, point := range stats.CitationRate {
			fmt.Fprintf(w, "  %s\t%.1f%%\n", point.Date, point.Value)
		}
		w.Flush()
		fmt.Println()
	}

	if len(stats.AverageRank) > 0 {
		fmt.Printf("%sAverage rank:%s\n", LabelStyle, Reset)
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		for _, point := range stats.AverageRank {
			fmt.Fprintf(w, "  %s\t%.1f\n", point.Date, point.Value)
		}
		w.Flush()
		fmt.Println()
	}

	if len(stats.CompetitorTrends) > 0 {
		fmt.Printf("%sCompetitor trends:%s\n", LabelStyle, Reset)
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "  NAME\tMENTIONS\tSHARE\tTREND")
		for _, competitor := range stats.CompetitorTrends {
			trend := competitor.Trend
			if competitor.TrendPercent != nil {
				trend = fmt.Sprintf("%s (%+d%%)", competitor.Trend, *competitor.TrendPercent)
			}
			fmt.Fprintf(w, "  %s\t%d\t%.1f%%\t%s\n",
				competitor.Name, competitor.Mentions, competitor.ShareOfVoice, trend)
		}
		w.Flush()
	}

	return nil
}
