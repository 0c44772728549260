package cli

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/AI2HU/geolens/internal/shared"
)

var (
	competitorProjectID string
	competitorStart     string
	competitorEnd       string
	competitorLimit     int
)

var competitorsCmd = &cobra.Command{
	Use:   "competitors [name]",
	Short: "List competitors for a project, or the scans mentioning one",
	Long: `Without arguments, lists the configured competitors of a project.
With a competitor name, lists the scans that mention it, most recent first.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCompetitors,
}

func init() {
	competitorsCmd.Flags().StringVarP(&competitorProjectID, "project", "p", "", "Project ID (required)")
	competitorsCmd.Flags().StringVar(&competitorStart, "start", "", "Start date (YYYY-MM-DD)")
	competitorsCmd.Flags().StringVar(&competitorEnd, "end", "", "End date (YYYY-MM-DD)")
	competitorsCmd.Flags().IntVar(&competitorLimit, "limit", 20, "Maximum number of scans to show")
	competitorsCmd.MarkFlagRequired("project")
}

func runCompetitors(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	project, err := database.GetProject(ctx, competitorProjectID)
	if err != nil {
		return fmt.Errorf("failed to get project: %w", err)
	}

	if len(args) == 0 {
		fmt.Printf("%s🏁 Competitors of %s%s\n", HeaderStyle, project.Name, Reset)
		fmt.Println()
		if len(project.Competitors) == 0 {
			fmt.Printf("%sNo competitors configured%s\n", DimStyle, Reset)
			return nil
		}
		for _, name := range project.Competitors {
			fmt.Printf("  • %s\n", name)
		}
		return nil
	}

	name := args[0]
	filter := shared.ScanFilter{
		ProjectID: project.ID,
		StartTime: shared.ParseDate(competitorStart),
		EndTime:   shared.ParseDate(competitorEnd),
		Limit:     competitorLimit,
	}

	scans, err := database.ListScansMentioning(ctx, project.ID, name, filter)
	if err != nil {
		return fmt.Errorf("failed to list scans: %w", err)
	}

	fmt.Printf("%s🔍 Scans mentioning %s%s\n", HeaderStyle, name, Reset)
	fmt.Println()
	if len(scans) == 0 {
		fmt.Printf("%sNo scans mention this competitor%s\n", DimStyle, Reset)
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "EXECUTED AT\tMODEL\tPOSITION\tKEYWORDS")
	for _, scan := range scans {
		for _, result := range scan.Results {
			for _, mention := range result.CompetitorMentions {
				if mention.Name != name {
					continue
				}
				keywords := ""
				for i, keyword := range mention.Keywords {
					if i > 0 {
						keywords += ", "
					}
					keywords += keyword
				}
				fmt.Fprintf(w, "%s\t%s\t%d\t%s\n",
					scan.ExecutedAt.Format("2006-01-02 15:04"), result.Model, mention.Position, keywords)
			}
		}
	}
	w.Flush()

	return nil
}
