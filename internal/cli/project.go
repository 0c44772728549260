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

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Manage projects",
	Long:  `Manage monitored brands and their competitive sets.`,
}

var projectListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all projects",
	RunE:  runProjectList,
}

var projectAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a new project",
	RunE:  runProjectAdd,
}

var projectDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a project and its scan history",
	Args:  cobra.ExactArgs(1),
	RunE:  runProjectDelete,
}

func init() {
	projectCmd.AddCommand(projectListCmd)
	projectCmd.AddCommand(projectAddCmd)
	projectCmd.AddCommand(projectDeleteCmd)
}

func runProjectList(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	projects, err := database.ListProjects(ctx, "")
	if err != nil {
		return fmt.Errorf("failed to list projects: %w", err)
	}

	if len(projects) == 0 {
		fmt.Printf("%sNo projects yet. Create one with 'geolens project add'%s\n", WarningStyle, Reset)
		return nil
	}

	fmt.Printf("%s📁 Projects%s\n", HeaderStyle, Reset)
	fmt.Printf("%s===========%s\n", DimStyle, Reset)
	fmt.Println()

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tBRAND\tPLAN\tCOMPETITORS")
	for _, project := range projects {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\n",
			project.ID, project.Name, project.Brand, project.Plan, len(project.Competitors))
	}
	return w.Flush()
}

func runProjectAdd(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	reader := bufio.NewReader(os.Stdin)

	fmt.Printf("%s📁 New Project%s\n", HeaderStyle, Reset)
	fmt.Printf("%s==============%s\n", DimStyle, Reset)
	fmt.Println()

	name, err := promptRequired(reader, "Project name: ")
	if err != nil {
		return err
	}

	brand, err := promptRequired(reader, "Brand name to track: ")
	if err != nil {
		return err
	}

	competitorsInput, err := promptOptional(reader, "Competitors (comma-separated, optional): ", "")
	if err != nil {
		return err
	}

	var competitors []string
	for _, competitor := range strings.Split(competitorsInput, ",") {
		competitor = strings.TrimSpace(competitor)
		if competitor != "" {
			competitors = append(competitors, competitor)
		}
	}

	planInput, err := promptOptional(reader, "Plan (free/starter/growth/scale) [free]: ", "free")
	if err != nil {
		return err
	}

	project := &models.Project{
		ID:          uuid.New().String(),
		Name:        name,
		Brand:       brand,
		Competitors: competitors,
		Plan:        models.Plan(planInput),
	}

	if err := database.CreateProject(ctx, project); err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}

	fmt.Println()
	fmt.Printf("%s✅ Project created: %s%s\n", SuccessStyle, project.ID, Reset)
	return nil
}

func runProjectDelete(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	id := args[0]

	project, err := database.GetProject(ctx, id)
	if err != nil {
		return fmt.Errorf("project not found: %w", err)
	}

	reader := bufio.NewReader(os.Stdin)
	confirmed, err := promptYesNo(reader, fmt.Sprintf("Delete project '%s' and all its scans? (y/N): ", project.Name))
	if err != nil {
		return err
	}
	if !confirmed {
		fmt.Println("Cancelled.")
		return nil
	}

	if err := database.DeleteProject(ctx, id); err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}

	deleted, err := database.DeleteScansByProject(ctx, id)
	if err != nil {
		fmt.Printf("%s⚠️  Project deleted, but scan cleanup failed: %v%s\n", WarningStyle, err, Reset)
		return nil
	}

	fmt.Printf("%s✅ Project deleted (%s scans removed)%s\n", SuccessStyle, FormatCount(deleted), Reset)
	return nil
}
