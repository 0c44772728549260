package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/AI2HU/geolens/internal/api"
)

var (
	apiPort    string
	apiHost    string
	corsOrigin string
)

var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the REST API server",
	Long: `Starts the HTTP server exposing projects, prompts, schedules, LLM
configurations, and the dashboard and historical analytics endpoints.`,
	RunE: runAPI,
}

func init() {
	apiCmd.Flags().StringVarP(&apiPort, "port", "P", "8080", "Port to listen on")
	apiCmd.Flags().StringVarP(&apiHost, "host", "H", "0.0.0.0", "Host to bind to")
	apiCmd.Flags().StringVar(&corsOrigin, "cors-origin", "", "Allowed CORS origin (default: all)")
}

func runAPI(cmd *cobra.Command, args []string) error {
	origin := corsOrigin
	if origin == "" {
		origin = cfg.Server.CORSOrigin
	}

	server := api.NewServer(database, llmRegistry, origin)

	addr := fmt.Sprintf("%s:%s", apiHost, apiPort)
	fmt.Printf("%s🌐 GeoLens API%s\n", HeaderStyle, Reset)
	fmt.Println()
	fmt.Printf("%sListening on:%s http://%s\n", LabelStyle, Reset, addr)
	fmt.Println()
	fmt.Println("Endpoints:")
	fmt.Println("  GET    /api/v1/health")
	fmt.Println("  CRUD   /api/v1/projects")
	fmt.Println("  GET    /api/v1/projects/:id/dashboard")
	fmt.Println("  GET    /api/v1/projects/:id/history")
	fmt.Println("  GET    /api/v1/projects/:id/competitors/:name/scans")
	fmt.Println("  CRUD   /api/v1/prompts")
	fmt.Println("  CRUD   /api/v1/schedules")
	fmt.Println("  CRUD   /api/v1/llms")
	fmt.Println("  GET    /api/v1/providers")
	fmt.Println("  GET    /api/v1/providers/:name/models")
	fmt.Println()
	fmt.Printf("%sPress Ctrl+C to stop%s\n", DimStyle, Reset)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Printf("\n%sShutting down...%s\n", InfoStyle, Reset)
		database.Disconnect(context.Background())
		os.Exit(0)
	}()

	if err := server.Run(addr); err != nil {
		return fmt.Errorf("failed to start API server: %w", err)
	}

	return nil
}
