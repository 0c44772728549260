package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/AI2HU/geolens/internal/db"
	"github.com/AI2HU/geolens/internal/llm"
	"github.com/AI2HU/geolens/internal/models"
	"github.com/AI2HU/geolens/internal/services"
)

// Server is the REST API server
type Server struct {
	db                db.Database
	llmRegistry       *llm.Registry
	dashboardService  *services.DashboardService
	historicalService *services.HistoricalService
	engine            *gin.Engine
	corsOrigin        string
}

// NewServer creates a new API server
func NewServer(database db.Database, llmRegistry *llm.Registry, corsOrigin string) *Server {
	s := &Server{
		db:                database,
		llmRegistry:       llmRegistry,
		dashboardService:  services.NewDashboardService(database),
		historicalService: services.NewHistoricalService(database),
		engine:            gin.New(),
		corsOrigin:        corsOrigin,
	}

	s.engine.Use(gin.Recovery())
	s.engine.Use(s.corsMiddleware())
	s.setupRoutes()

	return s
}

// Run starts the HTTP server on addr
func (s *Server) Run(addr string) error {
	return s.engine.Run(addr)
}

func (s *Server) setupRoutes() {
	v1 := s.engine.Group("/api/v1")

	v1.GET("/health", s.healthCheck)

	v1.GET("/projects", s.listProjects)
	v1.POST("/projects", s.createProject)
	v1.GET("/projects/:id", s.getProject)
	v1.PUT("/projects/:id", s.updateProject)
	v1.DELETE("/projects/:id", s.deleteProject)

	v1.GET("/projects/:id/dashboard", s.getDashboard)
	v1.GET("/projects/:id/history", s.getHistory)
	v1.GET("/projects/:id/competitors/:name/scans", s.getCompetitorScans)

	v1.GET("/prompts", s.listPrompts)
	v1.POST("/prompts", s.createPrompt)
	v1.GET("/prompts/:id", s.getPrompt)
	v1.PUT("/prompts/:id", s.updatePrompt)
	v1.DELETE("/prompts/:id", s.deletePrompt)

	v1.GET("/schedules", s.listSchedules)
	v1.POST("/schedules", s.createSchedule)
	v1.GET("/schedules/:id", s.getSchedule)
	v1.PUT("/schedules/:id", s.updateSchedule)
	v1.DELETE("/schedules/:id", s.deleteSchedule)

	v1.GET("/llms", s.listLLMs)
	v1.POST("/llms", s.createLLM)
	v1.GET("/llms/:id", s.getLLM)
	v1.PUT("/llms/:id", s.updateLLM)
	v1.DELETE("/llms/:id", s.deleteLLM)
	v1.GET("/providers", s.listProviders)
	v1.GET("/providers/:name/models", s.listProviderModels)
}

func (s *Server) corsMiddleware() gin.HandlerFunc {
	origin := s.corsOrigin
	if origin == "" {
		origin = "*"
	}

	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", origin)
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Owner-ID")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// healthCheck handles GET /api/v1/health
func (s *Server) healthCheck(c *gin.Context) {
	if err := s.db.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, models.APIResponse{
			Success: false,
			Error:   "Database connection failed",
		})
		return
	}

	c.JSON(http.StatusOK, models.APIResponse{
		Success: true,
		Data: map[string]interface{}{
			"status":    "healthy",
			"timestamp": time.Now(),
		},
	})
}

// ownerID returns the caller identity, empty when unauthenticated
func (s *Server) ownerID(c *gin.Context) string {
	return c.GetHeader("X-Owner-ID")
}

func (s *Server) successResponse(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, models.APIResponse{
		Success: true,
		Data:    data,
	})
}

func (s *Server) errorResponse(c *gin.Context, status int, message string) {
	c.JSON(status, models.APIResponse{
		Success: false,
		Error:   message,
	})
}

// parsePagination parses page/limit query parameters with defaults
func (s *Server) parsePagination(c *gin.Context) (page, limit int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit < 1 || limit > 500 {
		limit = 50
	}
	return page, limit
}

// maskAPIKey masks an API key for display (first 4 and last 4 characters)
func (s *Server) maskAPIKey(apiKey string) string {
	if apiKey == "" {
		return ""
	}
	if len(apiKey) <= 8 {
		return "***"
	}
	return apiKey[:4] + "..." + apiKey[len(apiKey)-4:]
}
