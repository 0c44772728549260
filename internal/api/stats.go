package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/AI2HU/geolens/internal/services"
	"github.com/AI2HU/geolens/internal/shared"
)

// Analytics endpoints

// getDashboard handles GET /api/v1/projects/:id/dashboard
func (s *Server) getDashboard(c *gin.Context) {
	projectID := c.Param("id")

	windowDays := 0
	if windowStr := c.Query("window_days"); windowStr != "" {
		parsed, err := strconv.Atoi(windowStr)
		if err != nil || parsed < 1 || parsed > 365 {
			s.errorResponse(c, http.StatusBadRequest, "window_days must be between 1 and 365")
			return
		}
		windowDays = parsed
	}

	stats, err := s.dashboardService.GetDashboardStats(c.Request.Context(), projectID, s.ownerID(c), windowDays)
	if err != nil {
		s.analyticsError(c, err)
		return
	}

	s.successResponse(c, stats)
}

// getHistory handles GET /api/v1/projects/:id/history
func (s *Server) getHistory(c *gin.Context) {
	projectID := c.Param("id")

	start := shared.ParseDateParam(c, "start")
	end := shared.ParseDateParam(c, "end")

	stats, err := s.historicalService.GetHistoricalStats(c.Request.Context(), projectID, s.ownerID(c), start, end)
	if err != nil {
		s.analyticsError(c, err)
		return
	}
	if stats == nil {
		s.errorResponse(c, http.StatusForbidden, "Historical analytics are not available on this plan")
		return
	}

	s.successResponse(c, stats)
}

// getCompetitorScans handles GET /api/v1/projects/:id/competitors/:name/scans
func (s *Server) getCompetitorScans(c *gin.Context) {
	projectID := c.Param("id")
	competitor := c.Param("name")

	project, err := s.db.GetProject(c.Request.Context(), projectID)
	if err != nil {
		s.errorResponse(c, http.StatusNotFound, "Project not found: "+err.Error())
		return
	}
	if owner := s.ownerID(c); owner != "" && project.OwnerID != owner {
		s.errorResponse(c, http.StatusForbidden, "Project belongs to another owner")
		return
	}

	_, limit := s.parsePagination(c)
	filter := shared.ScanFilter{
		StartTime: shared.ParseDateParam(c, "start"),
		EndTime:   shared.ParseDateParam(c, "end"),
		Limit:     limit,
	}

	scans, err := s.db.ListScansMentioning(c.Request.Context(), projectID, competitor, filter)
	if err != nil {
		s.errorResponse(c, http.StatusInternalServerError, "Failed to search scans: "+err.Error())
		return
	}

	s.successResponse(c, scans)
}

// analyticsError maps service sentinel errors onto HTTP statuses
func (s *Server) analyticsError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrProjectNotFound):
		s.errorResponse(c, http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrForbidden):
		s.errorResponse(c, http.StatusForbidden, err.Error())
	default:
		s.errorResponse(c, http.StatusInternalServerError, err.Error())
	}
}
