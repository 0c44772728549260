package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"github.com/AI2HU/geolens/internal/models"
	"github.com/AI2HU/geolens/internal/shared"
)

// Schedule request structures
type CreateScheduleRequest struct {
	Name      string   `json:"name" binding:"required"`
	ProjectID string   `json:"project_id" binding:"required"`
	PromptIDs []string `json:"prompt_ids" binding:"required"`
	LLMIDs    []string `json:"llm_ids" binding:"required"`
	CronExpr  string   `json:"cron_expr" binding:"required"`
	Enabled   bool     `json:"enabled"`
}

type UpdateScheduleRequest struct {
	Name      string   `json:"name,omitempty"`
	PromptIDs []string `json:"prompt_ids,omitempty"`
	LLMIDs    []string `json:"llm_ids,omitempty"`
	CronExpr  string   `json:"cron_expr,omitempty"`
	Enabled   *bool    `json:"enabled,omitempty"`
}

// Schedule endpoints

// listSchedules handles GET /api/v1/schedules
func (s *Server) listSchedules(c *gin.Context) {
	enabled := shared.ParseEnabledFilter(c)

	schedules, err := s.db.ListSchedules(c.Request.Context(), enabled)
	if err != nil {
		s.errorResponse(c, http.StatusInternalServerError, "Failed to list schedules: "+err.Error())
		return
	}

	s.successResponse(c, schedules)
}

// getSchedule handles GET /api/v1/schedules/:id
func (s *Server) getSchedule(c *gin.Context) {
	id := c.Param("id")

	schedule, err := s.db.GetSchedule(c.Request.Context(), id)
	if err != nil {
		s.errorResponse(c, http.StatusNotFound, "Schedule not found: "+err.Error())
		return
	}

	s.successResponse(c, schedule)
}

// createSchedule handles POST /api/v1/schedules
func (s *Server) createSchedule(c *gin.Context) {
	var req CreateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.errorResponse(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	if _, err := cron.ParseStandard(req.CronExpr); err != nil {
		s.errorResponse(c, http.StatusBadRequest, "Invalid cron expression: "+err.Error())
		return
	}

	if _, err := s.db.GetProject(c.Request.Context(), req.ProjectID); err != nil {
		s.errorResponse(c, http.StatusNotFound, "Project not found: "+err.Error())
		return
	}

	schedule := &models.Schedule{
		ID:        uuid.New().String(),
		Name:      req.Name,
		ProjectID: req.ProjectID,
		PromptIDs: req.PromptIDs,
		LLMIDs:    req.LLMIDs,
		CronExpr:  req.CronExpr,
		Enabled:   req.Enabled,
	}

	if err := s.db.CreateSchedule(c.Request.Context(), schedule); err != nil {
		s.errorResponse(c, http.StatusInternalServerError, "Failed to create schedule: "+err.Error())
		return
	}

	c.JSON(http.StatusCreated, models.APIResponse{
		Success: true,
		Data:    schedule,
		Message: "Schedule created successfully",
	})
}

// updateSchedule handles PUT /api/v1/schedules/:id
func (s *Server) updateSchedule(c *gin.Context) {
	id := c.Param("id")

	var req UpdateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.errorResponse(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	schedule, err := s.db.GetSchedule(c.Request.Context(), id)
	if err != nil {
		s.errorResponse(c, http.StatusNotFound, "Schedule not found: "+err.Error())
		return
	}

	if req.Name != "" {
		schedule.Name = req.Name
	}
	if req.PromptIDs != nil {
		schedule.PromptIDs = req.PromptIDs
	}
	if req.LLMIDs != nil {
		schedule.LLMIDs = req.LLMIDs
	}
	if req.CronExpr != "" {
		if _, err := cron.ParseStandard(req.CronExpr); err != nil {
			s.errorResponse(c, http.StatusBadRequest, "Invalid cron expression: "+err.Error())
			return
		}
		schedule.CronExpr = req.CronExpr
	}
	if req.Enabled != nil {
		schedule.Enabled = *req.Enabled
	}

	if err := s.db.UpdateSchedule(c.Request.Context(), schedule); err != nil {
		s.errorResponse(c, http.StatusInternalServerError, "Failed to update schedule: "+err.Error())
		return
	}

	s.successResponse(c, schedule)
}

// deleteSchedule handles DELETE /api/v1/schedules/:id
func (s *Server) deleteSchedule(c *gin.Context) {
	id := c.Param("id")

	if err := s.db.DeleteSchedule(c.Request.Context(), id); err != nil {
		s.errorResponse(c, http.StatusNotFound, "Schedule not found: "+err.Error())
		return
	}

	c.JSON(http.StatusOK, models.APIResponse{
		Success: true,
		Message: "Schedule deleted successfully",
	})
}
