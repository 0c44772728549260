package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/AI2HU/geolens/internal/models"
	"github.com/AI2HU/geolens/internal/shared"
)

// Prompt request structures
type CreatePromptRequest struct {
	ProjectID string `json:"project_id" binding:"required"`
	Content   string `json:"content" binding:"required"`
	Category  string `json:"category,omitempty"`
	Enabled   bool   `json:"enabled"`
}

type UpdatePromptRequest struct {
	Content  string `json:"content,omitempty"`
	Category string `json:"category,omitempty"`
	Enabled  *bool  `json:"enabled,omitempty"`
}

// Prompt endpoints

// listPrompts handles GET /api/v1/prompts
func (s *Server) listPrompts(c *gin.Context) {
	enabled := shared.ParseEnabledFilter(c)
	projectID := c.Query("project_id")

	page, limit := s.parsePagination(c)

	prompts, err := s.db.ListPrompts(c.Request.Context(), projectID, enabled)
	if err != nil {
		s.errorResponse(c, http.StatusInternalServerError, "Failed to list prompts: "+err.Error())
		return
	}

	total := len(prompts)
	start := (page - 1) * limit
	end := start + limit

	if start >= total {
		prompts = []*models.Prompt{}
	} else {
		if end > total {
			end = total
		}
		prompts = prompts[start:end]
	}

	totalPages := (total + limit - 1) / limit

	c.JSON(http.StatusOK, models.PaginatedResponse{
		Data: prompts,
		Pagination: models.Pagination{
			Page:       page,
			Limit:      limit,
			Total:      int64(total),
			TotalPages: totalPages,
		},
	})
}

// getPrompt handles GET /api/v1/prompts/:id
func (s *Server) getPrompt(c *gin.Context) {
	id := c.Param("id")

	prompt, err := s.db.GetPrompt(c.Request.Context(), id)
	if err != nil {
		s.errorResponse(c, http.StatusNotFound, "Prompt not found: "+err.Error())
		return
	}

	s.successResponse(c, prompt)
}

// createPrompt handles POST /api/v1/prompts
func (s *Server) createPrompt(c *gin.Context) {
	var req CreatePromptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.errorResponse(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	if len(req.Content) > 10000 {
		s.errorResponse(c, http.StatusBadRequest, "Content too long (max 10000 characters)")
		return
	}

	if _, err := s.db.GetProject(c.Request.Context(), req.ProjectID); err != nil {
		s.errorResponse(c, http.StatusNotFound, "Project not found: "+err.Error())
		return
	}

	prompt := &models.Prompt{
		ID:        uuid.New().String(),
		ProjectID: req.ProjectID,
		Content:   req.Content,
		Category:  req.Category,
		Enabled:   req.Enabled,
	}

	if err := s.db.CreatePrompt(c.Request.Context(), prompt); err != nil {
		s.errorResponse(c, http.StatusInternalServerError, "Failed to create prompt: "+err.Error())
		return
	}

	c.JSON(http.StatusCreated, models.APIResponse{
		Success: true,
		Data:    prompt,
		Message: "Prompt created successfully",
	})
}

// updatePrompt handles PUT /api/v1/prompts/:id
func (s *Server) updatePrompt(c *gin.Context) {
	id := c.Param("id")

	var req UpdatePromptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.errorResponse(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	prompt, err := s.db.GetPrompt(c.Request.Context(), id)
	if err != nil {
		s.errorResponse(c, http.StatusNotFound, "Prompt not found: "+err.Error())
		return
	}

	if req.Content != "" {
		if len(req.Content) > 10000 {
			s.errorResponse(c, http.StatusBadRequest, "Content too long (max 10000 characters)")
			return
		}
		prompt.Content = req.Content
	}
	if req.Category != "" {
		prompt.Category = req.Category
	}
	if req.Enabled != nil {
		prompt.Enabled = *req.Enabled
	}

	if err := s.db.UpdatePrompt(c.Request.Context(), prompt); err != nil {
		s.errorResponse(c, http.StatusInternalServerError, "Failed to update prompt: "+err.Error())
		return
	}

	s.successResponse(c, prompt)
}

// deletePrompt handles DELETE /api/v1/prompts/:id
func (s *Server) deletePrompt(c *gin.Context) {
	id := c.Param("id")

	if err := s.db.DeletePrompt(c.Request.Context(), id); err != nil {
		s.errorResponse(c, http.StatusNotFound, "Prompt not found: "+err.Error())
		return
	}

	c.JSON(http.StatusOK, models.APIResponse{
		Success: true,
		Message: "Prompt deleted successfully",
	})
}
