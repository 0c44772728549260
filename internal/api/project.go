package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/AI2HU/geolens/internal/logger"
	"github.com/AI2HU/geolens/internal/models"
)

// Project request structures
type CreateProjectRequest struct {
	Name        string   `json:"name" binding:"required"`
	Brand       string   `json:"brand" binding:"required"`
	Competitors []string `json:"competitors,omitempty"`
	Plan        string   `json:"plan,omitempty"`
}

type UpdateProjectRequest struct {
	Name        string   `json:"name,omitempty"`
	Brand       string   `json:"brand,omitempty"`
	Competitors []string `json:"competitors,omitempty"`
	Plan        string   `json:"plan,omitempty"`
}

// Project endpoints

// listProjects handles GET /api/v1/projects
func (s *Server) listProjects(c *gin.Context) {
	projects, err := s.db.ListProjects(c.Request.Context(), s.ownerID(c))
	if err != nil {
		s.errorResponse(c, http.StatusInternalServerError, "Failed to list projects: "+err.Error())
		return
	}

	s.successResponse(c, projects)
}

// getProject handles GET /api/v1/projects/:id
func (s *Server) getProject(c *gin.Context) {
	id := c.Param("id")

	project, err := s.db.GetProject(c.Request.Context(), id)
	if err != nil {
		s.errorResponse(c, http.StatusNotFound, "Project not found: "+err.Error())
		return
	}
	if owner := s.ownerID(c); owner != "" && project.OwnerID != owner {
		s.errorResponse(c, http.StatusForbidden, "Project belongs to another owner")
		return
	}

	s.successResponse(c, project)
}

// createProject handles POST /api/v1/projects
func (s *Server) createProject(c *gin.Context) {
	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.errorResponse(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	if len(req.Competitors) > 50 {
		s.errorResponse(c, http.StatusBadRequest, "Too many competitors (max 50)")
		return
	}

	plan := models.Plan(req.Plan)
	if req.Plan == "" {
		plan = models.PlanFree
	}

	project := &models.Project{
		ID:          uuid.New().String(),
		Name:        req.Name,
		Brand:       req.Brand,
		Competitors: req.Competitors,
		Plan:        plan,
		OwnerID:     s.ownerID(c),
	}

	if err := s.db.CreateProject(c.Request.Context(), project); err != nil {
		s.errorResponse(c, http.StatusInternalServerError, "Failed to create project: "+err.Error())
		return
	}

	c.JSON(http.StatusCreated, models.APIResponse{
		Success: true,
		Data:    project,
		Message: "Project created successfully",
	})
}

// updateProject handles PUT /api/v1/projects/:id
func (s *Server) updateProject(c *gin.Context) {
	id := c.Param("id")

	var req UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.errorResponse(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	project, err := s.db.GetProject(c.Request.Context(), id)
	if err != nil {
		s.errorResponse(c, http.StatusNotFound, "Project not found: "+err.Error())
		return
	}
	if owner := s.ownerID(c); owner != "" && project.OwnerID != owner {
		s.errorResponse(c, http.StatusForbidden, "Project belongs to another owner")
		return
	}

	if req.Name != "" {
		project.Name = req.Name
	}
	if req.Brand != "" {
		project.Brand = req.Brand
	}
	if req.Competitors != nil {
		if len(req.Competitors) > 50 {
			s.errorResponse(c, http.StatusBadRequest, "Too many competitors (max 50)")
			return
		}
		project.Competitors = req.Competitors
	}
	if req.Plan != "" {
		project.Plan = models.Plan(req.Plan)
	}

	if err := s.db.UpdateProject(c.Request.Context(), project); err != nil {
		s.errorResponse(c, http.StatusInternalServerError, "Failed to update project: "+err.Error())
		return
	}

	s.successResponse(c, project)
}

// deleteProject handles DELETE /api/v1/projects/:id.
// Stored scans for the project are removed as well.
func (s *Server) deleteProject(c *gin.Context) {
	id := c.Param("id")

	project, err := s.db.GetProject(c.Request.Context(), id)
	if err != nil {
		s.errorResponse(c, http.StatusNotFound, "Project not found: "+err.Error())
		return
	}
	if owner := s.ownerID(c); owner != "" && project.OwnerID != owner {
		s.errorResponse(c, http.StatusForbidden, "Project belongs to another owner")
		return
	}

	if err := s.db.DeleteProject(c.Request.Context(), id); err != nil {
		s.errorResponse(c, http.StatusInternalServerError, "Failed to delete project: "+err.Error())
		return
	}

	deleted, err := s.db.DeleteScansByProject(c.Request.Context(), id)
	if err != nil {
		logger.Error("Failed to delete scans for project %s: %v", id, err)
	} else {
		logger.Info("Deleted %d scans for project %s", deleted, id)
	}

	c.JSON(http.StatusOK, models.APIResponse{
		Success: true,
		Message: "Project deleted successfully",
	})
}
