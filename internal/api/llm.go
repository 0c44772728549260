package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/AI2HU/geolens/internal/models"
	"github.com/AI2HU/geolens/internal/shared"
)

// LLM request/response structures
type CreateLLMRequest struct {
	Name     string            `json:"name" binding:"required"`
	Provider string            `json:"provider" binding:"required"`
	Model    string            `json:"model" binding:"required"`
	APIKey   string            `json:"api_key,omitempty"`
	BaseURL  string            `json:"base_url,omitempty"`
	Config   map[string]string `json:"config,omitempty"`
	Enabled  bool              `json:"enabled"`
}

type UpdateLLMRequest struct {
	Name    string            `json:"name,omitempty"`
	Model   string            `json:"model,omitempty"`
	APIKey  string            `json:"api_key,omitempty"`
	BaseURL string            `json:"base_url,omitempty"`
	Config  map[string]string `json:"config,omitempty"`
	Enabled *bool             `json:"enabled,omitempty"`
}

// LLMResponse is the API view of an LLM configuration, with the key masked
type LLMResponse struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Provider  string            `json:"provider"`
	Model     string            `json:"model"`
	APIKey    string            `json:"api_key,omitempty"`
	BaseURL   string            `json:"base_url,omitempty"`
	Config    map[string]string `json:"config,omitempty"`
	Enabled   bool              `json:"enabled"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

func (s *Server) llmResponse(llm *models.LLMConfig) LLMResponse {
	return LLMResponse{
		ID:        llm.ID,
		Name:      llm.Name,
		Provider:  llm.Provider,
		Model:     llm.Model,
		APIKey:    s.maskAPIKey(llm.APIKey),
		BaseURL:   llm.BaseURL,
		Config:    llm.Config,
		Enabled:   llm.Enabled,
		CreatedAt: llm.CreatedAt,
		UpdatedAt: llm.UpdatedAt,
	}
}

// LLM endpoints

// listLLMs handles GET /api/v1/llms
func (s *Server) listLLMs(c *gin.Context) {
	enabled := shared.ParseEnabledFilter(c)

	llms, err := s.db.ListLLMs(c.Request.Context(), enabled)
	if err != nil {
		s.errorResponse(c, http.StatusInternalServerError, "Failed to list LLMs: "+err.Error())
		return
	}

	responses := make([]LLMResponse, len(llms))
	for i, llm := range llms {
		responses[i] = s.llmResponse(llm)
	}

	s.successResponse(c, responses)
}

// getLLM handles GET /api/v1/llms/:id
func (s *Server) getLLM(c *gin.Context) {
	id := c.Param("id")

	llm, err := s.db.GetLLM(c.Request.Context(), id)
	if err != nil {
		s.errorResponse(c, http.StatusNotFound, "LLM not found: "+err.Error())
		return
	}

	s.successResponse(c, s.llmResponse(llm))
}

// createLLM handles POST /api/v1/llms
func (s *Server) createLLM(c *gin.Context) {
	var req CreateLLMRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.errorResponse(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	provider, err := s.llmRegistry.Get(req.Provider)
	if err != nil {
		s.errorResponse(c, http.StatusBadRequest, "Invalid provider. Must be one of: openai, anthropic, google, ollama, perplexity")
		return
	}

	providerConfig := map[string]string{"api_key": req.APIKey}
	if err := provider.Validate(providerConfig); err != nil {
		s.errorResponse(c, http.StatusBadRequest, "Invalid provider config: "+err.Error())
		return
	}

	llmConfig := &models.LLMConfig{
		ID:       uuid.New().String(),
		Name:     req.Name,
		Provider: req.Provider,
		Model:    req.Model,
		APIKey:   req.APIKey,
		BaseURL:  req.BaseURL,
		Config:   req.Config,
		Enabled:  req.Enabled,
	}

	if err := s.db.CreateLLM(c.Request.Context(), llmConfig); err != nil {
		s.errorResponse(c, http.StatusInternalServerError, "Failed to create LLM: "+err.Error())
		return
	}

	c.JSON(http.StatusCreated, models.APIResponse{
		Success: true,
		Data:    s.llmResponse(llmConfig),
		Message: "LLM created successfully",
	})
}

// updateLLM handles PUT /api/v1/llms/:id
func (s *Server) updateLLM(c *gin.Context) {
	id := c.Param("id")

	var req UpdateLLMRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.errorResponse(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	llmConfig, err := s.db.GetLLM(c.Request.Context(), id)
	if err != nil {
		s.errorResponse(c, http.StatusNotFound, "LLM not found: "+err.Error())
		return
	}

	if req.Name != "" {
		llmConfig.Name = req.Name
	}
	if req.Model != "" {
		llmConfig.Model = req.Model
	}
	if req.APIKey != "" {
		llmConfig.APIKey = req.APIKey
	}
	if req.BaseURL != "" {
		llmConfig.BaseURL = req.BaseURL
	}
	if req.Config != nil {
		llmConfig.Config = req.Config
	}
	if req.Enabled != nil {
		llmConfig.Enabled = *req.Enabled
	}

	if err := s.db.UpdateLLM(c.Request.Context(), llmConfig); err != nil {
		s.errorResponse(c, http.StatusInternalServerError, "Failed to update LLM: "+err.Error())
		return
	}

	s.successResponse(c, s.llmResponse(llmConfig))
}

// deleteLLM handles DELETE /api/v1/llms/:id
func (s *Server) deleteLLM(c *gin.Context) {
	id := c.Param("id")

	if err := s.db.DeleteLLM(c.Request.Context(), id); err != nil {
		s.errorResponse(c, http.StatusNotFound, "LLM not found: "+err.Error())
		return
	}

	c.JSON(http.StatusOK, models.APIResponse{
		Success: true,
		Message: "LLM deleted successfully",
	})
}

// listProviders handles GET /api/v1/providers
func (s *Server) listProviders(c *gin.Context) {
	s.successResponse(c, s.llmRegistry.List())
}

// listProviderModels handles GET /api/v1/providers/:name/models
func (s *Server) listProviderModels(c *gin.Context) {
	name := c.Param("name")

	provider, err := s.llmRegistry.Get(name)
	if err != nil {
		s.errorResponse(c, http.StatusNotFound, "Unknown provider: "+name)
		return
	}

	apiKey := c.Query("api_key")
	baseURL := c.Query("base_url")

	modelList, err := provider.ListModels(c.Request.Context(), apiKey, baseURL)
	if err != nil {
		s.errorResponse(c, http.StatusBadGateway, "Failed to list models: "+err.Error())
		return
	}

	s.successResponse(c, modelList)
}
