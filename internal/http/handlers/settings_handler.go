// AI service settings HTTP handlers.
//
// This file exposes CRUD for a user's provider configurations:
//   - GET    /chat/ai-service-settings
//   - POST   /chat/ai-service-settings
//   - PUT    /chat/ai-service-settings/{id}
//   - DELETE /chat/ai-service-settings/{id}
//   - POST   /chat/ai-service-settings/{id}/activate
//
// API keys are write-only: requests may carry api_key, responses only say
// whether one is stored.
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/tbourn/go-sparky-backend/internal/domain"
	"github.com/tbourn/go-sparky-backend/internal/services"
)

// ServiceConfigResponse is the public view of a provider configuration.
type ServiceConfigResponse struct {
	ID           string    `json:"id"                      example:"5f0c8c8e-0d3c-4c55-9a55-2f6f0c1b7d11"`
	ServiceName  string    `json:"service_name"            example:"My OpenAI"`
	ServiceType  string    `json:"service_type"            example:"openai"`
	CustomURL    string    `json:"custom_url,omitempty"`
	ModelName    string    `json:"model_name,omitempty"    example:"gpt-4o-mini"`
	SystemPrompt string    `json:"system_prompt,omitempty"`
	IsActive     bool      `json:"is_active"`
	HasAPIKey    bool      `json:"has_api_key"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func toServiceConfigResponse(s *domain.ServiceConfig) ServiceConfigResponse {
	return ServiceConfigResponse{
		ID:           s.ID,
		ServiceName:  s.ServiceName,
		ServiceType:  s.ServiceType,
		CustomURL:    s.CustomURL,
		ModelName:    s.ModelName,
		SystemPrompt: s.SystemPrompt,
		IsActive:     s.IsActive,
		HasAPIKey:    s.HasAPIKey(),
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}
}

// configID validates the :id path parameter.
func configID(c *gin.Context) (string, bool) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "id must be a UUID")
		return "", false
	}
	return id, true
}

// ListServiceConfigs godoc
// @ID          listServiceConfigs
// @Summary     List AI service configurations
// @Tags        Settings
// @Produce     json
// @Param       X-User-ID  header  string  false "User ID (when JWT auth is off)"  example(user123)
// @Success     200  {array}   handlers.ServiceConfigResponse
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /chat/ai-service-settings [get]
func (h *Handlers) ListServiceConfigs(c *gin.Context) {
	uid, okID := userID(c)
	if !okID {
		return
	}
	items, err := h.settings.List(c.Request.Context(), uid)
	if err != nil {
		failErr(c, err, ErrCodeListFailed)
		return
	}
	out := make([]ServiceConfigResponse, 0, len(items))
	for i := range items {
		out = append(out, toServiceConfigResponse(&items[i]))
	}
	ok(c, http.StatusOK, out)
}

// CreateServiceConfig godoc
// @ID          createServiceConfig
// @Summary     Add an AI service configuration
// @Description The API key is encrypted before storage. The first configuration, or one created with is_active=true, becomes the active one.
// @Tags        Settings
// @Accept      json
// @Produce     json
// @Param       X-User-ID  header  string  false "User ID (when JWT auth is off)"  example(user123)
// @Param       body       body    services.ServiceConfigInput  true  "Configuration"
// @Success     201  {object}  handlers.ServiceConfigResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /chat/ai-service-settings [post]
func (h *Handlers) CreateServiceConfig(c *gin.Context) {
	uid, okID := userID(c)
	if !okID {
		return
	}
	var in services.ServiceConfigInput
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	cfg, err := h.settings.Create(c.Request.Context(), uid, in)
	if err != nil {
		failErr(c, err, ErrCodeSaveFailed)
		return
	}
	ok(c, http.StatusCreated, toServiceConfigResponse(cfg))
}

// UpdateServiceConfig godoc
// @ID          updateServiceConfig
// @Summary     Update an AI service configuration
// @Description Omitted fields are left unchanged. An empty api_key removes the stored key.
// @Tags        Settings
// @Accept      json
// @Produce     json
// @Param       X-User-ID  header  string  false "User ID (when JWT auth is off)"  example(user123)
// @Param       id         path    string  true  "Configuration ID (UUID)"  format(uuid)
// @Param       body       body    services.ServiceConfigInput  true  "Changes"
// @Success     200  {object}  handlers.ServiceConfigResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse  "Not found"
// @Router      /chat/ai-service-settings/{id} [put]
func (h *Handlers) UpdateServiceConfig(c *gin.Context) {
	uid, okID := userID(c)
	if !okID {
		return
	}
	id, okParam := configID(c)
	if !okParam {
		return
	}
	var in services.ServiceConfigInput
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	cfg, err := h.settings.Update(c.Request.Context(), uid, id, in)
	if err != nil {
		failErr(c, err, ErrCodeSaveFailed)
		return
	}
	ok(c, http.StatusOK, toServiceConfigResponse(cfg))
}

// DeleteServiceConfig godoc
// @ID          deleteServiceConfig
// @Summary     Delete an AI service configuration
// @Tags        Settings
// @Param       X-User-ID  header  string  false "User ID (when JWT auth is off)"  example(user123)
// @Param       id         path    string  true  "Configuration ID (UUID)"  format(uuid)
// @Success     204  {string}  string  "No Content"
// @Failure     404  {object}  handlers.ErrorResponse  "Not found"
// @Router      /chat/ai-service-settings/{id} [delete]
func (h *Handlers) DeleteServiceConfig(c *gin.Context) {
	uid, okID := userID(c)
	if !okID {
		return
	}
	id, okParam := configID(c)
	if !okParam {
		return
	}
	if err := h.settings.Delete(c.Request.Context(), uid, id); err != nil {
		failErr(c, err, ErrCodeInternal)
		return
	}
	noContent(c)
}

// ActivateServiceConfig godoc
// @ID          activateServiceConfig
// @Summary     Make a configuration the active one
// @Description Deactivates the user's other configurations in the same transaction.
// @Tags        Settings
// @Produce     json
// @Param       X-User-ID  header  string  false "User ID (when JWT auth is off)"  example(user123)
// @Param       id         path    string  true  "Configuration ID (UUID)"  format(uuid)
// @Success     200  {object}  handlers.ServiceConfigResponse
// @Failure     404  {object}  handlers.ErrorResponse  "Not found"
// @Router      /chat/ai-service-settings/{id}/activate [post]
func (h *Handlers) ActivateServiceConfig(c *gin.Context) {
	uid, okID := userID(c)
	if !okID {
		return
	}
	id, okParam := configID(c)
	if !okParam {
		return
	}
	cfg, err := h.settings.Activate(c.Request.Context(), uid, id)
	if err != nil {
		failErr(c, err, ErrCodeSaveFailed)
		return
	}
	ok(c, http.StatusOK, toServiceConfigResponse(cfg))
}
