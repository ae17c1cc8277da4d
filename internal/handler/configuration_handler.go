package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/talent-factory-api/internal/dto"
	"github.com/noah-isme/talent-factory-api/internal/models"
	appErrors "github.com/noah-isme/talent-factory-api/pkg/errors"
	"github.com/noah-isme/talent-factory-api/pkg/response"
)

type configurationService interface {
	List(ctx context.Context) ([]dto.ConfigurationItem, error)
	Get(ctx context.Context, key string) (*dto.ConfigurationItem, error)
	Update(ctx context.Context, key, value string, actor *models.JWTClaims) (*dto.ConfigurationItem, error)
	BulkUpdate(ctx context.Context, req dto.BulkUpdateConfigurationRequest, actor *models.JWTClaims) ([]dto.ConfigurationItem, error)
	GetReviewMode(ctx context.Context) dto.ReviewModeStatus
	SetReviewMode(ctx context.Context, req dto.UpdateReviewModeRequest, actor *models.JWTClaims) (dto.ReviewModeStatus, error)
	TaskConfigInfo(ctx context.Context) dto.TaskConfigInfo
}

// ConfigurationHandler exposes configuration and review mode endpoints.
type ConfigurationHandler struct {
	service configurationService
}

// NewConfigurationHandler builds a new handler.
func NewConfigurationHandler(service configurationService) *ConfigurationHandler {
	return &ConfigurationHandler{service: service}
}

// ReviewMode godoc
// @Summary Current review mode
// @Tags Configuration
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /config/review-mode [get]
func (h *ConfigurationHandler) ReviewMode(c *gin.Context) {
	status := h.service.GetReviewMode(c.Request.Context())
	response.JSON(c, http.StatusOK, dto.ReviewModeResponse{ReviewMode: status.ReviewMode}, nil)
}

// AdminReviewMode godoc
// @Summary Review mode with fallback details
// @Tags Configuration
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /admin/config/review-mode [get]
func (h *ConfigurationHandler) AdminReviewMode(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.service.GetReviewMode(c.Request.Context()), nil)
}

// UpdateReviewMode godoc
// @Summary Switch review mode
// @Tags Configuration
// @Accept json
// @Produce json
// @Param payload body dto.UpdateReviewModeRequest true "Review mode"
// @Success 200 {object} response.Envelope
// @Router /admin/config/review-mode [put]
func (h *ConfigurationHandler) UpdateReviewMode(c *gin.Context) {
	var req dto.UpdateReviewModeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid review mode payload"))
		return
	}
	status, err := h.service.SetReviewMode(c.Request.Context(), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, status, nil)
}

// TaskConfigInfo godoc
// @Summary Review mode summary for display
// @Tags Configuration
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /admin/config/task-info [get]
func (h *ConfigurationHandler) TaskConfigInfo(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.service.TaskConfigInfo(c.Request.Context()), nil)
}

// List godoc
// @Summary List configurations
// @Tags Configuration
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /admin/configuration [get]
func (h *ConfigurationHandler) List(c *gin.Context) {
	items, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, nil)
}

// Get godoc
// @Summary Get configuration by key
// @Tags Configuration
// @Produce json
// @Param key path string true "Configuration key"
// @Success 200 {object} response.Envelope
// @Router /admin/configuration/{key} [get]
func (h *ConfigurationHandler) Get(c *gin.Context) {
	item, err := h.service.Get(c.Request.Context(), c.Param("key"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item, nil)
}

// Update godoc
// @Summary Update configuration
// @Tags Configuration
// @Accept json
// @Produce json
// @Param key path string true "Configuration key"
// @Param payload body dto.UpdateConfigurationValueRequest true "Configuration value"
// @Success 200 {object} response.Envelope
// @Router /admin/configuration/{key} [put]
func (h *ConfigurationHandler) Update(c *gin.Context) {
	var req dto.UpdateConfigurationValueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid configuration payload"))
		return
	}
	item, err := h.service.Update(c.Request.Context(), c.Param("key"), req.Value, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item, nil)
}

// BulkUpdate godoc
// @Summary Bulk update configurations
// @Tags Configuration
// @Accept json
// @Produce json
// @Param payload body dto.BulkUpdateConfigurationRequest true "Bulk configuration payload"
// @Success 200 {object} response.Envelope
// @Router /admin/configuration [put]
func (h *ConfigurationHandler) BulkUpdate(c *gin.Context) {
	var req dto.BulkUpdateConfigurationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid bulk payload"))
		return
	}
	items, err := h.service.BulkUpdate(c.Request.Context(), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, nil)
}
