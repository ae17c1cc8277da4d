package handler

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/talent-factory-api/internal/dto"
	"github.com/noah-isme/talent-factory-api/internal/models"
	"github.com/noah-isme/talent-factory-api/internal/service"
	appErrors "github.com/noah-isme/talent-factory-api/pkg/errors"
	"github.com/noah-isme/talent-factory-api/pkg/export"
	"github.com/noah-isme/talent-factory-api/pkg/response"
)

type taskApplicationService interface {
	Submit(ctx context.Context, req dto.SubmitTaskApplicationRequest, actor *models.JWTClaims) (*dto.DesignerApplicationView, error)
	ListForDesigner(ctx context.Context, query dto.TaskApplicationQuery, actor *models.JWTClaims) ([]dto.DesignerApplicationView, *models.Pagination, error)
	ListForEnterprise(ctx context.Context, query dto.TaskApplicationQuery, actor *models.JWTClaims) ([]dto.EnterpriseApplicationView, *models.Pagination, error)
	ListForAdmin(ctx context.Context, query dto.TaskApplicationQuery) ([]dto.AdminApplicationView, *models.Pagination, error)
	GetForDesigner(ctx context.Context, id string, actor *models.JWTClaims) (*dto.DesignerApplicationView, error)
	GetForEnterprise(ctx context.Context, id string, actor *models.JWTClaims) (*dto.EnterpriseApplicationView, error)
	GetForAdmin(ctx context.Context, id string) (*dto.AdminApplicationView, error)
	AdminReview(ctx context.Context, id string, req dto.ReviewTaskApplicationRequest, actor *models.JWTClaims) (*dto.AdminApplicationView, error)
	EnterpriseReview(ctx context.Context, id string, req dto.ReviewTaskApplicationRequest, actor *models.JWTClaims) (*dto.EnterpriseApplicationView, error)
	Withdraw(ctx context.Context, id string, actor *models.JWTClaims) (*dto.DesignerApplicationView, error)
	AdminReviewStats(ctx context.Context) (*dto.AdminReviewStats, error)
	DesignerStats(ctx context.Context, actor *models.JWTClaims) (*dto.DesignerApplicationStats, error)
	TaskStats(ctx context.Context, taskID string, actor *models.JWTClaims) (*dto.TaskApplicationStats, error)
}

type applicationExporter interface {
	ExportApplications(ctx context.Context, query dto.TaskApplicationQuery, format string, actor *models.JWTClaims) (*service.ExportFile, error)
	PublishApplications(ctx context.Context, query dto.TaskApplicationQuery, format string, actor *models.JWTClaims) (*service.ExportLink, error)
	OpenLink(token string) (*os.File, string, error)
}

// TaskApplicationHandler serves the designer, enterprise and admin views of
// task applications.
type TaskApplicationHandler struct {
	service  taskApplicationService
	exporter applicationExporter
}

// NewTaskApplicationHandler constructs the handler. exporter may be nil.
func NewTaskApplicationHandler(service taskApplicationService, exporter applicationExporter) *TaskApplicationHandler {
	return &TaskApplicationHandler{service: service, exporter: exporter}
}

// Submit godoc
// @Summary Apply to a task
// @Tags TaskApplications
// @Accept json
// @Produce json
// @Param payload body dto.SubmitTaskApplicationRequest true "Application"
// @Success 201 {object} response.Envelope
// @Failure 429 {object} response.Envelope
// @Router /designer/task-applications [post]
func (h *TaskApplicationHandler) Submit(c *gin.Context) {
	var req dto.SubmitTaskApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid application payload"))
		return
	}
	view, err := h.service.Submit(c.Request.Context(), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, view)
}

// ListMine godoc
// @Summary List own applications
// @Tags TaskApplications
// @Produce json
// @Param status query string false "PENDING, APPROVED, REJECTED or WITHDRAWN"
// @Param page query int false "Page"
// @Param pageSize query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /designer/task-applications [get]
func (h *TaskApplicationHandler) ListMine(c *gin.Context) {
	query, ok := bindApplicationQuery(c)
	if !ok {
		return
	}
	views, pagination, err := h.service.ListForDesigner(c.Request.Context(), query, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, views, pagination)
}

// GetMine godoc
// @Summary Get own application
// @Tags TaskApplications
// @Produce json
// @Param id path string true "Application ID"
// @Success 200 {object} response.Envelope
// @Router /designer/task-applications/{id} [get]
func (h *TaskApplicationHandler) GetMine(c *gin.Context) {
	id, ok := applicationID(c)
	if !ok {
		return
	}
	view, err := h.service.GetForDesigner(c.Request.Context(), id, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view, nil)
}

// Withdraw godoc
// @Summary Withdraw own application
// @Tags TaskApplications
// @Produce json
// @Param id path string true "Application ID"
// @Success 200 {object} response.Envelope
// @Router /designer/task-applications/{id}/withdraw [post]
func (h *TaskApplicationHandler) Withdraw(c *gin.Context) {
	id, ok := applicationID(c)
	if !ok {
		return
	}
	view, err := h.service.Withdraw(c.Request.Context(), id, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view, nil)
}

// ListForEnterprise godoc
// @Summary List applications to the caller's tasks
// @Tags TaskApplications
// @Produce json
// @Param taskId query string false "Task ID"
// @Param status query string false "PENDING, APPROVED, REJECTED or WITHDRAWN"
// @Success 200 {object} response.Envelope
// @Router /enterprise/task-applications [get]
func (h *TaskApplicationHandler) ListForEnterprise(c *gin.Context) {
	query, ok := bindApplicationQuery(c)
	if !ok {
		return
	}
	views, pagination, err := h.service.ListForEnterprise(c.Request.Context(), query, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, views, pagination)
}

// GetForEnterprise godoc
// @Summary Get an application to the caller's task
// @Tags TaskApplications
// @Produce json
// @Param id path string true "Application ID"
// @Success 200 {object} response.Envelope
// @Router /enterprise/task-applications/{id} [get]
func (h *TaskApplicationHandler) GetForEnterprise(c *gin.Context) {
	id, ok := applicationID(c)
	if !ok {
		return
	}
	view, err := h.service.GetForEnterprise(c.Request.Context(), id, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view, nil)
}

// EnterpriseReview godoc
// @Summary Record the enterprise decision
// @Tags TaskApplications
// @Accept json
// @Produce json
// @Param id path string true "Application ID"
// @Param payload body dto.ReviewTaskApplicationRequest true "Decision"
// @Success 200 {object} response.Envelope
// @Router /enterprise/task-applications/{id}/review [post]
func (h *TaskApplicationHandler) EnterpriseReview(c *gin.Context) {
	id, ok := applicationID(c)
	if !ok {
		return
	}
	var req dto.ReviewTaskApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid review payload"))
		return
	}
	view, err := h.service.EnterpriseReview(c.Request.Context(), id, req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view, nil)
}

// ListForAdmin godoc
// @Summary List all applications
// @Tags TaskApplications
// @Produce json
// @Param taskId query string false "Task ID"
// @Param status query string false "Unified status"
// @Success 200 {object} response.Envelope
// @Router /admin/task-applications [get]
func (h *TaskApplicationHandler) ListForAdmin(c *gin.Context) {
	query, ok := bindApplicationQuery(c)
	if !ok {
		return
	}
	views, pagination, err := h.service.ListForAdmin(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, views, pagination)
}

// GetForAdmin godoc
// @Summary Get any application with both review trails
// @Tags TaskApplications
// @Produce json
// @Param id path string true "Application ID"
// @Success 200 {object} response.Envelope
// @Router /admin/task-applications/{id} [get]
func (h *TaskApplicationHandler) GetForAdmin(c *gin.Context) {
	id, ok := applicationID(c)
	if !ok {
		return
	}
	view, err := h.service.GetForAdmin(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view, nil)
}

// AdminReview godoc
// @Summary Record the platform admin decision
// @Tags TaskApplications
// @Accept json
// @Produce json
// @Param id path string true "Application ID"
// @Param payload body dto.ReviewTaskApplicationRequest true "Decision"
// @Success 200 {object} response.Envelope
// @Router /admin/task-applications/{id}/review [post]
func (h *TaskApplicationHandler) AdminReview(c *gin.Context) {
	id, ok := applicationID(c)
	if !ok {
		return
	}
	var req dto.ReviewTaskApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid review payload"))
		return
	}
	view, err := h.service.AdminReview(c.Request.Context(), id, req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view, nil)
}

// Stats godoc
// @Summary Admin review queue statistics
// @Tags TaskApplications
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /admin/task-applications/stats [get]
func (h *TaskApplicationHandler) Stats(c *gin.Context) {
	stats, err := h.service.AdminReviewStats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, stats, nil)
}

// DesignerStats godoc
// @Summary Own application statistics
// @Tags TaskApplications
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /designer/task-applications/stats [get]
func (h *TaskApplicationHandler) DesignerStats(c *gin.Context) {
	stats, err := h.service.DesignerStats(c.Request.Context(), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, stats, nil)
}

// TaskStats godoc
// @Summary Application statistics for one task
// @Tags TaskApplications
// @Produce json
// @Param taskId path string true "Task ID"
// @Success 200 {object} response.Envelope
// @Router /enterprise/task-applications/tasks/{taskId}/stats [get]
// @Router /admin/task-applications/tasks/{taskId}/stats [get]
func (h *TaskApplicationHandler) TaskStats(c *gin.Context) {
	stats, err := h.service.TaskStats(c.Request.Context(), c.Param("taskId"), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, stats, nil)
}

// Export godoc
// @Summary Export applications
// @Tags TaskApplications
// @Produce text/csv
// @Produce application/pdf
// @Param format query string false "csv or pdf"
// @Param delivery query string false "link returns a signed download URL"
// @Success 200 {file} file
// @Router /admin/task-applications/export [get]
func (h *TaskApplicationHandler) Export(c *gin.Context) {
	if h.exporter == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrPreconditionFailed, "export is not available"))
		return
	}
	query, ok := bindApplicationQuery(c)
	if !ok {
		return
	}
	format := c.Query("format")
	if strings.EqualFold(c.Query("delivery"), "link") {
		link, err := h.exporter.PublishApplications(c.Request.Context(), query, format, claimsFromContext(c))
		if err != nil {
			response.Error(c, err)
			return
		}
		response.JSON(c, http.StatusOK, link, nil)
		return
	}

	file, err := h.exporter.ExportApplications(c.Request.Context(), query, format, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Data)
}

// Download godoc
// @Summary Download a stored export through a signed link
// @Tags TaskApplications
// @Produce octet-stream
// @Param token path string true "Signed token"
// @Success 200 {file} file
// @Router /exports/{token} [get]
func (h *TaskApplicationHandler) Download(c *gin.Context) {
	if h.exporter == nil {
		response.Error(c, appErrors.ErrNotFound)
		return
	}
	file, name, err := h.exporter.OpenLink(c.Param("token"))
	if err != nil {
		response.Error(c, err)
		return
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read export"))
		return
	}
	contentType := "application/octet-stream"
	if format, err := export.ParseFormat(strings.TrimPrefix(filepath.Ext(name), ".")); err == nil {
		contentType = format.ContentType()
	}
	response.AttachmentFromReader(c, name, contentType, info.Size(), file)
}

func bindApplicationQuery(c *gin.Context) (dto.TaskApplicationQuery, bool) {
	var query dto.TaskApplicationQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid query parameters"))
		return query, false
	}
	return query, true
}
