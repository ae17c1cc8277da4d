package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/talent-factory-api/internal/datasource"
	"github.com/noah-isme/talent-factory-api/internal/dto"
	"github.com/noah-isme/talent-factory-api/internal/middleware"
	"github.com/noah-isme/talent-factory-api/internal/models"
	appErrors "github.com/noah-isme/talent-factory-api/pkg/errors"
	"github.com/noah-isme/talent-factory-api/pkg/response"
)

type catalogService interface {
	List(ctx context.Context, resource string, query datasource.Query) (datasource.Page, bool, error)
	FilterOptions(ctx context.Context) (models.FilterOptions, bool)
	SkillTags(codes []string) dto.SkillTagTaxonomy
	Invalidate(ctx context.Context) error
}

var reservedCatalogParams = map[string]struct{}{
	"page":     {},
	"pageSize": {},
	"keyword":  {},
	"sortBy":   {},
}

// CatalogHandler serves read-only marketplace listings.
type CatalogHandler struct {
	service         catalogService
	defaultPageSize int
}

// NewCatalogHandler constructs a CatalogHandler. defaultPageSize applies when
// the request omits pageSize.
func NewCatalogHandler(service catalogService, defaultPageSize int) *CatalogHandler {
	return &CatalogHandler{service: service, defaultPageSize: defaultPageSize}
}

// List godoc
// @Summary Browse a catalog resource
// @Tags Catalog
// @Produce json
// @Param resource path string true "designers, jobs, schools or tasks"
// @Param page query int false "Page"
// @Param pageSize query int false "Page size"
// @Param keyword query string false "Keyword"
// @Param sortBy query string false "Sort key"
// @Success 200 {object} response.Envelope
// @Router /catalog/{resource} [get]
func (h *CatalogHandler) List(c *gin.Context) {
	var req dto.CatalogQuery
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid query parameters"))
		return
	}
	query := datasource.Query{
		Page:     req.Page,
		PageSize: req.PageSize,
		Keyword:  req.Keyword,
		SortBy:   req.SortBy,
		Filters:  catalogFilters(c),
	}
	if query.PageSize <= 0 {
		query.PageSize = h.defaultPageSize
	}

	page, hit, err := h.service.List(c.Request.Context(), c.Param("resource"), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, hit)
	middleware.SetMeta(c, "resource", c.Param("resource"))
	rows := page.Rows
	if len(rows) == 0 {
		rows = []byte("[]")
	}
	pagination := &models.Pagination{Page: page.Page, PageSize: page.Size, TotalCount: page.Total}
	response.JSON(c, http.StatusOK, rows, pagination, middleware.ExtractMeta(c))
}

// FilterOptions godoc
// @Summary Filter option lists for the catalog
// @Tags Catalog
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /catalog/filter-options [get]
func (h *CatalogHandler) FilterOptions(c *gin.Context) {
	options, hit := h.service.FilterOptions(c.Request.Context())
	middleware.SetCacheHit(c, hit)
	response.JSON(c, http.StatusOK, options, nil, middleware.ExtractMeta(c))
}

// SkillTags godoc
// @Summary Skill tag taxonomy
// @Tags Catalog
// @Produce json
// @Param codes query string false "Comma separated tag codes"
// @Success 200 {object} response.Envelope
// @Router /catalog/skill-tags [get]
func (h *CatalogHandler) SkillTags(c *gin.Context) {
	var codes []string
	for _, code := range strings.Split(c.Query("codes"), ",") {
		if code = strings.TrimSpace(code); code != "" {
			codes = append(codes, code)
		}
	}
	response.JSON(c, http.StatusOK, h.service.SkillTags(codes), nil)
}

// Invalidate godoc
// @Summary Drop cached catalog pages
// @Tags Catalog
// @Security BearerAuth
// @Success 204
// @Router /admin/catalog/cache [delete]
func (h *CatalogHandler) Invalidate(c *gin.Context) {
	if err := h.service.Invalidate(c.Request.Context()); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to invalidate catalog cache"))
		return
	}
	c.Status(http.StatusNoContent)
}

func catalogFilters(c *gin.Context) map[string]string {
	filters := make(map[string]string)
	for key, values := range c.Request.URL.Query() {
		if _, reserved := reservedCatalogParams[key]; reserved || len(values) == 0 {
			continue
		}
		if value := strings.TrimSpace(values[0]); value != "" {
			filters[key] = value
		}
	}
	return filters
}
