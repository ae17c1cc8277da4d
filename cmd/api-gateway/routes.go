package main

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/talent-factory-api/internal/handler"
	"github.com/noah-isme/talent-factory-api/internal/middleware"
	"github.com/noah-isme/talent-factory-api/internal/models"
	"github.com/noah-isme/talent-factory-api/internal/service"
	"github.com/noah-isme/talent-factory-api/pkg/config"
	"github.com/noah-isme/talent-factory-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/talent-factory-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/talent-factory-api/pkg/middleware/requestid"
)

type routeDeps struct {
	auth          middleware.TokenValidator
	audit         middleware.AuditWriter
	metrics       *service.MetricsService
	applications  *service.TaskApplicationService
	exports       *service.ExportService
	configuration *service.ConfigurationService
	catalog       *service.CatalogService
	notifications *service.NotificationService
	readiness     map[string]handler.ReadinessCheck
	limiter       middleware.Limiter
}

func newRouter(cfg *config.Config, logr *zap.Logger, deps routeDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(deps.metrics))
	r.Use(middleware.WithResponseMeta())

	metricsHandler := handler.NewMetricsHandler(deps.metrics, cfg.DataSource.Mock())
	for name, check := range deps.readiness {
		metricsHandler.WithCheck(name, check)
	}
	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	authHandler := handler.NewAuthHandler()
	applicationHandler := handler.NewTaskApplicationHandler(deps.applications, deps.exports)
	configHandler := handler.NewConfigurationHandler(deps.configuration)
	catalogHandler := handler.NewCatalogHandler(deps.catalog, cfg.Catalog.DefaultPageSize)
	notificationHandler := handler.NewNotificationHandler(deps.notifications)

	api := r.Group(cfg.APIPrefix)

	// Signed links carry their own authorisation.
	api.GET("/exports/:token", middleware.OptionalJWT(deps.auth), middleware.Audit(deps.audit, "EXPORT_DOWNLOAD", "task_applications"), applicationHandler.Download)

	secured := api.Group("")
	secured.Use(middleware.JWT(deps.auth))
	secured.GET("/auth/me", authHandler.Me)
	secured.GET("/notifications", notificationHandler.Inbox)
	secured.GET("/config/review-mode", configHandler.ReviewMode)

	catalog := secured.Group("/catalog")
	catalog.GET("/filter-options", catalogHandler.FilterOptions)
	catalog.GET("/skill-tags", catalogHandler.SkillTags)
	catalog.GET("/:resource", catalogHandler.List)

	designer := secured.Group("/designer/task-applications")
	designer.Use(middleware.RequireRoles(models.RoleDesigner))
	designer.POST("", middleware.RateLimit(deps.limiter, middleware.PerActor, cfg.RateLimit.SubmitLimit, cfg.RateLimit.SubmitWindow), applicationHandler.Submit)
	designer.GET("", applicationHandler.ListMine)
	designer.GET("/stats", applicationHandler.DesignerStats)
	designer.GET("/:id", applicationHandler.GetMine)
	designer.POST("/:id/withdraw", applicationHandler.Withdraw)

	enterprise := secured.Group("/enterprise/task-applications")
	enterprise.Use(middleware.RequireRoles(models.RoleEnterprise))
	enterprise.GET("", applicationHandler.ListForEnterprise)
	enterprise.GET("/tasks/:taskId/stats", applicationHandler.TaskStats)
	enterprise.GET("/:id", applicationHandler.GetForEnterprise)
	enterprise.POST("/:id/review", applicationHandler.EnterpriseReview)

	admin := secured.Group("/admin")
	admin.Use(middleware.RequirePlatformAdmin())
	admin.GET("/task-applications", applicationHandler.ListForAdmin)
	admin.GET("/task-applications/stats", applicationHandler.Stats)
	admin.GET("/task-applications/tasks/:taskId/stats", applicationHandler.TaskStats)
	admin.GET("/task-applications/export", applicationHandler.Export)
	admin.GET("/task-applications/:id", applicationHandler.GetForAdmin)
	admin.POST("/task-applications/:id/review", applicationHandler.AdminReview)

	admin.GET("/config/review-mode", configHandler.AdminReviewMode)
	admin.PUT("/config/review-mode", configHandler.UpdateReviewMode)
	admin.GET("/config/task-info", configHandler.TaskConfigInfo)

	admin.DELETE("/catalog/cache", catalogHandler.Invalidate)

	admin.GET("/configuration", configHandler.List)
	admin.PUT("/configuration", configHandler.BulkUpdate)
	admin.GET("/configuration/:key", configHandler.Get)
	admin.PUT("/configuration/:key", configHandler.Update)

	return r
}
