package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	_ "github.com/noah-isme/talent-factory-api/api/swagger"
	"github.com/noah-isme/talent-factory-api/internal/datasource"
	"github.com/noah-isme/talent-factory-api/internal/handler"
	"github.com/noah-isme/talent-factory-api/internal/middleware"
	"github.com/noah-isme/talent-factory-api/internal/models"
	"github.com/noah-isme/talent-factory-api/internal/repository"
	"github.com/noah-isme/talent-factory-api/internal/service"
	"github.com/noah-isme/talent-factory-api/pkg/cache"
	"github.com/noah-isme/talent-factory-api/pkg/config"
	"github.com/noah-isme/talent-factory-api/pkg/database"
	"github.com/noah-isme/talent-factory-api/pkg/logger"
	"github.com/noah-isme/talent-factory-api/pkg/storage"
)

// @title Talent Factory API
// @version 1.0.0
// @description Task application review workflow and marketplace catalog
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

type applicationStore interface {
	Create(ctx context.Context, app *models.TaskApplication) error
	FindByID(ctx context.Context, id string) (*models.TaskApplication, error)
	HasActive(ctx context.Context, taskID, designerID string) (bool, error)
	List(ctx context.Context, filter models.TaskApplicationFilter) ([]models.TaskApplication, int, error)
	UpdateReview(ctx context.Context, app *models.TaskApplication, expected models.ApplicationStatus) error
}

type configurationStore interface {
	ListByKeys(ctx context.Context, keys []string) ([]models.Configuration, error)
	Get(ctx context.Context, key string) (*models.Configuration, error)
	Upsert(ctx context.Context, cfg *models.Configuration) error
	BulkUpsert(ctx context.Context, cfgs []models.Configuration) error
}

type auditStore interface {
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	metrics := service.NewMetricsService()
	validate := validator.New()

	var (
		ds           datasource.DataSource
		applications applicationStore
		configs      configurationStore
		audit        auditStore
		db           *sqlx.DB
	)
	if cfg.DataSource.Mock() {
		ds = datasource.NewMockDataSource()
		applications = repository.NewMemoryTaskApplicationRepository()
		configs = repository.NewMemoryConfigurationRepository()
		audit = repository.NewLogAuditRepository(logr.Named("audit"))
		logr.Info("running against in-memory seed data")
	} else {
		db, err = database.NewPostgres(cfg.Database)
		if err != nil {
			logr.Fatal("failed to connect database", zap.Error(err))
		}
		defer db.Close()
		ds = datasource.NewHTTPDataSource(datasource.HTTPConfig{
			BaseURL: cfg.DataSource.UpstreamURL,
			Token:   cfg.DataSource.UpstreamToken,
			Timeout: cfg.DataSource.Timeout,
		}, nil, logr.Named("upstream"), metrics)
		applications = repository.NewTaskApplicationRepository(db)
		configs = repository.NewConfigurationRepository(db)
		audit = repository.NewAuditRepository(db)
		logr.Info("running against upstream backend", zap.String("upstream", cfg.DataSource.UpstreamURL))
	}

	readiness := map[string]handler.ReadinessCheck{}
	if db != nil {
		readiness["database"] = db.PingContext
	}

	var (
		cacheRepo service.CacheRepository
		limiter   middleware.Limiter = middleware.NewMemoryLimiter()
	)
	if cfg.Redis.Enabled {
		client, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, caching disabled", zap.Error(err))
		} else {
			repo := repository.NewCacheRepository(client, logr.Named("cache"))
			defer repo.Close() //nolint:errcheck
			cacheRepo = repo
			readiness["cache"] = repo.Ping
			limiter = middleware.NewRedisLimiter(client, logr.Named("ratelimit"))
		}
	}
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Catalog.CacheTTL, logr.Named("cache"), cacheRepo != nil)

	configSvc := service.NewConfigurationService(configs, cacheSvc, audit, validate, logr.Named("configuration"), service.ConfigurationServiceConfig{
		Defaults:           map[string]string{service.ConfigKeyTaskExport: fmt.Sprintf("%t", cfg.Export.Enabled)},
		DefaultReviewMode:  models.ReviewMode(cfg.Review.DefaultMode),
		ReviewModeCacheTTL: cfg.Review.CacheTTL,
	})

	notifier := service.NewNotificationService(metrics, logr.Named("notifications"), service.NotificationConfig{
		Workers:    cfg.Notifications.Workers,
		MaxRetries: cfg.Notifications.Retries,
		RetryDelay: cfg.Notifications.RetryDelay,
		InboxLimit: cfg.Notifications.InboxLimit,
	})
	rootCtx, cancel := context.WithCancel(context.Background())
	defer cancel()
	notifier.Start(rootCtx)

	applicationSvc := service.NewTaskApplicationService(applications, ds, configSvc, audit, notifier, metrics, validate, logr.Named("applications"), service.TaskApplicationConfig{
		BacklogThreshold: cfg.Review.BacklogThreshold,
	})

	var (
		exportStore *storage.DiskStore
		signer      *storage.LinkSigner
	)
	if store, err := storage.NewDiskStore(cfg.Export.Dir); err != nil {
		logr.Warn("export storage unavailable, signed links disabled", zap.Error(err))
	} else {
		exportStore = store
		signer = storage.NewLinkSigner(cfg.Export.LinkSecret, cfg.Export.LinkTTL)
	}
	exportCfg := service.ExportConfig{APIPrefix: cfg.APIPrefix, LinkTTL: cfg.Export.LinkTTL, MaxRows: cfg.Export.MaxRows}
	var exportSvc *service.ExportService
	if exportStore != nil {
		exportSvc = service.NewExportService(applicationSvc, configSvc, exportStore, signer, audit, logr.Named("export"), exportCfg)
		go pruneExports(rootCtx, exportSvc, cfg.Export.LinkTTL, logr.Named("export"))
	} else {
		exportSvc = service.NewExportService(applicationSvc, configSvc, nil, nil, audit, logr.Named("export"), exportCfg)
	}

	catalogSvc := service.NewCatalogService(ds, cacheSvc, logr.Named("catalog"), cfg.Catalog.CacheTTL)
	authSvc := service.NewAuthService(logr.Named("auth"), service.AuthConfig{
		AccessTokenSecret: cfg.JWT.Secret,
		Issuer:            cfg.JWT.Issuer,
		Audience:          firstOrEmpty(cfg.JWT.Audience),
	})

	r := newRouter(cfg, logr, routeDeps{
		auth:          authSvc,
		audit:         audit,
		metrics:       metrics,
		applications:  applicationSvc,
		exports:       exportSvc,
		configuration: configSvc,
		catalog:       catalogSvc,
		notifications: notifier,
		readiness:     readiness,
		limiter:       limiter,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env, "dataSource", cfg.DataSource.Mode)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logr.Info("shutting down")
	shutdownCtx, stop := context.WithTimeout(context.Background(), 15*time.Second)
	defer stop()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
	cancel()
	notifier.Stop()
}

func pruneExports(ctx context.Context, exports *service.ExportService, interval time.Duration, logr *zap.Logger) {
	if interval <= 0 {
		interval = time.Hour
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := exports.Cleanup()
			if err != nil {
				logr.Warn("export cleanup failed", zap.Error(err))
				continue
			}
			if len(removed) > 0 {
				logr.Info("expired exports removed", zap.Int("count", len(removed)))
			}
		}
	}
}

func firstOrEmpty(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}
