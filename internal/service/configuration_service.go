package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/talent-factory-api/internal/dto"
	"github.com/noah-isme/talent-factory-api/internal/models"
	appErrors "github.com/noah-isme/talent-factory-api/pkg/errors"
)

const (
	// ConfigKeyReviewMode stores the platform review mode.
	ConfigKeyReviewMode = "task_review_mode"
	// ConfigKeyDisplayName stores the platform display name.
	ConfigKeyDisplayName = "platform_display_name"
	// ConfigKeyTaskExport toggles the admin application export.
	ConfigKeyTaskExport = "enable_task_export"

	reviewModeCacheKey = "config:" + ConfigKeyReviewMode
)

type configurationRepository interface {
	ListByKeys(ctx context.Context, keys []string) ([]models.Configuration, error)
	Get(ctx context.Context, key string) (*models.Configuration, error)
	Upsert(ctx context.Context, cfg *models.Configuration) error
	BulkUpsert(ctx context.Context, cfgs []models.Configuration) error
}

type auditLogger interface {
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

type allowedConfiguration struct {
	Key         string
	Type        models.ConfigurationType
	Description string
	Options     []string
}

var allowedConfigurationKeys = []string{
	ConfigKeyReviewMode,
	ConfigKeyDisplayName,
	ConfigKeyTaskExport,
}

var allowedConfigurations = map[string]allowedConfiguration{
	ConfigKeyReviewMode: {
		Key:         ConfigKeyReviewMode,
		Type:        models.ConfigurationTypeEnum,
		Description: "Task application review mode (DUAL: admin then enterprise, ENTERPRISE: enterprise only)",
		Options:     []string{string(models.ReviewModeDual), string(models.ReviewModeEnterprise)},
	},
	ConfigKeyDisplayName: {
		Key:         ConfigKeyDisplayName,
		Type:        models.ConfigurationTypeString,
		Description: "Display name for the platform shown in headers",
	},
	ConfigKeyTaskExport: {
		Key:         ConfigKeyTaskExport,
		Type:        models.ConfigurationTypeBoolean,
		Description: "Toggle the admin task application export",
	},
}

var builtinConfigurationDefaults = map[string]string{
	ConfigKeyReviewMode: string(models.DefaultReviewMode),
	ConfigKeyTaskExport: "true",
}

// ConfigurationServiceConfig tunes runtime behaviour.
type ConfigurationServiceConfig struct {
	Defaults           map[string]string
	DefaultReviewMode  models.ReviewMode
	ReviewModeCacheTTL time.Duration
}

// ConfigurationService orchestrates CRUD workflow for configuration entries
// and owns the platform review mode.
type ConfigurationService struct {
	repo       configurationRepository
	cache      *CacheService
	audit      auditLogger
	validator  *validator.Validate
	logger     *zap.Logger
	defaults   map[string]string
	reviewMode models.ReviewMode
	cacheTTL   time.Duration
}

// NewConfigurationService constructs a ConfigurationService.
func NewConfigurationService(repo configurationRepository, cache *CacheService, audit auditLogger, validate *validator.Validate, logger *zap.Logger, cfg ConfigurationServiceConfig) *ConfigurationService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	defaults := make(map[string]string, len(builtinConfigurationDefaults))
	for key, value := range builtinConfigurationDefaults {
		defaults[key] = value
	}
	for key, value := range cfg.Defaults {
		if value == "" {
			continue
		}
		defaults[key] = value
	}
	mode := cfg.DefaultReviewMode
	if !mode.Valid() {
		mode = models.DefaultReviewMode
	}
	defaults[ConfigKeyReviewMode] = string(mode)
	return &ConfigurationService{
		repo:       repo,
		cache:      cache,
		audit:      audit,
		validator:  validate,
		logger:     logger,
		defaults:   defaults,
		reviewMode: mode,
		cacheTTL:   cfg.ReviewModeCacheTTL,
	}
}

// List returns configuration items scoped to allowed keys.
func (s *ConfigurationService) List(ctx context.Context) ([]dto.ConfigurationItem, error) {
	keys := allowedKeys()
	rows, err := s.repo.ListByKeys(ctx, keys)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list configurations")
	}
	existing := make(map[string]models.Configuration, len(rows))
	for _, row := range rows {
		existing[row.Key] = row
	}

	items := make([]dto.ConfigurationItem, 0, len(keys))
	for _, key := range keys {
		meta := allowedConfigurations[key]
		item := dto.ConfigurationItem{
			Key:         key,
			Type:        string(meta.Type),
			Description: meta.Description,
			Options:     meta.Options,
		}
		if row, ok := existing[key]; ok {
			item.Value = row.Value
			item.Description = row.DescriptionOr(meta.Description)
		} else if def, ok := s.defaultValue(key); ok {
			item.Value = def
		}
		items = append(items, item)
	}
	return items, nil
}

// Get retrieves a single configuration.
func (s *ConfigurationService) Get(ctx context.Context, key string) (*dto.ConfigurationItem, error) {
	meta, err := s.requireAllowedKey(key)
	if err != nil {
		return nil, err
	}
	cfg, err := s.repo.Get(ctx, key)
	if err != nil {
		if err == sql.ErrNoRows {
			if def, ok := s.defaultValue(key); ok {
				return &dto.ConfigurationItem{
					Key:         key,
					Value:       def,
					Type:        string(meta.Type),
					Description: meta.Description,
					Options:     meta.Options,
				}, nil
			}
			return nil, appErrors.Clone(appErrors.ErrNotFound, "configuration not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to get configuration")
	}
	return &dto.ConfigurationItem{
		Key:         cfg.Key,
		Value:       cfg.Value,
		Type:        string(cfg.Type),
		Description: cfg.DescriptionOr(meta.Description),
		Options:     meta.Options,
	}, nil
}

// Update upserts a configuration entry.
func (s *ConfigurationService) Update(ctx context.Context, key string, value string, actor *models.JWTClaims) (*dto.ConfigurationItem, error) {
	meta, err := s.requireAllowedKey(key)
	if err != nil {
		return nil, err
	}
	value, err = validateConfigurationValue(meta, value)
	if err != nil {
		return nil, err
	}

	prev, err := s.repo.Get(ctx, key)
	if err != nil && err != sql.ErrNoRows {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch configuration")
	}
	if prev != nil && prev.Type != meta.Type {
		return nil, appErrors.Clone(appErrors.ErrValidation, "configuration type mismatch")
	}

	cfg := &models.Configuration{
		Key:         key,
		Value:       value,
		Type:        meta.Type,
		Description: strPtr(meta.Description),
		UpdatedBy:   userIDPtr(actor),
	}
	if err := s.repo.Upsert(ctx, cfg); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update configuration")
	}
	if key == ConfigKeyReviewMode {
		s.invalidateReviewMode(ctx)
	}

	s.emitAudit(ctx, actor, configAuditAction(key), key, prevValue(prev), value)

	return &dto.ConfigurationItem{
		Key:         key,
		Value:       value,
		Type:        string(meta.Type),
		Description: meta.Description,
		Options:     meta.Options,
	}, nil
}

// BulkUpdate applies multiple updates transactionally.
func (s *ConfigurationService) BulkUpdate(ctx context.Context, req dto.BulkUpdateConfigurationRequest, actor *models.JWTClaims) ([]dto.ConfigurationItem, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid bulk payload")
	}
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}

	keys := make([]string, 0, len(req.Items))
	for _, item := range req.Items {
		keys = append(keys, item.Key)
	}
	existing, err := s.repo.ListByKeys(ctx, keys)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load existing configurations")
	}
	existingMap := make(map[string]models.Configuration, len(existing))
	for _, cfg := range existing {
		existingMap[cfg.Key] = cfg
	}

	toUpsert := make([]models.Configuration, 0, len(req.Items))
	for _, item := range req.Items {
		meta, err := s.requireAllowedKey(item.Key)
		if err != nil {
			return nil, err
		}
		normalizedValue, err := validateConfigurationValue(meta, item.Value)
		if err != nil {
			return nil, err
		}
		if prev, ok := existingMap[item.Key]; ok && prev.Type != meta.Type {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("configuration type mismatch for %s", item.Key))
		}
		toUpsert = append(toUpsert, models.Configuration{
			Key:         item.Key,
			Value:       normalizedValue,
			Type:        meta.Type,
			Description: strPtr(meta.Description),
			UpdatedBy:   userIDPtr(actor),
		})
	}

	if err := s.repo.BulkUpsert(ctx, toUpsert); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to bulk update configurations")
	}

	result := make([]dto.ConfigurationItem, 0, len(toUpsert))
	for _, cfg := range toUpsert {
		meta := allowedConfigurations[cfg.Key]
		result = append(result, dto.ConfigurationItem{
			Key:         cfg.Key,
			Value:       cfg.Value,
			Type:        string(cfg.Type),
			Description: meta.Description,
			Options:     meta.Options,
		})
		if cfg.Key == ConfigKeyReviewMode {
			s.invalidateReviewMode(ctx)
		}
		prev := existingMap[cfg.Key]
		s.emitAudit(ctx, actor, configAuditAction(cfg.Key), cfg.Key, prevValue(&prev), cfg.Value)
	}
	return result, nil
}

// GetReviewMode resolves the platform review mode. It never fails: when the
// store is unreachable or holds an unknown value the configured default is
// returned with UsingDefault set.
func (s *ConfigurationService) GetReviewMode(ctx context.Context) dto.ReviewModeStatus {
	var cached dto.ReviewModeStatus
	if hit, err := s.cache.Get(ctx, reviewModeCacheKey, &cached); err == nil && hit && cached.ReviewMode.Valid() {
		return cached
	}

	cfg, err := s.repo.Get(ctx, ConfigKeyReviewMode)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return s.fallbackReviewMode("review mode not configured")
	case err != nil:
		s.logger.Warn("review mode unavailable, using default", zap.String("default", string(s.reviewMode)), zap.Error(err))
		return s.fallbackReviewMode("configuration store unavailable")
	}

	mode := models.ReviewMode(strings.ToUpper(strings.TrimSpace(cfg.Value)))
	if !mode.Valid() {
		s.logger.Warn("invalid review mode stored, using default", zap.String("value", cfg.Value), zap.String("default", string(s.reviewMode)))
		return s.fallbackReviewMode(fmt.Sprintf("invalid stored value %q", cfg.Value))
	}

	status := dto.ReviewModeStatus{ReviewMode: mode}
	_ = s.cache.Set(ctx, reviewModeCacheKey, status, s.cacheTTL)
	return status
}

// SetReviewMode switches the platform review mode. Existing applications keep
// the mode they were created with.
func (s *ConfigurationService) SetReviewMode(ctx context.Context, req dto.UpdateReviewModeRequest, actor *models.JWTClaims) (dto.ReviewModeStatus, error) {
	if actor == nil {
		return dto.ReviewModeStatus{}, appErrors.ErrUnauthorized
	}
	if !actor.Role.IsPlatformAdmin() {
		return dto.ReviewModeStatus{}, appErrors.Clone(appErrors.ErrForbidden, "only platform admins can change the review mode")
	}
	req.ReviewMode = models.ReviewMode(strings.ToUpper(strings.TrimSpace(string(req.ReviewMode))))
	if err := s.validator.Struct(req); err != nil {
		return dto.ReviewModeStatus{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "review mode must be DUAL or ENTERPRISE")
	}
	if _, err := s.Update(ctx, ConfigKeyReviewMode, string(req.ReviewMode), actor); err != nil {
		return dto.ReviewModeStatus{}, err
	}
	s.logger.Info("review mode changed", zap.String("mode", string(req.ReviewMode)), zap.String("actor", actor.UserID))
	return dto.ReviewModeStatus{ReviewMode: req.ReviewMode}, nil
}

// TaskConfigInfo describes the active review mode for display.
func (s *ConfigurationService) TaskConfigInfo(ctx context.Context) dto.TaskConfigInfo {
	status := s.GetReviewMode(ctx)
	info := dto.TaskConfigInfo{
		ReviewMode:             status.ReviewMode,
		IsDualReviewMode:       status.ReviewMode == models.ReviewModeDual,
		IsEnterpriseReviewMode: status.ReviewMode == models.ReviewModeEnterprise,
		UsingDefault:           status.UsingDefault,
	}
	if info.IsDualReviewMode {
		info.ReviewModeName = "Dual review"
		info.ReviewModeDescription = "Applications are screened by a platform admin before the enterprise sees them"
	} else {
		info.ReviewModeName = "Enterprise review"
		info.ReviewModeDescription = "Applications go straight to the enterprise"
	}
	info.ConfigSummary = fmt.Sprintf("Current review mode: %s", info.ReviewModeName)
	if status.UsingDefault {
		info.ConfigSummary += fmt.Sprintf(" (using default: %s)", status.Reason)
	}
	return info
}

// ExportEnabled reports whether the admin export is switched on. Lookup
// failures fall back to the default.
func (s *ConfigurationService) ExportEnabled(ctx context.Context) bool {
	value, err := s.getValueOrDefault(ctx, ConfigKeyTaskExport)
	if err != nil {
		s.logger.Warn("export toggle unavailable, using default", zap.Error(err))
		value, _ = s.defaultValue(ConfigKeyTaskExport)
	}
	return value == "true"
}

func (s *ConfigurationService) fallbackReviewMode(reason string) dto.ReviewModeStatus {
	return dto.ReviewModeStatus{ReviewMode: s.reviewMode, UsingDefault: true, Reason: reason}
}

func (s *ConfigurationService) invalidateReviewMode(ctx context.Context) {
	_ = s.cache.Invalidate(ctx, reviewModeCacheKey)
}

func (s *ConfigurationService) requireAllowedKey(key string) (allowedConfiguration, error) {
	meta, ok := allowedConfigurations[key]
	if !ok {
		return allowedConfiguration{}, appErrors.Clone(appErrors.ErrValidation, "unsupported configuration key")
	}
	return meta, nil
}

func validateConfigurationValue(meta allowedConfiguration, value string) (string, error) {
	normalized, err := meta.Type.Normalize(value, meta.Options)
	if err != nil {
		return "", appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("%s %s", meta.Key, err.Error()))
	}
	return normalized, nil
}

func (s *ConfigurationService) emitAudit(ctx context.Context, actor *models.JWTClaims, action, key, oldValue, newValue string) {
	if s.audit == nil {
		return
	}
	oldBytes, _ := json.Marshal(map[string]string{"key": key, "value": oldValue})
	newBytes, _ := json.Marshal(map[string]string{"key": key, "value": newValue})
	log := &models.AuditLog{
		UserID:     userIDPtr(actor),
		Action:     action,
		Resource:   "configuration",
		ResourceID: &key,
		OldValues:  oldBytes,
		NewValues:  newBytes,
		IPAddress:  "system",
		UserAgent:  "configuration-service",
	}
	if err := s.audit.CreateAuditLog(ctx, log); err != nil {
		s.logger.Warn("failed to record configuration audit", zap.Error(err))
	}
}

func configAuditAction(key string) string {
	if key == ConfigKeyReviewMode {
		return models.AuditActionReviewModeChange
	}
	return models.AuditActionConfigUpdate
}

func allowedKeys() []string {
	keys := make([]string, len(allowedConfigurationKeys))
	copy(keys, allowedConfigurationKeys)
	return keys
}

func prevValue(cfg *models.Configuration) string {
	if cfg == nil {
		return ""
	}
	return cfg.Value
}

func userIDPtr(actor *models.JWTClaims) *string {
	if actor == nil || actor.UserID == "" {
		return nil
	}
	return &actor.UserID
}

func strPtr(value string) *string {
	if value == "" {
		return nil
	}
	result := value
	return &result
}

func (s *ConfigurationService) defaultValue(key string) (string, bool) {
	if s.defaults == nil {
		return "", false
	}
	value, ok := s.defaults[key]
	return value, ok
}

func (s *ConfigurationService) getValueOrDefault(ctx context.Context, key string) (string, error) {
	cfg, err := s.repo.Get(ctx, key)
	if err != nil {
		if err == sql.ErrNoRows {
			if def, ok := s.defaultValue(key); ok {
				return def, nil
			}
			return "", nil
		}
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to get configuration")
	}
	return cfg.Value, nil
}
