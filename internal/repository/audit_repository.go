package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/talent-factory-api/internal/models"
)

// AuditRepository writes audit trail rows.
type AuditRepository struct {
	db *sqlx.DB
}

// NewAuditRepository constructs an AuditRepository.
func NewAuditRepository(db *sqlx.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// CreateAuditLog inserts an audit log entry.
func (r *AuditRepository) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	prepareAuditLog(log)
	const query = `INSERT INTO audit_logs (id, user_id, action, resource, resource_id, old_values, new_values, ip_address, user_agent, created_at) VALUES (:id, :user_id, :action, :resource, :resource_id, :old_values, :new_values, :ip_address, :user_agent, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, log); err != nil {
		return fmt.Errorf("create audit log: %w", err)
	}
	return nil
}

// LogAuditRepository emits audit entries as structured log lines. Used in mock mode.
type LogAuditRepository struct {
	logger *zap.Logger
}

// NewLogAuditRepository constructs a log-backed audit sink.
func NewLogAuditRepository(logger *zap.Logger) *LogAuditRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogAuditRepository{logger: logger}
}

// CreateAuditLog writes the entry to the logger.
func (r *LogAuditRepository) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	prepareAuditLog(log)
	fields := []zap.Field{
		zap.String("audit_id", log.ID),
		zap.String("action", log.Action),
		zap.String("resource", log.Resource),
		zap.ByteString("new_values", log.NewValues),
	}
	if log.UserID != nil {
		fields = append(fields, zap.String("user_id", *log.UserID))
	}
	if log.ResourceID != nil {
		fields = append(fields, zap.String("resource_id", *log.ResourceID))
	}
	r.logger.Info("audit", fields...)
	return nil
}

func prepareAuditLog(log *models.AuditLog) {
	if log.ID == "" {
		log.ID = uuid.NewString()
	}
	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now().UTC()
	}
}
