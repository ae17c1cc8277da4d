package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/talent-factory-api/internal/models"
)

const taskApplicationColumns = `id, task_id, designer_id, enterprise_id, proposal, proposed_price, estimated_days, portfolio_links,
        status, feedback, admin_review_status, admin_review_feedback, admin_review_time, admin_review_by,
        enterprise_review_status, enterprise_review_feedback, enterprise_review_time, enterprise_review_by,
        review_mode, created_at, updated_at, withdrawn_at`

// ErrActiveApplicationExists is returned by Create when the designer already
// holds a PENDING or ADMIN_APPROVED application for the same task.
var ErrActiveApplicationExists = errors.New("active application already exists for task and designer")

const (
	uniqueViolation        = "23505"
	activeApplicationIndex = "uq_task_applications_active"
)

// TaskApplicationRepository persists task applications in PostgreSQL.
type TaskApplicationRepository struct {
	db *sqlx.DB
}

// NewTaskApplicationRepository constructs the repository.
func NewTaskApplicationRepository(db *sqlx.DB) *TaskApplicationRepository {
	return &TaskApplicationRepository{db: db}
}

// Create inserts a new application record.
func (r *TaskApplicationRepository) Create(ctx context.Context, app *models.TaskApplication) error {
	if app.ID == "" {
		app.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if app.CreatedAt.IsZero() {
		app.CreatedAt = now
	}
	if app.UpdatedAt.IsZero() {
		app.UpdatedAt = app.CreatedAt
	}
	const query = `INSERT INTO task_applications (id, task_id, designer_id, enterprise_id, proposal, proposed_price, estimated_days, portfolio_links,
        status, feedback, admin_review_status, admin_review_feedback, admin_review_time, admin_review_by,
        enterprise_review_status, enterprise_review_feedback, enterprise_review_time, enterprise_review_by,
        review_mode, created_at, updated_at, withdrawn_at)
        VALUES (:id, :task_id, :designer_id, :enterprise_id, :proposal, :proposed_price, :estimated_days, :portfolio_links,
        :status, :feedback, :admin_review_status, :admin_review_feedback, :admin_review_time, :admin_review_by,
        :enterprise_review_status, :enterprise_review_feedback, :enterprise_review_time, :enterprise_review_by,
        :review_mode, :created_at, :updated_at, :withdrawn_at)`
	if _, err := r.db.NamedExecContext(ctx, query, app); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation && pqErr.Constraint == activeApplicationIndex {
			return ErrActiveApplicationExists
		}
		return fmt.Errorf("create task application: %w", err)
	}
	return nil
}

// FindByID fetches an application by id. Missing rows surface as sql.ErrNoRows.
func (r *TaskApplicationRepository) FindByID(ctx context.Context, id string) (*models.TaskApplication, error) {
	query := fmt.Sprintf("SELECT %s FROM task_applications WHERE id = $1", taskApplicationColumns)
	var app models.TaskApplication
	if err := r.db.GetContext(ctx, &app, query, id); err != nil {
		return nil, err
	}
	return &app, nil
}

// HasActive reports whether the designer already holds a non-terminal application for the task.
func (r *TaskApplicationRepository) HasActive(ctx context.Context, taskID, designerID string) (bool, error) {
	const query = `SELECT 1 FROM task_applications WHERE task_id = $1 AND designer_id = $2 AND status IN ($3, $4) LIMIT 1`
	var exists int
	err := r.db.GetContext(ctx, &exists, query, taskID, designerID, models.ApplicationPending, models.ApplicationAdminApproved)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check active task application: %w", err)
	}
	return true, nil
}

// List returns applications matching the filter and the total count.
func (r *TaskApplicationRepository) List(ctx context.Context, filter models.TaskApplicationFilter) ([]models.TaskApplication, int, error) {
	conditions := []string{"1=1"}
	args := []interface{}{}

	if filter.TaskID != "" {
		conditions = append(conditions, fmt.Sprintf("task_id = $%d", len(args)+1))
		args = append(args, filter.TaskID)
	}
	if filter.DesignerID != "" {
		conditions = append(conditions, fmt.Sprintf("designer_id = $%d", len(args)+1))
		args = append(args, filter.DesignerID)
	}
	if filter.EnterpriseID != "" {
		conditions = append(conditions, fmt.Sprintf("enterprise_id = $%d", len(args)+1))
		args = append(args, filter.EnterpriseID)
	}
	if filter.ReviewMode != "" {
		conditions = append(conditions, fmt.Sprintf("review_mode = $%d", len(args)+1))
		args = append(args, filter.ReviewMode)
	}
	if len(filter.Statuses) > 0 {
		holders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			holders[i] = fmt.Sprintf("$%d", len(args)+1)
			args = append(args, status)
		}
		conditions = append(conditions, fmt.Sprintf("status IN (%s)", strings.Join(holders, ",")))
	}
	if filter.EnterpriseVisible {
		conditions = append(conditions, "enterprise_review_status IS NOT NULL")
	}

	where := strings.Join(conditions, " AND ")
	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "DESC"
	}

	query := fmt.Sprintf("SELECT %s FROM task_applications WHERE %s ORDER BY created_at %s", taskApplicationColumns, where, order)
	if filter.PageSize > 0 {
		size := filter.PageSize
		if size > 100 {
			size = 100
		}
		page := filter.Page
		if page < 1 {
			page = 1
		}
		query = fmt.Sprintf("%s LIMIT %d OFFSET %d", query, size, (page-1)*size)
	}

	var apps []models.TaskApplication
	if err := r.db.SelectContext(ctx, &apps, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list task applications: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, fmt.Sprintf("SELECT COUNT(*) FROM task_applications WHERE %s", where), args...); err != nil {
		return nil, 0, fmt.Errorf("count task applications: %w", err)
	}
	return apps, total, nil
}

// UpdateReview persists a transitioned record only if the stored status still
// equals expected. A lost race returns sql.ErrNoRows.
func (r *TaskApplicationRepository) UpdateReview(ctx context.Context, app *models.TaskApplication, expected models.ApplicationStatus) error {
	const query = `UPDATE task_applications SET status = $1, feedback = $2,
        admin_review_status = $3, admin_review_feedback = $4, admin_review_time = $5, admin_review_by = $6,
        enterprise_review_status = $7, enterprise_review_feedback = $8, enterprise_review_time = $9, enterprise_review_by = $10,
        updated_at = $11, withdrawn_at = $12
        WHERE id = $13 AND status = $14`
	res, err := r.db.ExecContext(ctx, query,
		app.Status, app.Feedback,
		app.AdminReviewStatus, app.AdminReviewFeedback, app.AdminReviewTime, app.AdminReviewBy,
		app.EnterpriseReviewStatus, app.EnterpriseReviewFeedback, app.EnterpriseReviewTime, app.EnterpriseReviewBy,
		app.UpdatedAt, app.WithdrawnAt,
		app.ID, expected,
	)
	if err != nil {
		return fmt.Errorf("update task application: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update task application rows: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
