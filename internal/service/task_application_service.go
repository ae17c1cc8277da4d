package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/url"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/talent-factory-api/internal/datasource"
	"github.com/noah-isme/talent-factory-api/internal/dto"
	"github.com/noah-isme/talent-factory-api/internal/models"
	"github.com/noah-isme/talent-factory-api/internal/repository"
	appErrors "github.com/noah-isme/talent-factory-api/pkg/errors"
)

type taskApplicationRepository interface {
	Create(ctx context.Context, app *models.TaskApplication) error
	FindByID(ctx context.Context, id string) (*models.TaskApplication, error)
	HasActive(ctx context.Context, taskID, designerID string) (bool, error)
	List(ctx context.Context, filter models.TaskApplicationFilter) ([]models.TaskApplication, int, error)
	UpdateReview(ctx context.Context, app *models.TaskApplication, expected models.ApplicationStatus) error
}

type reviewModeProvider interface {
	GetReviewMode(ctx context.Context) dto.ReviewModeStatus
}

type applicationNotifier interface {
	NotifyApplicationEvent(ctx context.Context, event ApplicationEvent)
}

// TaskApplicationConfig tunes the application workflow.
type TaskApplicationConfig struct {
	BacklogThreshold int
}

// TaskApplicationService runs the application workflow: submission, the two
// review steps, withdrawal and the per-role read models.
type TaskApplicationService struct {
	repo      taskApplicationRepository
	tasks     datasource.DataSource
	config    reviewModeProvider
	audit     auditLogger
	notifier  applicationNotifier
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	backlog   int
	now       func() time.Time
}

// NewTaskApplicationService constructs the service.
func NewTaskApplicationService(repo taskApplicationRepository, tasks datasource.DataSource, config reviewModeProvider, audit auditLogger, notifier applicationNotifier, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger, cfg TaskApplicationConfig) *TaskApplicationService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.BacklogThreshold <= 0 {
		cfg.BacklogThreshold = 50
	}
	return &TaskApplicationService{
		repo:      repo,
		tasks:     tasks,
		config:    config,
		audit:     audit,
		notifier:  notifier,
		metrics:   metrics,
		validator: validate,
		logger:    logger,
		backlog:   cfg.BacklogThreshold,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Submit creates a PENDING application for the calling designer under the
// review mode active right now.
func (s *TaskApplicationService) Submit(ctx context.Context, req dto.SubmitTaskApplicationRequest, actor *models.JWTClaims) (*dto.DesignerApplicationView, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if actor.Role != models.RoleDesigner {
		return nil, appErrors.Clone(appErrors.ErrRoleMismatch, "only designers can apply to tasks")
	}
	req.TaskID = strings.TrimSpace(req.TaskID)
	req.Proposal = strings.TrimSpace(req.Proposal)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid application payload")
	}
	if err := validatePortfolioLinks(req.PortfolioLinks); err != nil {
		return nil, err
	}

	task, err := datasource.FindTask(ctx, s.tasks, req.TaskID)
	if err != nil {
		return nil, err
	}
	if !strings.EqualFold(task.Status, models.TaskPublished) {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "task is not accepting applications")
	}
	taskID, enterpriseID := task.ID.String(), task.EnterpriseID.String()
	if enterpriseID == "" {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "task has no owning enterprise")
	}

	designerID := actor.ActorID()
	active, err := s.repo.HasActive(ctx, taskID, designerID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check existing applications")
	}
	if active {
		return nil, appErrors.Clone(appErrors.ErrConflict, "you already have an active application for this task")
	}

	mode := s.config.GetReviewMode(ctx)
	if mode.UsingDefault {
		s.logger.Warn("submitting under default review mode", zap.String("mode", string(mode.ReviewMode)), zap.String("reason", mode.Reason))
	}

	app := NewApplication(ApplicationDraft{
		ID:             uuid.NewString(),
		TaskID:         taskID,
		DesignerID:     designerID,
		EnterpriseID:   enterpriseID,
		Proposal:       req.Proposal,
		ProposedPrice:  req.ProposedPrice,
		EstimatedDays:  req.EstimatedDays,
		PortfolioLinks: req.PortfolioLinks,
	}, mode.ReviewMode, s.now())

	if err := s.repo.Create(ctx, &app); err != nil {
		if errors.Is(err, repository.ErrActiveApplicationExists) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "you already have an active application for this task")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create application")
	}

	if _, err := s.tasks.Mutate(ctx, datasource.ResourceTasks, datasource.ActionApply, map[string]string{"taskId": taskID}); err != nil {
		s.logger.Warn("failed to register application with task", zap.String("task_id", taskID), zap.Error(err))
	}

	s.recordTransition(TransitionSubmit, "accepted")
	s.emitAudit(ctx, actor, models.AuditActionApplicationSubmit, nil, &app)
	s.notify(ctx, TransitionSubmit, app)

	view := dto.ToDesignerView(app)
	return &view, nil
}

// ListForDesigner returns the caller's own applications.
func (s *TaskApplicationService) ListForDesigner(ctx context.Context, query dto.TaskApplicationQuery, actor *models.JWTClaims) ([]dto.DesignerApplicationView, *models.Pagination, error) {
	if actor == nil {
		return nil, nil, appErrors.ErrUnauthorized
	}
	statuses, err := designerStatusFilter(query.Status)
	if err != nil {
		return nil, nil, err
	}
	filter := listFilter(query)
	filter.DesignerID = actor.ActorID()
	filter.Statuses = statuses

	apps, pagination, err := s.list(ctx, filter)
	if err != nil {
		return nil, nil, err
	}
	views := make([]dto.DesignerApplicationView, 0, len(apps))
	for _, app := range apps {
		views = append(views, dto.ToDesignerView(app))
	}
	return views, pagination, nil
}

// ListForEnterprise returns applications to the caller's tasks that have
// reached the enterprise review.
func (s *TaskApplicationService) ListForEnterprise(ctx context.Context, query dto.TaskApplicationQuery, actor *models.JWTClaims) ([]dto.EnterpriseApplicationView, *models.Pagination, error) {
	if actor == nil {
		return nil, nil, appErrors.ErrUnauthorized
	}
	statuses, err := enterpriseStatusFilter(query.Status)
	if err != nil {
		return nil, nil, err
	}
	filter := listFilter(query)
	filter.EnterpriseID = actor.ActorID()
	filter.EnterpriseVisible = true
	filter.Statuses = statuses

	apps, pagination, err := s.list(ctx, filter)
	if err != nil {
		return nil, nil, err
	}
	views := make([]dto.EnterpriseApplicationView, 0, len(apps))
	for _, app := range apps {
		views = append(views, dto.ToEnterpriseView(app))
	}
	return views, pagination, nil
}

// ListForAdmin returns every application with both review trails.
func (s *TaskApplicationService) ListForAdmin(ctx context.Context, query dto.TaskApplicationQuery) ([]dto.AdminApplicationView, *models.Pagination, error) {
	filter := listFilter(query)
	if query.Status != "" {
		status := models.ApplicationStatus(strings.ToUpper(strings.TrimSpace(query.Status)))
		if !status.Valid() {
			return nil, nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown status %q", query.Status))
		}
		filter.Statuses = []models.ApplicationStatus{status}
	}
	apps, pagination, err := s.list(ctx, filter)
	if err != nil {
		return nil, nil, err
	}
	views := make([]dto.AdminApplicationView, 0, len(apps))
	for _, app := range apps {
		views = append(views, dto.ToAdminView(app))
	}
	return views, pagination, nil
}

// GetForDesigner returns one of the caller's applications. Other designers'
// applications read as not found.
func (s *TaskApplicationService) GetForDesigner(ctx context.Context, id string, actor *models.JWTClaims) (*dto.DesignerApplicationView, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	app, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if app.DesignerID != actor.ActorID() {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "application not found")
	}
	view := dto.ToDesignerView(*app)
	return &view, nil
}

// GetForEnterprise returns an application to one of the caller's tasks once it
// has reached the enterprise review.
func (s *TaskApplicationService) GetForEnterprise(ctx context.Context, id string, actor *models.JWTClaims) (*dto.EnterpriseApplicationView, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	app, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if app.EnterpriseID != actor.ActorID() || !dto.VisibleToEnterprise(*app) {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "application not found")
	}
	view := dto.ToEnterpriseView(*app)
	return &view, nil
}

// GetForAdmin returns the full admin projection.
func (s *TaskApplicationService) GetForAdmin(ctx context.Context, id string) (*dto.AdminApplicationView, error) {
	app, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	view := dto.ToAdminView(*app)
	return &view, nil
}

// AdminReview records the platform admin decision.
func (s *TaskApplicationService) AdminReview(ctx context.Context, id string, req dto.ReviewTaskApplicationRequest, actor *models.JWTClaims) (*dto.AdminApplicationView, error) {
	app, err := s.review(ctx, id, TransitionAdminReview, req, actor)
	if err != nil {
		return nil, err
	}
	view := dto.ToAdminView(*app)
	return &view, nil
}

// EnterpriseReview records the posting enterprise's decision.
func (s *TaskApplicationService) EnterpriseReview(ctx context.Context, id string, req dto.ReviewTaskApplicationRequest, actor *models.JWTClaims) (*dto.EnterpriseApplicationView, error) {
	app, err := s.review(ctx, id, TransitionEnterpriseReview, req, actor)
	if err != nil {
		return nil, err
	}
	view := dto.ToEnterpriseView(*app)
	return &view, nil
}

// Withdraw lets the applicant retract a non-terminal application.
func (s *TaskApplicationService) Withdraw(ctx context.Context, id string, actor *models.JWTClaims) (*dto.DesignerApplicationView, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	app, err := s.apply(ctx, id, TransitionRequest{
		Kind:      TransitionWithdraw,
		ActorRole: actor.Role,
		ActorID:   actor.ActorID(),
	}, actor)
	if err != nil {
		return nil, err
	}
	view := dto.ToDesignerView(*app)
	return &view, nil
}

// AdminReviewStats summarises the admin review queue over DUAL-mode applications.
func (s *TaskApplicationService) AdminReviewStats(ctx context.Context) (*dto.AdminReviewStats, error) {
	start := time.Now()
	apps, _, err := s.repo.List(ctx, models.TaskApplicationFilter{ReviewMode: models.ReviewModeDual})
	s.metrics.ObserveDBQuery("task_applications_stats", time.Since(start))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load review statistics")
	}

	now := s.now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	stats := &dto.AdminReviewStats{BacklogThreshold: s.backlog}
	var approved, decided int
	var processing time.Duration
	for _, app := range apps {
		if app.AdminReviewStatus == nil {
			continue
		}
		switch *app.AdminReviewStatus {
		case models.ReviewPending:
			if app.Status == models.ApplicationPending {
				stats.PendingCount++
			}
			continue
		case models.ReviewApproved:
			approved++
		}
		decided++
		if app.AdminReviewTime != nil {
			processing += app.AdminReviewTime.Sub(app.CreatedAt)
			if !app.AdminReviewTime.Before(dayStart) {
				stats.ReviewedToday++
			}
		}
	}
	if decided > 0 {
		stats.ApprovalRate = round2(float64(approved) / float64(decided) * 100)
		stats.AvgProcessHours = round2(processing.Hours() / float64(decided))
	}
	stats.BacklogAlert = stats.PendingCount > s.backlog
	return stats, nil
}

// DesignerStats summarises the calling designer's applications.
func (s *TaskApplicationService) DesignerStats(ctx context.Context, actor *models.JWTClaims) (*dto.DesignerApplicationStats, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if actor.Role != models.RoleDesigner {
		return nil, appErrors.Clone(appErrors.ErrRoleMismatch, "only designers have application statistics")
	}
	apps, err := s.statsSource(ctx, models.TaskApplicationFilter{DesignerID: actor.ActorID()})
	if err != nil {
		return nil, err
	}

	stats := &dto.DesignerApplicationStats{AppliedTasks: len(apps)}
	var priceSum float64
	for _, app := range apps {
		priceSum += app.ProposedPrice
		switch dto.DesignerOutcomeOf(app.Status) {
		case dto.DesignerOutcomeApproved:
			stats.ApprovedTasks++
		case dto.DesignerOutcomeRejected:
			stats.RejectedTasks++
		case dto.DesignerOutcomeWithdrawn:
			stats.WithdrawnTasks++
		default:
			stats.ActiveTasks++
		}
	}
	if len(apps) > 0 {
		stats.AverageTaskPrice = round2(priceSum / float64(len(apps)))
	}
	if decided := stats.ApprovedTasks + stats.RejectedTasks; decided > 0 {
		stats.SuccessRate = round2(float64(stats.ApprovedTasks) / float64(decided) * 100)
	}
	return stats, nil
}

// TaskStats summarises the applications to one task. Enterprises only count
// applications to their own task that reached them; platform admins count all.
func (s *TaskApplicationService) TaskStats(ctx context.Context, taskID string, actor *models.JWTClaims) (*dto.TaskApplicationStats, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	taskID = strings.TrimSpace(taskID)
	if !datasource.ValidID(taskID) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid task id")
	}
	filter := models.TaskApplicationFilter{TaskID: taskID}
	switch {
	case actor.Role.IsPlatformAdmin():
	case actor.Role == models.RoleEnterprise:
		filter.EnterpriseID = actor.ActorID()
		filter.EnterpriseVisible = true
	default:
		return nil, appErrors.Clone(appErrors.ErrRoleMismatch, "only enterprises and admins have task statistics")
	}
	apps, err := s.statsSource(ctx, filter)
	if err != nil {
		return nil, err
	}

	stats := &dto.TaskApplicationStats{TaskID: taskID, TotalApplications: len(apps)}
	var priceSum float64
	var daysSum int
	for i, app := range apps {
		priceSum += app.ProposedPrice
		daysSum += app.EstimatedDays
		if i == 0 || app.ProposedPrice < stats.MinProposedPrice {
			stats.MinProposedPrice = app.ProposedPrice
		}
		if app.ProposedPrice > stats.MaxProposedPrice {
			stats.MaxProposedPrice = app.ProposedPrice
		}
		switch dto.DesignerOutcomeOf(app.Status) {
		case dto.DesignerOutcomeApproved:
			stats.ApprovedCount++
		case dto.DesignerOutcomeRejected:
			stats.RejectedCount++
		case dto.DesignerOutcomeWithdrawn:
			stats.WithdrawnCount++
		default:
			stats.PendingCount++
		}
	}
	if len(apps) > 0 {
		stats.AverageTaskPrice = round2(priceSum / float64(len(apps)))
		stats.AverageEstimatedDays = round2(float64(daysSum) / float64(len(apps)))
	}
	return stats, nil
}

func (s *TaskApplicationService) statsSource(ctx context.Context, filter models.TaskApplicationFilter) ([]models.TaskApplication, error) {
	start := time.Now()
	apps, _, err := s.repo.List(ctx, filter)
	s.metrics.ObserveDBQuery("task_applications_stats", time.Since(start))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load application statistics")
	}
	return apps, nil
}

func (s *TaskApplicationService) review(ctx context.Context, id string, kind TransitionKind, req dto.ReviewTaskApplicationRequest, actor *models.JWTClaims) (*models.TaskApplication, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid review payload")
	}
	actorID := actor.ActorID()
	if kind == TransitionAdminReview {
		actorID = actor.UserID
	}
	return s.apply(ctx, id, TransitionRequest{
		Kind:      kind,
		ActorRole: actor.Role,
		ActorID:   actorID,
		Decision:  models.ReviewStatus(strings.ToUpper(strings.TrimSpace(string(req.Status)))),
		Feedback:  req.Feedback,
	}, actor)
}

// apply reads the current record, runs the guards and persists the result
// only if nobody changed the record in between.
func (s *TaskApplicationService) apply(ctx context.Context, id string, req TransitionRequest, actor *models.JWTClaims) (*models.TaskApplication, error) {
	current, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	req.At = s.now()

	next, err := Transition(*current, req)
	if err != nil {
		s.recordTransition(req.Kind, "rejected")
		return nil, err
	}
	if err := s.repo.UpdateReview(ctx, &next, current.Status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.recordTransition(req.Kind, "conflict")
			return nil, appErrors.Clone(appErrors.ErrConflict, "application was modified concurrently, reload and retry")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update application")
	}

	s.recordTransition(req.Kind, "accepted")
	s.emitAudit(ctx, actor, auditActionFor(req.Kind), current, &next)
	s.notify(ctx, req.Kind, next)
	return &next, nil
}

func (s *TaskApplicationService) find(ctx context.Context, id string) (*models.TaskApplication, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "application id is required")
	}
	app, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "application not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load application")
	}
	return app, nil
}

func (s *TaskApplicationService) list(ctx context.Context, filter models.TaskApplicationFilter) ([]models.TaskApplication, *models.Pagination, error) {
	start := time.Now()
	apps, total, err := s.repo.List(ctx, filter)
	s.metrics.ObserveDBQuery("task_applications_list", time.Since(start))
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list applications")
	}
	return apps, &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}, nil
}

func (s *TaskApplicationService) recordTransition(kind TransitionKind, outcome string) {
	if s.metrics != nil {
		s.metrics.RecordTransition(string(kind), outcome)
	}
}

func (s *TaskApplicationService) notify(ctx context.Context, kind TransitionKind, app models.TaskApplication) {
	if s.notifier == nil {
		return
	}
	s.notifier.NotifyApplicationEvent(ctx, ApplicationEvent{Kind: kind, Application: app.Clone()})
}

func (s *TaskApplicationService) emitAudit(ctx context.Context, actor *models.JWTClaims, action string, before, after *models.TaskApplication) {
	if s.audit == nil || after == nil {
		return
	}
	var oldValues []byte
	if before != nil {
		oldValues, _ = json.Marshal(dto.ToAdminView(*before))
	}
	newValues, _ := json.Marshal(dto.ToAdminView(*after))
	id := after.ID
	log := &models.AuditLog{
		UserID:     userIDPtr(actor),
		Action:     action,
		Resource:   "task_application",
		ResourceID: &id,
		OldValues:  oldValues,
		NewValues:  newValues,
		IPAddress:  "system",
		UserAgent:  "task-application-service",
	}
	if err := s.audit.CreateAuditLog(ctx, log); err != nil {
		s.logger.Warn("failed to record application audit", zap.String("application_id", id), zap.Error(err))
	}
}

func auditActionFor(kind TransitionKind) string {
	switch kind {
	case TransitionAdminReview:
		return models.AuditActionAdminReview
	case TransitionEnterpriseReview:
		return models.AuditActionEnterpriseReview
	case TransitionWithdraw:
		return models.AuditActionApplicationWithdraw
	default:
		return models.AuditActionApplicationSubmit
	}
}

func listFilter(query dto.TaskApplicationQuery) models.TaskApplicationFilter {
	page := query.Page
	if page < 1 {
		page = 1
	}
	size := query.PageSize
	if size <= 0 {
		size = datasource.DefaultPageSize
	}
	if size > 100 {
		size = 100
	}
	return models.TaskApplicationFilter{
		TaskID:    strings.TrimSpace(query.TaskID),
		Page:      page,
		PageSize:  size,
		SortOrder: query.SortOrder,
	}
}

func designerStatusFilter(raw string) ([]models.ApplicationStatus, error) {
	switch dto.DesignerOutcome(strings.ToUpper(strings.TrimSpace(raw))) {
	case "":
		return nil, nil
	case dto.DesignerOutcomePending:
		return []models.ApplicationStatus{models.ApplicationPending, models.ApplicationAdminApproved}, nil
	case dto.DesignerOutcomeApproved:
		return []models.ApplicationStatus{models.ApplicationEnterpriseApproved}, nil
	case dto.DesignerOutcomeRejected:
		return []models.ApplicationStatus{models.ApplicationAdminRejected, models.ApplicationEnterpriseRejected}, nil
	case dto.DesignerOutcomeWithdrawn:
		return []models.ApplicationStatus{models.ApplicationWithdrawn}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown status %q", raw))
	}
}

func enterpriseStatusFilter(raw string) ([]models.ApplicationStatus, error) {
	switch dto.EnterpriseOutcome(strings.ToUpper(strings.TrimSpace(raw))) {
	case "":
		return nil, nil
	case dto.EnterpriseOutcomePending:
		return []models.ApplicationStatus{models.ApplicationPending, models.ApplicationAdminApproved}, nil
	case dto.EnterpriseOutcomeApproved:
		return []models.ApplicationStatus{models.ApplicationEnterpriseApproved}, nil
	case dto.EnterpriseOutcomeRejected:
		return []models.ApplicationStatus{models.ApplicationEnterpriseRejected}, nil
	case dto.EnterpriseOutcomeWithdrawn:
		return []models.ApplicationStatus{models.ApplicationWithdrawn}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown status %q", raw))
	}
}

func validatePortfolioLinks(links []string) error {
	for _, link := range links {
		parsed, err := url.Parse(strings.TrimSpace(link))
		if err != nil || parsed.Host == "" || (parsed.Scheme != "http" && parsed.Scheme != "https") {
			return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("portfolio link %q must be an absolute http(s) URL", link))
		}
	}
	return nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
