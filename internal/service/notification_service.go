package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/talent-factory-api/internal/dto"
	"github.com/noah-isme/talent-factory-api/internal/models"
	"github.com/noah-isme/talent-factory-api/pkg/jobs"
)

// PlatformReviewerID is the shared inbox for the admin review queue.
const PlatformReviewerID = "platform-reviewers"

const notificationJobType = "task-application-notification"

// ApplicationEvent describes an accepted change to an application.
type ApplicationEvent struct {
	Kind        TransitionKind
	Application models.TaskApplication
}

// NotificationConfig tunes the delivery worker pool.
type NotificationConfig struct {
	Workers    int
	MaxRetries int
	RetryDelay time.Duration
	InboxLimit int
}

// NotificationService turns workflow events into per-recipient notifications
// and delivers them on a background queue.
type NotificationService struct {
	queue   *jobs.Queue
	metrics *MetricsService
	logger  *zap.Logger
	limit   int

	mu    sync.RWMutex
	inbox map[string][]models.Notification
}

// NewNotificationService constructs the service and its delivery queue.
func NewNotificationService(metrics *MetricsService, logger *zap.Logger, cfg NotificationConfig) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.InboxLimit <= 0 {
		cfg.InboxLimit = 100
	}
	svc := &NotificationService{
		metrics: metrics,
		logger:  logger,
		limit:   cfg.InboxLimit,
		inbox:   make(map[string][]models.Notification),
	}
	svc.queue = jobs.NewQueue("notifications", svc.handle, jobs.QueueConfig{
		Workers:    cfg.Workers,
		MaxRetries: cfg.MaxRetries,
		RetryDelay: cfg.RetryDelay,
		Logger:     logger,
		OnGiveUp: func(job jobs.Job, err error) {
			logger.Error("notification dropped", zap.String("notification_id", job.ID), zap.Int("attempts", job.Attempt), zap.Error(err))
		},
	})
	return svc
}

// Start launches the delivery workers.
func (s *NotificationService) Start(ctx context.Context) {
	s.queue.Start(ctx)
}

// Stop drains the workers.
func (s *NotificationService) Stop() {
	s.queue.Stop()
}

// NotifyApplicationEvent enqueues the notifications produced by event. When the
// queue is unavailable they are delivered inline.
func (s *NotificationService) NotifyApplicationEvent(ctx context.Context, event ApplicationEvent) {
	for _, n := range BuildNotifications(event, time.Now().UTC()) {
		job := jobs.Job{ID: n.ID, Type: notificationJobType, Payload: n}
		if err := s.queue.Enqueue(job); err != nil {
			s.logger.Warn("notification queue unavailable, delivering inline", zap.String("notification_id", n.ID), zap.Error(err))
			s.deliver(n)
		}
	}
}

// Inbox returns the notifications delivered to recipientID, newest first.
func (s *NotificationService) Inbox(recipientID string) []models.Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := s.inbox[recipientID]
	out := make([]models.Notification, len(items))
	for i := range items {
		out[i] = items[len(items)-1-i]
	}
	return out
}

func (s *NotificationService) handle(ctx context.Context, job jobs.Job) error {
	n, ok := job.Payload.(models.Notification)
	if !ok {
		return fmt.Errorf("unexpected notification payload %T", job.Payload)
	}
	s.deliver(n)
	return nil
}

func (s *NotificationService) deliver(n models.Notification) {
	s.mu.Lock()
	items := append(s.inbox[n.RecipientID], n)
	if len(items) > s.limit {
		items = items[len(items)-s.limit:]
	}
	s.inbox[n.RecipientID] = items
	s.mu.Unlock()

	s.logger.Info("notification delivered",
		zap.String("notification_id", n.ID),
		zap.String("recipient_id", n.RecipientID),
		zap.String("recipient_role", string(n.RecipientRole)),
		zap.String("type", string(n.Type)),
		zap.String("application_id", n.ApplicationID),
	)
	if s.metrics != nil {
		s.metrics.RecordNotification(string(n.Type))
	}
}

// BuildNotifications maps an event onto the recipients who may learn about it.
// Applicants only ever see their designer-view outcome, so an admin approval
// produces no applicant notification.
func BuildNotifications(event ApplicationEvent, now time.Time) []models.Notification {
	app := event.Application
	var out []models.Notification
	add := func(recipient string, role models.UserRole, kind models.NotificationType, title, content string) {
		if recipient == "" {
			return
		}
		out = append(out, models.Notification{
			ID:            uuid.NewString(),
			RecipientID:   recipient,
			RecipientRole: role,
			Type:          kind,
			ApplicationID: app.ID,
			Title:         title,
			Content:       content,
			CreatedAt:     now,
		})
	}

	switch event.Kind {
	case TransitionSubmit:
		if app.ReviewMode == models.ReviewModeDual {
			add(PlatformReviewerID, models.RoleAdmin, models.NotificationNewApplication,
				"New application awaiting review", fmt.Sprintf("Application for task %s needs a platform review.", app.TaskID))
		} else {
			add(app.EnterpriseID, models.RoleEnterprise, models.NotificationNewApplication,
				"New application", fmt.Sprintf("A designer applied to task %s.", app.TaskID))
		}
	case TransitionAdminReview:
		if app.Status == models.ApplicationAdminApproved {
			add(app.EnterpriseID, models.RoleEnterprise, models.NotificationNewApplication,
				"New application", fmt.Sprintf("A designer applied to task %s.", app.TaskID))
			return out
		}
		view := dto.ToDesignerView(app)
		add(app.DesignerID, models.RoleDesigner, models.NotificationApplicationRejected,
			"Application update", view.Feedback)
	case TransitionEnterpriseReview:
		view := dto.ToDesignerView(app)
		kind := models.NotificationApplicationRejected
		if view.Status == dto.DesignerOutcomeApproved {
			kind = models.NotificationApplicationApproved
		}
		add(app.DesignerID, models.RoleDesigner, kind, "Application update", view.Feedback)
	case TransitionWithdraw:
		if dto.VisibleToEnterprise(app) {
			add(app.EnterpriseID, models.RoleEnterprise, models.NotificationApplicationWithdrawn,
				"Application withdrawn", fmt.Sprintf("An application for task %s was withdrawn.", app.TaskID))
		} else {
			add(PlatformReviewerID, models.RoleAdmin, models.NotificationApplicationWithdrawn,
				"Application withdrawn", fmt.Sprintf("An application for task %s was withdrawn before review.", app.TaskID))
		}
	}
	return out
}
