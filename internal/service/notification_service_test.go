package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/talent-factory-api/internal/models"
)

func dualApplication() models.TaskApplication {
	return NewApplication(ApplicationDraft{ID: "app-1", TaskID: "1001", DesignerID: "designer-1", EnterpriseID: "ent-1001", Proposal: "x"},
		models.ReviewModeDual, time.Now().UTC())
}

func review(t *testing.T, app models.TaskApplication, kind TransitionKind, role models.UserRole, actor string, decision models.ReviewStatus, feedback string) models.TaskApplication {
	t.Helper()
	next, err := Transition(app, TransitionRequest{Kind: kind, ActorRole: role, ActorID: actor, Decision: decision, Feedback: feedback})
	require.NoError(t, err)
	return next
}

func TestBuildNotificationsRecipients(t *testing.T) {
	now := time.Now().UTC()
	submitted := dualApplication()

	out := BuildNotifications(ApplicationEvent{Kind: TransitionSubmit, Application: submitted}, now)
	require.Len(t, out, 1)
	assert.Equal(t, PlatformReviewerID, out[0].RecipientID)
	assert.Equal(t, models.NotificationNewApplication, out[0].Type)

	approved := review(t, submitted, TransitionAdminReview, models.RoleAdmin, "admin", models.ReviewApproved, "ok")
	out = BuildNotifications(ApplicationEvent{Kind: TransitionAdminReview, Application: approved}, now)
	require.Len(t, out, 1)
	assert.Equal(t, "ent-1001", out[0].RecipientID, "admin approval must not reach the applicant")

	rejected := review(t, submitted, TransitionAdminReview, models.RoleAdmin, "admin", models.ReviewRejected, "insufficient detail")
	out = BuildNotifications(ApplicationEvent{Kind: TransitionAdminReview, Application: rejected}, now)
	require.Len(t, out, 1)
	assert.Equal(t, "designer-1", out[0].RecipientID)
	assert.Equal(t, models.NotificationApplicationRejected, out[0].Type)
	assert.Equal(t, AdminRejectionFeedback, out[0].Content)

	hired := review(t, approved, TransitionEnterpriseReview, models.RoleEnterprise, "ent-1001", models.ReviewApproved, "great fit")
	out = BuildNotifications(ApplicationEvent{Kind: TransitionEnterpriseReview, Application: hired}, now)
	require.Len(t, out, 1)
	assert.Equal(t, models.NotificationApplicationApproved, out[0].Type)
	assert.Equal(t, "great fit", out[0].Content)

	withdrawn := review(t, submitted, TransitionWithdraw, models.RoleDesigner, "designer-1", "", "")
	out = BuildNotifications(ApplicationEvent{Kind: TransitionWithdraw, Application: withdrawn}, now)
	require.Len(t, out, 1)
	assert.Equal(t, PlatformReviewerID, out[0].RecipientID)

	withdrawnLate := review(t, approved, TransitionWithdraw, models.RoleDesigner, "designer-1", "", "")
	out = BuildNotifications(ApplicationEvent{Kind: TransitionWithdraw, Application: withdrawnLate}, now)
	require.Len(t, out, 1)
	assert.Equal(t, "ent-1001", out[0].RecipientID)
	assert.Equal(t, models.NotificationApplicationWithdrawn, out[0].Type)
}

func TestNotificationServiceDeliversThroughQueue(t *testing.T) {
	metrics := NewMetricsService()
	svc := NewNotificationService(metrics, zap.NewNop(), NotificationConfig{Workers: 2, RetryDelay: 10 * time.Millisecond})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	svc.Start(ctx)
	defer svc.Stop()

	svc.NotifyApplicationEvent(ctx, ApplicationEvent{Kind: TransitionSubmit, Application: dualApplication()})

	require.Eventually(t, func() bool { return len(svc.Inbox(PlatformReviewerID)) == 1 }, time.Second, 5*time.Millisecond)
	inbox := svc.Inbox(PlatformReviewerID)
	assert.Equal(t, "app-1", inbox[0].ApplicationID)
}

func TestNotificationServiceDeliversInlineWhenStopped(t *testing.T) {
	svc := NewNotificationService(nil, nil, NotificationConfig{InboxLimit: 2})

	app := dualApplication()
	for i := 0; i < 3; i++ {
		app.ID = []string{"a", "b", "c"}[i]
		svc.NotifyApplicationEvent(context.Background(), ApplicationEvent{Kind: TransitionSubmit, Application: app})
	}

	inbox := svc.Inbox(PlatformReviewerID)
	require.Len(t, inbox, 2)
	assert.Equal(t, "c", inbox[0].ApplicationID)
	assert.Equal(t, "b", inbox[1].ApplicationID)
}
