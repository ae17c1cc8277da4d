package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/talent-factory-api/internal/datasource"
	"github.com/noah-isme/talent-factory-api/internal/dto"
	"github.com/noah-isme/talent-factory-api/internal/models"
	"github.com/noah-isme/talent-factory-api/internal/repository"
	appErrors "github.com/noah-isme/talent-factory-api/pkg/errors"
)

type reviewModeStub struct {
	status dto.ReviewModeStatus
}

func (r *reviewModeStub) GetReviewMode(ctx context.Context) dto.ReviewModeStatus {
	return r.status
}

type notifierStub struct {
	events []ApplicationEvent
}

func (n *notifierStub) NotifyApplicationEvent(ctx context.Context, event ApplicationEvent) {
	n.events = append(n.events, event)
}

// staleRepo loses every optimistic update, as if another writer got there first.
type staleRepo struct {
	*repository.MemoryTaskApplicationRepository
}

func (staleRepo) UpdateReview(ctx context.Context, app *models.TaskApplication, expected models.ApplicationStatus) error {
	return sql.ErrNoRows
}

var (
	designerClaims   = &models.JWTClaims{UserID: "u-designer-1", Role: models.RoleDesigner, DesignerID: "designer-1"}
	otherDesigner    = &models.JWTClaims{UserID: "u-designer-2", Role: models.RoleDesigner, DesignerID: "designer-2"}
	enterpriseClaims = &models.JWTClaims{UserID: "u-ent-1001", Role: models.RoleEnterprise, EnterpriseID: "ent-1001"}
	otherEnterprise  = &models.JWTClaims{UserID: "u-ent-1002", Role: models.RoleEnterprise, EnterpriseID: "ent-1002"}
)

type applicationFixture struct {
	svc      *TaskApplicationService
	repo     *repository.MemoryTaskApplicationRepository
	tasks    *datasource.MockDataSource
	mode     *reviewModeStub
	audit    *auditLoggerStub
	notifier *notifierStub
}

func newApplicationFixture(mode models.ReviewMode) *applicationFixture {
	f := &applicationFixture{
		repo:     repository.NewMemoryTaskApplicationRepository(),
		tasks:    datasource.NewMockDataSource(),
		mode:     &reviewModeStub{status: dto.ReviewModeStatus{ReviewMode: mode}},
		audit:    &auditLoggerStub{},
		notifier: &notifierStub{},
	}
	f.svc = NewTaskApplicationService(f.repo, f.tasks, f.mode, f.audit, f.notifier, NewMetricsService(), validator.New(), nil, TaskApplicationConfig{BacklogThreshold: 1})
	return f
}

func sampleSubmission() dto.SubmitTaskApplicationRequest {
	return dto.SubmitTaskApplicationRequest{
		TaskID:         "1001",
		Proposal:       "x",
		ProposedPrice:  5000,
		EstimatedDays:  10,
		PortfolioLinks: []string{},
	}
}

func (f *applicationFixture) submit(t *testing.T) string {
	t.Helper()
	view, err := f.svc.Submit(context.Background(), sampleSubmission(), designerClaims)
	require.NoError(t, err)
	return view.ApplicationID
}

func (f *applicationFixture) stored(t *testing.T, id string) models.TaskApplication {
	t.Helper()
	app, err := f.repo.FindByID(context.Background(), id)
	require.NoError(t, err)
	return *app
}

func TestSubmitUnderDualModeOpensAdminTrail(t *testing.T) {
	f := newApplicationFixture(models.ReviewModeDual)
	before, err := datasource.FindTask(context.Background(), f.tasks, "1001")
	require.NoError(t, err)

	view, err := f.svc.Submit(context.Background(), sampleSubmission(), designerClaims)
	require.NoError(t, err)
	assert.Equal(t, dto.DesignerOutcomePending, view.Status)

	app := f.stored(t, view.ApplicationID)
	assert.Equal(t, models.ApplicationPending, app.Status)
	assert.Equal(t, models.ReviewModeDual, app.ReviewMode)
	require.NotNil(t, app.AdminReviewStatus)
	assert.Equal(t, models.ReviewPending, *app.AdminReviewStatus)
	assert.Nil(t, app.EnterpriseReviewStatus)
	assert.Equal(t, "designer-1", app.DesignerID)
	assert.Equal(t, "ent-1001", app.EnterpriseID)

	require.Len(t, f.notifier.events, 1)
	assert.Equal(t, TransitionSubmit, f.notifier.events[0].Kind)
	require.Len(t, f.audit.logs, 1)
	assert.Equal(t, models.AuditActionApplicationSubmit, f.audit.logs[0].Action)

	after, err := datasource.FindTask(context.Background(), f.tasks, "1001")
	require.NoError(t, err)
	assert.Equal(t, before.Applications+1, after.Applications)
}

func TestAdminRejectionScrubsFeedbackForDesigner(t *testing.T) {
	f := newApplicationFixture(models.ReviewModeDual)
	id := f.submit(t)

	adminView, err := f.svc.AdminReview(context.Background(), id, dto.ReviewTaskApplicationRequest{Status: "rejected", Feedback: "insufficient detail"}, adminClaims)
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationAdminRejected, adminView.Status)
	require.NotNil(t, adminView.AdminReviewFeedback)
	assert.Equal(t, "insufficient detail", *adminView.AdminReviewFeedback)

	designerView, err := f.svc.GetForDesigner(context.Background(), id, designerClaims)
	require.NoError(t, err)
	assert.Equal(t, dto.DesignerOutcomeRejected, designerView.Status)
	assert.Equal(t, AdminRejectionFeedback, designerView.Feedback)
	assert.NotContains(t, designerView.Feedback, "insufficient detail")

	_, err = f.svc.GetForEnterprise(context.Background(), id, enterpriseClaims)
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))
}

func TestEnterpriseModeApprovalKeepsAdminTrailOut(t *testing.T) {
	f := newApplicationFixture(models.ReviewModeEnterprise)
	id := f.submit(t)

	enterpriseView, err := f.svc.EnterpriseReview(context.Background(), id, dto.ReviewTaskApplicationRequest{Status: models.ReviewApproved, Feedback: "great fit"}, enterpriseClaims)
	require.NoError(t, err)
	assert.Equal(t, dto.EnterpriseOutcomeApproved, enterpriseView.Status)

	designerView, err := f.svc.GetForDesigner(context.Background(), id, designerClaims)
	require.NoError(t, err)
	assert.Equal(t, dto.DesignerOutcomeApproved, designerView.Status)
	assert.Equal(t, "great fit", designerView.Feedback)

	adminView, err := f.svc.GetForAdmin(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationEnterpriseApproved, adminView.Status)
	raw, err := json.Marshal(adminView)
	require.NoError(t, err)
	var fields map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &fields))
	assert.NotContains(t, fields, "adminReviewStatus")
	assert.NotContains(t, fields, "adminReviewFeedback")
}

func TestWithdrawAfterApprovalIsTerminal(t *testing.T) {
	f := newApplicationFixture(models.ReviewModeEnterprise)
	id := f.submit(t)
	_, err := f.svc.EnterpriseReview(context.Background(), id, dto.ReviewTaskApplicationRequest{Status: models.ReviewApproved}, enterpriseClaims)
	require.NoError(t, err)
	before := f.stored(t, id)

	_, err = f.svc.Withdraw(context.Background(), id, designerClaims)
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrTerminalState))
	assert.Contains(t, err.Error(), "terminal state")
	assert.Equal(t, before, f.stored(t, id))
}

func TestDualModeEnterpriseVisibilityFollowsAdminGate(t *testing.T) {
	f := newApplicationFixture(models.ReviewModeDual)
	id := f.submit(t)
	ctx := context.Background()

	views, _, err := f.svc.ListForEnterprise(ctx, dto.TaskApplicationQuery{}, enterpriseClaims)
	require.NoError(t, err)
	assert.Empty(t, views)

	_, err = f.svc.EnterpriseReview(ctx, id, dto.ReviewTaskApplicationRequest{Status: models.ReviewApproved}, enterpriseClaims)
	assert.True(t, appErrors.Is(err, appErrors.ErrStageMismatch))

	_, err = f.svc.AdminReview(ctx, id, dto.ReviewTaskApplicationRequest{Status: models.ReviewApproved}, adminClaims)
	require.NoError(t, err)

	designerView, err := f.svc.GetForDesigner(ctx, id, designerClaims)
	require.NoError(t, err)
	assert.Equal(t, dto.DesignerOutcomePending, designerView.Status)

	views, pagination, err := f.svc.ListForEnterprise(ctx, dto.TaskApplicationQuery{Status: "pending"}, enterpriseClaims)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, dto.EnterpriseOutcomePending, views[0].Status)
	assert.Equal(t, 1, pagination.TotalCount)

	_, err = f.svc.GetForEnterprise(ctx, id, otherEnterprise)
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))
	_, err = f.svc.EnterpriseReview(ctx, id, dto.ReviewTaskApplicationRequest{Status: models.ReviewApproved}, otherEnterprise)
	assert.True(t, appErrors.Is(err, appErrors.ErrForbidden))

	view, err := f.svc.EnterpriseReview(ctx, id, dto.ReviewTaskApplicationRequest{Status: models.ReviewRejected}, enterpriseClaims)
	require.NoError(t, err)
	assert.Equal(t, dto.EnterpriseOutcomeRejected, view.Status)

	kinds := make([]TransitionKind, 0, len(f.notifier.events))
	for _, event := range f.notifier.events {
		kinds = append(kinds, event.Kind)
	}
	assert.Equal(t, []TransitionKind{TransitionSubmit, TransitionAdminReview, TransitionEnterpriseReview}, kinds)
}

func TestSubmitRejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(req *dto.SubmitTaskApplicationRequest)
		actor  *models.JWTClaims
		want   *appErrors.Error
	}{
		{name: "closed task", mutate: func(req *dto.SubmitTaskApplicationRequest) { req.TaskID = "1008" }, actor: designerClaims, want: appErrors.ErrPreconditionFailed},
		{name: "unknown task", mutate: func(req *dto.SubmitTaskApplicationRequest) { req.TaskID = "9999" }, actor: designerClaims, want: appErrors.ErrNotFound},
		{name: "task id with path", mutate: func(req *dto.SubmitTaskApplicationRequest) { req.TaskID = "1/../../system/user/list" }, actor: designerClaims, want: appErrors.ErrValidation},
		{name: "non http link", mutate: func(req *dto.SubmitTaskApplicationRequest) { req.PortfolioLinks = []string{"ftp://files.test/a"} }, actor: designerClaims, want: appErrors.ErrValidation},
		{name: "zero price", mutate: func(req *dto.SubmitTaskApplicationRequest) { req.ProposedPrice = 0 }, actor: designerClaims, want: appErrors.ErrValidation},
		{name: "blank proposal", mutate: func(req *dto.SubmitTaskApplicationRequest) { req.Proposal = "   " }, actor: designerClaims, want: appErrors.ErrValidation},
		{name: "enterprise caller", actor: enterpriseClaims, want: appErrors.ErrRoleMismatch},
		{name: "anonymous", want: appErrors.ErrUnauthorized},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newApplicationFixture(models.ReviewModeDual)
			req := sampleSubmission()
			if tc.mutate != nil {
				tc.mutate(&req)
			}
			_, err := f.svc.Submit(context.Background(), req, tc.actor)
			require.Error(t, err)
			assert.True(t, appErrors.Is(err, tc.want), "got %v", err)
		})
	}
}

func TestSubmitDuplicateActiveApplication(t *testing.T) {
	f := newApplicationFixture(models.ReviewModeDual)
	id := f.submit(t)

	_, err := f.svc.Submit(context.Background(), sampleSubmission(), designerClaims)
	assert.True(t, appErrors.Is(err, appErrors.ErrConflict))

	_, err = f.svc.Withdraw(context.Background(), id, designerClaims)
	require.NoError(t, err)
	_, err = f.svc.Submit(context.Background(), sampleSubmission(), designerClaims)
	assert.NoError(t, err)
}

// checkRaceRepo reports no active application, as if a concurrent submit
// had not committed yet when the check ran.
type checkRaceRepo struct {
	*repository.MemoryTaskApplicationRepository
}

func (checkRaceRepo) HasActive(ctx context.Context, taskID, designerID string) (bool, error) {
	return false, nil
}

func TestSubmitDuplicateCaughtAtInsert(t *testing.T) {
	f := newApplicationFixture(models.ReviewModeDual)
	f.svc.repo = checkRaceRepo{f.repo}
	f.submit(t)

	_, err := f.svc.Submit(context.Background(), sampleSubmission(), designerClaims)
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrConflict), "got %v", err)

	_, total, err := f.repo.List(context.Background(), models.TaskApplicationFilter{TaskID: "1001", Page: 1, PageSize: 20})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
}

// ownerlessTasks serves a published task whose upstream record omits enterpriseId.
type ownerlessTasks struct {
	*datasource.MockDataSource
}

func (ownerlessTasks) Fetch(ctx context.Context, resource datasource.Resource, query datasource.Query) (datasource.Page, error) {
	return datasource.Page{Rows: json.RawMessage(`[{"taskId":2001,"status":"PUBLISHED"}]`), Total: 1, Page: 1, Size: 1}, nil
}

func TestSubmitRejectsTaskWithoutEnterprise(t *testing.T) {
	f := newApplicationFixture(models.ReviewModeEnterprise)
	f.svc.tasks = ownerlessTasks{f.tasks}

	req := sampleSubmission()
	req.TaskID = "2001"
	_, err := f.svc.Submit(context.Background(), req, designerClaims)
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrPreconditionFailed), "got %v", err)

	_, total, err := f.repo.List(context.Background(), models.TaskApplicationFilter{Page: 1, PageSize: 20})
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestSubmitSurfacesUpstreamFailure(t *testing.T) {
	f := newApplicationFixture(models.ReviewModeDual)
	f.tasks.SetFailure(datasource.ResourceTasks, appErrors.ErrUpstreamUnavailable)

	_, err := f.svc.Submit(context.Background(), sampleSubmission(), designerClaims)
	assert.True(t, appErrors.Is(err, appErrors.ErrUpstreamUnavailable))
}

func TestSubmitSnapshotsReviewMode(t *testing.T) {
	f := newApplicationFixture(models.ReviewModeDual)
	dualID := f.submit(t)

	f.mode.status = dto.ReviewModeStatus{ReviewMode: models.ReviewModeEnterprise}
	view, err := f.svc.Submit(context.Background(), dto.SubmitTaskApplicationRequest{TaskID: "1003", Proposal: "y", ProposedPrice: 100, EstimatedDays: 2}, designerClaims)
	require.NoError(t, err)

	assert.Equal(t, models.ReviewModeDual, f.stored(t, dualID).ReviewMode)
	enterpriseApp := f.stored(t, view.ApplicationID)
	assert.Equal(t, models.ReviewModeEnterprise, enterpriseApp.ReviewMode)
	assert.Nil(t, enterpriseApp.AdminReviewStatus)
	require.NotNil(t, enterpriseApp.EnterpriseReviewStatus)
}

func TestWithdrawByAnotherDesignerIsForbidden(t *testing.T) {
	f := newApplicationFixture(models.ReviewModeDual)
	id := f.submit(t)

	_, err := f.svc.Withdraw(context.Background(), id, otherDesigner)
	assert.True(t, appErrors.Is(err, appErrors.ErrForbidden))

	_, err = f.svc.GetForDesigner(context.Background(), id, otherDesigner)
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))

	view, err := f.svc.Withdraw(context.Background(), id, designerClaims)
	require.NoError(t, err)
	assert.Equal(t, dto.DesignerOutcomeWithdrawn, view.Status)
}

func TestReviewGuardsRunBeforeDecisionValidation(t *testing.T) {
	f := newApplicationFixture(models.ReviewModeDual)
	id := f.submit(t)
	_, err := f.svc.Withdraw(context.Background(), id, designerClaims)
	require.NoError(t, err)

	_, err = f.svc.AdminReview(context.Background(), id, dto.ReviewTaskApplicationRequest{Status: "MAYBE"}, adminClaims)
	assert.True(t, appErrors.Is(err, appErrors.ErrTerminalState))

	other := f.submit(t)
	_, err = f.svc.AdminReview(context.Background(), other, dto.ReviewTaskApplicationRequest{Status: "MAYBE"}, adminClaims)
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))

	_, err = f.svc.AdminReview(context.Background(), other, dto.ReviewTaskApplicationRequest{Status: models.ReviewApproved}, enterpriseClaims)
	assert.True(t, appErrors.Is(err, appErrors.ErrRoleMismatch))
}

func TestLostUpdateIsConflict(t *testing.T) {
	f := newApplicationFixture(models.ReviewModeDual)
	id := f.submit(t)
	svc := NewTaskApplicationService(staleRepo{f.repo}, f.tasks, f.mode, nil, nil, nil, nil, nil, TaskApplicationConfig{})

	_, err := svc.AdminReview(context.Background(), id, dto.ReviewTaskApplicationRequest{Status: models.ReviewApproved}, adminClaims)
	assert.True(t, appErrors.Is(err, appErrors.ErrConflict))
	assert.Equal(t, models.ApplicationPending, f.stored(t, id).Status)
}

func TestGetMissingApplication(t *testing.T) {
	f := newApplicationFixture(models.ReviewModeDual)
	_, err := f.svc.GetForAdmin(context.Background(), "missing")
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))
}

func TestListForDesignerFiltersByOutcome(t *testing.T) {
	f := newApplicationFixture(models.ReviewModeDual)
	ctx := context.Background()
	first := f.submit(t)
	_, err := f.svc.AdminReview(ctx, first, dto.ReviewTaskApplicationRequest{Status: models.ReviewApproved}, adminClaims)
	require.NoError(t, err)
	second, err := f.svc.Submit(ctx, dto.SubmitTaskApplicationRequest{TaskID: "1002", Proposal: "z", ProposedPrice: 10, EstimatedDays: 1}, designerClaims)
	require.NoError(t, err)
	_, err = f.svc.AdminReview(ctx, second.ApplicationID, dto.ReviewTaskApplicationRequest{Status: models.ReviewRejected}, adminClaims)
	require.NoError(t, err)

	pending, _, err := f.svc.ListForDesigner(ctx, dto.TaskApplicationQuery{Status: "PENDING"}, designerClaims)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, first, pending[0].ApplicationID)

	rejected, _, err := f.svc.ListForDesigner(ctx, dto.TaskApplicationQuery{Status: "REJECTED"}, designerClaims)
	require.NoError(t, err)
	require.Len(t, rejected, 1)

	none, _, err := f.svc.ListForDesigner(ctx, dto.TaskApplicationQuery{}, otherDesigner)
	require.NoError(t, err)
	assert.Empty(t, none)

	_, _, err = f.svc.ListForDesigner(ctx, dto.TaskApplicationQuery{Status: "ADMIN_APPROVED"}, designerClaims)
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))

	all, pagination, err := f.svc.ListForAdmin(ctx, dto.TaskApplicationQuery{Status: "ADMIN_APPROVED"})
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, 1, pagination.TotalCount)
}

func TestAdminReviewStats(t *testing.T) {
	f := newApplicationFixture(models.ReviewModeDual)
	ctx := context.Background()
	now := time.Now().UTC()
	f.svc.now = func() time.Time { return now }

	approved := f.submit(t)
	_, err := f.svc.AdminReview(ctx, approved, dto.ReviewTaskApplicationRequest{Status: models.ReviewApproved}, adminClaims)
	require.NoError(t, err)
	for _, taskID := range []string{"1002", "1003"} {
		_, err := f.svc.Submit(ctx, dto.SubmitTaskApplicationRequest{TaskID: taskID, Proposal: "p", ProposedPrice: 1, EstimatedDays: 1}, designerClaims)
		require.NoError(t, err)
	}

	stats, err := f.svc.AdminReviewStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.PendingCount)
	assert.Equal(t, 1, stats.ReviewedToday)
	assert.Equal(t, 100.0, stats.ApprovalRate)
	assert.True(t, stats.BacklogAlert)
	assert.Equal(t, 1, stats.BacklogThreshold)
}

func TestDesignerStats(t *testing.T) {
	f := newApplicationFixture(models.ReviewModeDual)
	ctx := context.Background()

	approved := f.submit(t)
	_, err := f.svc.AdminReview(ctx, approved, dto.ReviewTaskApplicationRequest{Status: models.ReviewApproved}, adminClaims)
	require.NoError(t, err)
	_, err = f.svc.EnterpriseReview(ctx, approved, dto.ReviewTaskApplicationRequest{Status: models.ReviewApproved}, enterpriseClaims)
	require.NoError(t, err)

	ids := map[string]string{}
	for taskID, price := range map[string]float64{"1002": 3000, "1003": 2000, "1004": 1000} {
		view, err := f.svc.Submit(ctx, dto.SubmitTaskApplicationRequest{TaskID: taskID, Proposal: "p", ProposedPrice: price, EstimatedDays: 5}, designerClaims)
		require.NoError(t, err)
		ids[taskID] = view.ApplicationID
	}
	_, err = f.svc.AdminReview(ctx, ids["1002"], dto.ReviewTaskApplicationRequest{Status: models.ReviewRejected, Feedback: "scope"}, adminClaims)
	require.NoError(t, err)
	_, err = f.svc.Withdraw(ctx, ids["1003"], designerClaims)
	require.NoError(t, err)

	other := sampleSubmission()
	_, err = f.svc.Submit(ctx, other, otherDesigner)
	require.NoError(t, err)

	stats, err := f.svc.DesignerStats(ctx, designerClaims)
	require.NoError(t, err)
	assert.Equal(t, 4, stats.AppliedTasks)
	assert.Equal(t, 1, stats.ActiveTasks)
	assert.Equal(t, 1, stats.ApprovedTasks)
	assert.Equal(t, 1, stats.RejectedTasks)
	assert.Equal(t, 1, stats.WithdrawnTasks)
	assert.Equal(t, 2750.0, stats.AverageTaskPrice)
	assert.Equal(t, 50.0, stats.SuccessRate)
}

func TestDesignerStatsEmptyAndRoleChecks(t *testing.T) {
	f := newApplicationFixture(models.ReviewModeDual)
	ctx := context.Background()

	stats, err := f.svc.DesignerStats(ctx, otherDesigner)
	require.NoError(t, err)
	assert.Zero(t, stats.AppliedTasks)
	assert.Zero(t, stats.SuccessRate)

	_, err = f.svc.DesignerStats(ctx, enterpriseClaims)
	assert.True(t, appErrors.Is(err, appErrors.ErrRoleMismatch))
	_, err = f.svc.DesignerStats(ctx, nil)
	assert.True(t, appErrors.Is(err, appErrors.ErrUnauthorized))
}

func TestTaskStatsScopesByRole(t *testing.T) {
	f := newApplicationFixture(models.ReviewModeDual)
	ctx := context.Background()

	first := f.submit(t)
	second, err := f.svc.Submit(ctx, dto.SubmitTaskApplicationRequest{TaskID: "1001", Proposal: "p", ProposedPrice: 7000, EstimatedDays: 20}, otherDesigner)
	require.NoError(t, err)
	_, err = f.svc.AdminReview(ctx, first, dto.ReviewTaskApplicationRequest{Status: models.ReviewApproved}, adminClaims)
	require.NoError(t, err)
	_, err = f.svc.AdminReview(ctx, second.ApplicationID, dto.ReviewTaskApplicationRequest{Status: models.ReviewRejected, Feedback: "budget"}, adminClaims)
	require.NoError(t, err)

	all, err := f.svc.TaskStats(ctx, "1001", adminClaims)
	require.NoError(t, err)
	assert.Equal(t, "1001", all.TaskID)
	assert.Equal(t, 2, all.TotalApplications)
	assert.Equal(t, 1, all.PendingCount)
	assert.Equal(t, 1, all.RejectedCount)
	assert.Equal(t, 6000.0, all.AverageTaskPrice)
	assert.Equal(t, 5000.0, all.MinProposedPrice)
	assert.Equal(t, 7000.0, all.MaxProposedPrice)
	assert.Equal(t, 15.0, all.AverageEstimatedDays)

	owner, err := f.svc.TaskStats(ctx, "1001", enterpriseClaims)
	require.NoError(t, err)
	assert.Equal(t, 1, owner.TotalApplications)
	assert.Equal(t, 1, owner.PendingCount)
	assert.Zero(t, owner.RejectedCount)
	assert.Equal(t, 5000.0, owner.AverageTaskPrice)

	stranger, err := f.svc.TaskStats(ctx, "1001", otherEnterprise)
	require.NoError(t, err)
	assert.Zero(t, stranger.TotalApplications)
	assert.Zero(t, stranger.MinProposedPrice)

	_, err = f.svc.TaskStats(ctx, "1001", designerClaims)
	assert.True(t, appErrors.Is(err, appErrors.ErrRoleMismatch))
	_, err = f.svc.TaskStats(ctx, "../1001", adminClaims)
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
}
