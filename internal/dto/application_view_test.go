package dto

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/talent-factory-api/internal/models"
)

var adminTrailKeys = []string{"adminReviewStatus", "adminReviewFeedback", "adminReviewTime", "adminReviewBy"}

var enterpriseTrailKeys = []string{"enterpriseReviewStatus", "enterpriseReviewFeedback", "enterpriseReviewTime", "enterpriseReviewBy"}

func reviewPtr(s models.ReviewStatus) *models.ReviewStatus { return &s }

func textPtr(s string) *string { return &s }

func timePtr(t time.Time) *time.Time { return &t }

func fixtures() []models.TaskApplication {
	created := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	reviewed := created.Add(2 * time.Hour)
	decided := created.Add(26 * time.Hour)

	base := models.TaskApplication{
		ID:             "app-1",
		TaskID:         "task-1",
		DesignerID:     "designer-1",
		EnterpriseID:   "ent-1",
		Proposal:       "x",
		ProposedPrice:  5000,
		EstimatedDays:  10,
		PortfolioLinks: []string{"https://portfolio.test/1"},
		CreatedAt:      created,
		UpdatedAt:      created,
	}

	dualPending := base
	dualPending.ReviewMode = models.ReviewModeDual
	dualPending.Status = models.ApplicationPending
	dualPending.AdminReviewStatus = reviewPtr(models.ReviewPending)

	dualAdminRejected := base
	dualAdminRejected.ReviewMode = models.ReviewModeDual
	dualAdminRejected.Status = models.ApplicationAdminRejected
	dualAdminRejected.Feedback = "Your application did not pass platform review."
	dualAdminRejected.AdminReviewStatus = reviewPtr(models.ReviewRejected)
	dualAdminRejected.AdminReviewFeedback = textPtr("insufficient detail")
	dualAdminRejected.AdminReviewTime = timePtr(reviewed)
	dualAdminRejected.AdminReviewBy = textPtr("admin-1")

	dualApproved := base
	dualApproved.ReviewMode = models.ReviewModeDual
	dualApproved.Status = models.ApplicationEnterpriseApproved
	dualApproved.Feedback = "welcome aboard"
	dualApproved.AdminReviewStatus = reviewPtr(models.ReviewApproved)
	dualApproved.AdminReviewFeedback = textPtr("solid portfolio")
	dualApproved.AdminReviewTime = timePtr(reviewed)
	dualApproved.AdminReviewBy = textPtr("admin-1")
	dualApproved.EnterpriseReviewStatus = reviewPtr(models.ReviewApproved)
	dualApproved.EnterpriseReviewFeedback = textPtr("welcome aboard")
	dualApproved.EnterpriseReviewTime = timePtr(decided)
	dualApproved.EnterpriseReviewBy = textPtr("ent-1")

	entApproved := base
	entApproved.ReviewMode = models.ReviewModeEnterprise
	entApproved.Status = models.ApplicationEnterpriseApproved
	entApproved.Feedback = "great fit"
	entApproved.EnterpriseReviewStatus = reviewPtr(models.ReviewApproved)
	entApproved.EnterpriseReviewFeedback = textPtr("great fit")
	entApproved.EnterpriseReviewTime = timePtr(decided)
	entApproved.EnterpriseReviewBy = textPtr("ent-1")

	entPending := base
	entPending.ReviewMode = models.ReviewModeEnterprise
	entPending.Status = models.ApplicationPending
	entPending.EnterpriseReviewStatus = reviewPtr(models.ReviewPending)

	withdrawn := dualPending
	withdrawn.Status = models.ApplicationWithdrawn
	withdrawn.WithdrawnAt = timePtr(reviewed)

	return []models.TaskApplication{dualPending, dualAdminRejected, dualApproved, entApproved, entPending, withdrawn}
}

func keysOf(t *testing.T, v interface{}) map[string]json.RawMessage {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	out := map[string]json.RawMessage{}
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

func TestEnterpriseModeViewsNeverCarryAdminTrail(t *testing.T) {
	for _, app := range fixtures() {
		if app.ReviewMode != models.ReviewModeEnterprise {
			continue
		}
		// Even a record polluted with admin data must not leak it.
		app.AdminReviewStatus = reviewPtr(models.ReviewApproved)
		app.AdminReviewFeedback = textPtr("stray")

		adminKeys := keysOf(t, ToAdminView(app))
		enterpriseKeys := keysOf(t, ToEnterpriseView(app))
		for _, key := range adminTrailKeys {
			assert.NotContains(t, adminKeys, key)
			assert.NotContains(t, enterpriseKeys, key)
		}
	}
}

func TestEnterpriseViewOmitsAdminTrailAndReviewMode(t *testing.T) {
	for _, app := range fixtures() {
		keys := keysOf(t, ToEnterpriseView(app))
		for _, key := range append(append([]string{}, adminTrailKeys...), "reviewMode") {
			assert.NotContains(t, keys, key, app.Status)
		}
		for _, key := range enterpriseTrailKeys {
			assert.NotContains(t, keys, key, app.Status)
		}
	}
}

func TestDesignerViewOmitsEveryTrailField(t *testing.T) {
	forbidden := append(append(append([]string{}, adminTrailKeys...), enterpriseTrailKeys...), "reviewMode", "enterpriseId")
	for _, app := range fixtures() {
		keys := keysOf(t, ToDesignerView(app))
		for _, key := range forbidden {
			assert.NotContains(t, keys, key, app.Status)
		}
		assert.Contains(t, keys, "status")
		assert.Contains(t, keys, "createTime")
		assert.Contains(t, keys, "proposal")
	}
}

func TestProjectorsAreIdempotent(t *testing.T) {
	for _, app := range fixtures() {
		before := app.Clone()

		assert.Equal(t, ToAdminView(app), ToAdminView(app))
		assert.Equal(t, ToEnterpriseView(app), ToEnterpriseView(app))
		assert.Equal(t, ToDesignerView(app), ToDesignerView(app))
		assert.Equal(t, before, app)
	}
}

func TestProjectorsDoNotAliasRecord(t *testing.T) {
	app := fixtures()[2]
	view := ToAdminView(app)
	view.PortfolioLinks[0] = "https://changed.test"
	*view.AdminReviewFeedback = "changed"

	assert.Equal(t, "https://portfolio.test/1", app.PortfolioLinks[0])
	assert.Equal(t, "solid portfolio", *app.AdminReviewFeedback)
}

func TestAdminViewIncludesBothTrailsInDualMode(t *testing.T) {
	keys := keysOf(t, ToAdminView(fixtures()[2]))
	for _, key := range append(append([]string{}, adminTrailKeys...), enterpriseTrailKeys...) {
		assert.Contains(t, keys, key)
	}
	assert.Contains(t, keys, "reviewMode")
}

func TestDesignerOutcomeCollapsesAdminStage(t *testing.T) {
	assert.Equal(t, DesignerOutcomePending, DesignerOutcomeOf(models.ApplicationPending))
	assert.Equal(t, DesignerOutcomePending, DesignerOutcomeOf(models.ApplicationAdminApproved))
	assert.Equal(t, DesignerOutcomeRejected, DesignerOutcomeOf(models.ApplicationAdminRejected))
	assert.Equal(t, DesignerOutcomeRejected, DesignerOutcomeOf(models.ApplicationEnterpriseRejected))
	assert.Equal(t, DesignerOutcomeApproved, DesignerOutcomeOf(models.ApplicationEnterpriseApproved))
	assert.Equal(t, DesignerOutcomeWithdrawn, DesignerOutcomeOf(models.ApplicationWithdrawn))
}

func TestDesignerViewReviewTimeFollowsDecisiveTrail(t *testing.T) {
	apps := fixtures()
	assert.Nil(t, ToDesignerView(apps[0]).ReviewTime)
	assert.Equal(t, apps[1].AdminReviewTime, ToDesignerView(apps[1]).ReviewTime)
	assert.Equal(t, apps[2].EnterpriseReviewTime, ToDesignerView(apps[2]).ReviewTime)
}

func TestEnterpriseViewRenamesTrail(t *testing.T) {
	view := ToEnterpriseView(fixtures()[3])
	assert.Equal(t, EnterpriseOutcomeApproved, view.Status)
	assert.Equal(t, "great fit", view.Feedback)
	require.NotNil(t, view.ReviewTime)

	withdrawn := ToEnterpriseView(fixtures()[5])
	assert.Equal(t, EnterpriseOutcomeWithdrawn, withdrawn.Status)
}

func TestVisibleToEnterprise(t *testing.T) {
	apps := fixtures()
	assert.False(t, VisibleToEnterprise(apps[0]))
	assert.False(t, VisibleToEnterprise(apps[1]))
	assert.True(t, VisibleToEnterprise(apps[2]))
	assert.True(t, VisibleToEnterprise(apps[4]))
}
