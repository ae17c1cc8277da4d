package dto

import (
	"time"

	"github.com/noah-isme/talent-factory-api/internal/models"
)

// AdminOutcome is the full unified status, visible only to platform admins.
type AdminOutcome = models.ApplicationStatus

// EnterpriseOutcome is the enterprise trail status as seen by the posting enterprise.
type EnterpriseOutcome string

const (
	EnterpriseOutcomePending   EnterpriseOutcome = "PENDING"
	EnterpriseOutcomeApproved  EnterpriseOutcome = "APPROVED"
	EnterpriseOutcomeRejected  EnterpriseOutcome = "REJECTED"
	EnterpriseOutcomeWithdrawn EnterpriseOutcome = "WITHDRAWN"
)

// DesignerOutcome is the outcome an applicant sees. The admin stage is not
// distinguishable from waiting on the enterprise.
type DesignerOutcome string

const (
	DesignerOutcomePending   DesignerOutcome = "PENDING"
	DesignerOutcomeApproved  DesignerOutcome = "APPROVED"
	DesignerOutcomeRejected  DesignerOutcome = "REJECTED"
	DesignerOutcomeWithdrawn DesignerOutcome = "WITHDRAWN"
)

// ProposalView is the submitted proposal content shared by every projection.
type ProposalView struct {
	Proposal       string   `json:"proposal"`
	ProposedPrice  float64  `json:"proposedPrice"`
	EstimatedDays  int      `json:"estimatedDays"`
	PortfolioLinks []string `json:"portfolioLinks"`
}

// AdminApplicationView exposes both trails. Admin trail fields stay nil for
// applications created in ENTERPRISE mode and are then omitted from JSON.
type AdminApplicationView struct {
	ApplicationID string `json:"applicationId"`
	TaskID        string `json:"taskId"`
	DesignerID    string `json:"designerId"`
	EnterpriseID  string `json:"enterpriseId,omitempty"`
	ProposalView

	Status     AdminOutcome      `json:"status"`
	Feedback   string            `json:"feedback"`
	ReviewMode models.ReviewMode `json:"reviewMode"`

	AdminReviewStatus   *models.ReviewStatus `json:"adminReviewStatus,omitempty"`
	AdminReviewFeedback *string              `json:"adminReviewFeedback,omitempty"`
	AdminReviewTime     *time.Time           `json:"adminReviewTime,omitempty"`
	AdminReviewBy       *string              `json:"adminReviewBy,omitempty"`

	EnterpriseReviewStatus   *models.ReviewStatus `json:"enterpriseReviewStatus,omitempty"`
	EnterpriseReviewFeedback *string              `json:"enterpriseReviewFeedback,omitempty"`
	EnterpriseReviewTime     *time.Time           `json:"enterpriseReviewTime,omitempty"`
	EnterpriseReviewBy       *string              `json:"enterpriseReviewBy,omitempty"`

	CreateTime   time.Time  `json:"createTime"`
	UpdateTime   time.Time  `json:"updateTime"`
	WithdrawTime *time.Time `json:"withdrawTime,omitempty"`
}

// EnterpriseApplicationView carries the enterprise trail under actor-neutral
// names. It has no admin trail or review mode fields.
type EnterpriseApplicationView struct {
	ApplicationID string `json:"applicationId"`
	TaskID        string `json:"taskId"`
	DesignerID    string `json:"designerId"`
	ProposalView

	Status     EnterpriseOutcome `json:"status"`
	Feedback   string            `json:"feedback,omitempty"`
	ReviewTime *time.Time        `json:"reviewTime,omitempty"`
	CreateTime time.Time         `json:"createTime"`
}

// DesignerApplicationView carries only the unified outcome and the applicant's proposal.
type DesignerApplicationView struct {
	ApplicationID string `json:"applicationId"`
	TaskID        string `json:"taskId"`
	ProposalView

	Status     DesignerOutcome `json:"status"`
	Feedback   string          `json:"feedback,omitempty"`
	CreateTime time.Time       `json:"createTime"`
	ReviewTime *time.Time      `json:"reviewTime,omitempty"`
}

// ToAdminView projects the record for platform admins.
func ToAdminView(app models.TaskApplication) AdminApplicationView {
	view := AdminApplicationView{
		ApplicationID: app.ID,
		TaskID:        app.TaskID,
		DesignerID:    app.DesignerID,
		EnterpriseID:  app.EnterpriseID,
		ProposalView:  proposalOf(app),
		Status:        app.Status,
		Feedback:      app.Feedback,
		ReviewMode:    app.ReviewMode,
		CreateTime:    app.CreatedAt,
		UpdateTime:    app.UpdatedAt,
		WithdrawTime:  copyTime(app.WithdrawnAt),
	}
	if app.ReviewMode == models.ReviewModeDual {
		view.AdminReviewStatus = copyReview(app.AdminReviewStatus)
		view.AdminReviewFeedback = copyString(app.AdminReviewFeedback)
		view.AdminReviewTime = copyTime(app.AdminReviewTime)
		view.AdminReviewBy = copyString(app.AdminReviewBy)
	}
	view.EnterpriseReviewStatus = copyReview(app.EnterpriseReviewStatus)
	view.EnterpriseReviewFeedback = copyString(app.EnterpriseReviewFeedback)
	view.EnterpriseReviewTime = copyTime(app.EnterpriseReviewTime)
	view.EnterpriseReviewBy = copyString(app.EnterpriseReviewBy)
	return view
}

// ToEnterpriseView projects the record for the posting enterprise.
func ToEnterpriseView(app models.TaskApplication) EnterpriseApplicationView {
	view := EnterpriseApplicationView{
		ApplicationID: app.ID,
		TaskID:        app.TaskID,
		DesignerID:    app.DesignerID,
		ProposalView:  proposalOf(app),
		Status:        EnterpriseOutcomeOf(app),
		CreateTime:    app.CreatedAt,
		ReviewTime:    copyTime(app.EnterpriseReviewTime),
	}
	if app.EnterpriseReviewFeedback != nil {
		view.Feedback = *app.EnterpriseReviewFeedback
	}
	return view
}

// ToDesignerView projects the record for the applicant.
func ToDesignerView(app models.TaskApplication) DesignerApplicationView {
	view := DesignerApplicationView{
		ApplicationID: app.ID,
		TaskID:        app.TaskID,
		ProposalView:  proposalOf(app),
		Status:        DesignerOutcomeOf(app.Status),
		Feedback:      app.Feedback,
		CreateTime:    app.CreatedAt,
	}
	switch app.Status {
	case models.ApplicationAdminRejected:
		view.ReviewTime = copyTime(app.AdminReviewTime)
	case models.ApplicationEnterpriseApproved, models.ApplicationEnterpriseRejected:
		view.ReviewTime = copyTime(app.EnterpriseReviewTime)
	case models.ApplicationWithdrawn:
		view.ReviewTime = copyTime(app.WithdrawnAt)
	}
	return view
}

// VisibleToEnterprise reports whether the record has reached the enterprise.
// Applications still waiting on, or rejected by, the admin review are hidden.
func VisibleToEnterprise(app models.TaskApplication) bool {
	return app.ClearedAdminGate()
}

// EnterpriseOutcomeOf maps the record onto the enterprise trail outcome.
func EnterpriseOutcomeOf(app models.TaskApplication) EnterpriseOutcome {
	if app.Status == models.ApplicationWithdrawn {
		return EnterpriseOutcomeWithdrawn
	}
	if app.EnterpriseReviewStatus == nil {
		return EnterpriseOutcomePending
	}
	switch *app.EnterpriseReviewStatus {
	case models.ReviewApproved:
		return EnterpriseOutcomeApproved
	case models.ReviewRejected:
		return EnterpriseOutcomeRejected
	default:
		return EnterpriseOutcomePending
	}
}

// DesignerOutcomeOf collapses the unified status into the applicant-visible outcome.
func DesignerOutcomeOf(status models.ApplicationStatus) DesignerOutcome {
	switch status {
	case models.ApplicationEnterpriseApproved:
		return DesignerOutcomeApproved
	case models.ApplicationAdminRejected, models.ApplicationEnterpriseRejected:
		return DesignerOutcomeRejected
	case models.ApplicationWithdrawn:
		return DesignerOutcomeWithdrawn
	default:
		return DesignerOutcomePending
	}
}

func proposalOf(app models.TaskApplication) ProposalView {
	links := make([]string, len(app.PortfolioLinks))
	copy(links, app.PortfolioLinks)
	return ProposalView{
		Proposal:       app.Proposal,
		ProposedPrice:  app.ProposedPrice,
		EstimatedDays:  app.EstimatedDays,
		PortfolioLinks: links,
	}
}

func copyString(v *string) *string {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func copyTime(v *time.Time) *time.Time {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func copyReview(v *models.ReviewStatus) *models.ReviewStatus {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
