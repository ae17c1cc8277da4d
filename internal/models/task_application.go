package models

import (
	"time"

	"github.com/lib/pq"
)

// ApplicationStatus is the unified outcome of a task application.
type ApplicationStatus string

const (
	ApplicationPending            ApplicationStatus = "PENDING"
	ApplicationAdminApproved      ApplicationStatus = "ADMIN_APPROVED"
	ApplicationAdminRejected      ApplicationStatus = "ADMIN_REJECTED"
	ApplicationEnterpriseApproved ApplicationStatus = "ENTERPRISE_APPROVED"
	ApplicationEnterpriseRejected ApplicationStatus = "ENTERPRISE_REJECTED"
	ApplicationWithdrawn          ApplicationStatus = "WITHDRAWN"
)

// IsTerminal reports whether no further transition is permitted from s.
func (s ApplicationStatus) IsTerminal() bool {
	switch s {
	case ApplicationAdminRejected, ApplicationEnterpriseRejected, ApplicationEnterpriseApproved, ApplicationWithdrawn:
		return true
	default:
		return false
	}
}

// Valid reports whether s is a known status.
func (s ApplicationStatus) Valid() bool {
	switch s {
	case ApplicationPending, ApplicationAdminApproved, ApplicationAdminRejected,
		ApplicationEnterpriseApproved, ApplicationEnterpriseRejected, ApplicationWithdrawn:
		return true
	default:
		return false
	}
}

// ReviewStatus is the state of a single reviewer's trail.
type ReviewStatus string

const (
	ReviewPending  ReviewStatus = "PENDING"
	ReviewApproved ReviewStatus = "APPROVED"
	ReviewRejected ReviewStatus = "REJECTED"
)

// IsDecision reports whether s is a final reviewer decision.
func (s ReviewStatus) IsDecision() bool {
	return s == ReviewApproved || s == ReviewRejected
}

// ReviewMode selects whether an admin gate precedes the enterprise review.
type ReviewMode string

const (
	ReviewModeDual       ReviewMode = "DUAL"
	ReviewModeEnterprise ReviewMode = "ENTERPRISE"
)

// DefaultReviewMode applies whenever the configured mode cannot be read.
const DefaultReviewMode = ReviewModeDual

// Valid reports whether m is a known review mode.
func (m ReviewMode) Valid() bool {
	return m == ReviewModeDual || m == ReviewModeEnterprise
}

// TaskApplication is the canonical application record. Projections in the dto
// package derive role-specific views from it.
type TaskApplication struct {
	ID             string         `db:"id" json:"applicationId"`
	TaskID         string         `db:"task_id" json:"taskId"`
	DesignerID     string         `db:"designer_id" json:"designerId"`
	EnterpriseID   string         `db:"enterprise_id" json:"enterpriseId"`
	Proposal       string         `db:"proposal" json:"proposal"`
	ProposedPrice  float64        `db:"proposed_price" json:"proposedPrice"`
	EstimatedDays  int            `db:"estimated_days" json:"estimatedDays"`
	PortfolioLinks pq.StringArray `db:"portfolio_links" json:"portfolioLinks"`

	Status   ApplicationStatus `db:"status" json:"status"`
	Feedback string            `db:"feedback" json:"feedback"`

	AdminReviewStatus   *ReviewStatus `db:"admin_review_status" json:"adminReviewStatus,omitempty"`
	AdminReviewFeedback *string       `db:"admin_review_feedback" json:"adminReviewFeedback,omitempty"`
	AdminReviewTime     *time.Time    `db:"admin_review_time" json:"adminReviewTime,omitempty"`
	AdminReviewBy       *string       `db:"admin_review_by" json:"adminReviewBy,omitempty"`

	EnterpriseReviewStatus   *ReviewStatus `db:"enterprise_review_status" json:"enterpriseReviewStatus,omitempty"`
	EnterpriseReviewFeedback *string       `db:"enterprise_review_feedback" json:"enterpriseReviewFeedback,omitempty"`
	EnterpriseReviewTime     *time.Time    `db:"enterprise_review_time" json:"enterpriseReviewTime,omitempty"`
	EnterpriseReviewBy       *string       `db:"enterprise_review_by" json:"enterpriseReviewBy,omitempty"`

	ReviewMode  ReviewMode `db:"review_mode" json:"reviewMode"`
	CreatedAt   time.Time  `db:"created_at" json:"createTime"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updateTime"`
	WithdrawnAt *time.Time `db:"withdrawn_at" json:"withdrawTime,omitempty"`
}

// Clone returns a deep copy so callers can derive new states without aliasing.
func (a TaskApplication) Clone() TaskApplication {
	out := a
	if a.PortfolioLinks != nil {
		out.PortfolioLinks = append(pq.StringArray(nil), a.PortfolioLinks...)
	}
	out.AdminReviewStatus = cloneReviewStatus(a.AdminReviewStatus)
	out.AdminReviewFeedback = cloneString(a.AdminReviewFeedback)
	out.AdminReviewTime = cloneTime(a.AdminReviewTime)
	out.AdminReviewBy = cloneString(a.AdminReviewBy)
	out.EnterpriseReviewStatus = cloneReviewStatus(a.EnterpriseReviewStatus)
	out.EnterpriseReviewFeedback = cloneString(a.EnterpriseReviewFeedback)
	out.EnterpriseReviewTime = cloneTime(a.EnterpriseReviewTime)
	out.EnterpriseReviewBy = cloneString(a.EnterpriseReviewBy)
	out.WithdrawnAt = cloneTime(a.WithdrawnAt)
	return out
}

// ClearedAdminGate reports whether the application has reached the enterprise.
func (a TaskApplication) ClearedAdminGate() bool {
	return a.EnterpriseReviewStatus != nil
}

// TaskApplicationFilter captures list criteria for applications.
type TaskApplicationFilter struct {
	TaskID       string
	DesignerID   string
	EnterpriseID string
	ReviewMode   ReviewMode
	Statuses     []ApplicationStatus
	// EnterpriseVisible restricts results to records that reached the enterprise.
	EnterpriseVisible bool
	Page              int
	PageSize          int
	SortOrder         string
}

func cloneString(v *string) *string {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func cloneTime(v *time.Time) *time.Time {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func cloneReviewStatus(v *ReviewStatus) *ReviewStatus {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
