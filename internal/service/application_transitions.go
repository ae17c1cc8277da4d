package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/noah-isme/talent-factory-api/internal/models"
	appErrors "github.com/noah-isme/talent-factory-api/pkg/errors"
)

// TransitionKind names the actor-initiated action applied to an application.
type TransitionKind string

const (
	TransitionAdminReview      TransitionKind = "ADMIN_REVIEW"
	TransitionEnterpriseReview TransitionKind = "ENTERPRISE_REVIEW"
	TransitionWithdraw         TransitionKind = "WITHDRAW"

	// TransitionSubmit labels the creation event. Transition does not accept it.
	TransitionSubmit TransitionKind = "SUBMIT"
)

// Unified feedback shown to applicants. Admin text never reaches the unified field.
const (
	AdminRejectionFeedback      = "Your application did not pass platform review."
	EnterpriseApprovalFeedback  = "Your application has been accepted by the enterprise."
	EnterpriseRejectionFeedback = "Your application was not selected for this task."
)

// TransitionRequest describes a proposed change to an application.
type TransitionRequest struct {
	Kind      TransitionKind
	ActorRole models.UserRole
	ActorID   string
	Decision  models.ReviewStatus
	Feedback  string
	At        time.Time
}

// ApplicationDraft carries validated submission input.
type ApplicationDraft struct {
	ID             string
	TaskID         string
	DesignerID     string
	EnterpriseID   string
	Proposal       string
	ProposedPrice  float64
	EstimatedDays  int
	PortfolioLinks []string
}

// NewApplication builds the initial PENDING record for the given review mode.
// In DUAL mode the admin trail opens; in ENTERPRISE mode the enterprise trail opens.
func NewApplication(draft ApplicationDraft, mode models.ReviewMode, now time.Time) models.TaskApplication {
	if !mode.Valid() {
		mode = models.DefaultReviewMode
	}
	links := make([]string, len(draft.PortfolioLinks))
	copy(links, draft.PortfolioLinks)

	app := models.TaskApplication{
		ID:             draft.ID,
		TaskID:         draft.TaskID,
		DesignerID:     draft.DesignerID,
		EnterpriseID:   draft.EnterpriseID,
		Proposal:       draft.Proposal,
		ProposedPrice:  draft.ProposedPrice,
		EstimatedDays:  draft.EstimatedDays,
		PortfolioLinks: links,
		Status:         models.ApplicationPending,
		ReviewMode:     mode,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	pending := models.ReviewPending
	if mode == models.ReviewModeDual {
		app.AdminReviewStatus = &pending
	} else {
		app.EnterpriseReviewStatus = &pending
	}
	return app
}

// Transition validates req against current and returns the resulting record.
// current is never modified; on error the caller keeps the original record.
func Transition(current models.TaskApplication, req TransitionRequest) (models.TaskApplication, error) {
	if current.Status.IsTerminal() {
		return current, appErrors.Clone(appErrors.ErrTerminalState,
			fmt.Sprintf("%s rejected: application is in a terminal state (%s)", kindLabel(req.Kind), current.Status))
	}
	if req.At.IsZero() {
		req.At = time.Now().UTC()
	}

	switch req.Kind {
	case TransitionAdminReview:
		return applyAdminReview(current, req)
	case TransitionEnterpriseReview:
		return applyEnterpriseReview(current, req)
	case TransitionWithdraw:
		return applyWithdraw(current, req)
	default:
		return current, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown transition %q", req.Kind))
	}
}

func applyAdminReview(current models.TaskApplication, req TransitionRequest) (models.TaskApplication, error) {
	if !req.ActorRole.IsPlatformAdmin() {
		return current, appErrors.Clone(appErrors.ErrRoleMismatch, "only platform admins can perform the admin review")
	}
	if current.ReviewMode != models.ReviewModeDual {
		return current, appErrors.Clone(appErrors.ErrStageMismatch, "admin review does not exist in ENTERPRISE review mode")
	}
	if current.AdminReviewStatus == nil || *current.AdminReviewStatus != models.ReviewPending || current.Status != models.ApplicationPending {
		return current, appErrors.Clone(appErrors.ErrStageMismatch, "admin review already completed")
	}
	if !req.Decision.IsDecision() {
		return current, invalidDecision(req.Decision)
	}

	next := current.Clone()
	decision := req.Decision
	next.AdminReviewStatus = &decision
	next.AdminReviewFeedback = optionalText(req.Feedback)
	at := req.At
	next.AdminReviewTime = &at
	next.AdminReviewBy = optionalText(req.ActorID)
	next.UpdatedAt = at

	if decision == models.ReviewApproved {
		next.Status = models.ApplicationAdminApproved
		next.Feedback = ""
		pending := models.ReviewPending
		next.EnterpriseReviewStatus = &pending
		return next, nil
	}
	next.Status = models.ApplicationAdminRejected
	next.Feedback = AdminRejectionFeedback
	return next, nil
}

func applyEnterpriseReview(current models.TaskApplication, req TransitionRequest) (models.TaskApplication, error) {
	if req.ActorRole != models.RoleEnterprise {
		return current, appErrors.Clone(appErrors.ErrRoleMismatch, "only the posting enterprise can perform the enterprise review")
	}
	switch current.ReviewMode {
	case models.ReviewModeEnterprise:
		if current.Status != models.ApplicationPending {
			return current, appErrors.Clone(appErrors.ErrStageMismatch, "enterprise review already completed")
		}
	case models.ReviewModeDual:
		if current.Status != models.ApplicationAdminApproved || current.AdminReviewStatus == nil || *current.AdminReviewStatus != models.ReviewApproved {
			return current, appErrors.Clone(appErrors.ErrStageMismatch, "application has not cleared the admin review")
		}
	default:
		return current, appErrors.Clone(appErrors.ErrStageMismatch, "unknown review mode")
	}
	if current.EnterpriseReviewStatus == nil || *current.EnterpriseReviewStatus != models.ReviewPending {
		return current, appErrors.Clone(appErrors.ErrStageMismatch, "enterprise review already completed")
	}
	if !req.Decision.IsDecision() {
		return current, invalidDecision(req.Decision)
	}
	if current.EnterpriseID == "" || req.ActorID != current.EnterpriseID {
		return current, appErrors.Clone(appErrors.ErrForbidden, "application belongs to another enterprise")
	}

	next := current.Clone()
	decision := req.Decision
	next.EnterpriseReviewStatus = &decision
	next.EnterpriseReviewFeedback = optionalText(req.Feedback)
	at := req.At
	next.EnterpriseReviewTime = &at
	next.EnterpriseReviewBy = optionalText(req.ActorID)
	next.UpdatedAt = at

	feedback := strings.TrimSpace(req.Feedback)
	if decision == models.ReviewApproved {
		next.Status = models.ApplicationEnterpriseApproved
		if feedback == "" {
			feedback = EnterpriseApprovalFeedback
		}
	} else {
		next.Status = models.ApplicationEnterpriseRejected
		if feedback == "" {
			feedback = EnterpriseRejectionFeedback
		}
	}
	next.Feedback = feedback
	return next, nil
}

func applyWithdraw(current models.TaskApplication, req TransitionRequest) (models.TaskApplication, error) {
	if req.ActorRole != models.RoleDesigner {
		return current, appErrors.Clone(appErrors.ErrRoleMismatch, "only the applicant can withdraw an application")
	}
	if current.Status != models.ApplicationPending && current.Status != models.ApplicationAdminApproved {
		return current, appErrors.Clone(appErrors.ErrStageMismatch, "application cannot be withdrawn at this stage")
	}
	if req.ActorID == "" || req.ActorID != current.DesignerID {
		return current, appErrors.Clone(appErrors.ErrForbidden, "only the applicant can withdraw an application")
	}

	next := current.Clone()
	at := req.At
	next.Status = models.ApplicationWithdrawn
	next.Feedback = ""
	next.WithdrawnAt = &at
	next.UpdatedAt = at
	return next, nil
}

func invalidDecision(decision models.ReviewStatus) error {
	return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("review status must be APPROVED or REJECTED, got %q", decision))
}

func optionalText(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return &value
}

func kindLabel(kind TransitionKind) string {
	switch kind {
	case TransitionAdminReview:
		return "admin review"
	case TransitionEnterpriseReview:
		return "enterprise review"
	case TransitionWithdraw:
		return "withdrawal"
	default:
		return "transition"
	}
}
