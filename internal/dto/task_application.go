package dto

import "github.com/noah-isme/talent-factory-api/internal/models"

// SubmitTaskApplicationRequest is the designer payload for applying to a task.
type SubmitTaskApplicationRequest struct {
	TaskID         string   `json:"taskId" validate:"required"`
	Proposal       string   `json:"proposal" validate:"required,max=5000"`
	ProposedPrice  float64  `json:"proposedPrice" validate:"gt=0"`
	EstimatedDays  int      `json:"estimatedDays" validate:"gt=0"`
	PortfolioLinks []string `json:"portfolioLinks" validate:"max=10,dive,url"`
}

// ReviewTaskApplicationRequest is shared by the admin and enterprise review
// endpoints. Status is checked by the transition guards, after the terminal
// and stage checks.
type ReviewTaskApplicationRequest struct {
	Status   models.ReviewStatus `json:"status"`
	Feedback string              `json:"feedback" validate:"max=1000"`
}

// TaskApplicationQuery captures list query parameters.
type TaskApplicationQuery struct {
	TaskID    string `form:"taskId"`
	Status    string `form:"status"`
	Page      int    `form:"page"`
	PageSize  int    `form:"pageSize"`
	SortOrder string `form:"order"`
}

// ReviewModeResponse is returned to any authenticated caller.
type ReviewModeResponse struct {
	ReviewMode models.ReviewMode `json:"reviewMode"`
}

// ReviewModeStatus is returned to privileged callers and flags the fallback.
type ReviewModeStatus struct {
	ReviewMode   models.ReviewMode `json:"reviewMode"`
	UsingDefault bool              `json:"usingDefault"`
	Reason       string            `json:"reason,omitempty"`
}

// UpdateReviewModeRequest switches the platform review mode.
type UpdateReviewModeRequest struct {
	ReviewMode models.ReviewMode `json:"reviewMode" validate:"required,oneof=DUAL ENTERPRISE"`
}

// TaskConfigInfo summarises the active review mode for display.
type TaskConfigInfo struct {
	ReviewMode             models.ReviewMode `json:"reviewMode"`
	ReviewModeName         string            `json:"reviewModeName"`
	ReviewModeDescription  string            `json:"reviewModeDescription"`
	IsDualReviewMode       bool              `json:"isDualReviewMode"`
	IsEnterpriseReviewMode bool              `json:"isEnterpriseReviewMode"`
	ConfigSummary          string            `json:"configSummary"`
	UsingDefault           bool              `json:"usingDefault"`
}

// DesignerApplicationStats summarises the caller's own applications. The
// admin stage counts as active, as it does in the designer view.
type DesignerApplicationStats struct {
	AppliedTasks     int     `json:"appliedTasks"`
	ActiveTasks      int     `json:"activeTasks"`
	ApprovedTasks    int     `json:"approvedTasks"`
	RejectedTasks    int     `json:"rejectedTasks"`
	WithdrawnTasks   int     `json:"withdrawnTasks"`
	AverageTaskPrice float64 `json:"averageTaskPrice"`
	SuccessRate      float64 `json:"successRate"`
}

// TaskApplicationStats summarises the applications to one task.
type TaskApplicationStats struct {
	TaskID               string  `json:"taskId"`
	TotalApplications    int     `json:"totalApplications"`
	PendingCount         int     `json:"pendingCount"`
	ApprovedCount        int     `json:"approvedCount"`
	RejectedCount        int     `json:"rejectedCount"`
	WithdrawnCount       int     `json:"withdrawnCount"`
	AverageTaskPrice     float64 `json:"averageTaskPrice"`
	MinProposedPrice     float64 `json:"minProposedPrice"`
	MaxProposedPrice     float64 `json:"maxProposedPrice"`
	AverageEstimatedDays float64 `json:"averageEstimatedDays"`
}

// AdminReviewStats summarises the admin review queue.
type AdminReviewStats struct {
	PendingCount     int     `json:"pendingCount"`
	ReviewedToday    int     `json:"reviewedToday"`
	ApprovalRate     float64 `json:"approvalRate"`
	AvgProcessHours  float64 `json:"avgProcessTime"`
	BacklogAlert     bool    `json:"backlogAlert"`
	BacklogThreshold int     `json:"backlogThreshold"`
}
