package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// FlexibleID is a catalog identifier. The upstream backend encodes ids as JSON
// numbers; seeded and legacy payloads use strings. Both decode to the same text.
type FlexibleID string

// UnmarshalJSON accepts a JSON string, an integer or null.
func (id *FlexibleID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = FlexibleID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id must be a string or number: %w", err)
	}
	if _, err := n.Int64(); err != nil {
		return fmt.Errorf("id %s is not an integer", n)
	}
	*id = FlexibleID(n.String())
	return nil
}

func (id FlexibleID) String() string { return string(id) }

// Designer is a talent profile listed in the catalog.
type Designer struct {
	ID          FlexibleID `json:"id"`
	Name        string     `json:"designerName"`
	Profession  string     `json:"profession"`
	SkillTags   []string   `json:"skillTags"`
	Location    string     `json:"location,omitempty"`
	Experience  int        `json:"experience"`
	WorkStatus  string     `json:"workStatus,omitempty"`
	SchoolID    FlexibleID `json:"schoolId,omitempty"`
	Description string     `json:"description,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// JobPosting is a full-time or part-time position published by an enterprise.
type JobPosting struct {
	ID           FlexibleID `json:"id"`
	Title        string     `json:"title"`
	EnterpriseID FlexibleID `json:"enterpriseId"`
	Company      string     `json:"company"`
	Profession   string     `json:"profession"`
	Location     string     `json:"workLocation"`
	WorkType     string     `json:"workType"`
	Experience   string     `json:"experienceRequired"`
	SalaryMin    float64    `json:"salaryMin"`
	SalaryMax    float64    `json:"salaryMax"`
	SkillTags    []string   `json:"skillsRequired"`
	PublishedAt  time.Time  `json:"publishDate"`
}

// School is an academic partner listed in the catalog.
type School struct {
	ID            FlexibleID `json:"id"`
	Name          string     `json:"name"`
	Location      string     `json:"location"`
	Type          string     `json:"type"`
	Majors        []string   `json:"majors,omitempty"`
	StudentCount  int        `json:"studentCount"`
	DesignerCount int        `json:"designerCount"`
}

// TaskPosting is a paid micro-task designers can apply to.
type TaskPosting struct {
	ID             FlexibleID `json:"taskId"`
	EnterpriseID   FlexibleID `json:"enterpriseId"`
	EnterpriseName string     `json:"enterpriseName"`
	Title          string     `json:"taskTitle"`
	Description    string     `json:"taskDescription"`
	TaskType       string     `json:"taskType"`
	SkillTags      []string   `json:"skillTags"`
	BudgetMin      float64    `json:"budgetMin"`
	BudgetMax      float64    `json:"budgetMax"`
	Location       string     `json:"location,omitempty"`
	Urgent         bool       `json:"urgent"`
	Status         string     `json:"status"`
	Applications   int        `json:"applications"`
	Deadline       time.Time  `json:"deadline"`
	PublishedAt    time.Time  `json:"publishDate"`
}

// TaskPublished is the status of a task still accepting applications.
const TaskPublished = "PUBLISHED"

// FilterOption is a selectable value in a catalog filter list.
type FilterOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// FilterOptions groups the optional enrichment lists used by catalog filters.
type FilterOptions struct {
	Professions []FilterOption `json:"professions"`
	Locations   []FilterOption `json:"locations"`
	SkillTags   []FilterOption `json:"skillTags"`
}
