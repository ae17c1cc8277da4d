package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/noah-isme/talent-factory-api/internal/models"
	appErrors "github.com/noah-isme/talent-factory-api/pkg/errors"
)

// MockDataSource serves seed data from memory. It never touches the network.
type MockDataSource struct {
	mu        sync.RWMutex
	designers []models.Designer
	jobs      []models.JobPosting
	schools   []models.School
	tasks     []models.TaskPosting
	failures  map[Resource]error
}

// NewMockDataSource constructs a mock source loaded with the default seeds.
func NewMockDataSource() *MockDataSource {
	return &MockDataSource{
		designers: SeedDesigners(),
		jobs:      SeedJobs(),
		schools:   SeedSchools(),
		tasks:     SeedTasks(),
		failures:  make(map[Resource]error),
	}
}

// SetFailure makes every call for resource fail with err. A nil err clears it.
func (m *MockDataSource) SetFailure(resource Resource, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err == nil {
		delete(m.failures, resource)
		return
	}
	m.failures[resource] = err
}

// Fetch filters, sorts and paginates the seed data.
func (m *MockDataSource) Fetch(ctx context.Context, resource Resource, query Query) (Page, error) {
	if err := ctx.Err(); err != nil {
		return Page{}, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.failures[resource]; err != nil {
		return Page{}, err
	}

	q := query.Normalize()
	switch resource {
	case ResourceDesigners:
		return buildPage(m.filterDesigners(q), q)
	case ResourceJobs:
		return buildPage(m.filterJobs(q), q)
	case ResourceSchools:
		return buildPage(m.filterSchools(q), q)
	case ResourceTasks:
		return buildPage(m.filterTasks(q), q)
	case ResourceFilterOptions:
		options, err := m.filterOptions(q.Filter("kind"))
		if err != nil {
			return Page{}, err
		}
		return buildPage(options, q)
	default:
		return Page{}, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("unknown resource %s", resource))
	}
}

// Mutate supports the apply action on tasks, which bumps the application
// counter and returns the updated task.
func (m *MockDataSource) Mutate(ctx context.Context, resource Resource, action string, payload interface{}) (json.RawMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failures[resource]; err != nil {
		return nil, err
	}
	if resource != ResourceTasks || action != ActionApply {
		return nil, appErrors.Clone(appErrors.ErrUpstreamRejected, fmt.Sprintf("action %s not supported on %s", action, resource))
	}

	var body struct {
		TaskID string `json:"taskId"`
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode mutation payload: %w", err)
	}
	if err := json.Unmarshal(raw, &body); err != nil || body.TaskID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "taskId is required")
	}
	for i := range m.tasks {
		if m.tasks[i].ID.String() == body.TaskID {
			m.tasks[i].Applications++
			return json.Marshal(m.tasks[i])
		}
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("task %s not found", body.TaskID))
}

func (m *MockDataSource) filterDesigners(q Query) []models.Designer {
	out := make([]models.Designer, 0, len(m.designers))
	for _, d := range m.designers {
		if p := q.Filter("profession"); p != "" && d.Profession != p {
			continue
		}
		if loc := q.Filter("location"); loc != "" && !containsFold(d.Location, loc) {
			continue
		}
		if skill := q.Filter("skill"); skill != "" && !hasTag(d.SkillTags, skill) {
			continue
		}
		if school := q.Filter("schoolId"); school != "" && d.SchoolID.String() != school {
			continue
		}
		if q.Keyword != "" && !containsFold(d.Name, q.Keyword) && !containsFold(d.Description, q.Keyword) {
			continue
		}
		out = append(out, cloneDesigner(d))
	}
	switch q.SortBy {
	case "experience":
		sortStable(out, func(a, b models.Designer) bool { return a.Experience > b.Experience })
	default:
		sortStable(out, func(a, b models.Designer) bool { return a.CreatedAt.After(b.CreatedAt) })
	}
	return out
}

func (m *MockDataSource) filterJobs(q Query) []models.JobPosting {
	out := make([]models.JobPosting, 0, len(m.jobs))
	for _, j := range m.jobs {
		if p := q.Filter("profession"); p != "" && j.Profession != p {
			continue
		}
		if loc := q.Filter("location"); loc != "" && !containsFold(j.Location, loc) {
			continue
		}
		if wt := q.Filter("workType"); wt != "" && j.WorkType != wt {
			continue
		}
		if exp := q.Filter("experience"); exp != "" && !strings.Contains(j.Experience, exp) {
			continue
		}
		if skill := q.Filter("skill"); skill != "" && !hasTag(j.SkillTags, skill) {
			continue
		}
		if ent := q.Filter("enterpriseId"); ent != "" && j.EnterpriseID.String() != ent {
			continue
		}
		if q.Keyword != "" && !containsFold(j.Title, q.Keyword) && !containsFold(j.Company, q.Keyword) {
			continue
		}
		j.SkillTags = append([]string(nil), j.SkillTags...)
		out = append(out, j)
	}
	switch q.SortBy {
	case SortSalaryHigh:
		sortStable(out, func(a, b models.JobPosting) bool { return a.SalaryMax > b.SalaryMax })
	case SortSalaryLow:
		sortStable(out, func(a, b models.JobPosting) bool { return a.SalaryMin < b.SalaryMin })
	default:
		sortStable(out, func(a, b models.JobPosting) bool { return a.PublishedAt.After(b.PublishedAt) })
	}
	return out
}

func (m *MockDataSource) filterSchools(q Query) []models.School {
	out := make([]models.School, 0, len(m.schools))
	for _, s := range m.schools {
		if loc := q.Filter("location"); loc != "" && !containsFold(s.Location, loc) {
			continue
		}
		if t := q.Filter("type"); t != "" && s.Type != t {
			continue
		}
		if q.Keyword != "" && !containsFold(s.Name, q.Keyword) {
			continue
		}
		s.Majors = append([]string(nil), s.Majors...)
		out = append(out, s)
	}
	if q.SortBy == "designers" {
		sortStable(out, func(a, b models.School) bool { return a.DesignerCount > b.DesignerCount })
	}
	return out
}

func (m *MockDataSource) filterTasks(q Query) []models.TaskPosting {
	out := make([]models.TaskPosting, 0, len(m.tasks))
	for _, t := range m.tasks {
		if id := q.Filter("taskId"); id != "" && t.ID.String() != id {
			continue
		}
		if ent := q.Filter("enterpriseId"); ent != "" && t.EnterpriseID.String() != ent {
			continue
		}
		if status := q.Filter("status"); status != "" && t.Status != status {
			continue
		}
		if tt := q.Filter("taskType"); tt != "" && t.TaskType != tt {
			continue
		}
		if loc := q.Filter("location"); loc != "" && !containsFold(t.Location, loc) {
			continue
		}
		if skill := q.Filter("skill"); skill != "" && !hasTag(t.SkillTags, skill) {
			continue
		}
		if q.Filter("urgent") == "true" && !t.Urgent {
			continue
		}
		if q.Keyword != "" && !containsFold(t.Title, q.Keyword) && !containsFold(t.Description, q.Keyword) {
			continue
		}
		t.SkillTags = append([]string(nil), t.SkillTags...)
		out = append(out, t)
	}
	switch q.SortBy {
	case SortPriceHigh:
		sortStable(out, func(a, b models.TaskPosting) bool { return a.BudgetMax > b.BudgetMax })
	case SortPriceLow:
		sortStable(out, func(a, b models.TaskPosting) bool { return a.BudgetMin < b.BudgetMin })
	case SortDeadline:
		sortStable(out, func(a, b models.TaskPosting) bool { return a.Deadline.Before(b.Deadline) })
	case SortApplications:
		sortStable(out, func(a, b models.TaskPosting) bool { return a.Applications > b.Applications })
	default:
		sortStable(out, func(a, b models.TaskPosting) bool { return a.PublishedAt.After(b.PublishedAt) })
	}
	return out
}

func (m *MockDataSource) filterOptions(kind string) ([]models.FilterOption, error) {
	switch kind {
	case OptionProfessions:
		seen := map[string]struct{}{}
		for _, d := range m.designers {
			seen[d.Profession] = struct{}{}
		}
		for _, j := range m.jobs {
			seen[j.Profession] = struct{}{}
		}
		values := make([]string, 0, len(seen))
		for v := range seen {
			values = append(values, v)
		}
		sort.Strings(values)
		out := make([]models.FilterOption, 0, len(values))
		for _, v := range values {
			out = append(out, models.FilterOption{Value: v, Label: professionLabel(v)})
		}
		return out, nil
	case OptionLocations:
		out := make([]models.FilterOption, 0, len(seedCities))
		for _, city := range seedCities {
			out = append(out, models.FilterOption{Value: city, Label: city})
		}
		return out, nil
	case OptionSkillTags:
		codes := []string{}
		for _, d := range m.designers {
			codes = append(codes, d.SkillTags...)
		}
		for _, t := range m.tasks {
			codes = append(codes, t.SkillTags...)
		}
		grouped := models.GroupSkillTags(codes)
		out := []models.FilterOption{}
		for _, category := range models.SkillCategories {
			for _, tag := range grouped[category] {
				out = append(out, models.FilterOption{Value: tag.Code, Label: tag.Name})
			}
		}
		return out, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown filter option list %q", kind))
	}
}

func professionLabel(code string) string {
	words := strings.Split(strings.ToLower(code), "_")
	for i, w := range words {
		switch w {
		case "ui", "ux", "3d":
			words[i] = strings.ToUpper(w)
		default:
			if w != "" {
				words[i] = strings.ToUpper(w[:1]) + w[1:]
			}
		}
	}
	return strings.Join(words, " ")
}

func cloneDesigner(d models.Designer) models.Designer {
	d.SkillTags = append([]string(nil), d.SkillTags...)
	return d
}
