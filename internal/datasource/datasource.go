// Package datasource abstracts where catalog data comes from. A single
// implementation is selected at startup: MockDataSource serves in-memory seed
// data and HTTPDataSource calls the upstream REST backend.
package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/noah-isme/talent-factory-api/internal/models"
	appErrors "github.com/noah-isme/talent-factory-api/pkg/errors"
)

// Resource names a catalog collection.
type Resource string

const (
	ResourceDesigners     Resource = "designers"
	ResourceJobs          Resource = "jobs"
	ResourceSchools       Resource = "schools"
	ResourceTasks         Resource = "tasks"
	ResourceFilterOptions Resource = "filter-options"
)

// Filter option lists served under ResourceFilterOptions, selected with the
// "kind" filter.
const (
	OptionProfessions = "professions"
	OptionLocations   = "locations"
	OptionSkillTags   = "skillTags"
)

// Mutation actions.
const (
	ActionApply = "apply"
)

// BrowsableResources are the resources exposed on the catalog listing route.
var BrowsableResources = []Resource{ResourceDesigners, ResourceJobs, ResourceSchools, ResourceTasks}

// ParseResource resolves a browsable resource name.
func ParseResource(raw string) (Resource, bool) {
	for _, r := range BrowsableResources {
		if string(r) == raw {
			return r, true
		}
	}
	return "", false
}

// Sort keys understood by both data sources.
const (
	SortLatest       = "latest"
	SortPriceHigh    = "price-high"
	SortPriceLow     = "price-low"
	SortDeadline     = "deadline"
	SortApplications = "applications"
	SortSalaryHigh   = "salary-high"
	SortSalaryLow    = "salary-low"
)

// DefaultPageSize applies when a query does not specify one.
const DefaultPageSize = 20

// Query selects one page of a resource.
type Query struct {
	Page     int
	PageSize int
	Keyword  string
	SortBy   string
	Filters  map[string]string
}

// Normalize fills defaults.
func (q Query) Normalize() Query {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize <= 0 {
		q.PageSize = DefaultPageSize
	}
	if q.PageSize > 100 {
		q.PageSize = 100
	}
	q.Keyword = strings.TrimSpace(q.Keyword)
	return q
}

// Filter returns a trimmed filter value.
func (q Query) Filter(key string) string {
	if q.Filters == nil {
		return ""
	}
	return strings.TrimSpace(q.Filters[key])
}

// WithPage returns a copy of q targeting page.
func (q Query) WithPage(page int) Query {
	q.Page = page
	return q
}

// Values encodes the query using the upstream parameter names.
func (q Query) Values() url.Values {
	q = q.Normalize()
	values := url.Values{}
	values.Set("pageNum", strconv.Itoa(q.Page))
	values.Set("pageSize", strconv.Itoa(q.PageSize))
	if q.Keyword != "" {
		values.Set("keyword", q.Keyword)
	}
	if q.SortBy != "" {
		values.Set("sortBy", q.SortBy)
	}
	for key, value := range q.Filters {
		if strings.TrimSpace(value) != "" {
			values.Set(key, strings.TrimSpace(value))
		}
	}
	return values
}

// CacheKey renders a stable representation of the query.
func (q Query) CacheKey() string {
	return q.Values().Encode()
}

// Page is one slice of a resource. Rows holds a JSON array.
type Page struct {
	Rows  json.RawMessage `json:"rows"`
	Total int             `json:"total"`
	Page  int             `json:"page"`
	Size  int             `json:"pageSize"`
}

// DataSource fetches and mutates catalog resources.
type DataSource interface {
	Fetch(ctx context.Context, resource Resource, query Query) (Page, error)
	Mutate(ctx context.Context, resource Resource, action string, payload interface{}) (json.RawMessage, error)
}

// DecodeRows unmarshals the rows of a page.
func DecodeRows[T any](page Page) ([]T, error) {
	if len(page.Rows) == 0 {
		return []T{}, nil
	}
	var rows []T
	if err := json.Unmarshal(page.Rows, &rows); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUpstreamMalformed.Code, appErrors.ErrUpstreamMalformed.Status, "failed to decode rows")
	}
	if rows == nil {
		rows = []T{}
	}
	return rows, nil
}

// ValidID reports whether id is safe to place in an upstream path segment:
// 1 to 64 letters, digits, '-' or '_'.
func ValidID(id string) bool {
	if id == "" || len(id) > 64 {
		return false
	}
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
		default:
			return false
		}
	}
	return true
}

// FindTask looks a task up by id.
func FindTask(ctx context.Context, ds DataSource, taskID string) (*models.TaskPosting, error) {
	if !ValidID(taskID) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid task id")
	}
	page, err := ds.Fetch(ctx, ResourceTasks, Query{PageSize: 1, Filters: map[string]string{"taskId": taskID}})
	if err != nil {
		return nil, err
	}
	tasks, err := DecodeRows[models.TaskPosting](page)
	if err != nil {
		return nil, err
	}
	for i := range tasks {
		if tasks[i].ID.String() == taskID {
			return &tasks[i], nil
		}
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("task %s not found", taskID))
}

// FilterOptionList fetches one enrichment list.
func FilterOptionList(ctx context.Context, ds DataSource, kind string) ([]models.FilterOption, error) {
	page, err := ds.Fetch(ctx, ResourceFilterOptions, Query{PageSize: 100, Filters: map[string]string{"kind": kind}})
	if err != nil {
		return nil, err
	}
	return DecodeRows[models.FilterOption](page)
}

func paginate[T any](items []T, q Query) ([]T, int) {
	total := len(items)
	start := (q.Page - 1) * q.PageSize
	if start >= total {
		return []T{}, total
	}
	end := start + q.PageSize
	if end > total {
		end = total
	}
	return items[start:end], total
}

func buildPage[T any](items []T, q Query) (Page, error) {
	rows, total := paginate(items, q)
	raw, err := json.Marshal(rows)
	if err != nil {
		return Page{}, fmt.Errorf("encode rows: %w", err)
	}
	return Page{Rows: raw, Total: total, Page: q.Page, Size: q.PageSize}, nil
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

func hasTag(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}

func sortStable[T any](items []T, less func(a, b T) bool) {
	sort.SliceStable(items, func(i, j int) bool { return less(items[i], items[j]) })
}
