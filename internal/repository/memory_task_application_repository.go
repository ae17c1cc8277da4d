package repository

import (
	"context"
	"database/sql"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/noah-isme/talent-factory-api/internal/models"
)

// MemoryTaskApplicationRepository keeps applications in process memory. It
// backs the mock data source mode and mirrors the PostgreSQL semantics.
type MemoryTaskApplicationRepository struct {
	mu    sync.RWMutex
	items map[string]models.TaskApplication
}

// NewMemoryTaskApplicationRepository constructs an empty in-memory store.
func NewMemoryTaskApplicationRepository(seed ...models.TaskApplication) *MemoryTaskApplicationRepository {
	repo := &MemoryTaskApplicationRepository{items: make(map[string]models.TaskApplication, len(seed))}
	for _, app := range seed {
		repo.items[app.ID] = app.Clone()
	}
	return repo
}

// Create stores a copy of app. The active-application check and the insert
// happen under one lock.
func (r *MemoryTaskApplicationRepository) Create(ctx context.Context, app *models.TaskApplication) error {
	if app.ID == "" {
		app.ID = uuid.NewString()
	}
	if app.CreatedAt.IsZero() {
		app.CreatedAt = time.Now().UTC()
	}
	if app.UpdatedAt.IsZero() {
		app.UpdatedAt = app.CreatedAt
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if !app.Status.IsTerminal() && r.hasActiveLocked(app.TaskID, app.DesignerID) {
		return ErrActiveApplicationExists
	}
	r.items[app.ID] = app.Clone()
	return nil
}

// FindByID returns a copy of the stored record or sql.ErrNoRows.
func (r *MemoryTaskApplicationRepository) FindByID(ctx context.Context, id string) (*models.TaskApplication, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	app, ok := r.items[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	clone := app.Clone()
	return &clone, nil
}

// HasActive reports whether the designer already holds a non-terminal application for the task.
func (r *MemoryTaskApplicationRepository) HasActive(ctx context.Context, taskID, designerID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.hasActiveLocked(taskID, designerID), nil
}

func (r *MemoryTaskApplicationRepository) hasActiveLocked(taskID, designerID string) bool {
	for _, app := range r.items {
		if app.TaskID == taskID && app.DesignerID == designerID && !app.Status.IsTerminal() {
			return true
		}
	}
	return false
}

// List filters, orders by creation time and paginates.
func (r *MemoryTaskApplicationRepository) List(ctx context.Context, filter models.TaskApplicationFilter) ([]models.TaskApplication, int, error) {
	r.mu.RLock()
	matched := make([]models.TaskApplication, 0, len(r.items))
	for _, app := range r.items {
		if matchesApplicationFilter(app, filter) {
			matched = append(matched, app.Clone())
		}
	}
	r.mu.RUnlock()

	asc := strings.EqualFold(filter.SortOrder, "ASC")
	sort.SliceStable(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].ID < matched[j].ID
		}
		if asc {
			return matched[i].CreatedAt.Before(matched[j].CreatedAt)
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := len(matched)
	if filter.PageSize <= 0 {
		return matched, total, nil
	}
	size := filter.PageSize
	if size > 100 {
		size = 100
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	start := (page - 1) * size
	if start >= total {
		return []models.TaskApplication{}, total, nil
	}
	end := start + size
	if end > total {
		end = total
	}
	return matched[start:end], total, nil
}

// UpdateReview replaces the stored record when its status still equals expected.
func (r *MemoryTaskApplicationRepository) UpdateReview(ctx context.Context, app *models.TaskApplication, expected models.ApplicationStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	current, ok := r.items[app.ID]
	if !ok || current.Status != expected {
		return sql.ErrNoRows
	}
	r.items[app.ID] = app.Clone()
	return nil
}

func matchesApplicationFilter(app models.TaskApplication, filter models.TaskApplicationFilter) bool {
	if filter.TaskID != "" && app.TaskID != filter.TaskID {
		return false
	}
	if filter.DesignerID != "" && app.DesignerID != filter.DesignerID {
		return false
	}
	if filter.EnterpriseID != "" && app.EnterpriseID != filter.EnterpriseID {
		return false
	}
	if filter.ReviewMode != "" && app.ReviewMode != filter.ReviewMode {
		return false
	}
	if filter.EnterpriseVisible && !app.ClearedAdminGate() {
		return false
	}
	if len(filter.Statuses) > 0 {
		found := false
		for _, status := range filter.Statuses {
			if app.Status == status {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
