package repository

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"time"

	"github.com/noah-isme/talent-factory-api/internal/models"
)

// MemoryConfigurationRepository stores configuration entries in memory for mock mode.
type MemoryConfigurationRepository struct {
	mu    sync.RWMutex
	items map[string]models.Configuration
}

// NewMemoryConfigurationRepository constructs an empty store.
func NewMemoryConfigurationRepository() *MemoryConfigurationRepository {
	return &MemoryConfigurationRepository{items: make(map[string]models.Configuration)}
}

// ListByKeys returns stored entries for the given keys ordered by key.
func (r *MemoryConfigurationRepository) ListByKeys(ctx context.Context, keys []string) ([]models.Configuration, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]models.Configuration, 0, len(keys))
	for _, key := range keys {
		if cfg, ok := r.items[key]; ok {
			result = append(result, cfg)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Key < result[j].Key })
	return result, nil
}

// Get returns the entry for key or sql.ErrNoRows.
func (r *MemoryConfigurationRepository) Get(ctx context.Context, key string) (*models.Configuration, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cfg, ok := r.items[key]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &cfg, nil
}

// Upsert inserts or replaces an entry.
func (r *MemoryConfigurationRepository) Upsert(ctx context.Context, cfg *models.Configuration) error {
	cfg.UpdatedAt = time.Now().UTC()
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[cfg.Key] = *cfg
	return nil
}

// BulkUpsert replaces all given entries at once.
func (r *MemoryConfigurationRepository) BulkUpsert(ctx context.Context, cfgs []models.Configuration) error {
	now := time.Now().UTC()
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range cfgs {
		cfgs[i].UpdatedAt = now
		r.items[cfgs[i].Key] = cfgs[i]
	}
	return nil
}
