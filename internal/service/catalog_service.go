package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/noah-isme/talent-factory-api/internal/datasource"
	"github.com/noah-isme/talent-factory-api/internal/dto"
	"github.com/noah-isme/talent-factory-api/internal/models"
	appErrors "github.com/noah-isme/talent-factory-api/pkg/errors"
)

const (
	catalogCachePrefix    = "catalog:"
	filterOptionsCacheKey = catalogCachePrefix + "filter-options"
)

// CatalogService serves the browsable marketplace resources from the
// configured data source, caching pages in Redis.
type CatalogService struct {
	ds     datasource.DataSource
	cache  *CacheService
	logger *zap.Logger
	ttl    time.Duration
}

// NewCatalogService constructs a CatalogService.
func NewCatalogService(ds datasource.DataSource, cache *CacheService, logger *zap.Logger, ttl time.Duration) *CatalogService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = 2 * time.Minute
	}
	return &CatalogService{ds: ds, cache: cache, logger: logger, ttl: ttl}
}

// List returns one page of resource. The boolean reports a cache hit.
func (s *CatalogService) List(ctx context.Context, resource string, query datasource.Query) (datasource.Page, bool, error) {
	r, ok := datasource.ParseResource(resource)
	if !ok || r == datasource.ResourceFilterOptions {
		return datasource.Page{}, false, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("unknown catalog resource %q", resource))
	}
	query = query.Normalize()
	key := catalogCacheKey(r, query)

	var cached datasource.Page
	if hit, err := s.cache.Get(ctx, key, &cached); err == nil && hit {
		return cached, true, nil
	}

	page, err := s.ds.Fetch(ctx, r, query)
	if err != nil {
		var appErr *appErrors.Error
		if errors.As(err, &appErr) {
			return datasource.Page{}, false, err
		}
		return datasource.Page{}, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load catalog")
	}
	_ = s.cache.Set(ctx, key, page, s.ttl)
	return page, false, nil
}

// FilterOptions loads the enrichment lists concurrently. A list that cannot
// be loaded degrades to empty; the call itself never fails. Cancelling ctx
// stops the outstanding fetches and nothing is cached.
func (s *CatalogService) FilterOptions(ctx context.Context) (models.FilterOptions, bool) {
	var cached models.FilterOptions
	if hit, err := s.cache.Get(ctx, filterOptionsCacheKey, &cached); err == nil && hit {
		return cached, true
	}

	kinds := []string{datasource.OptionProfessions, datasource.OptionLocations, datasource.OptionSkillTags}
	targets := []*[]models.FilterOption{&cached.Professions, &cached.Locations, &cached.SkillTags}
	lists := make([][]models.FilterOption, len(kinds))
	errs := make([]error, len(kinds))
	g, gctx := errgroup.WithContext(ctx)
	for i, kind := range kinds {
		i, kind := i, kind
		g.Go(func() error {
			list, err := datasource.FilterOptionList(gctx, s.ds, kind)
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return fmt.Errorf("filter options %s: %w", kind, ctxErr)
				}
				errs[i] = err
				return nil
			}
			lists[i] = list
			return nil
		})
	}

	complete := true
	if err := g.Wait(); err != nil {
		s.logger.Warn("filter options aborted", zap.Error(err))
		complete = false
	}
	for i, kind := range kinds {
		list := lists[i]
		if errs[i] != nil {
			s.logger.Warn("filter options unavailable, using empty list", zap.String("kind", kind), zap.Error(errs[i]))
			complete = false
			list = nil
		}
		if list == nil {
			list = []models.FilterOption{}
		}
		*targets[i] = list
	}
	if complete {
		_ = s.cache.Set(ctx, filterOptionsCacheKey, cached, s.ttl)
	}
	return cached, false
}

// SkillTags groups codes by category. Without codes the whole taxonomy is returned.
func (s *CatalogService) SkillTags(codes []string) dto.SkillTagTaxonomy {
	if len(codes) == 0 {
		for _, tag := range models.AllSkillTags() {
			codes = append(codes, tag.Code)
		}
	}
	grouped := models.GroupSkillTags(codes)
	taxonomy := dto.SkillTagTaxonomy{Stats: models.CountSkillTags(codes)}
	for _, category := range models.SkillCategories {
		taxonomy.Groups = append(taxonomy.Groups, dto.SkillTagGroup{Category: category, Tags: grouped[category]})
	}
	return taxonomy
}

// Invalidate drops cached catalog pages.
func (s *CatalogService) Invalidate(ctx context.Context) error {
	return s.cache.Invalidate(ctx, catalogCachePrefix+"*")
}

func catalogCacheKey(resource datasource.Resource, query datasource.Query) string {
	sum := sha256.Sum256([]byte(query.CacheKey()))
	return catalogCachePrefix + string(resource) + ":" + hex.EncodeToString(sum[:8])
}
