package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/talent-factory-api/internal/datasource"
	"github.com/noah-isme/talent-factory-api/internal/models"
	appErrors "github.com/noah-isme/talent-factory-api/pkg/errors"
)

// countingSource wraps the mock data source, counting fetches and failing
// one filter option kind on demand.
type countingSource struct {
	*datasource.MockDataSource
	fetches  int32
	failKind string
}

func (c *countingSource) Fetch(ctx context.Context, resource datasource.Resource, query datasource.Query) (datasource.Page, error) {
	atomic.AddInt32(&c.fetches, 1)
	if resource == datasource.ResourceFilterOptions && query.Filter("kind") == c.failKind {
		return datasource.Page{}, errors.New("options backend down")
	}
	return c.MockDataSource.Fetch(ctx, resource, query)
}

func newCatalogServiceForTest(src datasource.DataSource, cacheRepo *cacheRepoStub) *CatalogService {
	var cache *CacheService
	if cacheRepo != nil {
		cache = NewCacheService(cacheRepo, NewMetricsService(), time.Minute, nil, true)
	}
	return NewCatalogService(src, cache, nil, time.Minute)
}

func TestCatalogListCachesPages(t *testing.T) {
	src := &countingSource{MockDataSource: datasource.NewMockDataSource()}
	cacheRepo := newCacheRepoStub()
	svc := newCatalogServiceForTest(src, cacheRepo)
	query := datasource.Query{PageSize: 3, SortBy: datasource.SortLatest}

	page, hit, err := svc.List(context.Background(), "tasks", query)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, len(datasource.SeedTasks()), page.Total)
	tasks, err := datasource.DecodeRows[models.TaskPosting](page)
	require.NoError(t, err)
	assert.Len(t, tasks, 3)

	again, hit, err := svc.List(context.Background(), "tasks", query)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.JSONEq(t, string(page.Rows), string(again.Rows))
	assert.Equal(t, int32(1), atomic.LoadInt32(&src.fetches))

	require.NoError(t, svc.Invalidate(context.Background()))
	assert.Contains(t, cacheRepo.deleted, "catalog:*")
	_, hit, err = svc.List(context.Background(), "tasks", query)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestCatalogListRejectsUnknownResource(t *testing.T) {
	svc := newCatalogServiceForTest(datasource.NewMockDataSource(), nil)
	for _, resource := range []string{"invoices", "filter-options"} {
		_, _, err := svc.List(context.Background(), resource, datasource.Query{})
		assert.True(t, appErrors.Is(err, appErrors.ErrNotFound), resource)
	}
}

func TestCatalogListPassesUpstreamErrors(t *testing.T) {
	src := datasource.NewMockDataSource()
	src.SetFailure(datasource.ResourceDesigners, appErrors.ErrUpstreamUnavailable)
	svc := newCatalogServiceForTest(src, nil)

	_, _, err := svc.List(context.Background(), "designers", datasource.Query{})
	assert.True(t, appErrors.Is(err, appErrors.ErrUpstreamUnavailable))
}

func TestFilterOptionsDegradeToEmpty(t *testing.T) {
	src := &countingSource{MockDataSource: datasource.NewMockDataSource(), failKind: datasource.OptionLocations}
	cacheRepo := newCacheRepoStub()
	svc := newCatalogServiceForTest(src, cacheRepo)

	options, hit := svc.FilterOptions(context.Background())
	assert.False(t, hit)
	assert.NotEmpty(t, options.Professions)
	assert.NotEmpty(t, options.SkillTags)
	require.NotNil(t, options.Locations)
	assert.Empty(t, options.Locations)
	assert.NotContains(t, cacheRepo.items, filterOptionsCacheKey)

	raw, err := json.Marshal(options)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"locations":[]`)
}

func TestFilterOptionsCancelledContextIsNotCached(t *testing.T) {
	src := &countingSource{MockDataSource: datasource.NewMockDataSource()}
	cacheRepo := newCacheRepoStub()
	svc := newCatalogServiceForTest(src, cacheRepo)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	options, hit := svc.FilterOptions(ctx)
	assert.False(t, hit)
	assert.Empty(t, options.Professions)
	assert.Empty(t, options.Locations)
	assert.Empty(t, options.SkillTags)
	assert.NotContains(t, cacheRepo.items, filterOptionsCacheKey)

	fresh, _ := svc.FilterOptions(context.Background())
	assert.NotEmpty(t, fresh.Professions)
}

func TestFilterOptionsCachedWhenComplete(t *testing.T) {
	src := &countingSource{MockDataSource: datasource.NewMockDataSource()}
	svc := newCatalogServiceForTest(src, newCacheRepoStub())

	first, hit := svc.FilterOptions(context.Background())
	require.False(t, hit)
	second, hit := svc.FilterOptions(context.Background())
	assert.True(t, hit)
	assert.Equal(t, first, second)
	assert.Equal(t, int32(3), atomic.LoadInt32(&src.fetches))
}

func TestSkillTagsTaxonomy(t *testing.T) {
	svc := newCatalogServiceForTest(datasource.NewMockDataSource(), nil)

	all := svc.SkillTags(nil)
	require.Len(t, all.Groups, len(models.SkillCategories))
	assert.Equal(t, models.SkillCategoryTool, all.Groups[0].Category)
	assert.Equal(t, len(models.AllSkillTags()), all.Stats.Total)

	picked := svc.SkillTags([]string{"figma", "figma", "unknown_code"})
	assert.Equal(t, 3, picked.Stats.Total)
	require.Len(t, picked.Groups[0].Tags, 1)
	assert.Equal(t, "Figma", picked.Groups[0].Tags[0].Name)
}
