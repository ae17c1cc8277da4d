// Package catalog holds paged list caches over a datasource.DataSource.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/noah-isme/talent-factory-api/internal/datasource"
)

// ErrStale reports that a response arrived after a reset superseded it. The
// response was discarded.
var ErrStale = errors.New("catalog: response superseded by a newer query")

// ListStore caches the pages of one resource loaded so far. It is safe for
// concurrent use. Identical in-flight fetches, resets included, are collapsed
// into one upstream call. A reset to a different query invalidates every fetch
// started before it.
type ListStore[T any] struct {
	ds       datasource.DataSource
	resource datasource.Resource
	group    singleflight.Group

	mu         sync.RWMutex
	items      []T
	total      int
	pages      int
	query      datasource.Query
	generation uint64
	inflight   int
	// resetKey is the cache key of the reset in flight for generation.
	resetKey string
}

// NewListStore constructs an empty store for resource.
func NewListStore[T any](ds datasource.DataSource, resource datasource.Resource) *ListStore[T] {
	return &ListStore[T]{ds: ds, resource: resource}
}

// FetchPage loads data into the store. With reset the query replaces the
// current one and page 1 replaces the backing list; otherwise the next page of
// the current query is appended. The first fetch adopts query either way.
func (s *ListStore[T]) FetchPage(ctx context.Context, query datasource.Query, reset bool) error {
	s.mu.Lock()
	if reset || s.pages == 0 && s.generation == 0 {
		normalized := query.Normalize()
		if key := normalized.CacheKey(); key != s.resetKey {
			s.generation++
			s.resetKey = key
		}
		s.query = normalized
		reset = true
	}
	gen := s.generation
	page := s.pages + 1
	if reset {
		page = 1
	}
	q := s.query.WithPage(page)
	s.inflight++
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.inflight--
		s.mu.Unlock()
	}()

	key := fmt.Sprintf("%d|%t|%s", gen, reset, q.CacheKey())
	_, err, _ := s.group.Do(key, func() (interface{}, error) {
		return nil, s.load(ctx, gen, q, reset)
	})
	return err
}

func (s *ListStore[T]) load(ctx context.Context, gen uint64, q datasource.Query, reset bool) error {
	result, err := s.ds.Fetch(ctx, s.resource, q)
	var rows []T
	if err == nil {
		rows, err = datasource.DecodeRows[T](result)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		return ErrStale
	}
	if reset {
		s.resetKey = ""
	}
	if err != nil {
		if reset {
			s.items = nil
			s.total = 0
			s.pages = 0
		}
		return err
	}
	if reset {
		s.items = rows
		s.pages = 1
	} else {
		if q.Page != s.pages+1 {
			return ErrStale
		}
		s.items = append(s.items, rows...)
		s.pages = q.Page
	}
	s.total = result.Total
	if len(rows) == 0 && !reset {
		// an empty page ends the list even when upstream reported a larger total
		s.total = len(s.items)
	}
	return nil
}

// HasMore reports whether the upstream total exceeds what is loaded.
func (s *ListStore[T]) HasMore() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items) < s.total
}

// Loading reports whether a fetch is in flight.
func (s *ListStore[T]) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.inflight > 0
}

// Total returns the upstream total for the current query.
func (s *ListStore[T]) Total() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.total
}

// Query returns the current query.
func (s *ListStore[T]) Query() datasource.Query {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.query
}

// Items returns a copy of the loaded items.
func (s *ListStore[T]) Items() []T {
	return s.View(nil, nil)
}

// View derives a filtered and sorted copy of the loaded items. Either function
// may be nil. The backing list is never reordered.
func (s *ListStore[T]) View(filter func(T) bool, less func(a, b T) bool) []T {
	s.mu.RLock()
	out := make([]T, 0, len(s.items))
	for _, item := range s.items {
		if filter == nil || filter(item) {
			out = append(out, item)
		}
	}
	s.mu.RUnlock()
	if less != nil {
		sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	}
	return out
}
