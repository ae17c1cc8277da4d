// Command datasource_parity pages through every catalog resource on the
// upstream backend and checks that its rows carry the fields the seeded mock
// data source serves.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/noah-isme/talent-factory-api/internal/catalog"
	"github.com/noah-isme/talent-factory-api/internal/datasource"
)

type row = map[string]interface{}

type comparison struct {
	Resource      datasource.Resource
	MockTotal     int
	UpstreamTotal int
	Loaded        int
	Pages         int
	Missing       []string
	Extra         []string
	Error         error
	Duration      time.Duration
}

func main() {
	var (
		upstream string
		token    string
		timeout  time.Duration
		pageSize int
		maxPages int
		strict   bool
	)

	flag.StringVar(&upstream, "upstream", "http://localhost:8081", "Upstream backend base URL")
	flag.StringVar(&token, "token", os.Getenv("UPSTREAM_TOKEN"), "Bearer token for the upstream backend")
	flag.DurationVar(&timeout, "timeout", 5*time.Second, "HTTP client timeout")
	flag.IntVar(&pageSize, "page-size", 20, "Rows per page")
	flag.IntVar(&maxPages, "max-pages", 5, "Pages to load per resource")
	flag.BoolVar(&strict, "strict", false, "Treat extra upstream fields as differences")
	flag.Parse()

	mock := datasource.NewMockDataSource()
	remote := datasource.NewHTTPDataSource(datasource.HTTPConfig{BaseURL: upstream, Token: token, Timeout: timeout}, nil, nil, nil)

	ctx := context.Background()
	var (
		results  []comparison
		breaking int
	)
	for _, resource := range datasource.BrowsableResources {
		comp := compareResource(ctx, mock, remote, resource, pageSize, maxPages)
		if comp.Error != nil || len(comp.Missing) > 0 || (strict && len(comp.Extra) > 0) {
			breaking++
		}
		results = append(results, comp)
	}

	printReport(results)
	fmt.Printf("Resources with differences: %d\n", breaking)
	if breaking > 0 {
		os.Exit(1)
	}
}

func compareResource(ctx context.Context, mock, remote datasource.DataSource, resource datasource.Resource, pageSize, maxPages int) comparison {
	comp := comparison{Resource: resource}
	query := datasource.Query{PageSize: pageSize}

	mockStore := catalog.NewListStore[row](mock, resource)
	if err := mockStore.FetchPage(ctx, query, true); err != nil {
		comp.Error = fmt.Errorf("mock fetch failed: %w", err)
		return comp
	}
	comp.MockTotal = mockStore.Total()

	start := time.Now()
	store := catalog.NewListStore[row](remote, resource)
	if err := store.FetchPage(ctx, query, true); err != nil {
		comp.Error = fmt.Errorf("upstream fetch failed: %w", err)
		return comp
	}
	comp.Pages = 1
	for store.HasMore() && comp.Pages < maxPages {
		if err := store.FetchPage(ctx, query, false); err != nil {
			comp.Error = fmt.Errorf("upstream page %d failed: %w", comp.Pages+1, err)
			return comp
		}
		comp.Pages++
	}
	comp.Duration = time.Since(start)
	comp.UpstreamTotal = store.Total()

	items := store.Items()
	comp.Loaded = len(items)
	if len(items) == 0 {
		return comp
	}
	comp.Missing, comp.Extra = diffKeys(fieldSet(mockStore.Items()), fieldSet(items))
	return comp
}

func fieldSet(rows []row) map[string]struct{} {
	set := make(map[string]struct{})
	for _, r := range rows {
		for key := range r {
			set[key] = struct{}{}
		}
	}
	return set
}

func diffKeys(expected, actual map[string]struct{}) (missing, extra []string) {
	for key := range expected {
		if _, ok := actual[key]; !ok {
			missing = append(missing, key)
		}
	}
	for key := range actual {
		if _, ok := expected[key]; !ok {
			extra = append(extra, key)
		}
	}
	sort.Strings(missing)
	sort.Strings(extra)
	return missing, extra
}

func printReport(results []comparison) {
	fmt.Println("Data Source Parity Report")
	fmt.Println("=========================")
	for _, res := range results {
		status := "OK"
		if res.Error != nil {
			status = "ERROR"
		} else if len(res.Missing) > 0 {
			status = "DIFF"
		}
		fmt.Printf("[%s] %s\n", status, res.Resource)
		if res.Error != nil {
			log.Printf("  Error: %v", res.Error)
			continue
		}
		fmt.Printf("  Mock total: %d | Upstream total: %d | Loaded: %d in %d page(s) (%s)\n", res.MockTotal, res.UpstreamTotal, res.Loaded, res.Pages, res.Duration)
		if len(res.Missing) > 0 {
			fmt.Printf("  Missing upstream fields: %s\n", strings.Join(res.Missing, ", "))
		}
		if len(res.Extra) > 0 {
			fmt.Printf("  Extra upstream fields: %s\n", strings.Join(res.Extra, ", "))
		}
	}
}
