package datasource

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/talent-factory-api/internal/models"
	appErrors "github.com/noah-isme/talent-factory-api/pkg/errors"
	"github.com/noah-isme/talent-factory-api/pkg/middleware/requestid"
)

type observerStub struct {
	mu    sync.Mutex
	calls map[string]int
}

func (o *observerStub) ObserveUpstream(resource string, err error, duration time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.calls == nil {
		o.calls = map[string]int{}
	}
	o.calls[resource]++
}

func newUpstream(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestHTTPFetchReadsRowsEnvelope(t *testing.T) {
	srv := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/task/task/list", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("pageNum"))
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"code":200,"msg":"ok","total":41,"rows":[{"taskId":"t-1","taskTitle":"Logo"}]}`))
	})
	observer := &observerStub{}
	ds := NewHTTPDataSource(HTTPConfig{BaseURL: srv.URL + "/", Token: "secret"}, srv.Client(), nil, observer)

	page, err := ds.Fetch(context.Background(), ResourceTasks, Query{Page: 2})
	require.NoError(t, err)
	assert.Equal(t, 41, page.Total)
	tasks, err := DecodeRows[models.TaskPosting](page)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "Logo", tasks[0].Title)
	assert.Equal(t, 1, observer.calls["tasks"])
}

func TestHTTPFetchFallsBackToDataList(t *testing.T) {
	srv := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/designer/regions", r.URL.Path)
		_, _ = w.Write([]byte(`{"code":200,"data":[{"value":"Shanghai","label":"Shanghai"}]}`))
	})
	ds := NewHTTPDataSource(HTTPConfig{BaseURL: srv.URL}, srv.Client(), nil, nil)

	options, err := FilterOptionList(context.Background(), ds, OptionLocations)
	require.NoError(t, err)
	require.Len(t, options, 1)
	assert.Equal(t, "Shanghai", options[0].Value)
}

func TestHTTPFetchBusinessRejection(t *testing.T) {
	srv := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"code":500,"msg":"task list temporarily frozen"}`))
	})
	ds := NewHTTPDataSource(HTTPConfig{BaseURL: srv.URL}, srv.Client(), nil, nil)

	_, err := ds.Fetch(context.Background(), ResourceTasks, Query{})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrUpstreamRejected.Code, appErr.Code)
	assert.Equal(t, "task list temporarily frozen", appErr.Message)
}

func TestHTTPUnauthorizedDropsToken(t *testing.T) {
	for name, handler := range map[string]http.HandlerFunc{
		"envelope code": func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"code":401,"msg":"token expired"}`))
		},
		"http status": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		},
	} {
		t.Run(name, func(t *testing.T) {
			srv := newUpstream(t, handler)
			ds := NewHTTPDataSource(HTTPConfig{BaseURL: srv.URL, Token: "stale"}, srv.Client(), nil, nil)

			_, err := ds.Fetch(context.Background(), ResourceDesigners, Query{})
			assert.True(t, appErrors.Is(err, appErrors.ErrUnauthorized))
			assert.Empty(t, ds.Token())
		})
	}
}

func TestHTTPTransportFailureIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	ds := NewHTTPDataSource(HTTPConfig{BaseURL: url, Timeout: time.Second}, nil, nil, nil)
	_, err := ds.Fetch(context.Background(), ResourceJobs, Query{})
	assert.True(t, appErrors.Is(err, appErrors.ErrUpstreamUnavailable))
}

func TestHTTPTimeoutIsUnavailable(t *testing.T) {
	srv := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	})
	ds := NewHTTPDataSource(HTTPConfig{BaseURL: srv.URL, Timeout: 20 * time.Millisecond}, nil, nil, nil)

	_, err := ds.Fetch(context.Background(), ResourceJobs, Query{})
	assert.True(t, appErrors.Is(err, appErrors.ErrUpstreamUnavailable))
}

func TestHTTPMalformedBody(t *testing.T) {
	srv := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>gateway</html>`))
	})
	ds := NewHTTPDataSource(HTTPConfig{BaseURL: srv.URL}, srv.Client(), nil, nil)

	_, err := ds.Fetch(context.Background(), ResourceSchools, Query{})
	assert.True(t, appErrors.Is(err, appErrors.ErrUpstreamMalformed))
}

func TestHTTPFindTaskUsesDetailEndpoint(t *testing.T) {
	srv := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/task/task/t-9" {
			_, _ = w.Write([]byte(`{"code":200,"data":{"taskId":"t-9","enterpriseId":"ent-9","status":"PUBLISHED"}}`))
			return
		}
		w.WriteHeader(http.StatusNotFound)
	})
	ds := NewHTTPDataSource(HTTPConfig{BaseURL: srv.URL}, srv.Client(), nil, nil)

	task, err := FindTask(context.Background(), ds, "t-9")
	require.NoError(t, err)
	assert.Equal(t, "ent-9", task.EnterpriseID.String())

	_, err = FindTask(context.Background(), ds, "t-404")
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))
}

func TestHTTPFindTaskDecodesNumericIDs(t *testing.T) {
	srv := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/task/task/1001", r.URL.Path)
		_, _ = w.Write([]byte(`{"code":200,"data":{"taskId":1001,"enterpriseId":77,"status":"PUBLISHED"}}`))
	})
	ds := NewHTTPDataSource(HTTPConfig{BaseURL: srv.URL}, srv.Client(), nil, nil)

	task, err := FindTask(context.Background(), ds, "1001")
	require.NoError(t, err)
	assert.Equal(t, models.FlexibleID("1001"), task.ID)
	assert.Equal(t, "77", task.EnterpriseID.String())
}

func TestHTTPTaskIDCannotEscapePath(t *testing.T) {
	var hits int
	srv := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		hits++
		_, _ = w.Write([]byte(`{"code":200,"data":{"taskId":"1","status":"PUBLISHED"}}`))
	})
	ds := NewHTTPDataSource(HTTPConfig{BaseURL: srv.URL, Token: "svc"}, srv.Client(), nil, nil)

	for _, id := range []string{
		"1/../../system/user/list?pageSize=1000",
		"1?pageSize=1000",
		"1#frag",
		"..",
		"1%2F..",
	} {
		_, err := FindTask(context.Background(), ds, id)
		assert.True(t, appErrors.Is(err, appErrors.ErrValidation), "id %q", id)

		_, err = ds.Fetch(context.Background(), ResourceTasks, Query{Filters: map[string]string{"taskId": id}})
		assert.True(t, appErrors.Is(err, appErrors.ErrValidation), "id %q", id)
	}
	assert.Zero(t, hits)
}

func TestHTTPMutatePostsPayload(t *testing.T) {
	srv := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/task/task/apply", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		_, _ = w.Write([]byte(`{"code":200,"data":{"taskId":"t-1","applications":3}}`))
	})
	ds := NewHTTPDataSource(HTTPConfig{BaseURL: srv.URL}, srv.Client(), nil, nil)

	data, err := ds.Mutate(context.Background(), ResourceTasks, ActionApply, map[string]string{"taskId": "t-1"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"taskId":"t-1","applications":3}`, string(data))
}

func TestHTTPFetchForwardsRequestID(t *testing.T) {
	srv := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "req-42", r.Header.Get(requestid.Header))
		_, _ = w.Write([]byte(`{"code":200,"total":0,"rows":[]}`))
	})
	ds := NewHTTPDataSource(HTTPConfig{BaseURL: srv.URL}, srv.Client(), nil, nil)

	_, err := ds.Fetch(requestid.WithValue(context.Background(), "req-42"), ResourceDesigners, Query{})
	require.NoError(t, err)
}
