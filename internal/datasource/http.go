package datasource

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	appErrors "github.com/noah-isme/talent-factory-api/pkg/errors"
	"github.com/noah-isme/talent-factory-api/pkg/middleware/requestid"
)

// UpstreamObserver records upstream call latency.
type UpstreamObserver interface {
	ObserveUpstream(resource string, err error, duration time.Duration)
}

// HTTPConfig configures the upstream client.
type HTTPConfig struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

var resourcePaths = map[Resource]string{
	ResourceDesigners: "/designer/designer/list",
	ResourceJobs:      "/designer/job/list",
	ResourceSchools:   "/designer/school/list",
	ResourceTasks:     "/task/task/list",
}

var filterOptionPaths = map[string]string{
	OptionProfessions: "/designer/professions",
	OptionLocations:   "/designer/regions",
	OptionSkillTags:   "/designer/skill-tags",
}

var mutationPaths = map[Resource]string{
	ResourceTasks: "/task/task",
}

// HTTPDataSource calls the upstream REST backend.
type HTTPDataSource struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
	observer   UpstreamObserver

	mu    sync.RWMutex
	token string
}

// envelope is the upstream response contract.
type envelope struct {
	Code  *int            `json:"code"`
	Msg   string          `json:"msg"`
	Rows  json.RawMessage `json:"rows"`
	Total *int            `json:"total"`
	Data  json.RawMessage `json:"data"`
}

// NewHTTPDataSource constructs the upstream client.
func NewHTTPDataSource(cfg HTTPConfig, httpClient *http.Client, logger *zap.Logger, observer UpstreamObserver) *HTTPDataSource {
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HTTPDataSource{
		baseURL:    strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		httpClient: httpClient,
		logger:     logger,
		observer:   observer,
		token:      strings.TrimSpace(cfg.Token),
	}
}

// Token returns the bearer token currently in use.
func (h *HTTPDataSource) Token() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.token
}

// SetToken replaces the bearer token.
func (h *HTTPDataSource) SetToken(token string) {
	h.mu.Lock()
	h.token = strings.TrimSpace(token)
	h.mu.Unlock()
}

// Fetch loads one page of resource.
func (h *HTTPDataSource) Fetch(ctx context.Context, resource Resource, query Query) (Page, error) {
	q := query.Normalize()
	path, err := fetchPath(resource, q)
	if err != nil {
		return Page{}, err
	}
	if id := q.Filter("taskId"); resource == ResourceTasks && id != "" {
		return h.fetchTask(ctx, id, q)
	}

	env, err := h.do(ctx, resource, http.MethodGet, path+"?"+q.Values().Encode(), nil)
	if err != nil {
		return Page{}, err
	}
	rows := env.Rows
	if len(rows) == 0 || string(rows) == "null" {
		rows = env.Data
	}
	if len(rows) == 0 || string(rows) == "null" {
		rows = json.RawMessage("[]")
	}
	if !json.Valid(rows) || rows[0] != '[' {
		return Page{}, appErrors.Clone(appErrors.ErrUpstreamMalformed, fmt.Sprintf("%s: expected a list", resource))
	}
	total := 0
	if env.Total != nil {
		total = *env.Total
	} else {
		var items []json.RawMessage
		_ = json.Unmarshal(rows, &items)
		total = len(items)
	}
	return Page{Rows: rows, Total: total, Page: q.Page, Size: q.PageSize}, nil
}

// Mutate posts payload to the resource action endpoint and returns the
// envelope data.
func (h *HTTPDataSource) Mutate(ctx context.Context, resource Resource, action string, payload interface{}) (json.RawMessage, error) {
	base, ok := mutationPaths[resource]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrUpstreamRejected, fmt.Sprintf("action %s not supported on %s", action, resource))
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode mutation payload: %w", err)
	}
	env, err := h.do(ctx, resource, http.MethodPost, base+"/"+action, body)
	if err != nil {
		return nil, err
	}
	return env.Data, nil
}

func (h *HTTPDataSource) fetchTask(ctx context.Context, id string, q Query) (Page, error) {
	if !ValidID(id) {
		return Page{}, appErrors.Clone(appErrors.ErrValidation, "invalid task id")
	}
	env, err := h.do(ctx, ResourceTasks, http.MethodGet, "/task/task/"+url.PathEscape(id), nil)
	if err != nil {
		if appErrors.Is(err, appErrors.ErrUpstreamRejected) {
			return Page{Rows: json.RawMessage("[]"), Page: q.Page, Size: q.PageSize}, nil
		}
		return Page{}, err
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return Page{Rows: json.RawMessage("[]"), Page: q.Page, Size: q.PageSize}, nil
	}
	rows := append(append([]byte{'['}, env.Data...), ']')
	return Page{Rows: rows, Total: 1, Page: q.Page, Size: q.PageSize}, nil
}

func (h *HTTPDataSource) do(ctx context.Context, resource Resource, method, path string, body []byte) (env envelope, err error) {
	start := time.Now()
	defer func() {
		if h.observer != nil {
			h.observer.ObserveUpstream(string(resource), err, time.Since(start))
		}
	}()

	if h.baseURL == "" {
		return envelope{}, appErrors.Clone(appErrors.ErrUpstreamUnavailable, "upstream base url not configured")
	}
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, h.baseURL+path, reader)
	if err != nil {
		return envelope{}, fmt.Errorf("create upstream request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := h.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if reqID := requestid.FromContext(ctx); reqID != "" {
		req.Header.Set(requestid.Header, reqID)
	}

	resp, err := h.httpClient.Do(req)
	if err != nil {
		h.logger.Warn("upstream request failed", zap.String("resource", string(resource)), zap.String("path", path), zap.Error(err))
		return envelope{}, appErrors.Wrap(err, appErrors.ErrUpstreamUnavailable.Code, appErrors.ErrUpstreamUnavailable.Status, "network request failed, check the upstream connection")
	}
	defer resp.Body.Close()
	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return envelope{}, appErrors.Wrap(err, appErrors.ErrUpstreamUnavailable.Code, appErrors.ErrUpstreamUnavailable.Status, "failed to read upstream response")
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return envelope{}, h.unauthorized(resource)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return envelope{}, mapStatusError(resp.StatusCode, payload)
	}

	if err := json.Unmarshal(payload, &env); err != nil {
		return envelope{}, appErrors.Wrap(err, appErrors.ErrUpstreamMalformed.Code, appErrors.ErrUpstreamMalformed.Status, "upstream returned invalid json")
	}
	switch {
	case env.Code == nil || *env.Code == http.StatusOK:
		return env, nil
	case *env.Code == http.StatusUnauthorized:
		return envelope{}, h.unauthorized(resource)
	default:
		return envelope{}, rejected(env.Msg)
	}
}

func (h *HTTPDataSource) unauthorized(resource Resource) error {
	h.SetToken("")
	h.logger.Warn("upstream rejected credentials, token dropped", zap.String("resource", string(resource)))
	return appErrors.Clone(appErrors.ErrUnauthorized, "upstream authentication failed")
}

func mapStatusError(status int, payload []byte) error {
	var env envelope
	if err := json.Unmarshal(payload, &env); err == nil && env.Msg != "" {
		if status >= 500 {
			return appErrors.Clone(appErrors.ErrUpstreamUnavailable, env.Msg)
		}
		return rejected(env.Msg)
	}
	message := strings.TrimSpace(string(payload))
	if message == "" {
		message = http.StatusText(status)
	}
	if status >= 500 {
		return appErrors.Clone(appErrors.ErrUpstreamUnavailable, fmt.Sprintf("upstream error: %s", message))
	}
	return rejected(message)
}

func rejected(message string) error {
	if strings.TrimSpace(message) == "" {
		return appErrors.ErrUpstreamRejected
	}
	return appErrors.Clone(appErrors.ErrUpstreamRejected, message)
}

func fetchPath(resource Resource, q Query) (string, error) {
	if resource == ResourceFilterOptions {
		path, ok := filterOptionPaths[q.Filter("kind")]
		if !ok {
			return "", appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown filter option list %q", q.Filter("kind")))
		}
		return path, nil
	}
	path, ok := resourcePaths[resource]
	if !ok {
		return "", appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("unknown resource %s", resource))
	}
	return path, nil
}
