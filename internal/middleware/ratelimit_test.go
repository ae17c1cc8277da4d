package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/talent-factory-api/internal/models"
)

func TestMemoryLimiterFixedWindow(t *testing.T) {
	limiter := NewMemoryLimiter()
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return now }
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		ok, _ := limiter.Allow(ctx, "designer-1", 2, time.Minute)
		assert.True(t, ok)
	}
	ok, retry := limiter.Allow(ctx, "designer-1", 2, time.Minute)
	assert.False(t, ok)
	assert.Equal(t, time.Minute, retry)

	ok, _ = limiter.Allow(ctx, "designer-2", 2, time.Minute)
	assert.True(t, ok)

	now = now.Add(time.Minute)
	ok, _ = limiter.Allow(ctx, "designer-1", 2, time.Minute)
	assert.True(t, ok)
}

func TestRateLimitRejectsWithRetryAfter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	claims := &models.JWTClaims{UserID: "u-1", Role: models.RoleDesigner}
	r := gin.New()
	r.POST("/designer/task-applications",
		JWT(validatorStub{claims: claims}),
		RateLimit(NewMemoryLimiter(), PerActor, 1, time.Hour),
		func(c *gin.Context) { c.Status(http.StatusCreated) },
	)

	send := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/designer/task-applications", nil)
		req.Header.Set("Authorization", "Bearer good")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusCreated, send().Code)
	w := send()
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "3600", w.Header().Get("Retry-After"))
	assert.Contains(t, w.Body.String(), "TOO_MANY_REQUESTS")
}

func TestRateLimitSkipsAnonymous(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/open", RateLimit(NewMemoryLimiter(), PerActor, 1, time.Hour), func(c *gin.Context) { c.Status(http.StatusOK) })
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/open", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}
}
