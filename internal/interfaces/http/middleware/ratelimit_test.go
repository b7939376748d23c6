package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestRateLimit_BurstThenReject(t *testing.T) {
	r := newTestEngine(RequestID(), RateLimit(RateLimitConfig{RequestsPerSecond: 1, BurstSize: 2}))

	for i := 0; i < 2; i++ {
		w := serve(r, httptest.NewRequest(http.MethodGet, "/ok", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
	}

	w := serve(r, httptest.NewRequest(http.MethodGet, "/ok", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "1", w.Header().Get("Retry-After"))
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
	assert.Contains(t, w.Body.String(), `"code":"RATE_LIMITED"`)
}

func TestRateLimit_PerClient(t *testing.T) {
	r := newTestEngine(RateLimit(RateLimitConfig{RequestsPerSecond: 1, BurstSize: 1}))

	a := httptest.NewRequest(http.MethodGet, "/ok", nil)
	a.RemoteAddr = "10.0.0.1:1234"
	b := httptest.NewRequest(http.MethodGet, "/ok", nil)
	b.RemoteAddr = "10.0.0.2:1234"

	assert.Equal(t, http.StatusOK, serve(r, a).Code)
	assert.Equal(t, http.StatusTooManyRequests, serve(r, a).Code)
	assert.Equal(t, http.StatusOK, serve(r, b).Code)
}

func TestRateLimit_SkipPathsAndDisabled(t *testing.T) {
	r := newTestEngine(RateLimit(RateLimitConfig{RequestsPerSecond: 1, BurstSize: 1, SkipPaths: []string{"/healthz"}}))
	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, serve(r, httptest.NewRequest(http.MethodGet, "/healthz", nil)).Code)
	}

	r = newTestEngine(RateLimit(RateLimitConfig{}))
	for i := 0; i < 3; i++ {
		w := serve(r, httptest.NewRequest(http.MethodGet, "/ok", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Header().Get("X-RateLimit-Limit"))
	}
}

func TestRateLimit_CustomKey(t *testing.T) {
	key := func(c *gin.Context) string { return c.GetHeader("X-API-Key") }
	r := newTestEngine(RateLimit(RateLimitConfig{RequestsPerSecond: 1, BurstSize: 1, KeyFunc: key}))

	for _, k := range []string{"a", "b"} {
		req := httptest.NewRequest(http.MethodGet, "/ok", nil)
		req.Header.Set("X-API-Key", k)
		assert.Equal(t, http.StatusOK, serve(r, req).Code)
	}
}

func TestClientLimiters_RefillAndEviction(t *testing.T) {
	now := time.Unix(1000, 0)
	l := NewClientLimiters(2, 1, time.Minute)
	l.now = func() time.Time { return now }

	ok, _, _ := l.Reserve("x")
	assert.True(t, ok)
	ok, wait, _ := l.Reserve("x")
	assert.False(t, ok)
	assert.Equal(t, 500*time.Millisecond, wait)

	now = now.Add(500 * time.Millisecond)
	ok, _, _ = l.Reserve("x")
	assert.True(t, ok)

	l.Reserve("y")
	assert.Equal(t, 2, l.Len())
	now = now.Add(2 * time.Minute)
	l.Reserve("z")
	assert.Equal(t, 1, l.Len())
}

func TestNewClientLimiters_DefaultBurst(t *testing.T) {
	assert.Equal(t, 3, NewClientLimiters(2.5, 0, 0).burst)
	assert.Equal(t, 1, NewClientLimiters(0.2, 0, 0).burst)
}

//Personal.AI order the ending
