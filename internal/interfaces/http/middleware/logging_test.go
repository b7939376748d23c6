package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/jazzy-go/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/jazzy-go/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/jazzy-go/internal/testutil"
)

func TestRequestID_GeneratedAndPropagated(t *testing.T) {
	var fromCtx, fromGin string
	r := gin.New()
	r.Use(RequestID())
	r.GET("/id", func(c *gin.Context) {
		fromCtx = logging.RequestIDFrom(c.Request.Context())
		fromGin = GetRequestID(c)
	})

	w := serve(r, httptest.NewRequest(http.MethodGet, "/id", nil))
	id := w.Header().Get(HeaderRequestID)
	require.NotEmpty(t, id)
	assert.Len(t, id, 36)
	assert.Equal(t, id, fromCtx)
	assert.Equal(t, id, fromGin)
}

func TestRequestID_ReusesCallerHeader(t *testing.T) {
	r := newTestEngine(RequestID())
	req := httptest.NewRequest(http.MethodGet, "/ok", nil)
	req.Header.Set(HeaderRequestID, "caller-42")
	w := serve(r, req)
	assert.Equal(t, "caller-42", w.Header().Get(HeaderRequestID))
}

func TestRequestLogging_Levels(t *testing.T) {
	logger := testutil.NewMockLogger()
	r := newTestEngine(RequestID(), RequestLogging(logger, DefaultLoggingConfig()))

	serve(r, httptest.NewRequest(http.MethodGet, "/ok?x=1", nil))
	serve(r, httptest.NewRequest(http.MethodGet, "/bad", nil))
	serve(r, httptest.NewRequest(http.MethodGet, "/fail", nil))

	assert.True(t, logger.HasMessage("info", "HTTP request completed"))
	assert.True(t, logger.HasMessage("warn", "HTTP request completed with client error"))
	assert.True(t, logger.HasMessage("error", "HTTP request completed with server error"))

	msgs := logger.GetMessages()
	require.Len(t, msgs, 3)
	path, ok := msgs[0].Field("path")
	require.True(t, ok)
	assert.Equal(t, "/ok?x=1", path)
	id, ok := msgs[0].Field(logging.FieldRequestID)
	require.True(t, ok)
	assert.NotEmpty(t, id)
}

func TestRequestLogging_SkipsProbes(t *testing.T) {
	logger := testutil.NewMockLogger()
	r := newTestEngine(RequestLogging(logger, DefaultLoggingConfig()))
	serve(r, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Empty(t, logger.GetMessages())
}

func TestRequestLogging_Slow(t *testing.T) {
	logger := testutil.NewMockLogger()
	r := gin.New()
	r.Use(RequestLogging(logger, LoggingConfig{SlowThreshold: time.Nanosecond}))
	r.GET("/slow", func(c *gin.Context) {
		time.Sleep(time.Millisecond)
		c.Status(http.StatusOK)
	})
	serve(r, httptest.NewRequest(http.MethodGet, "/slow", nil))
	assert.True(t, logger.HasMessage("warn", "HTTP request completed (slow)"))
}

func TestRecovery(t *testing.T) {
	logger := testutil.NewMockLogger()
	r := newTestEngine(RequestID(), Recovery(logger))

	w := serve(r, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), `"code":"COMMON_001"`)
	assert.True(t, logger.HasMessage("error", "panic recovered"))
}

func TestMetrics_UsesRouteTemplate(t *testing.T) {
	collector, err := prometheus.NewMetricsCollector(prometheus.CollectorConfig{Namespace: "test", Subsystem: "http"}, logging.NewNopLogger())
	require.NoError(t, err)
	metrics := prometheus.NewAppMetrics(collector)

	r := gin.New()
	r.Use(Metrics(metrics))
	r.GET("/items/:id", func(c *gin.Context) { c.Status(http.StatusOK) })
	serve(r, httptest.NewRequest(http.MethodGet, "/items/1", nil))
	serve(r, httptest.NewRequest(http.MethodGet, "/items/2", nil))
	serve(r, httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	w := serve(collector.Handler(), httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := w.Body.String()
	assert.Contains(t, body, `test_http_http_requests_total{method="GET",path="/items/:id",status_code="200"} 2`)
	assert.Contains(t, body, `test_http_http_requests_total{method="GET",path="unmatched",status_code="404"} 1`)
}

//Personal.AI order the ending
