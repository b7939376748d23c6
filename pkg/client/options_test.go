package client

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, opts ...Option) *Client {
	t.Helper()
	c, err := NewClient("http://jazzy.local", "key", opts...)
	require.NoError(t, err)
	return c
}

func TestWithHTTPClient(t *testing.T) {
	custom := &http.Client{Timeout: 3 * time.Second}
	c := newTestClient(t, WithHTTPClient(custom))
	assert.Same(t, custom, c.httpClient)
}

func TestWithTimeout(t *testing.T) {
	assert.Equal(t, 5*time.Second, newTestClient(t, WithTimeout(5*time.Second)).httpClient.Timeout)
	assert.Equal(t, 60*time.Second, newTestClient(t, WithTimeout(0)).httpClient.Timeout)
}

func TestWithLogger(t *testing.T) {
	logger := &testLogger{}
	c := newTestClient(t, WithLogger(logger))
	assert.Same(t, logger, c.logger)
}

func TestWithRetryMax(t *testing.T) {
	assert.Equal(t, 5, newTestClient(t, WithRetryMax(5)).retryMax)
	assert.Equal(t, 0, newTestClient(t, WithRetryMax(0)).retryMax)
	assert.Equal(t, 3, newTestClient(t, WithRetryMax(-1)).retryMax)
}

func TestWithRetryWait(t *testing.T) {
	tests := []struct {
		name      string
		min, max  time.Duration
		expectMin time.Duration
		expectMax time.Duration
	}{
		{"valid range", time.Second, 5 * time.Second, time.Second, 5 * time.Second},
		{"equal values", 2 * time.Second, 2 * time.Second, 2 * time.Second, 2 * time.Second},
		{"zero min keeps defaults", 0, 5 * time.Second, 500 * time.Millisecond, 5 * time.Second},
		{"max below min keeps default max", 8 * time.Second, 2 * time.Second, 8 * time.Second, 5 * time.Second},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, WithRetryWait(tt.min, tt.max))
			assert.Equal(t, tt.expectMin, c.retryWaitMin)
			assert.Equal(t, tt.expectMax, c.retryWaitMax)
		})
	}
}

func TestWithUserAgent(t *testing.T) {
	assert.Equal(t, "custom-agent/1.0", newTestClient(t, WithUserAgent("custom-agent/1.0")).userAgent)
	assert.Equal(t, "jazzy-go-sdk/"+Version, newTestClient(t, WithUserAgent("")).userAgent)
}

type testLogger struct {
	debugCalled bool
	infoCalled  bool
	errorCalled bool
}

func (l *testLogger) Debugf(format string, args ...interface{}) { l.debugCalled = true }
func (l *testLogger) Infof(format string, args ...interface{})  { l.infoCalled = true }
func (l *testLogger) Errorf(format string, args ...interface{}) { l.errorCalled = true }

//Personal.AI order the ending
