package http

import (
	"context"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/jazzy-go/internal/testutil"
)

func TestNewServer(t *testing.T) {
	h := gin.New()
	s := NewServer(ServerConfig{Addr: ":8080", ReadTimeout: time.Second}, h, nil)

	assert.Equal(t, ":8080", s.httpServer.Addr)
	assert.Equal(t, time.Second, s.httpServer.ReadTimeout)
	assert.Equal(t, 60*time.Second, s.httpServer.IdleTimeout)
	assert.Equal(t, h, s.Handler())
}

func TestServer_ServeAndShutdown(t *testing.T) {
	r := gin.New()
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	logger := testutil.NewMockLogger()
	s := NewServer(ServerConfig{}, r, logger)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	done := make(chan error, 1)
	go func() { done <- s.Serve(ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/ping")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, "pong", string(body))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, s.Shutdown(ctx))
	assert.NoError(t, <-done)
	assert.True(t, logger.HasMessage("info", "HTTP server listening"))
	assert.True(t, logger.HasMessage("info", "HTTP server stopped"))
}

func TestServer_StartBadAddr(t *testing.T) {
	s := NewServer(ServerConfig{Addr: "256.0.0.1:bad"}, gin.New(), nil)
	assert.Error(t, s.Start())
}

//Personal.AI order the ending
