package http

import (
	"context"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/themedash/internal/config"
	"github.com/turtacn/themedash/internal/testutil"
)

func TestNewServer(t *testing.T) {
	mux := http.NewServeMux()
	server := NewServer(config.ServerConfig{Host: "127.0.0.1", Port: 8050, ReadTimeout: time.Second}, mux, nil)

	assert.Equal(t, "127.0.0.1:8050", server.srv.Addr)
	assert.Equal(t, time.Second, server.srv.ReadTimeout)
	assert.Equal(t, config.DefaultShutdownTimeout, server.shutdownTimeout)
	assert.Equal(t, http.Handler(mux), server.Handler())
}

func TestServer_ServeAndShutdown(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/ping", func(w http.ResponseWriter, r *http.Request) { _, _ = io.WriteString(w, "pong") })

	logger := testutil.NewMockLogger()
	server := NewServer(config.ServerConfig{ShutdownTimeout: time.Second}, mux, logger)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- server.Serve(ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/ping")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, "pong", string(body))

	require.NoError(t, server.Shutdown(context.Background()))
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop")
	}
	assert.True(t, logger.HasMessage("info", "HTTP server stopped"))
}

func TestServer_ShutdownBeforeStart(t *testing.T) {
	server := NewServer(config.ServerConfig{Port: 0}, http.NewServeMux(), nil)
	assert.NoError(t, server.Shutdown(context.Background()))
}
