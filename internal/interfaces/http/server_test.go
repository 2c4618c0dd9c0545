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

	"github.com/turtacn/pauling/internal/config"
	"github.com/turtacn/pauling/internal/testutil"
)

func TestNewServer(t *testing.T) {
	mux := http.NewServeMux()
	cfg := config.ServerConfig{Host: "127.0.0.1", Port: 8080, ReadTimeout: time.Second, WriteTimeout: 2 * time.Second}
	server := NewServer(cfg, mux, nil)

	require.NotNil(t, server)
	assert.Equal(t, "127.0.0.1:8080", server.Addr())
	assert.Equal(t, time.Second, server.httpServer.ReadTimeout)
	assert.Equal(t, 2*time.Second, server.httpServer.WriteTimeout)
	assert.Equal(t, 30*time.Second, server.shutdownTimeout)
	assert.Equal(t, http.Handler(mux), server.Handler())
}

func TestServer_ServeAndShutdown(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/ping", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "pong")
	})
	log := testutil.NewMockLogger()
	server := NewServer(config.ServerConfig{ShutdownTimeout: time.Second}, mux, log)

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
		assert.NoError(t, err, "a graceful shutdown is not an error")
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return after Shutdown")
	}
	assert.True(t, log.HasMessage("info", "HTTP server stopped"))
}

func TestServer_StartListenError(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()
	port := ln.Addr().(*net.TCPAddr).Port

	server := NewServer(config.ServerConfig{Host: "127.0.0.1", Port: port}, http.NewServeMux(), nil)
	err = server.Start()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "listen on")
}

//Personal.AI order the ending
