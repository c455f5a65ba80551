package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mchmarny/menued/pkg/metric"
)

func start(t *testing.T, opts ...Option) (Server, string) {
	t.Helper()

	s := New(append([]Option{WithPort(0), WithShutdownTimeout(time.Second)}, opts...)...)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx) }()

	require.Eventually(t, s.IsRunning, 2*time.Second, 10*time.Millisecond)
	addr := s.Addr()
	require.NotNil(t, addr)

	t.Cleanup(func() {
		cancel()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(3 * time.Second):
			t.Error("server did not stop")
		}
		assert.False(t, s.IsRunning())
	})

	return s, fmt.Sprintf("http://%s", addr.String())
}

func get(t *testing.T, url string) (int, string) {
	t.Helper()
	resp, err := http.Get(url) //nolint:gosec,noctx
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestNewDefaults(t *testing.T) {
	s, ok := New().(*server)
	require.True(t, ok)
	assert.Equal(t, DefaultPort, s.port)
	assert.Equal(t, DefaultReadTimeout, s.readTimeout)
	assert.Equal(t, DefaultShutdownTimeout, s.shutdownTimeout)
	assert.Nil(t, s.tlsConfig)
	assert.False(t, s.IsRunning())
	assert.Nil(t, s.Addr())
}

func TestOptions(t *testing.T) {
	s, ok := New(
		WithPort(8080),
		WithReadTimeout(time.Second),
		WithWriteTimeout(2*time.Second),
		WithIdleTimeout(3*time.Second),
		WithShutdownTimeout(0),
		WithMaxHeaderBytes(512),
		WithTLS(TLSConfig{CertFile: "cert.pem"}),
	).(*server)
	require.True(t, ok)
	assert.Equal(t, 8080, s.port)
	assert.Equal(t, time.Second, s.readTimeout)
	assert.Equal(t, 2*time.Second, s.writeTimeout)
	assert.Equal(t, 3*time.Second, s.idleTimeout)
	assert.Equal(t, DefaultShutdownTimeout, s.shutdownTimeout, "zero keeps default")
	assert.Equal(t, 512, s.maxHeaderBytes)
	assert.Nil(t, s.tlsConfig, "incomplete TLS config is ignored")
}

func TestServeEndpoints(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := metric.NewCounter(reg, "test_total", "test counter", "op")
	c.Increment("ping")

	ready := errors.New("warming up")
	_, base := start(t,
		WithSimpleHealth(),
		WithReadiness(ReadinessFunc(func(context.Context) error { return ready })),
		WithMetrics(reg),
		WithHandler("GET /hello", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("hi"))
		})),
	)

	status, body := get(t, base+"/healthz")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", body)

	status, body = get(t, base+"/readyz")
	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.Equal(t, "warming up", body)

	status, body = get(t, base+"/metrics")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, `menued_test_total{op="ping"} 1`)

	status, body = get(t, base+"/hello")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "hi", body)

	status, _ = get(t, base+"/missing")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestServeBadTLS(t *testing.T) {
	s := New(WithPort(0), WithTLS(TLSConfig{CertFile: "missing.pem", KeyFile: "missing.key"}))
	err := s.Serve(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load TLS certificate")
	assert.False(t, s.IsRunning())
}
