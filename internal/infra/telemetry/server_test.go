package telemetry

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestStartHTTPServer_BlankAddrDisablesListener(t *testing.T) {
	err := StartHTTPServer(context.Background(), HTTPServerOptions{}, zap.NewNop())
	require.NoError(t, err)
}

func TestStartHTTPServer_ServesMetricsAndHealthz(t *testing.T) {
	listener := mustListen(t)
	port := listener.Addr().(*net.TCPAddr).Port
	listener.Close()

	registry := prometheus.NewRegistry()
	metrics := NewPrometheusMetrics(registry)
	metrics.ObserveToolCall("rag.query", 12*time.Millisecond, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errChan := make(chan error, 1)
	go func() {
		errChan <- StartHTTPServer(ctx, HTTPServerOptions{
			Addr:     fmt.Sprintf("127.0.0.1:%d", port),
			Registry: registry,
		}, zap.NewNop())
	}()

	metricsURL := fmt.Sprintf("http://127.0.0.1:%d/metrics", port)
	waitForHTTPStatus(t, metricsURL, http.StatusOK)

	resp, err := http.Get(metricsURL)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Contains(t, string(body), "ragmcp_tool_call_duration_seconds")

	resp, err = http.Get(fmt.Sprintf("http://127.0.0.1:%d/healthz", port))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var report map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&report))
	assert.Equal(t, "ok", report["status"])
	assert.NotEmpty(t, report["version"])

	cancel()
	select {
	case err := <-errChan:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("server did not stop in time")
	}
}

func TestStartHTTPServer_PortInUse(t *testing.T) {
	listener := mustListen(t)
	defer listener.Close()
	port := listener.Addr().(*net.TCPAddr).Port

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	err := StartHTTPServer(ctx, HTTPServerOptions{
		Addr: fmt.Sprintf("127.0.0.1:%d", port),
	}, zap.NewNop())
	require.Error(t, err)
}

func mustListen(t *testing.T) net.Listener {
	t.Helper()
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Skipf("skip test due to listen error: %v", err)
	}
	return listener
}

func waitForHTTPStatus(t *testing.T, url string, status int) {
	t.Helper()
	require.Eventually(t, func() bool {
		resp, err := http.Get(url)
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		return resp.StatusCode == status
	}, 2*time.Second, 25*time.Millisecond)
}
