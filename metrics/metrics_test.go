package metrics

import (
	"context"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viant/taskpool/stats"
)

// TestCollector_Collect checks that a scrape reflects the tracker counters.
func TestCollector_Collect(t *testing.T) {
	tracker := &stats.Stats{Pool: "test"}
	tracker.Update(stats.Delta{Submitted: 5, Completed: 3, Failed: 1, Queued: 1, Workers: 2})

	registry := prometheus.NewRegistry()
	require.NoError(t, registry.Register(NewCollector(tracker)))

	families, err := registry.Gather()
	require.NoError(t, err)

	values := map[string]float64{}
	labels := map[string]string{}
	for _, family := range families {
		for _, metric := range family.GetMetric() {
			switch {
			case metric.GetGauge() != nil:
				values[family.GetName()] = metric.GetGauge().GetValue()
			case metric.GetCounter() != nil:
				values[family.GetName()] = metric.GetCounter().GetValue()
			}
			for _, label := range metric.GetLabel() {
				labels[label.GetName()] = label.GetValue()
			}
		}
	}

	assert.Equal(t, float64(2), values["taskpool_workers"])
	assert.Equal(t, float64(1), values["taskpool_queued_tasks"])
	assert.Equal(t, float64(0), values["taskpool_running_tasks"])
	assert.Equal(t, float64(5), values["taskpool_submitted_tasks_total"])
	assert.Equal(t, float64(3), values["taskpool_completed_tasks_total"])
	assert.Equal(t, float64(1), values["taskpool_failed_tasks_total"])
	assert.Equal(t, float64(0), values["taskpool_abandoned_tasks_total"])
	assert.Equal(t, "test", labels["pool"])
}

// TestServe exposes a registry over HTTP and verifies both the scrape body
// and the shutdown on context cancellation.
func TestServe(t *testing.T) {
	tracker := &stats.Stats{Pool: "test"}
	tracker.Update(stats.Delta{Submitted: 2, Completed: 2})
	registry := NewRegistry(tracker)

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	address := listener.Addr().String()
	require.NoError(t, listener.Close())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	served := make(chan error, 1)
	go func() {
		served <- Serve(ctx, address, registry)
	}()

	var body string
	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + address + "/metrics")
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		data, err := io.ReadAll(resp.Body)
		if err != nil || resp.StatusCode != http.StatusOK {
			return false
		}
		body = string(data)
		return true
	}, 2*time.Second, 20*time.Millisecond)

	assert.Contains(t, body, `taskpool_submitted_tasks_total{pool="test"} 2`)
	assert.Contains(t, body, `taskpool_workers{pool="test"} 0`)

	cancel()
	select {
	case err := <-served:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("serve did not stop after cancellation")
	}
}

// TestServe_BadAddress verifies that a listen failure is returned.
func TestServe_BadAddress(t *testing.T) {
	registry := prometheus.NewRegistry()
	err := Serve(context.Background(), "256.256.256.256:0", registry)
	assert.Error(t, err)
}
