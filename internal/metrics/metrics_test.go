package metrics_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmbx/vmbx/internal/metrics"
)

func TestNewNodeRegisters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := metrics.NewNode(reg, "DEV_1")
	require.NoError(t, err)

	m.FramesReceived.Inc()
	m.FramesDropped.Add(2)
	m.SetStreaming(true)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FramesReceived))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.FramesDropped))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Streaming))
	m.SetStreaming(false)
	assert.Equal(t, 0.0, testutil.ToFloat64(m.Streaming))

	mfs, err := reg.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(mfs))
	for _, mf := range mfs {
		names = append(names, mf.GetName())
	}
	assert.ElementsMatch(t, []string{
		"vmbx_frames_received_total",
		"vmbx_frames_published_total",
		"vmbx_frames_dropped_total",
		"vmbx_subscribers",
		"vmbx_streaming",
	}, names)
}

func TestNewNodeDuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := metrics.NewNode(reg, "DEV_1")
	require.NoError(t, err)
	_, err = metrics.NewNode(reg, "DEV_1")
	assert.Error(t, err)

	_, err = metrics.NewNode(nil, "DEV_1")
	assert.NoError(t, err)
}
