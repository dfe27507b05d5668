// Package metrics holds the Prometheus collectors exported by the camera node.
package metrics

import "github.com/prometheus/client_golang/prometheus"

const namespace = "vmbx"

// Node groups the collectors updated by internal/node.
type Node struct {
	FramesReceived  prometheus.Counter
	FramesPublished prometheus.Counter
	FramesDropped   prometheus.Counter
	Subscribers     prometheus.Gauge
	Streaming       prometheus.Gauge
}

// NewNode creates the node collectors and registers them on reg. A nil reg
// leaves them unregistered.
func NewNode(reg prometheus.Registerer, cameraID string) (*Node, error) {
	labels := prometheus.Labels{"camera": cameraID}
	m := &Node{
		FramesReceived: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "frames_received_total",
			Help:        "Complete frames delivered by the camera.",
			ConstLabels: labels,
		}),
		FramesPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "frames_published_total",
			Help:        "Images handed to subscribers.",
			ConstLabels: labels,
		}),
		FramesDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "frames_dropped_total",
			Help:        "Images discarded because a subscriber queue was full.",
			ConstLabels: labels,
		}),
		Subscribers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   namespace,
			Name:        "subscribers",
			Help:        "Current number of image subscribers.",
			ConstLabels: labels,
		}),
		Streaming: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   namespace,
			Name:        "streaming",
			Help:        "1 while the camera is streaming.",
			ConstLabels: labels,
		}),
	}
	if reg == nil {
		return m, nil
	}
	for _, c := range []prometheus.Collector{
		m.FramesReceived, m.FramesPublished, m.FramesDropped, m.Subscribers, m.Streaming,
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// SetStreaming records the stream state.
func (m *Node) SetStreaming(on bool) {
	if on {
		m.Streaming.Set(1)
		return
	}
	m.Streaming.Set(0)
}
