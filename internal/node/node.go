// Package node publishes the frames of one camera to image subscribers and
// drives the stream from subscriber demand or explicit start/stop requests.
package node

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/vmbx/vmbx/camera"
	"github.com/vmbx/vmbx/internal/metrics"
)

// ErrClosed is returned by operations on a closed node.
var ErrClosed = errors.New("node closed")

// Config represents the node options of the server subcommand.
type Config struct {
	CameraID     string `help:"Camera to open by id, serial or extended id; empty opens the first one" env:"VMBX_CAMERA_ID"`
	Autostart    bool   `help:"Start streaming with the first image subscriber and stop after the last one leaves" default:"true" negatable:"" env:"VMBX_AUTOSTART"`
	BufferCount  int    `help:"Frames announced to the SDK while streaming" default:"7" env:"VMBX_BUFFER_COUNT"`
	QueueDepth   int    `help:"Images buffered per subscriber before new ones are dropped" default:"4" env:"VMBX_QUEUE_DEPTH"`
	SettingsFile string `help:"Camera settings file loaded at startup" type:"path" env:"VMBX_SETTINGS_FILE"`
}

// Image is one published frame. Data is shared between subscribers and must
// be treated as read-only.
type Image struct {
	FrameID   uint64
	Timestamp uint64
	Width     uint32
	Height    uint32
	Encoding  string
	Step      uint32
	Data      []byte
}

// Status is a snapshot of the node state.
type Status struct {
	Streaming   bool
	CameraID    string
	Subscribers int
}

// Subscription receives images until it is closed.
type Subscription struct {
	id      string
	ch      chan Image
	dropped atomic.Uint64
	node    *Node
}

// ID returns the unique subscription id.
func (s *Subscription) ID() string { return s.id }

// C returns the image channel. It is closed when the subscription ends.
func (s *Subscription) C() <-chan Image { return s.ch }

// Dropped returns how many images were discarded because C was full.
func (s *Subscription) Dropped() uint64 { return s.dropped.Load() }

// Close ends the subscription.
func (s *Subscription) Close() error { return s.node.Unsubscribe(s.id) }

// Node owns a camera and fans its frames out to subscribers.
type Node struct {
	cam     *camera.Camera
	cfg     Config
	logger  *slog.Logger
	metrics *metrics.Node

	// streamMu serializes stream transitions. Frame callbacks only take
	// subsMu so stopping the stream never waits on a lock they need.
	streamMu sync.Mutex
	subsMu   sync.RWMutex
	subs     map[string]*Subscription
	closed   bool
}

// New creates a node around an open camera. The node takes ownership of cam.
// Metrics are registered on reg when it is non-nil.
func New(cam *camera.Camera, cfg Config, reg prometheus.Registerer, logger *slog.Logger) (*Node, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.QueueDepth <= 0 {
		cfg.QueueDepth = 1
	}
	m, err := metrics.NewNode(reg, cam.ID())
	if err != nil {
		return nil, fmt.Errorf("register metrics: %w", err)
	}
	n := &Node{
		cam:     cam,
		cfg:     cfg,
		logger:  logger.With("camera", cam.ID()),
		metrics: m,
		subs:    make(map[string]*Subscription),
	}
	if cfg.SettingsFile != "" {
		if err := cam.SettingsLoad(cfg.SettingsFile); err != nil {
			return nil, fmt.Errorf("load settings %s: %w", cfg.SettingsFile, err)
		}
		n.logger.Info("settings loaded", "file", cfg.SettingsFile)
	}
	return n, nil
}

// Camera returns the camera driven by the node.
func (n *Node) Camera() *camera.Camera { return n.cam }

// Metrics returns the node collectors.
func (n *Node) Metrics() *metrics.Node { return n.metrics }

// Status reports the current stream state and subscriber count.
func (n *Node) Status() Status {
	n.subsMu.RLock()
	defer n.subsMu.RUnlock()
	return Status{
		Streaming:   n.cam.IsStreaming(),
		CameraID:    n.cam.ID(),
		Subscribers: len(n.subs),
	}
}

// Subscribe registers a new image subscriber. With autostart enabled the
// first subscriber starts the stream; a failed start removes the subscriber
// again and returns the error.
func (n *Node) Subscribe() (*Subscription, error) {
	n.subsMu.Lock()
	if n.closed {
		n.subsMu.Unlock()
		return nil, ErrClosed
	}
	s := &Subscription{
		id:   uuid.NewString(),
		ch:   make(chan Image, n.cfg.QueueDepth),
		node: n,
	}
	n.subs[s.id] = s
	n.metrics.Subscribers.Set(float64(len(n.subs)))
	n.subsMu.Unlock()
	n.logger.Debug("subscriber added", "id", s.id)

	if n.cfg.Autostart {
		if err := n.reconcile(); err != nil {
			_ = n.Unsubscribe(s.id)
			return nil, err
		}
	}
	return s, nil
}

// Unsubscribe removes the subscriber with the given id and closes its
// channel. With autostart enabled the last subscriber leaving stops the
// stream.
func (n *Node) Unsubscribe(id string) error {
	n.subsMu.Lock()
	s, ok := n.subs[id]
	if !ok {
		n.subsMu.Unlock()
		return fmt.Errorf("subscriber %s not found", id)
	}
	delete(n.subs, id)
	close(s.ch)
	n.metrics.Subscribers.Set(float64(len(n.subs)))
	n.subsMu.Unlock()
	n.logger.Debug("subscriber removed", "id", id, "dropped", s.Dropped())

	if n.cfg.Autostart {
		return n.reconcile()
	}
	return nil
}

// StreamStart starts streaming regardless of subscribers.
func (n *Node) StreamStart() error {
	n.streamMu.Lock()
	defer n.streamMu.Unlock()
	return n.startLocked()
}

// StreamStop stops streaming regardless of subscribers.
func (n *Node) StreamStop() error {
	n.streamMu.Lock()
	defer n.streamMu.Unlock()
	return n.stopLocked()
}

// reconcile brings the stream in line with subscriber demand.
func (n *Node) reconcile() error {
	n.streamMu.Lock()
	defer n.streamMu.Unlock()
	n.subsMu.RLock()
	want := len(n.subs) > 0 && !n.closed
	n.subsMu.RUnlock()
	switch {
	case want && !n.cam.IsStreaming():
		return n.startLocked()
	case !want && n.cam.IsStreaming():
		return n.stopLocked()
	}
	return nil
}

func (n *Node) startLocked() error {
	if err := n.cam.StartStreaming(n.cfg.BufferCount, n.onFrame); err != nil {
		return err
	}
	n.metrics.SetStreaming(true)
	return nil
}

func (n *Node) stopLocked() error {
	err := n.cam.StopStreaming()
	n.metrics.SetStreaming(false)
	return err
}

func (n *Node) onFrame(f *camera.Frame) {
	n.metrics.FramesReceived.Inc()
	enc, ok := f.Encoding()
	if !ok {
		n.logger.Debug("unsupported pixel format", "format", f.PixelFormat())
		return
	}

	n.subsMu.RLock()
	defer n.subsMu.RUnlock()
	if len(n.subs) == 0 {
		return
	}
	img := Image{
		FrameID:   f.ID(),
		Timestamp: f.Timestamp(),
		Width:     f.Width(),
		Height:    f.Height(),
		Encoding:  enc,
		Step:      f.Step(),
		Data:      bytes.Clone(f.Data()),
	}
	for _, s := range n.subs {
		select {
		case s.ch <- img:
			n.metrics.FramesPublished.Inc()
		default:
			s.dropped.Add(1)
			n.metrics.FramesDropped.Inc()
		}
	}
}

// Close stops streaming, ends all subscriptions and closes the camera.
func (n *Node) Close() error {
	n.subsMu.Lock()
	if n.closed {
		n.subsMu.Unlock()
		return nil
	}
	n.closed = true
	for id, s := range n.subs {
		delete(n.subs, id)
		close(s.ch)
	}
	n.metrics.Subscribers.Set(0)
	n.subsMu.Unlock()

	var errs []error
	n.streamMu.Lock()
	if n.cam.IsStreaming() {
		errs = append(errs, n.stopLocked())
	}
	n.streamMu.Unlock()
	errs = append(errs, n.cam.Close())
	return errors.Join(errs...)
}
