// Package camera is the driver layer on top of vmb.API: opening a camera,
// typed feature access with Go errors, streaming with buffer recycling and
// the PFNC to ROS encoding table.
package camera

import (
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/vmbx/vmbx/vmb"
)

// Camera is an open device session.
type Camera struct {
	api    vmb.API
	logger *slog.Logger
	handle vmb.Handle
	info   vmb.CameraInfo
	closed atomic.Bool

	streamMu  sync.Mutex
	streaming atomic.Bool
	frames    []*vmb.Frame
	handler   FrameHandler

	listenersMu sync.Mutex
	listeners   map[string]map[uint64]func(name string)
	nextID      uint64
}

// Open opens the camera with the given id in full access mode. An empty id
// opens the first camera the SDK reports.
func Open(api vmb.API, id string, logger *slog.Logger) (*Camera, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if id == "" {
		var n uint32
		if err := check("CamerasList", "", api.CamerasList(nil, &n)); err != nil {
			return nil, err
		}
		if n == 0 {
			return nil, ErrNoCamera
		}
		infos := make([]vmb.CameraInfo, n)
		if code := api.CamerasList(infos, &n); code != vmb.ErrorSuccess && code != vmb.ErrorMoreData {
			return nil, check("CamerasList", "", code)
		}
		id = infos[0].IDString
	}

	var h vmb.Handle
	if err := check("CameraOpen", id, api.CameraOpen(id, vmb.AccessModeFull, &h)); err != nil {
		return nil, err
	}
	c := &Camera{
		api:       api,
		logger:    logger.With("camera", id),
		handle:    h,
		listeners: make(map[string]map[uint64]func(string)),
	}
	if err := check("CameraInfoQueryByHandle", "", api.CameraInfoQueryByHandle(h, &c.info)); err != nil {
		_ = api.CameraClose(h)
		return nil, err
	}
	c.logger.Info("camera opened", "model", c.info.ModelName, "serial", c.info.SerialString)
	return c, nil
}

// Close stops streaming, drops invalidation listeners and closes the device.
func (c *Camera) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}
	var errs []error
	if c.IsStreaming() {
		errs = append(errs, c.StopStreaming())
	}

	c.listenersMu.Lock()
	for name := range c.listeners {
		errs = append(errs, check("FeatureInvalidationUnregister", name,
			c.api.FeatureInvalidationUnregister(c.handle, name, c.dispatchInvalidation)))
	}
	c.listeners = make(map[string]map[uint64]func(string))
	c.listenersMu.Unlock()

	errs = append(errs, check("CameraClose", "", c.api.CameraClose(c.handle)))
	c.logger.Info("camera closed")
	return errors.Join(errs...)
}

// Handle returns the SDK handle of the session.
func (c *Camera) Handle() vmb.Handle { return c.handle }

// ID returns the camera id string.
func (c *Camera) ID() string { return c.info.IDString }

// Info returns the camera info captured at open time.
func (c *Camera) Info() vmb.CameraInfo { return c.info }

func (c *Camera) dispatchInvalidation(_ vmb.Handle, name string, _ any) {
	c.listenersMu.Lock()
	fns := make([]func(string), 0, len(c.listeners[name]))
	for _, fn := range c.listeners[name] {
		fns = append(fns, fn)
	}
	c.listenersMu.Unlock()
	for _, fn := range fns {
		fn(name)
	}
}

// OnInvalidation calls fn whenever the SDK reports that the value or access
// of feature name may have changed. The returned function removes fn.
func (c *Camera) OnInvalidation(name string, fn func(name string)) (func() error, error) {
	c.listenersMu.Lock()
	defer c.listenersMu.Unlock()
	set, ok := c.listeners[name]
	if !ok {
		err := check("FeatureInvalidationRegister", name,
			c.api.FeatureInvalidationRegister(c.handle, name, c.dispatchInvalidation, nil))
		if err != nil {
			return nil, err
		}
		set = make(map[uint64]func(string))
		c.listeners[name] = set
	}
	c.nextID++
	id := c.nextID
	set[id] = fn

	return func() error {
		c.listenersMu.Lock()
		defer c.listenersMu.Unlock()
		set, ok := c.listeners[name]
		if !ok {
			return nil
		}
		delete(set, id)
		if len(set) > 0 {
			return nil
		}
		delete(c.listeners, name)
		return check("FeatureInvalidationUnregister", name,
			c.api.FeatureInvalidationUnregister(c.handle, name, c.dispatchInvalidation))
	}, nil
}

// SettingsSave persists the streamable feature values to path.
func (c *Camera) SettingsSave(path string) error {
	settings := vmb.FeaturePersistSettings{
		PersistType:        vmb.PersistStreamable,
		ModulePersistFlags: vmb.ModulePersistRemoteDevice,
		MaxIterations:      5,
	}
	return check("SettingsSave", path, c.api.SettingsSave(c.handle, path, &settings))
}

// SettingsLoad applies a file written by SettingsSave.
func (c *Camera) SettingsLoad(path string) error {
	settings := vmb.FeaturePersistSettings{
		PersistType:        vmb.PersistStreamable,
		ModulePersistFlags: vmb.ModulePersistRemoteDevice,
		MaxIterations:      5,
	}
	return check("SettingsLoad", path, c.api.SettingsLoad(c.handle, path, &settings))
}

// MemoryRead reads n bytes of device memory starting at address.
func (c *Camera) MemoryRead(address uint64, n int) ([]byte, error) {
	buf := make([]byte, n)
	var done uint32
	if err := check("MemoryRead", "", c.api.MemoryRead(c.handle, address, buf, &done)); err != nil {
		return nil, err
	}
	return buf[:done], nil
}

// MemoryWrite writes data to device memory at address and returns the number
// of bytes written.
func (c *Camera) MemoryWrite(address uint64, data []byte) (int, error) {
	var done uint32
	err := check("MemoryWrite", "", c.api.MemoryWrite(c.handle, address, data, &done))
	return int(done), err
}
