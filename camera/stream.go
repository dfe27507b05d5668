package camera

import (
	"errors"

	"github.com/vmbx/vmbx/vmb"
)

// DefaultBufferCount is the number of frames announced when StartStreaming
// is given zero.
const DefaultBufferCount = 7

// FrameHandler receives completed frames on the SDK capture goroutine. The
// frame and its data are only valid until the handler returns.
type FrameHandler func(f *Frame)

// Frame is a completed SDK frame.
type Frame struct {
	api vmb.API
	raw *vmb.Frame
}

func (f *Frame) ID() uint64 { return f.raw.FrameID }
func (f *Frame) Timestamp() uint64 { return f.raw.Timestamp }
func (f *Frame) Width() uint32 { return f.raw.Width }
func (f *Frame) Height() uint32 { return f.raw.Height }
func (f *Frame) PixelFormat() vmb.PixelFormat { return f.raw.PixelFormat }
func (f *Frame) Status() vmb.FrameStatus { return f.raw.ReceiveStatus }
func (f *Frame) Complete() bool { return f.raw.ReceiveStatus == vmb.FrameStatusComplete }
func (f *Frame) Data() []byte { return f.raw.ImageData }
func (f *Frame) Step() uint32 { return Step(f.raw.PixelFormat, f.raw.Width) }
func (f *Frame) Encoding() (string, bool) { return Encoding(f.raw.PixelFormat) }
func (f *Frame) HasChunkData() bool { return f.raw.ChunkDataPresent }

// ChunkFeatures reads chunk values inside a Frame.ChunkData callback.
type ChunkFeatures struct {
	api    vmb.API
	handle vmb.Handle
}

func (cf ChunkFeatures) IntGet(name string) (int64, error) {
	var v int64
	err := check("FeatureIntGet", name, cf.api.FeatureIntGet(cf.handle, name, &v))
	return v, err
}

func (cf ChunkFeatures) FloatGet(name string) (float64, error) {
	var v float64
	err := check("FeatureFloatGet", name, cf.api.FeatureFloatGet(cf.handle, name, &v))
	return v, err
}

// ChunkData runs fn with access to the chunk values of the frame.
func (f *Frame) ChunkData(fn func(ChunkFeatures) error) error {
	var inner error
	code := f.api.ChunkDataAccess(f.raw, func(h vmb.Handle, _ any) vmb.Error {
		inner = fn(ChunkFeatures{api: f.api, handle: h})
		if inner != nil {
			return vmb.ErrorUserCallbackException
		}
		return vmb.ErrorSuccess
	}, nil)
	if inner != nil {
		return inner
	}
	return check("ChunkDataAccess", "", code)
}

// IsStreaming reports whether StartStreaming succeeded and StopStreaming
// has not been called since.
func (c *Camera) IsStreaming() bool { return c.streaming.Load() }

// StartStreaming announces bufferCount frames of the current payload size,
// starts the capture engine and acquisition. Every completed frame is passed
// to handler and queued again afterwards.
func (c *Camera) StartStreaming(bufferCount int, handler FrameHandler) error {
	if c.closed.Load() {
		return ErrClosed
	}
	c.streamMu.Lock()
	defer c.streamMu.Unlock()
	if c.streaming.Load() {
		return ErrAlreadyStreaming
	}
	if bufferCount <= 0 {
		bufferCount = DefaultBufferCount
	}

	var payload uint32
	if err := check("PayloadSizeGet", "", c.api.PayloadSizeGet(c.handle, &payload)); err != nil {
		return err
	}
	c.handler = handler
	c.frames = make([]*vmb.Frame, 0, bufferCount)
	for i := 0; i < bufferCount; i++ {
		f := &vmb.Frame{Buffer: make([]byte, payload)}
		if err := check("FrameAnnounce", "", c.api.FrameAnnounce(c.handle, f)); err != nil {
			c.teardown()
			return err
		}
		c.frames = append(c.frames, f)
	}
	if err := check("CaptureStart", "", c.api.CaptureStart(c.handle)); err != nil {
		c.teardown()
		return err
	}
	c.streaming.Store(true)
	for _, f := range c.frames {
		if err := check("CaptureFrameQueue", "", c.api.CaptureFrameQueue(c.handle, f, c.onFrame)); err != nil {
			c.streaming.Store(false)
			c.teardown()
			return err
		}
	}
	if err := check("FeatureCommandRun", "AcquisitionStart", c.api.FeatureCommandRun(c.handle, "AcquisitionStart")); err != nil {
		c.streaming.Store(false)
		c.teardown()
		return err
	}
	c.logger.Info("streaming started", "buffers", bufferCount, "payload", payload)
	return nil
}

// StopStreaming stops acquisition and releases all frames. It must not be
// called from a FrameHandler.
func (c *Camera) StopStreaming() error {
	c.streamMu.Lock()
	defer c.streamMu.Unlock()
	if !c.streaming.Swap(false) {
		return ErrNotStreaming
	}
	err := errors.Join(
		check("FeatureCommandRun", "AcquisitionStop", c.api.FeatureCommandRun(c.handle, "AcquisitionStop")),
		c.teardown(),
	)
	c.logger.Info("streaming stopped")
	return err
}

// teardown ends capture and revokes every frame. Callers hold streamMu.
func (c *Camera) teardown() error {
	err := errors.Join(
		check("CaptureEnd", "", c.api.CaptureEnd(c.handle)),
		check("CaptureQueueFlush", "", c.api.CaptureQueueFlush(c.handle)),
		check("FrameRevokeAll", "", c.api.FrameRevokeAll(c.handle)),
	)
	c.frames = nil
	return err
}

func (c *Camera) onFrame(_ vmb.Handle, _ vmb.Handle, raw *vmb.Frame) {
	if !c.streaming.Load() {
		return
	}
	if raw.ReceiveStatus == vmb.FrameStatusComplete && c.handler != nil {
		c.handler(&Frame{api: c.api, raw: raw})
	} else if raw.ReceiveStatus != vmb.FrameStatusComplete {
		c.logger.Debug("incomplete frame", "id", raw.FrameID, "status", raw.ReceiveStatus)
	}
	if !c.streaming.Load() {
		return
	}
	if code := c.api.CaptureFrameQueue(c.handle, raw, c.onFrame); code != vmb.ErrorSuccess {
		c.logger.Debug("requeue failed", "id", raw.FrameID, "error", code)
	}
}
