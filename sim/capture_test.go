package sim_test

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmbx/vmbx/sim"
	"github.com/vmbx/vmbx/vmb"
)

func announce(t *testing.T, sys *sim.System, h vmb.Handle, n int) []*vmb.Frame {
	t.Helper()
	var size uint32
	require.Equal(t, vmb.ErrorSuccess, sys.PayloadSizeGet(h, &size))
	frames := make([]*vmb.Frame, n)
	for i := range frames {
		frames[i] = &vmb.Frame{Buffer: make([]byte, size)}
		require.Equal(t, vmb.ErrorSuccess, sys.FrameAnnounce(h, frames[i]))
	}
	return frames
}

func smallGeometry(t *testing.T, sys *sim.System, h vmb.Handle) {
	t.Helper()
	require.Equal(t, vmb.ErrorSuccess, sys.FeatureIntSet(h, "Width", 64))
	require.Equal(t, vmb.ErrorSuccess, sys.FeatureIntSet(h, "Height", 32))
}

func TestAnnounceChecksBufferSize(t *testing.T) {
	sys, h := openCamera(t, "mono")
	smallGeometry(t, sys, h)

	assert.Equal(t, vmb.ErrorBadParameter, sys.FrameAnnounce(h, &vmb.Frame{Buffer: make([]byte, 10)}))
	assert.Equal(t, vmb.ErrorBadParameter, sys.FrameAnnounce(h, nil))

	f := &vmb.Frame{Buffer: make([]byte, 64*32)}
	require.Equal(t, vmb.ErrorSuccess, sys.FrameAnnounce(h, f))
	assert.Equal(t, vmb.ErrorAlready, sys.FrameAnnounce(h, f))
	require.Equal(t, vmb.ErrorSuccess, sys.FrameRevoke(h, f))
	assert.Equal(t, vmb.ErrorBadParameter, sys.FrameRevoke(h, f))
}

func TestQueueRequiresCapture(t *testing.T) {
	sys, h := openCamera(t, "mono")
	smallGeometry(t, sys, h)
	frames := announce(t, sys, h, 1)

	assert.Equal(t, vmb.ErrorInvalidCall, sys.CaptureFrameQueue(h, frames[0], nil))
	require.Equal(t, vmb.ErrorSuccess, sys.CaptureStart(h))
	assert.Equal(t, vmb.ErrorInvalidCall, sys.CaptureStart(h))
	require.Equal(t, vmb.ErrorSuccess, sys.CaptureFrameQueue(h, frames[0], nil))
	assert.Equal(t, vmb.ErrorInvalidCall, sys.CaptureFrameQueue(h, frames[0], nil), "already queued")
	assert.Equal(t, vmb.ErrorInUse, sys.FrameRevoke(h, frames[0]))
	assert.Equal(t, vmb.ErrorBadParameter, sys.CaptureFrameQueue(h, &vmb.Frame{}, nil))
}

func TestSoftwareTriggerFillsFrame(t *testing.T) {
	sys, h := openCamera(t, "mono")
	smallGeometry(t, sys, h)
	frames := announce(t, sys, h, 1)
	require.Equal(t, vmb.ErrorSuccess, sys.CaptureStart(h))
	require.Equal(t, vmb.ErrorSuccess, sys.CaptureFrameQueue(h, frames[0], nil))

	require.Equal(t, vmb.ErrorSuccess, sys.FeatureCommandRun(h, "TriggerSoftware"))
	require.Equal(t, vmb.ErrorSuccess, sys.CaptureFrameWait(h, frames[0], 100))

	f := frames[0]
	assert.Equal(t, vmb.FrameStatusComplete, f.ReceiveStatus)
	assert.EqualValues(t, 1, f.FrameID)
	assert.EqualValues(t, 64, f.Width)
	assert.EqualValues(t, 32, f.Height)
	assert.Equal(t, vmb.PixelFormatMono8, f.PixelFormat)
	assert.Len(t, f.ImageData, 64*32)
	assert.True(t, f.ReceiveFlags.Has(vmb.FrameFlagsImageData|vmb.FrameFlagsFrameID))
	assert.False(t, f.ChunkDataPresent)
	assert.EqualValues(t, 1, f.ImageData[0], "pattern starts at the frame id")
	assert.EqualValues(t, 1+63+31, f.ImageData[64*32-1])
}

func TestWaitTimesOut(t *testing.T) {
	sys, h := openCamera(t, "mono")
	smallGeometry(t, sys, h)
	frames := announce(t, sys, h, 1)
	require.Equal(t, vmb.ErrorSuccess, sys.CaptureStart(h))

	assert.Equal(t, vmb.ErrorInvalidCall, sys.CaptureFrameWait(h, frames[0], 10), "never queued")
	require.Equal(t, vmb.ErrorSuccess, sys.CaptureFrameQueue(h, frames[0], nil))
	assert.Equal(t, vmb.ErrorTimeout, sys.CaptureFrameWait(h, frames[0], 20))
}

func TestAcquisitionDeliversToCallbacks(t *testing.T) {
	sys, h := openCamera(t, "mono")
	smallGeometry(t, sys, h)
	require.Equal(t, vmb.ErrorSuccess, sys.FeatureFloatSet(h, "AcquisitionFrameRate", 500))
	frames := announce(t, sys, h, 3)
	require.Equal(t, vmb.ErrorSuccess, sys.CaptureStart(h))

	var count atomic.Int32
	var lastID atomic.Uint64
	var cb vmb.FrameCallback
	cb = func(cam, stream vmb.Handle, f *vmb.Frame) {
		assert.Equal(t, h, cam)
		assert.NotEqual(t, cam, stream)
		if prev := lastID.Swap(f.FrameID); prev >= f.FrameID {
			t.Errorf("frame ids not increasing: %d then %d", prev, f.FrameID)
		}
		count.Add(1)
		sys.CaptureFrameQueue(h, f, cb)
	}
	for _, f := range frames {
		require.Equal(t, vmb.ErrorSuccess, sys.CaptureFrameQueue(h, f, cb))
	}
	require.Equal(t, vmb.ErrorSuccess, sys.FeatureCommandRun(h, "AcquisitionStart"))
	require.Eventually(t, func() bool { return count.Load() >= 10 }, 2*time.Second, 5*time.Millisecond)

	require.Equal(t, vmb.ErrorSuccess, sys.FeatureCommandRun(h, "AcquisitionStop"))
	require.Equal(t, vmb.ErrorSuccess, sys.CaptureEnd(h))
	require.Equal(t, vmb.ErrorSuccess, sys.CaptureQueueFlush(h))
	require.Equal(t, vmb.ErrorSuccess, sys.FrameRevokeAll(h))

	after := count.Load()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, after, count.Load(), "no callbacks after capture end")
}

func TestDroppedWithoutQueuedFrames(t *testing.T) {
	sys, h := openCamera(t, "mono")
	smallGeometry(t, sys, h)
	require.Equal(t, vmb.ErrorSuccess, sys.CaptureStart(h))

	for i := 0; i < 3; i++ {
		require.Equal(t, vmb.ErrorSuccess, sys.FeatureCommandRun(h, "TriggerSoftware"))
	}
	assert.EqualValues(t, 3, sys.DroppedFrames("DEV_1"))
	assert.Zero(t, sys.DroppedFrames("DEV_X"))
}

func TestFlushDropsQueuedFrames(t *testing.T) {
	sys, h := openCamera(t, "mono")
	smallGeometry(t, sys, h)
	frames := announce(t, sys, h, 2)
	require.Equal(t, vmb.ErrorSuccess, sys.CaptureStart(h))

	called := false
	for _, f := range frames {
		require.Equal(t, vmb.ErrorSuccess, sys.CaptureFrameQueue(h, f, func(vmb.Handle, vmb.Handle, *vmb.Frame) { called = true }))
	}
	require.Equal(t, vmb.ErrorSuccess, sys.CaptureQueueFlush(h))
	require.Equal(t, vmb.ErrorSuccess, sys.FeatureCommandRun(h, "TriggerSoftware"))

	assert.False(t, called)
	for _, f := range frames {
		assert.Equal(t, vmb.FrameStatusInvalid, f.ReceiveStatus)
		assert.Equal(t, vmb.ErrorSuccess, sys.FrameRevoke(h, f))
	}
}

func TestPayloadFollowsPixelFormat(t *testing.T) {
	sys, h := openCamera(t, "color")
	smallGeometry(t, sys, h)
	require.Equal(t, vmb.ErrorSuccess, sys.FeatureEnumSet(h, "PixelFormat", "BayerRG12"))
	frames := announce(t, sys, h, 1)
	assert.Len(t, frames[0].Buffer, 64*32*2)

	require.Equal(t, vmb.ErrorSuccess, sys.CaptureStart(h))
	require.Equal(t, vmb.ErrorSuccess, sys.CaptureFrameQueue(h, frames[0], nil))
	require.Equal(t, vmb.ErrorSuccess, sys.FeatureCommandRun(h, "TriggerSoftware"))
	require.Equal(t, vmb.ErrorSuccess, sys.CaptureFrameWait(h, frames[0], 100))
	assert.Equal(t, vmb.PixelFormatBayerRG12, frames[0].PixelFormat)
	assert.Len(t, frames[0].ImageData, 64*32*2)
}

func TestChunkData(t *testing.T) {
	sys, h := openCamera(t, "mono")
	smallGeometry(t, sys, h)
	frames := announce(t, sys, h, 1)
	require.Equal(t, vmb.ErrorSuccess, sys.CaptureStart(h))

	grab := func() *vmb.Frame {
		require.Equal(t, vmb.ErrorSuccess, sys.CaptureFrameQueue(h, frames[0], nil))
		require.Equal(t, vmb.ErrorSuccess, sys.FeatureCommandRun(h, "TriggerSoftware"))
		require.Equal(t, vmb.ErrorSuccess, sys.CaptureFrameWait(h, frames[0], 100))
		return frames[0]
	}

	f := grab()
	noop := func(vmb.Handle, any) vmb.Error { return vmb.ErrorSuccess }
	assert.Equal(t, vmb.ErrorNoChunkData, sys.ChunkDataAccess(f, noop, nil))

	require.Equal(t, vmb.ErrorSuccess, sys.FeatureBoolSet(h, "ChunkModeActive", true))
	f = grab()
	require.True(t, f.ChunkDataPresent)
	require.True(t, f.ReceiveFlags.Has(vmb.FrameFlagsChunkDataPresent))

	var chunkHandle vmb.Handle
	err := sys.ChunkDataAccess(f, func(ch vmb.Handle, ctx any) vmb.Error {
		chunkHandle = ch
		assert.Equal(t, "user", ctx)
		var id int64
		var exp float64
		assert.Equal(t, vmb.ErrorSuccess, sys.FeatureIntGet(ch, "ChunkFrameID", &id))
		assert.Equal(t, vmb.ErrorSuccess, sys.FeatureFloatGet(ch, "ChunkExposureTime", &exp))
		assert.EqualValues(t, f.FrameID, id)
		assert.Equal(t, 5000.0, exp)
		assert.Equal(t, vmb.ErrorInvalidAccess, sys.FeatureIntSet(ch, "ChunkFrameID", 1))
		return vmb.ErrorCustom - 1
	}, "user")
	assert.Equal(t, vmb.ErrorCustom-1, err, "callback result is returned")

	var id int64
	assert.Equal(t, vmb.ErrorBadHandle, sys.FeatureIntGet(chunkHandle, "ChunkFrameID", &id), "chunk handle expires")
}
