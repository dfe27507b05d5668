package camera_test

import (
	"context"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmbx/vmbx/camera"
	"github.com/vmbx/vmbx/sim"
	"github.com/vmbx/vmbx/vmb"
)

func openSim(t *testing.T, model string) *camera.Camera {
	t.Helper()
	sys, err := sim.New(sim.Config{Cameras: []string{model + ":DEV_SIM"}}, nil)
	require.NoError(t, err)
	require.Equal(t, vmb.ErrorSuccess, sys.Startup(""))
	t.Cleanup(sys.Shutdown)

	cam, err := camera.Open(sys, "", nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = cam.Close() })
	require.NoError(t, cam.IntSet("Width", 64))
	require.NoError(t, cam.IntSet("Height", 48))
	require.NoError(t, cam.FloatSet("AcquisitionFrameRate", 200))
	return cam
}

func TestSimFeatureHelpers(t *testing.T) {
	cam := openSim(t, "color")
	assert.Equal(t, "DEV_SIM", cam.ID())

	features, err := cam.Features()
	require.NoError(t, err)
	assert.NotEmpty(t, features)

	info, err := cam.IntInfo("Width")
	require.NoError(t, err)
	assert.Equal(t, camera.IntInfo{Min: 8, Max: 1936, Increment: 8}, info)

	valid, err := cam.IntValidValues("BinningHorizontal")
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 4}, valid)
	_, err = cam.IntValidValues("Width")
	assert.ErrorIs(t, err, vmb.ErrorValidValueSetNotPresent)

	fi, err := cam.FloatInfo("Gain")
	require.NoError(t, err)
	assert.True(t, fi.HasIncrement)

	require.NoError(t, cam.EnumSet("PixelFormat", "BayerGB8"))
	pf, err := cam.PixelFormat()
	require.NoError(t, err)
	assert.Equal(t, vmb.PixelFormatBayerGB8, pf)
	name, err := cam.EnumAsString("PixelFormat", int64(vmb.PixelFormatRGB8))
	require.NoError(t, err)
	assert.Equal(t, "RGB8", name)

	require.NoError(t, cam.StringSet("DeviceUserID", "rear"))
	s, err := cam.StringGet("DeviceUserID")
	require.NoError(t, err)
	assert.Equal(t, "rear", s)
	maxLen, err := cam.StringMaxLength("DeviceUserID")
	require.NoError(t, err)
	assert.EqualValues(t, 16, maxLen)

	lut, err := cam.RawGet("LUTValueAll")
	require.NoError(t, err)
	assert.Len(t, lut, 256)

	sel, err := cam.SelectedFeatures("LUTSelector")
	require.NoError(t, err)
	assert.Len(t, sel, 2)

	r, w, err := cam.FeatureAccess("PayloadSize")
	require.NoError(t, err)
	assert.True(t, r)
	assert.False(t, w)

	mem, err := cam.MemoryRead(0xD8, 3)
	require.NoError(t, err)
	assert.Equal(t, "SIM", string(mem))
	n, err := cam.MemoryWrite(0x2000, []byte{9, 9})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	_, err = cam.MemoryRead(0x10000, 1)
	assert.ErrorIs(t, err, vmb.ErrorInvalidAddress)
}

func TestSimStreaming(t *testing.T) {
	cam := openSim(t, "color")
	require.NoError(t, cam.EnumSet("PixelFormat", "RGB8"))

	var count atomic.Int32
	var mu sync.Mutex
	var encodings []string
	require.NoError(t, cam.StartStreaming(3, func(f *camera.Frame) {
		enc, _ := f.Encoding()
		mu.Lock()
		encodings = append(encodings, enc)
		mu.Unlock()
		assert.Len(t, f.Data(), 64*48*3)
		assert.EqualValues(t, 64*3, f.Step())
		count.Add(1)
	}))
	require.Eventually(t, func() bool { return count.Load() >= 5 }, 2*time.Second, 5*time.Millisecond,
		"buffers are recycled past the announced count")

	require.NoError(t, cam.StopStreaming())
	mu.Lock()
	assert.Equal(t, "rgb8", encodings[0])
	mu.Unlock()

	require.NoError(t, cam.EnumSet("PixelFormat", "Mono8"), "geometry unlocks after stop")
	require.NoError(t, cam.StartStreaming(0, nil), "streaming can be restarted")
	require.NoError(t, cam.StopStreaming())
}

func TestSimChunkData(t *testing.T) {
	cam := openSim(t, "mono")
	require.NoError(t, cam.BoolSet("ChunkModeActive", true))
	require.NoError(t, cam.FloatSet("ExposureTime", 2500))

	ids := make(chan [2]int64, 1)
	require.NoError(t, cam.StartStreaming(2, func(f *camera.Frame) {
		if !f.HasChunkData() {
			return
		}
		err := f.ChunkData(func(cf camera.ChunkFeatures) error {
			id, err := cf.IntGet("ChunkFrameID")
			if err != nil {
				return err
			}
			exp, err := cf.FloatGet("ChunkExposureTime")
			if err != nil {
				return err
			}
			select {
			case ids <- [2]int64{int64(f.ID()) - id, int64(exp)}:
			default:
			}
			return nil
		})
		assert.NoError(t, err)
	}))
	defer cam.StopStreaming()

	select {
	case got := <-ids:
		assert.Equal(t, [2]int64{0, 2500}, got)
	case <-time.After(2 * time.Second):
		t.Fatal("no chunk data received")
	}
}

func TestSimInvalidation(t *testing.T) {
	cam := openSim(t, "mono")
	var got []string
	remove, err := cam.OnInvalidation("PayloadSize", func(name string) { got = append(got, name) })
	require.NoError(t, err)

	require.NoError(t, cam.IntSet("Width", 32))
	assert.Equal(t, []string{"PayloadSize"}, got)

	require.NoError(t, remove())
	require.NoError(t, cam.IntSet("Width", 16))
	assert.Len(t, got, 1)
}

func TestSimSettings(t *testing.T) {
	cam := openSim(t, "mono")
	path := filepath.Join(t.TempDir(), "cam.yaml")
	require.NoError(t, cam.FloatSet("Gain", 3))
	require.NoError(t, cam.SettingsSave(path))

	require.NoError(t, cam.FloatSet("Gain", 10))
	require.NoError(t, cam.SettingsLoad(path))
	gain, err := cam.FloatGet("Gain")
	require.NoError(t, err)
	assert.Equal(t, 3.0, gain)
}

func TestSimCommandRun(t *testing.T) {
	cam := openSim(t, "mono")
	require.NoError(t, cam.CommandRun(context.Background(), "TriggerSoftware"))
	done, err := cam.CommandIsDone("TriggerSoftware")
	require.NoError(t, err)
	assert.True(t, done)
}
