package sim_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmbx/vmbx/vmb"
)

func TestSettingsRoundTrip(t *testing.T) {
	for _, ext := range []string{".yaml", ".toml", ".json"} {
		ext := ext
		t.Run(ext, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "camera"+ext)

			sys, h := openCamera(t, "color")
			require.Equal(t, vmb.ErrorSuccess, sys.FeatureIntSet(h, "Width", 800))
			require.Equal(t, vmb.ErrorSuccess, sys.FeatureIntSet(h, "OffsetX", 320))
			require.Equal(t, vmb.ErrorSuccess, sys.FeatureEnumSet(h, "PixelFormat", "BGR8"))
			require.Equal(t, vmb.ErrorSuccess, sys.FeatureFloatSet(h, "Gain", 6.5))
			require.Equal(t, vmb.ErrorSuccess, sys.FeatureStringSet(h, "DeviceUserID", "left"))
			require.Equal(t, vmb.ErrorSuccess, sys.FeatureBoolSet(h, "ReverseX", true))
			require.Equal(t, vmb.ErrorSuccess, sys.SettingsSave(h, path, nil))

			data, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Contains(t, string(data), "OffsetX")
			assert.NotContains(t, string(data), "PayloadSize", "read-only features are not persisted")

			other, h2 := openCamera(t, "color")
			require.Equal(t, vmb.ErrorSuccess, other.SettingsLoad(h2, path, nil))

			var w, off int64
			var pf, user string
			var gain float64
			var rev bool
			require.Equal(t, vmb.ErrorSuccess, other.FeatureIntGet(h2, "Width", &w))
			require.Equal(t, vmb.ErrorSuccess, other.FeatureIntGet(h2, "OffsetX", &off))
			require.Equal(t, vmb.ErrorSuccess, other.FeatureEnumGet(h2, "PixelFormat", &pf))
			require.Equal(t, vmb.ErrorSuccess, other.FeatureFloatGet(h2, "Gain", &gain))
			require.Equal(t, vmb.ErrorSuccess, other.FeatureBoolGet(h2, "ReverseX", &rev))
			buf := make([]byte, 17)
			var n uint32
			require.Equal(t, vmb.ErrorSuccess, other.FeatureStringGet(h2, "DeviceUserID", buf, &n))
			user = string(buf[:n-1])

			assert.EqualValues(t, 800, w)
			assert.EqualValues(t, 320, off)
			assert.Equal(t, "BGR8", pf)
			assert.Equal(t, 6.5, gain)
			assert.True(t, rev)
			assert.Equal(t, "left", user)
		})
	}
}

func TestSettingsLoadResolvesDependencies(t *testing.T) {
	path := filepath.Join(t.TempDir(), "order.yaml")
	doc := `camera: DEV_1
model: 1800 U-240m
features:
  - name: OffsetX
    type: int
    value: "1000"
  - name: Width
    type: int
    value: "800"
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	sys, h := openCamera(t, "mono")
	require.Equal(t, vmb.ErrorSuccess, sys.SettingsLoad(h, path, nil))

	var w, off int64
	require.Equal(t, vmb.ErrorSuccess, sys.FeatureIntGet(h, "Width", &w))
	require.Equal(t, vmb.ErrorSuccess, sys.FeatureIntGet(h, "OffsetX", &off))
	assert.EqualValues(t, 800, w)
	assert.EqualValues(t, 1000, off)
}

func TestSettingsErrors(t *testing.T) {
	sys, h := openCamera(t, "mono")
	dir := t.TempDir()

	assert.Equal(t, vmb.ErrorBadParameter, sys.SettingsSave(h, "", nil))
	assert.Equal(t, vmb.ErrorNotFound, sys.SettingsLoad(h, filepath.Join(dir, "missing.json"), nil))

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{not json"), 0o644))
	assert.Equal(t, vmb.ErrorInvalidValue, sys.SettingsLoad(h, bad, nil))

	invalid := filepath.Join(dir, "invalid.json")
	require.NoError(t, os.WriteFile(invalid, []byte(`{"features":[{"name":"Width","type":"int","value":"7"}]}`), 0o644))
	assert.Equal(t, vmb.ErrorInvalidValue, sys.SettingsLoad(h, invalid, nil))
}

func TestSettingsPersistAllIncludesLUT(t *testing.T) {
	sys, h := openCamera(t, "mono")
	dir := t.TempDir()

	lut := make([]byte, 256)
	for i := range lut {
		lut[i] = byte(i / 2)
	}
	require.Equal(t, vmb.ErrorSuccess, sys.FeatureRawSet(h, "LUTValueAll", lut))

	all := filepath.Join(dir, "all.toml")
	require.Equal(t, vmb.ErrorSuccess, sys.SettingsSave(h, all, &vmb.FeaturePersistSettings{PersistType: vmb.PersistAll}))
	noLUT := filepath.Join(dir, "nolut.toml")
	require.Equal(t, vmb.ErrorSuccess, sys.SettingsSave(h, noLUT, &vmb.FeaturePersistSettings{PersistType: vmb.PersistNoLUT}))

	data, err := os.ReadFile(noLUT)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "LUTValueAll")

	other, h2 := openCamera(t, "mono")
	require.Equal(t, vmb.ErrorSuccess, other.SettingsLoad(h2, all, nil))
	got := make([]byte, 256)
	var n uint32
	require.Equal(t, vmb.ErrorSuccess, other.FeatureRawGet(h2, "LUTValueAll", got, &n))
	assert.Equal(t, lut, got)
}
