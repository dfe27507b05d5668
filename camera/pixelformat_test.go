package camera_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"

	"github.com/vmbx/vmbx/camera"
	"github.com/vmbx/vmbx/vmb"
)

func TestEncodingTable(t *testing.T) {
	tests := map[string]string{
		"Mono8":      "mono8",
		"Mono12":     "mono16",
		"Mono16":     "mono16",
		"RGB8":       "rgb8",
		"BGR8":       "bgr8",
		"BayerRG8":   "bayer_rggb8",
		"BayerBG8":   "bayer_bggr8",
		"BayerGB8":   "bayer_gbrg8",
		"BayerGR8":   "bayer_grbg8",
		"BayerRG10":  "bayer_rggb16",
		"BayerBG12":  "bayer_bggr16",
		"BayerGB16":  "bayer_gbrg16",
		"BayerGR12":  "bayer_grbg16",
		"YCbCr422_8": "yuv422",
	}
	for name, want := range tests {
		name, want := name, want
		t.Run(name, func(t *testing.T) {
			pf, ok := vmb.ParsePixelFormat(name)
			assert.True(t, ok)
			got, ok := camera.Encoding(pf)
			assert.True(t, ok)
			assert.Equal(t, want, got)
		})
	}

	_, ok := camera.Encoding(vmb.PixelFormatRGBa8)
	assert.False(t, ok)
	assert.Len(t, camera.SupportedPixelFormats(), 22)
}

func TestStepMatchesEncodingDepth(t *testing.T) {
	formats := camera.SupportedPixelFormats()
	rapid.Check(t, func(rt *rapid.T) {
		pf := rapid.SampledFrom(formats).Draw(rt, "format")
		width := rapid.Uint32Range(1, 4096).Draw(rt, "width")
		enc, _ := camera.Encoding(pf)

		var perPixel uint32
		switch {
		case strings.HasSuffix(enc, "16"), enc == "yuv422":
			perPixel = 2
		case enc == "rgb8", enc == "bgr8":
			perPixel = 3
		default:
			perPixel = 1
		}
		if got := camera.Step(pf, width); got != width*perPixel {
			rt.Fatalf("%s (%s): step %d, want %d", pf, enc, got, width*perPixel)
		}
	})
}
