package sim

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"

	"github.com/vmbx/vmbx/vmb"
)

func TestFillPatternFormats(t *testing.T) {
	tests := []struct {
		pf    vmb.PixelFormat
		check func(t *testing.T, buf []byte)
	}{
		{vmb.PixelFormatMono8, func(t *testing.T, buf []byte) {
			assert.Equal(t, []byte{5, 6, 7, 8}, buf[:4])
		}},
		{vmb.PixelFormatMono12, func(t *testing.T, buf []byte) {
			assert.EqualValues(t, 6, binary.LittleEndian.Uint16(buf[2:]))
		}},
		{vmb.PixelFormatRGB8, func(t *testing.T, buf []byte) {
			assert.Equal(t, []byte{6, 6, 6}, buf[3:6])
		}},
		{vmb.PixelFormatYCbCr422_8, func(t *testing.T, buf []byte) {
			assert.Equal(t, []byte{5, 128, 6, 128}, buf[:4])
		}},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.pf.String(), func(t *testing.T) {
			buf := make([]byte, tt.pf.ImageSize(8, 4))
			fillPattern(buf, tt.pf, 8, 4, 5, false)
			tt.check(t, buf)
		})
	}
}

func TestFillPatternMasksDepth(t *testing.T) {
	buf := make([]byte, vmb.PixelFormatMono10.ImageSize(4, 1))
	fillPattern(buf, vmb.PixelFormatMono10, 4, 1, 1023, false)
	assert.EqualValues(t, 1023, binary.LittleEndian.Uint16(buf[0:]))
	assert.EqualValues(t, 0, binary.LittleEndian.Uint16(buf[2:]), "wraps at 10 bits")
}

func TestFillPatternReverseX(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		w := rapid.Uint32Range(1, 32).Draw(rt, "w")
		h := rapid.Uint32Range(1, 8).Draw(rt, "h")
		seq := rapid.Uint64Range(0, 1000).Draw(rt, "seq")

		fwd := make([]byte, w*h)
		rev := make([]byte, w*h)
		fillPattern(fwd, vmb.PixelFormatMono8, w, h, seq, false)
		fillPattern(rev, vmb.PixelFormatMono8, w, h, seq, true)
		for y := uint32(0); y < h; y++ {
			for x := uint32(0); x < w; x++ {
				if fwd[y*w+x] != rev[y*w+(w-1-x)] {
					rt.Fatalf("pixel (%d,%d) not mirrored", x, y)
				}
			}
		}
	})
}
