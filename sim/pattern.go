package sim

import (
	"encoding/binary"

	"github.com/vmbx/vmbx/vmb"
)

// depth returns the significant bits of one channel of pf.
func depth(pf vmb.PixelFormat) uint {
	switch pf {
	case vmb.PixelFormatMono10, vmb.PixelFormatBayerGR10, vmb.PixelFormatBayerRG10,
		vmb.PixelFormatBayerGB10, vmb.PixelFormatBayerBG10:
		return 10
	case vmb.PixelFormatMono12, vmb.PixelFormatBayerGR12, vmb.PixelFormatBayerRG12,
		vmb.PixelFormatBayerGB12, vmb.PixelFormatBayerBG12:
		return 12
	case vmb.PixelFormatMono14:
		return 14
	case vmb.PixelFormatMono16, vmb.PixelFormatBayerGR16, vmb.PixelFormatBayerRG16,
		vmb.PixelFormatBayerGB16, vmb.PixelFormatBayerBG16:
		return 16
	default:
		return 8
	}
}

// patternValue is the test-pattern intensity of pixel (x, y) in frame seq.
func patternValue(x, y uint32, seq uint64) uint64 {
	return uint64(x) + uint64(y) + seq
}

// fillPattern writes a diagonal gradient that moves by one step per frame.
// Every channel of a pixel is derived from the same intensity so any format
// can be checked with patternValue.
func fillPattern(buf []byte, pf vmb.PixelFormat, width, height uint32, seq uint64, reverseX bool) {
	bpp := int(pf.BytesPerPixel())
	mask := uint64(1)<<depth(pf) - 1
	i := 0
	for y := uint32(0); y < height; y++ {
		for x := uint32(0); x < width; x++ {
			sx := x
			if reverseX {
				sx = width - 1 - x
			}
			v := patternValue(sx, y, seq) & mask
			switch {
			case pf == vmb.PixelFormatYCbCr422_8:
				buf[i] = byte(v)
				buf[i+1] = 128
			case bpp == 2:
				binary.LittleEndian.PutUint16(buf[i:], uint16(v))
			default:
				for ch := 0; ch < bpp; ch++ {
					buf[i+ch] = byte(v)
				}
			}
			i += bpp
		}
	}
}
