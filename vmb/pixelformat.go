package vmb

import "fmt"

// PixelFormat is a GenICam PFNC pixel format code. Bits 16-23 carry the
// effective bits per pixel.
type PixelFormat uint32

const (
	PixelFormatMono8      PixelFormat = 0x01080001
	PixelFormatMono10     PixelFormat = 0x01100003
	PixelFormatMono12     PixelFormat = 0x01100005
	PixelFormatMono14     PixelFormat = 0x01100025
	PixelFormatMono16     PixelFormat = 0x01100007
	PixelFormatBayerGR8   PixelFormat = 0x01080008
	PixelFormatBayerRG8   PixelFormat = 0x01080009
	PixelFormatBayerGB8   PixelFormat = 0x0108000A
	PixelFormatBayerBG8   PixelFormat = 0x0108000B
	PixelFormatBayerGR10  PixelFormat = 0x0110000C
	PixelFormatBayerRG10  PixelFormat = 0x0110000D
	PixelFormatBayerGB10  PixelFormat = 0x0110000E
	PixelFormatBayerBG10  PixelFormat = 0x0110000F
	PixelFormatBayerGR12  PixelFormat = 0x01100010
	PixelFormatBayerRG12  PixelFormat = 0x01100011
	PixelFormatBayerGB12  PixelFormat = 0x01100012
	PixelFormatBayerBG12  PixelFormat = 0x01100013
	PixelFormatBayerGR16  PixelFormat = 0x0110002E
	PixelFormatBayerRG16  PixelFormat = 0x0110002F
	PixelFormatBayerGB16  PixelFormat = 0x01100030
	PixelFormatBayerBG16  PixelFormat = 0x01100031
	PixelFormatRGB8       PixelFormat = 0x02180014
	PixelFormatBGR8       PixelFormat = 0x02180015
	PixelFormatRGBa8      PixelFormat = 0x02200016
	PixelFormatBGRa8      PixelFormat = 0x02200017
	PixelFormatYCbCr422_8 PixelFormat = 0x0210003B
)

var pixelFormatNames = map[PixelFormat]string{
	PixelFormatMono8:      "Mono8",
	PixelFormatMono10:     "Mono10",
	PixelFormatMono12:     "Mono12",
	PixelFormatMono14:     "Mono14",
	PixelFormatMono16:     "Mono16",
	PixelFormatBayerGR8:   "BayerGR8",
	PixelFormatBayerRG8:   "BayerRG8",
	PixelFormatBayerGB8:   "BayerGB8",
	PixelFormatBayerBG8:   "BayerBG8",
	PixelFormatBayerGR10:  "BayerGR10",
	PixelFormatBayerRG10:  "BayerRG10",
	PixelFormatBayerGB10:  "BayerGB10",
	PixelFormatBayerBG10:  "BayerBG10",
	PixelFormatBayerGR12:  "BayerGR12",
	PixelFormatBayerRG12:  "BayerRG12",
	PixelFormatBayerGB12:  "BayerGB12",
	PixelFormatBayerBG12:  "BayerBG12",
	PixelFormatBayerGR16:  "BayerGR16",
	PixelFormatBayerRG16:  "BayerRG16",
	PixelFormatBayerGB16:  "BayerGB16",
	PixelFormatBayerBG16:  "BayerBG16",
	PixelFormatRGB8:       "RGB8",
	PixelFormatBGR8:       "BGR8",
	PixelFormatRGBa8:      "RGBa8",
	PixelFormatBGRa8:      "BGRa8",
	PixelFormatYCbCr422_8: "YCbCr422_8",
}

// BitsPerPixel returns the storage size of one pixel in bits.
func (p PixelFormat) BitsPerPixel() uint32 { return (uint32(p) >> 16) & 0xff }

// BytesPerPixel returns the storage size of one pixel rounded up to bytes.
func (p PixelFormat) BytesPerPixel() uint32 { return (p.BitsPerPixel() + 7) / 8 }

// ImageSize returns the number of bytes an unpadded width x height image needs.
func (p PixelFormat) ImageSize(width, height uint32) uint32 {
	return width * height * p.BytesPerPixel()
}

func (p PixelFormat) String() string {
	if n, ok := pixelFormatNames[p]; ok {
		return n
	}
	return fmt.Sprintf("PixelFormat(0x%08x)", uint32(p))
}

// ParsePixelFormat looks up a PFNC format by its SFNC name.
func ParsePixelFormat(name string) (PixelFormat, bool) {
	for code, n := range pixelFormatNames {
		if n == name {
			return code, true
		}
	}
	return 0, false
}

// PixelFormats returns every known format code.
func PixelFormats() []PixelFormat {
	out := make([]PixelFormat, 0, len(pixelFormatNames))
	for code := range pixelFormatNames {
		out = append(out, code)
	}
	return out
}
