package camera

import (
	"sort"

	"github.com/vmbx/vmbx/vmb"
)

// ROS sensor_msgs/Image encodings for the formats the node can publish.
var rosEncodings = map[vmb.PixelFormat]string{
	vmb.PixelFormatMono8:      "mono8",
	vmb.PixelFormatMono12:     "mono16",
	vmb.PixelFormatMono16:     "mono16",
	vmb.PixelFormatRGB8:       "rgb8",
	vmb.PixelFormatBGR8:       "bgr8",
	vmb.PixelFormatBayerRG8:   "bayer_rggb8",
	vmb.PixelFormatBayerBG8:   "bayer_bggr8",
	vmb.PixelFormatBayerGB8:   "bayer_gbrg8",
	vmb.PixelFormatBayerGR8:   "bayer_grbg8",
	vmb.PixelFormatBayerRG10:  "bayer_rggb16",
	vmb.PixelFormatBayerRG12:  "bayer_rggb16",
	vmb.PixelFormatBayerRG16:  "bayer_rggb16",
	vmb.PixelFormatBayerBG10:  "bayer_bggr16",
	vmb.PixelFormatBayerBG12:  "bayer_bggr16",
	vmb.PixelFormatBayerBG16:  "bayer_bggr16",
	vmb.PixelFormatBayerGB10:  "bayer_gbrg16",
	vmb.PixelFormatBayerGB12:  "bayer_gbrg16",
	vmb.PixelFormatBayerGB16:  "bayer_gbrg16",
	vmb.PixelFormatBayerGR10:  "bayer_grbg16",
	vmb.PixelFormatBayerGR12:  "bayer_grbg16",
	vmb.PixelFormatBayerGR16:  "bayer_grbg16",
	vmb.PixelFormatYCbCr422_8: "yuv422",
}

// Encoding returns the ROS image encoding for pf.
func Encoding(pf vmb.PixelFormat) (string, bool) {
	enc, ok := rosEncodings[pf]
	return enc, ok
}

// Step returns the row length in bytes of an unpadded image.
func Step(pf vmb.PixelFormat, width uint32) uint32 {
	return width * pf.BytesPerPixel()
}

// SupportedPixelFormats lists every format with a ROS encoding, ordered by
// PFNC code.
func SupportedPixelFormats() []vmb.PixelFormat {
	out := make([]vmb.PixelFormat, 0, len(rosEncodings))
	for pf := range rosEncodings {
		out = append(out, pf)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
