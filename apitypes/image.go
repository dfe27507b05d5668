package apitypes

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

const (
	// ImageHeaderSize is the fixed header written before every image on the
	// image_raw stream.
	ImageHeaderSize = 48
	// MaxImageSize bounds the data length accepted by ReadImage.
	MaxImageSize = 256 << 20

	encodingSize = 16
)

// Image is the wire format of one frame on the image_raw stream:
//
//	0  uint64 frame id
//	8  uint64 timestamp (ns)
//	16 uint32 width
//	20 uint32 height
//	24 uint32 step
//	28 uint32 data length
//	32 [16]byte encoding, NUL padded
//	48 data
//
// All integers are little-endian.
type Image struct {
	FrameID   uint64
	Timestamp uint64
	Width     uint32
	Height    uint32
	Step      uint32
	Encoding  string
	Data      []byte
}

// MarshalBinary encodes the header followed by the data.
func (im *Image) MarshalBinary() ([]byte, error) {
	if len(im.Encoding) > encodingSize {
		return nil, fmt.Errorf("encoding %q longer than %d bytes", im.Encoding, encodingSize)
	}
	b := make([]byte, ImageHeaderSize+len(im.Data))
	binary.LittleEndian.PutUint64(b[0:8], im.FrameID)
	binary.LittleEndian.PutUint64(b[8:16], im.Timestamp)
	binary.LittleEndian.PutUint32(b[16:20], im.Width)
	binary.LittleEndian.PutUint32(b[20:24], im.Height)
	binary.LittleEndian.PutUint32(b[24:28], im.Step)
	binary.LittleEndian.PutUint32(b[28:32], uint32(len(im.Data)))
	copy(b[32:48], im.Encoding)
	copy(b[ImageHeaderSize:], im.Data)
	return b, nil
}

// UnmarshalBinary decodes one complete image.
func (im *Image) UnmarshalBinary(data []byte) error {
	if len(data) < ImageHeaderSize {
		return io.ErrUnexpectedEOF
	}
	n := im.decodeHeader(data[:ImageHeaderSize])
	if uint64(len(data)-ImageHeaderSize) < uint64(n) {
		return io.ErrUnexpectedEOF
	}
	im.Data = bytes.Clone(data[ImageHeaderSize : ImageHeaderSize+int(n)])
	return nil
}

func (im *Image) decodeHeader(h []byte) uint32 {
	im.FrameID = binary.LittleEndian.Uint64(h[0:8])
	im.Timestamp = binary.LittleEndian.Uint64(h[8:16])
	im.Width = binary.LittleEndian.Uint32(h[16:20])
	im.Height = binary.LittleEndian.Uint32(h[20:24])
	im.Step = binary.LittleEndian.Uint32(h[24:28])
	im.Encoding = string(bytes.TrimRight(h[32:48], "\x00"))
	return binary.LittleEndian.Uint32(h[28:32])
}

// ReadImage reads exactly one image from r.
func ReadImage(r io.Reader) (*Image, error) {
	var h [ImageHeaderSize]byte
	if _, err := io.ReadFull(r, h[:]); err != nil {
		return nil, err
	}
	im := &Image{}
	n := im.decodeHeader(h[:])
	if n > MaxImageSize {
		return nil, fmt.Errorf("image data length %d exceeds %d", n, MaxImageSize)
	}
	im.Data = make([]byte, n)
	if _, err := io.ReadFull(r, im.Data); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return nil, err
	}
	return im, nil
}
