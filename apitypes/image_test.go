package apitypes_test

import (
	"bytes"
	"encoding/binary"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/vmbx/vmbx/apitypes"
)

func TestImageRoundTrip(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		in := apitypes.Image{
			FrameID:   rapid.Uint64().Draw(rt, "frameID"),
			Timestamp: rapid.Uint64().Draw(rt, "timestamp"),
			Width:     rapid.Uint32().Draw(rt, "width"),
			Height:    rapid.Uint32().Draw(rt, "height"),
			Step:      rapid.Uint32().Draw(rt, "step"),
			Encoding:  rapid.SampledFrom([]string{"mono8", "mono16", "bayer_rggb8", "rgb8", "yuv422"}).Draw(rt, "encoding"),
			Data:      rapid.SliceOfN(rapid.Byte(), 0, 512).Draw(rt, "data"),
		}
		b, err := in.MarshalBinary()
		if err != nil {
			rt.Fatal(err)
		}
		if len(b) != apitypes.ImageHeaderSize+len(in.Data) {
			rt.Fatalf("encoded length %d", len(b))
		}
		out, err := apitypes.ReadImage(bytes.NewReader(b))
		if err != nil {
			rt.Fatal(err)
		}
		if out.FrameID != in.FrameID || out.Timestamp != in.Timestamp || out.Width != in.Width ||
			out.Height != in.Height || out.Step != in.Step || out.Encoding != in.Encoding ||
			!bytes.Equal(out.Data, in.Data) {
			rt.Fatalf("mismatch: %+v != %+v", out, in)
		}
	})
}

func TestImageHeaderLayout(t *testing.T) {
	im := apitypes.Image{FrameID: 7, Timestamp: 9, Width: 4, Height: 2, Step: 4, Encoding: "mono8", Data: make([]byte, 8)}
	b, err := im.MarshalBinary()
	require.NoError(t, err)
	assert.Equal(t, uint64(7), binary.LittleEndian.Uint64(b[0:]))
	assert.Equal(t, uint64(9), binary.LittleEndian.Uint64(b[8:]))
	assert.Equal(t, uint32(8), binary.LittleEndian.Uint32(b[28:]))
	assert.Equal(t, "mono8\x00\x00\x00\x00\x00\x00\x00\x00\x00\x00\x00", string(b[32:48]))
}

func TestImageDecodeErrors(t *testing.T) {
	im := apitypes.Image{FrameID: 1, Encoding: "mono8", Data: []byte{1, 2, 3, 4}}
	b, err := im.MarshalBinary()
	require.NoError(t, err)

	_, err = apitypes.ReadImage(bytes.NewReader(b[:10]))
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)

	_, err = apitypes.ReadImage(bytes.NewReader(b[:len(b)-1]))
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)

	_, err = apitypes.ReadImage(bytes.NewReader(nil))
	assert.ErrorIs(t, err, io.EOF)

	var out apitypes.Image
	assert.ErrorIs(t, out.UnmarshalBinary(b[:len(b)-2]), io.ErrUnexpectedEOF)
	require.NoError(t, out.UnmarshalBinary(b))
	assert.Equal(t, []byte{1, 2, 3, 4}, out.Data)

	huge := make([]byte, apitypes.ImageHeaderSize)
	binary.LittleEndian.PutUint32(huge[28:], apitypes.MaxImageSize+1)
	_, err = apitypes.ReadImage(bytes.NewReader(huge))
	assert.ErrorContains(t, err, "exceeds")

	_, err = (&apitypes.Image{Encoding: "an-encoding-name-too-long"}).MarshalBinary()
	assert.Error(t, err)
}
