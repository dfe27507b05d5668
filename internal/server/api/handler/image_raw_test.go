package handler_test

import (
	"bufio"
	"encoding/json"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmbx/vmbx/apitypes"
	"github.com/vmbx/vmbx/internal/node"
	th "github.com/vmbx/vmbx/internal/testing"
)

func subscribeRaw(t *testing.T, addr string) (net.Conn, *bufio.Reader, apitypes.SubscribeResponse) {
	t.Helper()
	conn, err := net.Dial("tcp", addr)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	_, err = conn.Write([]byte("image_raw\x00"))
	require.NoError(t, err)
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))

	r := bufio.NewReader(conn)
	line, err := r.ReadBytes('\n')
	require.NoError(t, err)
	var ack apitypes.SubscribeResponse
	require.NoError(t, json.Unmarshal(line, &ack))
	return conn, r, ack
}

func TestImageRaw(t *testing.T) {
	env := th.StartAPIServer(t, node.Config{Autostart: true, BufferCount: 3, QueueDepth: 4})

	conn, r, ack := subscribeRaw(t, env.Addr)
	assert.NotEmpty(t, ack.SubscriberID)

	img, err := apitypes.ReadImage(r)
	require.NoError(t, err)
	assert.Equal(t, uint32(32), img.Width)
	assert.Equal(t, uint32(16), img.Height)
	assert.Equal(t, "mono8", img.Encoding)
	assert.Len(t, img.Data, int(img.Step*img.Height))

	next, err := apitypes.ReadImage(r)
	require.NoError(t, err)
	assert.Greater(t, next.FrameID, img.FrameID)
	assert.True(t, env.Node.Status().Streaming)

	require.NoError(t, conn.Close())
	assert.Eventually(t, func() bool {
		st := env.Node.Status()
		return st.Subscribers == 0 && !st.Streaming
	}, 3*time.Second, 20*time.Millisecond)
}

func TestImageRawTwoSubscribers(t *testing.T) {
	env := th.StartAPIServer(t, node.Config{Autostart: true, BufferCount: 3, QueueDepth: 4})

	connA, ra, a := subscribeRaw(t, env.Addr)
	_, rb, b := subscribeRaw(t, env.Addr)
	assert.NotEqual(t, a.SubscriberID, b.SubscriberID)
	assert.Equal(t, 2, env.Node.Status().Subscribers)

	_, err := apitypes.ReadImage(ra)
	require.NoError(t, err)
	_, err = apitypes.ReadImage(rb)
	require.NoError(t, err)

	require.NoError(t, connA.Close())
	assert.Eventually(t, func() bool { return env.Node.Status().Subscribers == 1 }, 3*time.Second, 20*time.Millisecond)
	assert.True(t, env.Node.Status().Streaming)
	_, err = apitypes.ReadImage(rb)
	assert.NoError(t, err)
}

func TestImageRawStartFailure(t *testing.T) {
	env := th.StartAPIServer(t, node.Config{Autostart: true, BufferCount: 3, QueueDepth: 4})
	require.NoError(t, env.Node.Close())

	resp := th.ExecCmd(t, env.Addr, "image_raw")
	assert.JSONEq(t, `{"status":503,"title":"Service Unavailable","detail":"node closed"}`, resp)
}
