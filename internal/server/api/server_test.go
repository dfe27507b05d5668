package api_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmbx/vmbx/internal/node"
	"github.com/vmbx/vmbx/internal/server/api"
	th "github.com/vmbx/vmbx/internal/testing"
)

func TestAPIServer_Requests(t *testing.T) {
	env := th.StartAPIServer(t, node.Config{BufferCount: 2, QueueDepth: 2})
	env.Server.Router().Register("echo/{word}", func(req *api.Request, res *api.Response, logger *slog.Logger) error {
		res.JSON = `{"word":"` + req.Params["word"] + `","payload":"` + req.Payload + `"}`
		return nil
	})

	tests := []struct {
		name string
		cmd  string
		want string
	}{
		{
			name: "empty request",
			cmd:  "",
			want: `{"status":400,"title":"Bad Request","detail":"empty request"}`,
		},
		{
			name: "unknown path",
			cmd:  "nope",
			want: `{"status":404,"title":"Not Found","detail":"unknown path: nope"}`,
		},
		{
			name: "path is case insensitive",
			cmd:  "ECHO/Hi",
			want: `{"word":"hi","payload":""}`,
		},
		{
			name: "payload after whitespace",
			cmd:  "echo/x  abc def",
			want: `{"word":"x","payload":"abc def"}`,
		},
		{
			name: "mixed whitespace before payload",
			cmd:  "echo/y \t\ntail",
			want: `{"word":"y","payload":"tail"}`,
		},
		{
			name: "ping",
			cmd:  "ping",
			want: `{"server":"vmbx","version":"test","sdk":"1.1.0"}`,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			assert.JSONEq(t, tt.want, th.ExecCmd(t, env.Addr, tt.cmd))
		})
	}
}

func TestAPIServer_StreamHandlerError(t *testing.T) {
	env := th.StartAPIServer(t, node.Config{BufferCount: 2, QueueDepth: 2})
	env.Server.Router().RegisterStream("broken", func(ctx context.Context, conn net.Conn, logger *slog.Logger) error {
		return errors.New("boom")
	})

	resp := th.ExecCmd(t, env.Addr, "broken")
	assert.JSONEq(t, `{"status":500,"title":"Internal Server Error","detail":"boom"}`, resp)
}

func TestAPIServer_StreamCanceledOnDisconnect(t *testing.T) {
	env := th.StartAPIServer(t, node.Config{BufferCount: 2, QueueDepth: 2})
	done := make(chan struct{})
	env.Server.Router().RegisterStream("wait", func(ctx context.Context, conn net.Conn, logger *slog.Logger) error {
		_, _ = conn.Write([]byte("ready\n"))
		<-ctx.Done()
		close(done)
		return nil
	})

	c, err := net.Dial("tcp", env.Addr)
	require.NoError(t, err)
	_, err = c.Write([]byte("wait\x00"))
	require.NoError(t, err)
	buf := make([]byte, 6)
	_, err = io.ReadFull(c, buf)
	require.NoError(t, err)
	assert.Equal(t, "ready\n", string(buf))
	require.NoError(t, c.Close())

	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("stream context was not canceled after disconnect")
	}
}

func TestAPIServer_CloseDisconnectsStreams(t *testing.T) {
	env := th.StartAPIServer(t, node.Config{Autostart: true, BufferCount: 2, QueueDepth: 2})

	c, err := net.Dial("tcp", env.Addr)
	require.NoError(t, err)
	defer c.Close()
	_, err = c.Write([]byte("image_raw\x00"))
	require.NoError(t, err)
	buf := make([]byte, 1)
	_, err = c.Read(buf)
	require.NoError(t, err)

	env.Server.Close()
	_ = c.SetReadDeadline(time.Now().Add(3 * time.Second))
	_, err = io.Copy(io.Discard, c)
	assert.NoError(t, err, "server should close the stream connection")
}

func TestRouterPatterns(t *testing.T) {
	env := th.StartAPIServer(t, node.Config{BufferCount: 2, QueueDepth: 2})
	patterns := env.Server.Router().Patterns()
	for _, p := range []string{"ping", "status", "features/int/get", "memory/read", "image_raw"} {
		assert.Contains(t, patterns, p)
	}
}
