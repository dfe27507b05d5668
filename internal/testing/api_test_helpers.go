package testing

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/vmbx/vmbx/camera"
	"github.com/vmbx/vmbx/internal/log"
	"github.com/vmbx/vmbx/internal/node"
	"github.com/vmbx/vmbx/internal/server/api"
	"github.com/vmbx/vmbx/internal/server/api/handler"
	"github.com/vmbx/vmbx/sim"
	"github.com/vmbx/vmbx/vmb"
)

// TestCameraID is the id of the emulated camera behind StartAPIServer.
const TestCameraID = "DEV_API"

// Env is a running API server on top of an emulated camera.
type Env struct {
	Addr   string
	System *sim.System
	Node   *node.Node
	Server *api.Server
}

// StartAPIServer starts an emulated mono camera, a node and an API server
// with every route registered on a free port. The camera is shrunk to 32x16
// at 250 fps so streams deliver quickly. Everything is torn down with t.
func StartAPIServer(t *testing.T, cfg node.Config) *Env {
	t.Helper()
	sys, err := sim.New(sim.Config{Cameras: []string{"mono:" + TestCameraID}}, slog.Default())
	if err != nil {
		t.Fatalf("sim: %v", err)
	}
	if code := sys.Startup(""); code != vmb.ErrorSuccess {
		t.Fatalf("startup: %v", code)
	}
	t.Cleanup(sys.Shutdown)

	cam, err := camera.Open(sys, TestCameraID, slog.Default())
	if err != nil {
		t.Fatalf("open camera: %v", err)
	}
	for name, v := range map[string]int64{"Width": 32, "Height": 16} {
		if err := cam.IntSet(name, v); err != nil {
			t.Fatalf("set %s: %v", name, err)
		}
	}
	if err := cam.FloatSet("AcquisitionFrameRate", 250); err != nil {
		t.Fatalf("set frame rate: %v", err)
	}

	n, err := node.New(cam, cfg, prometheus.NewRegistry(), slog.Default())
	if err != nil {
		t.Fatalf("node: %v", err)
	}
	t.Cleanup(func() { _ = n.Close() })

	srv := api.New(n, "127.0.0.1:0", api.ServerConfig{
		ConnectionTimeout: 2 * time.Second,
		CommandTimeout:    time.Second,
	}, slog.Default(), log.NewRaw(nil))
	handler.RegisterAll(srv, sys, "test", nil)
	if err := srv.Start(); err != nil {
		t.Fatalf("api start failed: %v", err)
	}
	t.Cleanup(srv.Close)

	return &Env{Addr: srv.Addr(), System: sys, Node: n, Server: srv}
}

// ExecCmd dials the API server, sends cmd and reads the full response.
// The command should not include a trailing newline. Returns the response
// without the trailing newline.
func ExecCmd(t *testing.T, addr string, cmd string) string {
	t.Helper()
	c, err := net.Dial("tcp", addr)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	defer c.Close()

	_, _ = fmt.Fprintf(c, "%s\x00", cmd)

	r := bufio.NewReader(c)
	line, err := r.ReadString('\n')
	if err != nil && err != io.EOF {
		t.Fatalf("read failed: %v", err)
	}

	result := strings.TrimSuffix(line, "\n")
	result = strings.TrimSuffix(result, "\r")
	return result
}
