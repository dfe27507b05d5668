package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vmbx/vmbx/camera"
	"github.com/vmbx/vmbx/internal/log"
	"github.com/vmbx/vmbx/internal/node"
	"github.com/vmbx/vmbx/internal/server/api"
	"github.com/vmbx/vmbx/internal/server/api/handler"
	"github.com/vmbx/vmbx/sim"
	"github.com/vmbx/vmbx/vmb"
)

// Version is reported by the ping route. Set with -ldflags at build time.
var Version = "dev"

type Server struct {
	SimConfig       sim.Config       `embed:"" prefix:"sim."`
	NodeConfig      node.Config      `embed:"" prefix:"node."`
	ApiServerConfig api.ServerConfig `embed:"" prefix:"api."`
	MetricsAddr     string           `help:"Prometheus /metrics listen address; empty disables it" default:":9242" env:"VMBX_METRICS_ADDR"`
}

// Run is called by Kong when the server command is executed.
func (s *Server) Run(logger *slog.Logger, rawLogger log.RawLogger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return s.StartServer(ctx, logger, rawLogger)
}

// StartServer runs the emulated SDK, the camera node, the API server and the
// metrics endpoint until ctx is done.
func (s *Server) StartServer(ctx context.Context, logger *slog.Logger, rawLogger log.RawLogger) error {
	if s.ApiServerConfig.Addr == "" {
		return errors.New("API server address must be set (default :3242)")
	}

	sys, err := sim.New(s.SimConfig, logger)
	if err != nil {
		return fmt.Errorf("emulator: %w", err)
	}
	if code := sys.Startup(""); code != vmb.ErrorSuccess {
		return fmt.Errorf("startup: %w", code)
	}
	defer sys.Shutdown()

	var v vmb.VersionInfo
	_ = sys.VersionQuery(&v)
	logger.Info("Starting vmbx camera node", "sdk", fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch), "cameras", s.SimConfig.Cameras)

	cam, err := camera.Open(sys, s.NodeConfig.CameraID, logger)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	n, err := node.New(cam, s.NodeConfig, reg, logger)
	if err != nil {
		_ = cam.Close()
		return err
	}
	defer func() {
		if err := n.Close(); err != nil {
			logger.Warn("node close", "error", err)
		}
	}()

	apiSrv := api.New(n, s.ApiServerConfig.Addr, s.ApiServerConfig, logger, rawLogger)
	handler.RegisterAll(apiSrv, sys, Version, rawLogger)
	if err := apiSrv.Start(); err != nil {
		logger.Error("failed to start API server", "error", err)
		return err
	}
	defer apiSrv.Close()

	metricsErrCh := make(chan error, 1)
	if s.MetricsAddr != "" {
		metricsSrv, err := startMetrics(s.MetricsAddr, reg, logger, metricsErrCh)
		if err != nil {
			return err
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = metricsSrv.Shutdown(shutdownCtx)
		}()
	}

	select {
	case <-ctx.Done():
		logger.Info("Shutting down")
		return nil
	case err := <-metricsErrCh:
		return fmt.Errorf("metrics server: %w", err)
	}
}

func startMetrics(addr string, reg *prometheus.Registry, logger *slog.Logger, errCh chan<- error) (*http.Server, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("metrics listen: %w", err)
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	logger.Info("Metrics listening", "addr", ln.Addr().String())
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	return srv, nil
}
