package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/vmbx/vmbx/vmb"
	"github.com/vmbx/vmbx/vmb/native"
)

type Symbols struct {
	Probe string `help:"Check that this VmbC shared library exports every listed function" type:"path" env:"VMBX_PROBE_LIBRARY"`

	out io.Writer
}

// Run prints the SDK functions covered by vmb.API and optionally probes a
// shared library for them.
func (s *Symbols) Run(logger *slog.Logger) error {
	out := s.out
	if out == nil {
		out = os.Stdout
	}

	if s.Probe == "" {
		for _, name := range vmb.Symbols {
			_, _ = fmt.Fprintln(out, name)
		}
		return nil
	}

	report, err := native.Probe(s.Probe)
	if err != nil {
		return fmt.Errorf("probe %s: %w", s.Probe, err)
	}
	_, _ = fmt.Fprintln(out, report.String())
	for _, name := range report.Missing {
		_, _ = fmt.Fprintf(out, "missing %s\n", name)
	}
	if !report.Complete() {
		logger.Warn("library is missing SDK functions", "path", s.Probe, "missing", len(report.Missing))
		return fmt.Errorf("%d of %d functions missing", len(report.Missing), len(report.Found)+len(report.Missing))
	}
	return nil
}
