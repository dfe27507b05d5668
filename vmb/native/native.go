// Package native inspects an installed VmbC shared library without cgo.
package native

import (
	"errors"
	"fmt"

	"github.com/vmbx/vmbx/vmb"
)

// ErrUnsupported is returned on platforms without a dlopen implementation.
var ErrUnsupported = errors.New("native library loading is not supported on this platform")

// Report is the result of probing a shared library for the VmbC surface.
type Report struct {
	Path    string
	Version *vmb.VersionInfo
	Found   []string
	Missing []string
}

// Complete reports whether every SDK symbol was exported by the library.
func (r *Report) Complete() bool { return len(r.Missing) == 0 }

func (r *Report) String() string {
	v := "unknown"
	if r.Version != nil {
		v = fmt.Sprintf("%d.%d.%d", r.Version.Major, r.Version.Minor, r.Version.Patch)
	}
	return fmt.Sprintf("%s: version %s, %d/%d symbols", r.Path, v, len(r.Found), len(r.Found)+len(r.Missing))
}

// versionInfo matches the C layout of VmbVersionInfo_t.
type versionInfo struct {
	major uint32
	minor uint32
	patch uint32
}
