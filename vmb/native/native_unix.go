//go:build darwin || linux

package native

import (
	"fmt"
	"unsafe"

	"github.com/ebitengine/purego"

	"github.com/vmbx/vmbx/vmb"
)

// Probe opens the library at path, looks up every SDK symbol and queries the
// library version when VmbVersionQuery is present.
func Probe(path string) (*Report, error) {
	lib, err := purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_LOCAL)
	if err != nil {
		return nil, fmt.Errorf("dlopen %s: %w", path, err)
	}
	defer func() { _ = purego.Dlclose(lib) }()

	r := &Report{Path: path}
	for _, name := range vmb.Symbols {
		if _, err := purego.Dlsym(lib, name); err != nil {
			r.Missing = append(r.Missing, name)
			continue
		}
		r.Found = append(r.Found, name)
	}

	if sym, err := purego.Dlsym(lib, "VmbVersionQuery"); err == nil {
		var versionQuery func(info unsafe.Pointer, size uint32) int32
		purego.RegisterFunc(&versionQuery, sym)

		var info versionInfo
		code := vmb.Error(versionQuery(unsafe.Pointer(&info), uint32(unsafe.Sizeof(info))))
		if err := code.Err(); err != nil {
			return r, fmt.Errorf("VmbVersionQuery: %w", err)
		}
		r.Version = &vmb.VersionInfo{Major: info.major, Minor: info.minor, Patch: info.patch}
	}
	return r, nil
}
