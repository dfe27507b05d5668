//go:build !darwin && !linux

package native

// Probe is not available on this platform.
func Probe(path string) (*Report, error) {
	return nil, ErrUnsupported
}
