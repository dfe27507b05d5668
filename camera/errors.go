package camera

import (
	"errors"
	"fmt"

	"github.com/vmbx/vmbx/vmb"
)

var (
	ErrNoCamera         = errors.New("no camera found")
	ErrNotStreaming     = errors.New("camera is not streaming")
	ErrAlreadyStreaming = errors.New("camera is already streaming")
	ErrClosed           = errors.New("camera is closed")
)

// Error is a failed SDK call. It unwraps to the vmb.Error code so
// errors.Is(err, vmb.ErrorInvalidValue) works.
type Error struct {
	Op      string
	Feature string
	Code    vmb.Error
}

func (e *Error) Error() string {
	if e.Feature != "" {
		return fmt.Sprintf("%s %s: %s", e.Op, e.Feature, e.Code)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Code)
}

func (e *Error) Unwrap() error { return e.Code }

func check(op, feature string, code vmb.Error) error {
	if code == vmb.ErrorSuccess {
		return nil
	}
	return &Error{Op: op, Feature: feature, Code: code}
}
