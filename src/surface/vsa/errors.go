package vsa

import (
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
)

var (
	// ErrDegenerateInput reports an under-determined fit: no faces, or a
	// support of zero area.
	ErrDegenerateInput = errors.New("vsa: degenerate input")

	// ErrInvalidPartition reports a face without a live proxy or a region
	// boundary that does not close. Extraction aborts on it.
	ErrInvalidPartition = errors.New("vsa: invalid partition")

	ErrInvalidTarget = errors.New("vsa: invalid seeding target")
	ErrInvalidMetric = errors.New("vsa: unknown metric")
	ErrNoMesh        = errors.New("vsa: no mesh")
)

// newError wraps kind with a message and the caller's frame.
func newError(kind error, format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	pc, _, _, ok := runtime.Caller(1)
	if !ok {
		return fmt.Errorf("%w: %s", kind, msg)
	}
	return fmt.Errorf("%w: %s (on %s)", kind, msg, frameName(pc))
}

func frameName(pc uintptr) string {
	fn := runtime.FuncForPC(pc)
	if fn == nil {
		return "unknown"
	}
	file, line := fn.FileLine(pc)
	return fmt.Sprintf("%s %s:%d", fn.Name(), filepath.Base(file), line)
}

// checkError turns a panic raised below it into an ErrInvalidPartition.
func checkError(err *error) {
	if v := recover(); v != nil {
		*err = fmt.Errorf("%w: %+v", ErrInvalidPartition, v)
	}
}
