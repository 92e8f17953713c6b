package render

import (
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
)

var ErrMismatch = errors.New("render: size mismatch")

// NewError wraps a failed write with the frame of its caller.
func NewError(err error) error {
	if err == nil {
		return nil
	}
	pc, _, _, ok := runtime.Caller(1)
	if !ok {
		return fmt.Errorf("render: %w", err)
	}
	frame := newStackFrame(pc)
	return fmt.Errorf("render: %w on %s", err, frame.String())
}

// CheckError turns a panic raised below it into an error.
func CheckError(err *error) {
	if v := recover(); v != nil {
		*err = fmt.Errorf("render: %+v", v)
	}
}

type stackFrame struct {
	function string
	file     string
	line     int
}

func newStackFrame(pc uintptr) stackFrame {
	fn := runtime.FuncForPC(pc)
	if fn == nil {
		return stackFrame{function: "unknown"}
	}
	file, line := fn.FileLine(pc)
	return stackFrame{function: fn.Name(), file: filepath.Base(file), line: line}
}

func (f stackFrame) String() string {
	return fmt.Sprintf("%s %s:%d", f.function, f.file, f.line)
}
