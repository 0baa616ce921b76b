package rowed

import "errors"

var (
	// ErrNotTerminal is returned when stdin is not a terminal.
	ErrNotTerminal = errors.New("not a tty")
	// ErrNoFilename is returned by Save when the buffer has no file name.
	ErrNoFilename = errors.New("no file name")
	// ErrCursorReport is returned when the terminal answers a cursor position
	// request with something that is not "ESC [ row ; col R".
	ErrCursorReport = errors.New("malformed cursor position report")
)

// FatalError is an unrecoverable environment failure: terminal attributes,
// window geometry or opening the file. It unwinds to Editor.Run, which
// restores the terminal before the process exits.
type FatalError struct {
	Op  string
	Err error
}

func (e *FatalError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *FatalError) Unwrap() error {
	return e.Err
}

func fatal(op string, err error) error {
	return &FatalError{Op: op, Err: err}
}

// IsFatal reports whether err, or anything it wraps, is a *FatalError.
func IsFatal(err error) bool {
	var fe *FatalError
	return errors.As(err, &fe)
}
