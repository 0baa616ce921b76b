package rowed

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"golang.org/x/sys/unix"
	"golang.org/x/term"

	"github.com/xyproto/rowed/internal/log"
)

// Terminal is the controlling terminal: raw mode, geometry, and the byte
// stream in both directions.
type Terminal struct {
	in, out     int
	origTermios *unix.Termios
	rawmode     bool
}

// NewTerminal wraps the given input and output files, normally os.Stdin and
// os.Stdout.
func NewTerminal(in, out *os.File) *Terminal {
	return &Terminal{in: int(in.Fd()), out: int(out.Fd())}
}

// EnableRawMode turns off canonical input, echo, signal keys, flow control,
// CR translation and output post-processing, and makes reads return after
// a tenth of a second even when no byte arrived. Failures are fatal.
func (t *Terminal) EnableRawMode() error {
	if t.rawmode {
		return nil
	}
	if !term.IsTerminal(t.in) {
		return fatal("tcgetattr", ErrNotTerminal)
	}
	orig, err := unix.IoctlGetTermios(t.in, ioctlReadTermios)
	if err != nil {
		return fatal("tcgetattr", err)
	}

	raw := *orig
	// Input modes
	raw.Iflag &^= unix.BRKINT | unix.ICRNL | unix.INPCK | unix.ISTRIP | unix.IXON
	// Output modes
	raw.Oflag &^= unix.OPOST
	// Control modes
	raw.Cflag |= unix.CS8
	// Local modes
	raw.Lflag &^= unix.ECHO | unix.ICANON | unix.IEXTEN | unix.ISIG
	// Control chars
	raw.Cc[unix.VMIN] = 0
	raw.Cc[unix.VTIME] = 1

	if err := unix.IoctlSetTermios(t.in, ioctlWriteTermios, &raw); err != nil {
		return fatal("tcsetattr", err)
	}
	t.origTermios = orig
	t.rawmode = true
	log.Debug(log.CatTerm, "raw mode enabled")
	return nil
}

// DisableRawMode restores the attributes saved by EnableRawMode.
func (t *Terminal) DisableRawMode() error {
	if !t.rawmode {
		return nil
	}
	if err := unix.IoctlSetTermios(t.in, ioctlWriteTermios, t.origTermios); err != nil {
		return fatal("tcsetattr", err)
	}
	t.rawmode = false
	log.Debug(log.CatTerm, "raw mode disabled")
	return nil
}

// Read performs a single read(2). In raw mode it returns 0, nil when the
// read timed out with nothing to deliver.
func (t *Terminal) Read(p []byte) (int, error) {
	n, err := unix.Read(t.in, p)
	if n < 0 {
		n = 0
	}
	return n, err
}

// Write writes all of p, continuing after short writes.
func (t *Terminal) Write(p []byte) (int, error) {
	written := 0
	for written < len(p) {
		n, err := unix.Write(t.out, p[written:])
		if n > 0 {
			written += n
		}
		if err != nil && !isTimeout(err) {
			return written, err
		}
	}
	return written, nil
}

// WindowSize returns the terminal size in rows and columns. When the ioctl
// fails or reports zero columns, the cursor is pushed to the bottom right
// corner and its position is asked for instead, which needs raw mode.
func (t *Terminal) WindowSize() (int, int, error) {
	ws, err := unix.IoctlGetWinsize(t.out, unix.TIOCGWINSZ)
	if err == nil && ws.Col != 0 {
		return int(ws.Row), int(ws.Col), nil
	}
	log.Debug(log.CatTerm, "TIOCGWINSZ unusable, asking for cursor position", "err", err)
	rows, cols, err := cursorPosition(t)
	if err != nil {
		return 0, 0, fatal("window size", err)
	}
	return rows, cols, nil
}

// cursorPosition moves the cursor as far down and right as it goes, asks
// for a cursor position report and parses the reply.
func cursorPosition(rw io.ReadWriter) (int, int, error) {
	if _, err := io.WriteString(rw, "\x1b[999C\x1b[999B\x1b[6n"); err != nil {
		return 0, 0, fmt.Errorf("requesting cursor position: %w", err)
	}
	var buf []byte
	var b [1]byte
	for len(buf) < 31 {
		n, _ := rw.Read(b[:])
		if n != 1 || b[0] == 'R' {
			break
		}
		buf = append(buf, b[0])
	}
	return parseCursorReport(buf)
}

// parseCursorReport parses "ESC [ rows ; cols" (the trailing R removed).
func parseCursorReport(buf []byte) (int, int, error) {
	body, ok := bytes.CutPrefix(buf, []byte("\x1b["))
	if !ok {
		return 0, 0, ErrCursorReport
	}
	r, c, ok := bytes.Cut(body, []byte{';'})
	if !ok {
		return 0, 0, ErrCursorReport
	}
	rows, err1 := strconv.Atoi(string(r))
	cols, err2 := strconv.Atoi(string(c))
	if err := errors.Join(err1, err2); err != nil {
		return 0, 0, fmt.Errorf("%w: %w", ErrCursorReport, err)
	}
	if rows < 1 || cols < 1 {
		return 0, 0, ErrCursorReport
	}
	return rows, cols, nil
}
