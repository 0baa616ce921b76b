// Package rowed is a minimal terminal text editor. It puts the terminal in
// raw mode, decodes keys from the byte stream itself and draws every frame
// with VT100 escape sequences, without ncurses or a TUI framework.
package rowed

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"

	"golang.org/x/sys/unix"

	"github.com/xyproto/rowed/internal/config"
	"github.com/xyproto/rowed/internal/log"
	"github.com/xyproto/rowed/internal/watch"
)

const Version = "0.1.0"

// Console is the terminal as seen by the editor loop.
type Console interface {
	io.ReadWriter
	EnableRawMode() error
	DisableRawMode() error
	WindowSize() (rows, cols int, err error)
}

// Editor is one editing session. All state lives here; nothing is global.
type Editor struct {
	cfg       config.Config
	buf       *Buffer
	cursor    Cursor
	view      Viewport
	status    *StatusLine
	quitTimes int
	quitKey   Key
	saveKey   Key

	console   Console
	keys      *Decoder
	watcher   *watch.Watcher
	resize    chan os.Signal
	shownMsg  string
	cleanOnce sync.Once
}

// New creates an editor with an empty buffer. cfg must have passed
// Validate.
func New(cfg config.Config) *Editor {
	return &Editor{
		cfg:       cfg,
		buf:       NewBuffer(cfg.TabStop),
		status:    NewStatusLine(cfg.MessageTimeout),
		quitTimes: cfg.QuitTimes,
		quitKey:   Key(cfg.QuitKey()),
		saveKey:   Key(cfg.SaveKey()),
		view:      Viewport{ScreenRows: 1, ScreenCols: 1},
	}
}

// Buffer returns the row store being edited.
func (e *Editor) Buffer() *Buffer {
	return e.buf
}

// Cursor returns the current cursor position.
func (e *Editor) Cursor() Cursor {
	return e.cursor
}

// SetStatusMessage shows a message in the message bar.
func (e *Editor) SetStatusMessage(format string, args ...any) {
	e.status.Set(format, args...)
}

// Open loads filename into the buffer. Failure is fatal.
func (e *Editor) Open(filename string) error {
	if err := e.buf.Load(filename); err != nil {
		return fatal("open", err)
	}
	e.cursor = Cursor{}
	if e.cfg.WatchFile {
		w, err := watch.New(filename)
		if err != nil {
			log.ErrorErr(log.CatWatch, "not watching file", err, "path", filename)
		} else {
			e.watcher = w
		}
	}
	return nil
}

// Run puts c in raw mode and processes keys until the user quits. The
// terminal is restored on every way out of Run, and on SIGTERM/SIGINT.
func (e *Editor) Run(c Console) error {
	e.console = c
	if err := c.EnableRawMode(); err != nil {
		return err
	}
	defer e.cleanup()

	done := make(chan struct{})
	defer close(done)
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, unix.SIGTERM, unix.SIGINT)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case sig := <-sigCh:
			log.Warn(log.CatTerm, "terminated by signal", "signal", sig)
			e.cleanup()
			os.Exit(1)
		case <-done:
		}
	}()

	e.resize = make(chan os.Signal, 1)
	signal.Notify(e.resize, unix.SIGWINCH)
	defer signal.Stop(e.resize)

	if e.cfg.AltScreen {
		e.write([]byte(seqAltScreenOn))
	}
	if err := e.updateWindowSize(); err != nil {
		return err
	}

	e.keys = NewDecoder(c)
	e.keys.Idle = e.idle

	e.status.Set("HELP: %s = save | %s = quit", keyLabel(e.saveKey), keyLabel(e.quitKey))
	for {
		e.refreshScreen()
		k, err := e.keys.ReadKey()
		if err != nil {
			return fatal("read", err)
		}
		if !e.ProcessKey(k) {
			log.Info(log.CatInput, "quit")
			return nil
		}
	}
}

// cleanup clears the screen, leaves the alternate screen and restores the
// terminal attributes. It runs at most once.
func (e *Editor) cleanup() {
	e.cleanOnce.Do(func() {
		e.write([]byte(seqClearScreen + seqHome))
		if e.cfg.AltScreen {
			e.write([]byte(seqAltScreenOff))
		}
		if err := e.console.DisableRawMode(); err != nil {
			log.ErrorErr(log.CatTerm, "restoring terminal", err)
		}
		if e.watcher != nil {
			_ = e.watcher.Close()
		}
	})
}

func (e *Editor) updateWindowSize() error {
	rows, cols, err := e.console.WindowSize()
	if err != nil {
		return err
	}
	e.view.ScreenRows = max(rows-2, 1) // room for status and message bars
	e.view.ScreenCols = max(cols, 1)
	log.Debug(log.CatTerm, "window size", "rows", rows, "cols", cols)
	return nil
}

// idle runs between reads while no key is pending.
func (e *Editor) idle() {
	redraw := false
	select {
	case <-e.resize:
		if err := e.updateWindowSize(); err != nil {
			log.ErrorErr(log.CatTerm, "resize", err)
		} else {
			redraw = true
		}
	default:
	}
	if e.watcher != nil && e.watcher.Changed() {
		e.status.Set("%s changed on disk", e.buf.Filename())
		redraw = true
	}
	if e.shownMsg != "" && e.status.Current() == "" {
		redraw = true
	}
	if redraw {
		e.refreshScreen()
	}
}

func (e *Editor) refreshScreen() {
	e.view.Scroll(e.buf, e.cursor)
	f := Frame{
		Buffer:  e.buf,
		View:    e.view,
		Cursor:  e.cursor,
		Message: e.status.Current(),
		Banner:  fmt.Sprintf("Rowed editor -- version %s", Version),
	}
	e.shownMsg = f.Message
	e.write(f.Compose())
}

func (e *Editor) write(p []byte) {
	if _, err := e.console.Write(p); err != nil {
		log.ErrorErr(log.CatScreen, "write", err, "bytes", len(p))
	}
}

// keyLabel renders a control key as "Ctrl-Q".
func keyLabel(k Key) string {
	return fmt.Sprintf("Ctrl-%c", byte(k)+'A'-1)
}
