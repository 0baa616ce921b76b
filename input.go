package rowed

import (
	"errors"

	"github.com/xyproto/rowed/internal/log"
)

// ProcessKey applies one key to the session. It returns false when the
// editor should exit.
func (e *Editor) ProcessKey(k Key) bool {
	log.Debug(log.CatInput, "key", "key", k, "row", e.cursor.Row, "col", e.cursor.Col)

	switch k {
	case e.quitKey:
		if e.buf.Dirty() {
			e.quitTimes--
			if e.quitTimes > 0 {
				e.status.Set("WARNING!!! File has unsaved changes. Press %s %d more times to quit.",
					keyLabel(e.quitKey), e.quitTimes)
				return true
			}
		}
		return false
	case e.saveKey:
		e.save()
	case KeyEnter:
		e.insertNewline()
	case KeyHome:
		e.cursor.Col = 0
	case KeyEnd:
		e.cursor.Col = e.buf.RowLen(e.cursor.Row)
	case KeyBackspace, CtrlKey('h'), KeyDelete:
		if k == KeyDelete {
			e.moveCursor(KeyArrowRight)
		}
		e.deleteChar()
	case KeyPageUp, KeyPageDown:
		e.page(k)
	case KeyArrowUp, KeyArrowDown, KeyArrowLeft, KeyArrowRight:
		e.moveCursor(k)
	case CtrlKey('l'), KeyEsc:
		// Nothing
	default:
		if insertable(k) {
			e.insertChar(byte(k))
		}
	}
	e.quitTimes = e.cfg.QuitTimes
	return true
}

// insertable reports whether k is a byte that goes into the text: tab,
// printable ASCII, and any byte of a multi-byte UTF-8 sequence.
func insertable(k Key) bool {
	return k == KeyTab || (k >= ' ' && k < KeyBackspace) || (k >= 0x80 && k <= 0xff)
}

func (e *Editor) save() {
	n, err := e.buf.Save()
	switch {
	case errors.Is(err, ErrNoFilename):
		e.status.Set("No file name, nothing saved")
	case err != nil:
		e.status.Set("Can't save! I/O error: %s", err)
	default:
		if e.watcher != nil {
			e.watcher.Sync()
		}
		e.status.Set("%d bytes written on disk", n)
	}
}

func (e *Editor) moveCursor(k Key) {
	c := &e.cursor
	row := e.buf.Row(c.Row)

	switch k {
	case KeyArrowLeft:
		if c.Col != 0 {
			c.Col--
		} else if c.Row > 0 {
			c.Row--
			c.Col = e.buf.RowLen(c.Row)
		}
	case KeyArrowRight:
		if row != nil && c.Col < row.Len() {
			c.Col++
		} else if row != nil && c.Col == row.Len() {
			c.Row++
			c.Col = 0
		}
	case KeyArrowUp:
		if c.Row != 0 {
			c.Row--
		}
	case KeyArrowDown:
		if c.Row < e.buf.NumRows() {
			c.Row++
		}
	}

	// Snap to the end of a shorter row.
	if rowLen := e.buf.RowLen(c.Row); c.Col > rowLen {
		c.Col = rowLen
	}
}

// page moves the cursor to the top or bottom edge of the viewport, then a
// full screen further.
func (e *Editor) page(k Key) {
	dir := KeyArrowDown
	if k == KeyPageUp {
		dir = KeyArrowUp
		e.cursor.Row = e.view.RowOffset
	} else {
		e.cursor.Row = min(e.view.RowOffset+e.view.ScreenRows-1, e.buf.NumRows())
	}
	for n := e.view.ScreenRows; n > 0; n-- {
		e.moveCursor(dir)
	}
}

func (e *Editor) insertChar(c byte) {
	e.buf.InsertChar(e.cursor.Row, e.cursor.Col, c)
	e.cursor.Col++
}

func (e *Editor) insertNewline() {
	if e.cursor.Col == 0 {
		e.buf.InsertRow(e.cursor.Row, nil)
	} else {
		e.buf.SplitRow(e.cursor.Row, e.cursor.Col)
	}
	e.cursor.Row++
	e.cursor.Col = 0
}

// deleteChar deletes the byte before the cursor. At column 0 the row is
// joined onto the previous one.
func (e *Editor) deleteChar() {
	c := &e.cursor
	if c.Row == e.buf.NumRows() {
		return
	}
	if c.Col == 0 && c.Row == 0 {
		return
	}
	if c.Col > 0 {
		e.buf.DeleteChar(c.Row, c.Col)
		c.Col--
		return
	}
	prev := c.Row - 1
	c.Col = e.buf.RowLen(prev)
	e.buf.AppendString(prev, e.buf.Row(c.Row).chars)
	e.buf.DeleteRow(c.Row)
	c.Row = prev
}
