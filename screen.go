package rowed

import (
	"bytes"
	"fmt"

	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"
)

// VT100 sequences used to draw a frame
const (
	seqHideCursor   = "\x1b[?25l"
	seqShowCursor   = "\x1b[?25h"
	seqHome         = "\x1b[H"
	seqClearLine    = "\x1b[K"
	seqClearScreen  = "\x1b[2J"
	seqReverse      = "\x1b[7m"
	seqResetAttrs   = "\x1b[m"
	seqAltScreenOn  = "\x1b[?1049h"
	seqAltScreenOff = "\x1b[?1049l"
)

const statusNameWidth = 20

// Frame is everything needed to draw one screen.
type Frame struct {
	Buffer  *Buffer
	View    Viewport
	Cursor  Cursor
	Message string
	Banner  string
}

// Compose builds the whole frame as a single byte slice: hide cursor, home,
// text rows, status bar, message bar, cursor placement, show cursor. The
// caller writes it in one call so a half-drawn frame is never visible.
func (f *Frame) Compose() []byte {
	var ab bytes.Buffer
	ab.WriteString(seqHideCursor)
	ab.WriteString(seqHome)

	f.drawRows(&ab)
	f.drawStatusBar(&ab)
	f.drawMessageBar(&ab)

	fmt.Fprintf(&ab, "\x1b[%d;%dH",
		(f.Cursor.Row-f.View.RowOffset)+1,
		(f.View.RenderX-f.View.ColOffset)+1)
	ab.WriteString(seqShowCursor)
	return ab.Bytes()
}

func (f *Frame) drawRows(ab *bytes.Buffer) {
	v := f.View
	for y := 0; y < v.ScreenRows; y++ {
		filerow := y + v.RowOffset
		if row := f.Buffer.Row(filerow); row != nil {
			start := min(v.ColOffset, len(row.render))
			end := min(start+v.ScreenCols, len(row.render))
			ab.Write(row.render[start:end])
		} else if f.Buffer.NumRows() == 0 && y == v.ScreenRows/3 {
			f.drawBanner(ab)
		} else {
			ab.WriteByte('~')
		}
		ab.WriteString(seqClearLine)
		ab.WriteString("\r\n")
	}
}

func (f *Frame) drawBanner(ab *bytes.Buffer) {
	cols := f.View.ScreenCols
	welcome := f.Banner
	if len(welcome) > cols {
		welcome = welcome[:cols]
	}
	padding := (cols - len(welcome)) / 2
	if padding > 0 {
		ab.WriteByte('~')
		padding--
	}
	for ; padding > 0; padding-- {
		ab.WriteByte(' ')
	}
	ab.WriteString(welcome)
}

func (f *Frame) drawStatusBar(ab *bytes.Buffer) {
	cols := f.View.ScreenCols
	b := f.Buffer

	name := b.Filename()
	if name == "" {
		name = "[No Name]"
	}
	name = runewidth.Truncate(name, statusNameWidth, "")
	modified := ""
	if b.Dirty() {
		modified = "(modified)"
	}
	status := fmt.Sprintf("%s - %d lines %s", name, b.NumRows(), modified)
	rstatus := fmt.Sprintf("%d/%d", f.Cursor.Row+1, b.NumRows())

	status = ansi.Truncate(status, cols, "")
	width := ansi.StringWidth(status)

	ab.WriteString(seqReverse)
	ab.WriteString(status)
	for width < cols {
		if cols-width == len(rstatus) {
			ab.WriteString(rstatus)
			break
		}
		ab.WriteByte(' ')
		width++
	}
	ab.WriteString(seqResetAttrs)
	ab.WriteString("\r\n")
}

func (f *Frame) drawMessageBar(ab *bytes.Buffer) {
	ab.WriteString(seqClearLine)
	if f.Message != "" {
		ab.WriteString(ansi.Truncate(f.Message, f.View.ScreenCols, ""))
	}
}
