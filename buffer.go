package rowed

import (
	"bytes"

	"github.com/xyproto/rowed/internal/log"
)

// Buffer is the ordered row store for one file. Every mutation marks it
// dirty; only a successful Load or Save clears the flag.
type Buffer struct {
	rows     []*Row
	dirty    bool
	filename string
	tabStop  int
}

// NewBuffer returns an empty buffer expanding tabs to tabStop columns.
func NewBuffer(tabStop int) *Buffer {
	if tabStop < 1 {
		tabStop = 1
	}
	return &Buffer{tabStop: tabStop}
}

// NumRows returns the number of rows.
func (b *Buffer) NumRows() int {
	return len(b.rows)
}

// Row returns row i, or nil when i is out of range.
func (b *Buffer) Row(i int) *Row {
	if i < 0 || i >= len(b.rows) {
		return nil
	}
	return b.rows[i]
}

// RowLen returns the raw length of row i, or 0 when i is out of range.
func (b *Buffer) RowLen(i int) int {
	if r := b.Row(i); r != nil {
		return r.Len()
	}
	return 0
}

// Dirty reports whether there are unsaved modifications.
func (b *Buffer) Dirty() bool {
	return b.dirty
}

// Filename returns the file the buffer is loaded from and saved to.
func (b *Buffer) Filename() string {
	return b.filename
}

// SetFilename sets the file used by Save.
func (b *Buffer) SetFilename(name string) {
	b.filename = name
}

// TabStop returns the tab width used for rendering.
func (b *Buffer) TabStop() int {
	return b.tabStop
}

// RenderColumn returns the visual column of raw column col in row i, or 0
// for the virtual row past the end.
func (b *Buffer) RenderColumn(i, col int) int {
	r := b.Row(i)
	if r == nil {
		return 0
	}
	return RenderColumn(r.chars, col, b.tabStop)
}

// InsertRow inserts a row holding a copy of s at index at, clamped into
// [0, NumRows()].
func (b *Buffer) InsertRow(at int, s []byte) {
	at = clamp(at, 0, len(b.rows))
	row := newRow(s, b.tabStop)
	b.rows = append(b.rows, nil)
	copy(b.rows[at+1:], b.rows[at:])
	b.rows[at] = row
	b.dirty = true
}

// DeleteRow removes row at. Out of range indexes are ignored.
func (b *Buffer) DeleteRow(at int) {
	if at < 0 || at >= len(b.rows) {
		return
	}
	copy(b.rows[at:], b.rows[at+1:])
	b.rows[len(b.rows)-1] = nil
	b.rows = b.rows[:len(b.rows)-1]
	b.dirty = true
}

// InsertChar inserts c before raw column col of row i. Typing on the
// virtual row past the end first appends an empty row. col is clamped
// into [0, row length].
func (b *Buffer) InsertChar(i, col int, c byte) {
	if i == len(b.rows) {
		b.InsertRow(len(b.rows), nil)
	}
	r := b.Row(i)
	if r == nil {
		log.Warn(log.CatBuffer, "insert outside buffer", "row", i, "rows", len(b.rows))
		return
	}
	col = clamp(col, 0, len(r.chars))
	r.chars = append(r.chars, 0)
	copy(r.chars[col+1:], r.chars[col:])
	r.chars[col] = c
	r.update(b.tabStop)
	b.dirty = true
}

// DeleteChar removes the byte before raw column col of row i. It does
// nothing at column 0; joining rows is the caller's job.
func (b *Buffer) DeleteChar(i, col int) {
	r := b.Row(i)
	if r == nil || col <= 0 || col > len(r.chars) {
		return
	}
	r.chars = append(r.chars[:col-1], r.chars[col:]...)
	r.update(b.tabStop)
	b.dirty = true
}

// AppendString appends s to the raw text of row i.
func (b *Buffer) AppendString(i int, s []byte) {
	r := b.Row(i)
	if r == nil {
		return
	}
	r.chars = append(r.chars, s...)
	r.update(b.tabStop)
	b.dirty = true
}

// SplitRow moves everything from raw column col of row i onwards into a new
// row inserted after it. col is clamped into [0, row length].
func (b *Buffer) SplitRow(i, col int) {
	r := b.Row(i)
	if r == nil {
		return
	}
	col = clamp(col, 0, len(r.chars))
	b.InsertRow(i+1, r.chars[col:])
	r.chars = r.chars[:col]
	r.update(b.tabStop)
	b.dirty = true
}

// Serialize returns every row's raw text followed by a newline, and the
// total length in bytes.
func (b *Buffer) Serialize() ([]byte, int) {
	n := 0
	for _, r := range b.rows {
		n += len(r.chars) + 1
	}
	var buf bytes.Buffer
	buf.Grow(n)
	for _, r := range b.rows {
		buf.Write(r.chars)
		buf.WriteByte('\n')
	}
	return buf.Bytes(), buf.Len()
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
