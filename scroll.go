package rowed

// Cursor is a position in the buffer. Col is a raw byte index into the row;
// Row may equal NumRows, the virtual row past the end of the file.
type Cursor struct {
	Row, Col int
}

// Viewport is the visible window onto the buffer.
type Viewport struct {
	RowOffset  int // first visible row
	ColOffset  int // first visible render column
	RenderX    int // cursor's render column, derived by Scroll
	ScreenRows int // rows available for text
	ScreenCols int
}

// Scroll recomputes RenderX for c and moves the offsets by exactly as much
// as is needed to bring the cursor back into view.
func (v *Viewport) Scroll(b *Buffer, c Cursor) {
	v.RenderX = b.RenderColumn(c.Row, c.Col)

	if c.Row < v.RowOffset {
		v.RowOffset = c.Row
	}
	if c.Row >= v.RowOffset+v.ScreenRows {
		v.RowOffset = c.Row - v.ScreenRows + 1
	}
	if v.RenderX < v.ColOffset {
		v.ColOffset = v.RenderX
	}
	if v.RenderX >= v.ColOffset+v.ScreenCols {
		v.ColOffset = v.RenderX - v.ScreenCols + 1
	}
}
