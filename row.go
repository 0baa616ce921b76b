package rowed

// Row is a single line of the file being edited. render is chars with tabs
// expanded and is rebuilt by update whenever chars changes.
type Row struct {
	chars  []byte
	render []byte
}

func newRow(s []byte, tabStop int) *Row {
	r := &Row{chars: append([]byte(nil), s...)}
	r.update(tabStop)
	return r
}

func (r *Row) update(tabStop int) {
	r.render = expandTabs(r.render[:0], r.chars, tabStop)
}

// Len returns the length of the raw text in bytes.
func (r *Row) Len() int {
	return len(r.chars)
}

// Chars returns a copy of the raw text.
func (r *Row) Chars() string {
	return string(r.chars)
}

// Render returns a copy of the tab-expanded text.
func (r *Row) Render() string {
	return string(r.render)
}

// expandTabs appends chars to dst with every tab replaced by spaces up to the
// next multiple of tabStop. A tab always advances at least one column.
func expandTabs(dst, chars []byte, tabStop int) []byte {
	col := 0
	for _, c := range chars {
		if c == '\t' {
			dst = append(dst, ' ')
			col++
			for col%tabStop != 0 {
				dst = append(dst, ' ')
				col++
			}
			continue
		}
		dst = append(dst, c)
		col++
	}
	return dst
}

// RenderColumn maps the raw byte index rawCol in chars to the visual column
// it is drawn at, using the same expansion as the row's rendered text.
// rawCol is clamped to [0, len(chars)].
func RenderColumn(chars []byte, rawCol, tabStop int) int {
	if rawCol > len(chars) {
		rawCol = len(chars)
	}
	rx := 0
	for i := 0; i < rawCol; i++ {
		if chars[i] == '\t' {
			rx += (tabStop - 1) - (rx % tabStop)
		}
		rx++
	}
	return rx
}
