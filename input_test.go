package rowed

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestProcessKey_RightArrowWrapsToNextRow(t *testing.T) {
	e := newTestEditor("abc", "def")
	e.cursor = Cursor{Row: 0, Col: 3}
	press(e, KeyArrowRight)
	require.Equal(t, Cursor{Row: 1, Col: 0}, e.cursor)
}

func TestProcessKey_LeftArrowWrapsToPreviousRowEnd(t *testing.T) {
	e := newTestEditor("abc", "def")
	e.cursor = Cursor{Row: 1, Col: 0}
	press(e, KeyArrowLeft)
	require.Equal(t, Cursor{Row: 0, Col: 3}, e.cursor)

	e.cursor = Cursor{}
	press(e, KeyArrowLeft)
	require.Equal(t, Cursor{}, e.cursor, "nothing before the buffer start")
}

func TestProcessKey_VerticalMovesClampColumn(t *testing.T) {
	e := newTestEditor("a long row", "ab", "")
	e.cursor = Cursor{Row: 0, Col: 8}
	press(e, KeyArrowDown)
	require.Equal(t, Cursor{Row: 1, Col: 2}, e.cursor)
	press(e, KeyArrowDown, KeyArrowDown)
	require.Equal(t, Cursor{Row: 3, Col: 0}, e.cursor, "virtual row past the end")
	press(e, KeyArrowDown)
	require.Equal(t, Cursor{Row: 3, Col: 0}, e.cursor)
	press(e, KeyArrowUp, KeyArrowUp, KeyArrowUp, KeyArrowUp)
	require.Equal(t, Cursor{Row: 0, Col: 0}, e.cursor)
}

func TestProcessKey_HomeEnd(t *testing.T) {
	e := newTestEditor("hello")
	e.cursor = Cursor{Row: 0, Col: 2}
	press(e, KeyEnd)
	require.Equal(t, 5, e.cursor.Col)
	press(e, KeyHome)
	require.Equal(t, 0, e.cursor.Col)

	e.cursor = Cursor{Row: 1}
	press(e, KeyEnd)
	require.Equal(t, Cursor{Row: 1}, e.cursor)
}

func TestProcessKey_PageDownAndUp(t *testing.T) {
	lines := make([]string, 50)
	for i := range lines {
		lines[i] = "line"
	}
	e := newTestEditor(lines...)

	press(e, KeyPageDown)
	// To the bottom edge (row 9), then ten rows further.
	require.Equal(t, 19, e.cursor.Row)

	press(e, KeyPageUp)
	e.view.Scroll(e.buf, e.cursor)
	require.Equal(t, 0, e.cursor.Row)
}

func TestProcessKey_PageDownStopsAtEnd(t *testing.T) {
	e := newTestEditor("1", "2", "3")
	press(e, KeyPageDown)
	require.Equal(t, 3, e.cursor.Row)
}

func TestProcessKey_TypingInsertsAndAdvances(t *testing.T) {
	e := newTestEditor()
	typeString(e, "hi\tthere")
	require.Equal(t, []string{"hi\tthere"}, rowsOf(e.buf))
	require.Equal(t, Cursor{Row: 0, Col: 8}, e.cursor)
	require.True(t, e.buf.Dirty())
}

func TestProcessKey_UnboundControlBytesIgnored(t *testing.T) {
	e := newTestEditor("x")
	press(e, CtrlKey('c'), CtrlKey('l'), KeyEsc, KeyNull)
	require.Equal(t, []string{"x"}, rowsOf(e.buf))
	require.False(t, e.buf.Dirty())
}

func TestProcessKey_UTF8BytesInsertedVerbatim(t *testing.T) {
	e := newTestEditor()
	typeString(e, "é")
	require.Equal(t, "é", e.buf.Row(0).Chars())
	require.Equal(t, 2, e.cursor.Col)
}

func TestProcessKey_BackspaceJoinsRows(t *testing.T) {
	e := newTestEditor("foo", "bar")
	e.cursor = Cursor{Row: 1, Col: 0}
	press(e, KeyBackspace)
	require.Equal(t, []string{"foobar"}, rowsOf(e.buf))
	require.Equal(t, Cursor{Row: 0, Col: 3}, e.cursor)
}

func TestProcessKey_BackspaceAtBufferStartIsNoop(t *testing.T) {
	e := newTestEditor("foo")
	press(e, KeyBackspace, CtrlKey('h'))
	require.Equal(t, []string{"foo"}, rowsOf(e.buf))
	require.False(t, e.buf.Dirty())
}

func TestProcessKey_BackspaceDeletesBeforeCursor(t *testing.T) {
	e := newTestEditor("abc")
	e.cursor = Cursor{Row: 0, Col: 2}
	press(e, CtrlKey('h'))
	require.Equal(t, []string{"ac"}, rowsOf(e.buf))
	require.Equal(t, 1, e.cursor.Col)
}

func TestProcessKey_DeleteRemovesUnderCursor(t *testing.T) {
	e := newTestEditor("abc", "def")
	e.cursor = Cursor{Row: 0, Col: 1}
	press(e, KeyDelete)
	require.Equal(t, []string{"ac", "def"}, rowsOf(e.buf))
	require.Equal(t, Cursor{Row: 0, Col: 1}, e.cursor)

	// At the end of a row it pulls the next row up.
	e.cursor = Cursor{Row: 0, Col: 2}
	press(e, KeyDelete)
	require.Equal(t, []string{"acdef"}, rowsOf(e.buf))
	require.Equal(t, Cursor{Row: 0, Col: 2}, e.cursor)
}

func TestProcessKey_DeleteAtBufferEnd(t *testing.T) {
	e := newTestEditor("ab")
	e.cursor = Cursor{Row: 0, Col: 2}
	press(e, KeyDelete)
	require.Equal(t, []string{"ab"}, rowsOf(e.buf))
	require.Equal(t, Cursor{Row: 1, Col: 0}, e.cursor)
}

func TestProcessKey_EnterSplitsRow(t *testing.T) {
	e := newTestEditor("helloworld")
	e.cursor = Cursor{Row: 0, Col: 5}
	press(e, KeyEnter)
	require.Equal(t, []string{"hello", "world"}, rowsOf(e.buf))
	require.Equal(t, Cursor{Row: 1, Col: 0}, e.cursor)

	press(e, KeyEnter)
	require.Equal(t, []string{"hello", "", "world"}, rowsOf(e.buf))
	require.Equal(t, Cursor{Row: 2, Col: 0}, e.cursor)
}

func TestProcessKey_EnterOnEmptyBuffer(t *testing.T) {
	e := newTestEditor()
	press(e, KeyEnter)
	typeString(e, "x")
	require.Equal(t, []string{"", "x"}, rowsOf(e.buf))
}

func TestProcessKey_QuitWhenClean(t *testing.T) {
	e := newTestEditor("x")
	require.False(t, e.ProcessKey(CtrlKey('q')))
}

func TestProcessKey_QuitConfirmationWhenDirty(t *testing.T) {
	e := newTestEditor("x")
	typeString(e, "y")

	require.True(t, e.ProcessKey(CtrlKey('q')))
	require.Equal(t, 2, e.quitTimes, "one press decrements exactly once")
	require.Contains(t, e.status.Current(), "Press Ctrl-Q 2 more times")

	require.True(t, e.ProcessKey(CtrlKey('q')))
	require.False(t, e.ProcessKey(CtrlKey('q')), "third consecutive press exits")
}

func TestProcessKey_OtherKeyResetsQuitCounter(t *testing.T) {
	e := newTestEditor("x")
	typeString(e, "y")

	e.ProcessKey(CtrlKey('q'))
	e.ProcessKey(CtrlKey('q'))
	e.ProcessKey(KeyArrowRight)
	require.Equal(t, 3, e.quitTimes)
	require.True(t, e.ProcessKey(CtrlKey('q')))
}

func TestProcessKey_ConfiguredQuitKey(t *testing.T) {
	cfg := testConfig()
	cfg.Keys.Quit = "ctrl-d"
	e := New(cfg)
	require.True(t, e.ProcessKey(CtrlKey('q')), "ctrl-q is not bound any more")
	require.False(t, e.ProcessKey(CtrlKey('d')))
}

func TestProcessKey_SaveFailureKeepsEdits(t *testing.T) {
	e := newTestEditor("keep")
	e.buf.SetFilename(t.TempDir())
	typeString(e, "!")

	press(e, CtrlKey('s'))

	require.True(t, e.buf.Dirty())
	require.Equal(t, []string{"!keep"}, rowsOf(e.buf))
	require.Contains(t, e.status.Current(), "Can't save! I/O error")
}

func TestProcessKey_SaveWithoutFilename(t *testing.T) {
	e := newTestEditor("x")
	press(e, CtrlKey('s'))
	require.Equal(t, "No file name, nothing saved", e.status.Current())
}

func TestProcessKey_SaveSuccess(t *testing.T) {
	e := newTestEditor("abc")
	e.buf.SetFilename(filepath.Join(t.TempDir(), "new.txt"))
	typeString(e, "z")
	press(e, CtrlKey('s'))
	require.False(t, e.buf.Dirty())
	require.Equal(t, "5 bytes written on disk", e.status.Current())
}
