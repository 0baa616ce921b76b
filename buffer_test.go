package rowed

import (
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func bufferOf(lines ...string) *Buffer {
	b := NewBuffer(8)
	for _, l := range lines {
		b.InsertRow(b.NumRows(), []byte(l))
	}
	b.dirty = false
	return b
}

func rowsOf(b *Buffer) []string {
	out := make([]string, 0, b.NumRows())
	for i := 0; i < b.NumRows(); i++ {
		out = append(out, b.Row(i).Chars())
	}
	return out
}

func TestBuffer_InsertRowClamps(t *testing.T) {
	b := bufferOf("b")
	b.InsertRow(-5, []byte("a"))
	b.InsertRow(100, []byte("c"))
	require.Equal(t, []string{"a", "b", "c"}, rowsOf(b))
	require.True(t, b.Dirty())
}

func TestBuffer_DeleteRow(t *testing.T) {
	b := bufferOf("a", "b", "c")
	b.DeleteRow(1)
	require.Equal(t, []string{"a", "c"}, rowsOf(b))

	b.dirty = false
	b.DeleteRow(7)
	b.DeleteRow(-1)
	require.Equal(t, []string{"a", "c"}, rowsOf(b))
	require.False(t, b.Dirty(), "out of range delete is a no-op")
}

func TestBuffer_InsertCharPastEndAppendsRow(t *testing.T) {
	b := bufferOf("x")
	b.InsertChar(1, 0, 'y')
	require.Equal(t, []string{"x", "y"}, rowsOf(b))

	empty := NewBuffer(8)
	empty.InsertChar(0, 0, 'z')
	require.Equal(t, []string{"z"}, rowsOf(empty))
}

func TestBuffer_InsertCharClampsColumn(t *testing.T) {
	b := bufferOf("ab")
	b.InsertChar(0, 10, 'c')
	b.InsertChar(0, -3, '_')
	require.Equal(t, []string{"_abc"}, rowsOf(b))
}

func TestBuffer_InsertCharUpdatesRender(t *testing.T) {
	b := bufferOf("ab")
	b.InsertChar(0, 1, '\t')
	require.Equal(t, "a       b", b.Row(0).Render())
}

func TestBuffer_DeleteChar(t *testing.T) {
	b := bufferOf("abc")
	b.DeleteChar(0, 2)
	require.Equal(t, []string{"ac"}, rowsOf(b))

	b.dirty = false
	b.DeleteChar(0, 0)
	b.DeleteChar(5, 1)
	require.Equal(t, []string{"ac"}, rowsOf(b))
	require.False(t, b.Dirty())
}

func TestBuffer_AppendString(t *testing.T) {
	b := bufferOf("foo", "bar")
	b.AppendString(0, []byte("bar"))
	require.Equal(t, "foobar", b.Row(0).Chars())
	require.Equal(t, "foobar", b.Row(0).Render())
}

func TestBuffer_SplitRow(t *testing.T) {
	b := bufferOf("hello world", "next")
	b.SplitRow(0, 5)
	require.Equal(t, []string{"hello", " world", "next"}, rowsOf(b))

	b.SplitRow(2, 99)
	require.Equal(t, []string{"hello", " world", "next", ""}, rowsOf(b))
}

func TestBuffer_Serialize(t *testing.T) {
	data, n := bufferOf("one", "", "\tthree").Serialize()
	require.Equal(t, "one\n\n\tthree\n", string(data))
	require.Equal(t, len(data), n)

	data, n = NewBuffer(8).Serialize()
	require.Empty(t, data)
	require.Zero(t, n)
}

func TestBuffer_RenderColumnVirtualRow(t *testing.T) {
	b := bufferOf("\tx")
	require.Equal(t, 8, b.RenderColumn(0, 1))
	require.Equal(t, 0, b.RenderColumn(1, 5))
}

func TestProperty_InsertThenDeleteRestoresRow(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		text := rowText().Draw(rt, "text")
		col := rapid.IntRange(0, len(text)).Draw(rt, "col")
		c := rapid.Byte().Draw(rt, "c")

		b := bufferOf(string(text))
		before := b.Row(0).Render()
		b.InsertChar(0, col, c)
		require.Equal(rt, len(text)+1, b.RowLen(0))
		b.DeleteChar(0, col+1)

		require.Equal(rt, string(text), b.Row(0).Chars())
		require.Equal(rt, len(text), b.RowLen(0))
		require.Equal(rt, before, b.Row(0).Render())
	})
}
