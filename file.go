package rowed

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/xyproto/rowed/internal/log"
)

// Load replaces the buffer contents with the lines of filename, with
// trailing newline and carriage return bytes stripped from each line.
func (b *Buffer) Load(filename string) error {
	f, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("opening %s: %w", filename, err)
	}
	defer f.Close()

	b.rows = b.rows[:0]
	if err := b.readRows(f); err != nil {
		return fmt.Errorf("reading %s: %w", filename, err)
	}
	b.filename = filename
	b.dirty = false
	log.Info(log.CatFile, "loaded", "path", filename, "rows", len(b.rows))
	return nil
}

func (b *Buffer) readRows(r io.Reader) error {
	br := bufio.NewReader(r)
	for {
		line, err := br.ReadBytes('\n')
		if len(line) > 0 {
			b.InsertRow(len(b.rows), bytes.TrimRight(line, "\r\n"))
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// Save writes the buffer to its file by truncating it to the serialized
// length and writing every byte. On success it clears the dirty flag and
// returns the number of bytes written. On failure the buffer, including
// the dirty flag, is left untouched.
func (b *Buffer) Save() (int, error) {
	if b.filename == "" {
		return 0, ErrNoFilename
	}
	data, n := b.Serialize()
	if err := writeFile(b.filename, data); err != nil {
		log.ErrorErr(log.CatFile, "save failed", err, "path", b.filename)
		return 0, err
	}
	b.dirty = false
	log.Info(log.CatFile, "saved", "path", b.filename, "bytes", n)
	return n, nil
}

func writeFile(name string, data []byte) (err error) {
	f, err := os.OpenFile(name, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	if err := f.Truncate(int64(len(data))); err != nil {
		return err
	}
	n, err := f.Write(data)
	if err != nil {
		return err
	}
	if n != len(data) {
		return io.ErrShortWrite
	}
	return nil
}
