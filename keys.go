package rowed

import (
	"errors"
	"fmt"
	"io"

	"golang.org/x/sys/unix"

	"github.com/xyproto/rowed/internal/log"
)

// Key is a decoded keypress: either a byte passed through unchanged or one
// of the named keys at or above KeyArrowLeft.
type Key int

// Byte-valued keys
const (
	KeyNull      Key = 0
	KeyTab       Key = 9
	KeyEnter     Key = 13
	KeyEsc       Key = 27
	KeyBackspace Key = 127
)

// Named keys decoded from escape sequences
const (
	KeyArrowLeft Key = iota + 1000
	KeyArrowRight
	KeyArrowUp
	KeyArrowDown
	KeyDelete
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
)

// CtrlKey returns the key the terminal sends for Ctrl plus the letter c.
func CtrlKey(c byte) Key {
	return Key(c & 0x1f)
}

func (k Key) String() string {
	switch k {
	case KeyArrowLeft:
		return "left"
	case KeyArrowRight:
		return "right"
	case KeyArrowUp:
		return "up"
	case KeyArrowDown:
		return "down"
	case KeyDelete:
		return "delete"
	case KeyHome:
		return "home"
	case KeyEnd:
		return "end"
	case KeyPageUp:
		return "pgup"
	case KeyPageDown:
		return "pgdn"
	case KeyBackspace:
		return "backspace"
	case KeyEsc:
		return "esc"
	case KeyEnter:
		return "enter"
	case KeyTab:
		return "tab"
	}
	if k >= 0 && k < 32 {
		return fmt.Sprintf("ctrl-%c", byte(k)+'a'-1)
	}
	if k >= 32 && k < 256 {
		return fmt.Sprintf("%q", rune(k))
	}
	return fmt.Sprintf("key(%d)", int(k))
}

// decodeState is the position inside an escape sequence.
type decodeState int

const (
	stateEsc     decodeState = iota // got ESC
	stateBracket                    // got ESC [
	stateSS3                        // got ESC O
	stateDigit                      // got ESC [ digit
	stateOther                      // got ESC x, x unrecognised
)

// Decoder turns the raw byte stream from a terminal into keys.
//
// The reader is expected to behave like a raw-mode tty with VMIN=0 and
// VTIME>0: a read may return zero bytes and no error when nothing arrived
// before the timeout.
type Decoder struct {
	r io.Reader
	// Idle, when set, is called every time a read times out while waiting
	// for the first byte of a key.
	Idle func()
	b    [1]byte
}

// NewDecoder returns a Decoder reading from r.
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{r: r}
}

// ReadKey blocks until one complete key has been read. Malformed or
// truncated escape sequences decode to KeyEsc. The only error returned is
// a hard read failure.
func (d *Decoder) ReadKey() (Key, error) {
	c, err := d.readByte()
	if err != nil {
		return KeyNull, err
	}
	if Key(c) != KeyEsc {
		return Key(c), nil
	}
	k := d.decodeEscape()
	log.Debug(log.CatKeys, "escape sequence", "key", k)
	return k, nil
}

// decodeEscape consumes at most three bytes following ESC, one per state
// transition. Any short read yields a bare ESC.
func (d *Decoder) decodeEscape() Key {
	state := stateEsc
	var digit byte
	for {
		c, ok := d.tryByte()
		if !ok {
			return KeyEsc
		}
		switch state {
		case stateEsc:
			switch c {
			case '[':
				state = stateBracket
			case 'O':
				state = stateSS3
			default:
				state = stateOther
			}
		case stateOther:
			return KeyEsc
		case stateBracket:
			if c >= '0' && c <= '9' {
				digit = c
				state = stateDigit
				continue
			}
			switch c {
			case 'A':
				return KeyArrowUp
			case 'B':
				return KeyArrowDown
			case 'C':
				return KeyArrowRight
			case 'D':
				return KeyArrowLeft
			case 'H':
				return KeyHome
			case 'F':
				return KeyEnd
			}
			return KeyEsc
		case stateSS3:
			switch c {
			case 'H':
				return KeyHome
			case 'F':
				return KeyEnd
			}
			return KeyEsc
		case stateDigit:
			if c != '~' {
				return KeyEsc
			}
			switch digit {
			case '1', '7':
				return KeyHome
			case '3':
				return KeyDelete
			case '4', '8':
				return KeyEnd
			case '5':
				return KeyPageUp
			case '6':
				return KeyPageDown
			}
			return KeyEsc
		}
	}
}

// readByte reads one byte, retrying on timeouts.
func (d *Decoder) readByte() (byte, error) {
	for {
		n, err := d.r.Read(d.b[:])
		if n == 1 {
			return d.b[0], nil
		}
		if err != nil && !isTimeout(err) {
			return 0, fmt.Errorf("reading key: %w", err)
		}
		if d.Idle != nil {
			d.Idle()
		}
	}
}

// tryByte makes a single read attempt.
func (d *Decoder) tryByte() (byte, bool) {
	n, _ := d.r.Read(d.b[:])
	if n != 1 {
		return 0, false
	}
	return d.b[0], true
}

// isTimeout reports whether a read error just means no data was ready.
func isTimeout(err error) bool {
	return errors.Is(err, unix.EAGAIN) || errors.Is(err, unix.EINTR)
}
