// Package scan provides the bounded numeric readers shared by the G-code and
// Grbl response tokenizers.
package scan

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/mastercactapus/grbltok/coord"
)

var (
	// ErrEOL is returned when the input ends before a required value or separator.
	ErrEOL = errors.New("unexpected end of line")

	// ErrNoDigits is returned when a number has no digits.
	ErrNoDigits = errors.New("expected digits")

	// ErrRange is returned when a signed integer does not fit in 64 bits.
	ErrRange = errors.New("number out of range")

	// ErrUnexpected is returned when a required separator is missing.
	ErrUnexpected = errors.New("unexpected character")
)

// Cursor reads from a fixed byte slice. The zero value reads nothing.
type Cursor struct {
	buf []byte
	pos int
}

// NewCursor returns a Cursor positioned at the start of data.
func NewCursor(data []byte) *Cursor { return &Cursor{buf: data} }

// Pos returns the number of bytes consumed so far.
func (c *Cursor) Pos() int { return c.pos }

// Remaining returns the number of unread bytes.
func (c *Cursor) Remaining() int { return len(c.buf) - c.pos }

// AtEnd reports whether all bytes have been consumed.
func (c *Cursor) AtEnd() bool { return c.pos >= len(c.buf) }

// Rest returns the unread bytes without consuming them.
func (c *Cursor) Rest() []byte { return c.buf[c.pos:] }

// Skip consumes up to n bytes.
func (c *Cursor) Skip(n int) {
	c.pos += n
	if c.pos > len(c.buf) {
		c.pos = len(c.buf)
	}
}

// Peek returns the next byte without consuming it.
func (c *Cursor) Peek() (byte, bool) {
	if c.AtEnd() {
		return 0, false
	}
	return c.buf[c.pos], true
}

// Next consumes and returns the next byte.
func (c *Cursor) Next() (byte, error) {
	if c.AtEnd() {
		return 0, ErrEOL
	}
	c.pos++
	return c.buf[c.pos-1], nil
}

// Expect consumes b or fails without consuming anything.
func (c *Cursor) Expect(b byte) error {
	n, ok := c.Peek()
	if !ok {
		return ErrEOL
	}
	if n != b {
		return unexpected(b, n)
	}
	c.pos++
	return nil
}

// ExpectString consumes s if the unread bytes start with it.
func (c *Cursor) ExpectString(s string) bool {
	if c.Remaining() < len(s) || string(c.buf[c.pos:c.pos+len(s)]) != s {
		return false
	}
	c.pos += len(s)
	return true
}

// Until consumes and returns bytes up to (not including) the first b, or the
// rest of the input if b does not occur.
func (c *Cursor) Until(b byte) []byte {
	start := c.pos
	for c.pos < len(c.buf) && c.buf[c.pos] != b {
		c.pos++
	}
	return c.buf[start:c.pos]
}

// UntilAny consumes and returns bytes up to the first byte found in stops.
func (c *Cursor) UntilAny(stops string) []byte {
	start := c.pos
	for c.pos < len(c.buf) && strings.IndexByte(stops, c.buf[c.pos]) < 0 {
		c.pos++
	}
	return c.buf[start:c.pos]
}

// IsDigit reports whether b is an ASCII decimal digit.
func IsDigit(b byte) bool { return b >= '0' && b <= '9' }

func (c *Cursor) digits() int {
	start := c.pos
	for c.pos < len(c.buf) && IsDigit(c.buf[c.pos]) {
		c.pos++
	}
	return c.pos - start
}

// SignedInt reads an optional '-' followed by decimal digits. It fails only
// if no digit follows the sign.
func (c *Cursor) SignedInt() (int64, error) {
	start := c.pos
	neg := c.ExpectString("-")
	var v int64
	n := 0
	for c.pos < len(c.buf) && IsDigit(c.buf[c.pos]) {
		d := int64(c.buf[c.pos] - '0')
		if v > (math.MaxInt64-d)/10 {
			c.pos = start
			return 0, ErrRange
		}
		v = v*10 + d
		c.pos++
		n++
	}
	if n == 0 {
		c.pos = start
		if c.AtEnd() {
			return 0, ErrEOL
		}
		return 0, ErrNoDigits
	}
	if neg {
		v = -v
	}
	return v, nil
}

// Uint16 reads decimal digits, saturating at math.MaxUint16. Zero digits yield 0.
func (c *Cursor) Uint16() uint16 {
	v := c.Uint32()
	if v > math.MaxUint16 {
		return math.MaxUint16
	}
	return uint16(v)
}

// Uint32 reads decimal digits, saturating at math.MaxUint32. Zero digits yield 0.
func (c *Cursor) Uint32() uint32 {
	var v uint64
	for c.pos < len(c.buf) && IsDigit(c.buf[c.pos]) {
		if v <= math.MaxUint32 {
			v = v*10 + uint64(c.buf[c.pos]-'0')
		}
		c.pos++
	}
	if v > math.MaxUint32 {
		return math.MaxUint32
	}
	return uint32(v)
}

// Float reads a fixed-point number: an optional '-', an integer part, and an
// optional '.' followed by fraction digits. Exponents are not accepted. The
// integer part may be empty only when fraction digits follow.
func (c *Cursor) Float() (float64, error) {
	start := c.pos
	c.ExpectString("-")
	whole := c.digits()
	frac := 0
	if c.ExpectString(".") {
		frac = c.digits()
	}
	if whole == 0 && frac == 0 {
		c.pos = start
		if c.AtEnd() {
			return 0, ErrEOL
		}
		return 0, ErrNoDigits
	}

	// the grammar is already validated, ParseFloat gives the correctly rounded
	// value of whole + frac/10^digits
	v, err := strconv.ParseFloat(string(c.buf[start:c.pos]), 64)
	if err != nil {
		c.pos = start
		return 0, ErrRange
	}
	return v, nil
}

// Triple reads three comma-separated floats.
func (c *Cursor) Triple() (p coord.Point, err error) {
	p.X, err = c.Float()
	if err != nil {
		return p, err
	}
	if err = c.Expect(','); err != nil {
		return p, err
	}
	p.Y, err = c.Float()
	if err != nil {
		return p, err
	}
	if err = c.Expect(','); err != nil {
		return p, err
	}
	p.Z, err = c.Float()
	return p, err
}

func unexpected(want, got byte) error {
	return &UnexpectedError{Want: want, Got: got}
}

// UnexpectedError describes a missing separator.
type UnexpectedError struct {
	Want, Got byte
}

func (e *UnexpectedError) Error() string {
	return "expected " + strconv.QuoteRune(rune(e.Want)) + ", got " + strconv.QuoteRune(rune(e.Got))
}

// Is matches ErrUnexpected.
func (e *UnexpectedError) Is(target error) bool { return target == ErrUnexpected }
