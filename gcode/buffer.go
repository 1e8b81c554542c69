package gcode

import (
	"bytes"
	"io"
)

// Buffer renders the lines of a Reader as newline terminated text.
// Realtime lines are written as their single command byte.
type Buffer struct {
	gr  Reader
	buf bytes.Buffer
	err error
}

var _ io.Reader = &Buffer{}

func NewBuffer(r Reader) *Buffer {
	return &Buffer{gr: r}
}

func (b *Buffer) Read(p []byte) (int, error) {
	for b.err == nil && b.buf.Len() < len(p) {
		var l Line
		l, b.err = b.gr.Read()
		if b.err != nil {
			break
		}
		b.buf.WriteString(l.String())
		if !l.Type.IsRealtime() {
			b.buf.WriteByte('\n')
		}
	}

	if b.buf.Len() > 0 {
		return b.buf.Read(p)
	}
	return 0, b.err
}
