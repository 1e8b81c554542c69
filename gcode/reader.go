package gcode

import "io"

// Reader is a source of Lines. *Parser implements it.
type Reader interface {
	Read() (Line, error)
}

// LinesReader replays a fixed list of lines.
type LinesReader struct {
	Lines []Line
	n     int
}

func (r *LinesReader) Read() (Line, error) {
	if r.n == len(r.Lines) {
		return Line{}, io.EOF
	}

	r.n++
	return r.Lines[r.n-1], nil
}
