package gcode

import (
	"bufio"
	"io"
)

// Parser reads Lines from an io.Reader.
type Parser struct {
	br  *bufio.Reader
	t   *Tokenizer
	raw []byte
	n   int
	eof bool
}

// NewParser returns a Parser reading from r. Options are passed to the
// underlying Tokenizer.
func NewParser(r io.Reader, opts ...Option) *Parser {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}
	return &Parser{br: br, t: NewTokenizer(opts...), n: 1}
}

// Tokenizer returns the Tokenizer used by p.
func (p *Parser) Tokenizer() *Tokenizer { return p.t }

// Read returns the next completed line. Failed lines are returned as a
// *ParseError; reading may continue after one. At the end of input Read
// returns io.EOF.
func (p *Parser) Read() (Line, error) {
	for {
		if p.eof {
			return Line{}, io.EOF
		}
		c, err := p.br.ReadByte()
		if err == io.EOF {
			p.eof = true
			// terminate a trailing line that has no newline
			c = '\n'
		} else if err != nil {
			return Line{}, err
		}

		line := p.n
		if c == '\n' {
			p.n++
		} else if c != '\r' {
			p.raw = append(p.raw, c)
		}

		complete, err := p.t.Push(c)
		if c == '\n' || complete {
			text := string(p.raw)
			p.raw = p.raw[:0]
			if err != nil {
				return Line{}, &ParseError{Line: line, Text: text, Err: err}
			}
		}
		if complete {
			l, _ := p.t.Lines().Last()
			return l, nil
		}
	}
}
