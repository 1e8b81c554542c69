package gcode

import (
	"io"
	"strings"
)

// Parse tokenizes an entire program, stopping at the first failed line.
func Parse(data string, opts ...Option) (*LineStore, error) {
	p := NewParser(strings.NewReader(data), opts...)
	for {
		_, err := p.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
	}
	return p.Tokenizer().Lines(), nil
}

// MustParse is like Parse but panics on error.
func MustParse(data string, opts ...Option) *LineStore {
	s, err := Parse(data, opts...)
	if err != nil {
		panic(err)
	}
	return s
}
