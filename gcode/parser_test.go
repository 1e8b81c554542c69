package gcode

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParser_Read(t *testing.T) {
	p := NewParser(strings.NewReader("G1X1\r\n\n(note)\nX1X2\nX2"))

	l, err := p.Read()
	require.NoError(t, err)
	assert.Equal(t, "G1X1", l.String())

	l, err = p.Read()
	require.NoError(t, err)
	assert.Equal(t, LineComment, l.Type)

	_, err = p.Read()
	var perr *ParseError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, 4, perr.Line)
	assert.Equal(t, "X1X2", perr.Text)
	assert.ErrorIs(t, err, ErrDuplicateWord)

	// a trailing line without a newline is still returned
	l, err = p.Read()
	require.NoError(t, err)
	assert.Equal(t, "X2", l.String())
	assert.Equal(t, ModeLinear, l.State.Motion())

	_, err = p.Read()
	assert.Equal(t, io.EOF, err)
	_, err = p.Read()
	assert.Equal(t, io.EOF, err)
}

func TestParse(t *testing.T) {
	s, err := Parse("G21\nG1 X1 F100\n")
	require.NoError(t, err)
	assert.Equal(t, 2, s.Len())

	_, err = Parse("G21\nG0 G1\n")
	assert.ErrorIs(t, err, ErrModalGroupViolation)
	assert.EqualError(t, err, `line 2: multiple words from the same modal group: G0 and G1 (motion): "G0 G1"`)

	assert.Panics(t, func() { MustParse("Q1\n") })
}

func TestLinesReader(t *testing.T) {
	lines := MustParse("G1G21X0\nM2\n").Lines()
	gr := &LinesReader{Lines: lines}

	l, err := gr.Read()
	assert.NoError(t, err)
	assert.Equal(t, Block{{'G', 1}, {'G', 21}, {'X', 0}}, l.Words)

	l, err = gr.Read()
	assert.NoError(t, err)
	assert.Equal(t, LineM, l.Type)

	_, err = gr.Read()
	assert.Equal(t, io.EOF, err)
}

func TestBuffer_Read(t *testing.T) {
	gr := NewParser(strings.NewReader("g1 x1\n?M3 S100\n"))
	b := NewBuffer(gr)

	data, err := io.ReadAll(b)
	assert.NoError(t, err)
	assert.Equal(t, "G1X1\n?M3S100\n", string(data))

	n, err := b.Read(make([]byte, 4))
	assert.Equal(t, io.EOF, err)
	assert.Equal(t, 0, n)
}
