package gcode

import (
	"errors"
	"strconv"
)

var (
	// structural
	ErrMissingValue        = errors.New("word letter without a value")
	ErrMissingLetter       = errors.New("value without a word letter")
	ErrInvalidNumber       = errors.New("invalid number")
	ErrInvalidCharacter    = errors.New("invalid character")
	ErrUnterminatedComment = errors.New("unterminated comment")

	// semantic
	ErrUnknownWord        = errors.New("unknown word letter")
	ErrUnsupportedCommand = errors.New("unsupported command")
	ErrInvalidDollar      = errors.New("invalid $ command")

	// modal
	ErrDuplicateWord       = errors.New("word repeated on a line")
	ErrModalGroupViolation = errors.New("multiple words from the same modal group")
	ErrNoAxisWords         = errors.New("motion mode requires an axis word")

	// resource
	ErrLineTooLong = errors.New("line too long")
)

// ParseError records the line that failed during Parse.
type ParseError struct {
	// Line is the 1-based line number in the input.
	Line int
	Text string
	Err  error
}

func (e *ParseError) Error() string {
	return "line " + strconv.Itoa(e.Line) + ": " + e.Err.Error() + ": " + strconv.Quote(e.Text)
}

func (e *ParseError) Unwrap() error { return e.Err }
