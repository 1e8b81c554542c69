package grbl

import "errors"

var (
	ErrUnknownResponse = errors.New("unrecognized response")
	ErrUnknownState    = errors.New("unknown machine state")
	ErrUnknownField    = errors.New("unknown status report field")
	ErrUnknownSetting  = errors.New("unknown setting")
	ErrUnknownOption   = errors.New("unknown build option")
	ErrUnknownMessage  = errors.New("unknown message")
	ErrInvalidValue    = errors.New("invalid value")
	ErrTrailingData    = errors.New("unexpected data after response")
	ErrLineTooLong     = errors.New("line too long")
)

// LineError is returned by Push for a response line that could not be read.
type LineError struct {
	Text string
	Err  error
}

func (e *LineError) Error() string { return e.Err.Error() + ": " + e.Text }

func (e *LineError) Unwrap() error { return e.Err }
