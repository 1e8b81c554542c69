// Package machine holds controller-agnostic snapshots of a CNC controller.
package machine

import (
	"strings"

	"github.com/mastercactapus/grbltok/coord"
	"github.com/mastercactapus/grbltok/gcode"
)

type ProbeResult struct {
	coord.Point
	Valid bool
}

// Spindle is the reported spindle direction.
type Spindle byte

const (
	SpindleOff Spindle = iota
	SpindleCW
	SpindleCCW
)

func (s Spindle) String() string {
	switch s {
	case SpindleCW:
		return "CW"
	case SpindleCCW:
		return "CCW"
	}
	return "off"
}

// Pins is a bitmask of active input pins.
type Pins uint16

const (
	PinX Pins = 1 << iota
	PinY
	PinZ
	PinA
	PinProbe
	PinDoor
	PinHold
	PinReset
	PinStart
)

const pinLetters = "XYZAPDHRS"

// PinForLetter returns the pin reported as letter c.
func PinForLetter(c byte) (Pins, bool) {
	i := strings.IndexByte(pinLetters, c)
	if i < 0 {
		return 0, false
	}
	return 1 << i, true
}

func (p Pins) Has(f Pins) bool { return p&f == f }

// String lists the active pins the way a status report does, e.g. "XZP".
func (p Pins) String() string {
	var sb strings.Builder
	for i := 0; i < len(pinLetters); i++ {
		if p&(1<<i) != 0 {
			sb.WriteByte(pinLetters[i])
		}
	}
	return sb.String()
}

// Overrides are the active override ratios, 1 being 100%.
type Overrides struct {
	Feed, Rapid, Spindle float64
}

// State is the last known state of a controller.
type State struct {
	// Status is the run state as reported, such as "Idle" or "Hold:0".
	Status string

	MPos coord.Point
	WPos coord.Point
	WCO  coord.Point

	Feed         float64
	SpindleSpeed float64

	BufferBlocks uint16
	BufferBytes  uint16
	Line         uint32

	Overrides Overrides
	Pins      Pins
	Spindle   Spindle
	Flood     bool
	Mist      bool

	// Alarm and LastError hold the most recent alarm and error codes, 0 if none.
	Alarm     int
	LastError int

	Version string
	Message string

	// Parser is the last reported G-code parser state.
	Parser gcode.State
	TLO    float64

	Home0, Home1     coord.Point
	CoordinateOffset coord.Point
	WCS              [6]coord.Point

	Probe ProbeResult
}

// Idle reports whether the controller can accept new motion.
func (s State) Idle() bool { return s.Status == "Idle" || s.Status == "Hold:0" }
