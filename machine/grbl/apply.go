package grbl

import (
	"github.com/mastercactapus/grbltok/gcode"
	"github.com/mastercactapus/grbltok/machine"
)

// Apply folds tok into s and returns the result. Tokens that carry no
// controller state, such as settings, leave s unchanged.
func Apply(s machine.State, tok Token) machine.State {
	switch t := tok.(type) {
	case Status:
		if !t.OK() {
			s.LastError = t.Err
		}
	case Alarm:
		s.Alarm = int(t.Code)
		s.Status = StateAlarm.String()
	case Welcome:
		// the controller was reset
		s.Alarm = 0
		s.LastError = 0
		s.Message = ""
	case Version:
		s.Version = t.String()
	case ReportOpen:
		// pins and accessories are omitted from a report when none are active
		s.Pins = 0
		s.Spindle = machine.SpindleOff
		s.Flood = false
		s.Mist = false
	case MachineState:
		s.Status = t.String()
		if t.State != StateAlarm {
			s.Alarm = 0
		}
	case MachinePosition:
		s.MPos = t.Point
		s.WPos = s.MPos.Sub(s.WCO)
	case WorkPosition:
		s.WPos = t.Point
		s.MPos = s.WPos.Add(s.WCO)
	case WorkOffset:
		s.WCO = t.Point
		s.WPos = s.MPos.Sub(s.WCO)
	case BufferState:
		s.BufferBlocks = t.Blocks
		s.BufferBytes = t.Bytes
	case LineNumber:
		s.Line = t.Line
	case FeedSpindle:
		s.Feed = t.Feed
		s.SpindleSpeed = t.Spindle
	case PinState:
		s.Pins = t.Pins
	case Overrides:
		s.Overrides = t.Overrides
	case Accessory:
		s.Spindle = t.Spindle
		s.Flood = t.Flood
		s.Mist = t.Mist
	case Message:
		if t.Type == MessageMSG {
			s.Message = t.Text
		}
	case ParserState:
		s.Parser = t.State
	case CoordParam:
		switch t.Param {
		case gcode.ModeGoHome0:
			s.Home0 = t.Point
		case gcode.ModeGoHome1:
			s.Home1 = t.Point
		case gcode.ModeSetCoordinateOffset:
			s.CoordinateOffset = t.Point
		default:
			if i := int(t.Param - gcode.ModeWCS1); i >= 0 && i < len(s.WCS) {
				s.WCS[i] = t.Point
			}
		}
	case ToolLengthOffset:
		s.TLO = t.Z
	case ProbeResult:
		s.Probe = t.ProbeResult
	}
	return s
}

// ApplyAll folds every token in order.
func ApplyAll(s machine.State, tokens []Token) machine.State {
	for _, t := range tokens {
		s = Apply(s, t)
	}
	return s
}
