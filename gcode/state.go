package gcode

import (
	"strconv"
	"strings"
)

// State is the persistent modal state of the controller: one Mode per modal
// group plus the feed, spindle speed and tool scalars.
type State struct {
	Modes [numModalGroups]Mode

	Feed    float64
	Spindle float64
	Tool    uint32
}

// DefaultState returns the modes a controller is assumed to be in before any
// line selects them.
func DefaultState() State {
	var s State
	s.Set(ModeRapid)
	s.Set(ModeWCS1)
	s.Set(ModePlaneXY)
	s.Set(ModeAbsolute)
	s.Set(ModeInverseTime)
	s.Set(ModeMillimeters)
	s.Set(ModeSpindleOff)
	s.Set(ModeCoolantOff)
	return s
}

// Mode returns the active selection for g.
func (s State) Mode(g ModalGroup) Mode {
	if g >= numModalGroups {
		return ModeNone
	}
	return s.Modes[g]
}

// Set makes m the active selection of its group.
func (s *State) Set(m Mode) {
	if g := m.Group(); g != ModalGroupNone {
		s.Modes[g] = m
	}
}

// Clear unsets the selection for g.
func (s *State) Clear(g ModalGroup) {
	if g < numModalGroups {
		s.Modes[g] = ModeNone
	}
}

func (s State) Motion() Mode           { return s.Modes[ModalGroupMotion] }
func (s State) CoordinateSystem() Mode { return s.Modes[ModalGroupCoordinateSystem] }
func (s State) Plane() Mode            { return s.Modes[ModalGroupPlaneSelection] }
func (s State) Distance() Mode         { return s.Modes[ModalGroupDistanceMode] }
func (s State) FeedRateMode() Mode     { return s.Modes[ModalGroupFeedRateMode] }
func (s State) Units() Mode            { return s.Modes[ModalGroupUnits] }
func (s State) SpindleState() Mode     { return s.Modes[ModalGroupSpindle] }
func (s State) Coolant() Mode          { return s.Modes[ModalGroupCoolant] }
func (s State) Program() Mode          { return s.Modes[ModalGroupStopping] }

func (s State) Inches() bool         { return s.Units() == ModeInches }
func (s State) RelativeMotion() bool { return s.Distance() == ModeRelative }

// withDefaults fills every unset group from def.
func (s State) withDefaults(def State) State {
	for g := range s.Modes {
		if s.Modes[g] == ModeNone {
			s.Modes[g] = def.Modes[g]
		}
	}
	return s
}

// persistent lists the groups restored by Preamble, in output order.
var persistent = []ModalGroup{
	ModalGroupCoordinateSystem,
	ModalGroupPlaneSelection,
	ModalGroupUnits,
	ModalGroupDistanceMode,
	ModalGroupArcDistanceMode,
	ModalGroupFeedRateMode,
	ModalGroupCutterCompensationMode,
	ModalGroupToolLength,
	ModalGroupControlMode,
	ModalGroupSpindle,
	ModalGroupCoolant,
}

// Preamble returns a block that puts a controller into s. Arc and probe
// motion modes need axis words, so only G0, G1 and G80 are restored.
func (s State) Preamble() Block {
	var b Block
	switch m := s.Motion(); m {
	case ModeRapid, ModeLinear, ModeMotionCancel:
		b = append(b, m.Word())
	}
	for _, g := range persistent {
		if m := s.Modes[g]; m != ModeNone {
			b = append(b, m.Word())
		}
	}
	b = append(b,
		Word{Letter: 'T', Value: float64(s.Tool)},
		Word{Letter: 'F', Value: s.Feed},
		Word{Letter: 'S', Value: s.Spindle},
	)
	return b
}

// String formats s the way a parser state report lists it, e.g.
// "G0 G54 G17 G21 G90 G94 M5 M9 T0 F0 S0".
func (s State) String() string {
	parts := make([]string, 0, 16)
	for _, g := range []ModalGroup{
		ModalGroupMotion,
		ModalGroupCoordinateSystem,
		ModalGroupPlaneSelection,
		ModalGroupUnits,
		ModalGroupDistanceMode,
		ModalGroupArcDistanceMode,
		ModalGroupFeedRateMode,
		ModalGroupCutterCompensationMode,
		ModalGroupToolLength,
		ModalGroupControlMode,
		ModalGroupStopping,
		ModalGroupSpindle,
		ModalGroupCoolant,
	} {
		if m := s.Modes[g]; m != ModeNone {
			parts = append(parts, m.String())
		}
	}
	parts = append(parts,
		"T"+strconv.FormatUint(uint64(s.Tool), 10),
		"F"+formatFloat(s.Feed, 4),
		"S"+formatFloat(s.Spindle, 4),
	)
	return strings.Join(parts, " ")
}
