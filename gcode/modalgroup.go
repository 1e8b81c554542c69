package gcode

import "strconv"

// ModalGroup identifies a set of mutually exclusive G or M words.
type ModalGroup byte

const (
	ModalGroupNone ModalGroup = iota
	ModalGroupNonModal
	ModalGroupControlMode
	ModalGroupStopping
	ModalGroupMotion
	ModalGroupCoordinateSystem
	ModalGroupPlaneSelection
	ModalGroupDistanceMode
	ModalGroupArcDistanceMode
	ModalGroupFeedRateMode
	ModalGroupUnits
	ModalGroupCutterCompensationMode
	ModalGroupToolLength
	ModalGroupSpindle
	ModalGroupCoolant

	numModalGroups
)

var groupNames = [...]string{
	ModalGroupNone:                   "none",
	ModalGroupNonModal:               "non-modal",
	ModalGroupControlMode:            "control mode",
	ModalGroupStopping:               "program mode",
	ModalGroupMotion:                 "motion",
	ModalGroupCoordinateSystem:       "coordinate system",
	ModalGroupPlaneSelection:         "plane",
	ModalGroupDistanceMode:           "distance mode",
	ModalGroupArcDistanceMode:        "arc distance mode",
	ModalGroupFeedRateMode:           "feed rate mode",
	ModalGroupUnits:                  "units",
	ModalGroupCutterCompensationMode: "cutter compensation",
	ModalGroupToolLength:             "tool length offset",
	ModalGroupSpindle:                "spindle",
	ModalGroupCoolant:                "coolant",
}

func (g ModalGroup) String() string {
	if int(g) < len(groupNames) {
		return groupNames[g]
	}
	return "group(" + strconv.Itoa(int(g)) + ")"
}

// Mode is a single selection within a modal group. The zero value, ModeNone,
// means no selection.
type Mode byte

const (
	ModeNone Mode = iota

	ModeDwell               // G4
	ModeSetCoordinateData   // G10
	ModeGoHome0             // G28
	ModeSetHome0            // G28.1
	ModeGoHome1             // G30
	ModeSetHome1            // G30.1
	ModeAbsoluteOverride    // G53
	ModeSetCoordinateOffset // G92
	ModeResetCoordinateOffset

	ModeRapid // G0
	ModeLinear
	ModeArcCW
	ModeArcCCW
	ModeProbeToward        // G38.2
	ModeProbeTowardNoError // G38.3
	ModeProbeAway          // G38.4
	ModeProbeAwayNoError   // G38.5
	ModeMotionCancel       // G80

	ModePlaneXY // G17
	ModePlaneXZ
	ModePlaneYZ

	ModeAbsolute // G90
	ModeRelative

	ModeArcRelative // G91.1

	ModeInverseTime // G93
	ModeUnitsPerMinute

	ModeInches // G20
	ModeMillimeters

	ModeCutterCompOff // G40

	ModeToolLengthDynamic // G43.1
	ModeToolLengthCancel  // G49

	ModeWCS1 // G54
	ModeWCS2
	ModeWCS3
	ModeWCS4
	ModeWCS5
	ModeWCS6

	ModeExactPath // G61

	ModeProgramPause // M0
	ModeOptionalStop
	ModeProgramEnd
	ModeProgramEndReset // M30

	ModeSpindleCW // M3
	ModeSpindleCCW
	ModeSpindleOff

	ModeMist // M7
	ModeFlood
	ModeCoolantOff

	numModes
)

type modeInfo struct {
	letter byte
	value  float64
	group  ModalGroup
}

var modes = [numModes]modeInfo{
	ModeDwell:                 {'G', 4, ModalGroupNonModal},
	ModeSetCoordinateData:     {'G', 10, ModalGroupNonModal},
	ModeGoHome0:               {'G', 28, ModalGroupNonModal},
	ModeSetHome0:              {'G', 28.1, ModalGroupNonModal},
	ModeGoHome1:               {'G', 30, ModalGroupNonModal},
	ModeSetHome1:              {'G', 30.1, ModalGroupNonModal},
	ModeAbsoluteOverride:      {'G', 53, ModalGroupNonModal},
	ModeSetCoordinateOffset:   {'G', 92, ModalGroupNonModal},
	ModeResetCoordinateOffset: {'G', 92.1, ModalGroupNonModal},

	ModeRapid:              {'G', 0, ModalGroupMotion},
	ModeLinear:             {'G', 1, ModalGroupMotion},
	ModeArcCW:              {'G', 2, ModalGroupMotion},
	ModeArcCCW:             {'G', 3, ModalGroupMotion},
	ModeProbeToward:        {'G', 38.2, ModalGroupMotion},
	ModeProbeTowardNoError: {'G', 38.3, ModalGroupMotion},
	ModeProbeAway:          {'G', 38.4, ModalGroupMotion},
	ModeProbeAwayNoError:   {'G', 38.5, ModalGroupMotion},
	ModeMotionCancel:       {'G', 80, ModalGroupMotion},

	ModePlaneXY: {'G', 17, ModalGroupPlaneSelection},
	ModePlaneXZ: {'G', 18, ModalGroupPlaneSelection},
	ModePlaneYZ: {'G', 19, ModalGroupPlaneSelection},

	ModeAbsolute: {'G', 90, ModalGroupDistanceMode},
	ModeRelative: {'G', 91, ModalGroupDistanceMode},

	ModeArcRelative: {'G', 91.1, ModalGroupArcDistanceMode},

	ModeInverseTime:    {'G', 93, ModalGroupFeedRateMode},
	ModeUnitsPerMinute: {'G', 94, ModalGroupFeedRateMode},

	ModeInches:      {'G', 20, ModalGroupUnits},
	ModeMillimeters: {'G', 21, ModalGroupUnits},

	ModeCutterCompOff: {'G', 40, ModalGroupCutterCompensationMode},

	ModeToolLengthDynamic: {'G', 43.1, ModalGroupToolLength},
	ModeToolLengthCancel:  {'G', 49, ModalGroupToolLength},

	ModeWCS1: {'G', 54, ModalGroupCoordinateSystem},
	ModeWCS2: {'G', 55, ModalGroupCoordinateSystem},
	ModeWCS3: {'G', 56, ModalGroupCoordinateSystem},
	ModeWCS4: {'G', 57, ModalGroupCoordinateSystem},
	ModeWCS5: {'G', 58, ModalGroupCoordinateSystem},
	ModeWCS6: {'G', 59, ModalGroupCoordinateSystem},

	ModeExactPath: {'G', 61, ModalGroupControlMode},

	ModeProgramPause:    {'M', 0, ModalGroupStopping},
	ModeOptionalStop:    {'M', 1, ModalGroupStopping},
	ModeProgramEnd:      {'M', 2, ModalGroupStopping},
	ModeProgramEndReset: {'M', 30, ModalGroupStopping},

	ModeSpindleCW:  {'M', 3, ModalGroupSpindle},
	ModeSpindleCCW: {'M', 4, ModalGroupSpindle},
	ModeSpindleOff: {'M', 5, ModalGroupSpindle},

	ModeMist:       {'M', 7, ModalGroupCoolant},
	ModeFlood:      {'M', 8, ModalGroupCoolant},
	ModeCoolantOff: {'M', 9, ModalGroupCoolant},
}

// LookupMode returns the Mode selected by a G or M word.
func LookupMode(letter byte, value float64) (Mode, bool) {
	if letter != 'G' && letter != 'M' {
		return ModeNone, false
	}
	for m := ModeNone + 1; m < numModes; m++ {
		if modes[m].letter == letter && modes[m].value == value {
			return m, true
		}
	}
	return ModeNone, false
}

// Group returns the modal group m belongs to.
func (m Mode) Group() ModalGroup {
	if m >= numModes {
		return ModalGroupNone
	}
	return modes[m].group
}

// Word returns the word that selects m.
func (m Mode) Word() Word {
	if m == ModeNone || m >= numModes {
		return Word{}
	}
	return Word{Letter: modes[m].letter, Value: modes[m].value}
}

func (m Mode) String() string {
	if m == ModeNone || m >= numModes {
		return "none"
	}
	return m.Word().String()
}

// IsArc reports whether m is a G2 or G3 motion.
func (m Mode) IsArc() bool { return m == ModeArcCW || m == ModeArcCCW }

// IsProbe reports whether m is one of the G38.x probing motions.
func (m Mode) IsProbe() bool { return m >= ModeProbeToward && m <= ModeProbeAwayNoError }

// ModalGroup returns the modal group of a G or M word, or ModalGroupNone for
// any other word or an unrecognized value.
func (w Word) ModalGroup() ModalGroup {
	m, ok := LookupMode(w.Letter, w.Value)
	if !ok {
		return ModalGroupNone
	}
	return m.Group()
}
