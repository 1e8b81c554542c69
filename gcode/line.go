package gcode

import (
	"strconv"
)

// LineType classifies a line of input.
type LineType byte

const (
	// LineEndOfInput is the type of a line that has not been completed.
	LineEndOfInput LineType = iota
	LineG
	LineM
	LineComment
	LineBlockDelete

	LineSoftReset
	LineStatusQuery
	LineCycleStart
	LineFeedHold
	LineSafetyDoor
	LineJogCancel

	LineFeedOvReset
	LineFeedOvCoarsePlus
	LineFeedOvCoarseMinus
	LineFeedOvFinePlus
	LineFeedOvFineMinus
	LineRapidOvReset
	LineRapidOvMedium
	LineRapidOvLow
	LineSpindleOvReset
	LineSpindleOvCoarsePlus
	LineSpindleOvCoarseMinus
	LineSpindleOvFinePlus
	LineSpindleOvFineMinus
	LineSpindleOvStop
	LineCoolantFloodToggle
	LineCoolantMistToggle

	LineHelp             // $
	LineGetSettings      // $$
	LineGetCoordParams   // $#
	LineGetParserState   // $G
	LineGetBuildInfo     // $I
	LineGetStartupBlocks // $N
	LineSetStartupBlock  // $Nx=
	LineSetSetting       // $x=
	LineCheckMode        // $C
	LineKillAlarmLock    // $X
	LineHome             // $H
	LineJog              // $J=
	LineRestore          // $RST=
	LineSleep            // $SLP

	numLineTypes
)

// realtime maps each single-byte command to its line type.
var realtime = map[byte]LineType{
	0x18: LineSoftReset,
	'?':  LineStatusQuery,
	'~':  LineCycleStart,
	'!':  LineFeedHold,
	0x84: LineSafetyDoor,
	0x85: LineJogCancel,

	0x90: LineFeedOvReset,
	0x91: LineFeedOvCoarsePlus,
	0x92: LineFeedOvCoarseMinus,
	0x93: LineFeedOvFinePlus,
	0x94: LineFeedOvFineMinus,
	0x95: LineRapidOvReset,
	0x96: LineRapidOvMedium,
	0x97: LineRapidOvLow,
	0x99: LineSpindleOvReset,
	0x9A: LineSpindleOvCoarsePlus,
	0x9B: LineSpindleOvCoarseMinus,
	0x9C: LineSpindleOvFinePlus,
	0x9D: LineSpindleOvFineMinus,
	0x9E: LineSpindleOvStop,
	0xA0: LineCoolantFloodToggle,
	0xA1: LineCoolantMistToggle,
}

var realtimeBytes [numLineTypes]byte

func init() {
	for b, t := range realtime {
		realtimeBytes[t] = b
	}
}

var lineTypeNames = [numLineTypes]string{
	LineEndOfInput:           "end-of-input",
	LineG:                    "G",
	LineM:                    "M",
	LineComment:              "comment",
	LineBlockDelete:          "block-delete",
	LineSoftReset:            "soft-reset",
	LineStatusQuery:          "status-query",
	LineCycleStart:           "cycle-start",
	LineFeedHold:             "feed-hold",
	LineSafetyDoor:           "safety-door",
	LineJogCancel:            "jog-cancel",
	LineFeedOvReset:          "feed-override-reset",
	LineFeedOvCoarsePlus:     "feed-override-coarse-plus",
	LineFeedOvCoarseMinus:    "feed-override-coarse-minus",
	LineFeedOvFinePlus:       "feed-override-fine-plus",
	LineFeedOvFineMinus:      "feed-override-fine-minus",
	LineRapidOvReset:         "rapid-override-reset",
	LineRapidOvMedium:        "rapid-override-medium",
	LineRapidOvLow:           "rapid-override-low",
	LineSpindleOvReset:       "spindle-override-reset",
	LineSpindleOvCoarsePlus:  "spindle-override-coarse-plus",
	LineSpindleOvCoarseMinus: "spindle-override-coarse-minus",
	LineSpindleOvFinePlus:    "spindle-override-fine-plus",
	LineSpindleOvFineMinus:   "spindle-override-fine-minus",
	LineSpindleOvStop:        "spindle-stop",
	LineCoolantFloodToggle:   "flood-toggle",
	LineCoolantMistToggle:    "mist-toggle",
	LineHelp:                 "help",
	LineGetSettings:          "get-settings",
	LineGetCoordParams:       "get-coordinate-parameters",
	LineGetParserState:       "get-parser-state",
	LineGetBuildInfo:         "get-build-info",
	LineGetStartupBlocks:     "get-startup-blocks",
	LineSetStartupBlock:      "set-startup-block",
	LineSetSetting:           "set-setting",
	LineCheckMode:            "check-mode",
	LineKillAlarmLock:        "kill-alarm-lock",
	LineHome:                 "home",
	LineJog:                  "jog",
	LineRestore:              "restore",
	LineSleep:                "sleep",
}

func (t LineType) String() string {
	if t < numLineTypes {
		return lineTypeNames[t]
	}
	return "type(" + strconv.Itoa(int(t)) + ")"
}

// IsRealtime reports whether t is a single-byte realtime command.
func (t LineType) IsRealtime() bool { return t >= LineSoftReset && t <= LineCoolantMistToggle }

// IsDollar reports whether t is a $ system command.
func (t LineType) IsDollar() bool { return t >= LineHelp && t < numLineTypes }

// Byte returns the command byte of a realtime line type.
func (t LineType) Byte() (byte, bool) {
	if !t.IsRealtime() {
		return 0, false
	}
	return realtimeBytes[t], true
}

// Line is one completed line of input.
type Line struct {
	Type LineType

	// Code is the first G or M value of a word line, the startup block index
	// of $N<d>=, or the setting number of $<n>=.
	Code    float64
	HasCode bool

	Words Block

	// Text holds the verbatim remainder of comments, block deletes, jogs,
	// startup blocks, restores and setting values.
	Text string

	// Value is the parsed value of a $<n>= line.
	Value float64

	// Start and End are the byte offsets of the line in the input stream.
	Start, End int64

	// State is the modal state after this line was applied.
	State State
}

// String renders l as a line of input, without the terminator.
func (l Line) String() string {
	switch l.Type {
	case LineG, LineM:
		return l.Words.String()
	case LineComment:
		return "(" + l.Text
	case LineBlockDelete:
		return "/" + l.Text
	case LineHelp:
		return "$"
	case LineGetSettings:
		return "$$"
	case LineGetCoordParams:
		return "$#"
	case LineGetParserState:
		return "$G"
	case LineGetBuildInfo:
		return "$I"
	case LineGetStartupBlocks:
		return "$N"
	case LineSetStartupBlock:
		return "$N" + strconv.Itoa(int(l.Code)) + "=" + l.Text
	case LineSetSetting:
		return "$" + strconv.Itoa(int(l.Code)) + "=" + l.Text
	case LineCheckMode:
		return "$C"
	case LineKillAlarmLock:
		return "$X"
	case LineHome:
		return "$H"
	case LineJog:
		return "$J=" + l.Text
	case LineRestore:
		return "$RST=" + l.Text
	case LineSleep:
		return "$SLP"
	}
	if b, ok := l.Type.Byte(); ok {
		return string([]byte{b})
	}
	return ""
}
