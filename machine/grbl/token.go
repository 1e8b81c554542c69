package grbl

import (
	"strconv"

	"github.com/mastercactapus/grbltok/coord"
	"github.com/mastercactapus/grbltok/gcode"
	"github.com/mastercactapus/grbltok/machine"
)

// Kind identifies the type of a Token.
type Kind byte

const (
	KindStatus Kind = iota + 1
	KindAlarm
	KindWelcome
	KindVersion
	KindReportOpen
	KindMachineState
	KindMachinePosition
	KindWorkPosition
	KindWorkOffset
	KindBufferState
	KindLineNumber
	KindFeedSpindle
	KindPinState
	KindOverrides
	KindAccessory
	KindSettingKey
	KindSettingValue
	KindMessage
	KindBuildOptions
	KindParserState
	KindCoordParam
	KindToolLengthOffset
	KindProbeResult
	KindStartupBlock
	KindStartupExec
)

var kindNames = [...]string{
	KindStatus:           "status",
	KindAlarm:            "alarm",
	KindWelcome:          "welcome",
	KindVersion:          "version",
	KindReportOpen:       "report-open",
	KindMachineState:     "machine-state",
	KindMachinePosition:  "machine-position",
	KindWorkPosition:     "work-position",
	KindWorkOffset:       "work-offset",
	KindBufferState:      "buffer-state",
	KindLineNumber:       "line-number",
	KindFeedSpindle:      "feed-spindle",
	KindPinState:         "pin-state",
	KindOverrides:        "overrides",
	KindAccessory:        "accessory",
	KindSettingKey:       "setting-key",
	KindSettingValue:     "setting-value",
	KindMessage:          "message",
	KindBuildOptions:     "build-options",
	KindParserState:      "parser-state",
	KindCoordParam:       "coord-param",
	KindToolLengthOffset: "tool-length-offset",
	KindProbeResult:      "probe-result",
	KindStartupBlock:     "startup-block",
	KindStartupExec:      "startup-exec",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// Token is a single value read from a controller response.
type Token interface {
	Kind() Kind
}

// Status is an `ok` (Err == 0) or `error:<n>` response. Error codes start at 1.
type Status struct{ Err int }

// OK reports whether the status acknowledges success.
func (s Status) OK() bool { return s.Err == 0 }

type Alarm struct{ Code AlarmCode }

// Welcome is the banner printed after a reset.
type Welcome struct{ Text string }

type Version struct {
	Major, Minor int
	Letter       byte
}

func (v Version) String() string {
	return strconv.Itoa(v.Major) + "." + strconv.Itoa(v.Minor) + string(v.Letter)
}

// ReportOpen starts the tokens of one status report.
type ReportOpen struct{}

type MachineState struct {
	State RunState

	// Code is the sub-state of Hold and Door.
	Code    int
	HasCode bool
}

// String formats the state as reported, e.g. "Hold:0".
func (m MachineState) String() string {
	if m.HasCode {
		return m.State.String() + ":" + strconv.Itoa(m.Code)
	}
	return m.State.String()
}

type MachinePosition struct{ coord.Point }
type WorkPosition struct{ coord.Point }
type WorkOffset struct{ coord.Point }

// BufferState is the free space in the planner and serial RX buffers.
type BufferState struct{ Blocks, Bytes uint16 }

type LineNumber struct{ Line uint32 }

type FeedSpindle struct{ Feed, Spindle float64 }

type PinState struct{ Pins machine.Pins }

// Overrides holds override ratios, 1 being 100%.
type Overrides struct{ machine.Overrides }

type Accessory struct {
	Spindle     machine.Spindle
	Flood, Mist bool
}

type SettingKey struct{ Key Setting }

// SettingValue is a setting value in the representation of its key's Type.
// Only the field matching Type is set.
type SettingValue struct {
	Key   Setting
	Type  ValueType
	Byte  byte
	Uint  uint32
	Float float64
}

// Value returns the setting value regardless of representation.
func (v SettingValue) Value() float64 {
	switch v.Type {
	case TypeByte:
		return float64(v.Byte)
	case TypeUint32:
		return float64(v.Uint)
	}
	return v.Float
}

// MessageType identifies a bracketed free-form message.
type MessageType byte

const (
	MessageMSG MessageType = iota + 1
	MessageHLP
	MessageVER
	MessageEcho
)

func (t MessageType) String() string {
	switch t {
	case MessageMSG:
		return "MSG"
	case MessageHLP:
		return "HLP"
	case MessageVER:
		return "VER"
	case MessageEcho:
		return "echo"
	}
	return "message(" + strconv.Itoa(int(t)) + ")"
}

type Message struct {
	Type MessageType
	Text string
}

type BuildOptions struct {
	Flags  BuildFlags
	Blocks uint16
	Bytes  uint16
}

// ParserState is a `[GC:...]` echo of the controller's modal state.
type ParserState struct{ State gcode.State }

// CoordParam is one stored coordinate from `$#`. Param is the mode that uses
// it: GoHome0 (G28), GoHome1 (G30), WCS1-6 (G54-G59) or SetCoordinateOffset (G92).
type CoordParam struct {
	Param gcode.Mode
	coord.Point
}

type ToolLengthOffset struct{ Z float64 }

type ProbeResult struct{ machine.ProbeResult }

// StartupBlock is a stored `$N<i>=<block>` line.
type StartupBlock struct {
	Index int
	Block string
}

// StartupExec reports the result of running a startup block.
type StartupExec struct {
	Block string
	Err   int
}

func (Status) Kind() Kind           { return KindStatus }
func (Alarm) Kind() Kind            { return KindAlarm }
func (Welcome) Kind() Kind          { return KindWelcome }
func (Version) Kind() Kind          { return KindVersion }
func (ReportOpen) Kind() Kind       { return KindReportOpen }
func (MachineState) Kind() Kind     { return KindMachineState }
func (MachinePosition) Kind() Kind  { return KindMachinePosition }
func (WorkPosition) Kind() Kind     { return KindWorkPosition }
func (WorkOffset) Kind() Kind       { return KindWorkOffset }
func (BufferState) Kind() Kind      { return KindBufferState }
func (LineNumber) Kind() Kind       { return KindLineNumber }
func (FeedSpindle) Kind() Kind      { return KindFeedSpindle }
func (PinState) Kind() Kind         { return KindPinState }
func (Overrides) Kind() Kind        { return KindOverrides }
func (Accessory) Kind() Kind        { return KindAccessory }
func (SettingKey) Kind() Kind       { return KindSettingKey }
func (SettingValue) Kind() Kind     { return KindSettingValue }
func (Message) Kind() Kind          { return KindMessage }
func (BuildOptions) Kind() Kind     { return KindBuildOptions }
func (ParserState) Kind() Kind      { return KindParserState }
func (CoordParam) Kind() Kind       { return KindCoordParam }
func (ToolLengthOffset) Kind() Kind { return KindToolLengthOffset }
func (ProbeResult) Kind() Kind      { return KindProbeResult }
func (StartupBlock) Kind() Kind     { return KindStartupBlock }
func (StartupExec) Kind() Kind      { return KindStartupExec }
