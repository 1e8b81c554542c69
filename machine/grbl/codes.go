package grbl

import (
	"strconv"
	"strings"
)

// RunState is the machine state named at the start of a status report.
type RunState byte

const (
	StateAlarm RunState = iota + 1
	StateCheck
	StateDoor
	StateHold
	StateHome
	StateIdle
	StateJog
	StateRun
	StateSleep
)

var runStates = map[string]RunState{
	"Alarm": StateAlarm,
	"Check": StateCheck,
	"Door":  StateDoor,
	"Hold":  StateHold,
	"Home":  StateHome,
	"Idle":  StateIdle,
	"Jog":   StateJog,
	"Run":   StateRun,
	"Sleep": StateSleep,
}

func (s RunState) String() string {
	for name, v := range runStates {
		if v == s {
			return name
		}
	}
	return "state(" + strconv.Itoa(int(s)) + ")"
}

// HasSubState reports whether s may be followed by a `:<code>` sub-state.
func (s RunState) HasSubState() bool { return s == StateHold || s == StateDoor }

// AlarmCode is the number reported by `ALARM:<n>`.
type AlarmCode int

const (
	AlarmHardLimit AlarmCode = iota + 1
	AlarmSoftLimit
	AlarmAbortCycle
	AlarmProbeFailInitial
	AlarmProbeFailContact
	AlarmHomingFailReset
	AlarmHomingFailDoor
	AlarmHomingFailPulloff
	AlarmHomingFailNoContact
	AlarmHomingFailDualApproach
)

var alarmText = map[AlarmCode]string{
	AlarmHardLimit:              "hard limit triggered",
	AlarmSoftLimit:              "motion target exceeds machine travel",
	AlarmAbortCycle:             "reset while in motion",
	AlarmProbeFailInitial:       "probe not in expected initial state",
	AlarmProbeFailContact:       "probe did not contact the workpiece",
	AlarmHomingFailReset:        "homing cycle reset",
	AlarmHomingFailDoor:         "safety door opened during homing",
	AlarmHomingFailPulloff:      "pull off failed to clear limit switch",
	AlarmHomingFailNoContact:    "could not find limit switch",
	AlarmHomingFailDualApproach: "could not find second limit switch",
}

func (a AlarmCode) String() string {
	if s, ok := alarmText[a]; ok {
		return s
	}
	return "alarm " + strconv.Itoa(int(a))
}

var errorText = map[int]string{
	1:  "expected command letter",
	2:  "bad number format",
	3:  "invalid statement",
	4:  "negative value",
	5:  "setting disabled",
	6:  "step pulse must be at least 3 usec",
	7:  "EEPROM read failed",
	8:  "not idle",
	9:  "G-code locked out during alarm or jog",
	10: "homing not enabled",
	11: "line overflow",
	12: "step rate exceeds 30kHz",
	13: "safety door detected as opened",
	14: "line length exceeded",
	15: "jog target exceeds machine travel",
	16: "invalid jog command",
	17: "laser mode requires PWM output",
	20: "unsupported command",
	21: "modal group violation",
	22: "undefined feed rate",
	23: "command value is not an integer",
	24: "more than one command requires axis words",
	25: "repeated word",
	26: "no axis words found",
	27: "invalid line number",
	28: "missing value word",
	29: "G59.x work coordinate systems are not supported",
	30: "G53 only allowed with G0 and G1",
	31: "axis words found with no command to use them",
	32: "arc has no in-plane axis words",
	33: "invalid motion target",
	34: "invalid arc radius",
	35: "arc has no in-plane offset words",
	36: "unused value words",
	37: "dynamic tool length offset not on tool length axis",
	38: "tool number too large",
}

// ErrorText describes an `error:<n>` code.
func ErrorText(code int) string {
	if s, ok := errorText[code]; ok {
		return s
	}
	return "error " + strconv.Itoa(code)
}

// BuildFlags is the set of options listed by `[OPT:...]`. The Opt*No*
// flags report a feature that was compiled out.
type BuildFlags uint32

const (
	OptVariableSpindle BuildFlags = 1 << iota
	OptLineNumbers
	OptMistCoolant
	OptCoreXY
	OptParking
	OptHomingForceOrigin
	OptHomingSingleAxis
	OptTwoLimitSwitches
	OptAllowFeedOverride
	OptSpindleDirAsEnable
	OptSpindleEnableOffZero
	OptSoftwareDebounce
	OptParkingOverride
	OptSafetyDoorInput
	OptNoRestoreAll
	OptNoRestoreSettings
	OptNoRestoreParams
	OptNoBuildInfoWrite
	OptNoSyncEEPROMWrite
	OptNoSyncWCOChange
	OptHomingInitLock
)

// buildFlagLetters holds the report letter of each flag, in bit order.
const buildFlagLetters = "VNMCPZHTAD0SR+*$#IEWL"

func buildFlagFor(c byte) (BuildFlags, bool) {
	i := strings.IndexByte(buildFlagLetters, c)
	if i < 0 {
		return 0, false
	}
	return 1 << i, true
}

func (f BuildFlags) Has(o BuildFlags) bool { return f&o == o }

// String lists the set options using their report letters.
func (f BuildFlags) String() string {
	b := make([]byte, 0, len(buildFlagLetters))
	for i := 0; i < len(buildFlagLetters); i++ {
		if f&(1<<i) != 0 {
			b = append(b, buildFlagLetters[i])
		}
	}
	return string(b)
}
