package grbl

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mastercactapus/grbltok/coord"
	"github.com/mastercactapus/grbltok/gcode"
	"github.com/mastercactapus/grbltok/machine"
)

func TestApply_Positions(t *testing.T) {
	var s machine.State
	s = ApplyAll(s, mustTokenize(t, "<Idle|MPos:1.000,2.000,3.000|FS:0,0|WCO:-100.000,0.000,0.000>\n"))
	assert.Equal(t, "Idle", s.Status)
	assert.True(t, s.Idle())
	assert.Equal(t, coord.Point{X: 1, Y: 2, Z: 3}, s.MPos)
	assert.Equal(t, coord.Point{X: 101, Y: 2, Z: 3}, s.WPos)

	// WCO is only reported now and then
	s = ApplyAll(s, mustTokenize(t, "<Run|WPos:5.000,5.000,5.000|FS:100,12000>\n"))
	assert.Equal(t, "Run", s.Status)
	assert.False(t, s.Idle())
	assert.Equal(t, coord.Point{X: -95, Y: 5, Z: 5}, s.MPos)
	assert.Equal(t, 100.0, s.Feed)
	assert.Equal(t, 12000.0, s.SpindleSpeed)
}

func TestApply_Report(t *testing.T) {
	s := ApplyAll(machine.State{}, mustTokenize(t, "<Hold:0|MPos:0,0,0|Bf:15,128|Ln:7|Pn:PZ|Ov:100,50,120|A:CF>\n"))
	assert.Equal(t, "Hold:0", s.Status)
	assert.True(t, s.Idle())
	assert.Equal(t, uint16(15), s.BufferBlocks)
	assert.Equal(t, uint16(128), s.BufferBytes)
	assert.Equal(t, uint32(7), s.Line)
	assert.True(t, s.Pins.Has(machine.PinProbe|machine.PinZ))
	assert.Equal(t, machine.Overrides{Feed: 1, Rapid: 0.5, Spindle: 1.2}, s.Overrides)
	assert.Equal(t, machine.SpindleCCW, s.Spindle)
	assert.True(t, s.Flood)
	assert.False(t, s.Mist)

	// omitted pins and accessories are cleared by the next report
	s = ApplyAll(s, mustTokenize(t, "<Idle|MPos:0,0,0>\n"))
	assert.Equal(t, machine.Pins(0), s.Pins)
	assert.Equal(t, machine.SpindleOff, s.Spindle)
	assert.False(t, s.Flood)
}

func TestApply_Events(t *testing.T) {
	s := ApplyAll(machine.State{}, mustTokenize(t, "ALARM:1\nerror:9\n[MSG:Reset to continue]\n"))
	assert.Equal(t, "Alarm", s.Status)
	assert.Equal(t, 1, s.Alarm)
	assert.Equal(t, 9, s.LastError)
	assert.Equal(t, "Reset to continue", s.Message)

	s = ApplyAll(s, mustTokenize(t, "Grbl 1.1h ['$' for help]\nok\n"))
	assert.Equal(t, 0, s.Alarm)
	assert.Equal(t, 0, s.LastError)
	assert.Equal(t, "", s.Message)
	assert.Equal(t, "1.1h", s.Version)
}

func TestApply_Params(t *testing.T) {
	s := ApplyAll(machine.State{}, mustTokenize(t, "[G55:1,2,3]\n[G28:4,5,6]\n[G30:7,8,9]\n[G92:1,1,1]\n[TLO:2.5]\n[PRB:1,2,3:1]\n[GC:G1 G55 G17 G21 G90 G94 M5 M9 T0 F0 S0]\n$11=0.010\n"))
	assert.Equal(t, coord.Point{X: 1, Y: 2, Z: 3}, s.WCS[1])
	assert.Equal(t, coord.Point{X: 4, Y: 5, Z: 6}, s.Home0)
	assert.Equal(t, coord.Point{X: 7, Y: 8, Z: 9}, s.Home1)
	assert.Equal(t, coord.Point{X: 1, Y: 1, Z: 1}, s.CoordinateOffset)
	assert.Equal(t, 2.5, s.TLO)
	assert.Equal(t, machine.ProbeResult{Point: coord.Point{X: 1, Y: 2, Z: 3}, Valid: true}, s.Probe)
	assert.Equal(t, gcode.ModeWCS2, s.Parser.CoordinateSystem())
}
