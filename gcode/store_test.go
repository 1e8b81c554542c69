package gcode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLineStore(t *testing.T) {
	var s LineStore
	_, ok := s.Last()
	assert.False(t, ok)

	s.append(Line{Type: LineG})
	s.append(Line{Type: LineM})
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, LineG, s.Line(0).Type)

	l, ok := s.Last()
	assert.True(t, ok)
	assert.Equal(t, LineM, l.Type)

	lines := s.Lines()
	lines[0].Type = LineComment
	assert.Equal(t, LineG, s.Line(0).Type, "Lines must return a copy")

	s.Reset()
	assert.Equal(t, 0, s.Len())
}

func TestLineStore_Resume(t *testing.T) {
	s := MustParse("G21\nG1X1F100\n?G0X0\nM3S1000\n")
	require.Equal(t, 5, s.Len())

	assert.Equal(t, []string{
		"G1G54G17G21G90G93M5M9T0F100S0",
		"G0X0",
		"M3S1000",
	}, s.Resume(2))

	assert.Equal(t, []string{"G21", "G1X1F100", "G0X0", "M3S1000"}, s.Resume(0))
	assert.Equal(t, []string{"G0G54G17G21G90G93M3M9T0F100S1000"}, s.Resume(5))
	assert.Nil(t, s.Resume(6))
	assert.Nil(t, s.Resume(-1))
}

func TestState_Preamble(t *testing.T) {
	s := DefaultState()
	s.Set(ModeArcCW)
	s.Set(ModeArcRelative)
	s.Tool = 3

	// arc motion needs axis words, so it is not restored
	assert.Equal(t, "G54G17G21G90G91.1G93M5M9T3F0S0", s.Preamble().String())
}

func TestLookupMode(t *testing.T) {
	for _, c := range []struct {
		letter byte
		value  float64
		mode   Mode
		group  ModalGroup
	}{
		{'G', 0, ModeRapid, ModalGroupMotion},
		{'G', 1, ModeLinear, ModalGroupMotion},
		{'G', 2, ModeArcCW, ModalGroupMotion},
		{'G', 3, ModeArcCCW, ModalGroupMotion},
		{'G', 38.3, ModeProbeTowardNoError, ModalGroupMotion},
		{'G', 17, ModePlaneXY, ModalGroupPlaneSelection},
		{'G', 19, ModePlaneYZ, ModalGroupPlaneSelection},
		{'G', 20, ModeInches, ModalGroupUnits},
		{'G', 28.1, ModeSetHome0, ModalGroupNonModal},
		{'G', 43.1, ModeToolLengthDynamic, ModalGroupToolLength},
		{'G', 54, ModeWCS1, ModalGroupCoordinateSystem},
		{'G', 59, ModeWCS6, ModalGroupCoordinateSystem},
		{'G', 91, ModeRelative, ModalGroupDistanceMode},
		{'G', 91.1, ModeArcRelative, ModalGroupArcDistanceMode},
		{'G', 93, ModeInverseTime, ModalGroupFeedRateMode},
		{'M', 30, ModeProgramEndReset, ModalGroupStopping},
		{'M', 4, ModeSpindleCCW, ModalGroupSpindle},
		{'M', 7, ModeMist, ModalGroupCoolant},
	} {
		m, ok := LookupMode(c.letter, c.value)
		assert.True(t, ok, "%c%g", c.letter, c.value)
		assert.Equal(t, c.mode, m, "%c%g", c.letter, c.value)
		assert.Equal(t, c.group, m.Group(), "%c%g", c.letter, c.value)
		assert.Equal(t, Word{c.letter, c.value}, m.Word())
	}

	for _, w := range []Word{{'G', 5}, {'G', 38.1}, {'M', 6}, {'X', 0}} {
		_, ok := LookupMode(w.Letter, w.Value)
		assert.False(t, ok, w.String())
		assert.Equal(t, ModalGroupNone, w.ModalGroup())
	}

	assert.Equal(t, "G38.2", ModeProbeToward.String())
	assert.Equal(t, "none", ModeNone.String())
	assert.True(t, ModeArcCCW.IsArc())
	assert.False(t, ModeLinear.IsArc())
	assert.True(t, ModeProbeAwayNoError.IsProbe())
}

func TestWord_String(t *testing.T) {
	assert.Equal(t, "X1.5", Word{'X', 1.5}.String())
	assert.Equal(t, "Y-0.25", Word{'Y', -0.25}.String())
	assert.Equal(t, "Z0", Word{'Z', -0.00001}.String())
	assert.Equal(t, "F100", Word{'F', 100}.String())
}
