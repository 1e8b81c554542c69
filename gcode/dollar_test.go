package gcode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenizer_Dollar(t *testing.T) {
	for _, c := range []struct {
		in    string
		typ   LineType
		code  float64
		text  string
		value float64
	}{
		{in: "$", typ: LineHelp},
		{in: "$$", typ: LineGetSettings},
		{in: "$#", typ: LineGetCoordParams},
		{in: "$G", typ: LineGetParserState},
		{in: "$g", typ: LineGetParserState},
		{in: "$I", typ: LineGetBuildInfo},
		{in: "$H", typ: LineHome},
		{in: "$N", typ: LineGetStartupBlocks},
		{in: "$C", typ: LineCheckMode},
		{in: "$X", typ: LineKillAlarmLock},
		{in: "$SLP", typ: LineSleep},
		{in: "$N0=G20 G54", typ: LineSetStartupBlock, code: 0, text: "G20 G54"},
		{in: "$n1=g21", typ: LineSetStartupBlock, code: 1, text: "g21"},
		{in: "$J=G91 X1 F100", typ: LineJog, text: "G91 X1 F100"},
		{in: "$RST=*", typ: LineRestore, text: "*"},
		{in: "$110=500.5", typ: LineSetSetting, code: 110, text: "500.5", value: 500.5},
		{in: "$11=0.010", typ: LineSetSetting, code: 11, text: "0.010", value: 0.01},
	} {
		t.Run(c.in, func(t *testing.T) {
			tk := NewTokenizer()
			done, errs := push(t, tk, c.in+"\n")
			assert.Empty(t, errs)
			assert.Equal(t, 1, done)

			l, ok := tk.Lines().Last()
			require.True(t, ok)
			assert.Equal(t, c.typ, l.Type)
			assert.True(t, l.Type.IsDollar())
			assert.Equal(t, c.code, l.Code)
			assert.Equal(t, c.text, l.Text)
			assert.Equal(t, c.value, l.Value)
		})
	}
}

func TestTokenizer_DollarInvalid(t *testing.T) {
	for _, in := range []string{
		"$Q",
		"$J=",
		"$RST=x",
		"$1=abc",
		"$1=",
		"$1",
		"$Nx=G20",
		"$11=1.0e5",
	} {
		t.Run(in, func(t *testing.T) {
			tk := NewTokenizer()
			_, errs := push(t, tk, in+"\n")
			require.Len(t, errs, 1)
			assert.ErrorIs(t, errs[0], ErrInvalidDollar)
			assert.Equal(t, 0, tk.Lines().Len())
		})
	}
}

func TestLine_StringDollar(t *testing.T) {
	s := MustParse("$N0=G20\n$110=500.5\n$J=X1F1\n$RST=#\n$$\n")
	var out []string
	for _, l := range s.Lines() {
		out = append(out, l.String())
	}
	assert.Equal(t, []string{"$N0=G20", "$110=500.5", "$J=X1F1", "$RST=#", "$$"}, out)
}
