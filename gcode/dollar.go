package gcode

import (
	"bytes"
	"fmt"

	"github.com/mastercactapus/grbltok/scan"
)

var dollarCommands = map[string]LineType{
	"":    LineHelp,
	"$":   LineGetSettings,
	"#":   LineGetCoordParams,
	"G":   LineGetParserState,
	"I":   LineGetBuildInfo,
	"H":   LineHome,
	"N":   LineGetStartupBlocks,
	"C":   LineCheckMode,
	"X":   LineKillAlarmLock,
	"SLP": LineSleep,
}

// parseDollar classifies the text following a leading '$'. Command names are
// matched case-insensitively, captured text is kept verbatim.
func (t *Tokenizer) parseDollar(text []byte) error {
	up := bytes.ToUpper(text)
	if typ, ok := dollarCommands[string(up)]; ok {
		t.line.Type = typ
		return nil
	}

	switch {
	case bytes.HasPrefix(up, []byte("J=")):
		if len(text) == 2 {
			return fmt.Errorf("%w: empty jog", ErrInvalidDollar)
		}
		t.line.Type = LineJog
		t.line.Text = string(text[2:])
		return nil
	case bytes.HasPrefix(up, []byte("RST=")):
		switch arg := string(text[4:]); arg {
		case "$", "#", "*":
			t.line.Type = LineRestore
			t.line.Text = arg
			return nil
		}
	case len(up) >= 3 && up[0] == 'N' && scan.IsDigit(up[1]) && up[2] == '=':
		t.line.Type = LineSetStartupBlock
		t.line.Code = float64(up[1] - '0')
		t.line.HasCode = true
		t.line.Text = string(text[3:])
		return nil
	case len(up) > 0 && scan.IsDigit(up[0]):
		cur := scan.NewCursor(text)
		key := cur.Uint32()
		if cur.Expect('=') != nil {
			break
		}
		valText := cur.Rest()
		v, err := cur.Float()
		if err != nil || !cur.AtEnd() {
			return fmt.Errorf("%w: bad value for $%d: %q", ErrInvalidDollar, key, valText)
		}
		t.line.Type = LineSetSetting
		t.line.Code = float64(key)
		t.line.HasCode = true
		t.line.Text = string(valText)
		t.line.Value = v
		return nil
	}

	return fmt.Errorf("%w: $%s", ErrInvalidDollar, text)
}
