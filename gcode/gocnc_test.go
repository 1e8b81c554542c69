package gcode

import (
	"strings"
	"testing"

	gocnc "github.com/joushou/gocnc/gcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Programs accepted here should be accepted by an independent parser too.
func TestParse_GocncAgrees(t *testing.T) {
	for _, prog := range []string{
		"G21\nG90\nG1 X10 Y5 F100\nG0 Z1\n",
		"M3 S1000\nG1 X1\nM5\n",
		"G91 X10\n",
	} {
		s, err := Parse(prog)
		require.NoError(t, err, prog)
		assert.NotZero(t, s.Len())

		_, err = gocnc.Parse(strings.TrimSpace(prog))
		assert.NoError(t, err, prog)
	}
}
