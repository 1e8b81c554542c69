package gcode

import "strings"

// Block is the ordered list of words on one line.
type Block []Word

// Arg returns the value of the first word with letter w.
func (b Block) Arg(w byte) (bool, float64) {
	for _, g := range b {
		if g.Letter == w {
			return true, g.Value
		}
	}
	return false, 0
}

// HasAxis reports whether any X, Y or Z word is present.
func (b Block) HasAxis() bool {
	for _, g := range b {
		if g.IsAxis() {
			return true
		}
	}
	return false
}

func (b Block) String() string {
	var sb strings.Builder
	for _, w := range b {
		sb.WriteString(w.String())
	}
	return sb.String()
}
