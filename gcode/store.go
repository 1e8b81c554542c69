package gcode

// LineStore is an append-only list of completed lines.
type LineStore struct {
	lines []Line
}

func (s *LineStore) append(l Line) { s.lines = append(s.lines, l) }

// Len returns the number of stored lines.
func (s *LineStore) Len() int { return len(s.lines) }

// Line returns the i'th stored line. It panics if i is out of range.
func (s *LineStore) Line(i int) Line { return s.lines[i] }

// Last returns the most recently stored line.
func (s *LineStore) Last() (Line, bool) {
	if len(s.lines) == 0 {
		return Line{}, false
	}
	return s.lines[len(s.lines)-1], true
}

// Lines returns a copy of every stored line.
func (s *LineStore) Lines() []Line {
	res := make([]Line, len(s.lines))
	copy(res, s.lines)
	return res
}

// Reset removes all lines.
func (s *LineStore) Reset() { s.lines = nil }

// Resume returns the text needed to continue a program at line i: a preamble
// restoring the modal state in effect before line i, followed by line i and
// every line after it. Realtime lines are skipped.
func (s *LineStore) Resume(i int) []string {
	if i < 0 || i > len(s.lines) {
		return nil
	}
	res := make([]string, 0, len(s.lines)-i+1)
	if i > 0 {
		res = append(res, s.lines[i-1].State.Preamble().String())
	}
	for _, l := range s.lines[i:] {
		if l.Type.IsRealtime() {
			continue
		}
		res = append(res, l.String())
	}
	return res
}
