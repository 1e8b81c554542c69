package gcode

import (
	"fmt"

	"github.com/mastercactapus/grbltok/scan"
)

// DefaultMaxLineLength is the largest line a Tokenizer buffers by default.
const DefaultMaxLineLength = 256

type lineMode byte

const (
	modeStart lineMode = iota
	modeWords
	modeInlineComment
	modeEOLComment
	modeText
	modeDollar
)

// Tokenizer turns a stream of bytes into Lines, one byte at a time, while
// tracking the persistent modal State. It is not safe for concurrent use.
type Tokenizer struct {
	maxLen   int
	defaults State

	lines LineStore
	state State

	offset int64

	// in-progress line
	line    Line
	mode    lineMode
	started bool
	n       int
	text    []byte
	letter  byte
	val     []byte
	seen    [numWordSlots]bool
	touched [numModalGroups]bool
	err     error
}

// Option configures a Tokenizer.
type Option func(*Tokenizer)

// WithMaxLineLength sets the number of bytes a single line may hold.
func WithMaxLineLength(n int) Option {
	return func(t *Tokenizer) { t.maxLen = n }
}

// WithDefaults replaces DefaultState as the fallback for unset modal groups.
func WithDefaults(s State) Option {
	return func(t *Tokenizer) { t.defaults = s }
}

// NewTokenizer returns an empty Tokenizer.
func NewTokenizer(opts ...Option) *Tokenizer {
	t := &Tokenizer{
		maxLen:   DefaultMaxLineLength,
		defaults: DefaultState(),
	}
	for _, o := range opts {
		o(t)
	}
	t.resetLine()
	return t
}

// Lines returns the store of completed lines.
func (t *Tokenizer) Lines() *LineStore { return &t.lines }

// State returns the persistent modal state. It includes selections made by
// a line that later failed.
func (t *Tokenizer) State() State { return t.state }

// Current returns a copy of the line being assembled.
func (t *Tokenizer) Current() Line { return t.line }

// Offset returns the number of bytes pushed since the last Reset.
func (t *Tokenizer) Offset() int64 { return t.offset }

// Reset discards all lines, the modal state and any partial line.
func (t *Tokenizer) Reset() {
	t.lines.Reset()
	t.state = State{}
	t.offset = 0
	t.resetLine()
}

// Write pushes every byte of p, stopping at the first line that fails.
func (t *Tokenizer) Write(p []byte) (int, error) {
	for i, c := range p {
		if _, err := t.Push(c); err != nil {
			return i + 1, err
		}
	}
	return len(p), nil
}

// Push consumes one byte. It returns complete == true when c finished a line,
// in which case err reports whether that line failed. A failed line is not
// stored and tokenizing resumes with the next line. Modal selections made
// before the failure stay in effect.
func (t *Tokenizer) Push(c byte) (complete bool, err error) {
	pos := t.offset
	t.offset++

	switch c {
	case '\r':
		return false, nil
	case '\n':
		return t.endLine(pos)
	}
	if t.err != nil {
		return false, nil
	}
	if !t.started {
		t.line.Start = pos
		if c == ' ' || c == '\t' {
			return false, nil
		}
	}
	if t.n >= t.maxLen {
		t.fail(fmt.Errorf("%w: more than %d bytes", ErrLineTooLong, t.maxLen))
		return false, nil
	}
	t.n++

	if !t.started {
		t.started = true
		if typ, ok := realtime[c]; ok {
			t.line.Type = typ
			t.line.End = pos + 1
			t.commit()
			return true, nil
		}
		switch c {
		case '(':
			t.mode = modeText
			t.line.Type = LineComment
			return false, nil
		case '/':
			t.mode = modeText
			t.line.Type = LineBlockDelete
			return false, nil
		case '$':
			t.mode = modeDollar
			return false, nil
		}
		t.mode = modeWords
	}

	switch t.mode {
	case modeText, modeDollar:
		t.text = append(t.text, c)
	case modeInlineComment:
		if c == ')' {
			t.mode = modeWords
		}
	case modeEOLComment:
	case modeWords:
		t.word(c)
	}
	return false, nil
}

func (t *Tokenizer) fail(err error) {
	if t.err == nil {
		t.err = err
	}
}

func (t *Tokenizer) word(c byte) {
	if c >= 'a' && c <= 'z' {
		c -= 'a' - 'A'
	}
	switch {
	case c >= 'A' && c <= 'Z':
		if err := t.flushWord(); err != nil {
			t.fail(err)
			return
		}
		t.letter = c
	case c >= '0' && c <= '9', c == '-', c == '.', c == '+':
		if t.letter == 0 {
			t.fail(fmt.Errorf("%w: %q", ErrMissingLetter, c))
			return
		}
		t.val = append(t.val, c)
	case c == ' ', c == '\t':
	case c == ';':
		t.mode = modeEOLComment
	case c == '(':
		t.mode = modeInlineComment
	default:
		t.fail(fmt.Errorf("%w: %q", ErrInvalidCharacter, c))
	}
}

// flushWord completes the pending letter/value pair, if any.
func (t *Tokenizer) flushWord() error {
	if t.letter == 0 {
		return nil
	}
	letter, val := t.letter, t.val
	t.letter = 0
	t.val = t.val[:0]

	if len(val) == 0 {
		return fmt.Errorf("%w: %c", ErrMissingValue, letter)
	}
	cur := scan.NewCursor(val)
	cur.ExpectString("+")
	v, err := cur.Float()
	if err != nil || !cur.AtEnd() {
		return fmt.Errorf("%w: %c%s", ErrInvalidNumber, letter, val)
	}
	return t.addWord(Word{Letter: letter, Value: v})
}

func (t *Tokenizer) addWord(w Word) error {
	if !w.IsValid() {
		return fmt.Errorf("%w: %c", ErrUnknownWord, w.Letter)
	}

	switch w.Letter {
	case 'G', 'M':
		m, ok := LookupMode(w.Letter, w.Value)
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnsupportedCommand, w)
		}
		g := m.Group()
		if t.touched[g] {
			return fmt.Errorf("%w: %s and %s (%s)", ErrModalGroupViolation, t.line.State.Mode(g), w, g)
		}
		t.touched[g] = true
		t.line.State.Set(m)
		t.state.Set(m)
	default:
		slot := wordIndex[w.Letter]
		if t.seen[slot] {
			return fmt.Errorf("%w: %c", ErrDuplicateWord, w.Letter)
		}
		t.seen[slot] = true
	}

	t.line.Words = append(t.line.Words, w)
	return nil
}

func (t *Tokenizer) endLine(pos int64) (bool, error) {
	if t.err != nil {
		err := t.err
		t.resetLine()
		return true, err
	}
	if !t.started {
		t.resetLine()
		return false, nil
	}

	var err error
	switch t.mode {
	case modeWords, modeEOLComment:
		err = t.endWords()
	case modeInlineComment:
		err = ErrUnterminatedComment
	case modeText:
		t.line.Text = string(t.text)
	case modeDollar:
		err = t.parseDollar(t.text)
	}
	if err != nil {
		t.resetLine()
		return true, err
	}
	if t.line.Type == LineEndOfInput {
		// only comments and whitespace
		t.resetLine()
		return false, nil
	}

	t.line.End = pos
	t.commit()
	return true, nil
}

func (t *Tokenizer) endWords() error {
	if err := t.flushWord(); err != nil {
		return err
	}
	words := t.line.Words
	if len(words) == 0 {
		return nil
	}

	if m := t.line.State.Motion(); t.touched[ModalGroupMotion] && m != ModeMotionCancel && !words.HasAxis() {
		return fmt.Errorf("%w: %s", ErrNoAxisWords, m)
	}

	t.line.Type = LineG
	var hasM bool
	var firstM float64
	for _, w := range words {
		switch w.Letter {
		case 'G':
			if !t.line.HasCode {
				t.line.Code = w.Value
				t.line.HasCode = true
			}
		case 'M':
			if !hasM {
				hasM = true
				firstM = w.Value
			}
		}
	}
	if ok, f := words.Arg('F'); ok {
		t.line.State.Feed = f
	}
	if ok, s := words.Arg('S'); ok {
		t.line.State.Spindle = s
	}
	if ok, tool := words.Arg('T'); ok {
		if tool < 0 || tool != float64(uint32(tool)) {
			return fmt.Errorf("%w: T%g", ErrInvalidNumber, tool)
		}
		t.line.State.Tool = uint32(tool)
	}
	if !t.line.HasCode && hasM {
		t.line.Type = LineM
		t.line.Code = firstM
		t.line.HasCode = true
	}
	return nil
}

// commit applies defaults, stores the line and makes its state persistent.
func (t *Tokenizer) commit() {
	t.line.State = t.line.State.withDefaults(t.defaults)
	t.state = t.line.State
	t.lines.append(t.line)
	t.resetLine()
}

func (t *Tokenizer) resetLine() {
	t.line = Line{State: t.state}
	t.line.State.Clear(ModalGroupNonModal)
	t.mode = modeStart
	t.started = false
	t.n = 0
	t.text = t.text[:0]
	t.letter = 0
	t.val = t.val[:0]
	t.seen = [numWordSlots]bool{}
	t.touched = [numModalGroups]bool{}
	t.err = nil
}
