package grbl

import (
	"bytes"
	"fmt"

	"go.uber.org/zap"

	"github.com/mastercactapus/grbltok/gcode"
	"github.com/mastercactapus/grbltok/machine"
	"github.com/mastercactapus/grbltok/scan"
)

// DefaultMaxLineLength is the largest response line a Tokenizer buffers by default.
const DefaultMaxLineLength = 256

// Tokenizer turns controller output into Tokens, one byte at a time. It is
// not safe for concurrent use.
type Tokenizer struct {
	log    *zap.Logger
	maxLen int

	buf      []byte
	overflow bool
	tokens   TokenStore
}

// Option configures a Tokenizer.
type Option func(*Tokenizer)

// WithLogger sets the logger used for recoverable oddities in the input.
func WithLogger(l *zap.Logger) Option {
	return func(t *Tokenizer) { t.log = l }
}

// WithMaxLineLength sets the number of bytes a single response may hold.
func WithMaxLineLength(n int) Option {
	return func(t *Tokenizer) { t.maxLen = n }
}

func NewTokenizer(opts ...Option) *Tokenizer {
	t := &Tokenizer{
		log:    zap.NewNop(),
		maxLen: DefaultMaxLineLength,
	}
	for _, o := range opts {
		o(t)
	}
	return t
}

// Tokens returns the store every token is appended to.
func (t *Tokenizer) Tokens() *TokenStore { return &t.tokens }

// Reset discards all tokens and any partial line.
func (t *Tokenizer) Reset() {
	t.tokens.Reset()
	t.buf = t.buf[:0]
	t.overflow = false
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

// Push consumes one byte. It returns complete == true when c ended a
// non-blank line, with err describing a line that could not be read. Tokens
// appended before a failure remain in the store.
func (t *Tokenizer) Push(c byte) (complete bool, err error) {
	switch c {
	case '\r':
		return false, nil
	case '\n':
	default:
		if len(t.buf) >= t.maxLen {
			t.overflow = true
			return false, nil
		}
		t.buf = append(t.buf, c)
		return false, nil
	}

	line := t.buf
	defer func() {
		t.buf = t.buf[:0]
		t.overflow = false
	}()

	if t.overflow {
		return true, &LineError{Text: string(line), Err: fmt.Errorf("%w: more than %d bytes", ErrLineTooLong, t.maxLen)}
	}
	if len(line) == 0 {
		return false, nil
	}
	if err := t.dispatch(line); err != nil {
		t.log.Debug("unreadable response", zap.ByteString("line", line), zap.Error(err))
		return true, &LineError{Text: string(line), Err: err}
	}
	return true, nil
}

func (t *Tokenizer) emit(tok Token) { t.tokens.append(tok) }

func (t *Tokenizer) dispatch(line []byte) error {
	switch {
	case string(line) == "ok":
		t.emit(Status{})
		return nil
	case bytes.HasPrefix(line, []byte("error:")):
		n, err := t.code(line[6:])
		if err != nil {
			return err
		}
		// 0 is reserved for ok
		if n < 1 {
			return fmt.Errorf("%w: error code %d", ErrInvalidValue, n)
		}
		t.emit(Status{Err: n})
		return nil
	case bytes.HasPrefix(line, []byte("ALARM:")):
		n, err := t.code(line[6:])
		if err != nil {
			return err
		}
		t.emit(Alarm{Code: AlarmCode(n)})
		return nil
	case bytes.HasPrefix(line, []byte("Grbl ")):
		return t.welcome(line)
	}

	switch line[0] {
	case '<':
		return t.report(scan.NewCursor(line[1:]))
	case '$':
		return t.setting(scan.NewCursor(line[1:]))
	case '[':
		if line[len(line)-1] != ']' {
			return fmt.Errorf("%w: missing ']'", scan.ErrEOL)
		}
		return t.bracket(line[1 : len(line)-1])
	case '>':
		return t.startupExec(line[1:])
	}

	return ErrUnknownResponse
}

// code reads a whole numeric suffix.
func (t *Tokenizer) code(data []byte) (int, error) {
	cur := scan.NewCursor(data)
	n, err := cur.SignedInt()
	if err != nil {
		return 0, err
	}
	if !cur.AtEnd() {
		return 0, ErrTrailingData
	}
	return int(n), nil
}

func (t *Tokenizer) welcome(line []byte) error {
	t.emit(Welcome{Text: string(line)})

	cur := scan.NewCursor(line[len("Grbl "):])
	major, err := cur.SignedInt()
	if err != nil {
		return err
	}
	if err = cur.Expect('.'); err != nil {
		return err
	}
	minor, err := cur.SignedInt()
	if err != nil {
		return err
	}
	letter, err := cur.Next()
	if err != nil {
		return err
	}
	if !isLetter(letter) {
		return fmt.Errorf("%w: version letter %q", ErrInvalidValue, letter)
	}
	t.emit(Version{Major: int(major), Minor: int(minor), Letter: letter})
	return nil
}

func isLetter(c byte) bool { return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') }

func (t *Tokenizer) report(cur *scan.Cursor) error {
	t.emit(ReportOpen{})

	name := string(cur.UntilAny("|>:"))
	st, ok := runStates[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownState, name)
	}
	ms := MachineState{State: st}
	if cur.Expect(':') == nil {
		if !st.HasSubState() {
			return fmt.Errorf("%w: %s has no sub-state", ErrInvalidValue, name)
		}
		code, err := cur.SignedInt()
		if err != nil {
			return err
		}
		ms.Code = int(code)
		ms.HasCode = true
	}
	t.emit(ms)

	for {
		c, err := cur.Next()
		if err != nil {
			return fmt.Errorf("%w: missing '>'", err)
		}
		if c == '>' {
			if !cur.AtEnd() {
				return ErrTrailingData
			}
			return nil
		}
		if c != '|' {
			return &scan.UnexpectedError{Want: '|', Got: c}
		}
		if err = t.field(cur); err != nil {
			return err
		}
	}
}

func (t *Tokenizer) field(cur *scan.Cursor) error {
	name := string(cur.Until(':'))
	if err := cur.Expect(':'); err != nil {
		return fmt.Errorf("field %q: %w", name, err)
	}

	switch name {
	case "MPos", "WPos", "WCO":
		p, err := cur.Triple()
		if err != nil {
			return fmt.Errorf("field %s: %w", name, err)
		}
		switch name {
		case "MPos":
			t.emit(MachinePosition{p})
		case "WPos":
			t.emit(WorkPosition{p})
		default:
			t.emit(WorkOffset{p})
		}
	case "Bf":
		blocks := cur.Uint16()
		if err := cur.Expect(','); err != nil {
			return fmt.Errorf("field Bf: %w", err)
		}
		t.emit(BufferState{Blocks: blocks, Bytes: cur.Uint16()})
	case "Ln":
		t.emit(LineNumber{Line: cur.Uint32()})
	case "F":
		f, err := cur.Float()
		if err != nil {
			return fmt.Errorf("field F: %w", err)
		}
		t.emit(FeedSpindle{Feed: f})
	case "FS":
		f, err := cur.Float()
		if err != nil {
			return fmt.Errorf("field FS: %w", err)
		}
		if err = cur.Expect(','); err != nil {
			return fmt.Errorf("field FS: %w", err)
		}
		s, err := cur.Float()
		if err != nil {
			return fmt.Errorf("field FS: %w", err)
		}
		t.emit(FeedSpindle{Feed: f, Spindle: s})
	case "Pn":
		var pins machine.Pins
		for _, c := range cur.UntilAny("|>") {
			p, ok := machine.PinForLetter(c)
			if !ok {
				t.log.Warn("unknown pin", zap.String("pin", string(c)))
				continue
			}
			pins |= p
		}
		t.emit(PinState{Pins: pins})
	case "Ov":
		p, err := cur.Triple()
		if err != nil {
			return fmt.Errorf("field Ov: %w", err)
		}
		// percentages
		p = p.Div(100)
		t.emit(Overrides{machine.Overrides{Feed: p.X, Rapid: p.Y, Spindle: p.Z}})
	case "A":
		var a Accessory
		for _, c := range cur.UntilAny("|>") {
			switch c {
			case 'S':
				a.Spindle = machine.SpindleCW
			case 'C':
				a.Spindle = machine.SpindleCCW
			case 'F':
				a.Flood = true
			case 'M':
				a.Mist = true
			default:
				return fmt.Errorf("%w: accessory %q", ErrInvalidValue, c)
			}
		}
		t.emit(a)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	return nil
}

func (t *Tokenizer) setting(cur *scan.Cursor) error {
	if cur.ExpectString("N") {
		return t.startupBlock(cur)
	}

	if c, ok := cur.Peek(); !ok || !scan.IsDigit(c) {
		return fmt.Errorf("setting key: %w", scan.ErrNoDigits)
	}
	key := Setting(cur.Uint32())
	typ := key.Type()
	if typ == 0 {
		return fmt.Errorf("%w: $%d", ErrUnknownSetting, key)
	}
	t.emit(SettingKey{Key: key})

	if err := cur.Expect('='); err != nil {
		return fmt.Errorf("setting $%d: %w", key, err)
	}
	v := SettingValue{Key: key, Type: typ}
	switch typ {
	case TypeByte, TypeUint32:
		if c, ok := cur.Peek(); !ok || !scan.IsDigit(c) {
			return fmt.Errorf("setting $%d: %w", key, scan.ErrNoDigits)
		}
		n := cur.Uint32()
		// some firmware prints integers with a zero fraction
		if cur.ExpectString(".") {
			for {
				c, ok := cur.Peek()
				if !ok || c != '0' {
					break
				}
				cur.Skip(1)
			}
		}
		if typ == TypeByte {
			v.Byte = byte(n)
		} else {
			v.Uint = n
		}
	case TypeFloat:
		f, err := cur.Float()
		if err != nil {
			return fmt.Errorf("setting $%d: %w", key, err)
		}
		v.Float = f
	}

	// Grbl 0.9 appends a description, e.g. "$0=10 (step pulse, usec)"
	if c, ok := cur.Peek(); ok && c != ' ' {
		return fmt.Errorf("setting $%d: %w", key, ErrTrailingData)
	}
	t.emit(v)
	return nil
}

func (t *Tokenizer) startupBlock(cur *scan.Cursor) error {
	c, err := cur.Next()
	if err != nil {
		return err
	}
	if !scan.IsDigit(c) {
		return fmt.Errorf("startup block index: %w", scan.ErrNoDigits)
	}
	if err = cur.Expect('='); err != nil {
		return fmt.Errorf("startup block: %w", err)
	}
	t.emit(StartupBlock{Index: int(c - '0'), Block: string(cur.Rest())})
	return nil
}

func (t *Tokenizer) startupExec(data []byte) error {
	if bytes.HasSuffix(data, []byte(":ok")) {
		t.emit(StartupExec{Block: string(data[:len(data)-3])})
		return nil
	}
	i := bytes.LastIndex(data, []byte(":error:"))
	if i < 0 {
		return fmt.Errorf("%w: startup block result", ErrUnknownResponse)
	}
	n, err := t.code(data[i+len(":error:"):])
	if err != nil {
		return err
	}
	if n < 1 {
		return fmt.Errorf("%w: error code %d", ErrInvalidValue, n)
	}
	t.emit(StartupExec{Block: string(data[:i]), Err: n})
	return nil
}

var messageTypes = map[string]MessageType{
	"MSG":  MessageMSG,
	"HLP":  MessageHLP,
	"VER":  MessageVER,
	"echo": MessageEcho,
}

func (t *Tokenizer) bracket(data []byte) error {
	i := bytes.IndexByte(data, ':')
	if i < 0 {
		return fmt.Errorf("%w: %q", ErrUnknownMessage, data)
	}
	prefix, body := string(data[:i]), data[i+1:]

	if typ, ok := messageTypes[prefix]; ok {
		t.emit(Message{Type: typ, Text: string(body)})
		return nil
	}

	cur := scan.NewCursor(body)
	switch prefix {
	case "OPT":
		return t.options(cur)
	case "GC":
		return t.parserState(body)
	case "TLO":
		z, err := cur.Float()
		if err != nil {
			return fmt.Errorf("TLO: %w", err)
		}
		if !cur.AtEnd() {
			return ErrTrailingData
		}
		t.emit(ToolLengthOffset{Z: z})
		return nil
	case "PRB":
		p, err := cur.Triple()
		if err != nil {
			return fmt.Errorf("PRB: %w", err)
		}
		if err = cur.Expect(':'); err != nil {
			return fmt.Errorf("PRB: %w", err)
		}
		c, err := cur.Next()
		if err != nil {
			return fmt.Errorf("PRB: %w", err)
		}
		if (c != '0' && c != '1') || !cur.AtEnd() {
			return fmt.Errorf("%w: probe success flag", ErrInvalidValue)
		}
		t.emit(ProbeResult{machine.ProbeResult{Point: p, Valid: c == '1'}})
		return nil
	}

	if m, ok := coordParams[prefix]; ok {
		p, err := cur.Triple()
		if err != nil {
			return fmt.Errorf("%s: %w", prefix, err)
		}
		if !cur.AtEnd() {
			return ErrTrailingData
		}
		t.emit(CoordParam{Param: m, Point: p})
		return nil
	}

	return fmt.Errorf("%w: %q", ErrUnknownMessage, prefix)
}

var coordParams = map[string]gcode.Mode{
	"G28": gcode.ModeGoHome0,
	"G30": gcode.ModeGoHome1,
	"G54": gcode.ModeWCS1,
	"G55": gcode.ModeWCS2,
	"G56": gcode.ModeWCS3,
	"G57": gcode.ModeWCS4,
	"G58": gcode.ModeWCS5,
	"G59": gcode.ModeWCS6,
	"G92": gcode.ModeSetCoordinateOffset,
}

func (t *Tokenizer) options(cur *scan.Cursor) error {
	var opt BuildOptions
	for {
		c, err := cur.Next()
		if err != nil {
			return fmt.Errorf("OPT: %w", err)
		}
		if c == ',' {
			break
		}
		f, ok := buildFlagFor(c)
		if !ok {
			return fmt.Errorf("%w: %q", ErrUnknownOption, c)
		}
		opt.Flags |= f
	}

	if c, ok := cur.Peek(); !ok || !scan.IsDigit(c) {
		return fmt.Errorf("OPT blocks: %w", scan.ErrNoDigits)
	}
	opt.Blocks = cur.Uint16()
	if err := cur.Expect(','); err != nil {
		return fmt.Errorf("OPT: %w", err)
	}
	if c, ok := cur.Peek(); !ok || !scan.IsDigit(c) {
		return fmt.Errorf("OPT bytes: %w", scan.ErrNoDigits)
	}
	opt.Bytes = cur.Uint16()
	if !cur.AtEnd() {
		return ErrTrailingData
	}
	t.emit(opt)
	return nil
}

// parserState reads a `GC:` echo such as "G0 G54 G17 G21 G90 G94 M5 M9 T0 F0 S0".
func (t *Tokenizer) parserState(body []byte) error {
	var s gcode.State
	for _, w := range bytes.Fields(body) {
		cur := scan.NewCursor(w[1:])
		v, err := cur.Float()
		if err != nil {
			return fmt.Errorf("GC %q: %w", w, err)
		}
		if !cur.AtEnd() {
			return fmt.Errorf("GC %q: %w", w, ErrTrailingData)
		}

		switch w[0] {
		case 'G', 'M':
			m, ok := gcode.LookupMode(w[0], v)
			if !ok {
				return fmt.Errorf("%w: GC %q", ErrInvalidValue, w)
			}
			s.Set(m)
		case 'T':
			if v < 0 {
				return fmt.Errorf("%w: GC %q", ErrInvalidValue, w)
			}
			s.Tool = uint32(v)
		case 'S':
			s.Spindle = v
		case 'F':
			s.Feed = v
		default:
			return fmt.Errorf("%w: GC %q", ErrInvalidValue, w)
		}
	}
	t.emit(ParserState{State: s})
	return nil
}
