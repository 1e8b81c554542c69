package grbl

import (
	"context"
	"io"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mastercactapus/grbltok/gcode"
	"github.com/mastercactapus/grbltok/machine"
)

// Acker is told about command acknowledgements and controller resets.
// *Sender implements it.
type Acker interface {
	Ack(Status)
	Reset()
}

// Monitor reads controller output from an io.Reader and keeps the folded
// machine state, probe results and settings.
type Monitor struct {
	r   io.Reader
	log *zap.Logger
	tk  *Tokenizer
	ack Acker

	mx       sync.Mutex
	last     machine.State
	probes   []machine.ProbeResult
	settings map[Setting]SettingValue
	state    chan machine.State
	subs     []chan Token
}

var _ machine.Adapter = &Monitor{}

// MonitorOption configures a Monitor.
type MonitorOption func(*Monitor)

// WithMonitorLogger sets the logger for unreadable lines and read errors.
func WithMonitorLogger(l *zap.Logger) MonitorOption {
	return func(m *Monitor) { m.log = l }
}

// WithAcker forwards `ok`/`error:` responses and resets to a.
func WithAcker(a Acker) MonitorOption {
	return func(m *Monitor) { m.ack = a }
}

func NewMonitor(r io.Reader, opts ...MonitorOption) *Monitor {
	m := &Monitor{
		r:        r,
		log:      zap.NewNop(),
		state:    make(chan machine.State),
		settings: make(map[Setting]SettingValue),
	}
	for _, o := range opts {
		o(m)
	}
	m.tk = NewTokenizer(WithLogger(m.log))
	return m
}

// Run reads until the reader fails or ctx is done. A reader that ends with
// io.EOF returns nil.
func (m *Monitor) Run(ctx context.Context) error {
	data := make(chan []byte)
	errCh := make(chan error, 1)
	go m.readLoop(ctx, data, errCh)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-errCh:
			if err == io.EOF {
				return nil
			}
			return err
		case buf := <-data:
			for _, c := range buf {
				m.push(c)
			}
		}
	}
}

func (m *Monitor) readLoop(ctx context.Context, data chan<- []byte, errCh chan<- error) {
	buf := make([]byte, 1024)
	for {
		n, err := m.r.Read(buf)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			select {
			case data <- chunk:
			case <-ctx.Done():
				return
			}
		}
		if err != nil {
			errCh <- err
			return
		}
	}
}

func (m *Monitor) push(c byte) {
	complete, err := m.tk.Push(c)
	if !complete {
		return
	}
	if err != nil {
		m.log.Warn("parse response", zap.Error(err))
	}

	// partial tokens of a failed line are still applied
	tokens := m.tk.Tokens().Tokens()
	m.tk.Tokens().Reset()
	if len(tokens) == 0 {
		return
	}

	m.mx.Lock()
	for _, tok := range tokens {
		m.last = Apply(m.last, tok)
		switch t := tok.(type) {
		case ProbeResult:
			m.probes = append(m.probes, t.ProbeResult)
		case SettingValue:
			m.settings[t.Key] = t
		}
	}
	last := m.last
	subs := m.subs
	m.mx.Unlock()

	for _, tok := range tokens {
		if m.ack == nil {
			break
		}
		switch t := tok.(type) {
		case Status:
			m.ack.Ack(t)
		case Welcome:
			m.ack.Reset()
		}
	}
	for _, ch := range subs {
		for _, tok := range tokens {
			select {
			case ch <- tok:
			default:
			}
		}
	}
	select {
	case m.state <- last:
	default:
	}
}

// Subscribe returns a channel receiving every token read. Tokens are dropped
// when the channel is full.
func (m *Monitor) Subscribe(size int) <-chan Token {
	ch := make(chan Token, size)
	m.mx.Lock()
	m.subs = append(m.subs, ch)
	m.mx.Unlock()
	return ch
}

// State returns a channel that receives the state after each response line
// when a reader is waiting.
func (m *Monitor) State() <-chan machine.State { return m.state }

func (m *Monitor) CurrentState() machine.State {
	m.mx.Lock()
	defer m.mx.Unlock()
	return m.last
}

func (m *Monitor) Probes() []machine.ProbeResult {
	m.mx.Lock()
	defer m.mx.Unlock()
	res := make([]machine.ProbeResult, len(m.probes))
	copy(res, m.probes)
	return res
}

func (m *Monitor) ResetProbes() {
	m.mx.Lock()
	m.probes = nil
	m.mx.Unlock()
}

// Settings returns every setting value seen so far.
func (m *Monitor) Settings() Settings {
	m.mx.Lock()
	defer m.mx.Unlock()
	s := Settings{values: make(map[Setting]SettingValue, len(m.settings))}
	for k, v := range m.settings {
		s.values[k] = v
	}
	return s
}

// Poll writes a status query to w every interval until ctx is done or a
// write fails.
func Poll(ctx context.Context, w io.Writer, interval time.Duration) error {
	q, _ := gcode.LineStatusQuery.Byte()
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			if _, err := w.Write([]byte{q}); err != nil {
				return err
			}
		}
	}
}
