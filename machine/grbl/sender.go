package grbl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/mastercactapus/grbltok/gcode"
)

// DefaultRXBufferSize is the serial receive buffer of a stock controller.
const DefaultRXBufferSize = 128

var (
	// ErrReset is returned by Send if the controller resets before every
	// line is acknowledged.
	ErrReset = errors.New("controller reset")

	// ErrCommand wraps an `error:<n>` response to a sent line.
	ErrCommand = errors.New("command failed")
)

// Sender streams lines to a controller, keeping no more unacknowledged bytes
// in flight than its receive buffer holds. Acknowledgements come from a
// Monitor reading the same connection.
type Sender struct {
	w    io.Writer
	size int

	mx      sync.Mutex
	wMx     sync.Mutex
	ackCh   chan Status
	resetCh chan struct{}

	used    int
	pending []int
}

var _ Acker = &Sender{}

func NewSender(w io.Writer, rxSize int) *Sender {
	return &Sender{
		w:       w,
		size:    rxSize,
		ackCh:   make(chan Status, rxSize),
		resetCh: make(chan struct{}, 1),
	}
}

// Ack records a response to the oldest line in flight.
func (s *Sender) Ack(st Status) {
	select {
	case s.ackCh <- st:
	default:
	}
}

// Reset aborts an in-progress Send.
func (s *Sender) Reset() {
	select {
	case s.resetCh <- struct{}{}:
	default:
	}
}

// WriteByte writes a realtime command without buffer accounting.
func (s *Sender) WriteByte(b byte) error {
	s.mx.Lock()
	defer s.mx.Unlock()
	_, err := s.w.Write([]byte{b})
	return err
}

// Send writes every line of r and returns once all have been acknowledged.
// An `error:` response does not stop the stream; the first one is returned.
func (s *Sender) Send(ctx context.Context, r gcode.Reader) error {
	s.wMx.Lock()
	defer s.wMx.Unlock()

	// drop stale acknowledgements and resets
	for {
		select {
		case <-s.ackCh:
			continue
		case <-s.resetCh:
			continue
		default:
		}
		break
	}
	s.used = 0
	s.pending = s.pending[:0]

	var first error
	keep := func(err error) {
		if first == nil {
			first = err
		}
	}

	for {
		l, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}

		if b, ok := l.Type.Byte(); ok {
			if err = s.WriteByte(b); err != nil {
				return err
			}
			continue
		}

		text := l.String() + "\n"
		if len(text) > s.size {
			return fmt.Errorf("%w: %d bytes", gcode.ErrLineTooLong, len(text))
		}
		for s.used+len(text) > s.size {
			if err = s.next(ctx); errors.Is(err, ErrCommand) {
				keep(err)
			} else if err != nil {
				return err
			}
		}

		s.mx.Lock()
		_, err = io.WriteString(s.w, text)
		s.mx.Unlock()
		if err != nil {
			return err
		}
		s.used += len(text)
		s.pending = append(s.pending, len(text))
	}

	for len(s.pending) > 0 {
		if err := s.next(ctx); errors.Is(err, ErrCommand) {
			keep(err)
		} else if err != nil {
			return err
		}
	}
	return first
}

// next waits for the oldest line in flight to be acknowledged.
func (s *Sender) next(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-s.resetCh:
		s.used = 0
		s.pending = s.pending[:0]
		return ErrReset
	case st := <-s.ackCh:
		if len(s.pending) > 0 {
			s.used -= s.pending[0]
			s.pending = s.pending[1:]
		}
		if !st.OK() {
			return fmt.Errorf("%w: error:%d (%s)", ErrCommand, st.Err, ErrorText(st.Err))
		}
		return nil
	}
}
