package grbl

import (
	"bytes"
	"context"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mastercactapus/grbltok/coord"
	"github.com/mastercactapus/grbltok/machine"
)

type recordingAcker struct {
	mx     sync.Mutex
	acks   []Status
	resets int
}

func (r *recordingAcker) Ack(s Status) {
	r.mx.Lock()
	r.acks = append(r.acks, s)
	r.mx.Unlock()
}

func (r *recordingAcker) Reset() {
	r.mx.Lock()
	r.resets++
	r.mx.Unlock()
}

func TestMonitor_Run(t *testing.T) {
	stream := "Grbl 1.1h ['$' for help]\r\n" +
		"<Idle|MPos:1.000,2.000,3.000|FS:0,0|WCO:0.000,0.000,1.000>\r\n" +
		"[PRB:1.000,2.000,-3.000:1]\r\n" +
		"ok\r\n" +
		"garbage\r\n" +
		"$11=0.010\r\n" +
		"[PRB:4.000,5.000,-6.000:1]\r\n" +
		"error:20\r\n"

	ack := &recordingAcker{}
	m := NewMonitor(strings.NewReader(stream), WithAcker(ack))
	toks := m.Subscribe(100)

	require.NoError(t, m.Run(context.Background()))

	s := m.CurrentState()
	assert.Equal(t, "Idle", s.Status)
	assert.Equal(t, coord.Point{X: 1, Y: 2, Z: 2}, s.WPos)
	assert.Equal(t, "1.1h", s.Version)
	assert.Equal(t, 20, s.LastError)

	assert.Equal(t, []machine.ProbeResult{
		{Point: coord.Point{X: 1, Y: 2, Z: -3}, Valid: true},
		{Point: coord.Point{X: 4, Y: 5, Z: -6}, Valid: true},
	}, m.Probes())
	m.ResetProbes()
	assert.Empty(t, m.Probes())

	v, ok := m.Settings().Get(11)
	require.True(t, ok)
	assert.Equal(t, 0.01, v.Float)

	assert.Equal(t, []Status{{}, {Err: 20}}, ack.acks)
	assert.Equal(t, 1, ack.resets)

	assert.Len(t, toks, 13)
	assert.Equal(t, Welcome{Text: "Grbl 1.1h ['$' for help]"}, <-toks)
}

func TestMonitor_Cancel(t *testing.T) {
	r, w := io.Pipe()
	defer w.Close()
	m := NewMonitor(r)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, m.Run(ctx), context.Canceled)
}

func TestPoll(t *testing.T) {
	var buf safeBuffer
	ctx, cancel := context.WithTimeout(context.Background(), 35*time.Millisecond)
	defer cancel()

	err := Poll(ctx, &buf, 10*time.Millisecond)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.NotEmpty(t, buf.String())
	assert.Equal(t, "", strings.Trim(buf.String(), "?"))
}

type safeBuffer struct {
	mx  sync.Mutex
	buf bytes.Buffer
}

func (b *safeBuffer) Write(p []byte) (int, error) {
	b.mx.Lock()
	defer b.mx.Unlock()
	return b.buf.Write(p)
}

func (b *safeBuffer) String() string {
	b.mx.Lock()
	defer b.mx.Unlock()
	return b.buf.String()
}
