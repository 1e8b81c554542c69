// Package spjs reads and writes a serial port shared through
// serial-port-json-server.
package spjs

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

type DataFrame struct {
	Port string `json:"P"`
	Data string `json:"D"`
}
type CmdStatus struct {
	Cmd        string
	QueueCount int `json:"QCnt"`
	Type       []string
	Data       []string `json:"D"`
	ID         string   `json:"Id"`
}

type ErrorMessage struct {
	Error string
}
type SerialPortList struct {
	SerialPorts []SerialPort
}
type SerialPort struct {
	Name         string
	Friendly     string
	SerialNumber string
	IsOpen       bool
	Baud         int
}

// JSON is the payload of a `sendjson` command.
type JSON struct {
	Port string `json:"P"`
	Data []Data
}
type Data struct {
	Data string `json:"D"`
	ID   string `json:"Id"`
}

var errUnknownMessage = errors.New("unknown message")

func parseMessage(data []byte) (val interface{}, err error) {
	var msg map[string]json.RawMessage
	if err = json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	check := func(fieldName string, v interface{}) bool {
		if msg[fieldName] == nil {
			return false
		}
		val = v
		err = json.Unmarshal(data, val)
		return true
	}
	if check("Error", &ErrorMessage{}) {
		return
	}
	if check("SerialPorts", &SerialPortList{}) {
		return
	}
	if check("Cmd", &CmdStatus{}) {
		return
	}
	if check("D", &DataFrame{}) {
		return
	}

	return nil, errUnknownMessage
}

// Client exposes one port of a serial-port-json-server. Reads return the
// port's output, one newline terminated line per data frame. Writes are
// queued to the port.
type Client struct {
	url  string
	port string
	baud int
	log  *zap.Logger

	lastID   int64
	outgoing chan []byte

	pr *io.PipeReader
	pw *io.PipeWriter
}

var _ io.ReadWriter = &Client{}

type Option func(*Client)

func WithLogger(l *zap.Logger) Option { return func(c *Client) { c.log = l } }

// WithBaud sets the baud rate used when the client opens the port.
func WithBaud(baud int) Option { return func(c *Client) { c.baud = baud } }

// Dial starts a client for port on the server at url. It reconnects until
// ctx is done, after which reads fail with ctx.Err().
func Dial(ctx context.Context, url, port string, opts ...Option) *Client {
	c := &Client{
		url:      url,
		port:     port,
		baud:     115200,
		log:      zap.NewNop(),
		outgoing: make(chan []byte, 1000),
	}
	for _, o := range opts {
		o(c)
	}
	c.pr, c.pw = io.Pipe()

	go c.loop(ctx)
	return c
}

func (c *Client) Read(p []byte) (int, error) { return c.pr.Read(p) }

// Write queues p to be sent to the port.
func (c *Client) Write(p []byte) (int, error) {
	data, err := json.Marshal(JSON{
		Port: c.port,
		Data: []Data{{Data: string(p), ID: c.nextID()}},
	})
	if err != nil {
		return 0, err
	}
	c.outgoing <- append([]byte("sendjson "), data...)
	return len(p), nil
}

func (c *Client) nextID() string {
	id := atomic.AddInt64(&c.lastID, 1)
	return "cmd_" + strconv.FormatInt(id, 36)
}

func (c *Client) handle(val interface{}) []byte {
	switch msg := val.(type) {
	case *DataFrame:
		if msg.Port != c.port {
			return nil
		}
		if len(msg.Data) == 0 || msg.Data[len(msg.Data)-1] != '\n' {
			msg.Data += "\n"
		}
		if _, err := io.WriteString(c.pw, msg.Data); err != nil {
			c.log.Warn("deliver data frame", zap.Error(err))
		}
	case *ErrorMessage:
		c.log.Error("server error", zap.String("error", msg.Error))
	case *SerialPortList:
		for _, port := range msg.SerialPorts {
			if port.Name == c.port && !port.IsOpen {
				c.log.Info("opening port", zap.String("port", c.port), zap.Int("baud", c.baud))
				return []byte("open " + c.port + " " + strconv.Itoa(c.baud) + " grbl")
			}
		}
	}
	return nil
}

func (c *Client) readLoop(ws *websocket.Conn, done chan struct{}) {
	defer close(done)
	for {
		_, data, err := ws.ReadMessage()
		if err != nil {
			c.log.Warn("read", zap.Error(err))
			return
		}
		if !bytes.HasPrefix(data, []byte("{")) {
			// ignore echo messages
			continue
		}
		val, err := parseMessage(data)
		if err != nil {
			c.log.Debug("parse", zap.ByteString("message", data), zap.Error(err))
			continue
		}
		if cmd := c.handle(val); cmd != nil {
			c.outgoing <- cmd
		}
	}
}

func (c *Client) loop(ctx context.Context) {
	defer func() { c.pw.CloseWithError(ctx.Err()) }()

	var nextUp []byte
reconnect:
	for {
		if ctx.Err() != nil {
			return
		}
		c.log.Info("connecting", zap.String("url", c.url))
		ws, _, err := websocket.DefaultDialer.DialContext(ctx, c.url, nil)
		if err != nil {
			c.log.Warn("connect", zap.Error(err))
			select {
			case <-ctx.Done():
			case <-time.After(3 * time.Second):
			}
			continue
		}
		c.log.Info("connected")
		done := make(chan struct{})
		go c.readLoop(ws, done)

		// refresh the port list on every connection
		if err = ws.WriteMessage(websocket.TextMessage, []byte("list")); err != nil {
			c.log.Warn("send", zap.Error(err))
			ws.Close()
			continue
		}

		for {
			if nextUp != nil {
				if err = ws.WriteMessage(websocket.TextMessage, nextUp); err != nil {
					c.log.Warn("send", zap.Error(err))
					ws.Close()
					continue reconnect
				}
				nextUp = nil
			}

			select {
			case <-ctx.Done():
				ws.Close()
				return
			case <-done:
				ws.Close()
				continue reconnect
			case nextUp = <-c.outgoing:
			}
		}
	}
}
