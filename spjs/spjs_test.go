package spjs

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMessage(t *testing.T) {
	val, err := parseMessage([]byte(`{"P":"COM1","D":"ok"}`))
	require.NoError(t, err)
	assert.Equal(t, &DataFrame{Port: "COM1", Data: "ok"}, val)

	val, err = parseMessage([]byte(`{"SerialPorts":[{"Name":"COM1","IsOpen":true,"Baud":115200}]}`))
	require.NoError(t, err)
	assert.Equal(t, &SerialPortList{SerialPorts: []SerialPort{{Name: "COM1", IsOpen: true, Baud: 115200}}}, val)

	val, err = parseMessage([]byte(`{"Cmd":"Complete","Id":"cmd_1","P":"COM1"}`))
	require.NoError(t, err)
	assert.Equal(t, "cmd_1", val.(*CmdStatus).ID)

	val, err = parseMessage([]byte(`{"Error":"port busy"}`))
	require.NoError(t, err)
	assert.Equal(t, &ErrorMessage{Error: "port busy"}, val)

	_, err = parseMessage([]byte(`{"Version":"1.96"}`))
	assert.ErrorIs(t, err, errUnknownMessage)
}

func TestClient(t *testing.T) {
	received := make(chan string, 10)
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer ws.Close()
		for {
			_, data, err := ws.ReadMessage()
			if err != nil {
				return
			}
			received <- string(data)
			switch {
			case string(data) == "list":
				ws.WriteMessage(websocket.TextMessage, []byte(`{"SerialPorts":[{"Name":"COM1","IsOpen":false},{"Name":"COM2","IsOpen":false}]}`))
			case strings.HasPrefix(string(data), "open "):
				ws.WriteMessage(websocket.TextMessage, []byte(`{"P":"COM1","D":"ok"}`))
				ws.WriteMessage(websocket.TextMessage, []byte(`{"P":"COM2","D":"ignored"}`))
				ws.WriteMessage(websocket.TextMessage, []byte(`COM1 echo`))
				ws.WriteMessage(websocket.TextMessage, []byte(`{"P":"COM1","D":"<Idle|MPos:0.000,0.000,0.000>\n"}`))
			}
		}
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	c := Dial(ctx, "ws"+strings.TrimPrefix(srv.URL, "http"), "COM1")

	assert.Equal(t, "list", <-received)
	assert.Equal(t, "open COM1 115200 grbl", <-received)

	br := bufio.NewReader(c)
	line, err := br.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "ok\n", line)
	line, err = br.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "<Idle|MPos:0.000,0.000,0.000>\n", line)

	_, err = c.Write([]byte("?"))
	require.NoError(t, err)
	assert.Equal(t, `sendjson {"P":"COM1","Data":[{"D":"?","Id":"cmd_1"}]}`, <-received)

	cancel()
	_, err = br.ReadString('\n')
	assert.ErrorIs(t, err, context.Canceled)
}
