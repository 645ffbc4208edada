package stdlib

import (
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"rossa/internal/extern"
	"rossa/internal/intern"
	"rossa/internal/token"
	"rossa/internal/trace"
	"rossa/internal/value"
)

// wsConn pairs a live gorilla/websocket connection with a buffered
// inbound channel, mirroring the teacher's network.WebSocketConn so
// ws_recv can block on a channel rather than racing ReadMessage calls
// from multiple script goroutines.
type wsConn struct {
	conn   *websocket.Conn
	mu     sync.Mutex
	inbox  chan []byte
	closed bool
}

type wsPool struct {
	mu    sync.RWMutex
	conns map[string]*wsConn
}

var sockets = &wsPool{conns: make(map[string]*wsConn)}

// RegisterWebsocket binds the `ws` library: ws_dial, ws_send, ws_recv,
// ws_close (spec.md DOMAIN STACK table, grounded on the teacher's
// network.WebSocketConn / WebSocketConnect).
func RegisterWebsocket(reg *extern.Registry) {
	reg.Register("ws", "dial", wsDial)
	reg.Register("ws", "send", wsSend)
	reg.Register("ws", "recv", wsRecv)
	reg.Register("ws", "close", wsClose)
}

func (c *wsConn) readLoop() {
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			close(c.inbox)
			return
		}
		c.inbox <- data
	}
}

func wsDial(args []value.Value, at token.Token, in *intern.Table, tr *trace.Stack) (value.Value, error) {
	id, err := argString(args, 0, "ws_dial")
	if err != nil {
		return value.Nil, err
	}
	url, err := argString(args, 1, "ws_dial")
	if err != nil {
		return value.Nil, err
	}
	dialer := websocket.DefaultDialer
	dialer.HandshakeTimeout = 10 * time.Second
	conn, _, err := dialer.Dial(url, nil)
	if err != nil {
		return value.Nil, fmt.Errorf("ws_dial: %w", err)
	}
	c := &wsConn{conn: conn, inbox: make(chan []byte, 100)}
	go c.readLoop()

	sockets.mu.Lock()
	sockets.conns[id] = c
	sockets.mu.Unlock()
	return value.Bool(true), nil
}

func getSocket(id string) (*wsConn, error) {
	sockets.mu.RLock()
	defer sockets.mu.RUnlock()
	c, ok := sockets.conns[id]
	if !ok {
		return nil, fmt.Errorf("no open websocket %q", id)
	}
	return c, nil
}

func wsSend(args []value.Value, at token.Token, in *intern.Table, tr *trace.Stack) (value.Value, error) {
	id, err := argString(args, 0, "ws_send")
	if err != nil {
		return value.Nil, err
	}
	msg, err := argString(args, 1, "ws_send")
	if err != nil {
		return value.Nil, err
	}
	c, err := getSocket(id)
	if err != nil {
		return value.Nil, fmt.Errorf("ws_send: %w", err)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return value.Nil, fmt.Errorf("ws_send: connection %q is closed", id)
	}
	if err := c.conn.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
		return value.Nil, fmt.Errorf("ws_send: %w", err)
	}
	return value.Bool(true), nil
}

// wsRecv blocks until a message arrives or the connection closes, in
// which case it returns Nil (a script polls with a loop around recv
// rather than the interpreter exposing select/timeout primitives).
func wsRecv(args []value.Value, at token.Token, in *intern.Table, tr *trace.Stack) (value.Value, error) {
	id, err := argString(args, 0, "ws_recv")
	if err != nil {
		return value.Nil, err
	}
	c, err := getSocket(id)
	if err != nil {
		return value.Nil, fmt.Errorf("ws_recv: %w", err)
	}
	data, ok := <-c.inbox
	if !ok {
		return value.Nil, nil
	}
	return value.Str(string(data)), nil
}

func wsClose(args []value.Value, at token.Token, in *intern.Table, tr *trace.Stack) (value.Value, error) {
	id, err := argString(args, 0, "ws_close")
	if err != nil {
		return value.Nil, err
	}
	sockets.mu.Lock()
	c, ok := sockets.conns[id]
	if ok {
		delete(sockets.conns, id)
	}
	sockets.mu.Unlock()
	if !ok {
		return value.Bool(false), nil
	}
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
	return value.Bool(true), c.conn.Close()
}
