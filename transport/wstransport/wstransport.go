// Package wstransport adapts a gorilla/websocket connection into an
// mcp/transport.Transport, carrying one JSON text message per WebSocket
// text frame. It is the counterpart to the length-prefixed and
// line-delimited framings for hosts that want MCP over a browser-reachable
// connection.
package wstransport

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Transport implements transport.Transport over a single websocket
// connection. Concurrent writes are serialised internally because
// gorilla/websocket connections are not safe for concurrent writers, even
// though the mcp session loop already guarantees single-writer use.
type Transport struct {
	conn    *websocket.Conn
	writeMu sync.Mutex
}

// New wraps an already-established websocket connection.
func New(conn *websocket.Conn) *Transport {
	return &Transport{conn: conn}
}

// Upgrade upgrades an incoming HTTP request to a websocket connection and
// returns it wrapped as a Transport, for use inside an http.Handler.
func Upgrade(w http.ResponseWriter, r *http.Request) (*Transport, error) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return nil, err
	}
	return New(conn), nil
}

// Dial connects to a websocket server at url and returns the connection
// wrapped as a Transport.
func Dial(url string, handshakeTimeout time.Duration) (*Transport, error) {
	dialer := websocket.Dialer{HandshakeTimeout: handshakeTimeout}
	conn, _, err := dialer.Dial(url, nil)
	if err != nil {
		return nil, err
	}
	return New(conn), nil
}

// Send implements transport.Transport.
func (t *Transport) Send(message string) error {
	t.writeMu.Lock()
	defer t.writeMu.Unlock()
	return t.conn.WriteMessage(websocket.TextMessage, []byte(message))
}

// Recv implements transport.Transport. A websocket close frame surfaces as
// the orderly-close (none) case.
func (t *Transport) Recv() (string, bool, error) {
	for {
		kind, data, err := t.conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return "", false, nil
			}
			return "", false, err
		}
		if kind != websocket.TextMessage {
			continue // ignore binary/ping/pong frames at this layer
		}
		return string(data), true, nil
	}
}

// Close implements transport.Transport.
func (t *Transport) Close() error {
	return t.conn.Close()
}
