// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package wsconn implements fbm.Transport over a github.com/gorilla/websocket
// connection. It is the out-of-core adapter referenced by the core's
// Transport contract.
package wsconn

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"code.hybscloud.com/fbm"
)

// Conn adapts a single *websocket.Conn to fbm.Transport. A Conn is
// reusable across at most one Connect/Disconnect cycle; construct a new
// Conn per logical connection attempt.
type Conn struct {
	dialer *websocket.Dialer

	mu     sync.Mutex
	conn   *websocket.Conn
	writer io.WriteCloser // open writer of the logical message being sent

	readMu   sync.Mutex
	curKind  fbm.MessageKind
	curErr   error
	reader   websocketFrameReader
}

type websocketFrameReader interface {
	Read(p []byte) (int, error)
}

// New constructs a Conn using a dialer with the given handshake timeout.
// A zero handshakeTimeout uses gorilla/websocket's own default.
func New(handshakeTimeout time.Duration) *Conn {
	return &Conn{dialer: &websocket.Dialer{HandshakeTimeout: handshakeTimeout}}
}

// Connect dials uri, sending header as the upgrade request's headers.
func (c *Conn) Connect(ctx context.Context, uri *url.URL, header http.Header) error {
	conn, _, err := c.dialer.DialContext(ctx, uri.String(), header)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()
	return nil
}

// Send writes p as part of one WebSocket message. The first call of a
// logical message opens a message writer with NextWriter (kind is taken
// from that call); p is written into it, and the call with endOfMessage
// set closes it, which sends the message's final frame. Fragments of two
// logical messages must not interleave; the core's send-lock ensures
// that. A failed write closes the open writer.
func (c *Conn) Send(ctx context.Context, p []byte, kind fbm.MessageKind, endOfMessage bool) error {
	conn := c.currentConn()
	if conn == nil {
		return fbm.ErrNotConnected
	}
	if dl, ok := ctx.Deadline(); ok {
		_ = conn.SetWriteDeadline(dl)
	}
	wsKind := websocket.BinaryMessage
	if kind == fbm.KindText {
		wsKind = websocket.TextMessage
	}
	if c.writer == nil {
		w, err := conn.NextWriter(wsKind)
		if err != nil {
			return err
		}
		c.writer = w
	}
	_, err := c.writer.Write(p)
	if err != nil || endOfMessage {
		if cerr := c.writer.Close(); err == nil {
			err = cerr
		}
		c.writer = nil
	}
	return err
}

// SendPing writes a WebSocket ping control frame.
func (c *Conn) SendPing(ctx context.Context) error {
	conn := c.currentConn()
	if conn == nil {
		return fbm.ErrNotConnected
	}
	deadline := time.Now().Add(10 * time.Second)
	if dl, ok := ctx.Deadline(); ok {
		deadline = dl
	}
	return conn.WriteControl(websocket.PingMessage, nil, deadline)
}

// Receive reads the current WebSocket message into buf through the
// message reader from NextReader, at most len(buf) bytes per call; the
// rest of the message is delivered on later calls. endOfMessage is true
// only on the call whose read returns io.EOF, which may be a call that
// returns zero bytes.
func (c *Conn) Receive(ctx context.Context, buf []byte) (n int, endOfMessage bool, kind fbm.MessageKind, err error) {
	c.readMu.Lock()
	defer c.readMu.Unlock()

	conn := c.currentConn()
	if conn == nil {
		return 0, false, fbm.KindClose, fbm.ErrNotConnected
	}

	if c.reader == nil {
		if dl, ok := ctx.Deadline(); ok {
			_ = conn.SetReadDeadline(dl)
		}
		opcode, r, rerr := conn.NextReader()
		if rerr != nil {
			if websocket.IsCloseError(rerr, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return 0, true, fbm.KindClose, nil
			}
			return 0, false, fbm.KindClose, rerr
		}
		c.reader = r
		c.curKind = fbm.KindBinary
		if opcode == websocket.TextMessage {
			c.curKind = fbm.KindText
		}
	}

	n, rerr := c.reader.Read(buf)
	if rerr != nil {
		c.reader = nil
		if rerr == io.EOF {
			return n, true, c.curKind, nil
		}
		return 0, false, fbm.KindClose, rerr
	}
	return n, false, c.curKind, nil
}

// Disconnect sends a WebSocket close frame with status/reason and closes
// the underlying TCP connection.
func (c *Conn) Disconnect(ctx context.Context, status int, reason string) error {
	conn := c.currentConn()
	if conn == nil {
		return nil
	}
	deadline := time.Now().Add(5 * time.Second)
	if dl, ok := ctx.Deadline(); ok {
		deadline = dl
	}
	msg := websocket.FormatCloseMessage(status, reason)
	_ = conn.WriteControl(websocket.CloseMessage, msg, deadline)
	return conn.Close()
}

func (c *Conn) currentConn() *websocket.Conn {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn
}

var _ fbm.Transport = (*Conn)(nil)
