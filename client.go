// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fbm

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"
)

// CloseNormal is the WebSocket normal-closure status code, used by
// Disconnect.
const CloseNormal = 1000

// Client is the connection entity (§3 "Connection entity"): it holds the
// transport, the send-lock, the shared outbound stream buffer, the
// pending-request map, and the two close event sinks.
type Client struct {
	cfg       Config
	transport Transport
	pool      *Pool

	pending  pendingMap
	sendLock chan struct{}
	streamBuf []byte

	log Logger

	mu          sync.Mutex
	connected   bool
	closeOnce   sync.Once
	onClosed    func()
	onClosedErr func(error)

	keepAliveStop chan struct{}
	recvStopped   chan struct{}
}

// NewClient constructs a Client over transport. Connect must be called
// before Send/SendStream will succeed.
func NewClient(transport Transport, opts ...Option) *Client {
	cfg := defaultConfig()
	for _, o := range opts {
		o(&cfg)
	}
	if cfg.MemoryManager == nil {
		cfg.MemoryManager = NewPooledMemoryManager()
	}
	if cfg.HeaderEncoding == nil {
		cfg.HeaderEncoding = UTF8HeaderEncoding
	}
	if cfg.DebugLog == nil {
		cfg.DebugLog = NoopLogger
	}
	if cfg.ControlFrameHandler == nil {
		cfg.ControlFrameHandler = func([]byte) {}
	}
	pool := cfg.Pool
	if pool == nil {
		pool = NewPool(cfg.MemoryManager, cfg.HeaderEncoding, cfg.MessageBufferSize, cfg.PoolSoftCap)
	}

	streamSize := cfg.MaxMessageSize
	if streamSize <= 0 || streamSize > 128*1024 {
		streamSize = 128 * 1024
	}

	return &Client{
		cfg:       cfg,
		transport: transport,
		pool:      pool,
		sendLock:  make(chan struct{}, 1),
		streamBuf: make([]byte, streamSize),
		log:       cfg.DebugLog,
	}
}

// RentRequest rents a Request from the Client's Pool.
func (c *Client) RentRequest() (*Request, error) { return c.pool.Rent() }

// RentRequestWithID rents a Request forced to a specific message-id,
// primarily for tests exercising ErrDuplicateMessageID.
func (c *Client) RentRequestWithID(id int32) (*Request, error) { return c.pool.RentWithID(id) }

// ReturnRequest returns req to the Client's Pool.
func (c *Client) ReturnRequest(req *Request) { c.pool.Return(req) }

// OnConnectionClosed registers the Connection-Closed event sink, raised
// exactly once after the receive loop terminates, on any exit path.
func (c *Client) OnConnectionClosed(f func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onClosed = f
}

// OnConnectionClosedWithError registers the Connection-Closed-On-Error
// event sink, raised before Connection-Closed when the loop's exit was
// caused by a transport error.
func (c *Client) OnConnectionClosedWithError(f func(error)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onClosedErr = f
}

// Connect builds a URI appending query parameters b=<RecvBufferSize>,
// hb=<MaxHeaderBufferSize>, mx=<MaxMessageSize>, dials the transport, and
// spawns the receive loop on success.
func (c *Client) Connect(ctx context.Context, rawURL string, header http.Header) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("fbm: parse connect url: %w", err)
	}
	q := u.Query()
	q.Set("b", strconv.Itoa(c.cfg.RecvBufferSize))
	q.Set("hb", strconv.Itoa(c.cfg.MaxHeaderBufferSize))
	q.Set("mx", strconv.Itoa(c.cfg.MaxMessageSize))
	u.RawQuery = q.Encode()

	if header == nil {
		header = http.Header{}
	}
	if c.cfg.SubProtocol != "" {
		header.Set("Sec-WebSocket-Protocol", c.cfg.SubProtocol)
	}

	if err := c.transport.Connect(ctx, u, header); err != nil {
		return fmt.Errorf("fbm: connect: %w", err)
	}

	c.mu.Lock()
	c.connected = true
	c.mu.Unlock()

	c.recvStopped = make(chan struct{})
	go c.recvLoop()

	if c.cfg.KeepAliveInterval > 0 {
		c.keepAliveStop = make(chan struct{})
		go c.keepAliveLoop()
	}

	return nil
}

// Disconnect sends a normal-closure close frame. The receive loop
// observes the close and exits, raising Connection-Closed.
func (c *Client) Disconnect(ctx context.Context) error {
	return c.transport.Disconnect(ctx, CloseNormal, "")
}

// Connected reports whether Connect succeeded and the receive loop has
// not yet observed a close.
func (c *Client) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

func (c *Client) keepAliveLoop() {
	ticker := time.NewTicker(c.cfg.KeepAliveInterval)
	defer ticker.Stop()
	for {
		select {
		case <-c.keepAliveStop:
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), c.cfg.KeepAliveInterval)
			err := c.transport.SendPing(ctx)
			cancel()
			if err != nil {
				c.log.Warnf("fbm: keep-alive ping failed: %v", err)
			}
		}
	}
}

// shutdown runs exactly once per connection: it frees the receive
// buffer (implicitly, by returning from recvLoop), cancels every
// pending waiter, clears the pending map, marks the connection closed,
// and raises the close events in order.
func (c *Client) shutdown(cause error) {
	c.closeOnce.Do(func() {
		if c.keepAliveStop != nil {
			close(c.keepAliveStop)
		}
		for _, req := range c.pending.valuesSnapshot() {
			req.wait.manualCancellation()
		}
		c.pending.clear()

		c.mu.Lock()
		c.connected = false
		onErr := c.onClosedErr
		onClosed := c.onClosed
		c.mu.Unlock()

		if cause != nil && onErr != nil {
			onErr(cause)
		}
		if onClosed != nil {
			onClosed()
		}
		if c.recvStopped != nil {
			close(c.recvStopped)
		}
	})
}
