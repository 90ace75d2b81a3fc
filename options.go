// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fbm

import "time"

// Config configures a Client (§6). NewClient starts from defaultConfig
// and applies each Option in order; a nil MemoryManager, HeaderEncoding,
// DebugLog or ControlFrameHandler is then replaced by its default.
// Neither NewClient nor Connect validates the size fields.
type Config struct {
	// RecvBufferSize bounds the per-Receive transport buffer.
	RecvBufferSize int
	// MessageBufferSize bounds each request's fixed buffer capacity
	// (headers + body, non-streaming mode).
	MessageBufferSize int
	// MaxHeaderBufferSize is advertised to the server only.
	MaxHeaderBufferSize int
	// MaxMessageSize bounds an assembled inbound message and the server
	// advertisement; it also bounds stream chunk size.
	MaxMessageSize int

	// MemoryManager provides buffers for the request Pool. Defaults to a
	// new PooledMemoryManager for each Client if nil.
	MemoryManager MemoryManager
	// Pool, if non-nil, is used instead of constructing a private Pool
	// from MemoryManager/MessageBufferSize/PoolSoftCap. The caller
	// retains ownership of a supplied Pool.
	Pool *Pool
	// PoolSoftCap bounds idle Requests retained for reuse when Pool is
	// nil. Zero means unbounded.
	PoolSoftCap int

	// KeepAliveInterval, if positive, sends a ping every interval until
	// the connection closes. Zero disables keep-alive.
	KeepAliveInterval time.Duration
	// RequestTimeout is the default per-send timeout. Zero disables it.
	RequestTimeout time.Duration
	// SubProtocol is the optional WebSocket sub-protocol to negotiate.
	SubProtocol string
	// HeaderEncoding is the text encoding for header values. Defaults to
	// UTF8HeaderEncoding if nil.
	HeaderEncoding *HeaderEncoding
	// DebugLog is the optional logging sink. Defaults to NoopLogger if
	// nil.
	DebugLog Logger
	// ControlFrameHandler is invoked with the body of any message id
	// -500 control frame. The default discards it.
	ControlFrameHandler func([]byte)
}

// Option mutates a Config. The pattern mirrors the teacher's
// functional-options surface: defaults live in defaultConfig and each
// Option overrides exactly one concern.
type Option func(*Config)

func defaultConfig() Config {
	return Config{
		RecvBufferSize:      64 * 1024,
		MessageBufferSize:   16 * 1024,
		MaxHeaderBufferSize: 4 * 1024,
		MaxMessageSize:      1 << 20,
		PoolSoftCap:         256,
		HeaderEncoding:      UTF8HeaderEncoding,
	}
}

func WithRecvBufferSize(n int) Option { return func(c *Config) { c.RecvBufferSize = n } }

func WithMessageBufferSize(n int) Option { return func(c *Config) { c.MessageBufferSize = n } }

func WithMaxHeaderBufferSize(n int) Option { return func(c *Config) { c.MaxHeaderBufferSize = n } }

func WithMaxMessageSize(n int) Option { return func(c *Config) { c.MaxMessageSize = n } }

func WithMemoryManager(m MemoryManager) Option { return func(c *Config) { c.MemoryManager = m } }

func WithPool(p *Pool) Option { return func(c *Config) { c.Pool = p } }

func WithPoolSoftCap(n int) Option { return func(c *Config) { c.PoolSoftCap = n } }

func WithKeepAliveInterval(d time.Duration) Option {
	return func(c *Config) { c.KeepAliveInterval = d }
}

func WithRequestTimeout(d time.Duration) Option { return func(c *Config) { c.RequestTimeout = d } }

func WithSubProtocol(s string) Option { return func(c *Config) { c.SubProtocol = s } }

func WithHeaderEncoding(e *HeaderEncoding) Option { return func(c *Config) { c.HeaderEncoding = e } }

func WithDebugLog(l Logger) Option { return func(c *Config) { c.DebugLog = l } }

func WithControlFrameHandler(f func([]byte)) Option {
	return func(c *Config) { c.ControlFrameHandler = f }
}
