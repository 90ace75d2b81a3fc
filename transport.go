// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fbm

import (
	"context"
	"net/http"
	"net/url"
)

// MessageKind distinguishes a transport frame's payload kind, mirroring
// the WebSocket opcode space the core actually exercises.
type MessageKind uint8

const (
	KindBinary MessageKind = iota
	KindText
	KindClose
)

// Transport is the external collaborator this core multiplexes over. It
// is specified only at this contract boundary; the concrete WebSocket
// implementation lives in transport/wsconn and is out of scope for the
// core itself.
type Transport interface {
	// Connect dials uri with the given headers.
	Connect(ctx context.Context, uri *url.URL, header http.Header) error

	// Send writes one transport frame. endOfMessage marks the final
	// fragment of a logical message; callers may send several
	// endOfMessage=false frames followed by one endOfMessage=true frame
	// to stream a single logical message without interleaving with any
	// other logical message (the core guarantees this via its send-lock).
	Send(ctx context.Context, p []byte, kind MessageKind, endOfMessage bool) error

	// Receive reads into buf, returning the number of bytes read, whether
	// this was the final fragment of the current logical message, and the
	// frame's kind.
	Receive(ctx context.Context, buf []byte) (n int, endOfMessage bool, kind MessageKind, err error)

	// SendPing writes a keep-alive ping control frame.
	SendPing(ctx context.Context) error

	// Disconnect sends a close frame with the given status/reason and
	// tears down the underlying connection.
	Disconnect(ctx context.Context, status int, reason string) error
}
