// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fbm

import "errors"

var (
	// ErrInvalidRequest reports a request with message-id == 0 or whose
	// built length is below the minimum id-record size.
	ErrInvalidRequest = errors.New("fbm: invalid request")

	// ErrDuplicateMessageID reports that a message-id is already present
	// in the pending map.
	ErrDuplicateMessageID = errors.New("fbm: duplicate message id")

	// ErrBufferFull reports that a write would exceed a fixed buffer's
	// remaining capacity. Callers must size buffers appropriately;
	// buffers are never grown.
	ErrBufferFull = errors.New("fbm: buffer full")

	// ErrNotConnected reports an operation invoked before Connect
	// completes or after the connection has closed.
	ErrNotConnected = errors.New("fbm: not connected")

	// ErrDisposed reports an operation on a request or pool that has
	// already been disposed.
	ErrDisposed = errors.New("fbm: disposed")

	// ErrOversizedMessage reports that assembling an inbound message
	// would exceed max-message-size. The message is dropped; the
	// connection stays open.
	ErrOversizedMessage = errors.New("fbm: oversized message")

	// ErrResponseTimedOut reports that a request's deadline elapsed
	// before a response arrived.
	ErrResponseTimedOut = errors.New("fbm: response timed out")

	// ErrCancelled reports cooperative cancellation of a send or wait.
	ErrCancelled = errors.New("fbm: cancelled")

	// ErrHeaderOutOfMem reports that the response header scratch space
	// was exhausted while parsing headers.
	ErrHeaderOutOfMem = errors.New("fbm: header scratch exhausted")

	// ErrUnsetResponse reports that a response was requested from a
	// request that never received one.
	ErrUnsetResponse = errors.New("fbm: response not set")

	// ErrInvalidHeaderRead reports a header line with zero bytes of
	// value where a command tag was expected.
	ErrInvalidHeaderRead = errors.New("fbm: invalid header read")

	// ErrHeaderEncoding reports that a header value could not be
	// represented under the configured header-encoding.
	ErrHeaderEncoding = errors.New("fbm: header value not representable under configured encoding")
)
