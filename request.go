// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fbm

import "io"

// requestState tracks a Request's lifecycle: Fresh -> Built -> InFlight
// -> Completed -> (Fresh on pool return | Disposed).
type requestState uint8

const (
	stateFresh requestState = iota
	stateBuilt
	stateInFlight
	stateCompleted
	stateDisposed
)

// Request is a rentable request object owning exactly one FixedBuffer.
// It is not thread-safe: a single caller owns it from Rent through
// Return.
type Request struct {
	id       int32
	buf      *FixedBuffer
	wait     *waiter
	enc      *HeaderEncoding
	state    requestState
	response *Response
	bodyOpen bool
}

func newRequest(buf *FixedBuffer, enc *HeaderEncoding) *Request {
	return &Request{buf: buf, wait: newWaiter(), enc: enc}
}

// reset rewrites the message-id record at offset 0 and returns the
// request to the Fresh state, discarding any previously built bytes,
// delivered response, and header scratch claims.
func (r *Request) reset(id int32) error {
	r.buf.Reset()
	if err := writeMessageID(r.buf, id); err != nil {
		return err
	}
	r.id = id
	r.state = stateFresh
	r.response = nil
	r.bodyOpen = false
	return nil
}

// MessageID returns the request's fixed message-id.
func (r *Request) MessageID() int32 { return r.id }

// Length returns the number of bytes built so far (at least the 7-byte
// message-id record once Reset has run).
func (r *Request) Length() int { return r.buf.Written() }

// RequestData returns a read-only view of the bytes accumulated so far.
func (r *Request) RequestData() []byte { return r.buf.AccumulatedSpan() }

// WriteHeader appends a header record. It fails with ErrBufferFull
// without writing a partial record if there is insufficient capacity,
// and with ErrInvalidRequest once the body has been opened.
func (r *Request) WriteHeader(cmd HeaderCommand, value string) error {
	if r.bodyOpen {
		return ErrInvalidRequest
	}
	encoded, err := r.enc.Encode(value)
	if err != nil {
		return err
	}
	if err := writeHeader(r.buf, cmd, encoded); err != nil {
		return err
	}
	r.state = stateBuilt
	return nil
}

// WriteBody closes the header section by writing the end-of-headers
// terminator and appends body bytes verbatim, recording contentType as a
// ContentType header beforehand when non-empty. It fails with
// ErrInvalidRequest once the body has been opened.
func (r *Request) WriteBody(body []byte, contentType string) error {
	if r.bodyOpen {
		return ErrInvalidRequest
	}
	if contentType != "" {
		if err := r.WriteHeader(CommandContentType, contentType); err != nil {
			return err
		}
	}
	if err := writeBody(r.buf, body); err != nil {
		return err
	}
	r.bodyOpen = true
	r.state = stateBuilt
	return nil
}

// bodyWriter streams body bytes into the request's buffer, closing the
// header section on first write.
type bodyWriter struct{ r *Request }

func (w *bodyWriter) Write(p []byte) (int, error) {
	if !w.r.bodyOpen {
		if err := writeTermination(w.r.buf); err != nil {
			return 0, err
		}
		w.r.bodyOpen = true
	}
	if err := w.r.buf.appendRecord(p); err != nil {
		return 0, err
	}
	w.r.state = stateBuilt
	return len(p), nil
}

// BodyWriter returns an io.Writer facade for streaming body bytes
// incrementally, closing the header section on the first write.
func (r *Request) BodyWriter() io.Writer { return &bodyWriter{r: r} }

// validate checks the send-time preconditions from spec.md §4.3:
// message-id != 0 and Length() >= 5 (at least the id record present).
func (r *Request) validate() error {
	if r.id == 0 || r.Length() < 5 {
		return ErrInvalidRequest
	}
	return nil
}

// deliver binds delivered response bytes to this request and completes
// its waiter. It is called only by the connection's receive loop and
// must not block. It returns false if the waiter was already terminal.
func (r *Request) deliver(raw []byte) bool {
	if !r.wait.complete(raw) {
		return false
	}
	r.state = stateCompleted
	return true
}

// GetResponse parses the delivered message (if any) into a Response. It
// fails with ErrUnsetResponse if no response was ever delivered. The
// returned Response borrows memory from this request's buffer and from
// the raw delivered bytes; it is invalid once the request is Reset or
// returned to its Pool.
func (r *Request) GetResponse() (*Response, error) {
	if r.response != nil {
		return r.response, nil
	}
	raw := r.wait.deliveredBytes()
	if raw == nil {
		return nil, ErrUnsetResponse
	}
	r.buf.beginScratch()
	line, rest, found := readLine(raw)
	if !found {
		return nil, ErrUnsetResponse
	}
	if _, ok := getMessageID(line); !ok {
		return nil, ErrUnsetResponse
	}
	headers, body, status := parseHeaders(rest, r.buf, r.enc)
	resp := &Response{raw: raw, headers: headers, body: body, status: status}
	r.response = resp
	return resp, nil
}

// release discards any response, clears header state, frees the buffer
// back to its MemoryManager, and moves the request to Disposed. It is
// called by Pool.Return and is idempotent.
func (r *Request) release(mgr MemoryManager) {
	if r.state == stateDisposed {
		return
	}
	r.response = nil
	r.wait.endRequest()
	mgr.Free(r.buf.buf)
	r.state = stateDisposed
}
