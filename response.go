// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fbm

// Response is a read-only view onto a completed request's delivered
// message. It borrows memory from the owning Request's buffer (for
// decoded header values) and from the raw delivered bytes (for the body
// span); it is valid only until the request is Reset or returned to its
// Pool.
type Response struct {
	raw     []byte
	headers []Header
	body    []byte
	status  ParseStatus
}

// Headers returns the parsed (command, value) pairs.
func (r *Response) Headers() []Header { return r.headers }

// Header returns the value of the first header matching cmd, if any.
func (r *Response) Header(cmd HeaderCommand) ([]byte, bool) {
	for _, h := range r.headers {
		if h.Command == cmd {
			return h.Value, true
		}
	}
	return nil, false
}

// Body returns the message body span.
func (r *Response) Body() []byte { return r.body }

// Raw returns the complete delivered message bytes, including headers.
func (r *Response) Raw() []byte { return r.raw }

// Status reports whether header parsing completed cleanly.
func (r *Response) Status() ParseStatus { return r.status }

// ThrowIfNotSet returns the error corresponding to Status when header
// parsing did not complete cleanly, matching spec.md's "caller may treat
// as fatal via throw_if_not_set": ErrHeaderOutOfMem if the header scratch
// area was exhausted or a header value could not be decoded,
// ErrInvalidHeaderRead if a header line had zero
// bytes of value. It returns nil when Status is ParseNone.
func (r *Response) ThrowIfNotSet() error {
	switch r.status {
	case ParseHeaderOutOfMem:
		return ErrHeaderOutOfMem
	case ParseInvalidHeaderRead:
		return ErrInvalidHeaderRead
	default:
		return nil
	}
}
